package boot

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/Faultbox/glade/internal/logger"
)

// Apply mutates the scene with the product of a step. It runs on the game
// loop thread.
type Apply func()

// Step is one stage of the boot chain.
type Step struct {
	Name string
	// Stage is marked once the step's result, or its fallback, is applied.
	Stage Stage
	// Load runs on the loader goroutine and must not touch the scene or GPU.
	Load func(ctx context.Context) (Apply, error)
	// Fallback builds a substitute when Load fails. Nil means the failure
	// is only logged and Stage stays unmarked.
	Fallback func(err error) Apply
}

// Outcome is what one step delivers to the game loop.
type Outcome struct {
	Step  string
	Stage Stage
	Apply Apply
	Err   error
	// Fatal is set when the chain itself broke; no further outcomes follow.
	Fatal error
}

// Sequence runs steps one after another on a background goroutine.
type Sequence struct {
	steps   []Step
	results chan Outcome
	log     *zap.Logger
}

// NewSequence creates a sequence over steps.
func NewSequence(steps ...Step) *Sequence {
	return &Sequence{
		steps:   steps,
		results: make(chan Outcome, len(steps)+1),
		log:     logger.Named("boot"),
	}
}

// Results delivers outcomes in step order. It is closed when the chain ends.
func (s *Sequence) Results() <-chan Outcome {
	return s.results
}

// Start launches the chain. Cancelling ctx stops it before the next step.
func (s *Sequence) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Sequence) run(ctx context.Context) {
	defer close(s.results)
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("boot chain panicked: %v", r)
			s.log.Error("boot chain aborted", zap.Error(err))
			s.results <- Outcome{Fatal: err}
		}
	}()

	tracer := otel.Tracer("github.com/Faultbox/glade/internal/game/boot")
	ctx, root := tracer.Start(ctx, "boot")
	defer root.End()

	for _, step := range s.steps {
		if ctx.Err() != nil {
			return
		}

		stepCtx, span := tracer.Start(ctx, "boot."+step.Name)
		span.SetAttributes(attribute.String("boot.stage", string(step.Stage)))

		apply, err := loadStep(stepCtx, step)
		out := Outcome{Step: step.Name, Stage: step.Stage, Apply: apply, Err: err}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			out.Apply = nil
			if step.Fallback != nil {
				s.log.Warn("boot step failed, using fallback", zap.String("step", step.Name), zap.Error(err))
				out.Apply = step.Fallback(err)
			} else {
				s.log.Warn("boot step failed", zap.String("step", step.Name), zap.Error(err))
			}
		}
		span.End()

		s.results <- out
	}
}

// loadStep runs one Load. A panic becomes that step's error so its fallback
// still applies and the chain goes on.
func loadStep(ctx context.Context, step Step) (apply Apply, err error) {
	defer func() {
		if r := recover(); r != nil {
			apply, err = nil, fmt.Errorf("%s step panicked: %v", step.Name, r)
		}
	}()
	return step.Load(ctx)
}

// Drain applies every outcome that has arrived without blocking. A panic
// while applying is treated like a broken chain. It reports whether the
// chain has finished.
func (s *Sequence) Drain(t *Tracker) (done bool) {
	for {
		select {
		case out, ok := <-s.results:
			if !ok {
				return true
			}
			s.apply(t, out)
		default:
			return false
		}
	}
}

func (s *Sequence) apply(t *Tracker, out Outcome) {
	if out.Fatal != nil {
		t.ForceHide(out.Fatal)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			t.ForceHide(fmt.Errorf("apply %s: %v", out.Step, r))
		}
	}()
	if out.Apply == nil && out.Err != nil {
		return
	}
	if out.Apply != nil {
		out.Apply()
	}
	if out.Stage != "" {
		t.Mark(out.Stage)
	}
}
