// Package boot tracks startup milestones and runs the staged asset loading
// that precedes them.
package boot

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/glade/internal/logger"
)

// Stage is a named startup milestone.
type Stage string

const (
	RenderStarted      Stage = "renderStarted"
	FirstFrameRendered Stage = "firstFrameRendered"
	SetDressingReady   Stage = "setDressingReady"
	LandmarksReady     Stage = "landmarksReady"
	CharacterReady     Stage = "characterReady"
	AnimationsReady    Stage = "animationsReady"
)

// Stages lists every milestone in the order they are usually reached.
var Stages = []Stage{
	RenderStarted,
	FirstFrameRendered,
	SetDressingReady,
	LandmarksReady,
	CharacterReady,
	AnimationsReady,
}

// overlayStages must all be reached before the loading overlay may hide.
var overlayStages = []Stage{
	RenderStarted,
	FirstFrameRendered,
	CharacterReady,
	SetDressingReady,
	LandmarksReady,
}

// Snapshot is a point-in-time copy of the tracker, shaped for JSON.
type Snapshot struct {
	RunID          string            `json:"runId"`
	Stages         map[Stage]bool    `json:"stages"`
	Timings        map[Stage]float64 `json:"timings"`
	LastStage      Stage             `json:"lastStage"`
	OverlayVisible bool              `json:"overlayVisible"`
	Fatal          string            `json:"fatal,omitempty"`
}

// Tracker records when each stage was first reached. The game loop writes it;
// the debug server reads it from its own goroutines.
type Tracker struct {
	mu             sync.RWMutex
	runID          string
	start          time.Time
	now            func() time.Time
	reached        map[Stage]time.Duration
	last           Stage
	overlayVisible bool
	fatal          error
	log            *zap.Logger
}

// NewTracker creates a tracker with a fresh run id and the overlay showing.
func NewTracker() *Tracker {
	return newTracker(time.Now)
}

func newTracker(now func() time.Time) *Tracker {
	return &Tracker{
		runID:          uuid.NewString(),
		start:          now(),
		now:            now,
		reached:        make(map[Stage]time.Duration, len(Stages)),
		overlayVisible: true,
		log:            logger.Named("boot"),
	}
}

// RunID identifies this boot.
func (t *Tracker) RunID() string {
	return t.runID
}

// Mark records stage as reached. Only the first call per stage has an
// effect; it reports whether this call recorded the stage.
func (t *Tracker) Mark(stage Stage) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.reached[stage]; ok {
		return false
	}
	elapsed := t.now().Sub(t.start)
	t.reached[stage] = elapsed
	t.last = stage
	t.log.Info("boot stage reached", zap.String("stage", string(stage)), zap.Duration("elapsed", elapsed))
	return true
}

// Reached reports whether stage has been marked.
func (t *Tracker) Reached(stage Stage) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.reached[stage]
	return ok
}

// Elapsed returns the time from boot to stage, and whether it was reached.
func (t *Tracker) Elapsed(stage Stage) (time.Duration, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, ok := t.reached[stage]
	return d, ok
}

// LastStage returns the most recently reached stage.
func (t *Tracker) LastStage() Stage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

// OverlayVisible reports whether the loading overlay is still up.
func (t *Tracker) OverlayVisible() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.overlayVisible
}

// HideOverlay hides the overlay when every gating stage is reached. It
// succeeds at most once.
func (t *Tracker) HideOverlay() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.overlayVisible {
		return false
	}
	for _, s := range overlayStages {
		if _, ok := t.reached[s]; !ok {
			return false
		}
	}
	t.overlayVisible = false
	t.log.Info("loading overlay hidden", zap.Duration("elapsed", t.now().Sub(t.start)))
	return true
}

// ForceHide records a fatal boot error and hides the overlay regardless of
// the reached stages.
func (t *Tracker) ForceHide(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fatal == nil {
		t.fatal = err
	}
	if t.overlayVisible {
		t.overlayVisible = false
		t.log.Error("boot failed, hiding loading overlay", zap.Error(err), zap.String("lastStage", string(t.last)))
	}
}

// Progress is the fraction of overlay-gating stages reached.
func (t *Tracker) Progress() float32 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, st := range overlayStages {
		if _, ok := t.reached[st]; ok {
			n++
		}
	}
	return float32(n) / float32(len(overlayStages))
}

// Fatal returns the fatal boot error, if any.
func (t *Tracker) Fatal() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fatal
}

// Snapshot copies the tracker state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Snapshot{
		RunID:          t.runID,
		Stages:         make(map[Stage]bool, len(Stages)),
		Timings:        make(map[Stage]float64, len(t.reached)),
		LastStage:      t.last,
		OverlayVisible: t.overlayVisible,
	}
	for _, st := range Stages {
		d, ok := t.reached[st]
		s.Stages[st] = ok
		if ok {
			s.Timings[st] = float64(d.Microseconds()) / 1000
		}
	}
	if t.fatal != nil {
		s.Fatal = t.fatal.Error()
	}
	return s
}
