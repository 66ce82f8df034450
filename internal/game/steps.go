package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/Faultbox/glade/internal/config"
	"github.com/Faultbox/glade/internal/engine/anim"
	"github.com/Faultbox/glade/internal/engine/model"
	"github.com/Faultbox/glade/internal/engine/scene"
	"github.com/Faultbox/glade/internal/game/boot"
	"github.com/Faultbox/glade/internal/game/player"
	"github.com/Faultbox/glade/internal/game/world"
)

// errNoRig skips the clip step when the rig fell back to the capsule.
var errNoRig = errors.New("character rig not loaded")

// assetLoader runs on the boot goroutine. Once the rig is handed to the loop,
// only its model, which never changes, is read here.
type assetLoader struct {
	assets config.AssetsConfig
	rig    *rig
}

// bootSteps wires the loaders to the scene. Load funcs only build CPU-side
// data; the returned Apply funcs run on the loop thread.
func (g *Game) bootSteps() []boot.Step {
	l := &assetLoader{assets: g.cfg.Assets}
	add := func(nodes []*scene.Node) boot.Apply {
		return func() { g.scene.Add(nodes...) }
	}

	return []boot.Step{
		{
			Name:  "props",
			Stage: boot.SetDressingReady,
			Load: func(ctx context.Context) (boot.Apply, error) {
				nodes, err := world.LoadProps(ctx, l.propPaths())
				if err != nil {
					return nil, err
				}
				return add(nodes), nil
			},
			Fallback: func(error) boot.Apply { return add(world.FallbackProps()) },
		},
		{
			Name:  "landmarks",
			Stage: boot.LandmarksReady,
			Load: func(ctx context.Context) (boot.Apply, error) {
				return add(world.LoadLandmarks(ctx, l.landmarkPaths())), nil
			},
		},
		{
			Name:  "character",
			Stage: boot.CharacterReady,
			Load: func(context.Context) (boot.Apply, error) {
				p, r, err := l.loadRig()
				if err != nil {
					return nil, err
				}
				return func() { g.installPlayer(p, r) }, nil
			},
			Fallback: func(error) boot.Apply {
				p, m := player.NewFallback()
				node := scene.NewNode("playerFallback", m, p.Transform())
				node.CastShadow = true
				return func() { g.installPlayer(p, fallbackRig(node)) }
			},
		},
		{
			Name:  "clips",
			Stage: boot.AnimationsReady,
			Load: func(ctx context.Context) (boot.Apply, error) {
				mixer, err := l.loadClips(ctx)
				if err != nil {
					return nil, err
				}
				return func() { g.installMixer(mixer) }, nil
			},
		},
	}
}

func (l *assetLoader) propPaths() world.PropPaths {
	return world.PropPaths{
		Tree:     l.assets.Path(l.assets.Props.Tree),
		Rock:     l.assets.Path(l.assets.Props.Rock),
		LogStack: l.assets.Path(l.assets.Props.LogStack),
	}
}

func (l *assetLoader) landmarkPaths() map[string]string {
	out := make(map[string]string, len(l.assets.Landmarks))
	for name, p := range l.assets.Landmarks {
		out[name] = l.assets.Path(p)
	}
	return out
}

func (l *assetLoader) loadRig() (*player.Player, *rig, error) {
	m, err := model.Load(l.assets.Path(l.assets.Character))
	if err != nil {
		return nil, nil, fmt.Errorf("load character: %w", err)
	}
	p := player.New()
	p.NormalizeScaleAndGround(m.Bounds)

	l.rig = newRig(m)
	return p, l.rig, nil
}

// loadClips builds the idle, walk and jump actions. The idle clip comes from
// the rig unless a separate file is configured; the files load in parallel.
func (l *assetLoader) loadClips(ctx context.Context) (*anim.Mixer, error) {
	if l.rig == nil {
		return nil, errNoRig
	}
	paths := []string{
		l.assets.Path(l.assets.Clips.Walk),
		l.assets.Path(l.assets.Clips.Jump),
	}
	separateIdle := l.assets.Clips.Idle != "" && l.assets.Clips.Idle != l.assets.Character
	if separateIdle {
		paths = append(paths, l.assets.Path(l.assets.Clips.Idle))
	}

	models, err := model.LoadAll(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("load clips: %w", err)
	}
	idle := l.rig.model
	if separateIdle {
		idle = models[2]
	}
	return buildMixer(l.rig, idle, models[0], models[1])
}

// buildMixer takes the first clip of each file and binds it to the rig.
func buildMixer(r *rig, idle, walk, jump *model.Model) (*anim.Mixer, error) {
	sources := []struct {
		state player.State
		from  *model.Model
		loop  anim.Loop
	}{
		{player.StateIdle, idle, anim.LoopRepeat},
		{player.StateWalk, walk, anim.LoopRepeat},
		{player.StateJump, jump, anim.LoopOnce},
	}

	mixer := anim.NewMixer()
	for _, src := range sources {
		clip, err := src.from.FirstClip()
		if err != nil {
			return nil, fmt.Errorf("%s clip in %s: %w", src.state, src.from.Name, err)
		}
		bound := r.bind(clip)
		bound.Name = src.state.String()
		a := mixer.Add(bound, src.loop)
		a.ClampWhenFinished = src.loop == anim.LoopOnce
	}
	return mixer, nil
}
