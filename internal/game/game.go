// Package game implements the main loop of the glade scene.
package game

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/glade/internal/config"
	"github.com/Faultbox/glade/internal/engine/anim"
	"github.com/Faultbox/glade/internal/engine/audio"
	"github.com/Faultbox/glade/internal/engine/camera"
	"github.com/Faultbox/glade/internal/engine/debug"
	"github.com/Faultbox/glade/internal/engine/input"
	"github.com/Faultbox/glade/internal/engine/mesh"
	"github.com/Faultbox/glade/internal/engine/renderer"
	"github.com/Faultbox/glade/internal/engine/scene"
	"github.com/Faultbox/glade/internal/engine/window"
	"github.com/Faultbox/glade/internal/game/boot"
	"github.com/Faultbox/glade/internal/game/hud"
	"github.com/Faultbox/glade/internal/game/interact"
	"github.com/Faultbox/glade/internal/game/player"
	"github.com/Faultbox/glade/internal/game/terrain"
	"github.com/Faultbox/glade/internal/game/world"
	"github.com/Faultbox/glade/internal/logger"
	"github.com/Faultbox/glade/pkg/math"
)

// Title is the window title prefix.
const Title = "Glade"

// FrameObserver receives per-frame timings, e.g. the debug metrics.
type FrameObserver interface {
	ObserveFrame(frameTime time.Duration, drawCalls int)
}

// Game is the main game instance. Everything except the boot tracker is
// owned by the thread that calls Run.
type Game struct {
	cfg      *config.Config
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	audio    *audio.Manager
	log      *zap.Logger

	scene  *scene.Scene
	ground *world.Ground
	camera *camera.FollowCamera
	sim    *simulation
	bounds *scene.Node

	tracker  *boot.Tracker
	seq      *boot.Sequence
	observer FrameObserver
	hud      hud.HUD
}

// New creates the window, renderer and scene. Assets load later, in Run.
func New(cfg *config.Config) (*Game, error) {
	log := logger.Named("game")
	log.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Bool("slow", cfg.Scene.SlowMotion),
	)

	g := &Game{cfg: cfg, log: log, tracker: boot.NewTracker()}

	// Create window (this also creates OpenGL context)
	var err error
	g.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		MSAA:       cfg.Graphics.MSAA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	dw, dh := g.window.DrawableSize()
	shadowRes := cfg.Graphics.ShadowMapSize
	if shadowRes == 0 {
		shadowRes = -1
	}
	g.renderer, err = renderer.New(renderer.Config{
		Width:            dw,
		Height:           dh,
		MSAA:             cfg.Graphics.MSAA,
		ShadowResolution: shadowRes,
	})
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.input = input.New()
	g.audio = newAudio(cfg, log)

	g.scene = scene.NewScene()
	grid := terrain.NewGrid(terrain.NewTint(cfg.Scene.TintSeed, cfg.Scene.TintAmplitude))
	g.ground = world.AddGround(g.scene, grid)

	w, h := g.window.GetSize()
	g.camera = camera.NewFollowCamera(float32(w) / float32(h))

	g.sim = newSimulation(g.scene, cfg.Scene.SlowMotion, cfg.Scene.SlowScale)
	g.seq = boot.NewSequence(g.bootSteps()...)
	g.hud.ShowFPS = cfg.Debug.ShowFPS

	log.Info("game initialized", zap.String("run_id", g.tracker.RunID()))
	return g, nil
}

func newAudio(cfg *config.Config, log *zap.Logger) *audio.Manager {
	if !cfg.Audio.Enabled {
		return nil
	}
	m := audio.New()
	if err := m.Init(); err != nil {
		log.Warn("audio unavailable", zap.Error(err))
		return nil
	}
	m.SetMasterVolume(float64(cfg.Audio.MasterVolume))
	m.SetSFXVolume(float64(cfg.Audio.SFXVolume))

	if p := cfg.Assets.Path(cfg.Assets.Chime); p != "" {
		data, err := os.ReadFile(p)
		if err == nil {
			err = m.LoadChime(data)
		}
		if err != nil {
			log.Warn("chime sample not loaded, using synthesized chime", zap.String("path", p), zap.Error(err))
		}
	}
	return m
}

// Tracker returns the boot tracker. It is safe to read from any goroutine.
func (g *Game) Tracker() *boot.Tracker {
	return g.tracker
}

// SetFrameObserver installs an observer called after every frame.
func (g *Game) SetFrameObserver(o FrameObserver) {
	g.observer = o
}

// Run starts the boot sequence and the main loop. It returns when the window
// is closed, Escape is pressed or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g.seq.Start(ctx)

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	g.log.Info("starting game loop")

	for ctx.Err() == nil {
		now := time.Now()
		frameTime := now.Sub(lastTime)
		lastTime = now

		if g.input.Update() {
			break
		}
		g.handleEvents()

		if g.seq != nil && g.seq.Drain(g.tracker) {
			g.seq = nil
			g.log.Info("boot sequence finished", zap.String("last_stage", string(g.tracker.LastStage())))
		}

		g.tracker.Mark(boot.RenderStarted)
		real := float32(frameTime.Seconds())
		g.sim.step(real, g.movement(), g.ground, g.camera)

		if g.cfg.Debug.ShowBounds {
			g.updateBounds()
		}
		stats := g.renderer.Render(g.scene, g.camera, g.sim.focus(g.camera))
		if g.tracker.OverlayVisible() {
			g.renderer.DrawOverlay(g.tracker.Progress())
		}
		g.window.SwapBuffers()

		g.tracker.Mark(boot.FirstFrameRendered)
		g.tracker.HideOverlay()

		if g.observer != nil {
			g.observer.ObserveFrame(frameTime, stats.DrawCalls)
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.hud.FPS = frameCount
			g.log.Debug("fps", zap.Int("count", frameCount), zap.Int("draw_calls", stats.DrawCalls), zap.Int("triangles", stats.Triangles))
			frameCount = 0
			fpsTimer = time.Now()
		}
		g.refreshHUD()
	}

	return nil
}

func (g *Game) movement() player.Input {
	return player.Input{
		Up:    g.input.Held(input.KeyArrowUp),
		Left:  g.input.Held(input.KeyArrowLeft),
		Right: g.input.Held(input.KeyArrowRight),
	}
}

func (g *Game) handleEvents() {
	for _, ev := range g.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			g.camera.SetAspect(ev.Width, ev.Height)
			g.renderer.Resize(g.window.DrawableSize())
		case input.EventMouseDrag:
			g.camera.HandleDrag(ev.DeltaX, ev.DeltaY)
		case input.EventMouseWheel:
			g.camera.HandleZoom(ev.DeltaY)
		case input.EventKeyDown:
			g.keyDown(ev.Key, ev.Repeat)
		}
	}
}

// keyDown handles actions. Held Space keeps jumping on landing; E and T
// ignore key repeat.
func (g *Game) keyDown(k input.Key, repeat bool) {
	switch k {
	case input.KeySpace:
		g.sim.controller.Jump()
	case input.KeyE:
		if repeat {
			return
		}
		if toggled, activated := g.sim.interact(); toggled {
			g.log.Info("orb toggled", zap.Bool("activated", activated))
			g.chime(activated)
		}
	case input.KeyT:
		if repeat {
			return
		}
		slow := g.sim.toggleSlow()
		g.log.Info("time scale changed", zap.Bool("slow", slow), zap.Float32("scale", g.sim.timeScale))
	}
}

func (g *Game) chime(activated bool) {
	if g.audio == nil {
		return
	}
	if err := g.audio.PlayChime(activated); err != nil {
		g.log.Warn("chime failed", zap.Error(err))
	}
}

// updateBounds rebuilds the wireframe around every model. Terrain and line
// meshes are left out.
func (g *Game) updateBounds() {
	m := debug.SceneBounds(g.scene, func(n *scene.Node) bool {
		return n == g.bounds || n.Mesh == nil || n.Mesh.Mode == mesh.Lines || strings.HasPrefix(n.Name, "terrain")
	})
	if g.bounds == nil {
		g.bounds = scene.NewNode("debugBounds", m, math.Identity())
		g.bounds.Material.Unlit = true
		g.scene.Add(g.bounds)
		return
	}
	g.bounds.Mesh = m
}

func (g *Game) refreshHUD() {
	g.hud.Mode = hud.ModeText(g.sim.slow)
	g.hud.Prompt = ""
	if g.sim.orb.InRange {
		g.hud.Prompt = interact.Prompt
	}
	g.hud.Status = g.sim.orb.Status()
	g.hud.Loading = g.tracker.OverlayVisible()
	g.hud.Progress = g.tracker.Progress()
	g.hud.Phase = string(g.tracker.LastStage())
	g.window.SetTitle(g.hud.Title(Title))
}

// Close cleans up game resources.
func (g *Game) Close() {
	g.log.Info("closing game")

	if g.audio != nil {
		g.audio.Close()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}

// installMixer is applied on the loop thread once clips are ready.
func (g *Game) installMixer(m *anim.Mixer) {
	g.sim.mixer = m
	g.sim.controller.SetActions(m)
}

// installPlayer is applied on the loop thread once the rig or its fallback
// is ready.
func (g *Game) installPlayer(p *player.Player, r *rig) {
	g.sim.controller.Player = p
	g.sim.rig = r
	r.pose(p.Transform(), nil)
	g.scene.Add(r.nodes...)
	if !p.Fallback {
		g.camera.Reframe(r.bounds().Center())
	}
}
