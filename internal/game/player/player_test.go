package player

import (
	"testing"

	"github.com/Faultbox/glade/internal/engine/mesh"
	"github.com/Faultbox/glade/internal/game/terrain"
	"github.com/Faultbox/glade/pkg/math"
)

type recordingAnimator struct {
	calls []string
	fades []float32
}

func (r *recordingAnimator) SetAction(name string, fade float32) bool {
	if len(r.calls) > 0 && r.calls[len(r.calls)-1] == name {
		return false
	}
	r.calls = append(r.calls, name)
	r.fades = append(r.fades, fade)
	return true
}

func (r *recordingAnimator) last() string {
	if len(r.calls) == 0 {
		return ""
	}
	return r.calls[len(r.calls)-1]
}

func newTestController() (*Controller, *recordingAnimator) {
	c := NewController(terrain.HeightAt)
	c.Player = New()
	a := &recordingAnimator{}
	c.SetActions(a)
	return c, a
}

func TestForwardInputDecreasesZ(t *testing.T) {
	c, a := newTestController()
	prev := c.Player.Position.Z
	for i := 0; i < 120; i++ {
		c.Update(1.0/60, Input{Up: true})
		if c.Player.Position.Z >= prev {
			t.Fatalf("frame %d: z = %v, not below %v", i, c.Player.Position.Z, prev)
		}
		prev = c.Player.Position.Z
	}
	if got := c.Player.Position.Z; got > -8.79 || got < -8.81 {
		t.Errorf("z after 2s = %v, want -8.8", got)
	}
	if c.Player.State != StateWalk || a.last() != "walk" {
		t.Errorf("state = %v, last action %q; want walk", c.Player.State, a.last())
	}
}

func TestDiagonalMoveIsNormalized(t *testing.T) {
	c, _ := newTestController()
	c.Update(1, Input{Up: true, Right: true})
	d := c.Player.Position.XZ().Length()
	if d < 4.39 || d > 4.41 {
		t.Errorf("diagonal distance = %v, want 4.4", d)
	}
}

func TestLeftAndRightCancel(t *testing.T) {
	c, a := newTestController()
	c.Update(0.5, Input{Left: true, Right: true})
	if c.Player.Position.X != 0 || c.Player.Position.Z != 0 {
		t.Errorf("position = %+v, want origin", c.Player.Position)
	}
	if a.last() != "idle" {
		t.Errorf("last action = %q, want idle", a.last())
	}
}

func TestFacing(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want float32
	}{
		{"forward", Input{Up: true}, 3.1415927},
		{"right", Input{Right: true}, 1.5707964},
		{"left", Input{Left: true}, -1.5707964},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController()
			c.Update(0.1, tt.in)
			if d := c.Player.Yaw - tt.want; d > 1e-5 || d < -1e-5 {
				t.Errorf("yaw = %v, want %v", c.Player.Yaw, tt.want)
			}
		})
	}
}

func TestJumpOnlyWhenGrounded(t *testing.T) {
	c, a := newTestController()
	if !c.Jump() {
		t.Fatal("jump from the ground should start")
	}
	if c.Player.VelocityY != JumpVelocity || a.last() != "jump" {
		t.Errorf("vy = %v, action %q", c.Player.VelocityY, a.last())
	}

	c.Update(0.1, Input{})
	if c.Jump() {
		t.Error("jump while airborne should be ignored")
	}
	if c.Player.State != StateJump {
		t.Errorf("state mid-air = %v, want jump", c.Player.State)
	}
}

func TestJumpWithoutPlayer(t *testing.T) {
	c := NewController(terrain.HeightAt)
	if c.Jump() {
		t.Error("jump without a player should be ignored")
	}
	c.Update(0.1, Input{Up: true})
}

func TestLandingNeverBelowTerrain(t *testing.T) {
	c, a := newTestController()
	c.Jump()
	landed := false
	for i := 0; i < 240; i++ {
		c.Update(1.0/30, Input{Up: true})
		p := c.Player
		ground := terrain.HeightAt(p.Position.X, p.Position.Z)
		if p.Position.Y < ground {
			t.Fatalf("frame %d: y = %v below terrain %v", i, p.Position.Y, ground)
		}
		if !p.Jumping {
			landed = true
			if p.Position.Y != ground || p.VelocityY != 0 {
				t.Fatalf("landed at y=%v vy=%v, want %v/0", p.Position.Y, p.VelocityY, ground)
			}
			break
		}
	}
	if !landed {
		t.Fatal("player never landed")
	}
	if a.last() != "walk" || a.fades[len(a.fades)-1] != FadeLanding {
		t.Errorf("after landing with input: %q fade %v, want walk/%v", a.last(), a.fades[len(a.fades)-1], FadeLanding)
	}
}

func TestLandingWithoutInputIdles(t *testing.T) {
	c, a := newTestController()
	c.Jump()
	for i := 0; i < 100 && c.Player.Jumping; i++ {
		c.Update(1.0/60, Input{})
	}
	if c.Player.Jumping {
		t.Fatal("player never landed")
	}
	if a.last() != "idle" {
		t.Errorf("last action = %q, want idle", a.last())
	}
}

func TestGroundedFollowsTerrain(t *testing.T) {
	c, _ := newTestController()
	c.Player.Position = math.V3(10, 5, 10)
	c.Update(0.016, Input{})
	if want := terrain.HeightAt(10, 10); c.Player.Position.Y != want {
		t.Errorf("y = %v, want %v", c.Player.Position.Y, want)
	}
}

func TestWorksWithoutActions(t *testing.T) {
	c := NewController(nil)
	c.Player = New()
	c.Update(0.5, Input{Up: true})
	if c.Player.State != StateWalk {
		t.Errorf("state = %v, want walk", c.Player.State)
	}
}

func TestNormalizeScaleAndGround(t *testing.T) {
	p := New()
	p.NormalizeScaleAndGround(mesh.Bounds{Min: math.V3(-0.5, -1, -0.5), Max: math.V3(0.5, 2.6, 0.5)})
	if p.Scale != 0.5 {
		t.Errorf("scale = %v, want 0.5", p.Scale)
	}
	if p.Lift != 0.5 {
		t.Errorf("lift = %v, want 0.5", p.Lift)
	}

	flat := New()
	flat.NormalizeScaleAndGround(mesh.Bounds{Min: math.V3(-1, 0, -1), Max: math.V3(1, 0, 1)})
	if flat.Scale != 1 || flat.Lift != 0 {
		t.Errorf("flat model: scale %v lift %v, want 1/0", flat.Scale, flat.Lift)
	}
}

func TestFallback(t *testing.T) {
	p, m := NewFallback()
	if !p.Fallback || len(m.Vertices) == 0 {
		t.Fatalf("fallback = %+v with %d vertices", p, len(m.Vertices))
	}
	if m.Vertices[0].Color != fallbackColor {
		t.Errorf("fallback color = %v, want %v", m.Vertices[0].Color, fallbackColor)
	}
	b := m.Bounds().Transform(p.Transform())
	ground := p.Position.Y
	if d := b.Min.Y - ground; d > 1e-4 || d < -1e-4 {
		t.Errorf("capsule bottom = %v, want %v", b.Min.Y, ground)
	}
}
