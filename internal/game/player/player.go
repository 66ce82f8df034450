// Package player implements the keyboard-driven movement, jump physics and
// animation state machine of the player character.
package player

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/glade/internal/engine/mesh"
	"github.com/Faultbox/glade/pkg/math"
)

// Movement tuning.
const (
	MoveSpeed    = 4.4
	Gravity      = 26
	JumpVelocity = 9
	TargetHeight = 1.8
)

// Crossfade durations in seconds.
const (
	FadeJump        = 0.08
	FadeWalk        = 0.16
	FadeIdle        = 0.2
	FadeLanding     = 0.14
	FadeInitialIdle = 0.01
)

// Fallback capsule dimensions.
const (
	fallbackRadius = 0.35
	fallbackLength = 1.2
)

var fallbackColor = math.Hex(0x3678d6)

// State is the animation state of the player.
type State int

const (
	StateIdle State = iota
	StateWalk
	StateJump
)

// String returns the clip name used for the state.
func (s State) String() string {
	switch s {
	case StateWalk:
		return "walk"
	case StateJump:
		return "jump"
	default:
		return "idle"
	}
}

// Input is the set of held movement keys.
type Input struct {
	Up    bool
	Left  bool
	Right bool
}

// Move returns the unnormalized ground-plane direction for the held keys.
func (in Input) Move() math.Vec3 {
	var v math.Vec3
	if in.Up {
		v.Z--
	}
	if in.Left {
		v.X--
	}
	if in.Right {
		v.X++
	}
	return v
}

// Player is the character the user controls.
type Player struct {
	Position  math.Vec3
	Scale     float32
	Yaw       float32
	State     State
	VelocityY float32
	Jumping   bool

	// Lift raises the model so its lowest point sits on Position.
	Lift float32
	// Fallback is set when the rig failed to load and a capsule stands in.
	Fallback bool
}

// New creates a player at the origin with unit scale.
func New() *Player {
	return &Player{Scale: 1}
}

// NewFallback creates the capsule stand-in used when the rig cannot be loaded.
func NewFallback() (*Player, *mesh.Mesh) {
	p := New()
	p.Position = math.V3(0, 1, 0)
	p.Lift = fallbackRadius + fallbackLength/2
	p.Fallback = true

	m := mesh.Capsule(fallbackRadius, fallbackLength, 5, 12)
	m.SetColor(fallbackColor)
	return p, m
}

// NormalizeScaleAndGround scales the player so the model is TargetHeight tall
// and lifts it so its feet rest on the player position. bounds is the model's
// bounding box at unit scale.
func (p *Player) NormalizeScaleAndGround(bounds mesh.Bounds) {
	if bounds.IsEmpty() {
		return
	}
	size := bounds.Size()
	if size.Y > 0.0001 {
		p.Scale *= TargetHeight / size.Y
	}
	p.Lift = -bounds.Min.Y * p.Scale
}

// Transform returns the model matrix of the player.
func (p *Player) Transform() math.Mat4 {
	t := math.Translate(p.Position.Add(math.V3(0, p.Lift, 0)))
	return t.Mul(math.RotateY(p.Yaw)).Mul(math.Scale(math.V3(p.Scale, p.Scale, p.Scale)))
}

// FaceTowards turns the player to look along the ground-plane direction d.
func (p *Player) FaceTowards(d math.Vec3) {
	if d.X == 0 && d.Z == 0 {
		return
	}
	p.Yaw = math32.Atan2(d.X, d.Z)
}
