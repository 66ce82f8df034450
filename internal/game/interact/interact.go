// Package interact implements the glowing orb the player can toggle.
package interact

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/glade/internal/engine/mesh"
	"github.com/Faultbox/glade/pkg/math"
)

const (
	// Radius is how close the player must be to toggle the orb.
	Radius = 2.2
	// StatusDuration is how long the status line stays on screen, in seconds.
	StatusDuration = 1.4

	Prompt         = "Press E to inspect glowing orb"
	StatusAttuned  = "Orb attuned. Ancient mechanism hums to life."
	StatusCalmDown = "Orb calms down."
)

// BasePosition is where the pedestal stands.
var BasePosition = math.V3(4.5, 0.12, -2.8)

var (
	idleColor      = math.Hex(0x9ed6ff)
	idleEmissive   = math.Hex(0x4b7fd3)
	activeColor    = math.Hex(0xb5ffc8)
	activeEmissive = math.Hex(0x2b965f)
	baseColor      = math.Hex(0x4a5b75)
)

// Orb is the interactable pedestal and the floating sphere on it.
type Orb struct {
	Activated bool

	// OrbHeight is the sphere's offset above the base.
	OrbHeight float32
	// EmissiveIntensity scales the sphere glow.
	EmissiveIntensity float32

	InRange bool

	status      string
	statusTimer float32
	elapsed     float32
}

// New creates an orb in its calm state.
func New() *Orb {
	return &Orb{OrbHeight: 0.42, EmissiveIntensity: 0.7}
}

// CanInteract reports whether a player at pos is close enough to the orb.
func CanInteract(pos math.Vec3) bool {
	return pos.Distance(BasePosition) <= Radius
}

// TryInteract toggles the orb when the player is in range and reports
// whether it did.
func (o *Orb) TryInteract(playerPos math.Vec3) bool {
	if !CanInteract(playerPos) {
		return false
	}
	o.Activated = !o.Activated
	if o.Activated {
		o.status = StatusAttuned
	} else {
		o.status = StatusCalmDown
	}
	o.statusTimer = StatusDuration
	return true
}

// Update advances the bob and glow animation by dt and refreshes the prompt.
// playerPos is nil while the player does not exist yet.
func (o *Orb) Update(dt float32, playerPos *math.Vec3) {
	o.elapsed += dt
	if o.statusTimer > 0 {
		o.statusTimer -= dt
		if o.statusTimer <= 0 {
			o.statusTimer = 0
			o.status = ""
		}
	}

	o.InRange = playerPos != nil && CanInteract(*playerPos)

	t := o.elapsed
	o.OrbHeight = 0.42 + math32.Sin(t*2.2)*0.06
	if o.Activated {
		o.EmissiveIntensity = 1.05
	} else {
		o.EmissiveIntensity = 0.65 + (math32.Sin(t*4.4)+1)*0.12
	}
}

// Status returns the transient status line, or "" when none is showing.
func (o *Orb) Status() string {
	return o.status
}

// Color returns the sphere albedo and emissive colors.
func (o *Orb) Color() (albedo, emissive math.Color) {
	if o.Activated {
		return activeColor, activeEmissive
	}
	return idleColor, idleEmissive
}

// BaseMesh builds the pedestal.
func BaseMesh() *mesh.Mesh {
	m := mesh.Cylinder(0.45, 0.6, 0.25, 24)
	m.SetColor(baseColor)
	return m
}

// SphereMesh builds the orb. Its color is set per frame from Color.
func SphereMesh() *mesh.Mesh {
	return mesh.Sphere(0.38, 24, 24)
}
