// Package camera provides the orbiting follow camera of the scene.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/glade/pkg/math"
)

// FollowCamera orbits a target point that softly tracks the player. User
// drag and zoom input is damped; distance and polar angle are clamped on
// every Update.
type FollowCamera struct {
	Position math.Vec3
	Target   math.Vec3

	// Projection
	FOV    float32 // Vertical field of view, degrees
	Aspect float32
	Near   float32
	Far    float32

	// Constraints
	MinDistance float32
	MaxDistance float32
	MaxPolar    float32 // Radians from straight up

	// Input response
	DampingFactor   float32
	DragSensitivity float32
	ZoomSensitivity float32

	// FollowHeight lifts the target above the followed point.
	FollowHeight float32

	thetaDelta float32
	phiDelta   float32
	zoomScale  float32
}

// NewFollowCamera creates the camera at its starting pose.
func NewFollowCamera(aspect float32) *FollowCamera {
	return &FollowCamera{
		Position:        math.V3(0, 4, 9),
		Target:          math.V3(0, 1.25, 0),
		FOV:             60,
		Aspect:          aspect,
		Near:            0.1,
		Far:             300,
		MinDistance:     3,
		MaxDistance:     18,
		MaxPolar:        math32.Pi * 0.48,
		DampingFactor:   0.05,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FollowHeight:    1.2,
		zoomScale:       1,
	}
}

// SetAspect updates the projection for a new viewport size.
func (c *FollowCamera) SetAspect(width, height int) {
	if height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// Follow moves the target towards focus lifted by FollowHeight. The blend
// factor 1 - 0.001^dt is frame-rate independent.
func (c *FollowCamera) Follow(focus math.Vec3, dt float32) {
	desired := focus.Add(math.V3(0, c.FollowHeight, 0))
	c.Target = c.Target.Lerp(desired, math.Damp(0.001, dt))
}

// Reframe aims at center from a fixed offset, used once the character
// bounds are known.
func (c *FollowCamera) Reframe(center math.Vec3) {
	c.Target = center
	c.Position = center.Add(math.V3(3.2, 2.2, 5.8))
}

// HandleDrag queues an orbit by mouse drag delta in pixels.
func (c *FollowCamera) HandleDrag(deltaX, deltaY float32) {
	c.thetaDelta -= deltaX * c.DragSensitivity
	c.phiDelta -= deltaY * c.DragSensitivity
}

// HandleZoom queues a dolly by scroll wheel delta.
func (c *FollowCamera) HandleZoom(delta float32) {
	c.zoomScale *= 1 - delta*c.ZoomSensitivity
}

// Update applies queued input and the constraints to the camera position.
func (c *FollowCamera) Update() {
	offset := c.Position.Sub(c.Target)
	radius := offset.Length()
	theta := math32.Atan2(offset.X, offset.Z)
	phi := float32(0)
	if radius > 0 {
		phi = math32.Acos(math.Clamp(offset.Y/radius, -1, 1))
	}

	theta += c.thetaDelta * c.DampingFactor
	phi += c.phiDelta * c.DampingFactor
	c.thetaDelta *= 1 - c.DampingFactor
	c.phiDelta *= 1 - c.DampingFactor

	const eps = 0.000001
	phi = math.Clamp(phi, eps, c.MaxPolar)
	radius = math.Clamp(radius*c.zoomScale, c.MinDistance, c.MaxDistance)
	c.zoomScale = 1

	sinPhi := math32.Sin(phi)
	c.Position = c.Target.Add(math.V3(
		radius*sinPhi*math32.Sin(theta),
		radius*math32.Cos(phi),
		radius*sinPhi*math32.Cos(theta),
	))
}

// Distance returns the current camera to target distance.
func (c *FollowCamera) Distance() float32 {
	return c.Position.Distance(c.Target)
}

// ViewMatrix returns the view matrix.
func (c *FollowCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, math.V3(0, 1, 0))
}

// ProjectionMatrix returns the perspective projection.
func (c *FollowCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FOV*math32.Pi/180, c.Aspect, c.Near, c.Far)
}
