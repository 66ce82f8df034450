package shadow

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/glade/internal/engine/mesh"
	"github.com/Faultbox/glade/pkg/math"
)

// DefaultHalfSize is the half extent of the shadowed square around the focus.
const DefaultHalfSize = 24

// LightMatrix computes the view-projection of a directional light that casts
// from sunPos towards the origin, with the shadow frustum recentered on focus.
// halfSize bounds the shadowed square; bounds is the scene extent used to size
// the depth range and may be empty.
func LightMatrix(sunPos, focus math.Vec3, halfSize float32, bounds mesh.Bounds) math.Mat4 {
	dir := sunPos.Normalize()
	if dir.Length() == 0 {
		dir = math.Vec3{Y: 1}
	}
	if halfSize <= 0 {
		halfSize = DefaultHalfSize
	}

	depth := halfSize * 2
	if !bounds.IsEmpty() {
		size := bounds.Size()
		if r := size.Length() / 2; r > depth {
			depth = r
		}
	}

	// Snap the focus to shadow texels so edges do not crawl while walking.
	texel := halfSize * 2 / DefaultResolution
	focus.X = math32.Floor(focus.X/texel) * texel
	focus.Z = math32.Floor(focus.Z/texel) * texel

	eye := focus.Add(dir.Scale(depth))
	up := math.Vec3{Y: 1}
	if math32.Abs(dir.Y) > 0.99 {
		up = math.Vec3{Z: 1}
	}

	view := math.LookAt(eye, focus, up)
	proj := math.Ortho(-halfSize, halfSize, -halfSize, halfSize, 0.1, depth*2)
	return proj.Mul(view)
}
