// Package terrain builds the fixed 2x2 grid of height-mapped ground chunks
// and decides which of them are visible from the player.
package terrain

import (
	"github.com/aquilax/go-perlin"
	"github.com/chewxy/math32"

	"github.com/Faultbox/glade/internal/engine/mesh"
	"github.com/Faultbox/glade/pkg/math"
)

const (
	// ChunkSize is the edge length of one chunk in world units.
	ChunkSize = 110
	// ChunkSegments is the number of grid cells along each chunk edge.
	ChunkSegments = 45
	// VisibilityDistance is the max player-to-center distance of a visible chunk.
	VisibilityDistance = 125
	// OverlaySegments is the cell count of the contour wireframe.
	OverlaySegments = 16
	// OverlayLift raises the wireframe above y=0 to avoid z-fighting.
	OverlayLift = 0.025
	// OverlayOpacity is the alpha of the contour wireframe.
	OverlayOpacity = 0.07
)

var (
	lowColor     = math.Hex(0x2f5a4c)
	highColor    = math.Hex(0x7e9f6d)
	OverlayColor = math.Hex(0xc2d8ab)
)

// HeightAt returns the ground height at a world position. Placement,
// landing and chunk geometry all use this one closed-form function.
func HeightAt(x, z float32) float32 {
	rolling := math32.Sin(x*0.07) * math32.Cos(z*0.05) * 0.12
	patch := math32.Sin((x+z)*0.18) * 0.04
	return rolling + patch
}

// Tint adds low-frequency color variation on top of the height blend.
type Tint struct {
	noise     *perlin.Perlin
	amplitude float32
	frequency float64
}

// NewTint returns a perlin tint. An amplitude of zero disables it.
func NewTint(seed int64, amplitude float32) *Tint {
	if amplitude <= 0 {
		return nil
	}
	return &Tint{
		noise:     perlin.NewPerlin(2, 2, 3, seed),
		amplitude: amplitude,
		frequency: 0.045,
	}
}

// At returns a signed brightness offset for a world position.
func (t *Tint) At(x, z float32) float32 {
	if t == nil {
		return 0
	}
	return float32(t.noise.Noise2D(float64(x)*t.frequency, float64(z)*t.frequency)) * t.amplitude
}

// colorAt blends between the low and high ground colors by height.
func colorAt(y, jitter float32) math.Color {
	blend := math.Clamp((y+0.16)/0.32, 0, 1)
	c := lowColor.Lerp(highColor, blend).Scale(1 + jitter)
	return math.Color{
		math.Clamp(c[0], 0, 1),
		math.Clamp(c[1], 0, 1),
		math.Clamp(c[2], 0, 1),
	}
}

// Chunk is one terrain tile. Geometry is immutable after BuildChunk.
type Chunk struct {
	Center  math.Vec2
	Floor   *mesh.Mesh
	Overlay *mesh.Mesh
	Visible bool
}

// BuildChunk displaces a grid centered on (cx, cz) by HeightAt and tints it.
// Floor vertices are stored in chunk-local XZ with world heights, so the
// rendering transform is a plain translation by the center.
func BuildChunk(cx, cz float32, tint *Tint) *Chunk {
	floor := mesh.Plane(ChunkSize, ChunkSegments)
	for i := range floor.Vertices {
		v := &floor.Vertices[i]
		wx := v.Position[0] + cx
		wz := v.Position[2] + cz
		y := HeightAt(wx, wz)
		v.Position[1] = y
		v.Color = colorAt(y, tint.At(wx, wz))
	}
	floor.ComputeNormals()

	overlay := mesh.LineGrid(ChunkSize, OverlaySegments)
	overlay.SetColor(OverlayColor)

	return &Chunk{
		Center:  math.Vec2{X: cx, Y: cz},
		Floor:   floor,
		Overlay: overlay,
		Visible: true,
	}
}

// Grid is the fixed set of chunks around the origin.
type Grid struct {
	Chunks []*Chunk
}

// NewGrid builds the four chunks at (+-half, +-half).
func NewGrid(tint *Tint) *Grid {
	half := float32(ChunkSize) * 0.5
	centers := [4]math.Vec2{
		{X: -half, Y: -half},
		{X: half, Y: -half},
		{X: -half, Y: half},
		{X: half, Y: half},
	}
	g := &Grid{}
	for _, c := range centers {
		g.Chunks = append(g.Chunks, BuildChunk(c.X, c.Y, tint))
	}
	return g
}

// UpdateVisibility shows a chunk iff the reference point lies within
// VisibilityDistance of its center on the ground plane.
func (g *Grid) UpdateVisibility(ref math.Vec3) {
	p := ref.XZ()
	for _, c := range g.Chunks {
		c.Visible = p.Distance(c.Center) <= VisibilityDistance
	}
}

// VisibleCount returns how many chunks are currently shown.
func (g *Grid) VisibleCount() int {
	n := 0
	for _, c := range g.Chunks {
		if c.Visible {
			n++
		}
	}
	return n
}
