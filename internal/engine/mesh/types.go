// Package mesh holds CPU-side geometry ready for GPU upload, plus
// builders for the primitive shapes the scene falls back to.
package mesh

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/glade/pkg/math"
)

const maxf = gomath.MaxFloat32

// Vertex is a mesh vertex with position, normal and vertex color.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Color    [3]float32
}

// Mode selects how indices are assembled.
type Mode uint8

const (
	Triangles Mode = iota
	Lines
)

// Mesh is an indexed vertex list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Mode     Mode
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// EmptyBounds returns an inverted box that any Extend call will fix up.
func EmptyBounds() Bounds {
	return Bounds{
		Min: math.Vec3{X: maxf, Y: maxf, Z: maxf},
		Max: math.Vec3{X: -maxf, Y: -maxf, Z: -maxf},
	}
}

// IsEmpty reports whether no point was ever added.
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extend grows the box to contain p.
func (b Bounds) Extend(p math.Vec3) Bounds {
	b.Min = math.Vec3{X: math32.Min(b.Min.X, p.X), Y: math32.Min(b.Min.Y, p.Y), Z: math32.Min(b.Min.Z, p.Z)}
	b.Max = math.Vec3{X: math32.Max(b.Max.X, p.X), Y: math32.Max(b.Max.Y, p.Y), Z: math32.Max(b.Max.Z, p.Z)}
	return b
}

// Union returns the box covering both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	if other.IsEmpty() {
		return b
	}
	return b.Extend(other.Min).Extend(other.Max)
}

// Size returns the box extent.
func (b Bounds) Size() math.Vec3 {
	if b.IsEmpty() {
		return math.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the box midpoint.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Transform returns the bounds of the eight transformed corners.
func (b Bounds) Transform(m math.Mat4) Bounds {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBounds()
	for i := 0; i < 8; i++ {
		corner := b.Min
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		out = out.Extend(m.TransformPoint(corner))
	}
	return out
}

// Bounds computes the mesh bounding box.
func (m *Mesh) Bounds() Bounds {
	b := EmptyBounds()
	for i := range m.Vertices {
		p := m.Vertices[i].Position
		b = b.Extend(math.Vec3{X: p[0], Y: p[1], Z: p[2]})
	}
	return b
}

// SetColor paints every vertex with c.
func (m *Mesh) SetColor(c math.Color) {
	for i := range m.Vertices {
		m.Vertices[i].Color = c
	}
}

// Transformed returns a copy of the mesh with positions and normals moved by t.
func (m *Mesh) Transformed(t math.Mat4) *Mesh {
	out := &Mesh{
		Vertices: make([]Vertex, len(m.Vertices)),
		Indices:  append([]uint32(nil), m.Indices...),
		Mode:     m.Mode,
	}
	for i, v := range m.Vertices {
		p := t.TransformPoint(math.Vec3{X: v.Position[0], Y: v.Position[1], Z: v.Position[2]})
		n := t.TransformDirection(math.Vec3{X: v.Normal[0], Y: v.Normal[1], Z: v.Normal[2]}).Normalize()
		out.Vertices[i] = Vertex{Position: p.Array(), Normal: n.Array(), Color: v.Color}
	}
	return out
}

// Merge concatenates meshes of the same mode into one.
func Merge(parts ...*Mesh) *Mesh {
	out := &Mesh{}
	for _, p := range parts {
		if p == nil {
			continue
		}
		out.Mode = p.Mode
		base := uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, p.Vertices...)
		for _, idx := range p.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
	}
	return out
}
