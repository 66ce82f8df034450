// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/glade/internal/engine/mesh"
	"github.com/Faultbox/glade/internal/engine/scene"
	"github.com/Faultbox/glade/pkg/math"
)

// DefaultPadding grows every box slightly so it does not z-fight the model.
const DefaultPadding = 0.02

// BoxColor is the wireframe color.
var BoxColor = math.Hex(0xffd166)

// bboxEdges indexes the 8 corners of a box into its 12 edges.
var bboxEdges = [24]uint32{
	// bottom
	0, 1, 1, 3, 3, 2, 2, 0,
	// top
	4, 5, 5, 7, 7, 6, 6, 4,
	// vertical
	0, 4, 1, 5, 2, 6, 3, 7,
}

// AppendWireframe adds the 12 edges of b, grown by padding on all sides, to
// m. Empty bounds add nothing.
func AppendWireframe(m *mesh.Mesh, b mesh.Bounds, padding float32, c math.Color) {
	if b.IsEmpty() {
		return
	}
	lo := b.Min.Sub(math.V3(padding, padding, padding))
	hi := b.Max.Add(math.V3(padding, padding, padding))

	base := uint32(len(m.Vertices))
	for i := 0; i < 8; i++ {
		p := lo
		if i&1 != 0 {
			p.X = hi.X
		}
		if i&2 != 0 {
			p.Z = hi.Z
		}
		if i&4 != 0 {
			p.Y = hi.Y
		}
		m.Vertices = append(m.Vertices, mesh.Vertex{Position: p.Array(), Normal: [3]float32{0, 1, 0}, Color: c})
	}
	for _, e := range bboxEdges {
		m.Indices = append(m.Indices, base+e)
	}
}

// SceneBounds builds one line mesh holding the world bounds of every visible
// node that skip does not reject. skip may be nil.
func SceneBounds(s *scene.Scene, skip func(*scene.Node) bool) *mesh.Mesh {
	m := &mesh.Mesh{Mode: mesh.Lines}
	for _, n := range s.Nodes() {
		if !n.Visible || (skip != nil && skip(n)) {
			continue
		}
		AppendWireframe(m, n.Bounds(), DefaultPadding, BoxColor)
	}
	return m
}
