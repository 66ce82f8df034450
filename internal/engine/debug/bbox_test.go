package debug

import (
	"testing"

	"github.com/Faultbox/glade/internal/engine/mesh"
	"github.com/Faultbox/glade/internal/engine/scene"
	"github.com/Faultbox/glade/pkg/math"
)

func TestAppendWireframe(t *testing.T) {
	m := &mesh.Mesh{Mode: mesh.Lines}
	b := mesh.Bounds{Min: math.V3(-1, 0, -2), Max: math.V3(1, 3, 2)}
	AppendWireframe(m, b, 0.5, BoxColor)

	if len(m.Vertices) != 8 || len(m.Indices) != 24 {
		t.Fatalf("got %d vertices, %d indices", len(m.Vertices), len(m.Indices))
	}
	got := mesh.EmptyBounds()
	for _, v := range m.Vertices {
		got = got.Extend(math.V3(v.Position[0], v.Position[1], v.Position[2]))
	}
	want := mesh.Bounds{Min: math.V3(-1.5, -0.5, -2.5), Max: math.V3(1.5, 3.5, 2.5)}
	if got != want {
		t.Errorf("wireframe bounds = %+v, want %+v", got, want)
	}

	// every corner is shared by exactly three edges
	uses := make(map[uint32]int)
	for _, i := range m.Indices {
		uses[i]++
	}
	for i, n := range uses {
		if n != 3 {
			t.Errorf("corner %d used by %d edges", i, n)
		}
	}
}

func TestAppendWireframeEmpty(t *testing.T) {
	m := &mesh.Mesh{Mode: mesh.Lines}
	AppendWireframe(m, mesh.EmptyBounds(), DefaultPadding, BoxColor)
	if len(m.Vertices) != 0 {
		t.Errorf("empty bounds produced %d vertices", len(m.Vertices))
	}
}

func TestSceneBounds(t *testing.T) {
	s := scene.NewScene()
	box := scene.NewNode("box", mesh.Box(1, 1, 1), math.Translate(math.V3(2, 0, 0)))
	hidden := scene.NewNode("hidden", mesh.Box(1, 1, 1), math.Identity())
	hidden.Visible = false
	skipped := scene.NewNode("skipped", mesh.Box(1, 1, 1), math.Identity())
	s.Add(box, hidden, skipped)

	m := SceneBounds(s, func(n *scene.Node) bool { return n.Name == "skipped" })
	if m.Mode != mesh.Lines || len(m.Indices) != 24 {
		t.Fatalf("mode %v, %d indices", m.Mode, len(m.Indices))
	}
	if x := m.Vertices[0].Position[0]; x < 1.47 || x > 1.49 {
		t.Errorf("min x = %f", x)
	}
}
