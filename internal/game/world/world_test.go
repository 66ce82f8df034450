package world

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Faultbox/glade/internal/engine/mesh"
	"github.com/Faultbox/glade/internal/engine/model"
	"github.com/Faultbox/glade/internal/engine/scene"
	"github.com/Faultbox/glade/internal/game/terrain"
	"github.com/Faultbox/glade/pkg/math"
)

func near(a, b float32) bool {
	d := a - b
	return d < 1e-4 && d > -1e-4
}

func TestPropPlacements(t *testing.T) {
	ps := PropPlacements()
	if len(ps) != 9 {
		t.Fatalf("got %d placements, want 9", len(ps))
	}

	tests := []struct {
		idx   int
		kind  PropKind
		x, z  float32
		scale float32
		rotY  float32
	}{
		{0, Tree, -6.5, -4.2, 1.2 * 1.45, 0.6},
		{1, Rock, -6.5 + 1.1, -4.2 + 0.4, 1.2 * 0.9, 0},
		{2, LogStack, -6.5 - 0.95, -4.2 + 0.2, 1.2 * 0.95, -0.3},
		{3, Tree, 7.4, 4.6, 0.9 * 1.45, 0.6 + 0.9},
		{7, Rock, -9.2 + 1.1, 6.8 + 0.4, 1.05 * 0.9, 1.6},
		{8, LogStack, -9.2 - 0.95, 6.8 + 0.2, 1.05 * 0.95, -0.3 + 0.9},
	}
	for _, tt := range tests {
		p := ps[tt.idx]
		if p.Kind != tt.kind {
			t.Errorf("[%d] kind = %v, want %v", tt.idx, p.Kind, tt.kind)
		}
		if !near(p.Position.X, tt.x) || !near(p.Position.Z, tt.z) {
			t.Errorf("[%d] position = %+v, want x=%v z=%v", tt.idx, p.Position, tt.x, tt.z)
		}
		if p.Position.Y != terrain.HeightAt(p.Position.X, p.Position.Z) {
			t.Errorf("[%d] not on the terrain", tt.idx)
		}
		if !near(p.Scale, tt.scale) || !near(p.RotY, tt.rotY) {
			t.Errorf("[%d] scale %v rot %v, want %v %v", tt.idx, p.Scale, p.RotY, tt.scale, tt.rotY)
		}
	}
}

func TestFallbackProps(t *testing.T) {
	nodes := FallbackProps()
	if len(nodes) != len(PropAnchors) {
		t.Fatalf("got %d fallbacks, want %d", len(nodes), len(PropAnchors))
	}
	for i, n := range nodes {
		a := PropAnchors[i]
		center := n.Transform.TransformPoint(math.Vec3{})
		if !near(center.X, a.X) || !near(center.Z, a.Z) {
			t.Errorf("[%d] center = %+v", i, center)
		}
		if want := terrain.HeightAt(a.X, a.Z) + 0.55; !near(center.Y, want) {
			t.Errorf("[%d] height = %v, want %v", i, center.Y, want)
		}
		if n.Mesh.Vertices[0].Color != fallbackPropColor {
			t.Errorf("[%d] color = %v", i, n.Mesh.Vertices[0].Color)
		}
	}
}

func TestInstancePropsClones(t *testing.T) {
	models := make([]*model.Model, 3)
	for i := range models {
		box := mesh.Box(1, 1, 1)
		models[i] = &model.Model{Meshes: []*mesh.Mesh{box}, Bounds: box.Bounds()}
	}
	nodes, err := InstanceProps(models)
	if err != nil {
		t.Fatalf("InstanceProps: %v", err)
	}
	if len(nodes) != 9 {
		t.Fatalf("got %d nodes, want 9", len(nodes))
	}
	if nodes[0].Mesh == nodes[3].Mesh || nodes[0].Mesh == models[0].Meshes[0] {
		t.Error("instances share mesh data")
	}

	if _, err := InstanceProps(models[:2]); err == nil {
		t.Error("missing log stack model should fail")
	}
}

func TestLoadPropsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadProps(context.Background(), PropPaths{
		Tree:     filepath.Join(dir, "tree.glb"),
		Rock:     filepath.Join(dir, "rock.glb"),
		LogStack: filepath.Join(dir, "logs.glb"),
	})
	if err == nil {
		t.Fatal("expected an error for missing nature kit files")
	}
}

func TestLoadLandmarksFallsBack(t *testing.T) {
	nodes := LoadLandmarks(context.Background(), map[string]string{
		"tower": filepath.Join(t.TempDir(), "missing.glb"),
	})
	if len(nodes) != len(Landmarks) {
		t.Fatalf("got %d landmark nodes, want %d", len(nodes), len(Landmarks))
	}
	for i, n := range nodes {
		l := Landmarks[i]
		if n.Name != l.Name {
			t.Errorf("[%d] name = %q, want %q", i, n.Name, l.Name)
		}
		b := n.Bounds()
		c := b.Center()
		if c.XZ().Distance(math.Vec2{X: l.X, Y: l.Z}) > 4 {
			t.Errorf("%s centered at %+v, want near (%v, %v)", l.Name, c, l.X, l.Z)
		}
		if b.Min.Y < terrain.HeightAt(l.X, l.Z)-2 {
			t.Errorf("%s sinks to %v", l.Name, b.Min.Y)
		}
		if b.Size().Y < 3 {
			t.Errorf("%s is only %v tall", l.Name, b.Size().Y)
		}
	}
}

func TestGroundVisibility(t *testing.T) {
	s := scene.NewScene()
	g := AddGround(s, terrain.NewGrid(nil))
	if len(s.Nodes()) != 8 {
		t.Fatalf("scene has %d nodes, want 8", len(s.Nodes()))
	}

	g.Update(math.V3(-150, 0, 0))
	visible := 0
	for _, n := range s.Nodes() {
		if n.Visible {
			visible++
		}
	}
	if visible != 4 {
		t.Errorf("%d nodes visible from x=-150, want 4 (two chunks)", visible)
	}

	overlay := s.Nodes()[1]
	if !overlay.Material.Unlit || overlay.Material.Opacity != terrain.OverlayOpacity {
		t.Errorf("overlay material = %+v", overlay.Material)
	}
}
