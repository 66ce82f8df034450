package terrain

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/glade/pkg/math"
)

func TestHeightAtOrigin(t *testing.T) {
	if h := HeightAt(0, 0); h != 0 {
		t.Errorf("HeightAt(0,0) = %v, want 0", h)
	}
}

func TestHeightAtBounded(t *testing.T) {
	for x := float32(-120); x <= 120; x += 3.7 {
		for z := float32(-120); z <= 120; z += 4.1 {
			if h := HeightAt(x, z); h < -0.16 || h > 0.16 {
				t.Fatalf("HeightAt(%v,%v) = %v outside [-0.16, 0.16]", x, z, h)
			}
		}
	}
}

func TestBuildChunkMatchesHeightFunction(t *testing.T) {
	c := BuildChunk(55, -55, nil)
	if got, want := len(c.Floor.Vertices), (ChunkSegments+1)*(ChunkSegments+1); got != want {
		t.Fatalf("vertices = %d, want %d", got, want)
	}
	for i, v := range c.Floor.Vertices {
		want := HeightAt(v.Position[0]+55, v.Position[2]-55)
		if v.Position[1] != want {
			t.Fatalf("vertex %d height = %v, want %v", i, v.Position[1], want)
		}
	}
}

func TestColorBlendEndpoints(t *testing.T) {
	if c := colorAt(-0.5, 0); c != lowColor {
		t.Errorf("low color = %v, want %v", c, lowColor)
	}
	c := colorAt(0.5, 0)
	for i := range c {
		if math32.Abs(c[i]-highColor[i]) > 1e-5 {
			t.Errorf("high color = %v, want %v", c, highColor)
		}
	}
}

func TestTintDisabled(t *testing.T) {
	if NewTint(1, 0) != nil {
		t.Error("zero amplitude should disable tint")
	}
	var tint *Tint
	if tint.At(3, 4) != 0 {
		t.Error("nil tint should return 0")
	}
}

func TestTintBounded(t *testing.T) {
	tint := NewTint(42, 0.05)
	for x := float32(-50); x < 50; x += 7 {
		if j := tint.At(x, -x); math32.Abs(j) > 0.05*2 {
			t.Fatalf("tint at %v = %v exceeds amplitude", x, j)
		}
	}
}

func TestNewGridCenters(t *testing.T) {
	g := NewGrid(nil)
	if len(g.Chunks) != 4 {
		t.Fatalf("chunks = %d, want 4", len(g.Chunks))
	}
	seen := map[math.Vec2]bool{}
	for _, c := range g.Chunks {
		seen[c.Center] = true
	}
	for _, want := range []math.Vec2{{X: -55, Y: -55}, {X: 55, Y: -55}, {X: -55, Y: 55}, {X: 55, Y: 55}} {
		if !seen[want] {
			t.Errorf("missing chunk centered at %v", want)
		}
	}
}

func TestUpdateVisibilityThreshold(t *testing.T) {
	g := &Grid{Chunks: []*Chunk{{Center: math.Vec2{}}}}

	tests := []struct {
		name string
		x    float32
		want bool
	}{
		{"origin", 0, true},
		{"inside", 124.9, true},
		{"exactly at radius", VisibilityDistance, true},
		{"just beyond", 125.01, false},
		{"far", 400, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.UpdateVisibility(math.Vec3{X: tt.x, Y: 50})
			if g.Chunks[0].Visible != tt.want {
				t.Errorf("visible at x=%v: %v, want %v", tt.x, g.Chunks[0].Visible, tt.want)
			}
		})
	}
}

func TestUpdateVisibilityFromOrigin(t *testing.T) {
	g := NewGrid(nil)
	g.UpdateVisibility(math.Vec3{})
	if g.VisibleCount() != 4 {
		t.Errorf("visible chunks from origin = %d, want 4", g.VisibleCount())
	}
	// Far along -x only the two west chunks stay within range.
	g.UpdateVisibility(math.Vec3{X: -150, Z: 0})
	if g.VisibleCount() != 2 {
		t.Errorf("visible chunks from x=-150 = %d, want 2", g.VisibleCount())
	}
}
