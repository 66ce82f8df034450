package mesh

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/glade/pkg/math"
)

func TestPlaneLayout(t *testing.T) {
	m := Plane(10, 4)
	if got, want := len(m.Vertices), 25; got != want {
		t.Fatalf("vertices = %d, want %d", got, want)
	}
	if got, want := len(m.Indices), 4*4*6; got != want {
		t.Fatalf("indices = %d, want %d", got, want)
	}
	b := m.Bounds()
	if b.Min.X != -5 || b.Max.X != 5 || b.Min.Z != -5 || b.Max.Z != 5 {
		t.Errorf("bounds = %+v, want [-5,5] on X and Z", b)
	}
}

func TestPlaneFacesUp(t *testing.T) {
	m := Plane(2, 2)
	m.ComputeNormals()
	for i, v := range m.Vertices {
		if v.Normal[1] < 0.999 {
			t.Fatalf("vertex %d normal = %v, want +Y", i, v.Normal)
		}
	}
}

func TestLineGridCounts(t *testing.T) {
	m := LineGrid(16, 16)
	if m.Mode != Lines {
		t.Fatal("LineGrid should use line mode")
	}
	// 17 rows + 17 columns of 16 edges, plus 256 diagonals; 2 indices each.
	want := (17*16 + 17*16 + 16*16) * 2
	if len(m.Indices) != want {
		t.Errorf("indices = %d, want %d", len(m.Indices), want)
	}
}

func TestBoxNormalsPointOutward(t *testing.T) {
	m := Box(2, 2, 2)
	for i := 0; i < len(m.Indices); i += 3 {
		a := toVec(m.Vertices[m.Indices[i]].Position)
		b := toVec(m.Vertices[m.Indices[i+1]].Position)
		c := toVec(m.Vertices[m.Indices[i+2]].Position)
		n := b.Sub(a).Cross(c.Sub(a))
		center := a.Add(b).Add(c).Scale(1.0 / 3)
		if n.Dot(center) <= 0 {
			t.Fatalf("triangle %d winds inward", i/3)
		}
	}
}

func TestCylinderBounds(t *testing.T) {
	m := Cylinder(0.3, 0.45, 1.1, 6)
	b := m.Bounds()
	if math32.Abs(b.Size().Y-1.1) > 1e-4 {
		t.Errorf("height = %v, want 1.1", b.Size().Y)
	}
	if b.Max.X > 0.45+1e-4 {
		t.Errorf("max radius = %v, want <= 0.45", b.Max.X)
	}
}

func TestCapsuleHeight(t *testing.T) {
	b := Capsule(0.35, 1.2, 5, 12).Bounds()
	if got := b.Size().Y; math32.Abs(got-1.9) > 1e-4 {
		t.Errorf("capsule height = %v, want 1.9", got)
	}
	if c := b.Center(); math32.Abs(c.Y) > 1e-4 {
		t.Errorf("capsule center y = %v, want 0", c.Y)
	}
}

func TestSphereNormalsRadial(t *testing.T) {
	m := Sphere(1, 12, 8)
	for i, v := range m.Vertices {
		p := toVec(v.Position)
		if p.Y > 0.99 || p.Y < -0.99 {
			continue
		}
		if toVec(v.Normal).Dot(p.Normalize()) < 0.9 {
			t.Fatalf("vertex %d normal %v not radial for %v", i, v.Normal, p)
		}
	}
}

func TestBoundsTransform(t *testing.T) {
	b := Box(2, 2, 2).Bounds().Transform(math.Translate(math.Vec3{X: 5}))
	if b.Min.X != 4 || b.Max.X != 6 {
		t.Errorf("translated bounds X = [%v,%v], want [4,6]", b.Min.X, b.Max.X)
	}
}

func TestEmptyBounds(t *testing.T) {
	if !EmptyBounds().IsEmpty() {
		t.Error("EmptyBounds should be empty")
	}
	if (&Mesh{}).Bounds().Size() != (math.Vec3{}) {
		t.Error("empty mesh should have zero size")
	}
}

func TestMergeOffsetsIndices(t *testing.T) {
	a := Box(1, 1, 1)
	b := Box(1, 1, 1)
	m := Merge(a, b)
	if len(m.Vertices) != 48 {
		t.Fatalf("vertices = %d, want 48", len(m.Vertices))
	}
	if m.Indices[36] != 24 {
		t.Errorf("second mesh first index = %d, want 24", m.Indices[36])
	}
}
