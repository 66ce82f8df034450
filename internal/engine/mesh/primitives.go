package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/glade/pkg/math"
)

var white = [3]float32{1, 1, 1}

// Plane builds a flat size x size grid on the XZ plane, centered on the origin,
// with (segments+1)^2 vertices in row-major order (z rows, x columns).
func Plane(size float32, segments int) *Mesh {
	if segments < 1 {
		segments = 1
	}
	m := &Mesh{Mode: Triangles}
	half := size / 2
	step := size / float32(segments)
	for iz := 0; iz <= segments; iz++ {
		for ix := 0; ix <= segments; ix++ {
			m.Vertices = append(m.Vertices, Vertex{
				Position: [3]float32{-half + float32(ix)*step, 0, -half + float32(iz)*step},
				Normal:   [3]float32{0, 1, 0},
				Color:    white,
			})
		}
	}
	row := uint32(segments + 1)
	for iz := uint32(0); iz < uint32(segments); iz++ {
		for ix := uint32(0); ix < uint32(segments); ix++ {
			a := iz*row + ix
			b := a + row
			c := a + 1
			d := b + 1
			m.Indices = append(m.Indices, a, b, c, c, b, d)
		}
	}
	return m
}

// LineGrid builds the wireframe of a flat grid: cell edges plus one diagonal
// per cell, matching how a triangulated plane renders in wireframe.
func LineGrid(size float32, segments int) *Mesh {
	if segments < 1 {
		segments = 1
	}
	flat := Plane(size, segments)
	m := &Mesh{Mode: Lines, Vertices: flat.Vertices}
	row := uint32(segments + 1)
	idx := func(ix, iz uint32) uint32 { return iz*row + ix }
	n := uint32(segments)
	for iz := uint32(0); iz <= n; iz++ {
		for ix := uint32(0); ix < n; ix++ {
			m.Indices = append(m.Indices, idx(ix, iz), idx(ix+1, iz))
		}
	}
	for ix := uint32(0); ix <= n; ix++ {
		for iz := uint32(0); iz < n; iz++ {
			m.Indices = append(m.Indices, idx(ix, iz), idx(ix, iz+1))
		}
	}
	for iz := uint32(0); iz < n; iz++ {
		for ix := uint32(0); ix < n; ix++ {
			m.Indices = append(m.Indices, idx(ix, iz+1), idx(ix+1, iz))
		}
	}
	return m
}

// Box builds an axis-aligned box centered on the origin with flat faces.
func Box(w, h, d float32) *Mesh {
	hx, hy, hz := w/2, h/2, d/2
	m := &Mesh{Mode: Triangles}
	faces := [6][3]math.Vec3{
		{{X: hx, Y: -hy, Z: hz}, {Z: -2 * hz}, {Y: 2 * hy}},
		{{X: -hx, Y: -hy, Z: -hz}, {Z: 2 * hz}, {Y: 2 * hy}},
		{{X: -hx, Y: hy, Z: hz}, {X: 2 * hx}, {Z: -2 * hz}},
		{{X: -hx, Y: -hy, Z: -hz}, {X: 2 * hx}, {Z: 2 * hz}},
		{{X: -hx, Y: -hy, Z: hz}, {X: 2 * hx}, {Y: 2 * hy}},
		{{X: hx, Y: -hy, Z: -hz}, {X: -2 * hx}, {Y: 2 * hy}},
	}
	for _, f := range faces {
		o, u, v := f[0], f[1], f[2]
		n := u.Cross(v).Normalize().Array()
		base := uint32(len(m.Vertices))
		for _, p := range []math.Vec3{o, o.Add(u), o.Add(v), o.Add(u).Add(v)} {
			m.Vertices = append(m.Vertices, Vertex{Position: p.Array(), Normal: n, Color: white})
		}
		m.Indices = append(m.Indices, base, base+1, base+3, base, base+3, base+2)
	}
	return m
}

// Cylinder builds a capped cylinder centered on the origin. A zero top radius
// gives a cone.
func Cylinder(radiusTop, radiusBottom, height float32, segments int) *Mesh {
	h := height / 2
	m := lathe([]math.Vec2{{X: radiusBottom, Y: -h}, {X: radiusTop, Y: h}}, segments)
	if radiusTop > 0 {
		m = Merge(m, disc(radiusTop, h, segments, true))
	}
	if radiusBottom > 0 {
		m = Merge(m, disc(radiusBottom, -h, segments, false))
	}
	return m
}

// Sphere builds a UV sphere centered on the origin.
func Sphere(radius float32, widthSegments, heightSegments int) *Mesh {
	if heightSegments < 2 {
		heightSegments = 2
	}
	profile := make([]math.Vec2, 0, heightSegments+1)
	for i := 0; i <= heightSegments; i++ {
		phi := math32.Pi * float32(i) / float32(heightSegments)
		profile = append(profile, math.Vec2{X: radius * math32.Sin(phi), Y: -radius * math32.Cos(phi)})
	}
	return lathe(profile, widthSegments)
}

// Capsule builds a capsule centered on the origin: a cylindrical body of the
// given length between two hemispheres, total height length + 2*radius.
func Capsule(radius, length float32, capSegments, radialSegments int) *Mesh {
	if capSegments < 1 {
		capSegments = 1
	}
	h := length / 2
	var profile []math.Vec2
	for i := 0; i <= capSegments; i++ {
		a := math32.Pi / 2 * float32(i) / float32(capSegments)
		profile = append(profile, math.Vec2{X: radius * math32.Sin(a), Y: -h - radius*math32.Cos(a)})
	}
	for i := 0; i <= capSegments; i++ {
		a := math32.Pi / 2 * float32(i) / float32(capSegments)
		profile = append(profile, math.Vec2{X: radius * math32.Cos(a), Y: h + radius*math32.Sin(a)})
	}
	return lathe(profile, radialSegments)
}

// lathe revolves a (radius, y) profile, ordered bottom to top, around +Y.
func lathe(profile []math.Vec2, segments int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	m := &Mesh{Mode: Triangles}
	cols := uint32(segments + 1)
	for _, p := range profile {
		for j := 0; j <= segments; j++ {
			s, c := math32.Sincos(2 * math32.Pi * float32(j) / float32(segments))
			m.Vertices = append(m.Vertices, Vertex{
				Position: [3]float32{p.X * s, p.Y, p.X * c},
				Color:    white,
			})
		}
	}
	for i := uint32(0); i+1 < uint32(len(profile)); i++ {
		for j := uint32(0); j < uint32(segments); j++ {
			v00 := i*cols + j
			v01 := v00 + 1
			v10 := v00 + cols
			v11 := v10 + 1
			m.Indices = append(m.Indices, v00, v01, v10, v01, v11, v10)
		}
	}
	m.ComputeNormals()
	return m
}

// disc builds a flat cap at height y facing up or down.
func disc(radius, y float32, segments int, up bool) *Mesh {
	if segments < 3 {
		segments = 3
	}
	ny := float32(-1)
	if up {
		ny = 1
	}
	m := &Mesh{Mode: Triangles}
	m.Vertices = append(m.Vertices, Vertex{Position: [3]float32{0, y, 0}, Normal: [3]float32{0, ny, 0}, Color: white})
	for j := 0; j <= segments; j++ {
		s, c := math32.Sincos(2 * math32.Pi * float32(j) / float32(segments))
		m.Vertices = append(m.Vertices, Vertex{
			Position: [3]float32{radius * s, y, radius * c},
			Normal:   [3]float32{0, ny, 0},
			Color:    white,
		})
	}
	for j := uint32(1); j <= uint32(segments); j++ {
		if up {
			m.Indices = append(m.Indices, 0, j, j+1)
		} else {
			m.Indices = append(m.Indices, 0, j+1, j)
		}
	}
	return m
}
