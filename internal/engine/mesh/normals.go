package mesh

import "github.com/Faultbox/glade/pkg/math"

// ComputeNormals rebuilds smooth per-vertex normals from triangle faces.
// Face normals are area weighted; vertices shared by index are averaged.
func (m *Mesh) ComputeNormals() {
	if m.Mode != Triangles {
		return
	}
	sums := make([]math.Vec3, len(m.Vertices))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		ia, ib, ic := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		a := toVec(m.Vertices[ia].Position)
		b := toVec(m.Vertices[ib].Position)
		c := toVec(m.Vertices[ic].Position)
		n := b.Sub(a).Cross(c.Sub(a))
		sums[ia] = sums[ia].Add(n)
		sums[ib] = sums[ib].Add(n)
		sums[ic] = sums[ic].Add(n)
	}
	for i := range m.Vertices {
		n := sums[i].Normalize()
		if n == (math.Vec3{}) {
			n = math.Vec3{Y: 1}
		}
		m.Vertices[i].Normal = n.Array()
	}
}

func toVec(p [3]float32) math.Vec3 {
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}
