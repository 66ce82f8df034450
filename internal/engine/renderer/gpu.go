package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/glade/internal/engine/mesh"
)

const vertexStride = int32(unsafe.Sizeof(mesh.Vertex{}))

// gpuMesh is the uploaded form of a mesh.Mesh.
type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
	mode          uint32
	lastUsed      uint64
}

func upload(m *mesh.Mesh) *gpuMesh {
	g := &gpuMesh{count: int32(len(m.Indices)), mode: gl.TRIANGLES}
	if m.Mode == mesh.Lines {
		g.mode = gl.LINES
	}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(vertexStride), unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	// position, normal, color
	for i := uint32(0); i < 3; i++ {
		gl.VertexAttribPointerWithOffset(i, 3, gl.FLOAT, false, vertexStride, uintptr(i*12))
		gl.EnableVertexAttribArray(i)
	}

	gl.BindVertexArray(0)
	return g
}

func (g *gpuMesh) draw() {
	gl.BindVertexArray(g.vao)
	gl.DrawElements(g.mode, g.count, gl.UNSIGNED_INT, nil)
}

func (g *gpuMesh) release() {
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
}
