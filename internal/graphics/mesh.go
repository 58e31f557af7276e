package graphics

import (
	"riverworld/internal/meshing"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// GPUMesh holds one uploaded buffer in the chunk vertex layout: four vec4
// attributes per vertex.
type GPUMesh struct {
	vao, vbo, ebo uint32
	count         int32
}

func NewGPUMesh() *GPUMesh {
	m := &GPUMesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	stride := int32(meshing.VertexStride * 4)
	for i := uint32(0); i < 4; i++ {
		gl.VertexAttribPointerWithOffset(i, 4, gl.FLOAT, false, stride, uintptr(i*16))
		gl.EnableVertexAttribArray(i)
	}
	gl.BindVertexArray(0)
	return m
}

// Upload replaces the mesh contents. An empty buffer leaves nothing to draw.
func (m *GPUMesh) Upload(b meshing.Buffer) {
	m.count = int32(len(b.Indices))
	if m.count == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(b.Vertices)*4, gl.Ptr(b.Vertices), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(b.Indices)*4, gl.Ptr(b.Indices), gl.STATIC_DRAW)
	gl.BindVertexArray(0)
}

func (m *GPUMesh) Draw() {
	if m.count == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func (m *GPUMesh) Delete() {
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteVertexArrays(1, &m.vao)
}
