package rendgl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/mivret/glint/graphics"
)

// glMesh keeps one interleaved vertex buffer and one index buffer behind a
// vertex array object.
type glMesh struct {
	vaoId      uint32
	vboId      uint32
	iboId      uint32
	stride     int32
	indexCount int32
}

var _ graphics.MeshImpl = &glMesh{}

func newGlMesh() (*glMesh, error) {

	m := &glMesh{}

	gl.GenVertexArrays(1, &m.vaoId)
	if m.vaoId == 0 {
		return nil, fmt.Errorf("failed to generate vertex array object. GlError=%d", gl.GetError())
	}

	gl.GenBuffers(1, &m.vboId)
	gl.GenBuffers(1, &m.iboId)
	if m.vboId == 0 || m.iboId == 0 {
		m.Destroy()
		return nil, fmt.Errorf("failed to generate mesh buffers. GlError=%d", gl.GetError())
	}

	return m, nil
}

func (m *glMesh) SetVertexData(layout []graphics.Element, data []float32) error {

	m.stride = graphics.LayoutStride(layout)

	gl.BindVertexArray(m.vaoId)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vboId)

	sizeInBytes := len(data) * 4
	if sizeInBytes == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, gl.Ptr(nil), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, sizeInBytes, gl.Ptr(&data[0]), gl.STATIC_DRAW)
	}

	for i := 0; i < len(layout); i++ {

		l := &layout[i]

		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointerWithOffset(uint32(i), l.CompCount(), elementTypeToGl(l.ElementType), false, m.stride, uintptr(l.Offset))
	}

	gl.BindVertexArray(0)

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		return fmt.Errorf("failed to upload vertex data. GlError=%d", glErr)
	}

	return nil
}

func (m *glMesh) SetIndexData(indices []uint32) error {

	// The element array binding is vao state, so bind the vao first
	gl.BindVertexArray(m.vaoId)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.iboId)

	sizeInBytes := len(indices) * 4
	if sizeInBytes == 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, gl.Ptr(nil), gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, sizeInBytes, gl.Ptr(&indices[0]), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	m.indexCount = int32(len(indices))

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		return fmt.Errorf("failed to upload index data. GlError=%d", glErr)
	}

	return nil
}

func (m *glMesh) Destroy() {

	if m.vboId != 0 {
		gl.DeleteBuffers(1, &m.vboId)
		m.vboId = 0
	}

	if m.iboId != 0 {
		gl.DeleteBuffers(1, &m.iboId)
		m.iboId = 0
	}

	if m.vaoId != 0 {
		gl.DeleteVertexArrays(1, &m.vaoId)
		m.vaoId = 0
	}
}
