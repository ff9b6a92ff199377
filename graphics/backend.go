package graphics

// Renderer identifies which native graphics API a backend drives.
type Renderer int8

const (
	Renderer_None Renderer = iota - 1
	Renderer_OpenGL
	Renderer_D3D11
	Renderer_Metal
)

func (r Renderer) String() string {

	switch r {
	case Renderer_OpenGL:
		return "OpenGL"
	case Renderer_D3D11:
		return "D3D11"
	case Renderer_Metal:
		return "Metal"
	default:
		return "None"
	}
}

// GraphicsInfo is a read-only capability snapshot populated once when the
// backend is brought up.
type GraphicsInfo struct {
	Instancing       bool
	OriginBottomLeft bool
	MaxTextureSize   int
}

// TextureImpl is the backend storage behind a texture handle.
type TextureImpl interface {
	Destroy()
}

// ShaderImpl is the backend storage behind a shader handle.
type ShaderImpl interface {
	Destroy()
}

// FrameBufferImpl is the backend storage behind a framebuffer handle.
type FrameBufferImpl interface {

	// Size returns the current dimensions in pixels. The backbuffer's size
	// follows the window, so it is queried rather than recorded at creation.
	Size() (width, height int)

	// Pixels reads back the given color attachment as tightly packed RGBA
	// bytes, row 0 first.
	Pixels(attachment int) ([]byte, error)

	Destroy()
}

// MeshImpl is the backend storage behind a mesh handle.
type MeshImpl interface {

	// SetVertexData replaces the mesh's vertex buffer with interleaved data
	// matching the given layout.
	SetVertexData(layout []Element, data []float32) error

	// SetIndexData replaces the mesh's index buffer.
	SetIndexData(indices []uint32) error

	Destroy()
}

// Backend is implemented once per native graphics API. Exactly one backend
// is active for the lifetime of a Graphics context; it provides the storage
// behind every handle and executes submitted calls in program order.
//
// All methods are called from the graphics thread only.
type Backend interface {
	Renderer() Renderer
	Info() GraphicsInfo

	// Backbuffer returns the platform default render target.
	Backbuffer() FrameBufferImpl

	NewTexture(width, height int, format TextureFormat, data []byte) (TextureImpl, error)
	NewFrameBuffer(width, height int, attachments []TextureFormat) (FrameBufferImpl, error)
	NewShader(data *ShaderData) (ShaderImpl, error)
	NewMesh() (MeshImpl, error)

	// Render executes a validated call and flushes it before returning.
	Render(call *RenderCall) error

	// Clear sets every pixel of every attachment of target to rgba
	// (packed 0xRRGGBBAA; depth clears to 1, stencil to 0).
	Clear(target FrameBufferImpl, rgba uint32) error

	Close()
}
