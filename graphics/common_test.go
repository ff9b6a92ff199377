package graphics_test

import (
	"errors"

	"github.com/mivret/glint/graphics"
)

// testBackend is an in-memory backend. Framebuffers hold real pixel
// buffers so clears can be verified through readback, and every render
// call that reaches the backend is recorded for inspection.
type testBackend struct {
	info       graphics.GraphicsInfo
	backbuffer *testFrameBuffer
	draws      []graphics.RenderCall
	closed     bool

	failTextures     bool
	failFrameBuffers bool
	failShaders      bool
	failMeshes       bool
}

func newTestBackend() *testBackend {
	return &testBackend{
		info: graphics.GraphicsInfo{
			Instancing:       true,
			OriginBottomLeft: true,
			MaxTextureSize:   4096,
		},
		backbuffer: newTestFrameBuffer(64, 64, []graphics.TextureFormat{graphics.TextureFormat_RGBA, graphics.TextureFormat_DepthStencil}),
	}
}

func newTestGraphics() (*graphics.Graphics, *testBackend) {

	backend := newTestBackend()
	g, err := graphics.New(backend)
	if err != nil {
		panic(err)
	}

	return g, backend
}

func (b *testBackend) Renderer() graphics.Renderer {
	return graphics.Renderer_OpenGL
}

func (b *testBackend) Info() graphics.GraphicsInfo {
	return b.info
}

func (b *testBackend) Backbuffer() graphics.FrameBufferImpl {
	return b.backbuffer
}

func (b *testBackend) NewTexture(width, height int, format graphics.TextureFormat, data []byte) (graphics.TextureImpl, error) {

	if b.failTextures {
		return nil, errors.New("texture creation forced to fail")
	}

	return &testTexture{}, nil
}

func (b *testBackend) NewFrameBuffer(width, height int, attachments []graphics.TextureFormat) (graphics.FrameBufferImpl, error) {

	if b.failFrameBuffers {
		return nil, errors.New("framebuffer creation forced to fail")
	}

	return newTestFrameBuffer(width, height, attachments), nil
}

func (b *testBackend) NewShader(data *graphics.ShaderData) (graphics.ShaderImpl, error) {

	if b.failShaders {
		return nil, errors.New("shader creation forced to fail")
	}

	return &testShader{}, nil
}

func (b *testBackend) NewMesh() (graphics.MeshImpl, error) {

	if b.failMeshes {
		return nil, errors.New("mesh creation forced to fail")
	}

	return &testMesh{}, nil
}

func (b *testBackend) Render(call *graphics.RenderCall) error {
	b.draws = append(b.draws, *call)
	return nil
}

func (b *testBackend) Clear(target graphics.FrameBufferImpl, rgba uint32) error {

	fbo, ok := target.(*testFrameBuffer)
	if !ok {
		return errors.New("clear target was not created by this backend")
	}

	red := byte(rgba >> 24)
	green := byte(rgba >> 16)
	blue := byte(rgba >> 8)
	alpha := byte(rgba)

	for _, buf := range fbo.colors {
		for i := 0; i < len(buf); i += 4 {
			buf[i+0] = red
			buf[i+1] = green
			buf[i+2] = blue
			buf[i+3] = alpha
		}
	}

	return nil
}

func (b *testBackend) Close() {
	b.closed = true
}

type testFrameBuffer struct {
	width     int
	height    int
	colors    [][]byte
	destroyed bool
}

func newTestFrameBuffer(width, height int, attachments []graphics.TextureFormat) *testFrameBuffer {

	fbo := &testFrameBuffer{width: width, height: height}
	for _, format := range attachments {
		if format.IsColorFormat() {
			fbo.colors = append(fbo.colors, make([]byte, width*height*4))
		}
	}

	return fbo
}

func (f *testFrameBuffer) Size() (width, height int) {
	return f.width, f.height
}

func (f *testFrameBuffer) Pixels(attachment int) ([]byte, error) {

	if attachment < 0 || attachment >= len(f.colors) {
		return nil, errors.New("no such color attachment")
	}

	out := make([]byte, len(f.colors[attachment]))
	copy(out, f.colors[attachment])
	return out, nil
}

func (f *testFrameBuffer) Destroy() {
	f.destroyed = true
}

type testTexture struct {
	destroyed bool
}

func (t *testTexture) Destroy() {
	t.destroyed = true
}

type testShader struct {
	destroyed bool
}

func (s *testShader) Destroy() {
	s.destroyed = true
}

type testMesh struct {
	layout    []graphics.Element
	verts     []float32
	indices   []uint32
	destroyed bool
}

func (m *testMesh) SetVertexData(layout []graphics.Element, data []float32) error {
	m.layout = layout
	m.verts = data
	return nil
}

func (m *testMesh) SetIndexData(indices []uint32) error {
	m.indices = indices
	return nil
}

func (m *testMesh) Destroy() {
	m.destroyed = true
}

var _ graphics.Backend = &testBackend{}
