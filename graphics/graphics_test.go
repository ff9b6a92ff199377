package graphics_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/mivret/glint/graphics"
)

func testShaderData() *graphics.ShaderData {
	return &graphics.ShaderData{VertexSource: "void main() {}", FragmentSource: "void main() {}"}
}

func TestRendererLifecycle(t *testing.T) {

	var uninitialized *graphics.Graphics
	if got := uninitialized.Renderer(); got != graphics.Renderer_None {
		t.Fatalf("Renderer before init = %v, want None", got)
	}

	g, backend := newTestGraphics()
	if got := g.Renderer(); got != graphics.Renderer_OpenGL {
		t.Fatalf("Renderer after init = %v, want OpenGL", got)
	}

	if !g.Info().Instancing || g.Info().MaxTextureSize != 4096 {
		t.Errorf("capability snapshot not taken from backend: %+v", g.Info())
	}

	g.Shutdown()
	if got := g.Renderer(); got != graphics.Renderer_None {
		t.Fatalf("Renderer after shutdown = %v, want None", got)
	}

	if !backend.closed {
		t.Error("backend not closed on shutdown")
	}
}

func TestShutdownInvalidatesHandles(t *testing.T) {

	g, _ := newTestGraphics()

	tex := g.CreateTexture(4, 4, graphics.TextureFormat_RGBA)
	mesh := g.CreateMesh()
	bb := g.Backbuffer()

	if !tex.IsValid() || !mesh.IsValid() || !bb.IsValid() {
		t.Fatal("freshly created handles are invalid")
	}

	g.Shutdown()

	if tex.IsValid() || mesh.IsValid() || bb.IsValid() {
		t.Error("handles survived shutdown")
	}

	if g.Backbuffer().IsValid() {
		t.Error("backbuffer handed out after shutdown is valid")
	}

	// Shutting down twice must be harmless
	g.Shutdown()
}

func TestTextureCreationValidation(t *testing.T) {

	g, _ := newTestGraphics()
	defer g.Shutdown()

	if g.CreateTexture(0, 4, graphics.TextureFormat_RGBA).IsValid() {
		t.Error("zero width texture is valid")
	}

	if g.CreateTexture(4, 5000, graphics.TextureFormat_RGBA).IsValid() {
		t.Error("texture above MaxTextureSize is valid")
	}

	if g.CreateTexture(4, 4, graphics.TextureFormat_None).IsValid() {
		t.Error("texture with format None is valid")
	}

	if g.CreateTextureFromRGBA(4, 4, make([]byte, 10)).IsValid() {
		t.Error("texture with mismatched pixel data is valid")
	}

	tex := g.CreateTextureFromRGBA(2, 2, make([]byte, 2*2*4))
	if !tex.IsValid() {
		t.Fatal("valid texture creation failed")
	}

	if tex.Width() != 2 || tex.Height() != 2 || tex.Format() != graphics.TextureFormat_RGBA {
		t.Errorf("texture properties wrong: %dx%d %v", tex.Width(), tex.Height(), tex.Format())
	}
}

func TestTextureCreationBackendFailure(t *testing.T) {

	g, backend := newTestGraphics()
	defer g.Shutdown()

	backend.failTextures = true

	tex := g.CreateTexture(4, 4, graphics.TextureFormat_RGBA)
	if tex.IsValid() {
		t.Fatal("texture valid although the backend failed")
	}

	// The invalid handle is inert, not poisonous
	if tex.Width() != 0 || tex.Format() != graphics.TextureFormat_None {
		t.Error("invalid texture reports non-zero properties")
	}
	tex.Release()
}

func TestTextureFromReader(t *testing.T) {

	g, _ := newTestGraphics()
	defer g.Shutdown()

	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	tex := g.CreateTextureFromReader(&buf)
	if !tex.IsValid() {
		t.Fatal("decoding a valid png stream failed")
	}

	if tex.Width() != 3 || tex.Height() != 2 || tex.Format() != graphics.TextureFormat_RGBA {
		t.Errorf("decoded texture properties wrong: %dx%d %v", tex.Width(), tex.Height(), tex.Format())
	}

	if g.CreateTextureFromReader(bytes.NewReader([]byte("not an image"))).IsValid() {
		t.Error("texture from an undecodable stream is valid")
	}

	if g.CreateTextureFromFile("no/such/file.png").IsValid() {
		t.Error("texture from a missing file is valid")
	}

	if g.CreateTextureFromImage(nil).IsValid() {
		t.Error("texture from a nil image is valid")
	}
}

func TestFrameBufferCreationValidation(t *testing.T) {

	g, _ := newTestGraphics()
	defer g.Shutdown()

	if g.CreateFrameBufferWith(4, 4).IsValid() {
		t.Error("framebuffer with no attachments is valid")
	}

	if g.CreateFrameBufferWith(4, 4, graphics.TextureFormat_DepthStencil, graphics.TextureFormat_DepthStencil).IsValid() {
		t.Error("framebuffer with two depth attachments is valid")
	}

	if g.CreateFrameBufferWith(0, 4, graphics.TextureFormat_RGBA).IsValid() {
		t.Error("zero width framebuffer is valid")
	}

	fbo := g.CreateFrameBufferWith(8, 4, graphics.TextureFormat_RGBA, graphics.TextureFormat_DepthStencil)
	if !fbo.IsValid() {
		t.Fatal("valid framebuffer creation failed")
	}

	w, h := fbo.Size()
	if w != 8 || h != 4 {
		t.Errorf("framebuffer size = %dx%d, want 8x4", w, h)
	}

	formats := fbo.Attachments()
	if len(formats) != 2 || formats[0] != graphics.TextureFormat_RGBA || formats[1] != graphics.TextureFormat_DepthStencil {
		t.Errorf("attachment formats = %v", formats)
	}
}

func TestShaderCreationValidation(t *testing.T) {

	g, _ := newTestGraphics()
	defer g.Shutdown()

	if g.CreateShader(nil).IsValid() {
		t.Error("nil shader data is valid")
	}

	if g.CreateShader(&graphics.ShaderData{VertexSource: "void main() {}"}).IsValid() {
		t.Error("shader without fragment source is valid")
	}

	if !g.CreateShader(testShaderData()).IsValid() {
		t.Error("valid shader creation failed")
	}
}

func TestMaterialRequiresValidShader(t *testing.T) {

	g, _ := newTestGraphics()
	defer g.Shutdown()

	if g.CreateMaterial("bad", graphics.ShaderRef{}).IsValid() {
		t.Error("material with invalid shader is valid")
	}

	dead := g.CreateShader(testShaderData())
	dead.Release()
	if g.CreateMaterial("bad", dead).IsValid() {
		t.Error("material with released shader is valid")
	}
}

func TestMaterialKeepsShaderAlive(t *testing.T) {

	g, _ := newTestGraphics()
	defer g.Shutdown()

	shader := g.CreateShader(testShaderData())
	impl := shader.Impl().(*testShader)

	mat := g.CreateMaterial("mat", shader)
	if !mat.IsValid() {
		t.Fatal("material creation failed")
	}

	// The caller's reference goes away; the material's keeps the shader alive
	shader.Release()
	if !mat.Shader().IsValid() {
		t.Fatal("shader died while a material still uses it")
	}
	if impl.destroyed {
		t.Fatal("shader storage destroyed while a material still uses it")
	}

	mat.Release()
	if !impl.destroyed {
		t.Error("shader storage not destroyed after last user released it")
	}
}

func TestMaterialTextureOwnership(t *testing.T) {

	g, _ := newTestGraphics()
	defer g.Shutdown()

	shader := g.CreateShader(testShaderData())
	defer shader.Release()

	mat := g.CreateMaterial("mat", shader)

	tex := g.CreateTextureFromRGBA(2, 2, make([]byte, 16))
	mat.SetTexture(graphics.TextureSlot_Diffuse, tex)

	tex.Release()
	if !mat.Textures()[graphics.TextureSlot_Diffuse].IsValid() {
		t.Fatal("texture died while a material still binds it")
	}

	// Replacing the binding drops the material's reference too
	mat.SetTexture(graphics.TextureSlot_Diffuse, graphics.TextureRef{})
	if tex.IsValid() {
		t.Error("texture survived release by both owners")
	}
}

func TestMaterialRebindSameTexture(t *testing.T) {

	g, _ := newTestGraphics()
	defer g.Shutdown()

	shader := g.CreateShader(testShaderData())
	defer shader.Release()

	mat := g.CreateMaterial("mat", shader)

	tex := g.CreateTextureFromRGBA(2, 2, make([]byte, 16))
	mat.SetTexture(graphics.TextureSlot_Diffuse, tex)
	tex.Release()

	// The material holds the only reference now; binding the slot's own
	// texture back to the slot must not destroy it
	mat.SetTexture(graphics.TextureSlot_Diffuse, mat.Textures()[graphics.TextureSlot_Diffuse])

	if !mat.Textures()[graphics.TextureSlot_Diffuse].IsValid() {
		t.Fatal("rebinding a slot's own texture destroyed it")
	}

	mat.Release()
	if tex.IsValid() {
		t.Error("texture survived its last owner")
	}
}

func TestRefCounting(t *testing.T) {

	g, _ := newTestGraphics()
	defer g.Shutdown()

	tex := g.CreateTextureFromRGBA(2, 2, make([]byte, 16))
	other := tex.Acquire()

	tex.Release()
	if !tex.IsValid() || !other.IsValid() {
		t.Fatal("texture died while a reference remains")
	}

	other.Release()
	if tex.IsValid() || other.IsValid() {
		t.Fatal("texture alive after last release")
	}

	// Releasing dead handles is a no-op
	other.Release()
	tex.Release()
}

func TestBackbufferIsPinned(t *testing.T) {

	g, _ := newTestGraphics()
	defer g.Shutdown()

	bb := g.Backbuffer()
	bb.Release()
	bb.Release()

	if !bb.IsValid() || !g.Backbuffer().IsValid() {
		t.Fatal("backbuffer died from caller releases")
	}
}

func buildDrawableCall(g *graphics.Graphics) graphics.RenderCall {

	shader := g.CreateShader(testShaderData())
	mat := g.CreateMaterial("mat", shader)
	shader.Release()

	mesh := g.CreateMesh()
	mesh.SetVertexData([]graphics.Element{{ElementType: graphics.DataTypeVec3}}, make([]float32, 9))
	mesh.SetIndexData([]uint32{0, 1, 2})

	call := graphics.NewRenderCall()
	call.Target = g.Backbuffer()
	call.Mesh = mesh
	call.Material = mat
	call.IndexCount = 3
	return call
}

func TestRenderInvalidCallsAreDropped(t *testing.T) {

	g, backend := newTestGraphics()
	defer g.Shutdown()

	good := buildDrawableCall(g)

	invalidTarget := good
	invalidTarget.Target = graphics.FrameBufferRef{}
	g.Render(&invalidTarget)

	invalidMesh := good
	invalidMesh.Mesh = graphics.MeshRef{}
	g.Render(&invalidMesh)

	invalidMaterial := good
	invalidMaterial.Material = graphics.MaterialRef{}
	g.Render(&invalidMaterial)

	outOfRange := good
	outOfRange.IndexStart = 2
	outOfRange.IndexCount = 3
	g.Render(&outOfRange)

	negativeStart := good
	negativeStart.IndexStart = -1
	g.Render(&negativeStart)

	g.Render(nil)

	if len(backend.draws) != 0 {
		t.Fatalf("%d invalid calls reached the backend", len(backend.draws))
	}

	// Rendering still works after dropped calls
	g.Render(&good)
	if len(backend.draws) != 1 {
		t.Fatalf("valid call after dropped ones did not draw; draws=%d", len(backend.draws))
	}
}

func TestRenderZeroIndicesIsSilentNoOp(t *testing.T) {

	g, backend := newTestGraphics()
	defer g.Shutdown()

	call := buildDrawableCall(g)
	call.IndexCount = 0

	g.Render(&call)
	if len(backend.draws) != 0 {
		t.Fatal("zero-index call reached the backend")
	}
}

func TestRenderNormalizesZeroValueCall(t *testing.T) {

	g, backend := newTestGraphics()
	defer g.Shutdown()

	// A zero-value call with resources filled in must be submittable
	var call graphics.RenderCall
	good := buildDrawableCall(g)
	call.Target = good.Target
	call.Mesh = good.Mesh
	call.Material = good.Material
	call.IndexCount = 3

	g.Render(&call)

	if len(backend.draws) != 1 {
		t.Fatal("zero-value call did not draw")
	}

	if backend.draws[0].InstanceCount != 1 {
		t.Errorf("InstanceCount = %d, want normalized 1", backend.draws[0].InstanceCount)
	}

	// The caller's value is never mutated
	if call.InstanceCount != 0 {
		t.Errorf("submitted call was mutated: InstanceCount=%d", call.InstanceCount)
	}
}

func TestRenderInstancingUnsupported(t *testing.T) {

	backend := newTestBackend()
	backend.info.Instancing = false

	g, err := graphics.New(backend)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Shutdown()

	call := buildDrawableCall(g)
	call.InstanceCount = 4

	g.Render(&call)
	if len(backend.draws) != 0 {
		t.Fatal("instanced call reached a backend without instancing")
	}

	call.InstanceCount = 1
	g.Render(&call)
	if len(backend.draws) != 1 {
		t.Fatal("single-instance call dropped on a backend without instancing")
	}
}

func TestRenderClampsViewportAndScissor(t *testing.T) {

	g, backend := newTestGraphics()
	defer g.Shutdown()

	call := buildDrawableCall(g)
	call.HasViewport = true
	call.Viewport = graphics.Rect{X: -10, Y: 0, W: 200, H: 200}
	call.HasScissor = true
	call.Scissor = graphics.Rect{X: 1000, Y: 1000, W: 5, H: 5}

	g.Render(&call)
	if len(backend.draws) != 1 {
		t.Fatal("clamped call did not draw")
	}

	// Backbuffer is 64x64
	drawn := backend.draws[0]
	if drawn.Viewport != (graphics.Rect{X: 0, Y: 0, W: 64, H: 64}) {
		t.Errorf("viewport not clamped: %+v", drawn.Viewport)
	}

	if drawn.Scissor.W != 0 || drawn.Scissor.H != 0 {
		t.Errorf("fully outside scissor not clamped to zero size: %+v", drawn.Scissor)
	}
}

func TestRenderIsRepeatable(t *testing.T) {

	g, backend := newTestGraphics()
	defer g.Shutdown()

	call := buildDrawableCall(g)
	call.Depth = graphics.Compare_Less
	call.Cull = graphics.Cull_Back
	call.Blend = graphics.BlendMode_Subtract

	g.Render(&call)
	g.Render(&call)

	if len(backend.draws) != 2 {
		t.Fatalf("draws = %d, want 2", len(backend.draws))
	}

	if backend.draws[0] != backend.draws[1] {
		t.Errorf("identical submissions reached the backend differently:\n%+v\n%+v", backend.draws[0], backend.draws[1])
	}
}

func TestClearFillsEveryPixel(t *testing.T) {

	g, _ := newTestGraphics()
	defer g.Shutdown()

	fbo := g.CreateFrameBuffer(4, 4)
	g.Clear(fbo, 0xFF0000FF)

	pixels, err := fbo.Pixels(0)
	if err != nil {
		t.Fatal(err)
	}

	if len(pixels) != 4*4*4 {
		t.Fatalf("pixel buffer size = %d, want 64", len(pixels))
	}

	for i := 0; i < len(pixels); i += 4 {
		if pixels[i] != 255 || pixels[i+1] != 0 || pixels[i+2] != 0 || pixels[i+3] != 255 {
			t.Fatalf("pixel %d = %v, want opaque red", i/4, pixels[i:i+4])
		}
	}
}

func TestClearInvalidTargetIsNotRedirected(t *testing.T) {

	g, backend := newTestGraphics()
	defer g.Shutdown()

	// Poison the backbuffer so any stray clear would show
	g.Clear(g.Backbuffer(), 0x12345678)
	before, _ := g.Backbuffer().Pixels(0)

	g.Clear(graphics.FrameBufferRef{}, 0xFF0000FF)

	after, _ := backend.backbuffer.Pixels(0)
	for i := range after {
		if after[i] != before[i] {
			t.Fatal("clear with invalid target modified the backbuffer")
		}
	}
}

func TestMeshCounts(t *testing.T) {

	g, _ := newTestGraphics()
	defer g.Shutdown()

	mesh := g.CreateMesh()

	layout := []graphics.Element{
		{ElementType: graphics.DataTypeVec3},
		{ElementType: graphics.DataTypeVec2},
	}

	// 4 vertices of 5 floats each
	if err := mesh.SetVertexData(layout, make([]float32, 20)); err != nil {
		t.Fatal(err)
	}

	if mesh.VertexCount() != 4 {
		t.Errorf("VertexCount = %d, want 4", mesh.VertexCount())
	}

	if err := mesh.SetIndexData([]uint32{0, 1, 2, 2, 3, 0}); err != nil {
		t.Fatal(err)
	}

	if mesh.IndexCount() != 6 {
		t.Errorf("IndexCount = %d, want 6", mesh.IndexCount())
	}

	if err := mesh.SetVertexData(nil, nil); err == nil {
		t.Error("empty layout accepted")
	}
}
