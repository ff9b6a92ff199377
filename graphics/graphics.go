package graphics

import (
	"errors"
	"image"
	"io"
	"os"
	"runtime"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/mandykoh/prism"
	"github.com/mivret/glint/logging"
)

// Graphics is the backend-agnostic rendering entry point. It owns every
// resource handed out by its factories, validates submitted calls and
// forwards them to the one backend selected at construction.
//
// All methods must be called from the graphics thread. A multi-threaded
// caller serializes access externally.
type Graphics struct {
	backend    Backend
	info       GraphicsInfo
	renderer   Renderer
	backbuffer FrameBufferRef
	resources  map[*resource]struct{}
}

// New brings up a Graphics context on the given backend. The backend stays
// active and fixed until Shutdown.
func New(backend Backend) (*Graphics, error) {

	if backend == nil {
		return nil, errors.New("graphics: nil backend")
	}

	g := &Graphics{
		backend:   backend,
		info:      backend.Info(),
		renderer:  backend.Renderer(),
		resources: map[*resource]struct{}{},
	}

	bbImpl := backend.Backbuffer()
	if bbImpl == nil {
		return nil, errors.New("graphics: backend has no backbuffer")
	}

	bb := &frameBuffer{
		formats: []TextureFormat{TextureFormat_RGBA, TextureFormat_DepthStencil},
		impl:    bbImpl,
	}
	bb.res = resource{g: g, refs: 1, pinned: true, destroy: bbImpl.Destroy}
	g.resources[&bb.res] = struct{}{}
	g.backbuffer = FrameBufferRef{f: bb}

	logging.Log.Info().
		Str("renderer", g.renderer.String()).
		Bool("instancing", g.info.Instancing).
		Int("maxTextureSize", g.info.MaxTextureSize).
		Msg("graphics initialized")

	return g, nil
}

// Shutdown destroys the backing storage of every outstanding resource and
// closes the backend. Any reference used afterwards reports invalid.
func (g *Graphics) Shutdown() {

	if g == nil || g.backend == nil {
		return
	}

	for res := range g.resources {
		res.kill()
	}

	g.resources = map[*resource]struct{}{}
	g.backbuffer = FrameBufferRef{}
	g.backend.Close()
	g.backend = nil
	g.renderer = Renderer_None
	g.info = GraphicsInfo{}
}

// Info returns the capability snapshot taken at initialization.
func (g *Graphics) Info() GraphicsInfo {
	if g == nil {
		return GraphicsInfo{}
	}
	return g.info
}

// Renderer reports which backend is active. It returns Renderer_None before
// initialization and after Shutdown.
func (g *Graphics) Renderer() Renderer {
	if g == nil || g.backend == nil {
		return Renderer_None
	}
	return g.renderer
}

// Backbuffer returns the platform default render target. The reference is
// valid for the whole lifetime of the context.
func (g *Graphics) Backbuffer() FrameBufferRef {
	if g == nil {
		return FrameBufferRef{}
	}
	return g.backbuffer
}

func (g *Graphics) register(res *resource, destroy func()) {
	res.g = g
	res.refs = 1
	res.destroy = destroy
	g.resources[res] = struct{}{}
}

//
// Texture factories. All of them return an invalid TextureRef on failure
// instead of an error; callers check TextureRef.IsValid before use.
//

// CreateTexture creates a texture of the given size and format with no
// initial data.
func (g *Graphics) CreateTexture(width, height int, format TextureFormat) TextureRef {
	return g.newTexture(width, height, format, nil)
}

// CreateTextureFromRGBA creates an RGBA texture from raw pixel bytes.
// len(rgba) must be exactly width*height*4.
func (g *Graphics) CreateTextureFromRGBA(width, height int, rgba []byte) TextureRef {

	if len(rgba) != width*height*4 {
		logging.Log.Error().
			Int("want", width*height*4).
			Int("got", len(rgba)).
			Msg("texture creation failed: pixel data size mismatch")
		return TextureRef{}
	}

	return g.newTexture(width, height, TextureFormat_RGBA, rgba)
}

// CreateTextureFromImage creates an RGBA texture from a decoded image.
// The image is converted through prism so non-RGBA source types and color
// profiles come out as plain 8-bit RGBA.
func (g *Graphics) CreateTextureFromImage(img image.Image) TextureRef {

	if img == nil {
		logging.Log.Error().Msg("texture creation failed: nil image")
		return TextureRef{}
	}

	rgba := prism.ConvertImageToRGBA(img, runtime.NumCPU())

	bounds := rgba.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	pixels := make([]byte, 0, width*height*4)
	for y := 0; y < height; y++ {
		rowStart := y * rgba.Stride
		pixels = append(pixels, rgba.Pix[rowStart:rowStart+width*4]...)
	}

	return g.newTexture(width, height, TextureFormat_RGBA, pixels)
}

// CreateTextureFromReader decodes an encoded image stream (png, jpeg, bmp)
// and creates an RGBA texture from it.
func (g *Graphics) CreateTextureFromReader(r io.Reader) TextureRef {

	img, _, err := image.Decode(r)
	if err != nil {
		logging.Log.Error().Err(err).Msg("texture creation failed: image decode")
		return TextureRef{}
	}

	return g.CreateTextureFromImage(img)
}

// CreateTextureFromFile decodes an image file and creates an RGBA texture
// from it.
func (g *Graphics) CreateTextureFromFile(path string) TextureRef {

	f, err := os.Open(path)
	if err != nil {
		logging.Log.Error().Err(err).Str("path", path).Msg("texture creation failed: open file")
		return TextureRef{}
	}
	defer f.Close()

	return g.CreateTextureFromReader(f)
}

func (g *Graphics) newTexture(width, height int, format TextureFormat, data []byte) TextureRef {

	if g == nil || g.backend == nil {
		return TextureRef{}
	}

	if width <= 0 || height <= 0 || width > g.info.MaxTextureSize || height > g.info.MaxTextureSize {
		logging.Log.Error().
			Int("width", width).
			Int("height", height).
			Int("max", g.info.MaxTextureSize).
			Msg("texture creation failed: bad dimensions")
		return TextureRef{}
	}

	if !format.IsValid() {
		logging.Log.Error().Stringer("format", format).Msg("texture creation failed: bad format")
		return TextureRef{}
	}

	impl, err := g.backend.NewTexture(width, height, format, data)
	if err != nil {
		logging.Log.Error().Err(err).Msg("texture creation failed")
		return TextureRef{}
	}

	t := &texture{width: width, height: height, format: format, impl: impl}
	g.register(&t.res, impl.Destroy)
	return TextureRef{t: t}
}

//
// FrameBuffer factories
//

// CreateFrameBuffer creates a framebuffer with a single RGBA color
// attachment of the given size.
func (g *Graphics) CreateFrameBuffer(width, height int) FrameBufferRef {
	return g.CreateFrameBufferWith(width, height, TextureFormat_RGBA)
}

// CreateFrameBufferWith creates a framebuffer with the given attachments.
// At least one attachment must be provided and at most one may be a
// depth-stencil format. Returns an invalid ref on any violation.
func (g *Graphics) CreateFrameBufferWith(width, height int, attachments ...TextureFormat) FrameBufferRef {

	if g == nil || g.backend == nil {
		return FrameBufferRef{}
	}

	if len(attachments) == 0 {
		logging.Log.Error().Msg("framebuffer creation failed: no attachments")
		return FrameBufferRef{}
	}

	if width <= 0 || height <= 0 || width > g.info.MaxTextureSize || height > g.info.MaxTextureSize {
		logging.Log.Error().
			Int("width", width).
			Int("height", height).
			Int("max", g.info.MaxTextureSize).
			Msg("framebuffer creation failed: bad dimensions")
		return FrameBufferRef{}
	}

	depthCount := 0
	for _, format := range attachments {

		if !format.IsValid() {
			logging.Log.Error().Stringer("format", format).Msg("framebuffer creation failed: bad attachment format")
			return FrameBufferRef{}
		}

		if format.IsDepthFormat() {
			depthCount++
		}
	}

	if depthCount > 1 {
		logging.Log.Error().Msg("framebuffer creation failed: more than one depth-stencil attachment")
		return FrameBufferRef{}
	}

	formats := make([]TextureFormat, len(attachments))
	copy(formats, attachments)

	impl, err := g.backend.NewFrameBuffer(width, height, formats)
	if err != nil {
		logging.Log.Error().Err(err).Msg("framebuffer creation failed")
		return FrameBufferRef{}
	}

	f := &frameBuffer{formats: formats, impl: impl}
	g.register(&f.res, impl.Destroy)
	return FrameBufferRef{f: f}
}

//
// Shader / Material / Mesh factories
//

// CreateShader compiles the given shader data on the backend.
// Returns an invalid ref if compilation fails.
func (g *Graphics) CreateShader(data *ShaderData) ShaderRef {

	if g == nil || g.backend == nil {
		return ShaderRef{}
	}

	if data == nil || data.VertexSource == "" || data.FragmentSource == "" {
		logging.Log.Error().Msg("shader creation failed: missing source")
		return ShaderRef{}
	}

	impl, err := g.backend.NewShader(data)
	if err != nil {
		logging.Log.Error().Err(err).Msg("shader creation failed")
		return ShaderRef{}
	}

	s := &shader{impl: impl}
	g.register(&s.res, impl.Destroy)
	return ShaderRef{s: s}
}

// CreateMaterial creates a material drawing with the given shader.
// The material acquires the shader, so the shader outlives the material
// even if the caller releases its own reference.
func (g *Graphics) CreateMaterial(name string, shaderRef ShaderRef) MaterialRef {

	if g == nil || g.backend == nil {
		return MaterialRef{}
	}

	if !shaderRef.IsValid() {
		logging.Log.Error().Str("material", name).Msg("material creation failed: invalid shader")
		return MaterialRef{}
	}

	m := &material{
		name:     name,
		shader:   shaderRef.Acquire(),
		uniforms: map[string]Uniform{},
		textures: map[TextureSlot]TextureRef{},
	}

	g.register(&m.res, func() {
		m.shader.Release()
		for _, tex := range m.textures {
			tex.Release()
		}
	})

	return MaterialRef{m: m}
}

// CreateMesh creates a mesh with no geometry. Upload vertex and index data
// through the returned reference before drawing with it.
func (g *Graphics) CreateMesh() MeshRef {

	if g == nil || g.backend == nil {
		return MeshRef{}
	}

	impl, err := g.backend.NewMesh()
	if err != nil {
		logging.Log.Error().Err(err).Msg("mesh creation failed")
		return MeshRef{}
	}

	m := &mesh{impl: impl}
	g.register(&m.res, impl.Destroy)
	return MeshRef{m: m}
}

//
// Submission
//

// Render validates and executes one draw call. It submits and flushes
// synchronously; when it returns, the call has been handed to the backend
// in program order.
//
// An invalid call is reported through the log and dropped; rendering
// continues with the next call.
func (g *Graphics) Render(call *RenderCall) {

	if g == nil || g.backend == nil {
		logging.Log.Error().Msg("render call dropped: graphics not initialized")
		return
	}

	if call == nil {
		logging.Log.Error().Msg("render call dropped: nil call")
		return
	}

	if !call.Target.IsValid() {
		logging.Log.Error().Msg("render call dropped: invalid target")
		return
	}

	if !call.Mesh.IsValid() {
		logging.Log.Error().Msg("render call dropped: invalid mesh")
		return
	}

	if !call.Material.IsValid() || !call.Material.Shader().IsValid() {
		logging.Log.Error().Msg("render call dropped: invalid material")
		return
	}

	if call.IndexStart < 0 || call.IndexCount < 0 || call.IndexStart+call.IndexCount > call.Mesh.IndexCount() {
		logging.Log.Error().
			Int64("indexStart", call.IndexStart).
			Int64("indexCount", call.IndexCount).
			Int64("meshIndexCount", call.Mesh.IndexCount()).
			Msg("render call dropped: index range out of bounds")
		return
	}

	// A freshly built call with no range set draws nothing; not an error.
	if call.IndexCount == 0 {
		return
	}

	// Zero-value RenderCalls are submittable; treat them as one instance.
	prepared := *call
	if prepared.InstanceCount < 1 {
		prepared.InstanceCount = 1
	}

	if prepared.InstanceCount > 1 && !g.info.Instancing {
		logging.Log.Error().Msg("render call dropped: backend does not support instancing")
		return
	}

	targetW, targetH := prepared.Target.Size()
	if prepared.HasViewport {
		prepared.Viewport = prepared.Viewport.Clamped(float32(targetW), float32(targetH))
	}

	if prepared.HasScissor {
		prepared.Scissor = prepared.Scissor.Clamped(float32(targetW), float32(targetH))
	}

	if err := g.backend.Render(&prepared); err != nil {
		logging.Log.Error().Err(err).Msg("render call failed on backend")
	}
}

// Clear sets every pixel of every attachment of target to rgba
// (packed 0xRRGGBBAA). An invalid target is an error; the call is never
// redirected to the backbuffer.
func (g *Graphics) Clear(target FrameBufferRef, rgba uint32) {

	if g == nil || g.backend == nil {
		logging.Log.Error().Msg("clear dropped: graphics not initialized")
		return
	}

	if !target.IsValid() {
		logging.Log.Error().Msg("clear dropped: invalid target")
		return
	}

	if err := g.backend.Clear(target.Impl(), rgba); err != nil {
		logging.Log.Error().Err(err).Msg("clear failed on backend")
	}
}
