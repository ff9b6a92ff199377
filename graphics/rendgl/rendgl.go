package rendgl

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/mivret/glint/graphics"
	"github.com/mivret/glint/logging"
)

var _ graphics.Backend = &RendGL{}

// RendGL drives a core-profile OpenGL context. The context must be current
// on the calling thread before New and for every call afterwards.
//
// Bound vao/program ids are cached across calls so that back-to-back draws
// with the same mesh or material skip redundant binds. FrameEnd resets the
// cache once per frame.
type RendGL struct {
	info       graphics.GraphicsInfo
	backbuffer *glFrameBuffer

	boundVaoId  uint32
	boundProgId uint32
}

// New loads OpenGL function pointers from the current context and captures
// the device capabilities. backbufferWidth/Height is the initial drawable
// size; keep it current through SetBackbufferSize on window resizes.
func New(backbufferWidth, backbufferHeight int) (*RendGL, error) {

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to load OpenGL. Err: %w", err)
	}

	var maxTextureSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxTextureSize)

	r := &RendGL{
		info: graphics.GraphicsInfo{
			Instancing:       true,
			OriginBottomLeft: true,
			MaxTextureSize:   int(maxTextureSize),
		},
		backbuffer: &glFrameBuffer{
			id:     0,
			width:  int32(backbufferWidth),
			height: int32(backbufferHeight),
		},
	}

	return r, nil
}

func (r *RendGL) Renderer() graphics.Renderer {
	return graphics.Renderer_OpenGL
}

func (r *RendGL) Info() graphics.GraphicsInfo {
	return r.info
}

func (r *RendGL) Backbuffer() graphics.FrameBufferImpl {
	return r.backbuffer
}

// SetBackbufferSize tracks the window's drawable size.
func (r *RendGL) SetBackbufferSize(width, height int) {
	r.backbuffer.width = int32(width)
	r.backbuffer.height = int32(height)
}

func (r *RendGL) NewTexture(width, height int, format graphics.TextureFormat, data []byte) (graphics.TextureImpl, error) {
	return newGlTexture(width, height, format, data)
}

func (r *RendGL) NewFrameBuffer(width, height int, attachments []graphics.TextureFormat) (graphics.FrameBufferImpl, error) {
	return newGlFrameBuffer(width, height, attachments)
}

func (r *RendGL) NewShader(data *graphics.ShaderData) (graphics.ShaderImpl, error) {
	return newGlShader(data)
}

func (r *RendGL) NewMesh() (graphics.MeshImpl, error) {
	return newGlMesh()
}

func (r *RendGL) Render(call *graphics.RenderCall) error {

	target, ok := call.Target.Impl().(*glFrameBuffer)
	if !ok {
		return errors.New("render target was not created by this backend")
	}

	mesh, ok := call.Mesh.Impl().(*glMesh)
	if !ok {
		return errors.New("mesh was not created by this backend")
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, target.id)

	r.applyViewport(call, target)
	r.applyScissor(call, target)
	r.applyDepth(call.Depth)
	r.applyCull(call.Cull)
	r.applyBlend(&call.Blend)

	if err := r.applyMaterial(call.Material); err != nil {
		return err
	}

	if mesh.vaoId != r.boundVaoId {
		gl.BindVertexArray(mesh.vaoId)
		r.boundVaoId = mesh.vaoId
	}

	offset := uintptr(call.IndexStart) * 4
	if call.InstanceCount > 1 {
		gl.DrawElementsInstanced(gl.TRIANGLES, int32(call.IndexCount), gl.UNSIGNED_INT, gl.PtrOffset(int(offset)), int32(call.InstanceCount))
	} else {
		gl.DrawElements(gl.TRIANGLES, int32(call.IndexCount), gl.UNSIGNED_INT, gl.PtrOffset(int(offset)))
	}

	// The facade promises submit+flush per call
	gl.Flush()

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		return fmt.Errorf("draw failed. GlError=%d", glErr)
	}

	return nil
}

func (r *RendGL) Clear(target graphics.FrameBufferImpl, rgba uint32) error {

	fbo, ok := target.(*glFrameBuffer)
	if !ok {
		return errors.New("clear target was not created by this backend")
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo.id)

	gl.Disable(gl.SCISSOR_TEST)
	gl.ColorMask(true, true, true, true)

	red, green, blue, alpha := unpackRGBA(rgba)
	gl.ClearColor(red, green, blue, alpha)
	gl.ClearDepth(1)
	gl.ClearStencil(0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
	gl.Flush()

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		return fmt.Errorf("clear failed. GlError=%d", glErr)
	}

	return nil
}

func (r *RendGL) applyViewport(call *graphics.RenderCall, target *glFrameBuffer) {

	if !call.HasViewport {
		gl.Viewport(0, 0, target.width, target.height)
		return
	}

	// Rects are top-left origin; GL counts from the bottom-left
	vp := call.Viewport
	glY := float32(target.height) - vp.Y - vp.H
	gl.Viewport(int32(vp.X), int32(glY), int32(vp.W), int32(vp.H))
}

func (r *RendGL) applyScissor(call *graphics.RenderCall, target *glFrameBuffer) {

	if !call.HasScissor {
		gl.Disable(gl.SCISSOR_TEST)
		return
	}

	sc := call.Scissor
	glY := float32(target.height) - sc.Y - sc.H

	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(sc.X), int32(glY), int32(sc.W), int32(sc.H))
}

func (r *RendGL) applyDepth(depth graphics.Compare) {

	if depth == graphics.Compare_None {
		gl.Disable(gl.DEPTH_TEST)
		return
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.DepthFunc(compareToGl(depth))
}

func (r *RendGL) applyCull(cull graphics.Cull) {

	if cull == graphics.Cull_None {
		gl.Disable(gl.CULL_FACE)
		return
	}

	gl.Enable(gl.CULL_FACE)
	gl.CullFace(cullToGl(cull))
}

func (r *RendGL) applyBlend(b *graphics.BlendMode) {

	gl.Enable(gl.BLEND)
	gl.BlendEquationSeparate(blendOpToGl(b.ColorOp), blendOpToGl(b.AlphaOp))
	gl.BlendFuncSeparate(blendFactorToGl(b.ColorSrc), blendFactorToGl(b.ColorDst), blendFactorToGl(b.AlphaSrc), blendFactorToGl(b.AlphaDst))

	red, green, blue, alpha := unpackRGBA(b.RGBA)
	gl.BlendColor(red, green, blue, alpha)

	gl.ColorMask(b.Mask.Has(graphics.BlendMask_Red), b.Mask.Has(graphics.BlendMask_Green), b.Mask.Has(graphics.BlendMask_Blue), b.Mask.Has(graphics.BlendMask_Alpha))
}

func (r *RendGL) applyMaterial(mat graphics.MaterialRef) error {

	sh, ok := mat.Shader().Impl().(*glShader)
	if !ok {
		return errors.New("material shader was not created by this backend")
	}

	if sh.progId != r.boundProgId {
		gl.UseProgram(sh.progId)
		r.boundProgId = sh.progId
	}

	for name, u := range mat.Uniforms() {

		loc := sh.getUnifLoc(name)
		if loc == -1 {
			continue
		}

		switch u.Type {
		case graphics.DataTypeFloat32:
			gl.ProgramUniform1f(sh.progId, loc, u.Data[0])
		case graphics.DataTypeVec2:
			gl.ProgramUniform2fv(sh.progId, loc, 1, &u.Data[0])
		case graphics.DataTypeVec3:
			gl.ProgramUniform3fv(sh.progId, loc, 1, &u.Data[0])
		case graphics.DataTypeVec4:
			gl.ProgramUniform4fv(sh.progId, loc, 1, &u.Data[0])
		case graphics.DataTypeMat4:
			gl.ProgramUniformMatrix4fv(sh.progId, loc, 1, false, &u.Data[0])
		default:
			logging.Log.Warn().Str("uniform", name).Stringer("type", u.Type).Msg("unsupported uniform type")
		}
	}

	for slot, texRef := range mat.Textures() {

		tex, ok := texRef.Impl().(*glTexture)
		if !ok {
			continue
		}

		gl.ActiveTexture(gl.TEXTURE0 + uint32(slot))
		gl.BindTexture(gl.TEXTURE_2D, tex.id)
	}

	return nil
}

// FrameEnd resets the bound-state cache. Call once per frame before
// swapping buffers.
func (r *RendGL) FrameEnd() {
	r.boundVaoId = 0
	r.boundProgId = 0
}

func (r *RendGL) Close() {
	r.boundVaoId = 0
	r.boundProgId = 0
}
