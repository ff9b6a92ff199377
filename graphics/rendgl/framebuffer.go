package rendgl

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/mivret/glint/graphics"
)

// glFrameBuffer is either a texture-backed fbo or, with id 0, the
// platform backbuffer whose size follows the window.
type glFrameBuffer struct {
	id       uint32
	width    int32
	height   int32
	colorIds []uint32
	depthId  uint32
}

var _ graphics.FrameBufferImpl = &glFrameBuffer{}

func newGlFrameBuffer(width, height int, attachments []graphics.TextureFormat) (*glFrameBuffer, error) {

	fbo := &glFrameBuffer{
		width:  int32(width),
		height: int32(height),
	}

	gl.GenFramebuffers(1, &fbo.id)
	if fbo.id == 0 {
		return nil, fmt.Errorf("failed to generate framebuffer. GlError=%d", gl.GetError())
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo.id)

	for _, format := range attachments {

		if format.IsDepthFormat() {

			// Depth-stencil goes into a renderbuffer; nothing samples it here
			gl.GenRenderbuffers(1, &fbo.depthId)
			if fbo.depthId == 0 {
				fbo.destroyStorage()
				return nil, fmt.Errorf("failed to generate depth renderbuffer. GlError=%d", gl.GetError())
			}

			gl.BindRenderbuffer(gl.RENDERBUFFER, fbo.depthId)
			gl.RenderbufferStorage(gl.RENDERBUFFER, uint32(formatToGlInternal(format)), fbo.width, fbo.height)
			gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

			gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, fbo.depthId)
			continue
		}

		var texId uint32
		gl.GenTextures(1, &texId)
		if texId == 0 {
			fbo.destroyStorage()
			return nil, fmt.Errorf("failed to generate attachment texture. GlError=%d", gl.GetError())
		}

		gl.BindTexture(gl.TEXTURE_2D, texId)
		gl.TexImage2D(gl.TEXTURE_2D, 0, formatToGlInternal(format), fbo.width, fbo.height, 0, formatToGl(format), formatToGlPixelType(format), nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.BindTexture(gl.TEXTURE_2D, 0)

		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(len(fbo.colorIds)), gl.TEXTURE_2D, texId, 0)
		fbo.colorIds = append(fbo.colorIds, texId)
	}

	if len(fbo.colorIds) > 0 {

		drawBufs := make([]uint32, len(fbo.colorIds))
		for i := range drawBufs {
			drawBufs[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
		}
		gl.DrawBuffers(int32(len(drawBufs)), &drawBufs[0])
	}

	isComplete := gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if !isComplete {
		fbo.Destroy()
		return nil, errors.New("framebuffer is incomplete")
	}

	return fbo, nil
}

func (fbo *glFrameBuffer) Size() (width, height int) {
	return int(fbo.width), int(fbo.height)
}

func (fbo *glFrameBuffer) Pixels(attachment int) ([]byte, error) {

	if fbo.id != 0 && (attachment < 0 || attachment >= len(fbo.colorIds)) {
		return nil, fmt.Errorf("no color attachment %d", attachment)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo.id)
	if fbo.id == 0 {
		gl.ReadBuffer(gl.BACK)
	} else {
		gl.ReadBuffer(gl.COLOR_ATTACHMENT0 + uint32(attachment))
	}

	pixels := make([]byte, int(fbo.width)*int(fbo.height)*4)
	gl.ReadPixels(0, 0, fbo.width, fbo.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		return nil, fmt.Errorf("pixel readback failed. GlError=%d", glErr)
	}

	// Readback comes out bottom row first; flip to row 0 first
	rowSize := int(fbo.width) * 4
	for top, bottom := 0, int(fbo.height)-1; top < bottom; top, bottom = top+1, bottom-1 {

		topRow := pixels[top*rowSize : (top+1)*rowSize]
		bottomRow := pixels[bottom*rowSize : (bottom+1)*rowSize]

		for i := 0; i < rowSize; i++ {
			topRow[i], bottomRow[i] = bottomRow[i], topRow[i]
		}
	}

	return pixels, nil
}

func (fbo *glFrameBuffer) Destroy() {

	// The backbuffer is not ours to delete
	if fbo.id == 0 {
		return
	}

	fbo.destroyStorage()
}

func (fbo *glFrameBuffer) destroyStorage() {

	for i := range fbo.colorIds {
		gl.DeleteTextures(1, &fbo.colorIds[i])
	}
	fbo.colorIds = nil

	if fbo.depthId != 0 {
		gl.DeleteRenderbuffers(1, &fbo.depthId)
		fbo.depthId = 0
	}

	gl.DeleteFramebuffers(1, &fbo.id)
	fbo.id = 0
}
