package rendgl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/mivret/glint/graphics"
)

type glTexture struct {
	id     uint32
	width  int32
	height int32
	format graphics.TextureFormat
}

var _ graphics.TextureImpl = &glTexture{}

func newGlTexture(width, height int, format graphics.TextureFormat, data []byte) (*glTexture, error) {

	t := &glTexture{
		width:  int32(width),
		height: int32(height),
		format: format,
	}

	gl.GenTextures(1, &t.id)
	if t.id == 0 {
		return nil, fmt.Errorf("failed to generate texture. GlError=%d", gl.GetError())
	}

	var dataPtr = gl.Ptr(nil)
	if len(data) > 0 {
		dataPtr = gl.Ptr(&data[0])
	}

	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, formatToGlInternal(format), t.width, t.height, 0, formatToGl(format), formatToGlPixelType(format), dataPtr)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if glErr := gl.GetError(); glErr != gl.NO_ERROR {
		t.Destroy()
		return nil, fmt.Errorf("failed to upload texture data. GlError=%d", glErr)
	}

	return t, nil
}

func (t *glTexture) Destroy() {

	if t.id == 0 {
		return
	}

	gl.DeleteTextures(1, &t.id)
	t.id = 0
}
