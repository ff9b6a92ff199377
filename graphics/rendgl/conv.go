package rendgl

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/mivret/glint/graphics"
	"github.com/mivret/glint/logging"
)

func blendOpToGl(op graphics.BlendOp) uint32 {

	switch op {
	case graphics.BlendOp_Add:
		return gl.FUNC_ADD
	case graphics.BlendOp_Subtract:
		return gl.FUNC_SUBTRACT
	case graphics.BlendOp_ReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case graphics.BlendOp_Min:
		return gl.MIN
	case graphics.BlendOp_Max:
		return gl.MAX

	default:
		logging.Log.Error().Uint8("op", uint8(op)).Msg("unknown blend op, using add")
		return gl.FUNC_ADD
	}
}

func blendFactorToGl(f graphics.BlendFactor) uint32 {

	switch f {
	case graphics.BlendFactor_Zero:
		return gl.ZERO
	case graphics.BlendFactor_One:
		return gl.ONE
	case graphics.BlendFactor_SrcColor:
		return gl.SRC_COLOR
	case graphics.BlendFactor_OneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	case graphics.BlendFactor_DstColor:
		return gl.DST_COLOR
	case graphics.BlendFactor_OneMinusDstColor:
		return gl.ONE_MINUS_DST_COLOR
	case graphics.BlendFactor_SrcAlpha:
		return gl.SRC_ALPHA
	case graphics.BlendFactor_OneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case graphics.BlendFactor_DstAlpha:
		return gl.DST_ALPHA
	case graphics.BlendFactor_OneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	case graphics.BlendFactor_ConstantColor:
		return gl.CONSTANT_COLOR
	case graphics.BlendFactor_OneMinusConstantColor:
		return gl.ONE_MINUS_CONSTANT_COLOR
	case graphics.BlendFactor_ConstantAlpha:
		return gl.CONSTANT_ALPHA
	case graphics.BlendFactor_OneMinusConstantAlpha:
		return gl.ONE_MINUS_CONSTANT_ALPHA
	case graphics.BlendFactor_SrcAlphaSaturate:
		return gl.SRC_ALPHA_SATURATE
	case graphics.BlendFactor_Src1Color:
		return gl.SRC1_COLOR
	case graphics.BlendFactor_OneMinusSrc1Color:
		return gl.ONE_MINUS_SRC1_COLOR
	case graphics.BlendFactor_Src1Alpha:
		return gl.SRC1_ALPHA
	case graphics.BlendFactor_OneMinusSrc1Alpha:
		return gl.ONE_MINUS_SRC1_ALPHA

	default:
		logging.Log.Error().Uint8("factor", uint8(f)).Msg("unknown blend factor, using one")
		return gl.ONE
	}
}

// compareToGl maps depth compare functions. Compare_None never reaches here;
// it disables the depth test instead.
func compareToGl(c graphics.Compare) uint32 {

	switch c {
	case graphics.Compare_Always:
		return gl.ALWAYS
	case graphics.Compare_Never:
		return gl.NEVER
	case graphics.Compare_Less:
		return gl.LESS
	case graphics.Compare_Equal:
		return gl.EQUAL
	case graphics.Compare_LessOrEqual:
		return gl.LEQUAL
	case graphics.Compare_Greater:
		return gl.GREATER
	case graphics.Compare_NotEqual:
		return gl.NOTEQUAL
	case graphics.Compare_GreaterOrEqual:
		return gl.GEQUAL

	default:
		logging.Log.Error().Uint8("compare", uint8(c)).Msg("unknown depth compare, using always")
		return gl.ALWAYS
	}
}

func cullToGl(c graphics.Cull) uint32 {

	switch c {
	case graphics.Cull_Front:
		return gl.FRONT
	case graphics.Cull_Back:
		return gl.BACK
	case graphics.Cull_Both:
		return gl.FRONT_AND_BACK

	default:
		logging.Log.Error().Uint8("cull", uint8(c)).Msg("unknown cull mode, using back")
		return gl.BACK
	}
}

func elementTypeToGl(dt graphics.ElementType) uint32 {

	switch dt {
	case graphics.DataTypeUint32:
		return gl.UNSIGNED_INT
	case graphics.DataTypeInt32:
		return gl.INT

	default:
		return gl.FLOAT
	}
}

func formatToGlInternal(f graphics.TextureFormat) int32 {

	switch f {
	case graphics.TextureFormat_R:
		return gl.R8
	case graphics.TextureFormat_RG:
		return gl.RG8
	case graphics.TextureFormat_RGBA:
		return gl.RGBA8
	case graphics.TextureFormat_DepthStencil:
		return gl.DEPTH24_STENCIL8

	default:
		logging.Log.Error().Stringer("format", f).Msg("unknown texture format, using rgba8")
		return gl.RGBA8
	}
}

func formatToGl(f graphics.TextureFormat) uint32 {

	switch f {
	case graphics.TextureFormat_R:
		return gl.RED
	case graphics.TextureFormat_RG:
		return gl.RG
	case graphics.TextureFormat_RGBA:
		return gl.RGBA
	case graphics.TextureFormat_DepthStencil:
		return gl.DEPTH_STENCIL

	default:
		logging.Log.Error().Stringer("format", f).Msg("unknown texture format, using rgba")
		return gl.RGBA
	}
}

func formatToGlPixelType(f graphics.TextureFormat) uint32 {

	if f == graphics.TextureFormat_DepthStencil {
		return gl.UNSIGNED_INT_24_8
	}

	return gl.UNSIGNED_BYTE
}

// unpackRGBA splits a packed 0xRRGGBBAA color into normalized channels.
func unpackRGBA(rgba uint32) (r, g, b, a float32) {
	r = float32(rgba>>24&0xff) / 255
	g = float32(rgba>>16&0xff) / 255
	b = float32(rgba>>8&0xff) / 255
	a = float32(rgba&0xff) / 255
	return r, g, b, a
}
