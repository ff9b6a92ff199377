package graphics

// TextureFormat is the pixel format of a texture or framebuffer attachment.
type TextureFormat uint8

const (
	TextureFormat_None TextureFormat = iota
	TextureFormat_R
	TextureFormat_RG
	TextureFormat_RGBA
	TextureFormat_DepthStencil
)

func (f TextureFormat) IsValid() bool {

	switch f {
	case TextureFormat_R:
		fallthrough
	case TextureFormat_RG:
		fallthrough
	case TextureFormat_RGBA:
		fallthrough
	case TextureFormat_DepthStencil:
		return true

	default:
		return false
	}
}

func (f TextureFormat) IsColorFormat() bool {
	return f == TextureFormat_R || f == TextureFormat_RG || f == TextureFormat_RGBA
}

func (f TextureFormat) IsDepthFormat() bool {
	return f == TextureFormat_DepthStencil
}

// PixelSize returns the size in bytes of one pixel in this format.
func (f TextureFormat) PixelSize() int {

	switch f {
	case TextureFormat_R:
		return 1
	case TextureFormat_RG:
		return 2
	case TextureFormat_RGBA:
		return 4
	case TextureFormat_DepthStencil:
		return 4
	default:
		return 0
	}
}

func (f TextureFormat) String() string {

	switch f {
	case TextureFormat_R:
		return "R"
	case TextureFormat_RG:
		return "RG"
	case TextureFormat_RGBA:
		return "RGBA"
	case TextureFormat_DepthStencil:
		return "DepthStencil"
	default:
		return "None"
	}
}
