package graphics

// BlendOp selects the function used to combine source and destination values.
type BlendOp uint8

const (
	BlendOp_Add BlendOp = iota
	BlendOp_Subtract
	BlendOp_ReverseSubtract
	BlendOp_Min
	BlendOp_Max
)

func (b BlendOp) String() string {

	switch b {
	case BlendOp_Add:
		return "Add"
	case BlendOp_Subtract:
		return "Subtract"
	case BlendOp_ReverseSubtract:
		return "ReverseSubtract"
	case BlendOp_Min:
		return "Min"
	case BlendOp_Max:
		return "Max"
	default:
		return "Unknown"
	}
}

// BlendFactor is the multiplier applied to source or destination values
// before the BlendOp combines them.
type BlendFactor uint8

const (
	BlendFactor_Zero BlendFactor = iota
	BlendFactor_One
	BlendFactor_SrcColor
	BlendFactor_OneMinusSrcColor
	BlendFactor_DstColor
	BlendFactor_OneMinusDstColor
	BlendFactor_SrcAlpha
	BlendFactor_OneMinusSrcAlpha
	BlendFactor_DstAlpha
	BlendFactor_OneMinusDstAlpha
	BlendFactor_ConstantColor
	BlendFactor_OneMinusConstantColor
	BlendFactor_ConstantAlpha
	BlendFactor_OneMinusConstantAlpha
	BlendFactor_SrcAlphaSaturate
	BlendFactor_Src1Color
	BlendFactor_OneMinusSrc1Color
	BlendFactor_Src1Alpha
	BlendFactor_OneMinusSrc1Alpha
)

// BlendMask selects which color channels a draw call writes to.
type BlendMask uint8

const (
	BlendMask_None  BlendMask = 0
	BlendMask_Red   BlendMask = 1
	BlendMask_Green BlendMask = 2
	BlendMask_Blue  BlendMask = 4
	BlendMask_Alpha BlendMask = 8
	BlendMask_RGB   BlendMask = BlendMask_Red | BlendMask_Green | BlendMask_Blue
	BlendMask_RGBA  BlendMask = BlendMask_RGB | BlendMask_Alpha
)

func (bm *BlendMask) Set(flags BlendMask) {
	*bm |= flags
}

func (bm *BlendMask) Remove(flags BlendMask) {
	*bm &= ^flags
}

func (bm *BlendMask) Has(flags BlendMask) bool {
	return *bm&flags == flags
}

// BlendMode describes how the output of a draw call combines with the
// existing contents of the target.
//
// All fields are comparable, so two BlendModes are equal under == iff every
// field matches exactly. Backends rely on that for state-change detection,
// which is why there is no looser notion of equality.
type BlendMode struct {
	ColorOp  BlendOp
	ColorSrc BlendFactor
	ColorDst BlendFactor
	AlphaOp  BlendOp
	AlphaSrc BlendFactor
	AlphaDst BlendFactor
	Mask     BlendMask

	// RGBA is the constant blend color, packed 0xRRGGBBAA.
	// Only sampled by the ConstantColor/ConstantAlpha factors.
	RGBA uint32
}

var (
	// BlendMode_Normal is standard alpha blending of premultiplied output.
	BlendMode_Normal = NewBlendMode(BlendOp_Add, BlendFactor_One, BlendFactor_OneMinusSrcAlpha)

	// BlendMode_Subtract removes the draw call's output from the target.
	BlendMode_Subtract = NewBlendMode(BlendOp_ReverseSubtract, BlendFactor_One, BlendFactor_One)
)

// NewBlendMode applies the same op/src/dst triad to both color and alpha,
// writes all channels and uses an opaque white constant color.
func NewBlendMode(op BlendOp, src, dst BlendFactor) BlendMode {

	return BlendMode{
		ColorOp:  op,
		ColorSrc: src,
		ColorDst: dst,
		AlphaOp:  op,
		AlphaSrc: src,
		AlphaDst: dst,
		Mask:     BlendMask_RGBA,
		RGBA:     0xffffffff,
	}
}

// NewBlendModeSeparate specifies every blend state field explicitly.
func NewBlendModeSeparate(colorOp BlendOp, colorSrc, colorDst BlendFactor, alphaOp BlendOp, alphaSrc, alphaDst BlendFactor, mask BlendMask, rgba uint32) BlendMode {

	return BlendMode{
		ColorOp:  colorOp,
		ColorSrc: colorSrc,
		ColorDst: colorDst,
		AlphaOp:  alphaOp,
		AlphaSrc: alphaSrc,
		AlphaDst: alphaDst,
		Mask:     mask,
		RGBA:     rgba,
	}
}
