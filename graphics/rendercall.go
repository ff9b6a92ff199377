package graphics

// Compare is the depth test function applied to a draw call.
// Compare_None disables depth testing entirely.
type Compare uint8

const (
	Compare_None Compare = iota
	Compare_Always
	Compare_Never
	Compare_Less
	Compare_Equal
	Compare_LessOrEqual
	Compare_Greater
	Compare_NotEqual
	Compare_GreaterOrEqual
)

// Cull selects which triangle faces are discarded before rasterization.
type Cull uint8

const (
	Cull_None Cull = iota
	Cull_Front
	Cull_Back
	Cull_Both
)

// Rect is an axis-aligned rectangle with its origin at the top-left of the
// target. Backends whose native origin is bottom-left convert internally.
type Rect struct {
	X float32
	Y float32
	W float32
	H float32
}

// Clamped returns the rect clipped against a width*height target.
// A rect entirely outside the target clamps to zero size.
func (r Rect) Clamped(width, height float32) Rect {

	if r.X < 0 {
		r.W += r.X
		r.X = 0
	}

	if r.Y < 0 {
		r.H += r.Y
		r.Y = 0
	}

	if r.X > width {
		r.X = width
	}

	if r.Y > height {
		r.Y = height
	}

	if r.X+r.W > width {
		r.W = width - r.X
	}

	if r.Y+r.H > height {
		r.H = height - r.Y
	}

	if r.W < 0 {
		r.W = 0
	}

	if r.H < 0 {
		r.H = 0
	}

	return r
}

// RenderCall fully describes one draw command: target, geometry range,
// material and every piece of pipeline state the draw needs. There is no
// global render state to forget to reset; each call stands on its own and
// the same value can be submitted any number of times.
type RenderCall struct {

	// Framebuffer to draw to
	Target FrameBufferRef

	// Mesh to draw with
	Mesh MeshRef

	// Material to draw with
	Material MaterialRef

	// Whether the viewport rect below overrides the target's full size
	HasViewport bool

	// Whether drawing is clipped to the scissor rect below
	HasScissor bool

	// The viewport (only used if HasViewport is true)
	Viewport Rect

	// The scissor rectangle (only used if HasScissor is true)
	Scissor Rect

	// First index in the mesh to draw from
	IndexStart int64

	// Total amount of indices to draw from the mesh
	IndexCount int64

	// Total amount of instances to draw
	InstanceCount int64

	// Depth compare function
	Depth Compare

	// Cull mode
	Cull Cull

	// Blend mode
	Blend BlendMode
}

// NewRenderCall returns a RenderCall with safe defaults: no viewport or
// scissor override, one instance, depth test disabled, no culling and
// normal alpha blending. The index range is left zero; callers set it
// before the call draws anything.
func NewRenderCall() RenderCall {

	return RenderCall{
		InstanceCount: 1,
		Depth:         Compare_None,
		Cull:          Cull_None,
		Blend:         BlendMode_Normal,
	}
}
