package graphics

import "errors"

// resource is the shared bookkeeping embedded in every GPU-backed object.
// Handles share one resource record; the backend storage is destroyed when
// the last handle releases it, or when the owning Graphics shuts down.
//
// Counters are plain ints: this layer is single-threaded by contract.
type resource struct {
	g       *Graphics
	refs    int64
	pinned  bool
	dead    bool
	destroy func()
}

func (r *resource) alive() bool {
	return r != nil && !r.dead
}

func (r *resource) acquire() {

	if !r.alive() {
		return
	}

	r.refs++
}

func (r *resource) release() {

	if !r.alive() {
		return
	}

	// The backbuffer is pinned for the lifetime of the Graphics context.
	if r.pinned && r.refs <= 1 {
		return
	}

	r.refs--
	if r.refs > 0 {
		return
	}

	r.kill()
}

// kill destroys the backend storage regardless of the reference count.
// Used by release on last reference and by Graphics.Shutdown.
func (r *resource) kill() {

	if r.dead {
		return
	}

	r.dead = true
	if r.destroy != nil {
		r.destroy()
	}

	if r.g != nil {
		delete(r.g.resources, r)
	}
}

var errInvalidRef = errors.New("graphics: invalid resource reference")

//
// Texture
//

type texture struct {
	res    resource
	width  int
	height int
	format TextureFormat
	impl   TextureImpl
}

// TextureRef is a shared reference to a backend-owned texture.
// The zero value is the invalid reference.
type TextureRef struct {
	t *texture
}

// IsValid reports whether the reference points at live backend storage.
// Factories signal failure by returning an invalid reference, so callers
// check this before use.
func (r TextureRef) IsValid() bool {
	return r.t != nil && r.t.res.alive()
}

// Acquire adds a reference and returns the same handle for convenience.
func (r TextureRef) Acquire() TextureRef {
	if r.t != nil {
		r.t.res.acquire()
	}
	return r
}

// Release drops a reference. The texture's backend storage is destroyed
// when the last reference is released.
func (r TextureRef) Release() {
	if r.t != nil {
		r.t.res.release()
	}
}

func (r TextureRef) Width() int {
	if !r.IsValid() {
		return 0
	}
	return r.t.width
}

func (r TextureRef) Height() int {
	if !r.IsValid() {
		return 0
	}
	return r.t.height
}

func (r TextureRef) Format() TextureFormat {
	if !r.IsValid() {
		return TextureFormat_None
	}
	return r.t.format
}

// Impl exposes the backend storage. For backend use only.
func (r TextureRef) Impl() TextureImpl {
	if !r.IsValid() {
		return nil
	}
	return r.t.impl
}

//
// FrameBuffer
//

type frameBuffer struct {
	res     resource
	formats []TextureFormat
	impl    FrameBufferImpl
}

// FrameBufferRef is a shared reference to a backend-owned framebuffer.
// The zero value is the invalid reference.
type FrameBufferRef struct {
	f *frameBuffer
}

func (r FrameBufferRef) IsValid() bool {
	return r.f != nil && r.f.res.alive()
}

func (r FrameBufferRef) Acquire() FrameBufferRef {
	if r.f != nil {
		r.f.res.acquire()
	}
	return r
}

func (r FrameBufferRef) Release() {
	if r.f != nil {
		r.f.res.release()
	}
}

// Size returns the framebuffer's current dimensions.
func (r FrameBufferRef) Size() (width, height int) {
	if !r.IsValid() {
		return 0, 0
	}
	return r.f.impl.Size()
}

// Attachments returns a copy of the attachment format list.
func (r FrameBufferRef) Attachments() []TextureFormat {

	if !r.IsValid() {
		return nil
	}

	formats := make([]TextureFormat, len(r.f.formats))
	copy(formats, r.f.formats)
	return formats
}

// Pixels reads back a color attachment as tightly packed RGBA bytes.
func (r FrameBufferRef) Pixels(attachment int) ([]byte, error) {

	if !r.IsValid() {
		return nil, errInvalidRef
	}

	return r.f.impl.Pixels(attachment)
}

// Impl exposes the backend storage. For backend use only.
func (r FrameBufferRef) Impl() FrameBufferImpl {
	if !r.IsValid() {
		return nil
	}
	return r.f.impl
}

//
// Shader
//

type shader struct {
	res  resource
	impl ShaderImpl
}

// ShaderRef is a shared reference to a backend-owned shader.
// The zero value is the invalid reference.
type ShaderRef struct {
	s *shader
}

func (r ShaderRef) IsValid() bool {
	return r.s != nil && r.s.res.alive()
}

func (r ShaderRef) Acquire() ShaderRef {
	if r.s != nil {
		r.s.res.acquire()
	}
	return r
}

func (r ShaderRef) Release() {
	if r.s != nil {
		r.s.res.release()
	}
}

// Impl exposes the backend storage. For backend use only.
func (r ShaderRef) Impl() ShaderImpl {
	if !r.IsValid() {
		return nil
	}
	return r.s.impl
}

//
// Mesh
//

type mesh struct {
	res         resource
	impl        MeshImpl
	vertexCount int64
	indexCount  int64
}

// MeshRef is a shared reference to a backend-owned mesh.
// The zero value is the invalid reference.
type MeshRef struct {
	m *mesh
}

func (r MeshRef) IsValid() bool {
	return r.m != nil && r.m.res.alive()
}

func (r MeshRef) Acquire() MeshRef {
	if r.m != nil {
		r.m.res.acquire()
	}
	return r
}

func (r MeshRef) Release() {
	if r.m != nil {
		r.m.res.release()
	}
}

// SetVertexData uploads interleaved vertex data matching the given layout.
func (r MeshRef) SetVertexData(layout []Element, data []float32) error {

	if !r.IsValid() {
		return errInvalidRef
	}

	stride := LayoutStride(layout)
	if stride <= 0 {
		return errors.New("graphics: empty vertex layout")
	}

	if err := r.m.impl.SetVertexData(layout, data); err != nil {
		return err
	}

	r.m.vertexCount = int64(len(data)) * 4 / int64(stride)
	return nil
}

// SetIndexData uploads the mesh's index buffer.
// Render calls validate their index range against this count.
func (r MeshRef) SetIndexData(indices []uint32) error {

	if !r.IsValid() {
		return errInvalidRef
	}

	if err := r.m.impl.SetIndexData(indices); err != nil {
		return err
	}

	r.m.indexCount = int64(len(indices))
	return nil
}

func (r MeshRef) VertexCount() int64 {
	if !r.IsValid() {
		return 0
	}
	return r.m.vertexCount
}

func (r MeshRef) IndexCount() int64 {
	if !r.IsValid() {
		return 0
	}
	return r.m.indexCount
}

// Impl exposes the backend storage. For backend use only.
func (r MeshRef) Impl() MeshImpl {
	if !r.IsValid() {
		return nil
	}
	return r.m.impl
}
