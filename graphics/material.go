package graphics

import (
	"github.com/bloeys/gglm/gglm"
)

// TextureSlot is the texture unit a material texture binds to.
type TextureSlot uint32

const (
	TextureSlot_Diffuse  TextureSlot = 0
	TextureSlot_Specular TextureSlot = 1
	TextureSlot_Normal   TextureSlot = 2
	TextureSlot_Emission TextureSlot = 3
)

// Uniform is one CPU-side uniform value stored on a material.
type Uniform struct {
	Type ElementType
	Data []float32
}

// material keeps all per-draw shading inputs CPU-side so that a render call
// stays fully self-describing; the backend applies them when the call
// executes. A material owns a reference to its shader for its whole
// lifetime, so the shader can't be destroyed out from under it.
type material struct {
	res      resource
	name     string
	shader   ShaderRef
	uniforms map[string]Uniform
	textures map[TextureSlot]TextureRef
}

// MaterialRef is a shared reference to a material.
// The zero value is the invalid reference.
type MaterialRef struct {
	m *material
}

func (r MaterialRef) IsValid() bool {
	return r.m != nil && r.m.res.alive()
}

func (r MaterialRef) Acquire() MaterialRef {
	if r.m != nil {
		r.m.res.acquire()
	}
	return r
}

func (r MaterialRef) Release() {
	if r.m != nil {
		r.m.res.release()
	}
}

func (r MaterialRef) Name() string {
	if !r.IsValid() {
		return ""
	}
	return r.m.name
}

// Shader returns the shader this material draws with.
// The returned reference is an observation; it is not additionally acquired.
func (r MaterialRef) Shader() ShaderRef {
	if !r.IsValid() {
		return ShaderRef{}
	}
	return r.m.shader
}

func (r MaterialRef) SetFloat(name string, val float32) {
	r.setUniform(name, DataTypeFloat32, []float32{val})
}

func (r MaterialRef) SetVec2(name string, vec2 *gglm.Vec2) {
	r.setUniform(name, DataTypeVec2, vec2.Data[:])
}

func (r MaterialRef) SetVec3(name string, vec3 *gglm.Vec3) {
	r.setUniform(name, DataTypeVec3, vec3.Data[:])
}

func (r MaterialRef) SetVec4(name string, vec4 *gglm.Vec4) {
	r.setUniform(name, DataTypeVec4, vec4.Data[:])
}

func (r MaterialRef) SetMat4(name string, mat4 *gglm.Mat4) {

	data := make([]float32, 0, 16)
	for col := 0; col < 4; col++ {
		data = append(data, mat4.Data[col][:]...)
	}

	if !r.IsValid() {
		return
	}
	r.m.uniforms[name] = Uniform{Type: DataTypeMat4, Data: data}
}

func (r MaterialRef) setUniform(name string, dt ElementType, data []float32) {

	if !r.IsValid() {
		return
	}

	stored := make([]float32, len(data))
	copy(stored, data)
	r.m.uniforms[name] = Uniform{Type: dt, Data: stored}
}

// SetTexture binds a texture to a slot, replacing and releasing whatever
// was bound there. The material holds a reference to the texture until it
// is replaced or the material is destroyed.
func (r MaterialRef) SetTexture(slot TextureSlot, tex TextureRef) {

	if !r.IsValid() {
		return
	}

	old, hadOld := r.m.textures[slot]

	if !tex.IsValid() {
		delete(r.m.textures, slot)
		if hadOld {
			old.Release()
		}
		return
	}

	// Acquire before releasing the old binding, so rebinding the texture
	// already in the slot can't destroy it on the way through.
	r.m.textures[slot] = tex.Acquire()
	if hadOld {
		old.Release()
	}
}

// Uniforms returns the material's uniform store.
// For backend use only; callers must not modify it.
func (r MaterialRef) Uniforms() map[string]Uniform {
	if !r.IsValid() {
		return nil
	}
	return r.m.uniforms
}

// Textures returns the material's texture bindings.
// For backend use only; callers must not modify it.
func (r MaterialRef) Textures() map[TextureSlot]TextureRef {
	if !r.IsValid() {
		return nil
	}
	return r.m.textures
}
