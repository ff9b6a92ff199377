package meshes

import (
	"errors"

	"github.com/bloeys/assimp-go/asig"
	"github.com/bloeys/gglm/gglm"
	"github.com/mivret/glint/assert"
	"github.com/mivret/glint/graphics"
)

// SubMesh is a drawable index range within a Model's mesh. Feed IndexStart
// and IndexCount straight into a render call.
type SubMesh struct {
	IndexStart int64
	IndexCount int64
}

// Model is a loaded asset: one GPU mesh holding all submeshes back to back.
//
// The vertex layout is:
//   - Loc0: Pos
//   - Loc1: Normal
//   - Loc2: Tangent
//   - Loc3: UV0
//   - (Optional) Loc4: Color
type Model struct {
	Name      string
	Mesh      graphics.MeshRef
	SubMeshes []SubMesh
}

var (
	// DefaultModelLoadFlags are the flags always applied when loading a new model regardless
	// of what post process flags are used when loading.
	//
	// Defaults to: asig.PostProcessTriangulate | asig.PostProcessCalcTangentSpace;
	// Note: changing this will break the normal lit shaders, which expect tangents to be there
	DefaultModelLoadFlags asig.PostProcess = asig.PostProcessTriangulate | asig.PostProcessCalcTangentSpace
)

// LoadModel imports a model file through assimp and uploads all its meshes
// into a single mesh owned by gfx. Submesh vertices are rebased into the
// shared buffer, so each SubMesh is just an index range.
func LoadModel(gfx *graphics.Graphics, name, modelPath string, postProcessFlags asig.PostProcess) (Model, error) {

	finalPostProcessFlags := DefaultModelLoadFlags | postProcessFlags

	scene, release, err := asig.ImportFile(modelPath, finalPostProcessFlags)
	if err != nil {
		return Model{}, errors.New("Failed to load model. Err: " + err.Error())
	}
	defer release()

	if len(scene.Meshes) == 0 {
		return Model{}, errors.New("No meshes found in file: " + modelPath)
	}

	model := Model{
		Name:      name,
		SubMeshes: make([]SubMesh, 0, len(scene.Meshes)),
	}

	// Estimate a useful prealloc capacity based on the first submesh that has vertex pos+normals+tangents+texCoords
	vertexBufDataCapacity := len(scene.Meshes[0].Vertices) * (3 + 3 + 3 + 2)

	hasColorSet0 := len(scene.Meshes[0].ColorSets) > 0 && len(scene.Meshes[0].ColorSets[0]) > 0
	if hasColorSet0 {
		vertexBufDataCapacity += len(scene.Meshes[0].Vertices) * 4
	}

	var vertexBufData []float32 = make([]float32, 0, vertexBufDataCapacity)

	// Initial size assumes 3 indices per face
	var indexBufData []uint32 = make([]uint32, 0, len(scene.Meshes[0].Faces)*3)

	floatsPerVertex := 3 + 3 + 3 + 2
	if hasColorSet0 {
		floatsPerVertex += 4
	}

	for i := 0; i < len(scene.Meshes); i++ {

		sceneMesh := scene.Meshes[i]

		// We always want tangents and UV0
		if len(sceneMesh.Tangents) == 0 {
			sceneMesh.Tangents = make([]gglm.Vec3, len(sceneMesh.Vertices))
		}

		var uv0 []gglm.Vec3
		if len(sceneMesh.TexCoords) > 0 {
			uv0 = sceneMesh.TexCoords[0]
		}
		if len(uv0) == 0 {
			uv0 = make([]gglm.Vec3, len(sceneMesh.Vertices))
		}

		meshHasColorSet0 := len(sceneMesh.ColorSets) > 0 && len(sceneMesh.ColorSets[0]) > 0

		// One mesh means one buffer format, so every submesh must match
		// the layout of the first
		assert.T(meshHasColorSet0 == hasColorSet0, "Vertex layout of submesh '%d' of model '%s' at path '%s' does not equal vertex layout of the first submesh", i, name, modelPath)

		arrs := []arrToInterleave{
			{V3s: sceneMesh.Vertices},
			{V3s: sceneMesh.Normals},
			{V3s: sceneMesh.Tangents},
			{V2s: v3sToV2s(uv0)},
		}

		if meshHasColorSet0 {
			arrs = append(arrs, arrToInterleave{V4s: sceneMesh.ColorSets[0]})
		}

		// Draws address the shared buffer by index range only, so fold
		// this submesh's base vertex into its indices
		baseVertex := uint32(len(vertexBufData) / floatsPerVertex)
		indices := flattenFaces(sceneMesh.Faces, baseVertex)

		model.SubMeshes = append(model.SubMeshes, SubMesh{
			IndexStart: int64(len(indexBufData)),
			IndexCount: int64(len(indices)),
		})

		vertexBufData = append(vertexBufData, interleave(arrs...)...)
		indexBufData = append(indexBufData, indices...)
	}

	layout := []graphics.Element{
		{ElementType: graphics.DataTypeVec3}, // Position
		{ElementType: graphics.DataTypeVec3}, // Normals
		{ElementType: graphics.DataTypeVec3}, // Tangents
		{ElementType: graphics.DataTypeVec2}, // UV0
	}

	if hasColorSet0 {
		layout = append(layout, graphics.Element{ElementType: graphics.DataTypeVec4})
	}

	model.Mesh = gfx.CreateMesh()
	if !model.Mesh.IsValid() {
		return Model{}, errors.New("Failed to create mesh for model: " + name)
	}

	if err := model.Mesh.SetVertexData(layout, vertexBufData); err != nil {
		model.Mesh.Release()
		return Model{}, err
	}

	if err := model.Mesh.SetIndexData(indexBufData); err != nil {
		model.Mesh.Release()
		return Model{}, err
	}

	return model, nil
}

// Release drops the model's hold on its GPU mesh
func (m *Model) Release() {
	m.Mesh.Release()
	m.SubMeshes = nil
}

func v3sToV2s(v3s []gglm.Vec3) []gglm.Vec2 {

	v2s := make([]gglm.Vec2, len(v3s))
	for i := 0; i < len(v3s); i++ {
		v2s[i] = gglm.Vec2{
			Data: [2]float32{v3s[i].X(), v3s[i].Y()},
		}
	}

	return v2s
}

type arrToInterleave struct {
	V2s []gglm.Vec2
	V3s []gglm.Vec3
	V4s []gglm.Vec4
}

func (a *arrToInterleave) get(i int) []float32 {

	assert.T(len(a.V2s) == 0 || len(a.V3s) == 0, "One array should be set in arrToInterleave, but multiple arrays are set")
	assert.T(len(a.V2s) == 0 || len(a.V4s) == 0, "One array should be set in arrToInterleave, but multiple arrays are set")
	assert.T(len(a.V3s) == 0 || len(a.V4s) == 0, "One array should be set in arrToInterleave, but multiple arrays are set")

	if len(a.V2s) > 0 {
		return a.V2s[i].Data[:]
	} else if len(a.V3s) > 0 {
		return a.V3s[i].Data[:]
	} else {
		return a.V4s[i].Data[:]
	}
}

func interleave(arrs ...arrToInterleave) []float32 {

	assert.T(len(arrs) > 0, "No input sent to interleave")
	assert.T(len(arrs[0].V2s) > 0 || len(arrs[0].V3s) > 0 || len(arrs[0].V4s) > 0, "Interleave arrays are empty")

	elementCount := 0
	if len(arrs[0].V2s) > 0 {
		elementCount = len(arrs[0].V2s)
	} else if len(arrs[0].V3s) > 0 {
		elementCount = len(arrs[0].V3s)
	} else {
		elementCount = len(arrs[0].V4s)
	}

	//Calculate final size of the float buffer
	totalSize := 0
	for i := 0; i < len(arrs); i++ {

		assert.T(len(arrs[i].V2s) == elementCount || len(arrs[i].V3s) == elementCount || len(arrs[i].V4s) == elementCount, "Mesh vertex data given to interleave is not the same length")

		if len(arrs[i].V2s) > 0 {
			totalSize += len(arrs[i].V2s) * 2
		} else if len(arrs[i].V3s) > 0 {
			totalSize += len(arrs[i].V3s) * 3
		} else {
			totalSize += len(arrs[i].V4s) * 4
		}
	}

	out := make([]float32, 0, totalSize)
	for i := 0; i < elementCount; i++ {
		for arrToUse := 0; arrToUse < len(arrs); arrToUse++ {
			out = append(out, arrs[arrToUse].get(i)...)
		}
	}

	return out
}

func flattenFaces(faces []asig.Face, baseVertex uint32) []uint32 {

	assert.T(len(faces[0].Indices) == 3, "Face doesn't have 3 indices. Index count: %v\n", len(faces[0].Indices))

	uints := make([]uint32, len(faces)*3)
	for i := 0; i < len(faces); i++ {
		uints[i*3+0] = uint32(faces[i].Indices[0]) + baseVertex
		uints[i*3+1] = uint32(faces[i].Indices[1]) + baseVertex
		uints[i*3+2] = uint32(faces[i].Indices[2]) + baseVertex
	}

	return uints
}
