package graphics

import (
	"bytes"
	"errors"
	"os"
)

// ShaderData carries pre-validated shader source for the active backend.
// Producing it (translation, reflection) is the shader pipeline's concern;
// this layer only hands it to the backend for compilation.
type ShaderData struct {
	VertexSource   string
	FragmentSource string
}

// ParseCombinedShader splits a combined shader file into its stages.
// Stages are delimited by '//shader:vertex' and '//shader:fragment' markers;
// both must be present.
func ParseCombinedShader(src []byte) (*ShaderData, error) {

	sources := bytes.Split(src, []byte("//shader:"))
	if len(sources) < 2 {
		return nil, errors.New("failed to read combined shader. The minimum shader types to have are '//shader:vertex' and '//shader:fragment'")
	}

	data := &ShaderData{}
	for i := 0; i < len(sources); i++ {

		src := sources[i]

		//This can happen when the shader type is at the start of the file
		if len(bytes.TrimSpace(src)) == 0 {
			continue
		}

		if bytes.HasPrefix(src, []byte("vertex")) {
			data.VertexSource = string(src[6:])
		} else if bytes.HasPrefix(src, []byte("fragment")) {
			data.FragmentSource = string(src[8:])
		} else {
			return nil, errors.New("unknown shader type. Must be '//shader:vertex' or '//shader:fragment'")
		}
	}

	if data.VertexSource == "" {
		return nil, errors.New("no vertex shader found. Please put '//shader:vertex' before your vertex shader")
	}

	if data.FragmentSource == "" {
		return nil, errors.New("no fragment shader found. Please put '//shader:fragment' before your fragment shader")
	}

	return data, nil
}

// LoadCombinedShader reads and parses a combined shader file from disk.
func LoadCombinedShader(path string) (*ShaderData, error) {

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("failed to read shader file. Err: " + err.Error())
	}

	return ParseCombinedShader(src)
}
