package rendgl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/mivret/glint/graphics"
	"github.com/mivret/glint/logging"
)

type glShader struct {
	progId   uint32
	unifLocs map[string]int32
}

var _ graphics.ShaderImpl = &glShader{}

func newGlShader(data *graphics.ShaderData) (*glShader, error) {

	progId := gl.CreateProgram()
	if progId == 0 {
		return nil, errors.New("failed to create shader program")
	}

	vertId, err := compileStage(data.VertexSource, gl.VERTEX_SHADER)
	if err != nil {
		gl.DeleteProgram(progId)
		return nil, err
	}

	fragId, err := compileStage(data.FragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertId)
		gl.DeleteProgram(progId)
		return nil, err
	}

	gl.AttachShader(progId, vertId)
	gl.AttachShader(progId, fragId)
	gl.LinkProgram(progId)

	gl.DeleteShader(vertId)
	gl.DeleteShader(fragId)

	var linkedSuccessfully int32
	gl.GetProgramiv(progId, gl.LINK_STATUS, &linkedSuccessfully)
	if linkedSuccessfully != gl.TRUE {

		var logLength int32
		gl.GetProgramiv(progId, gl.INFO_LOG_LENGTH, &logLength)

		infoLog := gl.Str(strings.Repeat("\x00", int(logLength)+1))
		gl.GetProgramInfoLog(progId, logLength, nil, infoLog)

		errMsg := gl.GoStr(infoLog)
		gl.DeleteProgram(progId)
		return nil, errors.New("failed to link shader program. Err: " + errMsg)
	}

	return &glShader{
		progId:   progId,
		unifLocs: make(map[string]int32),
	}, nil
}

func compileStage(source string, stage uint32) (uint32, error) {

	shaderId := gl.CreateShader(stage)
	if shaderId == 0 {
		return 0, fmt.Errorf("failed to create shader. GlError=%d", gl.GetError())
	}

	shaderCStr, shaderFree := gl.Strs(source + "\x00")
	defer shaderFree()
	gl.ShaderSource(shaderId, 1, shaderCStr, nil)

	gl.CompileShader(shaderId)
	if err := getShaderCompileErrors(shaderId); err != nil {
		gl.DeleteShader(shaderId)
		return 0, err
	}

	return shaderId, nil
}

func getShaderCompileErrors(shaderId uint32) error {

	var compiledSuccessfully int32
	gl.GetShaderiv(shaderId, gl.COMPILE_STATUS, &compiledSuccessfully)
	if compiledSuccessfully == gl.TRUE {
		return nil
	}

	var logLength int32
	gl.GetShaderiv(shaderId, gl.INFO_LOG_LENGTH, &logLength)

	infoLog := gl.Str(strings.Repeat("\x00", int(logLength)+1))
	gl.GetShaderInfoLog(shaderId, logLength, nil, infoLog)

	errMsg := gl.GoStr(infoLog)
	return errors.New("shader compilation failed. Err: " + errMsg)
}

// getUnifLoc caches uniform lookups per shader. A missing uniform is cached
// as -1 and warned about once instead of failing the draw.
func (s *glShader) getUnifLoc(uniformName string) int32 {

	loc, ok := s.unifLocs[uniformName]
	if ok {
		return loc
	}

	name := gl.Str(uniformName + "\x00")
	loc = gl.GetUniformLocation(s.progId, name)
	if loc == -1 {
		logging.Log.Warn().Str("uniform", uniformName).Msg("uniform not found on shader")
	}

	s.unifLocs[uniformName] = loc
	return loc
}

func (s *glShader) Destroy() {

	if s.progId == 0 {
		return
	}

	gl.DeleteProgram(s.progId)
	s.progId = 0
}
