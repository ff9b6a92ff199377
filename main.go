package main

import (
	"image"
	"image/png"
	"os"

	"github.com/bloeys/gglm/gglm"
	"github.com/mivret/glint/engine"
	"github.com/mivret/glint/graphics"
	"github.com/mivret/glint/input"
	"github.com/mivret/glint/logging"
	"github.com/spf13/pflag"
	"github.com/veandco/go-sdl2/sdl"
)

const quadShaderSrc = `
//shader:vertex
#version 410

layout(location=0) in vec3 vertPos;
layout(location=1) in vec2 vertUV0;

uniform mat4 model;
uniform vec4 tint;

out vec2 uv0;
out vec4 vertTint;

void main() {
	gl_Position = model * vec4(vertPos, 1.0);
	uv0 = vertUV0;
	vertTint = tint;
}

//shader:fragment
#version 410

in vec2 uv0;
in vec4 vertTint;

uniform sampler2D diffuse;

out vec4 fragColor;

void main() {
	fragColor = texture(diffuse, uv0) * vertTint;
}
`

type Game struct {
	Win *engine.Window

	QuadMesh graphics.MeshRef
	QuadMat  graphics.MaterialRef
}

func main() {

	configDir := pflag.String("config", "", "directory containing glint.yaml; empty uses defaults and env vars")
	screenshotPath := pflag.String("screenshot", "", "render one frame offscreen, write it to this png and exit")
	pflag.Parse()

	cfg, err := engine.LoadConfig(*configDir)
	if err != nil {
		logging.Log.Fatal().Err(err).Msg("failed to load config")
	}

	err = engine.Init(cfg)
	if err != nil {
		logging.Log.Fatal().Err(err).Msg("failed to init engine")
	}

	win, err := engine.CreateOpenGLWindowCentered(cfg.Title, cfg.Width, cfg.Height, engine.WindowFlags_RESIZABLE)
	if err != nil {
		logging.Log.Fatal().Err(err).Msg("failed to create window")
	}
	defer win.Destroy()

	engine.SetVSync(cfg.VSync)
	engine.SetMSAA(cfg.MSAA > 0)

	game := &Game{Win: win}
	if err := game.Init(); err != nil {
		logging.Log.Fatal().Err(err).Msg("failed to init game")
	}

	if *screenshotPath != "" {

		if err := game.RenderScreenshot(*screenshotPath); err != nil {
			logging.Log.Fatal().Err(err).Msg("failed to render screenshot")
		}
		return
	}

	game.Run()
}

func (g *Game) Init() error {

	gfx := g.Win.Gfx

	shaderData, err := graphics.ParseCombinedShader([]byte(quadShaderSrc))
	if err != nil {
		return err
	}

	// The material holds its own reference to the shader and the texture,
	// so ours can be dropped once setup is done
	shader := gfx.CreateShader(shaderData)
	defer shader.Release()

	g.QuadMat = gfx.CreateMaterial("Quad mat", shader)
	if !g.QuadMat.IsValid() {
		return errInvalidResource("quad material")
	}

	tint := gglm.Vec4{Data: [4]float32{1, 1, 1, 1}}
	g.QuadMat.SetVec4("tint", &tint)

	tex := gfx.CreateTextureFromRGBA(2, 2, checkerboardRGBA())
	defer tex.Release()

	g.QuadMat.SetTexture(graphics.TextureSlot_Diffuse, tex)

	g.QuadMesh = gfx.CreateMesh()
	if !g.QuadMesh.IsValid() {
		return errInvalidResource("quad mesh")
	}

	layout := []graphics.Element{
		{ElementType: graphics.DataTypeVec3}, // Position
		{ElementType: graphics.DataTypeVec2}, // UV0
	}

	verts := []float32{
		-0.5, -0.5, 0, 0, 1,
		0.5, -0.5, 0, 1, 1,
		0.5, 0.5, 0, 1, 0,
		-0.5, 0.5, 0, 0, 0,
	}

	if err := g.QuadMesh.SetVertexData(layout, verts); err != nil {
		return err
	}

	if err := g.QuadMesh.SetIndexData([]uint32{0, 1, 2, 2, 3, 0}); err != nil {
		return err
	}

	return nil
}

func (g *Game) Run() {

	gfx := g.Win.Gfx

	for !g.Win.ShouldQuit() {

		g.Win.PollEvents()

		if input.KeyClicked(sdl.K_ESCAPE) {
			return
		}

		gfx.Clear(gfx.Backbuffer(), 0x1A1A2EFF)
		g.renderQuad(gfx.Backbuffer(), float32(sdl.GetTicks64())/1000)

		g.Win.SwapBuffers()
	}
}

func (g *Game) renderQuad(target graphics.FrameBufferRef, timeSeconds float32) {

	rot := gglm.NewQuatEuler(0, 0, timeSeconds)
	rotMat := gglm.NewRotMatQuat(&rot)
	g.QuadMat.SetMat4("model", &rotMat.Mat4)

	call := graphics.NewRenderCall()
	call.Target = target
	call.Mesh = g.QuadMesh
	call.Material = g.QuadMat
	call.IndexCount = g.QuadMesh.IndexCount()

	g.Win.Gfx.Render(&call)
}

// RenderScreenshot draws one frame into an offscreen target and writes it
// out as a png.
func (g *Game) RenderScreenshot(path string) error {

	gfx := g.Win.Gfx

	fbo := gfx.CreateFrameBufferWith(512, 512, graphics.TextureFormat_RGBA, graphics.TextureFormat_DepthStencil)
	if !fbo.IsValid() {
		return errInvalidResource("offscreen framebuffer")
	}
	defer fbo.Release()

	gfx.Clear(fbo, 0x1A1A2EFF)
	g.renderQuad(fbo, 0.5)

	pixels, err := fbo.Pixels(0)
	if err != nil {
		return err
	}

	width, height := fbo.Size()
	img := &image.NRGBA{
		Pix:    pixels,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

func checkerboardRGBA() []byte {
	return []byte{
		255, 255, 255, 255, 80, 80, 80, 255,
		80, 80, 80, 255, 255, 255, 255, 255,
	}
}

type errInvalidResource string

func (e errInvalidResource) Error() string {
	return "failed to create " + string(e)
}
