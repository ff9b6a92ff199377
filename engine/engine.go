package engine

import (
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/mivret/glint/assert"
	"github.com/mivret/glint/graphics"
	"github.com/mivret/glint/graphics/rendgl"
	"github.com/mivret/glint/input"
	"github.com/veandco/go-sdl2/sdl"
)

type WindowFlags uint32

const (
	WindowFlags_OPENGL     WindowFlags = sdl.WINDOW_OPENGL
	WindowFlags_RESIZABLE  WindowFlags = sdl.WINDOW_RESIZABLE
	WindowFlags_HIDDEN     WindowFlags = sdl.WINDOW_HIDDEN
	WindowFlags_FULLSCREEN WindowFlags = sdl.WINDOW_FULLSCREEN
	WindowFlags_MAXIMIZED  WindowFlags = sdl.WINDOW_MAXIMIZED
	WindowFlags_BORDERLESS WindowFlags = sdl.WINDOW_BORDERLESS
)

var isInited = false

// Window owns the SDL window, its OpenGL context, and the graphics device
// drawing into it. One Window per context; the GL context is made current
// on the creating goroutine's thread, which Init locks.
type Window struct {
	SDLWin         *sdl.Window
	GlCtx          sdl.GLContext
	EventCallbacks []func(sdl.Event)

	Rend *rendgl.RendGL
	Gfx  *graphics.Graphics
}

// Init prepares SDL and the OpenGL attributes and must be called once,
// from the main goroutine, before any window is created.
func Init(cfg Config) error {

	isInited = true
	runtime.LockOSThread()

	return initSDL(cfg)
}

func initSDL(cfg Config) error {

	err := sdl.Init(sdl.INIT_TIMER | sdl.INIT_VIDEO)
	if err != nil {
		return err
	}

	sdl.ShowCursor(1)

	sdl.GLSetAttribute(sdl.MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.MINOR_VERSION, 1)

	sdl.GLSetAttribute(sdl.GL_RED_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_GREEN_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_BLUE_SIZE, 8)
	sdl.GLSetAttribute(sdl.GL_ALPHA_SIZE, 8)

	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	sdl.GLSetAttribute(sdl.GL_STENCIL_SIZE, 8)

	if cfg.MSAA > 0 {
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLEBUFFERS, 1)
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLESAMPLES, cfg.MSAA)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)

	return nil
}

func CreateOpenGLWindow(title string, x, y, width, height int32, flags WindowFlags) (*Window, error) {
	return createWindow(title, x, y, width, height, WindowFlags_OPENGL|flags)
}

func CreateOpenGLWindowCentered(title string, width, height int32, flags WindowFlags) (*Window, error) {
	return createWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, width, height, WindowFlags_OPENGL|flags)
}

func createWindow(title string, x, y, width, height int32, flags WindowFlags) (*Window, error) {

	assert.T(isInited, "engine.Init() was not called!")

	sdlWin, err := sdl.CreateWindow(title, x, y, width, height, uint32(flags))
	if err != nil {
		return nil, err
	}

	win := &Window{
		SDLWin:         sdlWin,
		EventCallbacks: make([]func(sdl.Event), 0),
	}

	win.GlCtx, err = sdlWin.GLCreateContext()
	if err != nil {
		sdlWin.Destroy()
		return nil, err
	}

	fbWidth, fbHeight := sdlWin.GLGetDrawableSize()
	win.Rend, err = rendgl.New(int(fbWidth), int(fbHeight))
	if err != nil {
		sdl.GLDeleteContext(win.GlCtx)
		sdlWin.Destroy()
		return nil, err
	}

	win.Gfx, err = graphics.New(win.Rend)
	if err != nil {
		sdl.GLDeleteContext(win.GlCtx)
		sdlWin.Destroy()
		return nil, err
	}

	// Get rid of the blinding white startup screen (unfortunately there is still one frame of white)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
	sdlWin.GLSwap()

	return win, nil
}

// PollEvents drains the SDL event queue into the input package and the
// registered callbacks. Call once per frame before reading input.
func (w *Window) PollEvents() {

	input.EventLoopStart()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {

		for i := 0; i < len(w.EventCallbacks); i++ {
			w.EventCallbacks[i](event)
		}

		switch e := event.(type) {

		case *sdl.MouseWheelEvent:
			input.HandleMouseWheelEvent(e)

		case *sdl.KeyboardEvent:
			input.HandleKeyboardEvent(e)

		case *sdl.MouseButtonEvent:
			input.HandleMouseBtnEvent(e)

		case *sdl.MouseMotionEvent:
			input.HandleMouseMotionEvent(e)

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				w.handleWindowResize()
			}

		case *sdl.QuitEvent:
			input.HandleQuitEvent(e)
		}
	}
}

func (w *Window) handleWindowResize() {

	fbWidth, fbHeight := w.SDLWin.GLGetDrawableSize()
	if fbWidth <= 0 || fbHeight <= 0 {
		return
	}

	w.Rend.SetBackbufferSize(int(fbWidth), int(fbHeight))
}

func (w *Window) ShouldQuit() bool {
	return input.IsQuitClicked()
}

// SwapBuffers presents the frame and resets the renderer's per-frame caches
func (w *Window) SwapBuffers() {
	w.Rend.FrameEnd()
	w.SDLWin.GLSwap()
}

func (w *Window) Destroy() error {

	w.Gfx.Shutdown()
	sdl.GLDeleteContext(w.GlCtx)
	return w.SDLWin.Destroy()
}

func SetVSync(enabled bool) {

	if enabled {
		sdl.GLSetSwapInterval(1)
	} else {
		sdl.GLSetSwapInterval(0)
	}
}

func SetMSAA(isEnabled bool) {

	if isEnabled {
		gl.Enable(gl.MULTISAMPLE)
	} else {
		gl.Disable(gl.MULTISAMPLE)
	}
}
