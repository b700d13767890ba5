// Package desktop provides the GLFW window platform.
package desktop

import (
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/spaghettifunk/abyss/engine/core"
	"github.com/spaghettifunk/abyss/engine/platform"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// GLFW is a desktop window backed by GLFW. No graphics context is created;
// the window exists for its title, size and input.
type GLFW struct {
	Window    *glfw.Window
	sink      platform.Sink
	title     string
	startTime float64
}

func NewGLFW() *GLFW {
	return &GLFW{}
}

func (p *GLFW) Startup(cfg platform.WindowConfig, sink platform.Sink) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Name, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		glfw.Terminate()
		return err
	}
	p.Window = window
	p.sink = sink
	p.title = cfg.Name

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetMouseButtonCallback(p.mouseButtonCallback)
	p.Window.SetCursorPosCallback(p.cursorPosCallback)
	p.Window.SetScrollCallback(p.scrollCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetCloseCallback(p.closeCallback)
	p.Window.SetPos(cfg.X, cfg.Y)
	p.Window.Show()

	p.startTime = glfw.GetTime()

	return nil
}

func (p *GLFW) Shutdown() error {
	if p.Window != nil {
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

func (p *GLFW) PumpMessages() bool {
	glfw.PollEvents()
	return !p.Window.ShouldClose()
}

func (p *GLFW) SetTitle(title string) {
	p.title = title
	p.Window.SetTitle(title)
}

func (p *GLFW) Title() string {
	return p.title
}

func (p *GLFW) Size() (int, int) {
	return p.Window.GetFramebufferSize()
}

func (p *GLFW) Time() float64 {
	return glfw.GetTime() - p.startTime
}

func (p *GLFW) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (p *GLFW) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	vk, ok := translateKey(key)
	if !ok {
		return
	}
	switch action {
	case glfw.Press:
		p.sink(core.NewEventContext(core.EVENT_CODE_KEY_PRESSED, int(vk)))
	case glfw.Release:
		p.sink(core.NewEventContext(core.EVENT_CODE_KEY_RELEASED, int(vk)))
	}
}

func (p *GLFW) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	var b core.Button
	switch button {
	case glfw.MouseButtonLeft:
		b = core.BUTTON_LEFT
	case glfw.MouseButtonRight:
		b = core.BUTTON_RIGHT
	case glfw.MouseButtonMiddle:
		b = core.BUTTON_MIDDLE
	default:
		return
	}
	code := core.EVENT_CODE_BUTTON_RELEASED
	if action == glfw.Press {
		code = core.EVENT_CODE_BUTTON_PRESSED
	}
	p.sink(core.NewEventContext(code, int(b)))
}

func (p *GLFW) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	p.sink(core.NewEventContext(core.EVENT_CODE_MOUSE_MOVED, int(xpos), int(ypos)))
}

func (p *GLFW) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	p.sink(core.NewEventContext(core.EVENT_CODE_MOUSE_WHEEL, int(yoff)))
}

func (p *GLFW) framebufferSizeCallback(w *glfw.Window, width, height int) {
	p.sink(core.NewEventContext(core.EVENT_CODE_RESIZED, width, height))
}

func (p *GLFW) closeCallback(w *glfw.Window) {
	p.sink(core.NewEventContext(core.EVENT_CODE_APPLICATION_QUIT))
}

var glfwKeys = map[glfw.Key]core.KeyCode{
	glfw.KeyBackspace:    core.KEY_BACKSPACE,
	glfw.KeyTab:          core.KEY_TAB,
	glfw.KeyEnter:        core.KEY_ENTER,
	glfw.KeyPause:        core.KEY_PAUSE,
	glfw.KeyCapsLock:     core.KEY_CAPITAL,
	glfw.KeyEscape:       core.KEY_ESCAPE,
	glfw.KeySpace:        core.KEY_SPACE,
	glfw.KeyPageUp:       core.KEY_PRIOR,
	glfw.KeyPageDown:     core.KEY_NEXT,
	glfw.KeyEnd:          core.KEY_END,
	glfw.KeyHome:         core.KEY_HOME,
	glfw.KeyLeft:         core.KEY_LEFT,
	glfw.KeyUp:           core.KEY_UP,
	glfw.KeyRight:        core.KEY_RIGHT,
	glfw.KeyDown:         core.KEY_DOWN,
	glfw.KeyInsert:       core.KEY_INSERT,
	glfw.KeyDelete:       core.KEY_DELETE,
	glfw.KeyLeftShift:    core.KEY_LSHIFT,
	glfw.KeyRightShift:   core.KEY_RSHIFT,
	glfw.KeyLeftControl:  core.KEY_LCONTROL,
	glfw.KeyRightControl: core.KEY_RCONTROL,
	glfw.KeyLeftAlt:      core.KEY_LMENU,
	glfw.KeyRightAlt:     core.KEY_RMENU,
}

// translateKey maps GLFW key codes onto the virtual key codes scripts use.
// Digits and letters share their ASCII values in both schemes.
func translateKey(key glfw.Key) (core.KeyCode, bool) {
	switch {
	case key >= glfw.Key0 && key <= glfw.Key9,
		key >= glfw.KeyA && key <= glfw.KeyZ:
		return core.KeyCode(key), true
	case key >= glfw.KeyF1 && key <= glfw.KeyF12:
		return core.KEY_F1 + core.KeyCode(key-glfw.KeyF1), true
	case key >= glfw.KeyKP0 && key <= glfw.KeyKP9:
		return core.KEY_NUMPAD0 + core.KeyCode(key-glfw.KeyKP0), true
	}
	vk, ok := glfwKeys[key]
	return vk, ok
}

var _ platform.Platform = (*GLFW)(nil)
