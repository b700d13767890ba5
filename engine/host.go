package engine

import "github.com/spaghettifunk/abyss/engine/scripting"

// The methods below make the Engine the capability object scripts receive.

func (e *Engine) Log(message string) {
	e.scriptLog.Info(message)
}

func (e *Engine) SetWindowTitle(title string) {
	e.platform.SetTitle(title)
}

func (e *Engine) TimeSeconds() float64 {
	return e.platform.Time()
}

func (e *Engine) RequestQuit() {
	e.quitRequested = true
}

func (e *Engine) WindowSize() (int, int) {
	return e.width, e.height
}

func (e *Engine) IsKeyDown(vk int) bool {
	return e.input.IsKeyDown(vk)
}

func (e *Engine) MousePos() (int, int) {
	return e.input.MousePosition()
}

func (e *Engine) MouseDelta() (int, int) {
	return e.input.MouseDelta()
}

func (e *Engine) MouseButtonDown(button int) bool {
	return e.input.IsButtonDown(button)
}

func (e *Engine) FPS() float64 {
	return e.metrics.FPS()
}

var (
	_ scripting.Host       = (*Engine)(nil)
	_ scripting.Input      = (*Engine)(nil)
	_ scripting.FrameStats = (*Engine)(nil)
)
