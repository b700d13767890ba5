package scripting

// Host is the capability surface a game script uses to affect the engine.
// Scripts never touch the window, the logger or the loop directly.
type Host interface {
	Log(message string)
	SetWindowTitle(title string)
	// TimeSeconds returns host time in seconds. It is monotonic but its
	// origin is host defined.
	TimeSeconds() float64
	RequestQuit()
}

// Input is implemented by hosts that expose window and input queries.
// Scripts must treat it as optional.
type Input interface {
	WindowSize() (int, int)
	IsKeyDown(vk int) bool
	MousePos() (int, int)
	MouseDelta() (int, int)
	MouseButtonDown(button int) bool
}

// FrameStats is implemented by hosts that publish frame metrics.
type FrameStats interface {
	FPS() float64
}
