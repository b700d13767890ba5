// Package scriptingtest provides a recording Host for hook tests.
package scriptingtest

// Host records every capability call made by a script.
type Host struct {
	Logs         []string
	Titles       []string
	Time         float64
	QuitRequests int

	Width, Height int
	Keys          map[int]bool
	Buttons       map[int]bool
	MouseX        int
	MouseY        int
	MouseDX       int
	MouseDY       int
	FramesPerSec  float64
}

func NewHost() *Host {
	return &Host{
		Keys:    make(map[int]bool),
		Buttons: make(map[int]bool),
	}
}

func (h *Host) Log(message string) {
	h.Logs = append(h.Logs, message)
}

func (h *Host) SetWindowTitle(title string) {
	h.Titles = append(h.Titles, title)
}

func (h *Host) TimeSeconds() float64 {
	return h.Time
}

func (h *Host) RequestQuit() {
	h.QuitRequests++
}

// Title returns the last title set, or "" if none was.
func (h *Host) Title() string {
	if len(h.Titles) == 0 {
		return ""
	}
	return h.Titles[len(h.Titles)-1]
}

func (h *Host) WindowSize() (int, int) {
	return h.Width, h.Height
}

func (h *Host) IsKeyDown(vk int) bool {
	return h.Keys[vk]
}

func (h *Host) MousePos() (int, int) {
	return h.MouseX, h.MouseY
}

func (h *Host) MouseDelta() (int, int) {
	return h.MouseDX, h.MouseDY
}

func (h *Host) MouseButtonDown(button int) bool {
	return h.Buttons[button]
}

func (h *Host) FPS() float64 {
	return h.FramesPerSec
}
