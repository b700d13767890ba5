package core

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Virtual key codes. Scripts address keys by these values.
type KeyCode uint16

const (
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_SHIFT     KeyCode = 0x10
	KEY_CONTROL   KeyCode = 0x11
	KEY_MENU      KeyCode = 0x12
	KEY_PAUSE     KeyCode = 0x13
	KEY_CAPITAL   KeyCode = 0x14
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_PRIOR     KeyCode = 0x21
	KEY_NEXT      KeyCode = 0x22
	KEY_END       KeyCode = 0x23
	KEY_HOME      KeyCode = 0x24
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28
	KEY_INSERT    KeyCode = 0x2D
	KEY_DELETE    KeyCode = 0x2E
	KEY_0         KeyCode = 0x30
	KEY_9         KeyCode = 0x39
	KEY_A         KeyCode = 0x41
	KEY_D         KeyCode = 0x44
	KEY_Q         KeyCode = 0x51
	KEY_S         KeyCode = 0x53
	KEY_W         KeyCode = 0x57
	KEY_Z         KeyCode = 0x5A
	KEY_NUMPAD0   KeyCode = 0x60
	KEY_NUMPAD9   KeyCode = 0x69
	KEY_F1        KeyCode = 0x70
	KEY_F12       KeyCode = 0x7B
	KEY_LSHIFT    KeyCode = 0xA0
	KEY_RSHIFT    KeyCode = 0xA1
	KEY_LCONTROL  KeyCode = 0xA2
	KEY_RCONTROL  KeyCode = 0xA3
	KEY_LMENU     KeyCode = 0xA4
	KEY_RMENU     KeyCode = 0xA5
	KEYS_MAX_KEYS KeyCode = 0x100
)

// Mouse state structure
type MouseState struct {
	X       int
	Y       int
	DX      int
	DY      int
	Buttons [BUTTON_MAX_BUTTONS]bool
}

// Keyboard state structure
type KeyboardState struct {
	Keys [KEYS_MAX_KEYS]bool
}

// InputState holds the current keyboard and mouse state as seen by the
// events drained this frame.
type InputState struct {
	Keyboard KeyboardState
	Mouse    MouseState
}

func NewInputState() *InputState {
	return &InputState{}
}

// BeginFrame resets the per-frame mouse delta.
func (s *InputState) BeginFrame() {
	s.Mouse.DX = 0
	s.Mouse.DY = 0
}

// Apply folds an input event into the state. Non-input events are ignored.
func (s *InputState) Apply(ev EventContext) {
	switch ev.Code {
	case EVENT_CODE_KEY_PRESSED, EVENT_CODE_KEY_RELEASED:
		s.ProcessKey(ev.Data[0], ev.Code == EVENT_CODE_KEY_PRESSED)
	case EVENT_CODE_BUTTON_PRESSED, EVENT_CODE_BUTTON_RELEASED:
		s.ProcessButton(ev.Data[0], ev.Code == EVENT_CODE_BUTTON_PRESSED)
	case EVENT_CODE_MOUSE_MOVED:
		s.ProcessMouseMove(ev.Data[0], ev.Data[1])
	}
}

func (s *InputState) ProcessKey(vk int, pressed bool) {
	if vk >= 0 && vk < int(KEYS_MAX_KEYS) {
		s.Keyboard.Keys[vk] = pressed
	}
}

func (s *InputState) ProcessButton(button int, pressed bool) {
	if button >= 0 && button < int(BUTTON_MAX_BUTTONS) {
		s.Mouse.Buttons[button] = pressed
	}
}

func (s *InputState) ProcessMouseMove(x, y int) {
	s.Mouse.DX += x - s.Mouse.X
	s.Mouse.DY += y - s.Mouse.Y
	s.Mouse.X = x
	s.Mouse.Y = y
}

// keyboard input
func (s *InputState) IsKeyDown(vk int) bool {
	if vk < 0 || vk >= int(KEYS_MAX_KEYS) {
		return false
	}
	return s.Keyboard.Keys[vk]
}

// mouse input
func (s *InputState) IsButtonDown(button int) bool {
	if button < 0 || button >= int(BUTTON_MAX_BUTTONS) {
		return false
	}
	return s.Mouse.Buttons[button]
}

func (s *InputState) MousePosition() (int, int) {
	return s.Mouse.X, s.Mouse.Y
}

func (s *InputState) MouseDelta() (int, int) {
	return s.Mouse.DX, s.Mouse.DY
}
