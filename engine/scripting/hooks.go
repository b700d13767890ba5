package scripting

import "github.com/spaghettifunk/abyss/engine/core"

// Event names delivered to OnEvent.
const (
	EventStart      = "start"
	EventResize     = "resize"
	EventQuit       = "quit"
	EventShutdown   = "shutdown"
	EventKeyDown    = "key_down"
	EventKeyUp      = "key_up"
	EventMouseDown  = "mouse_down"
	EventMouseUp    = "mouse_up"
	EventMouseMove  = "mouse_move"
	EventMouseWheel = "mouse_wheel"
)

var eventNames = map[core.SystemEventCode]string{
	core.EVENT_CODE_APPLICATION_START:    EventStart,
	core.EVENT_CODE_RESIZED:              EventResize,
	core.EVENT_CODE_APPLICATION_QUIT:     EventQuit,
	core.EVENT_CODE_APPLICATION_SHUTDOWN: EventShutdown,
	core.EVENT_CODE_KEY_PRESSED:          EventKeyDown,
	core.EVENT_CODE_KEY_RELEASED:         EventKeyUp,
	core.EVENT_CODE_BUTTON_PRESSED:       EventMouseDown,
	core.EVENT_CODE_BUTTON_RELEASED:      EventMouseUp,
	core.EVENT_CODE_MOUSE_MOVED:          EventMouseMove,
	core.EVENT_CODE_MOUSE_WHEEL:          EventMouseWheel,
}

var eventCodes = func() map[string]core.SystemEventCode {
	m := make(map[string]core.SystemEventCode, len(eventNames))
	for code, name := range eventNames {
		m[name] = code
	}
	return m
}()

// Event is what a script sees for each host event: a name and up to three
// integer payload values. Missing values are zero.
type Event struct {
	Type string
	A    int
	B    int
	C    int
}

func NewEvent(eventType string, args ...int) Event {
	var payload [3]int
	copy(payload[:], args)
	return Event{Type: eventType, A: payload[0], B: payload[1], C: payload[2]}
}

// EventFromContext translates an engine event into its script form. The
// second result is false for codes scripts do not receive.
func EventFromContext(ev core.EventContext) (Event, bool) {
	name, ok := eventNames[ev.Code]
	if !ok {
		return Event{}, false
	}
	return NewEvent(name, ev.Data[:]...), true
}

// EventCode is the inverse of EventFromContext.
func EventCode(name string) (core.SystemEventCode, bool) {
	code, ok := eventCodes[name]
	return code, ok
}

// State is the script state owned by the binding layer. Running starts true
// and only the "quit" event clears it.
type State struct {
	Running bool
}

// Context is passed to every hook call.
type Context struct {
	Engine Host
	State  *State
}

func NewContext(host Host) *Context {
	return &Context{
		Engine: host,
		State:  &State{Running: true},
	}
}

// Hooks is the lifecycle surface a game script implements. A returned error
// is the hook's outcome; the Binding decides whether it reaches the host.
type Hooks interface {
	Init(ctx *Context) error
	OnEvent(ctx *Context, ev Event) error
	Update(ctx *Context, dt float64) error
	Shutdown(ctx *Context) error
}
