package core

// EventContext carries an event code and up to three integer payload values.
// Payload meaning depends on the code, see the code constants.
type EventContext struct {
	Code SystemEventCode
	Data [3]int
}

func NewEventContext(code SystemEventCode, data ...int) EventContext {
	ev := EventContext{Code: code}
	copy(ev.Data[:], data)
	return ev
}

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Keyboard key pressed.
	/* Context usage:
	 * key_code = data[0]
	 */
	EVENT_CODE_KEY_PRESSED SystemEventCode = 0x02

	// Keyboard key released.
	/* Context usage:
	 * key_code = data[0]
	 */
	EVENT_CODE_KEY_RELEASED SystemEventCode = 0x03

	// Mouse button pressed.
	/* Context usage:
	 * button = data[0]
	 */
	EVENT_CODE_BUTTON_PRESSED SystemEventCode = 0x04

	// Mouse button released.
	/* Context usage:
	 * button = data[0]
	 */
	EVENT_CODE_BUTTON_RELEASED SystemEventCode = 0x05

	// Mouse moved.
	/* Context usage:
	 * x = data[0]
	 * y = data[1]
	 */
	EVENT_CODE_MOUSE_MOVED SystemEventCode = 0x06

	// Mouse wheel.
	/* Context usage:
	 * z_delta = data[0]
	 */
	EVENT_CODE_MOUSE_WHEEL SystemEventCode = 0x07

	// Resized/resolution changed from the OS.
	/* Context usage:
	 * width = data[0]
	 * height = data[1]
	 */
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	// Scripts finished init and the loop is about to start.
	EVENT_CODE_APPLICATION_START SystemEventCode = 0x09

	// The engine is about to unload scripts.
	EVENT_CODE_APPLICATION_SHUTDOWN SystemEventCode = 0x0A

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

// Should return true if handled.
type FnOnEvent func(data EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventBus dispatches events synchronously to the listeners registered for
// their code, in registration order.
type EventBus struct {
	registered map[SystemEventCode][]*registeredEvent
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return FALSE.
 * @param code The event code to listen for.
 * @param listener A listener instance. Can be nil.
 * @param onEvent The callback invoked when the event code is fired.
 * @returns TRUE if the event is successfully registered; otherwise false.
 */
func (b *EventBus) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if code < 0 || code >= MAX_MESSAGE_CODES || onEvent == nil {
		return false
	}
	for _, e := range b.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	b.registered[code] = append(b.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns FALSE.
 */
func (b *EventBus) Unregister(code SystemEventCode, listener interface{}) bool {
	events := b.registered[code]
	for i, e := range events {
		if e.listener == listener {
			b.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * TRUE, the event is considered handled and is not passed on to any more listeners.
 * @returns TRUE if handled, otherwise FALSE.
 */
func (b *EventBus) Fire(data EventContext) bool {
	for _, e := range b.registered[data.Code] {
		if e.callback(data) {
			return true
		}
	}
	return false
}

// Clear drops every registration.
func (b *EventBus) Clear() {
	b.registered = make(map[SystemEventCode][]*registeredEvent)
}
