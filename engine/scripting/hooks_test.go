package scripting

import (
	"testing"

	"github.com/spaghettifunk/abyss/engine/core"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_Defaults(t *testing.T) {
	require.Equal(t, Event{Type: "resize", A: 800, B: 600}, NewEvent("resize", 800, 600))
	require.Equal(t, Event{Type: "quit"}, NewEvent("quit"))
	require.Equal(t, Event{Type: "x", A: 1, B: 2, C: 3}, NewEvent("x", 1, 2, 3, 4))
}

func TestEventFromContext(t *testing.T) {
	ev, ok := EventFromContext(core.NewEventContext(core.EVENT_CODE_RESIZED, 1024, 768))
	require.True(t, ok)
	require.Equal(t, NewEvent(EventResize, 1024, 768), ev)

	_, ok = EventFromContext(core.NewEventContext(core.SystemEventCode(0x300)))
	require.False(t, ok)

	code, ok := EventCode(EventQuit)
	require.True(t, ok)
	require.Equal(t, core.EVENT_CODE_APPLICATION_QUIT, code)

	_, ok = EventCode("")
	require.False(t, ok)
}
