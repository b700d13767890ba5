package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInputState_KeysAndButtons(t *testing.T) {
	s := NewInputState()

	s.Apply(NewEventContext(EVENT_CODE_KEY_PRESSED, int(KEY_W)))
	s.Apply(NewEventContext(EVENT_CODE_BUTTON_PRESSED, int(BUTTON_RIGHT)))
	require.True(t, s.IsKeyDown(int(KEY_W)))
	require.True(t, s.IsButtonDown(int(BUTTON_RIGHT)))

	s.Apply(NewEventContext(EVENT_CODE_KEY_RELEASED, int(KEY_W)))
	require.False(t, s.IsKeyDown(int(KEY_W)))

	// out of range never panics
	s.ProcessKey(512, true)
	s.ProcessButton(-1, true)
	require.False(t, s.IsKeyDown(512))
	require.False(t, s.IsButtonDown(7))
}

func TestInputState_MouseDeltaAccumulatesPerFrame(t *testing.T) {
	s := NewInputState()

	s.Apply(NewEventContext(EVENT_CODE_MOUSE_MOVED, 10, 20))
	s.Apply(NewEventContext(EVENT_CODE_MOUSE_MOVED, 15, 18))

	x, y := s.MousePosition()
	require.Equal(t, 15, x)
	require.Equal(t, 18, y)
	dx, dy := s.MouseDelta()
	require.Equal(t, 15, dx)
	require.Equal(t, 18, dy)

	s.BeginFrame()
	dx, dy = s.MouseDelta()
	require.Zero(t, dx)
	require.Zero(t, dy)
}
