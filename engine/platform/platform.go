package platform

import (
	"fmt"
	"strings"
	"time"

	"github.com/spaghettifunk/abyss/engine/core"
)

// Sink receives the events a platform produces while pumping messages.
type Sink func(ev core.EventContext)

type WindowConfig struct {
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Platform owns the window (if any) and the host time source. All methods
// are called from the engine loop goroutine.
type Platform interface {
	Startup(cfg WindowConfig, sink Sink) error
	// PumpMessages processes pending OS messages and reports whether the
	// window is still open.
	PumpMessages() bool
	SetTitle(title string)
	Title() string
	Size() (int, int)
	// Time returns seconds since Startup.
	Time() float64
	Sleep(d time.Duration)
	Shutdown() error
}

type Kind string

const (
	KindGLFW     Kind = "glfw"
	KindHeadless Kind = "headless"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindGLFW, KindHeadless:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownPlatform, s)
}
