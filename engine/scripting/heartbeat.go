package scripting

import (
	"fmt"
	"strings"
)

type HeartbeatMode uint8

const (
	// HeartbeatHostTime fires on every update whose host time, truncated to
	// whole seconds, is a multiple of the interval. The interval is truncated
	// to whole seconds too, with a minimum of one.
	HeartbeatHostTime HeartbeatMode = iota
	// HeartbeatAccumulated sums frame deltas and fires once the sum reaches
	// the interval, then restarts from zero.
	HeartbeatAccumulated
)

const DefaultHeartbeatInterval = 2.0

func ParseHeartbeatMode(s string) (HeartbeatMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "host-time":
		return HeartbeatHostTime, nil
	case "accumulated":
		return HeartbeatAccumulated, nil
	}
	return HeartbeatHostTime, fmt.Errorf("unknown heartbeat mode %q", s)
}

type Heartbeat struct {
	Mode     HeartbeatMode
	Interval float64
	elapsed  float64
}

func NewHeartbeat(mode HeartbeatMode, interval float64) *Heartbeat {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	return &Heartbeat{Mode: mode, Interval: interval}
}

// Tick reports whether a heartbeat is due for the update at host time t
// with frame delta dt.
func (h *Heartbeat) Tick(t, dt float64) bool {
	switch h.Mode {
	case HeartbeatAccumulated:
		h.elapsed += dt
		if h.elapsed >= h.Interval {
			h.elapsed = 0
			return true
		}
		return false
	default:
		period := int64(h.Interval)
		if period < 1 {
			period = 1
		}
		return int64(t)%period == 0
	}
}
