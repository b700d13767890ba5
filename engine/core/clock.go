package core

import "time"

// Clock measures elapsed seconds since Start. The time source can be
// replaced for deterministic runs.
type Clock struct {
	now       func() time.Time
	startTime time.Time
	started   bool
	elapsed   float64
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewClockWithSource builds a clock reading time from now.
func NewClockWithSource(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Updates the provided clock. Should be called just before checking elapsed time.
// Has no effect on non-started clocks.
func (c *Clock) Update() {
	if c.started {
		c.elapsed = c.now().Sub(c.startTime).Seconds()
	}
}

// Starts the provided clock. Resets elapsed time.
func (c *Clock) Start() {
	c.startTime = c.now()
	c.started = true
	c.elapsed = 0
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.started = false
}

func (c *Clock) Started() bool {
	return c.started
}

// Elapsed returns the seconds measured at the last Update.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}
