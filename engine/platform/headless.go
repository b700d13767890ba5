package platform

import (
	"sort"
	"time"

	"github.com/spaghettifunk/abyss/engine/core"
)

// ScheduledEvent is raised by the headless platform once its time reaches At.
type ScheduledEvent struct {
	At    float64
	Event core.EventContext
}

// Headless runs without a window. Time is either real (FixedStep == 0) or
// advances by FixedStep on every PumpMessages. A scheduled quit event is
// treated like the user closing the window.
type Headless struct {
	FixedStep float64

	clock    *core.Clock
	sink     Sink
	schedule []ScheduledEvent
	next     int
	now      float64
	title    string
	width    int
	height   int
	closed   bool
}

func NewHeadless(fixedStep float64, schedule []ScheduledEvent) *Headless {
	events := append([]ScheduledEvent(nil), schedule...)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At < events[j].At
	})
	return &Headless{
		FixedStep: fixedStep,
		clock:     core.NewClock(),
		schedule:  events,
	}
}

func (p *Headless) Startup(cfg WindowConfig, sink Sink) error {
	p.sink = sink
	p.title = cfg.Name
	p.width = cfg.Width
	p.height = cfg.Height
	p.now = 0
	p.clock.Start()
	return nil
}

func (p *Headless) PumpMessages() bool {
	if p.closed {
		return false
	}
	if p.FixedStep > 0 {
		p.now += p.FixedStep
	} else {
		p.clock.Update()
		p.now = p.clock.Elapsed()
	}

	for p.next < len(p.schedule) && p.schedule[p.next].At <= p.now {
		ev := p.schedule[p.next].Event
		p.next++
		switch ev.Code {
		case core.EVENT_CODE_RESIZED:
			p.width, p.height = ev.Data[0], ev.Data[1]
		case core.EVENT_CODE_APPLICATION_QUIT:
			p.closed = true
		}
		p.sink(ev)
	}
	return !p.closed
}

// Close behaves like the user closing the window: a quit event is raised on
// the next pump.
func (p *Headless) Close() {
	if p.closed {
		return
	}
	p.schedule = append(p.schedule[:p.next], append([]ScheduledEvent{{
		At:    p.now,
		Event: core.NewEventContext(core.EVENT_CODE_APPLICATION_QUIT),
	}}, p.schedule[p.next:]...)...)
}

func (p *Headless) SetTitle(title string) {
	p.title = title
}

func (p *Headless) Title() string {
	return p.title
}

func (p *Headless) Size() (int, int) {
	return p.width, p.height
}

func (p *Headless) Time() float64 {
	return p.now
}

func (p *Headless) Sleep(d time.Duration) {
	if p.FixedStep > 0 {
		return
	}
	time.Sleep(d)
}

func (p *Headless) Shutdown() error {
	p.clock.Stop()
	return nil
}

var _ Platform = (*Headless)(nil)
