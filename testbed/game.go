package testbed

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/abyss/engine/scripting"
)

const DefaultTitle = "Carnal Abyss (Go gameplay online)"

// Options tune the native gameplay script.
type Options struct {
	// Title set on init. Resize titles are "<Title> | WxH" using the part of
	// the title before any parenthesis.
	Title string
	// Heartbeat selects how often the liveness line is logged.
	Heartbeat *scripting.Heartbeat
	// EdgeTriggeredQuit requests quit only on the first update after the
	// running flag clears instead of on every update.
	EdgeTriggeredQuit bool
}

// TestGame is the gameplay script compiled into the binary. It keeps no
// state of its own beyond presentation settings; the running flag lives in
// the scripting.Context handed in by the host.
type TestGame struct {
	title     string
	baseTitle string
	heartbeat *scripting.Heartbeat
	edgeQuit  bool
	quitSent  bool
}

func NewTestGame(opts Options) *TestGame {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Heartbeat == nil {
		opts.Heartbeat = scripting.NewHeartbeat(scripting.HeartbeatHostTime, scripting.DefaultHeartbeatInterval)
	}
	return &TestGame{
		title:     opts.Title,
		baseTitle: baseTitle(opts.Title),
		heartbeat: opts.Heartbeat,
		edgeQuit:  opts.EdgeTriggeredQuit,
	}
}

func (g *TestGame) Init(ctx *scripting.Context) error {
	ctx.Engine.Log("game.init()")
	ctx.Engine.SetWindowTitle(g.title)
	return nil
}

func (g *TestGame) OnEvent(ctx *scripting.Context, ev scripting.Event) error {
	switch ev.Type {
	case scripting.EventResize:
		size := fmt.Sprintf("%dx%d", ev.A, ev.B)
		ctx.Engine.SetWindowTitle(fmt.Sprintf("%s | %s", g.baseTitle, size))
		ctx.Engine.Log("resize " + size)
	case scripting.EventQuit:
		ctx.State.Running = false
		ctx.Engine.Log("quit received")
	}
	return nil
}

func (g *TestGame) Update(ctx *scripting.Context, dt float64) error {
	t := ctx.Engine.TimeSeconds()
	if g.heartbeat.Tick(t, dt) {
		ctx.Engine.Log(fmt.Sprintf("tick t=%.2f dt=%.4f", t, dt))
	}
	if !ctx.State.Running {
		if !g.edgeQuit || !g.quitSent {
			ctx.Engine.RequestQuit()
			g.quitSent = true
		}
	}
	return nil
}

func (g *TestGame) Shutdown(ctx *scripting.Context) error {
	ctx.Engine.Log("game.shutdown()")
	return nil
}

func baseTitle(title string) string {
	before, _, _ := strings.Cut(title, "(")
	return strings.TrimSpace(before)
}
