package engine

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spaghettifunk/abyss/engine/containers"
	"github.com/spaghettifunk/abyss/engine/core"
	"github.com/spaghettifunk/abyss/engine/platform"
	"github.com/spaghettifunk/abyss/engine/scripting"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
	// Engine has shut down
	EngineStageShutdown
)

// Engine drives a gameplay script from a frame loop and is the script's
// capability object. Everything except New runs on the loop goroutine.
type Engine struct {
	currentStage Stage
	gameInstance *Game
	platform     platform.Platform
	binding      *scripting.Binding
	bus          *core.EventBus
	queue        *containers.RingQueue[core.EventContext]
	input        *core.InputState
	metrics      *core.Metrics
	scriptLog    *log.Logger
	sessionID    string

	isRunning     bool
	closing       bool
	pendingQuit   bool
	quitRequested bool
	width         int
	height        int
	lastTime      float64
	frame         uint64
}

func New(g *Game, p platform.Platform) (*Engine, error) {
	config := g.ApplicationConfig
	if err := config.Validate(); err != nil {
		return nil, err
	}
	policy, err := scripting.ParsePolicy(config.Script.Policy)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		platform:     p,
		bus:          core.NewEventBus(),
		queue:        containers.NewRingQueue[core.EventContext](config.Engine.EventQueueSize),
		input:        core.NewInputState(),
		metrics:      core.NewMetrics(),
		width:        config.Window.StartWidth,
		height:       config.Window.StartHeight,
	}
	e.binding = scripting.NewBinding(e, g.Hooks, scripting.WithPolicy(policy))
	return e, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return core.ErrAlreadyInitialized
	}
	e.currentStage = EngineStageBooting

	e.sessionID = uuid.NewString()
	e.scriptLog = core.ScriptLogger().With("session", e.sessionID[:8])
	core.LogInfo("booting session %s", e.sessionID)

	// register some events
	e.bus.Register(core.EVENT_CODE_RESIZED, e, e.onResized)
	e.bus.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onQuit)

	if err := e.platform.Startup(e.gameInstance.ApplicationConfig.WindowConfig(), e.enqueue); err != nil {
		return err
	}
	e.width, e.height = e.platform.Size()

	e.currentStage = EngineStageInitializing
	if err := e.binding.Init(); err != nil {
		return err
	}
	if err := e.binding.Dispatch(scripting.NewEvent(scripting.EventStart)); err != nil {
		return err
	}

	e.isRunning = true
	e.currentStage = EngineStageInitialized
	return nil
}

// Run executes frames until the script requests quit, the window closes, the
// context is cancelled or the configured frame limit is reached. A
// cancelled context is turned into a quit event so the script observes it.
func (e *Engine) Run(ctx context.Context) error {
	if e.currentStage != EngineStageInitialized {
		return core.ErrNotInitialized
	}
	e.currentStage = EngineStageRunning

	config := e.gameInstance.ApplicationConfig.Engine
	targetFrameSeconds := 1.0 / float64(config.TargetFPS)
	e.lastTime = e.platform.Time()

	for e.isRunning {
		select {
		case <-ctx.Done():
			if !e.closing {
				e.closing = true
				e.enqueue(core.NewEventContext(core.EVENT_CODE_APPLICATION_QUIT))
			}
		default:
		}

		e.input.BeginFrame()
		if !e.platform.PumpMessages() {
			e.closing = true
		}
		if err := e.drainEvents(); err != nil {
			core.LogError("game event dispatch failed, shutting down: %s", err)
			e.isRunning = false
			return err
		}

		// Update clock and get delta time.
		currentTime := e.platform.Time()
		delta := core.Clamp(currentTime-e.lastTime, 0, config.MaxFrameDelta)
		e.lastTime = currentTime

		if err := e.binding.Update(delta); err != nil {
			core.LogError("game update failed, shutting down: %s", err)
			e.isRunning = false
			return err
		}
		e.metrics.Update(delta)
		e.frame++

		switch {
		case e.quitRequested:
			core.LogInfo("quit requested by script after %d frames", e.frame)
			e.isRunning = false
		case e.closing:
			core.LogInfo("window closed after %d frames", e.frame)
			e.isRunning = false
		case config.MaxFrames > 0 && e.frame >= config.MaxFrames:
			core.LogInfo("frame limit %d reached", config.MaxFrames)
			e.isRunning = false
		}

		// Figure out how long the frame took and, if below target, give the
		// rest back to the OS.
		if config.LimitFrames && e.isRunning {
			frameElapsedTime := e.platform.Time() - currentTime
			if remaining := targetFrameSeconds - frameElapsedTime; remaining > 0 {
				e.platform.Sleep(time.Duration(remaining * float64(time.Second)))
			}
		}
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown || e.currentStage == EngineStageShutdown {
		return nil
	}
	if e.currentStage == EngineStageUninitialized {
		return core.ErrNotInitialized
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	var errs []error
	if err := e.binding.Dispatch(scripting.NewEvent(scripting.EventShutdown)); err != nil {
		errs = append(errs, err)
	}
	if err := e.binding.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	if err := e.platform.Shutdown(); err != nil {
		errs = append(errs, err)
	}
	e.bus.Clear()

	e.currentStage = EngineStageShutdown
	core.LogInfo("session %s shut down", e.sessionID)
	return errors.Join(errs...)
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) SessionID() string {
	return e.sessionID
}

func (e *Engine) Frame() uint64 {
	return e.frame
}

func (e *Engine) QuitRequested() bool {
	return e.quitRequested
}

// ScriptRunning reports the script's running flag.
func (e *Engine) ScriptRunning() bool {
	return e.binding.Running()
}

// enqueue never loses a quit: when the queue is full it is held back and
// delivered after the queued events.
func (e *Engine) enqueue(ev core.EventContext) {
	if err := e.queue.Enqueue(ev); err != nil {
		if ev.Code == core.EVENT_CODE_APPLICATION_QUIT {
			core.LogWarn("event queue full, quit delivered after pending events")
			e.pendingQuit = true
			return
		}
		core.LogWarn("dropping event %d: %s", ev.Code, err)
	}
}

// drainEvents applies queued events to the input state, notifies engine
// listeners and forwards them to the script, in arrival order.
func (e *Engine) drainEvents() error {
	for !e.queue.IsEmpty() {
		ev, err := e.queue.Dequeue()
		if err != nil {
			return err
		}
		if err := e.deliver(ev); err != nil {
			return err
		}
	}
	if e.pendingQuit {
		e.pendingQuit = false
		return e.deliver(core.NewEventContext(core.EVENT_CODE_APPLICATION_QUIT))
	}
	return nil
}

func (e *Engine) deliver(ev core.EventContext) error {
	e.input.Apply(ev)
	e.bus.Fire(ev)

	if sev, ok := scripting.EventFromContext(ev); ok {
		return e.binding.Dispatch(sev)
	}
	return nil
}

func (e *Engine) onResized(ev core.EventContext) bool {
	width, height := ev.Data[0], ev.Data[1]
	if width != e.width || height != e.height {
		core.LogDebug("window resized: %d, %d", width, height)
		e.width = width
		e.height = height
	}
	return false
}

func (e *Engine) onQuit(ev core.EventContext) bool {
	e.closing = true
	return false
}
