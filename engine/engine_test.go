package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/abyss/engine/core"
	"github.com/spaghettifunk/abyss/engine/platform"
	"github.com/spaghettifunk/abyss/engine/scripting"
	"github.com/spaghettifunk/abyss/engine/scripting/javascript"
	"github.com/spaghettifunk/abyss/testbed"
	"github.com/stretchr/testify/require"
)

func headlessConfig(events ...HeadlessEvent) *ApplicationConfig {
	cfg := DefaultApplicationConfig()
	cfg.Engine.Platform = string(platform.KindHeadless)
	cfg.Headless.FixedStep = 0.5
	cfg.Headless.Events = events
	return cfg
}

func newHeadlessEngine(t *testing.T, cfg *ApplicationConfig, hooks scripting.Hooks) (*Engine, *platform.Headless) {
	t.Helper()
	schedule, err := cfg.ScheduledEvents()
	require.NoError(t, err)
	p := platform.NewHeadless(cfg.Headless.FixedStep, schedule)
	e, err := New(&Game{ApplicationConfig: cfg, Hooks: hooks}, p)
	require.NoError(t, err)
	return e, p
}

func TestEngine_NativeScriptQuitsAfterWindowClose(t *testing.T) {
	cfg := headlessConfig(
		HeadlessEvent{At: 0.5, Type: "resize", A: 800, B: 600},
		HeadlessEvent{At: 1.0, Type: "quit"},
	)
	e, p := newHeadlessEngine(t, cfg, testbed.NewTestGame(testbed.Options{}))

	require.NoError(t, e.Initialize())
	require.Equal(t, EngineStageInitialized, e.Stage())
	require.NotEmpty(t, e.SessionID())
	require.Equal(t, testbed.DefaultTitle, p.Title())

	require.NoError(t, e.Run(context.Background()))
	require.Equal(t, "Carnal Abyss | 800x600", p.Title())
	require.False(t, e.ScriptRunning())
	require.True(t, e.QuitRequested())
	require.Equal(t, uint64(2), e.Frame())

	w, h := e.WindowSize()
	require.Equal(t, 800, w)
	require.Equal(t, 600, h)

	require.NoError(t, e.Shutdown())
	require.Equal(t, EngineStageShutdown, e.Stage())
	require.NoError(t, e.Shutdown())
}

func TestEngine_CancelledContextBecomesQuitEvent(t *testing.T) {
	e, _ := newHeadlessEngine(t, headlessConfig(), testbed.NewTestGame(testbed.Options{}))
	require.NoError(t, e.Initialize())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, e.Run(ctx))
	require.True(t, e.QuitRequested())
	require.Equal(t, uint64(1), e.Frame())
	require.NoError(t, e.Shutdown())
}

func TestEngine_MaxFrames(t *testing.T) {
	cfg := headlessConfig()
	cfg.Engine.MaxFrames = 5
	e, _ := newHeadlessEngine(t, cfg, testbed.NewTestGame(testbed.Options{}))
	require.NoError(t, e.Initialize())

	require.NoError(t, e.Run(context.Background()))
	require.Equal(t, uint64(5), e.Frame())
	require.False(t, e.QuitRequested())
	require.True(t, e.ScriptRunning())
}

func TestEngine_RunRequiresInitialize(t *testing.T) {
	e, _ := newHeadlessEngine(t, headlessConfig(), testbed.NewTestGame(testbed.Options{}))
	require.ErrorIs(t, e.Run(context.Background()), core.ErrNotInitialized)
	require.ErrorIs(t, e.Shutdown(), core.ErrNotInitialized)

	require.NoError(t, e.Initialize())
	require.ErrorIs(t, e.Initialize(), core.ErrAlreadyInitialized)
}

// recordingHooks captures what the engine delivers to a script.
type recordingHooks struct {
	events    []scripting.Event
	dts       []float64
	keyDown   []bool
	updateErr error
}

func (r *recordingHooks) Init(ctx *scripting.Context) error { return nil }

func (r *recordingHooks) OnEvent(ctx *scripting.Context, ev scripting.Event) error {
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingHooks) Update(ctx *scripting.Context, dt float64) error {
	r.dts = append(r.dts, dt)
	in := ctx.Engine.(scripting.Input)
	r.keyDown = append(r.keyDown, in.IsKeyDown(int(core.KEY_SPACE)))
	return r.updateErr
}

func (r *recordingHooks) Shutdown(ctx *scripting.Context) error { return nil }

func TestEngine_EventOrderAndInput(t *testing.T) {
	cfg := headlessConfig(
		HeadlessEvent{At: 0.5, Type: "key_down", A: int(core.KEY_SPACE)},
		HeadlessEvent{At: 1.0, Type: "key_up", A: int(core.KEY_SPACE)},
	)
	cfg.Engine.MaxFrames = 3
	hooks := &recordingHooks{}
	e, _ := newHeadlessEngine(t, cfg, hooks)

	require.NoError(t, e.Initialize())
	require.NoError(t, e.Run(context.Background()))
	require.NoError(t, e.Shutdown())

	names := make([]string, 0, len(hooks.events))
	for _, ev := range hooks.events {
		names = append(names, ev.Type)
	}
	require.Equal(t, []string{"start", "key_down", "key_up", "shutdown"}, names)
	require.Equal(t, []bool{true, false, false}, hooks.keyDown)
	require.Equal(t, []float64{0.25, 0.25, 0.25}, hooks.dts, "deltas are clamped to max_frame_delta")
}

func TestEngine_QuitSurvivesFullQueue(t *testing.T) {
	cfg := headlessConfig(
		HeadlessEvent{At: 0.5, Type: "key_down", A: int(core.KEY_SPACE)},
		HeadlessEvent{At: 0.5, Type: "quit"},
	)
	cfg.Engine.EventQueueSize = 1
	hooks := &recordingHooks{}
	e, _ := newHeadlessEngine(t, cfg, hooks)
	require.NoError(t, e.Initialize())

	require.NoError(t, e.Run(context.Background()))
	require.Equal(t, uint64(1), e.Frame())
	require.Len(t, hooks.events, 3)
	require.Equal(t, scripting.EventKeyDown, hooks.events[1].Type)
	require.Equal(t, scripting.EventQuit, hooks.events[2].Type)
}

func TestEngine_CancelWithFullQueueStillDeliversQuit(t *testing.T) {
	cfg := headlessConfig()
	cfg.Engine.EventQueueSize = 1
	hooks := &recordingHooks{}
	e, _ := newHeadlessEngine(t, cfg, hooks)
	require.NoError(t, e.Initialize())

	// fill the queue before the loop gets to drain it
	e.enqueue(core.NewEventContext(core.EVENT_CODE_MOUSE_WHEEL, 1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, e.Run(ctx))
	names := make([]string, 0, len(hooks.events))
	for _, ev := range hooks.events {
		names = append(names, ev.Type)
	}
	require.Equal(t, []string{"start", "mouse_wheel", "quit"}, names)
}

func TestEngine_UnguardedUpdateFailureStopsRun(t *testing.T) {
	cfg := headlessConfig()
	cfg.Script.Policy = "unguarded"
	boom := errors.New("boom")
	e, _ := newHeadlessEngine(t, cfg, &recordingHooks{updateErr: boom})
	require.NoError(t, e.Initialize())

	err := e.Run(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, uint64(0), e.Frame())
}

func TestEngine_GuardedUpdateFailureKeepsRunning(t *testing.T) {
	cfg := headlessConfig()
	cfg.Engine.MaxFrames = 3
	e, _ := newHeadlessEngine(t, cfg, &recordingHooks{updateErr: errors.New("boom")})
	require.NoError(t, e.Initialize())

	require.NoError(t, e.Run(context.Background()))
	require.Equal(t, uint64(3), e.Frame())
}

func TestEngine_JavaScriptGame(t *testing.T) {
	cfg := headlessConfig(
		HeadlessEvent{At: 0.5, Type: "resize", A: 1024, B: 768},
		HeadlessEvent{At: 1.5, Type: "quit"},
	)
	m, err := javascript.Load(filepath.Join("..", "scripts", "game.js"))
	require.NoError(t, err)
	e, p := newHeadlessEngine(t, cfg, m)

	require.NoError(t, e.Initialize())
	require.Equal(t, "Carnal Abyss (JS gameplay online)", p.Title())
	require.NoError(t, e.Run(context.Background()))
	require.Equal(t, "Carnal Abyss | 1024x768", p.Title())
	require.False(t, e.ScriptRunning())
	require.True(t, e.QuitRequested())
	require.Equal(t, uint64(3), e.Frame())
	require.NoError(t, e.Shutdown())
}
