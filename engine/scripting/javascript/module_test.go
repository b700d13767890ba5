package javascript

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/abyss/engine/core"
	"github.com/spaghettifunk/abyss/engine/scripting"
	"github.com/spaghettifunk/abyss/engine/scripting/scriptingtest"
	"github.com/stretchr/testify/require"
)

func loadGameScript(t *testing.T, opts ...Option) *Module {
	t.Helper()
	m, err := Load(filepath.Join("..", "..", "..", "scripts", "game.js"), opts...)
	require.NoError(t, err)
	return m
}

func TestGameScript_Lifecycle(t *testing.T) {
	m := loadGameScript(t)
	host := scriptingtest.NewHost()
	ctx := scripting.NewContext(host)

	require.NoError(t, m.Init(ctx))
	require.Equal(t, "Carnal Abyss (JS gameplay online)", host.Title())
	require.Equal(t, []string{"game.init()"}, host.Logs)

	require.NoError(t, m.OnEvent(ctx, scripting.NewEvent("resize", 800, 600)))
	require.Equal(t, "Carnal Abyss | 800x600", host.Title())

	titles := len(host.Titles)
	for _, name := range []string{"", "start", "jump"} {
		require.NoError(t, m.OnEvent(ctx, scripting.NewEvent(name)))
	}
	require.Len(t, host.Titles, titles)

	host.Logs = nil
	host.Time = 3.01
	require.NoError(t, m.Update(ctx, 0.016))
	require.Empty(t, host.Logs)
	require.Zero(t, host.QuitRequests)

	host.Time = 4.0
	require.NoError(t, m.Update(ctx, 0.016))
	require.Equal(t, []string{"tick t=4.00 dt=0.0160"}, host.Logs)

	require.NoError(t, m.OnEvent(ctx, scripting.NewEvent("quit")))
	host.Time = 5.5
	require.NoError(t, m.Update(ctx, 0.016))
	require.NoError(t, m.Update(ctx, 0.016))
	require.Equal(t, 2, host.QuitRequests)

	host.Logs = nil
	require.NoError(t, m.Shutdown(ctx))
	require.Equal(t, []string{"game.shutdown()"}, host.Logs)
}

func TestModule_MissingHooksAreSkipped(t *testing.T) {
	m, err := Compile("empty.js", `var loaded = true;`)
	require.NoError(t, err)
	ctx := scripting.NewContext(scriptingtest.NewHost())

	require.NoError(t, m.Init(ctx))
	require.NoError(t, m.OnEvent(ctx, scripting.NewEvent("quit")))
	require.NoError(t, m.Update(ctx, 0.1))
	require.NoError(t, m.Shutdown(ctx))
}

func TestModule_CallsBeforeInitFail(t *testing.T) {
	m, err := Compile("late.js", `function update(dt) {}`)
	require.NoError(t, err)
	ctx := scripting.NewContext(scriptingtest.NewHost())

	require.ErrorIs(t, m.Update(ctx, 0.1), core.ErrScriptNotLoaded)
	require.ErrorIs(t, m.OnEvent(ctx, scripting.NewEvent("quit")), core.ErrScriptNotLoaded)
}

func TestModule_CompileError(t *testing.T) {
	_, err := Compile("broken.js", `function (`)
	require.Error(t, err)
}

func TestModule_ExceptionBecomesScriptError(t *testing.T) {
	m, err := Compile("throws.js", `function on_event(type) { throw new TypeError("bad event " + type); }`)
	require.NoError(t, err)
	ctx := scripting.NewContext(scriptingtest.NewHost())
	require.NoError(t, m.Init(ctx))

	err = m.OnEvent(ctx, scripting.NewEvent("resize", 1, 2))
	var serr *ScriptError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, "on_event", serr.Hook)
	require.Contains(t, err.Error(), "TypeError")
	require.Contains(t, err.Error(), "bad event resize")
}

func TestModule_TimeoutInterruptsRunawayScript(t *testing.T) {
	m, err := Compile("spin.js", `function update(dt) { while (true) {} }`, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)
	ctx := scripting.NewContext(scriptingtest.NewHost())
	require.NoError(t, m.Init(ctx))

	err = m.Update(ctx, 0.016)
	require.ErrorIs(t, err, core.ErrScriptTimeout)

	// the VM stays usable after an interrupt
	require.NoError(t, m.OnEvent(ctx, scripting.NewEvent("quit")))
}

func TestModule_InputQueries(t *testing.T) {
	src := `
function update(dt) {
  const [w, h] = engine.get_window_size();
  const [x, y] = engine.mouse_pos();
  const [dx, dy] = engine.mouse_delta();
  engine.log([w, h, x, y, dx, dy, engine.is_key_down(0x41), engine.mouse_button_down(1), engine.fps()].join(","));
}`
	m, err := Compile("input.js", src)
	require.NoError(t, err)
	host := scriptingtest.NewHost()
	host.Width, host.Height = 1280, 720
	host.MouseX, host.MouseY = 10, 20
	host.MouseDX, host.MouseDY = -1, 2
	host.Keys[0x41] = true
	host.FramesPerSec = 60
	ctx := scripting.NewContext(host)

	require.NoError(t, m.Init(ctx))
	require.NoError(t, m.Update(ctx, 0.016))
	require.Equal(t, []string{"1280,720,10,20,-1,2,true,false,60"}, host.Logs)
}

func TestModule_HotReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.js")
	require.NoError(t, os.WriteFile(path, []byte(`function init() { engine.log("v1"); }`), 0o644))

	m, err := Load(path, WithHotReload(true))
	require.NoError(t, err)
	host := scriptingtest.NewHost()
	ctx := scripting.NewContext(host)
	require.NoError(t, m.Init(ctx))
	defer m.Shutdown(ctx)
	require.Equal(t, []string{"v1"}, host.Logs)

	require.NoError(t, os.WriteFile(path, []byte(`function init() { engine.log("v2"); }`), 0o644))

	last := func() string { return host.Logs[len(host.Logs)-1] }
	deadline := time.Now().Add(5 * time.Second)
	for last() != "v2" && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
		require.NoError(t, m.Update(ctx, 0.016))
	}
	require.Equal(t, "v2", last())
}

func TestModule_ReloadKeepsPreviousOnSyntaxError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.js")
	require.NoError(t, os.WriteFile(path, []byte(`function update(dt) { engine.log("alive"); }`), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	host := scriptingtest.NewHost()
	ctx := scripting.NewContext(host)
	require.NoError(t, m.Init(ctx))

	require.NoError(t, os.WriteFile(path, []byte(`function update( {`), 0o644))
	require.NoError(t, m.reload())
	require.NoError(t, m.Update(ctx, 0.016))
	require.Equal(t, []string{"alive"}, host.Logs)
}

func TestGameScript_QuitClearsRunningFlag(t *testing.T) {
	host := scriptingtest.NewHost()
	b := scripting.NewBinding(host, loadGameScript(t))

	require.NoError(t, b.Init())
	require.True(t, b.Running())

	require.NoError(t, b.Dispatch(scripting.NewEvent("quit")))
	require.False(t, b.Running())
	require.Contains(t, host.Logs, "quit received")

	require.NoError(t, b.Update(0.016))
	require.Equal(t, 1, host.QuitRequests)
}

func TestModule_RunningFlagVisibleToScript(t *testing.T) {
	m, err := Compile("flag.js", `function update(dt) { engine.log(String(engine.running())); }`)
	require.NoError(t, err)
	host := scriptingtest.NewHost()
	ctx := scripting.NewContext(host)

	require.NoError(t, m.Init(ctx))
	require.NoError(t, m.Update(ctx, 0.016))
	ctx.State.Running = false
	require.NoError(t, m.Update(ctx, 0.016))
	require.Equal(t, []string{"true", "false"}, host.Logs)
}

func TestModule_ReloadKeepsQuitState(t *testing.T) {
	src, err := os.ReadFile(filepath.Join("..", "..", "..", "scripts", "game.js"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "game.js")
	require.NoError(t, os.WriteFile(path, src, 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	host := scriptingtest.NewHost()
	ctx := scripting.NewContext(host)
	host.Time = 1.5

	require.NoError(t, m.Init(ctx))
	require.NoError(t, m.OnEvent(ctx, scripting.NewEvent("quit")))
	require.NoError(t, m.Update(ctx, 0.016))
	require.Equal(t, 1, host.QuitRequests)

	require.NoError(t, os.WriteFile(path, append(src, []byte("\n// edited\n")...), 0o644))
	require.NoError(t, m.reload())
	require.Equal(t, "game.init()", host.Logs[len(host.Logs)-1])

	require.NoError(t, m.Update(ctx, 0.016))
	require.False(t, ctx.State.Running)
	require.Equal(t, 2, host.QuitRequests)
}
