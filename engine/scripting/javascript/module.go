package javascript

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/spaghettifunk/abyss/engine/core"
	"github.com/spaghettifunk/abyss/engine/scripting"
)

const DefaultCallTimeout = 250 * time.Millisecond

// ScriptError wraps a failure raised while running script code.
type ScriptError struct {
	Script string
	Hook   string
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script %s: %s(): %v", e.Script, e.Hook, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Module runs a gameplay script written in JavaScript. The script sees a
// global `engine` object and may define init, on_event, update and shutdown;
// each of them is optional. The running flag is the host's scripting.State,
// read through engine.running(), so it survives reloads.
type Module struct {
	name    string
	path    string
	program *goja.Program
	timeout time.Duration

	vm    *goja.Runtime
	host  scripting.Host
	state *scripting.State

	fnInit     goja.Callable
	fnOnEvent  goja.Callable
	fnUpdate   goja.Callable
	fnShutdown goja.Callable

	hotReload bool
	watcher   *Watcher
}

type Option func(*Module)

// WithTimeout bounds every call into the script. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(m *Module) {
		m.timeout = d
	}
}

// WithHotReload reloads the script when its file changes. Only modules
// created with Load can reload.
func WithHotReload(enabled bool) Option {
	return func(m *Module) {
		m.hotReload = enabled
	}
}

// Compile prepares a module from source. The script's top level runs on Init.
func Compile(name, src string, opts ...Option) (*Module, error) {
	program, err := goja.Compile(name, src, false)
	if err != nil {
		return nil, fmt.Errorf("failed to compile script %s: %w", name, err)
	}
	m := &Module{
		name:    name,
		program: program,
		timeout: DefaultCallTimeout,
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// Load reads and compiles the script at path.
func Load(path string, opts ...Option) (*Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	m, err := Compile(filepath.Base(path), string(src), opts...)
	if err != nil {
		return nil, err
	}
	m.path = path
	return m, nil
}

func (m *Module) Name() string {
	return m.name
}

func (m *Module) Init(ctx *scripting.Context) error {
	m.bind(ctx)
	if m.vm == nil {
		if err := m.instantiate(); err != nil {
			return err
		}
		if err := m.startWatcher(); err != nil {
			return err
		}
	}
	return m.callFn("init", m.fnInit)
}

func (m *Module) OnEvent(ctx *scripting.Context, ev scripting.Event) error {
	if m.vm == nil {
		return core.ErrScriptNotLoaded
	}
	m.bind(ctx)
	if ev.Type == scripting.EventQuit {
		ctx.State.Running = false
	}
	return m.callFn("on_event", m.fnOnEvent,
		m.vm.ToValue(ev.Type),
		m.vm.ToValue(ev.A),
		m.vm.ToValue(ev.B),
		m.vm.ToValue(ev.C),
	)
}

func (m *Module) Update(ctx *scripting.Context, dt float64) error {
	if m.vm == nil {
		return core.ErrScriptNotLoaded
	}
	m.bind(ctx)
	if m.watcher != nil {
		select {
		case <-m.watcher.Changes():
			if err := m.reload(); err != nil {
				return err
			}
		default:
		}
	}
	return m.callFn("update", m.fnUpdate, m.vm.ToValue(dt))
}

func (m *Module) bind(ctx *scripting.Context) {
	m.host = ctx.Engine
	m.state = ctx.State
}

func (m *Module) Shutdown(ctx *scripting.Context) error {
	if m.vm == nil {
		return nil
	}
	m.bind(ctx)
	err := m.callFn("shutdown", m.fnShutdown)
	if m.watcher != nil {
		if cerr := m.watcher.Close(); cerr != nil && err == nil {
			err = cerr
		}
		m.watcher = nil
	}
	return err
}

// instantiate builds a fresh VM, runs the top level and resolves the hooks.
func (m *Module) instantiate() error {
	vm := goja.New()
	if err := vm.Set("engine", m.engineObject(vm)); err != nil {
		return err
	}
	m.vm = vm
	if err := m.guard("<top level>", func() error {
		_, err := vm.RunProgram(m.program)
		return err
	}); err != nil {
		m.vm = nil
		return err
	}

	m.fnInit = lookup(vm, "init")
	m.fnOnEvent = lookup(vm, "on_event")
	m.fnUpdate = lookup(vm, "update")
	m.fnShutdown = lookup(vm, "shutdown")
	if m.fnUpdate == nil {
		core.LogInfo("note: no callable update(dt) in %s", m.name)
	}
	return nil
}

// reload recompiles the script from disk and re-runs init on a fresh VM.
// A script that fails to compile leaves the running version in place. The
// running flag is not part of the VM, so a quit already received stays.
func (m *Module) reload() error {
	src, err := os.ReadFile(m.path)
	if err != nil {
		core.LogWarn("script %s not reloaded: %s", m.name, err)
		return nil
	}
	program, err := goja.Compile(m.name, string(src), false)
	if err != nil {
		core.LogWarn("script %s not reloaded: %s", m.name, err)
		return nil
	}

	prevProgram, prevVM := m.program, m.vm
	m.program = program
	if err := m.instantiate(); err != nil {
		m.program, m.vm = prevProgram, prevVM
		return err
	}
	core.LogInfo("script %s reloaded", m.name)
	return m.callFn("init", m.fnInit)
}

func (m *Module) startWatcher() error {
	if !m.hotReload || m.path == "" || m.watcher != nil {
		return nil
	}
	w, err := NewWatcher(m.path)
	if err != nil {
		return fmt.Errorf("failed to watch script %s: %w", m.name, err)
	}
	m.watcher = w
	return nil
}

func (m *Module) callFn(hook string, fn goja.Callable, args ...goja.Value) error {
	if fn == nil {
		return nil
	}
	return m.guard(hook, func() error {
		_, err := fn(goja.Undefined(), args...)
		return err
	})
}

// guard runs script code with the call timeout armed.
func (m *Module) guard(hook string, run func() error) error {
	vm := m.vm
	var timer *time.Timer
	var mu sync.Mutex
	finished := false
	if m.timeout > 0 {
		timer = time.AfterFunc(m.timeout, func() {
			mu.Lock()
			defer mu.Unlock()
			if !finished {
				vm.Interrupt(core.ErrScriptTimeout)
			}
		})
	}

	err := run()

	if timer != nil {
		mu.Lock()
		finished = true
		mu.Unlock()
		timer.Stop()
		vm.ClearInterrupt()
	}

	if err == nil {
		return nil
	}
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		err = fmt.Errorf("%w after %s", core.ErrScriptTimeout, m.timeout)
	}
	return &ScriptError{Script: m.name, Hook: hook, Err: err}
}

func lookup(vm *goja.Runtime, name string) goja.Callable {
	v := vm.Get(name)
	if v == nil {
		return nil
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil
	}
	return fn
}
