package javascript

import (
	"github.com/dop251/goja"
	"github.com/spaghettifunk/abyss/engine/scripting"
)

// engineObject builds the global `engine` object. Every function forwards to
// the host bound for the current call; input queries fall back to zero values
// when the host has no input capability.
func (m *Module) engineObject(vm *goja.Runtime) *goja.Object {
	obj := vm.NewObject()

	set := func(name string, fn func(call goja.FunctionCall) goja.Value) {
		_ = obj.Set(name, fn)
	}

	set("log", func(call goja.FunctionCall) goja.Value {
		m.host.Log(call.Argument(0).String())
		return goja.Undefined()
	})
	set("set_window_title", func(call goja.FunctionCall) goja.Value {
		m.host.SetWindowTitle(call.Argument(0).String())
		return goja.Undefined()
	})
	set("time_seconds", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(m.host.TimeSeconds())
	})
	set("request_quit", func(call goja.FunctionCall) goja.Value {
		m.host.RequestQuit()
		return goja.Undefined()
	})

	set("running", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(m.state == nil || m.state.Running)
	})

	set("get_window_size", func(call goja.FunctionCall) goja.Value {
		if in, ok := m.host.(scripting.Input); ok {
			w, h := in.WindowSize()
			return vm.NewArray(w, h)
		}
		return vm.NewArray(0, 0)
	})
	set("is_key_down", func(call goja.FunctionCall) goja.Value {
		if in, ok := m.host.(scripting.Input); ok {
			return vm.ToValue(in.IsKeyDown(int(call.Argument(0).ToInteger())))
		}
		return vm.ToValue(false)
	})
	set("mouse_pos", func(call goja.FunctionCall) goja.Value {
		if in, ok := m.host.(scripting.Input); ok {
			x, y := in.MousePos()
			return vm.NewArray(x, y)
		}
		return vm.NewArray(0, 0)
	})
	set("mouse_delta", func(call goja.FunctionCall) goja.Value {
		if in, ok := m.host.(scripting.Input); ok {
			dx, dy := in.MouseDelta()
			return vm.NewArray(dx, dy)
		}
		return vm.NewArray(0, 0)
	})
	set("mouse_button_down", func(call goja.FunctionCall) goja.Value {
		if in, ok := m.host.(scripting.Input); ok {
			return vm.ToValue(in.MouseButtonDown(int(call.Argument(0).ToInteger())))
		}
		return vm.ToValue(false)
	})
	set("fps", func(call goja.FunctionCall) goja.Value {
		if fs, ok := m.host.(scripting.FrameStats); ok {
			return vm.ToValue(fs.FPS())
		}
		return vm.ToValue(0)
	})

	return obj
}
