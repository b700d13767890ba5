package scripting

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spaghettifunk/abyss/engine/core"
)

// Policy selects what happens to a failed hook call.
type Policy uint8

const (
	// Guarded logs the failure once and hides it from the host.
	PolicyGuarded Policy = iota
	// Unguarded returns the failure to the host.
	PolicyUnguarded
)

func (p Policy) String() string {
	switch p {
	case PolicyGuarded:
		return "guarded"
	case PolicyUnguarded:
		return "unguarded"
	}
	return fmt.Sprintf("policy(%d)", uint8(p))
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "guarded":
		return PolicyGuarded, nil
	case "unguarded":
		return PolicyUnguarded, nil
	}
	return PolicyGuarded, fmt.Errorf("unknown hook policy %q", s)
}

// HookError reports a failed hook. Stack is set when the hook panicked.
type HookError struct {
	Hook  string
	Err   error
	Stack []byte
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook failed: %v", e.Hook, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

// Binding owns the script Context and is the only caller of Hooks.
// It is not safe for concurrent use; the host calls it from its frame loop.
type Binding struct {
	hooks  Hooks
	ctx    *Context
	policy Policy
	logger *log.Logger
}

type Option func(*Binding)

func WithPolicy(p Policy) Option {
	return func(b *Binding) {
		b.policy = p
	}
}

func WithLogger(l *log.Logger) Option {
	return func(b *Binding) {
		b.logger = l
	}
}

func NewBinding(host Host, hooks Hooks, opts ...Option) *Binding {
	b := &Binding{
		hooks:  hooks,
		ctx:    NewContext(host),
		policy: PolicyGuarded,
	}
	for _, o := range opts {
		o(b)
	}
	if b.logger == nil {
		b.logger = core.Logger()
	}
	return b
}

func (b *Binding) Context() *Context {
	return b.ctx
}

func (b *Binding) Policy() Policy {
	return b.policy
}

// Running reports the script's running flag.
func (b *Binding) Running() bool {
	return b.ctx.State.Running
}

func (b *Binding) Init() error {
	return b.call("init", func() error {
		return b.hooks.Init(b.ctx)
	})
}

func (b *Binding) Dispatch(ev Event) error {
	return b.call("on_event", func() error {
		return b.hooks.OnEvent(b.ctx, ev)
	})
}

// Update forwards the frame delta. Negative deltas are clamped to zero.
func (b *Binding) Update(dt float64) error {
	if dt < 0 {
		dt = 0
	}
	return b.call("update", func() error {
		return b.hooks.Update(b.ctx, dt)
	})
}

func (b *Binding) Shutdown() error {
	return b.call("shutdown", func() error {
		return b.hooks.Shutdown(b.ctx)
	})
}

func (b *Binding) call(hook string, fn func() error) error {
	err := invoke(hook, fn)
	if err == nil {
		return nil
	}
	if b.policy == PolicyUnguarded {
		return err
	}

	var herr *HookError
	errors.As(err, &herr)
	keyvals := []interface{}{
		"hook", herr.Hook,
		"type", fmt.Sprintf("%T", herr.Err),
		"err", herr.Err.Error(),
	}
	if len(herr.Stack) > 0 {
		keyvals = append(keyvals, "stack", string(herr.Stack))
	}
	b.logger.Error("script hook failed", keyvals...)
	return nil
}

// invoke runs fn and turns both returned errors and panics into a HookError.
func invoke(hook string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("panic: %v", r)
			}
			err = &HookError{Hook: hook, Err: cause, Stack: debug.Stack()}
		}
	}()
	if err := fn(); err != nil {
		return &HookError{Hook: hook, Err: err}
	}
	return nil
}
