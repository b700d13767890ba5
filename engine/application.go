package engine

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/abyss/engine/core"
	"github.com/spaghettifunk/abyss/engine/platform"
	"github.com/spaghettifunk/abyss/engine/scripting"
)

type ApplicationConfig struct {
	Window   WindowConfig   `toml:"window"`
	Engine   EngineConfig   `toml:"engine"`
	Log      LogConfig      `toml:"log"`
	Script   ScriptConfig   `toml:"script"`
	Headless HeadlessConfig `toml:"headless"`
}

type WindowConfig struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// Window starting position x axis, if applicable.
	StartPosX int `toml:"x"`
	// Window starting position y axis, if applicable.
	StartPosY int `toml:"y"`
	// Window starting width, if applicable.
	StartWidth int `toml:"width"`
	// Window starting height, if applicable.
	StartHeight int `toml:"height"`
}

type EngineConfig struct {
	// glfw or headless
	Platform       string  `toml:"platform"`
	TargetFPS      int     `toml:"target_fps"`
	LimitFrames    bool    `toml:"limit_frames"`
	MaxFrameDelta  float64 `toml:"max_frame_delta"`
	EventQueueSize int     `toml:"event_queue_size"`
	// Zero runs until quit.
	MaxFrames uint64 `toml:"max_frames"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type ScriptConfig struct {
	// native runs the built-in gameplay script, js loads Path.
	Kind              string  `toml:"kind"`
	Path              string  `toml:"path"`
	HotReload         bool    `toml:"hot_reload"`
	Policy            string  `toml:"policy"`
	CallTimeoutMS     int     `toml:"call_timeout_ms"`
	Title             string  `toml:"title"`
	Heartbeat         string  `toml:"heartbeat"`
	// Seconds between heartbeats. host-time mode needs whole seconds.
	HeartbeatInterval float64 `toml:"heartbeat_interval"`
	QuitEdgeTriggered bool    `toml:"quit_edge_triggered"`
}

type HeadlessConfig struct {
	// Seconds of virtual time per frame. Zero uses the wall clock.
	FixedStep float64         `toml:"fixed_step"`
	Events    []HeadlessEvent `toml:"events"`
}

type HeadlessEvent struct {
	At   float64 `toml:"at"`
	Type string  `toml:"type"`
	A    int     `toml:"a"`
	B    int     `toml:"b"`
	C    int     `toml:"c"`
}

const (
	ScriptKindNative = "native"
	ScriptKindJS     = "js"
)

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Window: WindowConfig{
			Name:        "Carnal Abyss",
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
		},
		Engine: EngineConfig{
			Platform:       string(platform.KindGLFW),
			TargetFPS:      60,
			LimitFrames:    true,
			MaxFrameDelta:  0.25,
			EventQueueSize: 256,
		},
		Log: LogConfig{
			Level: "info",
		},
		Script: ScriptConfig{
			Kind:              ScriptKindNative,
			Policy:            scripting.PolicyGuarded.String(),
			CallTimeoutMS:     250,
			Heartbeat:         "host-time",
			HeartbeatInterval: scripting.DefaultHeartbeatInterval,
		},
	}
}

// LoadApplicationConfig reads a TOML file on top of the defaults. Unknown
// keys are rejected so typos do not pass silently.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	d := toml.NewDecoder(bytes.NewReader(data))
	d.DisallowUnknownFields()
	if err := d.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("config %s: %s", path, strict.String())
		}
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Bind attaches the overridable settings to the provided FlagSet.
func (c *ApplicationConfig) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Engine.Platform, "platform", c.Engine.Platform, "window platform: glfw or headless")
	fs.Uint64Var(&c.Engine.MaxFrames, "max-frames", c.Engine.MaxFrames, "stop after this many frames (0 = until quit)")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "log level: debug, info, warn, error")
	fs.StringVar(&c.Script.Kind, "script-kind", c.Script.Kind, "gameplay script kind: native or js")
	fs.StringVar(&c.Script.Path, "script", c.Script.Path, "path of the js gameplay script")
	fs.BoolVar(&c.Script.HotReload, "hot-reload", c.Script.HotReload, "reload the js script when it changes")
	fs.StringVar(&c.Script.Policy, "policy", c.Script.Policy, "hook failure policy: guarded or unguarded")
}

func (c *ApplicationConfig) Validate() error {
	if _, err := platform.ParseKind(c.Engine.Platform); err != nil {
		return fmt.Errorf("engine.platform: %w", err)
	}
	if c.Window.StartWidth <= 0 || c.Window.StartHeight <= 0 {
		return fmt.Errorf("window.width and window.height must be positive")
	}
	if c.Engine.TargetFPS <= 0 {
		return fmt.Errorf("engine.target_fps must be positive")
	}
	if c.Engine.MaxFrameDelta <= 0 {
		return fmt.Errorf("engine.max_frame_delta must be positive")
	}
	if c.Engine.EventQueueSize <= 0 {
		return fmt.Errorf("engine.event_queue_size must be positive")
	}
	if _, err := core.ParseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Script.Kind {
	case ScriptKindNative:
	case ScriptKindJS:
		if c.Script.Path == "" {
			return fmt.Errorf("script.path is required for js scripts")
		}
	default:
		return fmt.Errorf("script.kind: %w: %q", core.ErrUnknownScriptKind, c.Script.Kind)
	}
	if _, err := scripting.ParsePolicy(c.Script.Policy); err != nil {
		return fmt.Errorf("script.policy: %w", err)
	}
	mode, err := scripting.ParseHeartbeatMode(c.Script.Heartbeat)
	if err != nil {
		return fmt.Errorf("script.heartbeat: %w", err)
	}
	if c.Script.HeartbeatInterval <= 0 {
		return fmt.Errorf("script.heartbeat_interval must be positive")
	}
	if mode == scripting.HeartbeatHostTime && c.Script.HeartbeatInterval != math.Trunc(c.Script.HeartbeatInterval) {
		return fmt.Errorf("script.heartbeat_interval must be whole seconds in host-time mode, got %g", c.Script.HeartbeatInterval)
	}
	if c.Script.CallTimeoutMS < 0 {
		return fmt.Errorf("script.call_timeout_ms must not be negative")
	}
	if c.Headless.FixedStep < 0 {
		return fmt.Errorf("headless.fixed_step must not be negative")
	}
	if _, err := c.ScheduledEvents(); err != nil {
		return err
	}
	return nil
}

// ScheduledEvents converts the headless event list to platform events.
func (c *ApplicationConfig) ScheduledEvents() ([]platform.ScheduledEvent, error) {
	events := make([]platform.ScheduledEvent, 0, len(c.Headless.Events))
	for i, he := range c.Headless.Events {
		code, ok := scripting.EventCode(he.Type)
		if !ok {
			return nil, fmt.Errorf("headless.events[%d]: unknown event type %q", i, he.Type)
		}
		events = append(events, platform.ScheduledEvent{
			At:    he.At,
			Event: core.NewEventContext(code, he.A, he.B, he.C),
		})
	}
	return events, nil
}

func (c *ApplicationConfig) WindowConfig() platform.WindowConfig {
	return platform.WindowConfig{
		Name:   c.Window.Name,
		X:      c.Window.StartPosX,
		Y:      c.Window.StartPosY,
		Width:  c.Window.StartWidth,
		Height: c.Window.StartHeight,
	}
}
