/*
abyss runs a gameplay script inside a minimal engine loop. The script is
either the native testbed game or a JavaScript file.
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spaghettifunk/abyss/engine"
	"github.com/spaghettifunk/abyss/engine/core"
	"github.com/spaghettifunk/abyss/engine/platform"
	"github.com/spaghettifunk/abyss/engine/platform/desktop"
	"github.com/spaghettifunk/abyss/engine/scripting"
	"github.com/spaghettifunk/abyss/engine/scripting/javascript"
	"github.com/spaghettifunk/abyss/testbed"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		core.LogFatal("%s", err)
	}
}

func run(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	level, err := core.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	core.SetLogLevel(level)

	p, err := newPlatform(cfg)
	if err != nil {
		return err
	}
	hooks, err := newHooks(cfg)
	if err != nil {
		return err
	}

	e, err := engine.New(&engine.Game{ApplicationConfig: cfg, Hooks: hooks}, p)
	if err != nil {
		return err
	}
	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		return err
	}

	// SIGINT/SIGTERM become a quit event for the script
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := e.Run(ctx)
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown: %s", err)
	}
	return runErr
}

// loadConfig reads -config first, then applies the remaining flags on top of
// the file so the command line always wins.
func loadConfig(args []string) (*engine.ApplicationConfig, error) {
	var path string
	pre := flag.NewFlagSet("abyss", flag.ContinueOnError)
	pre.SetOutput(io.Discard)
	pre.StringVar(&path, "config", "", "path of the TOML configuration file")
	engine.DefaultApplicationConfig().Bind(pre)
	if err := pre.Parse(args); err != nil && !errors.Is(err, flag.ErrHelp) {
		return nil, err
	}

	cfg := engine.DefaultApplicationConfig()
	if path != "" {
		loaded, err := engine.LoadApplicationConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	fs := flag.NewFlagSet("abyss", flag.ContinueOnError)
	fs.String("config", path, "path of the TOML configuration file")
	cfg.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newPlatform(cfg *engine.ApplicationConfig) (platform.Platform, error) {
	kind, err := platform.ParseKind(cfg.Engine.Platform)
	if err != nil {
		return nil, err
	}
	switch kind {
	case platform.KindHeadless:
		events, err := cfg.ScheduledEvents()
		if err != nil {
			return nil, err
		}
		return platform.NewHeadless(cfg.Headless.FixedStep, events), nil
	default:
		return desktop.NewGLFW(), nil
	}
}

func newHooks(cfg *engine.ApplicationConfig) (scripting.Hooks, error) {
	switch cfg.Script.Kind {
	case engine.ScriptKindJS:
		return javascript.Load(cfg.Script.Path,
			javascript.WithTimeout(time.Duration(cfg.Script.CallTimeoutMS)*time.Millisecond),
			javascript.WithHotReload(cfg.Script.HotReload),
		)
	case engine.ScriptKindNative:
		mode, err := scripting.ParseHeartbeatMode(cfg.Script.Heartbeat)
		if err != nil {
			return nil, err
		}
		return testbed.NewTestGame(testbed.Options{
			Title:             cfg.Script.Title,
			Heartbeat:         scripting.NewHeartbeat(mode, cfg.Script.HeartbeatInterval),
			EdgeTriggeredQuit: cfg.Script.QuitEdgeTriggered,
		}), nil
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownScriptKind, cfg.Script.Kind)
	}
}
