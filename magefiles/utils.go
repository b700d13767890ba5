//go:build mage

package main

import (
	"fmt"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type cmdOptions struct {
	args   []string
	env    map[string]string
	stream bool
}

type cmdOption func(*cmdOptions)

func withArgs(args ...string) cmdOption {
	return func(o *cmdOptions) {
		o.args = args
	}
}

func withEnv(env map[string]string) cmdOption {
	return func(o *cmdOptions) {
		o.env = env
	}
}

func withStream() cmdOption {
	return func(o *cmdOptions) {
		o.stream = true
	}
}

// executeCmd runs command through mage's sh helpers. Output is shown live
// when streaming or in verbose mode, otherwise only when the command fails.
func executeCmd(command string, options ...cmdOption) error {
	opts := &cmdOptions{}
	for _, o := range options {
		o(opts)
	}

	fmt.Printf("Executing: %s %s\n", command, strings.Join(opts.args, " "))
	if mg.Verbose() || opts.stream {
		if err := sh.RunWithV(opts.env, command, opts.args...); err != nil {
			return fmt.Errorf("error executing %s: %w", command, err)
		}
		return nil
	}

	out, err := sh.OutputWith(opts.env, command, opts.args...)
	if err != nil {
		fmt.Println("... failed command output:")
		fmt.Println(out)
		return fmt.Errorf("error executing %s: %w", command, err)
	}
	return nil
}

func goTidy() error {
	if err := executeCmd("go", withArgs("mod", "tidy")); err != nil {
		return fmt.Errorf("failed to run go mod tidy: %w", err)
	}
	if err := executeCmd("go", withArgs("vet", "./...")); err != nil {
		return fmt.Errorf("failed to run go vet: %w", err)
	}
	return nil
}
