//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every package test with the race detector.
func (Test) All() error {
	return executeCmd("go", withArgs("test", "-race", "-count=1", "./..."), withStream())
}

// Runs the tests that need no window, with cgo disabled.
func (Test) Headless() error {
	return executeCmd("go", withArgs("test", "-count=1",
		"./engine/core/...",
		"./engine/containers/...",
		"./engine/scripting/...",
		"./engine/platform",
		"./testbed/...",
	), withEnv(map[string]string{"CGO_ENABLED": "0"}), withStream())
}
