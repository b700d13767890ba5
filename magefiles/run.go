//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the engine in a window with abyss.toml.
func (Run) Engine() error {
	fmt.Println("Run engine...")
	if err := executeCmd("go", withArgs("run", ".", "-config", "abyss.toml"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the scripted headless session from headless.toml.
func (Run) Headless() error {
	fmt.Println("Run headless...")
	if err := executeCmd("go", withArgs("run", ".", "-config", "headless.toml"), withStream()); err != nil {
		return err
	}
	return nil
}
