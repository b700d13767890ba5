//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Tidies the module and builds the abyss binary into bin/.
func (Build) Binary() error {
	if err := goTidy(); err != nil {
		return err
	}
	if err := executeCmd("go", withArgs("build", "-o", "bin/abyss", "."), withStream()); err != nil {
		return err
	}
	return nil
}
