//go:build mage

// Build tasks for rustbind. Run `mage -l` to list them.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "rustbind"

// Default target when mage is run without arguments.
var Default = Build

var ldflags = fmt.Sprintf("-X main.Version=%s -X main.Commit=%s", version(), commit())

// Build compiles the rustbind CLI into bin/.
func Build() error {
	mg.Deps(Generate)
	out := filepath.Join("bin", binary)
	if os.Getenv("GOOS") == "windows" {
		out += ".exe"
	}
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, "./cmd/rustbind")
}

// Generate runs go generate over the module.
func Generate() error {
	return sh.RunV("go", "generate", "./...")
}

// Test runs the unit tests with the race detector.
func Test() error {
	return sh.RunV("go", "test", "-race", "-count=1", "./...")
}

// Vet runs go vet.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Install copies the CLI into GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags, "./cmd/rustbind")
}

// Clean removes build output.
func Clean() error {
	return sh.Rm("bin")
}

func version() string {
	if v := os.Getenv("RUSTBIND_VERSION"); v != "" {
		return v
	}
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || v == "" {
		return "dev"
	}
	return v
}

func commit() string {
	c, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil || c == "" {
		return "unknown"
	}
	return c
}
