package rustbind

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/term"
)

// CargoBuilder handles Rust crates using Cargo
type CargoBuilder struct {
	// Path is the cargo executable used when BuildConfig.CargoPath is empty.
	Path string
}

// stdoutIsTerminal is swapped in tests.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Name returns the builder name
func (b *CargoBuilder) Name() string {
	return "Cargo"
}

// CanBuild checks if this builder can handle the manifest file
func (b *CargoBuilder) CanBuild(manifestFile string) bool {
	return MatchesPattern(manifestFile, `Cargo\.toml$`)
}

// Build compiles the crate with `cargo build --release` and installs the
// produced cdylib into config.OutputDir.
func (b *CargoBuilder) Build(ctx context.Context, config *BuildConfig, def *ModuleDef) (*BuildResult, error) {
	result := &BuildResult{
		Success: false,
		Output:  []string{},
	}

	// Step 1: Run cargo to build the crate
	if err := b.runCargo(ctx, config, def, result); err != nil {
		result.Error = err
		return result, err
	}

	// Step 2: Pick the library and copy it under its derived name
	artifact, err := findArtifact(b.releaseDir(config, def), crateLibName(def.CratePath), runtime.GOOS)
	if err != nil {
		var be *BuildError
		if errors.As(err, &be) {
			be.Target = def.ModulePath
		}
		result.Error = err
		return result, err
	}
	result.Artifact = artifact

	installed, err := InstallArtifact(artifact, config.OutputDir, def)
	if err != nil {
		result.Error = err
		return result, err
	}
	result.Installed = installed

	if config.Verbose {
		result.Output = append(result.Output, fmt.Sprintf("Copied %s -> %s", artifact, installed))
	}

	result.Success = true
	return result, nil
}

// Clean removes build artifacts
func (b *CargoBuilder) Clean(ctx context.Context, config *BuildConfig, def *ModuleDef) error {
	cmd := execCommandContext(ctx, b.getCargoPath(config), "clean")
	cmd.Dir = def.CratePath

	output, err := cmd.CombinedOutput()
	if err != nil {
		return errors.New(toolFailureMessage("cargo clean", strings.Split(string(output), "\n"), err))
	}
	return nil
}

// RequiredTools implements ToolChecker.
func (b *CargoBuilder) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{Name: b.getCargoPath(&BuildConfig{}), Purpose: "Rust compiler and package manager"},
	}
}

// CheckTools implements ToolChecker.
func (b *CargoBuilder) CheckTools() error {
	return CheckRequiredTools(b.RequiredTools())
}

// runCargo executes cargo to build the crate. Cargo's own output is streamed
// to the configured writers rather than captured.
func (b *CargoBuilder) runCargo(ctx context.Context, config *BuildConfig, def *ModuleDef, result *BuildResult) error {
	cargoPath := b.getCargoPath(config)
	args := b.buildArgs(config, def)

	if config.CleanFirst {
		if err := b.Clean(ctx, config, def); err != nil {
			result.Output = append(result.Output, err.Error())
		}
	}

	cmd := execCommandContext(ctx, cargoPath, args...)
	cmd.Dir = def.CratePath
	cmd.Stdout = writerOr(config.Stdout, os.Stdout)
	cmd.Stderr = writerOr(config.Stderr, os.Stderr)

	if cmd.Env == nil {
		cmd.Env = os.Environ()
	}
	for key, value := range config.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	if config.Verbose {
		result.Output = append(result.Output,
			fmt.Sprintf("Running: %s %s", cargoPath, strings.Join(args, " ")),
			fmt.Sprintf("Working directory: %s", def.CratePath))
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return &BuildError{Kind: KindCompilation, Target: def.ModulePath, Code: exitErr.ExitCode(), Err: err}
		}
		return &BuildError{
			Kind:    KindCompilation,
			Target:  def.ModulePath,
			Message: toolFailureMessage("cargo", nil, err),
			Code:    1,
			Err:     err,
		}
	}

	return nil
}

func (b *CargoBuilder) buildArgs(config *BuildConfig, def *ModuleDef) []string {
	args := []string{"build", "--release"}

	if !stdoutIsTerminal() {
		args = append(args, "--color=always")
	}

	if target := b.target(config); target != "" {
		args = append(args, "--target", target)
	}

	// Use locked dependencies if Cargo.lock exists
	if _, err := os.Stat(filepath.Join(def.CratePath, "Cargo.lock")); err == nil {
		args = append(args, "--locked")
	}

	if config.Parallel > 0 {
		args = append(args, "--jobs", fmt.Sprintf("%d", config.Parallel))
	}

	return append(args, config.BuildArgs...)
}

// releaseDir is Cargo's release output directory for the crate.
func (b *CargoBuilder) releaseDir(config *BuildConfig, def *ModuleDef) string {
	targetDir := os.Getenv("CARGO_TARGET_DIR")
	switch {
	case targetDir == "":
		targetDir = filepath.Join(def.CratePath, "target")
	case !filepath.IsAbs(targetDir):
		targetDir = filepath.Join(def.CratePath, targetDir)
	}
	if target := b.target(config); target != "" {
		targetDir = filepath.Join(targetDir, target)
	}
	return filepath.Join(targetDir, "release")
}

func (b *CargoBuilder) target(config *BuildConfig) string {
	if config.Target != "" {
		return config.Target
	}
	return os.Getenv("CARGO_BUILD_TARGET")
}

// getCargoPath returns the path to the cargo executable
func (b *CargoBuilder) getCargoPath(config *BuildConfig) string {
	if config.CargoPath != "" {
		return config.CargoPath
	}
	if b.Path != "" {
		return b.Path
	}
	if cargoPath := os.Getenv("CARGO"); cargoPath != "" {
		return cargoPath
	}
	return "cargo"
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
