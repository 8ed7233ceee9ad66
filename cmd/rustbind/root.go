package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/contriboss/rustbind"
	"github.com/contriboss/rustbind/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
)

// app holds the state shared by every subcommand of one invocation.
type app struct {
	cfgFile    string
	projectDir string
	verbose    bool

	cfg    *config.Config
	logger *log.Logger

	stdout io.Writer
	stderr io.Writer
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "rustbind",
		Short: "Build Rust crates into Python packages through cffi",
		Long: TitleStyle.Render("rustbind") + SubtitleStyle.Render(" - Rust cdylibs as cffi modules") + `

rustbind compiles each declared crate with Cargo, extracts its C header
with cbindgen and generates a loader module exposing lib and ffi.

Targets are declared in rustbind.cue:

  targets: [{module: "example._native", crate: "rust"}]

` + SubtitleStyle.Render("Examples:") + `
  rustbind init --module example._native --crate rust
                                     Write a starter rustbind.cue
  rustbind plan                      Register targets and print the build plan
  rustbind build --inplace           Build libraries into the source tree
  rustbind build --build-lib build   Build libraries into a build directory
  rustbind doctor                    Check that cargo and cbindgen are installed`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}

	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./rustbind.cue)")
	root.PersistentFlags().StringVarP(&a.projectDir, "project", "C", "", "project directory (default is the working directory)")

	root.AddCommand(
		newInitCmd(a),
		newPlanCmd(a),
		newHeaderCmd(a),
		newBuildCmd(a),
		newCleanCmd(a),
		newDoctorCmd(a),
		newWheelTagCmd(a),
	)

	return root
}

// setup loads the configuration and sets up logging. It runs once before any
// subcommand.
func (a *app) setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, path, err := config.Load(ctx, config.LoadOptions{
		ConfigFilePath: a.cfgFile,
		ProjectDir:     a.projectDir,
	})
	if err != nil {
		return &rustbind.BuildError{Kind: rustbind.KindConfiguration, Message: err.Error(), Err: err}
	}
	a.cfg = cfg

	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Prefix: "rustbind",
	})
	if a.verbose || cfg.Verbose {
		a.logger.SetLevel(log.DebugLevel)
	}
	if path != "" {
		a.logger.Debug("loaded config", "path", path)
	}

	return nil
}

// tool is the executable generated build scripts call back into.
func (a *app) tool() string {
	exe, err := os.Executable()
	if err != nil {
		return "rustbind"
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		return resolved
	}
	return exe
}

// buildConfig is the native build template derived from the config.
func (a *app) buildConfig() rustbind.BuildConfig {
	return rustbind.BuildConfig{
		CargoPath: a.cfg.Cargo,
		BuildArgs: a.cfg.CargoArgs,
		Env:       a.cfg.CargoEnvMap(),
		Parallel:  a.cfg.Jobs,
		Verbose:   a.verbose || a.cfg.Verbose,
		Stdout:    a.stderr,
		Stderr:    a.stderr,
	}
}

func (a *app) headerCache() *rustbind.HeaderCache {
	cache := rustbind.NewHeaderCache(a.logger)
	cache.Extractor = &rustbind.CbindgenExtractor{Path: a.cfg.Cbindgen}
	cache.Debug = a.cfg.DebugHeader
	cache.Diagnostics = a.stderr
	cache.WriteThrough = a.cfg.WriteHeaderCache
	return cache
}

// register attaches every configured target to a fresh Distribution rooted
// at the package directory.
func (a *app) register(factory *rustbind.BuilderFactory, build rustbind.BuildConfig) (*rustbind.Distribution, []*rustbind.ModuleDef, error) {
	if len(a.cfg.Targets) == 0 {
		return nil, nil, &rustbind.BuildError{
			Kind:    rustbind.KindConfiguration,
			Message: "no targets configured; add a targets list to rustbind.cue",
		}
	}

	dist := rustbind.NewDistribution(a.cfg.PackageDir)
	defs, err := rustbind.RegisterAll(dist, a.cfg.Targets, rustbind.RegisterOptions{
		Factory:         factory,
		Build:           build,
		Tool:            a.tool(),
		ScriptDir:       a.cfg.ScriptDir,
		ExtensionSuffix: a.cfg.ExtensionSuffix,
		Logger:          a.logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return dist, defs, nil
}

// execute runs the CLI and returns the process exit code.
func execute(args []string) int {
	a := newApp(os.Stdout, os.Stderr)
	root := newRootCmd(a)
	root.SetArgs(args)

	err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	return exitCodeFor(err)
}
