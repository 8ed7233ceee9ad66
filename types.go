package rustbind

import "io"

// BuildResult contains the output and status of a native library build.
//
// After a build completes, this structure provides:
//   - Success status indicating if the build completed without errors
//   - Output notes collected while building (command lines, copies)
//   - Artifact, the library the toolchain produced
//   - Installed, where that library was copied under its derived filename
//   - Loader, the loader module written next to it (set by the pipeline)
type BuildResult struct {
	Success   bool     // True if build completed successfully
	Output    []string // Notes from the build process
	Artifact  string   // Path to the compiled library in the toolchain's output directory
	Installed string   // Path of the copied library in the output directory
	Loader    string   // Path of the generated loader module
	Error     error    // Error if build failed, nil otherwise
}

// BuildConfig contains configuration for compiling one native target.
//
// Paths:
//   - OutputDir: directory that receives the library and its loader module
//
// Toolchain:
//   - CargoPath: cargo executable; empty means $CARGO, then "cargo"
//   - Target: target triple; empty means $CARGO_BUILD_TARGET
//   - BuildArgs: extra arguments appended to `cargo build`
//   - Env: extra environment variables for the toolchain
//
// Behavior:
//   - Verbose: record command lines in BuildResult.Output
//   - CleanFirst: run `cargo clean` before building
//   - Parallel: number of parallel jobs (0 = toolchain default)
type BuildConfig struct {
	OutputDir string

	CargoPath string
	Target    string
	BuildArgs []string
	Env       map[string]string

	Verbose    bool
	CleanFirst bool
	Parallel   int

	// Stdout and Stderr receive the toolchain's output; nil means the
	// process's own streams.
	Stdout io.Writer
	Stderr io.Writer
}
