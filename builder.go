package rustbind

import "context"

// Builder compiles the native crate behind a ModuleDef into a dynamic library.
//
// Each builder handles one toolchain and is selected by the crate's manifest
// filename through a BuilderFactory.
//
// # Builder Lifecycle
//
//  1. CanBuild() - Factory calls this to find the right builder for a manifest
//  2. Build() - Compiles the crate and installs the library into config.OutputDir
//  3. Clean() - Optional cleanup of build artifacts
//
// # Example Implementation
//
//	type MyBuilder struct{}
//
//	func (b *MyBuilder) Name() string { return "Zig" }
//
//	func (b *MyBuilder) CanBuild(manifestFile string) bool {
//	    return manifestFile == "build.zig"
//	}
//
//	func (b *MyBuilder) Build(ctx context.Context, config *BuildConfig, def *ModuleDef) (*BuildResult, error) {
//	    // compile, then:
//	    installed, err := InstallArtifact(artifact, config.OutputDir, def)
//	    ...
//	}
//
// Builder implementations should be stateless.
type Builder interface {
	// Name returns the human-readable name of this builder.
	//
	// This name is used in error messages and logs.
	Name() string

	// CanBuild reports whether this builder understands the manifest file
	// (a base filename such as "Cargo.toml").
	CanBuild(manifestFile string) bool

	// Build compiles the crate in optimized mode and copies the resulting
	// library to config.OutputDir under def.LibFilename.
	//
	// Returns:
	//   - BuildResult with Success=true, Artifact and Installed set on success
	//   - BuildResult with Success=false and Error on failure
	//
	// A toolchain exit failure is reported as a KindCompilation BuildError
	// carrying the exit code; a missing library as KindArtifact.
	Build(ctx context.Context, config *BuildConfig, def *ModuleDef) (*BuildResult, error)

	// Clean removes build artifacts.
	//
	// Returns nil if cleaning is not supported or completes successfully.
	Clean(ctx context.Context, config *BuildConfig, def *ModuleDef) error
}
