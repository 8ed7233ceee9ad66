// Package rustbind builds Rust crates into Python packages through cffi.
//
// A native target is declared as a pair: the importable module path
// ("example._native") and the directory of a Rust crate compiled as a cdylib.
// For every target the package
//
//   - validates the declaration and derives all generated names (ModuleDef),
//   - produces the C header cffi parses, from cbindgen or a cached header.h
//     next to Cargo.toml (HeaderCache.MakeFFI, Sanitize),
//   - emits a binding-generation script cffi loads by "path:ffi" reference,
//   - compiles the crate with Cargo and copies the library into the package,
//   - writes a loader module exposing exactly `lib` and `ffi`.
//
// # Basic Usage
//
// Register targets with a Host, then let the host's steps trigger the builds:
//
//	dist := rustbind.NewDistribution(projectRoot)
//	defs, err := rustbind.RegisterAll(dist, []rustbind.Target{
//	    {Module: "example._native", Crate: "rust"},
//	}, rustbind.RegisterOptions{Tool: self})
//	if err != nil {
//	    return err
//	}
//
//	err = dist.RunStep(ctx, rustbind.StepContext{
//	    Step:     rustbind.StepBuildPy,
//	    BuildLib: "build/lib",
//	})
//
// Application code then imports the loader:
//
//	from example._native import lib, ffi
//
// # Generated Names
//
// For "example._native" the pipeline generates example/_native.py (the
// loader), example/_native__lib.so (the copied library), the cffi module
// example._native__ffi and the placeholder extension example._native__lib.
//
// # Errors
//
// Every failure is a *BuildError. Configuration errors are reported before
// any subprocess runs; a failed Cargo build carries Cargo's exit status,
// which commands propagate as their own.
//
// # Platform Support
//
// Linux, macOS and Windows. Cargo artifacts are looked up by the host
// platform's dynamic-library suffix.
package rustbind
