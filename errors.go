package rustbind

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a BuildError.
type ErrorKind int

// Error kinds, one per failure class of the pipeline.
const (
	// KindConfiguration covers malformed target declarations and missing or
	// invalid crate manifests. Raised before any subprocess runs.
	KindConfiguration ErrorKind = iota + 1
	// KindExtraction is a header tool failure.
	KindExtraction
	// KindCompilation is a non-zero exit of the native compiler.
	KindCompilation
	// KindArtifact means the compiled library could not be found.
	KindArtifact
)

// String returns a human-readable name for the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindExtraction:
		return "extraction"
	case KindCompilation:
		return "compilation"
	case KindArtifact:
		return "artifact"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against a BuildError's kind.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrExtraction    = errors.New("extraction error")
	ErrCompilation   = errors.New("compilation error")
	ErrArtifact      = errors.New("artifact error")
)

// BuildError is the failure type returned by every stage of the pipeline.
//
// Use errors.As to inspect it, or errors.Is with one of the kind sentinels:
//
//	def, err := rustbind.MakeModuleDef("flatname", "./rust")
//	if errors.Is(err, rustbind.ErrConfiguration) {
//	    // bad target declaration
//	}
type BuildError struct {
	Kind    ErrorKind
	Target  string // module path the failure belongs to, if known
	Message string
	// Code is the exit status of the failed subprocess (compilation only).
	Code int
	Err  error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Kind == KindCompilation && e.Message == "" {
		return fmt.Sprintf("native build exited with status %d", e.Code)
	}
	if e.Target != "" {
		return fmt.Sprintf("%s: %s", e.Target, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *BuildError) Is(target error) bool {
	switch target {
	case ErrConfiguration:
		return e.Kind == KindConfiguration
	case ErrExtraction:
		return e.Kind == KindExtraction
	case ErrCompilation:
		return e.Kind == KindCompilation
	case ErrArtifact:
		return e.Kind == KindArtifact
	}
	return false
}

// ExitCode returns the process exit code a command should terminate with.
// Compilation errors propagate the compiler's own status; everything else is 1.
func (e *BuildError) ExitCode() int {
	if e.Kind == KindCompilation && e.Code != 0 {
		return e.Code
	}
	return 1
}

func configError(format string, args ...any) *BuildError {
	return &BuildError{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

func artifactError(target, format string, args ...any) *BuildError {
	return &BuildError{Kind: KindArtifact, Target: target, Message: fmt.Sprintf(format, args...)}
}
