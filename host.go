package rustbind

import "context"

// Step names a host packaging step a hook can attach to.
type Step string

// Host steps after which native modules are built.
const (
	StepBuildPy  Step = "build_py"
	StepBuildExt Step = "build_ext"
)

// StepContext describes the host step that just completed.
type StepContext struct {
	Step Step

	// BuildLib is the root the build_py step wrote packages into.
	BuildLib string

	// Inplace is set when extensions are built into the source tree.
	Inplace bool

	// PackageDir maps a dotted package path to its source directory. It is
	// required when Inplace is set.
	PackageDir func(pkg string) string
}

// PostStepHook runs after a host step has completed successfully.
type PostStepHook func(ctx context.Context, sc StepContext) error

// Extension is a binary extension the host should compile.
type Extension struct {
	Name    string   `json:"name"`
	Sources []string `json:"sources"`
}

// Host is the packaging system a native target is registered with.
//
// The host owns the packaging steps. It must run every hook registered for a
// step, in registration order, after that step completes, and abort the
// packaging command on the first hook error.
type Host interface {
	// AddExtension reserves a binary extension slot.
	AddExtension(ext Extension)

	// AddBindingModule records a "path:name" binding-generation reference
	// for the host's binding tool.
	AddBindingModule(ref string)

	// AfterStep registers hook to run once step has completed.
	AfterStep(step Step, hook PostStepHook)
}
