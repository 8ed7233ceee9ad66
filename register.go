package rustbind

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Target is one declared native module: an importable module path and the
// crate that implements it.
type Target struct {
	Module string `mapstructure:"module" json:"module"`
	Crate  string `mapstructure:"crate" json:"crate"`
}

// RegisterOptions controls how targets are attached to a Host.
type RegisterOptions struct {
	// Factory selects the native builder; nil means NewBuilderFactory().
	Factory *BuilderFactory

	// Build is the template configuration for native builds. OutputDir is
	// filled in per step.
	Build BuildConfig

	// Tool is the executable the generated build scripts call back into.
	Tool string

	// ScriptDir receives build scripts and the placeholder C source. Empty
	// means temporary files removed at exit.
	ScriptDir string

	ExtensionSuffix string

	Logger *log.Logger
}

func (o *RegisterOptions) logger() *log.Logger {
	if o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

func (o *RegisterOptions) factory() *BuilderFactory {
	if o.Factory == nil {
		return NewBuilderFactory()
	}
	return o.Factory
}

// Register validates target and attaches it to host:
//
//  1. a placeholder extension named FakeModulePath, compiled from an empty C
//     source, so the host allocates a binary-extension slot;
//  2. a binding-generation script, recorded as a "path:ffi" reference;
//  3. a build_py hook that builds the library and loader into the step's
//     build directory;
//  4. a build_ext hook that does the same into the source tree, for in-place
//     builds only.
//
// Configuration errors are returned before anything is registered.
func Register(host Host, target Target, opts RegisterOptions) (*ModuleDef, error) {
	def, err := MakeModuleDef(target.Module, target.Crate, WithExtensionSuffix(opts.ExtensionSuffix))
	if err != nil {
		return nil, err
	}

	stub, err := emptySource(opts.ScriptDir)
	if err != nil {
		return nil, err
	}

	script, err := def.WriteBuildScript(opts.ScriptDir, opts.Tool, opts.logger())
	if err != nil {
		return nil, err
	}

	host.AddExtension(Extension{Name: def.FakeModulePath, Sources: []string{stub}})
	host.AddBindingModule(BindingReference(script))

	factory := opts.factory()
	buildInto := func(ctx context.Context, outDir string) error {
		config := opts.Build
		config.OutputDir = outDir
		_, err := factory.BuildModule(ctx, &config, def, opts.logger())
		return err
	}

	host.AfterStep(StepBuildPy, func(ctx context.Context, sc StepContext) error {
		return buildInto(ctx, def.PackageDir(sc.BuildLib))
	})
	host.AfterStep(StepBuildExt, func(ctx context.Context, sc StepContext) error {
		if !sc.Inplace {
			return nil
		}
		if sc.PackageDir == nil {
			return &BuildError{
				Kind:    KindConfiguration,
				Target:  def.ModulePath,
				Message: "in-place build_ext requires StepContext.PackageDir",
			}
		}
		return buildInto(ctx, sc.PackageDir(def.BasePath))
	})

	return def, nil
}

// RegisterAll registers every target in declaration order and stops at the
// first invalid one.
func RegisterAll(host Host, targets []Target, opts RegisterOptions) ([]*ModuleDef, error) {
	defs := make([]*ModuleDef, 0, len(targets))
	for i, target := range targets {
		def, err := Register(host, target, opts)
		if err != nil {
			return nil, fmt.Errorf("target %d (%s): %w", i, target.Module, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

const emptySourceName = "rustbind_empty.c"

// emptySource writes the placeholder C source the fake extension compiles.
func emptySource(dir string) (string, error) {
	temporary := dir == ""
	name := emptySourceName
	if temporary {
		dir = scriptDir()
		name = fmt.Sprintf("rustbind_empty_%d.c", os.Getpid())
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create script directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if fileExists(path) {
		return path, nil
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		return "", fmt.Errorf("write placeholder source: %w", err)
	}
	if temporary {
		AtExit(func() {
			_ = os.Remove(path)
		})
	}
	return path, nil
}
