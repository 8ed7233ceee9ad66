package rustbind

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Distribution is an in-process Host. It collects what targets register and
// runs post-step hooks when a driver reports a step as completed.
type Distribution struct {
	// Root is the project directory package paths are resolved against.
	Root string

	// PackageDirs maps dotted package prefixes to directories relative to
	// Root, like setuptools' package_dir. The "" key applies to every package.
	PackageDirs map[string]string

	Extensions     []Extension
	BindingModules []string

	hooks map[Step][]PostStepHook
}

// NewDistribution creates an empty Distribution rooted at root.
func NewDistribution(root string) *Distribution {
	return &Distribution{
		Root:        root,
		PackageDirs: map[string]string{},
		hooks:       map[Step][]PostStepHook{},
	}
}

// AddExtension implements Host.
func (d *Distribution) AddExtension(ext Extension) {
	d.Extensions = append(d.Extensions, ext)
}

// AddBindingModule implements Host.
func (d *Distribution) AddBindingModule(ref string) {
	d.BindingModules = append(d.BindingModules, ref)
}

// AfterStep implements Host.
func (d *Distribution) AfterStep(step Step, hook PostStepHook) {
	if d.hooks == nil {
		d.hooks = map[Step][]PostStepHook{}
	}
	d.hooks[step] = append(d.hooks[step], hook)
}

// RunStep reports step as completed and runs its hooks in registration
// order, stopping at the first error.
func (d *Distribution) RunStep(ctx context.Context, sc StepContext) error {
	if sc.PackageDir == nil {
		sc.PackageDir = d.PackageDir
	}
	for _, hook := range d.hooks[sc.Step] {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s canceled: %w", sc.Step, err)
		}
		if err := hook(ctx, sc); err != nil {
			return err
		}
	}
	return nil
}

// PackageDir resolves the source directory of a dotted package, using the
// longest matching PackageDirs prefix.
func (d *Distribution) PackageDir(pkg string) string {
	prefixes := make([]string, 0, len(d.PackageDirs))
	for prefix := range d.PackageDirs {
		prefixes = append(prefixes, prefix)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	for _, prefix := range prefixes {
		var rest string
		switch {
		case prefix == "":
			rest = pkg
		case pkg == prefix:
			rest = ""
		case strings.HasPrefix(pkg, prefix+"."):
			rest = strings.TrimPrefix(pkg, prefix+".")
		default:
			continue
		}
		parts := []string{d.Root, filepath.FromSlash(d.PackageDirs[prefix])}
		if rest != "" {
			parts = append(parts, strings.Split(rest, ".")...)
		}
		return filepath.Join(parts...)
	}

	return filepath.Join(append([]string{d.Root}, strings.Split(pkg, ".")...)...)
}
