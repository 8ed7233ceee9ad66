package rustbind

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ModuleDef describes one native binding target and every name derived from it.
//
// A ModuleDef is built by MakeModuleDef and is immutable afterwards. All
// derived fields are pure functions of ModulePath, CratePath and the extension
// suffix, so two ModuleDefs built from the same inputs are identical.
//
// For the target "example._native" backed by ./rust:
//
//	BasePath         example
//	Name             _native
//	FFIModulePath    example._native__ffi
//	FakeModulePath   example._native__lib
//	LibFilename      _native__lib.so
//	CachedHeaderPath /abs/rust/header.h
type ModuleDef struct {
	ModulePath string // fully-qualified importable module path
	CratePath  string // absolute path to the crate directory

	BasePath         string // package the loader module is written into
	Name             string // short name; the loader is <Name>.py
	FFIModulePath    string // generated cffi submodule
	LibFilename      string // compiled library filename inside BasePath
	FakeModulePath   string // placeholder extension that reserves a binary slot
	CachedHeaderPath string
	ManifestPath     string
}

// ModuleOption customizes name derivation in MakeModuleDef.
type ModuleOption func(*moduleOptions)

type moduleOptions struct {
	extSuffix string
}

// WithExtensionSuffix overrides the binary extension suffix used for
// LibFilename (for example ".cpython-312-x86_64-linux-gnu.so").
func WithExtensionSuffix(suffix string) ModuleOption {
	return func(o *moduleOptions) {
		if suffix != "" {
			o.extSuffix = suffix
		}
	}
}

// MakeModuleDef validates a (module path, crate path) pair and derives all
// dependent names.
//
// It fails with a KindConfiguration BuildError when the module path is not
// inside a package, when the crate has no Cargo.toml, or when the manifest's
// first crate-type line does not declare a cdylib. No subprocess is run.
func MakeModuleDef(modulePath, cratePath string, opts ...ModuleOption) (*ModuleDef, error) {
	o := moduleOptions{extSuffix: hostExtensionSuffix()}
	for _, opt := range opts {
		opt(&o)
	}

	if !strings.Contains(modulePath, ".") {
		return nil, configError("can only build native modules inside a package (got %q)", modulePath)
	}

	def, err := newModuleDef(modulePath, cratePath, o.extSuffix)
	if err != nil {
		return nil, err
	}

	if info, statErr := os.Stat(def.ManifestPath); statErr != nil || info.IsDir() {
		return nil, configError("module %s does not have a %s file", def.Name, ManifestFilename)
	}

	if err := checkCrateType(def.ManifestPath); err != nil {
		var be *BuildError
		if errors.As(err, &be) {
			be.Target = modulePath
		}
		return nil, err
	}

	return def, nil
}

func newModuleDef(modulePath, cratePath, extSuffix string) (*ModuleDef, error) {
	absCrate, err := filepath.Abs(cratePath)
	if err != nil {
		return nil, configError("cannot resolve crate path %q: %v", cratePath, err)
	}

	parts := rsplit(modulePath, ".", 2)
	if len(parts) < 2 || parts[0] == "" || parts[len(parts)-1] == "" {
		return nil, configError("invalid module path %q", modulePath)
	}

	genbase := fmt.Sprintf("%s._%s", parts[0], strings.TrimLeft(parts[1], "_"))
	genbaseParts := strings.Split(genbase, ".")

	return &ModuleDef{
		ModulePath:       modulePath,
		CratePath:        absCrate,
		BasePath:         parts[0],
		Name:             parts[len(parts)-1],
		FFIModulePath:    genbase + "__ffi",
		LibFilename:      genbaseParts[len(genbaseParts)-1] + "__lib" + extSuffix,
		FakeModulePath:   genbase + "__lib",
		CachedHeaderPath: filepath.Join(absCrate, HeaderCacheFilename),
		ManifestPath:     filepath.Join(absCrate, ManifestFilename),
	}, nil
}

// rsplit splits s on sep from the right, producing at most n+1 pieces.
func rsplit(s, sep string, n int) []string {
	var tail []string
	for i := 0; i < n; i++ {
		idx := strings.LastIndex(s, sep)
		if idx < 0 {
			break
		}
		tail = append([]string{s[idx+len(sep):]}, tail...)
		s = s[:idx]
	}
	return append([]string{s}, tail...)
}

// PackageDir returns the directory of BasePath below root.
func (d *ModuleDef) PackageDir(root string) string {
	return filepath.Join(append([]string{root}, strings.Split(d.BasePath, ".")...)...)
}
