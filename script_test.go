package rustbind

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderBuildScript(t *testing.T) {
	crate := writeCrate(t, cdylibManifest)
	def, err := MakeModuleDef("example._native", crate)
	if err != nil {
		t.Fatalf("MakeModuleDef returned error: %v", err)
	}

	script, err := def.RenderBuildScript("/usr/local/bin/rustbind")
	if err != nil {
		t.Fatalf("RenderBuildScript returned error: %v", err)
	}

	for _, want := range []string{
		`"/usr/local/bin/rustbind", "header",`,
		`"--module", "example._native__ffi",`,
		`"--crate", ` + pyString(def.CratePath),
		`"--cache", ` + pyString(def.CachedHeaderPath),
		"ffi = cffi.FFI()",
		"ffi.cdef(header)",
		`ffi.set_source("example._native__ffi", None)`,
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}
}

func TestBuildScriptPathIsTemporary(t *testing.T) {
	tmp := t.TempDir()
	orig := scriptDir
	scriptDir = func() string { return tmp }
	t.Cleanup(func() { scriptDir = orig })

	crate := writeCrate(t, cdylibManifest)
	def, err := MakeModuleDef("example._native", crate)
	if err != nil {
		t.Fatalf("MakeModuleDef returned error: %v", err)
	}

	first, err := def.BuildScriptPath("rustbind", quietLogger())
	if err != nil {
		t.Fatalf("BuildScriptPath returned error: %v", err)
	}
	second, err := def.BuildScriptPath("rustbind", quietLogger())
	if err != nil {
		t.Fatalf("BuildScriptPath returned error: %v", err)
	}

	if first == second {
		t.Error("expected a fresh file per call")
	}
	for _, path := range []string{first, second} {
		if filepath.Dir(path) != tmp {
			t.Errorf("expected script in %s, got %s", tmp, path)
		}
		if !strings.HasPrefix(filepath.Base(path), "._rustbind-") || !strings.HasSuffix(path, ".py") {
			t.Errorf("unexpected script name %s", path)
		}
		if !fileExists(path) {
			t.Errorf("expected %s to exist before exit", path)
		}
	}

	RunExitHooks()

	for _, path := range []string{first, second} {
		if fileExists(path) {
			t.Errorf("expected %s to be removed by exit hooks", path)
		}
	}
}

func TestWriteBuildScriptPersistentDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scripts")
	crate := writeCrate(t, cdylibManifest)
	def, err := MakeModuleDef("example._native", crate)
	if err != nil {
		t.Fatalf("MakeModuleDef returned error: %v", err)
	}

	path, err := def.WriteBuildScript(dir, "rustbind", quietLogger())
	if err != nil {
		t.Fatalf("WriteBuildScript returned error: %v", err)
	}

	if path != filepath.Join(dir, "build_example__native__ffi.py") {
		t.Errorf("unexpected script path %s", path)
	}

	RunExitHooks()
	if !fileExists(path) {
		t.Error("scripts in a caller-chosen directory must survive exit hooks")
	}
}

func TestBindingReference(t *testing.T) {
	if got := BindingReference("/tmp/x.py"); got != "/tmp/x.py:ffi" {
		t.Errorf("BindingReference = %q", got)
	}
}

func TestRunExitHooksOrderAndPanics(t *testing.T) {
	var order []int
	AtExit(func() { order = append(order, 1) })
	AtExit(func() { panic("ignored") })
	AtExit(func() { order = append(order, 3) })

	RunExitHooks()

	if len(order) != 2 || order[0] != 3 || order[1] != 1 {
		t.Errorf("expected hooks to run most recent first despite a panic, got %v", order)
	}

	// Hooks run once.
	RunExitHooks()
	if len(order) != 2 {
		t.Errorf("expected hooks to be cleared, got %v", order)
	}
}

func TestLoaderModuleSource(t *testing.T) {
	crate := writeCrate(t, cdylibManifest)
	def, err := MakeModuleDef("example._native", crate, WithExtensionSuffix(".so"))
	if err != nil {
		t.Fatalf("MakeModuleDef returned error: %v", err)
	}

	expected := `# auto-generated file
import os
from example._native__ffi import ffi
lib = ffi.dlopen(os.path.join(
    os.path.dirname(__file__),
    "_native__lib.so"))

__all__ = ['lib', 'ffi']
`
	src, err := LoaderModuleSource(def)
	if err != nil {
		t.Fatalf("LoaderModuleSource returned error: %v", err)
	}
	if src != expected {
		t.Errorf("loader module mismatch.\nExpected:\n%s\nGot:\n%s", expected, src)
	}

	outDir := filepath.Join(t.TempDir(), "example")
	path, err := WriteLoaderModule(outDir, def)
	if err != nil {
		t.Fatalf("WriteLoaderModule returned error: %v", err)
	}
	if path != filepath.Join(outDir, "_native.py") {
		t.Errorf("unexpected loader path %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read loader: %v", err)
	}
	if string(data) != expected {
		t.Errorf("written loader differs from rendered source")
	}
}
