package rustbind

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestProject(t *testing.T) (root, crate string) {
	t.Helper()
	root = t.TempDir()
	crate = filepath.Join(root, "rust")
	if err := os.MkdirAll(crate, 0o755); err != nil {
		t.Fatalf("failed to create crate: %v", err)
	}
	if err := os.WriteFile(filepath.Join(crate, ManifestFilename), []byte(cdylibManifest), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return root, crate
}

func TestRegisterAddsExtensionAndBindingModule(t *testing.T) {
	root, crate := newTestProject(t)
	dist := NewDistribution(root)
	scripts := filepath.Join(root, ".rustbind")

	def, err := Register(dist, Target{Module: "example._native", Crate: crate}, RegisterOptions{
		Factory:   &BuilderFactory{},
		Tool:      "rustbind",
		ScriptDir: scripts,
		Logger:    quietLogger(),
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if len(dist.Extensions) != 1 {
		t.Fatalf("expected one placeholder extension, got %d", len(dist.Extensions))
	}
	ext := dist.Extensions[0]
	if ext.Name != def.FakeModulePath {
		t.Errorf("extension name = %q, expected %q", ext.Name, def.FakeModulePath)
	}
	if len(ext.Sources) != 1 || !fileExists(ext.Sources[0]) {
		t.Errorf("expected an existing placeholder source, got %v", ext.Sources)
	}
	if data, _ := os.ReadFile(ext.Sources[0]); len(data) != 0 {
		t.Errorf("placeholder source must be empty, got %q", data)
	}

	if len(dist.BindingModules) != 1 {
		t.Fatalf("expected one binding module, got %d", len(dist.BindingModules))
	}
	ref := dist.BindingModules[0]
	if !strings.HasSuffix(ref, ":ffi") {
		t.Errorf("expected path:ffi reference, got %q", ref)
	}
	if script := strings.TrimSuffix(ref, ":ffi"); !fileExists(script) {
		t.Errorf("expected build script at %s", script)
	}
}

func TestRegisterRejectsInvalidTargetBeforeRegistering(t *testing.T) {
	root, crate := newTestProject(t)
	dist := NewDistribution(root)

	_, err := RegisterAll(dist, []Target{
		{Module: "example._native", Crate: crate},
		{Module: "flatname", Crate: crate},
	}, RegisterOptions{Factory: &BuilderFactory{}, ScriptDir: t.TempDir(), Logger: quietLogger()})

	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "target 1 (flatname)") {
		t.Errorf("expected failing target to be named, got %q", err.Error())
	}
	if len(dist.Extensions) != 1 {
		t.Errorf("invalid target must not be registered, got %d extensions", len(dist.Extensions))
	}
}

func TestBuildPyStepMaterializesPackage(t *testing.T) {
	root, crate := newTestProject(t)
	dist := NewDistribution(root)
	stub := &stubBuilder{}
	factory := &BuilderFactory{}
	factory.Register(stub)

	def, err := Register(dist, Target{Module: "example._native", Crate: crate}, RegisterOptions{
		Factory:         factory,
		Tool:            "rustbind",
		ScriptDir:       t.TempDir(),
		ExtensionSuffix: ".so",
		Logger:          quietLogger(),
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	buildLib := filepath.Join(root, "build", "lib")
	if err := dist.RunStep(context.Background(), StepContext{Step: StepBuildPy, BuildLib: buildLib}); err != nil {
		t.Fatalf("RunStep(build_py) returned error: %v", err)
	}

	pkgDir := filepath.Join(buildLib, "example")
	for _, name := range []string{"_native.py", "_native__lib.so"} {
		if !fileExists(filepath.Join(pkgDir, name)) {
			t.Errorf("expected %s in %s", name, pkgDir)
		}
	}

	entries, err := os.ReadDir(pkgDir)
	if err != nil {
		t.Fatalf("failed to read package dir: %v", err)
	}
	var loaders int
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".py") {
			loaders++
		}
	}
	if loaders != 1 {
		t.Errorf("expected exactly one loader module, got %d", loaders)
	}

	// A non-inplace build_ext does nothing.
	if err := dist.RunStep(context.Background(), StepContext{Step: StepBuildExt}); err != nil {
		t.Fatalf("RunStep(build_ext) returned error: %v", err)
	}
	if stub.builds != 1 {
		t.Errorf("expected one build, got %d", stub.builds)
	}
	if fileExists(filepath.Join(root, "example", def.Name+".py")) {
		t.Error("non-inplace build_ext must not write into the source tree")
	}
}

func TestBuildExtInplaceWritesSourceTree(t *testing.T) {
	root, crate := newTestProject(t)
	dist := NewDistribution(root)
	dist.PackageDirs[""] = "src"
	stub := &stubBuilder{}
	factory := &BuilderFactory{}
	factory.Register(stub)

	if _, err := Register(dist, Target{Module: "example._native", Crate: crate}, RegisterOptions{
		Factory:   factory,
		ScriptDir: t.TempDir(),
		Logger:    quietLogger(),
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if err := dist.RunStep(context.Background(), StepContext{Step: StepBuildExt, Inplace: true}); err != nil {
		t.Fatalf("RunStep returned error: %v", err)
	}

	want := filepath.Join(root, "src", "example")
	if len(stub.outDirs) != 1 || stub.outDirs[0] != want {
		t.Errorf("expected build into %s, got %v", want, stub.outDirs)
	}
	if !fileExists(filepath.Join(want, "_native.py")) {
		t.Error("expected loader module in the source tree")
	}
}

// hookHost records hooks without supplying a PackageDir resolver.
type hookHost struct {
	hooks map[Step][]PostStepHook
}

func (h *hookHost) AddExtension(Extension)  {}
func (h *hookHost) AddBindingModule(string) {}

func (h *hookHost) AfterStep(step Step, hook PostStepHook) {
	if h.hooks == nil {
		h.hooks = map[Step][]PostStepHook{}
	}
	h.hooks[step] = append(h.hooks[step], hook)
}

func TestBuildExtInplaceWithoutPackageDir(t *testing.T) {
	_, crate := newTestProject(t)
	host := &hookHost{}
	stub := &stubBuilder{}
	factory := &BuilderFactory{}
	factory.Register(stub)

	if _, err := Register(host, Target{Module: "example._native", Crate: crate}, RegisterOptions{
		Factory:   factory,
		ScriptDir: t.TempDir(),
		Logger:    quietLogger(),
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	hooks := host.hooks[StepBuildExt]
	if len(hooks) != 1 {
		t.Fatalf("expected one build_ext hook, got %d", len(hooks))
	}
	err := hooks[0](context.Background(), StepContext{Step: StepBuildExt, Inplace: true})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if stub.builds != 0 {
		t.Errorf("expected no build, got %d", stub.builds)
	}
}

func TestRunStepStopsAtFirstError(t *testing.T) {
	root, crate := newTestProject(t)
	dist := NewDistribution(root)
	stub := &stubBuilder{err: &BuildError{Kind: KindCompilation, Code: 101}}
	factory := &BuilderFactory{}
	factory.Register(stub)

	targets := []Target{
		{Module: "example._first", Crate: crate},
		{Module: "example._second", Crate: crate},
	}
	if _, err := RegisterAll(dist, targets, RegisterOptions{Factory: factory, ScriptDir: t.TempDir(), Logger: quietLogger()}); err != nil {
		t.Fatalf("RegisterAll returned error: %v", err)
	}

	err := dist.RunStep(context.Background(), StepContext{Step: StepBuildPy, BuildLib: t.TempDir()})
	var be *BuildError
	if !errors.As(err, &be) || be.ExitCode() != 101 {
		t.Fatalf("expected compilation error with status 101, got %v", err)
	}
	if stub.builds != 1 {
		t.Errorf("expected the second target not to build, got %d builds", stub.builds)
	}
}

func TestRunStepCanceled(t *testing.T) {
	dist := NewDistribution(t.TempDir())
	ran := false
	dist.AfterStep(StepBuildPy, func(context.Context, StepContext) error {
		ran = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := dist.RunStep(ctx, StepContext{Step: StepBuildPy}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ran {
		t.Error("hook must not run after cancellation")
	}
}

func TestDistributionPackageDir(t *testing.T) {
	dist := NewDistribution("/proj")

	if got := dist.PackageDir("a.b"); got != filepath.Join("/proj", "a", "b") {
		t.Errorf("default PackageDir = %q", got)
	}

	dist.PackageDirs[""] = "src"
	dist.PackageDirs["a.b"] = "lib/ab"

	testCases := map[string]string{
		"a":     filepath.Join("/proj", "src", "a"),
		"a.b":   filepath.Join("/proj", "lib", "ab"),
		"a.b.c": filepath.Join("/proj", "lib", "ab", "c"),
		"a.bc":  filepath.Join("/proj", "src", "a", "bc"),
	}
	for pkg, want := range testCases {
		if got := dist.PackageDir(pkg); got != want {
			t.Errorf("PackageDir(%q) = %q, expected %q", pkg, got, want)
		}
	}
}

func TestEmptySourceTemporary(t *testing.T) {
	tmp := t.TempDir()
	orig := scriptDir
	scriptDir = func() string { return tmp }
	t.Cleanup(func() { scriptDir = orig })

	path, err := emptySource("")
	if err != nil {
		t.Fatalf("emptySource returned error: %v", err)
	}
	if filepath.Dir(path) != tmp {
		t.Errorf("expected placeholder in %s, got %s", tmp, path)
	}

	RunExitHooks()
	if fileExists(path) {
		t.Error("expected temporary placeholder to be removed at exit")
	}
}
