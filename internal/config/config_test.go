package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/contriboss/rustbind"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, path, err := Load(context.Background(), LoadOptions{ProjectDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != "" {
		t.Errorf("expected no config file, got %q", path)
	}
	if !cfg.Universal {
		t.Error("universal should default to true")
	}
	if len(cfg.Targets) != 0 {
		t.Errorf("expected no targets, got %d", len(cfg.Targets))
	}
	if cfg.PackageDir != dir {
		t.Errorf("PackageDir = %q, want %q", cfg.PackageDir, dir)
	}
	if cfg.ScriptDir != filepath.Join(dir, ".rustbind") {
		t.Errorf("ScriptDir = %q", cfg.ScriptDir)
	}
}

func TestLoad_FromCUE(t *testing.T) {
	dir := t.TempDir()
	want := writeConfig(t, dir, `
targets: [
	{module: "example._native", crate: "rust"},
	{module: "example.other", crate: "/abs/crate"},
]
universal: false
debug_header: true
cargo: "/opt/cargo/bin/cargo"
jobs: 4
`)

	cfg, path, err := Load(context.Background(), LoadOptions{ProjectDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if cfg.Universal {
		t.Error("universal should be false")
	}
	if !cfg.DebugHeader {
		t.Error("debug_header should be true")
	}
	if cfg.Cargo != "/opt/cargo/bin/cargo" {
		t.Errorf("Cargo = %q", cfg.Cargo)
	}
	if cfg.Jobs != 4 {
		t.Errorf("Jobs = %d, want 4", cfg.Jobs)
	}
	if len(cfg.Targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(cfg.Targets))
	}
	if cfg.Targets[0].Module != "example._native" {
		t.Errorf("targets keep declaration order, got %q first", cfg.Targets[0].Module)
	}
	if cfg.Targets[0].Crate != filepath.Join(dir, "rust") {
		t.Errorf("relative crate not resolved: %q", cfg.Targets[0].Crate)
	}
	if cfg.Targets[1].Crate != "/abs/crate" {
		t.Errorf("absolute crate changed: %q", cfg.Targets[1].Crate)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "conf")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	path := writeConfig(t, sub, `targets: [{module: "pkg.mod", crate: "crate"}]`)

	cfg, got, err := Load(context.Background(), LoadOptions{ConfigFilePath: path, ProjectDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if cfg.Targets[0].Crate != filepath.Join(sub, "crate") {
		t.Errorf("crate should resolve against the config file's directory, got %q", cfg.Targets[0].Crate)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, _, err := Load(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown field", `colour: "red"`},
		{"empty module", `targets: [{module: "", crate: "rust"}]`},
		{"missing crate", `targets: [{module: "pkg.mod"}]`},
		{"wrong type", `universal: "yes"`},
		{"negative jobs", `jobs: -1`},
		{"syntax error", `targets: [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, _, err := Load(context.Background(), LoadOptions{ProjectDir: dir})
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), "invalid config") {
				t.Errorf("error should name the config, got %v", err)
			}
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `universal: true`)
	t.Setenv("RUSTBIND_UNIVERSAL", "false")
	t.Setenv("RUSTBIND_DEBUG_HEADER", "true")

	cfg, _, err := Load(context.Background(), LoadOptions{ProjectDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Universal {
		t.Error("RUSTBIND_UNIVERSAL should override the file")
	}
	if !cfg.DebugHeader {
		t.Error("RUSTBIND_DEBUG_HEADER should enable header echo")
	}
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := Load(ctx, LoadOptions{ProjectDir: t.TempDir()}); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := DefaultConfig()
	src.Targets = []rustbind.Target{{Module: "example._native", Crate: "rust"}}
	src.Jobs = 2
	src.CargoArgs = []string{"--locked"}
	src.CargoEnv = []string{"RUSTFLAGS=-C debuginfo=0"}
	writeConfig(t, dir, GenerateCUE(src))

	cfg, _, err := Load(context.Background(), LoadOptions{ProjectDir: dir})
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].Module != "example._native" {
		t.Errorf("targets = %+v", cfg.Targets)
	}
	if cfg.Jobs != 2 {
		t.Errorf("Jobs = %d", cfg.Jobs)
	}
	if len(cfg.CargoArgs) != 1 || cfg.CargoArgs[0] != "--locked" {
		t.Errorf("CargoArgs = %v", cfg.CargoArgs)
	}
	if cfg.CargoEnvMap()["RUSTFLAGS"] != "-C debuginfo=0" {
		t.Errorf("CargoEnv = %v", cfg.CargoEnv)
	}
}

func TestLoad_CargoSettings(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
cargo_args: ["--features", "simd"]
cargo_env: ["RUSTFLAGS=-C target-cpu=native", "Mixed_Case=a=b"]
`)

	cfg, _, err := Load(context.Background(), LoadOptions{ProjectDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.CargoArgs) != 2 || cfg.CargoArgs[1] != "simd" {
		t.Errorf("CargoArgs = %v", cfg.CargoArgs)
	}

	env := cfg.CargoEnvMap()
	if env["RUSTFLAGS"] != "-C target-cpu=native" {
		t.Errorf("RUSTFLAGS = %q", env["RUSTFLAGS"])
	}
	if env["Mixed_Case"] != "a=b" {
		t.Errorf("variable names must keep their case and split on the first '=', got %v", env)
	}
}

func TestLoad_InvalidCargoEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `cargo_env: ["RUSTFLAGS"]`)

	_, _, err := Load(context.Background(), LoadOptions{ProjectDir: dir})
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCargoEnvMap_Empty(t *testing.T) {
	if env := DefaultConfig().CargoEnvMap(); env != nil {
		t.Errorf("expected nil map, got %v", env)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")
	targets := []rustbind.Target{{Module: "example._native", Crate: "rust"}}

	path, err := CreateDefaultConfig(dir, targets, false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if path != filepath.Join(dir, "rustbind.cue") {
		t.Errorf("path = %q", path)
	}

	cfg, loaded, err := Load(context.Background(), LoadOptions{ProjectDir: dir})
	if err != nil {
		t.Fatalf("created config does not load: %v", err)
	}
	if loaded != path {
		t.Errorf("loaded %q, want %q", loaded, path)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].Crate != filepath.Join(dir, "rust") {
		t.Errorf("targets = %+v", cfg.Targets)
	}
	if !cfg.Universal {
		t.Error("universal should keep its default")
	}

	if _, err := CreateDefaultConfig(dir, nil, false); err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("expected already-exists error, got %v", err)
	}
	if _, err := CreateDefaultConfig(dir, nil, true); err != nil {
		t.Fatalf("forced CreateDefaultConfig() error = %v", err)
	}
	cfg, _, err = Load(context.Background(), LoadOptions{ProjectDir: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Targets) != 0 {
		t.Errorf("force should replace the file, still have %+v", cfg.Targets)
	}
}
