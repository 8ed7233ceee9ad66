package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/viper"

	"github.com/contriboss/rustbind"
)

const (
	// AppName is the application name and environment variable prefix.
	AppName = "rustbind"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "rustbind"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"

	// maxConfigSize bounds how much of a config file is handed to CUE.
	maxConfigSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// ProjectDir is where rustbind.cue is looked up and relative paths are
	// resolved. Empty means the working directory.
	ProjectDir string
}

// Load resolves the configuration: defaults, then the CUE file, then
// RUSTBIND_* environment variables. It returns the config and the path of
// the file it read ("" when only defaults applied).
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	projectDir := opts.ProjectDir
	if projectDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get working directory: %w", err)
		}
		projectDir = wd
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("targets", []any{})
	v.SetDefault("universal", defaults.Universal)
	v.SetDefault("debug_header", defaults.DebugHeader)
	v.SetDefault("write_header_cache", defaults.WriteHeaderCache)
	v.SetDefault("cbindgen", defaults.Cbindgen)
	v.SetDefault("cargo", defaults.Cargo)
	v.SetDefault("extension_suffix", defaults.ExtensionSuffix)
	v.SetDefault("package_dir", defaults.PackageDir)
	v.SetDefault("script_dir", defaults.ScriptDir)
	v.SetDefault("jobs", defaults.Jobs)
	v.SetDefault("cargo_args", []string{})
	v.SetDefault("cargo_env", []string{})
	v.SetDefault("verbose", defaults.Verbose)

	v.SetEnvPrefix(AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath := ""
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", fmt.Errorf("config file not found: %s", opts.ConfigFilePath)
		}
		resolvedPath = opts.ConfigFilePath
		projectDir = filepath.Dir(opts.ConfigFilePath)
	} else if candidate := filepath.Join(projectDir, ConfigFileName+"."+ConfigFileExt); fileExists(candidate) {
		resolvedPath = candidate
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	absProject, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve project directory: %w", err)
	}
	for i, target := range cfg.Targets {
		if target.Crate != "" && !filepath.IsAbs(target.Crate) {
			cfg.Targets[i].Crate = filepath.Join(absProject, target.Crate)
		}
	}
	cfg.PackageDir = resolveDir(absProject, cfg.PackageDir)
	if cfg.ScriptDir != "" {
		cfg.ScriptDir = resolveDir(absProject, cfg.ScriptDir)
	}

	return &cfg, resolvedPath, nil
}

func resolveDir(base, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(base, dir)
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigSize {
		return fmt.Errorf("config file %s is larger than %d bytes", path, maxConfigSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return formatCUEError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

func formatCUEError(err error, path string) error {
	return fmt.Errorf("invalid config %s:\n%s", path, strings.TrimSpace(cueerrors.Details(err, nil)))
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default rustbind.cue declaring targets into
// dir and returns its path. An existing file is only replaced when force is set.
func CreateDefaultConfig(dir string, targets []rustbind.Target, force bool) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create project directory: %w", err)
	}

	cfgPath := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return cfgPath, fmt.Errorf("file '%s' already exists. Use --force to overwrite", cfgPath)
	}

	cfg := DefaultConfig()
	cfg.Targets = targets
	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return cfgPath, nil
}

// GenerateCUE renders cfg as a rustbind.cue file.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// rustbind configuration\n\n")

	sb.WriteString("targets: [\n")
	for _, target := range cfg.Targets {
		sb.WriteString(fmt.Sprintf("\t{module: %q, crate: %q},\n", target.Module, target.Crate))
	}
	sb.WriteString("]\n\n")

	sb.WriteString(fmt.Sprintf("universal: %v\n", cfg.Universal))
	sb.WriteString(fmt.Sprintf("debug_header: %v\n", cfg.DebugHeader))
	sb.WriteString(fmt.Sprintf("write_header_cache: %v\n", cfg.WriteHeaderCache))
	if cfg.Cbindgen != "" {
		sb.WriteString(fmt.Sprintf("cbindgen: %q\n", cfg.Cbindgen))
	}
	if cfg.Cargo != "" {
		sb.WriteString(fmt.Sprintf("cargo: %q\n", cfg.Cargo))
	}
	if cfg.ExtensionSuffix != "" {
		sb.WriteString(fmt.Sprintf("extension_suffix: %q\n", cfg.ExtensionSuffix))
	}
	sb.WriteString(fmt.Sprintf("package_dir: %q\n", cfg.PackageDir))
	sb.WriteString(fmt.Sprintf("script_dir: %q\n", cfg.ScriptDir))
	if cfg.Jobs > 0 {
		sb.WriteString(fmt.Sprintf("jobs: %d\n", cfg.Jobs))
	}
	if len(cfg.CargoArgs) > 0 {
		sb.WriteString(fmt.Sprintf("cargo_args: %s\n", cueStringList(cfg.CargoArgs)))
	}
	if len(cfg.CargoEnv) > 0 {
		sb.WriteString(fmt.Sprintf("cargo_env: %s\n", cueStringList(cfg.CargoEnv)))
	}

	return sb.String()
}

func cueStringList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
