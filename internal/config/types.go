package config

import (
	"strings"

	"github.com/contriboss/rustbind"
)

// Config is the resolved packaging configuration.
type Config struct {
	// Targets are the declared (module, crate) pairs, in declaration order.
	// Relative crate paths are resolved against the project directory.
	Targets []rustbind.Target `mapstructure:"targets"`

	// Universal forces a py2.py3-none-<platform> wheel tag. Defaults to true.
	Universal bool `mapstructure:"universal"`

	// DebugHeader echoes each generated header to stderr.
	DebugHeader bool `mapstructure:"debug_header"`

	// WriteHeaderCache persists extracted headers to <crate>/header.h.
	WriteHeaderCache bool `mapstructure:"write_header_cache"`

	Cbindgen string `mapstructure:"cbindgen"`
	Cargo    string `mapstructure:"cargo"`

	// ExtensionSuffix overrides the platform's binary extension suffix.
	ExtensionSuffix string `mapstructure:"extension_suffix"`

	// PackageDir is the source root of the Python packages, relative to the
	// project directory.
	PackageDir string `mapstructure:"package_dir"`

	// ScriptDir keeps generated build scripts for an out-of-process host.
	ScriptDir string `mapstructure:"script_dir"`

	Jobs int `mapstructure:"jobs"`

	// CargoArgs are appended to `cargo build --release`.
	CargoArgs []string `mapstructure:"cargo_args"`

	// CargoEnv holds KEY=VALUE pairs added to cargo's environment.
	CargoEnv []string `mapstructure:"cargo_env"`

	Verbose bool `mapstructure:"verbose"`
}

// CargoEnvMap returns CargoEnv as a map. Later entries win.
func (c *Config) CargoEnvMap() map[string]string {
	if len(c.CargoEnv) == 0 {
		return nil
	}
	env := make(map[string]string, len(c.CargoEnv))
	for _, kv := range c.CargoEnv {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Universal:  true,
		PackageDir: ".",
		ScriptDir:  ".rustbind",
	}
}
