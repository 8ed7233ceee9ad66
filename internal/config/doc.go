// Package config loads rustbind's packaging configuration using Viper with
// CUE as the file format.
//
// Configuration is read from rustbind.cue in the project directory (or the
// file given with --config), validated against an embedded CUE schema
// (config_schema.cue), merged over defaults and finally overridden by
// RUSTBIND_* environment variables. It is resolved once per command.
package config
