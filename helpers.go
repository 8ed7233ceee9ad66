package rustbind

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Indirections over os/exec so tests can substitute helper processes.
var (
	execLookPath       = exec.LookPath
	execCommandContext = exec.CommandContext
)

// MatchesPattern checks if a filename matches any of the given regex patterns.
//
// Builders use it to decide whether they understand a crate manifest:
//
//	if MatchesPattern(filename, `Cargo\.toml$`) {
//	    // Handle a Rust crate
//	}
//
// Invalid patterns are silently skipped.
func MatchesPattern(filename string, patterns ...string) bool {
	for _, pattern := range patterns {
		if matched, _ := regexp.MatchString(pattern, filename); matched {
			return true
		}
	}
	return false
}

// MatchesExtension checks if a filename has any of the given extensions.
//
// This is a case-insensitive suffix check, used to pick compiled libraries
// (.so, .dylib, .dll) out of a build output directory. Extensions may be
// given with or without the leading dot.
func MatchesExtension(filename string, extensions ...string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(strings.ToLower(filename), strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// toolFailureMessage formats a subprocess failure with whatever output the
// tool produced.
//
// With error and output:
//
//	cbindgen failed: exit status 1
//
//	Tool output:
//	error: failed to parse manifest
//
// With error but no output:
//
//	cbindgen failed: exit status 1
func toolFailureMessage(tool string, output []string, err error) string {
	outputStr := strings.TrimSpace(strings.Join(output, "\n"))

	var prefix string
	if err != nil {
		prefix = fmt.Sprintf("%s failed: %v", tool, err)
	} else {
		prefix = fmt.Sprintf("%s failed", tool)
	}

	if outputStr != "" {
		return fmt.Sprintf("%s\n\nTool output:\n%s", prefix, outputStr)
	}

	return prefix
}
