package rustbind

import (
	"fmt"
	"strings"
)

// ToolChecker is an optional interface for builders that require external tools.
//
// Builders and header extractors implement this interface to declare the
// external binaries they run, so a missing tool is reported before any build
// starts instead of halfway through one.
//
// # Example Implementation
//
//	func (b *CargoBuilder) RequiredTools() []ToolRequirement {
//	    return []ToolRequirement{
//	        {Name: "cargo", Purpose: "Rust compiler and package manager"},
//	    }
//	}
//
//	func (b *CargoBuilder) CheckTools() error {
//	    return CheckRequiredTools(b.RequiredTools())
//	}
//
// # Consumer Usage
//
// Check tools before building:
//
//	if checker, ok := builder.(ToolChecker); ok {
//	    if err := checker.CheckTools(); err != nil {
//	        return fmt.Errorf("build tools missing: %w", err)
//	    }
//	}
type ToolChecker interface {
	// RequiredTools returns the list of tools this builder needs.
	//
	// Returns a slice of ToolRequirement describing each required tool,
	// including optional tools and alternatives.
	RequiredTools() []ToolRequirement

	// CheckTools verifies that all required tools are available.
	//
	// Returns nil if all required tools are found, or an error describing
	// which tools are missing. Optional tools don't cause errors if missing.
	//
	// This method can be called before Build() to fail fast if tools
	// are unavailable, providing better error messages to users.
	CheckTools() error
}

// ToolRequirement describes a build tool dependency.
//
// A requirement can be optional, or satisfied by any of several
// alternative binaries:
//
//	ToolRequirement{
//	    Name: "cbindgen",
//	    Purpose: "C header generation from Rust crates",
//	}
type ToolRequirement struct {
	// Name is the primary tool binary name (e.g., "cargo", "cbindgen").
	Name string

	// Alternatives are alternative tool names that can satisfy this requirement.
	// If any tool in Alternatives is found, the requirement is satisfied.
	Alternatives []string

	// Optional indicates this tool is optional and won't cause an error if missing.
	// Optional tools are still checked and logged, but don't fail the build.
	Optional bool

	// Purpose is a human-readable description of why this tool is needed.
	Purpose string
}

// CheckToolAvailable checks if a tool is available in the system PATH.
//
// Returns nil if the tool is found, or an error naming it if not.
// Absolute paths are checked directly, as exec.LookPath does.
func CheckToolAvailable(tool string) error {
	_, err := execLookPath(tool)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", tool)
	}
	return nil
}

// CheckRequiredTools verifies all required tools are available.
//
// This helper function checks a list of ToolRequirements and returns
// a detailed error if any required tools are missing.
//
// # Behavior
//
//   - Checks the primary tool name first
//   - If not found, tries each alternative tool in order
//   - Optional tools are checked but don't cause errors
//   - Returns all missing required tools in a single error
//
// # Error Format
//
// Single missing tool:
//
//	cbindgen (C header generation from Rust crates) not found in PATH
//
// Multiple missing tools:
//
//	missing required tools: cargo (Rust compiler and package manager), cbindgen (C header generation from Rust crates)
func CheckRequiredTools(requirements []ToolRequirement) error {
	var missingTools []string

	for _, req := range requirements {
		// Try the primary tool
		found := CheckToolAvailable(req.Name) == nil

		// If not found, try alternatives
		if !found && len(req.Alternatives) > 0 {
			for _, alt := range req.Alternatives {
				if CheckToolAvailable(alt) == nil {
					found = true
					break
				}
			}
		}

		// If still not found and not optional, record it
		if !found && !req.Optional {
			if req.Purpose != "" {
				missingTools = append(missingTools, fmt.Sprintf("%s (%s)", req.Name, req.Purpose))
			} else {
				missingTools = append(missingTools, req.Name)
			}
		}
	}

	if len(missingTools) == 0 {
		return nil
	}

	if len(missingTools) == 1 {
		return fmt.Errorf("%s not found in PATH", missingTools[0])
	}

	return fmt.Errorf("missing required tools: %s", strings.Join(missingTools, ", "))
}
