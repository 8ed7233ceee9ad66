package rustbind

import "runtime"

// Platform constants
const (
	platformWindows = "windows"
	platformDarwin  = "darwin"
)

// ArtifactSuffix returns the file suffix Cargo gives cdylib outputs on goos.
func ArtifactSuffix(goos string) string {
	switch goos {
	case platformDarwin:
		return ".dylib"
	case platformWindows:
		return ".dll"
	default:
		return ".so"
	}
}

// ExtensionSuffix returns the default suffix for binary extension modules on
// goos. The host interpreter usually reports a more specific ABI-tagged
// suffix; pass that through WithExtensionSuffix when it is known.
func ExtensionSuffix(goos string) string {
	if goos == platformWindows {
		return ".pyd"
	}
	return ".so"
}

func hostExtensionSuffix() string {
	return ExtensionSuffix(runtime.GOOS)
}
