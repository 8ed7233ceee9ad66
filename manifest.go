package rustbind

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	// ManifestFilename is the crate manifest every native target must have.
	ManifestFilename = "Cargo.toml"

	// HeaderCacheFilename is the cached, sanitized header kept next to the manifest.
	HeaderCacheFilename = "header.h"

	dynamicLibraryKind = "cdylib"
)

var crateTypeRe = regexp.MustCompile(`^\s*crate-type\s*=\s*(.*?)\s*$`)

// checkCrateType scans the manifest line by line and validates the first
// crate-type declaration it finds. The manifest is not parsed as TOML here:
// only the first matching line counts, wherever it appears.
func checkCrateType(manifestPath string) error {
	f, err := os.Open(manifestPath)
	if err != nil {
		return configError("cannot read %s: %v", manifestPath, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		match := crateTypeRe.FindStringSubmatch(scanner.Text())
		if match == nil {
			continue
		}
		if !strings.Contains(match[1], dynamicLibraryKind) {
			return configError("crate-type needs to be set to %s but is set to %s", dynamicLibraryKind, match[1])
		}
		return nil
	}
	if err := scanner.Err(); err != nil {
		return configError("cannot read %s: %v", manifestPath, err)
	}

	return configError("crate-type needs to be set to %s but is missing", dynamicLibraryKind)
}

// crateManifest holds the few Cargo.toml fields used to predict artifact names.
type crateManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Lib struct {
		Name string `toml:"name"`
	} `toml:"lib"`
}

// crateLibName returns the library name Cargo will use for the crate's
// artifact: [lib] name if set, else [package] name with dashes replaced.
// It returns "" when the manifest cannot be decoded.
func crateLibName(cratePath string) string {
	data, err := os.ReadFile(filepath.Join(cratePath, ManifestFilename))
	if err != nil {
		return ""
	}

	var m crateManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return ""
	}

	if m.Lib.Name != "" {
		return m.Lib.Name
	}
	return strings.ReplaceAll(m.Package.Name, "-", "_")
}

// expectedArtifactName is the filename Cargo produces for a cdylib named
// libName on goos.
func expectedArtifactName(libName, goos string) string {
	if libName == "" {
		return ""
	}
	if goos == platformWindows {
		return fmt.Sprintf("%s%s", libName, ArtifactSuffix(goos))
	}
	return fmt.Sprintf("lib%s%s", libName, ArtifactSuffix(goos))
}
