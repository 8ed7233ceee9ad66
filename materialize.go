package rustbind

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// LoaderModuleSource renders the loader module for d.
func LoaderModuleSource(d *ModuleDef) (string, error) {
	var buf bytes.Buffer
	if err := loaderModuleTemplate.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render loader module for %s: %w", d.ModulePath, err)
	}
	return buf.String(), nil
}

// WriteLoaderModule writes <outDir>/<Name>.py, the module application code
// imports. It opens LibFilename next to itself and exports `lib` and `ffi`.
func WriteLoaderModule(outDir string, d *ModuleDef) (string, error) {
	src, err := LoaderModuleSource(d)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", outDir, err)
	}

	path := filepath.Join(outDir, d.Name+".py")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		return "", fmt.Errorf("write loader module %s: %w", path, err)
	}
	return path, nil
}
