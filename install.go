package rustbind

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// findArtifact picks the compiled library out of Cargo's release directory.
//
// Candidates are the regular files ending in the platform's library suffix,
// in lexical order. When the manifest names the library, the file Cargo
// produces for that name wins. Otherwise a single candidate is taken as-is;
// several candidates are an error rather than a guess, since leftovers from
// other crates sharing the target directory are common.
func findArtifact(releaseDir, libName, goos string) (string, error) {
	suffix := ArtifactSuffix(goos)

	entries, err := os.ReadDir(releaseDir)
	if err != nil {
		return "", &BuildError{
			Kind:    KindArtifact,
			Message: fmt.Sprintf("native library did not generate a shared library (%s unreadable)", releaseDir),
			Err:     err,
		}
	}

	var candidates []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !MatchesExtension(entry.Name(), suffix) {
			continue
		}
		candidates = append(candidates, entry.Name())
	}

	if expected := expectedArtifactName(libName, goos); expected != "" {
		for _, name := range candidates {
			if name == expected {
				return filepath.Join(releaseDir, name), nil
			}
		}
	}

	switch len(candidates) {
	case 0:
		return "", artifactError("", "native library did not generate a shared library")
	case 1:
		return filepath.Join(releaseDir, candidates[0]), nil
	default:
		return "", artifactError("", "found %d shared libraries in %s (%s); cannot tell which one belongs to this crate",
			len(candidates), releaseDir, strings.Join(candidates, ", "))
	}
}

// InstallArtifact copies the compiled library src to outDir under
// def.LibFilename, keeping its permission bits and modification time.
func InstallArtifact(src, outDir string, def *ModuleDef) (string, error) {
	dest := filepath.Join(outDir, def.LibFilename)
	if err := copyFile(src, dest); err != nil {
		return "", fmt.Errorf("copy %s to %s: %w", src, dest, err)
	}
	return dest, nil
}

func copyFile(srcPath, destPath string) error {
	info, err := os.Stat(srcPath)
	if err != nil {
		return err
	}

	dir := filepath.Dir(destPath)
	if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
		return mkErr
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	if err := out.Close(); err != nil {
		return err
	}

	// O_CREATE's mode is filtered by the umask and ignored for existing files.
	if err := os.Chmod(destPath, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(destPath, info.ModTime(), info.ModTime())
}
