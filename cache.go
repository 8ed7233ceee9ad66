package rustbind

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// HeaderSource records where a BindingDescriptor's header came from.
type HeaderSource string

const (
	SourceCache     HeaderSource = "cache"
	SourceExtractor HeaderSource = "extractor"
)

// BindingDescriptor pairs a generated ffi module path with the sanitized
// header text the binding generator should parse for it.
type BindingDescriptor struct {
	ModulePath string
	CratePath  string
	Header     string
	Source     HeaderSource
}

// HeaderCache resolves sanitized headers, preferring an on-disk cache over
// running the extractor.
//
// The cache is trusted purely by presence: if the cached file exists it is
// used as-is, however old it is. Delete it (see RemoveHeaderCache) when the
// crate's public surface changes.
type HeaderCache struct {
	Extractor HeaderExtractor

	// Debug echoes the module path and final header to Diagnostics.
	Debug       bool
	Diagnostics io.Writer

	// WriteThrough persists freshly extracted headers to the cache path.
	WriteThrough bool

	Logger *log.Logger
}

// NewHeaderCache returns a HeaderCache backed by cbindgen.
func NewHeaderCache(logger *log.Logger) *HeaderCache {
	if logger == nil {
		logger = log.Default()
	}
	return &HeaderCache{
		Extractor:   &CbindgenExtractor{},
		Diagnostics: os.Stderr,
		Logger:      logger,
	}
}

// MakeFFI produces the BindingDescriptor for modulePath.
//
// If cachedHeaderFilename names an existing file, its contents are used and
// the extractor is never invoked. Otherwise the extractor runs exactly once
// against cratePath and its output is sanitized. MakeFFI never runs the
// binding generator itself.
func (c *HeaderCache) MakeFFI(ctx context.Context, modulePath, cratePath, cachedHeaderFilename string) (*BindingDescriptor, error) {
	desc := &BindingDescriptor{ModulePath: modulePath, CratePath: cratePath}

	if cachedHeaderFilename != "" && fileExists(cachedHeaderFilename) {
		data, err := os.ReadFile(cachedHeaderFilename)
		if err != nil {
			return nil, fmt.Errorf("read cached header %s: %w", cachedHeaderFilename, err)
		}
		desc.Header = string(data)
		desc.Source = SourceCache
		c.logger().Debug("using cached header", "module", modulePath, "path", cachedHeaderFilename)
	} else {
		if c.Extractor == nil {
			return nil, &BuildError{Kind: KindExtraction, Target: modulePath, Message: "no header extractor configured"}
		}
		raw, err := c.Extractor.GenerateHeader(ctx, cratePath)
		if err != nil {
			var be *BuildError
			if errors.As(err, &be) && be.Target == "" {
				be.Target = modulePath
			}
			return nil, err
		}
		desc.Header = Sanitize(raw)
		desc.Source = SourceExtractor

		if c.WriteThrough && cachedHeaderFilename != "" {
			if err := writeHeaderCache(cachedHeaderFilename, desc.Header); err != nil {
				return nil, err
			}
			c.logger().Info("cached header", "module", modulePath, "path", cachedHeaderFilename)
		}
	}

	if c.Debug {
		w := c.Diagnostics
		if w == nil {
			w = os.Stderr
		}
		fmt.Fprintf(w, "%s\n%s\n", modulePath, desc.Header)
	}

	return desc, nil
}

func (c *HeaderCache) logger() *log.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}

func writeHeaderCache(path, header string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create header cache directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(header), 0o644); err != nil {
		return fmt.Errorf("write header cache %s: %w", path, err)
	}
	return nil
}

// RemoveHeaderCache deletes the cached header of def. A missing cache is not
// an error.
func RemoveHeaderCache(def *ModuleDef) error {
	if err := os.Remove(def.CachedHeaderPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove header cache %s: %w", def.CachedHeaderPath, err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
