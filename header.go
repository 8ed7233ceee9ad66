package rustbind

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"unicode"
)

// HeaderExtractor produces a raw C header for a crate's public surface.
//
// Implementations must not write files. The returned text is Raw: it may
// still contain preprocessor directives and must go through Sanitize before
// it is handed to the binding generator.
type HeaderExtractor interface {
	GenerateHeader(ctx context.Context, cratePath string) (string, error)
}

// CbindgenExtractor runs the cbindgen binary as a subprocess.
type CbindgenExtractor struct {
	// Path to the cbindgen executable. Empty means $CBINDGEN, then "cbindgen".
	Path string
}

// Name returns the extractor name.
func (e *CbindgenExtractor) Name() string {
	return "cbindgen"
}

// GenerateHeader runs `cbindgen --lang c <cratePath>` and returns its stdout.
//
// When cbindgen fails, the returned KindExtraction BuildError carries the
// message the tool wrote to stderr, verbatim apart from surrounding
// whitespace. The child is always waited on so its pipes are released
// whether or not it succeeded.
func (e *CbindgenExtractor) GenerateHeader(ctx context.Context, cratePath string) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd := execCommandContext(ctx, e.binary(), "--lang", "c", cratePath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(strings.ToValidUTF8(stderr.String(), "�"))
		if msg == "" {
			msg = toolFailureMessage(e.Name(), nil, err)
		}
		return "", &BuildError{Kind: KindExtraction, Message: msg, Err: err, Code: exitCode(err)}
	}

	return strings.ToValidUTF8(stdout.String(), "�"), nil
}

func (e *CbindgenExtractor) binary() string {
	if e.Path != "" {
		return e.Path
	}
	if p := os.Getenv("CBINDGEN"); p != "" {
		return p
	}
	return "cbindgen"
}

// RequiredTools implements ToolChecker.
func (e *CbindgenExtractor) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{Name: e.binary(), Purpose: "C header generation from Rust crates"},
	}
}

// CheckTools implements ToolChecker.
func (e *CbindgenExtractor) CheckTools() error {
	return CheckRequiredTools(e.RequiredTools())
}

// Sanitize removes every line whose first non-whitespace character is '#'.
//
// Removed lines take their line terminator with them; all other lines are
// kept byte for byte, in order. Sanitize is total and idempotent.
func Sanitize(header string) string {
	if !strings.Contains(header, "#") {
		return header
	}

	var sb strings.Builder
	sb.Grow(len(header))

	for _, line := range strings.SplitAfter(header, "\n") {
		if strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), "#") {
			continue
		}
		sb.WriteString(line)
	}

	return sb.String()
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 0
}
