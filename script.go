package rustbind

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// BindingScriptName is the variable the generated script binds the FFI
// builder to; cffi resolves it from a "<script>:ffi" reference.
const BindingScriptName = "ffi"

// scriptDir is where generated binding scripts are written.
var scriptDir = os.TempDir

// RenderBuildScript returns the binding-generation script for d. tool is the
// rustbind executable the script calls back into for the header.
func (d *ModuleDef) RenderBuildScript(tool string) (string, error) {
	var buf bytes.Buffer
	err := buildScriptTemplate.Execute(&buf, buildScriptData{
		Tool:             tool,
		FFIModulePath:    d.FFIModulePath,
		CratePath:        d.CratePath,
		CachedHeaderPath: d.CachedHeaderPath,
	})
	if err != nil {
		return "", fmt.Errorf("render build script for %s: %w", d.ModulePath, err)
	}
	return buf.String(), nil
}

// BuildScriptPath writes the binding-generation script to a fresh temporary
// file and returns its path. The file is removed by RunExitHooks; removal
// errors are ignored.
func (d *ModuleDef) BuildScriptPath(tool string, logger *log.Logger) (string, error) {
	return d.WriteBuildScript("", tool, logger)
}

// WriteBuildScript writes the binding-generation script into dir. An empty
// dir means a uniquely named file in the system temporary directory,
// scheduled for removal at exit. In a caller-chosen directory the file is
// named after the ffi module and left for the caller.
func (d *ModuleDef) WriteBuildScript(dir, tool string, logger *log.Logger) (string, error) {
	if logger == nil {
		logger = log.Default()
	}
	logger.Info("generating cffi build script", "module", d.ModulePath)

	script, err := d.RenderBuildScript(tool)
	if err != nil {
		return "", err
	}

	temporary := dir == ""
	name := fmt.Sprintf("build_%s.py", strings.ReplaceAll(d.FFIModulePath, ".", "_"))
	if temporary {
		dir = scriptDir()
		name = fmt.Sprintf("._rustbind-%s.py", uuid.NewString())
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create script directory %s: %w", dir, err)
	}

	fn := filepath.Join(dir, name)
	if err := os.WriteFile(fn, []byte(script), 0o600); err != nil {
		return "", fmt.Errorf("write build script for %s: %w", d.ModulePath, err)
	}

	if temporary {
		AtExit(func() {
			_ = os.Remove(fn)
		})
	}

	return fn, nil
}

// BindingReference formats the "path:name" reference a binding tool uses to
// load the FFI builder from scriptPath.
func BindingReference(scriptPath string) string {
	return scriptPath + ":" + BindingScriptName
}
