package rustbind

import (
	"strconv"
	"text/template"
)

// pyString renders s as a Python string literal. Go's quoting rules produce
// escapes Python accepts (\n, \t, \xNN, \uNNNN, \UNNNNNNNN).
func pyString(s string) string {
	return strconv.Quote(s)
}

var templateFuncs = template.FuncMap{"py": pyString}

// buildScriptTemplate is the binding-generation script cffi loads through a
// "path:ffi" reference. It asks the rustbind header command for the
// sanitized header and binds the resulting FFI builder to `ffi`.
var buildScriptTemplate = template.Must(template.New("build.py").Funcs(templateFuncs).Parse(`# auto-generated file
import subprocess

import cffi

header = subprocess.check_output([
    {{ py .Tool }}, "header",
    "--module", {{ py .FFIModulePath }},
    "--crate", {{ py .CratePath }},
    "--cache", {{ py .CachedHeaderPath }},
]).decode("utf-8")

ffi = cffi.FFI()
ffi.cdef(header)
ffi.set_source({{ py .FFIModulePath }}, None)
`))

// loaderModuleTemplate is the module application code imports.
var loaderModuleTemplate = template.Must(template.New("module.py").Funcs(templateFuncs).Parse(`# auto-generated file
import os
from {{ .FFIModulePath }} import ffi
lib = ffi.dlopen(os.path.join(
    os.path.dirname(__file__),
    {{ py .LibFilename }}))

__all__ = ['lib', 'ffi']
`))

type buildScriptData struct {
	Tool             string
	FFIModulePath    string
	CratePath        string
	CachedHeaderPath string
}
