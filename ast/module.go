package ast

import (
	"path/filepath"
	"strings"
)

// Module is the root of a parsed source file.
type Module struct {
	// Name is the canonical namespace path, e.g. "pkg::sub::mod".
	Name string
	// Path is the source file the tree was parsed from.
	Path string
	Body []Stmt
	// Attributes is reserved for future extension. The decoder copies any
	// unrecognised top-level string fields here.
	Attributes map[string]string
}

func (*Module) Kind() string { return "Module" }
func (*Module) Pos() Span    { return Span{} }

// NewModule builds a module for path, deriving its canonical name.
func NewModule(path string, body []Stmt) *Module {
	return &Module{
		Name:       ModuleName(path),
		Path:       path,
		Body:       body,
		Attributes: map[string]string{},
	}
}

// Docstring returns the module docstring: the first statement when it is a
// bare string literal.
func (m *Module) Docstring() (string, bool) { return docstring(m.Body) }

// ModuleNamespaceSeparator joins path components of a module name.
const ModuleNamespaceSeparator = "::"

// ModuleName derives the canonical module name from a source path:
// the extension is dropped, path separators become "::", and a trailing
// __init__ component names its package.
//
//	"calculator.py"       -> "calculator"
//	"pkg/sub/mod.py"      -> "pkg::sub::mod"
//	"pkg/__init__.py"     -> "pkg"
func ModuleName(path string) string {
	if path == "" {
		return "__main__"
	}
	p := filepath.ToSlash(strings.ReplaceAll(path, `\`, "/"))
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimSuffix(p, filepath.Ext(p))

	var parts []string
	for _, part := range strings.Split(p, "/") {
		if part == "" || part == "." {
			continue
		}
		parts = append(parts, part)
	}
	if len(parts) > 1 && parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return "__main__"
	}
	return strings.Join(parts, ModuleNamespaceSeparator)
}
