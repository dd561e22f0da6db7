package codegen

import (
	"strings"

	"github.com/teranos/pyrust/ast"
	"github.com/teranos/pyrust/errors"
)

// StdlibModules are Python standard library modules whose imports produce no
// Rust `use`; the runtime shim provides what the translated code needs.
var StdlibModules = []string{
	"__future__", "os", "sys", "subprocess", "json", "urllib", "xml",
	"asyncio", "os.path", "re", "math", "time", "typing", "collections",
	"itertools", "functools", "dataclasses", "abc", "enum", "pathlib",
	"logging",
}

// elided reports whether imports of module are dropped. A module matches a
// listed name exactly or as one of its submodules.
func (e env) elided(module string) bool {
	return IsElided(module, e.opts.ElideModules)
}

// IsElided reports whether module is a standard library module or listed in
// extra.
func IsElided(module string, extra []string) bool {
	if module == "" {
		return false
	}
	for _, list := range [][]string{StdlibModules, extra} {
		for _, m := range list {
			if module == m || strings.HasPrefix(module, m+".") {
				return true
			}
		}
	}
	return false
}

// namespace returns the path absolute imports are rooted at, with its
// trailing separator, or "" when no namespace prefix is configured.
func (e env) namespace() string {
	prefix := strings.TrimSuffix(strings.TrimSpace(e.opts.NamespacePrefix), "::")
	if prefix == "" {
		return ""
	}
	return prefix + "::"
}

func (e env) importStmt(s *ast.Import) Lines {
	var out Lines
	for _, a := range s.Names {
		if e.elided(a.Name) {
			continue
		}
		line := "use " + e.namespace() + RustPath(a.Name)
		if a.AsName != nil {
			line += " as " + RustIdent(*a.AsName)
		}
		out = append(out, line+";")
	}
	return out
}

// importFrom renders `from m import n`. A relative import may climb at most
// to the top-level package of the module being translated.
func (e env) importFrom(s *ast.ImportFrom) (Lines, error) {
	if s.Level == 0 && e.elided(s.Module) {
		return nil, nil
	}
	var prefix string
	if s.Level > 0 {
		module := e.ctx.ModuleName()
		if s.Level > strings.Count(module, "::") {
			return nil, errors.NewLookupAt(strings.Repeat(".", s.Level)+s.Module, e.loc(s), module)
		}
		prefix = strings.Repeat("super::", s.Level)
	} else {
		prefix = e.namespace()
	}
	if s.Module != "" {
		prefix += RustPath(s.Module) + "::"
	}
	var out Lines
	for _, a := range s.Names {
		if a.Name == "*" {
			out = append(out, "use "+prefix+"*;")
			continue
		}
		line := "use " + prefix + RustIdent(a.Name)
		if a.AsName != nil {
			line += " as " + RustIdent(*a.AsName)
		}
		out = append(out, line+";")
	}
	return out, nil
}

// ImportPaths returns the Rust paths the top-level imports of module bring
// in, in source order, skipping elided modules.
func ImportPaths(body []ast.Stmt, module string, opts Options) ([]string, error) {
	e := env{ctx: Module(module), opts: opts}
	var paths []string
	for _, s := range body {
		var lines Lines
		switch s := s.(type) {
		case *ast.Import:
			lines = e.importStmt(s)
		case *ast.ImportFrom:
			var err error
			if lines, err = e.importFrom(s); err != nil {
				return nil, err
			}
		}
		for _, l := range lines {
			paths = append(paths, strings.TrimSuffix(strings.TrimPrefix(l, "use "), ";"))
		}
	}
	return paths, nil
}
