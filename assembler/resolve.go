package assembler

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/pyrust/ast"
	"github.com/teranos/pyrust/codegen"
	"github.com/teranos/pyrust/errors"
)

// moduleFiles are the forms a module may take under a search path entry,
// relative to the module's slash-separated path.
var moduleFiles = []string{".py", "/__init__.py", ".ast.json", ".ast.yaml", ".ast.yml"}

// ResolveImports checks that every absolute import in m that is not elided
// names a module found on opts.ModuleSearchPath, either as source, as a
// package or as an AST document. It does nothing when the search path is
// empty. Relative imports are resolved against the module itself.
func ResolveImports(m *ast.Module, opts codegen.Options) error {
	if len(opts.ModuleSearchPath) == 0 {
		return nil
	}
	var err error
	ast.Inspect(m, func(n ast.Node) bool {
		if err != nil {
			return false
		}
		switch s := n.(type) {
		case *ast.Import:
			for _, a := range s.Names {
				if err = resolve(s, a.Name, opts); err != nil {
					return false
				}
			}
		case *ast.ImportFrom:
			if s.Level == 0 {
				err = resolve(s, s.Module, opts)
			}
		}
		return true
	})
	return err
}

func resolve(n ast.Node, module string, opts codegen.Options) error {
	if module == "" || codegen.IsElided(module, opts.ElideModules) {
		return nil
	}
	if _, ok := FindModule(module, opts.ModuleSearchPath); ok {
		return nil
	}
	return errors.NewLookupAt(module, ast.LocationOf(n, opts.File), opts.ModuleSearchPath...)
}

// FindModule returns the first file or package directory on searchPath
// that provides the dotted module.
func FindModule(module string, searchPath []string) (string, bool) {
	rel := strings.ReplaceAll(module, ".", "/")
	for _, dir := range searchPath {
		for _, suffix := range moduleFiles {
			candidate := filepath.Join(dir, filepath.FromSlash(rel+suffix))
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
		// A directory without __init__.py is a namespace package.
		candidate := filepath.Join(dir, filepath.FromSlash(rel))
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}
