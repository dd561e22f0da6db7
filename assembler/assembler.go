// Package assembler turns a whole Python module into a Rust source file.
//
// # Overview
//
// Translate runs the codegen engine over every top-level statement and adds
// what a standalone Rust file needs around it:
//   - the module docstring as `//!` lines
//   - the runtime shim import and, for async modules, the runtime import
//   - a synthesized `fn main` holding the module's executable statements
//
// # Entry point
//
// `if __name__ == "__main__":` blocks are lifted out of the body and their
// statements run, in source order, from the synthesized main. A top-level
// user function named main is renamed to python_main at its definition and
// wherever a name resolves to it, so it cannot collide with the entry point.
// The entry point calls python_main first, unless one of its own top-level
// statements already does.
package assembler

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teranos/pyrust/ast"
	"github.com/teranos/pyrust/codegen"
	"github.com/teranos/pyrust/errors"
	"github.com/teranos/pyrust/logger"
	"github.com/teranos/pyrust/symbols"
)

// PythonMain is the name a user-defined main function is emitted under.
const PythonMain = "python_main"

// Result is one translated module.
type Result struct {
	// ID identifies this translation run in logs and the cache.
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
	// Source is the generated Rust file.
	Source string `json:"-"`
	// Async is set when the module defines an async function anywhere.
	Async bool `json:"async"`
	// EntryPoint is set when a `fn main` was synthesized.
	EntryPoint bool `json:"entry_point"`
	// Renamed lists source names emitted under a different name.
	Renamed []string `json:"renamed,omitempty"`
	// Imports are the Rust paths the module's imports bring in.
	Imports  []string      `json:"imports,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Translate assembles a complete Rust source file for m. The first error
// aborts the module; no partial output is returned.
func Translate(m *ast.Module, opts codegen.Options) (*Result, error) {
	if m == nil {
		return nil, errors.NewInvalidInputError("no module to translate")
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid translation options")
	}
	if opts.File == "" {
		opts = opts.ForFile(m.Path)
	}
	start := time.Now()

	name := m.Name
	if name == "" {
		name = ast.ModuleName(m.Path)
	}
	if err := ResolveImports(m, opts); err != nil {
		return nil, err
	}
	imports, err := codegen.ImportPaths(m.Body, name, opts)
	if err != nil {
		return nil, err
	}
	res := &Result{
		ID:      uuid.NewString(),
		Name:    name,
		Path:    m.Path,
		Async:   ast.ContainsAsync(m),
		Imports: imports,
	}

	ctx := codegen.Module(name).WithMutableStatics(codegen.GlobalNames(m.Body))
	mains := topLevelMains(m.Body)
	for _, def := range mains {
		ctx = ctx.WithRename(def, PythonMain)
	}
	if len(mains) > 0 {
		res.Renamed = append(res.Renamed, "main")
	}

	p := partition(m.Body)
	syms := codegen.CollectBody(p.decls, symbols.New())
	userMain := boundMain(syms)

	var out codegen.Lines
	if doc, ok := m.Docstring(); ok {
		out = append(out, codegen.ModuleDocLines(doc)...)
		out = append(out, "")
	}
	header := len(out)
	if opts.EmitRuntimeShimImport {
		out = append(out, "use "+opts.RuntimeShim+"::*;")
	}
	if res.Async {
		out = append(out, "use "+opts.AsyncRuntime.Import()+";")
	}
	if len(out) > header {
		out = append(out, "")
	}

	decls, err := declarations(p.decls, ctx, opts, syms)
	if err != nil {
		return nil, err
	}
	out = append(out, decls...)

	if len(p.run) > 0 || userMain != nil {
		entry, err := entryPoint(p, userMain, res.Async, ctx, opts, syms)
		if err != nil {
			return nil, err
		}
		if len(decls) > 0 {
			out = append(out, "")
		}
		out = append(out, entry...)
		res.EntryPoint = true
	}

	res.Source = out.String()
	res.Duration = time.Since(start)
	logger.Logger.Debugw("translated module",
		logger.FieldModule, res.Name,
		logger.FieldRunID, res.ID,
		logger.FieldAsync, res.Async,
		logger.FieldEntryPoint, res.EntryPoint,
		logger.FieldDurationMS, res.Duration.Milliseconds(),
	)
	return res, nil
}

// declarations translates top-level items, separating multi-line items
// from their neighbours with a blank line.
func declarations(body []ast.Stmt, ctx codegen.Context, opts codegen.Options, syms symbols.Table) (codegen.Lines, error) {
	var out codegen.Lines
	prevBlock := false
	for _, s := range body {
		lines, err := codegen.TranslateStmt(s, ctx, opts, syms)
		if err != nil {
			return nil, err
		}
		if len(lines) == 0 {
			continue
		}
		block := len(lines) > 1
		if len(out) > 0 && (block || prevBlock) {
			out = append(out, "")
		}
		out = append(out, lines...)
		prevBlock = block
	}
	return out, nil
}

// entryPoint renders the synthesized `fn main`.
func entryPoint(p parts, userMain *ast.FunctionDef, async bool, ctx codegen.Context, opts codegen.Options, syms symbols.Table) (codegen.Lines, error) {
	fnCtx := ctx.Function("main")
	if async {
		fnCtx = ctx.Async("main")
	}
	body, err := codegen.TranslateBody(p.run, fnCtx, opts, syms)
	if err != nil {
		return nil, err
	}
	if userMain != nil && !callsMain(p.run, userMain, syms) {
		call := PythonMain + "()"
		if userMain.IsAsync {
			call += ".await"
		}
		body = append(codegen.Line(call+";"), body...)
	}

	var out codegen.Lines
	head := "fn main()"
	if async {
		out = append(out, "#["+opts.AsyncRuntime.Attribute()+"]")
		head = "async " + head
	}
	return append(out, codegen.Block(head, body)...), nil
}

// parts is a module body split into items that stay at the top level and
// statements that run from the entry point.
type parts struct {
	decls []ast.Stmt
	run   []ast.Stmt
}

// partition splits body. Guard blocks contribute their statements to run;
// other executable statements keep their place among them.
func partition(body []ast.Stmt) parts {
	var p parts
	if _, ok := (&ast.Module{Body: body}).Docstring(); ok {
		body = body[1:]
	}
	for _, s := range body {
		if g, ok := s.(*ast.If); ok && IsMainGuard(g) {
			p.run = append(p.run, g.Body...)
			continue
		}
		if isDeclaration(s) {
			p.decls = append(p.decls, s)
		} else {
			p.run = append(p.run, s)
		}
	}
	return p
}

// isDeclaration reports whether s stays at the top level. Assignments
// qualify only when they bind plain names, which become statics.
func isDeclaration(s ast.Stmt) bool {
	switch s := s.(type) {
	case *ast.FunctionDef, *ast.ClassDef, *ast.Import, *ast.ImportFrom,
		*ast.Global, *ast.Nonlocal, *ast.Pass:
		return true
	case *ast.Assign:
		for _, t := range s.Targets {
			if _, ok := t.(*ast.Name); !ok {
				return false
			}
		}
		return true
	case *ast.AnnAssign:
		_, ok := s.Target.(*ast.Name)
		return ok
	}
	return false
}

// IsMainGuard reports whether s is `if __name__ == "__main__":` with no else
// branch, in either operand order.
func IsMainGuard(s *ast.If) bool {
	if len(s.OrElse) > 0 {
		return false
	}
	c, ok := s.Test.(*ast.Compare)
	if !ok || len(c.Ops) != 1 || len(c.Comparators) != 1 || c.Ops[0] != ast.Eq {
		return false
	}
	return (isDunderName(c.Left) && isMainLiteral(c.Comparators[0])) ||
		(isMainLiteral(c.Left) && isDunderName(c.Comparators[0]))
}

func isDunderName(x ast.Expr) bool {
	n, ok := x.(*ast.Name)
	return ok && n.ID == "__name__"
}

func isMainLiteral(x ast.Expr) bool {
	c, ok := x.(*ast.Constant)
	return ok && c.IsString() && c.Value == "__main__"
}

// topLevelMains returns every top-level definition of a function named main.
func topLevelMains(body []ast.Stmt) []*ast.FunctionDef {
	var out []*ast.FunctionDef
	for _, s := range body {
		if f, ok := s.(*ast.FunctionDef); ok && f.Name == "main" {
			out = append(out, f)
		}
	}
	return out
}

// boundMain returns the function main refers to at module scope, or nil
// when main is not bound to a function.
func boundMain(syms symbols.Table) *ast.FunctionDef {
	b, ok := syms.LookupLocal("main")
	if !ok {
		return nil
	}
	fn, ok := b.(symbols.FunctionDef)
	if !ok {
		return nil
	}
	return fn.Def
}

// callsMain reports whether one of the entry point's own statements is a
// bare call to main, as in `if __name__ == "__main__": main()`. Such a call
// is the entry point's invocation of the user function.
func callsMain(run []ast.Stmt, main *ast.FunctionDef, syms symbols.Table) bool {
	if boundMain(codegen.CollectBody(run, syms)) != main {
		return false
	}
	for _, s := range run {
		x, ok := s.(*ast.ExprStmt)
		if !ok {
			continue
		}
		v := x.Value
		if a, ok := v.(*ast.Await); ok {
			v = a.Value
		}
		c, ok := v.(*ast.Call)
		if !ok || len(c.Args) > 0 || len(c.Keywords) > 0 {
			continue
		}
		if n, ok := c.Func.(*ast.Name); ok && n.ID == "main" {
			return true
		}
	}
	return false
}

// OutputPath returns the .rs path for a module name relative to a source
// root: "pkg::sub" becomes "pkg/sub.rs".
func OutputPath(name string) string {
	return strings.ReplaceAll(name, "::", "/") + ".rs"
}
