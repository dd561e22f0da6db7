package codegen

import (
	"github.com/teranos/pyrust/ast"
	"github.com/teranos/pyrust/symbols"
)

// CollectSymbols returns syms extended with the names s binds in the current
// scope. Function and class definitions bind only their own name; their
// bodies are collected when they are translated. Compound statements are
// searched because Python has no block scope.
func CollectSymbols(s ast.Stmt, syms symbols.Table) symbols.Table {
	switch s := s.(type) {
	case *ast.Assign:
		for _, t := range s.Targets {
			syms = bindTargets(syms, t, s.Value)
		}
	case *ast.AnnAssign:
		syms = bindTargets(syms, s.Target, s.Value)
	case *ast.FunctionDef:
		syms = syms.Insert(s.Name, symbols.FunctionDef{Def: s})
	case *ast.ClassDef:
		syms = syms.Insert(s.Name, symbols.ClassDef{Def: s})
	case *ast.Import:
		for _, a := range s.Names {
			if a.AsName != nil {
				syms = syms.Insert(*a.AsName, symbols.Alias{Target: a.Name})
				continue
			}
			bound := a.BoundName()
			syms = syms.Insert(bound, symbols.Import{Module: bound})
		}
	case *ast.ImportFrom:
		for _, a := range s.Names {
			if a.Name == "*" {
				continue
			}
			name := a.Name
			if a.AsName != nil {
				name = *a.AsName
			}
			syms = syms.Insert(name, symbols.ImportFrom{Module: s.Module, Name: a.Name})
		}
	case *ast.For:
		syms = bindTargets(syms, s.Target, s.Iter)
		syms = CollectBody(s.OrElse, CollectBody(s.Body, syms))
	case *ast.AsyncFor:
		syms = bindTargets(syms, s.Target, s.Iter)
		syms = CollectBody(s.OrElse, CollectBody(s.Body, syms))
	case *ast.While:
		syms = CollectBody(s.OrElse, CollectBody(s.Body, syms))
	case *ast.If:
		syms = CollectBody(s.OrElse, CollectBody(s.Body, syms))
	case *ast.Try:
		syms = CollectBody(s.Body, syms)
		for _, h := range s.Handlers {
			syms = CollectBody(h.Body, syms)
		}
		syms = CollectBody(s.FinalBody, CollectBody(s.OrElse, syms))
	case *ast.With:
		syms = collectWith(syms, s.Items, s.Body)
	case *ast.AsyncWith:
		syms = collectWith(syms, s.Items, s.Body)
	}
	return syms
}

// CollectBody folds CollectSymbols over a statement list.
func CollectBody(body []ast.Stmt, syms symbols.Table) symbols.Table {
	for _, s := range body {
		syms = CollectSymbols(s, syms)
	}
	return syms
}

// bindTargets binds each name in target by its ordinal among the
// simultaneous targets.
func bindTargets(syms symbols.Table, target, value ast.Expr) symbols.Table {
	for i, name := range targetNames(target) {
		syms = syms.Insert(name, symbols.Assign{Position: i, Value: value})
	}
	return syms
}

func collectWith(syms symbols.Table, items []*ast.WithItem, body []ast.Stmt) symbols.Table {
	for _, item := range items {
		if item.OptionalVars != nil {
			syms = bindTargets(syms, item.OptionalVars, item.ContextExpr)
		}
	}
	return CollectBody(body, syms)
}
