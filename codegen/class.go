package codegen

import (
	"strings"

	"github.com/teranos/pyrust/ast"
	"github.com/teranos/pyrust/symbols"
)

// classDef lowers a class to a module holding a behaviour trait, a data
// record and the trait implementation:
//
//	pub mod Point {
//	    use super::*;
//	    pub trait Cls: Base::Cls { fn norm(&self) -> f64 { ... } }
//	    #[derive(Clone, Default)]
//	    pub struct Data { pub x: f64 }
//	    impl Cls for Data {}
//	}
//
// Methods keep their bodies as default trait methods so that subclasses
// inherit them by implementing the base traits.
func (e env) classDef(c *ast.ClassDef) (Lines, error) {
	vis := ""
	if e.ctx.Kind() == ModuleContext || e.ctx.InClass() {
		vis = Visibility(c.Name)
	}
	name := RustIdent(c.Name)
	inner := e.withContext(e.ctx.Class(c.Name)).withSymbols(CollectBody(c.Body, e.syms.PushScope()))

	var out Lines
	if doc, ok := c.Docstring(); ok {
		out = append(out, DocLines(doc)...)
	}
	for _, d := range c.DecoratorList {
		if text := exprText(d); text != "dataclass" && text != "dataclasses.dataclass" {
			out = append(out, "// decorator @"+text+" not translated")
		}
	}

	bases, skipped := e.bases(c)
	var traitItems, fields, nested Lines
	var init *ast.FunctionDef
	stmts := c.Body
	if _, ok := c.Docstring(); ok {
		stmts = stmts[1:]
	}
	for _, s := range stmts {
		switch s := s.(type) {
		case *ast.FunctionDef:
			if s.Name == "__init__" {
				init = s
			}
			lines, err := inner.functionDef(s)
			if err != nil {
				return nil, err
			}
			traitItems = append(traitItems, lines...)
		case *ast.AnnAssign:
			if s.Target == nil {
				return nil, inner.missing("expression")
			}
			n, ok := s.Target.(*ast.Name)
			if !ok {
				return nil, inner.unsupportedf(s, "class attribute %s", s.Target.Kind())
			}
			fields = append(fields, withVisibility(Visibility(n.ID), RustIdent(n.ID)+": "+MapType(s.Annotation)+","))
		case *ast.Assign:
			lines, err := inner.assign(s)
			if err != nil {
				return nil, err
			}
			traitItems = append(traitItems, lines...)
		case *ast.ClassDef:
			lines, err := inner.classDef(s)
			if err != nil {
				return nil, err
			}
			nested = append(nested, lines...)
		case *ast.Pass:
		default:
			return nil, inner.unsupportedf(s, "%s in class body", s.Kind())
		}
	}

	traitHead := withVisibility(vis, "trait Cls")
	if len(bases) > 0 {
		traitHead += ": " + strings.Join(bases, " + ")
	}

	body := Line("use super::*;")
	for _, b := range skipped {
		body = append(body, "// base "+b+" not translated")
	}
	body = append(body, "")
	body = append(body, Block(traitHead, traitItems)...)
	body = append(body, "", "#[derive(Clone, Default)]")
	body = append(body, Block(withVisibility(vis, "struct Data"), fields)...)
	body = append(body, "", "impl Cls for Data {}")
	for _, b := range bases {
		body = append(body, "impl "+b+" for Data {}")
	}
	if init != nil {
		ctor, err := inner.constructor(init, vis)
		if err != nil {
			return nil, err
		}
		body = append(body, "")
		body = append(body, ctor...)
	}
	if len(nested) > 0 {
		body = append(body, "")
		body = append(body, nested...)
	}
	return append(out, Block(withVisibility(vis, "mod "+name), body)...), nil
}

// bases returns the trait paths of the base classes defined in translated
// code, and the source text of the bases that are not.
func (e env) bases(c *ast.ClassDef) ([]string, []string) {
	var traits, skipped []string
	for _, b := range c.Bases {
		dotted, ok := ast.DottedName(b)
		if !ok {
			skipped = append(skipped, b.Kind())
			continue
		}
		if dotted == "object" {
			continue
		}
		root := dotted
		if i := strings.IndexByte(dotted, '.'); i >= 0 {
			root = dotted[:i]
		}
		binding, _ := e.syms.Lookup(root)
		switch binding := binding.(type) {
		case symbols.ClassDef:
			traits = append(traits, RustPath(dotted)+"::Cls")
			continue
		case symbols.ImportFrom:
			if !e.elided(binding.Module) {
				traits = append(traits, RustPath(dotted)+"::Cls")
				continue
			}
		}
		skipped = append(skipped, dotted)
	}
	return traits, skipped
}

// constructor renders Data::new from __init__'s parameters. It builds a
// default record and runs __init__ on it.
func (e env) constructor(init *ast.FunctionDef, vis string) (Lines, error) {
	params, _, err := e.params(init)
	if err != nil {
		return nil, err
	}
	decls := make([]string, 0, len(params))
	args := make([]string, 0, len(params))
	for _, p := range params {
		decls = append(decls, p.decl)
		args = append(args, RustIdent(p.source))
	}
	body := Lines{
		"let instance = Self::default();",
		"instance.__init__(" + strings.Join(args, ", ") + ");",
		"instance",
	}
	if init.IsAsync {
		body[1] = "instance.__init__(" + strings.Join(args, ", ") + ").await;"
	}
	fn := withVisibility(vis, "fn new("+strings.Join(decls, ", ")+") -> Self")
	if init.IsAsync {
		fn = withVisibility(vis, "async fn new("+strings.Join(decls, ", ")+") -> Self")
	}
	return Block("impl Data", Block(fn, body)), nil
}
