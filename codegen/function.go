package codegen

import (
	"strings"

	"github.com/teranos/pyrust/ast"
	"github.com/teranos/pyrust/symbols"
)

// Decorators whose meaning is carried by the method's receiver or is
// irrelevant to the lowered code.
var knownDecorators = map[string]bool{
	"staticmethod":       true,
	"classmethod":        true,
	"property":           true,
	"abstractmethod":     true,
	"abc.abstractmethod": true,
}

// param is one rendered parameter.
type param struct {
	source  string
	decl    string
	prelude string
}

func (e env) functionDef(f *ast.FunctionDef) (Lines, error) {
	name := f.Name
	if to, ok := e.ctx.Renamed(f); ok {
		name = to
	}
	name = RustIdent(name)

	var fnCtx Context
	if f.IsAsync {
		fnCtx = e.ctx.Async(f.Name)
	} else {
		fnCtx = e.ctx.Function(f.Name)
	}

	params, receiver, err := e.params(f)
	if err != nil {
		return nil, err
	}

	// Parameters live in a fresh scope for the body. Class-level names are
	// not visible from method bodies.
	outer := e.syms
	if e.ctx.InClass() {
		outer, _, _ = outer.PopScope()
	}
	inner := e.withSymbols(outer.PushScope()).withContext(fnCtx)
	var decls, names []string
	var prelude Lines
	if receiver != "" {
		decls = append(decls, receiver)
		names = append(names, "self")
	}
	for i, p := range params {
		decls = append(decls, p.decl)
		names = append(names, p.source)
		if p.prelude != "" {
			prelude = append(prelude, p.prelude)
		}
		inner.syms = inner.syms.Insert(p.source, symbols.Assign{Position: i})
	}
	stmts := f.Body
	if _, ok := f.Docstring(); ok {
		stmts = stmts[1:]
	}
	inner.ctx = inner.ctx.Declare(names...).WithGlobals(globalsIn(stmts)...)
	body, err := inner.body(stmts)
	if err != nil {
		return nil, err
	}

	var out Lines
	if doc, ok := f.Docstring(); ok {
		out = append(out, DocLines(doc)...)
	}
	for _, d := range f.DecoratorList {
		if text := exprText(d); !knownDecorators[text] {
			out = append(out, "// decorator @"+text+" not translated")
		}
	}

	head := "fn " + name + "(" + strings.Join(decls, ", ") + ")"
	if f.IsAsync {
		head = "async " + head
	}
	if e.ctx.Kind() == ModuleContext {
		head = withVisibility(Visibility(f.Name), head)
	}
	if f.Returns != nil {
		if ret := MapType(f.Returns); ret != "()" {
			head += " -> " + ret
		}
	} else if returnsValue(stmts) {
		head += " -> " + DynamicType
	}
	return append(out, Block(head, prelude.Append(body))...), nil
}

// returnsValue reports whether body returns a value from the function it
// belongs to. Nested definitions return from themselves and are skipped.
func returnsValue(body []ast.Stmt) bool {
	for _, s := range body {
		switch s := s.(type) {
		case *ast.Return:
			if s.Value != nil {
				return true
			}
		case *ast.If:
			if returnsValue(s.Body) || returnsValue(s.OrElse) {
				return true
			}
		case *ast.For:
			if returnsValue(s.Body) || returnsValue(s.OrElse) {
				return true
			}
		case *ast.AsyncFor:
			if returnsValue(s.Body) || returnsValue(s.OrElse) {
				return true
			}
		case *ast.While:
			if returnsValue(s.Body) || returnsValue(s.OrElse) {
				return true
			}
		case *ast.With:
			if returnsValue(s.Body) {
				return true
			}
		case *ast.AsyncWith:
			if returnsValue(s.Body) {
				return true
			}
		case *ast.Try:
			if returnsValue(s.Body) || returnsValue(s.OrElse) || returnsValue(s.FinalBody) {
				return true
			}
			for _, h := range s.Handlers {
				if returnsValue(h.Body) {
					return true
				}
			}
		}
	}
	return false
}

// params renders the parameter list. Inside a class the first parameter of
// an instance method becomes the `&self` receiver and the first parameter of
// a classmethod is dropped.
func (e env) params(f *ast.FunctionDef) ([]param, string, error) {
	args := f.Args
	if !args.WellFormed() {
		return nil, "", e.unsupportedf(f, "more defaults than parameters")
	}

	positional := args.Positional()
	receiver := ""
	skip := 0
	if e.ctx.InClass() && len(positional) > 0 && !hasDecorator(f, "staticmethod") {
		if hasDecorator(f, "classmethod") {
			skip = 1
		} else if positional[0].Name == "self" {
			receiver = "&self"
			skip = 1
		}
	}

	var out []param
	for i, a := range positional {
		if i < skip {
			continue
		}
		p, err := e.param(a, args.PositionalDefault(i))
		if err != nil {
			return nil, "", err
		}
		out = append(out, p)
	}
	if args != nil && args.VarArg != nil {
		n := RustIdent(args.VarArg.Name)
		out = append(out, param{source: args.VarArg.Name, decl: n + ": Vec<" + DynamicType + ">"})
	}
	if args != nil {
		for i, a := range args.KwOnlyArgs {
			p, err := e.param(a, args.KeywordDefault(i))
			if err != nil {
				return nil, "", err
			}
			out = append(out, p)
		}
		if args.KwArg != nil {
			n := RustIdent(args.KwArg.Name)
			out = append(out, param{source: args.KwArg.Name, decl: n + ": std::collections::HashMap<String, " + DynamicType + ">"})
		}
	}
	return out, receiver, nil
}

// param renders a single parameter. A default turns the parameter into an
// Option that is unwrapped at the top of the body.
func (e env) param(a *ast.Arg, def ast.Expr) (param, error) {
	n := RustIdent(a.Name)
	typ := MapType(a.Annotation)
	if def == nil {
		return param{source: a.Name, decl: n + ": " + typ}, nil
	}
	v, err := e.expr(def)
	if err != nil {
		return param{}, err
	}
	if strings.HasPrefix(typ, "Option<") {
		// Already optional; the default only matters when it is not None.
		if isNone(def) {
			return param{source: a.Name, decl: n + ": " + typ}, nil
		}
		return param{source: a.Name, decl: n + ": " + typ, prelude: "let " + n + " = " + n + ".or(Some(" + v + "));"}, nil
	}
	return param{
		source:  a.Name,
		decl:    n + ": Option<" + typ + ">",
		prelude: "let " + n + " = " + n + ".unwrap_or(" + v + ");",
	}, nil
}

func hasDecorator(f *ast.FunctionDef, name string) bool {
	for _, d := range f.DecoratorList {
		if exprText(d) == name {
			return true
		}
	}
	return false
}
