package codegen

import (
	"strings"

	"github.com/teranos/pyrust/ast"
	"github.com/teranos/pyrust/errors"
	"github.com/teranos/pyrust/symbols"
)

// TranslateStmt lowers one statement to Rust lines.
func TranslateStmt(s ast.Stmt, ctx Context, opts Options, syms symbols.Table) (Lines, error) {
	return env{ctx: ctx, opts: opts, syms: syms}.stmt(s)
}

// TranslateBody collects the symbols of the whole body first, so that later
// definitions are visible to earlier statements, then translates each
// statement in order. The first error aborts the body.
func TranslateBody(body []ast.Stmt, ctx Context, opts Options, syms symbols.Table) (Lines, error) {
	return env{ctx: ctx, opts: opts, syms: syms}.body(body)
}

func (e env) body(body []ast.Stmt) (Lines, error) {
	e = e.withSymbols(CollectBody(body, e.syms))
	if e.ctx.Kind() == ModuleContext && e.ctx.statics == nil {
		e = e.withContext(e.ctx.WithMutableStatics(GlobalNames(body)))
	}
	var out Lines
	for _, s := range body {
		lines, err := e.stmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, lines...)
		if e.ctx.Kind() == FunctionContext || e.ctx.Kind() == AsyncContext {
			e = e.withContext(e.ctx.Declare(declaredBy(s)...))
		}
	}
	return out, nil
}

func (e env) stmt(s ast.Stmt) (Lines, error) {
	switch s := s.(type) {
	case nil:
		return nil, e.missing("statement")
	case *ast.Assign:
		return e.assign(s)
	case *ast.AugAssign:
		return e.augAssign(s)
	case *ast.AnnAssign:
		return e.annAssign(s)
	case *ast.FunctionDef:
		return e.functionDef(s)
	case *ast.ClassDef:
		return e.classDef(s)
	case *ast.Import:
		return e.importStmt(s), nil
	case *ast.ImportFrom:
		return e.importFrom(s)
	case *ast.ExprStmt:
		v, err := e.expr(s.Value)
		if err != nil {
			return nil, err
		}
		return Line(v + ";"), nil
	case *ast.Return:
		if s.Value == nil {
			return Line("return;"), nil
		}
		v, err := e.expr(s.Value)
		if err != nil {
			return nil, err
		}
		return Line("return " + v + ";"), nil
	case *ast.Raise:
		return e.raise(s)
	case *ast.For:
		return e.forLoop(s.Target, s.Iter, s.Body, s.OrElse, false)
	case *ast.AsyncFor:
		return e.forLoop(s.Target, s.Iter, s.Body, s.OrElse, true)
	case *ast.While:
		return e.whileLoop(s)
	case *ast.If:
		return e.ifStmt(s)
	case *ast.Try:
		return e.try(s)
	case *ast.With:
		return e.with(s.Items, s.Body, false)
	case *ast.AsyncWith:
		return e.with(s.Items, s.Body, true)
	case *ast.Break:
		if flag := e.ctx.LoopFlag(); flag != "" {
			return Lines{flag + " = false;", "break;"}, nil
		}
		return Line("break;"), nil
	case *ast.Continue:
		return Line("continue;"), nil
	case *ast.Pass:
		return nil, nil
	case *ast.Global:
		return Line("// global " + strings.Join(s.Names, ", ")), nil
	case *ast.Nonlocal:
		return Line("// nonlocal " + strings.Join(s.Names, ", ")), nil
	case *ast.Delete:
		return e.delete(s)
	case *ast.Assert:
		return e.assert(s)
	case *ast.UnimplementedStmt:
		return nil, e.unsupported(s)
	default:
		return nil, e.unsupported(s)
	}
}

// declaredBy lists the local names a statement introduces with `let`.
func declaredBy(s ast.Stmt) []string {
	switch s := s.(type) {
	case *ast.Assign:
		var names []string
		for _, t := range s.Targets {
			names = append(names, targetNames(t)...)
		}
		return names
	case *ast.AnnAssign:
		return targetNames(s.Target)
	default:
		return nil
	}
}

func (e env) assign(a *ast.Assign) (Lines, error) {
	if len(a.Targets) == 0 {
		return nil, e.unsupportedf(a, "assignment without targets")
	}
	value, err := e.expr(a.Value)
	if err != nil {
		return nil, err
	}

	switch e.ctx.Kind() {
	case ModuleContext:
		return e.moduleAssign(a, a.Targets, nil, a.Value, value)
	case ClassContext:
		return e.classConstants(a, a.Targets, a.Value, value)
	}

	var out Lines
	first := ""
	for i, target := range a.Targets {
		rhs := value
		if i > 0 {
			// `a = b = v` evaluates v once.
			rhs = first + ".clone()"
		}
		line, err := e.bind(target, "", rhs)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
		if i == 0 {
			if first, err = e.expr(target); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// bind renders one assignment of rhs to target inside a function. Names not
// yet declared get `let mut`; attribute and subscript targets never do.
func (e env) bind(target ast.Expr, typ, rhs string) (string, error) {
	annotation := ""
	if typ != "" {
		annotation = ": " + typ
	}
	switch t := target.(type) {
	case nil:
		return "", e.missing("expression")
	case *ast.Name:
		name := e.name(t)
		if e.ctx.IsGlobal(t.ID) {
			if err := e.writesGlobal(t); err != nil {
				return "", err
			}
			return "unsafe { " + name + " = " + rhs + "; }", nil
		}
		if e.ctx.Declared(t.ID) && typ == "" {
			return name + " = " + rhs + ";", nil
		}
		return "let mut " + name + annotation + " = " + rhs + ";", nil
	case *ast.Tuple, *ast.List:
		for _, n := range targetNames(t) {
			if e.ctx.IsGlobal(n) {
				return "", e.unsupportedf(target, "destructuring assignment to module global %s", n)
			}
		}
		if allNames(t) && !e.allDeclared(targetNames(t)) {
			pattern, err := e.pattern(t)
			if err != nil {
				return "", err
			}
			return "let " + pattern + annotation + " = " + rhs + ";", nil
		}
		lhs, err := e.expr(t)
		if err != nil {
			return "", err
		}
		return lhs + " = " + rhs + ";", nil
	case *ast.Attribute, *ast.Subscript:
		lhs, err := e.expr(t)
		if err != nil {
			return "", err
		}
		return lhs + " = " + rhs + ";", nil
	case *ast.Starred:
		return e.bind(t.Value, typ, rhs)
	default:
		return "", e.unsupportedf(target, "assignment target %s", target.Kind())
	}
}

// writesGlobal checks that n, a name declared `global`, may be assigned.
func (e env) writesGlobal(n *ast.Name) error {
	if !e.opts.AllowUnsafe {
		return e.unsupportedf(n, "assignment to module global %s requires allow_unsafe", n.ID)
	}
	return nil
}

// GlobalNames lists the names any function in body declares `global`.
func GlobalNames(body []ast.Stmt) []string {
	var names []string
	for _, s := range body {
		ast.Inspect(s, func(n ast.Node) bool {
			if g, ok := n.(*ast.Global); ok {
				names = append(names, g.Names...)
			}
			return true
		})
	}
	return names
}

// globalsIn lists the names body declares `global` for its own function,
// skipping nested definitions.
func globalsIn(body []ast.Stmt) []string {
	var names []string
	for _, s := range body {
		ast.Inspect(s, func(n ast.Node) bool {
			switch n := n.(type) {
			case *ast.FunctionDef, *ast.ClassDef, *ast.Lambda:
				return false
			case *ast.Global:
				names = append(names, n.Names...)
			}
			return true
		})
	}
	return names
}

// pattern renders a destructuring target. Fresh names are bound mutably.
func (e env) pattern(target ast.Expr) (string, error) {
	var elts []ast.Expr
	switch t := target.(type) {
	case *ast.Tuple:
		elts = t.Elts
	case *ast.List:
		elts = t.Elts
	case *ast.Starred:
		return e.pattern(t.Value)
	case *ast.Name:
		if !e.ctx.Declared(t.ID) {
			return "mut " + e.name(t), nil
		}
		return e.name(t), nil
	default:
		return e.expr(target)
	}
	parts := make([]string, 0, len(elts))
	for _, elt := range elts {
		p, err := e.pattern(elt)
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)", nil
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

func allNames(target ast.Expr) bool {
	switch t := target.(type) {
	case *ast.Name:
		return true
	case *ast.Starred:
		return allNames(t.Value)
	case *ast.Tuple:
		for _, elt := range t.Elts {
			if !allNames(elt) {
				return false
			}
		}
		return true
	case *ast.List:
		for _, elt := range t.Elts {
			if !allNames(elt) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (e env) allDeclared(names []string) bool {
	for _, n := range names {
		if !e.ctx.Declared(n) {
			return false
		}
	}
	return true
}

func (e env) annAssign(a *ast.AnnAssign) (Lines, error) {
	typ := MapType(a.Annotation)
	var value string
	if a.Value != nil {
		v, err := e.expr(a.Value)
		if err != nil {
			return nil, err
		}
		value = v
	}

	switch e.ctx.Kind() {
	case ModuleContext:
		if a.Value == nil {
			return Line("// " + exprText(a.Target) + ": " + typ), nil
		}
		return e.moduleAssign(a, []ast.Expr{a.Target}, &typ, a.Value, value)
	case ClassContext:
		// Annotated class attributes become fields of the data record.
		return nil, nil
	}

	if a.Value == nil {
		if n, ok := a.Target.(*ast.Name); ok && !e.ctx.Declared(n.ID) {
			return Line("let mut " + e.name(n) + ": " + typ + ";"), nil
		}
		return nil, nil
	}
	if _, ok := a.Target.(*ast.Name); !ok {
		typ = ""
	}
	line, err := e.bind(a.Target, typ, value)
	if err != nil {
		return nil, err
	}
	return Line(line), nil
}

// moduleAssign renders module-level bindings as statics. The type comes
// from the annotation when there is one, otherwise from a literal value;
// anything else is initialised lazily as a dynamic object.
func (e env) moduleAssign(n ast.Node, targets []ast.Expr, annotated *string, valueExpr ast.Expr, value string) (Lines, error) {
	var out Lines
	for _, target := range targets {
		if target == nil {
			return nil, e.missing("expression")
		}
		name, ok := target.(*ast.Name)
		if !ok {
			return nil, e.unsupportedf(n, "module-level assignment to %s", target.Kind())
		}
		vis := Visibility(name.ID)
		ident := e.name(name)
		typ, literal := literalType(valueExpr)
		if e.opts.AllowUnsafe && e.ctx.IsMutableStatic(name.ID) {
			if !literal {
				return nil, e.unsupportedf(n, "module global %s is rebound but not initialised from a literal", name.ID)
			}
			if annotated != nil && typ != "&str" {
				typ = *annotated
			}
			out = append(out, withVisibility(vis, "static mut "+ident+": "+typ+" = "+value+";"))
			continue
		}
		// A str literal keeps its &str type; String cannot be built in a static.
		if annotated != nil && !(literal && typ == "&str") {
			typ = *annotated
		}
		if literal {
			out = append(out, withVisibility(vis, "static "+ident+": "+typ+" = "+value+";"))
			continue
		}
		out = append(out, withVisibility(vis, "static "+ident+": std::sync::LazyLock<"+typ+"> = std::sync::LazyLock::new(|| "+value+");"))
	}
	return out, nil
}

// classConstants renders class-level assignments as associated constants.
func (e env) classConstants(n ast.Node, targets []ast.Expr, valueExpr ast.Expr, value string) (Lines, error) {
	var out Lines
	for _, target := range targets {
		if target == nil {
			return nil, e.missing("expression")
		}
		name, ok := target.(*ast.Name)
		if !ok {
			return nil, e.unsupportedf(n, "class attribute %s", target.Kind())
		}
		typ, _ := literalType(valueExpr)
		out = append(out, "const "+e.name(name)+": "+typ+" = "+value+";")
	}
	return out, nil
}

// literalType infers the Rust type of a literal value. The second result is
// false when the value is not a literal and the type is DynamicType.
func literalType(v ast.Expr) (string, bool) {
	switch x := v.(type) {
	case *ast.Constant:
		switch x.Type {
		case ast.IntConstant:
			return "i64", true
		case ast.FloatConstant:
			return "f64", true
		case ast.StrConstant:
			return "&str", true
		case ast.BytesConstant:
			return "&[u8]", true
		case ast.BoolConstant:
			return "bool", true
		}
	case *ast.UnaryOp:
		if x.Op == ast.USub || x.Op == ast.UAdd {
			return literalType(x.Operand)
		}
	}
	return DynamicType, false
}

func (e env) augAssign(a *ast.AugAssign) (Lines, error) {
	if n, ok := a.Target.(*ast.Name); ok && e.ctx.IsGlobal(n.ID) {
		if err := e.writesGlobal(n); err != nil {
			return nil, err
		}
		line, err := e.augmented(a, e.name(n))
		if err != nil {
			return nil, err
		}
		return Line("unsafe { " + line + " }"), nil
	}
	target, err := e.expr(a.Target)
	if err != nil {
		return nil, err
	}
	line, err := e.augmented(a, target)
	if err != nil {
		return nil, err
	}
	return Line(line), nil
}

// augmented renders `target op= value` as a single statement.
func (e env) augmented(a *ast.AugAssign, target string) (string, error) {
	if tok, ok := augmentedOperators[a.Op]; ok {
		value, err := e.expr(a.Value)
		if err != nil {
			return "", err
		}
		return target + " " + tok + " " + value + ";", nil
	}
	value, err := e.operand(a.Value)
	if err != nil {
		return "", err
	}
	left := target
	if !atomic(a.Target) {
		left = "(" + target + ")"
	}
	rhs, err := BinaryExpr(a.Op, left, value)
	if err != nil {
		return "", errors.NewUnknownOperator("augmented", a.Op.String(), e.loc(a))
	}
	return target + " = " + rhs + ";", nil
}

func (e env) raise(r *ast.Raise) (Lines, error) {
	if r.Exc == nil {
		return Line(`panic!("Re-raising current exception");`), nil
	}
	exc, err := e.expr(r.Exc)
	if err != nil {
		return nil, err
	}
	if r.Cause == nil {
		return Line(`panic!("Exception: {:?}", ` + exc + ");"), nil
	}
	cause, err := e.expr(r.Cause)
	if err != nil {
		return nil, err
	}
	return Line(`panic!("Exception: {:?} caused by {:?}", ` + exc + ", " + cause + ");"), nil
}

func (e env) delete(d *ast.Delete) (Lines, error) {
	var out Lines
	for _, target := range d.Targets {
		switch t := target.(type) {
		case *ast.Subscript:
			v, err := e.operand(t.Value)
			if err != nil {
				return nil, err
			}
			k, err := e.expr(t.Slice)
			if err != nil {
				return nil, err
			}
			out = append(out, v+".remove(&"+k+");")
		default:
			v, err := e.expr(target)
			if err != nil {
				return nil, err
			}
			out = append(out, "drop("+v+");")
		}
	}
	return out, nil
}

func (e env) assert(a *ast.Assert) (Lines, error) {
	test, err := e.expr(a.Test)
	if err != nil {
		return nil, err
	}
	if a.Msg == nil {
		return Line("assert!(" + test + ");"), nil
	}
	msg, err := e.expr(a.Msg)
	if err != nil {
		return nil, err
	}
	return Line("assert!(" + test + `, "{}", ` + msg + ");"), nil
}

// exprText renders an expression for use in comments.
func exprText(x ast.Expr) string {
	if x == nil {
		return "<missing>"
	}
	if dotted, ok := ast.DottedName(x); ok {
		return dotted
	}
	return x.Kind()
}
