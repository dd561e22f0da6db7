package codegen

import (
	"strings"

	"github.com/teranos/pyrust/ast"
	"github.com/teranos/pyrust/errors"
	"github.com/teranos/pyrust/symbols"
)

// env bundles the state threaded through a translation. It is always passed
// by value; deriving a child env never changes the parent's.
type env struct {
	ctx  Context
	opts Options
	syms symbols.Table
}

func (e env) withContext(ctx Context) env {
	e.ctx = ctx
	return e
}

func (e env) withSymbols(syms symbols.Table) env {
	e.syms = syms
	return e
}

func (e env) loc(n ast.Node) errors.Location {
	return ast.LocationOf(n, e.opts.File)
}

// missing reports an absent node where the tree requires one.
func (e env) missing(what string) error {
	return errors.NewUnknownType(what, "<missing>", errors.Location{File: e.opts.File})
}

func (e env) unsupported(n ast.Node) error {
	return errors.NewUnsupported(n.Kind(), e.loc(n))
}

func (e env) unsupportedf(n ast.Node, format string, args ...any) error {
	return errors.NewUnsupportedf(n.Kind(), e.loc(n), format, args...)
}

// TranslateExpr lowers a single expression to Rust source text.
func TranslateExpr(x ast.Expr, ctx Context, opts Options, syms symbols.Table) (string, error) {
	return env{ctx: ctx, opts: opts, syms: syms}.expr(x)
}

func (e env) expr(x ast.Expr) (string, error) {
	switch x := x.(type) {
	case nil:
		return "", e.missing("expression")
	case *ast.BoolOp:
		return e.boolOp(x)
	case *ast.NamedExpr:
		return e.namedExpr(x)
	case *ast.BinOp:
		return e.binOp(x)
	case *ast.UnaryOp:
		return e.unaryOp(x)
	case *ast.Await:
		return e.await(x)
	case *ast.Compare:
		return e.compare(x)
	case *ast.Call:
		return e.call(x)
	case *ast.Constant:
		return e.constant(x)
	case *ast.Attribute:
		return e.attribute(x)
	case *ast.Name:
		return e.load(x), nil
	case *ast.List:
		return e.list(x)
	case *ast.Tuple:
		return e.tuple(x)
	case *ast.Set:
		return e.set(x)
	case *ast.Dict:
		return e.dict(x)
	case *ast.Subscript:
		return e.subscript(x)
	case *ast.Slice:
		return e.slice(x)
	case *ast.Starred:
		// Consumed by the enclosing call or display; the value passes through.
		return e.expr(x.Value)
	case *ast.Lambda:
		return e.lambda(x)
	case *ast.IfExp:
		return e.ifExp(x)
	case *ast.ListComp:
		return e.comprehension(x, x.Elt, nil, x.Generators, listCollection)
	case *ast.SetComp:
		return e.comprehension(x, x.Elt, nil, x.Generators, setCollection)
	case *ast.DictComp:
		return e.comprehension(x, x.Key, x.Value, x.Generators, dictCollection)
	case *ast.GeneratorExp:
		return e.comprehension(x, x.Elt, nil, x.Generators, lazyCollection)
	case *ast.JoinedStr:
		return e.joinedStr(x)
	case *ast.FormattedValue:
		return e.joinedStr(&ast.JoinedStr{Span: x.Span, Values: []ast.Expr{x}})
	case *ast.Yield:
		if x.Value == nil {
			return "/* yield */ ()", nil
		}
		v, err := e.expr(x.Value)
		if err != nil {
			return "", err
		}
		return "/* yield */ " + v, nil
	case *ast.YieldFrom:
		v, err := e.expr(x.Value)
		if err != nil {
			return "", err
		}
		return "/* yield from */ " + v, nil
	case *ast.UnimplementedExpr:
		return "", e.unsupported(x)
	case *ast.UnknownExpr:
		return "", e.unsupported(x)
	default:
		return "", e.unsupported(x)
	}
}

// exprs translates each expression in order.
func (e env) exprs(list []ast.Expr) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, x := range list {
		s, err := e.expr(x)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// operand translates x and parenthesises it unless it binds tighter than
// any operator it may be combined with.
func (e env) operand(x ast.Expr) (string, error) {
	s, err := e.expr(x)
	if err != nil {
		return "", err
	}
	if atomic(x) {
		return s, nil
	}
	return "(" + s + ")", nil
}

// atomic reports whether x renders as a postfix-level expression that needs
// no parentheses as an operand.
func atomic(x ast.Expr) bool {
	switch x := x.(type) {
	case *ast.Name, *ast.Call, *ast.Attribute, *ast.Subscript, *ast.List,
		*ast.Tuple, *ast.Set, *ast.Dict, *ast.ListComp, *ast.SetComp,
		*ast.DictComp, *ast.GeneratorExp, *ast.JoinedStr, *ast.Await:
		return true
	case *ast.Constant:
		return !strings.HasPrefix(x.Value, "-")
	case *ast.Starred:
		return atomic(x.Value)
	default:
		return false
	}
}

func (e env) name(n *ast.Name) string {
	switch n.ID {
	case "True":
		return "true"
	case "False":
		return "false"
	case "None":
		return "None"
	}
	id := n.ID
	if b, ok := e.syms.Lookup(id); ok {
		if fn, ok := b.(symbols.FunctionDef); ok {
			if to, ok := e.ctx.Renamed(fn.Def); ok {
				id = to
			}
		}
	}
	if strings.Contains(id, ".") {
		return RustPath(id)
	}
	return RustIdent(id)
}

// load renders a read of n. Reads of a `static mut` go through an unsafe
// block.
func (e env) load(n *ast.Name) string {
	if e.readsMutableStatic(n.ID) {
		return "unsafe { " + e.name(n) + " }"
	}
	return e.name(n)
}

func (e env) readsMutableStatic(id string) bool {
	if !e.opts.AllowUnsafe || e.ctx.Kind() == ModuleContext || e.ctx.Kind() == ClassContext {
		return false
	}
	if e.ctx.IsGlobal(id) {
		return true
	}
	return e.ctx.IsMutableStatic(id) && !e.ctx.Declared(id)
}

func (e env) attribute(a *ast.Attribute) (string, error) {
	// Attribute chains rooted at an imported module become paths.
	if dotted, ok := ast.DottedName(a); ok {
		root := dotted
		if i := strings.IndexByte(dotted, '.'); i >= 0 {
			root = dotted[:i]
		}
		if b, found := e.syms.Lookup(root); found {
			switch b := b.(type) {
			case symbols.Import:
				return RustPath(b.Module + dotted[len(root):]), nil
			case symbols.Alias:
				return RustPath(b.Target + dotted[len(root):]), nil
			}
		}
	}
	v, err := e.operand(a.Value)
	if err != nil {
		return "", err
	}
	return v + "." + RustIdent(a.Attr), nil
}

func (e env) constant(c *ast.Constant) (string, error) {
	switch c.Type {
	case ast.NoneConstant:
		return "None", nil
	case ast.BoolConstant:
		if c.Value == "True" {
			return "true", nil
		}
		return "false", nil
	case ast.IntConstant:
		return strings.ReplaceAll(c.Value, "_", ""), nil
	case ast.FloatConstant:
		return floatLiteral(c.Value), nil
	case ast.StrConstant:
		return rustString(c.Value), nil
	case ast.BytesConstant:
		return rustBytes(c.Value), nil
	case ast.EllipsisConstant:
		return "()", nil
	case ast.ComplexConstant:
		return "", e.unsupportedf(c, "complex literal %s", c.Value)
	default:
		return "", errors.NewUnknownType("constant", c.Type.String(), e.loc(c))
	}
}

func floatLiteral(v string) string {
	switch strings.ToLower(v) {
	case "inf", "+inf":
		return "f64::INFINITY"
	case "-inf":
		return "f64::NEG_INFINITY"
	case "nan":
		return "f64::NAN"
	}
	v = strings.ReplaceAll(v, "_", "")
	if !strings.ContainsAny(v, ".eE") {
		return v + ".0"
	}
	if strings.HasSuffix(v, ".") {
		return v + "0"
	}
	if strings.HasPrefix(v, ".") {
		return "0" + v
	}
	return v
}

func (e env) call(c *ast.Call) (string, error) {
	fn, err := e.callee(c)
	if err != nil {
		return "", err
	}
	args, err := e.exprs(c.Args)
	if err != nil {
		return "", err
	}
	for _, k := range c.Keywords {
		v, err := e.expr(k.Value)
		if err != nil {
			return "", err
		}
		// Rust has no keyword arguments; keep the name as a marker.
		if k.Arg == nil {
			args = append(args, "/* ** */ "+v)
		} else {
			args = append(args, "/* "+*k.Arg+" = */ "+v)
		}
	}
	return fn + "(" + strings.Join(args, ", ") + ")", nil
}

// callee renders the function position of a call. Calls to classes become
// constructor calls on the class's data record.
func (e env) callee(c *ast.Call) (string, error) {
	if n, ok := c.Func.(*ast.Name); ok {
		if b, found := e.syms.Lookup(n.ID); found {
			if _, isClass := b.(symbols.ClassDef); isClass {
				if len(c.Args) == 0 && len(c.Keywords) == 0 {
					return RustIdent(n.ID) + "::Data::default", nil
				}
				return RustIdent(n.ID) + "::Data::new", nil
			}
		}
	}
	return e.operand(c.Func)
}

func (e env) list(l *ast.List) (string, error) {
	elts, err := e.exprs(l.Elts)
	if err != nil {
		return "", err
	}
	return "vec![" + strings.Join(elts, ", ") + "]", nil
}

func (e env) tuple(t *ast.Tuple) (string, error) {
	elts, err := e.exprs(t.Elts)
	if err != nil {
		return "", err
	}
	switch len(elts) {
	case 0:
		return "()", nil
	case 1:
		return "(" + elts[0] + ",)", nil
	default:
		return "(" + strings.Join(elts, ", ") + ")", nil
	}
}

func (e env) set(s *ast.Set) (string, error) {
	elts, err := e.exprs(s.Elts)
	if err != nil {
		return "", err
	}
	if len(elts) == 0 {
		return "std::collections::HashSet::new()", nil
	}
	return "std::collections::HashSet::from([" + strings.Join(elts, ", ") + "])", nil
}

func (e env) dict(d *ast.Dict) (string, error) {
	if len(d.Keys) == 0 {
		return "std::collections::HashMap::new()", nil
	}
	pairs := make([]string, 0, len(d.Keys))
	for i, k := range d.Keys {
		if k == nil {
			return "", e.unsupportedf(d, "dict unpacking")
		}
		key, err := e.expr(k)
		if err != nil {
			return "", err
		}
		value, err := e.expr(d.Values[i])
		if err != nil {
			return "", err
		}
		pairs = append(pairs, "("+key+", "+value+")")
	}
	return "std::collections::HashMap::from([" + strings.Join(pairs, ", ") + "])", nil
}

func (e env) subscript(s *ast.Subscript) (string, error) {
	value, err := e.operand(s.Value)
	if err != nil {
		return "", err
	}
	if sl, ok := s.Slice.(*ast.Slice); ok {
		if sl.Step != nil {
			step, err := e.expr(sl.Step)
			if err != nil {
				return "", err
			}
			rng, err := e.sliceRange(&ast.Slice{Span: sl.Span, Lower: sl.Lower, Upper: sl.Upper})
			if err != nil {
				return "", err
			}
			return value + "[" + rng + "].iter().step_by(" + step + ")", nil
		}
		rng, err := e.sliceRange(sl)
		if err != nil {
			return "", err
		}
		return value + "[" + rng + "]", nil
	}
	// A negative literal index counts from the end.
	if u, ok := s.Slice.(*ast.UnaryOp); ok && u.Op == ast.USub {
		if c, ok := u.Operand.(*ast.Constant); ok && c.Type == ast.IntConstant {
			return value + "[" + value + ".len() - " + c.Value + "]", nil
		}
	}
	index, err := e.expr(s.Slice)
	if err != nil {
		return "", err
	}
	return value + "[" + index + "]", nil
}

func (e env) slice(s *ast.Slice) (string, error) {
	if s.Step != nil {
		return "", e.unsupportedf(s, "slice step outside a subscript")
	}
	return e.sliceRange(s)
}

func (e env) sliceRange(s *ast.Slice) (string, error) {
	var lower, upper string
	var err error
	if s.Lower != nil {
		if lower, err = e.operand(s.Lower); err != nil {
			return "", err
		}
	}
	if s.Upper != nil {
		if upper, err = e.operand(s.Upper); err != nil {
			return "", err
		}
	}
	return lower + ".." + upper, nil
}

func (e env) namedExpr(n *ast.NamedExpr) (string, error) {
	target, err := e.expr(n.Target)
	if err != nil {
		return "", err
	}
	value, err := e.expr(n.Value)
	if err != nil {
		return "", err
	}
	return "{ " + target + " = " + value + "; " + target + ".clone() }", nil
}

func (e env) lambda(l *ast.Lambda) (string, error) {
	inner := e.withSymbols(e.syms.PushScope())
	params := l.Args.Names()
	for i, p := range params {
		inner.syms = inner.syms.Insert(p, symbols.Assign{Position: i})
		params[i] = RustIdent(p)
	}
	body, err := inner.expr(l.Body)
	if err != nil {
		return "", err
	}
	return "|" + strings.Join(params, ", ") + "| " + body, nil
}

func (e env) ifExp(x *ast.IfExp) (string, error) {
	test, err := e.expr(x.Test)
	if err != nil {
		return "", err
	}
	body, err := e.expr(x.Body)
	if err != nil {
		return "", err
	}
	orelse, err := e.expr(x.OrElse)
	if err != nil {
		return "", err
	}
	return "if " + test + " { " + body + " } else { " + orelse + " }", nil
}

func (e env) await(a *ast.Await) (string, error) {
	v, err := e.operand(a.Value)
	if err != nil {
		return "", err
	}
	return v + ".await", nil
}
