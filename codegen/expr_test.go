package codegen

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/pyrust/ast"
	"github.com/teranos/pyrust/errors"
	"github.com/teranos/pyrust/symbols"
)

// =============================================================================
// Operators
// =============================================================================

func TestBinaryOperators(t *testing.T) {
	tests := []struct {
		op   ast.BinaryOperator
		want string
	}{
		{ast.Add, "a + b"},
		{ast.Sub, "a - b"},
		{ast.Mult, "a * b"},
		{ast.Div, "(a as f64) / (b as f64)"},
		{ast.Mod, "a % b"},
		{ast.Pow, "a.pow(b as u32)"},
		{ast.LShift, "a << b"},
		{ast.RShift, "a >> b"},
		{ast.BitOr, "a | b"},
		{ast.BitXor, "a ^ b"},
		{ast.BitAnd, "a & b"},
		{ast.FloorDiv, "floor_div(a, b)"},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, translateExpr(t, binop(name("a"), tt.op, name("b"))))
		})
	}
}

func TestBinaryOperatorRenderingsAreDistinct(t *testing.T) {
	seen := map[string]ast.BinaryOperator{}
	for _, op := range ast.BinaryOperators() {
		out, err := TranslateExpr(binop(name("left"), op, name("right")), Module("m"), DefaultOptions(), symbols.New())
		if op == ast.MatMult {
			assert.True(t, errors.IsUnknownOperator(err), "MatMult should be rejected")
			continue
		}
		require.NoError(t, err, op.String())
		assert.Contains(t, out, "left")
		assert.Contains(t, out, "right")
		if prev, dup := seen[out]; dup {
			t.Errorf("%s and %s both render as %q", prev, op, out)
		}
		seen[out] = op
	}
}

func TestUnknownOperatorsFail(t *testing.T) {
	opts := DefaultOptions().ForFile("calc.py")
	x := &ast.BinOp{Span: ast.At(4, 2, 4, 9), Left: name("a"), Op: ast.MatMult, Right: name("b")}
	_, err := TranslateExpr(x, Module("calc"), opts, symbols.New())
	require.Error(t, err)
	assert.True(t, errors.IsUnknownOperator(err))
	assert.Contains(t, err.Error(), "calc.py:4:2-9")

	_, err = TranslateExpr(&ast.UnaryOp{Op: ast.UnknownUnary, Operand: name("a")}, Module("m"), opts, symbols.New())
	assert.True(t, errors.IsUnknownOperator(err))

	_, err = TranslateExpr(&ast.BoolOp{Op: ast.UnknownBool, Values: []ast.Expr{name("a"), name("b")}}, Module("m"), opts, symbols.New())
	assert.True(t, errors.IsUnknownOperator(err))

	_, err = TranslateExpr(compare(name("a"), []ast.CompareOperator{ast.UnknownCompare}, name("b")), Module("m"), opts, symbols.New())
	assert.True(t, errors.IsUnknownOperator(err))
}

func TestOperandsParenthesised(t *testing.T) {
	sum := binop(name("a"), ast.Add, name("b"))
	assert.Equal(t, "(a + b) * c", translateExpr(t, binop(sum, ast.Mult, name("c"))))
	assert.Equal(t, "((a + b) as f64) / (c as f64)", translateExpr(t, binop(sum, ast.Div, name("c"))))
	assert.Equal(t, "f(x) - xs[0]", translateExpr(t, binop(call(name("f"), name("x")), ast.Sub, &ast.Subscript{Value: name("xs"), Slice: num("0")})))
}

func TestUnaryOperators(t *testing.T) {
	tests := []struct {
		op   ast.UnaryOperator
		want string
	}{
		{ast.Not, "!x"},
		{ast.Invert, "std::ops::Not::not(x)"},
		{ast.UAdd, "x"},
		{ast.USub, "-x"},
	}
	seen := map[string]bool{}
	for _, tt := range tests {
		out := translateExpr(t, &ast.UnaryOp{Op: tt.op, Operand: name("x")})
		assert.Equal(t, tt.want, out, tt.op.String())
		assert.False(t, seen[out], "duplicate rendering %q", out)
		seen[out] = true
	}

	and := &ast.BoolOp{Op: ast.And, Values: []ast.Expr{name("a"), name("b")}}
	assert.Equal(t, "!(a && b)", translateExpr(t, &ast.UnaryOp{Op: ast.Not, Operand: and}))
}

func TestBoolOp(t *testing.T) {
	lt := compare(name("a"), []ast.CompareOperator{ast.Lt}, name("b"))
	or := &ast.BoolOp{Op: ast.Or, Values: []ast.Expr{name("c"), name("d")}}
	x := &ast.BoolOp{Op: ast.And, Values: []ast.Expr{lt, or, name("e")}}
	assert.Equal(t, "a < b && (c || d) && e", translateExpr(t, x))
}

// =============================================================================
// Comparisons
// =============================================================================

func TestCompareChainIsPairwiseConjunction(t *testing.T) {
	x := compare(num("1"), []ast.CompareOperator{ast.Lt, ast.Lt}, name("a"), num("6"))
	out := translateExpr(t, x)
	assert.Equal(t, "1 < a && a < 6", out)

	assert.True(t, evalConjunction(t, out, map[string]int{"a": 5}))
	assert.False(t, evalConjunction(t, out, map[string]int{"a": 6}))
	assert.False(t, evalConjunction(t, out, map[string]int{"a": 0}))
}

// evalConjunction evaluates `x op y && ...` over integer literals and
// variables.
func evalConjunction(t *testing.T, expr string, vars map[string]int) bool {
	t.Helper()
	value := func(tok string) int {
		if v, ok := vars[tok]; ok {
			return v
		}
		n, err := strconv.Atoi(tok)
		require.NoError(t, err, "operand %q", tok)
		return n
	}
	for _, term := range strings.Split(expr, " && ") {
		parts := strings.Fields(term)
		require.Len(t, parts, 3, "term %q", term)
		l, r := value(parts[0]), value(parts[2])
		var ok bool
		switch parts[1] {
		case "<":
			ok = l < r
		case "<=":
			ok = l <= r
		case ">":
			ok = l > r
		case ">=":
			ok = l >= r
		case "==":
			ok = l == r
		case "!=":
			ok = l != r
		default:
			t.Fatalf("unexpected operator %q", parts[1])
		}
		if !ok {
			return false
		}
	}
	return true
}

func TestCompareOperators(t *testing.T) {
	tests := []struct {
		name string
		x    ast.Expr
		want string
	}{
		{"eq", compare(name("a"), []ast.CompareOperator{ast.Eq}, name("b")), "a == b"},
		{"not eq", compare(name("a"), []ast.CompareOperator{ast.NotEq}, name("b")), "a != b"},
		{"is", compare(name("a"), []ast.CompareOperator{ast.Is}, name("b")), "std::ptr::eq(&a, &b)"},
		{"is not", compare(name("a"), []ast.CompareOperator{ast.IsNot}, name("b")), "!std::ptr::eq(&a, &b)"},
		{"is none", compare(name("a"), []ast.CompareOperator{ast.Is}, ast.None()), "a.is_none()"},
		{"is not none", compare(name("a"), []ast.CompareOperator{ast.IsNot}, ast.None()), "a.is_some()"},
		{"in", compare(name("x"), []ast.CompareOperator{ast.In}, name("xs")), "xs.contains(&x)"},
		{"not in", compare(name("x"), []ast.CompareOperator{ast.NotIn}, name("xs")), "!xs.contains(&x)"},
		{"sum operand", compare(binop(name("a"), ast.Add, num("1")), []ast.CompareOperator{ast.GtE}, num("0")), "(a + 1) >= 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translateExpr(t, tt.x))
		})
	}
}

func TestMalformedCompareIsRejected(t *testing.T) {
	x := &ast.Compare{Left: name("a"), Ops: []ast.CompareOperator{ast.Lt, ast.Lt}, Comparators: []ast.Expr{name("b")}}
	_, err := TranslateExpr(x, Module("m"), DefaultOptions(), symbols.New())
	assert.True(t, errors.IsUnsupported(err))
}

// =============================================================================
// Literals and displays
// =============================================================================

func TestConstants(t *testing.T) {
	tests := []struct {
		name string
		c    *ast.Constant
		want string
	}{
		{"none", ast.None(), "None"},
		{"true", ast.Bool(true), "true"},
		{"false", ast.Bool(false), "false"},
		{"int", num("42"), "42"},
		{"int underscores", num("1_000"), "1000"},
		{"float", &ast.Constant{Type: ast.FloatConstant, Value: "2.5"}, "2.5"},
		{"float integral", &ast.Constant{Type: ast.FloatConstant, Value: "3"}, "3.0"},
		{"float trailing dot", &ast.Constant{Type: ast.FloatConstant, Value: "3."}, "3.0"},
		{"float inf", &ast.Constant{Type: ast.FloatConstant, Value: "inf"}, "f64::INFINITY"},
		{"str", str("hi"), `"hi"`},
		{"str escapes", str("a\"b\n"), `"a\"b\n"`},
		{"bytes", &ast.Constant{Type: ast.BytesConstant, Value: "ab\x00"}, `b"ab\x00"`},
		{"ellipsis", &ast.Constant{Type: ast.EllipsisConstant, Value: "..."}, "()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translateExpr(t, tt.c))
		})
	}

	_, err := TranslateExpr(&ast.Constant{Type: ast.ComplexConstant, Value: "2j"}, Module("m"), DefaultOptions(), symbols.New())
	assert.True(t, errors.IsUnsupported(err))
}

func TestDisplays(t *testing.T) {
	tests := []struct {
		name string
		x    ast.Expr
		want string
	}{
		{"list", &ast.List{Elts: []ast.Expr{num("1"), num("2")}}, "vec![1, 2]"},
		{"empty list", &ast.List{}, "vec![]"},
		{"empty tuple", tuple(), "()"},
		{"one tuple", tuple(num("1")), "(1,)"},
		{"pair", tuple(num("1"), str("a")), `(1, "a")`},
		{"empty set", &ast.Set{}, "std::collections::HashSet::new()"},
		{"set", &ast.Set{Elts: []ast.Expr{num("1")}}, "std::collections::HashSet::from([1])"},
		{"empty dict", &ast.Dict{}, "std::collections::HashMap::new()"},
		{"dict", &ast.Dict{Keys: []ast.Expr{str("a")}, Values: []ast.Expr{num("1")}}, `std::collections::HashMap::from([("a", 1)])`},
		{"starred element", &ast.List{Elts: []ast.Expr{&ast.Starred{Value: name("xs")}}}, "vec![xs]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translateExpr(t, tt.x))
		})
	}

	spread := &ast.Dict{Keys: []ast.Expr{nil}, Values: []ast.Expr{name("other")}}
	_, err := TranslateExpr(spread, Module("m"), DefaultOptions(), symbols.New())
	assert.True(t, errors.IsUnsupported(err))
}

func TestSubscript(t *testing.T) {
	xs := name("xs")
	assert.Equal(t, "xs[0]", translateExpr(t, &ast.Subscript{Value: xs, Slice: num("0")}))
	assert.Equal(t, "xs[1..3]", translateExpr(t, &ast.Subscript{Value: xs, Slice: &ast.Slice{Lower: num("1"), Upper: num("3")}}))
	assert.Equal(t, "xs[..]", translateExpr(t, &ast.Subscript{Value: xs, Slice: &ast.Slice{}}))
	assert.Equal(t, "xs[..n].iter().step_by(2)", translateExpr(t, &ast.Subscript{Value: xs, Slice: &ast.Slice{Upper: name("n"), Step: num("2")}}))
	assert.Equal(t, "xs[xs.len() - 1]", translateExpr(t, &ast.Subscript{Value: xs, Slice: &ast.UnaryOp{Op: ast.USub, Operand: num("1")}}))
}

// =============================================================================
// Names, calls, attributes
// =============================================================================

func TestNames(t *testing.T) {
	assert.Equal(t, "r#type", translateExpr(t, name("type")))
	assert.Equal(t, "Self_", translateExpr(t, name("Self")))
	assert.Equal(t, "self", translateExpr(t, name("self")))

	main := def("main", nil)
	ctx := Module("m").WithRename(main, "python_main")
	syms := symbols.New().Insert("main", symbols.FunctionDef{Def: main})
	assert.Equal(t, "python_main()", translateExprIn(t, call(name("main")), ctx, syms))
	assert.Equal(t, "main()", translateExprIn(t, call(name("main")), ctx, symbols.New()))
	assert.Equal(t, "main()", translateExpr(t, call(name("main"))))
}

func TestCallKeywords(t *testing.T) {
	sep := "sep"
	x := &ast.Call{
		Func:     name("print"),
		Args:     []ast.Expr{str("a"), &ast.Starred{Value: name("rest")}},
		Keywords: []*ast.Keyword{{Arg: &sep, Value: str("-")}, {Value: name("opts")}},
	}
	assert.Equal(t, `print("a", rest, /* sep = */ "-", /* ** */ opts)`, translateExpr(t, x))
}

func TestAttributeOfImportedModuleIsAPath(t *testing.T) {
	syms := symbols.New().
		Insert("helpers", symbols.Import{Module: "helpers"}).
		Insert("np", symbols.Alias{Target: "numpy"})

	x := call(attr(name("helpers"), "add"), num("1"))
	assert.Equal(t, "helpers::add(1)", translateExprIn(t, x, Module("m"), syms))
	assert.Equal(t, "numpy::linalg::norm(v)", translateExprIn(t, call(attr(attr(name("np"), "linalg"), "norm"), name("v")), Module("m"), syms))
	assert.Equal(t, "obj.add(1)", translateExprIn(t, call(attr(name("obj"), "add"), num("1")), Module("m"), syms))
	assert.Equal(t, "f(x).r#type", translateExpr(t, attr(call(name("f"), name("x")), "type")))
}

func TestCallingAClassConstructsItsData(t *testing.T) {
	syms := symbols.New().Insert("Point", symbols.ClassDef{Def: &ast.ClassDef{Name: "Point"}})
	assert.Equal(t, "Point::Data::default()", translateExprIn(t, call(name("Point")), Module("m"), syms))
	assert.Equal(t, "Point::Data::new(1, 2)", translateExprIn(t, call(name("Point"), num("1"), num("2")), Module("m"), syms))
}

// =============================================================================
// Other expressions
// =============================================================================

func TestLambdaAndConditional(t *testing.T) {
	lam := &ast.Lambda{Args: args("x", "y"), Body: binop(name("x"), ast.Add, name("y"))}
	assert.Equal(t, "|x, y| x + y", translateExpr(t, lam))

	ifexp := &ast.IfExp{Test: name("c"), Body: num("1"), OrElse: num("2")}
	assert.Equal(t, "if c { 1 } else { 2 }", translateExpr(t, ifexp))
}

func TestAwaitAndYield(t *testing.T) {
	ctx := Module("m").Async("fetch")
	assert.Equal(t, "get(url).await", translateExprIn(t, &ast.Await{Value: call(name("get"), name("url"))}, ctx, symbols.New()))
	assert.Equal(t, "(a + b).await", translateExprIn(t, &ast.Await{Value: binop(name("a"), ast.Add, name("b"))}, ctx, symbols.New()))
	assert.Equal(t, "/* yield */ x", translateExpr(t, &ast.Yield{Value: name("x")}))
	assert.Equal(t, "/* yield */ ()", translateExpr(t, &ast.Yield{}))
	assert.Equal(t, "/* yield from */ gen", translateExpr(t, &ast.YieldFrom{Value: name("gen")}))
}

func TestNamedExpr(t *testing.T) {
	x := &ast.NamedExpr{Target: name("n"), Value: call(name("len"), name("xs"))}
	assert.Equal(t, "{ n = len(xs); n.clone() }", translateExpr(t, x))
}

// =============================================================================
// Comprehensions
// =============================================================================

func TestComprehensions(t *testing.T) {
	gen := []*ast.Comprehension{{
		Target: name("x"),
		Iter:   name("xs"),
		Ifs:    []ast.Expr{compare(name("x"), []ast.CompareOperator{ast.Gt}, num("1"))},
	}}
	double := binop(name("x"), ast.Mult, num("2"))

	assert.Equal(t,
		"xs.into_iter().filter(|x| x > 1).map(|x| x * 2).collect::<Vec<_>>()",
		translateExpr(t, &ast.ListComp{Elt: double, Generators: gen}))
	assert.Equal(t,
		"xs.into_iter().filter(|x| x > 1).map(|x| x * 2).collect::<std::collections::HashSet<_>>()",
		translateExpr(t, &ast.SetComp{Elt: double, Generators: gen}))
	assert.Equal(t,
		"xs.into_iter().filter(|x| x > 1).map(|x| (x, x * 2)).collect::<std::collections::HashMap<_, _>>()",
		translateExpr(t, &ast.DictComp{Key: name("x"), Value: double, Generators: gen}))
	assert.Equal(t,
		"xs.into_iter().filter(|x| x > 1).map(|x| x * 2)",
		translateExpr(t, &ast.GeneratorExp{Elt: double, Generators: gen}))

	pairs := []*ast.Comprehension{{Target: tuple(name("k"), name("v")), Iter: call(attr(name("d"), "items"))}}
	assert.Equal(t,
		"d.items().into_iter().map(|(k, v)| k).collect::<Vec<_>>()",
		translateExpr(t, &ast.ListComp{Elt: name("k"), Generators: pairs}))
}

func TestMultiGeneratorComprehensionIsPlaceholder(t *testing.T) {
	gens := []*ast.Comprehension{
		{Target: name("x"), Iter: name("xs")},
		{Target: name("y"), Iter: name("ys")},
	}
	assert.Equal(t, "/* nested comprehension not supported */ Vec::new()",
		translateExpr(t, &ast.ListComp{Elt: name("x"), Generators: gens}))
	assert.Equal(t, "/* nested comprehension not supported */ std::collections::HashMap::new()",
		translateExpr(t, &ast.DictComp{Key: name("x"), Value: name("y"), Generators: gens}))
	assert.Equal(t, "/* nested comprehension not supported */ std::iter::empty()",
		translateExpr(t, &ast.GeneratorExp{Elt: name("x"), Generators: gens}))
}

// =============================================================================
// f-strings
// =============================================================================

func TestJoinedStr(t *testing.T) {
	tests := []struct {
		name string
		x    *ast.JoinedStr
		want string
	}{
		{"empty", &ast.JoinedStr{}, "String::new()"},
		{"literal only", &ast.JoinedStr{Values: []ast.Expr{str("{x}")}}, `format!("{{x}}")`},
		{
			"field",
			&ast.JoinedStr{Values: []ast.Expr{str("x = "), &ast.FormattedValue{Value: name("x"), Conversion: ast.NoConversion}}},
			`format!("x = {}", x)`,
		},
		{
			"repr",
			&ast.JoinedStr{Values: []ast.Expr{&ast.FormattedValue{Value: name("x"), Conversion: ast.ReprConversion}}},
			`format!("{:?}", x)`,
		},
		{
			"spec",
			&ast.JoinedStr{Values: []ast.Expr{&ast.FormattedValue{
				Value:      name("pi"),
				Conversion: ast.NoConversion,
				FormatSpec: &ast.JoinedStr{Values: []ast.Expr{str(">8.2f")}},
			}}},
			`format!("{:>8.2}", pi)`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translateExpr(t, tt.x))
		})
	}

	computed := &ast.JoinedStr{Values: []ast.Expr{&ast.FormattedValue{
		Value:      name("x"),
		Conversion: ast.NoConversion,
		FormatSpec: &ast.JoinedStr{Values: []ast.Expr{&ast.FormattedValue{Value: name("w"), Conversion: ast.NoConversion}}},
	}}}
	_, err := TranslateExpr(computed, Module("m"), DefaultOptions(), symbols.New())
	assert.True(t, errors.IsUnsupported(err))
}

func TestPythonSpecToRust(t *testing.T) {
	assert.Equal(t, ".2", pythonSpecToRust(".2f"))
	assert.Equal(t, ">10", pythonSpecToRust(">10"))
	assert.Equal(t, "08", pythonSpecToRust("08d"))
	assert.Equal(t, "x", pythonSpecToRust("x"))
	assert.Equal(t, "", pythonSpecToRust(","))
}

// =============================================================================
// Coverage of every expression kind
// =============================================================================

// TestEveryExpressionKindIsHandled checks that each concrete expression type
// has a translation, and that the placeholders fail with a typed error
// instead of panicking.
func TestEveryExpressionKindIsHandled(t *testing.T) {
	gen := []*ast.Comprehension{{Target: name("x"), Iter: name("xs")}}
	supported := []ast.Expr{
		&ast.BoolOp{Op: ast.Or, Values: []ast.Expr{name("a"), name("b")}},
		&ast.NamedExpr{Target: name("a"), Value: num("1")},
		binop(name("a"), ast.Add, name("b")),
		&ast.UnaryOp{Op: ast.Not, Operand: name("a")},
		&ast.Await{Value: name("a")},
		compare(name("a"), []ast.CompareOperator{ast.Lt}, name("b")),
		call(name("f")),
		num("1"),
		attr(name("a"), "b"),
		name("a"),
		&ast.List{},
		tuple(),
		&ast.Set{},
		&ast.Dict{},
		&ast.Subscript{Value: name("a"), Slice: num("0")},
		&ast.Slice{Lower: num("0")},
		&ast.Starred{Value: name("a")},
		&ast.Lambda{Args: args(), Body: num("1")},
		&ast.IfExp{Test: name("a"), Body: name("b"), OrElse: name("c")},
		&ast.ListComp{Elt: name("x"), Generators: gen},
		&ast.SetComp{Elt: name("x"), Generators: gen},
		&ast.DictComp{Key: name("x"), Value: name("x"), Generators: gen},
		&ast.GeneratorExp{Elt: name("x"), Generators: gen},
		&ast.JoinedStr{},
		&ast.FormattedValue{Value: name("a"), Conversion: ast.NoConversion},
		&ast.Yield{},
		&ast.YieldFrom{Value: name("a")},
	}
	for _, x := range supported {
		t.Run(x.Kind(), func(t *testing.T) {
			out, err := TranslateExpr(x, Module("m"), DefaultOptions(), symbols.New())
			require.NoError(t, err)
			assert.NotEmpty(t, out)
		})
	}

	opts := DefaultOptions().ForFile("app.py")
	unimplemented := &ast.UnimplementedExpr{Span: ast.Line(7), Name: "TemplateStr"}
	_, err := TranslateExpr(unimplemented, Module("app"), opts, symbols.New())
	require.Error(t, err)
	assert.True(t, errors.IsUnsupported(err))
	assert.Equal(t, "TemplateStr", errors.KindOf(err))
	assert.Contains(t, err.Error(), "app.py:7")

	_, err = TranslateExpr(&ast.UnknownExpr{}, Module("app"), opts, symbols.New())
	assert.True(t, errors.IsUnsupported(err))

	// An unsupported node deep inside a supported one still surfaces unchanged.
	nested := call(name("f"), &ast.List{Elts: []ast.Expr{unimplemented}})
	_, err = TranslateExpr(nested, Module("app"), opts, symbols.New())
	assert.Equal(t, "TemplateStr", errors.KindOf(err))

	_, err = TranslateExpr(nil, Module("app"), opts, symbols.New())
	assert.True(t, errors.IsUnknownType(err))
}
