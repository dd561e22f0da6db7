package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teranos/pyrust/ast"
	"github.com/teranos/pyrust/symbols"
)

// =============================================================================
// Tree builders
// =============================================================================

func name(id string) *ast.Name { return ast.Ident(id) }

func call(fn ast.Expr, args ...ast.Expr) *ast.Call {
	return &ast.Call{Func: fn, Args: args}
}

func attr(value ast.Expr, a string) *ast.Attribute {
	return &ast.Attribute{Value: value, Attr: a}
}

func binop(l ast.Expr, op ast.BinaryOperator, r ast.Expr) *ast.BinOp {
	return &ast.BinOp{Left: l, Op: op, Right: r}
}

func compare(left ast.Expr, ops []ast.CompareOperator, comparators ...ast.Expr) *ast.Compare {
	return &ast.Compare{Left: left, Ops: ops, Comparators: comparators}
}

func do(x ast.Expr) *ast.ExprStmt { return &ast.ExprStmt{Value: x} }

func assign(target ast.Expr, value ast.Expr) *ast.Assign {
	return &ast.Assign{Targets: []ast.Expr{target}, Value: value}
}

func tuple(elts ...ast.Expr) *ast.Tuple { return &ast.Tuple{Elts: elts} }

func args(names ...string) *ast.Arguments {
	a := &ast.Arguments{}
	for _, n := range names {
		a.Args = append(a.Args, &ast.Arg{Name: n})
	}
	return a
}

func def(fn string, params *ast.Arguments, body ...ast.Stmt) *ast.FunctionDef {
	if params == nil {
		params = &ast.Arguments{}
	}
	return &ast.FunctionDef{Name: fn, Args: params, Body: body}
}

func str(s string) *ast.Constant { return ast.Str(s) }

func num(digits string) *ast.Constant { return ast.Int(digits) }

// =============================================================================
// Translation helpers
// =============================================================================

func inFunction() Context { return Module("m").Function("f") }

func translateExpr(t *testing.T, x ast.Expr) string {
	t.Helper()
	return translateExprIn(t, x, Module("m"), symbols.New())
}

func translateExprIn(t *testing.T, x ast.Expr, ctx Context, syms symbols.Table) string {
	t.Helper()
	out, err := TranslateExpr(x, ctx, DefaultOptions(), syms)
	require.NoError(t, err)
	return out
}

func translateBody(t *testing.T, ctx Context, body ...ast.Stmt) string {
	t.Helper()
	out, err := TranslateBody(body, ctx, DefaultOptions(), symbols.New())
	require.NoError(t, err)
	return out.String()
}

// lines joins expected output lines the way Lines.String does.
func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}
