package assembler

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/pyrust/ast"
	"github.com/teranos/pyrust/codegen"
	"github.com/teranos/pyrust/errors"
)

func call(fn string, args ...ast.Expr) *ast.ExprStmt {
	return &ast.ExprStmt{Value: &ast.Call{Func: ast.Ident(fn), Args: args}}
}

func def(name string, body ...ast.Stmt) *ast.FunctionDef {
	return &ast.FunctionDef{Name: name, Args: &ast.Arguments{}, Body: body}
}

func guard(reversed bool, body ...ast.Stmt) *ast.If {
	left, right := ast.Expr(ast.Ident("__name__")), ast.Expr(ast.Str("__main__"))
	if reversed {
		left, right = right, left
	}
	return &ast.If{
		Test: &ast.Compare{Left: left, Ops: []ast.CompareOperator{ast.Eq}, Comparators: []ast.Expr{right}},
		Body: body,
	}
}

func source(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

func TestTranslateRenamesUserMain(t *testing.T) {
	m := ast.NewModule("calculator.py", []ast.Stmt{
		&ast.ExprStmt{Value: ast.Str("Calculator.")},
		&ast.Import{Names: []*ast.Alias{{Name: "os"}}},
		&ast.ImportFrom{Module: "helpers", Names: []*ast.Alias{{Name: "add"}}},
		def("main", &ast.ExprStmt{Value: &ast.Call{
			Func: ast.Ident("print"),
			Args: []ast.Expr{&ast.Call{Func: ast.Ident("add"), Args: []ast.Expr{ast.Int("1"), ast.Int("2")}}},
		}}),
		guard(false, call("main")),
	})

	res, err := Translate(m, codegen.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, source(
		"//! Calculator.",
		"",
		"use stdpython::*;",
		"",
		"use helpers::add;",
		"",
		"pub fn python_main() {",
		"    print(add(1, 2));",
		"}",
		"",
		"fn main() {",
		"    python_main();",
		"}",
	), res.Source)
	assert.Equal(t, "calculator", res.Name)
	assert.Equal(t, []string{"main"}, res.Renamed)
	assert.Equal(t, []string{"helpers::add"}, res.Imports)
	assert.True(t, res.EntryPoint)
	assert.False(t, res.Async)
	assert.NotEmpty(t, res.ID)
}

func TestTranslateAsyncMainWithoutGuard(t *testing.T) {
	main := def("main", &ast.ExprStmt{Value: &ast.Await{Value: &ast.Call{Func: ast.Ident("run")}}})
	main.IsAsync = true
	m := ast.NewModule("app.py", []ast.Stmt{main})

	res, err := Translate(m, codegen.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, source(
		"use stdpython::*;",
		"use tokio;",
		"",
		"pub async fn python_main() {",
		"    run().await;",
		"}",
		"",
		"#[tokio::main]",
		"async fn main() {",
		"    python_main().await;",
		"}",
	), res.Source)
	assert.True(t, res.Async)
}

func TestEntryPointRunsUserMainThenGuards(t *testing.T) {
	m := ast.NewModule("prog.py", []ast.Stmt{
		def("main", call("D")),
		guard(false, call("A"), call("B")),
		guard(true, call("C")),
	})

	res, err := Translate(m, codegen.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, source(
		"use stdpython::*;",
		"",
		"pub fn python_main() {",
		"    D();",
		"}",
		"",
		"fn main() {",
		"    python_main();",
		"    A();",
		"    B();",
		"    C();",
		"}",
	), res.Source)
	assert.Equal(t, 1, strings.Count(res.Source, "fn main("))
	assert.Equal(t, []string{"main"}, res.Renamed)
}

func TestEntryPointCallsUserMainOnce(t *testing.T) {
	m := ast.NewModule("prog.py", []ast.Stmt{
		def("main", call("D")),
		guard(false, call("A"), call("main")),
	})

	res, err := Translate(m, codegen.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, res.Source, "fn main() {\n    A();\n    python_main();\n}\n")
	assert.Equal(t, 1, strings.Count(res.Source, "python_main();"))
}

func TestOnlyTopLevelMainIsRenamed(t *testing.T) {
	method := def("main", &ast.Pass{})
	method.Args = &ast.Arguments{Args: []*ast.Arg{{Name: "self"}}}
	run := def("run", &ast.Return{Value: ast.Ident("main")})
	run.Args = &ast.Arguments{Args: []*ast.Arg{{Name: "main"}}}
	app := &ast.Assign{
		Targets: []ast.Expr{ast.Ident("app")},
		Value:   &ast.Call{Func: ast.Ident("Cls")},
	}
	m := ast.NewModule("prog.py", []ast.Stmt{
		def("main", &ast.Pass{}),
		run,
		&ast.ClassDef{Name: "Cls", Body: []ast.Stmt{method}},
		guard(false, app, &ast.ExprStmt{Value: &ast.Call{Func: &ast.Attribute{Value: ast.Ident("app"), Attr: "main"}}}),
	})

	res, err := Translate(m, codegen.DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, res.Source, "pub fn run(main: PyObject) -> PyObject {\n    return main;\n}\n")
	assert.Contains(t, res.Source, "        fn main(&self) {\n")
	assert.Contains(t, res.Source, "    app.main();\n")
	assert.NotContains(t, res.Source, "fn python_main(&self)")
	assert.Contains(t, res.Source, "fn main() {\n    python_main();\n")
}

func TestTranslateRuntimeAdapters(t *testing.T) {
	fetch := def("fetch", &ast.Return{})
	fetch.IsAsync = true
	m := ast.NewModule("app.py", []ast.Stmt{fetch, guard(false, call("fetch"))})

	tests := []struct {
		name      string
		opts      codegen.Options
		attribute string
		use       string
	}{
		{"tokio", codegen.WithTokio(), "#[tokio::main]", "use tokio;"},
		{"async-std", codegen.WithAsyncStd(), "#[async_std::main]", "use async_std;"},
		{"smol", codegen.WithSmol(), "#[smol_potat::main]", "use smol_potat;"},
		{"custom", codegen.WithCustomRuntime("my_rt::main", "my_rt"), "#[my_rt::main]", "use my_rt;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Translate(m, tt.opts)
			require.NoError(t, err)
			assert.Contains(t, res.Source, "\n"+tt.use+"\n")
			assert.Contains(t, res.Source, "\n"+tt.attribute+"\nasync fn main() {\n")
			assert.Contains(t, res.Source, "    fetch();\n")
		})
	}
}

func TestTranslateConsolidatesGuardsAndTopLevelStatements(t *testing.T) {
	m := ast.NewModule("script.py", []ast.Stmt{
		def("helper", &ast.Pass{}),
		call("print", ast.Str("start")),
		guard(false, call("helper")),
		guard(true, call("print", ast.Str("done"))),
	})

	res, err := Translate(m, codegen.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, source(
		"use stdpython::*;",
		"",
		"pub fn helper() {",
		"}",
		"",
		"fn main() {",
		`    print("start");`,
		"    helper();",
		`    print("done");`,
		"}",
	), res.Source)
	assert.Empty(t, res.Renamed)
}

func TestTranslateLibraryModuleHasNoEntryPoint(t *testing.T) {
	m := ast.NewModule("lib.py", []ast.Stmt{
		&ast.Assign{Targets: []ast.Expr{ast.Ident("LIMIT")}, Value: ast.Int("10")},
		def("helper", &ast.Return{Value: ast.Ident("LIMIT")}),
	})
	opts := codegen.DefaultOptions()
	opts.EmitRuntimeShimImport = false

	res, err := Translate(m, opts)
	require.NoError(t, err)
	assert.Equal(t, source(
		"pub static LIMIT: i64 = 10;",
		"",
		"pub fn helper() -> PyObject {",
		"    return LIMIT;",
		"}",
	), res.Source)
	assert.False(t, res.EntryPoint)
}

func TestIsMainGuard(t *testing.T) {
	assert.True(t, IsMainGuard(guard(false)))
	assert.True(t, IsMainGuard(guard(true)))

	withElse := guard(false)
	withElse.OrElse = []ast.Stmt{&ast.Pass{}}
	assert.False(t, IsMainGuard(withElse))

	notEq := guard(false)
	notEq.Test.(*ast.Compare).Ops = []ast.CompareOperator{ast.NotEq}
	assert.False(t, IsMainGuard(notEq))

	other := &ast.If{Test: &ast.Compare{
		Left:        ast.Ident("__name__"),
		Ops:         []ast.CompareOperator{ast.Eq},
		Comparators: []ast.Expr{ast.Str("lib")},
	}}
	assert.False(t, IsMainGuard(other))
}

func TestTranslateFailureAbortsModule(t *testing.T) {
	m := ast.NewModule("bad.py", []ast.Stmt{
		def("ok", &ast.Pass{}),
		&ast.UnimplementedStmt{Span: ast.Line(7), Name: "Match"},
	})
	res, err := Translate(m, codegen.DefaultOptions())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.IsUnsupported(err))
	assert.Contains(t, err.Error(), "bad.py:7")

	_, err = Translate(nil, codegen.DefaultOptions())
	assert.True(t, errors.IsInvalidInputError(err))

	_, err = Translate(m, codegen.WithCustomRuntime("", ""))
	assert.Error(t, err)
}

func TestTranslateAllKeepsInputOrder(t *testing.T) {
	var modules []*ast.Module
	for _, path := range []string{"a.py", "b.py", "c.py", "d.py"} {
		modules = append(modules, ast.NewModule(path, []ast.Stmt{def("f", &ast.Pass{})}))
	}
	results, err := TranslateAll(context.Background(), modules, codegen.DefaultOptions(), 2)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, r := range results {
		assert.Equal(t, modules[i].Name, r.Name)
	}
}

func TestTranslateAllReportsFailingModule(t *testing.T) {
	modules := []*ast.Module{
		ast.NewModule("good.py", nil),
		ast.NewModule("broken.py", []ast.Stmt{&ast.UnimplementedStmt{Name: "Match"}}),
	}
	_, err := TranslateAll(context.Background(), modules, codegen.DefaultOptions(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "translating broken.py")
	assert.True(t, errors.IsUnsupported(err))
}

func TestTranslateAllHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := TranslateAll(ctx, []*ast.Module{ast.NewModule("a.py", nil)}, codegen.DefaultOptions(), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "pkg/sub/mod.rs", OutputPath("pkg::sub::mod"))
	assert.Equal(t, "calc.rs", OutputPath("calc"))
}
