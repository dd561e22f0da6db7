package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/pyrust/ast"
)

func TestInsertAndLookup(t *testing.T) {
	tbl := New().Insert("x", Assign{Position: 0})

	b, ok := tbl.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, AssignBinding, b.Kind())

	_, ok = tbl.Lookup("y")
	assert.False(t, ok)
}

func TestInnerScopeShadowsOuter(t *testing.T) {
	outer := New().Insert("x", Import{Module: "os"})
	inner := outer.PushScope().Insert("x", Alias{Target: "y"})

	b, _ := inner.Lookup("x")
	assert.Equal(t, Alias{Target: "y"}, b)

	_, local := outer.PushScope().LookupLocal("x")
	assert.False(t, local, "a fresh scope has no local bindings")

	popped, scope, ok := inner.PopScope()
	require.True(t, ok)
	assert.Contains(t, scope, "x")
	b, _ = popped.Lookup("x")
	assert.Equal(t, Import{Module: "os"}, b)
	assert.True(t, popped.Equal(outer))
}

func TestTablesAreValues(t *testing.T) {
	base := New().Insert("a", Assign{})
	left := base.Insert("b", Assign{Position: 1})
	right := base.Insert("c", ClassDef{})

	assert.Equal(t, []string{"a"}, base.Names())
	assert.Equal(t, []string{"a", "b"}, left.Names())
	assert.Equal(t, []string{"a", "c"}, right.Names())
	assert.False(t, left.Equal(right))

	pushed := base.PushScope()
	assert.Equal(t, 2, pushed.Depth())
	assert.Equal(t, 1, base.Depth())
}

func TestReinsertReplacesInSameScope(t *testing.T) {
	tbl := New().Insert("f", Assign{}).Insert("f", FunctionDef{})
	b, _ := tbl.LookupLocal("f")
	assert.Equal(t, FunctionBinding, b.Kind())
	assert.Equal(t, []string{"f"}, tbl.Names())
}

func TestZeroTable(t *testing.T) {
	var tbl Table
	assert.Equal(t, 0, tbl.Depth())
	assert.Nil(t, tbl.Names())

	_, _, ok := tbl.PopScope()
	assert.False(t, ok)

	tbl = tbl.Insert("x", Assign{})
	assert.Equal(t, 1, tbl.Depth())
}

func TestBindingKinds(t *testing.T) {
	tests := []struct {
		b    Binding
		want string
	}{
		{Assign{}, "assign"},
		{FunctionDef{}, "function"},
		{ClassDef{}, "class"},
		{Import{}, "import"},
		{ImportFrom{}, "import-from"},
		{Alias{}, "alias"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.b.Kind().String())
	}
	assert.Equal(t, "BindingKind(42)", BindingKind(42).String())
}

func TestIsAsyncFunction(t *testing.T) {
	assert.True(t, IsAsyncFunction(FunctionDef{Def: &ast.FunctionDef{IsAsync: true}}))
	assert.False(t, IsAsyncFunction(FunctionDef{Def: &ast.FunctionDef{}}))
	assert.False(t, IsAsyncFunction(FunctionDef{}))
	assert.False(t, IsAsyncFunction(Assign{}))
}
