package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/pyrust/errors"
)

// def add(a, b=1):
//
//	"""Add."""
//	return a + b
const addJSON = `{
  "_type": "Module",
  "body": [
    {
      "_type": "FunctionDef", "name": "add", "lineno": 1, "col_offset": 0,
      "args": {
        "_type": "arguments",
        "posonlyargs": [],
        "args": [{"_type": "arg", "arg": "a"}, {"_type": "arg", "arg": "b"}],
        "kwonlyargs": [{"_type": "arg", "arg": "k"}],
        "kw_defaults": [null],
        "defaults": [{"_type": "Constant", "type": "int", "value": 1}]
      },
      "body": [
        {"_type": "Expr", "value": {"_type": "Constant", "type": "str", "value": "Add."}},
        {
          "_type": "Return", "lineno": 3, "col_offset": 4, "end_lineno": 3, "end_col_offset": 16,
          "value": {
            "_type": "BinOp",
            "left": {"_type": "Name", "id": "a", "ctx": {"_type": "Load"}},
            "op": {"_type": "Add"},
            "right": {"_type": "Name", "id": "b", "ctx": {"_type": "Load"}}
          }
        }
      ],
      "decorator_list": []
    },
    {"_type": "Match", "lineno": 5, "col_offset": 0}
  ],
  "type_ignores": [],
  "source_encoding": "utf-8"
}`

func TestDecodeJSON(t *testing.T) {
	m, err := DecodeJSON(strings.NewReader(addJSON), "pkg/calc.py")
	require.NoError(t, err)

	assert.Equal(t, "pkg::calc", m.Name)
	assert.Equal(t, map[string]string{"source_encoding": "utf-8"}, m.Attributes)
	require.Len(t, m.Body, 2)

	fn, ok := m.Body[0].(*FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, []string{"a", "b", "k"}, fn.Args.Names())
	assert.Nil(t, fn.Args.PositionalDefault(0))
	assert.Equal(t, Int("1"), fn.Args.PositionalDefault(1))
	assert.Nil(t, fn.Args.KeywordDefault(0))
	assert.True(t, fn.Args.WellFormed())

	doc, ok := fn.Docstring()
	require.True(t, ok)
	assert.Equal(t, "Add.", doc)

	ret := fn.Body[1].(*Return)
	assert.Equal(t, "pkg/calc.py:3:4-16", ret.Pos().Location("pkg/calc.py").String())
	bin := ret.Value.(*BinOp)
	assert.Equal(t, Add, bin.Op)
	assert.Equal(t, Load, bin.Left.(*Name).Ctx)

	unknown, ok := m.Body[1].(*UnimplementedStmt)
	require.True(t, ok)
	assert.Equal(t, "Match", unknown.Kind())
}

func TestDecodeYAMLMatchesJSON(t *testing.T) {
	doc := `
_type: Module
body:
  - _type: Assign
    targets:
      - {_type: Name, id: x, ctx: {_type: Store}}
    value: {_type: Constant, type: float, value: 2.5}
  - _type: ImportFrom
    module: models
    level: 1
    names:
      - {_type: alias, name: User, asname: U}
`
	m, err := DecodeYAML(strings.NewReader(doc), "m.py")
	require.NoError(t, err)
	require.Len(t, m.Body, 2)

	a := m.Body[0].(*Assign)
	assert.Equal(t, &Constant{Type: FloatConstant, Value: "2.5"}, a.Value)
	assert.Equal(t, Store, a.Targets[0].(*Name).Ctx)

	imp := m.Body[1].(*ImportFrom)
	assert.Equal(t, 1, imp.Level)
	assert.Equal(t, "U", imp.Names[0].BoundName())
}

func TestDecodeRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"wrong root", `{"_type": "Expression", "body": []}`},
		{"body not a list", `{"_type": "Module", "body": 3}`},
		{"untyped statement", `{"_type": "Module", "body": [{"lineno": 2}]}`},
		{"assign without targets", `{"_type": "Module", "body": [{"_type": "Assign", "targets": [], "value": {"_type": "Name", "id": "x"}}]}`},
		{"null assign target", `{"_type": "Module", "body": [{"_type": "Assign", "targets": [null], "value": {"_type": "Name", "id": "x"}}]}`},
		{"null list element", `{"_type": "Module", "body": [{"_type": "Expr", "value": {"_type": "List", "elts": [null]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON(strings.NewReader(tt.doc), "bad.py")
			require.Error(t, err)
			assert.True(t, errors.IsInvalidInputError(err))
		})
	}
}

func TestDecodeDictSpreadKeepsNullKey(t *testing.T) {
	doc := `{"_type": "Module", "body": [{"_type": "Expr", "value": {"_type": "Dict",
		"keys": [null, {"_type": "Constant", "value": "a"}],
		"values": [{"_type": "Name", "id": "base"}, {"_type": "Constant", "value": 1}]}}]}`
	m, err := DecodeJSON(strings.NewReader(doc), "spread.py")
	require.NoError(t, err)
	d := m.Body[0].(*ExprStmt).Value.(*Dict)
	require.Len(t, d.Keys, 2)
	assert.Nil(t, d.Keys[0])
	assert.NotNil(t, d.Keys[1])
}

func TestModuleName(t *testing.T) {
	tests := map[string]string{
		"calculator.py":    "calculator",
		"pkg/sub/mod.py":   "pkg::sub::mod",
		"pkg/__init__.py":  "pkg",
		"./scripts/run.py": "scripts::run",
		`win\path\tool.py`: "win::path::tool",
		"":                 "__main__",
		"__init__.py":      "__init__",
		"noext":            "noext",
	}
	for in, want := range tests {
		assert.Equal(t, want, ModuleName(in), in)
	}
}

func TestInspectVisitsNestedNodes(t *testing.T) {
	m, err := DecodeJSON(strings.NewReader(addJSON), "calc.py")
	require.NoError(t, err)

	var names []string
	Inspect(m, func(n Node) bool {
		if name, ok := n.(*Name); ok {
			names = append(names, name.ID)
		}
		return true
	})
	assert.Equal(t, []string{"a", "b"}, names)

	var kinds []string
	Inspect(m, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		_, isFn := n.(*FunctionDef)
		return !isFn
	})
	assert.Equal(t, []string{"Module", "FunctionDef", "Match"}, kinds)
}

func TestContainsAsyncAndBreak(t *testing.T) {
	async := &FunctionDef{Name: "f", Args: &Arguments{}, IsAsync: true}
	inner := &ClassDef{Name: "C", Body: []Stmt{async}}
	assert.True(t, ContainsAsync(NewModule("m.py", []Stmt{inner})))
	assert.False(t, ContainsAsync(NewModule("m.py", []Stmt{&Pass{}})))

	nested := &While{Test: Ident("x"), Body: []Stmt{&Break{}}}
	assert.False(t, ContainsBreak([]Stmt{nested}))
	assert.True(t, ContainsBreak([]Stmt{&If{Test: Ident("x"), Body: []Stmt{&Break{}}}}))
}

func TestDottedName(t *testing.T) {
	dotted, ok := DottedName(&Attribute{Value: &Attribute{Value: Ident("a"), Attr: "b"}, Attr: "c"})
	require.True(t, ok)
	assert.Equal(t, "a.b.c", dotted)

	_, ok = DottedName(&Attribute{Value: &Call{Func: Ident("f")}, Attr: "x"})
	assert.False(t, ok)
}

func TestErrorMessage(t *testing.T) {
	n := &For{Span: At(4, 0, 6, 8)}
	assert.Equal(t, "parsing for loop calc.py:4:0-6:8", ErrorMessage(n, "calc.py", "parsing for loop"))
	assert.Equal(t, "parsing m.py", ErrorMessage(nil, "m.py", "parsing"))
	assert.Equal(t, "m.py:2", LocationOf(&Pass{Span: Line(2)}, "m.py").String())
}

func TestOperatorRoundTrip(t *testing.T) {
	for _, op := range BinaryOperators() {
		assert.Equal(t, op, ParseBinaryOperator(op.String()))
	}
	for _, op := range CompareOperators() {
		assert.Equal(t, op, ParseCompareOperator(op.String()))
	}
}
