package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/pyrust/internal/util"
)

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHintf(New("error"), "try setting value to %d", 42)

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "try setting value to 42", hints[0])
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.False(t, IsUnsupported(nil))
	assert.False(t, IsLookup(nil))
	assert.Equal(t, "", KindOf(nil))
}

func TestSentinels(t *testing.T) {
	err := NewNotFoundError("cache entry %s", "abc")
	assert.True(t, IsNotFoundError(err))
	assert.False(t, IsInvalidInputError(err))
	assert.Contains(t, err.Error(), "cache entry abc")

	err = NewInvalidInputError("missing %q", "_type")
	assert.True(t, IsInvalidInputError(err))
}

func TestLocationString(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{"file only", Location{File: "a.py"}, "a.py"},
		{"no file", Location{}, "<unknown>"},
		{"line", Location{File: "a.py", Line: util.Ptr(3)}, "a.py:3"},
		{"line col", Location{File: "a.py", Line: util.Ptr(3), Col: util.Ptr(4)}, "a.py:3:4"},
		{
			"same line span",
			Location{File: "a.py", Line: util.Ptr(3), Col: util.Ptr(4), EndLine: util.Ptr(3), EndCol: util.Ptr(9)},
			"a.py:3:4-9",
		},
		{
			"multi line span",
			Location{File: "a.py", Line: util.Ptr(3), Col: util.Ptr(4), EndLine: util.Ptr(5), EndCol: util.Ptr(1)},
			"a.py:3:4-5:1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.loc.String())
		})
	}
}

func TestTaxonomyIsDistinct(t *testing.T) {
	loc := Location{File: "m.py", Line: util.Ptr(1), Col: util.Ptr(0)}

	unsupported := NewUnsupported("Match", loc)
	operator := NewUnknownOperator("binary", "MatMult", loc)
	typ := NewUnknownType("expression", "TemplateStr", loc)
	lookup := NewLookup("helpers", "src", "lib")

	assert.True(t, IsUnsupported(unsupported))
	assert.False(t, IsUnsupported(operator))
	assert.True(t, IsUnknownOperator(operator))
	assert.False(t, IsUnknownOperator(typ))
	assert.True(t, IsUnknownType(typ))
	assert.True(t, IsLookup(lookup))
	assert.False(t, IsLookup(unsupported))

	assert.Equal(t, "unsupported construct Match at m.py:1:0", unsupported.Error())
	assert.Equal(t, "unsupported binary operator MatMult at m.py:1:0", operator.Error())
	assert.Equal(t, `could not resolve "helpers" in src:lib`, lookup.Error())

	located := NewLookupAt("..util", loc)
	assert.True(t, IsLookup(located))
	assert.Equal(t, `could not resolve "..util" at m.py:1:0`, located.Error())
	assert.Equal(t, `could not resolve "helpers" in src at m.py:1:0`, NewLookupAt("helpers", loc, "src").Error())
}

func TestUnsupportedSurvivesWrapping(t *testing.T) {
	err := Wrapf(NewUnsupportedf("Match", Location{File: "m.py"}, "pattern matching"), "translating %s", "m.py")

	assert.True(t, IsUnsupported(err))
	assert.Equal(t, "Match", KindOf(err))
	assert.Contains(t, err.Error(), "(pattern matching)")

	var target *UnsupportedConstructError
	require.True(t, As(err, &target))
	assert.Equal(t, "m.py", target.Location.File)
}

func ExampleLocation_String() {
	line, col := 12, 4
	fmt.Println(Location{File: "calc.py", Line: &line, Col: &col})
	// Output: calc.py:12:4
}
