// Package symbols implements the translator's scope stack.
//
// A Table is a LIFO stack of name→Binding maps. Tables are values: every
// operation returns a new Table and leaves its receiver untouched, so a table
// can be handed to sibling subtrees without any of them observing the
// others' insertions.
package symbols

import (
	"fmt"

	"github.com/teranos/pyrust/ast"
)

// BindingKind classifies how a name was introduced.
type BindingKind int

const (
	AssignBinding BindingKind = iota
	FunctionBinding
	ClassBinding
	ImportBinding
	ImportFromBinding
	AliasBinding
)

func (k BindingKind) String() string {
	switch k {
	case AssignBinding:
		return "assign"
	case FunctionBinding:
		return "function"
	case ClassBinding:
		return "class"
	case ImportBinding:
		return "import"
	case ImportFromBinding:
		return "import-from"
	case AliasBinding:
		return "alias"
	default:
		return fmt.Sprintf("BindingKind(%d)", int(k))
	}
}

// Binding is a symbol-table entry. The set of variants is closed.
type Binding interface {
	Kind() BindingKind
	binding()
}

// Assign binds a name to the value of an assignment. Position is the
// target's ordinal among simultaneous targets (`a, b = ...` gives a 0 and b 1).
type Assign struct {
	Position int
	Value    ast.Expr
}

// FunctionDef binds a name to a function definition.
type FunctionDef struct {
	Def *ast.FunctionDef
}

// ClassDef binds a name to a class definition.
type ClassDef struct {
	Def *ast.ClassDef
}

// Import binds a name to an imported module path.
type Import struct {
	Module string
}

// ImportFrom binds a name imported from a module.
type ImportFrom struct {
	Module string
	Name   string
}

// Alias binds a name to another name.
type Alias struct {
	Target string
}

func (Assign) Kind() BindingKind      { return AssignBinding }
func (FunctionDef) Kind() BindingKind { return FunctionBinding }
func (ClassDef) Kind() BindingKind    { return ClassBinding }
func (Import) Kind() BindingKind      { return ImportBinding }
func (ImportFrom) Kind() BindingKind  { return ImportFromBinding }
func (Alias) Kind() BindingKind       { return AliasBinding }

func (Assign) binding()      {}
func (FunctionDef) binding() {}
func (ClassDef) binding()    {}
func (Import) binding()      {}
func (ImportFrom) binding()  {}
func (Alias) binding()       {}

// IsAsyncFunction reports whether b binds an async function.
func IsAsyncFunction(b Binding) bool {
	fn, ok := b.(FunctionDef)
	return ok && fn.Def != nil && fn.Def.IsAsync
}
