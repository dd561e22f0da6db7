package symbols

import (
	"reflect"
	"sort"
)

// Scope maps names to bindings within one lexical level.
type Scope map[string]Binding

// Table is a stack of scopes, innermost first. The zero Table has no scopes;
// use New for a table with a module scope ready for insertions.
type Table struct {
	scopes []Scope
}

// New returns a table with one empty (module) scope.
func New() Table {
	return Table{scopes: []Scope{{}}}
}

// PushScope returns a table with an empty scope prepended.
func (t Table) PushScope() Table {
	scopes := make([]Scope, 0, len(t.scopes)+1)
	scopes = append(scopes, Scope{})
	scopes = append(scopes, t.scopes...)
	return Table{scopes: scopes}
}

// PopScope removes the innermost scope. It returns the remaining table, the
// removed scope, and false when there was nothing to pop.
func (t Table) PopScope() (Table, Scope, bool) {
	if len(t.scopes) == 0 {
		return t, nil, false
	}
	rest := make([]Scope, len(t.scopes)-1)
	copy(rest, t.scopes[1:])
	return Table{scopes: rest}, t.scopes[0], true
}

// Insert binds name in the innermost scope, replacing any earlier binding of
// the same name in that scope. Enclosing scopes are never touched. Inserting
// into a table with no scopes first pushes one.
func (t Table) Insert(name string, b Binding) Table {
	if len(t.scopes) == 0 {
		t = t.PushScope()
	}
	inner := make(Scope, len(t.scopes[0])+1)
	for k, v := range t.scopes[0] {
		inner[k] = v
	}
	inner[name] = b

	scopes := make([]Scope, len(t.scopes))
	copy(scopes, t.scopes)
	scopes[0] = inner
	return Table{scopes: scopes}
}

// Lookup searches from the innermost scope outwards and returns the first
// binding of name.
func (t Table) Lookup(name string) (Binding, bool) {
	for _, scope := range t.scopes {
		if b, ok := scope[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// LookupLocal searches only the innermost scope.
func (t Table) LookupLocal(name string) (Binding, bool) {
	if len(t.scopes) == 0 {
		return nil, false
	}
	b, ok := t.scopes[0][name]
	return b, ok
}

// Depth returns the number of scopes on the stack.
func (t Table) Depth() int {
	return len(t.scopes)
}

// Names returns the names bound in the innermost scope, sorted.
func (t Table) Names() []string {
	if len(t.scopes) == 0 {
		return nil
	}
	names := make([]string, 0, len(t.scopes[0]))
	for name := range t.scopes[0] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether both tables hold the same scopes with the same
// bindings, comparing bindings structurally.
func (t Table) Equal(other Table) bool {
	if len(t.scopes) != len(other.scopes) {
		return false
	}
	for i := range t.scopes {
		if len(t.scopes[i]) != len(other.scopes[i]) {
			return false
		}
		for name, b := range t.scopes[i] {
			ob, ok := other.scopes[i][name]
			if !ok || !reflect.DeepEqual(b, ob) {
				return false
			}
		}
	}
	return true
}
