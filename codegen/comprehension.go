package codegen

import (
	"strings"

	"github.com/teranos/pyrust/ast"
	"github.com/teranos/pyrust/symbols"
)

// collection says what a comprehension pipeline is collected into.
type collection int

const (
	listCollection collection = iota
	setCollection
	dictCollection
	lazyCollection
)

func (c collection) collect() string {
	switch c {
	case listCollection:
		return ".collect::<Vec<_>>()"
	case setCollection:
		return ".collect::<std::collections::HashSet<_>>()"
	case dictCollection:
		return ".collect::<std::collections::HashMap<_, _>>()"
	default:
		return ""
	}
}

func (c collection) empty() string {
	switch c {
	case setCollection:
		return "std::collections::HashSet::new()"
	case dictCollection:
		return "std::collections::HashMap::new()"
	case lazyCollection:
		return "std::iter::empty()"
	default:
		return "Vec::new()"
	}
}

// comprehension lowers a single-generator comprehension to an iterator
// pipeline: iter.into_iter().filter(..).map(..).collect(). Comprehensions
// with several generators have no agreed nested-loop lowering and render as
// an empty collection with a marker comment.
func (e env) comprehension(n ast.Expr, elt, value ast.Expr, gens []*ast.Comprehension, into collection) (string, error) {
	if len(gens) == 0 {
		return "", e.unsupportedf(n, "comprehension without generators")
	}
	if len(gens) > 1 {
		return "/* nested comprehension not supported */ " + into.empty(), nil
	}
	gen := gens[0]
	if gen.IsAsync {
		return "", e.unsupportedf(n, "async comprehension")
	}

	iter, err := e.operand(gen.Iter)
	if err != nil {
		return "", err
	}

	// The target is bound only inside the pipeline's closures.
	inner := e.withSymbols(e.syms.PushScope())
	for i, name := range targetNames(gen.Target) {
		inner.syms = inner.syms.Insert(name, symbols.Assign{Position: i, Value: gen.Iter})
	}
	target, err := inner.expr(gen.Target)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(iter)
	sb.WriteString(".into_iter()")

	if len(gen.Ifs) > 0 {
		conds := make([]string, 0, len(gen.Ifs))
		for _, cond := range gen.Ifs {
			c, err := inner.expr(cond)
			if err != nil {
				return "", err
			}
			if len(gen.Ifs) > 1 && !atomic(cond) {
				c = "(" + c + ")"
			}
			conds = append(conds, c)
		}
		sb.WriteString(".filter(|" + target + "| " + strings.Join(conds, " && ") + ")")
	}

	mapped, err := inner.expr(elt)
	if err != nil {
		return "", err
	}
	if into == dictCollection {
		v, err := inner.expr(value)
		if err != nil {
			return "", err
		}
		mapped = "(" + mapped + ", " + v + ")"
	}
	sb.WriteString(".map(|" + target + "| " + mapped + ")")
	sb.WriteString(into.collect())
	return sb.String(), nil
}

// targetNames lists the names bound by an assignment or loop target.
func targetNames(target ast.Expr) []string {
	switch t := target.(type) {
	case *ast.Name:
		return []string{t.ID}
	case *ast.Tuple:
		var names []string
		for _, elt := range t.Elts {
			names = append(names, targetNames(elt)...)
		}
		return names
	case *ast.List:
		var names []string
		for _, elt := range t.Elts {
			names = append(names, targetNames(elt)...)
		}
		return names
	case *ast.Starred:
		return targetNames(t.Value)
	default:
		return nil
	}
}
