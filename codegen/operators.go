package codegen

import (
	"strings"

	"github.com/teranos/pyrust/ast"
	"github.com/teranos/pyrust/errors"
)

// FloorDivHelper is the runtime shim function implementing `//`.
const FloorDivHelper = "floor_div"

// Binary operators rendered as a plain infix token.
var infixOperators = map[ast.BinaryOperator]string{
	ast.Add:    "+",
	ast.Sub:    "-",
	ast.Mult:   "*",
	ast.Mod:    "%",
	ast.LShift: "<<",
	ast.RShift: ">>",
	ast.BitOr:  "|",
	ast.BitXor: "^",
	ast.BitAnd: "&",
}

var compareOperators = map[ast.CompareOperator]string{
	ast.Eq:    "==",
	ast.NotEq: "!=",
	ast.Lt:    "<",
	ast.LtE:   "<=",
	ast.Gt:    ">",
	ast.GtE:   ">=",
}

// BinaryExpr renders `left op right` from already-translated operands.
func BinaryExpr(op ast.BinaryOperator, left, right string) (string, error) {
	if tok, ok := infixOperators[op]; ok {
		return left + " " + tok + " " + right, nil
	}
	switch op {
	case ast.Div:
		// True division always produces a float.
		return "(" + left + " as f64) / (" + right + " as f64)", nil
	case ast.FloorDiv:
		// Rounds toward negative infinity; neither `/` nor div_euclid does
		// for every sign combination, so the shim provides it.
		return FloorDivHelper + "(" + left + ", " + right + ")", nil
	case ast.Pow:
		return left + ".pow(" + right + " as u32)", nil
	default:
		return "", errors.NewUnknownOperator("binary", op.String(), errors.Location{})
	}
}

func (e env) binOp(b *ast.BinOp) (string, error) {
	left, err := e.operand(b.Left)
	if err != nil {
		return "", err
	}
	right, err := e.operand(b.Right)
	if err != nil {
		return "", err
	}
	out, err := BinaryExpr(b.Op, left, right)
	if err != nil {
		return "", errors.NewUnknownOperator("binary", b.Op.String(), e.loc(b))
	}
	return out, nil
}

func (e env) boolOp(b *ast.BoolOp) (string, error) {
	var tok string
	switch b.Op {
	case ast.And:
		tok = " && "
	case ast.Or:
		tok = " || "
	default:
		return "", errors.NewUnknownOperator("boolean", b.Op.String(), e.loc(b))
	}
	if len(b.Values) == 0 {
		return "", e.unsupportedf(b, "empty boolean operation")
	}
	parts := make([]string, 0, len(b.Values))
	for _, v := range b.Values {
		var s string
		var err error
		switch v.(type) {
		case *ast.Compare:
			// Comparisons bind tighter than && and ||.
			s, err = e.expr(v)
		default:
			s, err = e.operand(v)
		}
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, tok), nil
}

func (e env) unaryOp(u *ast.UnaryOp) (string, error) {
	switch u.Op {
	case ast.Invert:
		v, err := e.expr(u.Operand)
		if err != nil {
			return "", err
		}
		return "std::ops::Not::not(" + v + ")", nil
	case ast.Not, ast.USub, ast.UAdd:
	default:
		return "", errors.NewUnknownOperator("unary", u.Op.String(), e.loc(u))
	}

	v, err := e.operand(u.Operand)
	if err != nil {
		return "", err
	}
	switch u.Op {
	case ast.Not:
		return "!" + v, nil
	case ast.USub:
		return "-" + v, nil
	default:
		return v, nil
	}
}

// compare renders a comparison chain. `a < b < c` becomes the conjunction
// of its adjacent pairs, `a < b && b < c`.
func (e env) compare(c *ast.Compare) (string, error) {
	if len(c.Ops) == 0 || len(c.Ops) != len(c.Comparators) {
		return "", e.unsupportedf(c, "malformed comparison")
	}
	terms := make([]string, 0, len(c.Ops))
	left := c.Left
	for i, op := range c.Ops {
		right := c.Comparators[i]
		term, err := e.comparePair(c, op, left, right)
		if err != nil {
			return "", err
		}
		terms = append(terms, term)
		left = right
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	for i, t := range terms {
		if strings.Contains(t, " && ") || strings.Contains(t, " || ") {
			terms[i] = "(" + t + ")"
		}
	}
	return strings.Join(terms, " && "), nil
}

func (e env) comparePair(c *ast.Compare, op ast.CompareOperator, left, right ast.Expr) (string, error) {
	l, err := e.operand(left)
	if err != nil {
		return "", err
	}
	r, err := e.operand(right)
	if err != nil {
		return "", err
	}
	if tok, ok := compareOperators[op]; ok {
		return l + " " + tok + " " + r, nil
	}
	switch op {
	case ast.Is:
		if isNone(right) {
			return l + ".is_none()", nil
		}
		return "std::ptr::eq(&" + l + ", &" + r + ")", nil
	case ast.IsNot:
		if isNone(right) {
			return l + ".is_some()", nil
		}
		return "!std::ptr::eq(&" + l + ", &" + r + ")", nil
	case ast.In:
		return r + ".contains(&" + l + ")", nil
	case ast.NotIn:
		return "!" + r + ".contains(&" + l + ")", nil
	default:
		return "", errors.NewUnknownOperator("compare", op.String(), e.loc(c))
	}
}

// augmentedOperators are the compound-assignment forms Rust provides directly.
var augmentedOperators = map[ast.BinaryOperator]string{
	ast.Add:    "+=",
	ast.Sub:    "-=",
	ast.Mult:   "*=",
	ast.Mod:    "%=",
	ast.LShift: "<<=",
	ast.RShift: ">>=",
	ast.BitOr:  "|=",
	ast.BitXor: "^=",
	ast.BitAnd: "&=",
}
