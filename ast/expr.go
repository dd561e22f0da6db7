package ast

// BoolOp is `a and b and c` or `a or b`.
type BoolOp struct {
	Span
	Op     BoolOperator
	Values []Expr
}

// NamedExpr is the walrus operator, `target := value`.
type NamedExpr struct {
	Span
	Target Expr
	Value  Expr
}

// BinOp is a binary arithmetic or bitwise operation.
type BinOp struct {
	Span
	Left  Expr
	Op    BinaryOperator
	Right Expr
}

// UnaryOp is `not x`, `~x`, `+x` or `-x`.
type UnaryOp struct {
	Span
	Op      UnaryOperator
	Operand Expr
}

// Await is `await value`.
type Await struct {
	Span
	Value Expr
}

// Compare is a comparison chain: Left Ops[0] Comparators[0] Ops[1] ...
// Ops and Comparators always have the same length.
type Compare struct {
	Span
	Left        Expr
	Ops         []CompareOperator
	Comparators []Expr
}

// Call is a function call with positional and keyword arguments.
type Call struct {
	Span
	Func     Expr
	Args     []Expr
	Keywords []*Keyword
}

// Keyword is a `name=value` argument. Arg is nil for `**mapping`.
type Keyword struct {
	Span
	Arg   *string
	Value Expr
}

// ConstantKind classifies a literal.
type ConstantKind int

const (
	NoneConstant ConstantKind = iota
	BoolConstant
	IntConstant
	FloatConstant
	ComplexConstant
	StrConstant
	BytesConstant
	EllipsisConstant
)

func (k ConstantKind) String() string {
	switch k {
	case NoneConstant:
		return "None"
	case BoolConstant:
		return "bool"
	case IntConstant:
		return "int"
	case FloatConstant:
		return "float"
	case ComplexConstant:
		return "complex"
	case StrConstant:
		return "str"
	case BytesConstant:
		return "bytes"
	case EllipsisConstant:
		return "Ellipsis"
	default:
		return "unknown"
	}
}

// Constant is a literal. Value holds the literal's text: decimal digits for
// ints (arbitrary precision is preserved), Python repr for floats, the raw
// content for strings and bytes, and "True"/"False" for booleans.
type Constant struct {
	Span
	Type  ConstantKind
	Value string
}

// IsString reports whether the constant is a str literal.
func (c *Constant) IsString() bool { return c.Type == StrConstant }

// Str builds a string constant.
func Str(s string) *Constant { return &Constant{Type: StrConstant, Value: s} }

// Int builds an int constant from its decimal text.
func Int(digits string) *Constant { return &Constant{Type: IntConstant, Value: digits} }

// Bool builds a boolean constant.
func Bool(v bool) *Constant {
	if v {
		return &Constant{Type: BoolConstant, Value: "True"}
	}
	return &Constant{Type: BoolConstant, Value: "False"}
}

// None builds the None constant.
func None() *Constant { return &Constant{Type: NoneConstant, Value: "None"} }

// Attribute is `value.attr`.
type Attribute struct {
	Span
	Value Expr
	Attr  string
	Ctx   ExprContext
}

// Name is a plain identifier reference.
type Name struct {
	Span
	ID  string
	Ctx ExprContext
}

// Ident builds a Load name.
func Ident(id string) *Name { return &Name{ID: id} }

// List is a list display `[a, b]`.
type List struct {
	Span
	Elts []Expr
	Ctx  ExprContext
}

// Tuple is a tuple display `(a, b)`.
type Tuple struct {
	Span
	Elts []Expr
	Ctx  ExprContext
}

// Set is a set display `{a, b}`.
type Set struct {
	Span
	Elts []Expr
}

// Dict is a dict display. A nil key marks a `**mapping` spread whose
// mapping is the value at the same index.
type Dict struct {
	Span
	Keys   []Expr
	Values []Expr
}

// Subscript is `value[slice]`.
type Subscript struct {
	Span
	Value Expr
	Slice Expr
	Ctx   ExprContext
}

// Slice is `lower:upper:step`; any part may be nil.
type Slice struct {
	Span
	Lower Expr
	Upper Expr
	Step  Expr
}

// Starred is `*value` in a call or display.
type Starred struct {
	Span
	Value Expr
	Ctx   ExprContext
}

// Lambda is `lambda args: body`.
type Lambda struct {
	Span
	Args *Arguments
	Body Expr
}

// IfExp is `body if test else orelse`.
type IfExp struct {
	Span
	Test   Expr
	Body   Expr
	OrElse Expr
}

// Comprehension is one `for target in iter if ...` clause.
type Comprehension struct {
	Target  Expr
	Iter    Expr
	Ifs     []Expr
	IsAsync bool
}

// ListComp is `[elt for ...]`.
type ListComp struct {
	Span
	Elt        Expr
	Generators []*Comprehension
}

// SetComp is `{elt for ...}`.
type SetComp struct {
	Span
	Elt        Expr
	Generators []*Comprehension
}

// DictComp is `{key: value for ...}`.
type DictComp struct {
	Span
	Key        Expr
	Value      Expr
	Generators []*Comprehension
}

// GeneratorExp is `(elt for ...)`.
type GeneratorExp struct {
	Span
	Elt        Expr
	Generators []*Comprehension
}

// JoinedStr is an f-string. Values holds string Constants and
// FormattedValue parts in source order.
type JoinedStr struct {
	Span
	Values []Expr
}

// Conversion flags of a FormattedValue.
const (
	NoConversion    = -1
	StrConversion   = 's'
	ReprConversion  = 'r'
	AsciiConversion = 'a'
)

// FormattedValue is one `{value!conv:spec}` field of an f-string.
type FormattedValue struct {
	Span
	Value      Expr
	Conversion int
	FormatSpec Expr
}

// Yield is `yield value`; Value is nil for a bare yield.
type Yield struct {
	Span
	Value Expr
}

// YieldFrom is `yield from value`.
type YieldFrom struct {
	Span
	Value Expr
}

// UnimplementedExpr stands in for an expression kind the decoder recognised
// but the model does not represent. Name is the original kind name.
type UnimplementedExpr struct {
	Span
	Name string
}

// UnknownExpr is the sentinel for an expression that could not be classified.
type UnknownExpr struct {
	Span
}

func (*BoolOp) Kind() string              { return "BoolOp" }
func (*NamedExpr) Kind() string           { return "NamedExpr" }
func (*BinOp) Kind() string               { return "BinOp" }
func (*UnaryOp) Kind() string             { return "UnaryOp" }
func (*Await) Kind() string               { return "Await" }
func (*Compare) Kind() string             { return "Compare" }
func (*Call) Kind() string                { return "Call" }
func (*Keyword) Kind() string             { return "keyword" }
func (*Constant) Kind() string            { return "Constant" }
func (*Attribute) Kind() string           { return "Attribute" }
func (*Name) Kind() string                { return "Name" }
func (*List) Kind() string                { return "List" }
func (*Tuple) Kind() string               { return "Tuple" }
func (*Set) Kind() string                 { return "Set" }
func (*Dict) Kind() string                { return "Dict" }
func (*Subscript) Kind() string           { return "Subscript" }
func (*Slice) Kind() string               { return "Slice" }
func (*Starred) Kind() string             { return "Starred" }
func (*Lambda) Kind() string              { return "Lambda" }
func (*IfExp) Kind() string               { return "IfExp" }
func (*ListComp) Kind() string            { return "ListComp" }
func (*SetComp) Kind() string             { return "SetComp" }
func (*DictComp) Kind() string            { return "DictComp" }
func (*GeneratorExp) Kind() string        { return "GeneratorExp" }
func (*JoinedStr) Kind() string           { return "JoinedStr" }
func (*FormattedValue) Kind() string      { return "FormattedValue" }
func (*Yield) Kind() string               { return "Yield" }
func (*YieldFrom) Kind() string           { return "YieldFrom" }
func (e *UnimplementedExpr) Kind() string { return e.Name }
func (*UnknownExpr) Kind() string         { return "Unknown" }

func (*BoolOp) exprNode()            {}
func (*NamedExpr) exprNode()         {}
func (*BinOp) exprNode()             {}
func (*UnaryOp) exprNode()           {}
func (*Await) exprNode()             {}
func (*Compare) exprNode()           {}
func (*Call) exprNode()              {}
func (*Constant) exprNode()          {}
func (*Attribute) exprNode()         {}
func (*Name) exprNode()              {}
func (*List) exprNode()              {}
func (*Tuple) exprNode()             {}
func (*Set) exprNode()               {}
func (*Dict) exprNode()              {}
func (*Subscript) exprNode()         {}
func (*Slice) exprNode()             {}
func (*Starred) exprNode()           {}
func (*Lambda) exprNode()            {}
func (*IfExp) exprNode()             {}
func (*ListComp) exprNode()          {}
func (*SetComp) exprNode()           {}
func (*DictComp) exprNode()          {}
func (*GeneratorExp) exprNode()      {}
func (*JoinedStr) exprNode()         {}
func (*FormattedValue) exprNode()    {}
func (*Yield) exprNode()             {}
func (*YieldFrom) exprNode()         {}
func (*UnimplementedExpr) exprNode() {}
func (*UnknownExpr) exprNode()       {}

// DottedName returns "a.b.c" for a Name or a chain of Attributes rooted at a
// Name, and false for anything else.
func DottedName(e Expr) (string, bool) {
	switch n := e.(type) {
	case *Name:
		return n.ID, true
	case *Attribute:
		base, ok := DottedName(n.Value)
		if !ok {
			return "", false
		}
		return base + "." + n.Attr, true
	default:
		return "", false
	}
}

func (*Comprehension) Kind() string { return "comprehension" }
func (*Comprehension) Pos() Span    { return Span{} }
