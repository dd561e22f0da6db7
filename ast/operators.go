package ast

// BinaryOperator is the operator of a BinOp or AugAssign.
type BinaryOperator int

const (
	UnknownBinary BinaryOperator = iota
	Add
	Sub
	Mult
	MatMult
	Div
	Mod
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd
	FloorDiv
)

var binaryNames = map[BinaryOperator]string{
	Add:      "Add",
	Sub:      "Sub",
	Mult:     "Mult",
	MatMult:  "MatMult",
	Div:      "Div",
	Mod:      "Mod",
	Pow:      "Pow",
	LShift:   "LShift",
	RShift:   "RShift",
	BitOr:    "BitOr",
	BitXor:   "BitXor",
	BitAnd:   "BitAnd",
	FloorDiv: "FloorDiv",
}

func (op BinaryOperator) String() string {
	if name, ok := binaryNames[op]; ok {
		return name
	}
	return "Unknown"
}

// ParseBinaryOperator maps a Python operator class name to its enum value.
// Unrecognised names yield UnknownBinary.
func ParseBinaryOperator(name string) BinaryOperator {
	for op, n := range binaryNames {
		if n == name {
			return op
		}
	}
	return UnknownBinary
}

// BinaryOperators lists every recognised binary operator.
func BinaryOperators() []BinaryOperator {
	return []BinaryOperator{Add, Sub, Mult, MatMult, Div, Mod, Pow, LShift, RShift, BitOr, BitXor, BitAnd, FloorDiv}
}

// BoolOperator is the operator of a BoolOp.
type BoolOperator int

const (
	UnknownBool BoolOperator = iota
	And
	Or
)

func (op BoolOperator) String() string {
	switch op {
	case And:
		return "And"
	case Or:
		return "Or"
	default:
		return "Unknown"
	}
}

// ParseBoolOperator maps "And"/"Or" to the enum.
func ParseBoolOperator(name string) BoolOperator {
	switch name {
	case "And":
		return And
	case "Or":
		return Or
	default:
		return UnknownBool
	}
}

// UnaryOperator is the operator of a UnaryOp.
type UnaryOperator int

const (
	UnknownUnary UnaryOperator = iota
	Not
	Invert
	UAdd
	USub
)

func (op UnaryOperator) String() string {
	switch op {
	case Not:
		return "Not"
	case Invert:
		return "Invert"
	case UAdd:
		return "UAdd"
	case USub:
		return "USub"
	default:
		return "Unknown"
	}
}

// ParseUnaryOperator maps a Python unary operator class name to the enum.
func ParseUnaryOperator(name string) UnaryOperator {
	switch name {
	case "Not":
		return Not
	case "Invert":
		return Invert
	case "UAdd":
		return UAdd
	case "USub":
		return USub
	default:
		return UnknownUnary
	}
}

// CompareOperator is one link of a Compare chain.
type CompareOperator int

const (
	UnknownCompare CompareOperator = iota
	Eq
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

var compareNames = map[CompareOperator]string{
	Eq:    "Eq",
	NotEq: "NotEq",
	Lt:    "Lt",
	LtE:   "LtE",
	Gt:    "Gt",
	GtE:   "GtE",
	Is:    "Is",
	IsNot: "IsNot",
	In:    "In",
	NotIn: "NotIn",
}

func (op CompareOperator) String() string {
	if name, ok := compareNames[op]; ok {
		return name
	}
	return "Unknown"
}

// ParseCompareOperator maps a Python comparison class name to the enum.
func ParseCompareOperator(name string) CompareOperator {
	for op, n := range compareNames {
		if n == name {
			return op
		}
	}
	return UnknownCompare
}

// CompareOperators lists every recognised comparison operator.
func CompareOperators() []CompareOperator {
	return []CompareOperator{Eq, NotEq, Lt, LtE, Gt, GtE, Is, IsNot, In, NotIn}
}

// ExprContext mirrors Python's Load/Store/Del marker on names and
// attributes. The engine only consults it for assignment targets.
type ExprContext int

const (
	Load ExprContext = iota
	Store
	Del
)

// ParseExprContext maps "Load"/"Store"/"Del" to the enum; anything else is Load.
func ParseExprContext(name string) ExprContext {
	switch name {
	case "Store":
		return Store
	case "Del":
		return Del
	default:
		return Load
	}
}
