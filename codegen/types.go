package codegen

import (
	"strings"

	"github.com/teranos/pyrust/ast"
)

// DynamicType is the shim type used where no annotation says otherwise.
const DynamicType = "PyObject"

// TypeMapping defines how Python builtin type names map to Rust types
var TypeMapping = map[string]string{
	"int":     "i64",
	"float":   "f64",
	"complex": "(f64, f64)",
	"str":     "String",
	"bool":    "bool",
	"bytes":   "Vec<u8>",
	"None":    "()",
	"object":  DynamicType,
	"Any":     DynamicType,
}

// Generic containers. The value is the Rust type constructor.
var containerMapping = map[string]string{
	"list":     "Vec",
	"List":     "Vec",
	"Sequence": "Vec",
	"dict":     "std::collections::HashMap",
	"Dict":     "std::collections::HashMap",
	"Mapping":  "std::collections::HashMap",
	"set":      "std::collections::HashSet",
	"Set":      "std::collections::HashSet",
	"Optional": "Option",
	"Iterator": "Box<dyn Iterator<Item = %s>>",
}

// MapType converts a Python annotation to a Rust type. Unknown or missing
// annotations map to DynamicType; user class names map to their data struct.
func MapType(annotation ast.Expr) string {
	switch a := annotation.(type) {
	case nil:
		return DynamicType
	case *ast.Name:
		if t, ok := TypeMapping[a.ID]; ok {
			return t
		}
		if c, ok := containerMapping[a.ID]; ok && !strings.Contains(c, "%s") {
			if c == "Option" {
				return "Option<" + DynamicType + ">"
			}
			if strings.HasSuffix(c, "HashMap") {
				return c + "<" + DynamicType + ", " + DynamicType + ">"
			}
			return c + "<" + DynamicType + ">"
		}
		return RustIdent(a.ID) + "::Data"
	case *ast.Constant:
		if a.Type == ast.NoneConstant {
			return "()"
		}
		if a.IsString() {
			// Forward reference written as a string annotation.
			return MapType(ast.Ident(a.Value))
		}
		return DynamicType
	case *ast.Attribute:
		if dotted, ok := ast.DottedName(a); ok {
			parts := strings.Split(dotted, ".")
			last := parts[len(parts)-1]
			if t, ok := TypeMapping[last]; ok {
				return t
			}
			return RustPath(dotted)
		}
		return DynamicType
	case *ast.Subscript:
		return mapGeneric(a)
	case *ast.BinOp:
		// PEP 604 `X | None`.
		if a.Op == ast.BitOr {
			if isNone(a.Right) {
				return "Option<" + MapType(a.Left) + ">"
			}
			if isNone(a.Left) {
				return "Option<" + MapType(a.Right) + ">"
			}
		}
		return DynamicType
	default:
		return DynamicType
	}
}

func mapGeneric(s *ast.Subscript) string {
	base, ok := ast.DottedName(s.Value)
	if !ok {
		return DynamicType
	}
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[i+1:]
	}

	var params []ast.Expr
	if t, ok := s.Slice.(*ast.Tuple); ok {
		params = t.Elts
	} else {
		params = []ast.Expr{s.Slice}
	}

	switch base {
	case "tuple", "Tuple":
		parts := make([]string, len(params))
		for i, p := range params {
			parts[i] = MapType(p)
		}
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case "Union":
		if len(params) == 2 && isNone(params[1]) {
			return "Option<" + MapType(params[0]) + ">"
		}
		return DynamicType
	case "Callable":
		return "Box<dyn Fn(" + DynamicType + ") -> " + DynamicType + ">"
	}

	ctor, ok := containerMapping[base]
	if !ok {
		return DynamicType
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = MapType(p)
	}
	if strings.Contains(ctor, "%s") {
		return strings.Replace(ctor, "%s", strings.Join(parts, ", "), 1)
	}
	return ctor + "<" + strings.Join(parts, ", ") + ">"
}

func isNone(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.Constant:
		return v.Type == ast.NoneConstant
	case *ast.Name:
		return v.ID == "None"
	}
	return false
}
