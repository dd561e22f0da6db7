package codegen

import (
	"strings"

	"github.com/teranos/pyrust/ast"
)

// joinedStr lowers an f-string to format!. Literal parts have their braces
// doubled; each replacement field becomes a placeholder with its argument.
func (e env) joinedStr(j *ast.JoinedStr) (string, error) {
	if len(j.Values) == 0 {
		return "String::new()", nil
	}
	var format strings.Builder
	var args []string
	for _, part := range j.Values {
		switch p := part.(type) {
		case nil:
			return "", e.missing("expression")
		case *ast.Constant:
			if !p.IsString() {
				return "", e.unsupportedf(p, "non-string literal in f-string")
			}
			format.WriteString(formatEscape(p.Value))
		case *ast.FormattedValue:
			placeholder, err := e.placeholder(p)
			if err != nil {
				return "", err
			}
			v, err := e.expr(p.Value)
			if err != nil {
				return "", err
			}
			format.WriteString(placeholder)
			args = append(args, v)
		default:
			return "", e.unsupportedf(j, "f-string part %s", part.Kind())
		}
	}
	quoted := rustString(format.String())
	if len(args) == 0 {
		return "format!(" + quoted + ")", nil
	}
	return "format!(" + quoted + ", " + strings.Join(args, ", ") + ")", nil
}

// placeholder builds the `{...}` field for a formatted value. Only literal
// format specs are supported; the trailing presentation type is dropped
// because Rust infers it from the argument.
func (e env) placeholder(f *ast.FormattedValue) (string, error) {
	spec := ""
	if f.FormatSpec != nil {
		literal, ok := literalSpec(f.FormatSpec)
		if !ok {
			return "", e.unsupportedf(f, "computed format spec")
		}
		spec = pythonSpecToRust(literal)
	}
	debug := f.Conversion == ast.ReprConversion || f.Conversion == ast.AsciiConversion
	switch {
	case debug && spec != "":
		return "{:" + spec + "?}", nil
	case debug:
		return "{:?}", nil
	case spec != "":
		return "{:" + spec + "}", nil
	default:
		return "{}", nil
	}
}

func literalSpec(x ast.Expr) (string, bool) {
	switch s := x.(type) {
	case *ast.Constant:
		return s.Value, s.IsString()
	case *ast.JoinedStr:
		var sb strings.Builder
		for _, v := range s.Values {
			c, ok := v.(*ast.Constant)
			if !ok || !c.IsString() {
				return "", false
			}
			sb.WriteString(c.Value)
		}
		return sb.String(), true
	default:
		return "", false
	}
}

// pythonSpecToRust converts a format-spec mini-language string, e.g.
// ">10.2f", to its Rust equivalent ">10.2".
func pythonSpecToRust(spec string) string {
	spec = strings.ReplaceAll(spec, ",", "")
	spec = strings.ReplaceAll(spec, "_", "")
	if spec == "" {
		return ""
	}
	// x, X, o, b, e and E are spelled the same way in Rust.
	if strings.IndexByte("dfFsgGn%", spec[len(spec)-1]) >= 0 {
		spec = spec[:len(spec)-1]
	}
	return spec
}
