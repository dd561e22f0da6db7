package codegen

import "strings"

// Rust keywords that need raw identifier prefix (r#)
var rustKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "static": true, "struct": true,
	"trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true, "yield": true,
	"abstract": true, "become": true, "box": true, "do": true, "final": true,
	"macro": true, "override": true, "priv": true, "typeof": true,
	"unsized": true, "virtual": true, "try": true, "gen": true,
}

// Keywords that cannot be raw identifiers; they get a trailing underscore.
var reservedPathKeywords = map[string]bool{
	"crate": true, "super": true, "Self": true, "_": true,
}

// RustIdent converts a Python identifier into a valid Rust identifier.
// Keywords get the r# prefix; path keywords that cannot be raw get a
// trailing underscore. `self` is kept as is so methods keep their receiver.
func RustIdent(name string) string {
	switch {
	case rustKeywords[name]:
		return "r#" + name
	case reservedPathKeywords[name]:
		return name + "_"
	default:
		return name
	}
}

// RustPath converts a dotted Python path ("a.b.c") into a Rust path
// ("a::b::c"), escaping each component.
func RustPath(dotted string) string {
	parts := strings.Split(dotted, ".")
	for i, p := range parts {
		parts[i] = RustIdent(p)
	}
	return strings.Join(parts, "::")
}

// Visibility infers a Rust visibility from Python naming conventions:
//
//	_name      module-private, no keyword
//	__name__   pub(crate)
//	anything else, including __name and _name_, pub
func Visibility(name string) string {
	switch {
	case strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "__") && !strings.HasSuffix(name, "_"):
		return ""
	case len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__"):
		return "pub(crate)"
	default:
		return "pub"
	}
}

// withVisibility prefixes decl with vis and a space when vis is non-empty.
func withVisibility(vis, decl string) string {
	if vis == "" {
		return decl
	}
	return vis + " " + decl
}
