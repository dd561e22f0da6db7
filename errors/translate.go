package errors

import (
	"fmt"
	"strings"
)

// Location identifies where in a source file a node came from.
// Every position field is optional.
type Location struct {
	File    string
	Line    *int
	Col     *int
	EndLine *int
	EndCol  *int
}

// String renders the location the way compilers do:
//
//	file:line:col-endcol       (span on a single line)
//	file:line:col-endline:endcol
//	file:line:col
//	file:line
//	file
func (l Location) String() string {
	file := l.File
	if file == "" {
		file = "<unknown>"
	}
	if l.Line == nil {
		return file
	}
	if l.Col == nil {
		return fmt.Sprintf("%s:%d", file, *l.Line)
	}
	if l.EndLine == nil || l.EndCol == nil {
		return fmt.Sprintf("%s:%d:%d", file, *l.Line, *l.Col)
	}
	if *l.EndLine == *l.Line {
		return fmt.Sprintf("%s:%d:%d-%d", file, *l.Line, *l.Col, *l.EndCol)
	}
	return fmt.Sprintf("%s:%d:%d-%d:%d", file, *l.Line, *l.Col, *l.EndLine, *l.EndCol)
}

// Known reports whether the location carries at least a line number.
func (l Location) Known() bool {
	return l.Line != nil
}

// UnsupportedConstructError reports a node kind that is recognised but has no
// translation. Callers may recover by skipping or stubbing the node.
type UnsupportedConstructError struct {
	Kind     string
	Location Location
	Detail   string
}

func (e *UnsupportedConstructError) Error() string {
	var sb strings.Builder
	sb.WriteString("unsupported construct ")
	sb.WriteString(e.Kind)
	if e.Detail != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Detail)
		sb.WriteString(")")
	}
	sb.WriteString(" at ")
	sb.WriteString(e.Location.String())
	return sb.String()
}

// UnknownOperatorError reports an operator that could not be classified or
// has no target rendering (matrix multiply, for instance).
type UnknownOperatorError struct {
	// Category is one of "binary", "unary", "boolean", "compare", "augmented".
	Category string
	Operator string
	Location Location
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unsupported %s operator %s at %s", e.Category, e.Operator, e.Location)
}

// UnknownTypeError reports a sub-kind the decoder or engine could not classify,
// usually a parser/engine version mismatch.
type UnknownTypeError struct {
	What     string
	Name     string
	Location Location
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown %s type %q at %s", e.What, e.Name, e.Location)
}

// LookupError reports a name or module path that could not be resolved.
// Path lists where resolution looked; Location is where the reference was.
type LookupError struct {
	Name     string
	Path     []string
	Location Location
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("could not resolve %q", e.Name)
	if len(e.Path) > 0 {
		msg += " in " + strings.Join(e.Path, ":")
	}
	if e.Location.File != "" {
		msg += " at " + e.Location.String()
	}
	return msg
}

// NewUnsupported returns an UnsupportedConstructError for kind at loc.
func NewUnsupported(kind string, loc Location) error {
	return &UnsupportedConstructError{Kind: kind, Location: loc}
}

// NewUnsupportedf is NewUnsupported with a formatted detail message.
func NewUnsupportedf(kind string, loc Location, format string, args ...interface{}) error {
	return &UnsupportedConstructError{Kind: kind, Location: loc, Detail: fmt.Sprintf(format, args...)}
}

// NewUnknownOperator returns an UnknownOperatorError.
func NewUnknownOperator(category, op string, loc Location) error {
	return &UnknownOperatorError{Category: category, Operator: op, Location: loc}
}

// NewUnknownType returns an UnknownTypeError.
func NewUnknownType(what, name string, loc Location) error {
	return &UnknownTypeError{What: what, Name: name, Location: loc}
}

// NewLookup returns a LookupError.
func NewLookup(name string, path ...string) error {
	return &LookupError{Name: name, Path: path}
}

// NewLookupAt returns a LookupError for a reference at loc.
func NewLookupAt(name string, loc Location, path ...string) error {
	return &LookupError{Name: name, Path: path, Location: loc}
}

// IsUnsupported reports whether err is or wraps an UnsupportedConstructError.
func IsUnsupported(err error) bool {
	var target *UnsupportedConstructError
	return err != nil && As(err, &target)
}

// IsUnknownOperator reports whether err is or wraps an UnknownOperatorError.
func IsUnknownOperator(err error) bool {
	var target *UnknownOperatorError
	return err != nil && As(err, &target)
}

// IsUnknownType reports whether err is or wraps an UnknownTypeError.
func IsUnknownType(err error) bool {
	var target *UnknownTypeError
	return err != nil && As(err, &target)
}

// IsLookup reports whether err is or wraps a LookupError.
func IsLookup(err error) bool {
	var target *LookupError
	return err != nil && As(err, &target)
}

// KindOf returns the node kind carried by an unsupported-construct error,
// or "" when err is not one.
func KindOf(err error) string {
	var target *UnsupportedConstructError
	if err != nil && As(err, &target) {
		return target.Kind
	}
	return ""
}
