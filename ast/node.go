// Package ast defines the Python syntax tree consumed by the translator.
//
// Nodes are plain data. Expressions and statements are closed sets: every
// concrete kind implements the sealed Expr or Stmt interface, and the
// Unimplemented and Unknown variants let the decoder hand over shapes the
// engine cannot translate yet without losing the original kind name.
//
// Trees are built once by the decoder and treated as immutable afterwards.
package ast

import (
	"fmt"

	"github.com/teranos/pyrust/errors"
)

// Node is implemented by every syntax tree node.
type Node interface {
	// Pos returns the node's source span. Kinds that do not track a
	// position return the zero Span.
	Pos() Span
	// Kind returns the Python node-kind name, e.g. "BinOp" or "For".
	Kind() string
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Span is a source position. All fields are optional; the decoder fills in
// whatever the parser reported.
type Span struct {
	StartLine *int
	StartCol  *int
	EndLine   *int
	EndCol    *int
}

// At returns a fully populated span.
func At(line, col, endLine, endCol int) Span {
	return Span{StartLine: &line, StartCol: &col, EndLine: &endLine, EndCol: &endCol}
}

// Line returns a span carrying only a start line.
func Line(line int) Span {
	return Span{StartLine: &line}
}

// Pos makes Span usable as an embedded field that satisfies Node.Pos.
func (s Span) Pos() Span { return s }

// Known reports whether the span has a start line.
func (s Span) Known() bool { return s.StartLine != nil }

// Location converts the span into a diagnostic location within file.
func (s Span) Location(file string) errors.Location {
	return errors.Location{
		File:    file,
		Line:    s.StartLine,
		Col:     s.StartCol,
		EndLine: s.EndLine,
		EndCol:  s.EndCol,
	}
}

// ErrorMessage combines a caller-supplied context string with the node's file
// name and position, e.g. "parsing for loop calc.py:4:0".
func ErrorMessage(n Node, file, context string) string {
	if n == nil {
		return fmt.Sprintf("%s %s", context, errors.Location{File: file})
	}
	return fmt.Sprintf("%s %s", context, n.Pos().Location(file))
}

// LocationOf returns the diagnostic location of n within file.
func LocationOf(n Node, file string) errors.Location {
	if n == nil {
		return errors.Location{File: file}
	}
	return n.Pos().Location(file)
}
