package ast

import "strings"

// Assign is `t1 = t2 = value`. TypeComment is the `# type:` comment, if any.
type Assign struct {
	Span
	Targets     []Expr
	Value       Expr
	TypeComment *string
}

// AugAssign is `target op= value`.
type AugAssign struct {
	Span
	Target Expr
	Op     BinaryOperator
	Value  Expr
}

// AnnAssign is `target: annotation = value`; Value may be nil.
type AnnAssign struct {
	Span
	Target     Expr
	Annotation Expr
	Value      Expr
	Simple     bool
}

// FunctionDef is a `def` or `async def`.
type FunctionDef struct {
	Span
	Name          string
	Args          *Arguments
	Body          []Stmt
	DecoratorList []Expr
	Returns       Expr
	TypeComment   *string
	IsAsync       bool
}

// Docstring returns the function's docstring: its first statement when that
// statement is a bare string literal.
func (f *FunctionDef) Docstring() (string, bool) { return docstring(f.Body) }

// ClassDef is a `class` statement.
type ClassDef struct {
	Span
	Name          string
	Bases         []Expr
	Keywords      []*Keyword
	Body          []Stmt
	DecoratorList []Expr
}

// Docstring returns the class docstring, if any.
func (c *ClassDef) Docstring() (string, bool) { return docstring(c.Body) }

// Alias is one `name as asname` entry of an import. AsName is nil when the
// import is not aliased.
type Alias struct {
	Span
	Name   string
	AsName *string
}

// BoundName returns the name the import introduces into the scope: the alias
// when present, otherwise the first dotted component for plain imports.
func (a *Alias) BoundName() string {
	if a.AsName != nil {
		return *a.AsName
	}
	if i := strings.IndexByte(a.Name, '.'); i >= 0 {
		return a.Name[:i]
	}
	return a.Name
}

// Import is `import a.b as c, d`.
type Import struct {
	Span
	Names []*Alias
}

// ImportFrom is `from module import a as b`. Level counts leading dots of
// a relative import; Module is empty for `from . import x`.
type ImportFrom struct {
	Span
	Module string
	Names  []*Alias
	Level  int
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	Span
	Value Expr
}

// Return is `return` or `return value`.
type Return struct {
	Span
	Value Expr
}

// Raise is `raise`, `raise exc` or `raise exc from cause`.
type Raise struct {
	Span
	Exc   Expr
	Cause Expr
}

// For is a `for` loop. OrElse runs when the loop was not left by `break`.
type For struct {
	Span
	Target      Expr
	Iter        Expr
	Body        []Stmt
	OrElse      []Stmt
	TypeComment *string
}

// AsyncFor is an `async for` loop.
type AsyncFor struct {
	Span
	Target      Expr
	Iter        Expr
	Body        []Stmt
	OrElse      []Stmt
	TypeComment *string
}

// While is a `while` loop with an optional else clause.
type While struct {
	Span
	Test   Expr
	Body   []Stmt
	OrElse []Stmt
}

// If is an `if` statement. An `elif` arrives as a single nested If in OrElse.
type If struct {
	Span
	Test   Expr
	Body   []Stmt
	OrElse []Stmt
}

// ExceptHandler is one `except Type as name:` clause.
type ExceptHandler struct {
	Span
	Type Expr
	Name *string
	Body []Stmt
}

// Try is `try/except/else/finally`.
type Try struct {
	Span
	Body      []Stmt
	Handlers  []*ExceptHandler
	OrElse    []Stmt
	FinalBody []Stmt
}

// WithItem is one `expr as vars` entry of a with statement.
type WithItem struct {
	ContextExpr  Expr
	OptionalVars Expr
}

// With is a `with` statement.
type With struct {
	Span
	Items []*WithItem
	Body  []Stmt
}

// AsyncWith is an `async with` statement.
type AsyncWith struct {
	Span
	Items []*WithItem
	Body  []Stmt
}

// Break is `break`.
type Break struct{ Span }

// Continue is `continue`.
type Continue struct{ Span }

// Pass is `pass`.
type Pass struct{ Span }

// Global is `global a, b`.
type Global struct {
	Span
	Names []string
}

// Nonlocal is `nonlocal a, b`.
type Nonlocal struct {
	Span
	Names []string
}

// Delete is `del a, b[i]`.
type Delete struct {
	Span
	Targets []Expr
}

// Assert is `assert test, msg`.
type Assert struct {
	Span
	Test Expr
	Msg  Expr
}

// UnimplementedStmt stands in for a statement kind with no model, e.g.
// Match or TypeAlias. Name is the original kind name.
type UnimplementedStmt struct {
	Span
	Name string
}

func (*Assign) Kind() string              { return "Assign" }
func (*AugAssign) Kind() string           { return "AugAssign" }
func (*AnnAssign) Kind() string           { return "AnnAssign" }
func (*FunctionDef) Kind() string         { return "FunctionDef" }
func (*ClassDef) Kind() string            { return "ClassDef" }
func (*Alias) Kind() string               { return "alias" }
func (*Import) Kind() string              { return "Import" }
func (*ImportFrom) Kind() string          { return "ImportFrom" }
func (*ExprStmt) Kind() string            { return "Expr" }
func (*Return) Kind() string              { return "Return" }
func (*Raise) Kind() string               { return "Raise" }
func (*For) Kind() string                 { return "For" }
func (*AsyncFor) Kind() string            { return "AsyncFor" }
func (*While) Kind() string               { return "While" }
func (*If) Kind() string                  { return "If" }
func (*ExceptHandler) Kind() string       { return "ExceptHandler" }
func (*Try) Kind() string                 { return "Try" }
func (*With) Kind() string                { return "With" }
func (*AsyncWith) Kind() string           { return "AsyncWith" }
func (*Break) Kind() string               { return "Break" }
func (*Continue) Kind() string            { return "Continue" }
func (*Pass) Kind() string                { return "Pass" }
func (*Global) Kind() string              { return "Global" }
func (*Nonlocal) Kind() string            { return "Nonlocal" }
func (*Delete) Kind() string              { return "Delete" }
func (*Assert) Kind() string              { return "Assert" }
func (s *UnimplementedStmt) Kind() string { return s.Name }

func (*Assign) stmtNode()            {}
func (*AugAssign) stmtNode()         {}
func (*AnnAssign) stmtNode()         {}
func (*FunctionDef) stmtNode()       {}
func (*ClassDef) stmtNode()          {}
func (*Import) stmtNode()            {}
func (*ImportFrom) stmtNode()        {}
func (*ExprStmt) stmtNode()          {}
func (*Return) stmtNode()            {}
func (*Raise) stmtNode()             {}
func (*For) stmtNode()               {}
func (*AsyncFor) stmtNode()          {}
func (*While) stmtNode()             {}
func (*If) stmtNode()                {}
func (*Try) stmtNode()               {}
func (*With) stmtNode()              {}
func (*AsyncWith) stmtNode()         {}
func (*Break) stmtNode()             {}
func (*Continue) stmtNode()          {}
func (*Pass) stmtNode()              {}
func (*Global) stmtNode()            {}
func (*Nonlocal) stmtNode()          {}
func (*Delete) stmtNode()            {}
func (*Assert) stmtNode()            {}
func (*UnimplementedStmt) stmtNode() {}

func docstring(body []Stmt) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	e, ok := body[0].(*ExprStmt)
	if !ok {
		return "", false
	}
	c, ok := e.Value.(*Constant)
	if !ok || !c.IsString() {
		return "", false
	}
	return c.Value, true
}

func (*WithItem) Kind() string { return "withitem" }
func (*WithItem) Pos() Span    { return Span{} }
