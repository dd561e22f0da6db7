package ast

// Arg is a single parameter with an optional annotation.
type Arg struct {
	Span
	Name       string
	Annotation Expr
}

func (*Arg) Kind() string { return "arg" }

// Arguments is a parameter list.
//
// Defaults right-aligns to the tail of PosOnlyArgs followed by Args.
// KwDefaults is parallel to KwOnlyArgs; a nil entry means the keyword-only
// parameter has no default. Either default list may be shorter than its
// parameter list, never longer.
type Arguments struct {
	PosOnlyArgs []*Arg
	Args        []*Arg
	VarArg      *Arg
	KwOnlyArgs  []*Arg
	KwDefaults  []Expr
	KwArg       *Arg
	Defaults    []Expr
}

// Positional returns PosOnlyArgs followed by Args.
func (a *Arguments) Positional() []*Arg {
	if a == nil {
		return nil
	}
	out := make([]*Arg, 0, len(a.PosOnlyArgs)+len(a.Args))
	out = append(out, a.PosOnlyArgs...)
	return append(out, a.Args...)
}

// PositionalDefault returns the default of the i-th positional parameter,
// or nil when it has none or i is out of range.
func (a *Arguments) PositionalDefault(i int) Expr {
	if a == nil {
		return nil
	}
	n := len(a.PosOnlyArgs) + len(a.Args)
	offset := n - len(a.Defaults)
	if i < 0 || i >= n || i < offset || offset < 0 {
		return nil
	}
	return a.Defaults[i-offset]
}

// KeywordDefault returns the default of the i-th keyword-only parameter.
func (a *Arguments) KeywordDefault(i int) Expr {
	if a == nil {
		return nil
	}
	offset := len(a.KwOnlyArgs) - len(a.KwDefaults)
	if i < 0 || i >= len(a.KwOnlyArgs) || i < offset || offset < 0 {
		return nil
	}
	return a.KwDefaults[i-offset]
}

// WellFormed reports whether the default lists fit their parameter lists.
func (a *Arguments) WellFormed() bool {
	if a == nil {
		return true
	}
	return len(a.Defaults) <= len(a.PosOnlyArgs)+len(a.Args) &&
		len(a.KwDefaults) <= len(a.KwOnlyArgs)
}

// Names returns every parameter name in declaration order, including the
// variadic ones.
func (a *Arguments) Names() []string {
	if a == nil {
		return nil
	}
	var names []string
	for _, p := range a.Positional() {
		names = append(names, p.Name)
	}
	if a.VarArg != nil {
		names = append(names, a.VarArg.Name)
	}
	for _, p := range a.KwOnlyArgs {
		names = append(names, p.Name)
	}
	if a.KwArg != nil {
		names = append(names, a.KwArg.Name)
	}
	return names
}

// Len returns the total number of parameters.
func (a *Arguments) Len() int {
	return len(a.Names())
}

func (*Arguments) Kind() string { return "arguments" }
func (*Arguments) Pos() Span    { return Span{} }
