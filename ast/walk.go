package ast

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each node. If f returns false the node's children are skipped.
// Nil children are never passed to f.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Module:
		inspectStmts(n.Body, f)

	// Statements
	case *Assign:
		inspectExprs(n.Targets, f)
		inspectExpr(n.Value, f)
	case *AugAssign:
		inspectExpr(n.Target, f)
		inspectExpr(n.Value, f)
	case *AnnAssign:
		inspectExpr(n.Target, f)
		inspectExpr(n.Annotation, f)
		inspectExpr(n.Value, f)
	case *FunctionDef:
		inspectExprs(n.DecoratorList, f)
		if n.Args != nil {
			Inspect(n.Args, f)
		}
		inspectExpr(n.Returns, f)
		inspectStmts(n.Body, f)
	case *ClassDef:
		inspectExprs(n.DecoratorList, f)
		inspectExprs(n.Bases, f)
		for _, k := range n.Keywords {
			Inspect(k, f)
		}
		inspectStmts(n.Body, f)
	case *Import:
		for _, a := range n.Names {
			Inspect(a, f)
		}
	case *ImportFrom:
		for _, a := range n.Names {
			Inspect(a, f)
		}
	case *ExprStmt:
		inspectExpr(n.Value, f)
	case *Return:
		inspectExpr(n.Value, f)
	case *Raise:
		inspectExpr(n.Exc, f)
		inspectExpr(n.Cause, f)
	case *For:
		inspectExpr(n.Target, f)
		inspectExpr(n.Iter, f)
		inspectStmts(n.Body, f)
		inspectStmts(n.OrElse, f)
	case *AsyncFor:
		inspectExpr(n.Target, f)
		inspectExpr(n.Iter, f)
		inspectStmts(n.Body, f)
		inspectStmts(n.OrElse, f)
	case *While:
		inspectExpr(n.Test, f)
		inspectStmts(n.Body, f)
		inspectStmts(n.OrElse, f)
	case *If:
		inspectExpr(n.Test, f)
		inspectStmts(n.Body, f)
		inspectStmts(n.OrElse, f)
	case *Try:
		inspectStmts(n.Body, f)
		for _, h := range n.Handlers {
			Inspect(h, f)
		}
		inspectStmts(n.OrElse, f)
		inspectStmts(n.FinalBody, f)
	case *ExceptHandler:
		inspectExpr(n.Type, f)
		inspectStmts(n.Body, f)
	case *With:
		for _, item := range n.Items {
			Inspect(item, f)
		}
		inspectStmts(n.Body, f)
	case *AsyncWith:
		for _, item := range n.Items {
			Inspect(item, f)
		}
		inspectStmts(n.Body, f)
	case *WithItem:
		inspectExpr(n.ContextExpr, f)
		inspectExpr(n.OptionalVars, f)
	case *Delete:
		inspectExprs(n.Targets, f)
	case *Assert:
		inspectExpr(n.Test, f)
		inspectExpr(n.Msg, f)
	case *Break, *Continue, *Pass, *Global, *Nonlocal, *UnimplementedStmt, *Alias:
		// leaves

	// Parameters
	case *Arguments:
		for _, p := range n.Positional() {
			Inspect(p, f)
		}
		if n.VarArg != nil {
			Inspect(n.VarArg, f)
		}
		for _, p := range n.KwOnlyArgs {
			Inspect(p, f)
		}
		if n.KwArg != nil {
			Inspect(n.KwArg, f)
		}
		inspectExprs(n.Defaults, f)
		inspectExprs(n.KwDefaults, f)
	case *Arg:
		inspectExpr(n.Annotation, f)

	// Expressions
	case *BoolOp:
		inspectExprs(n.Values, f)
	case *NamedExpr:
		inspectExpr(n.Target, f)
		inspectExpr(n.Value, f)
	case *BinOp:
		inspectExpr(n.Left, f)
		inspectExpr(n.Right, f)
	case *UnaryOp:
		inspectExpr(n.Operand, f)
	case *Await:
		inspectExpr(n.Value, f)
	case *Compare:
		inspectExpr(n.Left, f)
		inspectExprs(n.Comparators, f)
	case *Call:
		inspectExpr(n.Func, f)
		inspectExprs(n.Args, f)
		for _, k := range n.Keywords {
			Inspect(k, f)
		}
	case *Keyword:
		inspectExpr(n.Value, f)
	case *Attribute:
		inspectExpr(n.Value, f)
	case *List:
		inspectExprs(n.Elts, f)
	case *Tuple:
		inspectExprs(n.Elts, f)
	case *Set:
		inspectExprs(n.Elts, f)
	case *Dict:
		inspectExprs(n.Keys, f)
		inspectExprs(n.Values, f)
	case *Subscript:
		inspectExpr(n.Value, f)
		inspectExpr(n.Slice, f)
	case *Slice:
		inspectExpr(n.Lower, f)
		inspectExpr(n.Upper, f)
		inspectExpr(n.Step, f)
	case *Starred:
		inspectExpr(n.Value, f)
	case *Lambda:
		if n.Args != nil {
			Inspect(n.Args, f)
		}
		inspectExpr(n.Body, f)
	case *IfExp:
		inspectExpr(n.Test, f)
		inspectExpr(n.Body, f)
		inspectExpr(n.OrElse, f)
	case *ListComp:
		inspectExpr(n.Elt, f)
		inspectGenerators(n.Generators, f)
	case *SetComp:
		inspectExpr(n.Elt, f)
		inspectGenerators(n.Generators, f)
	case *DictComp:
		inspectExpr(n.Key, f)
		inspectExpr(n.Value, f)
		inspectGenerators(n.Generators, f)
	case *GeneratorExp:
		inspectExpr(n.Elt, f)
		inspectGenerators(n.Generators, f)
	case *Comprehension:
		inspectExpr(n.Target, f)
		inspectExpr(n.Iter, f)
		inspectExprs(n.Ifs, f)
	case *JoinedStr:
		inspectExprs(n.Values, f)
	case *FormattedValue:
		inspectExpr(n.Value, f)
		inspectExpr(n.FormatSpec, f)
	case *Yield:
		inspectExpr(n.Value, f)
	case *YieldFrom:
		inspectExpr(n.Value, f)
	case *Constant, *Name, *UnimplementedExpr, *UnknownExpr:
		// leaves
	}
}

func inspectExpr(e Expr, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

func inspectExprs(list []Expr, f func(Node) bool) {
	for _, e := range list {
		inspectExpr(e, f)
	}
}

func inspectStmts(list []Stmt, f func(Node) bool) {
	for _, s := range list {
		if s != nil {
			Inspect(s, f)
		}
	}
}

func inspectGenerators(gens []*Comprehension, f func(Node) bool) {
	for _, g := range gens {
		if g != nil {
			Inspect(g, f)
		}
	}
}

// ContainsAsync reports whether any function under n is declared async.
func ContainsAsync(n Node) bool {
	found := false
	Inspect(n, func(n Node) bool {
		if found {
			return false
		}
		if fn, ok := n.(*FunctionDef); ok && fn.IsAsync {
			found = true
			return false
		}
		return true
	})
	return found
}

// ContainsBreak reports whether body contains a break that belongs to the
// loop owning body. Breaks inside nested loops, functions and classes are
// not counted.
func ContainsBreak(body []Stmt) bool {
	found := false
	for _, s := range body {
		Inspect(s, func(n Node) bool {
			if found {
				return false
			}
			switch n.(type) {
			case *Break:
				found = true
				return false
			case *For, *AsyncFor, *While, *FunctionDef, *ClassDef, Expr:
				return false
			}
			return true
		})
	}
	return found
}
