package codegen

import (
	"fmt"

	"github.com/teranos/pyrust/ast"
)

// forLoop lowers for and async for. A loop with an else clause tracks
// completion in a flag that every break of this loop clears.
func (e env) forLoop(target, iter ast.Expr, body, orElse []ast.Stmt, async bool) (Lines, error) {
	it, err := e.operand(iter)
	if err != nil {
		return nil, err
	}
	pattern, err := e.loopTarget(target)
	if err != nil {
		return nil, err
	}

	loopCtx := e.ctx.Loop(len(orElse) > 0).Declare(targetNames(target)...)
	inner, err := e.withContext(loopCtx).body(body)
	if err != nil {
		return nil, err
	}

	head := "for " + pattern + " in " + it
	if async {
		head = "while let Some(" + pattern + ") = " + it + ".next().await"
	}
	return e.withCompletion(loopCtx, Block(head, inner), orElse)
}

func (e env) whileLoop(w *ast.While) (Lines, error) {
	head := "loop"
	if !isTrue(w.Test) {
		test, err := e.expr(w.Test)
		if err != nil {
			return nil, err
		}
		head = "while " + test
	}
	loopCtx := e.ctx.Loop(len(w.OrElse) > 0)
	inner, err := e.withContext(loopCtx).body(w.Body)
	if err != nil {
		return nil, err
	}
	return e.withCompletion(loopCtx, Block(head, inner), w.OrElse)
}

// withCompletion wraps a translated loop with its else clause, if any.
func (e env) withCompletion(loopCtx Context, loop Lines, orElse []ast.Stmt) (Lines, error) {
	if len(orElse) == 0 {
		return loop, nil
	}
	flag := loopCtx.LoopFlag()
	elseBody, err := e.body(orElse)
	if err != nil {
		return nil, err
	}
	out := Line("let mut " + flag + " = true;")
	out = append(out, loop...)
	return append(out, Block("if "+flag, elseBody)...), nil
}

func (e env) loopTarget(target ast.Expr) (string, error) {
	if target == nil {
		return "", e.missing("expression")
	}
	if allNames(target) {
		return e.expr(target)
	}
	return "", e.unsupportedf(target, "loop target %s", target.Kind())
}

func isTrue(x ast.Expr) bool {
	switch v := x.(type) {
	case *ast.Constant:
		return v.Type == ast.BoolConstant && v.Value == "True"
	case *ast.Name:
		return v.ID == "True"
	}
	return false
}

// ifStmt flattens elif chains into `else if`.
func (e env) ifStmt(s *ast.If) (Lines, error) {
	var out Lines
	keyword := "if "
	for {
		test, err := e.expr(s.Test)
		if err != nil {
			return nil, err
		}
		body, err := e.body(s.Body)
		if err != nil {
			return nil, err
		}
		block := Block(keyword+test, body)
		if len(out) > 0 {
			// Join with the closing brace of the previous branch.
			out[len(out)-1] += " " + block[0]
			block = block[1:]
		}
		out = append(out, block...)

		if len(s.OrElse) == 1 {
			if elif, ok := s.OrElse[0].(*ast.If); ok {
				s = elif
				keyword = "else if "
				continue
			}
		}
		if len(s.OrElse) > 0 {
			elseBody, err := e.body(s.OrElse)
			if err != nil {
				return nil, err
			}
			block := Block("else", elseBody)
			out[len(out)-1] += " " + block[0]
			out = append(out, block[1:]...)
		}
		return out, nil
	}
}

// try runs the body, the else clause and the finally clause in sequence.
// Handlers are kept for reference behind `if false`, since nothing in the
// lowered code raises.
func (e env) try(t *ast.Try) (Lines, error) {
	block, err := e.body(t.Body)
	if err != nil {
		return nil, err
	}
	for _, h := range t.Handlers {
		hctx := e.ctx
		label := "except"
		if h.Type != nil {
			label += " " + exprText(h.Type)
		}
		var bound Lines
		if h.Name != nil {
			label += " as " + *h.Name
			bound = Line("let " + RustIdent(*h.Name) + " = PyObject::default();")
			hctx = hctx.Declare(*h.Name)
		}
		hbody, err := e.withContext(hctx).body(h.Body)
		if err != nil {
			return nil, err
		}
		block = append(block, "// "+label+":")
		block = append(block, Block("if false", bound.Append(hbody))...)
	}
	if len(t.OrElse) > 0 {
		orElse, err := e.body(t.OrElse)
		if err != nil {
			return nil, err
		}
		block = append(block, orElse...)
	}
	if len(t.FinalBody) > 0 {
		final, err := e.body(t.FinalBody)
		if err != nil {
			return nil, err
		}
		block = append(block, "// finally:")
		block = append(block, final...)
	}
	out := Line("// try/except approximated: handlers never run, finally runs in sequence")
	return append(out, Block("", block)...), nil
}

// with binds each context manager for the duration of a block. Release
// happens when the bindings go out of scope.
func (e env) with(items []*ast.WithItem, body []ast.Stmt, async bool) (Lines, error) {
	var prelude Lines
	wctx := e.ctx
	for i, item := range items {
		cm, err := e.expr(item.ContextExpr)
		if err != nil {
			return nil, err
		}
		if async {
			cm = operandText(item.ContextExpr, cm) + ".await"
		}
		if item.OptionalVars == nil {
			prelude = append(prelude, fmt.Sprintf("let _with_%d = %s;", i, cm))
			continue
		}
		pattern, err := e.loopTarget(item.OptionalVars)
		if err != nil {
			return nil, err
		}
		prelude = append(prelude, "let "+pattern+" = "+cm+";")
		wctx = wctx.Declare(targetNames(item.OptionalVars)...)
	}
	inner, err := e.withContext(wctx).body(body)
	if err != nil {
		return nil, err
	}
	comment := "// with approximated: no guaranteed release"
	if async {
		comment = "// async with approximated: no guaranteed release"
	}
	return append(Line(comment), Block("", prelude.Append(inner))...), nil
}

// operandText parenthesises an already translated expression when x is not
// atomic.
func operandText(x ast.Expr, s string) string {
	if atomic(x) {
		return s
	}
	return "(" + s + ")"
}
