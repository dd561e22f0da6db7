package codegen

import (
	"fmt"

	"github.com/teranos/pyrust/ast"
)

// ContextKind is the kind of enclosing translation environment.
type ContextKind int

const (
	ModuleContext ContextKind = iota
	ClassContext
	FunctionContext
	AsyncContext
)

func (k ContextKind) String() string {
	switch k {
	case ModuleContext:
		return "module"
	case ClassContext:
		return "class"
	case FunctionContext:
		return "function"
	case AsyncContext:
		return "async"
	default:
		return fmt.Sprintf("ContextKind(%d)", int(k))
	}
}

// Context is the translation environment threaded through every recursive
// call. It is a value: deriving a new context never affects the caller's.
type Context struct {
	kind   ContextKind
	name   string
	module string
	class  string

	// loopDepth counts enclosing loops; it keeps completion flags of nested
	// loops distinct.
	loopDepth int
	// loopFlag names the completion flag of the innermost loop when that loop
	// has an else clause, and is empty otherwise.
	loopFlag string

	// renames maps function definitions to the names they are emitted
	// under. It is shared between derived contexts and never mutated after
	// construction.
	renames map[*ast.FunctionDef]string

	// declared holds the local names already introduced with `let` in the
	// current function. Copy on write, like renames.
	declared map[string]bool

	// globals holds the names the current function declares `global`.
	globals map[string]bool
	// statics holds the module globals some function rebinds. Shared like
	// renames.
	statics map[string]bool
}

// Module returns the root context for a module named name.
func Module(name string) Context {
	return Context{kind: ModuleContext, name: name, module: name}
}

// Kind returns the context kind.
func (c Context) Kind() ContextKind { return c.kind }

// Name returns the module, class or function name the context belongs to.
func (c Context) Name() string { return c.name }

// ModuleName returns the name of the enclosing module.
func (c Context) ModuleName() string { return c.module }

// IsAsync reports whether the context is an async function body.
func (c Context) IsAsync() bool { return c.kind == AsyncContext }

// InClass reports whether the context is directly inside a class body.
func (c Context) InClass() bool { return c.kind == ClassContext }

// Class returns the context for the body of class name.
func (c Context) Class(name string) Context {
	c.kind = ClassContext
	c.name = name
	c.class = name
	c.loopDepth = 0
	c.loopFlag = ""
	c.declared = nil
	c.globals = nil
	return c
}

// Function returns the context for the body of function name.
func (c Context) Function(name string) Context {
	c.kind = FunctionContext
	c.name = name
	c.loopDepth = 0
	c.loopFlag = ""
	c.declared = nil
	c.globals = nil
	return c
}

// Async returns the context for the body of async function name.
func (c Context) Async(name string) Context {
	c = c.Function(name)
	c.kind = AsyncContext
	return c
}

// EnclosingClass returns the name of the innermost class whose methods are
// being translated, or "".
func (c Context) EnclosingClass() string { return c.class }

// Loop returns the context for the body of a loop. When withElse is set the
// returned context carries the loop's completion flag so that `break` can
// clear it.
func (c Context) Loop(withElse bool) Context {
	c.loopDepth++
	if withElse {
		c.loopFlag = completionFlag(c.loopDepth)
	} else {
		c.loopFlag = ""
	}
	return c
}

// LoopFlag returns the completion flag of the innermost loop, or "" when
// that loop has no else clause.
func (c Context) LoopFlag() string { return c.loopFlag }

// LoopDepth returns the number of enclosing loops in the current function.
func (c Context) LoopDepth() int { return c.loopDepth }

// WithRename returns a context in which def is emitted as to, both at its
// definition and wherever a name resolves to it.
func (c Context) WithRename(def *ast.FunctionDef, to string) Context {
	renames := make(map[*ast.FunctionDef]string, len(c.renames)+1)
	for k, v := range c.renames {
		renames[k] = v
	}
	renames[def] = to
	c.renames = renames
	return c
}

// Renamed returns the name def is emitted under, if it was renamed.
func (c Context) Renamed(def *ast.FunctionDef) (string, bool) {
	to, ok := c.renames[def]
	return to, ok
}

// Declare returns a context in which names count as declared locals.
func (c Context) Declare(names ...string) Context {
	if len(names) == 0 {
		return c
	}
	declared := make(map[string]bool, len(c.declared)+len(names))
	for k := range c.declared {
		declared[k] = true
	}
	for _, n := range names {
		declared[n] = true
	}
	c.declared = declared
	return c
}

// Declared reports whether name was declared in the current function.
func (c Context) Declared(name string) bool { return c.declared[name] }

// WithGlobals returns a context in which names refer to module globals.
func (c Context) WithGlobals(names ...string) Context {
	if len(names) == 0 {
		return c
	}
	globals := make(map[string]bool, len(c.globals)+len(names))
	for k := range c.globals {
		globals[k] = true
	}
	for _, n := range names {
		globals[n] = true
	}
	c.globals = globals
	return c
}

// IsGlobal reports whether the current function declared name `global`.
func (c Context) IsGlobal(name string) bool { return c.globals[name] }

// WithMutableStatics returns a context in which names are module globals
// rebound from inside functions.
func (c Context) WithMutableStatics(names []string) Context {
	statics := make(map[string]bool, len(names))
	for _, n := range names {
		statics[n] = true
	}
	c.statics = statics
	return c
}

// IsMutableStatic reports whether name is a module global some function
// rebinds.
func (c Context) IsMutableStatic(name string) bool { return c.statics[name] }

func (c Context) String() string {
	return fmt.Sprintf("%s(%s)", c.kind, c.name)
}

func completionFlag(depth int) string {
	return fmt.Sprintf("__loop_completed_%d", depth)
}
