// Package codegen lowers the Python syntax tree to Rust source text.
//
// # Overview
//
// Every translation function takes the node plus three values threaded
// through the recursion:
//
//	Context        where the node sits (module, class, function, async function)
//	Options        translation configuration
//	symbols.Table  the names visible at the node
//
// None of them is mutated. A construct that opens a scope derives a new
// Context or Table and hands it to its children, so siblings never see each
// other's bindings.
//
// # Output
//
// Expressions translate to a single string; statements translate to Lines,
// one Rust line per element, indented relative to the statement. Callers
// embed a child's Lines by indenting them once more.
//
// # Failure
//
// Constructs without a lowering fail with an UnsupportedConstructError
// carrying the node kind and its source location; operators without one
// fail with an UnknownOperatorError. Errors are returned unchanged up to the
// caller. Translation never panics on malformed input.
package codegen
