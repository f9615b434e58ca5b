// Package ir defines the algebraic intermediate representation the Grad
// transform and the meta-graph engine consume and produce: Symbol, Value,
// Apply, Tuple, Closure, Lambda, and Let.
//
// # Administrative Normal Form
//
// Every Expr's own operands are [Symbol] or [Value]: an [Apply], [TupleExpr],
// or [ClosureExpr] never nests another Expr. A [Lambda]'s body is a [Let]: an
// ordered sequence of single-assignment [Binding]s terminated by a returned
// Symbol. [Builder] is the mutable construction API; once [Builder.Finalize]
// produces a Lambda, its body is never mutated again.
//
// # Symbols, not References
//
// Cyclic structure (a Lambda referring to another Lambda, a closure
// referring to its function) is expressed as a [Symbol] lookup, never a
// direct Go pointer, so that Lambdas can be interned in a process-scoped
// global environment (see [github.com/gradforge/gradforge/env]) without
// reference cycles.
//
// # Package Dependencies
//
// ir imports [github.com/gradforge/gradforge/immutable] for the boxed
// literal payload backing [Value], and stdlib only otherwise. It must not
// import abstract, metagraph, prim, glue, env, or grad: those packages
// depend on ir, not the reverse.
package ir
