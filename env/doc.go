// Package env implements the process-scoped global environment: a
// symbol-to-Lambda table shared by the Grad transform and the primitive
// and meta-graph registries (§3 DATA MODEL, §5 scheduling/shared-state
// notes).
//
// # Symbols, not references
//
// A [GlobalEnv] stores Lambdas keyed by [ir.Symbol]. Cyclic structure
// (Lambda referring to another Lambda that in turn refers back) is
// resolved by interning: any link "out" of a Lambda's body is a symbol,
// resolved through the environment at the point of use, never a direct
// Go pointer held inside the IR itself (§9 of the design, "Cyclic
// references").
//
// # Write-once registration
//
// New symbols are always fresh (§5): [GlobalEnv.Register] returns
// [ErrAlreadyRegistered] if the symbol is already bound. A failed Grad
// invocation must leave no partial Lambda behind; callers build the full
// Lambda first and register it only once finished, never register and
// then mutate.
//
// # Package dependencies
//
// env imports ir and diag, and stdlib. It must not import abstract,
// glue, prim, metagraph, or grad.
package env
