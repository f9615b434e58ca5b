// Package prim implements the primitive registry (§4.2 COMPONENT DESIGN):
// the mapping from stable primitive names to {forward, gradient_factory}
// records, and the concrete rgrad catalogue of backward rules for the
// built-in primitives.
//
// # Records
//
// Each [Rule] names a primitive's Forward builtin symbol (the operator
// the core embeds into generated graphs for later evaluation; the core
// itself never reduces it, per §2's "does not interpret programs") and a
// Backward callback that builds the body of ♦prim_nc -- the
// closure-converted backpropagator -- for a requested nargs_closure.
//
// # Gradient factories are memoized per nargs_closure
//
// [Registry.GradientFactory] builds, registers, and caches the wrapper
// Lambda described in §4.2:
//
//	λ(a1,...,an). let forward = J(prim(Jinv(a1),...,Jinv(an)))
//	                  bprop    = Closure(♦prim_nc, a1,...,an)
//	              in (forward, bprop)
//
// A second call with the same (primitive, nargs_closure) pair returns the
// previously registered symbol verbatim, satisfying [glue.GradientFactory]
// and the "Primitive gradient caches: per-primitive map from
// nargs_closure to Lambda" contract in §5.
//
// # The rgrad catalogue
//
// rgrad.go carries the full catalogue: zeros_like, mapadd, J, Jinv, the
// arithmetic and comparison primitives, switch, identity, tuple
// index/len/range, and map/enumerate. gmap's backward rule is a
// known-incomplete reduction, kept rather than silently corrected (see
// DESIGN.md's Open Question O3).
//
// # Package dependencies
//
// prim imports ir, ir/gensym, env, glue, diag, internal/trace, and
// stdlib. It must not import metagraph or grad (metagraph and grad both
// depend on prim).
package prim
