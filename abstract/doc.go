// Package abstract describes the AbstractValue type/shape descriptor the
// core consumes (but never produces) from the out-of-scope inference
// stage, and the canonical signature keying the meta-graph and gradient-
// factory caches use (§3 DATA MODEL, §4.3 COMPONENT DESIGN).
//
// # Kind and Shape
//
// [Kind] is the six-way tag (Scalar, Array, Tuple, List, Class, Function)
// naming an argument's broad category. [Shape] is an ordered tuple of
// [Dim]s, where a dimension may be [Anything], the wildcard the design
// calls ANYTHING: a dimension the meta-graph must recompute dynamically
// from the runtime shape of the argument rather than bake into the
// generated graph (§4.3 Elemwise).
//
// # Value and Broaden
//
// [Value] is the descriptor itself. [Value.Broaden] erases a retained
// literal, matching normalize_args' default behavior of broadening away
// literal values unless a generator opts into infer_value.
//
// # Package Dependencies
//
// abstract imports [github.com/gradforge/gradforge/immutable] (for the
// canonical signature [Key] backing the meta-graph cache),
// [github.com/gradforge/gradforge/ir] (for the symbol a known function
// value names), and stdlib. It must not import glue, prim, metagraph,
// env, or grad.
package abstract
