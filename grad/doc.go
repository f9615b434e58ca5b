// Package grad implements the reverse-mode automatic differentiation
// transform (§4.6 THE GRAD TRANSFORM): given a Lambda in administrative-
// normal form and the nargs_closure split point of its arguments, it
// synthesizes an augmented forward Lambda ↑f whose result tuple is
// (tagged-output, backpropagator-closure ♢f), and registers both ♢f's
// target ♦f and ↑f itself in the global environment.
//
// # Shape
//
// [Transformer.Transform] is a pure function from (symbol, Lambda,
// nargsClosure) to a freshly registered ↑f symbol plus a set of global
// environment mutations, implemented as a builder object ([state]) with
// private mutable maps -- tagged, sensitivity, backprop, capturedParam,
// and the lazily-populated zeros bindings -- exposing only the transform
// itself (§9 DESIGN NOTES: "implement it as a builder object with
// private mutable maps, exposing only transform() -> Symbol").
//
// The forward pass (φ) walks f's bindings in source order, tagging every
// referenced operand via [glue.TagGlobal] (global/builtin symbols) or a
// lookup in the per-transform tagged map (local symbols), and records,
// for every Apply binding, the saved backpropagator closure ♢v it
// produced. The backward pass (ρ) walks the same bindings in reverse,
// accumulating sensitivities via accum_multi (accum.go) and lazily
// seeding zeros_like(Jinv(↑v)) through [Transformer.conformant] wherever
// a conformant (never-ZERO) read is required (§4.6).
//
// # Recursive gradient factories
//
// [Transformer] itself satisfies [glue.GradientFactory]: a Closure
// binding's function symbol, or a tagged reference to a global function,
// resolves to gradient_factory(sym, k) by delegating to a primitive
// registry for builtin symbols and to a memoized recursive Transform call
// for global symbols naming other user Lambdas (§4.2's "lazily
// constructs... and caches the result" applies uniformly to both).
package grad
