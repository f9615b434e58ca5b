// Package glue provides the small set of operators the core embeds into
// generated Lambda bodies to defer J/Jinv lifting, gradient accumulation,
// and zero/one-filling to the downstream runtime the core does not
// itself evaluate against (§4.4 J / Jinv lifting, §4.5 mapadd and
// zeros_like, §4.7 gradient macro convention).
//
// # Two lifting paths
//
// J and Jinv have two distinct call sites in this design:
//
//   - Over an operand of unknown runtime kind (e.g. the result of
//     `prim(Jinv(a1),...,Jinv(an))` in a primitive's wrapper Lambda, §4.2),
//     the core cannot decide statically whether the value is a scalar, a
//     tuple, or a closure. It therefore emits an [ir.Apply] node calling
//     the builtin operator symbol ([JSymbol], [JinvSymbol]) and leaves
//     the polymorphic dispatch to whatever evaluates the generated graph.
//     [ApplyJ] and [ApplyJinv] build these nodes.
//   - Over a symbol statically known to name a global or builtin function
//     (Grad's "tagging of expressions", §4.6: "a referenced global/builtin
//     symbol g is re-emitted as J(g)"), the lift is resolved eagerly by
//     asking a [GradientFactory] for gradient_factory(g, 0). [TagGlobal]
//     performs this resolution; it is the only place glue calls back into
//     the primitive/meta-graph registries, via dependency inversion (glue
//     never imports prim or metagraph).
//
// mapadd, zeros_like, and ones_like follow the first path exclusively:
// [ApplyMapAdd], [ApplyZerosLike], and [ApplyOnesLike] all emit builtin
// operator calls over operands of unknown runtime shape.
//
// # The GRAD macro
//
// [GradGroup] is the one piece of §4.4-adjacent machinery that is a pure
// compile-time rewrite rather than an embedded runtime call: it splits an
// ordered gradient slice into the closure sub-tuple and the remaining
// per-argument gradients (§4.7).
//
// # Package dependencies
//
// glue imports ir and stdlib. It depends on prim and metagraph
// only through the [GradientFactory] interface it declares, never by
// import, to avoid a cycle (prim's wrapper construction itself calls into
// glue).
package glue
