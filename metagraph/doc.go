// Package metagraph implements the meta-graph engine of §4.3: polymorphic
// operators that synthesize a [github.com/gradforge/gradforge/ir.Lambda]
// per normalized argument signature and cache the result by reference.
//
// Every concrete generator (Elemwise, MultitypeGraph, HyperMap, Tail,
// ListMap, GradOperation) implements [MetaGraph]. Generation itself never
// evaluates a program: it only emits Apply/Tuple/Closure nodes naming
// builtin operators (array_map, to_array, distribute, make_tuple, ...)
// for a downstream evaluator to interpret, the same stance the ir and
// glue packages take toward J/Jinv (§2 non-goal: "the core does not
// interpret programs").
//
// Dependency rule: metagraph imports ir, ir/gensym, abstract, glue, diag,
// internal/trace and may import prim for its builtin operator symbols,
// but must never be imported by prim (prim's construction-time rules
// never need a generated meta-graph).
package metagraph
