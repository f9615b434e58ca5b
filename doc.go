// Package gradforge provides the transformation core of a
// differentiable-programming compiler for Go applications.
//
// Gradforge consumes a user program already lowered to a small functional
// intermediate representation (pure graphs with first-class closures, in
// administrative-normal form) and produces a specialized IR that
// additionally provides, for every user function, a tagged variant
// computing both the original output and a backpropagator closure
// yielding input gradients.
//
// # Architecture Overview
//
// The module is organized into layers with strict dependency ordering:
//
//	Foundation tier (no internal dependencies):
//	  - diag: Structured errors with stable codes for every failure kind
//	  - immutable: Read-only wrappers used as structural cache keys
//	  - internal/trace, internal/ident: Logging and identifier utilities
//
//	IR tier:
//	  - ir: The Symbol/Value/Apply/Tuple/Closure/Let/Lambda node model
//	    and the Builder that assembles ANF bodies
//	  - ir/gensym: The alpha-freshness service minting versioned symbols
//	  - abstract: Type/shape descriptors driving meta-graph dispatch
//	  - env: The process-scoped global environment of registered Lambdas
//
//	Transformation tier:
//	  - glue: J/Jinv lifting helpers, mapadd/zeros_like emission, and
//	    the GRAD grouping convention shared by every backpropagator
//	  - prim: The primitive registry with per-nargs_closure gradient
//	    factories and the full rgrad backward-rule catalogue
//	  - metagraph: Polymorphic operators (Elemwise, MultitypeGraph,
//	    HyperMap, Tail, ListMap, GradOperation) synthesizing a Lambda
//	    per abstract argument signature
//	  - grad: The reverse-mode AD transform producing ↑f and ♦f
//
// # Entry Points
//
// Differentiating a function:
//
//	import (
//	    "github.com/gradforge/gradforge/env"
//	    "github.com/gradforge/gradforge/grad"
//	    "github.com/gradforge/gradforge/prim"
//	)
//
//	globals := env.New()
//	registry := prim.New(globals)
//	tr := grad.New(globals, registry)
//
//	upSym, err := tr.Transform(ctx, fSym, f, 0)
//	if err != nil {
//	    // *diag.Error with a stable code (E_INVARIANT_VIOLATION, ...)
//	}
//	up, _ := globals.Lookup(upSym) // ↑f: returns (tagged output, ♢f)
//
// Generating a polymorphic operator's graph:
//
//	import "github.com/gradforge/gradforge/metagraph"
//
//	cat := metagraph.NewCatalogue(globals, tr)
//	lam, err := cat.Add.Generate(cat.Add.NormalizeArgs(args))
//	if err != nil {
//	    // *diag.Error (E_SHAPE_MISMATCH, E_NO_SIGNATURE, ...)
//	}
//	// lam is memoized: a second Generate with the same normalized
//	// signature returns the identical *ir.Lambda.
//
// # Subpackages
//
// See the individual package documentation for detailed usage:
//
//   - [github.com/gradforge/gradforge/ir]: IR node model and builder
//   - [github.com/gradforge/gradforge/ir/gensym]: Alpha-fresh symbols
//   - [github.com/gradforge/gradforge/abstract]: Abstract values/shapes
//   - [github.com/gradforge/gradforge/env]: Global environment
//   - [github.com/gradforge/gradforge/glue]: Lifting and GRAD grouping
//   - [github.com/gradforge/gradforge/prim]: Primitive registry
//   - [github.com/gradforge/gradforge/metagraph]: Meta-graph engine
//   - [github.com/gradforge/gradforge/grad]: The Grad transform
//   - [github.com/gradforge/gradforge/diag]: Structured errors
package gradforge
