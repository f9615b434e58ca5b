package grad

import "github.com/gradforge/gradforge/ir"

// Local redeclarations of builtin symbols the transform emits Apply/
// ClosureExpr nodes against. Each package in this module keeps its own
// copy rather than importing another's (ir.Symbol equality is
// structural), avoiding an import cycle between grad, prim, and
// metagraph.
var (
	TupleGetItemSymbol = ir.Symbol{Label: "tuple_getitem", Namespace: ir.NamespaceBuiltin}
	MakeTupleSymbol    = ir.Symbol{Label: "make_tuple", Namespace: ir.NamespaceBuiltin}
)
