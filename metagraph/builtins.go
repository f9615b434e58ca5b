package metagraph

import "github.com/gradforge/gradforge/ir"

// Builtin operator symbols the generators below embed in emitted Apply
// nodes. None of these are evaluated by this package; they name
// operations a downstream evaluator must implement, mirroring how J and
// Jinv are embedded rather than interpreted.
var (
	ToArraySymbol        = ir.Symbol{Label: "to_array", Namespace: ir.NamespaceBuiltin}
	ArrayMapSymbol       = ir.Symbol{Label: "array_map", Namespace: ir.NamespaceBuiltin}
	DistributeSymbol     = ir.Symbol{Label: "distribute", Namespace: ir.NamespaceBuiltin}
	ShapeSymbol          = ir.Symbol{Label: "shape", Namespace: ir.NamespaceBuiltin}
	BroadcastShapeSymbol = ir.Symbol{Label: "broadcast_shape", Namespace: ir.NamespaceBuiltin}
	GetAttrSymbol        = ir.Symbol{Label: "getattr", Namespace: ir.NamespaceBuiltin}
	MakeTupleSymbol      = ir.Symbol{Label: "make_tuple", Namespace: ir.NamespaceBuiltin}
	TupleGetItemSymbol   = ir.Symbol{Label: "tuple_getitem", Namespace: ir.NamespaceBuiltin}
	MakeListSymbol       = ir.Symbol{Label: "make_list", Namespace: ir.NamespaceBuiltin}
	ListAppendSymbol     = ir.Symbol{Label: "list_append", Namespace: ir.NamespaceBuiltin}
	BoolAndSymbol        = ir.Symbol{Label: "bool_and", Namespace: ir.NamespaceBuiltin}
	SwitchSymbol         = ir.Symbol{Label: "switch", Namespace: ir.NamespaceBuiltin}
	ListIterSymbol       = ir.Symbol{Label: "list_iter", Namespace: ir.NamespaceBuiltin}
	NextSymbol           = ir.Symbol{Label: "next", Namespace: ir.NamespaceBuiltin}
	HasNextSymbol        = ir.Symbol{Label: "hasnext", Namespace: ir.NamespaceBuiltin}
	CastHelperSymbol     = ir.Symbol{Label: "_cast_helper", Namespace: ir.NamespaceBuiltin}
	TailSymbol           = ir.Symbol{Label: "tail", Namespace: ir.NamespaceBuiltin}
	JSymbol              = ir.Symbol{Label: "J", Namespace: ir.NamespaceBuiltin}
	JinvSymbol           = ir.Symbol{Label: "Jinv", Namespace: ir.NamespaceBuiltin}

	// IdentityOnLeafSymbol is the leaf-case dispatch target for HyperMap's
	// leaf MultitypeGraph (catalogue.go): applying a unary function to a
	// scalar leaf just calls the function on it directly.
	IdentityOnLeafSymbol = ir.Symbol{Label: "identity", Namespace: ir.NamespaceBuiltin}

	// Scalar primitives the Elemwise catalogue (catalogue.go) dispatches
	// to for the array case, one per catalogue operator that has a
	// Elemwise instantiations.
	ScalarAddSymbol = ir.Symbol{Label: "scalar_add", Namespace: ir.NamespaceBuiltin}
	ScalarSubSymbol = ir.Symbol{Label: "scalar_sub", Namespace: ir.NamespaceBuiltin}
	ScalarMulSymbol = ir.Symbol{Label: "scalar_mul", Namespace: ir.NamespaceBuiltin}
	ScalarModSymbol = ir.Symbol{Label: "scalar_mod", Namespace: ir.NamespaceBuiltin}
	ScalarPowSymbol = ir.Symbol{Label: "scalar_pow", Namespace: ir.NamespaceBuiltin}
	ScalarEqSymbol  = ir.Symbol{Label: "scalar_eq", Namespace: ir.NamespaceBuiltin}
	ScalarLtSymbol  = ir.Symbol{Label: "scalar_lt", Namespace: ir.NamespaceBuiltin}
	ScalarGtSymbol  = ir.Symbol{Label: "scalar_gt", Namespace: ir.NamespaceBuiltin}
	ScalarNeSymbol  = ir.Symbol{Label: "scalar_ne", Namespace: ir.NamespaceBuiltin}
	ScalarLeSymbol  = ir.Symbol{Label: "scalar_le", Namespace: ir.NamespaceBuiltin}
	ScalarGeSymbol  = ir.Symbol{Label: "scalar_ge", Namespace: ir.NamespaceBuiltin}
	ScalarExpSymbol = ir.Symbol{Label: "scalar_exp", Namespace: ir.NamespaceBuiltin}
	ScalarLogSymbol = ir.Symbol{Label: "scalar_log", Namespace: ir.NamespaceBuiltin}
	ScalarSinSymbol = ir.Symbol{Label: "scalar_sin", Namespace: ir.NamespaceBuiltin}
	ScalarCosSymbol = ir.Symbol{Label: "scalar_cos", Namespace: ir.NamespaceBuiltin}
	ScalarTanSymbol = ir.Symbol{Label: "scalar_tan", Namespace: ir.NamespaceBuiltin}
)
