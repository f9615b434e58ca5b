package prim

import "github.com/gradforge/gradforge/ir"

// Forward symbols for every primitive in the rgrad catalogue. Each names
// the builtin operator the core embeds into generated graphs; the core
// never reduces these itself.
var (
	ZerosLikeSymbol     = ir.Symbol{Label: "zeros_like", Namespace: ir.NamespaceBuiltin}
	MapAddSymbol        = ir.Symbol{Label: "mapadd", Namespace: ir.NamespaceBuiltin}
	JSymbol             = ir.Symbol{Label: "J", Namespace: ir.NamespaceBuiltin}
	JinvSymbol          = ir.Symbol{Label: "Jinv", Namespace: ir.NamespaceBuiltin}
	AddSymbol           = ir.Symbol{Label: "add", Namespace: ir.NamespaceBuiltin}
	SubtractSymbol      = ir.Symbol{Label: "subtract", Namespace: ir.NamespaceBuiltin}
	MultiplySymbol      = ir.Symbol{Label: "multiply", Namespace: ir.NamespaceBuiltin}
	DivideSymbol        = ir.Symbol{Label: "divide", Namespace: ir.NamespaceBuiltin}
	UnarySubtractSymbol = ir.Symbol{Label: "unary_subtract", Namespace: ir.NamespaceBuiltin}
	EqualSymbol         = ir.Symbol{Label: "equal", Namespace: ir.NamespaceBuiltin}
	GreaterSymbol       = ir.Symbol{Label: "greater", Namespace: ir.NamespaceBuiltin}
	LessSymbol          = ir.Symbol{Label: "less", Namespace: ir.NamespaceBuiltin}
	SwitchSymbol        = ir.Symbol{Label: "switch", Namespace: ir.NamespaceBuiltin}
	IdentitySymbol      = ir.Symbol{Label: "identity", Namespace: ir.NamespaceBuiltin}
	IndexSymbol         = ir.Symbol{Label: "index", Namespace: ir.NamespaceBuiltin}
	LenSymbol           = ir.Symbol{Label: "len", Namespace: ir.NamespaceBuiltin}
	RangeSymbol         = ir.Symbol{Label: "range", Namespace: ir.NamespaceBuiltin}
	MapSymbol           = ir.Symbol{Label: "map", Namespace: ir.NamespaceBuiltin}
	EnumerateSymbol     = ir.Symbol{Label: "enumerate", Namespace: ir.NamespaceBuiltin}

	// reduceMapAddSymbol folds a list of gradient contributions with
	// mapadd. Named as its own embedded builtin rather than assuming the
	// downstream evaluator carries an ambient reduce.
	reduceMapAddSymbol = ir.Symbol{Label: "reduce_mapadd", Namespace: ir.NamespaceBuiltin}
)

// Names of every primitive in the catalogue, used to key [Rule]
// registration.
const (
	NameZerosLike     = "zeros_like"
	NameMapAdd        = "mapadd"
	NameJ             = "J"
	NameJinv          = "Jinv"
	NameAdd           = "add"
	NameSubtract      = "subtract"
	NameMultiply      = "multiply"
	NameDivide        = "divide"
	NameUnarySubtract = "unary_subtract"
	NameEqual         = "equal"
	NameGreater       = "greater"
	NameLess          = "less"
	NameSwitch        = "switch"
	NameIdentity      = "identity"
	NameIndex         = "index"
	NameLen           = "len"
	NameRange         = "range"
	NameMap           = "map"
	NameEnumerate     = "enumerate"
)
