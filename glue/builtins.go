package glue

import "github.com/gradforge/gradforge/ir"

// Builtin operator symbols embedded by [ApplyJ], [ApplyJinv], [ApplyMapAdd],
// [ApplyZerosLike], and [ApplyOnesLike]. These name operators the core
// never evaluates itself; they are resolved by whatever executes the
// generated graph.
var (
	JSymbol         = ir.Symbol{Label: "J", Namespace: ir.NamespaceBuiltin}
	JinvSymbol      = ir.Symbol{Label: "Jinv", Namespace: ir.NamespaceBuiltin}
	MapAddSymbol    = ir.Symbol{Label: "mapadd", Namespace: ir.NamespaceBuiltin}
	ZerosLikeSymbol = ir.Symbol{Label: "zeros_like", Namespace: ir.NamespaceBuiltin}
	OnesLikeSymbol  = ir.Symbol{Label: "ones_like", Namespace: ir.NamespaceBuiltin}
)

// ApplyJ builds the IR node for `J(operand)`: lifting an operand of
// runtime-unknown kind into the J'd value space (§4.4).
func ApplyJ(operand ir.Operand) ir.Expr {
	return &ir.Apply{Fn: JSymbol, Args: []ir.Operand{operand}}
}

// ApplyJinv builds the IR node for `Jinv(operand)`, the inverse lift
// (§4.4). Applying it to a primitive at runtime is fatal (UnliftablePrimal,
// §7); the core cannot detect that case statically and leaves it to the
// downstream evaluator.
func ApplyJinv(operand ir.Operand) ir.Expr {
	return &ir.Apply{Fn: JinvSymbol, Args: []ir.Operand{operand}}
}

// ApplyMapAdd builds the IR node for `mapadd(x, y)` (§4.5). Callers
// implementing the accum_multi discipline (§4.6) should elide this and
// use y directly when x is statically known to be [ir.ZERO].
func ApplyMapAdd(x, y ir.Operand) ir.Expr {
	return &ir.Apply{Fn: MapAddSymbol, Args: []ir.Operand{x, y}}
}

// ApplyZerosLike builds the IR node for `zeros_like(operand)` (§4.5).
func ApplyZerosLike(operand ir.Operand) ir.Expr {
	return &ir.Apply{Fn: ZerosLikeSymbol, Args: []ir.Operand{operand}}
}

// ApplyOnesLike builds the IR node for `ones_like(operand)` (§4.5).
func ApplyOnesLike(operand ir.Operand) ir.Expr {
	return &ir.Apply{Fn: OnesLikeSymbol, Args: []ir.Operand{operand}}
}
