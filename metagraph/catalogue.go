package metagraph

import (
	"github.com/gradforge/gradforge/abstract"
	"github.com/gradforge/gradforge/env"
	"github.com/gradforge/gradforge/glue"
	"github.com/gradforge/gradforge/ir"
)

// Catalogue is the concrete set of meta-graph instantiations downstream
// consumers expect: the elementwise arithmetic/comparison operators, the
// transcendental MultitypeGraph dispatch table, tail, list_map, the
// three grad(f) call conventions, and hyper_map.
type Catalogue struct {
	Add      *Elemwise
	Sub      *Elemwise
	Mul      *Elemwise
	TrueDiv  *Elemwise
	FloorDiv *Elemwise
	Mod      *Elemwise
	Pow      *Elemwise

	Eq *Elemwise
	Lt *Elemwise
	Gt *Elemwise
	Ne *Elemwise
	Le *Elemwise
	Ge *Elemwise

	Exp *MultitypeGraph
	Log *MultitypeGraph
	Sin *MultitypeGraph
	Cos *MultitypeGraph
	Tan *MultitypeGraph

	Tail    *Tail
	ListMap *ListMap

	Grad       *GradOperation // grad(f), first-argument gradient only
	GradAll    *GradOperation // grad(f) with get_all=true
	GradSensed *GradOperation // grad(f) accepting an external sensitivity

	HyperMap *HyperMap
}

// NewCatalogue builds the full catalogue. The GradOperation, ListMap and
// HyperMap generators publish the Lambdas they generate (GradOperation
// templates and HyperMap's leaf-dispatch Lambdas included) into globals;
// the Elemwise, MultitypeGraph and Tail generators keep theirs in their
// own caches only. factory resolves J(g) for GradOperation's target
// function.
func NewCatalogue(globals *env.GlobalEnv, factory glue.GradientFactory, opts ...Option) *Catalogue {
	c := &Catalogue{
		Add:      NewElemwise("__add__", ScalarAddSymbol, true, false, opts...),
		Sub:      NewElemwise("__sub__", ScalarSubSymbol, true, false, opts...),
		Mul:      NewElemwise("__mul__", ScalarMulSymbol, true, false, opts...),
		TrueDiv:  NewElemwise("__truediv__", ir.Symbol{}, false, false, opts...),
		FloorDiv: NewElemwise("__floordiv__", ir.Symbol{}, false, false, opts...),
		Mod:      NewElemwise("__mod__", ScalarModSymbol, true, false, opts...),
		Pow:      NewElemwise("__pow__", ScalarPowSymbol, true, false, opts...),

		Eq: NewElemwise("__eq__", ScalarEqSymbol, true, true, opts...),
		Lt: NewElemwise("__lt__", ScalarLtSymbol, true, true, opts...),
		Gt: NewElemwise("__gt__", ScalarGtSymbol, true, true, opts...),
		Ne: NewElemwise("__ne__", ScalarNeSymbol, true, true, opts...),
		Le: NewElemwise("__le__", ScalarLeSymbol, true, true, opts...),
		Ge: NewElemwise("__ge__", ScalarGeSymbol, true, true, opts...),

		Exp: NewMultitypeGraph("exp", opts...),
		Log: NewMultitypeGraph("log", opts...),
		Sin: NewMultitypeGraph("sin", opts...),
		Cos: NewMultitypeGraph("cos", opts...),
		Tan: NewMultitypeGraph("tan", opts...),

		Tail:    NewTail(opts...),
		ListMap: NewListMap(globals, opts...),

		Grad:       NewGradOperation(false, false, factory, globals, opts...),
		GradAll:    NewGradOperation(false, true, factory, globals, opts...),
		GradSensed: NewGradOperation(true, false, factory, globals, opts...),
	}

	registerUnaryScalar(c.Exp, ScalarExpSymbol)
	registerUnaryScalar(c.Log, ScalarLogSymbol)
	registerUnaryScalar(c.Sin, ScalarSinSymbol)
	registerUnaryScalar(c.Cos, ScalarCosSymbol)
	registerUnaryScalar(c.Tan, ScalarTanSymbol)

	leafDispatch := NewMultitypeGraph("hypermap_leaf", opts...)
	registerUnaryScalar(leafDispatch, IdentityOnLeafSymbol)
	c.HyperMap = NewHyperMap("hyper_map", DefaultNonleafKinds(), leafDispatch, c.ListMap, globals, opts...)

	return c
}

// registerUnaryScalar registers a single-argument scalar dispatch entry
// whose body applies the named scalar builtin.
func registerUnaryScalar(m *MultitypeGraph, scalarFn ir.Symbol) {
	m.Register(func(b *ir.Builder, args []ir.Symbol) ir.Symbol {
		out := m.gen.Fresh(ir.Symbol{Label: m.name, Namespace: ir.NamespaceGlobal}, ir.RelationNone)
		b.BindOne(out, &ir.Apply{Fn: scalarFn, Args: []ir.Operand{args[0]}})
		return out
	}, KindIs(abstract.KindScalar))
}
