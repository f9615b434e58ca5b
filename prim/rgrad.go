package prim

import "github.com/gradforge/gradforge/ir"

// defaultRules returns the full rgrad catalogue. Every rule ends its
// body with the GRAD convention ([RuleBuilder.Group], §4.7): the leading
// nargs_closure gradients packed into a sub-tuple, the rest trailing.
func defaultRules() []Rule {
	return []Rule{
		{Name: NameZerosLike, Forward: ZerosLikeSymbol, Arity: 1, Backward: gZerosLike},
		{Name: NameMapAdd, Forward: MapAddSymbol, Arity: 2, Backward: gMapAdd},
		{Name: NameJ, Forward: JSymbol, Arity: 1, Backward: gJ},
		{Name: NameJinv, Forward: JinvSymbol, Arity: 1, Backward: gJinv},
		{Name: NameAdd, Forward: AddSymbol, Arity: 2, Backward: gAdd},
		{Name: NameSubtract, Forward: SubtractSymbol, Arity: 2, Backward: gSubtract},
		{Name: NameMultiply, Forward: MultiplySymbol, Arity: 2, Backward: gMultiply},
		{Name: NameDivide, Forward: DivideSymbol, Arity: 2, Backward: gDivide},
		{Name: NameUnarySubtract, Forward: UnarySubtractSymbol, Arity: 1, Backward: gUnarySubtract},
		{Name: NameEqual, Forward: EqualSymbol, Arity: 2, Backward: gEqual},
		{Name: NameGreater, Forward: GreaterSymbol, Arity: 2, Backward: gGreater},
		{Name: NameLess, Forward: LessSymbol, Arity: 2, Backward: gLess},
		{Name: NameSwitch, Forward: SwitchSymbol, Arity: 3, Backward: gSwitch},
		{Name: NameIdentity, Forward: IdentitySymbol, Arity: 1, Backward: gIdentity},
		{Name: NameIndex, Forward: IndexSymbol, Arity: 2, Backward: gIndex},
		{Name: NameLen, Forward: LenSymbol, Arity: 1, Backward: gLen},
		{Name: NameRange, Forward: RangeSymbol, Arity: 1, Backward: gRange},
		{Name: NameMap, Forward: MapSymbol, Arity: 2, Backward: gMap},
		{Name: NameEnumerate, Forward: EnumerateSymbol, Arity: 1, Backward: gEnumerate},
	}
}

// gZerosLike: GRAD(zeros_like(x)).
func gZerosLike(rb *RuleBuilder) (ir.Symbol, error) {
	x := rb.Arg(0)
	g := rb.Apply(ZerosLikeSymbol, x)
	return rb.Group(g), nil
}

// gMapAdd: GRAD(d, d). Known to be questionable when x is ZERO (its
// shape can then differ from y's); kept as-is rather than silently
// corrected (DESIGN.md, Open Question O3's sibling case).
func gMapAdd(rb *RuleBuilder) (ir.Symbol, error) {
	d := rb.Dz()
	return rb.Group(d, d), nil
}

// gJ: GRAD(Jinv(d)).
func gJ(rb *RuleBuilder) (ir.Symbol, error) {
	d := rb.Dz()
	g := rb.Apply(JinvSymbol, d)
	return rb.Group(g), nil
}

// gJinv: GRAD(J(d)).
func gJinv(rb *RuleBuilder) (ir.Symbol, error) {
	d := rb.Dz()
	g := rb.Apply(JSymbol, d)
	return rb.Group(g), nil
}

// gAdd: GRAD(dz, dz).
func gAdd(rb *RuleBuilder) (ir.Symbol, error) {
	dz := rb.Dz()
	return rb.Group(dz, dz), nil
}

// gSubtract: GRAD(dz, -dz).
func gSubtract(rb *RuleBuilder) (ir.Symbol, error) {
	dz := rb.Dz()
	negDz := rb.Apply(UnarySubtractSymbol, dz)
	return rb.Group(dz, negDz), nil
}

// gMultiply: GRAD(dz*y, dz*x).
func gMultiply(rb *RuleBuilder) (ir.Symbol, error) {
	x, y, dz := rb.Arg(0), rb.Arg(1), rb.Dz()
	dzY := rb.Apply(MultiplySymbol, dz, y)
	dzX := rb.Apply(MultiplySymbol, dz, x)
	return rb.Group(dzY, dzX), nil
}

// gDivide: GRAD(dz/y, -dz*x/(y*y)).
func gDivide(rb *RuleBuilder) (ir.Symbol, error) {
	x, y, dz := rb.Arg(0), rb.Arg(1), rb.Dz()
	dzOverY := rb.Apply(DivideSymbol, dz, y)
	xTimesDz := rb.Apply(MultiplySymbol, dz, x)
	ySquared := rb.Apply(MultiplySymbol, y, y)
	ratio := rb.Apply(DivideSymbol, xTimesDz, ySquared)
	negRatio := rb.Apply(UnarySubtractSymbol, ratio)
	return rb.Group(dzOverY, negRatio), nil
}

// gUnarySubtract: GRAD(-dz).
func gUnarySubtract(rb *RuleBuilder) (ir.Symbol, error) {
	dz := rb.Dz()
	negDz := rb.Apply(UnarySubtractSymbol, dz)
	return rb.Group(negDz), nil
}

// gEqual, gGreater, gLess: GRAD(False, False). Comparisons are locally
// flat; neither operand receives a gradient.
func gEqual(rb *RuleBuilder) (ir.Symbol, error)   { return comparisonGrad(rb) }
func gGreater(rb *RuleBuilder) (ir.Symbol, error) { return comparisonGrad(rb) }
func gLess(rb *RuleBuilder) (ir.Symbol, error)    { return comparisonGrad(rb) }

func comparisonGrad(rb *RuleBuilder) (ir.Symbol, error) {
	falseX := rb.Literal(false)
	falseY := rb.Literal(false)
	return rb.Group(falseX, falseY), nil
}

// gSwitch encodes the rule's two branches
//
//	if c: GRAD(zeros_like(Jinv(c)), dz, zeros_like(Jinv(f)))
//	else: GRAD(zeros_like(Jinv(c)), zeros_like(Jinv(t)), dz)
//
// as two switch(cond, ...) selections instead of host-level control flow,
// since c's runtime value is not known at graph-construction time: each
// branch of the gradient is itself picked by the same switch primitive
// this rule is differentiating.
func gSwitch(rb *RuleBuilder) (ir.Symbol, error) {
	c, tArg, fArg, dz := rb.Arg(0), rb.Arg(1), rb.Arg(2), rb.Dz()

	cPrimal := rb.Apply(JinvSymbol, c)
	dzC := rb.Apply(ZerosLikeSymbol, cPrimal)

	tPrimal := rb.Apply(JinvSymbol, tArg)
	zerosT := rb.Apply(ZerosLikeSymbol, tPrimal)
	fPrimal := rb.Apply(JinvSymbol, fArg)
	zerosF := rb.Apply(ZerosLikeSymbol, fPrimal)

	dzT := rb.Apply(SwitchSymbol, c, dz, zerosT)
	dzF := rb.Apply(SwitchSymbol, c, zerosF, dz)

	return rb.Group(dzC, dzT, dzF), nil
}

// gIdentity: GRAD(dz).
func gIdentity(rb *RuleBuilder) (ir.Symbol, error) {
	return rb.Group(rb.Dz()), nil
}

// gIndex differentiates tuple indexing by mapping a per-element
// predicate (the registered "index_predicate" helper Lambda, closed over
// idx and dz) over (position, element) pairs, and returns a literal 0
// gradient for idx itself.
func gIndex(rb *RuleBuilder) (ir.Symbol, error) {
	tup, idx, dz := rb.Arg(0), rb.Arg(1), rb.Dz()

	predSym, err := rb.Aux().indexPredicateLambda()
	if err != nil {
		return ir.Symbol{}, err
	}
	clos := rb.Bind(&ir.ClosureExpr{FnSymbol: predSym, Args: []ir.Operand{idx, dz}}, ir.RelationTmpBprop)
	pairs := rb.Apply(EnumerateSymbol, tup)
	mapped := rb.Apply(MapSymbol, clos, pairs)
	idxGrad := rb.Literal(int64(0))

	return rb.Group(mapped, idxGrad), nil
}

// gLen: GRAD(zeros_like(Jinv(xs))).
func gLen(rb *RuleBuilder) (ir.Symbol, error) {
	xs := rb.Arg(0)
	primal := rb.Apply(JinvSymbol, xs)
	g := rb.Apply(ZerosLikeSymbol, primal)
	return rb.Group(g), nil
}

// gRange: GRAD(0). A range's bound is an integer hyperparameter, not a
// differentiable quantity.
func gRange(rb *RuleBuilder) (ir.Symbol, error) {
	zero := rb.Literal(int64(0))
	return rb.Group(zero), nil
}

// gMap carries a documented-incomplete reduction: it recomputes the
// forward map, folds the per-element backpropagators' function-gradient
// contributions with a single reduce_mapadd rather than zipping dz
// against each element's own backpropagator, and maps the per-element
// backpropagators over dz to produce the per-element argument gradients.
// See DESIGN.md's Open Question O3 for why this gap is kept rather than
// fixed.
func gMap(rb *RuleBuilder) (ir.Symbol, error) {
	f, xs, dz := rb.Arg(0), rb.Arg(1), rb.Dz()

	results := rb.Apply(MapSymbol, f, xs)
	secondSym, err := rb.Aux().projectionLambda(1)
	if err != nil {
		return ir.Symbol{}, err
	}
	bprops := rb.Apply(MapSymbol, secondSym, results)

	// bprops[0] stands in for a per-element zip -- the incomplete step,
	// see the doc comment above.
	zeroIdx := rb.Literal(int64(0))
	bpropsFirst := rb.Apply(IndexSymbol, bprops, zeroIdx)
	d := rb.Apply(MapSymbol, bpropsFirst, dz)

	firstSym, err := rb.Aux().projectionLambda(0)
	if err != nil {
		return ir.Symbol{}, err
	}
	firstOfD := rb.Apply(MapSymbol, firstSym, d)
	df := rb.Apply(reduceMapAddSymbol, firstOfD)
	dxs := rb.Apply(MapSymbol, secondSym, d)

	return rb.Group(df, dxs), nil
}

// gEnumerate: GRAD(map(second, dz)).
func gEnumerate(rb *RuleBuilder) (ir.Symbol, error) {
	dz := rb.Dz()
	secondSym, err := rb.Aux().projectionLambda(1)
	if err != nil {
		return ir.Symbol{}, err
	}
	g := rb.Apply(MapSymbol, secondSym, dz)
	return rb.Group(g), nil
}
