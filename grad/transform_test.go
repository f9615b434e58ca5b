package grad_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradforge/gradforge/env"
	"github.com/gradforge/gradforge/glue"
	"github.com/gradforge/gradforge/grad"
	"github.com/gradforge/gradforge/ir"
	"github.com/gradforge/gradforge/prim"
)

func sym(label string, v int) ir.Symbol {
	return ir.Symbol{Label: label, Namespace: ir.NamespaceLocal, Version: v}
}

// identityLambda builds f(x) = x: a single parameter, no bindings, returning
// the parameter itself.
func identityLambda() (ir.Symbol, *ir.Lambda) {
	x := sym("x", 1)
	b := ir.NewBuilder()
	b.Param(x)
	b.SetOutput(x)
	return ir.Symbol{Label: "f", Namespace: ir.NamespaceGlobal}, b.Finalize()
}

// multiplyLambda builds f(x, y) = x * y via the builtin multiply primitive
// (S2: a two-argument primitive application).
func multiplyLambda() (ir.Symbol, *ir.Lambda) {
	x, y := sym("x", 1), sym("y", 1)
	out := sym("out", 1)
	b := ir.NewBuilder()
	b.Param(x)
	b.Param(y)
	b.BindOne(out, &ir.Apply{Fn: prim.MultiplySymbol, Args: []ir.Operand{x, y}})
	b.SetOutput(out)
	return ir.Symbol{Label: "f", Namespace: ir.NamespaceGlobal}, b.Finalize()
}

// squareLambda builds f(y) = y * y (S3: y occurs twice in one call site,
// exercising accum_multi's duplicate-occurrence discipline).
func squareLambda() (ir.Symbol, *ir.Lambda) {
	y := sym("y", 1)
	out := sym("out", 1)
	b := ir.NewBuilder()
	b.Param(y)
	b.BindOne(out, &ir.Apply{Fn: prim.MultiplySymbol, Args: []ir.Operand{y, y}})
	b.SetOutput(out)
	return ir.Symbol{Label: "f", Namespace: ir.NamespaceGlobal}, b.Finalize()
}

// partialMultiplyLambda builds g(a, b) = a * b, registered as a distinct
// global so it can be the target of a ClosureExpr captured elsewhere.
func partialMultiplyLambda() (ir.Symbol, *ir.Lambda) {
	a, b := sym("a", 1), sym("b", 1)
	out := sym("out", 1)
	bd := ir.NewBuilder()
	bd.Param(a)
	bd.Param(b)
	bd.BindOne(out, &ir.Apply{Fn: prim.MultiplySymbol, Args: []ir.Operand{a, b}})
	bd.SetOutput(out)
	return ir.Symbol{Label: "g", Namespace: ir.NamespaceGlobal}, bd.Finalize()
}

// indirectClosureCallLambda builds f(x, y):
//
//	c   = Closure(g, x)   -- a local symbol bound to a partial application
//	sel = identity(c)     -- c aliased through an ordinary Apply, not
//	                         referenced as a ClosureExpr LHS directly
//	out = sel(y)
//	return out
//
// exercising the case where the symbol used as an Apply's Fn operand is
// not itself the symbol a ClosureExpr bound (mirroring
// metagraph.ListMap's switch-selected gtrue/gfalse, where the call site's
// Fn is the switch's result, not the ClosureExpr-bound symbol).
func indirectClosureCallLambda(gSym ir.Symbol) (ir.Symbol, *ir.Lambda) {
	x, y := sym("x", 1), sym("y", 1)
	c := sym("c", 1)
	sel := sym("sel", 1)
	out := sym("out", 1)

	b := ir.NewBuilder()
	b.Param(x)
	b.Param(y)
	b.BindOne(c, &ir.ClosureExpr{FnSymbol: gSym, Args: []ir.Operand{x}})
	b.BindOne(sel, &ir.Apply{Fn: prim.IdentitySymbol, Args: []ir.Operand{c}})
	b.BindOne(out, &ir.Apply{Fn: sel, Args: []ir.Operand{y}})
	b.SetOutput(out)
	return ir.Symbol{Label: "f", Namespace: ir.NamespaceGlobal}, b.Finalize()
}

func newTransformer(t *testing.T) (*grad.Transformer, *env.GlobalEnv) {
	t.Helper()
	e := env.New()
	r := prim.New(e)
	return grad.New(e, r), e
}

func TestTransform_Identity(t *testing.T) {
	tr, e := newTransformer(t)
	fSym, f := identityLambda()
	require.NoError(t, e.Register(fSym, f))

	upSym, err := tr.Transform(context.Background(), fSym, f, 0)
	require.NoError(t, err)

	up, ok := e.Lookup(upSym)
	require.True(t, ok)
	require.Len(t, up.Params, 1)
	require.True(t, up.HasPrimal)
	require.Equal(t, "f", up.Primal.Label)

	// ↑f's output is (taggedReturn, ♢f): exactly one binding in its body
	// closes over ♦f.
	require.NotEmpty(t, up.Body.Bindings)
	closures := 0
	for _, b := range up.Body.Bindings {
		if _, ok := b.RHS.(*ir.ClosureExpr); ok {
			closures++
		}
	}
	require.Equal(t, 1, closures)
}

func TestTransform_Multiplication(t *testing.T) {
	tr, e := newTransformer(t)
	fSym, f := multiplyLambda()
	require.NoError(t, e.Register(fSym, f))

	upSym, err := tr.Transform(context.Background(), fSym, f, 0)
	require.NoError(t, err)

	up, ok := e.Lookup(upSym)
	require.True(t, ok)
	require.Len(t, up.Params, 2)
	require.True(t, up.HasPrimal)
}

func TestTransform_GradientTupleShape(t *testing.T) {
	// ♦f's output must be a 2-tuple: (closure-subtuple, rest...), per the
	// GRAD macro (§4.7). With nargsClosure=1 splitting f's two
	// parameters 1/1, the output tuple has exactly 2 elements: the
	// 1-element closure subtuple and the 1 remaining gradient.
	tr, e := newTransformer(t)
	fSym, f := multiplyLambda()
	require.NoError(t, e.Register(fSym, f))

	_, err := tr.Transform(context.Background(), fSym, f, 1)
	require.NoError(t, err)

	bprop := findBackprop(t, e, fSym)
	final := findBinding(t, bprop, bprop.Body.Body)
	out, ok := final.RHS.(*ir.TupleExpr)
	require.True(t, ok)
	require.Len(t, out.Elems, 2)

	closureSym, ok := out.Elems[0].(ir.Symbol)
	require.True(t, ok)
	closureTuple := findBinding(t, bprop, closureSym)
	inner, ok := closureTuple.RHS.(*ir.TupleExpr)
	require.True(t, ok)
	require.Len(t, inner.Elems, 1)
}

// findBackprop returns fSym's own ♦f, distinguished from any primitive's
// backpropagator (also tagged RelationBprop) by its Primal pointing back
// to fSym.
func findBackprop(t *testing.T, e *env.GlobalEnv, fSym ir.Symbol) *ir.Lambda {
	t.Helper()
	for _, s := range e.Symbols() {
		if s.Relation != ir.RelationBprop {
			continue
		}
		lam, ok := e.Lookup(s)
		require.True(t, ok)
		if lam.HasPrimal && lam.Primal == fSym {
			return lam
		}
	}
	t.Fatalf("no backpropagator for %s was registered", fSym)
	return nil
}

// findBinding returns the Binding whose singular LHS is lhs.
func findBinding(t *testing.T, lambda *ir.Lambda, lhs ir.Symbol) ir.Binding {
	t.Helper()
	for _, b := range lambda.Body.Bindings {
		if b.IsSingular() && b.LHS[0] == lhs {
			return b
		}
	}
	t.Fatalf("no binding for %s found", lhs)
	return ir.Binding{}
}

func TestTransform_DuplicateArgument_TwoMapAddSites(t *testing.T) {
	// S3: f(y) = y*y passes y as both arguments to one call site. The
	// backward pass must accumulate y's sensitivity via two mapadd
	// applications (one per occurrence), never collapsing to a single
	// direct write.
	tr, e := newTransformer(t)
	fSym, f := squareLambda()
	require.NoError(t, e.Register(fSym, f))

	_, err := tr.Transform(context.Background(), fSym, f, 0)
	require.NoError(t, err)

	mapAddCount := 0
	for _, s := range e.Symbols() {
		lam, ok := e.Lookup(s)
		if !ok || lam.Body == nil {
			continue
		}
		for _, b := range lam.Body.Bindings {
			apply, ok := b.RHS.(*ir.Apply)
			if !ok {
				continue
			}
			fn, ok := apply.Fn.(ir.Symbol)
			if ok && fn.Label == "mapadd" {
				mapAddCount++
			}
		}
	}
	require.Equal(t, 2, mapAddCount)
}

func TestTransform_IndirectClosureCall_CaptureReceivesRealGradient(t *testing.T) {
	// A locally-bound closure called through an aliasing Apply (not as the
	// literal symbol a ClosureExpr bound) must still route gradient back
	// to its captured argument via the same accum_multi mechanism as any
	// other operand (§4.6: "Closure v <- Closure(h, u1,...) : (∇u1,...) +=
	// ∇v"). Before the fix, x's gradient silently fell back to a
	// zeros_like materialization because the Apply's Fn operand gradient
	// was never extracted or fanned into the closure's captures.
	tr, e := newTransformer(t)
	gSym, g := partialMultiplyLambda()
	require.NoError(t, e.Register(gSym, g))
	fSym, f := indirectClosureCallLambda(gSym)
	require.NoError(t, e.Register(fSym, f))

	_, err := tr.Transform(context.Background(), fSym, f, 0)
	require.NoError(t, err)

	bprop := findBackprop(t, e, fSym)
	final := findBinding(t, bprop, bprop.Body.Body)
	out, ok := final.RHS.(*ir.TupleExpr)
	require.True(t, ok)
	require.Len(t, out.Elems, 3) // (closure-subtuple, ∇x, ∇y)

	xGradSym, ok := out.Elems[1].(ir.Symbol)
	require.True(t, ok)
	xGrad := findBinding(t, bprop, xGradSym)
	// A single, first write binds ∇x straight to the gradient component it
	// receives; follow that alias to the component's own binding.
	if alias, isAlias := xGrad.RHS.(ir.Symbol); isAlias {
		xGrad = findBinding(t, bprop, alias)
	}
	apply, ok := xGrad.RHS.(*ir.Apply)
	require.True(t, ok, "∇x must be derived from an IR application, not a bare value")
	fnSym, ok := apply.Fn.(ir.Symbol)
	require.True(t, ok)
	require.NotEqual(t, glue.ZerosLikeSymbol, fnSym,
		"∇x must flow back through the closure's capture, not fall back to a materialized zero")
}

func TestTransform_NargsClosureOutOfRangeIsFatal(t *testing.T) {
	tr, e := newTransformer(t)
	fSym, f := identityLambda()
	require.NoError(t, e.Register(fSym, f))

	_, err := tr.Transform(context.Background(), fSym, f, 5)
	require.Error(t, err)
}

func TestTransform_NilLambdaIsFatal(t *testing.T) {
	tr, _ := newTransformer(t)
	_, err := tr.Transform(context.Background(), ir.Symbol{Label: "f", Namespace: ir.NamespaceGlobal}, nil, 0)
	require.Error(t, err)
}

func TestTransform_MemoizedViaGradientFactory(t *testing.T) {
	tr, e := newTransformer(t)
	fSym, f := identityLambda()
	require.NoError(t, e.Register(fSym, f))

	sym1, err := tr.GradientFactory(fSym, 0)
	require.NoError(t, err)
	sym2, err := tr.GradientFactory(fSym, 0)
	require.NoError(t, err)
	require.Equal(t, sym1, sym2)
}

func TestTransformer_RunID_StableAndDistinctPerInstance(t *testing.T) {
	e := env.New()
	r := prim.New(e)
	a := grad.New(e, r)
	b := grad.New(e, r)

	require.NotEmpty(t, a.RunID())
	require.NotEmpty(t, b.RunID())
	require.NotEqual(t, a.RunID(), b.RunID())
}

func TestTransform_AlphaFreshness_NoSymbolReuseAcrossRuns(t *testing.T) {
	// Running Transform twice against the same logical function (distinct
	// Transformer instances, same GlobalEnv) must never collide on a
	// published symbol: gensym freshness is per-Transformer, but
	// Register's duplicate-key rejection is the final backstop (§8
	// property 1).
	e := env.New()
	r := prim.New(e)
	tr1 := grad.New(e, r)
	tr2 := grad.New(e, r)

	fSym, f := identityLambda()
	require.NoError(t, e.Register(fSym, f))
	gSym, g := identityLambda()
	gSym.Label = "g"
	require.NoError(t, e.Register(gSym, g))

	_, err := tr1.Transform(context.Background(), fSym, f, 0)
	require.NoError(t, err)
	_, err = tr2.Transform(context.Background(), gSym, g, 0)
	require.NoError(t, err)
}
