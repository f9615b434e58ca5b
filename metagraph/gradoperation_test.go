package metagraph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradforge/gradforge/abstract"
	"github.com/gradforge/gradforge/env"
	"github.com/gradforge/gradforge/ir"
	"github.com/gradforge/gradforge/metagraph"
	"github.com/gradforge/gradforge/prim"
)

func TestGradOperation_RejectsNonFunctionArgument(t *testing.T) {
	e := env.New()
	r := prim.New(e)
	g := metagraph.NewGradOperation(false, false, r, e)

	_, err := g.Generate([]abstract.Value{abstract.Scalar(nil, false)})
	require.Error(t, err)
}

func TestGradOperation_RejectsUnresolvedFunction(t *testing.T) {
	e := env.New()
	r := prim.New(e)
	g := metagraph.NewGradOperation(false, false, r, e)

	_, err := g.Generate([]abstract.Value{abstract.Function()})
	require.Error(t, err)
}

func TestGradOperation_BuildsClosureOverTemplate(t *testing.T) {
	e := env.New()
	r := prim.New(e)
	g := metagraph.NewGradOperation(false, false, r, e)

	_, err := r.GradientFactoryForName(context.Background(), prim.NameAdd, 0)
	require.NoError(t, err)

	target := abstract.KnownFunction(prim.AddSymbol, 2)
	lam, err := g.Generate([]abstract.Value{target})
	require.NoError(t, err)
	require.Len(t, lam.Params, 1)

	found := false
	for _, b := range lam.Body.Bindings {
		if _, ok := b.RHS.(*ir.ClosureExpr); ok {
			found = true
		}
	}
	require.True(t, found)
}

func TestGradOperation_TemplateMemoizedPerArity(t *testing.T) {
	e := env.New()
	r := prim.New(e)
	g := metagraph.NewGradOperation(false, false, r, e)

	target2 := abstract.KnownFunction(prim.AddSymbol, 2)
	_, err := g.Generate([]abstract.Value{target2})
	require.NoError(t, err)
	before := e.Len()

	otherArity2 := ir.Symbol{Label: "other", Namespace: ir.NamespaceGlobal}
	r.Register(prim.Rule{
		Name: "other", Forward: otherArity2, Arity: 2,
		Backward: func(rb *prim.RuleBuilder) (ir.Symbol, error) {
			return rb.Group(rb.Dz(), rb.Dz()), nil
		},
	})
	target2b := abstract.KnownFunction(otherArity2, 2)
	_, err = g.Generate([]abstract.Value{target2b})
	require.NoError(t, err)
	after := e.Len()

	// Same arity reuses the cached template: only the new grad(f) wrapper
	// and the new primitive's own J/bprop registrations grow the env, not
	// a second template.
	require.Less(t, after-before, 10)
}

func TestGradOperation_SensParam_AddsExternalSensitivityParameter(t *testing.T) {
	e := env.New()
	r := prim.New(e)
	g := metagraph.NewGradOperation(true, false, r, e)

	_, err := r.GradientFactoryForName(context.Background(), prim.NameAdd, 0)
	require.NoError(t, err)

	target := abstract.KnownFunction(prim.AddSymbol, 2)
	lam, err := g.Generate([]abstract.Value{target})
	require.NoError(t, err)
	require.Len(t, lam.Params, 1)

	// The df template the builder closes over takes jf, add's two inputs,
	// and the external sensitivity.
	var tmplSym ir.Symbol
	for _, b := range lam.Body.Bindings {
		if clos, ok := b.RHS.(*ir.ClosureExpr); ok {
			tmplSym = clos.FnSymbol
		}
	}
	tmpl, ok := e.Lookup(tmplSym)
	require.True(t, ok)
	require.Len(t, tmpl.Params, 4)
}

func TestGradOperation_CacheHit(t *testing.T) {
	e := env.New()
	r := prim.New(e)
	g := metagraph.NewGradOperation(false, false, r, e)

	target := abstract.KnownFunction(prim.AddSymbol, 2)
	lam1, err := g.Generate([]abstract.Value{target})
	require.NoError(t, err)
	lam2, err := g.Generate([]abstract.Value{target})
	require.NoError(t, err)
	require.Same(t, lam1, lam2)
}
