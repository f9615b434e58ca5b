package prim_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradforge/gradforge/diag"
	"github.com/gradforge/gradforge/env"
	"github.com/gradforge/gradforge/ir"
	"github.com/gradforge/gradforge/prim"
)

func TestRegistry_GradientFactory_BuildsWrapperLambda(t *testing.T) {
	e := env.New()
	r := prim.New(e)

	sym, err := r.GradientFactoryForName(context.Background(), prim.NameAdd, 0)
	require.NoError(t, err)

	lambda, ok := e.Lookup(sym)
	require.True(t, ok)
	require.Len(t, lambda.Params, 2)
	// 2 Jinv binds + raw forward apply + J tag + closure + outer tuple.
	require.Equal(t, 6, lambda.NodeCount())
}

func TestRegistry_GradientFactory_MemoizedPerNargsClosure(t *testing.T) {
	e := env.New()
	r := prim.New(e)

	sym1, err := r.GradientFactoryForName(context.Background(), prim.NameAdd, 0)
	require.NoError(t, err)
	sym2, err := r.GradientFactoryForName(context.Background(), prim.NameAdd, 0)
	require.NoError(t, err)
	require.Equal(t, sym1, sym2)

	sym3, err := r.GradientFactoryForName(context.Background(), prim.NameAdd, 1)
	require.NoError(t, err)
	require.NotEqual(t, sym1, sym3)
}

func TestRegistry_GradientFactory_UnregisteredPrimitiveIsFatal(t *testing.T) {
	e := env.New()
	r := prim.New(e)

	_, err := r.GradientFactoryForName(context.Background(), "nonexistent", 0)
	require.Error(t, err)
	var derr *diag.Error
	require.True(t, errors.As(err, &derr))
	require.Equal(t, diag.E_NO_GRADIENT, derr.Issue().Code())
}

func TestRegistry_GradientFactory_NargsClosureOutOfRangeIsFatal(t *testing.T) {
	e := env.New()
	r := prim.New(e)

	_, err := r.GradientFactoryForName(context.Background(), prim.NameAdd, 3)
	require.Error(t, err)
	var derr *diag.Error
	require.True(t, errors.As(err, &derr))
	require.Equal(t, diag.E_INVARIANT_VIOLATION, derr.Issue().Code())
}

func TestRegistry_GradientFactory_SatisfiesGlueInterface(t *testing.T) {
	e := env.New()
	r := prim.New(e)

	sym := prim.AddSymbol
	got, err := r.GradientFactory(sym, 0)
	require.NoError(t, err)
	require.NotEqual(t, prim.AddSymbol, got)
}

func TestRegistry_RegisterAddsNewPrimitive(t *testing.T) {
	e := env.New()
	r := prim.New(e)

	custom := prim.Rule{
		Name:    "my_custom_op",
		Forward: prim.IdentitySymbol,
		Arity:   1,
		Backward: func(rb *prim.RuleBuilder) (ir.Symbol, error) {
			return rb.Group(rb.Dz()), nil
		},
	}
	r.Register(custom)

	rule, ok := r.Lookup("my_custom_op")
	require.True(t, ok)
	require.Equal(t, prim.IdentitySymbol, rule.Forward)

	sym, err := r.GradientFactoryForName(context.Background(), "my_custom_op", 0)
	require.NoError(t, err)
	_, ok = e.Lookup(sym)
	require.True(t, ok)
}

func TestRegistry_Lookup_UnregisteredReturnsFalse(t *testing.T) {
	e := env.New()
	r := prim.New(e)

	_, ok := r.Lookup("does_not_exist")
	require.False(t, ok)
}
