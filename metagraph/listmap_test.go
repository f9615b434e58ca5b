package metagraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradforge/gradforge/abstract"
	"github.com/gradforge/gradforge/env"
	"github.com/gradforge/gradforge/ir"
	"github.com/gradforge/gradforge/metagraph"
)

func TestListMap_RejectsNonListArgument(t *testing.T) {
	e := env.New()
	m := metagraph.NewListMap(e)

	fn := abstract.KnownFunction(ir.Symbol{Label: "f", Namespace: ir.NamespaceGlobal}, 1)
	_, err := m.Generate([]abstract.Value{fn, abstract.Scalar(nil, false)})
	require.Error(t, err)
}

func TestListMap_RejectsTooFewArguments(t *testing.T) {
	e := env.New()
	m := metagraph.NewListMap(e)

	fn := abstract.KnownFunction(ir.Symbol{Label: "f", Namespace: ir.NamespaceGlobal}, 1)
	_, err := m.Generate([]abstract.Value{fn})
	require.Error(t, err)
}

func TestListMap_Generate_RegistersExactlyOneCondAndOneBodyCoreGraph(t *testing.T) {
	// S6: list_map's state machine has exactly one condition sub-graph and
	// one body sub-graph, both flagged core.
	e := env.New()
	m := metagraph.NewListMap(e)

	fn := abstract.KnownFunction(ir.Symbol{Label: "f", Namespace: ir.NamespaceGlobal}, 1)
	list := abstract.List(abstract.Scalar(nil, false))

	before := e.Len()
	_, err := m.Generate([]abstract.Value{fn, list})
	require.NoError(t, err)
	after := e.Len()
	require.Greater(t, after, before)

	coreCount := 0
	condCount, bodyCount := 0, 0
	for _, s := range e.Symbols() {
		lam, ok := e.Lookup(s)
		require.True(t, ok)
		if lam.Core {
			coreCount++
		}
		switch s.Label {
		case "list_map_cond":
			condCount++
		case "list_map_body":
			bodyCount++
		}
	}
	require.Equal(t, 1, condCount)
	require.Equal(t, 1, bodyCount)
	require.GreaterOrEqual(t, coreCount, 2)
}

func TestListMap_CacheHit_ReturnsSameLambda(t *testing.T) {
	e := env.New()
	m := metagraph.NewListMap(e)
	fn := abstract.KnownFunction(ir.Symbol{Label: "f", Namespace: ir.NamespaceGlobal}, 1)
	list := abstract.List(abstract.Scalar(nil, false))
	args := []abstract.Value{fn, list}

	lam1, err := m.Generate(args)
	require.NoError(t, err)
	lam2, err := m.Generate(args)
	require.NoError(t, err)
	require.Same(t, lam1, lam2)
}
