package gensym

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradforge/gradforge/ir"
)

func TestGen_Fresh_IncrementsVersion(t *testing.T) {
	g := New()
	base := ir.Symbol{Label: "x"}

	a := g.Fresh(base, ir.RelationSens)
	b := g.Fresh(base, ir.RelationSens)

	assert.Equal(t, 1, a.Version)
	assert.Equal(t, 2, b.Version)
	assert.NotEqual(t, a, b)
}

func TestGen_Fresh_IndependentPerRelation(t *testing.T) {
	g := New()
	base := ir.Symbol{Label: "x"}

	sens := g.Fresh(base, ir.RelationSens)
	jtag := g.Fresh(base, ir.RelationJTag)

	assert.Equal(t, 1, sens.Version)
	assert.Equal(t, 1, jtag.Version)
}

func TestGen_Fresh_IndependentPerLabel(t *testing.T) {
	g := New()

	x1 := g.Fresh(ir.Symbol{Label: "x"}, ir.RelationSens)
	y1 := g.Fresh(ir.Symbol{Label: "y"}, ir.RelationSens)

	assert.Equal(t, 1, x1.Version)
	assert.Equal(t, 1, y1.Version)
}

func TestGen_Fresh_NFCNormalizesLabel(t *testing.T) {
	g := New()
	decomposed := ir.Symbol{Label: "é"} // "e" + combining acute accent
	precomposed := ir.Symbol{Label: "é"} // precomposed codepoint

	a := g.Fresh(decomposed, ir.RelationSens)
	b := g.Fresh(precomposed, ir.RelationSens)

	require.Equal(t, a.Label, b.Label)
	assert.Equal(t, 1, a.Version)
	assert.Equal(t, 2, b.Version, "both forms must share one freshness counter")
}

func TestGen_Fresh_ZeroValueReady(t *testing.T) {
	var g Gen
	s := g.Fresh(ir.Symbol{Label: "z"}, ir.RelationNone)
	assert.Equal(t, 1, s.Version)
}

func TestGen_FreshNamed_DerivesReadableLabel(t *testing.T) {
	g := New()
	s := g.FreshNamed(ir.Symbol{Label: "ComputeLoss"}, ir.RelationBprop)
	assert.Equal(t, "compute_loss_bprop", s.Label)
	assert.Equal(t, 1, s.Version)
}

func TestGen_FreshNamed_NoRelationUsesBaseLabel(t *testing.T) {
	g := New()
	s := g.FreshNamed(ir.Symbol{Label: "x"}, ir.RelationNone)
	assert.Equal(t, "x", s.Label)
}

func TestGen_Fresh_AlphaFreshness_NeverRepeatsWithinLambda(t *testing.T) {
	// Simulates repeated freshness requests within one Lambda's
	// construction: every returned symbol must be pairwise distinct.
	g := New()
	base := ir.Symbol{Label: "y"}
	seen := make(map[ir.Symbol]bool)
	for i := 0; i < 50; i++ {
		s := g.Fresh(base, ir.RelationSens)
		require.False(t, seen[s], "symbol %v minted twice", s)
		seen[s] = true
	}
}
