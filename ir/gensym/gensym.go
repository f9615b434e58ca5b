package gensym

import (
	"golang.org/x/text/unicode/norm"

	"github.com/gradforge/gradforge/internal/ident"
	"github.com/gradforge/gradforge/ir"
)

// Gen mints fresh symbols for one Grad transform or meta-graph generation.
// The zero value is ready to use.
type Gen struct {
	counters map[counterKey]int
}

type counterKey struct {
	label    string
	relation ir.Relation
}

// New returns a ready-to-use Gen with no prior freshness history.
func New() *Gen {
	return &Gen{counters: make(map[counterKey]int)}
}

// Fresh returns a new Symbol derived from base, tagged with relation, and
// guaranteed distinct from every symbol this Gen has previously returned
// for the same (NFC-normalized label, relation) pair (§4.1).
func (g *Gen) Fresh(base ir.Symbol, relation ir.Relation) ir.Symbol {
	return g.freshLabel(norm.NFC.String(base.Label), relation)
}

// FreshNamed behaves like Fresh but derives the label from base combined
// with relation's tag (e.g. "loss" + RelationBprop -> "loss_bprop"),
// producing a more readable generated name than reusing base's label
// verbatim. The freshness counter is still keyed on the final,
// NFC-normalized label and relation, so readability never trades off
// alpha-freshness.
func (g *Gen) FreshNamed(base ir.Symbol, relation ir.Relation) ir.Symbol {
	label := readableLabel(base.Label, relation)
	return g.freshLabel(norm.NFC.String(label), relation)
}

func (g *Gen) freshLabel(label string, relation ir.Relation) ir.Symbol {
	if g.counters == nil {
		g.counters = make(map[counterKey]int)
	}
	key := counterKey{label: label, relation: relation}
	g.counters[key]++
	return ir.Symbol{
		Label:     label,
		Namespace: ir.NamespaceLocal,
		Version:   g.counters[key],
		Relation:  relation,
	}
}

// readableLabel joins a lower_snake-normalized base label with relation's
// short tag.
func readableLabel(base string, relation ir.Relation) string {
	tag := relation.Tag()
	if tag == "" {
		return base
	}
	normalized := ident.ToLowerSnake(base)
	if normalized == "" {
		return tag
	}
	return normalized + "_" + tag
}
