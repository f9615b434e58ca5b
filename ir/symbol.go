package ir

import "fmt"

// Namespace classifies where a Symbol's binding lives.
type Namespace uint8

const (
	// NamespaceGlobal identifies a symbol published in the global
	// environment (a user Lambda or a Grad-generated ↑f/♦f).
	NamespaceGlobal Namespace = iota

	// NamespaceBuiltin identifies a primitive registered in the primitive
	// registry.
	NamespaceBuiltin

	// NamespaceLocal identifies a symbol bound within a single Lambda's
	// body (a Let binding's LHS or a parameter).
	NamespaceLocal

	// NamespaceNull identifies the discarded sentinel symbol accum_multi
	// writes into when a batch LHS element is a Value, not a Symbol.
	NamespaceNull
)

// String returns a human-readable label for the namespace.
func (n Namespace) String() string {
	switch n {
	case NamespaceGlobal:
		return "global"
	case NamespaceBuiltin:
		return "builtin"
	case NamespaceLocal:
		return "local"
	case NamespaceNull:
		return "null"
	default:
		return "unknown"
	}
}

// Relation tags a generated Symbol with the reason it was minted, so that
// ↑f, ♦f, ♢f, and the sensitivity/temporary variables of the Grad
// transform remain distinguishable for debugging (§6 EXTERNAL INTERFACES).
type Relation uint8

const (
	// RelationNone marks a symbol with no generation provenance: a user
	// program's own parameters and let-bound names.
	RelationNone Relation = iota

	// RelationJTag marks a J-lifted function symbol (↑f, ↑prim_nc).
	RelationJTag

	// RelationSens marks a sensitivity accumulator variable (∇v).
	RelationSens

	// RelationBprop marks a top-level backpropagator Lambda (♦f).
	RelationBprop

	// RelationBpropClos marks a closure over a backpropagator (♢f, ♢v).
	RelationBpropClos

	// RelationTmpLet marks a duplicate-use temporary introduced by
	// accum_multi when a batch LHS repeats a variable.
	RelationTmpLet

	// RelationTmpBprop marks a temporary produced while threading a
	// call-site's saved backpropagator through the backward pass.
	RelationTmpBprop

	// RelationTmpSens marks a temporary produced while threading a batch
	// sensitivity read through accum_multi.
	RelationTmpSens

	// RelationNullSym marks the discarded sentinel symbol used as the LHS
	// for a Value element of an accum_multi batch.
	RelationNullSym
)

// String returns the debugging tag for the relation, as named in §6.
func (r Relation) String() string {
	switch r {
	case RelationNone:
		return ""
	case RelationJTag:
		return "JTAG"
	case RelationSens:
		return "SENS"
	case RelationBprop:
		return "BPROP"
	case RelationBpropClos:
		return "BPROP_CLOS"
	case RelationTmpLet:
		return "TMP_LET"
	case RelationTmpBprop:
		return "TMP_BPROP"
	case RelationTmpSens:
		return "TMP_SENS"
	case RelationNullSym:
		return "NULLSYM"
	default:
		return "UNKNOWN"
	}
}

// Glyph returns the single-character notation the design uses for the
// relation in prose (↑, ∇, ♦, ♢), or "" when the relation has none.
func (r Relation) Glyph() string {
	switch r {
	case RelationJTag:
		return "↑"
	case RelationSens:
		return "∇"
	case RelationBprop:
		return "♦"
	case RelationBpropClos:
		return "♢"
	default:
		return ""
	}
}

// Tag returns a short lower-case token identifying the relation, suitable
// for composing a readable symbol label (e.g. "loss_bprop").
func (r Relation) Tag() string {
	switch r {
	case RelationNone:
		return ""
	case RelationJTag:
		return "jtag"
	case RelationSens:
		return "sens"
	case RelationBprop:
		return "bprop"
	case RelationBpropClos:
		return "bpropclos"
	case RelationTmpLet:
		return "tmplet"
	case RelationTmpBprop:
		return "tmpbprop"
	case RelationTmpSens:
		return "tmpsens"
	case RelationNullSym:
		return "null"
	default:
		return "relation"
	}
}

// Symbol identifies a binding site: a parameter, a let-bound name, or a
// published entry in the global environment or primitive registry.
//
// Equality is structural (§3 DATA MODEL): two Symbols are equal iff all
// four fields match. Symbol is comparable and safe to use as a map key,
// which is how [github.com/gradforge/gradforge/env.GlobalEnv] and the
// meta-graph/gradient-factory caches key their entries.
type Symbol struct {
	Label     string
	Namespace Namespace
	Version   int
	Relation  Relation
}

// IsGlobalOrBuiltin reports whether the symbol names a top-level Lambda or
// a primitive, the only two kinds of function symbol Closure/GradOperation
// may bind to (§3, §4.6 Closure binding case).
func (s Symbol) IsGlobalOrBuiltin() bool {
	return s.Namespace == NamespaceGlobal || s.Namespace == NamespaceBuiltin
}

// String returns a debug-printed form such as "x" (version 0), "x·2"
// (fresh version 2), or "∇x·1" (a relation-tagged fresh symbol).
func (s Symbol) String() string {
	glyph := s.Relation.Glyph()
	if s.Version == 0 {
		return glyph + s.Label
	}
	return fmt.Sprintf("%s%s·%d", glyph, s.Label, s.Version)
}
