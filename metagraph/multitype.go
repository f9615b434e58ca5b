package metagraph

import (
	"context"
	"log/slog"

	"github.com/gradforge/gradforge/abstract"
	"github.com/gradforge/gradforge/diag"
	"github.com/gradforge/gradforge/internal/trace"
	"github.com/gradforge/gradforge/ir"
	"github.com/gradforge/gradforge/ir/gensym"
)

// TypePattern reports whether an argument's abstract Kind matches this
// entry's expectation (e.g. "is a Number"). Patterns are explicit
// predicates, not runtime reflection (§ Testable property / REDESIGN
// FLAGS: "Dynamic dispatch ... is expressed as an ordered list of
// (pattern, builder) pairs").
type TypePattern func(abstract.Value) bool

// KindIs returns a TypePattern matching a single Kind.
func KindIs(k abstract.Kind) TypePattern {
	return func(v abstract.Value) bool { return v.Kind == k }
}

// AnyOfKind returns a TypePattern matching any of the given Kinds, the
// "Number" shorthand the catalogue's registrations use.
func AnyOfKind(kinds ...abstract.Kind) TypePattern {
	return func(v abstract.Value) bool {
		for _, k := range kinds {
			if v.Kind == k {
				return true
			}
		}
		return false
	}
}

// multitypeEntry pairs an ordered list of per-argument patterns with the
// Lambda builder to use when all patterns match.
type multitypeEntry struct {
	patterns []TypePattern
	build    func(b *ir.Builder, args []ir.Symbol) ir.Symbol
}

// MultitypeGraph associates ordered type signatures with concrete graph
// builders (§4.3). Dispatch matches the first entry whose pattern accepts
// the argument types; O4 fixes this as first-match, not most-specific.
type MultitypeGraph struct {
	name    string
	entries []multitypeEntry
	logger  *slog.Logger
	gen     *gensym.Gen
	cache   *cache
}

// NewMultitypeGraph returns an empty MultitypeGraph named name; use
// Register to add dispatch entries.
func NewMultitypeGraph(name string, opts ...Option) *MultitypeGraph {
	cfg := newConfig(opts)
	return &MultitypeGraph{name: name, logger: cfg.logger, gen: gensym.New(), cache: newCache()}
}

// Register appends a dispatch entry matched when every argument satisfies
// the corresponding pattern, in positional order.
func (m *MultitypeGraph) Register(build func(b *ir.Builder, args []ir.Symbol) ir.Symbol, patterns ...TypePattern) {
	m.entries = append(m.entries, multitypeEntry{patterns: patterns, build: build})
}

func (m *MultitypeGraph) Name() string { return m.name }

func (m *MultitypeGraph) NormalizeArgs(args []abstract.Value) []abstract.Value {
	return Broaden(args)
}

func (m *MultitypeGraph) match(args []abstract.Value) (multitypeEntry, error) {
	for _, e := range m.entries {
		if len(e.patterns) != len(args) {
			continue
		}
		ok := true
		for i, p := range e.patterns {
			if !p(args[i]) {
				ok = false
				break
			}
		}
		if ok {
			return e, nil
		}
	}
	return multitypeEntry{}, diag.NewNoSignature(m.name, signatureDescription(args))
}

func signatureDescription(args []abstract.Value) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ","
		}
		out += a.Kind.String()
	}
	return out
}

func (m *MultitypeGraph) Generate(args []abstract.Value) (lambda *ir.Lambda, err error) {
	op := trace.Begin(context.Background(), m.logger, "gradforge.metagraph.generate",
		slog.String("metagraph", m.name), slog.Int("nargs", len(args)))
	defer func() { op.End(err) }()

	key := abstract.CacheKey(args)
	if cached, ok := m.cache.get(key); ok {
		return cached, nil
	}

	entry, err := m.match(args)
	if err != nil {
		return nil, err
	}

	base := ir.Symbol{Label: m.name, Namespace: ir.NamespaceGlobal}
	b := ir.NewBuilder()
	params := make([]ir.Symbol, len(args))
	for i := range args {
		p := m.gen.Fresh(base, ir.RelationNone)
		b.Param(p)
		params[i] = p
	}

	out := entry.build(b, params)
	b.SetOutput(out)

	lambda = b.Finalize()
	ref := m.gen.Fresh(base, ir.RelationNone)
	lambda.Ref = ref
	m.cache.put(key, lambda)
	return lambda, nil
}
