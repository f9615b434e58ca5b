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

// Tail generates make_tuple(x[1], ..., x[k-1]) for a k-length tuple input
// (§4.3), rejecting non-tuple and empty-tuple arguments.
type Tail struct {
	logger *slog.Logger
	gen    *gensym.Gen
	cache  *cache
}

// NewTail returns a Tail generator.
func NewTail(opts ...Option) *Tail {
	cfg := newConfig(opts)
	return &Tail{logger: cfg.logger, gen: gensym.New(), cache: newCache()}
}

func (t *Tail) Name() string { return "tail" }

func (t *Tail) NormalizeArgs(args []abstract.Value) []abstract.Value {
	return Broaden(args)
}

func (t *Tail) Generate(args []abstract.Value) (lambda *ir.Lambda, err error) {
	op := trace.Begin(context.Background(), t.logger, "gradforge.metagraph.generate",
		slog.String("metagraph", "tail"), slog.Int("nargs", len(args)))
	defer func() { op.End(err) }()

	if len(args) != 1 {
		return nil, diag.NewTypeMismatch("exactly one argument", "tail takes one argument")
	}
	a := args[0]
	if a.Kind != abstract.KindTuple {
		return nil, diag.NewTypeMismatch("Tuple", a.Kind.String())
	}
	if len(a.Elements) == 0 {
		return nil, diag.NewTypeMismatch("non-empty Tuple", "empty Tuple")
	}

	key := abstract.CacheKey(args)
	if cached, ok := t.cache.get(key); ok {
		return cached, nil
	}

	base := ir.Symbol{Label: "tail", Namespace: ir.NamespaceGlobal}
	b := ir.NewBuilder()
	tup := t.gen.Fresh(base, ir.RelationNone)
	b.Param(tup)
	b.SetCore(true)

	elems := make([]ir.Operand, 0, len(a.Elements)-1)
	for i := 1; i < len(a.Elements); i++ {
		idxLit := t.gen.Fresh(base, ir.RelationTmpLet)
		b.BindOne(idxLit, ir.NewValue(int64(i)))
		elem := t.gen.Fresh(base, ir.RelationTmpLet)
		b.BindOne(elem, &ir.Apply{Fn: TupleGetItemSymbol, Args: []ir.Operand{tup, idxLit}})
		elems = append(elems, elem)
	}
	out := t.gen.Fresh(base, ir.RelationNone)
	b.BindOne(out, &ir.TupleExpr{Elems: elems})
	b.SetOutput(out)

	lambda = b.Finalize()
	ref := t.gen.Fresh(base, ir.RelationNone)
	lambda.Ref = ref
	t.cache.put(key, lambda)
	return lambda, nil
}
