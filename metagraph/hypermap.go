package metagraph

import (
	"context"
	"log/slog"

	"github.com/gradforge/gradforge/abstract"
	"github.com/gradforge/gradforge/diag"
	"github.com/gradforge/gradforge/env"
	"github.com/gradforge/gradforge/internal/trace"
	"github.com/gradforge/gradforge/ir"
	"github.com/gradforge/gradforge/ir/gensym"
)

// HyperMap is a structural fold (§4.3): tuples and lists (the
// configurable nonleaf set) are traversed elementwise; at leaves fnLeaf
// (itself a MultitypeGraph) is applied. Recursion terminates because
// tuple arity and nesting are part of the static abstract signature; only
// the list case defers to runtime iteration, via an injected ListMap.
type HyperMap struct {
	name    string
	nonleaf map[abstract.Kind]bool
	fnLeaf  *MultitypeGraph
	listMap *ListMap
	globals *env.GlobalEnv

	logger *slog.Logger
	gen    *gensym.Gen
	cache  *cache
}

// DefaultNonleafKinds is the default nonleaf set: tuples and lists
// recurse, everything else (numbers, booleans, arrays, functions,
// environments) is a leaf.
func DefaultNonleafKinds() map[abstract.Kind]bool {
	return map[abstract.Kind]bool{
		abstract.KindTuple: true,
		abstract.KindList:  true,
	}
}

// NewHyperMap returns a HyperMap named name, recursing into the kinds in
// nonleaf and applying fnLeaf at every other (leaf) position. listMap
// generates the runtime list-walking body for the list case.
func NewHyperMap(name string, nonleaf map[abstract.Kind]bool, fnLeaf *MultitypeGraph, listMap *ListMap, globals *env.GlobalEnv, opts ...Option) *HyperMap {
	cfg := newConfig(opts)
	return &HyperMap{
		name: name, nonleaf: nonleaf, fnLeaf: fnLeaf, listMap: listMap, globals: globals,
		logger: cfg.logger, gen: gensym.New(), cache: newCache(),
	}
}

func (h *HyperMap) Name() string { return h.name }

func (h *HyperMap) NormalizeArgs(args []abstract.Value) []abstract.Value {
	return Broaden(args)
}

func (h *HyperMap) Generate(args []abstract.Value) (lambda *ir.Lambda, err error) {
	op := trace.Begin(context.Background(), h.logger, "gradforge.metagraph.generate",
		slog.String("metagraph", h.name), slog.Int("nargs", len(args)))
	defer func() { op.End(err) }()

	if len(args) == 0 {
		return nil, diag.NewInvariantViolation("HyperMap requires at least one argument")
	}

	key := abstract.CacheKey(args)
	if lambda, ok := h.cache.get(key); ok {
		return lambda, nil
	}

	base := ir.Symbol{Label: h.name, Namespace: ir.NamespaceGlobal}
	b := ir.NewBuilder()
	params := make([]ir.Symbol, len(args))
	operands := make([]ir.Operand, len(args))
	for i := range args {
		p := h.gen.Fresh(base, ir.RelationNone)
		b.Param(p)
		params[i] = p
		operands[i] = p
	}

	out, err := h.body(b, args, operands)
	if err != nil {
		return nil, err
	}
	b.SetOutput(out)

	lambda = b.Finalize()
	ref := h.gen.Fresh(base, ir.RelationNone)
	lambda.Ref = ref
	if err := h.ensureRegistered(lambda); err != nil {
		return nil, err
	}
	h.cache.put(key, lambda)
	return lambda, nil
}

// ensureRegistered publishes lam under its Ref unless a prior Generate
// already did (cache hits hand back the same Lambda, Ref included).
func (h *HyperMap) ensureRegistered(lam *ir.Lambda) error {
	if h.globals == nil || h.globals.Has(lam.Ref) {
		return nil
	}
	return h.globals.Register(lam.Ref, lam)
}

func (h *HyperMap) body(b *ir.Builder, args []abstract.Value, operands []ir.Operand) (ir.Symbol, error) {
	kind := args[0].Kind
	if !h.nonleaf[kind] {
		return h.leafCall(b, args, operands)
	}

	switch kind {
	case abstract.KindTuple:
		return h.tupleCase(b, args, operands)
	case abstract.KindList:
		return h.listCase(b, args, operands)
	default:
		return h.leafCall(b, args, operands)
	}
}

func (h *HyperMap) leafCall(b *ir.Builder, args []abstract.Value, operands []ir.Operand) (ir.Symbol, error) {
	leaf, err := h.fnLeaf.Generate(args)
	if err != nil {
		return ir.Symbol{}, err
	}
	fnSym := leaf.Ref
	if err := h.ensureRegistered(leaf); err != nil {
		return ir.Symbol{}, err
	}
	base := ir.Symbol{Label: h.name, Namespace: ir.NamespaceGlobal}
	out := h.gen.Fresh(base, ir.RelationNone)
	b.BindOne(out, &ir.Apply{Fn: fnSym, Args: operands})
	return out, nil
}

func (h *HyperMap) tupleCase(b *ir.Builder, args []abstract.Value, operands []ir.Operand) (ir.Symbol, error) {
	arity := len(args[0].Elements)
	for _, a := range args[1:] {
		if a.Kind != abstract.KindTuple || len(a.Elements) != arity {
			return ir.Symbol{}, diag.NewTypeMismatch("matching Tuple arity", "mismatched Tuple shapes")
		}
	}

	base := ir.Symbol{Label: h.name, Namespace: ir.NamespaceGlobal}
	fieldResults := make([]ir.Operand, arity)
	for i := 0; i < arity; i++ {
		fieldArgs := make([]abstract.Value, len(args))
		fieldOperands := make([]ir.Operand, len(operands))
		for j, a := range args {
			fieldArgs[j] = a.Elements[i]
			idxLit := h.gen.Fresh(base, ir.RelationTmpLet)
			b.BindOne(idxLit, ir.NewValue(int64(i)))
			elem := h.gen.Fresh(base, ir.RelationTmpLet)
			b.BindOne(elem, &ir.Apply{Fn: TupleGetItemSymbol, Args: []ir.Operand{operands[j], idxLit}})
			fieldOperands[j] = elem
		}
		sub, err := h.Generate(fieldArgs)
		if err != nil {
			return ir.Symbol{}, err
		}
		if err := h.ensureRegistered(sub); err != nil {
			return ir.Symbol{}, err
		}
		result := h.gen.Fresh(base, ir.RelationTmpLet)
		b.BindOne(result, &ir.Apply{Fn: sub.Ref, Args: fieldOperands})
		fieldResults[i] = result
	}

	out := h.gen.Fresh(base, ir.RelationNone)
	b.BindOne(out, &ir.TupleExpr{Elems: fieldResults})
	return out, nil
}

func (h *HyperMap) listCase(b *ir.Builder, args []abstract.Value, operands []ir.Operand) (ir.Symbol, error) {
	elemArgs := make([]abstract.Value, len(args))
	for i, a := range args {
		elemArgs[i] = a.Elements[0]
	}
	elemMapper, err := h.Generate(elemArgs)
	if err != nil {
		return ir.Symbol{}, err
	}
	if err := h.ensureRegistered(elemMapper); err != nil {
		return ir.Symbol{}, err
	}

	mapperArg := abstract.KnownFunction(elemMapper.Ref, len(args))
	listMapLambda, err := h.listMap.Generate(append([]abstract.Value{mapperArg}, args...))
	if err != nil {
		return ir.Symbol{}, err
	}
	// ListMap registers its own Lambdas; nothing to publish here.

	base := ir.Symbol{Label: h.name, Namespace: ir.NamespaceGlobal}
	callArgs := append([]ir.Operand{elemMapper.Ref}, operands...)
	out := h.gen.Fresh(base, ir.RelationNone)
	b.BindOne(out, &ir.Apply{Fn: listMapLambda.Ref, Args: callArgs})
	return out, nil
}
