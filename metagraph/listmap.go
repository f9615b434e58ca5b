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

// ListMap synthesizes a tail-recursive body that walks parallel lists via
// an iterator state machine (§4.3): list_iter -> hasnext ->
// switch(cond, body, halt), where body computes next on each iterator,
// appends the mapped element to the result list, and tail-calls the
// condition graph. Two auxiliary Lambdas (gcond, gnext) are generated
// core=true.
type ListMap struct {
	logger  *slog.Logger
	globals *env.GlobalEnv
	gen     *gensym.Gen
	cache   *cache

	idSym   ir.Symbol
	idBuilt bool
	aux     map[int]auxPair
}

// auxPair memoizes the per-list-count gcond/gnext registrations.
type auxPair struct {
	cond, next ir.Symbol
}

// NewListMap returns a ListMap generator, registering its auxiliary
// Lambdas in globals.
func NewListMap(globals *env.GlobalEnv, opts ...Option) *ListMap {
	cfg := newConfig(opts)
	return &ListMap{logger: cfg.logger, globals: globals, gen: gensym.New(), cache: newCache(), aux: make(map[int]auxPair)}
}

func (m *ListMap) Name() string { return "list_map" }

func (m *ListMap) NormalizeArgs(args []abstract.Value) []abstract.Value {
	return Broaden(args)
}

// Generate expects args = (fn, xs1, ..., xsN) with N >= 1 lists.
func (m *ListMap) Generate(args []abstract.Value) (lambda *ir.Lambda, err error) {
	op := trace.Begin(context.Background(), m.logger, "gradforge.metagraph.generate",
		slog.String("metagraph", "list_map"), slog.Int("nargs", len(args)))
	defer func() { op.End(err) }()

	if len(args) < 2 {
		return nil, diag.NewTypeMismatch("a function and at least one list", "list_map takes at least two arguments")
	}
	for _, a := range args[1:] {
		if a.Kind != abstract.KindList {
			return nil, diag.NewTypeMismatch("List", a.Kind.String())
		}
	}

	key := abstract.CacheKey(args)
	if lambda, ok := m.cache.get(key); ok {
		return lambda, nil
	}

	base := ir.Symbol{Label: "list_map", Namespace: ir.NamespaceGlobal}
	nLists := len(args) - 1

	b := ir.NewBuilder()
	b.SetCore(true)
	fnParam := m.gen.Fresh(base, ir.RelationNone)
	b.Param(fnParam)
	listParams := make([]ir.Symbol, nLists)
	for i := range listParams {
		listParams[i] = m.gen.Fresh(base, ir.RelationNone)
		b.Param(listParams[i])
	}

	iters := make([]ir.Operand, nLists)
	for i, lp := range listParams {
		it := m.gen.Fresh(base, ir.RelationTmpLet)
		b.BindOne(it, &ir.Apply{Fn: ListIterSymbol, Args: []ir.Operand{lp}})
		iters[i] = it
	}
	values, nextIters := m.advance(b, base, iters)

	firstElem := m.gen.Fresh(base, ir.RelationTmpLet)
	b.BindOne(firstElem, &ir.Apply{Fn: fnParam, Args: values})
	resl := m.gen.Fresh(base, ir.RelationTmpLet)
	b.BindOne(resl, &ir.Apply{Fn: MakeListSymbol, Args: []ir.Operand{firstElem}})

	gcondSym, _, auxErr := m.auxGraphs(nLists)
	if auxErr != nil {
		return nil, auxErr
	}

	condArgs := append([]ir.Operand{ir.Operand(fnParam), resl}, nextIters...)
	out := m.gen.Fresh(base, ir.RelationNone)
	b.BindOne(out, &ir.Apply{Fn: gcondSym, Args: condArgs})
	b.SetOutput(out)

	lambda = b.Finalize()
	ref := m.gen.Fresh(base, ir.RelationNone)
	lambda.Ref = ref
	if m.globals != nil {
		if err := m.globals.Register(ref, lambda); err != nil {
			return nil, err
		}
	}
	m.cache.put(key, lambda)
	return lambda, nil
}

// advance emits next(it) for each iterator, returning the extracted
// per-list values and the advanced iterators.
func (m *ListMap) advance(b *ir.Builder, base ir.Symbol, iters []ir.Operand) (values, nextIters []ir.Operand) {
	values = make([]ir.Operand, len(iters))
	nextIters = make([]ir.Operand, len(iters))
	for i, it := range iters {
		pair := m.gen.Fresh(base, ir.RelationTmpLet)
		b.BindOne(pair, &ir.Apply{Fn: NextSymbol, Args: []ir.Operand{it}})
		zero := m.gen.Fresh(base, ir.RelationTmpLet)
		b.BindOne(zero, ir.NewValue(int64(0)))
		one := m.gen.Fresh(base, ir.RelationTmpLet)
		b.BindOne(one, ir.NewValue(int64(1)))
		val := m.gen.Fresh(base, ir.RelationTmpLet)
		b.BindOne(val, &ir.Apply{Fn: TupleGetItemSymbol, Args: []ir.Operand{pair, zero}})
		nxt := m.gen.Fresh(base, ir.RelationTmpLet)
		b.BindOne(nxt, &ir.Apply{Fn: TupleGetItemSymbol, Args: []ir.Operand{pair, one}})
		values[i] = val
		nextIters[i] = nxt
	}
	return values, nextIters
}

// auxGraphs builds and registers gcond (the loop condition/dispatch) and
// gnext (the loop body), memoized per list count since their shape
// depends only on nLists.
func (m *ListMap) auxGraphs(nLists int) (condSym, nextSym ir.Symbol, err error) {
	if pair, ok := m.aux[nLists]; ok {
		return pair.cond, pair.next, nil
	}

	nextBase := ir.Symbol{Label: "list_map_body", Namespace: ir.NamespaceGlobal}
	nb := ir.NewBuilder()
	fnP := m.gen.Fresh(nextBase, ir.RelationNone)
	nb.Param(fnP)
	reslP := m.gen.Fresh(nextBase, ir.RelationNone)
	nb.Param(reslP)
	iterPs := make([]ir.Symbol, nLists)
	iterOperands := make([]ir.Operand, nLists)
	for i := range iterPs {
		iterPs[i] = m.gen.Fresh(nextBase, ir.RelationNone)
		nb.Param(iterPs[i])
		iterOperands[i] = iterPs[i]
	}
	values, nextIters := m.advance(nb, nextBase, iterOperands)
	mapped := m.gen.Fresh(nextBase, ir.RelationTmpLet)
	nb.BindOne(mapped, &ir.Apply{Fn: fnP, Args: values})
	newResl := m.gen.Fresh(nextBase, ir.RelationTmpLet)
	nb.BindOne(newResl, &ir.Apply{Fn: ListAppendSymbol, Args: []ir.Operand{reslP, mapped}})

	condBase := ir.Symbol{Label: "list_map_cond", Namespace: ir.NamespaceGlobal}
	condArgsForTail := append([]ir.Operand{ir.Operand(fnP), newResl}, nextIters...)
	tailCall := m.gen.Fresh(nextBase, ir.RelationNone)
	condRef := m.gen.Fresh(condBase, ir.RelationNone)
	nb.BindOne(tailCall, &ir.Apply{Fn: condRef, Args: condArgsForTail})
	nb.SetOutput(tailCall)
	nb.SetCore(true)
	nextLambda := nb.Finalize()
	nextLambda.Ref = m.gen.Fresh(nextBase, ir.RelationNone)
	if m.globals != nil {
		if err := m.globals.Register(nextLambda.Ref, nextLambda); err != nil {
			return ir.Symbol{}, ir.Symbol{}, err
		}
	}

	cb := ir.NewBuilder()
	cFnP := m.gen.Fresh(condBase, ir.RelationNone)
	cb.Param(cFnP)
	cReslP := m.gen.Fresh(condBase, ir.RelationNone)
	cb.Param(cReslP)
	cIterPs := make([]ir.Symbol, nLists)
	hasnexts := make([]ir.Operand, nLists)
	for i := range cIterPs {
		cIterPs[i] = m.gen.Fresh(condBase, ir.RelationNone)
		cb.Param(cIterPs[i])
		hn := m.gen.Fresh(condBase, ir.RelationTmpLet)
		cb.BindOne(hn, &ir.Apply{Fn: HasNextSymbol, Args: []ir.Operand{cIterPs[i]}})
		hasnexts[i] = hn
	}
	cond := hasnexts[0]
	for _, hn := range hasnexts[1:] {
		merged := m.gen.Fresh(condBase, ir.RelationTmpLet)
		cb.BindOne(merged, &ir.Apply{Fn: BoolAndSymbol, Args: []ir.Operand{cond, hn}})
		cond = merged
	}

	// gtrue/gfalse are zero-remaining-param closures over the current
	// state (§4.3: two auxiliary sub-graphs), selected by switch and
	// then called with no further arguments -- not eager branch values,
	// since an eagerly bound recursive call would never terminate.
	idSym, err := m.identityLambda()
	if err != nil {
		return ir.Symbol{}, ir.Symbol{}, err
	}
	gfalseArgs := make([]ir.Operand, 0, 1)
	gfalseArgs = append(gfalseArgs, cReslP)
	gfalse := m.gen.Fresh(condBase, ir.RelationTmpBprop)
	cb.BindOne(gfalse, &ir.ClosureExpr{FnSymbol: idSym, Args: gfalseArgs})

	gtrueArgs := make([]ir.Operand, 0, 2+nLists)
	gtrueArgs = append(gtrueArgs, cFnP, cReslP)
	gtrueArgs = append(gtrueArgs, toOperands(cIterPs)...)
	gtrue := m.gen.Fresh(condBase, ir.RelationTmpBprop)
	cb.BindOne(gtrue, &ir.ClosureExpr{FnSymbol: nextLambda.Ref, Args: gtrueArgs})

	chosen := m.gen.Fresh(condBase, ir.RelationTmpLet)
	cb.BindOne(chosen, &ir.Apply{Fn: SwitchSymbol, Args: []ir.Operand{cond, gtrue, gfalse}})

	selected := m.gen.Fresh(condBase, ir.RelationNone)
	cb.BindOne(selected, &ir.Apply{Fn: chosen, Args: nil})
	cb.SetOutput(selected)
	cb.SetCore(true)
	condLambda := cb.Finalize()
	condLambda.Ref = condRef
	if m.globals != nil {
		if err := m.globals.Register(condLambda.Ref, condLambda); err != nil {
			return ir.Symbol{}, ir.Symbol{}, err
		}
	}

	m.aux[nLists] = auxPair{cond: condLambda.Ref, next: nextLambda.Ref}
	return condLambda.Ref, nextLambda.Ref, nil
}

// identityLambda returns the symbol of a memoized λ(x). x, used to turn a
// captured accumulator into a zero-remaining-param closure for gfalse.
func (m *ListMap) identityLambda() (ir.Symbol, error) {
	if m.idBuilt {
		return m.idSym, nil
	}
	base := ir.Symbol{Label: "list_map_identity", Namespace: ir.NamespaceGlobal}
	b := ir.NewBuilder()
	x := m.gen.Fresh(base, ir.RelationNone)
	b.Param(x)
	b.SetOutput(x)
	b.SetCore(true)
	lambda := b.Finalize()
	lambda.Ref = m.gen.Fresh(base, ir.RelationNone)
	if m.globals != nil {
		if err := m.globals.Register(lambda.Ref, lambda); err != nil {
			return ir.Symbol{}, err
		}
	}
	m.idSym = lambda.Ref
	m.idBuilt = true
	return m.idSym, nil
}

func toOperands(syms []ir.Symbol) []ir.Operand {
	out := make([]ir.Operand, len(syms))
	for i, s := range syms {
		out[i] = s
	}
	return out
}
