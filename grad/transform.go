package grad

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gradforge/gradforge/diag"
	"github.com/gradforge/gradforge/env"
	"github.com/gradforge/gradforge/glue"
	"github.com/gradforge/gradforge/internal/obs"
	"github.com/gradforge/gradforge/ir"
	"github.com/gradforge/gradforge/ir/gensym"
	"github.com/gradforge/gradforge/internal/trace"
)

// factoryKey memoizes a completed Transform by the (symbol, nargsClosure)
// pair the caller requested, mirroring the primitive registry's own
// per-nargs_closure cache (§4.2, §5).
type factoryKey struct {
	sym          ir.Symbol
	nargsClosure int
}

// Transformer implements the Grad transform (§4.6): reverse-mode
// automatic differentiation of a single ANF Lambda. It is safe for
// concurrent use; each call to [Transformer.Transform] or
// [Transformer.GradientFactory] owns its own private [state].
type Transformer struct {
	logger *slog.Logger
	env    *env.GlobalEnv
	prims  glue.GradientFactory
	gen    *gensym.Gen
	runID  string

	mu    sync.Mutex
	cache map[factoryKey]ir.Symbol
}

// New returns a Transformer that publishes generated ↑f/♦f Lambdas into
// globalEnv and delegates builtin symbols' gradients to prims (typically
// a [github.com/gradforge/gradforge/prim.Registry]). New stamps the
// Transformer with a fresh run identity (§5), included as a trace
// attribute on every [Transformer.Transform] call so a future
// parallelized driver's concurrent Grad instances stay distinguishable
// in logs.
func New(globalEnv *env.GlobalEnv, prims glue.GradientFactory, opts ...Option) *Transformer {
	cfg := newConfig(opts)
	return &Transformer{
		logger: cfg.logger,
		env:    globalEnv,
		prims:  prims,
		gen:    gensym.New(),
		runID:  obs.NewRunID(),
		cache:  make(map[factoryKey]ir.Symbol),
	}
}

// RunID returns the run identity stamped on t at construction time.
func (t *Transformer) RunID() string {
	return t.runID
}

// GradientFactory satisfies [glue.GradientFactory]: a builtin symbol
// resolves through the injected primitive registry; a global symbol
// resolves by looking up its Lambda and recursively transforming it,
// memoized per (symbol, nargsClosure) so a function referenced from
// multiple call sites is only ever differentiated once (§4.2 Caching).
func (t *Transformer) GradientFactory(sym ir.Symbol, nargsClosure int) (ir.Symbol, error) {
	switch sym.Namespace {
	case ir.NamespaceBuiltin:
		return t.prims.GradientFactory(sym, nargsClosure)
	case ir.NamespaceGlobal:
		// fall through
	default:
		return ir.Symbol{}, diag.NewInvariantViolation(
			fmt.Sprintf("gradient_factory requires a global or builtin symbol, got namespace %s", sym.Namespace))
	}

	key := factoryKey{sym: sym, nargsClosure: nargsClosure}
	t.mu.Lock()
	if cached, ok := t.cache[key]; ok {
		t.mu.Unlock()
		return cached, nil
	}
	t.mu.Unlock()

	lambda, ok := t.env.Lookup(sym)
	if !ok {
		return ir.Symbol{}, diag.NewInvariantViolation(fmt.Sprintf("symbol %s not bound in global environment", sym))
	}
	upSym, err := t.Transform(context.Background(), sym, lambda, nargsClosure)
	if err != nil {
		return ir.Symbol{}, err
	}

	t.mu.Lock()
	t.cache[key] = upSym
	t.mu.Unlock()
	return upSym, nil
}

// Transform synthesizes ↑f and ♦f for fSym/f, registers both, and
// returns ↑f's symbol (§4.6). nargsClosure splits f's own parameter
// gradients into the leading closure sub-tuple and the trailing rest,
// per the GRAD macro (§4.7, [glue.GradGroup]).
//
// Transform returns a [*diag.Error] with code E_INVARIANT_VIOLATION if f
// breaks the ANF data model Grad assumes: a non-singular binding, or an
// RHS of a kind Grad does not recognize.
func (t *Transformer) Transform(ctx context.Context, fSym ir.Symbol, f *ir.Lambda, nargsClosure int) (ir.Symbol, error) {
	op := trace.Begin(ctx, t.logger, "gradforge.grad.transform",
		slog.String("symbol", fSym.String()), slog.Int("nargs_closure", nargsClosure), slog.Int("nodes", f.NodeCount()),
		slog.String("run_id", t.runID))
	var err error
	defer func() { op.End(err) }()

	if f == nil || f.Body == nil {
		err = diag.NewInvariantViolation("grad requires a non-nil Lambda with a body")
		return ir.Symbol{}, err
	}
	if nargsClosure < 0 || nargsClosure > len(f.Params) {
		err = diag.NewInvariantViolation(fmt.Sprintf("nargs_closure %d out of range for %s (arity %d)", nargsClosure, fSym, len(f.Params)))
		return ir.Symbol{}, err
	}

	base := ir.Symbol{Label: fSym.Label, Namespace: ir.NamespaceGlobal}
	st := newState(base)
	fwd := ir.NewBuilder()

	for _, p := range f.Params {
		tag := t.gen.FreshNamed(p, ir.RelationJTag)
		st.tagged[p] = tag
		fwd.Param(tag)
	}

	if err = t.forwardPass(st, fwd, f.Body.Bindings); err != nil {
		return ir.Symbol{}, err
	}
	if err = t.backwardPass(st, f.Body.Bindings, f.Body.Body); err != nil {
		return ir.Symbol{}, err
	}

	bpropSym, err := t.assembleBackward(st, base, f.Params, nargsClosure)
	if err != nil {
		return ir.Symbol{}, err
	}

	upSym, err := t.assembleForward(st, fwd, base, f.Body.Body, bpropSym)
	if err != nil {
		return ir.Symbol{}, err
	}
	return upSym, nil
}

// forwardPass walks f's bindings in source order, tagging every RHS and
// recording enough bookkeeping in st for the backward pass to find its
// way back to every original variable (§4.6).
func (t *Transformer) forwardPass(st *state, fwd *ir.Builder, bindings []ir.Binding) error {
	for _, b := range bindings {
		if !b.IsSingular() {
			return diag.NewInvariantViolation("grad requires every binding to have a single-symbol LHS")
		}
		v := b.LHS[0]
		if err := t.forwardBinding(st, fwd, v, b.RHS); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transformer) forwardBinding(st *state, fwd *ir.Builder, v ir.Symbol, rhs ir.Expr) error {
	switch node := rhs.(type) {
	case ir.Symbol:
		tag, err := t.tagOperand(st, node)
		if err != nil {
			return err
		}
		newSym := t.gen.FreshNamed(v, ir.RelationJTag)
		fwd.BindOne(newSym, tag)
		st.tagged[v] = newSym

	case ir.Value:
		newSym := t.gen.FreshNamed(v, ir.RelationJTag)
		fwd.BindOne(newSym, node)
		st.tagged[v] = newSym

	case *ir.TupleExpr:
		elems := make([]ir.Operand, len(node.Elems))
		for i, e := range node.Elems {
			tag, err := t.tagOperand(st, e)
			if err != nil {
				return err
			}
			elems[i] = tag
		}
		newSym := t.gen.FreshNamed(v, ir.RelationJTag)
		fwd.BindOne(newSym, &ir.TupleExpr{Elems: elems})
		st.tagged[v] = newSym

	case *ir.ClosureExpr:
		if !node.FnSymbol.IsGlobalOrBuiltin() {
			return diag.NewInvariantViolation("a ClosureExpr's function symbol must be global or builtin")
		}
		jFnSym, err := t.GradientFactory(node.FnSymbol, len(node.Args))
		if err != nil {
			return err
		}
		tagArgs := make([]ir.Operand, len(node.Args))
		for i, a := range node.Args {
			tag, err := t.tagOperand(st, a)
			if err != nil {
				return err
			}
			tagArgs[i] = tag
		}
		newSym := t.gen.FreshNamed(v, ir.RelationJTag)
		fwd.BindOne(newSym, &ir.ClosureExpr{FnSymbol: jFnSym, Args: tagArgs})
		st.tagged[v] = newSym

	case *ir.Apply:
		tagFn, err := t.tagOperand(st, node.Fn)
		if err != nil {
			return err
		}
		tagArgs := make([]ir.Operand, len(node.Args))
		for i, a := range node.Args {
			tag, err := t.tagOperand(st, a)
			if err != nil {
				return err
			}
			tagArgs[i] = tag
		}

		callSym := t.gen.FreshNamed(v, ir.RelationJTag)
		fwd.BindOne(callSym, &ir.Apply{Fn: tagFn, Args: tagArgs})

		zeroIdx := t.gen.Fresh(st.base, ir.RelationTmpLet)
		fwd.BindOne(zeroIdx, ir.NewValue(int64(0)))
		resultSym := t.gen.FreshNamed(v, ir.RelationJTag)
		fwd.BindOne(resultSym, &ir.Apply{Fn: TupleGetItemSymbol, Args: []ir.Operand{callSym, zeroIdx}})

		oneIdx := t.gen.Fresh(st.base, ir.RelationTmpLet)
		fwd.BindOne(oneIdx, ir.NewValue(int64(1)))
		bpropSym := t.gen.FreshNamed(v, ir.RelationBpropClos)
		fwd.BindOne(bpropSym, &ir.Apply{Fn: TupleGetItemSymbol, Args: []ir.Operand{callSym, oneIdx}})

		st.tagged[v] = resultSym
		st.backprop[v] = bpropSym
		st.bpropArgs[v] = append([]ir.Operand(nil), node.Args...)
		st.bpropFn[v] = node.Fn

	default:
		return diag.NewInvariantViolation(fmt.Sprintf("grad does not recognize RHS node kind %T", rhs))
	}
	return nil
}

// tagOperand resolves the tagging rule for a single operand reference:
// a Value passes straight through, a global or builtin Symbol is
// re-emitted as J(sym) via [glue.TagGlobal], and a local Symbol resolves
// through the forward pass's own tagged map (§4.6).
func (t *Transformer) tagOperand(st *state, operand ir.Operand) (ir.Operand, error) {
	switch op := operand.(type) {
	case ir.Value:
		return op, nil
	case ir.Symbol:
		if op.IsGlobalOrBuiltin() {
			return glue.TagGlobal(t, op)
		}
		tag, ok := st.tagged[op]
		if !ok {
			return nil, diag.NewInvariantViolation(fmt.Sprintf("reference to %s before it was bound", op))
		}
		return tag, nil
	default:
		return nil, diag.NewInvariantViolation(fmt.Sprintf("grad does not recognize operand kind %T", operand))
	}
}

// backwardPass walks f's bindings in reverse, seeding the return
// symbol's sensitivity from ♦f's external ∇out parameter before the
// loop and accumulating every binding's contribution via accum_multi
// (§4.6).
func (t *Transformer) backwardPass(st *state, bindings []ir.Binding, retSym ir.Symbol) error {
	outSensParam := t.gen.FreshNamed(st.base, ir.RelationSens)
	st.outSensParam = outSensParam
	st.sensitivity[retSym] = outSensParam

	for i := len(bindings) - 1; i >= 0; i-- {
		b := bindings[i]
		v := b.LHS[0]
		if err := t.backwardBinding(st, v, b.RHS); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transformer) backwardBinding(st *state, v ir.Symbol, rhs ir.Expr) error {
	switch node := rhs.(type) {
	case ir.Symbol:
		dz := t.conformant(st, v)
		t.accumMulti(st, []ir.Operand{node}, []ir.Operand{dz})

	case ir.Value:
		// a literal has no trackable dependency; nothing to accumulate.

	case *ir.TupleExpr:
		dz := t.conformant(st, v)
		args := make([]ir.Operand, len(node.Elems))
		grads := make([]ir.Operand, len(node.Elems))
		for i, e := range node.Elems {
			idxLit := t.gen.Fresh(st.base, ir.RelationTmpLet)
			st.bind(idxLit, ir.NewValue(int64(i)))
			component := t.gen.Fresh(st.base, gradSlotRelation(e))
			st.bind(component, &ir.Apply{Fn: TupleGetItemSymbol, Args: []ir.Operand{dz, idxLit}})
			args[i] = e
			grads[i] = component
		}
		t.accumMulti(st, args, grads)

	case *ir.ClosureExpr:
		// (∇u₁,…) += ∇v: ∇v is the k-tuple of per-captured-arg gradients
		// that flowed back through whatever Apply later called this
		// closure as its Fn operand (the *ir.Apply case below folds that
		// call's Fn operand into the identical accum_multi mechanism as
		// any argument, so ∇v arrives here the same way a Tuple's ∇
		// arrives at its TupleExpr case).
		dz := t.conformant(st, v)
		args := make([]ir.Operand, len(node.Args))
		grads := make([]ir.Operand, len(node.Args))
		for i, a := range node.Args {
			idxLit := t.gen.Fresh(st.base, ir.RelationTmpLet)
			st.bind(idxLit, ir.NewValue(int64(i)))
			component := t.gen.Fresh(st.base, gradSlotRelation(a))
			st.bind(component, &ir.Apply{Fn: TupleGetItemSymbol, Args: []ir.Operand{dz, idxLit}})
			args[i] = a
			grads[i] = component
		}
		t.accumMulti(st, args, grads)

	case *ir.Apply:
		dz := t.conformant(st, v)
		bpropParam := t.capture(st, st.backprop[v])
		callSym := t.gen.Fresh(st.base, ir.RelationTmpBprop)
		st.bind(callSym, &ir.Apply{Fn: bpropParam, Args: []ir.Operand{dz}})

		// (∇h, ∇u₁,…) += ♢v(∇v): the callee operand accumulates through
		// the identical accum_multi batch as every argument, reading the
		// bprop's own index-0 tuple component as its gradient.
		origArgs := st.bpropArgs[v]
		allArgs := make([]ir.Operand, 0, 1+len(origArgs))
		allArgs = append(allArgs, st.bpropFn[v])
		allArgs = append(allArgs, origArgs...)

		allGrads := make([]ir.Operand, len(allArgs))
		for i := range allArgs {
			idxLit := t.gen.Fresh(st.base, ir.RelationTmpLet)
			st.bind(idxLit, ir.NewValue(int64(i)))
			g := t.gen.Fresh(st.base, gradSlotRelation(allArgs[i]))
			st.bind(g, &ir.Apply{Fn: TupleGetItemSymbol, Args: []ir.Operand{callSym, idxLit}})
			allGrads[i] = g
		}
		t.accumMulti(st, allArgs, allGrads)

	default:
		return diag.NewInvariantViolation(fmt.Sprintf("grad does not recognize RHS node kind %T", rhs))
	}
	return nil
}

// assembleBackward builds and registers ♦f: its parameters are the
// captures conformant accumulated (in discovery order) followed by
// ∇out, and its output is the GRAD macro's (closure-tuple, rest...)
// split of f's own parameters' final gradients (§4.6, §4.7).
func (t *Transformer) assembleBackward(st *state, base ir.Symbol, params []ir.Symbol, nargsClosure int) (ir.Symbol, error) {
	// conformant may grow st.capturedOrder/st.zeros for a parameter whose
	// sensitivity was never written, so the final gradient read happens
	// before the parameter list and body are pulled from st.
	allGrads := make([]ir.Operand, len(params))
	for i, p := range params {
		allGrads[i] = t.conformant(st, p)
	}
	closureGrads, restGrads := glue.GradGroup(allGrads, nargsClosure)

	b := ir.NewBuilder()
	for _, v := range st.capturedOrder {
		b.Param(st.capturedParam[v])
	}
	b.Param(st.outSensParam)
	for _, binding := range st.allBindings() {
		b.Bind(binding.LHS, binding.RHS)
	}

	closureSym := t.gen.Fresh(base, ir.RelationTmpBprop)
	b.BindOne(closureSym, &ir.TupleExpr{Elems: closureGrads})
	outElems := make([]ir.Operand, 0, 1+len(restGrads))
	outElems = append(outElems, closureSym)
	outElems = append(outElems, restGrads...)
	outSym := t.gen.Fresh(base, ir.RelationNone)
	b.BindOne(outSym, &ir.TupleExpr{Elems: outElems})
	b.SetOutput(outSym)

	lambda := b.Finalize()
	ref := t.gen.FreshNamed(base, ir.RelationBprop)
	lambda.Ref = ref
	lambda.Primal = base
	lambda.HasPrimal = true
	if err := t.env.Register(ref, lambda); err != nil {
		return ir.Symbol{}, err
	}
	return ref, nil
}

// assembleForward finishes ↑f: it closes over ♦f's captured parameters
// with the forward-scope values ↑f already has in scope, binds ♢f, and
// returns (taggedReturn, ♢f) as ↑f's output (§4.6).
func (t *Transformer) assembleForward(st *state, fwd *ir.Builder, base ir.Symbol, retSym ir.Symbol, bpropSym ir.Symbol) (ir.Symbol, error) {
	closureArgs := make([]ir.Operand, len(st.capturedOrder))
	for i, sym := range st.capturedOrder {
		closureArgs[i] = sym
	}

	closSym := t.gen.FreshNamed(base, ir.RelationBpropClos)
	fwd.BindOne(closSym, &ir.ClosureExpr{FnSymbol: bpropSym, Args: closureArgs})

	taggedRet, ok := st.tagged[retSym]
	if !ok {
		return ir.Symbol{}, diag.NewInvariantViolation(fmt.Sprintf("return symbol %s was never tagged", retSym))
	}
	outSym := t.gen.Fresh(base, ir.RelationNone)
	fwd.BindOne(outSym, &ir.TupleExpr{Elems: []ir.Operand{taggedRet, closSym}})
	fwd.SetOutput(outSym)

	lambda := fwd.Finalize()
	ref := t.gen.FreshNamed(base, ir.RelationJTag)
	lambda.Ref = ref
	lambda.Primal = base
	lambda.HasPrimal = true
	if err := t.env.Register(ref, lambda); err != nil {
		return ir.Symbol{}, err
	}
	return ref, nil
}
