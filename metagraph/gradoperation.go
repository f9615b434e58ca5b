package metagraph

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gradforge/gradforge/abstract"
	"github.com/gradforge/gradforge/diag"
	"github.com/gradforge/gradforge/env"
	"github.com/gradforge/gradforge/glue"
	"github.com/gradforge/gradforge/internal/trace"
	"github.com/gradforge/gradforge/ir"
	"github.com/gradforge/gradforge/ir/gensym"
)

// GradOperation implements grad(f) (§4.3): given a single abstract
// argument resolving to a unique graph function g, it emits a
// one-argument builder Lambda that returns df, the derivative closure.
// df applies J(g) to J-lifted inputs, extracts the backpropagator from
// the J'd result's second component, and calls it with a sensitivity
// value -- an external one when sensParam is set, or
// _cast_helper(1, out) otherwise. When getAll is set df returns every
// input's gradient via tail; otherwise only the first argument's.
type GradOperation struct {
	sensParam bool
	getAll    bool
	globals   *env.GlobalEnv
	factory   glue.GradientFactory

	logger *slog.Logger
	gen    *gensym.Gen
	cache  *cache

	mu        sync.Mutex
	templates map[templateKey]ir.Symbol
}

type templateKey struct {
	arity int
}

// NewGradOperation returns a GradOperation generator. factory resolves
// J(g) for the statically known graph function g the single argument
// names (§4.4: "primitive or top-level function -> gradient_factory(0)");
// globals is where generated Lambdas are published.
func NewGradOperation(sensParam, getAll bool, factory glue.GradientFactory, globals *env.GlobalEnv, opts ...Option) *GradOperation {
	cfg := newConfig(opts)
	return &GradOperation{
		sensParam: sensParam, getAll: getAll, globals: globals, factory: factory,
		logger: cfg.logger, gen: gensym.New(), cache: newCache(), templates: make(map[templateKey]ir.Symbol),
	}
}

func (g *GradOperation) Name() string { return "grad" }

func (g *GradOperation) NormalizeArgs(args []abstract.Value) []abstract.Value {
	return args // infer_value-equivalent: the target function's identity matters
}

func (g *GradOperation) Generate(args []abstract.Value) (lambda *ir.Lambda, err error) {
	op := trace.Begin(context.Background(), g.logger, "gradforge.metagraph.generate",
		slog.String("metagraph", "grad"), slog.Int("nargs", len(args)))
	defer func() { op.End(err) }()

	if len(args) != 1 {
		return nil, diag.NewTypeMismatch("a single function argument", fmt.Sprintf("%d arguments", len(args)))
	}
	target := args[0]
	if target.Kind != abstract.KindFunction {
		return nil, diag.NewTypeMismatch("Function", target.Kind.String())
	}
	if !target.FnKnown {
		return nil, diag.NewGenerationFailure(g.Name(), "grad requires a uniquely resolved graph function")
	}

	key := abstract.CacheKey(args)
	if lambda, ok := g.cache.get(key); ok {
		return lambda, nil
	}

	templateSym, err := g.template(target.FnArity)
	if err != nil {
		return nil, err
	}

	base := ir.Symbol{Label: "grad", Namespace: ir.NamespaceGlobal}
	b := ir.NewBuilder()
	fnParam := g.gen.Fresh(base, ir.RelationNone)
	b.Param(fnParam)

	// Force ↑g's registration eagerly so the emitted J(fn) has a target
	// to resolve to; the factory result itself is not embedded, J is.
	if _, err := g.factory.GradientFactory(target.FnSymbol, 0); err != nil {
		return nil, err
	}
	jf := g.gen.Fresh(base, ir.RelationJTag)
	b.BindOne(jf, &ir.Apply{Fn: JSymbol, Args: []ir.Operand{fnParam}})

	df := g.gen.Fresh(base, ir.RelationBpropClos)
	b.BindOne(df, &ir.ClosureExpr{FnSymbol: templateSym, Args: []ir.Operand{jf}})
	b.SetOutput(df)

	lambda = b.Finalize()
	ref := g.gen.Fresh(base, ir.RelationNone)
	lambda.Ref = ref
	if g.globals != nil {
		if err := g.globals.Register(ref, lambda); err != nil {
			return nil, err
		}
	}
	g.cache.put(key, lambda)
	return lambda, nil
}

// template builds (once per arity) the inner graph df closes over jf by:
// applying jf to the J-lifted parameters, unlifting the primal output,
// seeding or accepting a sensitivity, calling the backpropagator, and
// selecting the first gradient or all of them via tail.
func (g *GradOperation) template(arity int) (ir.Symbol, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := templateKey{arity: arity}
	if sym, ok := g.templates[key]; ok {
		return sym, nil
	}

	base := ir.Symbol{Label: "grad_df", Namespace: ir.NamespaceGlobal}
	b := ir.NewBuilder()
	jfParam := g.gen.Fresh(base, ir.RelationNone)
	b.Param(jfParam)

	params := make([]ir.Symbol, arity)
	jparams := make([]ir.Operand, arity)
	for i := range params {
		params[i] = g.gen.Fresh(base, ir.RelationNone)
		b.Param(params[i])
		jp := g.gen.Fresh(base, ir.RelationJTag)
		b.BindOne(jp, &ir.Apply{Fn: JSymbol, Args: []ir.Operand{params[i]}})
		jparams[i] = jp
	}

	app := g.gen.Fresh(base, ir.RelationTmpLet)
	b.BindOne(app, &ir.Apply{Fn: jfParam, Args: jparams})

	zero := g.gen.Fresh(base, ir.RelationTmpLet)
	b.BindOne(zero, ir.NewValue(int64(0)))
	primal := g.gen.Fresh(base, ir.RelationTmpLet)
	b.BindOne(primal, &ir.Apply{Fn: TupleGetItemSymbol, Args: []ir.Operand{app, zero}})
	out := g.gen.Fresh(base, ir.RelationTmpLet)
	b.BindOne(out, &ir.Apply{Fn: JinvSymbol, Args: []ir.Operand{primal}})

	one := g.gen.Fresh(base, ir.RelationTmpLet)
	b.BindOne(one, ir.NewValue(int64(1)))
	bprop := g.gen.Fresh(base, ir.RelationTmpLet)
	b.BindOne(bprop, &ir.Apply{Fn: TupleGetItemSymbol, Args: []ir.Operand{app, one}})

	var sensOperand ir.Operand
	if g.sensParam {
		sensParam := g.gen.Fresh(base, ir.RelationSens)
		b.Param(sensParam)
		sensOperand = sensParam
	} else {
		oneLit := g.gen.Fresh(base, ir.RelationTmpLet)
		b.BindOne(oneLit, ir.NewValue(int64(1)))
		seeded := g.gen.Fresh(base, ir.RelationTmpLet)
		b.BindOne(seeded, &ir.Apply{Fn: CastHelperSymbol, Args: []ir.Operand{oneLit, out}})
		sensOperand = seeded
	}

	bapp := g.gen.Fresh(base, ir.RelationTmpLet)
	b.BindOne(bapp, &ir.Apply{Fn: bprop, Args: []ir.Operand{sensOperand}})

	var output ir.Symbol
	if g.getAll {
		output = g.gen.Fresh(base, ir.RelationNone)
		b.BindOne(output, &ir.Apply{Fn: TailSymbol, Args: []ir.Operand{bapp}})
	} else {
		firstIdx := g.gen.Fresh(base, ir.RelationTmpLet)
		b.BindOne(firstIdx, ir.NewValue(int64(1)))
		output = g.gen.Fresh(base, ir.RelationNone)
		b.BindOne(output, &ir.Apply{Fn: TupleGetItemSymbol, Args: []ir.Operand{bapp, firstIdx}})
	}
	b.SetOutput(output)

	lambda := b.Finalize()
	ref := g.gen.Fresh(base, ir.RelationNone)
	lambda.Ref = ref
	if g.globals != nil {
		if err := g.globals.Register(ref, lambda); err != nil {
			return ir.Symbol{}, err
		}
	}
	g.templates[key] = ref
	return ref, nil
}
