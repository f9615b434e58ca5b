package prim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gradforge/gradforge/diag"
	"github.com/gradforge/gradforge/env"
	"github.com/gradforge/gradforge/internal/trace"
	"github.com/gradforge/gradforge/ir"
	"github.com/gradforge/gradforge/ir/gensym"
)

// cacheKey is a primitive name paired with the nargs_closure the factory
// was parameterized by (§5: "Primitive gradient caches: per-primitive
// map from nargs_closure to Lambda").
type cacheKey struct {
	name         string
	nargsClosure int
}

// Registry is the primitive registry of §4.2: a mapping from stable
// primitive names to {forward, gradient_factory} records, backed by the
// rgrad catalogue (rgrad.go) by default.
//
// Registry is safe for concurrent use.
type Registry struct {
	logger *slog.Logger
	gen    *gensym.Gen
	env    *env.GlobalEnv
	aux    *auxLambdas

	mu    sync.Mutex
	rules map[string]Rule
	cache map[cacheKey]ir.Symbol
}

// New returns a Registry seeded with the full rgrad catalogue, publishing
// generated Lambdas into globalEnv.
func New(globalEnv *env.GlobalEnv, opts ...Option) *Registry {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	gen := gensym.New()
	r := &Registry{
		logger: cfg.logger,
		gen:    gen,
		env:    globalEnv,
		aux:    newAuxLambdas(gen, globalEnv),
		rules:  make(map[string]Rule),
		cache:  make(map[cacheKey]ir.Symbol),
	}
	for _, rule := range defaultRules() {
		r.rules[rule.Name] = rule
	}
	return r
}

// Register adds or replaces a primitive's record. Intended for tests and
// for extending the catalogue with primitives outside the original
// rgrad set.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.Name] = rule
}

// Lookup returns the record for name, or (Rule{}, false) if unregistered.
func (r *Registry) Lookup(name string) (Rule, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rule, ok := r.rules[name]
	return rule, ok
}

// GradientFactoryForName builds, registers, and memoizes the
// gradient_factory wrapper Lambda for the primitive named name at the
// given nargsClosure (§4.2).
//
// GradientFactoryForName returns a [*diag.Error] with code E_NO_GRADIENT
// if name is not registered.
func (r *Registry) GradientFactoryForName(ctx context.Context, name string, nargsClosure int) (ir.Symbol, error) {
	op := trace.Begin(ctx, r.logger, "gradforge.prim.gradient_factory",
		slog.String("primitive", name), slog.Int("nargs_closure", nargsClosure))
	var err error
	defer func() { op.End(err) }()

	key := cacheKey{name: name, nargsClosure: nargsClosure}

	r.mu.Lock()
	if sym, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return sym, nil
	}
	rule, ok := r.rules[name]
	r.mu.Unlock()
	if !ok {
		err = diag.NewNoGradient(name)
		return ir.Symbol{}, err
	}
	if nargsClosure < 0 || nargsClosure > rule.Arity {
		err = diag.NewInvariantViolation(fmt.Sprintf("nargs_closure %d out of range for primitive %q (arity %d)", nargsClosure, name, rule.Arity))
		return ir.Symbol{}, err
	}

	sym, buildErr := r.build(rule, nargsClosure)
	if buildErr != nil {
		err = buildErr
		return ir.Symbol{}, err
	}

	r.mu.Lock()
	r.cache[key] = sym
	r.mu.Unlock()
	return sym, nil
}

// GradientFactory satisfies
// [github.com/gradforge/gradforge/glue.GradientFactory], looking the
// primitive up by its builtin Forward symbol's label and delegating to
// [Registry.GradientFactoryForName].
func (r *Registry) GradientFactory(sym ir.Symbol, nargsClosure int) (ir.Symbol, error) {
	return r.GradientFactoryForName(context.Background(), sym.Label, nargsClosure)
}

// build constructs ♦prim_nc (the backward Lambda) and the gradient_factory
// wrapper Lambda described in §4.2, registering both.
func (r *Registry) build(rule Rule, nargsClosure int) (ir.Symbol, error) {
	bpropSym, err := r.buildBackward(rule, nargsClosure)
	if err != nil {
		return ir.Symbol{}, err
	}

	primBase := ir.Symbol{Label: rule.Name, Namespace: ir.NamespaceBuiltin}
	params := make([]ir.Symbol, rule.Arity)
	for i := range params {
		params[i] = r.gen.Fresh(primBase, ir.RelationNone)
	}

	b := ir.NewBuilder()
	for _, p := range params {
		b.Param(p)
	}

	jinvArgs := make([]ir.Operand, rule.Arity)
	for i, p := range params {
		jinvArgs[i] = r.gen.Fresh(p, ir.RelationNone)
		b.BindOne(jinvArgs[i].(ir.Symbol), &ir.Apply{Fn: JinvSymbol, Args: []ir.Operand{p}})
	}
	rawResult := r.gen.Fresh(primBase, ir.RelationNone)
	b.BindOne(rawResult, &ir.Apply{Fn: rule.Forward, Args: jinvArgs})
	forward := r.gen.Fresh(primBase, ir.RelationJTag)
	b.BindOne(forward, &ir.Apply{Fn: JSymbol, Args: []ir.Operand{rawResult}})

	// The closure stores every argument: ♦prim_nc's own parameters are
	// (a1,...,an, dz), so ♢prim must be callable with just dz.
	// nargsClosure only shapes the GRAD grouping of ♦prim_nc's return.
	closureArgs := make([]ir.Operand, rule.Arity)
	for i := range params {
		closureArgs[i] = params[i]
	}
	bprop := r.gen.Fresh(primBase, ir.RelationBpropClos)
	b.BindOne(bprop, &ir.ClosureExpr{FnSymbol: bpropSym, Args: closureArgs})

	out := r.gen.Fresh(primBase, ir.RelationNone)
	b.BindOne(out, &ir.TupleExpr{Elems: []ir.Operand{forward, bprop}})
	b.SetOutput(out)

	lambda := b.Finalize()
	wrapperSym := r.gen.Fresh(primBase, ir.RelationJTag)
	lambda.Ref = wrapperSym
	if err := r.env.Register(wrapperSym, lambda); err != nil {
		return ir.Symbol{}, err
	}
	return wrapperSym, nil
}

// buildBackward constructs and registers ♦prim_nc via the primitive's
// Backward rule.
func (r *Registry) buildBackward(rule Rule, nargsClosure int) (ir.Symbol, error) {
	base := ir.Symbol{Label: rule.Name, Namespace: ir.NamespaceBuiltin}
	args := make([]ir.Symbol, rule.Arity)
	for i := range args {
		args[i] = r.gen.Fresh(base, ir.RelationNone)
	}
	dz := r.gen.Fresh(base, ir.RelationSens)

	b := ir.NewBuilder()
	for _, a := range args {
		b.Param(a)
	}
	b.Param(dz)

	rb := &RuleBuilder{b: b, gen: r.gen, primSym: base, args: args, dz: dz, aux: r.aux, nargsClosure: nargsClosure}
	out, err := rule.Backward(rb)
	if err != nil {
		return ir.Symbol{}, err
	}
	b.SetOutput(out)

	lambda := b.Finalize()
	bpropSym := r.gen.Fresh(base, ir.RelationBprop)
	lambda.Ref = bpropSym
	if err := r.env.Register(bpropSym, lambda); err != nil {
		return ir.Symbol{}, err
	}
	return bpropSym, nil
}
