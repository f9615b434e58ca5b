package prim

import (
	"sync"

	"github.com/gradforge/gradforge/env"
	"github.com/gradforge/gradforge/ir"
	"github.com/gradforge/gradforge/ir/gensym"
)

// auxLambdas registers the small top-level helper Lambdas some backward
// rules need (gindex's per-element predicate, tuple projections). Each
// is built once, flagged core (§4.3's "core" convention for generated
// infrastructure subgraphs), and memoized by name.
type auxLambdas struct {
	mu   sync.Mutex
	gen  *gensym.Gen
	env  *env.GlobalEnv
	syms map[string]ir.Symbol
}

func newAuxLambdas(gen *gensym.Gen, globalEnv *env.GlobalEnv) *auxLambdas {
	return &auxLambdas{gen: gen, env: globalEnv, syms: make(map[string]ir.Symbol)}
}

func (a *auxLambdas) get(name string, build func(gen *gensym.Gen) *ir.Lambda) (ir.Symbol, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if sym, ok := a.syms[name]; ok {
		return sym, nil
	}
	base := ir.Symbol{Label: name, Namespace: ir.NamespaceGlobal}
	sym := a.gen.Fresh(base, ir.RelationNone)
	lambda := build(a.gen)
	if err := a.env.Register(sym, lambda); err != nil {
		return ir.Symbol{}, err
	}
	a.syms[name] = sym
	return sym, nil
}

// projectionLambda returns the symbol of a top-level Lambda
// `λ(pair). index(pair, at)`, projecting element `at` (0 or 1) out of a
// 2-tuple, the "first"/"second" helpers gmap and genumerate's backward
// rules map over pairs.
func (a *auxLambdas) projectionLambda(at int64) (ir.Symbol, error) {
	name := "tuple_projection_0"
	if at != 0 {
		name = "tuple_projection_1"
	}
	return a.get(name, func(gen *gensym.Gen) *ir.Lambda {
		pairSym := ir.Symbol{Label: "pair", Namespace: ir.NamespaceLocal, Version: 1}
		b := ir.NewBuilder()
		b.Param(pairSym)
		atSym := gen.Fresh(pairSym, ir.RelationTmpLet)
		b.BindOne(atSym, ir.NewValue(at))
		outSym := gen.Fresh(pairSym, ir.RelationTmpLet)
		b.BindOne(outSym, &ir.Apply{Fn: IndexSymbol, Args: []ir.Operand{pairSym, atSym}})
		b.SetOutput(outSym)
		b.SetCore(true)
		return b.Finalize()
	})
}

// indexPredicateLambda returns the symbol of the top-level Lambda
// `λ(idx, dz, pair). switch(index(pair,0) == idx, dz, zeros_like(Jinv(index(pair,1))))`,
// applied per-element by gindex's backward rule via map/enumerate.
func (a *auxLambdas) indexPredicateLambda() (ir.Symbol, error) {
	return a.get("index_predicate", func(gen *gensym.Gen) *ir.Lambda {
		idx := ir.Symbol{Label: "idx", Namespace: ir.NamespaceLocal, Version: 1}
		dz := ir.Symbol{Label: "dz", Namespace: ir.NamespaceLocal, Version: 1}
		pair := ir.Symbol{Label: "pair", Namespace: ir.NamespaceLocal, Version: 1}
		b := ir.NewBuilder()
		b.Param(idx)
		b.Param(dz)
		b.Param(pair)

		zero := gen.Fresh(pair, ir.RelationTmpLet)
		b.BindOne(zero, ir.NewValue(int64(0)))
		one := gen.Fresh(pair, ir.RelationTmpLet)
		b.BindOne(one, ir.NewValue(int64(1)))

		pos := gen.Fresh(pair, ir.RelationTmpLet)
		b.BindOne(pos, &ir.Apply{Fn: IndexSymbol, Args: []ir.Operand{pair, zero}})
		elem := gen.Fresh(pair, ir.RelationTmpLet)
		b.BindOne(elem, &ir.Apply{Fn: IndexSymbol, Args: []ir.Operand{pair, one}})

		cond := gen.Fresh(pair, ir.RelationTmpLet)
		b.BindOne(cond, &ir.Apply{Fn: EqualSymbol, Args: []ir.Operand{pos, idx}})

		elemPrimal := gen.Fresh(pair, ir.RelationTmpLet)
		b.BindOne(elemPrimal, &ir.Apply{Fn: JinvSymbol, Args: []ir.Operand{elem}})
		elemZero := gen.Fresh(pair, ir.RelationTmpLet)
		b.BindOne(elemZero, &ir.Apply{Fn: ZerosLikeSymbol, Args: []ir.Operand{elemPrimal}})

		out := gen.Fresh(pair, ir.RelationTmpLet)
		b.BindOne(out, &ir.Apply{Fn: SwitchSymbol, Args: []ir.Operand{cond, dz, elemZero}})
		b.SetOutput(out)
		b.SetCore(true)
		return b.Finalize()
	})
}
