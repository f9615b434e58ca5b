package grad

import (
	"github.com/gradforge/gradforge/glue"
	"github.com/gradforge/gradforge/ir"
)

// trackable reports whether op names an original-program local variable
// accum_multi may accumulate a sensitivity into. A Value literal or a
// reference to a global/builtin function is a discard slot: it has no
// gradient to receive (§4.6 accum_multi).
func trackable(op ir.Operand) (ir.Symbol, bool) {
	sym, ok := op.(ir.Symbol)
	if !ok || sym.Namespace != ir.NamespaceLocal {
		return ir.Symbol{}, false
	}
	return sym, true
}

// gradSlotRelation picks the relation tag for a gradient component bound
// out of a backpropagator's return tuple: TMP_SENS when the component
// feeds a real accumulation, NULLSYM when the operand is a discard slot.
func gradSlotRelation(op ir.Operand) ir.Relation {
	if _, ok := trackable(op); ok {
		return ir.RelationTmpSens
	}
	return ir.RelationNullSym
}

// accumMulti implements the accum_multi discipline (§4.6): given one
// Apply call-site's argument list and the parallel list of gradients its
// backpropagator produced, it folds each gradient into its argument's
// running sensitivity.
//
// A singleton, never-before-written argument is assigned its gradient
// directly -- no mapadd is emitted. Every other case (the argument
// repeats within this same batch, or already carries a sensitivity from
// an earlier call-site) always wraps every occurrence in mapadd, folded
// left to right starting from the prior sensitivity or, absent one, the
// ZERO sentinel (§3: "ZERO... may appear only as the first operand of
// mapadd"). This is what gives a duplicated argument -- f(y) = y*y binds
// y as both of multiply's arguments -- exactly one mapadd per occurrence
// instead of collapsing to a single accumulated write.
func (t *Transformer) accumMulti(st *state, args, grads []ir.Operand) {
	type occGroup struct {
		sym  ir.Symbol
		idxs []int
	}
	var order []ir.Symbol
	groups := make(map[ir.Symbol]*occGroup)
	for i, a := range args {
		sym, ok := trackable(a)
		if !ok {
			continue
		}
		g, exists := groups[sym]
		if !exists {
			g = &occGroup{sym: sym}
			groups[sym] = g
			order = append(order, sym)
		}
		g.idxs = append(g.idxs, i)
	}

	for _, sym := range order {
		g := groups[sym]
		_, hasPrior := st.sensitivity[sym]

		if len(g.idxs) == 1 && !hasPrior {
			fresh := t.gen.FreshNamed(sym, ir.RelationSens)
			st.bind(fresh, grads[g.idxs[0]])
			st.setSensitivity(sym, fresh)
			continue
		}

		acc := t.sensValue(st, sym)
		var fresh ir.Symbol
		for _, idx := range g.idxs {
			fresh = t.gen.FreshNamed(sym, ir.RelationSens)
			st.bind(fresh, glue.ApplyMapAdd(acc, grads[idx]))
			acc = fresh
		}
		st.setSensitivity(sym, fresh)
	}
}

// sensValue is the lenient sensitivity read used while accumulating: the
// current value for v, or the ZERO sentinel if nothing has been written
// yet. Safe to pass straight into mapadd's first operand.
func (t *Transformer) sensValue(st *state, v ir.Symbol) ir.Operand {
	if sym, ok := st.sensitivity[v]; ok {
		return sym
	}
	return ir.ZERO
}

// capture records that ♦f's body needs read access to valueSym, a
// symbol bound within ↑f's own forward scope (a tagged value or a
// per-call-site backpropagator closure extracted during the forward
// pass). The first request for a given valueSym mints a fresh ♦f
// formal parameter for it and appends it to capturedOrder, so ♢f's
// ClosureExpr can later supply every captured value positionally from
// ↑f's scope (§4.6: "closure-converted backpropagators"). Repeated
// requests for the same valueSym share one parameter.
func (t *Transformer) capture(st *state, valueSym ir.Symbol) ir.Symbol {
	if param, ok := st.capturedParam[valueSym]; ok {
		return param
	}
	param := t.gen.FreshNamed(valueSym, ir.RelationNone)
	st.capturedParam[valueSym] = param
	st.capturedOrder = append(st.capturedOrder, valueSym)
	return param
}

// conformant is the materializing sensitivity read used wherever a
// concrete, correctly-shaped gradient is required rather than the
// abstract ZERO sentinel -- principally ♦f's final output tuple, which
// must return a real gradient for every one of f's own parameters even
// when its sensitivity was never written.
//
// The first time v needs materializing, conformant captures v's tagged
// value and binds zeros_like(Jinv(captured)) against it. Both the
// capture and the resulting zero binding are memoized per variable.
func (t *Transformer) conformant(st *state, v ir.Symbol) ir.Operand {
	if sym, ok := st.sensitivity[v]; ok {
		return sym
	}
	if sym, ok := st.zerosBound[v]; ok {
		return sym
	}
	tagged, ok := st.tagged[v]
	if !ok {
		tagged = v
	}
	param := t.capture(st, tagged)

	unlifted := t.gen.FreshNamed(v, ir.RelationNone)
	st.bindZero(unlifted, glue.ApplyJinv(param))

	fresh := t.gen.FreshNamed(v, ir.RelationSens)
	st.bindZero(fresh, glue.ApplyZerosLike(unlifted))
	st.zerosBound[v] = fresh
	return fresh
}
