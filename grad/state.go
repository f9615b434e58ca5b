package grad

import "github.com/gradforge/gradforge/ir"

// state is the private, mutable bookkeeping for a single Transform call
// (§9 DESIGN NOTES: "a builder object with private mutable maps"). It is
// never shared across calls; Transformer constructs a fresh state per
// invocation and discards it once ↑f and ♦f are assembled.
type state struct {
	base ir.Symbol // namespace root new symbols are freshened against

	// tagged maps an original local symbol bound in f's forward pass
	// (including f's own parameters) to its J-lifted counterpart bound
	// in ↑f's forward pass.
	tagged map[ir.Symbol]ir.Symbol

	// backprop maps an Apply-bound output symbol to the backpropagator
	// closure symbol the tagged call produced alongside it.
	backprop map[ir.Symbol]ir.Symbol

	// bpropArgs and bpropFn save, per Apply-bound output symbol, the
	// original (untagged) argument list and function operand, so the
	// backward pass can accumulate into the right original variables.
	bpropArgs map[ir.Symbol][]ir.Operand
	bpropFn   map[ir.Symbol]ir.Operand

	// sensitivity maps an original local symbol to the symbol currently
	// holding its accumulated sensitivity, all of them bound within ♦f's
	// own body. Absence means "not yet written" (§4.6: reads default to
	// ZERO via sensValue, or a materialized conformant zero).
	sensitivity map[ir.Symbol]ir.Symbol

	// capturedOrder lists, in first-discovery order, every ↑f forward-
	// scope symbol (a tagged value or a per-call-site backpropagator
	// closure) that ♦f's body needs to read -- these, and only these,
	// become ♢f's captured arguments and ♦f's corresponding formal
	// parameters (§4.6: "a builder object"). Keyed by the forward-scope
	// symbol itself, so ♢f's ClosureExpr.Args is exactly capturedOrder.
	capturedOrder []ir.Symbol
	capturedParam map[ir.Symbol]ir.Symbol

	// zerosBound memoizes conformant(v)'s materialized zero, so repeated
	// reads before any write share one zeros_like(Jinv(param)) binding.
	zerosBound map[ir.Symbol]ir.Symbol
	zeros      []ir.Binding

	// backward accumulates ♦f's body bindings in the order they are
	// computed during the reverse walk, following the zeros bindings.
	backward []ir.Binding

	// outSensParam is ♦f's trailing formal parameter (∇out), seeded as
	// the return symbol's sensitivity before the backward walk begins.
	outSensParam ir.Symbol
}

func newState(base ir.Symbol) *state {
	return &state{
		base:          base,
		tagged:        make(map[ir.Symbol]ir.Symbol),
		backprop:      make(map[ir.Symbol]ir.Symbol),
		bpropArgs:     make(map[ir.Symbol][]ir.Operand),
		bpropFn:       make(map[ir.Symbol]ir.Operand),
		sensitivity:   make(map[ir.Symbol]ir.Symbol),
		capturedParam: make(map[ir.Symbol]ir.Symbol),
		zerosBound:    make(map[ir.Symbol]ir.Symbol),
	}
}

func (s *state) bind(lhs ir.Symbol, rhs ir.Expr) {
	s.backward = append(s.backward, ir.Binding{LHS: []ir.Symbol{lhs}, RHS: rhs})
}

func (s *state) bindZero(lhs ir.Symbol, rhs ir.Expr) {
	s.zeros = append(s.zeros, ir.Binding{LHS: []ir.Symbol{lhs}, RHS: rhs})
}

// setSensitivity records sym as v's current accumulated sensitivity.
func (s *state) setSensitivity(v, sym ir.Symbol) {
	s.sensitivity[v] = sym
}

// allBindings returns ♦f's complete body: the lazily materialized zero
// bindings followed by the backward-pass bindings that reference them.
func (s *state) allBindings() []ir.Binding {
	out := make([]ir.Binding, 0, len(s.zeros)+len(s.backward))
	out = append(out, s.zeros...)
	out = append(out, s.backward...)
	return out
}
