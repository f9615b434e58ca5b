package ir

// Builder incrementally constructs a Lambda's body: a parameter list
// followed by an ordered sequence of single-assignment bindings and a
// unique output Symbol. Builder mirrors the "Graph" data model (§3 DATA
// MODEL): a meta-graph's generate(args) returns one of these, finalized.
//
// A Builder is not safe for concurrent use; each meta-graph generation and
// each Grad transform owns its own Builder.
type Builder struct {
	params   []Symbol
	bindings []Binding
	output   Symbol
	hasOut   bool
	core     bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Param records a parameter of the Lambda under construction, in order.
func (b *Builder) Param(s Symbol) *Builder {
	b.params = append(b.params, s)
	return b
}

// Params returns the parameters recorded so far, in order.
func (b *Builder) Params() []Symbol {
	out := make([]Symbol, len(b.params))
	copy(out, b.params)
	return out
}

// Bind appends a binding whose LHS is the given Symbols (len > 1 for a
// Tuple-deconstructing assignment) and whose RHS is expr.
func (b *Builder) Bind(lhs []Symbol, expr Expr) *Builder {
	b.bindings = append(b.bindings, Binding{LHS: lhs, RHS: expr})
	return b
}

// BindOne appends a binding with a single-Symbol LHS.
func (b *Builder) BindOne(lhs Symbol, expr Expr) *Builder {
	return b.Bind([]Symbol{lhs}, expr)
}

// Bindings returns the bindings recorded so far, in order.
func (b *Builder) Bindings() []Binding {
	out := make([]Binding, len(b.bindings))
	copy(out, b.bindings)
	return out
}

// SetOutput records the Lambda's returned Symbol.
func (b *Builder) SetOutput(s Symbol) *Builder {
	b.output = s
	b.hasOut = true
	return b
}

// SetCore flags the Lambda under construction as belonging to the
// optimizer's "core" set (§4.3).
func (b *Builder) SetCore(core bool) *Builder {
	b.core = core
	return b
}

// Core reports whether SetCore(true) was called.
func (b *Builder) Core() bool {
	return b.core
}

// Finalize produces an immutable Lambda from the builder's accumulated
// state. Finalize panics if SetOutput was never called: an unset output
// is a construction bug in the caller, not a runtime condition to
// propagate as an error.
func (b *Builder) Finalize() *Lambda {
	if !b.hasOut {
		panic("ir: Builder.Finalize called before SetOutput")
	}
	params := make([]Symbol, len(b.params))
	copy(params, b.params)
	bindings := make([]Binding, len(b.bindings))
	copy(bindings, b.bindings)
	return &Lambda{
		Params: params,
		Body:   &Let{Bindings: bindings, Body: b.output},
		Core:   b.core,
	}
}
