package prim

import (
	"github.com/gradforge/gradforge/glue"
	"github.com/gradforge/gradforge/ir"
	"github.com/gradforge/gradforge/ir/gensym"
)

// Rule is one primitive's registry record: its forward builtin symbol
// and the backward rule used to build ♦prim_nc for a requested
// nargs_closure.
type Rule struct {
	// Name is the stable primitive identifier.
	Name string

	// Forward is the builtin operator symbol the core embeds for this
	// primitive when it appears as the `prim` in the gradient_factory
	// wrapper template (§4.2).
	Forward ir.Symbol

	// Arity is the primitive's argument count, not counting the trailing
	// sensitivity parameter every backward Lambda also takes.
	Arity int

	// Backward builds ♦prim_nc's body, given a [*RuleBuilder] bound to
	// this invocation's arguments and sensitivity parameter. It returns
	// the Symbol to use as the Lambda's output.
	Backward func(rb *RuleBuilder) (ir.Symbol, error)
}

// RuleBuilder accumulates the bindings of a single ♦prim_nc body. It
// carries the nargs_closure the gradient factory was parameterized by,
// so [RuleBuilder.Group] can perform the GRAD rewrite without each rule
// knowing the split point (§4.7: "the GRAD compile-time macro is
// modeled as a parameter to the parser of each primitive's backward").
type RuleBuilder struct {
	b            *ir.Builder
	gen          *gensym.Gen
	primSym      ir.Symbol
	args         []ir.Symbol
	dz           ir.Symbol
	aux          *auxLambdas
	nargsClosure int
}

// Aux exposes the registry's auxiliary top-level helper Lambdas (tuple
// projections, the gindex predicate) to rules that need them.
func (rb *RuleBuilder) Aux() *auxLambdas {
	return rb.aux
}

// Arg returns the i-th primitive argument parameter.
func (rb *RuleBuilder) Arg(i int) ir.Symbol {
	return rb.args[i]
}

// Args returns every primitive argument parameter, in order.
func (rb *RuleBuilder) Args() []ir.Symbol {
	out := make([]ir.Symbol, len(rb.args))
	copy(out, rb.args)
	return out
}

// Dz returns the incoming sensitivity parameter.
func (rb *RuleBuilder) Dz() ir.Symbol {
	return rb.dz
}

// Bind appends a binding computing expr and returns its fresh LHS symbol,
// named by relation for debuggability (§6's enumerated relation tags).
func (rb *RuleBuilder) Bind(expr ir.Expr, relation ir.Relation) ir.Symbol {
	s := rb.gen.Fresh(rb.primSym, relation)
	rb.b.BindOne(s, expr)
	return s
}

// Apply is a convenience for Bind(&ir.Apply{Fn: fn, Args: args}, ...).
func (rb *RuleBuilder) Apply(fn ir.Operand, args ...ir.Operand) ir.Symbol {
	return rb.Bind(&ir.Apply{Fn: fn, Args: args}, ir.RelationTmpLet)
}

// Literal binds a boxed literal value and returns its symbol, used where
// a rule must name a constant (e.g. a fixed tuple index) for reuse.
func (rb *RuleBuilder) Literal(v any) ir.Symbol {
	return rb.Bind(ir.NewValue(v), ir.RelationTmpLet)
}

// Group implements the GRAD macro (§4.7): it packs grads into
// ((g1,...,gk), gk+1,...,gn), where k is the nargs_closure this body is
// being built for, and returns the symbol of the resulting 2-tuple,
// suitable as the rule's output.
func (rb *RuleBuilder) Group(grads ...ir.Operand) ir.Symbol {
	closure, rest := glue.GradGroup(grads, rb.nargsClosure)
	closureSym := rb.Bind(&ir.TupleExpr{Elems: closure}, ir.RelationTmpBprop)
	elems := make([]ir.Operand, 0, 1+len(rest))
	elems = append(elems, closureSym)
	elems = append(elems, rest...)
	return rb.Bind(&ir.TupleExpr{Elems: elems}, ir.RelationTmpBprop)
}
