package ir

// Binding is one entry of a [Let]'s ordered binding list: an LHS
// destructured into one or more Symbols (len(LHS) > 1 denotes a
// Tuple-deconstructing assignment), bound to an RHS Expr. The single-
// assignment invariant (§3, §8 property 2) requires every LHS Symbol
// across a Lambda's body to be unique.
type Binding struct {
	LHS []Symbol
	RHS Expr
}

// IsSingular reports whether this binding has a plain Symbol LHS, as
// opposed to a Tuple-deconstructing assignment.
func (b Binding) IsSingular() bool {
	return len(b.LHS) == 1
}

// Let is a function body: an ordered sequence of single-assignment
// bindings followed by the returned Symbol.
type Let struct {
	Bindings []Binding
	Body     Symbol
}

// Lambda is a top-level function: either a user program already lowered
// to ANF, or one of Grad's generated functions (↑f, ♦f) or a meta-graph's
// synthesized Graph.
//
// Cyclic references (a Closure referring back to its own enclosing
// Lambda, a backpropagator referring to the function it differentiates)
// are expressed through Ref/Primal Symbol lookups into the global
// environment, never through a direct Go pointer (§9 DESIGN NOTES).
type Lambda struct {
	Params []Symbol
	Body   *Let

	// Ref is this Lambda's publishing symbol in the global environment,
	// set at registration time.
	Ref Symbol

	// Primal points back to the untransformed symbol this Lambda was
	// generated from (set on ↑f and ♦f; zero value on user Lambdas).
	Primal Symbol

	// HasPrimal distinguishes a genuinely zero-value Primal Symbol from
	// "no primal was ever set" (a user Lambda).
	HasPrimal bool

	// Core flags a meta-graph-generated Graph as belonging to the
	// optimizer's "core" set (§4.3 ListMap's gcond/gnext sub-graphs).
	Core bool
}

// NodeCount returns the number of bindings in the Lambda's body, used as a
// cheap observability attribute in operation-boundary logging.
func (l *Lambda) NodeCount() int {
	if l == nil || l.Body == nil {
		return 0
	}
	return len(l.Body.Bindings)
}
