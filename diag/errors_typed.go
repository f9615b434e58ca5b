package diag

// Typed constructors for the seven core error kinds (§7 ERROR HANDLING
// DESIGN). Each wraps an [Issue] at [Fatal] severity -- per the design,
// every core error is fatal -- into a [*Error] ready to return.

// NewTypeMismatch reports a meta-graph argument of the wrong kind (e.g.
// Tail on a non-tuple, HyperMap on an unregistered leaf kind).
func NewTypeMismatch(expected, got string) *Error {
	return Wrap(NewIssue(Fatal, E_TYPE_MISMATCH, "argument kind mismatch").
		WithExpectedGot(expected, got).
		Build())
}

// NewShapeMismatch reports a failed Elemwise broadcast.
func NewShapeMismatch(expected, got string) *Error {
	return Wrap(NewIssue(Fatal, E_SHAPE_MISMATCH, "cannot broadcast shapes").
		WithExpectedGot(expected, got).
		Build())
}

// NewNoSignature reports that a MultitypeGraph found no entry whose
// pattern accepts the argument types.
func NewNoSignature(metagraph, signature string) *Error {
	return Wrap(NewIssue(Fatal, E_NO_SIGNATURE, "no matching signature").
		WithDetail(DetailKeyMetaGraph, metagraph).
		WithDetail(DetailKeySignature, signature).
		Build())
}

// NewGenerationFailure reports that a meta-graph could not synthesize a
// graph for the given argument set, for a reason not covered by
// [NewTypeMismatch], [NewShapeMismatch], or [NewNoSignature].
func NewGenerationFailure(metagraph, reason string) *Error {
	return Wrap(NewIssue(Fatal, E_GENERATION_FAILURE, reason).
		WithDetail(DetailKeyMetaGraph, metagraph).
		Build())
}

// NewNoGradient reports that a primitive's gradient factory is not
// registered.
func NewNoGradient(primitive string) *Error {
	return Wrap(NewIssue(Fatal, E_NO_GRADIENT, "primitive has no registered gradient").
		WithDetail(DetailKeyPrimitive, primitive).
		Build())
}

// NewUnliftablePrimal reports Jinv applied to a primitive, which has no
// primal to recover.
func NewUnliftablePrimal(primitive string) *Error {
	return Wrap(NewIssue(Fatal, E_UNLIFTABLE_PRIMAL, "primitive has no primal to unlift").
		WithDetail(DetailKeyPrimitive, primitive).
		Build())
}

// NewInvariantViolation reports a broken ANF invariant on Grad input: a
// nested Apply, an unknown RHS node kind, or a Closure whose function
// symbol is not global/builtin.
func NewInvariantViolation(reason string) *Error {
	return Wrap(NewIssue(Fatal, E_INVARIANT_VIOLATION, reason).Build())
}
