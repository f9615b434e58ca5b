package diag

// CodeCategory represents the semantic domain of an error code.
//
// Categories mirror the components named in §4 of the design: the meta-
// graph engine, the primitive registry, the Grad transform, and the J/Jinv
// lifting layer each own a slice of the code space.
type CodeCategory uint8

const (
	// CategorySentinel is for sentinel codes like E_INTERNAL.
	CategorySentinel CodeCategory = iota

	// CategoryMetaGraph is for meta-graph generation errors (Elemwise,
	// MultitypeGraph, HyperMap, Tail, ListMap, GradOperation).
	CategoryMetaGraph

	// CategoryPrim is for primitive registry errors.
	CategoryPrim

	// CategoryGrad is for Grad-transform errors (ANF invariant violations).
	CategoryGrad

	// CategoryLift is for J/Jinv lifting errors.
	CategoryLift
)

// String returns a human-readable label for the category.
func (c CodeCategory) String() string {
	switch c {
	case CategorySentinel:
		return "sentinel"
	case CategoryMetaGraph:
		return "metagraph"
	case CategoryPrim:
		return "prim"
	case CategoryGrad:
		return "grad"
	case CategoryLift:
		return "lift"
	default:
		return "unknown"
	}
}

// Code is a stable programmatic identifier for an Issue.
//
// Code.String() values are globally unique across all categories. The
// CodeCategory is informational metadata for filtering and grouping.
type Code struct {
	value string
	cat   CodeCategory
}

// String returns the code's string representation (e.g., "E_SHAPE_MISMATCH").
func (c Code) String() string {
	return c.value
}

// Category returns the programmatic category for this code.
func (c Code) Category() CodeCategory {
	return c.cat
}

// IsZero reports whether the code is unset.
func (c Code) IsZero() bool {
	return c.value == ""
}

// code is the unexported constructor -- callers cannot create arbitrary codes.
func code(value string, cat CodeCategory) Code {
	return Code{value: value, cat: cat}
}

// Sentinel codes.
var (
	// E_INTERNAL indicates an unexpected invariant failure (internal bug
	// indicator); use for conditions that should never occur in correct code.
	E_INTERNAL = code("E_INTERNAL", CategorySentinel)
)

// Meta-graph codes (§7: TypeMismatch, ShapeMismatch, NoSignature,
// GenerationFailure).
var (
	// E_TYPE_MISMATCH indicates a meta-graph received an argument of the
	// wrong kind, e.g. Tail on a non-tuple or HyperMap on an unregistered
	// leaf kind.
	E_TYPE_MISMATCH = code("E_TYPE_MISMATCH", CategoryMetaGraph)

	// E_SHAPE_MISMATCH indicates Elemwise could not broadcast the argument
	// shapes to a common shape.
	E_SHAPE_MISMATCH = code("E_SHAPE_MISMATCH", CategoryMetaGraph)

	// E_NO_SIGNATURE indicates a MultitypeGraph found no entry whose
	// pattern accepts the argument types.
	E_NO_SIGNATURE = code("E_NO_SIGNATURE", CategoryMetaGraph)

	// E_GENERATION_FAILURE indicates a meta-graph could not synthesize a
	// graph for the given argument set, for a reason not covered by the
	// more specific codes above.
	E_GENERATION_FAILURE = code("E_GENERATION_FAILURE", CategoryMetaGraph)
)

// Primitive registry codes (§7: NoGradient).
var (
	// E_NO_GRADIENT indicates a primitive's gradient factory is not
	// registered.
	E_NO_GRADIENT = code("E_NO_GRADIENT", CategoryPrim)
)

// Lifting codes (§7: UnliftablePrimal).
var (
	// E_UNLIFTABLE_PRIMAL indicates Jinv was applied to a primitive, which
	// has no primal to recover.
	E_UNLIFTABLE_PRIMAL = code("E_UNLIFTABLE_PRIMAL", CategoryLift)
)

// Grad-transform codes (§7: InvariantViolation).
var (
	// E_INVARIANT_VIOLATION indicates an ANF invariant was broken on Grad
	// input: a nested Apply, an unknown RHS node kind, or a Closure whose
	// function symbol is not global/builtin.
	E_INVARIANT_VIOLATION = code("E_INVARIANT_VIOLATION", CategoryGrad)
)

// allCodes contains all defined codes for AllCodes() and uniqueness tests.
var allCodes = []Code{
	E_INTERNAL,
	E_TYPE_MISMATCH,
	E_SHAPE_MISMATCH,
	E_NO_SIGNATURE,
	E_GENERATION_FAILURE,
	E_NO_GRADIENT,
	E_UNLIFTABLE_PRIMAL,
	E_INVARIANT_VIOLATION,
}

// AllCodes returns all defined codes. The returned slice is a copy.
func AllCodes() []Code {
	result := make([]Code, len(allCodes))
	copy(result, allCodes)
	return result
}

// CodesByCategory returns codes in the given category. The returned slice
// is a new allocation.
func CodesByCategory(cat CodeCategory) []Code {
	var result []Code
	for _, c := range allCodes {
		if c.cat == cat {
			result = append(result, c)
		}
	}
	return result
}
