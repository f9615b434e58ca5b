package diag

import "strconv"

// Detail provides key-value context for diagnostic issues.
//
// Use the standard detail key constants below to keep key naming consistent
// across the codebase.
type Detail struct {
	Key   string
	Value string
}

// Standard detail keys for consistent diagnostic metadata.
const (
	// DetailKeyExpected is the expected value, kind, or shape.
	DetailKeyExpected = "expected"

	// DetailKeyGot is the actual value, kind, or shape received.
	DetailKeyGot = "got"

	// DetailKeySymbol is the symbol (in its debug-printed form) a
	// diagnostic concerns.
	DetailKeySymbol = "symbol"

	// DetailKeySignature is the canonical argument signature a meta-graph
	// generator was invoked with.
	DetailKeySignature = "signature"

	// DetailKeyPrimitive is the primitive name a diagnostic concerns.
	DetailKeyPrimitive = "primitive"

	// DetailKeyNArgsClosure is the nargs_closure value involved.
	DetailKeyNArgsClosure = "nargs_closure"

	// DetailKeyMetaGraph is the meta-graph generator name (e.g. "tail",
	// "list_map", "elemwise:__add__").
	DetailKeyMetaGraph = "metagraph"
)

// ExpectedGot creates a pair of details for type/shape mismatch diagnostics.
func ExpectedGot(expected, got string) []Detail {
	return []Detail{
		{Key: DetailKeyExpected, Value: expected},
		{Key: DetailKeyGot, Value: got},
	}
}

// PrimitiveClosure creates detail entries for primitive-gradient diagnostics.
func PrimitiveClosure(primitive string, nargsClosure int) []Detail {
	return []Detail{
		{Key: DetailKeyPrimitive, Value: primitive},
		{Key: DetailKeyNArgsClosure, Value: strconv.Itoa(nargsClosure)},
	}
}
