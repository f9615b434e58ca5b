package abstract

// Kind is the broad category tag of an AbstractValue (§3 DATA MODEL).
type Kind uint8

const (
	// KindScalar is a single numeric or boolean value.
	KindScalar Kind = iota

	// KindArray is a homogeneous numeric array with a [Shape].
	KindArray

	// KindTuple is a fixed-length heterogeneous sequence.
	KindTuple

	// KindList is a variable-length homogeneous sequence.
	KindList

	// KindClass is a host-level class instance (a record/environment).
	KindClass

	// KindFunction is a top-level Lambda or primitive reference.
	KindFunction
)

// String returns a human-readable label for the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindArray:
		return "Array"
	case KindTuple:
		return "Tuple"
	case KindList:
		return "List"
	case KindClass:
		return "Class"
	case KindFunction:
		return "Function"
	default:
		return "Unknown"
	}
}

// IsArray reports whether the kind denotes a shaped array, the only kind
// Elemwise's broadcast logic treats specially (§4.3).
func (k Kind) IsArray() bool {
	return k == KindArray
}
