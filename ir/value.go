package ir

import (
	"fmt"

	"github.com/gradforge/gradforge/immutable"
)

// Value is a boxed literal: a host-level constant (integer, float,
// boolean, or a structured constant built from nested tuples of the
// same), or the ZERO additive-identity sentinel. Values never bind a name
// (§3 DATA MODEL).
//
// Value wraps [immutable.Value]; a tuple constant is represented the same
// way [immutable.Slice] represents one, so a Value can stand for any
// congruent structure zeros_like/ones_like/mapadd need to walk (§4.5).
type Value struct {
	zero  bool
	inner immutable.Value
}

// ZERO is the distinguished additive identity sentinel (§3). It may appear
// only as the first operand of mapadd (see
// [github.com/gradforge/gradforge/glue.MapAdd]); a well-formed transform
// never returns it as a gradient.
var ZERO = Value{zero: true}

// NewValue boxes a host constant (or a []any of further constants, for a
// tuple literal) as a Value. Ownership of v transfers to the Value per
// [immutable.Wrap]'s semantics.
func NewValue(v any) Value {
	return Value{inner: immutable.Wrap(v)}
}

// ValueFromImmutable wraps an already-immutable component, used when
// recursing into a Slice element (via [immutable.Slice.Get]) without
// re-wrapping it.
func ValueFromImmutable(v immutable.Value) Value {
	return Value{inner: v}
}

// IsZero reports whether this Value is the ZERO sentinel.
func (v Value) IsZero() bool {
	return v.zero
}

// Unwrap returns the underlying Go value, or nil for ZERO.
func (v Value) Unwrap() any {
	if v.zero {
		return nil
	}
	return v.inner.Unwrap()
}

// Float returns the value as a float64, matching [immutable.Value.Float]'s
// numeric-widening rules. Returns (0, false) for ZERO or a non-numeric value.
func (v Value) Float() (float64, bool) {
	if v.zero {
		return 0, false
	}
	return v.inner.Float()
}

// Int returns the value as an int64. Returns (0, false) for ZERO or a
// non-integer value.
func (v Value) Int() (int64, bool) {
	if v.zero {
		return 0, false
	}
	return v.inner.Int()
}

// Slice reports whether this Value is a tuple literal and, if so, returns
// its elements.
func (v Value) Slice() (immutable.Slice, bool) {
	if v.zero {
		return immutable.Slice{}, false
	}
	return v.inner.Slice()
}

// String returns a debug-printed form.
func (v Value) String() string {
	if v.zero {
		return "ZERO"
	}
	return fmt.Sprintf("%v", v.inner.Unwrap())
}
