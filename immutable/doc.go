// Package immutable provides immutable wrapper types for Go values.
//
// This package sits at the foundation tier alongside [diag], providing
// compile-time immutability guarantees for values that flow through the
// IR kernel and the meta-graph cache.
//
// # Design Principles
//
//   - Zero-cost reads for primitives: accessing a string or number incurs no
//     allocation. The underlying value is returned directly via type-safe
//     accessors.
//   - Recursive wrapping for slices: tuple and list literals are recursively
//     wrapped at construction time, not access time.
//   - Iterator-first access: [Slice] exposes [iter.Seq] and [iter.Seq2]
//     iterators as the primary API for zero-allocation iteration.
//
// # Core Types
//
// [Value] wraps an arbitrary Go value and backs the literal payload carried
// by [github.com/gradforge/gradforge/ir.Value] nodes:
//
//	val := immutable.Wrap(3.14)
//	if f, ok := val.Float(); ok {
//	    fmt.Println(f)
//	}
//
// [Slice] provides immutable access to a slice with pre-wrapped elements,
// used for boxed tuple and list literals:
//
//	s := immutable.WrapSlice(items)
//	for v := range s.Iter() {
//	    fmt.Println(v.Unwrap())
//	}
//
// [Key] wraps an ordered sequence of signature components and provides a
// canonical string representation via [Key.String], used as the meta-graph
// cache's lookup key:
//
//	key := immutable.WrapKey([]any{"Scalar", "Array"})
//	fmt.Println(key.String()) // ["Scalar","Array"]
//
// # Ownership Semantics
//
// The Wrap family (Wrap, WrapSlice, WrapKey) implements whole-graph
// ownership transfer. After calling Wrap(v), the caller MUST NOT retain or
// use any reference to v or any mutable value reachable from v.
//
// The WrapClone family (WrapClone, WrapSliceClone, WrapKeyClone) performs a
// deep clone before wrapping; the caller may freely retain and mutate the
// original value afterward.
//
// # Nil Semantics
//
// [Value.IsNil] returns true for literal nil, typed nil pointers/channels/
// functions/interfaces, and nil slices. Wrapping a nil slice still
// identifies as a [Slice] via [Value.Slice], distinguishing a nil-typed
// value from literal nil.
//
// # Concurrency Safety
//
// All immutable types are safe for concurrent read access; nothing is
// mutated after construction.
//
// # Package Dependencies
//
// immutable imports only stdlib packages (reflect, iter, encoding/json). It
// must not import higher-level packages like ir, abstract, or metagraph.
package immutable
