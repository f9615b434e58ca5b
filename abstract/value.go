package abstract

import "github.com/gradforge/gradforge/ir"

// Value is the type/shape descriptor consumed, not produced, by the core
// (§3 DATA MODEL): the kind tag, element descriptors for composite kinds,
// the shape tuple for arrays, and an optional retained literal.
type Value struct {
	Kind Kind

	// Shape is meaningful when Kind == KindArray.
	Shape Shape

	// Elements holds per-element abstract values for KindTuple (fixed
	// arity) and the single element descriptor for KindList (element 0).
	Elements []Value

	// Class names the host class when Kind == KindClass.
	Class string

	// Literal is a retained literal value, present only when the
	// generator that produced this descriptor opted into infer_value.
	Literal    any
	HasLiteral bool

	// FnSymbol and FnArity are meaningful when Kind == KindFunction and
	// the function resolves to a single, statically known graph (the
	// "ft.get_unique()" case GradOperation.generate_graph relies on).
	// FnKnown is false for an abstract function value with no unique
	// resolution (e.g. a runtime union of graphs).
	FnSymbol ir.Symbol
	FnArity  int
	FnKnown  bool
}

// Scalar returns a scalar AbstractValue, optionally retaining a literal.
func Scalar(literal any, hasLiteral bool) Value {
	return Value{Kind: KindScalar, Literal: literal, HasLiteral: hasLiteral}
}

// Array returns an array AbstractValue of the given shape.
func Array(shape Shape) Value {
	return Value{Kind: KindArray, Shape: shape}
}

// Tuple returns a tuple AbstractValue with the given element descriptors.
func Tuple(elements ...Value) Value {
	return Value{Kind: KindTuple, Elements: elements}
}

// List returns a list AbstractValue whose elements all have descriptor
// elem.
func List(elem Value) Value {
	return Value{Kind: KindList, Elements: []Value{elem}}
}

// Class returns a class AbstractValue for the named host class.
func Class(name string) Value {
	return Value{Kind: KindClass, Class: name}
}

// Function returns a function-kind AbstractValue with no statically known
// unique resolution.
func Function() Value {
	return Value{Kind: KindFunction}
}

// KnownFunction returns a function-kind AbstractValue that resolves to the
// single graph symbol sym of the given arity, the case GradOperation's
// generator requires.
func KnownFunction(sym ir.Symbol, arity int) Value {
	return Value{Kind: KindFunction, FnSymbol: sym, FnArity: arity, FnKnown: true}
}

// Broaden erases a retained literal, matching normalize_args' default of
// broadening away literal values unless infer_value is set (§4.3).
func (v Value) Broaden() Value {
	v.Literal = nil
	v.HasLiteral = false
	broadened := make([]Value, len(v.Elements))
	for i, e := range v.Elements {
		broadened[i] = e.Broaden()
	}
	v.Elements = broadened
	return v
}
