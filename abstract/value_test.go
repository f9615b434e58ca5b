package abstract_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradforge/gradforge/abstract"
)

func TestValue_Scalar(t *testing.T) {
	v := abstract.Scalar(int64(3), true)
	require.Equal(t, abstract.KindScalar, v.Kind)
	require.True(t, v.HasLiteral)
	require.Equal(t, int64(3), v.Literal)
}

func TestValue_Array(t *testing.T) {
	shape := abstract.Shape{abstract.Fixed(2), abstract.Anything}
	v := abstract.Array(shape)
	require.Equal(t, abstract.KindArray, v.Kind)
	require.True(t, v.Shape.Equal(shape))
}

func TestValue_Tuple(t *testing.T) {
	a := abstract.Scalar(int64(1), true)
	b := abstract.Array(abstract.Shape{abstract.Fixed(3)})
	tup := abstract.Tuple(a, b)
	require.Equal(t, abstract.KindTuple, tup.Kind)
	require.Len(t, tup.Elements, 2)
}

func TestValue_List(t *testing.T) {
	elem := abstract.Scalar(nil, false)
	lst := abstract.List(elem)
	require.Equal(t, abstract.KindList, lst.Kind)
	require.Len(t, lst.Elements, 1)
}

func TestValue_Class(t *testing.T) {
	v := abstract.Class("Point")
	require.Equal(t, abstract.KindClass, v.Kind)
	require.Equal(t, "Point", v.Class)
}

func TestValue_Function(t *testing.T) {
	v := abstract.Function()
	require.Equal(t, abstract.KindFunction, v.Kind)
}

func TestValue_Broaden_ErasesLiteral(t *testing.T) {
	v := abstract.Scalar(int64(42), true)
	b := v.Broaden()
	require.False(t, b.HasLiteral)
	require.Nil(t, b.Literal)
	// original untouched
	require.True(t, v.HasLiteral)
}

func TestValue_Broaden_RecursesIntoElements(t *testing.T) {
	inner := abstract.Scalar(int64(9), true)
	tup := abstract.Tuple(inner, inner)
	b := tup.Broaden()
	require.Len(t, b.Elements, 2)
	for _, e := range b.Elements {
		require.False(t, e.HasLiteral)
	}
	// original untouched
	require.True(t, tup.Elements[0].HasLiteral)
}
