package glue_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradforge/gradforge/glue"
)

func TestGradGroup_SplitsAtNargsClosure(t *testing.T) {
	grads := []string{"g1", "g2", "g3", "g4"}
	closure, rest := glue.GradGroup(grads, 2)
	require.Equal(t, []string{"g1", "g2"}, closure)
	require.Equal(t, []string{"g3", "g4"}, rest)
}

func TestGradGroup_ZeroClosureArgs(t *testing.T) {
	grads := []int{1, 2, 3}
	closure, rest := glue.GradGroup(grads, 0)
	require.Empty(t, closure)
	require.Equal(t, []int{1, 2, 3}, rest)
}

func TestGradGroup_AllClosureArgs(t *testing.T) {
	grads := []int{1, 2, 3}
	closure, rest := glue.GradGroup(grads, 3)
	require.Equal(t, []int{1, 2, 3}, closure)
	require.Empty(t, rest)
}

func TestGradGroup_PanicsOutOfRange(t *testing.T) {
	require.Panics(t, func() {
		glue.GradGroup([]int{1, 2}, 3)
	})
	require.Panics(t, func() {
		glue.GradGroup([]int{1, 2}, -1)
	})
}

func TestGradGroup_ResultsAreIndependentCopies(t *testing.T) {
	grads := []int{1, 2, 3, 4}
	closure, rest := glue.GradGroup(grads, 2)
	closure[0] = 99
	rest[0] = 99
	require.Equal(t, []int{1, 2, 3, 4}, grads)
}
