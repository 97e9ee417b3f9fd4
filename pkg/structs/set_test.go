package structs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSorted(t *testing.T) {
	s := NewSet("C", "A", "B", "A")
	require.Equal(t, []string{"A", "B", "C"}, Sorted(s))
	require.Empty(t, Sorted(NewSet[int]()))
}

func TestSetOperations(t *testing.T) {
	a := NewSet(1, 2, 3)
	b := NewSet(2, 3, 4)

	require.ElementsMatch(t, []int{1, 2, 3}, a.Slice())
	require.False(t, b.Contains(1))

	clone := a.Clone()
	clone.Remove(1)
	require.True(t, a.Contains(1))
	require.Equal(t, 2, clone.Size())
}
