package storage

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"recipes-tsae/pkg/tsae"
)

func recipe(title string, seq int64) (tsae.Recipe, tsae.Timestamp) {
	stamp := tsae.Timestamp{NodeID: "A", Seq: seq}
	return tsae.Recipe{Title: title, Body: "body " + title, Author: "a", Timestamp: stamp}, stamp
}

func TestEngine_PutGetDelete(t *testing.T) {
	e := NewEngine(4)

	r, stamp := recipe("Soup", 0)
	e.Put(r, stamp)

	entry, ok := e.Get("Soup")
	require.True(t, ok)
	require.Equal(t, r, entry.Recipe)
	require.Equal(t, stamp, entry.LastUpdated)
	require.Equal(t, 1, e.Len())

	// Get returns a copy
	entry.Recipe.Body = "changed"
	again, _ := e.Get("Soup")
	require.Equal(t, "body Soup", again.Recipe.Body)

	require.True(t, e.Delete("Soup"))
	require.False(t, e.Delete("Soup"))
	require.Equal(t, 0, e.Len())
	_, ok = e.Get("Soup")
	require.False(t, ok)
}

func TestEngine_ShardCountRoundedUp(t *testing.T) {
	tests := []struct {
		initial, want int
	}{
		{0, 64},
		{-3, 64},
		{1, 1},
		{3, 4},
		{16, 16},
		{17, 32},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.initial), func(t *testing.T) {
			e := NewEngine(tc.initial)
			require.Len(t, e.table.Load().shards, tc.want)
		})
	}
}

func TestEngine_Grow(t *testing.T) {
	e := NewEngine(2)
	e.threshold = 3

	for i := 0; i < 20; i++ {
		r, stamp := recipe(fmt.Sprintf("r%02d", i), int64(i))
		e.Put(r, stamp)
	}

	require.Greater(t, len(e.table.Load().shards), 2)
	require.Equal(t, 20, e.Len())
	for i := 0; i < 20; i++ {
		_, ok := e.Get(fmt.Sprintf("r%02d", i))
		require.True(t, ok)
	}
}

func TestEngine_TitlesSorted(t *testing.T) {
	e := NewEngine(8)
	for i, title := range []string{"Tart", "Apple pie", "Soup", "Bread"} {
		r, stamp := recipe(title, int64(i))
		e.Put(r, stamp)
	}
	require.Equal(t, []string{"Apple pie", "Bread", "Soup", "Tart"}, e.Titles())

	recipes := e.Recipes()
	require.Len(t, recipes, 4)
	require.Equal(t, "Apple pie", recipes[0].Title)
}
