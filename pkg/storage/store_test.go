package storage

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"recipes-tsae/pkg/tsae"
)

var abc = []string{"A", "B", "C"}

func newStore(t *testing.T, id string) *Store {
	t.Helper()
	s, err := NewStore(id, "author-"+id, abc)
	require.NoError(t, err)
	return s
}

func TestNewStore_UnknownNode(t *testing.T) {
	_, err := NewStore("X", "x", abc)
	require.ErrorIs(t, err, ErrUnknownNode)
}

func TestStore_AddRecipe(t *testing.T) {
	s := newStore(t, "A")

	op, err := s.AddRecipe("Soup", "boil water")
	require.NoError(t, err)
	require.Equal(t, tsae.KindAdd, op.Kind)
	require.Equal(t, tsae.Timestamp{NodeID: "A", Seq: 0}, op.Timestamp)
	require.Equal(t, "author-A", op.Recipe.Author)

	got, ok := s.Recipe("Soup")
	require.True(t, ok)
	require.Equal(t, "boil water", got.Body)
	require.Equal(t, op.Timestamp, got.Timestamp)

	require.Equal(t, op.Timestamp, s.Summary().Last("A"))
	require.Len(t, s.LogOperations("A"), 1)
}

func TestStore_AddRecipe_EmptyTitle(t *testing.T) {
	s := newStore(t, "A")
	_, err := s.AddRecipe("", "body")
	require.ErrorIs(t, err, ErrEmptyTitle)
	require.True(t, s.Summary().Last("A").IsNull())
}

func TestStore_AddRecipe_Limits(t *testing.T) {
	tests := []struct {
		name  string
		title string
		body  string
		err   error
	}{
		{"title at limit", strings.Repeat("t", tsae.MaxTitleLen), "body", nil},
		{"title too long", strings.Repeat("t", tsae.MaxTitleLen+1), "body", ErrTitleTooLong},
		{"body at limit", "Soup", strings.Repeat("b", tsae.MaxBodyLen), nil},
		{"body too large", "Soup", strings.Repeat("b", tsae.MaxBodyLen+1), ErrBodyTooLarge},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t, "A")
			_, err := s.AddRecipe(tc.title, tc.body)
			if tc.err == nil {
				require.NoError(t, err)
				require.Equal(t, int64(0), s.Summary().Last("A").Seq)
				return
			}
			require.ErrorIs(t, err, tc.err)
			// refused before a timestamp was issued
			require.True(t, s.Summary().Last("A").IsNull())
			require.Empty(t, s.LogOperations("A"))

			op, err := s.AddRecipe("Soup", "boil water")
			require.NoError(t, err)
			require.Equal(t, int64(0), op.Timestamp.Seq)
		})
	}
}

func TestNewStore_LongIDs(t *testing.T) {
	long := strings.Repeat("n", tsae.MaxNodeIDLen+1)

	_, err := NewStore("A", long, abc)
	require.ErrorIs(t, err, ErrNodeIDTooLong)

	_, err = NewStore(long, "a", append([]string{long}, abc...))
	require.ErrorIs(t, err, ErrNodeIDTooLong)
}

func TestStore_AddRecipe_Overwrites(t *testing.T) {
	s := newStore(t, "A")
	_, err := s.AddRecipe("Soup", "v1")
	require.NoError(t, err)
	second, err := s.AddRecipe("Soup", "v2")
	require.NoError(t, err)

	got, ok := s.Recipe("Soup")
	require.True(t, ok)
	require.Equal(t, "v2", got.Body)
	require.Equal(t, second.Timestamp, got.Timestamp)
	require.Len(t, s.Recipes(), 1)
}

func TestStore_RemoveRecipe(t *testing.T) {
	s := newStore(t, "A")
	add, err := s.AddRecipe("Soup", "boil water")
	require.NoError(t, err)

	rm, err := s.RemoveRecipe("Soup")
	require.NoError(t, err)
	require.Equal(t, tsae.KindRemove, rm.Kind)
	require.Equal(t, "Soup", rm.Title)
	require.Equal(t, add.Timestamp, rm.RecipeTimestamp)
	require.Equal(t, int64(1), rm.Timestamp.Seq)

	_, ok := s.Recipe("Soup")
	require.False(t, ok)
	require.Len(t, s.LogOperations("A"), 2)
	require.Equal(t, rm.Timestamp, s.Summary().Last("A"))
}

func TestStore_RemoveRecipe_Missing(t *testing.T) {
	s := newStore(t, "A")
	_, err := s.RemoveRecipe("Nope")
	require.ErrorIs(t, err, ErrRecipeNotFound)
	require.True(t, s.Summary().Last("A").IsNull())
	require.Empty(t, s.LogOperations("A"))
}

func TestStore_ExecOperation(t *testing.T) {
	a := newStore(t, "A")
	b := newStore(t, "B")

	add, err := a.AddRecipe("Soup", "boil water")
	require.NoError(t, err)

	require.True(t, b.ExecOperation(add))
	require.False(t, b.ExecOperation(add), "duplicate must be ignored")

	require.Len(t, b.LogOperations("A"), 1)
	require.Len(t, b.Recipes(), 1)
	// summary is only advanced through UpdateSummary
	require.True(t, b.Summary().Last("A").IsNull())
}

func TestStore_ExecOperation_Rejects(t *testing.T) {
	s := newStore(t, "B")
	stamp := tsae.Timestamp{NodeID: "A", Seq: 0}

	tests := []struct {
		name string
		op   tsae.Operation
	}{
		{"add without recipe", tsae.Operation{Kind: tsae.KindAdd, Timestamp: stamp}},
		{"unknown kind", tsae.Operation{Kind: 9, Timestamp: stamp}},
		{"gap", tsae.NewAddOperation(tsae.Recipe{Title: "Soup", Timestamp: stamp}, tsae.Timestamp{NodeID: "A", Seq: 3})},
		{"unknown origin", tsae.NewAddOperation(tsae.Recipe{Title: "Soup"}, tsae.Timestamp{NodeID: "X", Seq: 0})},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.False(t, s.ExecOperation(tc.op))
			require.Empty(t, s.Recipes())
		})
	}
}

func TestStore_ExecOperation_Remove(t *testing.T) {
	a := newStore(t, "A")
	b := newStore(t, "B")

	add, err := a.AddRecipe("Soup", "boil water")
	require.NoError(t, err)
	rm, err := a.RemoveRecipe("Soup")
	require.NoError(t, err)

	require.True(t, b.ExecOperation(add))
	require.True(t, b.ExecOperation(rm))
	_, ok := b.Recipe("Soup")
	require.False(t, ok)
	require.Len(t, b.LogOperations("A"), 2)
}

func TestStore_UpdateAckAndPurge(t *testing.T) {
	a := newStore(t, "A")
	_, err := a.AddRecipe("Soup", "boil water")
	require.NoError(t, err)
	_, err = a.RemoveRecipe("Soup")
	require.NoError(t, err)

	// B and C have both seen A:0, A has seen A:1
	peer := tsae.NewMatrix(abc)
	seen := tsae.NewVector(abc)
	seen.UpdateTimestamp(tsae.Timestamp{NodeID: "A", Seq: 0})
	peer.Update("B", seen)
	peer.Update("C", seen.Clone())

	a.UpdateAck(peer)
	ack := a.Ack()
	require.Equal(t, int64(1), ack.Row("A").Last("A").Seq)
	require.Equal(t, int64(0), ack.Row("B").Last("A").Seq)

	a.PurgeLog()
	ops := a.LogOperations("A")
	require.Len(t, ops, 1)
	require.Equal(t, int64(1), ops[0].Timestamp.Seq)
	require.Equal(t, map[string]int{"A": 1, "B": 0, "C": 0}, a.LogSizes())
}

func TestStore_Exchange(t *testing.T) {
	a := newStore(t, "A")
	for i := 0; i < 3; i++ {
		_, err := a.AddRecipe(fmt.Sprintf("r%d", i), "")
		require.NoError(t, err)
	}

	peer := tsae.NewVector(abc)
	peer.UpdateTimestamp(tsae.Timestamp{NodeID: "A", Seq: 0})

	ops, summary, ack := a.Exchange(peer)
	require.Len(t, ops, 2)
	require.Equal(t, int64(2), summary.Last("A").Seq)
	require.NotNil(t, ack.Row("A"))

	// returned copies are detached from the store
	summary.UpdateTimestamp(tsae.Timestamp{NodeID: "B", Seq: 5})
	require.True(t, a.Summary().Last("B").IsNull())
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := newStore(t, "A")

	const writers, perWriter = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				if _, err := s.AddRecipe(fmt.Sprintf("w%d-%d", w, i), "x"); err != nil {
					t.Error(err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	ops := s.LogOperations("A")
	require.Len(t, ops, writers*perWriter)
	for i, op := range ops {
		require.Equal(t, int64(i), op.Timestamp.Seq)
	}
	require.Equal(t, int64(writers*perWriter-1), s.Summary().Last("A").Seq)
	require.Len(t, s.Recipes(), writers*perWriter)
}
