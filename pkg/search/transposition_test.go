package search_test

import (
	"context"
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranspositionTable_ReadWrite(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<20)

	move := board.Move{From: board.E2, To: board.E4}
	ok := tt.Write(1234, search.ExactBound, 5, 42, move)
	require.True(t, ok)

	bound, depth, score, best, found := tt.Read(1234)
	require.True(t, found)
	assert.Equal(t, search.ExactBound, bound)
	assert.Equal(t, 5, depth)
	assert.Equal(t, board.Score(42), score)
	assert.True(t, best.Equals(move))
}

func TestTranspositionTable_Miss(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<20)

	_, _, _, _, found := tt.Read(999)
	assert.False(t, found)
}

func TestTranspositionTable_SameKeyAlwaysReplaced(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<20)

	move := board.Move{From: board.E2, To: board.E4}
	require.True(t, tt.Write(1, search.ExactBound, 3, 10, move))

	// Same hash: always replaced regardless of depth.
	assert.True(t, tt.Write(1, search.ExactBound, 1, 20, move))
	_, depth, score, _, _ := tt.Read(1)
	assert.Equal(t, 1, depth)
	assert.Equal(t, board.Score(20), score)
}

func TestTranspositionTable_NewGenerationAllowsReplacement(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<20)

	// Fabricate a collision in a 64-byte table: it has two slots, and hashes 1 and 3 share one.
	tiny := search.NewTranspositionTable(ctx, 64)

	move := board.Move{From: board.E2, To: board.E4}
	require.True(t, tiny.Write(1, search.ExactBound, 5, 10, move))

	// A shallower write to a different hash colliding into the same slot is rejected
	// within the same generation...
	assert.False(t, tiny.Write(3, search.ExactBound, 1, 20, move))

	// ...but accepted once the generation has advanced.
	tiny.NewGeneration()
	assert.True(t, tiny.Write(3, search.ExactBound, 1, 20, move))

	_ = tt
}

func TestTranspositionTable_Clear(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<20)

	move := board.Move{From: board.E2, To: board.E4}
	require.True(t, tt.Write(1, search.ExactBound, 5, 10, move))
	assert.Greater(t, tt.Used(), 0.0)

	tt.Clear()
	assert.Equal(t, 0.0, tt.Used())
	_, _, _, _, found := tt.Read(1)
	assert.False(t, found)
}

func TestNoTranspositionTable(t *testing.T) {
	var tt search.NoTranspositionTable

	assert.False(t, tt.Write(1, search.ExactBound, 5, 10, board.Move{}))
	_, _, _, _, found := tt.Read(1)
	assert.False(t, found)
	assert.Equal(t, uint64(0), tt.Size())
}
