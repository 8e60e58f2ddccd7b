package search

import (
	"context"
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiescenceGame(t *testing.T, position string) *board.Game {
	t.Helper()

	pos, turn, noprogress, fullmove, err := fen.Decode(position)
	require.NoError(t, err)

	zt := board.NewZobristTable(99)
	return board.NewGame(zt, pos, turn, noprogress, fullmove)
}

func TestQuiescence_StandPatAboveBetaCutsOffImmediately(t *testing.T) {
	g := quiescenceGame(t, fen.Initial)

	score := quiescence(context.Background(), eval.Material{}, g, board.MinScore, board.MinScore+1)
	assert.True(t, score >= board.MinScore+1)
}

func TestQuiescence_TakesHangingQueen(t *testing.T) {
	// White queen on d4 hangs to a black rook on d8; a quiescence search from white's point
	// of view should not improve on stand-pat since white isn't on move, but from black's
	// point of view (to move) it should find the free capture favors black.
	g := quiescenceGame(t, "3rk3/8/8/8/3Q4/8/8/4K3 b - - 0 1")

	score := quiescence(context.Background(), eval.Material{}, g, board.MinScore, board.MaxScore)
	assert.Greater(t, score, board.Score(0)) // favors the side to move, having won the queen
}

func TestQuiescence_QuietPositionReturnsStandPat(t *testing.T) {
	g := quiescenceGame(t, fen.Initial)

	standPat := eval.Material{}.Evaluate(context.Background(), g)
	score := quiescence(context.Background(), eval.Material{}, g, board.MinScore, board.MaxScore)
	assert.Equal(t, standPat, score)
}
