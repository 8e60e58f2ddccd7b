package search_test

import (
	"context"
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGame(t *testing.T, position string) *board.Game {
	t.Helper()

	pos, turn, noprogress, fullmove, err := fen.Decode(position)
	require.NoError(t, err)

	zt := board.NewZobristTable(7)
	return board.NewGame(zt, pos, turn, noprogress, fullmove)
}

func TestAlphaBeta_FindsMateInOne(t *testing.T) {
	// White to move, mate in one: the rook on a1 delivers a back-rank mate by sliding to a8
	// against a king boxed in by its own pawns.
	g := mustGame(t, "6k1/5ppp/8/8/8/8/8/R6K w - - 0 1")

	root := search.AlphaBeta{Eval: eval.Material{}}
	sctx := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: search.NoTranspositionTable{}}

	_, score, pv, err := root.Search(context.Background(), sctx, g, 2)
	require.NoError(t, err)
	require.NotEmpty(t, pv)

	assert.True(t, score.IsMateScore())
	assert.True(t, score > 0)

	m := pv[0]
	assert.Equal(t, board.A1, m.From)
	assert.Equal(t, board.A8, m.To)
}

func TestAlphaBeta_AvoidsLosingMaterialForFree(t *testing.T) {
	// White can win the undefended black rook with Rxa8; if White does not take, the black
	// rook can take on a1 instead. The search should prefer the capture.
	g := mustGame(t, "r6k/8/8/8/8/8/8/R6K w - - 0 1")

	root := search.AlphaBeta{Eval: eval.Material{}}
	sctx := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: search.NoTranspositionTable{}}

	_, _, pv, err := root.Search(context.Background(), sctx, g, 3)
	require.NoError(t, err)
	require.NotEmpty(t, pv)

	assert.Equal(t, board.A1, pv[0].From)
	assert.Equal(t, board.A8, pv[0].To)
	assert.Equal(t, board.Capture, pv[0].Type)
}

func TestAlphaBeta_DrawnPositionScoresZero(t *testing.T) {
	g := mustGame(t, "4k3/8/8/8/8/8/8/4K3 w - - 0 1") // bare kings: insufficient material

	root := search.AlphaBeta{Eval: eval.Material{}}
	sctx := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: search.NoTranspositionTable{}}

	_, score, _, err := root.Search(context.Background(), sctx, g, 2)
	require.NoError(t, err)
	assert.Equal(t, board.DrawScore, score)
}

func TestAlphaBeta_RespectsTranspositionTable(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<20)

	g := mustGame(t, fen.Initial)
	root := search.AlphaBeta{Eval: eval.Material{}}
	sctx := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: tt}

	_, score1, _, err := root.Search(ctx, sctx, g, 3)
	require.NoError(t, err)

	// Re-run at the same depth: the table should now be populated and the score must agree.
	_, score2, _, err := root.Search(ctx, sctx, g, 3)
	require.NoError(t, err)
	assert.Equal(t, score1, score2)
	assert.Greater(t, tt.Used(), 0.0)
}
