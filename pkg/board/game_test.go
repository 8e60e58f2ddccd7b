package board_test

import (
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T, position string) *board.Game {
	t.Helper()

	pos, turn, noprogress, fullmove, err := fen.Decode(position)
	require.NoError(t, err)

	zt := board.NewZobristTable(42)
	return board.NewGame(zt, pos, turn, noprogress, fullmove)
}

func push(t *testing.T, g *board.Game, move string) *board.Game {
	t.Helper()

	m, err := board.ParseMove(move)
	require.NoError(t, err)

	for _, candidate := range g.Position().PseudoLegalMoves(g.Turn()) {
		if candidate.Equals(m) {
			return g.Push(candidate)
		}
	}

	require.FailNow(t, "move not found", "move %v not legal in %v", move, g.Position())
	return nil
}

func TestGame_Hash_IsIncremental(t *testing.T) {
	g := newGame(t, fen.Initial)
	g2 := push(t, g, "e2e4")

	zt := board.NewZobristTable(42)
	want := zt.Hash(g2.Position(), g2.Turn())

	assert.Equal(t, want, g2.Hash())
}

func TestGame_IsThreefoldRepetition(t *testing.T) {
	g := newGame(t, fen.Initial)

	// Shuffle knights back and forth three times, returning to the starting position each
	// time: Ng1-f3 Ng8-f6 Nf3-g1 Nf6-g8, repeated.
	moves := []string{
		"g1f3", "g8f6", "f3g1", "f6g8",
		"g1f3", "g8f6", "f3g1", "f6g8",
	}

	assert.False(t, g.IsThreefoldRepetition())
	for _, m := range moves {
		g = push(t, g, m)
	}

	assert.True(t, g.IsThreefoldRepetition())
	assert.True(t, g.IsDrawn())
}

func TestGame_IsFiftyMoveDraw(t *testing.T) {
	// A position with only kings and a lone white bishop shuffling: no captures or pawn
	// moves are possible, so the no-progress counter climbs every ply.
	g := newGame(t, "4k3/8/8/8/8/8/8/4K1B1 w - - 0 1")

	for i := 0; i < 100; i++ {
		assert.False(t, g.IsFiftyMoveDraw(), "ply %v", i)

		var m string
		if g.Turn() == board.White {
			if i%4 < 2 {
				m = "g1f2"
			} else {
				m = "f2g1"
			}
		} else {
			if i%4 < 2 {
				m = "e8d8"
			} else {
				m = "d8e8"
			}
		}
		g = push(t, g, m)
	}

	assert.True(t, g.IsFiftyMoveDraw())
	assert.True(t, g.IsDrawn())
}

func TestGame_Push_ResetsNoProgressOnCaptureOrPawnMove(t *testing.T) {
	g := newGame(t, fen.Initial)
	g = push(t, g, "e2e4")
	assert.Equal(t, 0, g.NoProgressCount())

	g = push(t, g, "g8f6")
	assert.Equal(t, 1, g.NoProgressCount())
}

func TestGame_Result_Checkmate(t *testing.T) {
	g := newGame(t, "4R1k1/5ppp/8/8/8/8/8/4K3 b - - 0 1")
	assert.Equal(t, board.WhiteWins, g.Result())
}

func TestGame_Result_Undecided(t *testing.T) {
	g := newGame(t, fen.Initial)
	assert.Equal(t, board.Undecided, g.Result())
}
