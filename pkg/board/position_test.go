package board_test

import (
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// perft counts the number of leaf positions reachable after the given number of plies,
// filtering pseudo-legal moves down to legal ones by simulating each and checking the
// mover's own king is not left in check.
func perft(pos board.Position, turn board.Color, depth int) int64 {
	if depth == 0 {
		return 1
	}

	var nodes int64
	for _, m := range pos.PseudoLegalMoves(turn) {
		next := pos.AfterMove(turn, m)
		if next.IsChecked(turn) {
			continue
		}
		nodes += perft(next, turn.Opponent(), depth-1)
	}
	return nodes
}

func TestPosition_Perft(t *testing.T) {
	pos, turn, _, _, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, perft(pos, turn, tt.depth), "depth %v", tt.depth)
	}
}

func TestPosition_Perft_Kiwipete(t *testing.T) {
	// The "Kiwipete" position: a standard perft stress test exercising castling, en
	// passant and promotions together.
	const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

	pos, turn, _, _, err := fen.Decode(kiwipete)
	require.NoError(t, err)

	assert.Equal(t, int64(48), perft(pos, turn, 1))
	assert.Equal(t, int64(2039), perft(pos, turn, 2))
}

func TestPosition_LegalMoves_ExcludesSelfCheck(t *testing.T) {
	// White bishop on e2 is pinned to the king along the e-file by a black rook on e8: every
	// pseudo-legal diagonal move it has breaks the pin and must be filtered out.
	const pinned = "k3r3/8/8/8/8/8/4B3/4K3 w - - 0 1"

	pos, turn, _, _, err := fen.Decode(pinned)
	require.NoError(t, err)
	require.False(t, pos.IsChecked(turn))

	for _, m := range pos.LegalMoves(turn) {
		assert.NotEqual(t, board.E2, m.From, "pinned bishop has no legal move")
	}
	for _, m := range pos.PseudoLegalMoves(turn) {
		if m.From != board.E2 {
			continue
		}
		next := pos.AfterMove(turn, m)
		assert.True(t, next.IsChecked(turn), "move %v should expose the king", m)
	}
}

func TestPosition_AnyLegalMoves_Checkmate(t *testing.T) {
	// Back-rank mate: black king boxed in by its own pawns, checked along the back rank
	// with no legal reply.
	const mated = "4R1k1/5ppp/8/8/8/8/8/4K3 b - - 0 1"

	pos, turn, _, _, err := fen.Decode(mated)
	require.NoError(t, err)

	require.True(t, pos.IsChecked(turn))
	assert.False(t, pos.AnyLegalMoves(turn))
}

func TestPosition_CastlingMoves_BlockedByAttackedSquare(t *testing.T) {
	// White to castle kingside, but g1 (on the king's path) is attacked by a black rook on
	// g8: castling through an attacked square is illegal, though the king itself is not in
	// check.
	const blocked = "4k1r1/8/8/8/8/8/8/4K2R w K - 0 1"

	pos, turn, _, _, err := fen.Decode(blocked)
	require.NoError(t, err)
	require.False(t, pos.IsChecked(turn))

	for _, m := range pos.PseudoLegalMoves(turn) {
		assert.NotEqual(t, board.KingSideCastle, m.Type)
	}
}

func TestPosition_EnPassant(t *testing.T) {
	// White just pushed e2-e4; black's d4 pawn may capture en passant onto e3.
	const ep = "4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1"

	pos, turn, _, _, err := fen.Decode(ep)
	require.NoError(t, err)

	found := false
	for _, m := range pos.PseudoLegalMoves(turn) {
		if m.Type == board.EnPassant {
			found = true
			assert.Equal(t, board.E3, m.To)
			assert.Equal(t, board.Pawn, m.Capture)
		}
	}
	assert.True(t, found, "en passant capture not generated")
}

func TestPosition_HasInsufficientMaterial(t *testing.T) {
	tests := []struct {
		pos      string
		expected bool
	}{
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", true},     // bare kings
		{"4k3/8/8/8/8/8/8/4K1N1 w - - 0 1", true},   // king + knight vs king
		{"4k3/8/8/8/8/8/8/4K1B1 w - - 0 1", true},   // king + bishop vs king
		{"4k3/8/8/8/8/8/8/R3K3 w - - 0 1", false},   // king + rook vs king: mating
		{"4k3/8/8/8/8/8/8/4K1Q1 w - - 0 1", false},  // king + queen vs king: mating
		{"4k3/8/8/8/8/8/8/3BK1B1 w - - 0 1", false}, // two same-side bishops: mating
	}

	for _, tt := range tests {
		pos, _, _, _, err := fen.Decode(tt.pos)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, pos.HasInsufficientMaterial(), tt.pos)
	}
}

func TestPosition_AfterMove_Promotion(t *testing.T) {
	const ready = "4k3/P7/8/8/8/8/8/4K3 w - - 0 1"

	pos, turn, _, _, err := fen.Decode(ready)
	require.NoError(t, err)

	m := board.Move{Type: board.Promotion, From: board.A7, To: board.A8, Promotion: board.Queen}
	next := pos.AfterMove(turn, m)

	_, piece, ok := next.Square(board.A8)
	require.True(t, ok)
	assert.Equal(t, board.Queen, piece)
	assert.True(t, next.IsEmpty(board.A7))
}
