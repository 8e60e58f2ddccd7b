package eval_test

import (
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPins_RookPinsBishopToKing(t *testing.T) {
	const setup = "k3r3/8/8/8/8/8/4B3/4K3 w - - 0 1"

	pos, _, _, _, err := fen.Decode(setup)
	require.NoError(t, err)

	pins := eval.FindPins(pos, board.White, board.King)
	require.Len(t, pins, 1)
	assert.Equal(t, board.E2, pins[0].Pinned)
	assert.Equal(t, board.E8, pins[0].Attacker)
	assert.Equal(t, board.E1, pins[0].Target)
}

func TestFindPins_BishopPinsKnightToKing(t *testing.T) {
	const setup = "7k/8/8/8/4b3/8/2N5/1K6 w - - 0 1"

	pos, _, _, _, err := fen.Decode(setup)
	require.NoError(t, err)

	pins := eval.FindPins(pos, board.White, board.King)
	require.Len(t, pins, 1)
	assert.Equal(t, board.C2, pins[0].Pinned)
	assert.Equal(t, board.E4, pins[0].Attacker)
	assert.Equal(t, board.B1, pins[0].Target)
}

func TestFindPins_NoPinWhenNoBlocker(t *testing.T) {
	const setup = "k3r3/8/8/8/8/8/8/4K3 w - - 0 1"

	pos, _, _, _, err := fen.Decode(setup)
	require.NoError(t, err)

	assert.Empty(t, eval.FindPins(pos, board.White, board.King))
}
