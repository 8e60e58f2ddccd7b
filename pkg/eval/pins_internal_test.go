package eval

import (
	"testing"

	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScorePins_PenalizesPinnedSide(t *testing.T) {
	// White's bishop on e2 is pinned to its own king by a black rook on e8.
	pinned, _, _, _, err := fen.Decode("4r2k/8/8/8/8/8/4B3/4K2R w - - 0 1")
	require.NoError(t, err)

	// Same pieces, but the black rook is on h8 (and the black king on f8), off the e-file:
	// the bishop is no longer pinned.
	unpinned, _, _, _, err := fen.Decode("5k1r/8/8/8/8/8/4B3/4K2R w - - 0 1")
	require.NoError(t, err)

	assert.Less(t, scorePins(pinned), scorePins(unpinned))
	assert.Equal(t, pinPenalty, scorePins(unpinned)-scorePins(pinned))
}
