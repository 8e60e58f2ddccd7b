package eval

import (
	"sort"

	"github.com/herohde/morlock/pkg/board"
)

// FindCapture returns the placements of the given color's pieces that directly attack sq.
func FindCapture(pos board.Position, side board.Color, sq board.Square) []board.Placement {
	var ret []board.Placement

	occ := pos.All()
	for _, piece := range board.KingQueenRookBishopKnight {
		bb := board.Attackboard(occ, sq, piece) & pos.Piece(side, piece)
		for _, from := range bb.ToSquares() {
			ret = append(ret, board.Placement{Piece: piece, Color: side, Square: from})
		}
	}

	bb := board.PawnCaptureboard(side.Opponent() /* reverse direction */, board.BitMask(sq))
	for _, from := range (bb & pos.Piece(side, board.Pawn)).ToSquares() {
		ret = append(ret, board.Placement{Piece: board.Pawn, Color: side, Square: from})
	}

	return ret
}

// SortByNominalValue orders the placement list by nominal material value, low to high, so
// the least valuable attacker/defender is considered first (MVV-LVA move ordering).
func SortByNominalValue(pieces []board.Placement) []board.Placement {
	sort.SliceStable(pieces, func(i, j int) bool {
		return NominalValue(pieces[i].Piece) < NominalValue(pieces[j].Piece)
	})
	return pieces
}
