package eval

import "github.com/herohde/morlock/pkg/board"

// Pin represents a pinned piece: Pinned sits between Target and Attacker on a single
// rank/file/diagonal, so moving Pinned off that line would expose Target to capture.
type Pin struct {
	Attacker, Pinned, Target board.Square
}

// FindPins returns all pins against side's pieces of the given type (typically the king,
// to find absolute pins, or a high-value piece to find relative pins worth penalizing).
func FindPins(pos board.Position, side board.Color, piece board.Piece) []Pin {
	var ret []Pin

	occ := pos.All()
	own := pos.Occupied(side)

	bb := pos.Piece(side, piece)
	for bb != 0 {
		target := bb.LastPopSquare()
		bb &^= board.BitMask(target)

		// Rook/Queen pins: the nearest own piece on a rank/file ray from target is a pin
		// candidate iff removing it exposes an enemy rook or queen on the same ray.

		rookRay := board.RookAttacks(target, occ)
		candidates := rookRay & own
		for candidates != 0 {
			pinned := candidates.LastPopSquare()
			candidates &^= board.BitMask(pinned)

			attackers := pos.Piece(side.Opponent(), board.Queen) | pos.Piece(side.Opponent(), board.Rook)
			behind := board.RookAttacks(target, occ&^board.BitMask(pinned)) &^ rookRay & attackers
			if behind != 0 {
				ret = append(ret, Pin{Attacker: behind.LastPopSquare(), Pinned: pinned, Target: target})
			}
		}

		// Bishop/Queen pins: same idea along diagonals.

		bishopRay := board.BishopAttacks(target, occ)
		candidates = bishopRay & own
		for candidates != 0 {
			pinned := candidates.LastPopSquare()
			candidates &^= board.BitMask(pinned)

			attackers := pos.Piece(side.Opponent(), board.Queen) | pos.Piece(side.Opponent(), board.Bishop)
			behind := board.BishopAttacks(target, occ&^board.BitMask(pinned)) &^ bishopRay & attackers
			if behind != 0 {
				ret = append(ret, Pin{Attacker: behind.LastPopSquare(), Pinned: pinned, Target: target})
			}
		}
	}

	return ret
}
