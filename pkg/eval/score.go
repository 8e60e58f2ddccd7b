package eval

import "github.com/herohde/morlock/pkg/board"

// NominalValue is the standalone centipawn value of a piece type, used both for static
// material evaluation and as the attacker/victim weight in MVV-LVA move ordering. The King's
// value is set far above any material combination so it never gets chosen as the "better"
// side of a trade, and sorts last among candidate attackers.
func NominalValue(p board.Piece) board.Score {
	switch p {
	case board.Pawn:
		return 100
	case board.Knight:
		return 320
	case board.Bishop:
		return 330
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	case board.King:
		return 20000
	default:
		return 0
	}
}

// NominalValueGain is the nominal material gain of playing m, ignoring any follow-up
// recapture. Used to order captures before quiet moves during search.
func NominalValueGain(m board.Move) board.Score {
	switch m.Type {
	case board.CapturePromotion:
		return NominalValue(m.Capture) + NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Promotion:
		return NominalValue(m.Promotion) - NominalValue(board.Pawn)
	case board.Capture:
		return NominalValue(m.Capture)
	case board.EnPassant:
		return NominalValue(board.Pawn)
	default:
		return 0
	}
}

// IncrementMateDistance adjusts a mate score one ply further away from the position it was
// computed at, so that a shallower mate always scores strictly better than a deeper one with
// the same sign. Scores that are not mate scores pass through unchanged.
func IncrementMateDistance(s board.Score) board.Score {
	switch {
	case s > board.Mate-1000:
		return s - 1
	case s < -(board.Mate - 1000):
		return s + 1
	default:
		return s
	}
}
