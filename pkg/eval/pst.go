package eval

import "github.com/herohde/morlock/pkg/board"

// Piece-square tables add positional value on top of material. Each raw table below is
// written in the conventional publication layout: rank 8 first, file a through h, White's
// point of view. init() transposes each into a [64]board.Score indexed by our a1=0..h8=63
// square numbering, and mirrors it vertically for Black.

var rawPawnPST = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var rawKnightPST = [64]int32{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var rawBishopPST = [64]int32{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rawRookPST = [64]int32{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var rawQueenPST = [64]int32{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

var rawKingMiddlegamePST = [64]int32{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var rawKingEndgamePST = [64]int32{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

var (
	whitePawnPST, blackPawnPST                     [64]board.Score
	whiteKnightPST, blackKnightPST                  [64]board.Score
	whiteBishopPST, blackBishopPST                  [64]board.Score
	whiteRookPST, blackRookPST                      [64]board.Score
	whiteQueenPST, blackQueenPST                    [64]board.Score
	whiteKingMiddlegamePST, blackKingMiddlegamePST   [64]board.Score
	whiteKingEndgamePST, blackKingEndgamePST         [64]board.Score
)

func init() {
	transpose(rawPawnPST, &whitePawnPST, &blackPawnPST)
	transpose(rawKnightPST, &whiteKnightPST, &blackKnightPST)
	transpose(rawBishopPST, &whiteBishopPST, &blackBishopPST)
	transpose(rawRookPST, &whiteRookPST, &blackRookPST)
	transpose(rawQueenPST, &whiteQueenPST, &blackQueenPST)
	transpose(rawKingMiddlegamePST, &whiteKingMiddlegamePST, &blackKingMiddlegamePST)
	transpose(rawKingEndgamePST, &whiteKingEndgamePST, &blackKingEndgamePST)
}

// transpose converts a rank8-first publication table into white/black square-indexed tables.
func transpose(raw [64]int32, white, black *[64]board.Score) {
	for row := 0; row < 8; row++ { // row 0 = rank 8, row 7 = rank 1
		rank := board.Rank(7 - row)
		for file := 0; file < 8; file++ {
			v := board.Score(raw[row*8+file])

			sq := board.NewSquare(board.File(file), rank)
			white[sq] = v

			mirrored := board.NewSquare(board.File(file), board.Rank(7)-rank)
			black[mirrored] = v
		}
	}
}

func pst(c board.Color, piece board.Piece, sq board.Square, endgame bool) board.Score {
	switch piece {
	case board.Pawn:
		if c == board.White {
			return whitePawnPST[sq]
		}
		return blackPawnPST[sq]
	case board.Knight:
		if c == board.White {
			return whiteKnightPST[sq]
		}
		return blackKnightPST[sq]
	case board.Bishop:
		if c == board.White {
			return whiteBishopPST[sq]
		}
		return blackBishopPST[sq]
	case board.Rook:
		if c == board.White {
			return whiteRookPST[sq]
		}
		return blackRookPST[sq]
	case board.Queen:
		if c == board.White {
			return whiteQueenPST[sq]
		}
		return blackQueenPST[sq]
	case board.King:
		if endgame {
			if c == board.White {
				return whiteKingEndgamePST[sq]
			}
			return blackKingEndgamePST[sq]
		}
		if c == board.White {
			return whiteKingMiddlegamePST[sq]
		}
		return blackKingMiddlegamePST[sq]
	default:
		return 0
	}
}
