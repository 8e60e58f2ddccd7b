// Package fen contains utilities for read and writing positions in FEN notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/herohde/morlock/pkg/board"
)

const (
	Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// Decode returns a new position and game status from a FEN description.
//
// Example:
//
//	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(s string) (board.Position, board.Color, int, int, error) {
	// A FEN record contains six fields. The separator between fields is a space.

	parts := strings.Split(strings.TrimSpace(s), " ")
	if len(parts) != 6 {
		return board.Position{}, 0, 0, 0, fmt.Errorf("invalid number of sections in FEN: '%v'", s)
	}

	// (1) Piece placement (from white's perspective). Each rank is described,
	// starting with rank 8 and ending with rank 1; within each rank, the
	// contents of each square are described from file a through file h.

	var pieces []board.Placement

	rank, file := board.Rank8, board.FileA
	count := 0
	for _, r := range []rune(parts[0]) {
		switch {
		case r == '/':
			if file != board.NumFiles {
				return board.Position{}, 0, 0, 0, fmt.Errorf("invalid rank length in FEN: '%v'", s)
			}
			if rank == board.Rank1 {
				return board.Position{}, 0, 0, 0, fmt.Errorf("unexpected rank separator in FEN: '%v'", s)
			}
			rank--
			file = board.FileA

		case unicode.IsDigit(r):
			// Blank squares are noted using digits 1 through 8 (the number of blank squares).

			file += board.File(r - '0')

		case unicode.IsLetter(r):
			// Following the Standard Algebraic Notation (SAN), each piece is
			// identified by a single letter taken from the standard English names
			// (pawn = "P", knight = "N", bishop = "B", rook = "R", queen = "Q" and
			// king = "K"). White pieces are designated using upper-case letters
			// ("PNBRQK") while Black take lowercase ("pnbrqk").

			if file >= board.NumFiles {
				return board.Position{}, 0, 0, 0, fmt.Errorf("invalid number of squares in FEN: '%v'", s)
			}

			color, piece, ok := parsePiece(r)
			if !ok {
				return board.Position{}, 0, 0, 0, fmt.Errorf("invalid piece '%v' in FEN: '%v'", r, s)
			}
			pieces = append(pieces, board.Placement{Square: board.NewSquare(file, rank), Color: color, Piece: piece})
			file++
			count++

		default:
			return board.Position{}, 0, 0, 0, fmt.Errorf("invalid character in FEN: '%v'", s)
		}
	}
	if file != board.NumFiles || rank != board.Rank1 {
		return board.Position{}, 0, 0, 0, fmt.Errorf("invalid number of ranks in FEN: '%v'", s)
	}

	// (2) Active color. "w" means white moves next, "b" means black.

	active, ok := parseColor(parts[1])
	if !ok {
		return board.Position{}, 0, 0, 0, fmt.Errorf("invalid active color in FEN: '%v'", s)
	}

	// (3) Castling availability. If neither side can castle, this is
	// "-". Otherwise, this has one or more letters: "K" (White can castle
	// kingside), "Q" (White can castle queenside), "k" (Black can castle
	// kingside), and/or "q" (Black can castle queenside).

	castling, ok := parseCastling(parts[2])
	if !ok {
		return board.Position{}, 0, 0, 0, fmt.Errorf("invalid castling in FEN: '%v'", s)
	}

	// (4) En passant target square in algebraic notation. If there's no en
	// passant target square, this is "-". If a pawn has just made a
	// 2-square move, this is the position "behind" the pawn.

	var ep board.Square
	hasEP := false
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return board.Position{}, 0, 0, 0, fmt.Errorf("invalid en passant in FEN: '%v'", s)
		}
		ep, hasEP = sq, true
	}

	// (5) Halfmove clock: This is the number of halfmoves since the last pawn
	// advance or capture. This is used to determine if a draw can be
	// claimed under the fifty move rule.

	np, err := strconv.Atoi(parts[4])
	if err != nil || np < 0 {
		return board.Position{}, 0, 0, 0, fmt.Errorf("invalid halfmove in FEN: '%v'", s)
	}

	// (6) Fullmove number: The number of the full move. It starts at 1, and is
	// incremented after Black's move.

	fm, err := strconv.Atoi(parts[5])
	if err != nil || fm < 0 {
		return board.Position{}, 0, 0, 0, fmt.Errorf("invalid full moves in FEN: '%v'", s)
	}

	pos, err := board.NewPosition(pieces, castling, ep, hasEP)
	if err != nil {
		return board.Position{}, 0, 0, 0, fmt.Errorf("invalid position in FEN: '%v': %w", s, err)
	}
	return pos, active, np, fm, nil
}

// Encode encodes the position and game data in FEN notation.
func Encode(pos board.Position, c board.Color, noprogress, fullmoves int) string {
	var sb strings.Builder
	for r := int(board.NumRanks) - 1; r >= 0; r-- {
		blanks := 0
		for f := 0; f < int(board.NumFiles); f++ {
			color, piece, ok := pos.Square(board.NewSquare(board.File(f), board.Rank(r)))
			if !ok {
				blanks++
				continue
			}

			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}

			sb.WriteRune(printPiece(color, piece))
		}

		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}

		if r > 0 {
			sb.WriteString("/")
		}
	}

	turn := printColor(c)
	castling := printCastling(pos.Castling())

	ep := "-"
	if sq, ok := pos.EnPassant(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), turn, castling, ep, noprogress, fullmoves)
}

// Strip returns the piece-placement, active-color and castling fields of a FEN string,
// dropping en passant, halfmove and fullmove. Positions that are otherwise identical but
// reached via different move orders, or differing only in their draw-rule counters, key the
// same opening-book/hash lookup this way.
func Strip(s string) string {
	parts := strings.SplitN(strings.TrimSpace(s), " ", 5)
	if len(parts) < 3 {
		return s
	}
	return strings.Join(parts[:3], " ")
}

func parseCastling(str string) (board.Castling, bool) {
	var ret board.Castling

	if str == "-" {
		return ret, true
	}
	for _, r := range []rune(str) {
		switch r {
		case 'K':
			ret |= board.WhiteKingSideCastle
		case 'Q':
			ret |= board.WhiteQueenSideCastle
		case 'k':
			ret |= board.BlackKingSideCastle
		case 'q':
			ret |= board.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return ret, true
}

func printCastling(c board.Castling) string {
	if c == 0 {
		return "-"
	}

	ret := ""
	if c.IsAllowed(board.WhiteKingSideCastle) {
		ret += "K"
	}
	if c.IsAllowed(board.WhiteQueenSideCastle) {
		ret += "Q"
	}
	if c.IsAllowed(board.BlackKingSideCastle) {
		ret += "k"
	}
	if c.IsAllowed(board.BlackQueenSideCastle) {
		ret += "q"
	}
	return ret
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "w", "W":
		return board.White, true
	case "b", "B":
		return board.Black, true
	default:
		return 0, false
	}
}

func printColor(c board.Color) string {
	if c == board.White {
		return "w"
	}
	return "b"
}

func parsePiece(r rune) (board.Color, board.Piece, bool) {
	switch r {
	case 'P':
		return board.White, board.Pawn, true
	case 'B':
		return board.White, board.Bishop, true
	case 'N':
		return board.White, board.Knight, true
	case 'R':
		return board.White, board.Rook, true
	case 'Q':
		return board.White, board.Queen, true
	case 'K':
		return board.White, board.King, true

	case 'p':
		return board.Black, board.Pawn, true
	case 'b':
		return board.Black, board.Bishop, true
	case 'n':
		return board.Black, board.Knight, true
	case 'r':
		return board.Black, board.Rook, true
	case 'q':
		return board.Black, board.Queen, true
	case 'k':
		return board.Black, board.King, true

	default:
		return 0, 0, false
	}
}

func printPiece(c board.Color, p board.Piece) rune {
	if c == board.White {
		switch p {
		case board.Pawn:
			return 'P'
		case board.Bishop:
			return 'B'
		case board.Knight:
			return 'N'
		case board.Rook:
			return 'R'
		case board.Queen:
			return 'Q'
		case board.King:
			return 'K'
		default:
			return '?'
		}
	}

	switch p {
	case board.Pawn:
		return 'p'
	case board.Bishop:
		return 'b'
	case board.Knight:
		return 'n'
	case board.Rook:
		return 'r'
	case board.Queen:
		return 'q'
	case board.King:
		return 'k'
	default:
		return '?'
	}
}
