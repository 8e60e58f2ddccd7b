// Package eval contains position evaluation logic and utilities.
package eval

import (
	"context"

	"github.com/herohde/morlock/pkg/board"
)

// Evaluator is a static position evaluator. Evaluate returns the score from the point of
// view of the side to move: positive favors the mover, matching negamax convention.
type Evaluator interface {
	Evaluate(ctx context.Context, g *board.Game) board.Score
}

// Material evaluates material balance, piece-square placement, rook file occupation, center
// control and space. Draws (by rule) and positions with no legal move (mate or stalemate)
// are adjudicated before any positional scoring is considered.
type Material struct{}

func (Material) Evaluate(ctx context.Context, g *board.Game) board.Score {
	if g.IsDrawn() {
		return board.DrawScore
	}

	turn := g.Turn()
	pos := g.Position()

	if !pos.AnyLegalMoves(turn) {
		if pos.IsChecked(turn) {
			return -board.Mate
		}
		return board.DrawScore
	}

	return materialAndPlacement(pos) * turn.Unit()
}

// materialAndPlacement returns the static score from White's point of view: positive favors
// White, negative favors Black.
func materialAndPlacement(pos board.Position) board.Score {
	var score board.Score
	endgame := isEndgame(pos)

	for piece := board.Pawn; piece <= board.King; piece++ {
		white := pos.Piece(board.White, piece)
		black := pos.Piece(board.Black, piece)

		if piece != board.King {
			score += board.Score(white.PopCount()-black.PopCount()) * NominalValue(piece)
		}

		for _, sq := range white.ToSquares() {
			score += pst(board.White, piece, sq, endgame)
		}
		for _, sq := range black.ToSquares() {
			score -= pst(board.Black, piece, sq, endgame)
		}
	}

	score += scoreRookFiles(pos)
	score += scoreCenterControl(pos)
	score += scoreSpace(pos)
	score += scorePins(pos)

	return score
}

// pinPenalty is the cost of having a non-king piece absolutely pinned to one's own king.
const pinPenalty board.Score = 15

// scorePins penalizes each side for its own absolutely pinned pieces.
func scorePins(pos board.Position) board.Score {
	white := len(FindPins(pos, board.White, board.King))
	black := len(FindPins(pos, board.Black, board.King))
	return board.Score(black-white) * pinPenalty
}

// isEndgame is a coarse game-phase detector used to pick between the middlegame and
// endgame king piece-square tables: no queens, or both sides reduced to a couple of minors.
func isEndgame(pos board.Position) bool {
	queens := pos.Piece(board.White, board.Queen).PopCount() + pos.Piece(board.Black, board.Queen).PopCount()
	if queens == 0 {
		return true
	}
	minors := pos.Piece(board.White, board.Knight).PopCount() + pos.Piece(board.White, board.Bishop).PopCount() +
		pos.Piece(board.Black, board.Knight).PopCount() + pos.Piece(board.Black, board.Bishop).PopCount()
	return queens <= 2 && minors <= 2
}

const (
	rookOpenFileBonus     board.Score = 70
	rookHalfOpenFileBonus board.Score = 30
	centerControlBonus    board.Score = 10
	spaceBonus            board.Score = 2
)

var centerSquares = [...]board.Square{board.D4, board.D5, board.E4, board.E5}

// scoreRookFiles rewards rooks on open (no pawns at all) and half-open (no own pawn) files.
func scoreRookFiles(pos board.Position) board.Score {
	var score board.Score
	for _, sq := range pos.Piece(board.White, board.Rook).ToSquares() {
		switch {
		case pos.IsFileOpen(sq.File()):
			score += rookOpenFileBonus
		case pos.IsFileHalfOpen(sq.File(), board.White):
			score += rookHalfOpenFileBonus
		}
	}
	for _, sq := range pos.Piece(board.Black, board.Rook).ToSquares() {
		switch {
		case pos.IsFileOpen(sq.File()):
			score -= rookOpenFileBonus
		case pos.IsFileHalfOpen(sq.File(), board.Black):
			score -= rookHalfOpenFileBonus
		}
	}
	return score
}

// scoreCenterControl rewards attacking the four central squares.
func scoreCenterControl(pos board.Position) board.Score {
	var white, black int
	for _, sq := range centerSquares {
		if pos.IsAttacked(sq, board.White) {
			white++
		}
		if pos.IsAttacked(sq, board.Black) {
			black++
		}
	}
	return board.Score(white-black) * centerControlBonus
}

// scoreSpace rewards claiming more of the board behind one's own pawns: each side's pawn
// rear-fill is compared for how many of those squares that side controls versus the opponent,
// using the full piece set (not just pawn captures) to judge control.
func scoreSpace(pos board.Position) board.Score {
	behindWhite := board.RearFill(board.White, pos.Piece(board.White, board.Pawn))
	behindBlack := board.RearFill(board.Black, pos.Piece(board.Black, board.Pawn))

	whiteScore := attackedCount(pos, behindWhite, board.White) - attackedCount(pos, behindWhite, board.Black)
	blackScore := attackedCount(pos, behindBlack, board.Black) - attackedCount(pos, behindBlack, board.White)

	return board.Score(whiteScore-blackScore) * spaceBonus
}

// attackedCount returns the number of squares in mask attacked by by's full piece set.
func attackedCount(pos board.Position, mask board.Bitboard, by board.Color) int {
	count := 0
	for _, sq := range mask.ToSquares() {
		if pos.IsAttacked(sq, by) {
			count++
		}
	}
	return count
}
