package search

import (
	"context"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
)

// quiescence extends search at the horizon with captures and promotions only, to avoid
// misjudging positions balanced on a hanging piece (the horizon effect). The static
// evaluation is used as a "stand pat" lower bound: if no tactical move is forced, doing
// nothing is at least as good as the best available capture.
func quiescence(ctx context.Context, e eval.Evaluator, g *board.Game, alpha, beta board.Score) board.Score {
	standPat := e.Evaluate(ctx, g)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}

	turn := g.Turn()
	moves := board.NewMoveList(tacticalMoves(g.Position().PseudoLegalMoves(turn)), movePriority)
	for {
		m, ok := moves.Next()
		if !ok {
			break
		}
		if standPat+eval.NominalValueGain(m) <= alpha {
			continue // cannot improve alpha even under an optimistic gain estimate
		}

		next := g.Push(m)
		if next.Position().IsChecked(turn) {
			continue // not legal: own king left in check
		}

		score := eval.IncrementMateDistance(quiescence(ctx, e, next, beta.Negate(), alpha.Negate())).Negate()
		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// tacticalMoves filters to captures and promotions.
func tacticalMoves(moves []board.Move) []board.Move {
	var ret []board.Move
	for _, m := range moves {
		if m.IsCapture() || m.IsPromotion() {
			ret = append(ret, m)
		}
	}
	return ret
}
