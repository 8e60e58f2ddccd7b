package search

import (
	"context"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// abortCheckInterval is how often, in visited nodes, the search checks for cancellation.
const abortCheckInterval = 4096

// AlphaBeta implements negamax search with alpha-beta pruning, transposition-table-guided
// move ordering and cutoffs, and quiescence search at the horizon. Pseudo-code:
//
// function negamax(node, depth, α, β, color) is
//
//	if depth = 0 or node is terminal then
//	    return color × the heuristic value of node
//	value := −∞
//	for each child of node do
//	    value := max(value, −negamax(child, depth − 1, −β, −α, −color))
//	    α := max(α, value)
//	    if α ≥ β then
//	        break (* cutoff *)
//	return value
//
// See: https://en.wikipedia.org/wiki/Negamax.
type AlphaBeta struct {
	Eval eval.Evaluator
}

func (p AlphaBeta) Search(ctx context.Context, sctx *Context, g *board.Game, depth int) (uint64, board.Score, []board.Move, error) {
	run := &runAlphaBeta{eval: p.Eval, tt: sctx.TT, ponder: sctx.Ponder, rootMoves: sctx.RootMoves, topDepth: depth}

	score, pv := run.search(ctx, g, depth, sctx.Alpha, sctx.Beta)
	if contextx.IsCancelled(ctx) {
		return run.nodes, 0, nil, ErrHalted
	}
	return run.nodes, score, pv, nil
}

type runAlphaBeta struct {
	eval      eval.Evaluator
	tt        TranspositionTable
	ponder    []board.Move
	rootMoves []board.Move
	topDepth  int
	nodes     uint64
}

// search returns the score and principal variation from the point of view of the side to
// move in g.
func (r *runAlphaBeta) search(ctx context.Context, g *board.Game, depth int, alpha, beta board.Score) (board.Score, []board.Move) {
	r.nodes++
	if r.nodes%abortCheckInterval == 0 && contextx.IsCancelled(ctx) {
		return 0, nil
	}
	if g.IsDrawn() {
		return board.DrawScore, nil
	}
	if depth == 0 {
		return quiescence(ctx, r.eval, g, alpha, beta), nil
	}

	hash := g.Hash()

	var ttMove board.Move
	if bound, ttDepth, score, move, ok := r.tt.Read(hash); ok {
		ttMove = move
		if ttDepth >= depth {
			switch bound {
			case ExactBound:
				return score, nil
			case LowerBound:
				alpha = board.Max(alpha, score)
			case UpperBound:
				beta = board.Min(beta, score)
			}
			if alpha >= beta {
				return score, nil
			}
		}
	}

	turn := g.Turn()
	candidates := g.Position().PseudoLegalMoves(turn)
	if depth == r.topDepth && len(r.rootMoves) > 0 {
		candidates = restrictTo(candidates, r.rootMoves)
	}
	if len(r.ponder) > 0 {
		candidates = []board.Move{r.ponder[0]}
		r.ponder = r.ponder[1:]
	}
	moves := board.NewMoveList(candidates, board.First(ttMove, movePriority))

	origAlpha := alpha
	hasLegalMove := false
	best := board.MinScore
	var pv []board.Move

	for {
		m, ok := moves.Next()
		if !ok {
			break
		}

		next := g.Push(m)
		if next.Position().IsChecked(turn) {
			continue // not legal: own king left in check
		}
		hasLegalMove = true

		score, rem := r.search(ctx, next, depth-1, beta.Negate(), alpha.Negate())
		score = eval.IncrementMateDistance(score).Negate()

		if score > best {
			best = score
			pv = append([]board.Move{m}, rem...)
		}
		if best > alpha {
			alpha = best
		}
		if alpha >= beta {
			r.tt.Write(hash, LowerBound, depth, best, m)
			return best, pv
		}
	}

	if !hasLegalMove {
		if g.Position().IsChecked(turn) {
			return -board.Mate, nil
		}
		return board.DrawScore, nil
	}

	if alpha > origAlpha {
		r.tt.Write(hash, ExactBound, depth, best, firstOrNone(pv))
	} else {
		r.tt.Write(hash, UpperBound, depth, best, firstOrNone(pv))
	}
	return best, pv
}

// restrictTo filters moves down to those present in allowed, preserving moves' order.
func restrictTo(moves, allowed []board.Move) []board.Move {
	ret := make([]board.Move, 0, len(moves))
	for _, m := range moves {
		for _, a := range allowed {
			if m.Equals(a) {
				ret = append(ret, m)
				break
			}
		}
	}
	return ret
}

func firstOrNone(pv []board.Move) board.Move {
	if len(pv) == 0 {
		return board.Move{}
	}
	return pv[0]
}

// movePriority buckets moves into ordering classes (quiet < promotion < capture), with
// captures ranked within their class by nominal material gain (the captured piece's value,
// plus any promotion gain; the moving piece is not considered) and everything else
// tie-broken by (from, to) square index, lower first.
func movePriority(m board.Move) board.MovePriority {
	tiebreak := board.MovePriority(m.From)*64 + board.MovePriority(m.To)
	switch {
	case m.IsCapture():
		return 2000 + board.MovePriority(eval.NominalValueGain(m))
	case m.IsPromotion():
		return -tiebreak
	default:
		return -4096 - tiebreak
	}
}
