package eval

import (
	"context"
	"math/rand"

	"github.com/herohde/morlock/pkg/board"
)

// Random adds a small amount of noise to an Evaluator's score, to avoid always playing the
// same "best" move in repeated games from the same position. limit is the noise range in
// centipawns, [-limit/2; limit-limit/2), e.g. -10 to 9 for a limit of 20. A zero-value
// Random always returns zero.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limit int, seed int64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Evaluate(ctx context.Context, g *board.Game) board.Score {
	if n.limit <= 0 {
		return 0
	}
	return board.Score(n.rand.Intn(n.limit) - n.limit/2)
}

// Randomize wraps eval with a noise term, so Evaluate returns eval's score perturbed by n.
func Randomize(eval Evaluator, n Random) Evaluator {
	return randomized{eval: eval, noise: n}
}

type randomized struct {
	eval  Evaluator
	noise Random
}

func (r randomized) Evaluate(ctx context.Context, g *board.Game) board.Score {
	return r.eval.Evaluate(ctx, g) + r.noise.Evaluate(ctx, g)
}
