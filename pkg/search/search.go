// Package search contains the negamax alpha-beta search engine: the root Search interface,
// the transposition table, and quiescence search at the leaves.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/herohde/morlock/pkg/board"
)

// ErrHalted is returned by Search when the context is cancelled mid-search.
var ErrHalted = errors.New("search halted")

// PV represents the principal variation found for a completed search depth.
type PV struct {
	Depth int
	Moves []board.Move
	Score board.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // transposition table utilization [0;1]
}

func (p PV) String() string {
	pv := board.FormatMoves(p.Moves, func(m board.Move) string { return m.String() })
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v hash=%v%% pv=%v", p.Depth, p.Score, p.Nodes, p.Time, int(100*p.Hash), pv)
}

// Context carries the alpha-beta window and shared resources threaded through the
// recursive negamax search.
type Context struct {
	Alpha, Beta board.Score
	TT          TranspositionTable

	// Ponder, if non-empty, forces the search down this exact continuation for its first
	// few plies regardless of move ordering -- used to score a specific candidate line.
	Ponder []board.Move

	// RootMoves, if non-empty, restricts the move played at the root ply to this set
	// (the UCI `go searchmoves` restriction). Deeper plies are unaffected.
	RootMoves []board.Move
}

// Search is a root search algorithm. Iterative deepening drives it one depth at a time.
type Search interface {
	// Search returns the node count, score and principal variation for the given depth, from
	// the point of view of the side to move in g.
	Search(ctx context.Context, sctx *Context, g *board.Game, depth int) (uint64, board.Score, []board.Move, error)
}
