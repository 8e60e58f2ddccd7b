package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/herohde/morlock/pkg/search"
	"github.com/herohde/morlock/pkg/search/searchctl"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are engine creation/runtime options.
type Options struct {
	// Depth is the default search depth limit. If zero, there is no limit. Overridden by
	// per-search options if provided.
	Depth uint
	// Hash is the transposition table size in MB. If zero, the engine will not use a
	// transposition table.
	Hash uint
	// Noise adds some centipawn randomness to the leaf evaluations, to avoid the engine
	// always playing the same line from a repeated position.
	Noise uint
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v, noise=%v}", o.Depth, o.Hash, o.Noise)
}

// Engine encapsulates game-playing logic on top of a pkg/search algorithm and a static
// evaluator: position bookkeeping, time/depth-limited analysis, and move/takeback handling.
type Engine struct {
	name, author string

	factory search.TranspositionTableFactory
	zt      *board.ZobristTable
	seed    int64
	opts    Options
	eval    eval.Evaluator

	g       *board.Game
	history []*board.Game // for TakeBack; does not include the current game
	tt      search.TranspositionTable
	noise   eval.Random
	active  searchctl.Handle
	mu      sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithTable configures the engine to use the given transposition table factory.
func WithTable(factory search.TranspositionTableFactory) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithZobrist configures the engine to use the given random seed instead of the default
// seed of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// New creates an engine that plays by evaluating positions with ev.
func New(ctx context.Context, name, author string, ev eval.Evaluator, opts ...Option) *Engine {
	e := &Engine{
		name:    name,
		author:  author,
		factory: search.NewTranspositionTable,
		eval:    ev,
	}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.seed)

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

func (e *Engine) SetHash(size uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Hash = size
}

func (e *Engine) SetNoise(centipawns uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Noise = centipawns
}

// Game returns the current game.
func (e *Engine) Game() *board.Game {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.g
}

// Position returns the current position in FEN format. Convenience function.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.position()
}

func (e *Engine) position() string {
	return fen.Encode(e.g.Position(), e.g.Turn(), e.g.NoProgressCount(), e.g.Fullmove())
}

// Reset resets the engine to a new starting position in FEN format.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, depth=%v, TT=%vMB, noise=%vcp", position, e.opts.Depth, e.opts.Hash, e.opts.Noise)

	_, _ = e.haltSearchIfActive(ctx)

	pos, turn, noprogress, fullmove, err := fen.Decode(position)
	if err != nil {
		return err
	}
	e.g = board.NewGame(e.zt, pos, turn, noprogress, fullmove)
	e.history = nil

	e.tt = search.NoTranspositionTable{}
	if e.opts.Hash > 0 {
		e.tt = e.factory(ctx, uint64(e.opts.Hash)<<20)
	}
	e.noise = eval.Random{}
	if e.opts.Noise > 0 {
		e.noise = eval.NewRandom(int(e.opts.Noise), e.seed)
	}

	logw.Infof(ctx, "New game: %v", e.position())
	return nil
}

// Move plays the given move, usually an opponent move.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	candidate, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %v", err)
	}

	_, _ = e.haltSearchIfActive(ctx)

	turn := e.g.Turn()
	for _, m := range e.g.Position().PseudoLegalMoves(turn) {
		if !candidate.Equals(m) {
			continue
		}

		// Candidate is at least pseudo-legal. Verify it does not leave the mover in check.

		next := e.g.Push(m)
		if next.Position().IsChecked(turn) {
			return fmt.Errorf("illegal move: %v", m)
		}

		e.history = append(e.history, e.g)
		e.g = next

		logw.Infof(ctx, "Move %v: %v", m, e.position())
		return nil
	}
	return fmt.Errorf("invalid move: %v", candidate)
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _ = e.haltSearchIfActive(ctx)

	if len(e.history) == 0 {
		return fmt.Errorf("no move to take back")
	}

	e.g = e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]

	logw.Infof(ctx, "Takeback: %v", e.position())
	return nil
}

// Analyze analyzes the current position.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.position(), opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	root := search.AlphaBeta{Eval: eval.Randomize(e.eval, e.noise)}
	launcher := &searchctl.Iterative{Root: root}

	handle, out := launcher.Launch(ctx, e.g, e.tt, opt)
	e.active = handle
	return out, nil
}

// Halt halts the active search and returns the principal variation, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

// Ponder runs a single fixed-depth search restricted to the given move first, for per-move
// score breakdowns. It never touches the engine's own search/TT state.
func (e *Engine) Ponder(ctx context.Context, move board.Move, depth int) (uint64, board.Score, []board.Move, error) {
	e.mu.Lock()
	g, ev, noise := e.g, e.eval, e.noise
	e.mu.Unlock()

	root := search.AlphaBeta{Eval: eval.Randomize(ev, noise)}
	sctx := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: search.NoTranspositionTable{}, Ponder: []board.Move{move}}
	return root.Search(ctx, sctx, g, depth)
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search halted: %v", pv)

		e.active = nil
		return pv, true
	}
	return search.PV{}, false
}
