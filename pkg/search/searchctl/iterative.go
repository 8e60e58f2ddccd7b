package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Iterative is a search harness for iterative deepening: it runs Root one depth deeper at a
// time, publishing a PV after each completed depth, until a limit is hit, a forced mate is
// found, or the search is aborted.
type Iterative struct {
	Root search.Search
}

func (i *Iterative) Launch(ctx context.Context, g *board.Game, tt search.TranspositionTable, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, i.Root, g, tt, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, root search.Search, g *board.Game, tt search.TranspositionTable, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	tt.NewGeneration()

	var fixed time.Duration
	if v, ok := opt.FixedTime.V(); ok {
		fixed = v
	}
	soft, useSoft := EnforceTimeControl(ctx, h, fixed, opt.TimeControl, g.Turn(), opt.Infinite)

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	sctx := &search.Context{Alpha: board.MinScore, Beta: board.MaxScore, TT: tt, RootMoves: opt.SearchMoves}

	start := time.Now()
	depth := 1
	var nodes uint64
	for !h.quit.IsClosed() {
		n, score, moves, err := root.Search(wctx, sctx, g, depth)
		nodes += n
		if err != nil {
			if err == search.ErrHalted {
				return // Halt was called.
			}
			logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", g.Position(), depth, err)
			return
		}

		pv := search.PV{
			Depth: depth,
			Nodes: n,
			Score: score,
			Moves: moves,
			Time:  time.Since(start),
			Hash:  tt.Used(),
		}

		logw.Debugf(ctx, "Searched %v: %v", g.Position(), pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()

		if !opt.Infinite {
			if limit, ok := opt.DepthLimit.V(); ok && limit > 0 && uint(depth) >= limit {
				return // halt: reached max depth
			}
			if limit, ok := opt.NodeLimit.V(); ok && nodes >= limit {
				return // halt: reached node budget
			}
			if score.IsMateScore() {
				return // halt: forced mate found within full-width search. Exact result.
			}
		}
		if useSoft && soft <= time.Since(start) {
			return // halt: exceeded time budget. Do not start a new iteration.
		}
		depth++
	}
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
