// Package searchctl contains the search context that drives iterative deepening, time
// management, and the worker/handle lifecycle on top of a pkg/search.Search algorithm.
package searchctl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold dynamic search options. The caller may change these only while the launcher
// is idle, i.e. between searches.
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth. Zero means no limit.
	DepthLimit lang.Optional[uint]
	// NodeLimit, if set, limits the search to approximately the given node count.
	NodeLimit lang.Optional[uint64]
	// FixedTime, if set, searches for exactly this duration, overriding TimeControl.
	FixedTime lang.Optional[time.Duration]
	// TimeControl, if set, derives the search budget from remaining clock time.
	TimeControl lang.Optional[TimeControl]
	// SearchMoves, if non-empty, restricts the move played at the root to this set.
	SearchMoves []board.Move
	// Infinite disables all time and depth checks; only an external abort stops the search.
	Infinite bool
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.NodeLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("nodes=%v", v))
	}
	if v, ok := o.FixedTime.V(); ok {
		ret = append(ret, fmt.Sprintf("movetime=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	if o.Infinite {
		ret = append(ret, "infinite")
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Launcher manages searches: it runs iterative deepening on its own goroutine and returns
// a channel of increasingly deep principal variations.
type Launcher interface {
	// Launch a new search from g. The channel is closed once the search is exhausted or
	// halted; results may also be obtained synchronously via the returned Handle.
	Launch(ctx context.Context, g *board.Game, tt search.TranspositionTable, opt Options) (Handle, <-chan search.PV)
}

// Handle lets the caller manage an in-flight search. The engine is expected to launch a
// search and halt/abandon it when no longer needed.
type Handle interface {
	// Halt halts the search, if running, and returns its last completed PV. Idempotent.
	Halt() search.PV
}
