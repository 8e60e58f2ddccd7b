package searchctl

import (
	"context"
	"fmt"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// TimeControl represents time control information reported via the UCI `go` command:
// the clock remaining for each side, each side's increment, and the moves left to the
// next time control (0 meaning "rest of the game").
type TimeControl struct {
	White, Black       time.Duration
	WhiteInc, BlackInc time.Duration
	MovesToGo          int
}

// Budget returns the search time budget for the side to move c:
//
//	moves_to_go = moves_to_next_control if present else 40
//	budget = time_remaining/moves_to_go + increment/(moves_to_go/10)
func (t TimeControl) Budget(c board.Color) time.Duration {
	remaining, inc := t.White, t.WhiteInc
	if c == board.Black {
		remaining, inc = t.Black, t.BlackInc
	}

	movesToGo := 40
	if t.MovesToGo > 0 {
		movesToGo = t.MovesToGo
	}

	budget := remaining / time.Duration(movesToGo)
	if divisor := movesToGo / 10; divisor > 0 {
		budget += inc / time.Duration(divisor)
	}
	return budget
}

func (t TimeControl) String() string {
	if t.MovesToGo == 0 {
		return fmt.Sprintf("%.1f<>%.1f", t.White.Seconds(), t.Black.Seconds())
	}
	return fmt.Sprintf("%.1f<>%.1f[moves=%v]", t.White.Seconds(), t.Black.Seconds(), t.MovesToGo)
}

// EnforceTimeControl arranges for h.Halt to be called when the search's time budget is
// exhausted: fixed, if set, overrides the TimeControl-derived budget; infinite disables the
// check entirely. Returns the budget and whether a time check applies at all.
func EnforceTimeControl(ctx context.Context, h Handle, fixed time.Duration, tc lang.Optional[TimeControl], turn board.Color, infinite bool) (time.Duration, bool) {
	if infinite {
		return 0, false
	}
	if fixed > 0 {
		time.AfterFunc(fixed, func() { h.Halt() })
		return fixed, true
	}

	c, ok := tc.V()
	if !ok {
		return 0, false
	}

	budget := c.Budget(turn)
	time.AfterFunc(budget, func() { h.Halt() })

	logw.Debugf(ctx, "Time control %v: budget=%v", c, budget)
	return budget, true
}
