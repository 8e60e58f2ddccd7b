package searchctl_test

import (
	"testing"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/search/searchctl"
	"github.com/stretchr/testify/assert"
)

func TestTimeControl_Budget_DefaultMovesToGo(t *testing.T) {
	tc := searchctl.TimeControl{White: 40 * time.Second, WhiteInc: 2 * time.Second}

	// movesToGo defaults to 40: budget = 40s/40 + 2s/(40/10) = 1s + 500ms.
	assert.Equal(t, 1500*time.Millisecond, tc.Budget(board.White))
}

func TestTimeControl_Budget_RespectsMovesToGo(t *testing.T) {
	tc := searchctl.TimeControl{White: 20 * time.Second, MovesToGo: 10}

	// budget = 20s/10 + 0/(10/10) = 2s.
	assert.Equal(t, 2*time.Second, tc.Budget(board.White))
}

func TestTimeControl_Budget_PerSide(t *testing.T) {
	tc := searchctl.TimeControl{
		White: 10 * time.Second, Black: 20 * time.Second,
		MovesToGo: 20,
	}

	assert.Equal(t, 500*time.Millisecond, tc.Budget(board.White))
	assert.Equal(t, time.Second, tc.Budget(board.Black))
}

func TestTimeControl_Budget_NoIncrementWhenMovesToGoBelowTen(t *testing.T) {
	tc := searchctl.TimeControl{White: 9 * time.Second, WhiteInc: time.Second, MovesToGo: 9}

	// movesToGo/10 == 0, so the increment term is skipped entirely rather than dividing
	// by zero: budget = 9s/9 = 1s.
	assert.Equal(t, time.Second, tc.Budget(board.White))
}

func TestTimeControl_String(t *testing.T) {
	tc := searchctl.TimeControl{White: 1500 * time.Millisecond, Black: 2 * time.Second}
	assert.Equal(t, "1.5<>2.0", tc.String())

	tc.MovesToGo = 5
	assert.Equal(t, "1.5<>2.0[moves=5]", tc.String())
}
