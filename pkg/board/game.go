package board

// Outcome describes how a finished game ended.
type Outcome uint8

const (
	Undecided Outcome = iota
	WhiteWins
	BlackWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// Game is an append-only wrapper around a sequence of positions, reached by playing moves
// one at a time from some starting Position. It tracks what a bare Position cannot: whose
// move it is, the zobrist hash of each position reached (for repetition detection), the
// half-move clock since the last capture or pawn move (for the fifty-move rule) and the
// fullmove number. Unlike the classic "undo stack" board representation, playing a move
// never mutates a Game: Push returns a new Game value with its own copy of the receiver's
// history.
type Game struct {
	zt   *ZobristTable
	turn Color

	pos        Position
	hash       ZobristHash
	noprogress int
	fullmove   int

	// history holds the zobrist hash of every position reached since the game (or the last
	// irreversible move) began, oldest first, including the current position as the last
	// entry. Push copies it and appends the new hash, or starts a fresh one-entry history
	// after an irreversible move; the parent's history is never modified.
	history []ZobristHash
}

// NewGame starts a game at pos, to move by turn, with the given starting half-move clock
// (since the last capture or pawn move) and fullmove number (1 for a game from the initial
// position).
func NewGame(zt *ZobristTable, pos Position, turn Color, noprogress, fullmove int) *Game {
	hash := zt.Hash(pos, turn)
	return &Game{
		zt:         zt,
		turn:       turn,
		pos:        pos,
		hash:       hash,
		noprogress: noprogress,
		fullmove:   fullmove,
		history:    []ZobristHash{hash},
	}
}

func (g *Game) Position() Position {
	return g.pos
}

func (g *Game) Turn() Color {
	return g.turn
}

func (g *Game) Hash() ZobristHash {
	return g.hash
}

func (g *Game) Fullmove() int {
	return g.fullmove
}

func (g *Game) NoProgressCount() int {
	return g.noprogress
}

// Push returns the Game resulting from turn playing the (legal) move m. It does not mutate
// the receiver.
func (g *Game) Push(m Move) *Game {
	next := g.pos.AfterMove(g.turn, m)
	hash := g.zt.Move(g.hash, g.pos, g.turn, m)

	noprogress := g.noprogress + 1
	irreversible := m.IsCapture() || m.Type == Push || m.Type == Jump || m.Type == Promotion || m.Type == CapturePromotion
	if irreversible {
		noprogress = 0
	}

	fullmove := g.fullmove
	if g.turn == Black {
		fullmove++
	}

	history := g.history
	if irreversible {
		history = []ZobristHash{hash}
	} else {
		history = append(append(make([]ZobristHash, 0, len(g.history)+1), g.history...), hash)
	}

	return &Game{
		zt:         g.zt,
		turn:       g.turn.Opponent(),
		pos:        next,
		hash:       hash,
		noprogress: noprogress,
		fullmove:   fullmove,
		history:    history,
	}
}

// IsThreefoldRepetition returns true iff the current position has occurred at least three
// times since the start of the game or the last irreversible move.
func (g *Game) IsThreefoldRepetition() bool {
	count := 0
	for _, h := range g.history {
		if h == g.hash {
			count++
			if count >= 3 {
				return true
			}
		}
	}
	return false
}

// IsFiftyMoveDraw returns true iff fifty full moves (100 plies) have passed without a
// capture or pawn move.
func (g *Game) IsFiftyMoveDraw() bool {
	return g.noprogress >= 100
}

// IsDrawn returns true iff the game is drawn by the rules that do not depend on the presence
// of legal moves: threefold repetition, the fifty-move rule, or insufficient material.
func (g *Game) IsDrawn() bool {
	return g.IsThreefoldRepetition() || g.IsFiftyMoveDraw() || g.pos.HasInsufficientMaterial()
}

// Result returns the game's outcome, or Undecided if it is still in progress. It checks
// draw conditions that do not require legal move generation first, then no-legal-move
// adjudication (checkmate or stalemate), matching standard evaluation order.
func (g *Game) Result() Outcome {
	if g.IsDrawn() {
		return Draw
	}
	if g.pos.AnyLegalMoves(g.turn) {
		return Undecided
	}
	if g.pos.IsChecked(g.turn) {
		if g.turn == White {
			return BlackWins
		}
		return WhiteWins
	}
	return Draw // stalemate
}
