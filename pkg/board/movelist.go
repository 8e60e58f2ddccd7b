package board

import (
	"container/heap"
	"fmt"
	"math"
	"strings"
)

// FormatMoves formats a sequence of moves space-separated, using fn to render each move.
func FormatMoves(moves []Move, fn func(Move) string) string {
	var sb strings.Builder
	for i, m := range moves {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fn(m))
	}
	return sb.String()
}

// PrintMoves formats a sequence of moves space-separated in "from-to" form, e.g. "d2-d4 e2-e4".
func PrintMoves(moves []Move) string {
	return FormatMoves(moves, func(m Move) string {
		if m.Promotion.IsValid() {
			return fmt.Sprintf("%v-%v%v", m.From, m.To, m.Promotion)
		}
		return fmt.Sprintf("%v-%v", m.From, m.To)
	})
}

// nominalValue approximates material value for move-ordering purposes, without depending on
// pkg/eval (which itself depends on pkg/board).
func nominalValue(p Piece) int {
	switch p {
	case Pawn:
		return 100
	case Knight:
		return 320
	case Bishop:
		return 330
	case Rook:
		return 500
	case Queen:
		return 900
	case King:
		return 20000
	default:
		return 0
	}
}

// ByMVVLVA sorts moves by descending captured-piece value (most valuable victim first), with
// ties broken by ascending (from, to) square index for determinism.
type ByMVVLVA []Move

func (a ByMVVLVA) Len() int      { return len(a) }
func (a ByMVVLVA) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a ByMVVLVA) Less(i, j int) bool {
	vi, vj := nominalValue(a[i].Capture), nominalValue(a[j].Capture)
	if vi != vj {
		return vi > vj
	}
	ki := int(a[i].From)*64 + int(a[i].To)
	kj := int(a[j].From)*64 + int(a[j].To)
	return ki < kj
}

// MovePriority represents the move order priority.
type MovePriority int16

// MovePriorityFn assigns a priority to moves
type MovePriorityFn func(move Move) MovePriority

// First puts the given move first. Otherwise uses the given function.
func First(first Move, fn MovePriorityFn) MovePriorityFn {
	return func(m Move) MovePriority {
		if first.Equals(m) {
			return math.MaxInt16
		}
		return fn(m)
	}
}

// MoveList is move priority queue for move ordering.
type MoveList struct {
	h moveHeap
}

// NewMoveList returns a new move list with the given priorities.
func NewMoveList(moves []Move, fn MovePriorityFn) *MoveList {
	h := moveHeap(make([]elm, len(moves)))
	for i, m := range moves {
		h[i] = elm{m: m, val: fn(m)}
	}
	heap.Init(&h)
	return &MoveList{h: h}
}

// Next returns the next move. It is the highest priority move in the list.
func (ml *MoveList) Next() (Move, bool) {
	if ml.Size() == 0 {
		return Move{}, false
	}
	ret := heap.Pop(&ml.h).(elm)
	return ret.m, true
}

func (ml *MoveList) Size() int {
	return ml.h.Len()
}

func (ml *MoveList) String() string {
	if ml.Size() == 0 {
		return "[size=0]"
	}
	return fmt.Sprintf("[top=%v, size=%v]", ml.h[0].m, ml.Size())
}

type elm struct {
	m   Move
	val MovePriority
}

type moveHeap []elm

func (h moveHeap) Len() int {
	return len(h)
}

func (h moveHeap) Less(i, j int) bool {
	return h[i].val > h[j].val
}

func (h moveHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *moveHeap) Push(x interface{}) {
	panic("fixed size heap")
}

func (h *moveHeap) Pop() interface{} {
	n := len(*h)
	ret := (*h)[n-1]
	*h = (*h)[0 : n-1]
	return ret
}
