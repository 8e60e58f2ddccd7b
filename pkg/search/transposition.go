package search

import (
	"context"
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/herohde/morlock/pkg/board"
	"github.com/seekerror/logw"
)

// Bound represents the bound kind of a stored search score: a node is either scored
// exactly, or only a lower/upper bound could be established before a cutoff truncated it.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// TranspositionTable caches previously searched subtree results, keyed by Zobrist hash, to
// speed up search. Must be thread-safe, though in practice it is only ever driven from the
// single search worker goroutine.
type TranspositionTable interface {
	// Read returns the bound, depth, score and best move stored for hash, if present.
	Read(hash board.ZobristHash) (Bound, int, board.Score, board.Move, bool)
	// Write stores the entry, subject to the table's replacement policy. Returns true iff
	// the entry was actually stored.
	Write(hash board.ZobristHash, bound Bound, depth int, score board.Score, move board.Move) bool

	// NewGeneration marks the start of a new search, making entries from prior generations
	// preferentially replaceable.
	NewGeneration()
	// Clear empties the table, as at ucinewgame.
	Clear()

	// Size returns the size of the table in bytes.
	Size() uint64
	// Used returns the utilization as a fraction [0;1].
	Used() float64
}

// TranspositionTableFactory creates a TranspositionTable sized to approximately size bytes.
type TranspositionTableFactory func(ctx context.Context, size uint64) TranspositionTable

// metadata captures node metadata: bound kind, best move, and the depth/generation used by
// the replacement policy.
type metadata struct {
	bound      Bound
	from, to   board.Square
	promotion  board.Piece
	depth      int16
	generation uint8
}

// node represents a single transposition table entry.
type node struct {
	hash  board.ZobristHash
	score board.Score
	md    metadata
}

// table is a fixed-capacity transposition table, open-addressed with one entry per bucket.
// Entries are read/written lock-free via atomic pointer swaps.
type table struct {
	table      []*node
	mask       uint64
	used       uint64
	generation uint32 // atomic
}

// NewTranspositionTable allocates a table sized to approximately size bytes, rounded down
// to the nearest power of two number of 32-byte entries.
func NewTranspositionTable(ctx context.Context, size uint64) TranspositionTable {
	n := uint64(1 << (63 - 5 - bits.LeadingZeros64(size)))

	logw.Infof(ctx, "Allocating %vMB TT with %v entries", size>>20, n)

	return &table{
		table: make([]*node, n),
		mask:  n - 1,
	}
}

func (t *table) Size() uint64 {
	return uint64(len(t.table)) << 5
}

func (t *table) Used() float64 {
	return float64(t.used) / float64(len(t.table))
}

func (t *table) NewGeneration() {
	atomic.AddUint32(&t.generation, 1)
}

func (t *table) Clear() {
	for i := range t.table {
		t.table[i] = nil
	}
	t.used = 0
	atomic.StoreUint32(&t.generation, 0)
}

func (t *table) Read(hash board.ZobristHash) (Bound, int, board.Score, board.Move, bool) {
	key := uint64(hash) & t.mask
	addr := (*unsafe.Pointer)(unsafe.Pointer(&t.table[key]))

	ptr := (*node)(atomic.LoadPointer(addr))
	if ptr != nil && hash == ptr.hash {
		bestmove := board.Move{From: ptr.md.from, To: ptr.md.to, Promotion: ptr.md.promotion}
		return ptr.md.bound, int(ptr.md.depth), ptr.score, bestmove, true
	}
	return 0, 0, 0, board.Move{}, false
}

func (t *table) Write(hash board.ZobristHash, bound Bound, depth int, score board.Score, move board.Move) bool {
	key := uint64(hash) & t.mask
	addr := (*unsafe.Pointer)(unsafe.Pointer(&t.table[key]))

	fresh := &node{
		hash:  hash,
		score: score,
		md: metadata{
			bound:      bound,
			from:       move.From,
			to:         move.To,
			promotion:  move.Promotion,
			depth:      int16(depth),
			generation: uint8(atomic.LoadUint32(&t.generation)),
		},
	}

	for {
		ptr := (*node)(atomic.LoadPointer(addr))
		if !replace(ptr, fresh) {
			return false
		}
		if atomic.CompareAndSwapPointer(addr, unsafe.Pointer(ptr), unsafe.Pointer(fresh)) {
			if ptr == nil {
				t.used++
			}
			return true
		}
	}
}

// replace implements the policy: replace if equal key, else replace if greater-or-equal
// depth, else replace if the existing entry is from an older generation.
func replace(old, fresh *node) bool {
	switch {
	case old == nil:
		return true
	case old.hash == fresh.hash:
		return true
	case fresh.md.depth >= old.md.depth:
		return true
	default:
		return old.md.generation != fresh.md.generation
	}
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%v @ %v%%]", t.Size(), int(100*t.Used()))
}

// WriteFilter is a predicate on the Write operation.
type WriteFilter func(hash board.ZobristHash, bound Bound, depth int, score board.Score, move board.Move) bool

// WriteLimited is a TranspositionTable wrapper that ignores certain writes, e.g. below a
// minimum depth. Useful if evaluation depends on recent move history not captured by the hash.
type WriteLimited struct {
	Filter WriteFilter
	TT     TranspositionTable
}

func (w WriteLimited) Read(hash board.ZobristHash) (Bound, int, board.Score, board.Move, bool) {
	return w.TT.Read(hash)
}

func (w WriteLimited) Write(hash board.ZobristHash, bound Bound, depth int, score board.Score, move board.Move) bool {
	if w.Filter(hash, bound, depth, score, move) {
		return false
	}
	return w.TT.Write(hash, bound, depth, score, move)
}

func (w WriteLimited) NewGeneration() { w.TT.NewGeneration() }
func (w WriteLimited) Clear()         { w.TT.Clear() }
func (w WriteLimited) Size() uint64   { return w.TT.Size() }
func (w WriteLimited) Used() float64  { return w.TT.Used() }

// NewMinDepthTranspositionTable creates depth-limited TranspositionTables.
func NewMinDepthTranspositionTable(min int) TranspositionTableFactory {
	return func(ctx context.Context, size uint64) TranspositionTable {
		return WriteLimited{
			Filter: func(hash board.ZobristHash, bound Bound, depth int, score board.Score, move board.Move) bool {
				return depth < min
			},
			TT: NewTranspositionTable(ctx, size),
		}
	}
}

// NoTranspositionTable is a Nop implementation, used when the engine is configured with no
// hash table.
type NoTranspositionTable struct{}

func (n NoTranspositionTable) Read(hash board.ZobristHash) (Bound, int, board.Score, board.Move, bool) {
	return 0, 0, 0, board.Move{}, false
}

func (n NoTranspositionTable) Write(hash board.ZobristHash, bound Bound, depth int, score board.Score, move board.Move) bool {
	return false
}

func (n NoTranspositionTable) NewGeneration() {}
func (n NoTranspositionTable) Clear()         {}
func (n NoTranspositionTable) Size() uint64   { return 0 }
func (n NoTranspositionTable) Used() float64  { return 0 }
