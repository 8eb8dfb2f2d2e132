package search

import (
	"context"
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/seekerror/logw"
)

// Bound classifies a stored score relative to the window it was computed in.
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

// TranspositionTable caches previously-searched positions, keyed by Zobrist hash, to
// speed up search. Must be thread-safe: the search worker is the only writer at a time,
// but UCI Option introspection (Used/Size) may be read concurrently from the driver.
type TranspositionTable interface {
	// Probe returns the bound, depth, score and best move for the given position hash, if
	// present and not stale.
	Probe(hash board.ZobristHash) (Bound, int, board.Score, board.Move, bool)
	// Store writes the entry into the table.
	Store(hash board.ZobristHash, bound Bound, depth int, score board.Score, move board.Move)
	// Prefetch hints the CPU that hash's slot will be read soon. A no-op on targets without
	// a prefetch intrinsic, which is every target Go can express this in.
	Prefetch(hash board.ZobristHash)
	// MarkStale invalidates every entry currently in the table, logically, so that every
	// subsequent Probe misses until the slot is next Stored into. Called once per new search.
	MarkStale()

	// Size returns the size of the table in bytes.
	Size() uint64
	// Used returns the utilization as a fraction [0;1].
	Used() float64
}

// entry is one transposition-table slot, 32 bytes wide with Go's field alignment.
type entry struct {
	hash  board.ZobristHash
	score board.Score
	move  board.DenseMove
	epoch uint32
	depth int32
	bound Bound
}

// table is a fixed-size, single-slot-per-index transposition table. Entries are swapped
// in with an atomic swap of the slot pointer rather than a mutex, so reads
// never block a concurrent write — the same lock-free design the teacher's table uses,
// generalized to the three-bound (Exact/Lower/Upper) scheme and an epoch counter standing
// in for a per-entry "stale" bit (see MarkStale).
type table struct {
	slots []unsafe.Pointer // *entry
	mask  uint64
	epoch atomic.Uint32
	used  atomic.Uint64
}

// NewTranspositionTable allocates a table sized to the largest power of two of entries
// that fits within sizeBytes.
func NewTranspositionTable(ctx context.Context, sizeBytes uint64) TranspositionTable {
	const entrySize = 32 // rounded up for slot-pointer overhead
	n := uint64(1)
	if sizeBytes >= entrySize {
		n = uint64(1) << (63 - bits.LeadingZeros64(sizeBytes/entrySize))
	}

	logw.Infof(ctx, "Allocating %vMB TT with %v entries", (n*entrySize)>>20, n)

	t := &table{
		slots: make([]unsafe.Pointer, n),
		mask:  n - 1,
	}
	t.epoch.Store(1)
	return t
}

func (t *table) Size() uint64 {
	return uint64(len(t.slots)) * 32
}

func (t *table) Used() float64 {
	return float64(t.used.Load()) / float64(len(t.slots))
}

func (t *table) index(hash board.ZobristHash) uint64 {
	return uint64(hash) & t.mask
}

func (t *table) Prefetch(hash board.ZobristHash) {
	// No prefetch intrinsic available from Go; left as a documented no-op.
}

func (t *table) MarkStale() {
	t.epoch.Add(1)
	t.used.Store(0)
}

func (t *table) Probe(hash board.ZobristHash) (Bound, int, board.Score, board.Move, bool) {
	addr := &t.slots[t.index(hash)]
	e := (*entry)(atomic.LoadPointer(addr))
	if e == nil || e.hash != hash || e.epoch != t.epoch.Load() {
		return 0, 0, 0, board.Move{}, false
	}
	from, to, kind := e.move.Unpack()
	return e.bound, int(e.depth), e.score, board.Move{From: from, To: to, Kind: kind}, true
}

// Store always overwrites the slot: with one slot per index there is no room for a
// value-based rejection policy, so the table is depth-preferred only in spirit (deeper
// results tend to arrive later in an iterative-deepening search and simply replace
// whatever was there).
func (t *table) Store(hash board.ZobristHash, bound Bound, depth int, score board.Score, move board.Move) {
	addr := &t.slots[t.index(hash)]
	fresh := &entry{
		hash:  hash,
		score: score,
		move:  board.Pack(move),
		epoch: t.epoch.Load(),
		depth: int32(depth),
		bound: bound,
	}

	old := (*entry)(atomic.SwapPointer(addr, unsafe.Pointer(fresh)))
	if old == nil || old.epoch != fresh.epoch {
		t.used.Add(1)
	}
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%vMB @ %v%%]", t.Size()>>20, int(100*t.Used()))
}
