package search

import (
	"github.com/kestrelchess/kestrel/internal/assert"
	"github.com/kestrelchess/kestrel/pkg/board"
)

// historyMax caps the history counter comfortably below the int32 range: counters are
// incremented by depth², so even a depth-512 search (the maximum ply) only contributes
// 262144 per bump, and saturating well short of overflow keeps later arithmetic
// (clamping into the ordering score bands) simple and overflow-free.
const historyMax = 1 << 24

// HistoryTable scores quiet moves by how often a (piece, target-square) pair has caused
// a beta cutoff, weighted by the search depth at which it happened. Cleared at the start
// of every root search.
type HistoryTable struct {
	counters [board.NumPieces][board.NumSquares]int32
}

// NewHistoryTable returns an empty history table.
func NewHistoryTable() *HistoryTable {
	return &HistoryTable{}
}

// Clear resets every counter.
func (h *HistoryTable) Clear() {
	*h = HistoryTable{}
}

// Store bumps the counter for (piece, target) by depth², saturating at historyMax.
func (h *HistoryTable) Store(piece board.Piece, target board.Square, depth int) {
	if depth <= 0 {
		return
	}
	bonus := int32(depth * depth)
	c := &h.counters[piece][target]
	assert.Check(depth < 1<<12, "history bonus overflow risk: depth=%v", depth)
	if int64(*c)+int64(bonus) >= historyMax {
		*c = historyMax
		return
	}
	*c += bonus
}

// Probe returns the current counter for (piece, target).
func (h *HistoryTable) Probe(piece board.Piece, target board.Square) int32 {
	return h.counters[piece][target]
}

// CounterMoveTable records, for each (piece, target) of a just-played move, the reply
// that most recently caused a cutoff against it — a cheap proxy for "the move that
// refutes this one", used as an extra move-ordering hint.
type CounterMoveTable struct {
	replies [board.NumPieces][board.NumSquares]board.DenseMove
}

// NewCounterMoveTable returns an empty counter-move table.
func NewCounterMoveTable() *CounterMoveTable {
	ret := &CounterMoveTable{}
	ret.Clear()
	return ret
}

// Clear resets every entry to the null marker.
func (c *CounterMoveTable) Clear() {
	for i := range c.replies {
		for j := range c.replies[i] {
			c.replies[i][j] = board.NoDenseMove
		}
	}
}

// Store records reply as the countermove to a previous move identified by (piece, target).
func (c *CounterMoveTable) Store(prevPiece board.Piece, prevTarget board.Square, reply board.Move) {
	c.replies[prevPiece][prevTarget] = board.Pack(reply)
}

// Probe returns the stored countermove for (prevPiece, prevTarget), or false if none.
func (c *CounterMoveTable) Probe(prevPiece board.Piece, prevTarget board.Square) (board.DenseMove, bool) {
	d := c.replies[prevPiece][prevTarget]
	return d, d != board.NoDenseMove
}
