package search

import "github.com/kestrelchess/kestrel/pkg/board"

// killerSlots is the size of the per-ply killer ring: two quiet moves, as specified.
const killerSlots = 2

// KillerTable holds, per search ply, a small ring of recent quiet moves that caused a
// beta cutoff at that ply. Consulted by move ordering as a cheap, position-independent
// hint: a quiet move that refuted a sibling line is likely good here too.
type KillerTable struct {
	moves [board.MaxPly][killerSlots]board.Move
	next  [board.MaxPly]int
}

// NewKillerTable returns an empty killer table.
func NewKillerTable() *KillerTable {
	return &KillerTable{}
}

// Clear resets every ply's killers. Called at the start of every root search.
func (k *KillerTable) Clear() {
	*k = KillerTable{}
}

// Store records move as a killer at ply, unless it is a capture/promotion (those are
// already ordered by SEE/MVV-LVA) or already present in the ring.
func (k *KillerTable) Store(ply int, move board.Move) {
	if ply < 0 || ply >= board.MaxPly {
		return
	}
	if move.Kind.IsCapture() {
		return
	}
	if _, ok := move.Kind.PromotionPiece(); ok {
		return
	}
	for _, m := range k.moves[ply] {
		if m.Equals(move) {
			return
		}
	}

	slot := k.next[ply]
	k.moves[ply][slot] = move
	k.next[ply] = (slot + 1) % killerSlots
}

// Probe returns the killer pair at ply (zero-value moves where no killer was stored).
func (k *KillerTable) Probe(ply int) [killerSlots]board.Move {
	if ply < 0 || ply >= board.MaxPly {
		return [killerSlots]board.Move{}
	}
	return k.moves[ply]
}

// IsKiller reports whether move is one of the stored killers at ply.
func (k *KillerTable) IsKiller(ply int, move board.Move) bool {
	for _, m := range k.Probe(ply) {
		if m.Equals(move) {
			return true
		}
	}
	return false
}
