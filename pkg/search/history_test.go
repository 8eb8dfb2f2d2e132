package search_test

import (
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestHistoryTable_StoreAccumulates(t *testing.T) {
	h := search.NewHistoryTable()

	assert.EqualValues(t, 0, h.Probe(board.Knight, board.F3))

	h.Store(board.Knight, board.F3, 4)
	first := h.Probe(board.Knight, board.F3)
	assert.Equal(t, int32(16), first)

	h.Store(board.Knight, board.F3, 4)
	assert.Greater(t, h.Probe(board.Knight, board.F3), first)
}

func TestHistoryTable_Saturates(t *testing.T) {
	h := search.NewHistoryTable()
	for i := 0; i < 1000; i++ {
		h.Store(board.Queen, board.D8, 64)
	}
	assert.LessOrEqual(t, h.Probe(board.Queen, board.D8), int32(1<<24))
}

func TestHistoryTable_Clear(t *testing.T) {
	h := search.NewHistoryTable()
	h.Store(board.Rook, board.A1, 3)
	h.Clear()
	assert.EqualValues(t, 0, h.Probe(board.Rook, board.A1))
}

func TestCounterMoveTable_StoreAndProbe(t *testing.T) {
	c := search.NewCounterMoveTable()

	_, ok := c.Probe(board.Pawn, board.E4)
	assert.False(t, ok)

	reply := board.Move{From: board.E7, To: board.E5, Piece: board.Pawn, Kind: board.DoublePush}
	c.Store(board.Pawn, board.E4, reply)

	d, ok := c.Probe(board.Pawn, board.E4)
	assert.True(t, ok)
	assert.True(t, d.Matches(reply))
}
