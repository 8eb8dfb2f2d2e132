package search_test

import (
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestKillerTable_StoreAndProbe(t *testing.T) {
	k := search.NewKillerTable()

	quiet := board.Move{From: board.E2, To: board.E4, Piece: board.Pawn, Kind: board.DoublePush}
	k.Store(3, quiet)

	assert.True(t, k.IsKiller(3, quiet))
	assert.False(t, k.IsKiller(4, quiet))
}

func TestKillerTable_RejectsCapturesAndPromotions(t *testing.T) {
	k := search.NewKillerTable()

	capture := board.Move{From: board.E4, To: board.D5, Piece: board.Pawn, Capture: board.Pawn, Kind: board.Capture}
	promo := board.Move{From: board.A7, To: board.A8, Piece: board.Pawn, Kind: board.QueenPromotion}

	k.Store(1, capture)
	k.Store(1, promo)

	assert.False(t, k.IsKiller(1, capture))
	assert.False(t, k.IsKiller(1, promo))
}

func TestKillerTable_RingEvictsOldest(t *testing.T) {
	k := search.NewKillerTable()

	m1 := board.Move{From: board.E2, To: board.E4, Piece: board.Pawn, Kind: board.DoublePush}
	m2 := board.Move{From: board.D2, To: board.D4, Piece: board.Pawn, Kind: board.DoublePush}
	m3 := board.Move{From: board.C2, To: board.C4, Piece: board.Pawn, Kind: board.DoublePush}

	k.Store(0, m1)
	k.Store(0, m2)
	k.Store(0, m3) // evicts m1, the oldest slot

	assert.False(t, k.IsKiller(0, m1))
	assert.True(t, k.IsKiller(0, m2))
	assert.True(t, k.IsKiller(0, m3))
}

func TestKillerTable_Clear(t *testing.T) {
	k := search.NewKillerTable()
	m := board.Move{From: board.E2, To: board.E4, Piece: board.Pawn, Kind: board.DoublePush}
	k.Store(2, m)
	k.Clear()
	assert.False(t, k.IsKiller(2, m))
}
