package search_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestTranspositionTable_Size(t *testing.T) {
	ctx := context.Background()

	tt := search.NewTranspositionTable(ctx, 0x1000)
	assert.LessOrEqual(t, tt.Size(), uint64(0x1000))

	tt2 := search.NewTranspositionTable(ctx, 0x1f00)
	assert.Equal(t, tt.Size(), tt2.Size())
}

func TestTranspositionTable_ProbeStore(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<20)

	a := board.ZobristHash(rand.Uint64())

	_, _, _, _, ok := tt.Probe(a)
	assert.False(t, ok)

	m := board.Move{From: board.G4, To: board.G8, Kind: board.QueenPromotion}
	tt.Store(a, search.ExactBound, 5, board.Score(2), m)

	bound, depth, score, move, ok := tt.Probe(a)
	assert.True(t, ok)
	assert.Equal(t, search.ExactBound, bound)
	assert.Equal(t, 5, depth)
	assert.Equal(t, board.Score(2), score)
	assert.True(t, m.Equals(move))

	_, _, _, _, notOK := tt.Probe(a ^ 0xff0000)
	assert.False(t, notOK)
}

func TestTranspositionTable_Overwrite(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<20)

	a := board.ZobristHash(12345)
	m := board.Move{From: board.E2, To: board.E4, Kind: board.DoublePush}

	tt.Store(a, search.ExactBound, 2, board.Score(10), m)
	tt.Store(a, search.LowerBound, 7, board.Score(99), m)

	bound, depth, score, _, ok := tt.Probe(a)
	assert.True(t, ok)
	assert.Equal(t, search.LowerBound, bound)
	assert.Equal(t, 7, depth)
	assert.Equal(t, board.Score(99), score)
}

func TestTranspositionTable_MarkStale(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<20)

	a := board.ZobristHash(555)
	m := board.Move{From: board.A2, To: board.A4, Kind: board.DoublePush}
	tt.Store(a, search.ExactBound, 3, board.Score(0), m)

	_, _, _, _, ok := tt.Probe(a)
	assert.True(t, ok)

	tt.MarkStale()

	_, _, _, _, ok = tt.Probe(a)
	assert.False(t, ok)

	// A fresh store after MarkStale is visible again.
	tt.Store(a, search.ExactBound, 3, board.Score(0), m)
	_, _, _, _, ok = tt.Probe(a)
	assert.True(t, ok)
}

func TestTranspositionTable_Used(t *testing.T) {
	ctx := context.Background()
	tt := search.NewTranspositionTable(ctx, 1<<16)

	assert.Equal(t, float64(0), tt.Used())

	tt.Store(board.ZobristHash(1), search.ExactBound, 1, board.Score(0), board.Move{})
	assert.Greater(t, tt.Used(), float64(0))
}
