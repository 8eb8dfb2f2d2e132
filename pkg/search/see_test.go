package search_test

import (
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/board/fen"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSee(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		m    board.Move
		want int32
	}{
		{
			name: "rook wins a free pawn",
			fen:  "1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - -",
			m:    board.Move{From: board.E1, To: board.E5, Piece: board.Rook, Capture: board.Pawn, Kind: board.Capture},
			want: 100,
		},
		{
			name: "knight loses itself for a pawn",
			fen:  "1k1r3q/1ppn3p/p4b2/4p3/8/P2N2P1/1PP1R1BP/2K1Q3 w - -",
			m:    board.Move{From: board.D3, To: board.E5, Piece: board.Knight, Capture: board.Pawn, Kind: board.Capture},
			want: 100 - 320,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zt := board.NewZobristTable(1)
			pos, err := fen.Decode(zt, tt.fen)
			require.NoError(t, err)

			assert.Equal(t, tt.want, search.See(pos, tt.m))
		})
	}
}

func TestSeeGE(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, err := fen.Decode(zt, "1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - -")
	require.NoError(t, err)

	m := board.Move{From: board.E1, To: board.E5, Piece: board.Rook, Capture: board.Pawn, Kind: board.Capture}
	assert.True(t, search.SeeGE(pos, m, 50))
	assert.True(t, search.SeeGE(pos, m, 100))
	assert.False(t, search.SeeGE(pos, m, 150))
}
