package board_test

import (
	"strings"
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPosition(t *testing.T, pieces []board.Placement, turn board.Color, castling board.Castling, ep board.Square) *board.Position {
	t.Helper()
	zt := board.NewZobristTable(1)
	pos, err := board.NewPosition(zt, pieces, turn, castling, ep, 0, 1)
	require.NoError(t, err)
	return pos
}

func TestPseudoLegalMoves(t *testing.T) {

	t.Run("pawns", func(t *testing.T) {
		tests := []struct {
			turn      board.Color
			pieces    []board.Placement
			enpassant board.Square
			expected  []board.Move
		}{
			{ // Pawn @ E2,G5
				board.White,
				[]board.Placement{
					{Square: board.E2, Color: board.White, Piece: board.Pawn},
					{Square: board.G5, Color: board.White, Piece: board.Pawn},
					{Square: board.A1, Color: board.White, Piece: board.King},
					{Square: board.A8, Color: board.Black, Piece: board.King},
				},
				board.NoSquare,
				[]board.Move{
					{From: board.E2, To: board.E3, Piece: board.Pawn, Kind: board.Quiet},
					{From: board.E2, To: board.E4, Piece: board.Pawn, Kind: board.DoublePush},
					{From: board.G5, To: board.G6, Piece: board.Pawn, Kind: board.Quiet},
				},
			},
			{ // Pawn @ D7 -- promotion
				board.White,
				[]board.Placement{
					{Square: board.D7, Color: board.White, Piece: board.Pawn},
					{Square: board.A1, Color: board.White, Piece: board.King},
					{Square: board.A8, Color: board.Black, Piece: board.King},
				},
				board.NoSquare,
				[]board.Move{
					{From: board.D7, To: board.D8, Piece: board.Pawn, Kind: board.QueenPromotion},
					{From: board.D7, To: board.D8, Piece: board.Pawn, Kind: board.RookPromotion},
					{From: board.D7, To: board.D8, Piece: board.Pawn, Kind: board.KnightPromotion},
					{From: board.D7, To: board.D8, Piece: board.Pawn, Kind: board.BishopPromotion},
				},
			},
			{ // Pawn @ C4,E4,F4 -- en passant
				board.Black,
				[]board.Placement{
					{Square: board.C4, Color: board.Black, Piece: board.Pawn},
					{Square: board.D4, Color: board.White, Piece: board.Pawn},
					{Square: board.E4, Color: board.Black, Piece: board.Pawn},
					{Square: board.F4, Color: board.Black, Piece: board.Pawn},
					{Square: board.A1, Color: board.White, Piece: board.King},
					{Square: board.A8, Color: board.Black, Piece: board.King},
				},
				board.D3,
				[]board.Move{
					{From: board.F4, To: board.F3, Piece: board.Pawn, Kind: board.Quiet},
					{From: board.E4, To: board.E3, Piece: board.Pawn, Kind: board.Quiet},
					{From: board.E4, To: board.D3, Piece: board.Pawn, Capture: board.Pawn, Kind: board.EnPassant},
					{From: board.C4, To: board.C3, Piece: board.Pawn, Kind: board.Quiet},
					{From: board.C4, To: board.D3, Piece: board.Pawn, Capture: board.Pawn, Kind: board.EnPassant},
				},
			},
		}

		for _, tt := range tests {
			pos := newPosition(t, tt.pieces, tt.turn, 0, tt.enpassant)

			actual := filterMoves(pos.PseudoLegalMoves(tt.turn), func(move board.Move) bool {
				return move.Piece == board.Pawn
			})
			assert.Equal(t, printMoves(tt.expected), printMoves(actual))
		}
	})

	t.Run("officers", func(t *testing.T) {
		tests := []struct {
			pieces   []board.Placement
			expected []board.Move
		}{
			{ // King @ A3
				[]board.Placement{
					{Square: board.A3, Color: board.White, Piece: board.King},
					{Square: board.B3, Color: board.Black, Piece: board.Rook},
					{Square: board.A2, Color: board.Black, Piece: board.Bishop},
					{Square: board.H8, Color: board.Black, Piece: board.King},
				},
				[]board.Move{
					{From: board.A3, To: board.A2, Piece: board.King, Capture: board.Bishop, Kind: board.Capture},
					{From: board.A3, To: board.A4, Piece: board.King, Kind: board.Quiet},
					{From: board.A3, To: board.B3, Piece: board.King, Capture: board.Rook, Kind: board.Capture},
					{From: board.A3, To: board.B4, Piece: board.King, Kind: board.Quiet},
					{From: board.A3, To: board.B2, Piece: board.King, Kind: board.Quiet},
				},
			},
		}

		for _, tt := range tests {
			pos := newPosition(t, tt.pieces, board.White, 0, board.NoSquare)

			actual := pos.PseudoLegalMoves(board.White)
			assert.ElementsMatch(t, printMovesSlice(tt.expected), printMovesSlice(actual))
		}
	})

	t.Run("castling", func(t *testing.T) {
		tests := []struct {
			turn     board.Color
			pieces   []board.Placement
			castling board.Castling
			expected []board.Move
		}{
			{ // No rights
				board.White,
				[]board.Placement{
					{Square: board.E1, Color: board.White, Piece: board.King},
					{Square: board.H1, Color: board.White, Piece: board.Rook},
					{Square: board.A1, Color: board.White, Piece: board.Rook},
					{Square: board.E8, Color: board.Black, Piece: board.King},
				},
				0,
				nil,
			},
			{ // Full rights.
				board.White,
				[]board.Placement{
					{Square: board.E1, Color: board.White, Piece: board.King},
					{Square: board.H1, Color: board.White, Piece: board.Rook},
					{Square: board.A1, Color: board.White, Piece: board.Rook},
					{Square: board.E8, Color: board.Black, Piece: board.King},
				},
				board.FullCastlingRights,
				[]board.Move{
					{From: board.E1, To: board.G1, Piece: board.King, Kind: board.KingCastle},
					{From: board.E1, To: board.C1, Piece: board.King, Kind: board.QueenCastle},
				},
			},
			{ // Obstructed king-side.
				board.Black,
				[]board.Placement{
					{Square: board.E8, Color: board.Black, Piece: board.King},
					{Square: board.H8, Color: board.Black, Piece: board.Rook},
					{Square: board.G8, Color: board.White, Piece: board.Bishop},
					{Square: board.A8, Color: board.Black, Piece: board.Rook},
					{Square: board.E1, Color: board.White, Piece: board.King},
				},
				board.FullCastlingRights,
				[]board.Move{
					{From: board.E8, To: board.C8, Piece: board.King, Kind: board.QueenCastle},
				},
			},
			{ // Partial rights.
				board.Black,
				[]board.Placement{
					{Square: board.E8, Color: board.Black, Piece: board.King},
					{Square: board.H8, Color: board.Black, Piece: board.Rook},
					{Square: board.A8, Color: board.Black, Piece: board.Rook},
					{Square: board.E1, Color: board.White, Piece: board.King},
				},
				board.BlackQueenSideCastle | board.WhiteKingSideCastle,
				[]board.Move{
					{From: board.E8, To: board.C8, Piece: board.King, Kind: board.QueenCastle},
				},
			},
		}

		for _, tt := range tests {
			pos := newPosition(t, tt.pieces, tt.turn, tt.castling, board.NoSquare)

			actual := filterMoves(pos.PseudoLegalMoves(tt.turn), func(move board.Move) bool {
				return move.Kind == board.KingCastle || move.Kind == board.QueenCastle
			})
			assert.Equal(t, printMoves(tt.expected), printMoves(actual))
		}
	})
}

func TestMakeUnmake(t *testing.T) {
	zt := board.NewZobristTable(7)
	pos, err := fen.Decode(zt, fen.Initial)
	require.NoError(t, err)

	before := pos.String()
	beforeHash := pos.Hash()

	m := board.Move{From: board.E2, To: board.E4, Piece: board.Pawn, Kind: board.DoublePush}
	pos.Make(m)

	assert.NotEqual(t, before, pos.String())
	assert.NotEqual(t, beforeHash, pos.Hash())
	ep, ok := pos.EnPassant()
	assert.True(t, ok)
	assert.Equal(t, board.E3, ep)

	pos.Unmake(m)
	assert.Equal(t, before, pos.String())
	assert.Equal(t, beforeHash, pos.Hash())
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		pieces   []board.Placement
		expected bool
	}{
		{
			[]board.Placement{
				{Square: board.A1, Color: board.White, Piece: board.King},
				{Square: board.A8, Color: board.Black, Piece: board.King},
			},
			true,
		},
		{
			[]board.Placement{
				{Square: board.A1, Color: board.White, Piece: board.King},
				{Square: board.B1, Color: board.White, Piece: board.Knight},
				{Square: board.A8, Color: board.Black, Piece: board.King},
			},
			true,
		},
		{
			[]board.Placement{
				{Square: board.A1, Color: board.White, Piece: board.King},
				{Square: board.B1, Color: board.White, Piece: board.Rook},
				{Square: board.A8, Color: board.Black, Piece: board.King},
			},
			false,
		},
	}

	for _, tt := range tests {
		pos := newPosition(t, tt.pieces, board.White, 0, board.NoSquare)
		assert.Equal(t, tt.expected, pos.HasInsufficientMaterial())
	}
}

func filterMoves(ms []board.Move, fn func(move board.Move) bool) []board.Move {
	var list []board.Move
	for _, m := range ms {
		if fn(m) {
			list = append(list, m)
		}
	}
	return list
}

func printMoves(ms []board.Move) string {
	return strings.Join(printMovesSlice(ms), "\n")
}

func printMovesSlice(ms []board.Move) []string {
	var list []string
	for _, m := range ms {
		list = append(list, m.String())
	}
	return list
}
