package search_test

import (
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/board/fen"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderMoves_HashMoveFirst(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, err := fen.Decode(zt, "1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - -")
	require.NoError(t, err)

	moves := pos.LegalMoves()
	require.NotEmpty(t, moves)

	hash := board.Move{From: board.E1, To: board.E2, Piece: board.Rook, Kind: board.Quiet}
	found := false
	for _, m := range moves {
		if m.Equals(hash) {
			found = true
			break
		}
	}
	require.True(t, found, "fixture move must be a legal move for this test to be meaningful")

	search.OrderMoves(pos, moves, hash, board.Move{}, 0, search.NewKillerTable(), search.NewHistoryTable(), search.NewCounterMoveTable())
	assert.True(t, moves[0].Equals(hash))
}

func TestOrderMoves_WinningCaptureBeforeQuiet(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, err := fen.Decode(zt, "1k1r4/1pp4p/p7/4p3/8/P5P1/1PP4P/2K1R3 w - -")
	require.NoError(t, err)

	moves := pos.LegalMoves()
	search.OrderMoves(pos, moves, board.Move{}, board.Move{}, 0, search.NewKillerTable(), search.NewHistoryTable(), search.NewCounterMoveTable())

	winner := board.Move{From: board.E1, To: board.E5, Piece: board.Rook, Capture: board.Pawn, Kind: board.Capture}
	winnerIdx, quietIdx := -1, -1
	for i, m := range moves {
		if m.Equals(winner) {
			winnerIdx = i
		}
		if quietIdx == -1 && m.Kind == board.Quiet {
			quietIdx = i
		}
	}
	require.GreaterOrEqual(t, winnerIdx, 0)
	require.GreaterOrEqual(t, quietIdx, 0)
	assert.Less(t, winnerIdx, quietIdx)
}

// From the initial position no white move gives check (every black piece sits shielded
// on the back two ranks), so picking two quiet moves here isolates the countermove band
// from the quiet-move check bonus.
func TestOrderMoves_CounterMoveBeforePlainQuiet(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, err := fen.Decode(zt, fen.Initial)
	require.NoError(t, err)

	moves := pos.LegalMoves()
	require.NotEmpty(t, moves)

	var counter, other board.Move
	for _, m := range moves {
		if m.Kind != board.Quiet {
			continue
		}
		if counter == (board.Move{}) {
			counter = m
		} else if other == (board.Move{}) {
			other = m
			break
		}
	}
	require.NotEqual(t, board.Move{}, counter, "fixture needs at least two quiet moves")
	require.NotEqual(t, board.Move{}, other)

	prev := board.Move{Piece: board.Pawn, To: board.A3}
	counters := search.NewCounterMoveTable()
	counters.Store(prev.Piece, prev.To, counter)

	search.OrderMoves(pos, moves, board.Move{}, prev, 0, search.NewKillerTable(), search.NewHistoryTable(), counters)

	var counterIdx, otherIdx int
	for i, m := range moves {
		if m.Equals(counter) {
			counterIdx = i
		}
		if m.Equals(other) {
			otherIdx = i
		}
	}
	assert.Less(t, counterIdx, otherIdx)
}
