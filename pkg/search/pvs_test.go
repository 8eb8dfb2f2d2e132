package search

import (
	"context"
	"testing"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/board/fen"
	"github.com/kestrelchess/kestrel/pkg/eval"
	"github.com/kestrelchess/kestrel/pkg/nnue"
	"go.uber.org/atomic"
)

func newTestWorker() *worker {
	ctx := context.Background()
	tt := NewTranspositionTable(ctx, 1<<20)
	return newWorker(tt, nil, NewKillerTable(), NewHistoryTable(), NewCounterMoveTable(), nil, 0, eval.Random{}, atomic.NewBool(false), atomic.NewBool(false))
}

func attachEvaluator(t *testing.T, pos *board.Position) {
	t.Helper()
	ev, err := nnue.NewEvaluator("")
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	ev.Attach(pos)
}

// Back-rank mate in one: Re1-e8 is checkmate.
func TestPV_FindsMateInOne(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, err := fen.Decode(zt, "6k1/5ppp/8/8/8/8/8/4R1K1 w - -")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	attachEvaluator(t, pos)

	w := newTestWorker()
	score, line := w.pv(context.Background(), pos, -board.MateScore, board.MateScore, 4, 0, board.Move{})

	if !score.IsMate() {
		t.Fatalf("expected a mate score, got %v", score)
	}
	if len(line) == 0 {
		t.Fatalf("expected a non-empty principal variation")
	}
	want := board.Move{From: board.E1, To: board.E8}
	if !line[0].Equals(want) {
		t.Fatalf("expected best move %v, got %v", want, line[0])
	}
}

func TestQuiescence_StandPatWithinWindow(t *testing.T) {
	zt := board.NewZobristTable(1)
	pos, err := fen.Decode(zt, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	attachEvaluator(t, pos)

	w := newTestWorker()
	score := w.quiescence(context.Background(), pos, -board.MateScore, board.MateScore, 0)

	if score.IsMate() {
		t.Fatalf("quiet starting position should not resolve to a mate score, got %v", score)
	}
}
