package search

import (
	"context"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/eval"
	"github.com/kestrelchess/kestrel/pkg/nnue"
	"go.uber.org/atomic"
)

// nodeCheckMask bounds how often the hot search loop pays for a time/stop check: once
// every 1024 nodes, per spec.
const nodeCheckMask = 1<<10 - 1

// worker drives one synchronous search on one position. It owns everything that must
// survive across the whole iterative-deepening run — transposition table handle, killer
// and history tables, node/time bookkeeping — but not the position itself, which its
// caller hands it exclusively for the duration of go (see SPEC_FULL.md's concurrency
// section). Safe for exactly one goroutine at a time, matching the single-threaded,
// synchronous search this engine specifies.
type worker struct {
	tt       TranspositionTable
	tb       Tablebase
	killers  *KillerTable
	history  *HistoryTable
	counters *CounterMoveTable
	reductions *ReductionTable

	contempt board.Score
	noise    eval.Random

	stop    *atomic.Bool // set by the UCI driver on "stop" or a hard time cutoff
	running *atomic.Bool // set by the worker itself while a search is in flight

	nodes   int64
	stopped bool
}

// newWorker returns a worker ready to run a single search, wired to the given shared
// tables. tt, killers, history and counters are owned by the caller and persist across
// searches (only MarkStale/Clear resets them); tb may be nil, in which case NoopTablebase
// is used; reductions may be nil, in which case DefaultReductionTunables apply.
func newWorker(tt TranspositionTable, tb Tablebase, killers *KillerTable, history *HistoryTable, counters *CounterMoveTable, reductions *ReductionTable, contempt board.Score, noise eval.Random, stop, running *atomic.Bool) *worker {
	if tb == nil {
		tb = NoopTablebase{}
	}
	if reductions == nil {
		reductions = NewReductionTable()
	}
	return &worker{
		tt:         tt,
		tb:         tb,
		killers:    killers,
		history:    history,
		counters:   counters,
		reductions: reductions,
		contempt:   contempt,
		noise:      noise,
		stop:       stop,
		running:    running,
	}
}

// evaluate scores pos from the side to move's perspective, with this worker's noise
// jitter applied on top of the NNUE evaluator's output.
func (w *worker) evaluate(pos *board.Position) board.Score {
	return w.noise.Apply(pos, nnue.Evaluate(pos))
}

// outOfTime reports whether the search must abandon the current line: either the driver
// raised the stop flag, or the context was cancelled. Checked only every nodeCheckMask+1
// nodes, since atomics and ctx.Err() are too costly to pay for on every node.
func (w *worker) outOfTime(ctx context.Context) bool {
	if w.stopped {
		return true
	}
	if w.nodes&nodeCheckMask != 0 {
		return false
	}
	if w.stop != nil && w.stop.Load() {
		w.stopped = true
		return true
	}
	select {
	case <-ctx.Done():
		w.stopped = true
		return true
	default:
		return false
	}
}

// drawScore returns the contempt-adjusted value of a drawn position: a small offset
// away from zero that biases the engine against accepting a draw when it is the root
// player's choice, and toward accepting one when it is the opponent's.
func (w *worker) drawScore(pos *board.Position) board.Score {
	if pos.Turn() == pos.RootPlayer() {
		return -w.contempt
	}
	return w.contempt
}

// terminal evaluates a position with no legal moves: checkmate if the side to move is in
// check, otherwise a contempt-adjusted stalemate draw.
func (w *worker) terminal(pos *board.Position, ply int) board.Score {
	if pos.IsCheck() {
		return board.MatedIn(ply)
	}
	return w.drawScore(pos)
}

// recordCutoff updates the killer, history and counter-move tables after move caused a
// beta cutoff. prev is the move made to reach this node (board.Move{} at the root), used
// to record m as prev's countermove. Captures and promotions are excluded from the killer
// and history tables: they are already ordered by SEE/MVV-LVA, so a quiet-move heuristic
// would only dilute them.
func (w *worker) recordCutoff(prev, m board.Move, depth, ply int) {
	if m.Kind.IsCapture() {
		return
	}
	if _, ok := m.Kind.PromotionPiece(); ok {
		return
	}
	w.killers.Store(ply, m)
	w.history.Store(m.Piece, m.To, depth)
	if prev.Piece != board.NoPiece {
		w.counters.Store(prev.Piece, prev.To, m)
	}
}

// accumulatorRefreshMask bounds how often scout defensively rebuilds the NNUE
// accumulator from scratch, guarding against any theoretical incremental-update drift.
const accumulatorRefreshMask = 1<<14 - 1

// maybeRefreshAccumulator rebuilds pos's accumulator from scratch every
// accumulatorRefreshMask+1 nodes.
func (w *worker) maybeRefreshAccumulator(pos *board.Position) {
	if w.nodes&accumulatorRefreshMask != 0 {
		return
	}
	if acc, ok := pos.Eval.(*nnue.Accumulator); ok {
		acc.Refresh(pos)
	}
}
