// Package search implements the engine's alpha-beta search: principal-variation search
// with a null-window scout, quiescence, a lock-free transposition table and the
// killer/history/countermove move-ordering heuristics. The iterative-deepening driver and
// time control live in the searchctl subpackage, which drives this package's Search
// interface.
package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/eval"
	"go.uber.org/atomic"
)

// PV is the result of one completed (or aborted) iterative-deepening iteration.
type PV struct {
	Depth  int
	Score  board.Score
	Nodes  uint64
	TBHits uint64
	Time   time.Duration
	Moves  []board.Move
}

func (p PV) String() string {
	parts := make([]string, len(p.Moves))
	for i, m := range p.Moves {
		parts[i] = m.String()
	}
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", p.Depth, p.Score, p.Nodes, p.Time, strings.Join(parts, " "))
}

// Search is a single fixed-depth search invocation, abstracting the pv/scout algorithm
// away from the iterative-deepening driver that repeatedly calls it at increasing depth.
type Search interface {
	// Search searches pos to depth plies (extended for checks) within [alpha, beta],
	// returning its score, principal variation and the number of nodes visited.
	Search(ctx context.Context, pos *board.Position, alpha, beta board.Score, depth int) (board.Score, []board.Move, uint64)
}

// NewSearch returns a Search backed by a fresh worker over the given shared tables. tt,
// killers, history and counters persist across searches; noise is an optional evaluation
// jitter (the zero value disables it); stop and running are the two atomics the
// concurrency model calls for (see SPEC_FULL.md): stop is set by the UCI driver to abort
// the in-flight search, running is set by the search while one is active.
func NewSearch(tt TranspositionTable, tb Tablebase, killers *KillerTable, history *HistoryTable, counters *CounterMoveTable, reductions *ReductionTable, contempt board.Score, noise eval.Random, stop, running *atomic.Bool) Search {
	return newWorker(tt, tb, killers, history, counters, reductions, contempt, noise, stop, running)
}

func (w *worker) Search(ctx context.Context, pos *board.Position, alpha, beta board.Score, depth int) (board.Score, []board.Move, uint64) {
	w.nodes = 0
	w.stopped = false
	score, line := w.pv(ctx, pos, alpha, beta, depth, 0, board.Move{})
	return score, line, uint64(w.nodes)
}
