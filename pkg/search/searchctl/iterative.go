package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/kestrelchess/kestrel/pkg/board"
	"github.com/kestrelchess/kestrel/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// aspirationStep holds the successive widenings tried after an aspiration window fails:
// a small first step, then progressively larger ones, then the absolute mate bound.
var aspirationStep = []board.Score{30, 80, 200, 500}

// branchingEMAWeight is the exponential-moving-average weight applied to the
// iteration-over-iteration time ratio once the search is deep enough for the estimate to
// be meaningful; shallower iterations are too noisy to trust.
const branchingEMAWeight = 0.5

// branchingEMAMinDepth is the depth at which the EMA estimate starts being trusted.
const branchingEMAMinDepth = 5

// Iterative is a Launcher that drives search.Search with increasing depth, aspiration
// windows around each iteration's previous score, and a soft/hard time budget. Grounded
// on the teacher's searchctl.Iterative, generalized to board.Position/board.Score and
// the spec's aspiration-widening and branching-factor-projection rules.
type Iterative struct {
	Root    search.Search
	TT      search.TranspositionTable
	Killers *search.KillerTable
	History *search.HistoryTable
}

func (it *Iterative) Launch(ctx context.Context, pos *board.Position, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, it, pos, opt, out)
	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, it *Iterative, pos *board.Position, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	it.TT.MarkStale()
	it.History.Clear()
	it.Killers.Clear()
	pos.SetRootPlayer(pos.Turn())

	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, pos.Turn())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	start := time.Now()
	var lastIterTime time.Duration
	var ema float64
	var prevBest board.Move
	var score board.Score

	depth := 1
	for !h.quit.IsClosed() {
		iterStart := time.Now()

		alpha, beta := board.Score(-board.MateScore), board.Score(board.MateScore)
		if depth > 1 {
			alpha, beta = score-aspirationStep[0], score+aspirationStep[0]
		}

		var moves []board.Move
		var nodes uint64
		step := 0
		for {
			var s board.Score
			s, moves, nodes = it.Root.Search(wctx, pos, alpha, beta, depth)
			score = s

			if score > alpha && score < beta {
				break // landed inside the window: exact result
			}
			if h.quit.IsClosed() {
				break
			}

			failLow := score <= alpha
			step++
			if step >= len(aspirationStep) {
				if failLow {
					alpha = -board.MateScore
				} else {
					beta = board.MateScore
				}
				continue
			}
			if failLow {
				alpha = score - aspirationStep[step]
			} else {
				beta = score + aspirationStep[step]
			}
		}

		if h.quit.IsClosed() {
			return // halted mid-search; the partial result above is not trustworthy
		}

		pv := search.PV{
			Depth: depth,
			Score: score,
			Nodes: nodes,
			Moves: moves,
			Time:  time.Since(iterStart),
		}

		logw.Debugf(ctx, "Searched depth=%v: %v", depth, pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close() // a usable PV exists now; enable the hard cutoff

		if limit, ok := opt.DepthLimit.V(); ok && limit > 0 && uint(depth) >= limit {
			return
		}
		if ml, ok := opt.MateLimit.V(); ok && score.IsMate() {
			if mateDistance(score) <= int(ml) {
				return
			}
		}

		elapsed := time.Since(start)
		thisIter := time.Since(iterStart)
		if lastIterTime > 0 {
			ratio := float64(thisIter) / float64(lastIterTime)
			if depth >= branchingEMAMinDepth {
				if ema == 0 {
					ema = ratio
				} else {
					ema = branchingEMAWeight*ratio + (1-branchingEMAWeight)*ema
				}
			} else {
				ema = ratio
			}
		}
		lastIterTime = thisIter

		if useSoft {
			projected := elapsed + time.Duration(float64(thisIter)*maxFloat(ema, 1))
			_, hard := mustTimeControl(opt).Limits(pos.Turn())
			if projected > hard {
				return
			}
			if elapsed > soft {
				return
			}
			if len(moves) > 0 && moves[0].Equals(prevBest) {
				soft = time.Duration(float64(soft) * 0.9)
			}
			if len(moves) > 0 {
				prevBest = moves[0]
			}
		}

		depth++
	}
}

func mateDistance(s board.Score) int {
	if s >= board.MateMin {
		return int(board.MateScore - s)
	}
	return int(board.MateScore + s)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func mustTimeControl(opt Options) TimeControl {
	tc, _ := opt.TimeControl.V()
	return tc
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}
