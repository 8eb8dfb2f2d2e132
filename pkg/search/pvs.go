package search

import (
	"context"

	"github.com/kestrelchess/kestrel/pkg/board"
)

// nodeType alternates between a search node's parent and child per standard
// principal-variation-search practice: a CutNode expects to fail high (so reductions are
// aggressive), an AllNode expects to examine every move (so reductions are conservative).
type nodeType uint8

const (
	CutNode nodeType = iota
	AllNode
)

func (nt nodeType) opposite() nodeType {
	if nt == CutNode {
		return AllNode
	}
	return CutNode
}

// reverseFutilityMargin[d] and extendedFutilityMargin[d] are indexed directly by
// remaining depth; index 0 is never consulted (both techniques require depth >= 1).
var (
	reverseFutilityMargin  = [4]board.Score{0, 200, 400, 800}
	extendedFutilityMargin = [3]board.Score{0, 200, 700}
)

// cutNodeRelabelThreshold is how many non-cutoff moves a CutNode tries before the
// remainder of its move loop is treated as an AllNode: a cut node that hasn't cut off
// after this many tries probably isn't going to.
const cutNodeRelabelThreshold = 5

// pv searches a PV node (the root, or any node reached through an exact-score window)
// with a full alpha-beta window on its first move and null-window scout searches
// (re-searched on a fail-high) on the rest, returning the node's score and its principal
// variation. Grounded on the teacher's pvs.go/alphabeta.go shape, generalized to
// board.Score/board.Position and the transposition, killer and history tables.
func (w *worker) pv(ctx context.Context, pos *board.Position, alpha, beta board.Score, depth, ply int, prev board.Move) (board.Score, []board.Move) {
	w.nodes++

	if pos.IsCheck() {
		depth++
	}
	w.tt.Prefetch(pos.Hash())

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return w.terminal(pos, ply), nil
	}

	root := ply == 0
	if root {
		if m, result, ok := w.tb.ProbeRoot(pos); ok && result != TablebaseMiss {
			return tablebaseScore(result, ply), []board.Move{m}
		}
	}

	if !root && pos.IsDraw() {
		return w.drawScore(pos), nil
	}

	if mated := board.MatedIn(ply); mated > alpha {
		alpha = mated
	}
	if mate := board.MateIn(ply); mate < beta {
		beta = mate
	}
	if alpha >= beta {
		return alpha, nil
	}

	if ply >= board.MaxPly {
		return w.evaluate(pos), nil
	}
	if depth <= 0 {
		return w.quiescence(ctx, pos, alpha, beta, ply), nil
	}

	_, _, _, hashMove, hasHash := w.tt.Probe(pos.Hash())
	if !hasHash {
		hashMove = board.Move{}
	}

	if result, dtz, ok := w.tb.Probe(pos); ok {
		if score, done := tablebaseBound(result, dtz, ply, &alpha, &beta); done {
			return score, nil
		}
	}

	OrderMoves(pos, moves, hashMove, prev, ply, w.killers, w.history, w.counters)

	originalAlpha := alpha
	best := board.MatedIn(ply) - 1
	var bestMove board.Move
	var line []board.Move

	turn := pos.Turn()
	for i, m := range moves {
		pos.Make(m)
		if pos.IsChecked(turn) {
			pos.Unmake(m)
			continue
		}

		var score board.Score
		var childLine []board.Move
		if i == 0 {
			score, childLine = w.pv(ctx, pos, -beta, -alpha, depth-1, ply+1, m)
			score = -score
		} else {
			score = -w.scout(ctx, pos, -alpha-1, depth-1, ply+1, true, CutNode, m)
			if score > alpha && score < beta {
				score, childLine = w.pv(ctx, pos, -beta, -alpha, depth-1, ply+1, m)
				score = -score
			}
		}
		pos.Unmake(m)

		if w.outOfTime(ctx) {
			return alpha, line
		}

		if score > best {
			best = score
			bestMove = m
			line = append([]board.Move{m}, childLine...)
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			w.recordCutoff(prev, m, depth, ply)
			break
		}
	}

	bound := ExactBound
	switch {
	case best <= originalAlpha:
		bound = UpperBound
	case best >= beta:
		bound = LowerBound
	}
	w.tt.Store(pos.Hash(), bound, depth, best.ToTT(ply), bestMove)

	return best, line
}

// scout searches a null-window node (beta = alpha+1, implicit) that is never itself part
// of the principal variation. It applies the full pruning/reduction battery the PV search
// skips: reverse futility, null-move, probcut, late move reductions, SEE-gated reduction,
// history pruning and extended futility pruning. Grounded on the teacher's scout-style
// alphabeta/pvs shape, generalized per spec: node-type alternation, depth/bound-aware TT
// cutoffs and the reduction tables in reductions.go.
func (w *worker) scout(ctx context.Context, pos *board.Position, alpha board.Score, depth, ply int, allowNull bool, nt nodeType, prev board.Move) board.Score {
	w.nodes++
	beta := alpha + 1

	if w.outOfTime(ctx) {
		return alpha
	}
	w.maybeRefreshAccumulator(pos)

	inCheck := pos.IsCheck()
	if inCheck {
		depth++
	}
	w.tt.Prefetch(pos.Hash())

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return w.terminal(pos, ply)
	}
	if pos.IsDraw() {
		return w.drawScore(pos)
	}

	if mated := board.MatedIn(ply); mated > alpha {
		alpha = mated
	}
	if mate := board.MateIn(ply); mate < beta {
		beta = mate
	}
	if alpha >= beta {
		return alpha
	}

	if ply >= board.MaxPly {
		return w.evaluate(pos)
	}
	if depth <= 0 {
		return w.quiescence(ctx, pos, alpha, beta, ply)
	}

	hashBound, hashDepth, hashScore, hashMove, hasHash := w.tt.Probe(pos.Hash())
	if hasHash && hashDepth >= depth {
		s := hashScore.FromTT(ply)
		switch hashBound {
		case ExactBound:
			return s
		case LowerBound:
			if s >= beta {
				return s
			}
		case UpperBound:
			if s <= alpha {
				return s
			}
		}
	}
	if !hasHash {
		hashMove = board.Move{}
	}

	turn := pos.Turn()
	var static board.Score
	if !inCheck {
		static = w.evaluate(pos)
	}

	if allowNull && !inCheck {
		if depth <= 3 {
			if margin := reverseFutilityMargin[depth]; static-margin >= beta {
				return static - margin
			}
		}
		if depth > 2 {
			pos.MakeNull()
			score := -w.scout(ctx, pos, -beta, depth-w.reductions.NullMoveReduction(), ply+1, false, nt.opposite(), board.Move{})
			pos.UnmakeNull()
			if w.outOfTime(ctx) {
				return alpha
			}
			if score >= beta {
				return score
			}
		}
		if depth >= 6 && !beta.IsMate() {
			threshold := beta + 300
			if score, ok := w.probcut(ctx, pos, moves, threshold, depth, ply, turn); ok {
				return score
			}
		}
	}

	OrderMoves(pos, moves, hashMove, prev, ply, w.killers, w.history, w.counters)

	originalAlpha := alpha
	best := board.MatedIn(ply) - 1
	var bestMove board.Move
	effectiveType := nt
	cutNodeTries := 0
	quietTried, captureTried := 0, 0

	for i, m := range moves {
		gc := givesCheck(pos, m)
		isCapture := m.Kind.IsCapture()
		_, isPromo := m.Kind.PromotionPiece()

		reduction := 0
		reducible := effectiveType == AllNode && !inCheck && !gc && !isPromo
		if reducible {
			if !isCapture {
				quietTried++
				if quietTried > 2 {
					reduction = w.reductions.LateMoveReduction(depth, quietTried)
				}
			} else {
				captureTried++
				if captureTried > 3 {
					reduction = w.reductions.LateCaptureReduction(depth, captureTried)
				}
			}
		}

		if effectiveType == AllNode && isCapture && !SeeGE(pos, m, -100) {
			reduction++
		}

		if effectiveType == AllNode && !isCapture && !isPromo && quietTried > 3 {
			history := int32(0)
			if w.history != nil {
				history = w.history.Probe(m.Piece, m.To)
			}
			if history < 15 && depth-1-reduction < 3 {
				continue
			}
		}

		if depth <= 2 && !inCheck && i > 0 {
			margin := extendedFutilityMargin[depth]
			if isCapture {
				if !SeeGE(pos, m, int32(alpha-static-margin)) {
					continue
				}
			} else if !isPromo {
				if static+margin <= alpha {
					continue
				}
			}
		}

		reducedDepth := depth - 1 - reduction
		if reducedDepth < 0 {
			reducedDepth = 0
		}
		if reducedDepth > depth-1 {
			reducedDepth = depth - 1
		}

		childType := effectiveType.opposite()

		pos.Make(m)
		if pos.IsChecked(turn) {
			pos.Unmake(m)
			continue
		}

		score := -w.scout(ctx, pos, -beta, reducedDepth, ply+1, true, childType, m)
		if reducedDepth < depth-1 && score > alpha {
			score = -w.scout(ctx, pos, -beta, depth-1, ply+1, true, childType, m)
		}
		pos.Unmake(m)

		if w.outOfTime(ctx) {
			return alpha
		}

		if score > best {
			best = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			w.recordCutoff(prev, m, depth, ply)
			break
		}

		if effectiveType == CutNode {
			cutNodeTries++
			if cutNodeTries >= cutNodeRelabelThreshold {
				effectiveType = AllNode
			}
		}
	}

	bound := LowerBound
	if best <= originalAlpha {
		bound = UpperBound
	}
	w.tt.Store(pos.Hash(), bound, depth, best.ToTT(ply), bestMove)

	return best
}

// probcut tries the moves in moves that look like they might beat threshold by a wide
// margin (a reduced-depth verification search), and returns the first one that does: a
// shallow confirmation that a capture is "clearly good enough" lets scout skip a full
// search of the rest of the position.
func (w *worker) probcut(ctx context.Context, pos *board.Position, moves []board.Move, threshold board.Score, depth, ply int, turn board.Color) (board.Score, bool) {
	for _, m := range moves {
		if !m.Kind.IsCapture() {
			continue
		}
		if !SeeGE(pos, m, int32(threshold)) {
			continue
		}

		pos.Make(m)
		if pos.IsChecked(turn) {
			pos.Unmake(m)
			continue
		}
		score := -w.scout(ctx, pos, -threshold, depth-w.reductions.ProbcutReduction(), ply+1, true, CutNode, m)
		pos.Unmake(m)

		if w.outOfTime(ctx) {
			return 0, false
		}
		if score >= threshold {
			return score, true
		}
	}
	return 0, false
}

// tablebaseScore converts a root tablebase verdict into a score usable directly as a pv
// result.
func tablebaseScore(result TablebaseResult, ply int) board.Score {
	switch result {
	case TablebaseWin:
		return board.MateIn(ply + 1)
	case TablebaseLoss:
		return board.MatedIn(ply + 1)
	default:
		return board.DrawScore
	}
}

// tablebaseBound tightens alpha/beta (or returns an exact score) from a non-root
// tablebase probe. A win/loss verdict only bounds the score (the exact distance to
// conversion isn't itself a search score), so it clamps alpha or beta rather than
// returning directly unless that clamp alone already proves a cutoff.
func tablebaseBound(result TablebaseResult, dtz int, ply int, alpha, beta *board.Score) (board.Score, bool) {
	switch result {
	case TablebaseDraw:
		return board.DrawScore, true
	case TablebaseWin:
		score := board.MateIn(ply + dtz)
		if score < *beta {
			*beta = score
		}
	case TablebaseLoss:
		score := board.MatedIn(ply + dtz)
		if score > *alpha {
			*alpha = score
		}
	}
	if *alpha >= *beta {
		return *alpha, true
	}
	return 0, false
}
