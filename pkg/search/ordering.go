package search

import (
	"github.com/kestrelchess/kestrel/pkg/board"
	"golang.org/x/exp/slices"
)

// Move-ordering score bands, highest priority first. Each capture band's SEE and MVV-LVA
// tiebreaks stay inside that band. A quiet move scores its history (clamped to
// [0, 100000]) plus 100000 if it gives check, so it can reach 200000, level with killers
// and above the counter-move, promotion and equal-capture bands.
const (
	hashMoveScore      board.Score = 1000000
	winningCaptureBase board.Score = 400000
	killerMoveScore    board.Score = 200000
	equalCaptureBase   board.Score = 150000
	promotionBase      board.Score = 100000
	counterMoveScore   board.Score = 90000
	losingCaptureBase  board.Score = -400000

	seeWinThreshold  = 50
	seeLoseThreshold = -50
)

// mvvlva is the most-valuable-victim/least-valuable-attacker tiebreak: it favors
// capturing the richest piece, and among equally rich victims prefers giving up the
// cheapest attacker.
func mvvlva(m board.Move) board.Score {
	if !m.Kind.IsCapture() {
		return 0
	}
	return board.Score(seeValue(m.Capture)*16 - seeValue(m.Piece))
}

// OrderMoves assigns every move a score per the specification's priority bands and sorts
// moves descending by score in place. hash is the transposition table's best-move hint for
// this node (board.Move{} if none); ply indexes the killer table; prev is the move made to
// reach this node (board.Move{} if none), used to look up its countermove. killers,
// history and counters may be nil (quiescence search orders captures/evasions without any
// of the three).
func OrderMoves(pos *board.Position, moves []board.Move, hash board.Move, prev board.Move, ply int, killers *KillerTable, history *HistoryTable, counters *CounterMoveTable) {
	hasHash := hash.Piece != board.NoPiece
	var killerPair [killerSlots]board.Move
	if killers != nil {
		killerPair = killers.Probe(ply)
	}

	var counter board.DenseMove
	hasCounter := false
	if counters != nil && prev.Piece != board.NoPiece {
		counter, hasCounter = counters.Probe(prev.Piece, prev.To)
	}

	for i := range moves {
		moves[i].Score = scoreMove(pos, moves[i], hash, hasHash, killerPair, history, counter, hasCounter)
	}

	slices.SortStableFunc(moves, func(a, b board.Move) bool {
		return a.Score > b.Score
	})
}

func scoreMove(pos *board.Position, m board.Move, hash board.Move, hasHash bool, killerPair [killerSlots]board.Move, history *HistoryTable, counter board.DenseMove, hasCounter bool) board.Score {
	if hasHash && m.Equals(hash) {
		return hashMoveScore
	}

	if m.Kind.IsCapture() {
		s := See(pos, m)
		switch {
		case s >= seeWinThreshold:
			return winningCaptureBase + board.Score(s) + mvvlva(m)
		case s >= seeLoseThreshold:
			return equalCaptureBase + mvvlva(m)
		default:
			return losingCaptureBase + board.Score(s)
		}
	}

	for _, k := range killerPair {
		if k.Equals(m) {
			return killerMoveScore
		}
	}

	if hasCounter && counter.Matches(m) {
		return counterMoveScore
	}

	if promo, ok := m.Kind.PromotionPiece(); ok {
		return promotionBase + board.Score(seeValue(promo))
	}

	var score board.Score
	if history != nil {
		score = board.Score(history.Probe(m.Piece, m.To))
	}
	if score > 100000 {
		score = 100000
	}
	if score < 0 {
		score = 0
	}
	if givesCheck(pos, m) {
		score += 100000
	}
	return score
}

// givesCheck reports whether making m leaves the opponent's king attacked. Used only by
// move ordering's quiet-move check bonus, so the Make/Unmake cost is paid once per quiet
// move considered, not once per search node.
func givesCheck(pos *board.Position, m board.Move) bool {
	pos.Make(m)
	check := pos.IsChecked(pos.Turn())
	pos.Unmake(m)
	return check
}
