package search

import (
	"context"

	"github.com/kestrelchess/kestrel/pkg/board"
)

// deltaMargin is the quiescence delta-pruning margin: a stand-pat score this far below
// alpha cannot be recovered by any single capture, so the node returns immediately
// without generating captures at all.
const deltaMargin board.Score = 900

// deltaMarginPromoting widens the margin when the side to move has a pawn on its
// seventh rank: such a pawn can promote next move, gaining far more than a queen's worth
// of material in one ply, so the usual margin would prune a position that is not
// actually quiet.
const deltaMarginPromoting board.Score = 1400

// quiescence resolves tactical noise at the leaves of the main search: it keeps playing
// captures (and, if in check, any evasion) until the position is "quiet", returning a
// stand-pat-bounded estimate of its value. Grounded on spec.md's quiescence description,
// generalizing the teacher's quiescence.go's stand-pat/cutoff shape with delta pruning
// and SEE-gated capture selection.
func (w *worker) quiescence(ctx context.Context, pos *board.Position, alpha, beta board.Score, ply int) board.Score {
	w.nodes++
	if w.outOfTime(ctx) {
		return alpha
	}
	if pos.IsDraw() {
		return w.drawScore(pos)
	}

	inCheck := pos.IsCheck()

	var standPat board.Score
	if !inCheck {
		standPat = w.evaluate(pos)
		if standPat >= beta {
			return standPat
		}

		margin := deltaMargin
		if hasSeventhRankPawn(pos) {
			margin = deltaMarginPromoting
		}
		if standPat+margin <= alpha {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	moves := w.quiescenceMoves(pos, inCheck)
	OrderMoves(pos, moves, board.Move{}, board.Move{}, ply, nil, nil, nil)

	turn := pos.Turn()
	legal := 0
	for _, m := range moves {
		if !inCheck {
			if !SeeGE(pos, m, 0) {
				continue
			}
			if !SeeGE(pos, m, int32(alpha-standPat)-100) {
				continue
			}
		}

		pos.Make(m)
		if pos.IsChecked(turn) {
			pos.Unmake(m)
			continue
		}
		legal++

		score := -w.quiescence(ctx, pos, -beta, -alpha, ply+1)
		pos.Unmake(m)

		if score > alpha {
			alpha = score
			if alpha >= beta {
				return alpha
			}
		}
	}

	if inCheck && legal == 0 {
		return board.MatedIn(ply)
	}
	return alpha
}

// quiescenceMoves returns every legal-or-pseudo-legal candidate quiescence should
// consider: all evasions when in check (mate must be detected exactly), otherwise only
// captures and promotions.
func (w *worker) quiescenceMoves(pos *board.Position, inCheck bool) []board.Move {
	all := pos.PseudoLegalMoves(pos.Turn())
	if inCheck {
		return all
	}

	moves := all[:0:0]
	for _, m := range all {
		if m.Kind.IsCapture() {
			moves = append(moves, m)
			continue
		}
		if _, ok := m.Kind.PromotionPiece(); ok {
			moves = append(moves, m)
		}
	}
	return moves
}

// hasSeventhRankPawn reports whether the side to move has a pawn on its seventh rank
// (the rank immediately before promotion, Rank7 for White, Rank2 for Black).
func hasSeventhRankPawn(pos *board.Position) bool {
	turn := pos.Turn()
	rank := board.Rank7
	if turn == board.Black {
		rank = board.Rank2
	}
	return pos.Pieces(turn, board.Pawn)&board.BitRank(rank) != 0
}
