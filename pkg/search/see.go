package search

import "github.com/kestrelchess/kestrel/pkg/board"

// SEE piece values are a fixed, small integer scale distinct from the evaluator's
// centipawn output: they only ever feed exchange arithmetic, never a score window.
const (
	seePawn   int32 = 100
	seeKnight int32 = 320
	seeBishop int32 = 350
	seeRook   int32 = 500
	seeQueen  int32 = 900
	seeKing   int32 = 1 << 20 // effectively MAX: a king is never actually captured
)

func seeValue(p board.Piece) int32 {
	switch p {
	case board.Pawn:
		return seePawn
	case board.Knight:
		return seeKnight
	case board.Bishop:
		return seeBishop
	case board.Rook:
		return seeRook
	case board.Queen:
		return seeQueen
	case board.King:
		return seeKing
	default:
		return 0
	}
}

// See computes the static exchange evaluation of m: the net material swing, from the
// mover's point of view, after both sides trade off on the target square optimally,
// assuming either side may stop trading (decline to recapture) whenever it prefers to.
// Grounded on the teacher's eval.FindCapture attacker-scan idea, generalized into the
// standard swap-off algorithm (see https://www.chessprogramming.org/SEE_-_The_Swap_Algorithm).
func See(pos *board.Position, m board.Move) int32 {
	to := m.To
	occ := pos.All()

	if m.Kind == board.EnPassant {
		captureSq, _ := board.EnPassantCaptureSquare(pos.Turn(), to)
		occ &^= board.BitMask(captureSq)
	}

	var gain [32]int32
	gain[0] = seeValue(m.Capture)

	attackerSq := m.From
	attackerPiece := m.Piece
	side := pos.Turn()

	d := 0
	for {
		d++
		gain[d] = seeValue(attackerPiece) - gain[d-1]

		occ &^= board.BitMask(attackerSq)
		side = side.Opponent()

		attackers := pos.AttackersTo(to, board.NewRotatedBitboard(occ)) & occ & pos.Occupied(side)
		if attackers == 0 || d >= len(gain)-1 {
			break
		}
		attackerSq, attackerPiece = leastValuableAttacker(pos, attackers)
	}

	// gain[d] is speculative (no piece was left to make that capture), so the negamax
	// fold starts from gain[d-1].
	for d--; d > 0; d-- {
		if s := -gain[d]; s < gain[d-1] {
			gain[d-1] = s
		}
	}
	return gain[0]
}

// leastValuableAttacker returns the square and type of the cheapest piece in attackers.
func leastValuableAttacker(pos *board.Position, attackers board.Bitboard) (board.Square, board.Piece) {
	for piece := board.Pawn; piece <= board.King; piece++ {
		if bb := attackers & (pos.Pieces(board.White, piece) | pos.Pieces(board.Black, piece)); bb != 0 {
			return bb.LastPopSquare(), piece
		}
	}
	panic("search: leastValuableAttacker called with no attackers")
}

// SeeGE reports whether the exchange initiated by m clears threshold centipawns for the
// side to move, without always walking the full swap: the best possible case (winning
// the initial capture outright) and the worst possible case (immediately losing the
// capturing piece for nothing) both bound the exact value, so either can short-circuit
// before the full exchange is computed.
func SeeGE(pos *board.Position, m board.Move, threshold int32) bool {
	if !m.Kind.IsCapture() {
		return 0 >= threshold
	}

	upperBound := seeValue(m.Capture)
	if upperBound < threshold {
		return false
	}

	lowerBound := upperBound - seeValue(m.Piece)
	if lowerBound >= threshold {
		return true
	}

	return See(pos, m) >= threshold
}
