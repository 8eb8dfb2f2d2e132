package nnue

import "github.com/kestrelchess/kestrel/pkg/board"

// Network architecture constants: a flat, king-independent feature vector (6 piece
// types, including the king, x 64 squares) from each side's own viewpoint, concatenated
// with the same encoded from the opponent's pieces to form one 768-wide accumulator
// input per perspective.
const (
	NumPieceKinds = int(board.King-board.Pawn) + 1 // Pawn..King = 6
	NumSquares    = 64

	FeatureCount  = NumPieceKinds * NumSquares // 384
	AccInputSize  = 2 * FeatureCount           // 768: own pieces then opponent pieces
	AccSize       = 128
	HiddenSize    = 64
	ConcatAccSize = 2 * AccSize // 256: side-to-move lanes then opponent lanes
)

// viewSquare mirrors sq vertically for Black's perspective, so both colours "see" the
// board the same way: rank 1 always nearest the viewer.
func viewSquare(perspective board.Color, sq board.Square) board.Square {
	if perspective == board.Black {
		return sq.Mirror()
	}
	return sq
}

// featureIndex returns the 0..383 index for one (piece kind, viewer-relative square)
// pair.
func featureIndex(piece board.Piece, viewSq board.Square) int {
	return int(piece-board.Pawn)*NumSquares + int(viewSq)
}

// pieceFeature returns the full 0..767 accumulator-input index for a piece of the given
// colour as seen by perspective: indices [0,FeatureCount) are the perspective's own
// pieces, [FeatureCount,AccInputSize) are the opponent's.
func pieceFeature(perspective board.Color, piece board.Piece, color board.Color, sq board.Square) int {
	idx := featureIndex(piece, viewSquare(perspective, sq))
	if color != perspective {
		idx += FeatureCount
	}
	return idx
}

// activeFeatures returns every active accumulator-input index for the position, from
// both perspectives, used to build an accumulator from scratch.
func activeFeatures(pos *board.Position) (white, black []int) {
	white = make([]int, 0, 32)
	black = make([]int, 0, 32)

	for c := board.ZeroColor; c < board.NumColors; c++ {
		for piece := board.Pawn; piece <= board.King; piece++ {
			for bb := pos.Pieces(c, piece); bb != 0; {
				sq := bb.LastPopSquare()
				bb &^= board.BitMask(sq)

				white = append(white, pieceFeature(board.White, piece, c, sq))
				black = append(black, pieceFeature(board.Black, piece, c, sq))
			}
		}
	}
	return white, black
}

// featureDiff is one move's added and removed accumulator-input indices, from one
// perspective.
type featureDiff struct {
	add []int
	rem []int
}

// changedFeatures computes the feature deltas induced by a move, from both
// perspectives. Since feature indices no longer depend on either king's square, every
// move, including a king move, is handled as an incremental diff; there is no
// full-refresh fallback.
func changedFeatures(mover board.Color, m board.Move) (white, black featureDiff) {
	arriving := m.Piece
	if promo, ok := m.Kind.PromotionPiece(); ok {
		arriving = promo
	}

	remove := func(piece board.Piece, color board.Color, sq board.Square) {
		white.rem = append(white.rem, pieceFeature(board.White, piece, color, sq))
		black.rem = append(black.rem, pieceFeature(board.Black, piece, color, sq))
	}
	add := func(piece board.Piece, color board.Color, sq board.Square) {
		white.add = append(white.add, pieceFeature(board.White, piece, color, sq))
		black.add = append(black.add, pieceFeature(board.Black, piece, color, sq))
	}

	remove(m.Piece, mover, m.From)
	add(arriving, mover, m.To)

	if m.Kind.IsCapture() {
		capSq := m.To
		if m.Kind == board.EnPassant {
			capSq, _ = board.EnPassantCaptureSquare(mover, m.To)
		}
		remove(m.Capture, mover.Opponent(), capSq)
	}

	switch m.Kind {
	case board.KingCastle, board.QueenCastle:
		from, to := board.CastlingRookMove(mover, m.Kind)
		remove(board.Rook, mover, from)
		add(board.Rook, mover, to)
	}

	return white, black
}
