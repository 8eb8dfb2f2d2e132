package board

import "fmt"

// Kind classifies a move. It doubles as the 4-bit tag packed into a DenseMove.
type Kind uint8

const (
	Quiet Kind = iota
	DoublePush
	KingCastle
	QueenCastle
	EnPassant
	Capture
	KnightPromotion
	BishopPromotion
	RookPromotion
	QueenPromotion
	KnightPromotionCapture
	BishopPromotionCapture
	RookPromotionCapture
	QueenPromotionCapture
)

// IsCapture reports whether the move kind removes an enemy piece from the board.
func (k Kind) IsCapture() bool {
	switch k {
	case Capture, EnPassant, KnightPromotionCapture, BishopPromotionCapture, RookPromotionCapture, QueenPromotionCapture:
		return true
	default:
		return false
	}
}

// PromotionPiece returns the piece a pawn is promoted to for the given kind, if any.
func (k Kind) PromotionPiece() (Piece, bool) {
	switch k {
	case KnightPromotion, KnightPromotionCapture:
		return Knight, true
	case BishopPromotion, BishopPromotionCapture:
		return Bishop, true
	case RookPromotion, RookPromotionCapture:
		return Rook, true
	case QueenPromotion, QueenPromotionCapture:
		return Queen, true
	default:
		return NoPiece, false
	}
}

func (k Kind) String() string {
	switch k {
	case Quiet:
		return "quiet"
	case DoublePush:
		return "double-push"
	case KingCastle:
		return "O-O"
	case QueenCastle:
		return "O-O-O"
	case EnPassant:
		return "e.p."
	case Capture:
		return "capture"
	default:
		if p, ok := k.PromotionPiece(); ok {
			return "=" + p.String()
		}
		return "?"
	}
}

// Move represents a not-necessarily-legal move together with the metadata needed to
// make/unmake it and to feed move ordering. The Score field is transient scratch space
// written by the move-ordering pass; it is not part of move identity.
type Move struct {
	From, To  Square
	Piece     Piece // piece moving
	Promotion Piece // promoted-to piece, if any
	Capture   Piece // captured piece, if any
	Kind      Kind
	Score     Score
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "a2a4" or "a7a8q".
// The parsed move carries no contextual metadata (piece, capture, kind); callers must
// match it against a legal move list to recover that information before using it.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)

	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: '%v'", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid from: '%v': %v", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid to: '%v': %v", str, err)
	}

	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion: '%v'", str)
		}
		return Move{From: from, To: to, Promotion: promo}, nil
	}

	return Move{From: from, To: to}, nil
}

// effectivePromotion returns the piece this move promotes to, whether that was recorded
// in the Promotion field (moves parsed off the wire, via ParseMove) or in Kind (moves
// produced by move generation, which never sets Promotion).
func (m Move) effectivePromotion() Piece {
	if m.Promotion.IsValid() {
		return m.Promotion
	}
	if p, ok := m.Kind.PromotionPiece(); ok {
		return p
	}
	return NoPiece
}

// Equals compares move identity (origin, target, promotion piece), ignoring Score and
// any other derived metadata. Suitable for matching a wire move (Promotion set, Kind
// zero) against a generated legal move (Kind set, Promotion zero).
func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.effectivePromotion() == o.effectivePromotion()
}

func (m Move) String() string {
	if p := m.effectivePromotion(); p != NoPiece {
		return fmt.Sprintf("%v%v%v", m.From, m.To, p)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// DenseMove is a 16-bit packing of origin (6 bits), target (6 bits) and kind (4 bits),
// suitable for storage in a transposition-table slot. A packed move carries no piece or
// capture metadata: callers must re-validate it against the current legal move list
// before using it, since it may refer to a position other than the one it was read for.
type DenseMove uint16

// NoDenseMove (all bits set) is the sentinel for "no move stored".
const NoDenseMove DenseMove = 0xffff

// Pack compresses a move into its dense wire form.
func Pack(m Move) DenseMove {
	return DenseMove(uint16(m.From) | uint16(m.To)<<6 | uint16(m.Kind)<<12)
}

// Unpack expands a dense move back into origin, target and kind. The piece, capture and
// promotion-piece fields are not recoverable from the packed form alone.
func (d DenseMove) Unpack() (from, to Square, kind Kind) {
	return Square(d & 0x3f), Square((d >> 6) & 0x3f), Kind((d >> 12) & 0xf)
}

// Matches reports whether the packed move refers to the same origin/target/kind as m,
// which is how a stored hash move is re-validated against a freshly generated move list.
func (d DenseMove) Matches(m Move) bool {
	from, to, kind := d.Unpack()
	return from == m.From && to == m.To && kind == m.Kind
}
