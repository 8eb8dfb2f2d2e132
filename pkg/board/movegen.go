package board

// This file generates moves directly off the Position's bitboards and rotated occupancy.
// The spec treats move generation as an external oracle, but nothing else in this module
// can supply it, so Position owns it: PseudoLegalMoves produces every move that obeys
// piece movement rules without regard to whether it leaves the mover's own king in check;
// LegalMoves filters that down with a make/Unmake probe.

// PseudoLegalMoves returns every pseudo-legal move for the given side, grouped by piece in
// a fixed order: pawns, knights, bishops, rooks, queens, king, then castling. Within a
// piece's group, captures and quiet moves are not separated.
func (p *Position) PseudoLegalMoves(turn Color) []Move {
	var moves []Move

	moves = p.genPawnMoves(turn, moves)
	moves = p.genOfficerMoves(turn, Knight, moves)
	moves = p.genOfficerMoves(turn, Bishop, moves)
	moves = p.genOfficerMoves(turn, Rook, moves)
	moves = p.genOfficerMoves(turn, Queen, moves)
	moves = p.genOfficerMoves(turn, King, moves)
	moves = p.genCastlingMoves(turn, moves)

	return moves
}

// LegalMoves filters PseudoLegalMoves down to moves that do not leave the mover's own
// king in check. It probes each candidate with Make/Unmake, so it is considerably more
// expensive than PseudoLegalMoves; callers on a hot path (the main search) should instead
// generate pseudo-legal moves and reject illegal ones after Make via IsChecked.
func (p *Position) LegalMoves() []Move {
	turn := p.turn
	candidates := p.PseudoLegalMoves(turn)

	var legal []Move
	for _, m := range candidates {
		p.Make(m)
		ok := !p.IsChecked(turn)
		p.Unmake(m)
		if ok {
			legal = append(legal, m)
		}
	}
	return legal
}

func (p *Position) genOfficerMoves(turn Color, piece Piece, moves []Move) []Move {
	own := p.occupied[turn]
	opp := p.occupied[turn.Opponent()]

	for from := p.pieces[turn][piece]; from != 0; {
		sq := from.LastPopSquare()
		from &^= BitMask(sq)

		targets := Attackboard(p.rotated, sq, piece) &^ own
		for t := targets; t != 0; {
			to := t.LastPopSquare()
			t &^= BitMask(to)

			if opp.IsSet(to) {
				_, capture, _ := p.Square(to)
				moves = append(moves, Move{From: sq, To: to, Piece: piece, Capture: capture, Kind: Capture})
			} else {
				moves = append(moves, Move{From: sq, To: to, Piece: piece, Kind: Quiet})
			}
		}
	}
	return moves
}

func (p *Position) genPawnMoves(turn Color, moves []Move) []Move {
	all := p.All()
	opp := p.occupied[turn.Opponent()]
	promoRank := PawnPromotionRank(turn)

	for from := p.pieces[turn][Pawn]; from != 0; {
		sq := from.LastPopSquare()
		from &^= BitMask(sq)
		sqMask := BitMask(sq)

		// Single push.
		single := PawnMoveboard(all, turn, sqMask)
		if single != 0 {
			to := single.LastPopSquare()
			moves = appendPawnAdvance(moves, sq, to, promoRank)

			// Double push from the start rank, only if the single-push square is clear.
			if (turn == White && sq.Rank() == Rank2) || (turn == Black && sq.Rank() == Rank7) {
				double := PawnMoveboard(all, turn, single)
				if double != 0 {
					moves = append(moves, Move{From: sq, To: double.LastPopSquare(), Piece: Pawn, Kind: DoublePush})
				}
			}
		}

		// Captures, including en passant.
		targets := PawnCaptureboard(turn, sqMask)
		for t := targets & opp; t != 0; {
			to := t.LastPopSquare()
			t &^= BitMask(to)

			_, capture, _ := p.Square(to)
			if BitMask(to)&promoRank != 0 {
				moves = appendPromotionCaptures(moves, sq, to, capture)
			} else {
				moves = append(moves, Move{From: sq, To: to, Piece: Pawn, Capture: capture, Kind: Capture})
			}
		}
		if ep, ok := p.EnPassant(); ok && targets.IsSet(ep) {
			moves = append(moves, Move{From: sq, To: ep, Piece: Pawn, Capture: Pawn, Kind: EnPassant})
		}
	}
	return moves
}

func appendPawnAdvance(moves []Move, from, to Square, promoRank Bitboard) []Move {
	if BitMask(to)&promoRank != 0 {
		moves = append(moves,
			Move{From: from, To: to, Piece: Pawn, Kind: QueenPromotion},
			Move{From: from, To: to, Piece: Pawn, Kind: RookPromotion},
			Move{From: from, To: to, Piece: Pawn, Kind: KnightPromotion},
			Move{From: from, To: to, Piece: Pawn, Kind: BishopPromotion},
		)
		return moves
	}
	return append(moves, Move{From: from, To: to, Piece: Pawn, Kind: Quiet})
}

func appendPromotionCaptures(moves []Move, from, to Square, capture Piece) []Move {
	return append(moves,
		Move{From: from, To: to, Piece: Pawn, Capture: capture, Kind: QueenPromotionCapture},
		Move{From: from, To: to, Piece: Pawn, Capture: capture, Kind: RookPromotionCapture},
		Move{From: from, To: to, Piece: Pawn, Capture: capture, Kind: KnightPromotionCapture},
		Move{From: from, To: to, Piece: Pawn, Capture: capture, Kind: BishopPromotionCapture},
	)
}

func (p *Position) genCastlingMoves(turn Color, moves []Move) []Move {
	all := p.All()

	tryCastle := func(kind Kind, right Castling) []Move {
		if !p.castling.IsAllowed(right) {
			return moves
		}
		empty, unattacked := CastlingTransitSquares(turn, kind)
		if all&empty != 0 {
			return moves
		}
		for b := unattacked; b != 0; {
			sq := b.LastPopSquare()
			b &^= BitMask(sq)
			if p.IsAttacked(turn, sq) {
				return moves
			}
		}
		from, to := CastlingKingSquares(turn, kind)
		moves = append(moves, Move{From: from, To: to, Piece: King, Kind: kind})
		return moves
	}

	moves = tryCastle(KingCastle, KingSide(turn))
	moves = tryCastle(QueenCastle, QueenSide(turn))
	return moves
}
