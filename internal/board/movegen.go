package board

// Move generation. PseudoLegalMoves emits every move that obeys
// piece movement rules but may expose the mover's own king; callers
// that make/unmake anyway (search, perft) test legality with
// MovedIntoCheck after applying the move. LegalMoves does that
// filtering internally.

// PseudoLegalMoves appends all pseudo-legal moves for the side to
// move. Castling moves are emitted fully legal: blocked or
// through-check castles are never generated.
func (p *Position) PseudoLegalMoves(ml *MoveList) {
	p.genPawnMoves(ml, false)
	p.genPieceMoves(ml, ^p.colors[p.turn])
	p.genCastles(ml)
}

// NoisyMoves appends pseudo-legal captures and queen promotions, the
// move set quiescence search expands.
func (p *Position) NoisyMoves(ml *MoveList) {
	p.genPawnMoves(ml, true)
	p.genPieceMoves(ml, p.colors[p.turn.Opponent()])
}

// LegalMoves appends every strictly legal move.
func (p *Position) LegalMoves(ml *MoveList) {
	var pseudo MoveList
	p.PseudoLegalMoves(&pseudo)
	for _, m := range pseudo.All() {
		u := p.MakeMove(m)
		if !p.MovedIntoCheck() {
			ml.Push(m)
		}
		p.UnmakeMove(m, u)
	}
}

// MovedIntoCheck reports whether the side that just moved left its
// king attacked, making the prior move illegal.
func (p *Position) MovedIntoCheck() bool {
	mover := p.turn.Opponent()
	return p.Attacked(p.KingSquare(mover), p.turn)
}

// genPieceMoves emits knight, slider, and king moves into targets.
// Pass ^own for all moves or enemy occupancy for captures only.
func (p *Position) genPieceMoves(ml *MoveList, targets Bitboard) {
	us := p.turn
	own := p.colors[us]
	occ := p.Occupied()
	enemy := p.colors[us.Opponent()]
	targets &^= own

	emit := func(from Square, attacks Bitboard) {
		for attacks != 0 {
			to := attacks.NextSquare()
			if enemy.Has(to) {
				ml.Push(CaptureMove(from, to))
			} else {
				ml.Push(QuietMove(from, to))
			}
		}
	}

	for b := p.PiecesOf(us, Knight); b != 0; {
		from := b.NextSquare()
		emit(from, KnightAttacks(from)&targets)
	}
	for b := p.PiecesOf(us, Bishop); b != 0; {
		from := b.NextSquare()
		emit(from, BishopAttacks(from, occ)&targets)
	}
	for b := p.PiecesOf(us, Rook); b != 0; {
		from := b.NextSquare()
		emit(from, RookAttacks(from, occ)&targets)
	}
	for b := p.PiecesOf(us, Queen); b != 0; {
		from := b.NextSquare()
		emit(from, QueenAttacks(from, occ)&targets)
	}
	emit(p.KingSquare(us), KingAttacks(p.KingSquare(us))&targets)
}

// genPawnMoves emits pawn moves set-wise. With noisyOnly, quiet
// pushes are skipped and only queen promotions are kept.
func (p *Position) genPawnMoves(ml *MoveList, noisyOnly bool) {
	us := p.turn
	them := us.Opponent()
	pawns := p.PiecesOf(us, Pawn)
	empty := ^p.Occupied()
	enemy := p.colors[them]

	var one, two, capsE, capsW Bitboard
	var up, upE, upW int
	var promoRank Bitboard
	if us == White {
		up, upE, upW = 8, 9, 7
		one = pawns.North() & empty
		two = (one & Rank3).North() & empty
		capsE = pawns.NorthEast() & enemy
		capsW = pawns.NorthWest() & enemy
		promoRank = Rank8
	} else {
		up, upE, upW = -8, -7, -9
		one = pawns.South() & empty
		two = (one & Rank6).South() & empty
		capsE = pawns.SouthEast() & enemy
		capsW = pawns.SouthWest() & enemy
		promoRank = Rank1
	}

	pushPromotions := func(from, to Square, capture bool) {
		for _, pt := range [...]PieceType{Queen, Rook, Bishop, Knight} {
			ml.Push(PromotionMove(from, to, pt, capture))
			if noisyOnly {
				break // queen promotion only
			}
		}
	}

	for b := capsE; b != 0; {
		to := b.NextSquare()
		from := Square(int(to) - upE)
		if promoRank.Has(to) {
			pushPromotions(from, to, true)
		} else {
			ml.Push(CaptureMove(from, to))
		}
	}
	for b := capsW; b != 0; {
		to := b.NextSquare()
		from := Square(int(to) - upW)
		if promoRank.Has(to) {
			pushPromotions(from, to, true)
		} else {
			ml.Push(CaptureMove(from, to))
		}
	}

	if p.epSquare != NoSquare {
		// Any of our pawns attacking the target can capture en passant.
		for b := PawnCaptures(them, p.epSquare) & pawns; b != 0; {
			from := b.NextSquare()
			ml.Push(EnPassantMove(from, p.epSquare))
		}
	}

	for b := one & promoRank; b != 0; {
		to := b.NextSquare()
		pushPromotions(Square(int(to)-up), to, false)
	}

	if noisyOnly {
		return
	}

	for b := one &^ promoRank; b != 0; {
		to := b.NextSquare()
		ml.Push(QuietMove(Square(int(to)-up), to))
	}
	for b := two; b != 0; {
		to := b.NextSquare()
		ml.Push(DoublePushMove(Square(int(to)-2*up), to))
	}
}

// genCastles emits castling moves that are legal outright: rights
// held, path empty, and neither the king's square nor the squares it
// crosses attacked.
func (p *Position) genCastles(ml *MoveList) {
	us := p.turn
	them := us.Opponent()
	occ := p.Occupied()

	type castle struct {
		right    CastlingRights
		from, to Square
		empty    Bitboard // squares that must be vacant
		safe     [2]Square // squares the king crosses, excluding from
	}
	var candidates [2]castle
	if us == White {
		candidates = [2]castle{
			{WhiteKingside, E1, G1, Bit(F1) | Bit(G1), [2]Square{F1, G1}},
			{WhiteQueenside, E1, C1, Bit(B1) | Bit(C1) | Bit(D1), [2]Square{D1, C1}},
		}
	} else {
		candidates = [2]castle{
			{BlackKingside, E8, G8, Bit(F8) | Bit(G8), [2]Square{F8, G8}},
			{BlackQueenside, E8, C8, Bit(B8) | Bit(C8) | Bit(D8), [2]Square{D8, C8}},
		}
	}

	for _, c := range candidates {
		if p.castling&c.right == 0 || occ&c.empty != 0 {
			continue
		}
		if p.Attacked(c.from, them) || p.Attacked(c.safe[0], them) || p.Attacked(c.safe[1], them) {
			continue
		}
		ml.Push(CastleMove(c.from, c.to))
	}
}

// HasLegalMove reports whether the side to move has any legal move,
// without materializing the full list.
func (p *Position) HasLegalMove() bool {
	var pseudo MoveList
	p.PseudoLegalMoves(&pseudo)
	for _, m := range pseudo.All() {
		u := p.MakeMove(m)
		legal := !p.MovedIntoCheck()
		p.UnmakeMove(m, u)
		if legal {
			return true
		}
	}
	return false
}

// IsCheckmate reports whether the side to move is in check with no
// legal reply.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMove()
}

// IsStalemate reports whether the side to move has no legal move but
// is not in check.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMove()
}

// Perft counts leaf nodes of the legal move tree to the given depth.
func (p *Position) Perft(depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var ml MoveList
	p.PseudoLegalMoves(&ml)
	var nodes uint64
	for _, m := range ml.All() {
		u := p.MakeMove(m)
		if !p.MovedIntoCheck() {
			if depth == 1 {
				nodes++
			} else {
				nodes += p.Perft(depth - 1)
			}
		}
		p.UnmakeMove(m, u)
	}
	return nodes
}
