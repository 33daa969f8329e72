package board

// Book hashing in the Polyglot style: a separate 781-key table over
// piece placement, castling rights, a capturable en passant file, and
// the side to move. Kept apart from the search hash so book files
// and the transposition table never share key material.

const (
	bookPieceKeyCount   = 12 * 64
	bookCastleKeyOffset = bookPieceKeyCount
	bookEPKeyOffset     = bookCastleKeyOffset + 4
	bookSideKeyOffset   = bookEPKeyOffset + 8
	bookKeyCount        = bookSideKeyOffset + 1
)

var bookKeys [bookKeyCount]uint64

func init() {
	g := keyGen(0x37B4A4B3F0D1C0D0)
	for i := range bookKeys {
		bookKeys[i] = g.next()
	}
}

// bookPieceRow maps a piece to its key row in "black first" order:
// bp bn bb br bq bk wp wn wb wr wq wk.
func bookPieceRow(pc Piece) int {
	row := int(pc.Type())
	if pc.Color() == White {
		row += 6
	}
	return row
}

// BookHash returns the opening-book key for the position. The en
// passant file is hashed only when a pawn of the side to move
// actually stands ready to capture, matching book conventions.
func (p *Position) BookHash() uint64 {
	var h uint64
	for sq := A1; sq <= H8; sq++ {
		if pc := p.board[sq]; pc != NoPiece {
			h ^= bookKeys[bookPieceRow(pc)*64+int(sq)]
		}
	}
	for i := 0; i < 4; i++ {
		if p.castling&(1<<i) != 0 {
			h ^= bookKeys[bookCastleKeyOffset+i]
		}
	}
	if p.epSquare != NoSquare {
		if PawnCaptures(p.turn.Opponent(), p.epSquare)&p.PiecesOf(p.turn, Pawn) != 0 {
			h ^= bookKeys[bookEPKeyOffset+p.epSquare.File()]
		}
	}
	if p.turn == White {
		h ^= bookKeys[bookSideKeyOffset]
	}
	return h
}
