package board

import "fmt"

// Move packs a move into 32 bits:
//
//	bits 0-5    from square
//	bits 6-11   to square
//	bits 12-14  promotion piece type, NoPieceType when none
//	bit 16      capture
//	bit 17      en passant capture
//	bit 18      kingside castle
//	bit 19      queenside castle
//	bit 20      double pawn push
//
// The promoted-to field defaults to NoPieceType so the zero value is
// never a legal move; NullMove is reserved as the "no move" marker.
type Move uint32

const (
	flagCapture    Move = 1 << 16
	flagEnPassant  Move = 1 << 17
	flagCastleKing Move = 1 << 18
	flagCastleQsd  Move = 1 << 19
	flagDoublePush Move = 1 << 20
)

// NullMove is the absent-move marker.
const NullMove Move = 0

func newMove(from, to Square, promo PieceType, flags Move) Move {
	return Move(from) | Move(to)<<6 | Move(promo)<<12 | flags
}

// QuietMove builds a non-capturing, non-special move.
func QuietMove(from, to Square) Move {
	return newMove(from, to, NoPieceType, 0)
}

// CaptureMove builds a plain capture.
func CaptureMove(from, to Square) Move {
	return newMove(from, to, NoPieceType, flagCapture)
}

// PromotionMove builds a promotion, capturing when capture is set.
func PromotionMove(from, to Square, promo PieceType, capture bool) Move {
	flags := Move(0)
	if capture {
		flags = flagCapture
	}
	return newMove(from, to, promo, flags)
}

// EnPassantMove builds an en passant capture.
func EnPassantMove(from, to Square) Move {
	return newMove(from, to, NoPieceType, flagCapture|flagEnPassant)
}

// CastleMove builds a castling move given the king's from/to squares.
func CastleMove(from, to Square) Move {
	if to.File() > from.File() {
		return newMove(from, to, NoPieceType, flagCastleKing)
	}
	return newMove(from, to, NoPieceType, flagCastleQsd)
}

// DoublePushMove builds a two-square pawn advance.
func DoublePushMove(from, to Square) Move {
	return newMove(from, to, NoPieceType, flagDoublePush)
}

// From returns the origin square.
func (m Move) From() Square { return Square(m & 0x3F) }

// To returns the destination square.
func (m Move) To() Square { return Square(m >> 6 & 0x3F) }

// Promotion returns the promoted-to piece type, or NoPieceType.
func (m Move) Promotion() PieceType { return PieceType(m >> 12 & 7) }

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool { return m.Promotion() != NoPieceType }

// IsCapture reports whether the move removes an enemy piece,
// including en passant.
func (m Move) IsCapture() bool { return m&flagCapture != 0 }

// IsEnPassant reports whether the move is an en passant capture.
func (m Move) IsEnPassant() bool { return m&flagEnPassant != 0 }

// IsCastle reports whether the move castles.
func (m Move) IsCastle() bool { return m&(flagCastleKing|flagCastleQsd) != 0 }

// IsKingsideCastle reports whether the move castles short.
func (m Move) IsKingsideCastle() bool { return m&flagCastleKing != 0 }

// IsDoublePush reports whether the move is a two-square pawn advance.
func (m Move) IsDoublePush() bool { return m&flagDoublePush != 0 }

// IsQuiet reports whether the move is neither a capture nor a
// promotion.
func (m Move) IsQuiet() bool { return !m.IsCapture() && !m.IsPromotion() }

// String formats the move in long algebraic (UCI) form, e.g. "e2e4"
// or "e7e8q". NullMove renders as "0000".
func (m Move) String() string {
	if m == NullMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string("nbrq"[m.Promotion()-Knight])
	}
	return s
}

// ParseUCIMove resolves a long-algebraic move string against the
// legal moves of pos, so flags and promotion come out exactly as the
// generator produced them. Returns an error for syntax problems or
// moves that are not legal in pos.
func ParseUCIMove(pos *Position, s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NullMove, fmt.Errorf("invalid move %q", s)
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return NullMove, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NullMove, err
	}
	promo := NoPieceType
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NullMove, fmt.Errorf("invalid promotion piece %q", s[4])
		}
	}

	var list MoveList
	pos.LegalMoves(&list)
	for _, m := range list.All() {
		if m.From() == from && m.To() == to && m.Promotion() == promo {
			return m, nil
		}
	}
	return NullMove, fmt.Errorf("illegal move %q", s)
}

// MoveList is a fixed-capacity move buffer. 256 exceeds the maximum
// number of moves in any reachable chess position.
type MoveList struct {
	moves [256]Move
	n     int
}

// Push appends a move.
func (ml *MoveList) Push(m Move) {
	ml.moves[ml.n] = m
	ml.n++
}

// Len returns the number of stored moves.
func (ml *MoveList) Len() int { return ml.n }

// At returns the move at index i.
func (ml *MoveList) At(i int) Move { return ml.moves[i] }

// Swap exchanges the moves at i and j.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Reset empties the list without releasing the buffer.
func (ml *MoveList) Reset() { ml.n = 0 }

// All returns the stored moves as a slice backed by the buffer.
func (ml *MoveList) All() []Move { return ml.moves[:ml.n] }

// Contains reports whether m is in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.n; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}
