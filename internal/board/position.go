package board

import (
	"fmt"
	"strings"
)

// CastlingRights is a bit set of the four castling permissions.
type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  CastlingRights = 0
	AllCastling CastlingRights = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, ch := range []byte("KQkq") {
		if cr&(1<<i) != 0 {
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

// rightsMask[sq] is ANDed into the castling rights whenever a move
// touches sq. Moves that never touch a king or rook home square
// leave the rights alone.
var rightsMask = func() [64]CastlingRights {
	var m [64]CastlingRights
	for sq := range m {
		m[sq] = AllCastling
	}
	m[E1] = AllCastling &^ (WhiteKingside | WhiteQueenside)
	m[H1] = AllCastling &^ WhiteKingside
	m[A1] = AllCastling &^ WhiteQueenside
	m[E8] = AllCastling &^ (BlackKingside | BlackQueenside)
	m[H8] = AllCastling &^ BlackKingside
	m[A8] = AllCastling &^ BlackQueenside
	return m
}()

// Position holds a full game state: piece placement kept three ways
// (per-type bitboards, per-color occupancy, and a square-indexed
// mailbox), plus the side to move, castling rights, en passant
// target, move clocks, the incrementally maintained Zobrist hash,
// and the hash trail of earlier positions for repetition detection.
type Position struct {
	pieces   [6]Bitboard
	colors   [2]Bitboard
	board    [64]Piece
	turn     Color
	castling CastlingRights
	epSquare Square
	halfmove int
	fullmove int
	hash     uint64
	history  []uint64
}

// Undo captures the irreversible parts of a position before a move
// so UnmakeMove can restore them exactly.
type Undo struct {
	Captured   Piece
	CapturedSq Square
	Castling   CastlingRights
	EnPassant  Square
	HalfMove   int
	Hash       uint64
}

// StartingPosition returns the standard initial position.
func StartingPosition() *Position {
	p, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return p
}

// Clone returns an independent copy of the position.
func (p *Position) Clone() *Position {
	q := *p
	q.history = append([]uint64(nil), p.history...)
	return &q
}

// SideToMove returns the color whose turn it is.
func (p *Position) SideToMove() Color { return p.turn }

// Hash returns the position's Zobrist key.
func (p *Position) Hash() uint64 { return p.hash }

// Castling returns the current castling rights.
func (p *Position) Castling() CastlingRights { return p.castling }

// EnPassantTarget returns the en passant target square, or NoSquare.
func (p *Position) EnPassantTarget() Square { return p.epSquare }

// HalfMoveClock returns the number of plies since the last capture
// or pawn move.
func (p *Position) HalfMoveClock() int { return p.halfmove }

// FullMoveNumber returns the one-based full move counter.
func (p *Position) FullMoveNumber() int { return p.fullmove }

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece { return p.board[sq] }

// PiecesOf returns the squares holding pieces of the given color and
// type.
func (p *Position) PiecesOf(c Color, pt PieceType) Bitboard {
	return p.pieces[pt] & p.colors[c]
}

// ByType returns the squares holding pieces of type pt, both colors.
func (p *Position) ByType(pt PieceType) Bitboard { return p.pieces[pt] }

// ByColor returns the squares occupied by color c.
func (p *Position) ByColor(c Color) Bitboard { return p.colors[c] }

// Occupied returns all occupied squares.
func (p *Position) Occupied() Bitboard { return p.colors[White] | p.colors[Black] }

// KingSquare returns the square of c's king.
func (p *Position) KingSquare(c Color) Square {
	return (p.pieces[King] & p.colors[c]).First()
}

// InCheck reports whether the side to move's king is attacked.
func (p *Position) InCheck() bool {
	return p.Attacked(p.KingSquare(p.turn), p.turn.Opponent())
}

func (p *Position) put(pc Piece, sq Square) {
	b := Bit(sq)
	p.pieces[pc.Type()] |= b
	p.colors[pc.Color()] |= b
	p.board[sq] = pc
	p.hash ^= pieceKey(pc, sq)
}

func (p *Position) remove(sq Square) {
	pc := p.board[sq]
	b := Bit(sq)
	p.pieces[pc.Type()] &^= b
	p.colors[pc.Color()] &^= b
	p.board[sq] = NoPiece
	p.hash ^= pieceKey(pc, sq)
}

func (p *Position) shift(from, to Square) {
	pc := p.board[from]
	b := Bit(from) | Bit(to)
	p.pieces[pc.Type()] ^= b
	p.colors[pc.Color()] ^= b
	p.board[from] = NoPiece
	p.board[to] = pc
	p.hash ^= pieceKey(pc, from) ^ pieceKey(pc, to)
}

// MakeMove applies m, which must be pseudo-legal in p, and returns
// the undo record for UnmakeMove. The Zobrist hash, clocks, castling
// rights, and en passant state are all maintained incrementally.
func (p *Position) MakeMove(m Move) Undo {
	u := Undo{
		Captured:   NoPiece,
		CapturedSq: NoSquare,
		Castling:   p.castling,
		EnPassant:  p.epSquare,
		HalfMove:   p.halfmove,
		Hash:       p.hash,
	}
	from, to := m.From(), m.To()
	us := p.turn

	if p.epSquare != NoSquare {
		p.hash ^= epFileKeys[p.epSquare.File()]
		p.epSquare = NoSquare
	}
	p.halfmove++

	if m.IsCapture() {
		capSq := to
		if m.IsEnPassant() {
			if us == White {
				capSq = to - 8
			} else {
				capSq = to + 8
			}
		}
		u.Captured = p.board[capSq]
		u.CapturedSq = capSq
		p.remove(capSq)
		p.halfmove = 0
	}

	p.shift(from, to)

	switch {
	case m.IsPromotion():
		p.remove(to)
		p.put(MakePiece(m.Promotion(), us), to)
		p.halfmove = 0
	case m.IsDoublePush():
		p.epSquare = Square((int(from) + int(to)) / 2)
		p.hash ^= epFileKeys[p.epSquare.File()]
		p.halfmove = 0
	case m.IsCastle():
		rookFrom, rookTo := rookCastleSquares(to)
		p.shift(rookFrom, rookTo)
	default:
		if p.board[to].Type() == Pawn {
			p.halfmove = 0
		}
	}

	p.hash ^= castlingKeys[p.castling]
	p.castling &= rightsMask[from] & rightsMask[to]
	p.hash ^= castlingKeys[p.castling]

	p.turn = us.Opponent()
	p.hash ^= sideKey
	if us == Black {
		p.fullmove++
	}
	p.history = append(p.history, p.hash)
	return u
}

// UnmakeMove reverses m using the record returned by its MakeMove.
func (p *Position) UnmakeMove(m Move, u Undo) {
	p.history = p.history[:len(p.history)-1]
	them := p.turn
	us := them.Opponent()
	from, to := m.From(), m.To()

	if m.IsPromotion() {
		p.remove(to)
		p.put(MakePiece(Pawn, us), to)
	}
	p.shift(to, from)
	if m.IsCastle() {
		rookFrom, rookTo := rookCastleSquares(to)
		p.shift(rookTo, rookFrom)
	}
	if u.Captured != NoPiece {
		p.put(u.Captured, u.CapturedSq)
	}

	p.turn = us
	if us == Black {
		p.fullmove--
	}
	p.castling = u.Castling
	p.epSquare = u.EnPassant
	p.halfmove = u.HalfMove
	p.hash = u.Hash
}

// rookCastleSquares maps the king's castling destination to the
// rook's from/to squares.
func rookCastleSquares(kingTo Square) (Square, Square) {
	switch kingTo {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	default: // C8
		return A8, D8
	}
}

// MakeNullMove passes the turn without moving, for null-move search.
func (p *Position) MakeNullMove() Undo {
	u := Undo{
		Captured:   NoPiece,
		CapturedSq: NoSquare,
		Castling:   p.castling,
		EnPassant:  p.epSquare,
		HalfMove:   p.halfmove,
		Hash:       p.hash,
	}
	if p.epSquare != NoSquare {
		p.hash ^= epFileKeys[p.epSquare.File()]
		p.epSquare = NoSquare
	}
	p.turn = p.turn.Opponent()
	p.hash ^= sideKey
	p.history = append(p.history, p.hash)
	return u
}

// UnmakeNullMove reverses MakeNullMove.
func (p *Position) UnmakeNullMove(u Undo) {
	p.history = p.history[:len(p.history)-1]
	p.turn = p.turn.Opponent()
	p.epSquare = u.EnPassant
	p.hash = u.Hash
}

// IsRepetition reports whether the current position's key already
// occurred since the last irreversible move. A single recurrence is
// enough for search purposes.
func (p *Position) IsRepetition() bool {
	n := len(p.history)
	// Only positions within the halfmove window can repeat, and only
	// those with the same side to move.
	for i := n - 3; i >= n-1-p.halfmove && i >= 0; i -= 2 {
		if p.history[i] == p.hash {
			return true
		}
	}
	return false
}

// Repetitions counts occurrences of the current position since the
// last irreversible move, this one included. Game-over adjudication
// wants the full threefold count; the search settles for
// IsRepetition.
func (p *Position) Repetitions() int {
	n := len(p.history)
	count := 1
	for i := n - 3; i >= n-1-p.halfmove && i >= 0; i -= 2 {
		if p.history[i] == p.hash {
			count++
		}
	}
	return count
}

// IsFiftyMoveDraw reports whether the fifty-move rule applies.
func (p *Position) IsFiftyMoveDraw() bool { return p.halfmove >= 100 }

// IsInsufficientMaterial reports whether neither side can deliver
// mate: bare kings, or a lone minor piece against a bare king.
func (p *Position) IsInsufficientMaterial() bool {
	if p.pieces[Pawn]|p.pieces[Rook]|p.pieces[Queen] != 0 {
		return false
	}
	return (p.pieces[Knight] | p.pieces[Bishop]).Count() <= 1
}

// HasNonPawnMaterial reports whether the side to move owns a piece
// other than pawns and the king. Null-move pruning is unsound in
// pure pawn endings.
func (p *Position) HasNonPawnMaterial() bool {
	minor := p.pieces[Knight] | p.pieces[Bishop] | p.pieces[Rook] | p.pieces[Queen]
	return minor&p.colors[p.turn] != 0
}

// String renders the board with coordinates, rank 8 on top.
func (p *Position) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d ", rank+1)
		for file := 0; file < 8; file++ {
			pc := p.board[SquareAt(file, rank)]
			if pc == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteByte(pc.Char())
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	fmt.Fprintf(&sb, "%s to move\n", p.turn)
	return sb.String()
}
