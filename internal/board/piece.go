package board

// Color is the side a piece or player belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// Opponent returns the other side.
func (c Color) Opponent() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// PieceType identifies a kind of piece independent of color.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType
)

var pieceTypeNames = [7]string{"pawn", "knight", "bishop", "rook", "queen", "king", "none"}

func (pt PieceType) String() string {
	if pt > NoPieceType {
		return "none"
	}
	return pieceTypeNames[pt]
}

// Piece packs a PieceType and a Color: type in bits 0-2, color in
// bit 3. NoPiece marks an empty square.
type Piece uint8

const (
	WhitePawn   Piece = Piece(Pawn)
	WhiteKnight Piece = Piece(Knight)
	WhiteBishop Piece = Piece(Bishop)
	WhiteRook   Piece = Piece(Rook)
	WhiteQueen  Piece = Piece(Queen)
	WhiteKing   Piece = Piece(King)
	BlackPawn   Piece = Piece(Pawn) | 8
	BlackKnight Piece = Piece(Knight) | 8
	BlackBishop Piece = Piece(Bishop) | 8
	BlackRook   Piece = Piece(Rook) | 8
	BlackQueen  Piece = Piece(Queen) | 8
	BlackKing   Piece = Piece(King) | 8
	NoPiece     Piece = Piece(NoPieceType)
)

// MakePiece combines a type and color into a Piece.
func MakePiece(pt PieceType, c Color) Piece {
	return Piece(pt) | Piece(c)<<3
}

// Type returns the piece's kind, or NoPieceType for NoPiece.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the piece's side. Undefined for NoPiece.
func (p Piece) Color() Color { return Color(p >> 3) }

// Char returns the piece's FEN letter: uppercase for White,
// lowercase for Black, space for NoPiece.
func (p Piece) Char() byte {
	const letters = "PNBRQK  pnbrqk"
	if p.Type() == NoPieceType {
		return ' '
	}
	return letters[p]
}

func (p Piece) String() string { return string(p.Char()) }

// PieceFromChar maps a FEN letter to a Piece, or NoPiece when the
// byte is not a piece letter.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	}
	return NoPiece
}
