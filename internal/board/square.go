// Package board implements the bitboard position representation,
// legal move generation, and Zobrist hashing.
package board

import "fmt"

// Square indexes a board square 0-63 with little-endian rank-file
// mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// SquareAt builds a square from 0-indexed file and rank.
func SquareAt(file, rank int) Square {
	return Square(rank<<3 | file)
}

// File returns the square's file, 0 (a) through 7 (h).
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns the square's rank, 0 (first) through 7 (eighth).
func (sq Square) Rank() int { return int(sq) >> 3 }

// Valid reports whether sq refers to one of the 64 board squares.
func (sq Square) Valid() bool { return sq < NoSquare }

// Flip mirrors the square across the horizontal axis, mapping a1 to
// a8. Piece-square tables are stored from White's view and indexed
// through Flip for Black.
func (sq Square) Flip() Square { return sq ^ 56 }

// RelativeRank returns the rank as seen by c: 0 is c's back rank.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}

func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare reads coordinate notation such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, fmt.Errorf("invalid square %q", s)
	}
	return SquareAt(int(s[0]-'a'), int(s[1]-'1')), nil
}
