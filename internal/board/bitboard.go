package board

import (
	"math/bits"
	"strings"
)

// Bitboard is a 64-bit set of squares, one bit per square in
// little-endian rank-file order (bit 0 = A1, bit 63 = H8).
type Bitboard uint64

const (
	FileA Bitboard = 0x0101010101010101 << iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	Rank1 Bitboard = 0xFF << (8 * iota)
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

// FileOf and RankOf index masks by file/rank number.
var (
	FileOf = [8]Bitboard{FileA, FileB, FileC, FileD, FileE, FileF, FileG, FileH}
	RankOf = [8]Bitboard{Rank1, Rank2, Rank3, Rank4, Rank5, Rank6, Rank7, Rank8}
)

// Bit returns the bitboard with only sq set.
func Bit(sq Square) Bitboard { return 1 << sq }

// Has reports whether sq is in the set.
func (b Bitboard) Has(sq Square) bool { return b&(1<<sq) != 0 }

// With returns b with sq added.
func (b Bitboard) With(sq Square) Bitboard { return b | 1<<sq }

// Without returns b with sq removed.
func (b Bitboard) Without(sq Square) Bitboard { return b &^ (1 << sq) }

// Count returns the number of squares in the set.
func (b Bitboard) Count() int { return bits.OnesCount64(uint64(b)) }

// First returns the lowest set square, or NoSquare when empty.
func (b Bitboard) First() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// NextSquare removes and returns the lowest set square. The caller
// must check for emptiness first.
func (b *Bitboard) NextSquare() Square {
	sq := Square(bits.TrailingZeros64(uint64(*b)))
	*b &= *b - 1
	return sq
}

// Any reports whether the set is non-empty.
func (b Bitboard) Any() bool { return b != 0 }

// Single step shifts. Horizontal steps mask off the wrapping file.

func (b Bitboard) North() Bitboard { return b << 8 }
func (b Bitboard) South() Bitboard { return b >> 8 }
func (b Bitboard) East() Bitboard  { return b << 1 &^ FileA }
func (b Bitboard) West() Bitboard  { return b >> 1 &^ FileH }

func (b Bitboard) NorthEast() Bitboard { return b << 9 &^ FileA }
func (b Bitboard) NorthWest() Bitboard { return b << 7 &^ FileH }
func (b Bitboard) SouthEast() Bitboard { return b >> 7 &^ FileA }
func (b Bitboard) SouthWest() Bitboard { return b >> 9 &^ FileH }

// PawnPushes shifts the set one rank forward for c.
func (b Bitboard) PawnPushes(c Color) Bitboard {
	if c == White {
		return b.North()
	}
	return b.South()
}

// PawnAttacks returns the squares attacked by pawns of color c on b.
func (b Bitboard) PawnAttacks(c Color) Bitboard {
	if c == White {
		return b.NorthEast() | b.NorthWest()
	}
	return b.SouthEast() | b.SouthWest()
}

// String renders the set as an 8x8 diagram, rank 8 on top.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			if b.Has(SquareAt(file, rank)) {
				sb.WriteByte('X')
			} else {
				sb.WriteByte('.')
			}
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
