package board

// Precomputed attack and geometry tables, filled once at startup.
var (
	knightMoves   [64]Bitboard
	kingMoves     [64]Bitboard
	pawnCaptures  [2][64]Bitboard
	segmentTable  [64][64]Bitboard // squares strictly between two aligned squares
	fullLineTable [64][64]Bitboard // whole line through two aligned squares
)

func init() {
	initLeaperTables()
	initMagicTables()
	initGeometryTables()
}

func initLeaperTables() {
	knightSteps := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps := [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}

	for sq := A1; sq <= H8; sq++ {
		f, r := sq.File(), sq.Rank()
		for _, d := range knightSteps {
			if nf, nr := f+d[0], r+d[1]; nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
				knightMoves[sq] |= Bit(SquareAt(nf, nr))
			}
		}
		for _, d := range kingSteps {
			if nf, nr := f+d[0], r+d[1]; nf >= 0 && nf < 8 && nr >= 0 && nr < 8 {
				kingMoves[sq] |= Bit(SquareAt(nf, nr))
			}
		}
		b := Bit(sq)
		pawnCaptures[White][sq] = b.NorthEast() | b.NorthWest()
		pawnCaptures[Black][sq] = b.SouthEast() | b.SouthWest()
	}
}

func initGeometryTables() {
	dirs := [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
	for a := A1; a <= H8; a++ {
		for _, d := range dirs {
			// Walk the ray from a; every square reached shares a line
			// with a in direction d.
			var seg Bitboard
			f, r := a.File()+d[0], a.Rank()+d[1]
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				b := SquareAt(f, r)
				segmentTable[a][b] = seg
				seg |= Bit(b)
				f, r = f+d[0], r+d[1]
			}
		}
		for b := A1; b <= H8; b++ {
			df, dr := normStep(b.File()-a.File(), b.Rank()-a.Rank())
			if df == 0 && dr == 0 {
				continue
			}
			var line Bitboard
			f, r := a.File(), a.Rank()
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				line |= Bit(SquareAt(f, r))
				f, r = f-df, r-dr
			}
			f, r = a.File()+df, a.Rank()+dr
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				line |= Bit(SquareAt(f, r))
				f, r = f+df, r+dr
			}
			fullLineTable[a][b] = line
		}
	}
}

// normStep reduces a file/rank delta to a unit step, or (0,0) when
// the squares do not share a rank, file, or diagonal.
func normStep(df, dr int) (int, int) {
	adf, adr := df, dr
	if adf < 0 {
		adf = -adf
	}
	if adr < 0 {
		adr = -adr
	}
	if adf != 0 && adr != 0 && adf != adr {
		return 0, 0
	}
	if adf == 0 && adr == 0 {
		return 0, 0
	}
	return signOf(df), signOf(dr)
}

func signOf(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// KnightAttacks returns the squares a knight on sq attacks.
func KnightAttacks(sq Square) Bitboard { return knightMoves[sq] }

// KingAttacks returns the squares a king on sq attacks.
func KingAttacks(sq Square) Bitboard { return kingMoves[sq] }

// PawnCaptures returns the squares a pawn of color c on sq attacks.
func PawnCaptures(c Color, sq Square) Bitboard { return pawnCaptures[c][sq] }

// BishopAttacks returns bishop attacks from sq given board occupancy.
func BishopAttacks(sq Square, occ Bitboard) Bitboard { return bishopMagicAttacks(sq, occ) }

// RookAttacks returns rook attacks from sq given board occupancy.
func RookAttacks(sq Square, occ Bitboard) Bitboard { return rookMagicAttacks(sq, occ) }

// QueenAttacks returns combined bishop and rook attacks from sq.
func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return bishopMagicAttacks(sq, occ) | rookMagicAttacks(sq, occ)
}

// Segment returns the squares strictly between a and b, or the empty
// set when they do not share a line.
func Segment(a, b Square) Bitboard { return segmentTable[a][b] }

// LineThrough returns the full line containing a and b, endpoints
// included, or the empty set when they are not aligned.
func LineThrough(a, b Square) Bitboard { return fullLineTable[a][b] }

// Attackers returns every piece of color c that attacks sq under the
// given occupancy.
func (p *Position) Attackers(sq Square, c Color, occ Bitboard) Bitboard {
	them := p.colors[c]
	return pawnCaptures[c.Opponent()][sq]&p.pieces[Pawn]&them |
		knightMoves[sq]&p.pieces[Knight]&them |
		kingMoves[sq]&p.pieces[King]&them |
		bishopMagicAttacks(sq, occ)&(p.pieces[Bishop]|p.pieces[Queen])&them |
		rookMagicAttacks(sq, occ)&(p.pieces[Rook]|p.pieces[Queen])&them
}

// AllAttackers returns every piece of either color attacking sq.
func (p *Position) AllAttackers(sq Square, occ Bitboard) Bitboard {
	return p.Attackers(sq, White, occ) | p.Attackers(sq, Black, occ)
}

// Attacked reports whether any piece of color c attacks sq.
func (p *Position) Attacked(sq Square, c Color) bool {
	return p.Attackers(sq, c, p.colors[White]|p.colors[Black]) != 0
}
