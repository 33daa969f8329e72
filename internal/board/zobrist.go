package board

// Zobrist key material. Keys come from a fixed-seed xorshift64*
// generator so hashes are stable across runs and platforms.
var (
	pieceKeys    [12][64]uint64
	castlingKeys [16]uint64
	epFileKeys   [8]uint64
	sideKey      uint64
)

type keyGen uint64

func (g *keyGen) next() uint64 {
	x := uint64(*g)
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	*g = keyGen(x)
	return x * 0x2545F4914F6CDD1D
}

func init() {
	g := keyGen(0x7C3A9D2E51B86F04)
	for p := range pieceKeys {
		for sq := range pieceKeys[p] {
			pieceKeys[p][sq] = g.next()
		}
	}
	for i := range castlingKeys {
		castlingKeys[i] = g.next()
	}
	for f := range epFileKeys {
		epFileKeys[f] = g.next()
	}
	sideKey = g.next()
}

// pieceKeyIndex maps a Piece to its dense 0-11 key row.
func pieceKeyIndex(p Piece) int {
	return int(p.Type()) + int(p.Color())*6
}

func pieceKey(p Piece, sq Square) uint64 { return pieceKeys[pieceKeyIndex(p)][sq] }

// computeHash folds the full position state into a key from scratch.
// MakeMove maintains the same key incrementally; this is the
// reference the incremental updates must agree with.
func (p *Position) computeHash() uint64 {
	var h uint64
	for sq := A1; sq <= H8; sq++ {
		if pc := p.board[sq]; pc != NoPiece {
			h ^= pieceKey(pc, sq)
		}
	}
	h ^= castlingKeys[p.castling]
	if p.epSquare != NoSquare {
		h ^= epFileKeys[p.epSquare.File()]
	}
	if p.turn == Black {
		h ^= sideKey
	}
	return h
}
