// Package engine implements the search: iterative deepening
// negamax with alpha-beta, a transposition table, and a classical
// hand-tuned evaluation.
package engine

import "github.com/petrelchess/petrel/internal/board"

var pieceValues = [7]int{100, 320, 330, 500, 900, 20000, 0}

// Game phase weights. A full board sums to 24; the tapered eval
// blends midgame and endgame terms by this count.
var phaseWeight = [6]int{0, 1, 1, 2, 4, 0}

const maxPhase = 24

// Piece-square tables, midgame and endgame. Literals are written as
// seen from White's side of the board (rank 8 on the first line), so
// White pieces index through Flip and Black pieces directly.
var pstMG = [6][64]int{
	{ // pawn
		0, 0, 0, 0, 0, 0, 0, 0,
		50, 50, 50, 50, 50, 50, 50, 50,
		10, 10, 20, 30, 30, 20, 10, 10,
		5, 5, 10, 25, 25, 10, 5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, -5, -10, 0, 0, -10, -5, 5,
		5, 10, 10, -20, -20, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // knight
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	{ // bishop
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	{ // rook
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, 10, 10, 10, 10, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 5, 5, 0, 0, 0,
	},
	{ // queen
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	{ // king
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		20, 20, 0, 0, 0, 0, 20, 20,
		20, 30, 10, 0, 0, 10, 30, 20,
	},
}

var pstEG = [6][64]int{
	{ // pawn
		0, 0, 0, 0, 0, 0, 0, 0,
		80, 80, 80, 80, 80, 80, 80, 80,
		50, 50, 50, 50, 50, 50, 50, 50,
		30, 30, 30, 30, 30, 30, 30, 30,
		20, 20, 20, 20, 20, 20, 20, 20,
		10, 10, 10, 10, 10, 10, 10, 10,
		10, 10, 10, 10, 10, 10, 10, 10,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // knight
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	},
	{ // bishop
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	},
	{ // rook
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, 10, 10, 10, 10, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 0, 0, 0, 0, 0,
	},
	{ // queen
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	},
	{ // king
		-50, -40, -30, -20, -20, -30, -40, -50,
		-30, -20, -10, 0, 0, -10, -20, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 30, 40, 40, 30, -10, -30,
		-30, -10, 20, 30, 30, 20, -10, -30,
		-30, -30, 0, 0, 0, 0, -30, -30,
		-50, -30, -30, -30, -30, -30, -30, -50,
	},
}

const (
	bishopPairBonus    = 30
	rookOpenFile       = 20
	rookSemiOpenFile   = 10
	doubledPawnPenalty = 12
	isolatedPawnPen    = 15
	tempoBonus         = 10
)

var passedPawnBonus = [8]int{0, 10, 18, 30, 50, 80, 130, 0}

// evaluate scores the position in centipawns from the side to move's
// point of view.
func evaluate(pos *board.Position) int {
	var mg, eg, phase int

	for c := board.White; c <= board.Black; c++ {
		sign := 1
		if c == board.Black {
			sign = -1
		}
		for pt := board.Pawn; pt <= board.King; pt++ {
			for b := pos.PiecesOf(c, pt); b != 0; {
				sq := b.NextSquare()
				idx := sq
				if c == board.White {
					idx = sq.Flip()
				}
				mg += sign * (pieceValues[pt] + pstMG[pt][idx])
				eg += sign * (pieceValues[pt] + pstEG[pt][idx])
				phase += phaseWeight[pt]
			}
		}
		pawnsMG, pawnsEG := pawnStructure(pos, c)
		mg += sign * pawnsMG
		eg += sign * pawnsEG
		piecesMG, piecesEG := pieceActivity(pos, c)
		mg += sign * piecesMG
		eg += sign * piecesEG
	}

	if phase > maxPhase {
		phase = maxPhase
	}
	score := (mg*phase + eg*(maxPhase-phase)) / maxPhase

	if pos.SideToMove() == board.Black {
		score = -score
	}
	return score + tempoBonus
}

// pawnStructure scores doubled, isolated, and passed pawns for c.
func pawnStructure(pos *board.Position, c board.Color) (int, int) {
	var mg, eg int
	ours := pos.PiecesOf(c, board.Pawn)
	theirs := pos.PiecesOf(c.Opponent(), board.Pawn)

	for file := 0; file < 8; file++ {
		onFile := (ours & board.FileOf[file]).Count()
		if onFile > 1 {
			mg -= doubledPawnPenalty * (onFile - 1)
			eg -= (doubledPawnPenalty + 6) * (onFile - 1)
		}
		if onFile > 0 && ours&adjacentFiles(file) == 0 {
			mg -= isolatedPawnPen * onFile
			eg -= (isolatedPawnPen + 5) * onFile
		}
	}

	for b := ours; b != 0; {
		sq := b.NextSquare()
		if theirs&passedPawnSpan(c, sq) == 0 {
			bonus := passedPawnBonus[sq.RelativeRank(c)]
			mg += bonus / 2
			eg += bonus
		}
	}
	return mg, eg
}

// pieceActivity scores the bishop pair and rook file placement.
func pieceActivity(pos *board.Position, c board.Color) (int, int) {
	var mg, eg int
	if pos.PiecesOf(c, board.Bishop).Count() >= 2 {
		mg += bishopPairBonus
		eg += bishopPairBonus + 15
	}
	allPawns := pos.ByType(board.Pawn)
	ourPawns := pos.PiecesOf(c, board.Pawn)
	for b := pos.PiecesOf(c, board.Rook); b != 0; {
		sq := b.NextSquare()
		file := board.FileOf[sq.File()]
		switch {
		case allPawns&file == 0:
			mg += rookOpenFile
			eg += rookOpenFile / 2
		case ourPawns&file == 0:
			mg += rookSemiOpenFile
			eg += rookSemiOpenFile / 2
		}
	}
	return mg, eg
}

func adjacentFiles(file int) board.Bitboard {
	var b board.Bitboard
	if file > 0 {
		b |= board.FileOf[file-1]
	}
	if file < 7 {
		b |= board.FileOf[file+1]
	}
	return b
}

// passedPawnSpan is the area an enemy pawn would have to occupy to
// stop the pawn on sq: its file and both neighbors, ahead of it.
func passedPawnSpan(c board.Color, sq board.Square) board.Bitboard {
	file := sq.File()
	span := board.FileOf[file] | adjacentFiles(file)
	if c == board.White {
		for r := 0; r <= sq.Rank(); r++ {
			span &^= board.RankOf[r]
		}
	} else {
		for r := 7; r >= sq.Rank(); r-- {
			span &^= board.RankOf[r]
		}
	}
	return span
}
