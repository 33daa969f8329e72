package engine

import "github.com/petrelchess/petrel/internal/board"

// see runs a static exchange evaluation of a capture: the material
// swing, in centipawns for the side to move, if both sides keep
// recapturing on the target square with their cheapest attacker.
func see(pos *board.Position, m board.Move) int {
	to := m.To()
	victim := board.Pawn
	if !m.IsEnPassant() {
		victim = pos.PieceAt(to).Type()
	}

	var gain [32]int
	depth := 0
	gain[0] = pieceValues[victim]

	occ := pos.Occupied().Without(m.From())
	if m.IsEnPassant() {
		capSq := to - 8
		if pos.SideToMove() == board.Black {
			capSq = to + 8
		}
		occ = occ.Without(capSq)
	}

	attacker := pos.PieceAt(m.From()).Type()
	side := pos.SideToMove().Opponent()

	for {
		from, pt := cheapestAttacker(pos, to, side, occ)
		if from == board.NoSquare {
			break
		}
		depth++
		gain[depth] = pieceValues[attacker] - gain[depth-1]
		// Stop when neither continuing nor stopping can help.
		if max(-gain[depth-1], gain[depth]) < 0 {
			break
		}
		occ = occ.Without(from)
		attacker = pt
		side = side.Opponent()
	}

	for depth > 0 {
		if -gain[depth] < gain[depth-1] {
			gain[depth-1] = -gain[depth]
		}
		depth--
	}
	return gain[0]
}

// cheapestAttacker finds the least valuable piece of side attacking
// to under occupancy occ. Pieces already removed from occ are
// ignored; sliders uncovered by earlier exchanges are seen because
// attacks are recomputed against occ.
func cheapestAttacker(pos *board.Position, to board.Square, side board.Color, occ board.Bitboard) (board.Square, board.PieceType) {
	if b := board.PawnCaptures(side.Opponent(), to) & pos.PiecesOf(side, board.Pawn) & occ; b != 0 {
		return b.First(), board.Pawn
	}
	if b := board.KnightAttacks(to) & pos.PiecesOf(side, board.Knight) & occ; b != 0 {
		return b.First(), board.Knight
	}
	diag := board.BishopAttacks(to, occ)
	if b := diag & pos.PiecesOf(side, board.Bishop) & occ; b != 0 {
		return b.First(), board.Bishop
	}
	ortho := board.RookAttacks(to, occ)
	if b := ortho & pos.PiecesOf(side, board.Rook) & occ; b != 0 {
		return b.First(), board.Rook
	}
	if b := (diag | ortho) & pos.PiecesOf(side, board.Queen) & occ; b != 0 {
		return b.First(), board.Queen
	}
	if b := board.KingAttacks(to) & pos.PiecesOf(side, board.King) & occ; b != 0 {
		return b.First(), board.King
	}
	return board.NoSquare, board.NoPieceType
}
