package engine

import "github.com/petrelchess/petrel/internal/board"

// Ordering score bands. The hash move always leads; captures sit on
// an MVV-LVA ladder above the killers; everything else falls back to
// the history counters.
const (
	hashMoveScore  = int32(1 << 30)
	captureBase    = int32(1 << 24)
	killerOneScore = captureBase - 1
	killerTwoScore = captureBase - 2
	promotionBase  = int32(1 << 23)
)

// orderer holds the search's move-ordering state: killer moves per
// ply and side-relative history counters for quiet moves.
type orderer struct {
	killers [MaxPly][2]board.Move
	history [2][64][64]int32
}

// decay halves the history counters between searches so stale game
// phases lose their pull while recent patterns persist.
func (o *orderer) decay() {
	for s := range o.history {
		for f := range o.history[s] {
			for t := range o.history[s][f] {
				o.history[s][f][t] /= 2
			}
		}
	}
	for p := range o.killers {
		o.killers[p][0] = board.NullMove
		o.killers[p][1] = board.NullMove
	}
}

// mvvLVA ranks captures by victim value first, cheapest attacker
// second.
func mvvLVA(pos *board.Position, m board.Move) int32 {
	victim := board.Pawn
	if !m.IsEnPassant() {
		victim = pos.PieceAt(m.To()).Type()
	}
	attacker := pos.PieceAt(m.From()).Type()
	return int32(pieceValues[victim])*16 - int32(pieceValues[attacker])/8
}

// scoreMove ranks m for expansion order at the given ply.
func (o *orderer) scoreMove(pos *board.Position, m, hashMove board.Move, ply int) int32 {
	switch {
	case m == hashMove:
		return hashMoveScore
	case m.IsCapture():
		return captureBase + mvvLVA(pos, m)
	case m.IsPromotion():
		return promotionBase + int32(pieceValues[m.Promotion()])
	case m == o.killers[ply][0]:
		return killerOneScore
	case m == o.killers[ply][1]:
		return killerTwoScore
	}
	return o.history[pos.SideToMove()][m.From()][m.To()]
}

// noteCutoff records a quiet move that refuted its node: it becomes
// the ply's first killer and earns a depth-squared history bonus.
func (o *orderer) noteCutoff(pos *board.Position, m board.Move, ply, depth int) {
	if !m.IsQuiet() {
		return
	}
	if o.killers[ply][0] != m {
		o.killers[ply][1] = o.killers[ply][0]
		o.killers[ply][0] = m
	}
	h := &o.history[pos.SideToMove()][m.From()][m.To()]
	*h += int32(depth * depth)
	if *h > historyCap {
		for s := range o.history {
			for f := range o.history[s] {
				for t := range o.history[s][f] {
					o.history[s][f][t] /= 2
				}
			}
		}
	}
}

const historyCap = 1 << 22

// rankedMoves pairs a move list with ordering scores and yields
// moves best-first by selection, so sorting work is only paid for
// moves actually expanded.
type rankedMoves struct {
	list   *board.MoveList
	scores [256]int32
	next   int
}

func (o *orderer) rank(pos *board.Position, list *board.MoveList, hashMove board.Move, ply int) rankedMoves {
	rm := rankedMoves{list: list}
	for i := 0; i < list.Len(); i++ {
		rm.scores[i] = o.scoreMove(pos, list.At(i), hashMove, ply)
	}
	return rm
}

// pick returns the highest-scored remaining move, or NullMove when
// exhausted. Ties break by generation order, keeping picks
// deterministic.
func (rm *rankedMoves) pick() board.Move {
	n := rm.list.Len()
	if rm.next >= n {
		return board.NullMove
	}
	best := rm.next
	for i := rm.next + 1; i < n; i++ {
		if rm.scores[i] > rm.scores[best] {
			best = i
		}
	}
	rm.list.Swap(rm.next, best)
	rm.scores[rm.next], rm.scores[best] = rm.scores[best], rm.scores[rm.next]
	m := rm.list.At(rm.next)
	rm.next++
	return m
}
