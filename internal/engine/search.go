package engine

import (
	"sync/atomic"
	"time"

	"github.com/petrelchess/petrel/internal/board"
)

const (
	MaxPly    = 128
	Infinity  = 30000
	MateScore = 29000
)

// Search tuning.
const (
	aspirationMinDepth = 4
	aspirationWindow   = 25
	nullMoveMinDepth   = 3
	lmrMinDepth        = 3
	lmrMoveThreshold   = 4
	futilityMargin     = 120
	deltaMargin        = 200
	stopPollInterval   = 4096
)

// Info is a per-depth progress report from the iterative deepening
// loop.
type Info struct {
	Depth   int
	Score   int
	Nodes   uint64
	Elapsed time.Duration
	PV      []board.Move
	FEN     string // root position snapshot
}

// searcher runs one search to completion on a single goroutine. It
// owns its position clone, the shared transposition table, and the
// ordering state.
type searcher struct {
	pos      *board.Position
	tt       *TranspositionTable
	order    *orderer
	stop     *atomic.Bool
	tc       timeControl
	maxDepth int
	maxNodes uint64
	progress func(Info)

	nodes   uint64
	aborted bool
	pv      [MaxPly + 1][MaxPly + 1]board.Move
	pvLen   [MaxPly + 1]int
}

// result is what a finished (or aborted) search hands back.
type result struct {
	move  board.Move
	score int
	depth int
	nodes uint64
	pv    []board.Move
}

// run drives iterative deepening with aspiration windows. Each
// completed depth updates the result; an aborted depth never
// overwrites a finished one.
func (s *searcher) run() result {
	s.tt.NextGeneration()
	s.order.decay()

	res := result{move: board.NullMove, score: -Infinity}
	maxDepth := s.maxDepth
	if maxDepth <= 0 || maxDepth > MaxPly {
		maxDepth = MaxPly
	}

	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 && (s.tc.softExpired() || s.stop.Load()) {
			break
		}
		score := s.aspirate(depth, res.score)
		if s.aborted {
			break
		}
		res = result{
			move:  s.pv[0][0],
			score: score,
			depth: depth,
			nodes: s.nodes,
			pv:    append([]board.Move(nil), s.pv[0][:s.pvLen[0]]...),
		}
		if s.progress != nil {
			s.progress(Info{
				Depth:   depth,
				Score:   score,
				Nodes:   s.nodes,
				Elapsed: s.tc.elapsed(),
				PV:      res.pv,
				FEN:     s.pos.FEN(),
			})
		}
		// A forced mate cannot improve with more depth.
		if score >= MateScore-MaxPly || score <= -MateScore+MaxPly {
			break
		}
	}
	res.nodes = s.nodes
	return res
}

// aspirate searches depth with a window around the previous score,
// widening on failure. Shallow depths go straight to a full window.
func (s *searcher) aspirate(depth, prev int) int {
	alpha, beta := -Infinity, Infinity
	delta := aspirationWindow
	if depth >= aspirationMinDepth {
		alpha, beta = prev-delta, prev+delta
	}
	for {
		score := s.negamax(depth, 0, alpha, beta, true)
		if s.aborted {
			return score
		}
		switch {
		case score <= alpha:
			alpha -= delta
			delta *= 4
		case score >= beta:
			beta += delta
			delta *= 4
		default:
			return score
		}
		if alpha < -Infinity {
			alpha = -Infinity
		}
		if beta > Infinity {
			beta = Infinity
		}
	}
}

// shouldAbort polls the cooperative stop conditions. The flag and
// clock are only consulted every stopPollInterval nodes.
func (s *searcher) shouldAbort() bool {
	if s.aborted {
		return true
	}
	if s.nodes%stopPollInterval == 0 {
		if s.stop.Load() || s.tc.hardExpired() || (s.maxNodes > 0 && s.nodes >= s.maxNodes) {
			s.aborted = true
		}
	}
	return s.aborted
}

// negamax is the principal variation search. Scores are relative to
// the side to move; mate scores are encoded as MateScore minus the
// ply distance from the root.
func (s *searcher) negamax(depth, ply, alpha, beta int, allowNull bool) int {
	s.pvLen[ply] = 0
	if s.shouldAbort() {
		return 0
	}

	isRoot := ply == 0
	isPV := beta-alpha > 1

	if !isRoot && (s.pos.IsRepetition() || s.pos.IsFiftyMoveDraw() || s.pos.IsInsufficientMaterial()) {
		return 0
	}
	if ply >= MaxPly {
		return evaluate(s.pos)
	}

	inCheck := s.pos.InCheck()
	if inCheck {
		depth++ // check extension
	}
	if depth <= 0 {
		return s.quiesce(ply, alpha, beta)
	}
	s.nodes++

	hashMove := board.NullMove
	if entry, ok := s.tt.probe(s.pos.Hash()); ok {
		hashMove = entry.move
		if !isPV {
			if score, ok := entry.usable(depth, alpha, beta, ply); ok {
				return score
			}
		}
	}

	// Null move pruning: hand the opponent a free move; if the
	// position still beats beta the real search almost surely will.
	if allowNull && !isPV && !inCheck && depth >= nullMoveMinDepth &&
		s.pos.HasNonPawnMaterial() && evaluate(s.pos) >= beta {
		u := s.pos.MakeNullMove()
		reduction := 2 + depth/4
		score := -s.negamax(depth-1-reduction, ply+1, -beta, -beta+1, false)
		s.pos.UnmakeNullMove(u)
		if s.aborted {
			return 0
		}
		if score >= beta {
			if score >= MateScore-MaxPly {
				score = beta // never return unproved mates
			}
			return score
		}
	}

	var list board.MoveList
	s.pos.PseudoLegalMoves(&list)
	ranked := s.order.rank(s.pos, &list, hashMove, ply)

	bestScore := -Infinity
	bestMove := board.NullMove
	bound := BoundUpper
	moveCount := 0

	for m := ranked.pick(); m != board.NullMove; m = ranked.pick() {
		u := s.pos.MakeMove(m)
		if s.pos.MovedIntoCheck() {
			s.pos.UnmakeMove(m, u)
			continue
		}
		moveCount++

		var score int
		switch {
		case moveCount == 1:
			score = -s.negamax(depth-1, ply+1, -beta, -alpha, true)
		default:
			// Late quiet moves get a reduced null-window probe
			// first; anything surprising is re-searched at full
			// depth, and PV re-searches reopen the window.
			reduction := 0
			if depth >= lmrMinDepth && moveCount > lmrMoveThreshold &&
				m.IsQuiet() && !inCheck && !s.pos.InCheck() {
				reduction = 1 + (moveCount-lmrMoveThreshold)/8
				if reduction >= depth-1 {
					reduction = depth - 2
				}
			}
			score = -s.negamax(depth-1-reduction, ply+1, -alpha-1, -alpha, true)
			if score > alpha && reduction > 0 {
				score = -s.negamax(depth-1, ply+1, -alpha-1, -alpha, true)
			}
			if score > alpha && score < beta {
				score = -s.negamax(depth-1, ply+1, -beta, -alpha, true)
			}
		}
		s.pos.UnmakeMove(m, u)
		if s.aborted {
			return 0
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
			bound = BoundExact
			s.pv[ply][0] = m
			copy(s.pv[ply][1:], s.pv[ply+1][:s.pvLen[ply+1]])
			s.pvLen[ply] = s.pvLen[ply+1] + 1
		}
		if alpha >= beta {
			s.order.noteCutoff(s.pos, m, ply, depth)
			bound = BoundLower
			break
		}
	}

	if moveCount == 0 {
		if inCheck {
			return -MateScore + ply
		}
		return 0
	}

	s.tt.store(s.pos.Hash(), depth, scoreToTT(bestScore, ply), bound, bestMove)
	return bestScore
}

// quiesce settles tactical noise: the side to move may stand pat or
// keep capturing until the position is quiet. In check, all evasions
// are searched instead.
func (s *searcher) quiesce(ply, alpha, beta int) int {
	if s.shouldAbort() {
		return 0
	}
	s.nodes++
	if ply >= MaxPly {
		return evaluate(s.pos)
	}

	inCheck := s.pos.InCheck()
	if !inCheck {
		standPat := evaluate(s.pos)
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
		// Delta pruning: even winning a queen cannot lift a
		// hopeless stand-pat into the window.
		if standPat+pieceValues[board.Queen]+deltaMargin < alpha {
			return alpha
		}
	}

	var list board.MoveList
	if inCheck {
		s.pos.PseudoLegalMoves(&list)
	} else {
		s.pos.NoisyMoves(&list)
	}
	ranked := s.order.rank(s.pos, &list, board.NullMove, ply)

	moveCount := 0
	for m := ranked.pick(); m != board.NullMove; m = ranked.pick() {
		if !inCheck && m.IsCapture() && see(s.pos, m) < 0 {
			continue // losing exchanges cannot rescue a quiet node
		}
		u := s.pos.MakeMove(m)
		if s.pos.MovedIntoCheck() {
			s.pos.UnmakeMove(m, u)
			continue
		}
		moveCount++
		score := -s.quiesce(ply+1, -beta, -alpha)
		s.pos.UnmakeMove(m, u)
		if s.aborted {
			return 0
		}
		if score > alpha {
			alpha = score
			if alpha >= beta {
				break
			}
		}
	}

	if inCheck && moveCount == 0 {
		return -MateScore + ply
	}
	return alpha
}

// MateDistance converts a mate-band score into signed moves to mate:
// positive when the side to move mates, negative when it is mated.
// ok is false for non-mate scores.
func MateDistance(score int) (moves int, ok bool) {
	if score >= MateScore-MaxPly {
		return (MateScore - score + 1) / 2, true
	}
	if score <= -MateScore+MaxPly {
		return -(MateScore + score + 1) / 2, true
	}
	return 0, false
}
