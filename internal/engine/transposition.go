package engine

import (
	"math/bits"

	"github.com/petrelchess/petrel/internal/board"
)

// Bound classifies a stored score relative to the search window that
// produced it.
type Bound uint8

const (
	BoundNone  Bound = iota
	BoundExact       // searched with an open window
	BoundLower       // fail high, real score >= stored
	BoundUpper       // fail low, real score <= stored
)

// ttEntry is one transposition table slot. The full key is kept so a
// probe can reject index collisions outright.
type ttEntry struct {
	key   uint64
	move  board.Move
	score int16
	depth int8
	bound Bound
	gen   uint8
}

// TranspositionTable caches search results keyed by Zobrist hash.
// Capacity is a power of two so indexing is a mask. The table is
// owned by a single searching goroutine and is not locked.
type TranspositionTable struct {
	slots []ttEntry
	mask  uint64
	gen   uint8
}

// NewTranspositionTable allocates a table of roughly megabytes MB,
// rounded down to a power-of-two entry count. At least one slot is
// always allocated.
func NewTranspositionTable(megabytes int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.Resize(megabytes)
	return tt
}

// Resize reallocates the table to the new size, discarding contents.
func (tt *TranspositionTable) Resize(megabytes int) {
	const slotSize = 16
	n := uint64(megabytes) * 1024 * 1024 / slotSize
	if n < 1 {
		n = 1
	}
	// round down to a power of two
	n = 1 << (63 - bits.LeadingZeros64(n))
	tt.slots = make([]ttEntry, n)
	tt.mask = n - 1
	tt.gen = 0
}

// Clear wipes every slot.
func (tt *TranspositionTable) Clear() {
	for i := range tt.slots {
		tt.slots[i] = ttEntry{}
	}
	tt.gen = 0
}

// NextGeneration marks the start of a fresh search. Entries from
// earlier generations become replacement fodder but still give hits.
func (tt *TranspositionTable) NextGeneration() { tt.gen++ }

// Len returns the table's slot count.
func (tt *TranspositionTable) Len() int { return len(tt.slots) }

// probe returns the slot for key when its stored key matches.
func (tt *TranspositionTable) probe(key uint64) (ttEntry, bool) {
	e := tt.slots[key&tt.mask]
	if e.key == key && e.bound != BoundNone {
		return e, true
	}
	return ttEntry{}, false
}

// store writes a result, preferring to keep deeper entries from the
// current generation. Scores must already be ply-adjusted with
// scoreToTT.
func (tt *TranspositionTable) store(key uint64, depth int, score int, bound Bound, move board.Move) {
	slot := &tt.slots[key&tt.mask]
	if slot.gen == tt.gen && slot.key != key && int(slot.depth) > depth {
		return
	}
	// Keep a known best move when the new result has none.
	if move == board.NullMove && slot.key == key {
		move = slot.move
	}
	*slot = ttEntry{
		key:   key,
		move:  move,
		score: int16(score),
		depth: int8(depth),
		bound: bound,
		gen:   tt.gen,
	}
}

// usable reports whether a hit can cut off a node searched to depth
// with window (alpha, beta).
func (e *ttEntry) usable(depth, alpha, beta, ply int) (int, bool) {
	if int(e.depth) < depth {
		return 0, false
	}
	score := scoreFromTT(int(e.score), ply)
	switch e.bound {
	case BoundExact:
		return score, true
	case BoundLower:
		if score >= beta {
			return score, true
		}
	case BoundUpper:
		if score <= alpha {
			return score, true
		}
	}
	return 0, false
}

// Mate scores are stored relative to the entry's node, not the root;
// the ply offset moves between the two frames.

func scoreToTT(score, ply int) int {
	if score >= MateScore-MaxPly {
		return score + ply
	}
	if score <= -MateScore+MaxPly {
		return score - ply
	}
	return score
}

func scoreFromTT(score, ply int) int {
	if score >= MateScore-MaxPly {
		return score - ply
	}
	if score <= -MateScore+MaxPly {
		return score + ply
	}
	return score
}
