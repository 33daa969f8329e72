package engine

import (
	"time"

	"github.com/petrelchess/petrel/internal/board"
)

// Limits bounds a single search. Zero values mean "no limit" for
// their dimension; with no limit set at all the search runs until
// stopped or the depth ceiling is reached.
type Limits struct {
	WhiteTime time.Duration
	BlackTime time.Duration
	WhiteInc  time.Duration
	BlackInc  time.Duration
	MoveTime  time.Duration // fixed budget, overrides clock-based allocation
	Depth     int
	Nodes     uint64
	Infinite  bool
}

// moveOverhead absorbs transport and scheduling latency so the
// engine never flags on the last millisecond.
const moveOverhead = 25 * time.Millisecond

// timeControl turns a clock state into two deadlines. The soft
// deadline gates starting another iterative-deepening round; the
// hard deadline aborts the tree mid-search.
type timeControl struct {
	start   time.Time
	soft    time.Duration
	hard    time.Duration
	bounded bool
}

func newTimeControl(limits Limits, us board.Color) timeControl {
	tc := timeControl{start: time.Now()}

	if limits.Infinite {
		return tc
	}
	if limits.MoveTime > 0 {
		budget := limits.MoveTime - moveOverhead
		if budget < time.Millisecond {
			budget = time.Millisecond
		}
		tc.soft, tc.hard = budget, budget
		tc.bounded = true
		return tc
	}

	remaining, inc := limits.WhiteTime, limits.WhiteInc
	if us == board.Black {
		remaining, inc = limits.BlackTime, limits.BlackInc
	}
	if remaining <= 0 {
		return tc
	}

	// Spend about a thirtieth of the clock plus the increment, but
	// never more than a quarter of what is left.
	budget := remaining/30 + inc
	if quarter := remaining / 4; budget > quarter {
		budget = quarter
	}
	budget -= moveOverhead
	if budget < time.Millisecond {
		budget = time.Millisecond
	}
	tc.hard = budget
	tc.soft = budget * 3 / 4
	tc.bounded = true
	return tc
}

func (tc *timeControl) elapsed() time.Duration {
	return time.Since(tc.start)
}

// softExpired reports whether a new search depth should not begin.
func (tc *timeControl) softExpired() bool {
	return tc.bounded && tc.elapsed() >= tc.soft
}

// hardExpired reports whether the running search must abort.
func (tc *timeControl) hardExpired() bool {
	return tc.bounded && tc.elapsed() >= tc.hard
}
