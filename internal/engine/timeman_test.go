package engine

import (
	"testing"
	"time"

	"github.com/petrelchess/petrel/internal/board"
)

func TestTimeControlClockAllocation(t *testing.T) {
	limits := Limits{WhiteTime: 60 * time.Second, WhiteInc: 1 * time.Second}
	tc := newTimeControl(limits, board.White)

	if !tc.bounded {
		t.Fatal("clock search should be bounded")
	}
	want := 60*time.Second/30 + 1*time.Second - moveOverhead
	if tc.hard != want {
		t.Errorf("hard budget %v, want %v", tc.hard, want)
	}
	if tc.soft != want*3/4 {
		t.Errorf("soft budget %v, want %v", tc.soft, want*3/4)
	}
}

func TestTimeControlQuarterCap(t *testing.T) {
	// A huge increment cannot push the budget past a quarter of the
	// remaining clock.
	limits := Limits{BlackTime: 4 * time.Second, BlackInc: 10 * time.Second}
	tc := newTimeControl(limits, board.Black)

	want := 4*time.Second/4 - moveOverhead
	if tc.hard != want {
		t.Errorf("hard budget %v, want %v", tc.hard, want)
	}
}

func TestTimeControlUsesOwnClock(t *testing.T) {
	limits := Limits{
		WhiteTime: 60 * time.Second,
		BlackTime: 6 * time.Second,
	}
	white := newTimeControl(limits, board.White)
	black := newTimeControl(limits, board.Black)

	if white.hard <= black.hard {
		t.Errorf("white budget %v should exceed black's %v", white.hard, black.hard)
	}
}

func TestTimeControlMoveTime(t *testing.T) {
	tc := newTimeControl(Limits{MoveTime: 500 * time.Millisecond}, board.White)

	want := 500*time.Millisecond - moveOverhead
	if tc.hard != want || tc.soft != want {
		t.Errorf("soft %v hard %v, want both %v", tc.soft, tc.hard, want)
	}
}

func TestTimeControlNeverNegative(t *testing.T) {
	for _, limits := range []Limits{
		{MoveTime: 1 * time.Millisecond},
		{WhiteTime: 10 * time.Millisecond},
	} {
		tc := newTimeControl(limits, board.White)
		if tc.hard < time.Millisecond {
			t.Errorf("limits %+v: budget %v below the floor", limits, tc.hard)
		}
	}
}

func TestTimeControlUnbounded(t *testing.T) {
	for _, limits := range []Limits{
		{Infinite: true, WhiteTime: time.Second},
		{Depth: 6},
		{},
	} {
		tc := newTimeControl(limits, board.White)
		if tc.bounded {
			t.Errorf("limits %+v should leave the search unbounded", limits)
		}
		if tc.softExpired() || tc.hardExpired() {
			t.Errorf("limits %+v: unbounded control reported expiry", limits)
		}
	}
}
