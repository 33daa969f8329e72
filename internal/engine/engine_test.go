package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/petrelchess/petrel/internal/board"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Config{TableMB: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestNewValidatesConfig(t *testing.T) {
	cases := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"negative table", Config{TableMB: -1}, "TableMB"},
		{"difficulty too low", Config{Difficulty: Difficulty(-1)}, "Difficulty"},
		{"difficulty too high", Config{Difficulty: Master + 1}, "Difficulty"},
		{"missing book", Config{BookPath: "testdata/no-such-book.bin"}, "BookPath"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("New(%+v) = %v, want *ConfigError", tc.cfg, err)
			}
			if cfgErr.Field != tc.field {
				t.Errorf("error field %q, want %q", cfgErr.Field, tc.field)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	e, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if e.cfg.TableMB != 64 {
		t.Errorf("TableMB defaulted to %d, want 64", e.cfg.TableMB)
	}
	if e.cfg.BookDepth != 12 {
		t.Errorf("BookDepth defaulted to %d, want 12", e.cfg.BookDepth)
	}
	if got := e.Position().FEN(); got != board.StartFEN {
		t.Errorf("new engine at %q, want the starting position", got)
	}
}

func TestSetPositionWithMoves(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetPosition(board.StartFEN, "e2e4", "c7c5", "g1f3"); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	want := "rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2"
	if got := e.Position().FEN(); got != want {
		t.Errorf("position %q, want %q", got, want)
	}
}

func TestSetPositionKeepsOldOnError(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetPosition(board.StartFEN, "e2e4"); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	before := e.Position().FEN()

	if err := e.SetPosition("not a fen"); err == nil {
		t.Error("bad FEN accepted")
	}
	// Illegal third move: the first two applied to the scratch
	// position must not leak into the engine.
	err := e.SetPosition(board.StartFEN, "d2d4", "d7d5", "d4d5")
	var illegal *IllegalMoveError
	if !errors.As(err, &illegal) {
		t.Fatalf("got %v, want *IllegalMoveError", err)
	}
	if illegal.Move != "d4d5" {
		t.Errorf("error names move %q, want d4d5", illegal.Move)
	}
	if got := e.Position().FEN(); got != before {
		t.Errorf("position changed to %q after failed SetPosition", got)
	}
}

func TestThinkReturnsLegalMove(t *testing.T) {
	e := newTestEngine(t)
	res, err := e.Think(Limits{Depth: 4})
	if err != nil {
		t.Fatalf("Think: %v", err)
	}
	var legal board.MoveList
	e.Position().LegalMoves(&legal)
	if !legal.Contains(res.Move) {
		t.Errorf("Think returned illegal move %v", res.Move)
	}
	if res.Depth < 1 || res.Nodes == 0 {
		t.Errorf("result depth=%d nodes=%d, want a completed search", res.Depth, res.Nodes)
	}
}

func TestThinkGameOver(t *testing.T) {
	e := newTestEngine(t)

	// Fool's mate: white is checkmated.
	if err := e.SetPosition("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	if _, err := e.Think(Limits{Depth: 2}); !errors.Is(err, ErrNoLegalMoves) {
		t.Errorf("Think on checkmate = %v, want ErrNoLegalMoves", err)
	}

	// Stalemate.
	if err := e.SetPosition("7k/8/6Q1/8/8/8/8/K7 b - - 0 1"); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	if _, err := e.Think(Limits{Depth: 2}); !errors.Is(err, ErrNoLegalMoves) {
		t.Errorf("Think on stalemate = %v, want ErrNoLegalMoves", err)
	}
}

func TestThinkProgressCallback(t *testing.T) {
	e := newTestEngine(t)
	var depths []int
	e.OnProgress(func(info Info) {
		depths = append(depths, info.Depth)
		if info.FEN != board.StartFEN {
			t.Errorf("progress snapshot %q, want the root position", info.FEN)
		}
	})

	if _, err := e.Think(Limits{Depth: 4}); err != nil {
		t.Fatalf("Think: %v", err)
	}
	if len(depths) == 0 {
		t.Fatal("no progress reports")
	}
	for i := 1; i < len(depths); i++ {
		if depths[i] <= depths[i-1] {
			t.Errorf("depths %v not strictly increasing", depths)
		}
	}
}

func TestThinkHonorsMoveTime(t *testing.T) {
	e := newTestEngine(t)
	// A rich middlegame that cannot be searched out within the
	// budget, so only the deadline can end the think.
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	if err := e.SetPosition(fen); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	budget := 50 * time.Millisecond
	start := time.Now()
	res, err := e.Think(Limits{MoveTime: budget})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Think: %v", err)
	}
	if res.Move == board.NullMove {
		t.Error("deadline search returned no move")
	}
	// The hard deadline is polled on a node interval, so allow a
	// bounded overshoot on top of the budget.
	if margin := 150 * time.Millisecond; elapsed > budget+margin {
		t.Errorf("Think ran %v against a %v budget", elapsed, budget)
	}
}

func TestStopDuringThink(t *testing.T) {
	e := newTestEngine(t)

	done := make(chan Result, 1)
	go func() {
		res, err := e.Think(Limits{Infinite: true})
		if err != nil {
			t.Errorf("Think: %v", err)
		}
		done <- res
	}()

	time.Sleep(50 * time.Millisecond)
	e.Stop()

	select {
	case res := <-done:
		if res.Move == board.NullMove {
			t.Error("stopped search returned no move")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Think did not return after Stop")
	}
}

func TestApply(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Apply("e2e4"); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if e.Position().SideToMove() != board.Black {
		t.Error("side to move did not flip after Apply")
	}

	err := e.Apply("e2e4")
	var illegal *IllegalMoveError
	if !errors.As(err, &illegal) {
		t.Errorf("Apply illegal move = %v, want *IllegalMoveError", err)
	}
}

func TestDifficultyRoundTrip(t *testing.T) {
	for d := Beginner; d <= Master; d++ {
		got, err := ParseDifficulty(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDifficulty(%q) = %v, %v", d.String(), got, err)
		}
	}
	if _, err := ParseDifficulty("grandmaster"); err == nil {
		t.Error("unknown level accepted")
	}
}

func TestFormatScore(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, "+0.00"},
		{150, "+1.50"},
		{-37, "-0.37"},
		{MateScore - 3, "mate 2"},
		{-(MateScore - 4), "mate -2"},
	}
	for _, tc := range cases {
		if got := FormatScore(tc.score); got != tc.want {
			t.Errorf("FormatScore(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
