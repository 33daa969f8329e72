package engine

import (
	"sync/atomic"
	"testing"

	"github.com/petrelchess/petrel/internal/board"
)

func searchFEN(t *testing.T, fen string, depth int) result {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	s := &searcher{
		pos:      pos,
		tt:       NewTranspositionTable(8),
		order:    &orderer{},
		stop:     new(atomic.Bool),
		maxDepth: depth,
	}
	return s.run()
}

func TestFindsMateInOne(t *testing.T) {
	cases := []struct {
		fen  string
		want string
	}{
		// back rank mate with the rook
		{"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", "a1a8"},
		// smothered knight mate
		{"6rk/6pp/7N/8/8/8/8/6K1 w - - 0 1", "h6f7"},
		// queen takes the mating square
		{"k7/2Q5/2K5/8/8/8/8/8 w - - 0 1", "c7b7"},
	}
	for _, tc := range cases {
		r := searchFEN(t, tc.fen, 4)
		if got := r.move.String(); got != tc.want {
			t.Errorf("%s: best move %s, want %s", tc.fen, got, tc.want)
		}
		if moves, ok := MateDistance(r.score); !ok || moves != 1 {
			t.Errorf("%s: score %d is not mate in 1", tc.fen, r.score)
		}
	}
}

func TestFindsMateInTwo(t *testing.T) {
	// 1.Kb6 boxes the king in, 2.Rg8 mates.
	r := searchFEN(t, "k7/6R1/2K5/8/8/8/8/8 w - - 0 1", 6)
	moves, ok := MateDistance(r.score)
	if !ok {
		t.Fatalf("score %d is not a mate score", r.score)
	}
	if moves != 2 {
		t.Errorf("mate distance %d, want 2", moves)
	}
}

func TestLosingSideReportsNegativeScore(t *testing.T) {
	// Black to move, down a queen with no compensation.
	r := searchFEN(t, "4k3/8/8/8/8/8/8/Q3K3 b - - 0 1", 4)
	if r.score > -500 {
		t.Errorf("score %d, want well below -500 when down a queen", r.score)
	}
}

func TestDrawScoreOnRepetition(t *testing.T) {
	// KQ vs KQ shuffle: the defending side can force repetition; a
	// shallow search must not report a decisive score.
	r := searchFEN(t, "8/8/8/3q4/8/3k4/8/3K4 w - - 0 1", 6)
	if _, mate := MateDistance(r.score); mate {
		t.Fatalf("lone king down a queen reported mate score %d", r.score)
	}
}

func TestDeterministicSearch(t *testing.T) {
	const fen = "r1bqkbnr/pppp1ppp/2n5/1B2p3/4P3/5N2/PPPP1PPP/RNBQK2R b KQkq - 3 3"
	first := searchFEN(t, fen, 5)
	second := searchFEN(t, fen, 5)
	if first.move != second.move || first.score != second.score || first.nodes != second.nodes {
		t.Errorf("same search diverged: %v/%d/%d vs %v/%d/%d",
			first.move, first.score, first.nodes,
			second.move, second.score, second.nodes)
	}
}

func TestStopFlagAbortsSearch(t *testing.T) {
	pos := board.StartingPosition()
	stop := new(atomic.Bool)
	stop.Store(true)
	s := &searcher{
		pos:      pos,
		tt:       NewTranspositionTable(1),
		order:    &orderer{},
		stop:     stop,
		maxDepth: 30,
	}
	r := s.run()
	// The pre-set flag must cut the search off almost immediately.
	if r.nodes > 2*stopPollInterval {
		t.Errorf("searched %d nodes with stop flag set", r.nodes)
	}
}

func TestNodeLimit(t *testing.T) {
	pos := board.StartingPosition()
	s := &searcher{
		pos:      pos,
		tt:       NewTranspositionTable(4),
		order:    &orderer{},
		stop:     new(atomic.Bool),
		maxDepth: 30,
		maxNodes: 20000,
	}
	r := s.run()
	if r.nodes > 20000+stopPollInterval {
		t.Errorf("node limit 20000 exceeded: %d", r.nodes)
	}
	if r.move == board.NullMove {
		t.Error("bounded search returned no move")
	}
}

func TestPVStartsWithBestMove(t *testing.T) {
	r := searchFEN(t, board.StartFEN, 5)
	if len(r.pv) == 0 {
		t.Fatal("empty principal variation")
	}
	if r.pv[0] != r.move {
		t.Errorf("pv starts with %v, best move is %v", r.pv[0], r.move)
	}
	// The PV must be a playable line.
	pos := board.StartingPosition()
	for _, m := range r.pv {
		var ml board.MoveList
		pos.LegalMoves(&ml)
		if !ml.Contains(m) {
			t.Fatalf("pv move %v not legal in %s", m, pos.FEN())
		}
		pos.MakeMove(m)
	}
}

func TestMateDistance(t *testing.T) {
	cases := []struct {
		score int
		moves int
		ok    bool
	}{
		{MateScore - 1, 1, true},
		{MateScore - 2, 1, true},
		{MateScore - 3, 2, true},
		{-MateScore + 2, -1, true},
		{-MateScore + 4, -2, true},
		{150, 0, false},
		{0, 0, false},
	}
	for _, tc := range cases {
		moves, ok := MateDistance(tc.score)
		if moves != tc.moves || ok != tc.ok {
			t.Errorf("MateDistance(%d) = %d,%v want %d,%v", tc.score, moves, ok, tc.moves, tc.ok)
		}
	}
}
