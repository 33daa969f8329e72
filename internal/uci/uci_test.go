package uci

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/petrelchess/petrel/internal/engine"
)

// syncWriter serializes writes: info lines arrive from the search
// goroutine while the command loop may write too.
type syncWriter struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.b.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.b.String()
}

func runSession(t *testing.T, commands ...string) string {
	t.Helper()
	eng, err := engine.New(engine.Config{TableMB: 1})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	var out syncWriter
	h := New(eng, engine.Config{TableMB: 1}, &out)

	input := strings.Join(commands, "\n") + "\n"
	if err := h.Run(strings.NewReader(input)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestIdentify(t *testing.T) {
	out := runSession(t, "uci", "isready", "quit")

	for _, want := range []string{"id name Petrel", "option name Hash", "uciok", "readyok"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if i, j := strings.Index(out, "uciok"), strings.Index(out, "readyok"); i > j {
		t.Error("uciok should precede readyok")
	}
}

func TestGoProducesBestmove(t *testing.T) {
	out := runSession(t,
		"position startpos moves e2e4 e7e5",
		"go depth 3",
		"quit",
	)

	if !strings.Contains(out, "bestmove ") {
		t.Fatalf("no bestmove in output:\n%s", out)
	}
	if !strings.Contains(out, "info depth ") {
		t.Errorf("no info lines in output:\n%s", out)
	}
	if !strings.Contains(out, " score cp ") && !strings.Contains(out, " score mate ") {
		t.Errorf("info lines carry no score:\n%s", out)
	}
}

func TestGoReportsMate(t *testing.T) {
	out := runSession(t,
		"position fen 6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
		"go depth 4",
		"quit",
	)

	if !strings.Contains(out, "bestmove a1a8") {
		t.Errorf("expected bestmove a1a8:\n%s", out)
	}
	if !strings.Contains(out, "score mate 1") {
		t.Errorf("expected a mate score:\n%s", out)
	}
}

func TestCheckmatedPositionAnswersNullMove(t *testing.T) {
	out := runSession(t,
		"position fen rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
		"go depth 2",
		"quit",
	)
	if !strings.Contains(out, "bestmove 0000") {
		t.Errorf("expected bestmove 0000 when mated:\n%s", out)
	}
}

func TestRejectedPositionKeepsPrevious(t *testing.T) {
	out := runSession(t,
		"position startpos moves e2e4",
		"position fen not/a/real/fen",
		"d",
		"quit",
	)
	if !strings.Contains(out, "info string rejected position") {
		t.Errorf("bad FEN was not reported:\n%s", out)
	}
}

func TestParseLimits(t *testing.T) {
	cases := []struct {
		name string
		args string
		want engine.Limits
	}{
		{
			"clock",
			"wtime 300000 btime 300000 winc 2000 binc 2000",
			engine.Limits{
				WhiteTime: 5 * time.Minute, BlackTime: 5 * time.Minute,
				WhiteInc: 2 * time.Second, BlackInc: 2 * time.Second,
			},
		},
		{"movetime", "movetime 1500", engine.Limits{MoveTime: 1500 * time.Millisecond}},
		{"depth and nodes", "depth 9 nodes 40000", engine.Limits{Depth: 9, Nodes: 40000}},
		{"infinite", "infinite", engine.Limits{Infinite: true}},
		{"bare go", "", engine.Limits{Infinite: true}},
		{"mate", "mate 3", engine.Limits{Depth: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseLimits(strings.Fields(tc.args))
			if got != tc.want {
				t.Errorf("parseLimits(%q) = %+v, want %+v", tc.args, got, tc.want)
			}
		})
	}
}

func TestSplitOption(t *testing.T) {
	name, value := splitOption(strings.Fields("name Book value /opt/open ings/main.bin"))
	if name != "Book" {
		t.Errorf("name %q", name)
	}
	if value != "/opt/open ings/main.bin" {
		t.Errorf("value %q", value)
	}
}

func TestGoWhileSearchingIsRejected(t *testing.T) {
	out := runSession(t,
		"position startpos",
		"go infinite",
		"go depth 1",
		"quit",
	)
	if !strings.Contains(out, "search already running") {
		t.Errorf("second go not reported:\n%s", out)
	}
	if got := strings.Count(out, "bestmove "); got != 1 {
		t.Errorf("%d bestmove lines, want exactly 1:\n%s", got, out)
	}
}

func TestPositionDuringSearchStopsIt(t *testing.T) {
	out := runSession(t,
		"go infinite",
		"position startpos moves e2e4",
		"go depth 2",
		"quit",
	)
	// The running search is stopped (answering its go) before the
	// new position is applied, and the second go answers too.
	if got := strings.Count(out, "bestmove "); got != 2 {
		t.Errorf("%d bestmove lines, want 2:\n%s", got, out)
	}
	if strings.Contains(out, "rejected position") {
		t.Errorf("position was rejected:\n%s", out)
	}
}

func TestSetOptionInvalidHashValue(t *testing.T) {
	out := runSession(t,
		"position startpos moves e2e4",
		"setoption name Hash value 8",
		"setoption name Skill value hard",
		"setoption name Hash value 0",
		"go depth 2",
		"quit",
	)
	if !strings.Contains(out, "bad Hash value") {
		t.Errorf("invalid Hash accepted:\n%s", out)
	}
	if !strings.Contains(out, "bestmove ") {
		t.Errorf("engine unusable after setoption:\n%s", out)
	}
}
