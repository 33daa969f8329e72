package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/petrelchess/petrel/internal/board"
	"github.com/petrelchess/petrel/internal/book"
)

// Difficulty selects a preset strength level for casual play. Each
// level caps depth and thinking time; serious callers pass explicit
// Limits instead.
type Difficulty int

const (
	Beginner Difficulty = iota
	Easy
	Medium
	Hard
	Master
)

var difficultyNames = [5]string{"beginner", "easy", "medium", "hard", "master"}

func (d Difficulty) String() string {
	if d < Beginner || d > Master {
		return "unknown"
	}
	return difficultyNames[d]
}

// ParseDifficulty maps a level name to its Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	for i, name := range difficultyNames {
		if s == name {
			return Difficulty(i), nil
		}
	}
	return Medium, &ConfigError{Field: "difficulty", Reason: fmt.Sprintf("unknown level %q", s)}
}

// limits are the per-move bounds a preset implies.
func (d Difficulty) limits() Limits {
	switch d {
	case Beginner:
		return Limits{Depth: 2, MoveTime: 250 * time.Millisecond}
	case Easy:
		return Limits{Depth: 4, MoveTime: 500 * time.Millisecond}
	case Medium:
		return Limits{Depth: 6, MoveTime: time.Second}
	case Hard:
		return Limits{Depth: 8, MoveTime: 2 * time.Second}
	default:
		return Limits{Depth: 12, MoveTime: 5 * time.Second}
	}
}

// Config sets up a new Engine.
type Config struct {
	TableMB    int        // transposition table size, default 64
	Difficulty Difficulty // preset used when Think gets zero Limits
	BookPath   string     // optional Polyglot opening book
	BookDepth  int        // stop consulting the book after this many full moves, default 12
}

// Result is the outcome of one Think call.
type Result struct {
	Move     board.Move
	Ponder   board.Move // expected reply, when the PV has one
	Score    int        // centipawns from the mover's view, mate band near ±MateScore
	Depth    int
	Nodes    uint64
	Elapsed  time.Duration
	FromBook bool
}

// Engine ties a position to the search machinery. One Engine
// supports one search at a time; Stop may be called concurrently
// with Think, everything else must be serialized by the caller.
type Engine struct {
	pos      *board.Position
	tt       *TranspositionTable
	order    orderer
	book     *book.Book
	cfg      Config
	stop     atomic.Bool
	progress func(Info)
}

// New builds an engine from cfg. A missing or unreadable book file
// is a configuration error; no book configured is fine.
func New(cfg Config) (*Engine, error) {
	if cfg.TableMB < 0 {
		return nil, &ConfigError{Field: "TableMB", Reason: "must not be negative"}
	}
	if cfg.TableMB == 0 {
		cfg.TableMB = 64
	}
	if cfg.Difficulty < Beginner || cfg.Difficulty > Master {
		return nil, &ConfigError{Field: "Difficulty", Reason: "unknown level"}
	}
	if cfg.BookDepth == 0 {
		cfg.BookDepth = 12
	}

	e := &Engine{
		pos: board.StartingPosition(),
		tt:  NewTranspositionTable(cfg.TableMB),
		cfg: cfg,
	}
	if cfg.BookPath != "" {
		b, err := book.Open(cfg.BookPath)
		if err != nil {
			return nil, &ConfigError{Field: "BookPath", Reason: err.Error()}
		}
		e.book = b
	}
	return e, nil
}

// OnProgress registers a callback invoked after every completed
// search depth. Pass nil to disable.
func (e *Engine) OnProgress(fn func(Info)) { e.progress = fn }

// Position returns the engine's current position.
func (e *Engine) Position() *board.Position { return e.pos }

// SetPosition replaces the engine's position with the one described
// by fen ("startpos" is accepted) plus the given long-algebraic
// moves. On any error the previous position is kept unchanged.
func (e *Engine) SetPosition(fen string, moves ...string) error {
	if fen == "startpos" {
		fen = board.StartFEN
	}
	pos, err := board.ParseFEN(fen)
	if err != nil {
		return err
	}
	for _, s := range moves {
		m, err := board.ParseUCIMove(pos, s)
		if err != nil {
			return &IllegalMoveError{Move: s, FEN: pos.FEN()}
		}
		pos.MakeMove(m)
	}
	e.pos = pos
	return nil
}

// Reset clears the search state accumulated across moves: the
// transposition table and the history heuristics.
func (e *Engine) Reset() {
	e.tt.Clear()
	e.order = orderer{}
}

// Think finds the best move under the given limits. A zero Limits
// falls back to the configured difficulty preset. Think blocks until
// the search finishes, a limit expires, or Stop is called; it always
// reports the best line found so far rather than failing, except
// when the game is over (ErrNoLegalMoves).
func (e *Engine) Think(limits Limits) (Result, error) {
	e.stop.Store(false)

	if limits == (Limits{}) {
		limits = e.cfg.Difficulty.limits()
	}

	var legal board.MoveList
	e.pos.LegalMoves(&legal)
	if legal.Len() == 0 {
		return Result{}, ErrNoLegalMoves
	}

	if m, ok := e.probeBook(); ok {
		return Result{Move: m, FromBook: true}, nil
	}

	s := &searcher{
		pos:      e.pos.Clone(),
		tt:       e.tt,
		order:    &e.order,
		stop:     &e.stop,
		tc:       newTimeControl(limits, e.pos.SideToMove()),
		maxDepth: limits.Depth,
		maxNodes: limits.Nodes,
		progress: e.progress,
	}
	r := s.run()

	res := Result{
		Move:    r.move,
		Score:   r.score,
		Depth:   r.depth,
		Nodes:   r.nodes,
		Elapsed: s.tc.elapsed(),
	}
	if len(r.pv) > 1 {
		res.Ponder = r.pv[1]
	}
	// If even depth 1 was cut short, any legal move beats none.
	if res.Move == board.NullMove {
		res.Move = legal.At(0)
		res.Score = evaluate(e.pos)
	}
	return res, nil
}

// StaticEval returns the evaluation of the current position without
// searching, from the side to move's view.
func (e *Engine) StaticEval() int { return evaluate(e.pos) }

// Stop aborts a running Think as soon as the search polls the flag.
// Safe to call from any goroutine, and a no-op when idle.
func (e *Engine) Stop() { e.stop.Store(true) }

// Apply plays a move on the engine's own board.
func (e *Engine) Apply(moveStr string) error {
	m, err := board.ParseUCIMove(e.pos, moveStr)
	if err != nil {
		return &IllegalMoveError{Move: moveStr, FEN: e.pos.FEN()}
	}
	e.pos.MakeMove(m)
	return nil
}

func (e *Engine) probeBook() (board.Move, bool) {
	if e.book == nil || e.pos.FullMoveNumber() > e.cfg.BookDepth {
		return board.NullMove, false
	}
	return e.book.Lookup(e.pos)
}

// FormatScore renders a score the way humans read it: pawns with
// two decimals, or mate distance.
func FormatScore(score int) string {
	if moves, ok := MateDistance(score); ok {
		return fmt.Sprintf("mate %d", moves)
	}
	return fmt.Sprintf("%+.2f", float64(score)/100)
}
