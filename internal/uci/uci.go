// Package uci speaks the Universal Chess Interface protocol on top
// of the engine, so the program can plug into standard chess GUIs.
package uci

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/petrelchess/petrel/internal/board"
	"github.com/petrelchess/petrel/internal/engine"
)

const (
	engineName   = "Petrel"
	engineAuthor = "the Petrel authors"
)

// Handler runs the UCI command loop for one engine instance.
type Handler struct {
	eng *engine.Engine
	cfg engine.Config
	out io.Writer

	searchDone chan struct{}
}

// New wraps eng in a UCI handler. Output (including search info
// lines) goes to out.
func New(eng *engine.Engine, cfg engine.Config, out io.Writer) *Handler {
	h := &Handler{eng: eng, cfg: cfg, out: out}
	eng.OnProgress(h.sendInfo)
	return h
}

// Run reads commands from r until "quit" or EOF. It blocks; callers
// wanting concurrent input must provide it on r themselves.
func (h *Handler) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "uci":
			h.identify()
		case "isready":
			h.send("readyok")
		case "ucinewgame":
			h.stop()
			h.eng.Reset()
			h.eng.SetPosition(board.StartFEN)
		case "position":
			h.stop()
			h.position(args)
		case "go":
			h.startSearch(args)
		case "stop":
			h.stop()
		case "setoption":
			h.stop()
			h.setOption(args)
		case "quit":
			h.stop()
			return nil
		case "d":
			h.send(h.eng.Position().String())
		case "perft":
			h.perft(args)
		}
	}
	h.stop()
	return scanner.Err()
}

func (h *Handler) send(format string, a ...any) {
	fmt.Fprintf(h.out, format+"\n", a...)
}

func (h *Handler) identify() {
	h.send("id name %s", engineName)
	h.send("id author %s", engineAuthor)
	h.send("option name Hash type spin default 64 min 1 max 4096")
	h.send("option name Book type string default <empty>")
	h.send("option name BookDepth type spin default 12 min 0 max 50")
	h.send("option name Skill type combo default medium var beginner var easy var medium var hard var master")
	h.send("uciok")
}

// position handles "position [startpos | fen <fen>] [moves ...]".
func (h *Handler) position(args []string) {
	if len(args) == 0 {
		return
	}

	fen := board.StartFEN
	rest := args[1:]
	if args[0] == "fen" {
		end := len(args)
		for i, a := range args {
			if a == "moves" {
				end = i
				break
			}
		}
		fen = strings.Join(args[1:end], " ")
		rest = args[end:]
	} else if args[0] != "startpos" {
		return
	}

	var moves []string
	if len(rest) > 0 && rest[0] == "moves" {
		moves = rest[1:]
	}

	if err := h.eng.SetPosition(fen, moves...); err != nil {
		h.send("info string rejected position: %v", err)
	}
}

// startSearch launches a search in the background and prints
// bestmove when it returns.
func (h *Handler) startSearch(args []string) {
	if h.busy() {
		// One search at a time; the GUI must stop the running one
		// first.
		h.send("info string search already running, ignoring go")
		return
	}
	limits := parseLimits(args)

	done := make(chan struct{})
	h.searchDone = done
	go func() {
		defer close(done)
		res, err := h.eng.Think(limits)
		if err != nil {
			h.send("bestmove 0000")
			return
		}
		if res.FromBook {
			h.send("info string book move")
		}
		if res.Ponder != board.NullMove {
			h.send("bestmove %s ponder %s", res.Move, res.Ponder)
			return
		}
		h.send("bestmove %s", res.Move)
	}()
}

func (h *Handler) stop() {
	if h.searchDone == nil {
		return
	}
	h.eng.Stop()
	<-h.searchDone
	h.searchDone = nil
}

// busy reports whether a search is still in flight, clearing the
// bookkeeping for one that has finished on its own.
func (h *Handler) busy() bool {
	if h.searchDone == nil {
		return false
	}
	select {
	case <-h.searchDone:
		h.searchDone = nil
		return false
	default:
		return true
	}
}

// parseLimits maps "go" arguments onto search limits. Unknown
// tokens are ignored, as GUIs send extensions freely.
func parseLimits(args []string) engine.Limits {
	var limits engine.Limits

	ms := func(s string) time.Duration {
		n, _ := strconv.Atoi(s)
		return time.Duration(n) * time.Millisecond
	}
	for i := 0; i < len(args); i++ {
		next := ""
		if i+1 < len(args) {
			next = args[i+1]
		}
		switch args[i] {
		case "infinite":
			limits.Infinite = true
			continue
		case "depth":
			limits.Depth, _ = strconv.Atoi(next)
		case "nodes":
			limits.Nodes, _ = strconv.ParseUint(next, 10, 64)
		case "movetime":
			limits.MoveTime = ms(next)
		case "wtime":
			limits.WhiteTime = ms(next)
		case "btime":
			limits.BlackTime = ms(next)
		case "winc":
			limits.WhiteInc = ms(next)
		case "binc":
			limits.BlackInc = ms(next)
		case "mate":
			// Bound the search instead; depth 2n-1 reaches a mate in n.
			if n, err := strconv.Atoi(next); err == nil {
				limits.Depth = 2*n - 1
			}
		default:
			continue
		}
		i++
	}

	// "go" with no arguments means think forever.
	if limits == (engine.Limits{}) {
		limits.Infinite = true
	}
	return limits
}

// setOption handles "setoption name <name> [value <value>]".
// Options that change engine construction rebuild it in place,
// carrying the current position over.
func (h *Handler) setOption(args []string) {
	name, value := splitOption(args)

	cfg := h.cfg
	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 1 {
			h.send("info string bad Hash value %q", value)
			return
		}
		cfg.TableMB = mb
	case "book":
		if value == "<empty>" {
			value = ""
		}
		cfg.BookPath = value
	case "bookdepth":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			h.send("info string bad BookDepth value %q", value)
			return
		}
		cfg.BookDepth = n
	case "skill":
		d, err := engine.ParseDifficulty(strings.ToLower(value))
		if err != nil {
			h.send("info string bad Skill value %q", value)
			return
		}
		cfg.Difficulty = d
	default:
		return
	}

	h.rebuild(cfg)
}

func (h *Handler) rebuild(cfg engine.Config) {
	fen := h.eng.Position().FEN()
	eng, err := engine.New(cfg)
	if err != nil {
		h.send("info string %v", err)
		return
	}
	eng.SetPosition(fen)
	eng.OnProgress(h.sendInfo)
	h.eng, h.cfg = eng, cfg
}

// splitOption separates the name and value parts, both of which may
// contain spaces.
func splitOption(args []string) (name, value string) {
	var cur *string
	for _, a := range args {
		switch a {
		case "name":
			cur = &name
		case "value":
			cur = &value
		default:
			if cur == nil {
				continue
			}
			if *cur != "" {
				*cur += " "
			}
			*cur += a
		}
	}
	return name, value
}

// sendInfo prints one "info" line per completed depth.
func (h *Handler) sendInfo(info engine.Info) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "info depth %d", info.Depth)

	if moves, ok := engine.MateDistance(info.Score); ok {
		fmt.Fprintf(&sb, " score mate %d", moves)
	} else {
		fmt.Fprintf(&sb, " score cp %d", info.Score)
	}

	fmt.Fprintf(&sb, " nodes %d time %d", info.Nodes, info.Elapsed.Milliseconds())
	if info.Elapsed > 0 {
		fmt.Fprintf(&sb, " nps %d", uint64(float64(info.Nodes)/info.Elapsed.Seconds()))
	}
	if len(info.PV) > 0 {
		sb.WriteString(" pv")
		for _, m := range info.PV {
			sb.WriteByte(' ')
			sb.WriteString(m.String())
		}
	}
	h.send("%s", sb.String())
}

func (h *Handler) perft(args []string) {
	depth := 5
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			depth = n
		}
	}

	start := time.Now()
	nodes := h.eng.Position().Perft(depth)
	elapsed := time.Since(start)

	h.send("info string perft(%d) = %d in %v", depth, nodes, elapsed)
}
