// Command petrel plays chess against the engine in the terminal.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/petrelchess/petrel/internal/board"
	"github.com/petrelchess/petrel/internal/engine"
	"github.com/petrelchess/petrel/internal/storage"
)

var (
	hashMB   = flag.Int("hash", 64, "transposition table size in MB")
	bookPath = flag.String("book", "", "Polyglot opening book")
	dataDir  = flag.String("data", "", "data directory (default: platform location)")
	level    = flag.String("level", "", "difficulty: beginner, easy, medium, hard, master")
)

// session holds one sitting at the board: the engine, the move
// history needed for undo, and the player's saved preferences.
type session struct {
	eng    *engine.Engine
	cfg    engine.Config
	store  *storage.Store
	prefs  *storage.Preferences
	out    *bufio.Writer
	limits engine.Limits

	baseFEN string
	moves   []string
	started time.Time
	engines map[board.Color]bool // sides the engine plays
	flipped bool                 // show the board from black's side
	over    bool
}

func main() {
	flag.Parse()
	log.SetFlags(0)

	store, err := storage.Open(*dataDir)
	if err != nil {
		log.Fatalf("open data store: %v", err)
	}
	defer store.Close()

	prefs, err := store.LoadPreferences()
	if err != nil {
		log.Fatalf("load preferences: %v", err)
	}
	if *level != "" {
		d, err := engine.ParseDifficulty(*level)
		if err != nil {
			log.Fatal(err)
		}
		prefs.Difficulty = d
	}
	if *bookPath != "" {
		prefs.BookPath = *bookPath
	}

	cfg := engine.Config{
		TableMB:    *hashMB,
		Difficulty: prefs.Difficulty,
		BookPath:   prefs.BookPath,
	}
	eng, err := engine.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	s := &session{
		eng:   eng,
		cfg:   cfg,
		store: store,
		prefs: prefs,
		out:   bufio.NewWriter(os.Stdout),
	}
	s.newGame()

	if first, _ := store.FirstRun(); first {
		s.printf("Welcome to Petrel. Type 'help' for commands.\n")
		store.MarkSetUp()
	}
	s.printf("Playing %s as %s. Your move.\n", prefs.Difficulty, s.playerColorName())

	s.loop(bufio.NewScanner(os.Stdin))

	prefs.Difficulty = s.cfg.Difficulty
	if err := store.SavePreferences(prefs); err != nil {
		log.Printf("save preferences: %v", err)
	}
}

func (s *session) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
	s.out.Flush()
}

func (s *session) playerColorName() string {
	if s.prefs.PlaysWhite {
		return "white"
	}
	return "black"
}

func (s *session) newGame() {
	s.eng.Reset()
	s.eng.SetPosition(board.StartFEN)
	s.baseFEN = board.StartFEN
	s.moves = nil
	s.started = time.Now()
	s.over = false
	s.flipped = !s.prefs.PlaysWhite
	s.engines = map[board.Color]bool{board.White: !s.prefs.PlaysWhite, board.Black: s.prefs.PlaysWhite}
}

func (s *session) loop(in *bufio.Scanner) {
	s.show()
	for {
		// Engine moves automatically on its turns.
		if !s.over && s.engines[s.eng.Position().SideToMove()] {
			s.engineMove()
			continue
		}

		s.printf("> ")
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return
		case "help":
			s.help()
		case "new":
			s.newGame()
			s.show()
		case "go":
			if !s.over {
				s.engineMove()
			}
		case "play":
			// Engine takes over the side to move.
			s.engines[s.eng.Position().SideToMove()] = true
		case "off":
			s.engines[board.White] = false
			s.engines[board.Black] = false
		case "switch":
			s.prefs.PlaysWhite = !s.prefs.PlaysWhite
			s.engines[board.White] = !s.prefs.PlaysWhite
			s.engines[board.Black] = s.prefs.PlaysWhite
			s.flipped = !s.prefs.PlaysWhite
		case "undo":
			s.undo()
		case "fen":
			s.fen(args)
		case "flip":
			s.flipped = !s.flipped
			s.show()
		case "sd":
			s.setDepth(args)
		case "st":
			s.setMoveTime(args)
		case "level":
			s.setLevel(args)
		case "eval":
			s.printf("static eval: %s\n", engine.FormatScore(s.eng.StaticEval()))
		case "stats":
			s.showStats()
		default:
			s.playerMove(cmd)
		}
	}
}

func (s *session) help() {
	s.printf(`  <move>        play a move in coordinate notation (e2e4, e7e8q)
  go            engine moves now
  play / off    engine plays the side to move / engine plays nothing
  switch        swap colors with the engine
  undo          take back the last full move
  new           start a new game
  fen [FEN]     show or load a position
  sd <n>        limit engine to depth n (0 clears)
  st <seconds>  limit engine thinking time (0 clears)
  level <name>  beginner, easy, medium, hard, master
  eval          show the static evaluation
  stats         show lifetime results
  quit          leave
`)
}

func (s *session) show() {
	s.printf("%s\n", render(s.eng.Position(), s.flipped))
}

// render draws the board, from black's side when flipped.
func render(pos *board.Position, flipped bool) string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		rank := 7 - row
		if flipped {
			rank = row
		}
		fmt.Fprintf(&sb, " %d ", rank+1)
		for col := 0; col < 8; col++ {
			file := col
			if flipped {
				file = 7 - col
			}
			pc := pos.PieceAt(board.SquareAt(file, rank))
			if pc == board.NoPiece {
				sb.WriteString(" .")
			} else {
				sb.WriteByte(' ')
				sb.WriteByte(pc.Char())
			}
		}
		sb.WriteByte('\n')
	}
	if flipped {
		sb.WriteString("    h g f e d c b a")
	} else {
		sb.WriteString("    a b c d e f g h")
	}
	return sb.String()
}

func (s *session) playerMove(moveStr string) {
	if s.over {
		s.printf("game over; 'new' starts another\n")
		return
	}
	if err := s.eng.Apply(moveStr); err != nil {
		s.printf("illegal move: %s\n", moveStr)
		return
	}
	s.moves = append(s.moves, moveStr)
	s.show()
	s.checkGameOver()
}

func (s *session) engineMove() {
	limits := s.limits
	res, err := s.eng.Think(limits)
	if err != nil {
		s.checkGameOver()
		return
	}
	if err := s.eng.Apply(res.Move.String()); err != nil {
		log.Fatalf("engine produced illegal move %v: %v", res.Move, err)
	}
	s.moves = append(s.moves, res.Move.String())

	if res.FromBook {
		s.printf("engine plays %v (book)\n", res.Move)
	} else {
		s.printf("engine plays %v (%s, depth %d, %d nodes)\n",
			res.Move, engine.FormatScore(res.Score), res.Depth, res.Nodes)
	}
	s.show()
	s.checkGameOver()
}

// undo takes back moves until it is the player's turn again.
func (s *session) undo() {
	n := len(s.moves) - 1
	if n < 0 {
		return
	}
	for n > 0 && s.engines[s.replaySide(n)] {
		n--
	}
	s.moves = s.moves[:n]
	s.eng.SetPosition(s.baseFEN, s.moves...)
	s.over = false
	s.show()
}

// replaySide returns the side that made move i of the history.
func (s *session) replaySide(i int) board.Color {
	pos, err := board.ParseFEN(s.baseFEN)
	if err != nil {
		return board.White
	}
	side := pos.SideToMove()
	if i%2 == 1 {
		side = side.Opponent()
	}
	return side
}

func (s *session) fen(args []string) {
	if len(args) == 0 {
		s.printf("%s\n", s.eng.Position().FEN())
		return
	}
	fen := strings.Join(args, " ")
	if err := s.eng.SetPosition(fen); err != nil {
		s.printf("bad FEN: %v\n", err)
		return
	}
	s.baseFEN = fen
	s.moves = nil
	s.over = false
	s.show()
}

func (s *session) setDepth(args []string) {
	if len(args) != 1 {
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		s.printf("sd wants a depth\n")
		return
	}
	s.limits.Depth = n
}

func (s *session) setMoveTime(args []string) {
	if len(args) != 1 {
		return
	}
	sec, err := strconv.ParseFloat(args[0], 64)
	if err != nil || sec < 0 {
		s.printf("st wants seconds\n")
		return
	}
	s.limits.MoveTime = time.Duration(sec * float64(time.Second))
}

func (s *session) setLevel(args []string) {
	if len(args) != 1 {
		s.printf("level is %s\n", s.cfg.Difficulty)
		return
	}
	d, err := engine.ParseDifficulty(args[0])
	if err != nil {
		s.printf("%v\n", err)
		return
	}
	s.cfg.Difficulty = d
	s.prefs.Difficulty = d
	eng, err := engine.New(s.cfg)
	if err != nil {
		log.Fatal(err)
	}
	eng.SetPosition(s.baseFEN, s.moves...)
	s.eng = eng
}

func (s *session) checkGameOver() {
	pos := s.eng.Position()
	var verdict string
	var result storage.GameResult

	switch {
	case pos.IsCheckmate():
		winner := pos.SideToMove().Opponent()
		verdict = fmt.Sprintf("checkmate, %s wins", colorName(winner))
		result.Won = winner == s.playerColor()
	case pos.IsStalemate():
		verdict, result.Draw = "stalemate", true
	case pos.IsFiftyMoveDraw():
		verdict, result.Draw = "draw by the fifty-move rule", true
	case pos.Repetitions() >= 3:
		verdict, result.Draw = "draw by threefold repetition", true
	case pos.IsInsufficientMaterial():
		verdict, result.Draw = "draw, insufficient material", true
	default:
		return
	}

	s.printf("%s\n", verdict)
	s.over = true

	// Only score games actually played against the engine.
	if s.engines[s.playerColor()] {
		return
	}
	result.Difficulty = s.cfg.Difficulty
	result.Duration = time.Since(s.started)
	if err := s.store.RecordGame(result); err != nil {
		log.Printf("record game: %v", err)
	}
}

func (s *session) playerColor() board.Color {
	if s.prefs.PlaysWhite {
		return board.White
	}
	return board.Black
}

func colorName(c board.Color) string {
	if c == board.White {
		return "white"
	}
	return "black"
}

func (s *session) showStats() {
	stats, err := s.store.LoadStats()
	if err != nil {
		s.printf("stats unavailable: %v\n", err)
		return
	}
	s.printf("games %d  +%d =%d -%d  (%.0f%% wins, best streak %d)\n",
		stats.GamesPlayed, stats.Wins, stats.Draws, stats.Losses,
		stats.WinRate(), stats.BestStreak)
}
