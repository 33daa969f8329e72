package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/petrelchess/petrel/internal/engine"
	"github.com/petrelchess/petrel/internal/uci"
)

const defaultBookName = "petrel-book.bin"

var (
	hashMB   = flag.Int("hash", 64, "transposition table size in MB")
	bookPath = flag.String("book", "", "Polyglot opening book (default: auto-detect)")
	noBook   = flag.Bool("nobook", false, "disable the opening book")
)

func main() {
	flag.Parse()

	cfg := engine.Config{
		TableMB:    *hashMB,
		Difficulty: engine.Master,
	}
	if !*noBook {
		cfg.BookPath = *bookPath
		if cfg.BookPath == "" {
			cfg.BookPath = findBook()
		}
	}

	eng, err := engine.New(cfg)
	if err != nil {
		// A bad book should not keep the engine off the board.
		var cfgErr *engine.ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Field == "BookPath" {
			log.Printf("opening book unavailable: %v", err)
			cfg.BookPath = ""
			eng, err = engine.New(cfg)
		}
		if err != nil {
			log.Fatal(err)
		}
	}

	h := uci.New(eng, cfg, os.Stdout)
	if err := h.Run(os.Stdin); err != nil {
		log.Fatal(err)
	}
}

// findBook looks for a book file in the usual places.
func findBook() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	for _, dir := range []string{
		filepath.Join(home, ".petrel"),
		".",
	} {
		path := filepath.Join(dir, defaultBookName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
