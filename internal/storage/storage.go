package storage

import (
	"encoding/json"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/petrelchess/petrel/internal/engine"
)

const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstRun    = "first_run"
)

// Preferences holds the settings the front end restores on startup.
type Preferences struct {
	Name       string            `json:"name"`
	Difficulty engine.Difficulty `json:"difficulty"`
	PlaysWhite bool              `json:"plays_white"`
	BookPath   string            `json:"book_path"`
	ShowEval   bool              `json:"show_eval"`
	LastPlayed time.Time         `json:"last_played"`
}

// DefaultPreferences returns the settings used before the player
// has saved any.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Name:       "Player",
		Difficulty: engine.Medium,
		PlaysWhite: true,
		ShowEval:   true,
	}
}

// Stats accumulates results across games against the engine.
type Stats struct {
	GamesPlayed   int            `json:"games_played"`
	Wins          int            `json:"wins"`
	Losses        int            `json:"losses"`
	Draws         int            `json:"draws"`
	WinsByLevel   map[string]int `json:"wins_by_level"`
	TotalPlayTime time.Duration  `json:"total_play_time"`
	BestStreak    int            `json:"best_streak"`
	CurrentStreak int            `json:"current_streak"`
}

// NewStats returns zeroed statistics.
func NewStats() *Stats {
	return &Stats{WinsByLevel: make(map[string]int)}
}

// WinRate returns the percentage of games won.
func (s *Stats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// GameResult describes one finished game from the player's side.
type GameResult struct {
	Won        bool
	Draw       bool
	Difficulty engine.Difficulty
	Duration   time.Duration
}

// Store wraps a Badger database holding preferences and stats.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the database in dir. An empty dir uses
// the platform default under DataDir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		var err error
		dir, err = DatabaseDir()
		if err != nil {
			return nil, err
		}
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// FirstRun reports whether this database has never been marked as
// set up.
func (s *Store) FirstRun() (bool, error) {
	first := true
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstRun))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		first = false
		return nil
	})
	return first, err
}

// MarkSetUp records that first-run setup has completed.
func (s *Store) MarkSetUp() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstRun), []byte("done"))
	})
}

// SavePreferences writes prefs, stamping LastPlayed.
func (s *Store) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences reads the saved preferences, or the defaults when
// none have been saved yet.
func (s *Store) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	if err := s.getJSON(keyPreferences, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// SaveStats writes the statistics record.
func (s *Store) SaveStats(stats *Stats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats reads the statistics, or zeroed stats when none exist.
func (s *Store) LoadStats() (*Stats, error) {
	stats := NewStats()
	if err := s.getJSON(keyStats, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// RecordGame folds one result into the stored statistics.
func (s *Store) RecordGame(result GameResult) error {
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	switch {
	case result.Draw:
		stats.Draws++
		stats.CurrentStreak = 0
	case result.Won:
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.BestStreak {
			stats.BestStreak = stats.CurrentStreak
		}
		stats.WinsByLevel[result.Difficulty.String()]++
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}

	return s.SaveStats(stats)
}

func (s *Store) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

func (s *Store) getJSON(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}
