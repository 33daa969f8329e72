// Package book reads Polyglot-format opening books and resolves
// their entries into legal moves.
package book

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"

	"github.com/petrelchess/petrel/internal/board"
)

// Entry is one candidate move for a book position. From/To/Promo
// are raw book coordinates; they become a real move only after
// matching against the position's legal moves.
type Entry struct {
	From   board.Square
	To     board.Square
	Promo  board.PieceType
	Weight uint16
}

// Book maps position keys to weighted candidate moves.
type Book struct {
	positions map[uint64][]Entry
	rng       *rand.Rand
}

// entrySize is the fixed on-disk record: key, move, weight, learn
// data, all big-endian.
const entrySize = 16

// Open loads a Polyglot book file.
func Open(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open book: %w", err)
	}
	defer f.Close()
	b, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read book %s: %w", path, err)
	}
	return b, nil
}

// Read parses Polyglot records from r until EOF. A trailing partial
// record is an error.
func Read(r io.Reader) (*Book, error) {
	b := &Book{
		positions: make(map[uint64][]Entry),
		rng:       rand.New(rand.NewSource(rand.Int63())),
	}
	var rec [entrySize]byte
	for {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			if err == io.EOF {
				return b, nil
			}
			return nil, err
		}
		key := binary.BigEndian.Uint64(rec[0:8])
		raw := binary.BigEndian.Uint16(rec[8:10])
		weight := binary.BigEndian.Uint16(rec[10:12])
		b.positions[key] = append(b.positions[key], decodeEntry(raw, weight))
	}
}

// decodeEntry unpacks the book move encoding: to in bits 0-5, from
// in bits 6-11, promotion piece in bits 12-14 (1=N .. 4=Q).
func decodeEntry(raw, weight uint16) Entry {
	e := Entry{
		To:     board.SquareAt(int(raw&7), int(raw>>3&7)),
		From:   board.SquareAt(int(raw>>6&7), int(raw>>9&7)),
		Promo:  board.NoPieceType,
		Weight: weight,
	}
	if p := raw >> 12 & 7; p >= 1 && p <= 4 {
		e.Promo = board.Knight + board.PieceType(p-1)
	}
	// Books encode castling as king takes own rook.
	switch {
	case e.From == board.E1 && e.To == board.H1:
		e.To = board.G1
	case e.From == board.E1 && e.To == board.A1:
		e.To = board.C1
	case e.From == board.E8 && e.To == board.H8:
		e.To = board.G8
	case e.From == board.E8 && e.To == board.A8:
		e.To = board.C8
	}
	return e
}

// Lookup returns a book move for pos, chosen randomly in proportion
// to entry weights. Entries that do not correspond to a legal move
// are skipped.
func (b *Book) Lookup(pos *board.Position) (board.Move, bool) {
	if b == nil {
		return board.NullMove, false
	}
	entries := b.Entries(pos)
	if len(entries) == 0 {
		return board.NullMove, false
	}

	total := 0
	for _, e := range entries {
		total += int(e.Weight)
	}
	pickAt := 0
	if total > 0 {
		pickAt = b.rng.Intn(total)
	}
	cum := 0
	for _, e := range entries {
		cum += int(e.Weight)
		if pickAt < cum || total == 0 {
			if m, ok := resolve(pos, e); ok {
				return m, true
			}
		}
	}
	// Weighted pick landed on an unresolvable entry; fall back to
	// the heaviest legal one.
	for _, e := range entries {
		if m, ok := resolve(pos, e); ok {
			return m, true
		}
	}
	return board.NullMove, false
}

// Entries returns the raw book entries for pos, heaviest first.
func (b *Book) Entries(pos *board.Position) []Entry {
	if b == nil {
		return nil
	}
	found := b.positions[pos.BookHash()]
	if len(found) == 0 {
		return nil
	}
	out := append([]Entry(nil), found...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}

// Positions returns the number of distinct keys in the book.
func (b *Book) Positions() int {
	if b == nil {
		return 0
	}
	return len(b.positions)
}

// resolve matches a raw entry against the legal moves of pos so the
// returned move carries the generator's flags.
func resolve(pos *board.Position, e Entry) (board.Move, bool) {
	var ml board.MoveList
	pos.LegalMoves(&ml)
	for _, m := range ml.All() {
		if m.From() == e.From && m.To() == e.To && m.Promotion() == e.Promo {
			return m, true
		}
	}
	return board.NullMove, false
}
