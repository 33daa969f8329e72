package book

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/petrelchess/petrel/internal/board"
)

// encodeMove packs a move the way Polyglot books do: to in bits
// 0-5, from in bits 6-11, promotion in 12-14.
func encodeMove(from, to board.Square, promo int) uint16 {
	raw := uint16(to.File()) | uint16(to.Rank())<<3 |
		uint16(from.File())<<6 | uint16(from.Rank())<<9
	return raw | uint16(promo)<<12
}

func writeRecord(buf *bytes.Buffer, key uint64, raw uint16, weight uint16) {
	binary.Write(buf, binary.BigEndian, key)
	binary.Write(buf, binary.BigEndian, raw)
	binary.Write(buf, binary.BigEndian, weight)
	binary.Write(buf, binary.BigEndian, uint32(0)) // learn data, unused
}

func TestReadAndLookup(t *testing.T) {
	pos := board.StartingPosition()

	var buf bytes.Buffer
	writeRecord(&buf, pos.BookHash(), encodeMove(board.E2, board.E4, 0), 100)

	b, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if b.Positions() != 1 {
		t.Errorf("Positions() = %d, want 1", b.Positions())
	}

	m, ok := b.Lookup(pos)
	if !ok {
		t.Fatal("Lookup missed the starting position")
	}
	if m.From() != board.E2 || m.To() != board.E4 {
		t.Errorf("got %v, want e2e4", m)
	}
	if !m.IsDoublePush() {
		t.Error("resolved move lost the double-push flag")
	}
}

func TestLookupMiss(t *testing.T) {
	b, err := Read(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if m, ok := b.Lookup(board.StartingPosition()); ok {
		t.Errorf("empty book returned %v", m)
	}
}

func TestReadRejectsPartialRecord(t *testing.T) {
	var buf bytes.Buffer
	writeRecord(&buf, 1, 0, 1)
	buf.Write([]byte{0xAB, 0xCD}) // truncated second record

	if _, err := Read(&buf); err == nil {
		t.Error("partial trailing record accepted")
	}
}

func TestEntriesSortedByWeight(t *testing.T) {
	pos := board.StartingPosition()
	key := pos.BookHash()

	var buf bytes.Buffer
	writeRecord(&buf, key, encodeMove(board.E2, board.E4, 0), 10)
	writeRecord(&buf, key, encodeMove(board.D2, board.D4, 0), 200)
	writeRecord(&buf, key, encodeMove(board.G1, board.F3, 0), 50)

	b, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	entries := b.Entries(pos)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Weight > entries[i-1].Weight {
			t.Errorf("entries not sorted heaviest first: %v", entries)
		}
	}
	if entries[0].From != board.D2 || entries[0].To != board.D4 {
		t.Errorf("heaviest entry is %v, want d2d4", entries[0])
	}
}

func TestLookupSkipsIllegalEntries(t *testing.T) {
	pos := board.StartingPosition()
	key := pos.BookHash()

	var buf bytes.Buffer
	// e2e5 is never legal from the start; the entry must be skipped.
	writeRecord(&buf, key, encodeMove(board.E2, board.E5, 0), 1000)
	writeRecord(&buf, key, encodeMove(board.B1, board.C3, 0), 1)

	b, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	m, ok := b.Lookup(pos)
	if !ok {
		t.Fatal("Lookup found nothing")
	}
	if m.From() != board.B1 || m.To() != board.C3 {
		t.Errorf("got %v, want the legal b1c3", m)
	}
}

func TestDecodeCastling(t *testing.T) {
	// Books write castling as king takes own rook.
	cases := []struct {
		name     string
		from, to board.Square
		wantTo   board.Square
	}{
		{"white kingside", board.E1, board.H1, board.G1},
		{"white queenside", board.E1, board.A1, board.C1},
		{"black kingside", board.E8, board.H8, board.G8},
		{"black queenside", board.E8, board.A8, board.C8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := decodeEntry(encodeMove(tc.from, tc.to, 0), 1)
			if e.From != tc.from || e.To != tc.wantTo {
				t.Errorf("decoded %v-%v, want %v-%v", e.From, e.To, tc.from, tc.wantTo)
			}
		})
	}
}

func TestDecodePromotion(t *testing.T) {
	e := decodeEntry(encodeMove(board.E7, board.E8, 4), 1)
	if e.Promo != board.Queen {
		t.Errorf("promo piece %v, want queen", e.Promo)
	}
	e = decodeEntry(encodeMove(board.A7, board.A8, 1), 1)
	if e.Promo != board.Knight {
		t.Errorf("promo piece %v, want knight", e.Promo)
	}
	e = decodeEntry(encodeMove(board.E2, board.E4, 0), 1)
	if e.Promo != board.NoPieceType {
		t.Errorf("promo piece %v, want none", e.Promo)
	}
}
