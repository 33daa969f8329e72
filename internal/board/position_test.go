package board

import "testing"

func TestBackRankMate(t *testing.T) {
	p := mustParseFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if !p.InCheck() {
		t.Fatal("king on h8 should be in check from a8 rook")
	}
	if !p.IsCheckmate() {
		t.Error("position should be checkmate")
	}
	if p.IsStalemate() {
		t.Error("checkmate reported as stalemate")
	}
}

func TestKingCapturesChecker(t *testing.T) {
	p := mustParseFEN(t, "6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if p.IsCheckmate() {
		t.Error("king can capture the rook on g8, not checkmate")
	}
	var ml MoveList
	p.LegalMoves(&ml)
	if !ml.Contains(CaptureMove(H8, G8)) {
		t.Errorf("Kxg8 missing from legal moves %v", ml.All())
	}
}

func TestStalemate(t *testing.T) {
	// Black king cornered on h8 by queen on g6, no check.
	p := mustParseFEN(t, "7k/8/6Q1/8/8/8/8/K7 b - - 0 1")
	if !p.IsStalemate() {
		t.Error("position should be stalemate")
	}
	if p.IsCheckmate() {
		t.Error("stalemate reported as checkmate")
	}
}

func TestRepetitionDetection(t *testing.T) {
	p := StartingPosition()
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}
	for _, s := range shuffle {
		m, err := ParseUCIMove(p, s)
		if err != nil {
			t.Fatalf("ParseUCIMove(%q): %v", s, err)
		}
		p.MakeMove(m)
	}
	if !p.IsRepetition() {
		t.Error("knight shuffle back to the start should count as a repetition")
	}
}

func TestRepetitionCount(t *testing.T) {
	p := StartingPosition()
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8"}

	play := func() {
		t.Helper()
		for _, s := range shuffle {
			m, err := ParseUCIMove(p, s)
			if err != nil {
				t.Fatalf("ParseUCIMove(%q): %v", s, err)
			}
			p.MakeMove(m)
		}
	}

	if got := p.Repetitions(); got != 1 {
		t.Errorf("Repetitions() = %d at the start, want 1", got)
	}
	// One shuffle is a second occurrence, not yet a threefold draw.
	play()
	if got := p.Repetitions(); got != 2 {
		t.Errorf("Repetitions() = %d after one shuffle, want 2", got)
	}
	play()
	if got := p.Repetitions(); got != 3 {
		t.Errorf("Repetitions() = %d after two shuffles, want 3", got)
	}
}

func TestFiftyMoveClock(t *testing.T) {
	p := mustParseFEN(t, "8/8/8/4k3/8/4K3/4R3/8 w - - 99 80")
	if p.IsFiftyMoveDraw() {
		t.Fatal("clock at 99 is not yet a draw")
	}
	m, err := ParseUCIMove(p, "e2d2")
	if err != nil {
		t.Fatal(err)
	}
	p.MakeMove(m)
	if !p.IsFiftyMoveDraw() {
		t.Error("clock at 100 should trigger the fifty-move rule")
	}
}

func TestCastlingRightsFollowRookAndKing(t *testing.T) {
	p := mustParseFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")

	m, err := ParseUCIMove(p, "h1h2")
	if err != nil {
		t.Fatal(err)
	}
	u := p.MakeMove(m)
	if p.Castling()&WhiteKingside != 0 {
		t.Error("moving the h1 rook should drop white kingside castling")
	}
	if p.Castling()&WhiteQueenside == 0 {
		t.Error("queenside right should survive a kingside rook move")
	}
	p.UnmakeMove(m, u)
	if p.Castling() != AllCastling {
		t.Errorf("unmake left castling rights %v", p.Castling())
	}

	m, err = ParseUCIMove(p, "e1g1")
	if err != nil {
		t.Fatal(err)
	}
	p.MakeMove(m)
	if p.PieceAt(F1) != WhiteRook || p.PieceAt(G1) != WhiteKing {
		t.Errorf("castling left rook on %v, king on %v", p.PieceAt(F1), p.PieceAt(G1))
	}
	if p.Castling()&(WhiteKingside|WhiteQueenside) != 0 {
		t.Error("castling should clear both white rights")
	}
}

func TestPromotionMakeUnmake(t *testing.T) {
	p := mustParseFEN(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1")
	m, err := ParseUCIMove(p, "a7a8q")
	if err != nil {
		t.Fatal(err)
	}
	u := p.MakeMove(m)
	if p.PieceAt(A8) != WhiteQueen {
		t.Errorf("a8 holds %v after promotion", p.PieceAt(A8))
	}
	p.UnmakeMove(m, u)
	if p.PieceAt(A7) != WhitePawn || p.PieceAt(A8) != NoPiece {
		t.Error("unmake did not restore the pawn on a7")
	}
}

func TestBookHashEnPassantOnlyWhenCapturable(t *testing.T) {
	// Same placement, but only the second position has a pawn able
	// to take en passant, so only there may the ep file contribute.
	noCapture := mustParseFEN(t, "rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq d3 0 1")
	plain := mustParseFEN(t, "rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq - 0 1")
	if noCapture.BookHash() != plain.BookHash() {
		t.Error("uncapturable en passant square changed the book hash")
	}

	capturable := mustParseFEN(t, "rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 2")
	sameNoEP := mustParseFEN(t, "rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 2")
	if capturable.BookHash() == sameNoEP.BookHash() {
		t.Error("capturable en passant square should change the book hash")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"8/8/4k3/8/8/4K3/8/8 w - - 0 1", true},
		{"8/8/4k3/8/5N2/4K3/8/8 w - - 0 1", true},
		{"8/8/4k3/8/5b2/4K3/8/8 w - - 0 1", true},
		{"8/8/4k3/8/2b2N2/4K3/8/8 w - - 0 1", false},
		{"8/8/4k3/8/5P2/4K3/8/8 w - - 0 1", false},
		{"8/8/4k3/8/5R2/4K3/8/8 w - - 0 1", false},
		{StartFEN, false},
	}
	for _, tc := range cases {
		p := mustParseFEN(t, tc.fen)
		if got := p.IsInsufficientMaterial(); got != tc.want {
			t.Errorf("IsInsufficientMaterial(%q) = %v, want %v", tc.fen, got, tc.want)
		}
	}
}
