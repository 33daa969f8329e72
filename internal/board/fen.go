package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN describes the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseError reports malformed or unreachable position input.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Input, e.Reason)
}

func parseErr(input, format string, args ...any) error {
	return &ParseError{Input: input, Reason: fmt.Sprintf(format, args...)}
}

// ParseFEN builds a position from Forsyth-Edwards notation. The
// placement, side, castling, and en passant fields are required; the
// clocks default to 0 and 1. Positions that cannot occur in a game
// (missing or extra kings, pawns on a back rank) are rejected.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, parseErr(fen, "want 4-6 fields, have %d", len(fields))
	}

	p := &Position{epSquare: NoSquare, fullmove: 1}
	for i := range p.board {
		p.board[i] = NoPiece
	}

	if err := p.readPlacement(fen, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		p.turn = White
	case "b":
		p.turn = Black
	default:
		return nil, parseErr(fen, "bad side to move %q", fields[1])
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				p.castling |= WhiteKingside
			case 'Q':
				p.castling |= WhiteQueenside
			case 'k':
				p.castling |= BlackKingside
			case 'q':
				p.castling |= BlackQueenside
			default:
				return nil, parseErr(fen, "bad castling flag %q", fields[2][i])
			}
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, parseErr(fen, "bad en passant square %q", fields[3])
		}
		if r := sq.Rank(); r != 2 && r != 5 {
			return nil, parseErr(fen, "en passant square %s not on rank 3 or 6", sq)
		}
		p.epSquare = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, parseErr(fen, "bad halfmove clock %q", fields[4])
		}
		p.halfmove = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, parseErr(fen, "bad fullmove number %q", fields[5])
		}
		p.fullmove = n
	}

	if err := p.checkReachable(fen); err != nil {
		return nil, err
	}

	p.hash = p.computeHash()
	p.history = append(p.history[:0], p.hash)
	return p, nil
}

func (p *Position) readPlacement(fen, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return parseErr(fen, "want 8 ranks, have %d", len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			pc := PieceFromChar(c)
			if pc == NoPiece {
				return parseErr(fen, "bad piece letter %q", c)
			}
			if file > 7 {
				return parseErr(fen, "rank %d overflows", rank+1)
			}
			p.put(pc, SquareAt(file, rank))
			file++
		}
		if file != 8 {
			return parseErr(fen, "rank %d has %d files", rank+1, file)
		}
	}
	return nil
}

// checkReachable rejects placements no legal game can produce.
func (p *Position) checkReachable(fen string) error {
	for c := White; c <= Black; c++ {
		if n := p.PiecesOf(c, King).Count(); n != 1 {
			return parseErr(fen, "%s has %d kings", c, n)
		}
	}
	if p.pieces[Pawn]&(Rank1|Rank8) != 0 {
		return parseErr(fen, "pawn on a back rank")
	}
	// The side not on move must not be in check.
	them := p.turn.Opponent()
	if p.Attacked(p.KingSquare(them), p.turn) {
		return parseErr(fen, "side not to move is in check")
	}
	return nil
}

// FEN renders the position in Forsyth-Edwards notation.
func (p *Position) FEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		run := 0
		for file := 0; file < 8; file++ {
			pc := p.board[SquareAt(file, rank)]
			if pc == NoPiece {
				run++
				continue
			}
			if run > 0 {
				sb.WriteByte(byte('0' + run))
				run = 0
			}
			sb.WriteByte(pc.Char())
		}
		if run > 0 {
			sb.WriteByte(byte('0' + run))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.turn == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(p.castling.String())
	sb.WriteByte(' ')
	sb.WriteString(p.epSquare.String())
	fmt.Fprintf(&sb, " %d %d", p.halfmove, p.fullmove)
	return sb.String()
}
