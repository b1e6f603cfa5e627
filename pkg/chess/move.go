package chess

import (
	"encoding/json"
	"fmt"
)

// Move describes one ply transition. Captured is informational bookkeeping
// (the piece code removed by this move) and does not take part in equality.
type Move struct {
	From int8
	To   int8

	// Promotion is 0 for no promotion, else the piece magnitude 2..5 the
	// pawn turns into.
	Promotion Piece

	EnPassant bool
	Castle    bool

	Captured Piece
}

// Equals reports whether two moves describe the same transition. Only the
// from/to squares, promotion and the special-move flags matter.
func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion &&
		m.EnPassant == o.EnPassant && m.Castle == o.Castle
}

// MarshalJSON renders the move in coordinate notation.
func (m Move) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON parses coordinate notation. Like ParseMove it recovers only
// the from/to/promotion triple.
func (m *Move) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseMove(s)
	if !ok {
		return fmt.Errorf("malformed move %q", s)
	}
	*m = parsed
	return nil
}

var promotionChars = [7]byte{0, 0, 'n', 'b', 'r', 'q', 0}

// String formats the move in coordinate notation, e.g. "e2e4" or "e7e8q".
func (m Move) String() string {
	s := SquareName(m.From) + SquareName(m.To)
	if m.Promotion != 0 {
		s += string(promotionChars[m.Promotion])
	}
	return s
}

// ParseMove parses coordinate notation ("e2e4", "e7e8q") into a bare
// from/to/promotion triple. The special-move flags and capture bookkeeping
// are not recoverable from the notation; use Position.FindMove to resolve
// the parsed triple against the legal moves of a position.
func ParseMove(s string) (Move, bool) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, false
	}
	from, to := ParseSquare(s[:2]), ParseSquare(s[2:4])
	if from == NoSquare || to == NoSquare {
		return Move{}, false
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			m.Promotion = Knight
		case 'b':
			m.Promotion = Bishop
		case 'r':
			m.Promotion = Rook
		case 'q':
			m.Promotion = Queen
		default:
			return Move{}, false
		}
	}
	return m, true
}

// FindMove resolves a from/to/promotion triple against the legal moves of
// the position, returning the fully populated move.
func (p *Position) FindMove(from, to int8, promotion Piece) (Move, bool) {
	for _, m := range p.GenerateLegalMoves() {
		if m.From == from && m.To == to && m.Promotion == promotion {
			return m, true
		}
	}
	return Move{}, false
}
