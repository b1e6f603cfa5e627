package chess

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartposFEN is the FEN string of the standard initial position.
const StartposFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

const fenPieceChars = " PNBRQK"

func pieceFromChar(ch byte) Piece {
	lower := ch | 0x20
	var magnitude Piece
	switch lower {
	case 'p':
		magnitude = Pawn
	case 'n':
		magnitude = Knight
	case 'b':
		magnitude = Bishop
	case 'r':
		magnitude = Rook
	case 'q':
		magnitude = Queen
	case 'k':
		magnitude = King
	default:
		return Empty
	}
	if ch >= 'a' {
		return -magnitude
	}
	return magnitude
}

func charFromPiece(pc Piece) byte {
	if pc < 0 {
		return fenPieceChars[-pc] | 0x20
	}
	return fenPieceChars[pc]
}

// ParseFEN parses a FEN string into a Position.
func ParseFEN(fen string) (Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return Position{}, errors.New("invalid FEN: not enough fields")
	}

	p := Position{EnPassant: NoSquare, FullmoveNumber: 1}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return Position{}, errors.New("invalid FEN: incorrect number of ranks")
	}
	for i, rankStr := range ranks {
		rank := int8(7 - i)
		file := int8(0)
		for j := 0; j < len(rankStr); j++ {
			ch := rankStr[j]
			if ch >= '1' && ch <= '8' {
				file += int8(ch - '0')
				continue
			}
			pc := pieceFromChar(ch)
			if pc == Empty {
				return Position{}, fmt.Errorf("invalid FEN: unrecognized piece %q", ch)
			}
			if file > 7 {
				return Position{}, errors.New("invalid FEN: too many squares in rank")
			}
			p.Squares[SquareAt(file, rank)] = pc
			file++
		}
		if file != 8 {
			return Position{}, errors.New("invalid FEN: incomplete rank")
		}
	}

	switch fields[1] {
	case "w":
		p.WhiteToMove = true
	case "b":
		p.WhiteToMove = false
	default:
		return Position{}, fmt.Errorf("invalid FEN: bad side to move %q", fields[1])
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			switch fields[2][i] {
			case 'K':
				p.CastleWK = true
			case 'Q':
				p.CastleWQ = true
			case 'k':
				p.CastleBK = true
			case 'q':
				p.CastleBQ = true
			default:
				return Position{}, fmt.Errorf("invalid FEN: bad castling field %q", fields[2])
			}
		}
	}

	if fields[3] != "-" {
		sq := ParseSquare(fields[3])
		if sq == NoSquare {
			return Position{}, fmt.Errorf("invalid FEN: bad en passant square %q", fields[3])
		}
		p.EnPassant = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil {
			return Position{}, fmt.Errorf("invalid FEN: bad halfmove clock: %w", err)
		}
		p.HalfmoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil {
			return Position{}, fmt.Errorf("invalid FEN: bad fullmove number: %w", err)
		}
		p.FullmoveNumber = n
	}

	return p, nil
}

// FEN serializes the position back to Forsyth-Edwards notation.
func (p *Position) FEN() string {
	var b strings.Builder

	for rank := int8(7); rank >= 0; rank-- {
		empty := 0
		for file := int8(0); file < 8; file++ {
			pc := p.Squares[SquareAt(file, rank)]
			if pc == Empty {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteByte(byte('0' + empty))
				empty = 0
			}
			b.WriteByte(charFromPiece(pc))
		}
		if empty > 0 {
			b.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			b.WriteByte('/')
		}
	}

	if p.WhiteToMove {
		b.WriteString(" w ")
	} else {
		b.WriteString(" b ")
	}

	castling := ""
	if p.CastleWK {
		castling += "K"
	}
	if p.CastleWQ {
		castling += "Q"
	}
	if p.CastleBK {
		castling += "k"
	}
	if p.CastleBQ {
		castling += "q"
	}
	if castling == "" {
		castling = "-"
	}
	b.WriteString(castling)

	fmt.Fprintf(&b, " %s %d %d", SquareName(p.EnPassant), p.HalfmoveClock, p.FullmoveNumber)
	return b.String()
}
