package chess

// Piece is a signed piece code: magnitude 1..6 selects the piece type,
// the sign selects the side (positive = white, negative = black).
type Piece int8

const (
	Empty  Piece = 0
	Pawn   Piece = 1
	Knight Piece = 2
	Bishop Piece = 3
	Rook   Piece = 4
	Queen  Piece = 5
	King   Piece = 6
)

// Square indices run 0..63, rank*8+file, with rank 0 being white's back rank.
const (
	A1, B1, C1, D1, E1, F1, G1, H1 int8 = 0, 1, 2, 3, 4, 5, 6, 7
	A8                             int8 = 56
	E8                             int8 = 60
	H8                             int8 = 63
)

const NoSquare int8 = -1

func FileOf(sq int8) int8 { return sq & 7 }
func RankOf(sq int8) int8 { return sq >> 3 }

func SquareAt(file, rank int8) int8 { return rank*8 + file }

// SquareName returns the algebraic name of a square, e.g. "e4".
func SquareName(sq int8) string {
	if sq < 0 || sq > 63 {
		return "-"
	}
	return string([]byte{byte('a' + FileOf(sq)), byte('1' + RankOf(sq))})
}

// ParseSquare converts an algebraic square name back to an index.
func ParseSquare(s string) int8 {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare
	}
	return SquareAt(int8(s[0]-'a'), int8(s[1]-'1'))
}

// Abs returns the piece magnitude, dropping the side sign.
func (p Piece) Abs() Piece {
	if p < 0 {
		return -p
	}
	return p
}

// Position is the complete, self-contained state of a chess game at one ply.
// It contains no pointers, so assignment produces a deep copy; search relies
// on that to clone per rollout and per legality check.
type Position struct {
	Squares     [64]Piece
	WhiteToMove bool

	CastleWK bool
	CastleWQ bool
	CastleBK bool
	CastleBQ bool

	// EnPassant is the square capturable by en passant this ply only,
	// NoSquare otherwise.
	EnPassant int8

	// HalfmoveClock counts plies since the last pawn move or capture.
	HalfmoveClock  int
	FullmoveNumber int
}

// NewPosition returns the standard chess starting position.
func NewPosition() Position {
	p := Position{
		WhiteToMove:    true,
		CastleWK:       true,
		CastleWQ:       true,
		CastleBK:       true,
		CastleBQ:       true,
		EnPassant:      NoSquare,
		FullmoveNumber: 1,
	}
	back := [8]Piece{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for f := int8(0); f < 8; f++ {
		p.Squares[SquareAt(f, 0)] = back[f]
		p.Squares[SquareAt(f, 1)] = Pawn
		p.Squares[SquareAt(f, 6)] = -Pawn
		p.Squares[SquareAt(f, 7)] = -back[f]
	}
	return p
}

// Clone returns an independent deep copy of the position.
func (p *Position) Clone() Position {
	return *p
}

// SideToMoveSign returns +1 if white is to move, -1 otherwise.
func (p *Position) SideToMoveSign() Piece {
	if p.WhiteToMove {
		return 1
	}
	return -1
}

// findKing returns the square of the given side's king, or NoSquare if the
// board is malformed and carries no such king.
func (p *Position) findKing(white bool) int8 {
	want := King
	if !white {
		want = -King
	}
	for sq := int8(0); sq < 64; sq++ {
		if p.Squares[sq] == want {
			return sq
		}
	}
	return NoSquare
}

// materialValues holds the flat material count per piece magnitude,
// indexed 0..6. The king carries no material value.
var materialValues = [7]int{0, 1, 3, 3, 5, 9, 0}

// Material returns the flat material balance from white's perspective.
func (p *Position) Material() int {
	sum := 0
	for _, pc := range p.Squares {
		if pc > 0 {
			sum += materialValues[pc]
		} else if pc < 0 {
			sum -= materialValues[-pc]
		}
	}
	return sum
}
