package chess

// Result is a game outcome from white's perspective.
type Result int8

const (
	WhiteWins Result = 1
	BlackWins Result = -1
	Draw      Result = 0
)

// HalfmoveCutoff approximates the fifty-move rule: a position with this many
// plies since the last pawn move or capture counts as drawn. There is no
// repetition detection.
const HalfmoveCutoff = 100

// IsTerminal reports whether the game is over and, if so, the result. A side
// with no legal moves is checkmated when in check, stalemated otherwise.
func (p *Position) IsTerminal() (bool, Result) {
	if p.HalfmoveClock >= HalfmoveCutoff {
		return true, Draw
	}
	if len(p.GenerateLegalMoves()) > 0 {
		return false, Draw
	}
	if p.IsKingInCheck(p.WhiteToMove) {
		if p.WhiteToMove {
			return true, BlackWins
		}
		return true, WhiteWins
	}
	return true, Draw
}
