package chess

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
)

// Cross-checks our move generator against dragontoothmg on a suite of
// positions covering castling, en passant, promotions and pins.
var crosscheckFens = []string{
	StartposFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"4k3/8/8/8/3Pp3/8/8/4K3 b - d3 0 1",
	"r3k2r/8/8/8/8/5r2/8/R3K2R w KQkq - 0 1",
}

func refPerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += refPerft(b, depth-1)
		unapply()
	}
	return nodes
}

func TestMovegenMatchesDragontooth(t *testing.T) {
	for _, fen := range crosscheckFens {
		ours, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		ref := dragontoothmg.ParseFen(fen)

		got := len(ours.GenerateLegalMoves())
		want := len(ref.GenerateLegalMoves())
		if got != want {
			div := PerftDivide(&ours, 1)
			t.Logf("our moves for %s:", fen)
			for m := range div {
				t.Logf("  %s", m)
			}
			t.Errorf("%s: got %d legal moves, reference has %d", fen, got, want)
		}
	}
}

func TestPerftMatchesDragontooth(t *testing.T) {
	const depth = 2
	for _, fen := range crosscheckFens {
		ours, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		ref := dragontoothmg.ParseFen(fen)

		got := Perft(&ours, depth)
		want := refPerft(&ref, depth)
		if got != want {
			t.Errorf("%s: perft(%d) = %d, reference %d", fen, depth, got, want)
		}
	}
}
