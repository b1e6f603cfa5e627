package chess

import "testing"

func TestStartingPositionFEN(t *testing.T) {
	p := NewPosition()
	if got := p.FEN(); got != StartposFEN {
		t.Fatalf("FEN of starting position:\n got %s\nwant %s", got, StartposFEN)
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartposFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"4k3/8/8/8/3Pp3/8/8/4K3 b - d3 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 12 40",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
	}
	for _, fen := range fens {
		p, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		if got := p.FEN(); got != fen {
			t.Errorf("round trip:\n got %s\nwant %s", got, fen)
		}
	}
}

func TestParseFENErrors(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",       // missing fields
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",   // seven ranks
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq z9 0 1",
	}
	for _, fen := range bad {
		if _, err := ParseFEN(fen); err == nil {
			t.Errorf("ParseFEN(%q) accepted invalid input", fen)
		}
	}
}

func TestParseFENSideAndState(t *testing.T) {
	p, err := ParseFEN("4k3/8/8/8/3Pp3/8/8/4K3 b - d3 5 9")
	if err != nil {
		t.Fatal(err)
	}
	if p.WhiteToMove {
		t.Error("side to move: got white, want black")
	}
	if p.EnPassant != ParseSquare("d3") {
		t.Errorf("en passant: got %s, want d3", SquareName(p.EnPassant))
	}
	if p.HalfmoveClock != 5 || p.FullmoveNumber != 9 {
		t.Errorf("clocks: got (%d, %d), want (5, 9)", p.HalfmoveClock, p.FullmoveNumber)
	}
	if p.CastleWK || p.CastleWQ || p.CastleBK || p.CastleBQ {
		t.Error("castling rights should all be clear")
	}
}
