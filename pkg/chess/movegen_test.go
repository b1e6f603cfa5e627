package chess

import "testing"

func TestStartingPositionHasTwentyMoves(t *testing.T) {
	p := NewPosition()
	moves := p.GenerateLegalMoves()
	if len(moves) != 20 {
		t.Fatalf("starting position: got %d moves, want 20", len(moves))
	}
}

func TestPerftInitialPosition(t *testing.T) {
	p := NewPosition()
	want := []uint64{20, 400, 8902}
	for depth := 1; depth <= len(want); depth++ {
		if got := Perft(&p, depth); got != want[depth-1] {
			t.Fatalf("perft depth %d: got %d want %d", depth, got, want[depth-1])
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	p, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if got := Perft(&p, 1); got != 48 {
		t.Fatalf("perft depth 1: got %d want 48", got)
	}
	if got := Perft(&p, 2); got != 2039 {
		t.Fatalf("perft depth 2: got %d want 2039", got)
	}
}

func TestLegalMovesNeverLeaveOwnKingInCheck(t *testing.T) {
	fens := []string{
		StartposFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 3",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		p, err := ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		for _, m := range p.GenerateLegalMoves() {
			if p.WouldMoveCauseCheck(m) {
				t.Errorf("%s: generated move %s leaves own king in check", fen, m)
			}
		}
	}
}

func TestCastlingGeneration(t *testing.T) {
	hasCastleTo := func(moves []Move, to int8) bool {
		for _, m := range moves {
			if m.Castle && m.To == to {
				return true
			}
		}
		return false
	}

	p, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	moves := p.GenerateLegalMoves()
	if !hasCastleTo(moves, ParseSquare("g1")) {
		t.Error("kingside castle missing with rights intact and path clear")
	}
	if !hasCastleTo(moves, ParseSquare("c1")) {
		t.Error("queenside castle missing with rights intact and path clear")
	}

	// Black rook on f3 attacks f1, the square the king passes through.
	p, err = ParseFEN("r3k2r/8/8/8/8/5r2/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	moves = p.GenerateLegalMoves()
	if hasCastleTo(moves, ParseSquare("g1")) {
		t.Error("kingside castle generated through an attacked square")
	}
	if !hasCastleTo(moves, ParseSquare("c1")) {
		t.Error("queenside castle should be unaffected by an attack on f1")
	}

	// A king in check may not castle at all.
	p, err = ParseFEN("r3k2r/8/8/8/8/4r3/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range p.GenerateLegalMoves() {
		if m.Castle {
			t.Errorf("castle move %s generated while in check", m)
		}
	}
}

func TestEnPassantWindow(t *testing.T) {
	p, err := ParseFEN("4k3/8/8/8/4p3/8/3P4/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m, ok := p.FindMove(ParseSquare("d2"), ParseSquare("d4"), 0)
	if !ok {
		t.Fatal("double pawn push d2d4 not generated")
	}
	p.ApplyMove(m)
	if p.EnPassant != ParseSquare("d3") {
		t.Fatalf("en passant target: got %s want d3", SquareName(p.EnPassant))
	}

	var epMoves []Move
	for _, bm := range p.GenerateLegalMoves() {
		if bm.EnPassant {
			epMoves = append(epMoves, bm)
		}
	}
	if len(epMoves) != 1 {
		t.Fatalf("got %d en passant moves, want exactly 1", len(epMoves))
	}
	ep := epMoves[0]
	if ep.From != ParseSquare("e4") || ep.To != ParseSquare("d3") {
		t.Fatalf("en passant move: got %s want e4d3", ep)
	}
	if ep.Captured != -Pawn {
		t.Fatalf("en passant capture bookkeeping: got %d want %d", ep.Captured, -Pawn)
	}

	// Declining the capture closes the window for good.
	decline, ok := p.FindMove(ParseSquare("e8"), ParseSquare("e7"), 0)
	if !ok {
		t.Fatal("e8e7 not generated")
	}
	p.ApplyMove(decline)
	if p.EnPassant != NoSquare {
		t.Fatal("en passant target not cleared after an unrelated move")
	}

	white, ok := p.FindMove(ParseSquare("e1"), ParseSquare("f1"), 0)
	if !ok {
		t.Fatal("e1f1 not generated")
	}
	p.ApplyMove(white)
	for _, bm := range p.GenerateLegalMoves() {
		if bm.EnPassant {
			t.Fatalf("stale en passant move %s generated a ply late", bm)
		}
	}
}

func TestEnPassantCaptureRemovesPawn(t *testing.T) {
	p, err := ParseFEN("4k3/8/8/8/3Pp3/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m, ok := p.FindMove(ParseSquare("e4"), ParseSquare("d3"), 0)
	if !ok {
		t.Fatal("en passant capture e4d3 not generated")
	}
	if !m.EnPassant {
		t.Fatal("e4d3 not flagged as en passant")
	}
	p.ApplyMove(m)
	if p.Squares[ParseSquare("d4")] != Empty {
		t.Error("captured pawn still on d4 after en passant")
	}
	if p.Squares[ParseSquare("d3")] != -Pawn {
		t.Error("capturing pawn not on d3 after en passant")
	}
}

func TestPromotionGeneration(t *testing.T) {
	p, err := ParseFEN("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var promos []Move
	for _, m := range p.GenerateLegalMoves() {
		if m.Promotion != 0 {
			promos = append(promos, m)
		}
	}
	if len(promos) != 4 {
		t.Fatalf("got %d promotion moves, want 4", len(promos))
	}
	seen := map[Piece]bool{}
	for _, m := range promos {
		seen[m.Promotion] = true
	}
	for _, want := range []Piece{Knight, Bishop, Rook, Queen} {
		if !seen[want] {
			t.Errorf("missing promotion to piece magnitude %d", want)
		}
	}
}

func TestSlidingRaysDoNotWrapFiles(t *testing.T) {
	// Rook on h4 must not attack a5 (the "next" index after h4's ray).
	p, err := ParseFEN("4k3/8/8/8/7R/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if p.IsSquareAttacked(ParseSquare("a5"), true) {
		t.Error("rook ray wrapped from h4 onto a5")
	}
	if !p.IsSquareAttacked(ParseSquare("h8"), true) {
		t.Error("rook on h4 should attack h8")
	}
}
