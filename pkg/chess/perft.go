package chess

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Used to validate move generation against known reference counts.
func Perft(p *Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		next := p.Clone()
		next.ApplyMove(m)
		nodes += Perft(&next, depth-1)
	}
	return nodes
}

// PerftDivide returns per-root-move subtree counts, the standard tool for
// pinning down a movegen discrepancy.
func PerftDivide(p *Position, depth int) map[Move]uint64 {
	div := make(map[Move]uint64)
	for _, m := range p.GenerateLegalMoves() {
		next := p.Clone()
		next.ApplyMove(m)
		div[m] = Perft(&next, depth-1)
	}
	return div
}
