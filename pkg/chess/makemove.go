package chess

// ApplyMove mutates the position in place. No legality check is performed;
// callers must only apply moves produced by GenerateLegalMoves (the search
// guarantees this by construction).
func (p *Position) ApplyMove(m Move) {
	piece := p.Squares[m.From]
	isPawn := piece.Abs() == Pawn
	isCapture := p.Squares[m.To] != Empty || m.EnPassant

	p.Squares[m.To] = piece
	p.Squares[m.From] = Empty

	if m.EnPassant {
		// The captured pawn sits on the rank the capturer came from.
		if piece > 0 {
			p.Squares[m.To-8] = Empty
		} else {
			p.Squares[m.To+8] = Empty
		}
	}

	if m.Castle {
		// Relocate the rook across the king.
		if m.To > m.From { // kingside
			p.Squares[m.From+1] = p.Squares[m.From+3]
			p.Squares[m.From+3] = Empty
		} else { // queenside
			p.Squares[m.From-1] = p.Squares[m.From-4]
			p.Squares[m.From-4] = Empty
		}
	}

	if m.Promotion != 0 {
		if piece > 0 {
			p.Squares[m.To] = m.Promotion
		} else {
			p.Squares[m.To] = -m.Promotion
		}
	}

	p.updateCastlingRights(piece, m)

	// En passant target exists only immediately after a two-square advance.
	if isPawn && (m.To-m.From == 16 || m.From-m.To == 16) {
		p.EnPassant = (m.From + m.To) / 2
	} else {
		p.EnPassant = NoSquare
	}

	if isPawn || isCapture {
		p.HalfmoveClock = 0
	} else {
		p.HalfmoveClock++
	}

	if !p.WhiteToMove {
		p.FullmoveNumber++
	}
	p.WhiteToMove = !p.WhiteToMove
}

// updateCastlingRights clears rights when a king moves, or when a rook moves
// from or is captured on its home square.
func (p *Position) updateCastlingRights(piece Piece, m Move) {
	switch piece {
	case King:
		p.CastleWK, p.CastleWQ = false, false
	case -King:
		p.CastleBK, p.CastleBQ = false, false
	}

	for _, sq := range [2]int8{m.From, m.To} {
		switch sq {
		case A1:
			p.CastleWQ = false
		case H1:
			p.CastleWK = false
		case A8:
			p.CastleBQ = false
		case H8:
			p.CastleBK = false
		}
	}
}
