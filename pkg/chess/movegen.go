package chess

// Direction deltas as (file, rank) pairs so ray walks cannot wrap around the
// board edge.
var (
	knightDeltas = [8][2]int8{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
	kingDeltas = [8][2]int8{
		{1, 0}, {1, 1}, {0, 1}, {-1, 1},
		{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
	}
	bishopDeltas = [4][2]int8{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	rookDeltas   = [4][2]int8{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
)

func onBoard(file, rank int8) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

// IsSquareAttacked reports whether the given square is attacked by the given
// side. It is the single source of truth for check detection and for
// castling-square safety.
func (p *Position) IsSquareAttacked(sq int8, byWhite bool) bool {
	file, rank := FileOf(sq), RankOf(sq)

	// Pawns attack diagonally towards the enemy, so an attacking pawn sits
	// one rank behind the target square from its own point of view.
	pawnRank := rank - 1
	attackerPawn := Pawn
	if !byWhite {
		pawnRank = rank + 1
		attackerPawn = -Pawn
	}
	if pawnRank >= 0 && pawnRank < 8 {
		for _, df := range [2]int8{-1, 1} {
			if f := file + df; f >= 0 && f < 8 &&
				p.Squares[SquareAt(f, pawnRank)] == attackerPawn {
				return true
			}
		}
	}

	sign := Piece(1)
	if !byWhite {
		sign = -1
	}

	for _, d := range knightDeltas {
		f, r := file+d[0], rank+d[1]
		if onBoard(f, r) && p.Squares[SquareAt(f, r)] == sign*Knight {
			return true
		}
	}

	for _, d := range kingDeltas {
		f, r := file+d[0], rank+d[1]
		if onBoard(f, r) && p.Squares[SquareAt(f, r)] == sign*King {
			return true
		}
	}

	// Sliding attackers: the first occupied square along each ray decides.
	for _, d := range bishopDeltas {
		if pc := p.firstAlongRay(file, rank, d[0], d[1]); pc == sign*Bishop || pc == sign*Queen {
			return true
		}
	}
	for _, d := range rookDeltas {
		if pc := p.firstAlongRay(file, rank, d[0], d[1]); pc == sign*Rook || pc == sign*Queen {
			return true
		}
	}

	return false
}

// firstAlongRay walks from (file, rank) in the given direction and returns
// the first piece encountered, or Empty if the ray leaves the board.
func (p *Position) firstAlongRay(file, rank, df, dr int8) Piece {
	for f, r := file+df, rank+dr; onBoard(f, r); f, r = f+df, r+dr {
		if pc := p.Squares[SquareAt(f, r)]; pc != Empty {
			return pc
		}
	}
	return Empty
}

// IsKingInCheck reports whether the given side's king is attacked. A board
// with no king for that side reports not in check.
func (p *Position) IsKingInCheck(white bool) bool {
	ksq := p.findKing(white)
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, !white)
}

// WouldMoveCauseCheck reports whether applying the move would leave the
// mover's own king in check. Used by the rollout heuristic to de-weight
// self-endangering moves; legality filtering does the same test internally.
func (p *Position) WouldMoveCauseCheck(m Move) bool {
	mover := p.WhiteToMove
	next := p.Clone()
	next.ApplyMove(m)
	return next.IsKingInCheck(mover)
}

// GenerateLegalMoves returns every legal move for the side to move:
// pseudo-legal generation per piece type, then a clone-apply-check filter
// that rejects moves leaving the mover's own king in check.
func (p *Position) GenerateLegalMoves() []Move {
	pseudo := p.PseudoLegalMoves()
	legal := pseudo[:0]
	for _, m := range pseudo {
		if !p.WouldMoveCauseCheck(m) {
			legal = append(legal, m)
		}
	}
	return legal
}

// PseudoLegalMoves generates moves for the side to move without the own-king
// safety filter. Rollouts use this directly and de-weight self-endangering
// moves instead of discarding them.
func (p *Position) PseudoLegalMoves() []Move {
	moves := make([]Move, 0, 48)

	for sq := int8(0); sq < 64; sq++ {
		pc := p.Squares[sq]
		if pc == Empty || (pc > 0) != p.WhiteToMove {
			continue
		}
		switch pc.Abs() {
		case Pawn:
			moves = p.pawnMoves(moves, sq)
		case Knight:
			moves = p.stepMoves(moves, sq, knightDeltas[:])
		case Bishop:
			moves = p.slideMoves(moves, sq, bishopDeltas[:])
		case Rook:
			moves = p.slideMoves(moves, sq, rookDeltas[:])
		case Queen:
			moves = p.slideMoves(moves, sq, bishopDeltas[:])
			moves = p.slideMoves(moves, sq, rookDeltas[:])
		case King:
			moves = p.stepMoves(moves, sq, kingDeltas[:])
			moves = p.castleMoves(moves, sq)
		}
	}

	return moves
}

func (p *Position) pawnMoves(moves []Move, sq int8) []Move {
	file, rank := FileOf(sq), RankOf(sq)

	dir, startRank, promoRank := int8(1), int8(1), int8(7)
	if !p.WhiteToMove {
		dir, startRank, promoRank = -1, 6, 0
	}

	appendPawn := func(m Move) []Move {
		if RankOf(m.To) == promoRank {
			for _, promo := range [4]Piece{Queen, Rook, Bishop, Knight} {
				pm := m
				pm.Promotion = promo
				moves = append(moves, pm)
			}
			return moves
		}
		return append(moves, m)
	}

	// Pushes.
	one := SquareAt(file, rank+dir)
	if p.Squares[one] == Empty {
		moves = appendPawn(Move{From: sq, To: one})
		if rank == startRank {
			two := SquareAt(file, rank+2*dir)
			if p.Squares[two] == Empty {
				moves = append(moves, Move{From: sq, To: two})
			}
		}
	}

	// Captures, including en passant.
	for _, df := range [2]int8{-1, 1} {
		f := file + df
		if f < 0 || f > 7 {
			continue
		}
		to := SquareAt(f, rank+dir)
		victim := p.Squares[to]
		if victim != Empty && (victim > 0) != p.WhiteToMove {
			moves = appendPawn(Move{From: sq, To: to, Captured: victim})
		} else if to == p.EnPassant {
			captured := -Pawn
			if !p.WhiteToMove {
				captured = Pawn
			}
			moves = append(moves, Move{From: sq, To: to, EnPassant: true, Captured: captured})
		}
	}

	return moves
}

func (p *Position) stepMoves(moves []Move, sq int8, deltas [][2]int8) []Move {
	file, rank := FileOf(sq), RankOf(sq)
	for _, d := range deltas {
		f, r := file+d[0], rank+d[1]
		if !onBoard(f, r) {
			continue
		}
		to := SquareAt(f, r)
		victim := p.Squares[to]
		if victim == Empty || (victim > 0) != p.WhiteToMove {
			moves = append(moves, Move{From: sq, To: to, Captured: victim})
		}
	}
	return moves
}

func (p *Position) slideMoves(moves []Move, sq int8, deltas [][2]int8) []Move {
	file, rank := FileOf(sq), RankOf(sq)
	for _, d := range deltas {
		for f, r := file+d[0], rank+d[1]; onBoard(f, r); f, r = f+d[0], r+d[1] {
			to := SquareAt(f, r)
			victim := p.Squares[to]
			if victim == Empty {
				moves = append(moves, Move{From: sq, To: to})
				continue
			}
			if (victim > 0) != p.WhiteToMove {
				moves = append(moves, Move{From: sq, To: to, Captured: victim})
			}
			break
		}
	}
	return moves
}

// castleMoves adds the two-square king moves when the castling rights hold,
// the intervening squares are empty, the rook is home, and neither the king's
// square, its path, nor its destination is attacked.
func (p *Position) castleMoves(moves []Move, sq int8) []Move {
	var kingside, queenside bool
	var home int8
	var rook Piece
	if p.WhiteToMove {
		kingside, queenside, home, rook = p.CastleWK, p.CastleWQ, E1, Rook
	} else {
		kingside, queenside, home, rook = p.CastleBK, p.CastleBQ, E8, -Rook
	}
	if sq != home || p.IsSquareAttacked(home, !p.WhiteToMove) {
		return moves
	}

	if kingside && p.Squares[home+3] == rook &&
		p.Squares[home+1] == Empty && p.Squares[home+2] == Empty &&
		!p.IsSquareAttacked(home+1, !p.WhiteToMove) &&
		!p.IsSquareAttacked(home+2, !p.WhiteToMove) {
		moves = append(moves, Move{From: home, To: home + 2, Castle: true})
	}
	if queenside && p.Squares[home-4] == rook &&
		p.Squares[home-1] == Empty && p.Squares[home-2] == Empty && p.Squares[home-3] == Empty &&
		!p.IsSquareAttacked(home-1, !p.WhiteToMove) &&
		!p.IsSquareAttacked(home-2, !p.WhiteToMove) {
		moves = append(moves, Move{From: home, To: home - 2, Castle: true})
	}
	return moves
}
