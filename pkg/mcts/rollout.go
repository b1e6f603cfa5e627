package mcts

import (
	"math"
	"math/rand"

	"github.com/TR-Jackson/Chess/pkg/chess"
)

const (
	// Weight assigned to a move that would leave the mover's own king in
	// check. Heavily discouraged rather than forbidden, which keeps the
	// playout at one move generation pass per ply.
	selfCheckWeight = 0.01

	// Flat bonus for moves landing in the central 4x4 region.
	centerBonus = 0.5

	// Logistic scale for the material evaluation at the depth cutoff.
	evalScale = 0.1

	// Cutoff rewards are clamped away from 0 and 1 to avoid saturating
	// the backpropagated averages.
	evalFloor = 0.01
	evalCeil  = 0.99
)

func centralSquare(sq int8) bool {
	f, r := chess.FileOf(sq), chess.RankOf(sq)
	return f >= 2 && f <= 5 && r >= 2 && r <= 5
}

// cutoffReward squashes the flat material count through a logistic curve.
// The result is white's expected score in [evalFloor, evalCeil].
func cutoffReward(pos *chess.Position) float64 {
	v := 1.0 / (1.0 + math.Exp(-evalScale*float64(pos.Material())))
	return math.Min(evalCeil, math.Max(evalFloor, v))
}

// rollout plays weighted-random moves from pos until a terminal position,
// the ply cutoff, or cancellation. The returned reward is white's expected
// score in [0,1]; completed is false when the stop poll fired first, in
// which case the reward is meaningless and must not be backpropagated.
//
// Move weights start at 1.0, gain the captured piece's code magnitude when
// the destination is occupied, gain centerBonus for central destinations,
// and collapse to selfCheckWeight for moves exposing the mover's own king.
func rollout(pos chess.Position, rng *rand.Rand, maxPlies int, stop func() bool) (reward float64, completed bool) {
	cumulative := make([]float64, 0, 48)

	for ply := 0; ; ply++ {
		if stop != nil && stop() {
			return 0, false
		}
		if pos.HalfmoveClock >= chess.HalfmoveCutoff {
			return 0.5, true
		}
		if maxPlies > 0 && ply >= maxPlies {
			return cutoffReward(&pos), true
		}

		moves := pos.PseudoLegalMoves()
		cumulative = cumulative[:0]
		total := 0.0
		anyLegal := false
		for _, m := range moves {
			var w float64
			if pos.WouldMoveCauseCheck(m) {
				w = selfCheckWeight
			} else {
				anyLegal = true
				w = 1.0
				if pos.Squares[m.To] != chess.Empty {
					w += float64(pos.Squares[m.To].Abs())
				}
				if centralSquare(m.To) {
					w += centerBonus
				}
			}
			total += w
			cumulative = append(cumulative, total)
		}

		if !anyLegal {
			if pos.IsKingInCheck(pos.WhiteToMove) {
				return sideReward(!pos.WhiteToMove), true
			}
			return 0.5, true // stalemate
		}

		draw := rng.Float64() * total
		pick := moves[len(moves)-1]
		for i, c := range cumulative {
			if c > draw {
				pick = moves[i]
				break
			}
		}

		// A self-endangering move can be punished by a king capture on
		// the next ply; score it as a decisive result for the captor.
		if pick.Captured.Abs() == chess.King {
			return sideReward(pos.WhiteToMove), true
		}
		pos.ApplyMove(pick)
	}
}

// sideReward maps "this side won" to white's score scale.
func sideReward(whiteWon bool) float64 {
	if whiteWon {
		return 1.0
	}
	return 0.0
}
