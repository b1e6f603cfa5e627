package mcts

import (
	"math/rand"
	"testing"

	"github.com/TR-Jackson/Chess/pkg/chess"
)

func TestRolloutCheckmatedPosition(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	// Fool's mate: white to move, already checkmated.
	pos := mustPosition(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")

	reward, completed := rollout(pos, rng, DefaultRolloutDepth, nil)
	if !completed {
		t.Fatal("rollout should complete on a terminal position")
	}
	if reward != 0 {
		t.Fatalf("white is mated, expected white score 0, got %.2f", reward)
	}
}

func TestRolloutStalematedPosition(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pos := mustPosition(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")

	reward, completed := rollout(pos, rng, DefaultRolloutDepth, nil)
	if !completed {
		t.Fatal("rollout should complete on a stalemate")
	}
	if reward != 0.5 {
		t.Fatalf("stalemate should score 0.5, got %.2f", reward)
	}
}

func TestRolloutHalfmoveClockDraw(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pos := chess.NewPosition()
	pos.HalfmoveClock = chess.HalfmoveCutoff

	reward, completed := rollout(pos, rng, DefaultRolloutDepth, nil)
	if !completed || reward != 0.5 {
		t.Fatalf("clock cutoff should score 0.5, got %.2f (completed %v)", reward, completed)
	}
}

func TestRolloutCutoffMaterialEval(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	// White is a full queen up; a one-ply cutoff evaluates right after a
	// single white move, which cannot lose white material.
	pos := mustPosition(t, "4k3/8/8/8/8/8/4K3/Q7 w - - 0 1")

	reward, completed := rollout(pos, rng, 1, nil)
	if !completed {
		t.Fatal("rollout should complete at the cutoff")
	}
	if reward <= 0.5 || reward > evalCeil {
		t.Fatalf("queen-up cutoff eval should favor white within (0.5, %.2f], got %.3f", evalCeil, reward)
	}
}

func TestCutoffRewardClamped(t *testing.T) {
	for _, fen := range []string{
		"QQQQk3/8/8/8/8/8/8/4K3 w - - 0 1",
		"qqqqk3/8/8/8/8/8/8/4K3 w - - 0 1",
	} {
		pos := mustPosition(t, fen)
		v := cutoffReward(&pos)
		if v < evalFloor || v > evalCeil {
			t.Fatalf("cutoff reward %.3f outside [%.2f, %.2f] for %s", v, evalFloor, evalCeil, fen)
		}
	}
}

func TestRolloutStopAborts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pos := chess.NewPosition()

	_, completed := rollout(pos, rng, DefaultRolloutDepth, func() bool { return true })
	if completed {
		t.Fatal("rollout must abort when the stop poll fires")
	}
}

func TestRolloutCompletesFromStart(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 5; i++ {
		reward, completed := rollout(chess.NewPosition(), rng, DefaultRolloutDepth, nil)
		if !completed {
			t.Fatal("unrestricted rollout from the start should always complete")
		}
		if reward < 0 || reward > 1 {
			t.Fatalf("reward %.3f outside [0,1]", reward)
		}
	}
}

func TestCentralSquares(t *testing.T) {
	central := []string{"c3", "d4", "e5", "f6", "e4", "d5"}
	edge := []string{"a1", "h8", "b2", "g7", "e1", "a4"}

	for _, name := range central {
		if !centralSquare(chess.ParseSquare(name)) {
			t.Errorf("%s should be central", name)
		}
	}
	for _, name := range edge {
		if centralSquare(chess.ParseSquare(name)) {
			t.Errorf("%s should not be central", name)
		}
	}
}

func TestCaptureWeighting(t *testing.T) {
	// A lone rook can take an undefended queen; with the capture bonus the
	// weighted draw should pick it nearly always over quiet rook moves.
	pos := mustPosition(t, "4k3/8/8/8/8/8/8/R3q1K1 w - - 0 1")
	rng := rand.New(rand.NewSource(9))

	captures := 0
	const trials = 200
	for i := 0; i < trials; i++ {
		reward, completed := rollout(pos.Clone(), rng, 1, nil)
		if !completed {
			t.Fatal("one-ply rollout should complete")
		}
		// Queen off the board after the first ply shows up as a
		// material swing in white's favor.
		if reward > 0.5 {
			captures++
		}
	}
	if captures < trials/2 {
		t.Fatalf("capture bonus too weak: only %d/%d rollouts took the queen", captures, trials)
	}
}
