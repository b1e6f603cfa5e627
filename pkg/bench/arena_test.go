package bench

import (
	"context"
	"sync"
	"testing"

	"github.com/TR-Jackson/Chess/pkg/mcts"
)

func init() {
	mcts.SetSeedGeneratorFn(func() int64 { return 42 })
}

func quickConfig() PlayerConfig {
	return PlayerConfig{RolloutDepth: 10, Cycles: 20}
}

func TestArenaPlaysAllGames(t *testing.T) {
	arena := NewArena(quickConfig(), quickConfig(), 4, 2)
	arena.MaxPlies = 30

	var mu sync.Mutex
	var games []GameInfo
	arena.OnGame = func(info GameInfo) {
		mu.Lock()
		games = append(games, info)
		mu.Unlock()
	}

	if err := arena.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if arena.Total() != 4 {
		t.Fatalf("expected 4 recorded games, got %d", arena.Total())
	}
	if len(games) != 4 {
		t.Fatalf("expected 4 callbacks, got %d", len(games))
	}

	whiteCount := 0
	for _, g := range games {
		if g.Plies == 0 {
			t.Fatal("a game should contain at least one ply")
		}
		if g.P1IsWhite {
			whiteCount++
		}
	}
	if whiteCount != 2 {
		t.Fatalf("colors should alternate, player 1 was white %d/4 times", whiteCount)
	}
}

func TestArenaCancellation(t *testing.T) {
	arena := NewArena(quickConfig(), quickConfig(), 1000, 2)
	arena.MaxPlies = 30

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := arena.Run(ctx); err == nil {
		t.Fatal("cancelled arena should report the context error")
	}
	if arena.Total() >= 1000 {
		t.Fatal("cancelled arena should not finish every game")
	}
}
