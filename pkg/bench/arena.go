// Package bench plays series of games between two search configurations,
// for tuning the exploration constant and rollout depth against each other.
package bench

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/TR-Jackson/Chess/pkg/chess"
	"github.com/TR-Jackson/Chess/pkg/mcts"
)

// PlayerConfig is one side of the arena match.
type PlayerConfig struct {
	Exploration  float64
	RolloutDepth int
	Cycles       uint32
}

// ArenaStats counts finished games. Safe to read while the arena runs.
type ArenaStats struct {
	p1Wins uint32
	p2Wins uint32
	draws  uint32
}

func (s *ArenaStats) P1Wins() int { return int(atomic.LoadUint32(&s.p1Wins)) }
func (s *ArenaStats) P2Wins() int { return int(atomic.LoadUint32(&s.p2Wins)) }
func (s *ArenaStats) Draws() int  { return int(atomic.LoadUint32(&s.draws)) }

func (s *ArenaStats) Total() int {
	return s.P1Wins() + s.P2Wins() + s.Draws()
}

// GameInfo summarizes one finished arena game.
type GameInfo struct {
	WorkerID  int
	Plies     int
	Result    chess.Result
	P1IsWhite bool
}

// Arena pits two configurations against each other over NGames games,
// alternating colors, spread over NWorkers goroutines. The OnGame callback
// (optional) fires after every finished game, possibly from several
// goroutines at once.
type Arena struct {
	ArenaStats

	Player1  PlayerConfig
	Player2  PlayerConfig
	NGames   int
	NWorkers int
	Start    chess.Position

	// MaxPlies aborts runaway games as draws. Defaults to 300.
	MaxPlies int

	OnGame func(GameInfo)
}

func NewArena(p1, p2 PlayerConfig, games, workers int) *Arena {
	if workers < 1 {
		workers = 1
	}
	return &Arena{
		Player1:  p1,
		Player2:  p2,
		NGames:   games,
		NWorkers: workers,
		Start:    chess.NewPosition(),
		MaxPlies: 300,
	}
}

// Run plays all games and blocks until they finish or ctx is cancelled.
func (a *Arena) Run(ctx context.Context) error {
	games := make(chan int)
	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		defer close(games)
		for i := 0; i < a.NGames; i++ {
			select {
			case games <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < a.NWorkers; w++ {
		workerID := w
		grp.Go(func() error {
			for game := range games {
				if err := ctx.Err(); err != nil {
					return err
				}
				a.playGame(ctx, workerID, game)
			}
			return nil
		})
	}

	return grp.Wait()
}

func (a *Arena) playGame(ctx context.Context, workerID, game int) {
	p1IsWhite := game%2 == 0
	white, black := a.Player1, a.Player2
	if !p1IsWhite {
		white, black = black, white
	}

	whiteTree := newTree(a.Start, white)
	blackTree := newTree(a.Start, black)

	pos := a.Start.Clone()
	plies := 0
	result := chess.Draw

	for {
		if terminal, r := pos.IsTerminal(); terminal {
			result = r
			break
		}
		if plies >= a.MaxPlies || ctx.Err() != nil {
			break
		}

		tree := whiteTree
		cycles := white.Cycles
		if !pos.WhiteToMove {
			tree = blackTree
			cycles = black.Cycles
		}

		for i := uint32(0); i < cycles; i++ {
			tree.RunIteration(nil)
		}
		move, ok := tree.BestMove(mcts.BestChildMostVisits)
		if !ok {
			break
		}

		pos.ApplyMove(move)
		whiteTree.Advance(move)
		blackTree.Advance(move)
		plies++
	}

	a.record(result, p1IsWhite)
	if a.OnGame != nil {
		a.OnGame(GameInfo{WorkerID: workerID, Plies: plies, Result: result, P1IsWhite: p1IsWhite})
	}
}

func newTree(pos chess.Position, cfg PlayerConfig) *mcts.SearchTree {
	tree := mcts.NewSearchTree(pos.Clone())
	if cfg.Exploration > 0 {
		tree.SetExploration(cfg.Exploration)
	}
	if cfg.RolloutDepth > 0 {
		tree.Limiter.Limits().SetRolloutDepth(cfg.RolloutDepth)
	}
	return tree
}

func (a *Arena) record(result chess.Result, p1IsWhite bool) {
	switch {
	case result == chess.Draw:
		atomic.AddUint32(&a.draws, 1)
	case (result == chess.WhiteWins) == p1IsWhite:
		atomic.AddUint32(&a.p1Wins, 1)
	default:
		atomic.AddUint32(&a.p2Wins, 1)
	}
}
