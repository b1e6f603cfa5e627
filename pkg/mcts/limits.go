package mcts

import (
	"encoding/json"
	"math"
	"strings"
)

// Limits bounds a single search execution. A zero-configured Limits is
// infinite: the search runs until cancelled.
type Limits struct {
	Cycles       uint32
	Movetime     int
	RolloutDepth int
	Infinite     bool
}

func (l Limits) String() string {
	builder := strings.Builder{}
	_ = json.NewEncoder(&builder).Encode(l)
	return builder.String()
}

const (
	DefaultCyclesLimit   uint32 = math.MaxInt32*2 + 1
	DefaultMovetimeLimit int    = -1

	// Rollouts that survive this many plies without reaching a terminal
	// position are cut off and scored by material evaluation.
	DefaultRolloutDepth int = 256
)

func DefaultLimits() *Limits {
	return &Limits{
		Cycles:       DefaultCyclesLimit,
		Movetime:     DefaultMovetimeLimit,
		RolloutDepth: DefaultRolloutDepth,
		Infinite:     true,
	}
}

// Set the number of backpropagation cycles in monte-carlo tree search
func (l *Limits) SetCycles(cycles uint32) *Limits {
	l.Cycles = cycles
	l.Infinite = false
	return l
}

// Set the maximum time for engine to think, in milliseconds
func (l *Limits) SetMovetime(movetime int) *Limits {
	l.Movetime = movetime
	l.Infinite = false
	return l
}

// Set the rollout ply cutoff, does not affect Infinite
func (l *Limits) SetRolloutDepth(plies int) *Limits {
	l.RolloutDepth = max(1, plies)
	return l
}

func (l *Limits) SetInfinite(infinite bool) {
	l.Infinite = infinite
}
