package mcts

import (
	"math"
	"time"
)

// Exploration parameter used in the UCT formula, higher values increase
// exploration while lower values increase exploitation. Defaults to the
// theoretical sqrt(2).
var ExplorationParam float64 = math.Sqrt2

// Set the exploration parameter used in the UCT formula
func SetExplorationParam(c float64) {
	ExplorationParam = max(0.0, c)
}

type SeedGeneratorFnType func() int64

var SeedGeneratorFn SeedGeneratorFnType = func() int64 {
	return time.Now().UnixNano()
}

// Set custom seed generator function for the random number generators used
// in expansion, tie-breaking and rollout sampling, by default uses current
// time in nanoseconds
func SetSeedGeneratorFn(f SeedGeneratorFnType) {
	if f != nil {
		SeedGeneratorFn = f
	}
}

const (
	// When choosing the best child, choose the one with most visits,
	// this is the go-to method for MCTS
	BestChildMostVisits BestChildPolicy = iota

	// Choose the child with the best average outcome
	BestChildWinRate
)

type BestChildPolicy int
