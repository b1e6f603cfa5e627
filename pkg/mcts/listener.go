package mcts

import (
	"github.com/TR-Jackson/Chess/pkg/chess"
)

// TreeStats is the snapshot handed to listener callbacks and returned by
// SearchTree.Stats.
type TreeStats struct {
	BestMove   chess.Move `json:"bestMove"`
	Eval       float64    `json:"eval"`
	Maxdepth   int        `json:"maxDepth"`
	Cycles     int        `json:"cycles"`
	TimeMs     int        `json:"timeMs"`
	Cps        uint32     `json:"cps"`
	Size       uint32     `json:"size"`
	StopReason StopReason `json:"stopReason"`
}

// Listener function callback, will receive current tree statistics, like
// max depth of tree, number of iterations so far
type ListenerFunc func(TreeStats)

type StatsListener struct {
	// called when 'max depth' increases, receives new max depth
	onDepth ListenerFunc

	// called every N full iterations, receives total number of cycles
	onCycle ListenerFunc
	nCycles int // call 'onCycle' every N cycles

	// called when the search stops (either by limiter or 'stop' signal)
	onStop ListenerFunc
}

func NewStatsListener() StatsListener {
	return StatsListener{nCycles: 1}
}

// Attach new on max depth change callback, called only by the search
// goroutine, so no synchronization is needed inside
func (listener *StatsListener) OnDepth(onDepth ListenerFunc) *StatsListener {
	listener.onDepth = onDepth
	return listener
}

// Attach new on iteration increase callback, this slows down the search,
// so use SetCycleInterval to throttle it
func (listener *StatsListener) OnCycle(onCycle ListenerFunc) *StatsListener {
	listener.onCycle = onCycle
	return listener
}

func (listener *StatsListener) SetCycleInterval(n int) *StatsListener {
	if n < 1 {
		n = 1
	}
	listener.nCycles = n
	return listener
}

// Attach 'on search end' callback, called once by the search goroutine,
// makes 'StopReason' available in the stats
func (listener *StatsListener) OnStop(onStop ListenerFunc) *StatsListener {
	listener.onStop = onStop
	return listener
}

func (listener *StatsListener) invokeCycle(cycles int, stats func() TreeStats) {
	if listener.onCycle != nil && cycles%listener.nCycles == 0 {
		listener.onCycle(stats())
	}
}

func (listener *StatsListener) invokeDepth(stats func() TreeStats) {
	if listener.onDepth != nil {
		listener.onDepth(stats())
	}
}

func (listener *StatsListener) invokeStop(stats func() TreeStats) {
	if listener.onStop != nil {
		listener.onStop(stats())
	}
}
