package mcts

import (
	"context"
	"sync/atomic"
)

type StopReason int

const (
	StopNone      StopReason = iota
	StopInterrupt            = 1 // Stopped by user, by calling .SetStop(true) or context cancellation
	StopMovetime             = 2 // Time limit reached
	StopCycles               = 4 // Cycle limit reached
	StopPanic                = 8 // Search loop fault, recovered and treated as cancellation
)

func (sr StopReason) String() string {
	if sr == StopNone {
		return "None"
	}

	reasons := []struct {
		flag StopReason
		name string
	}{
		{StopInterrupt, "Interrupt"},
		{StopMovetime, "Movetime"},
		{StopCycles, "Cycles"},
		{StopPanic, "Panic"},
	}

	var result string
	for _, r := range reasons {
		if sr&r.flag == r.flag {
			if result != "" {
				result += "|"
			}
			result += r.name
		}
	}

	return result
}

// Limiter decides when a running search must wind down. The stop flag and
// the context check are safe to use from any goroutine; everything else is
// touched only between searches.
type Limiter struct {
	limits *Limits
	Timer  *_Timer
	stop   atomic.Bool
	reason StopReason
	ctx    context.Context
}

func NewLimiter() *Limiter {
	return &Limiter{
		limits: DefaultLimits(),
		Timer:  _NewTimer(),
		ctx:    context.Background(),
	}
}

// Reset the limiter's flags, called on search setup
func (l *Limiter) Reset() {
	l.Timer.Movetime(l.limits.Movetime)
	l.Timer.Reset()
	l.stop.Store(false)
	l.reason = StopNone
}

func (l *Limiter) SetContext(ctx context.Context) {
	l.ctx = ctx
}

func (l *Limiter) SetLimits(limits *Limits) {
	l.limits = limits
}

func (l *Limiter) Limits() *Limits {
	return l.limits
}

// Get elapsed time in ms (from the last 'Reset' call)
func (l *Limiter) Elapsed() int {
	return l.Timer.Deltatime()
}

// Set the stop signal, will cause to exit search if set to true
func (l *Limiter) SetStop(v bool) {
	l.stop.Store(v)
}

// Get the stop signal, folding in context cancellation
func (l *Limiter) Stop() bool {
	select {
	case <-l.ctx.Done():
		l.stop.Store(true)
	default:
	}
	return l.stop.Load()
}

// Whether the search should continue, called once per iteration
func (l *Limiter) Ok(cycles uint32) bool {
	if l.Stop() {
		return false
	}
	if l.limits.Infinite {
		return true
	}
	return !l.Timer.IsEnd() && cycles < l.limits.Cycles
}

// Evaluate stop reason based on current state, called once after the
// search loop exits. Accumulates into any reason already recorded, so a
// MarkPanic from the fault handler survives.
func (l *Limiter) EvaluateStopReason(cycles uint32) {
	reason := StopNone

	if l.stop.Load() {
		reason |= StopInterrupt
	}
	if !l.limits.Infinite {
		if l.Timer.IsEnd() {
			reason |= StopMovetime
		}
		if cycles >= l.limits.Cycles {
			reason |= StopCycles
		}
	}

	l.reason |= reason
}

func (l *Limiter) MarkPanic() {
	l.reason |= StopPanic
}

// Get the reason why the search was stopped, valid after search ends
func (l *Limiter) StopReason() StopReason {
	return l.reason
}
