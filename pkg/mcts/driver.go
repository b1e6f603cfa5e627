package mcts

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/TR-Jackson/Chess/pkg/chess"
)

var (
	// ErrSearchRunning is returned when a search is requested while one
	// is already in flight.
	ErrSearchRunning = errors.New("mcts: search already running")

	// ErrIllegalMove is returned by PlayMove for moves the current
	// position does not allow.
	ErrIllegalMove = errors.New("mcts: illegal move")
)

// DriverState tracks where the background search sits in its lifecycle.
type DriverState int32

const (
	// Idle means no search is active; the driver accepts Start.
	Idle DriverState = iota

	// Running means the search loop is iterating.
	Running

	// Stopping means cancellation was observed and the loop is finalizing.
	Stopping
)

func (s DriverState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Stopping:
		return "Stopping"
	}
	return "Unknown"
}

// SearchResult is the finalized outcome of one search, published to the
// foreground through the driver's mailbox.
type SearchResult struct {
	Move chess.Move `json:"move"`

	// Diagnostics around the chosen root child.
	Visits     int32   `json:"visits"`
	RootVisits int32   `json:"rootVisits"`
	VisitShare float64 `json:"visitShare"`
	Depth      int     `json:"depth"`

	Stats TreeStats `json:"stats"`
}

// DriverConfig configures a SearchDriver. Zero values fall back to the
// package defaults.
type DriverConfig struct {
	Exploration  float64 // UCT constant, defaults to ExplorationParam
	RolloutDepth int     // rollout ply cutoff, defaults to DefaultRolloutDepth
	Logger       zerolog.Logger
}

// SearchDriver runs one background search at a time over the current game
// position. The foreground talks to it through Start, Cancel and the
// single-slot result mailbox; it never blocks on the search goroutine.
type SearchDriver struct {
	cfg DriverConfig
	log zerolog.Logger

	mu   sync.Mutex // guards pos, done and the start/cancel handshake
	pos  chess.Position
	done chan struct{}

	tree  *SearchTree
	state atomic.Int32

	// Single-slot mailbox: last result wins, drained by TakeResult. A
	// result that is never drained before the next search is overwritten;
	// this is intentional, since a new search cannot start while one is
	// outstanding.
	resultMu    sync.Mutex
	result      SearchResult
	resultReady atomic.Bool
}

func NewSearchDriver(pos chess.Position, cfg DriverConfig) *SearchDriver {
	if cfg.Exploration <= 0 {
		cfg.Exploration = ExplorationParam
	}
	if cfg.RolloutDepth <= 0 {
		cfg.RolloutDepth = DefaultRolloutDepth
	}

	d := &SearchDriver{
		cfg:  cfg,
		log:  cfg.Logger,
		pos:  pos,
		tree: NewSearchTree(pos),
	}
	d.tree.SetExploration(cfg.Exploration)
	d.tree.Limiter.Limits().SetRolloutDepth(cfg.RolloutDepth)
	return d
}

// Tree exposes the driver's search tree for limit and listener wiring.
// Configure it only while the driver is Idle.
func (d *SearchDriver) Tree() *SearchTree {
	return d.tree
}

func (d *SearchDriver) State() DriverState {
	return DriverState(d.state.Load())
}

// Position returns the current game position.
func (d *SearchDriver) Position() chess.Position {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pos.Clone()
}

// SetPosition replaces the game position. Rejected while a search is active.
func (d *SearchDriver) SetPosition(pos chess.Position) error {
	if d.State() != Idle {
		return ErrSearchRunning
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pos = pos
	d.tree.SetPosition(pos)
	return nil
}

// PlayMove applies a move to the current position, resolving it against the
// legal move list. The tree is re-rooted on the matching child so a later
// search can reuse its statistics.
func (d *SearchDriver) PlayMove(m chess.Move) error {
	if d.State() != Idle {
		return ErrSearchRunning
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	resolved, ok := d.pos.FindMove(m.From, m.To, m.Promotion)
	if !ok {
		return ErrIllegalMove
	}
	d.pos.ApplyMove(resolved)
	d.tree.Advance(resolved)
	return nil
}

// NewLimits returns a default limits block carrying the driver's configured
// rollout depth, ready for movetime or cycle caps before Start.
func (d *SearchDriver) NewLimits() *Limits {
	return DefaultLimits().SetRolloutDepth(d.cfg.RolloutDepth)
}

// Start launches the background search goroutine. Only one search may run
// at a time; starting while one is active is rejected. A non-nil limits
// replaces the search limits for this run; the swap happens only after
// admission, so a rejected Start never touches a running limiter.
func (d *SearchDriver) Start(ctx context.Context, limits *Limits) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.state.CompareAndSwap(int32(Idle), int32(Running)) {
		d.log.Warn().Str("state", d.State().String()).Msg("search start rejected")
		return ErrSearchRunning
	}

	if limits != nil {
		d.tree.Limiter.SetLimits(limits)
	}
	d.tree.SetPosition(d.pos)
	d.done = make(chan struct{})

	limiter := d.tree.Limiter
	limiter.SetContext(ctx)
	limiter.Reset()

	d.log.Info().
		Str("fen", d.pos.FEN()).
		Str("limits", limiter.Limits().String()).
		Msg("search started")

	go d.run(d.done)
	return nil
}

// Cancel requests a running search to stop. Cancelling an idle driver is a
// no-op. Start and Cancel serialize on the driver mutex, so a cancel landing
// while a start is in flight is ordered either before admission (no-op) or
// after the limiter reset, never inside it; the stop flag is set whenever a
// search is active, even if it is already finalizing. The loop observes the
// flag between iterations and between rollout plies, so latency is bounded
// by one simulation step.
func (d *SearchDriver) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.State() == Idle {
		return
	}
	d.state.CompareAndSwap(int32(Running), int32(Stopping))
	d.tree.Limiter.SetStop(true)
}

// Wait blocks until the active search (if any) has finalized. Test and
// shutdown helper; the foreground protocol itself never blocks.
func (d *SearchDriver) Wait() {
	d.mu.Lock()
	done := d.done
	d.mu.Unlock()
	if done != nil {
		<-done
	}
}

// TakeResult drains the mailbox. The second return is false when no
// undrained result is pending.
func (d *SearchDriver) TakeResult() (SearchResult, bool) {
	if !d.resultReady.Load() {
		return SearchResult{}, false
	}
	d.resultMu.Lock()
	defer d.resultMu.Unlock()
	d.resultReady.Store(false)
	return d.result, true
}

func (d *SearchDriver) publish(res SearchResult) {
	d.resultMu.Lock()
	defer d.resultMu.Unlock()
	d.result = res
	d.resultReady.Store(true)
}

func (d *SearchDriver) run(done chan struct{}) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Msg("search loop fault, treated as cancellation")
			d.tree.Limiter.SetStop(true)
			d.tree.Limiter.MarkPanic()
		}
		d.finalize(done)
	}()

	limiter := d.tree.Limiter
	listener := &d.tree.Listener
	lastDepth := 0

	for limiter.Ok(d.tree.Cycles()) {
		if !d.tree.RunIteration(limiter.Stop) {
			break
		}
		listener.invokeCycle(int(d.tree.Cycles()), d.tree.Stats)
		if depth := d.tree.MaxDepth(); depth > lastDepth {
			lastDepth = depth
			listener.invokeDepth(d.tree.Stats)
		}
	}
}

// finalize runs exactly once per search, on the search goroutine: evaluate
// the stop reason, publish the chosen move (when at least one expanded root
// child exists) and return the driver to Idle.
func (d *SearchDriver) finalize(done chan struct{}) {
	d.state.Store(int32(Stopping))
	d.tree.Limiter.EvaluateStopReason(d.tree.Cycles())

	if res, ok := d.tree.resultSnapshot(); ok {
		d.publish(res)
		d.log.Info().
			Str("move", res.Move.String()).
			Int32("visits", res.Visits).
			Int32("rootVisits", res.RootVisits).
			Float64("visitShare", res.VisitShare).
			Int("depth", res.Depth).
			Str("stopReason", res.Stats.StopReason.String()).
			Msg("search finished")
	} else {
		d.log.Info().Msg("search finished without a move")
	}

	d.state.Store(int32(Idle))
	d.tree.Listener.invokeStop(d.tree.Stats)
	close(done)
}
