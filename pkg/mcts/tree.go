package mcts

import (
	"math/rand"
	"sync"

	"github.com/TR-Jackson/Chess/pkg/chess"
)

// SearchTree owns the game tree for one search and the random source that
// drives expansion, tie-breaks and rollout sampling. A single coarse mutex
// guards the whole tree: selection, expansion and backpropagation all write
// along ancestor chains that reach the root, so finer locking buys nothing.
// The lock is never held across a rollout.
type SearchTree struct {
	mu   sync.Mutex
	root *Node
	rng  *rand.Rand

	size        uint32
	maxDepth    int
	cycles      uint32
	exploration float64

	Limiter  *Limiter
	Listener StatsListener
}

func NewSearchTree(pos chess.Position) *SearchTree {
	t := &SearchTree{
		rng:         rand.New(rand.NewSource(SeedGeneratorFn())),
		exploration: ExplorationParam,
		Limiter:     NewLimiter(),
		Listener:    NewStatsListener(),
	}
	t.SetPosition(pos)
	return t
}

// SetExploration overrides the UCT exploration constant for this tree.
func (t *SearchTree) SetExploration(c float64) *SearchTree {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exploration = max(0.0, c)
	return t
}

// SetPosition discards the tree and roots a fresh one at pos.
func (t *SearchTree) SetPosition(pos chess.Position) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root = NewNode(pos, nil, chess.Move{})
	t.size = 1
	t.maxDepth = 0
	t.cycles = 0
}

func (t *SearchTree) RootPosition() chess.Position {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.root.State.Clone()
}

// selectLeaf descends from the root via UCT while the current node is fully
// expanded and has at least one child. The first node with untried moves or
// no children is the selection target. Caller holds the lock.
func (t *SearchTree) selectLeaf() (*Node, int) {
	node := t.root
	depth := 0
	for node.FullyExpanded() && len(node.Children) > 0 {
		node = node.BestChild(t.exploration, t.rng)
		depth++
	}
	return node, depth
}

// leafTerminal reports whether the selection target is a finished game and
// its result. The target has already generated its moves, so no second
// generation pass is needed.
func leafTerminal(node *Node) (bool, chess.Result) {
	if node.State.HalfmoveClock >= chess.HalfmoveCutoff {
		return true, chess.Draw
	}
	if len(node.Untried) > 0 || len(node.Children) > 0 {
		return false, chess.Draw
	}
	if node.State.IsKingInCheck(node.State.WhiteToMove) {
		if node.State.WhiteToMove {
			return true, chess.BlackWins
		}
		return true, chess.WhiteWins
	}
	return true, chess.Draw
}

// RunIteration performs one full cycle: selection, expansion, rollout and
// backpropagation. The stop function is polled by the rollout between plies;
// when it fires the iteration is abandoned and RunIteration returns false
// without touching the statistics.
func (t *SearchTree) RunIteration(stop func() bool) bool {
	t.mu.Lock()
	node, depth := t.selectLeaf()

	if terminal, result := leafTerminal(node); terminal {
		node.Backpropagate(LeafReward(result, true), true)
		t.cycles++
		if depth > t.maxDepth {
			t.maxDepth = depth
		}
		t.mu.Unlock()
		return true
	}

	if child := node.Expand(t.rng); child != nil {
		node = child
		depth++
		t.size++
	} else if next := node.BestChild(t.exploration, t.rng); next != nil {
		node = next
		depth++
	}
	state := node.State.Clone()
	maxPlies := t.Limiter.Limits().RolloutDepth
	t.mu.Unlock()

	reward, completed := rollout(state, t.rng, maxPlies, stop)
	if !completed {
		return false
	}

	t.mu.Lock()
	node.Backpropagate(reward, true)
	t.cycles++
	if depth > t.maxDepth {
		t.maxDepth = depth
	}
	t.mu.Unlock()
	return true
}

// BestMove returns the move of the preferred root child, or false when the
// root has no children. Most-visits ties break on the first child in order;
// the win-rate policy considers only visited children and falls back to
// most visits when none qualify.
func (t *SearchTree) BestMove(policy BestChildPolicy) (chess.Move, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	child := t.bestRootChild(policy)
	if child == nil {
		return chess.Move{}, false
	}
	return child.Move, true
}

func (t *SearchTree) bestRootChild(policy BestChildPolicy) *Node {
	var best *Node
	switch policy {
	case BestChildWinRate:
		bestRate := -1.0
		for _, child := range t.root.Children {
			if child.Visits == 0 {
				continue
			}
			if rate := child.TotalValue / float64(child.Visits); rate > bestRate {
				bestRate = rate
				best = child
			}
		}
		if best == nil {
			return t.bestRootChild(BestChildMostVisits)
		}
	default:
		for _, child := range t.root.Children {
			if best == nil || child.Visits > best.Visits {
				best = child
			}
		}
	}
	return best
}

// Advance re-roots the tree after a real move has been played. When a root
// child matches the move it is promoted in place, keeping its accumulated
// subtree statistics; otherwise the move is applied to a clone of the root
// state and all prior statistics are discarded.
func (t *SearchTree) Advance(m chess.Move) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, child := range t.root.Children {
		if child.Move.Equals(m) {
			child.Parent = nil
			t.root = child
			t.size = subtreeSize(child)
			t.maxDepth = child.SubtreeDepth()
			return
		}
	}

	pos := t.root.State.Clone()
	pos.ApplyMove(m)
	t.root = NewNode(pos, nil, m)
	t.size = 1
	t.maxDepth = 0
	t.cycles = 0
}

func subtreeSize(n *Node) uint32 {
	size := uint32(1)
	for _, child := range n.Children {
		size += subtreeSize(child)
	}
	return size
}

func (t *SearchTree) Size() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.size
}

func (t *SearchTree) Cycles() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cycles
}

func (t *SearchTree) MaxDepth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.maxDepth
}

// RootVisits returns the total visit count of the root node.
func (t *SearchTree) RootVisits() int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.root.Visits
}

// Stats assembles a snapshot of the current search state.
func (t *SearchTree) Stats() TreeStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.statsLocked()
}

func (t *SearchTree) statsLocked() TreeStats {
	stats := TreeStats{
		Maxdepth:   t.maxDepth,
		Cycles:     int(t.cycles),
		TimeMs:     t.Limiter.Elapsed(),
		Size:       t.size,
		StopReason: t.Limiter.StopReason(),
	}
	stats.Cps = uint32(int64(t.cycles) * 1000 / int64(max(stats.TimeMs, 1)))

	if child := t.bestRootChild(BestChildMostVisits); child != nil {
		stats.BestMove = child.Move
		if child.Visits > 0 {
			stats.Eval = child.TotalValue / float64(child.Visits)
		}
	}
	return stats
}

// resultSnapshot assembles the final search result around the most-visited
// root child. Reports false when the root never grew a child.
func (t *SearchTree) resultSnapshot() (SearchResult, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	child := t.bestRootChild(BestChildMostVisits)
	if child == nil {
		return SearchResult{}, false
	}

	res := SearchResult{
		Move:       child.Move,
		Visits:     child.Visits,
		RootVisits: t.root.Visits,
		Depth:      child.SubtreeDepth(),
		Stats:      t.statsLocked(),
	}
	if t.root.Visits > 0 {
		res.VisitShare = float64(child.Visits) / float64(t.root.Visits)
	}
	return res, true
}
