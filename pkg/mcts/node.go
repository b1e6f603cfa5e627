// Package mcts implements Monte Carlo tree search over the chess rules
// engine: the search tree, UCT child selection, the weighted-random rollout
// policy and the cancellable background search driver.
package mcts

import (
	"math"
	"math/rand"

	"github.com/TR-Jackson/Chess/pkg/chess"
)

// Node is one vertex of the search tree. The parent pointer is a non-owning
// back-reference used only for backpropagation; ownership runs strictly
// parent-to-children.
type Node struct {
	// State is the position reached after applying Move to the parent's
	// state. It is never mutated after construction.
	State chess.Position

	// Move is the move from the parent; meaningless on the root.
	Move chess.Move

	Parent   *Node
	Children []*Node

	// Untried holds the legal moves not yet expanded into children;
	// it only ever shrinks.
	Untried []chess.Move

	Visits     int32
	TotalValue float64

	// PlayerJustMoved is the side that produced State (true = white),
	// i.e. the opposite of State's side to move.
	PlayerJustMoved bool
}

// NewNode builds a node for the given position, generating its untried move
// list. Pass a nil parent for the tree root.
func NewNode(state chess.Position, parent *Node, move chess.Move) *Node {
	return &Node{
		State:           state,
		Move:            move,
		Parent:          parent,
		Untried:         state.GenerateLegalMoves(),
		PlayerJustMoved: !state.WhiteToMove,
	}
}

// FullyExpanded reports whether every legal move has a child node.
func (n *Node) FullyExpanded() bool {
	return len(n.Untried) == 0
}

// Expand picks one untried move uniformly at random, applies it to a clone
// of the node's state and appends the resulting child. Returns nil when the
// node is already fully expanded.
func (n *Node) Expand(rng *rand.Rand) *Node {
	if len(n.Untried) == 0 {
		return nil
	}
	i := rng.Intn(len(n.Untried))
	move := n.Untried[i]
	n.Untried = append(n.Untried[:i], n.Untried[i+1:]...)

	state := n.State.Clone()
	state.ApplyMove(move)
	child := NewNode(state, n, move)
	n.Children = append(n.Children, child)
	return child
}

// BestChild runs UCT selection. Any unvisited child is returned immediately:
// its exploration value is unbounded, so no numeric comparison applies. If no
// unique maximizer exists the choice falls back to a uniformly random child.
// Returns nil when the node has no children.
func (n *Node) BestChild(exploration float64, rng *rand.Rand) *Node {
	if len(n.Children) == 0 {
		return nil
	}

	// The parent's visits, not the child's, feed the logarithm.
	lnParent := math.Log(math.Max(1, float64(n.Visits)))

	best := math.Inf(-1)
	nbest := 0
	var pick *Node
	for _, child := range n.Children {
		if child.Visits == 0 {
			return child
		}
		v := float64(child.Visits)
		score := child.TotalValue/v + exploration*math.Sqrt(lnParent/v)
		if score > best {
			best = score
			nbest = 1
			pick = child
		} else if score == best {
			nbest++
		}
	}

	if nbest != 1 {
		return n.Children[rng.Intn(len(n.Children))]
	}
	return pick
}

// Backpropagate walks from this node up to the root inclusive, incrementing
// visit counts and crediting the reward to each ancestor from the point of
// view of the player who moved into it. This keeps TotalValue/Visits
// interpretable as "expected score for the player who moved into this node"
// no matter whose turn originated the reward.
func (n *Node) Backpropagate(leafReward float64, leafPlayerWhite bool) {
	for node := n; node != nil; node = node.Parent {
		node.Visits++
		if node.PlayerJustMoved == leafPlayerWhite {
			node.TotalValue += leafReward
		} else {
			node.TotalValue += 1 - leafReward
		}
	}
}

// LeafReward converts a terminal game result into the [0,1] reward scale
// from the given player's perspective.
func LeafReward(result chess.Result, leafPlayerWhite bool) float64 {
	if result == chess.Draw {
		return 0.5
	}
	if (result == chess.WhiteWins) == leafPlayerWhite {
		return 1.0
	}
	return 0.0
}

// SubtreeDepth returns the maximum depth of the tree hanging off this node.
func (n *Node) SubtreeDepth() int {
	depth := 0
	for _, child := range n.Children {
		if d := child.SubtreeDepth() + 1; d > depth {
			depth = d
		}
	}
	return depth
}
