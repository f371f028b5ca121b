package simulation

import (
	"slices"
)

// QuorumTracker records the round each node first observed a quorum.
//
// Vote sets never shrink, so once a node has a quorum it keeps it.
type QuorumTracker struct {
	n int

	// first contains the round each node first had a quorum, or 0 if it
	// hasn't yet.
	first []int
	count int
}

func NewQuorumTracker(n int) *QuorumTracker {
	return &QuorumTracker{
		n:     n,
		first: make([]int, n),
	}
}

// HasQuorum returns whether the given number of votes is a strict majority
// of the network.
func (t *QuorumTracker) HasQuorum(votes int) bool {
	return votes*2 > t.n
}

// Update checks every node without a quorum and returns the nodes that
// reached quorum in the given round.
func (t *QuorumTracker) Update(round int, sets []VoteSet) []int {
	var reached []int
	for id, set := range sets {
		if t.first[id] != 0 {
			continue
		}
		if t.HasQuorum(set.Len()) {
			t.first[id] = round
			t.count++
			reached = append(reached, id)
		}
	}
	return reached
}

func (t *QuorumTracker) AllQuorum() bool {
	return t.count == t.n
}

// Count returns the number of nodes with a quorum.
func (t *QuorumTracker) Count() int {
	return t.count
}

func (t *QuorumTracker) FirstQuorum(node int) (int, bool) {
	round := t.first[node]
	return round, round != 0
}

// Rounds returns the first quorum round of each node, with 0 for nodes
// without a quorum.
func (t *QuorumTracker) Rounds() []int {
	return slices.Clone(t.first)
}
