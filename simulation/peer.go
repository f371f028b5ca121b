package simulation

import (
	"math/rand/v2"
)

// PeerSelector picks gossip partners from a fully connected network of n
// nodes.
type PeerSelector struct {
	n   int
	rng *rand.Rand
}

func NewPeerSelector(n int, rng *rand.Rand) *PeerSelector {
	return &PeerSelector{
		n:   n,
		rng: rng,
	}
}

// Select returns a peer for node x chosen uniformly at random from the other
// n-1 nodes. Returns false if there are no other nodes.
func (s *PeerSelector) Select(x int) (int, bool) {
	if s.n < 2 {
		return 0, false
	}

	// Draw from n-1 slots and skip over x.
	y := s.rng.IntN(s.n - 1)
	if y >= x {
		y++
	}
	return y, true
}
