// Package simulation models a single rumour spreading to quorum across a
// fully connected network using round-based push-pull anti-entropy gossip.
//
// Each node holds the set of voters it has observed supporting the rumour.
// Every round the designated voters scheduled for that round add their own
// vote, then every node picks a random peer and the two reconcile their vote
// sets. A node holds a quorum once it has observed votes from a strict
// majority of the network. The simulation converges once every node holds a
// quorum.
package simulation
