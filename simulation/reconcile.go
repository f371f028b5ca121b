package simulation

// Merge returns the union of a and b without modifying either.
func Merge(a, b VoteSet) VoteSet {
	merged := a.Clone()
	merged.Union(b)
	return merged
}

// Exchange performs a push-pull reconciliation between two nodes: both sets
// are replaced by their union.
//
// The exchange is symmetric and idempotent. The two sets don't share memory
// afterwards so later updates to one never leak into the other.
func Exchange(a, b *VoteSet) {
	merged := Merge(*a, *b)
	*b = merged.Clone()
	*a = merged
}
