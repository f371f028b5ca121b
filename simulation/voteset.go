package simulation

import (
	"slices"
)

// VoteSet is the set of voter IDs a node has observed for the rumour.
//
// IDs are kept sorted without duplicates, so two sets holding the same votes
// are identical element for element. The zero value is an empty set.
type VoteSet struct {
	ids []int
}

// NewVoteSet returns a set containing the given IDs.
func NewVoteSet(ids ...int) VoteSet {
	var s VoteSet
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id, returning false if it was already present.
func (s *VoteSet) Add(id int) bool {
	i, found := slices.BinarySearch(s.ids, id)
	if found {
		return false
	}
	s.ids = slices.Insert(s.ids, i, id)
	return true
}

func (s VoteSet) Contains(id int) bool {
	_, found := slices.BinarySearch(s.ids, id)
	return found
}

func (s VoteSet) Len() int {
	return len(s.ids)
}

// Union adds every ID in other to s, returning true if s grew.
func (s *VoteSet) Union(other VoteSet) bool {
	if len(other.ids) == 0 {
		return false
	}

	merged := make([]int, 0, len(s.ids)+len(other.ids))
	i, j := 0, 0
	for i < len(s.ids) && j < len(other.ids) {
		switch {
		case s.ids[i] < other.ids[j]:
			merged = append(merged, s.ids[i])
			i++
		case s.ids[i] > other.ids[j]:
			merged = append(merged, other.ids[j])
			j++
		default:
			merged = append(merged, s.ids[i])
			i++
			j++
		}
	}
	merged = append(merged, s.ids[i:]...)
	merged = append(merged, other.ids[j:]...)

	if len(merged) == len(s.ids) {
		return false
	}
	s.ids = merged
	return true
}

// Clone returns a copy that shares no memory with s.
func (s VoteSet) Clone() VoteSet {
	return VoteSet{ids: slices.Clone(s.ids)}
}

func (s VoteSet) Equal(other VoteSet) bool {
	return slices.Equal(s.ids, other.ids)
}

// SubsetOf returns whether every ID in s is also in other.
func (s VoteSet) SubsetOf(other VoteSet) bool {
	if len(s.ids) > len(other.ids) {
		return false
	}
	j := 0
	for _, id := range s.ids {
		for j < len(other.ids) && other.ids[j] < id {
			j++
		}
		if j == len(other.ids) || other.ids[j] != id {
			return false
		}
	}
	return true
}

// IDs returns the sorted voter IDs.
func (s VoteSet) IDs() []int {
	return slices.Clone(s.ids)
}
