package simulation

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoteSet_Add(t *testing.T) {
	var s VoteSet
	assert.True(t, s.Add(3))
	assert.True(t, s.Add(1))
	assert.True(t, s.Add(2))
	assert.False(t, s.Add(1))

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []int{1, 2, 3}, s.IDs())
	assert.True(t, s.Contains(2))
	assert.False(t, s.Contains(4))
}

func TestVoteSet_Union(t *testing.T) {
	tests := []struct {
		Name     string
		A        []int
		B        []int
		Expected []int
		Changed  bool
	}{
		{"empty", nil, nil, nil, false},
		{"into empty", nil, []int{1, 2}, []int{1, 2}, true},
		{"from empty", []int{1, 2}, nil, []int{1, 2}, false},
		{"disjoint", []int{1, 5}, []int{2, 7}, []int{1, 2, 5, 7}, true},
		{"overlap", []int{1, 2, 3}, []int{2, 3, 4}, []int{1, 2, 3, 4}, true},
		{"subset", []int{1, 2, 3}, []int{2}, []int{1, 2, 3}, false},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			a := NewVoteSet(test.A...)
			b := NewVoteSet(test.B...)

			assert.Equal(t, test.Changed, a.Union(b))
			assert.Equal(t, NewVoteSet(test.Expected...), a)
			// The argument must be unchanged.
			assert.Equal(t, NewVoteSet(test.B...), b)
		})
	}
}

func TestVoteSet_Clone(t *testing.T) {
	s := NewVoteSet(1, 2)
	clone := s.Clone()
	clone.Add(3)

	assert.Equal(t, []int{1, 2}, s.IDs())
	assert.Equal(t, []int{1, 2, 3}, clone.IDs())
}

func TestVoteSet_SubsetOf(t *testing.T) {
	assert.True(t, NewVoteSet().SubsetOf(NewVoteSet()))
	assert.True(t, NewVoteSet().SubsetOf(NewVoteSet(1)))
	assert.True(t, NewVoteSet(1, 3).SubsetOf(NewVoteSet(1, 2, 3)))
	assert.False(t, NewVoteSet(1, 4).SubsetOf(NewVoteSet(1, 2, 3)))
	assert.False(t, NewVoteSet(1, 2).SubsetOf(NewVoteSet(1)))
}

func TestVoteSet_UnionRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i != 100; i++ {
		a := randomVoteSet(rng, 20)
		b := randomVoteSet(rng, 20)

		union := a.Clone()
		union.Union(b)

		for id := 0; id != 20; id++ {
			assert.Equal(t, a.Contains(id) || b.Contains(id), union.Contains(id))
		}
		assert.True(t, a.SubsetOf(union))
		assert.True(t, b.SubsetOf(union))
	}
}

func randomVoteSet(rng *rand.Rand, k int) VoteSet {
	var s VoteSet
	for id := 0; id != k; id++ {
		if rng.IntN(2) == 0 {
			s.Add(id)
		}
	}
	return s
}
