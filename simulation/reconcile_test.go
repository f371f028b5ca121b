package simulation

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExchange(t *testing.T) {
	t.Run("symmetric", func(t *testing.T) {
		a := NewVoteSet(1, 3)
		b := NewVoteSet(2, 3, 4)

		Exchange(&a, &b)

		assert.Equal(t, []int{1, 2, 3, 4}, a.IDs())
		assert.True(t, a.Equal(b))
	})

	t.Run("idempotent", func(t *testing.T) {
		a := NewVoteSet(1)
		b := NewVoteSet(2)

		Exchange(&a, &b)
		onceA, onceB := a.Clone(), b.Clone()

		Exchange(&a, &b)
		assert.Equal(t, onceA, a)
		assert.Equal(t, onceB, b)
	})

	t.Run("no shared memory", func(t *testing.T) {
		a := NewVoteSet(1)
		b := NewVoteSet(2)

		Exchange(&a, &b)
		a.Add(5)

		assert.Equal(t, []int{1, 2, 5}, a.IDs())
		assert.Equal(t, []int{1, 2}, b.IDs())
	})

	t.Run("random union", func(t *testing.T) {
		rng := rand.New(rand.NewPCG(3, 4))
		for i := 0; i != 100; i++ {
			a := randomVoteSet(rng, 16)
			b := randomVoteSet(rng, 16)
			expected := Merge(a, b)

			Exchange(&a, &b)

			assert.True(t, expected.Equal(a))
			assert.True(t, expected.Equal(b))
		}
	})
}

func TestMerge(t *testing.T) {
	a := NewVoteSet(1, 2)
	b := NewVoteSet(2, 3)

	merged := Merge(a, b)

	assert.Equal(t, []int{1, 2, 3}, merged.IDs())
	assert.Equal(t, []int{1, 2}, a.IDs())
	assert.Equal(t, []int{2, 3}, b.IDs())
}
