package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealComposition(t *testing.T) {
	gen := NewWithSeed(7)
	for pairs := 2; pairs <= 12; pairs++ {
		d := gen.Deal(pairs)
		require.Len(t, d, pairs*2)
		assert.Equal(t, pairs, d.Pairs())
		counts := map[int]int{}
		for _, v := range d {
			counts[v]++
		}
		require.Len(t, counts, pairs, "pairs=%d deck=%v", pairs, d)
		for v := 1; v <= pairs; v++ {
			assert.Equal(t, 2, counts[v], "value %d in %v", v, d)
		}
	}
}

func TestDealEmpty(t *testing.T) {
	gen := NewWithSeed(1)
	assert.Empty(t, gen.Deal(0))
	assert.Empty(t, gen.Deal(-3))
}

func TestOrdered(t *testing.T) {
	assert.Equal(t, Deck{1, 1, 2, 2, 3, 3}, Ordered(3))
}

func TestCloneIsIndependent(t *testing.T) {
	d := Deck{1, 2, 1, 2}
	c := d.Clone()
	c[0] = 9
	assert.Equal(t, 1, d[0])
	assert.Nil(t, Deck(nil).Clone())
}

func TestSeededDealIsReproducible(t *testing.T) {
	a := NewWithSeed(42).Deal(6)
	b := NewWithSeed(42).Deal(6)
	assert.Equal(t, a, b)
}

// For a uniform permutation of 2n cards the two copies of a value sit next to
// each other with probability 1/(2n-1). A biased shuffle (or none at all)
// lands far from that.
func TestShuffleAdjacencyMatchesUniform(t *testing.T) {
	const (
		pairs  = 4
		trials = 20000
	)
	gen := NewWithSeed(2024)
	adjacent := 0
	for i := 0; i < trials; i++ {
		d := gen.Deal(pairs)
		first := -1
		for idx, v := range d {
			if v != 1 {
				continue
			}
			if first < 0 {
				first = idx
				continue
			}
			if idx-first == 1 {
				adjacent++
			}
		}
	}
	got := float64(adjacent) / trials
	want := 1.0 / float64(2*pairs-1)
	assert.InDelta(t, want, got, 0.02, "adjacency rate %.4f", got)
}

func TestShuffleMovesCards(t *testing.T) {
	gen := NewWithSeed(99)
	ordered := Ordered(5)
	same := 0
	for i := 0; i < 200; i++ {
		if assert.ObjectsAreEqual(ordered, gen.Deal(5)) {
			same++
		}
	}
	assert.Less(t, same, 5)
}
