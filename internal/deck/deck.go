// Package deck deals shuffled memory-card layouts.
package deck

import (
	"math/rand"
	"time"
)

// Deck is an ordered sequence of face values. Slot i shows Deck[i].
type Deck []int

// Len returns the number of card slots.
func (d Deck) Len() int {
	return len(d)
}

// Pairs returns the number of pairs in the deck.
func (d Deck) Pairs() int {
	return len(d) / 2
}

// Clone returns an independent copy.
func (d Deck) Clone() Deck {
	if d == nil {
		return nil
	}
	out := make(Deck, len(d))
	copy(out, d)
	return out
}

// Generator produces shuffled decks. It is not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a fixed seed, for reproducible layouts.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Deal lays out each value in [1, pairs] twice and shuffles the result
// uniformly. pairs below 1 yields an empty deck.
func (g *Generator) Deal(pairs int) Deck {
	if pairs <= 0 {
		return Deck{}
	}
	d := Ordered(pairs)
	g.rnd.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
	return d
}

// Ordered returns the unshuffled deck 1,1,2,2,...,pairs,pairs.
func Ordered(pairs int) Deck {
	if pairs <= 0 {
		return Deck{}
	}
	d := make(Deck, 0, pairs*2)
	for v := 1; v <= pairs; v++ {
		d = append(d, v, v)
	}
	return d
}
