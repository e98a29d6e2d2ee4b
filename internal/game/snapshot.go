package game

import (
	"sort"
	"time"

	"github.com/verte-zerg/memomatch/internal/catalog"
	"github.com/verte-zerg/memomatch/internal/deck"
)

// Snapshot is a read-only copy of the session state. Version increases with
// every published change; consumers drop snapshots older than the last seen.
type Snapshot struct {
	Version       uint64
	Phase         Phase
	LevelIndex    int
	Level         catalog.LevelDefinition
	Deck          deck.Deck
	Revealed      []int
	MatchedValues []int
	MatchedPairs  int
	Errors        int
	TimeRemaining int
	Stars         int
	TotalStars    int
	LevelStats    map[int]LevelStatsRecord
}

// Card is the view of one slot.
type Card struct {
	Index    int
	Value    int
	Revealed bool
	Matched  bool
}

// FaceUp reports whether the card's value is visible.
func (c Card) FaceUp() bool {
	return c.Revealed || c.Matched
}

// HasLevel reports whether a level is selected.
func (s Snapshot) HasLevel() bool {
	return s.LevelIndex >= 0
}

// TimeTaken returns the seconds elapsed in the current attempt.
func (s Snapshot) TimeTaken() int {
	if !s.HasLevel() {
		return 0
	}
	return s.Level.TimeLimit - s.TimeRemaining
}

// Remaining returns the time left as a duration.
func (s Snapshot) Remaining() time.Duration {
	return time.Duration(s.TimeRemaining) * time.Second
}

// IsRevealed reports whether slot i is transiently face-up.
func (s Snapshot) IsRevealed(i int) bool {
	for _, idx := range s.Revealed {
		if idx == i {
			return true
		}
	}
	return false
}

// IsMatched reports whether slot i belongs to a found pair.
func (s Snapshot) IsMatched(i int) bool {
	if i < 0 || i >= len(s.Deck) {
		return false
	}
	idx := sort.SearchInts(s.MatchedValues, s.Deck[i])
	return idx < len(s.MatchedValues) && s.MatchedValues[idx] == s.Deck[i]
}

// Card returns the view of slot i. ok is false when i is out of range.
func (s Snapshot) Card(i int) (Card, bool) {
	if i < 0 || i >= len(s.Deck) {
		return Card{}, false
	}
	return Card{
		Index:    i,
		Value:    s.Deck[i],
		Revealed: s.IsRevealed(i),
		Matched:  s.IsMatched(i),
	}, true
}

// Cards returns the view of every slot in deck order.
func (s Snapshot) Cards() []Card {
	out := make([]Card, 0, len(s.Deck))
	for i := range s.Deck {
		card, _ := s.Card(i)
		out = append(out, card)
	}
	return out
}
