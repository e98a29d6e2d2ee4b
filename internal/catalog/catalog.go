// Package catalog defines the ordered level definitions played by the game engine.
package catalog

import (
	"fmt"
	"strings"
	"time"
)

const (
	defaultTimeLimit = 90
	defaultMinPairs  = 2
	defaultLevels    = 6
)

// Display holds presentation metadata. The engine never reads it.
type Display struct {
	Label       string `yaml:"label,omitempty"`
	Color       string `yaml:"color,omitempty" validate:"omitempty,hexcolor"`
	Description string `yaml:"description,omitempty"`
}

// LevelDefinition describes one difficulty level.
type LevelDefinition struct {
	Name       string  `yaml:"name" validate:"required"`
	PairsCount int     `yaml:"pairs" validate:"gte=2"`
	TimeLimit  int     `yaml:"time-limit" validate:"gt=0"`
	MaxErrors  int     `yaml:"max-errors" validate:"gte=0"`
	Display    Display `yaml:"display,omitempty"`
}

// CardCount returns the number of card slots dealt for the level.
func (l LevelDefinition) CardCount() int {
	return l.PairsCount * 2
}

// Duration returns the time limit as a time.Duration.
func (l LevelDefinition) Duration() time.Duration {
	return time.Duration(l.TimeLimit) * time.Second
}

// Label returns the display label, falling back to the level name.
func (l LevelDefinition) Label() string {
	if l.Display.Label != "" {
		return l.Display.Label
	}
	return l.Name
}

// Catalog is an immutable, validated, ordered list of levels.
type Catalog struct {
	levels []LevelDefinition
}

// New validates levels and returns a catalog holding a copy of them.
func New(levels []LevelDefinition) (*Catalog, error) {
	if err := Validate(levels); err != nil {
		return nil, err
	}
	owned := make([]LevelDefinition, len(levels))
	copy(owned, levels)
	return &Catalog{levels: owned}, nil
}

// Default returns the built-in catalog: six levels from 2 to 7 pairs, 90 seconds each.
func Default() *Catalog {
	levels := make([]LevelDefinition, 0, defaultLevels)
	for i := 0; i < defaultLevels; i++ {
		pairs := defaultMinPairs + i
		levels = append(levels, LevelDefinition{
			Name:       pairsName(pairs),
			PairsCount: pairs,
			TimeLimit:  defaultTimeLimit,
			MaxErrors:  pairs,
		})
	}
	return &Catalog{levels: levels}
}

// Len returns the number of levels.
func (c *Catalog) Len() int {
	return len(c.levels)
}

// Level returns the level at index. ok is false when index is out of range.
func (c *Catalog) Level(index int) (LevelDefinition, bool) {
	if index < 0 || index >= len(c.levels) {
		return LevelDefinition{}, false
	}
	return c.levels[index], true
}

// Levels returns a copy of all levels in order.
func (c *Catalog) Levels() []LevelDefinition {
	out := make([]LevelDefinition, len(c.levels))
	copy(out, c.levels)
	return out
}

// MaxPairs returns the largest pair count across all levels.
func (c *Catalog) MaxPairs() int {
	maxPairs := 0
	for _, lvl := range c.levels {
		if lvl.PairsCount > maxPairs {
			maxPairs = lvl.PairsCount
		}
	}
	return maxPairs
}

// IndexOf finds a level by name, ignoring case and surrounding spaces.
func (c *Catalog) IndexOf(name string) (int, bool) {
	key := normalizeName(name)
	if key == "" {
		return -1, false
	}
	for i, lvl := range c.levels {
		if normalizeName(lvl.Name) == key {
			return i, true
		}
	}
	return -1, false
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func pairsName(pairs int) string {
	return fmt.Sprintf("%d Pairs", pairs)
}
