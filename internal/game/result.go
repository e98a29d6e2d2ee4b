package game

import (
	"time"

	"github.com/verte-zerg/memomatch/internal/catalog"
)

// Result describes a finished attempt. It is emitted once per attempt that
// ends in PhaseWon or PhaseTimedOut.
type Result struct {
	LevelIndex   int
	Level        catalog.LevelDefinition
	Outcome      Phase
	Errors       int
	MatchedPairs int
	TimeTaken    int
	Stars        int
	StartedAt    time.Time
	EndedAt      time.Time
}

// Won reports whether the attempt cleared the level.
func (r Result) Won() bool {
	return r.Outcome == PhaseWon
}
