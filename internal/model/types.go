// Package model defines shared data structures.
package model

import "time"

// Attempt outcomes as stored in history.
const (
	OutcomeWon      = "won"
	OutcomeTimedOut = "timed_out"
)

// Config defines play settings after flags, config file and environment are
// merged.
type Config struct {
	Level       string
	Seed        int64
	CatalogPath string
	FacesPath   string
	History     bool
	DBPath      string
	LogLevel    string
	LogFile     string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Level       string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Attempt is one finished level attempt.
type Attempt struct {
	ID           int64
	SessionID    string
	LevelIndex   int
	LevelName    string
	Pairs        int
	TimeLimit    int
	Outcome      string
	Errors       int
	MatchedPairs int
	TimeTaken    int
	Stars        int
	StartedAt    time.Time
	EndedAt      time.Time
}

// Won reports whether the attempt matched every pair in time.
func (a Attempt) Won() bool {
	return a.Outcome == OutcomeWon
}

// LevelAggregate summarizes all attempts of one level.
type LevelAggregate struct {
	LevelName  string
	Pairs      int
	Attempts   int
	Wins       int
	BestStars  int
	BestTime   int
	BestErrors int
	LastPlayed time.Time
}

// WinRate returns the share of attempts that were won.
func (l LevelAggregate) WinRate() float64 {
	if l.Attempts == 0 {
		return 0
	}
	return float64(l.Wins) / float64(l.Attempts)
}
