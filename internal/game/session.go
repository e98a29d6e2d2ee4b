// Package game implements the memory-match session engine: level selection,
// card reveal and match resolution, the countdown, scoring, and per-level
// statistics.
//
// A Session is a single state machine. Player commands and timer callbacks
// are serialized by its mutex and each transition runs to completion.
// Commands whose preconditions do not hold are ignored and return false.
package game

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/verte-zerg/memomatch/internal/catalog"
	"github.com/verte-zerg/memomatch/internal/deck"
)

const (
	// TickInterval is the countdown resolution.
	TickInterval = time.Second
	// MismatchDelay is how long a mismatched pair stays face-up.
	MismatchDelay = time.Second
)

// Dealer produces a fresh deck for a level.
type Dealer interface {
	Deal(pairs int) deck.Deck
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// WithDealer replaces the default shuffled deck generator.
func WithDealer(d Dealer) Option {
	return func(s *Session) {
		s.dealer = d
	}
}

// WithLogger sets the logger used for transition tracing.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithResultHandler registers fn to receive every finished attempt. fn runs
// outside the session lock.
func WithResultHandler(fn func(Result)) Option {
	return func(s *Session) {
		s.onResult = fn
	}
}

type subscriber struct {
	id int
	fn func(Snapshot)
}

// Session owns all mutable game state for one play session.
type Session struct {
	mu       sync.Mutex
	catalog  *catalog.Catalog
	clock    Clock
	dealer   Dealer
	logger   *log.Logger
	onResult func(Result)

	levelIndex    int
	level         catalog.LevelDefinition
	deck          deck.Deck
	revealed      []int
	matched       map[int]struct{}
	matchedPairs  int
	errors        int
	timeRemaining int
	phase         Phase
	stars         int
	startedAt     time.Time

	stats *LevelStats

	// generation changes on every attempt reset; timer callbacks from an
	// older generation are ignored.
	generation    uint64
	countdown     Timer
	mismatchClear Timer

	version     uint64
	subscribers []subscriber
	nextSubID   int
	pending     []Result
	closed      bool
}

// New returns an idle session over cat.
func New(cat *catalog.Catalog, opts ...Option) *Session {
	s := &Session{
		catalog:    cat,
		levelIndex: -1,
		matched:    map[int]struct{}{},
		phase:      PhaseIdle,
		stats:      NewLevelStats(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = SystemClock()
	}
	if s.dealer == nil {
		s.dealer = deck.New()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Catalog returns the level catalog the session plays.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// OpenLevelSelect moves to the level menu. Allowed from any phase except
// Playing and Selecting; a selected but unstarted level is dropped.
func (s *Session) OpenLevelSelect() bool {
	return s.apply(func() bool {
		if s.phase == PhasePlaying || s.phase == PhaseSelecting {
			s.logger.Debug("level select ignored", "phase", s.phase)
			return false
		}
		s.resetAttemptLocked()
		s.clearLevelLocked()
		s.phase = PhaseSelecting
		return true
	})
}

// SelectLevel deals a fresh deck for the level at index and moves to Ready.
// Any attempt in progress is discarded.
func (s *Session) SelectLevel(index int) bool {
	return s.apply(func() bool {
		lvl, ok := s.catalog.Level(index)
		if !ok {
			s.logger.Debug("select ignored: level out of range", "index", index)
			return false
		}
		s.resetAttemptLocked()
		s.levelIndex = index
		s.level = lvl
		s.deck = s.dealer.Deal(lvl.PairsCount)
		s.timeRemaining = lvl.TimeLimit
		s.phase = PhaseReady
		s.logger.Debug("level selected", "index", index, "level", lvl.Name, "pairs", lvl.PairsCount)
		return true
	})
}

// StartLevel begins play from Ready and starts the countdown.
func (s *Session) StartLevel() bool {
	return s.apply(func() bool {
		if s.phase != PhaseReady {
			s.logger.Debug("start ignored", "phase", s.phase)
			return false
		}
		s.beginPlayingLocked()
		return true
	})
}

// FlipCard reveals the card at index. The second card of a turn resolves as
// a match or a mismatch; a mismatched pair flips back after MismatchDelay.
func (s *Session) FlipCard(index int) bool {
	return s.apply(func() bool {
		if !s.canFlipLocked(index) {
			return false
		}
		s.revealed = append(s.revealed, index)
		if len(s.revealed) < 2 {
			return true
		}

		a, b := s.revealed[0], s.revealed[1]
		if s.deck[a] == s.deck[b] {
			s.matched[s.deck[a]] = struct{}{}
			s.matchedPairs++
			s.revealed = nil
			s.logger.Debug("pair matched", "value", s.deck[a], "pairs", s.matchedPairs)
			if s.matchedPairs == s.level.PairsCount {
				s.finishLocked(PhaseWon)
			}
			return true
		}

		s.errors++
		s.logger.Debug("pair mismatched", "a", a, "b", b, "errors", s.errors)
		gen := s.generation
		s.mismatchClear = s.clock.AfterFunc(MismatchDelay, func() {
			s.clearMismatch(gen)
		})
		return true
	})
}

// ReplayLevel restarts the selected level with a fresh deck and goes
// straight to Playing.
func (s *Session) ReplayLevel() bool {
	return s.apply(func() bool {
		if s.levelIndex < 0 {
			s.logger.Debug("replay ignored: no level selected")
			return false
		}
		s.resetAttemptLocked()
		s.deck = s.dealer.Deal(s.level.PairsCount)
		s.timeRemaining = s.level.TimeLimit
		s.beginPlayingLocked()
		s.logger.Debug("level replayed", "index", s.levelIndex, "level", s.level.Name)
		return true
	})
}

// BackToMenu drops the selected level and returns to Idle. Level stats are kept.
func (s *Session) BackToMenu() bool {
	return s.apply(func() bool {
		if s.phase == PhaseIdle && s.levelIndex < 0 {
			return false
		}
		s.resetAttemptLocked()
		s.clearLevelLocked()
		s.phase = PhaseIdle
		return true
	})
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// TotalStars returns the sum of stars over all recorded levels.
func (s *Session) TotalStars() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.TotalStars()
}

// Subscribe registers fn to receive a snapshot after every state change,
// including timer-driven ones. fn runs outside the session lock and may be
// called from a timer goroutine. The returned func removes the subscription.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Close stops all timers and ignores every later command.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.generation++
	s.stopCountdownLocked()
	s.stopMismatchClearLocked()
	s.subscribers = nil
}

// apply runs fn under the lock and publishes a snapshot when it reports a
// change. Results and snapshots are delivered after the lock is released.
func (s *Session) apply(fn func() bool) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	changed := fn()
	var (
		snap Snapshot
		subs []subscriber
	)
	if changed {
		s.version++
		snap = s.snapshotLocked()
		subs = append(subs, s.subscribers...)
	}
	results := s.pending
	s.pending = nil
	onResult := s.onResult
	s.mu.Unlock()

	if onResult != nil {
		for _, r := range results {
			onResult(r)
		}
	}
	for _, sub := range subs {
		sub.fn(snap)
	}
	return changed
}

func (s *Session) canFlipLocked(index int) bool {
	if s.phase != PhasePlaying {
		return false
	}
	if len(s.revealed) >= 2 {
		return false
	}
	if index < 0 || index >= len(s.deck) {
		return false
	}
	for _, idx := range s.revealed {
		if idx == index {
			return false
		}
	}
	if _, ok := s.matched[s.deck[index]]; ok {
		return false
	}
	return true
}

func (s *Session) beginPlayingLocked() {
	s.phase = PhasePlaying
	s.startedAt = s.clock.Now()
	s.scheduleTickLocked()
	s.logger.Debug("level started", "index", s.levelIndex, "time_limit", s.level.TimeLimit)
}

func (s *Session) scheduleTickLocked() {
	gen := s.generation
	s.countdown = s.clock.AfterFunc(TickInterval, func() {
		s.tick(gen)
	})
}

func (s *Session) tick(gen uint64) {
	s.apply(func() bool {
		if gen != s.generation || s.phase != PhasePlaying {
			return false
		}
		s.countdown = nil
		if s.timeRemaining > 0 {
			s.timeRemaining--
		}
		if s.timeRemaining > 0 {
			s.scheduleTickLocked()
			return true
		}
		// A win resolved in the same instant takes precedence over the timeout.
		if s.matchedPairs == s.level.PairsCount {
			s.finishLocked(PhaseWon)
			return true
		}
		s.finishLocked(PhaseTimedOut)
		return true
	})
}

func (s *Session) clearMismatch(gen uint64) {
	s.apply(func() bool {
		if gen != s.generation {
			return false
		}
		s.mismatchClear = nil
		if len(s.revealed) == 0 {
			return false
		}
		s.revealed = nil
		return true
	})
}

func (s *Session) finishLocked(outcome Phase) {
	s.stopCountdownLocked()
	s.phase = outcome
	if outcome == PhaseWon {
		s.stars = CalculateStars(s.errors)
		s.stats.Record(s.levelIndex, LevelStatsRecord{
			Errors:    s.errors,
			TimeTaken: s.level.TimeLimit - s.timeRemaining,
			Stars:     s.stars,
		})
		s.logger.Info("level won", "level", s.level.Name, "errors", s.errors, "stars", s.stars, "total_stars", s.stats.TotalStars())
	} else {
		s.logger.Info("level timed out", "level", s.level.Name, "errors", s.errors, "pairs", s.matchedPairs)
	}
	s.pending = append(s.pending, Result{
		LevelIndex:   s.levelIndex,
		Level:        s.level,
		Outcome:      outcome,
		Errors:       s.errors,
		MatchedPairs: s.matchedPairs,
		TimeTaken:    s.level.TimeLimit - s.timeRemaining,
		Stars:        s.stars,
		StartedAt:    s.startedAt,
		EndedAt:      s.clock.Now(),
	})
}

func (s *Session) resetAttemptLocked() {
	s.generation++
	s.stopCountdownLocked()
	s.stopMismatchClearLocked()
	s.revealed = nil
	s.matched = map[int]struct{}{}
	s.matchedPairs = 0
	s.errors = 0
	s.stars = 0
	s.startedAt = time.Time{}
}

func (s *Session) clearLevelLocked() {
	s.levelIndex = -1
	s.level = catalog.LevelDefinition{}
	s.deck = nil
	s.timeRemaining = 0
}

func (s *Session) stopCountdownLocked() {
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
}

func (s *Session) stopMismatchClearLocked() {
	if s.mismatchClear != nil {
		s.mismatchClear.Stop()
		s.mismatchClear = nil
	}
}

func (s *Session) snapshotLocked() Snapshot {
	matched := make([]int, 0, len(s.matched))
	for v := range s.matched {
		matched = append(matched, v)
	}
	sort.Ints(matched)
	var revealed []int
	if len(s.revealed) > 0 {
		revealed = append(revealed, s.revealed...)
	}
	return Snapshot{
		Version:       s.version,
		Phase:         s.phase,
		LevelIndex:    s.levelIndex,
		Level:         s.level,
		Deck:          s.deck.Clone(),
		Revealed:      revealed,
		MatchedValues: matched,
		MatchedPairs:  s.matchedPairs,
		Errors:        s.errors,
		TimeRemaining: s.timeRemaining,
		Stars:         s.stars,
		TotalStars:    s.stats.TotalStars(),
		LevelStats:    s.stats.Map(),
	}
}
