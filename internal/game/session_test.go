package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/memomatch/internal/catalog"
	"github.com/verte-zerg/memomatch/internal/deck"
)

// orderedDealer deals 1,1,2,2,... unless fixed decks are queued.
type orderedDealer struct {
	queued []deck.Deck
}

func (d *orderedDealer) Deal(pairs int) deck.Deck {
	if len(d.queued) > 0 {
		next := d.queued[0]
		d.queued = d.queued[1:]
		return next.Clone()
	}
	return deck.Ordered(pairs)
}

func testLevels() []catalog.LevelDefinition {
	return []catalog.LevelDefinition{
		{Name: "Two", PairsCount: 2, TimeLimit: 90, MaxErrors: 2},
		{Name: "Three", PairsCount: 3, TimeLimit: 90, MaxErrors: 3},
		{Name: "Quick", PairsCount: 2, TimeLimit: 2, MaxErrors: 2},
	}
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *manualClock, *orderedDealer) {
	t.Helper()
	cat, err := catalog.New(testLevels())
	require.NoError(t, err)
	clk := newManualClock()
	dealer := &orderedDealer{}
	all := append([]Option{WithClock(clk), WithDealer(dealer)}, opts...)
	s := New(cat, all...)
	t.Cleanup(s.Close)
	return s, clk, dealer
}

func startLevel(t *testing.T, s *Session, index int) {
	t.Helper()
	require.True(t, s.SelectLevel(index))
	require.True(t, s.StartLevel())
}

// mismatch flips slots 0 and 2 of an ordered deck (values 1 and 2) and waits
// for them to flip back.
func mismatch(t *testing.T, s *Session, clk *manualClock) {
	t.Helper()
	require.True(t, s.FlipCard(0))
	require.True(t, s.FlipCard(2))
	clk.Advance(MismatchDelay)
	require.Empty(t, s.Snapshot().Revealed)
}

func solveOrdered(t *testing.T, s *Session) {
	t.Helper()
	n := len(s.Snapshot().Deck)
	for i := 0; i < n; i += 2 {
		require.True(t, s.FlipCard(i))
		require.True(t, s.FlipCard(i+1))
	}
}

func TestNewSessionIsIdle(t *testing.T) {
	s, _, _ := newTestSession(t)
	snap := s.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.False(t, snap.HasLevel())
	assert.Empty(t, snap.Deck)
	assert.Zero(t, snap.TotalStars)
}

func TestSelectLevelInitializesAttempt(t *testing.T) {
	s, clk, _ := newTestSession(t)
	require.True(t, s.SelectLevel(1))
	snap := s.Snapshot()
	assert.Equal(t, PhaseReady, snap.Phase)
	assert.Equal(t, 1, snap.LevelIndex)
	assert.Equal(t, "Three", snap.Level.Name)
	assert.Len(t, snap.Deck, 6)
	assert.Equal(t, 90, snap.TimeRemaining)
	assert.Zero(t, snap.Errors)
	assert.Zero(t, snap.MatchedPairs)
	assert.Zero(t, snap.Stars)
	assert.Zero(t, clk.Pending(), "no countdown before start")
}

func TestSelectLevelOutOfRangeIgnored(t *testing.T) {
	s, _, _ := newTestSession(t)
	assert.False(t, s.SelectLevel(-1))
	assert.False(t, s.SelectLevel(3))
	assert.Equal(t, PhaseIdle, s.Snapshot().Phase)
}

func TestStartLevelOnlyFromReady(t *testing.T) {
	s, _, _ := newTestSession(t)
	assert.False(t, s.StartLevel())
	require.True(t, s.SelectLevel(0))
	require.True(t, s.StartLevel())
	assert.Equal(t, PhasePlaying, s.Snapshot().Phase)
	assert.False(t, s.StartLevel())
}

func TestOpenLevelSelect(t *testing.T) {
	s, _, _ := newTestSession(t)
	require.True(t, s.OpenLevelSelect())
	assert.Equal(t, PhaseSelecting, s.Snapshot().Phase)
	assert.False(t, s.OpenLevelSelect())

	startLevel(t, s, 0)
	assert.False(t, s.OpenLevelSelect(), "not allowed while playing")

	solveOrdered(t, s)
	require.Equal(t, PhaseWon, s.Snapshot().Phase)
	require.True(t, s.OpenLevelSelect())
	snap := s.Snapshot()
	assert.Equal(t, PhaseSelecting, snap.Phase)
	assert.False(t, snap.HasLevel())
	assert.Equal(t, 3, snap.TotalStars)
}

func TestFlipMatchOnSampleDeck(t *testing.T) {
	s, _, dealer := newTestSession(t)
	dealer.queued = []deck.Deck{{1, 2, 1, 2}}
	startLevel(t, s, 0)

	require.True(t, s.FlipCard(0))
	snap := s.Snapshot()
	assert.Equal(t, []int{0}, snap.Revealed)

	require.True(t, s.FlipCard(2))
	snap = s.Snapshot()
	assert.Equal(t, 1, snap.MatchedPairs)
	assert.Equal(t, []int{1}, snap.MatchedValues)
	assert.Empty(t, snap.Revealed)
	assert.Zero(t, snap.Errors)
	assert.True(t, snap.IsMatched(0))
	assert.True(t, snap.IsMatched(2))
	assert.False(t, snap.IsMatched(1))

	card, ok := snap.Card(2)
	require.True(t, ok)
	assert.True(t, card.FaceUp())
	card, _ = snap.Card(1)
	assert.False(t, card.FaceUp())
}

func TestFlipMismatchClearsAfterDelay(t *testing.T) {
	s, clk, dealer := newTestSession(t)
	dealer.queued = []deck.Deck{{1, 2, 1, 2}}
	startLevel(t, s, 0)

	require.True(t, s.FlipCard(0))
	require.True(t, s.FlipCard(1))
	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Errors)
	assert.Equal(t, []int{0, 1}, snap.Revealed)
	assert.Zero(t, snap.MatchedPairs)

	clk.Advance(MismatchDelay / 2)
	assert.Equal(t, []int{0, 1}, s.Snapshot().Revealed)

	clk.Advance(MismatchDelay / 2)
	snap = s.Snapshot()
	assert.Empty(t, snap.Revealed)
	assert.Equal(t, 1, snap.Errors)
	assert.Equal(t, PhasePlaying, snap.Phase)
}

func TestFlipPreconditionsAreIdempotent(t *testing.T) {
	s, clk, dealer := newTestSession(t)
	dealer.queued = []deck.Deck{{1, 2, 1, 2}}

	assert.False(t, s.FlipCard(0), "not playing yet")
	startLevel(t, s, 0)

	require.True(t, s.FlipCard(0))
	require.True(t, s.FlipCard(2))
	before := s.Snapshot()

	assert.False(t, s.FlipCard(0), "matched card")
	assert.False(t, s.FlipCard(2), "matched card")
	assert.False(t, s.FlipCard(-1), "out of range")
	assert.False(t, s.FlipCard(4), "out of range")
	after := s.Snapshot()
	assert.Equal(t, before.Version, after.Version)

	require.True(t, s.FlipCard(1))
	assert.False(t, s.FlipCard(1), "already revealed")
	require.True(t, s.FlipCard(3))
	require.Equal(t, PhaseWon, s.Snapshot().Phase)

	// Two cards face-up: a third flip is rejected until the clear fires.
	require.True(t, s.ReplayLevel())
	require.True(t, s.FlipCard(0))
	require.True(t, s.FlipCard(2))
	pending := s.Snapshot()
	require.Len(t, pending.Revealed, 2)
	assert.False(t, s.FlipCard(1))
	assert.False(t, s.FlipCard(3))
	still := s.Snapshot()
	assert.Equal(t, pending.Revealed, still.Revealed)
	assert.Equal(t, pending.Errors, still.Errors)
	assert.Equal(t, pending.MatchedPairs, still.MatchedPairs)

	clk.Advance(MismatchDelay)
	assert.True(t, s.FlipCard(1))
}

func TestWinScoringExamples(t *testing.T) {
	cases := []struct {
		errors int
		stars  int
	}{
		{2, 3},
		{3, 2},
		{5, 1},
	}
	for _, tc := range cases {
		s, clk, _ := newTestSession(t)
		require.True(t, s.SelectLevel(0))
		// Four pairs with an ordered layout.
		s.level.PairsCount = 4
		s.deck = deck.Ordered(4)
		require.True(t, s.StartLevel())
		for i := 0; i < tc.errors; i++ {
			mismatch(t, s, clk)
		}
		solveOrdered(t, s)
		snap := s.Snapshot()
		require.Equal(t, PhaseWon, snap.Phase)
		assert.Equal(t, tc.errors, snap.Errors)
		assert.Equal(t, tc.stars, snap.Stars, "errors=%d", tc.errors)
	}
}

func TestWinRecordsStatsAndStopsTimer(t *testing.T) {
	s, clk, _ := newTestSession(t)
	startLevel(t, s, 1)
	clk.Advance(3 * TickInterval)
	mismatch(t, s, clk)
	solveOrdered(t, s)

	snap := s.Snapshot()
	require.Equal(t, PhaseWon, snap.Phase)
	assert.Equal(t, 3, snap.Stars)
	rec, ok := snap.LevelStats[1]
	require.True(t, ok)
	assert.Equal(t, LevelStatsRecord{Errors: 1, TimeTaken: 4, Stars: 3}, rec)
	assert.Equal(t, 3, snap.TotalStars)
	assert.Equal(t, 4, snap.TimeTaken())

	remaining := snap.TimeRemaining
	clk.Advance(10 * TickInterval)
	assert.Equal(t, remaining, s.Snapshot().TimeRemaining)
	assert.Zero(t, clk.Pending())
}

func TestStarsStayZeroUntilWon(t *testing.T) {
	s, clk, _ := newTestSession(t)
	startLevel(t, s, 1)
	mismatch(t, s, clk)
	require.True(t, s.FlipCard(0))
	require.True(t, s.FlipCard(1))
	assert.Zero(t, s.Snapshot().Stars)
}

func TestStatsAccumulateAndOverwrite(t *testing.T) {
	s, clk, _ := newTestSession(t)

	startLevel(t, s, 0)
	solveOrdered(t, s)
	require.Equal(t, 3, s.Snapshot().Stars)

	startLevel(t, s, 1)
	for i := 0; i < 3; i++ {
		mismatch(t, s, clk)
	}
	solveOrdered(t, s)
	require.Equal(t, 2, s.Snapshot().Stars)
	assert.Equal(t, 5, s.TotalStars())

	require.True(t, s.BackToMenu())
	assert.Equal(t, 5, s.Snapshot().TotalStars, "stats survive menu return")

	startLevel(t, s, 0)
	for i := 0; i < 5; i++ {
		mismatch(t, s, clk)
	}
	solveOrdered(t, s)
	snap := s.Snapshot()
	require.Equal(t, 1, snap.Stars)
	assert.Equal(t, 3, snap.TotalStars)
	assert.Len(t, snap.LevelStats, 2)
	assert.Equal(t, 5, snap.LevelStats[0].Errors)
}

func TestReplayDoesNotTouchStatsUntilWon(t *testing.T) {
	s, clk, _ := newTestSession(t)
	startLevel(t, s, 0)
	solveOrdered(t, s)
	require.Equal(t, 3, s.TotalStars())

	require.True(t, s.ReplayLevel())
	snap := s.Snapshot()
	assert.Equal(t, PhasePlaying, snap.Phase, "replay skips Ready")
	assert.Zero(t, snap.MatchedPairs)
	assert.Zero(t, snap.Stars)
	assert.Equal(t, 90, snap.TimeRemaining)
	assert.Equal(t, 3, snap.TotalStars)

	for i := 0; i < 3; i++ {
		mismatch(t, s, clk)
	}
	assert.Equal(t, 3, s.TotalStars())
	solveOrdered(t, s)
	assert.Equal(t, 2, s.TotalStars())
}

func TestReplayRequiresSelectedLevel(t *testing.T) {
	s, _, _ := newTestSession(t)
	assert.False(t, s.ReplayLevel())
	require.True(t, s.SelectLevel(0))
	assert.True(t, s.ReplayLevel())
	assert.Equal(t, PhasePlaying, s.Snapshot().Phase)
}

func TestTimeoutEndsAttempt(t *testing.T) {
	var results []Result
	s, clk, _ := newTestSession(t, WithResultHandler(func(r Result) {
		results = append(results, r)
	}))
	startLevel(t, s, 2)
	require.True(t, s.FlipCard(0))
	require.True(t, s.FlipCard(1))

	clk.Advance(TickInterval)
	assert.Equal(t, 1, s.Snapshot().TimeRemaining)
	clk.Advance(TickInterval)

	snap := s.Snapshot()
	assert.Equal(t, PhaseTimedOut, snap.Phase)
	assert.Zero(t, snap.TimeRemaining)
	assert.Zero(t, snap.Stars)
	assert.Empty(t, snap.LevelStats)
	assert.False(t, s.FlipCard(2))
	assert.Zero(t, clk.Pending())

	require.Len(t, results, 1)
	assert.Equal(t, PhaseTimedOut, results[0].Outcome)
	assert.False(t, results[0].Won())
	assert.Equal(t, 1, results[0].MatchedPairs)
	assert.Equal(t, 2, results[0].TimeTaken)
	assert.Equal(t, 2*time.Second, results[0].EndedAt.Sub(results[0].StartedAt))
}

func TestWinTakesPrecedenceInSameInstant(t *testing.T) {
	s, clk, _ := newTestSession(t)
	require.True(t, s.SelectLevel(2))

	// Scheduled before the countdown, so it runs first when both fall due at
	// the final second.
	clk.AfterFunc(2*TickInterval, func() {
		s.FlipCard(2)
		s.FlipCard(3)
	})
	require.True(t, s.StartLevel())
	require.True(t, s.FlipCard(0))
	require.True(t, s.FlipCard(1))

	clk.Advance(2 * TickInterval)
	snap := s.Snapshot()
	assert.Equal(t, PhaseWon, snap.Phase)
	assert.Equal(t, 3, snap.Stars)
	assert.Equal(t, 3, snap.TotalStars)
}

func TestTickAtZeroWithAllPairsMatchedWins(t *testing.T) {
	s, _, _ := newTestSession(t)
	startLevel(t, s, 2)

	s.mu.Lock()
	s.matchedPairs = s.level.PairsCount
	s.timeRemaining = 1
	gen := s.generation
	s.mu.Unlock()

	s.tick(gen)
	snap := s.Snapshot()
	assert.Equal(t, PhaseWon, snap.Phase)
	assert.Zero(t, snap.TimeRemaining)
	assert.Equal(t, 3, snap.LevelStats[2].Stars)
}

func TestTimerLifecycle(t *testing.T) {
	s, clk, _ := newTestSession(t)

	require.True(t, s.SelectLevel(0))
	clk.Advance(5 * TickInterval)
	assert.Equal(t, 90, s.Snapshot().TimeRemaining, "no ticks while Ready")

	require.True(t, s.StartLevel())
	clk.Advance(3 * TickInterval)
	assert.Equal(t, 87, s.Snapshot().TimeRemaining)

	require.True(t, s.BackToMenu())
	snap := s.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.False(t, snap.HasLevel())
	assert.Zero(t, clk.Pending())
	clk.Advance(5 * TickInterval)
	assert.Equal(t, snap.Version, s.Snapshot().Version)

	require.True(t, s.SelectLevel(1))
	require.True(t, s.StartLevel())
	clk.Advance(2 * TickInterval)
	require.True(t, s.SelectLevel(0))
	clk.Advance(5 * TickInterval)
	assert.Equal(t, 90, s.Snapshot().TimeRemaining, "reselect stops the old countdown")
}

func TestStaleMismatchClearDoesNotTouchReplay(t *testing.T) {
	s, clk, _ := newTestSession(t)
	startLevel(t, s, 1)
	require.True(t, s.FlipCard(0))
	require.True(t, s.FlipCard(2))

	require.True(t, s.ReplayLevel())
	require.True(t, s.FlipCard(0))
	clk.Advance(MismatchDelay)
	snap := s.Snapshot()
	assert.Equal(t, []int{0}, snap.Revealed)
	assert.Zero(t, snap.Errors)
}

func TestStaleCallbackAfterResetIsIgnored(t *testing.T) {
	s, _, _ := newTestSession(t)
	startLevel(t, s, 1)
	require.True(t, s.FlipCard(0))
	require.True(t, s.FlipCard(2))

	s.mu.Lock()
	oldGen := s.generation
	s.mu.Unlock()

	require.True(t, s.ReplayLevel())
	require.True(t, s.FlipCard(0))
	before := s.Snapshot()

	// Simulate callbacks that fired before the reset and were waiting on the lock.
	s.clearMismatch(oldGen)
	s.tick(oldGen)
	after := s.Snapshot()
	assert.Equal(t, before, after)
}

func TestMismatchClearStillRunsAfterTimeout(t *testing.T) {
	s, clk, _ := newTestSession(t)
	startLevel(t, s, 2)
	clk.Advance(TickInterval)
	require.True(t, s.FlipCard(0))
	require.True(t, s.FlipCard(2))

	clk.Advance(TickInterval)
	require.Equal(t, PhaseTimedOut, s.Snapshot().Phase)
	clk.Advance(TickInterval)
	assert.Empty(t, s.Snapshot().Revealed)
}

func TestSubscribePublishesEveryChange(t *testing.T) {
	s, clk, _ := newTestSession(t)
	var got []Snapshot
	cancel := s.Subscribe(func(snap Snapshot) {
		got = append(got, snap)
	})

	startLevel(t, s, 0)
	clk.Advance(TickInterval)
	require.Len(t, got, 3)
	assert.Equal(t, PhaseReady, got[0].Phase)
	assert.Equal(t, PhasePlaying, got[1].Phase)
	assert.Equal(t, 89, got[2].TimeRemaining)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].Version, got[i-1].Version)
	}

	assert.False(t, s.StartLevel())
	assert.Len(t, got, 3, "ignored commands publish nothing")

	cancel()
	clk.Advance(TickInterval)
	assert.Len(t, got, 3)
}

func TestResultHandlerReceivesWin(t *testing.T) {
	var results []Result
	s, clk, _ := newTestSession(t, WithResultHandler(func(r Result) {
		results = append(results, r)
	}))
	startLevel(t, s, 0)
	clk.Advance(7 * TickInterval)
	solveOrdered(t, s)

	require.Len(t, results, 1)
	r := results[0]
	assert.True(t, r.Won())
	assert.Equal(t, 0, r.LevelIndex)
	assert.Equal(t, "Two", r.Level.Name)
	assert.Equal(t, 7, r.TimeTaken)
	assert.Equal(t, 3, r.Stars)
	assert.Equal(t, 2, r.MatchedPairs)
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _, _ := newTestSession(t)
	startLevel(t, s, 0)
	require.True(t, s.FlipCard(0))
	snap := s.Snapshot()
	snap.Deck[0] = 99
	snap.Revealed[0] = 3
	fresh := s.Snapshot()
	assert.Equal(t, 1, fresh.Deck[0])
	assert.Equal(t, []int{0}, fresh.Revealed)
}

func TestCloseIgnoresCommands(t *testing.T) {
	s, clk, _ := newTestSession(t)
	startLevel(t, s, 0)
	s.Close()
	assert.Zero(t, clk.Pending())
	assert.False(t, s.FlipCard(0))
	assert.False(t, s.BackToMenu())
	s.Close()
}
