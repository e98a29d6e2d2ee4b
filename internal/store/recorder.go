package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/verte-zerg/memomatch/internal/game"
	"github.com/verte-zerg/memomatch/internal/model"
)

const (
	recordTimeout = 5 * time.Second
	queueSize     = 32
)

// Recorder writes finished attempts of one play session to the store. Its
// Record method is meant for game.WithResultHandler: it only queues the
// result, and a background goroutine performs the insert.
type Recorder struct {
	store     *Store
	sessionID string
	logger    *log.Logger
	saved     atomic.Int64

	mu     sync.Mutex
	closed bool
	queue  chan game.Result
	done   chan struct{}
}

// NewRecorder returns a recorder tagging attempts with a fresh session id.
// Close must be called to flush queued attempts.
func NewRecorder(store *Store, logger *log.Logger) *Recorder {
	r := &Recorder{
		store:     store,
		sessionID: uuid.NewString(),
		logger:    logger,
		queue:     make(chan game.Result, queueSize),
		done:      make(chan struct{}),
	}
	go r.run()
	return r
}

// SessionID returns the id shared by all attempts of this play session.
func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Saved returns the number of attempts written so far.
func (r *Recorder) Saved() int {
	return int(r.saved.Load())
}

// Record queues res for storage. Results arriving after Close are dropped.
func (r *Recorder) Record(res game.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.logger.Warn("attempt dropped: recorder closed", "level", res.Level.Name)
		return
	}
	r.queue <- res
}

// Close writes every queued attempt and stops the background writer. It is
// safe to call more than once.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		<-r.done
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()
	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)
	for res := range r.queue {
		r.save(res)
	}
}

// save stores res. Failures are logged; the game keeps running.
func (r *Recorder) save(res game.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	attempt := AttemptFromResult(r.sessionID, res)
	id, err := r.store.InsertAttempt(ctx, attempt)
	if err != nil {
		r.logger.Error("failed to save attempt", "level", attempt.LevelName, "err", err)
		return
	}
	r.saved.Add(1)
	r.logger.Debug("attempt saved", "id", id, "level", attempt.LevelName, "outcome", attempt.Outcome)
}

// AttemptFromResult converts an engine result into a history row.
func AttemptFromResult(sessionID string, res game.Result) model.Attempt {
	outcome := model.OutcomeTimedOut
	if res.Won() {
		outcome = model.OutcomeWon
	}
	return model.Attempt{
		SessionID:    sessionID,
		LevelIndex:   res.LevelIndex,
		LevelName:    res.Level.Name,
		Pairs:        res.Level.PairsCount,
		TimeLimit:    res.Level.TimeLimit,
		Outcome:      outcome,
		Errors:       res.Errors,
		MatchedPairs: res.MatchedPairs,
		TimeTaken:    res.TimeTaken,
		Stars:        res.Stars,
		StartedAt:    res.StartedAt,
		EndedAt:      res.EndedAt,
	}
}
