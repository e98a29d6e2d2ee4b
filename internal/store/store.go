// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/memomatch/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store wraps SQLite access for attempt history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY,
			session_id TEXT NOT NULL,
			level_index INTEGER NOT NULL,
			level_name TEXT NOT NULL,
			pairs INTEGER NOT NULL,
			time_limit_s INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			errors INTEGER NOT NULL,
			matched_pairs INTEGER NOT NULL,
			time_taken_s INTEGER NOT NULL,
			stars INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_ended_at ON attempts(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_level_name ON attempts(level_name);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertAttempt stores a finished attempt and returns its row id.
func (s *Store) InsertAttempt(ctx context.Context, a model.Attempt) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (session_id, level_index, level_name, pairs, time_limit_s, outcome, errors, matched_pairs, time_taken_s, stars, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.SessionID,
		a.LevelIndex,
		a.LevelName,
		a.Pairs,
		a.TimeLimit,
		a.Outcome,
		a.Errors,
		a.MatchedPairs,
		a.TimeTaken,
		a.Stars,
		formatTime(a.StartedAt),
		formatTime(a.EndedAt),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAttempts returns attempts filtered by stats config, oldest first. When
// cfg.Last is set only the most recent cfg.Last attempts are returned.
func (s *Store) ListAttempts(ctx context.Context, cfg model.StatsConfig) ([]model.Attempt, error) {
	where, args := filterClause(cfg)
	limit := ""
	if cfg.Last > 0 {
		limit = "LIMIT ?"
		args = append(args, cfg.Last)
	}
	query := fmt.Sprintf(`SELECT * FROM (
		SELECT id, session_id, level_index, level_name, pairs, time_limit_s, outcome, errors, matched_pairs, time_taken_s, stars, started_at, ended_at
		FROM attempts
		WHERE %s
		ORDER BY ended_at DESC, id DESC
		%s
	) ORDER BY ended_at ASC, id ASC`, where, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		var startedAt, endedAt string
		if err := rows.Scan(&a.ID, &a.SessionID, &a.LevelIndex, &a.LevelName, &a.Pairs, &a.TimeLimit,
			&a.Outcome, &a.Errors, &a.MatchedPairs, &a.TimeTaken, &a.Stars, &startedAt, &endedAt); err != nil {
			return nil, err
		}
		if a.StartedAt, err = parseTime(startedAt); err != nil {
			return nil, err
		}
		if a.EndedAt, err = parseTime(endedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return attempts, nil
}

// ListLevelAggregates summarizes attempts per level name, ordered by pair
// count. cfg.Last is ignored.
func (s *Store) ListLevelAggregates(ctx context.Context, cfg model.StatsConfig) ([]model.LevelAggregate, error) {
	where, args := filterClause(cfg)
	query := fmt.Sprintf(`SELECT level_name, MAX(pairs), COUNT(*),
		SUM(CASE WHEN outcome = '%[2]s' THEN 1 ELSE 0 END),
		MAX(stars),
		MIN(CASE WHEN outcome = '%[2]s' THEN time_taken_s END),
		MIN(CASE WHEN outcome = '%[2]s' THEN errors END),
		MAX(ended_at)
		FROM attempts
		WHERE %[1]s
		GROUP BY level_name
		ORDER BY MAX(pairs) ASC, level_name ASC`, where, model.OutcomeWon)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.LevelAggregate
	for rows.Next() {
		var agg model.LevelAggregate
		var bestTime, bestErrors sql.NullInt64
		var lastPlayed string
		if err := rows.Scan(&agg.LevelName, &agg.Pairs, &agg.Attempts, &agg.Wins, &agg.BestStars,
			&bestTime, &bestErrors, &lastPlayed); err != nil {
			return nil, err
		}
		if bestTime.Valid {
			agg.BestTime = int(bestTime.Int64)
		}
		if bestErrors.Valid {
			agg.BestErrors = int(bestErrors.Int64)
		}
		if agg.LastPlayed, err = parseTime(lastPlayed); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// BestStars returns the highest star count ever recorded per level name.
func (s *Store) BestStars(ctx context.Context) (map[string]int, error) {
	aggs, err := s.ListLevelAggregates(ctx, model.StatsConfig{})
	if err != nil {
		return nil, err
	}
	best := make(map[string]int, len(aggs))
	for _, agg := range aggs {
		best[agg.LevelName] = agg.BestStars
	}
	return best, nil
}

func filterClause(cfg model.StatsConfig) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Level != "" {
		clauses = append(clauses, "level_name = ? COLLATE NOCASE")
		args = append(args, cfg.Level)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	return strings.Join(clauses, " AND "), args
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", v, err)
	}
	return t, nil
}
