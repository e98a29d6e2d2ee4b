package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/memomatch/internal/model"
	"github.com/verte-zerg/memomatch/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Attempts []model.Attempt
	Window   []model.Attempt
	Levels   []model.LevelAggregate
	Summary  Summary
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	attempts, err := st.ListAttempts(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	levels, err := st.ListLevelAggregates(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Attempts: attempts,
		Window:   lastAttempts(attempts, cfg.CurveWindow),
		Levels:   levels,
		Summary:  Summarize(attempts),
	}, nil
}

// Render writes the full plain-text report.
func (r Report) Render(w io.Writer, window int) error {
	if err := RenderSummary(w, r.Summary); err != nil {
		return err
	}
	if r.Summary.Attempts == 0 {
		return nil
	}
	if err := RenderLevelTable(w, r.Levels); err != nil {
		return err
	}
	if err := RenderStarBars(w, r.Levels, TerminalWidth(w), ShouldUseColor(w)); err != nil {
		return err
	}
	if err := RenderTrends(w, r.Attempts, window); err != nil {
		return err
	}
	return RenderHistory(w, r.Window)
}

func lastAttempts(attempts []model.Attempt, window int) []model.Attempt {
	if window <= 0 || len(attempts) <= window {
		return attempts
	}
	return attempts[len(attempts)-window:]
}
