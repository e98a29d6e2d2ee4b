// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/memomatch/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a list of attempts.
type Summary struct {
	Attempts   int
	Wins       int
	TimedOut   int
	BestStars  int
	AvgErrors  float64
	AvgWinTime float64
	BestStreak int
	FirstAt    time.Time
	LastAt     time.Time
}

// WinRate returns the share of won attempts.
func (s Summary) WinRate() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Attempts)
}

// Summarize computes totals over attempts. BestStars sums the best stars per
// level name, matching how the game totals stars.
func Summarize(attempts []model.Attempt) Summary {
	var sum Summary
	if len(attempts) == 0 {
		return sum
	}
	best := map[string]int{}
	var errSum, winTimeSum, streak int
	for _, a := range attempts {
		sum.Attempts++
		errSum += a.Errors
		if a.Won() {
			sum.Wins++
			winTimeSum += a.TimeTaken
			streak++
			if streak > sum.BestStreak {
				sum.BestStreak = streak
			}
			if a.Stars > best[a.LevelName] {
				best[a.LevelName] = a.Stars
			}
		} else {
			sum.TimedOut++
			streak = 0
		}
		if sum.FirstAt.IsZero() || a.EndedAt.Before(sum.FirstAt) {
			sum.FirstAt = a.EndedAt
		}
		if a.EndedAt.After(sum.LastAt) {
			sum.LastAt = a.EndedAt
		}
	}
	for _, stars := range best {
		sum.BestStars += stars
	}
	sum.AvgErrors = float64(errSum) / float64(sum.Attempts)
	if sum.Wins > 0 {
		sum.AvgWinTime = float64(winTimeSum) / float64(sum.Wins)
	}
	return sum
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - minVal) / (maxVal - minVal) * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints totals for the attempts.
func RenderSummary(w io.Writer, sum Summary) error {
	if sum.Attempts == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d (%d won, %d timed out)", sum.Attempts, sum.Wins, sum.TimedOut),
		fmt.Sprintf("Win rate: %.1f%%", sum.WinRate()*100),
		fmt.Sprintf("Best stars: %d", sum.BestStars),
		fmt.Sprintf("Avg errors: %.2f", sum.AvgErrors),
		fmt.Sprintf("Avg win time: %.1fs", sum.AvgWinTime),
		fmt.Sprintf("Best win streak: %d", sum.BestStreak),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderLevelTable prints per-level aggregates.
func RenderLevelTable(w io.Writer, levels []model.LevelAggregate) error {
	if len(levels) == 0 {
		_, err := fmt.Fprintln(w, "No level stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Levels"); err != nil {
		return err
	}
	headers := []string{"Level", "Pairs", "Played", "Won", "Win %", "Best", "Best Time", "Fewest Errors"}
	rows := make([][]string, 0, len(levels))
	for _, lvl := range levels {
		bestTime, fewest := "-", "-"
		if lvl.Wins > 0 {
			bestTime = fmt.Sprintf("%ds", lvl.BestTime)
			fewest = fmt.Sprintf("%d", lvl.BestErrors)
		}
		rows = append(rows, []string{
			lvl.LevelName,
			fmt.Sprintf("%d", lvl.Pairs),
			fmt.Sprintf("%d", lvl.Attempts),
			fmt.Sprintf("%d", lvl.Wins),
			fmt.Sprintf("%.0f%%", lvl.WinRate()*100),
			StarString(lvl.BestStars, 3),
			bestTime,
			fewest,
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 6: true, 7: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTrends prints moving-average sparklines of errors and win time.
func RenderTrends(w io.Writer, attempts []model.Attempt, window int) error {
	if len(attempts) < 2 {
		return nil
	}
	errs := make([]float64, 0, len(attempts))
	times := make([]float64, 0, len(attempts))
	for _, a := range attempts {
		errs = append(errs, float64(a.Errors))
		if a.Won() {
			times = append(times, float64(a.TimeTaken))
		}
	}
	if _, err := fmt.Fprintf(w, "Trends (window %d)\n", max(window, 1)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Errors    |%s|\n", Sparkline(MovingAverage(errs, window))); err != nil {
		return err
	}
	if len(times) > 1 {
		if _, err := fmt.Fprintf(w, "Win time  |%s|\n", Sparkline(MovingAverage(times, window))); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderHistory prints one line per attempt, oldest first.
func RenderHistory(w io.Writer, attempts []model.Attempt) error {
	if len(attempts) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "History"); err != nil {
		return err
	}
	rows := HistoryRows(attempts)
	rightAlign := map[int]bool{3: true, 4: true}
	for _, line := range formatTable(HistoryHeaders, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// HistoryHeaders are the column titles of HistoryRows.
var HistoryHeaders = []string{"Ended", "Level", "Outcome", "Errors", "Time", "Stars"}

// HistoryRows formats attempts as table cells.
func HistoryRows(attempts []model.Attempt) [][]string {
	rows := make([][]string, 0, len(attempts))
	for _, a := range attempts {
		outcome := "won"
		if !a.Won() {
			outcome = "time up"
		}
		rows = append(rows, []string{
			a.EndedAt.Local().Format("2006-01-02 15:04"),
			a.LevelName,
			outcome,
			fmt.Sprintf("%d", a.Errors),
			fmt.Sprintf("%ds", a.TimeTaken),
			StarString(a.Stars, 3),
		})
	}
	return rows
}

// StarString renders n filled stars out of total.
func StarString(n, total int) string {
	n = max(0, min(n, total))
	return strings.Repeat("★", n) + strings.Repeat("☆", total-n)
}
