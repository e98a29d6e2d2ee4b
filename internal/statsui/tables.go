package statsui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/memomatch/internal/model"
	"github.com/verte-zerg/memomatch/internal/stats"
)

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func levelColumns() []table.Column {
	return []table.Column{
		{Title: "Level", Width: 14},
		{Title: "Pairs", Width: 5},
		{Title: "Played", Width: 6},
		{Title: "Won", Width: 5},
		{Title: "Win %", Width: 6},
		{Title: "Best", Width: 5},
		{Title: "Best Time", Width: 9},
		{Title: "Fewest Errors", Width: 13},
		{Title: "Last Played", Width: 16},
	}
}

func levelRows(levels []model.LevelAggregate) []table.Row {
	rows := make([]table.Row, 0, len(levels))
	for _, lvl := range levels {
		bestTime, fewest := "-", "-"
		if lvl.Wins > 0 {
			bestTime = fmt.Sprintf("%ds", lvl.BestTime)
			fewest = fmt.Sprintf("%d", lvl.BestErrors)
		}
		rows = append(rows, table.Row{
			lvl.LevelName,
			fmt.Sprintf("%d", lvl.Pairs),
			fmt.Sprintf("%d", lvl.Attempts),
			fmt.Sprintf("%d", lvl.Wins),
			fmt.Sprintf("%.0f%%", lvl.WinRate()*100),
			stats.StarString(lvl.BestStars, 3),
			bestTime,
			fewest,
			lvl.LastPlayed.Local().Format("2006-01-02 15:04"),
		})
	}
	return rows
}

func historyColumns() []table.Column {
	widths := []int{16, 14, 8, 6, 5, 5}
	cols := make([]table.Column, len(stats.HistoryHeaders))
	for i, title := range stats.HistoryHeaders {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	return cols
}

func historyRows(attempts []model.Attempt) []table.Row {
	cells := stats.HistoryRows(attempts)
	rows := make([]table.Row, len(cells))
	for i, row := range cells {
		rows[i] = table.Row(row)
	}
	return rows
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
