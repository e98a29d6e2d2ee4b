package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable lays out headers and rows as single-space separated columns,
// each as wide as its widest cell in terminal cells. Columns set in
// rightAlign are padded on the left.
func formatTable(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	all := make([][]string, 0, len(rows)+1)
	if len(headers) > 0 {
		all = append(all, headers)
	}
	all = append(all, rows...)

	widths := columnWidths(all)
	if len(widths) == 0 {
		return nil
	}
	lines := make([]string, len(all))
	cells := make([]string, len(widths))
	for i, row := range all {
		for col, width := range widths {
			var value string
			if col < len(row) {
				value = row[col]
			}
			if rightAlign[col] {
				cells[col] = runewidth.FillLeft(value, width)
			} else {
				cells[col] = runewidth.FillRight(value, width)
			}
		}
		lines[i] = strings.Join(cells, " ")
	}
	return lines
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for col, value := range row {
			if col == len(widths) {
				widths = append(widths, 0)
			}
			widths[col] = max(widths[col], runewidth.StringWidth(value))
		}
	}
	return widths
}
