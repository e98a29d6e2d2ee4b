package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/memomatch/internal/faces"
	"github.com/verte-zerg/memomatch/internal/game"
)

const hiddenFace = "?"

// gridColumns picks a column count that keeps the board close to square,
// preferring four columns for small decks.
func gridColumns(cards int) int {
	if cards <= 0 {
		return 1
	}
	if cards <= 8 {
		return min(cards, 4)
	}
	return int(math.Ceil(math.Sqrt(float64(cards))))
}

// moveCursor moves within a grid of n cards with cols columns. Moves off the
// edge wrap to the opposite side of the same row or column.
func moveCursor(cursor, n, cols, dx, dy int) int {
	if n <= 0 || cols <= 0 {
		return 0
	}
	rows := (n + cols - 1) / cols
	row, col := cursor/cols, cursor%cols
	if dx != 0 {
		rowLen := min(cols, n-row*cols)
		col = (col + dx + rowLen) % rowLen
	}
	if dy != 0 {
		for {
			row = (row + dy + rows) % rows
			if row*cols+col < n {
				break
			}
		}
	}
	return row*cols + col
}

func renderBoard(snap game.Snapshot, set faces.Set, cursor int) string {
	cards := snap.Cards()
	if len(cards) == 0 {
		return ""
	}
	cols := gridColumns(len(cards))
	cellWidth := set.Width(snap.Level.PairsCount) + 2

	var rows []string
	for start := 0; start < len(cards); start += cols {
		end := min(start+cols, len(cards))
		cells := make([]string, 0, end-start)
		for _, card := range cards[start:end] {
			cells = append(cells, renderCard(card, set, cellWidth, card.Index == cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

func renderCard(card game.Card, set faces.Set, width int, selected bool) string {
	face := hiddenFace
	style := hiddenCardStyle
	switch {
	case card.Matched:
		face = set.Label(card.Value)
		style = matchedCardStyle
	case card.Revealed:
		face = set.Label(card.Value)
		style = revealedCardStyle
	}
	if selected {
		style = style.BorderForeground(cursorColor)
	}
	return style.Render(centerCell(face, width))
}

func centerCell(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
