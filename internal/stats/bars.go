package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/memomatch/internal/model"
)

const (
	barFull    = "█"
	barEmpty   = "░"
	minBarLen  = 10
	colorGold  = "\x1b[33m"
	colorGray  = "\x1b[90m"
	colorReset = "\x1b[0m"
)

// RenderStarBars draws one bar per level: win rate as bar length, best stars
// as suffix. totalWidth bounds each line.
func RenderStarBars(w io.Writer, levels []model.LevelAggregate, totalWidth int, useColor bool) error {
	if len(levels) == 0 {
		return nil
	}
	labelWidth := 0
	for _, lvl := range levels {
		labelWidth = max(labelWidth, runewidth.StringWidth(lvl.LevelName))
	}
	// label + " " + bar + " " + "100% ★★★"
	barLen := max(totalWidth-labelWidth-len(" ")-len(" 100% ")-3, minBarLen)

	if _, err := fmt.Fprintln(w, "Win rate by level"); err != nil {
		return err
	}
	for _, lvl := range levels {
		filled := int(lvl.WinRate()*float64(barLen) + 0.5)
		bar := strings.Repeat(barFull, filled)
		rest := strings.Repeat(barEmpty, barLen-filled)
		stars := StarString(lvl.BestStars, 3)
		if useColor {
			bar = colorGold + bar + colorReset
			rest = colorGray + rest + colorReset
		}
		label := runewidth.FillRight(lvl.LevelName, labelWidth)
		if _, err := fmt.Fprintf(w, "%s %s%s %3.0f%% %s\n", label, bar, rest, lvl.WinRate()*100, stars); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
