package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/memomatch/internal/catalog"
	"github.com/verte-zerg/memomatch/internal/game"
)

// RenderSessionSummary prints the stars earned during one play session, one
// row per level that was won.
func RenderSessionSummary(w io.Writer, levels []catalog.LevelDefinition, snap game.Snapshot) error {
	if len(snap.LevelStats) == 0 {
		_, err := fmt.Fprintln(w, "No levels completed this session.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Total Stars Earned: %d\n\n", snap.TotalStars); err != nil {
		return err
	}
	headers := []string{"Level", "Stars", "Errors", "Time"}
	rows := make([][]string, 0, len(snap.LevelStats))
	for i, lvl := range levels {
		rec, ok := snap.LevelStats[i]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			lvl.Label(),
			StarString(rec.Stars, game.MaxStars),
			fmt.Sprintf("%d", rec.Errors),
			fmt.Sprintf("%ds", rec.TimeTaken),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
