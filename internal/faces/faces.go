// Package faces maps card values to the labels drawn on the board.
package faces

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// MaxLabelWidth bounds the display width of a label so every card cell keeps
// the same size.
const MaxLabelWidth = 6

// Set is an ordered list of labels. Card value v (1-based) uses label v-1.
type Set struct {
	labels []string
}

// Numeric returns the default set: values are drawn as numbers.
func Numeric() Set {
	return Set{}
}

// New builds a set from labels.
func New(labels []string) (Set, error) {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for i, label := range labels {
		if !utf8.ValidString(label) {
			return Set{}, fmt.Errorf("label %d is not valid utf-8", i+1)
		}
		if w := runewidth.StringWidth(label); w > MaxLabelWidth {
			return Set{}, fmt.Errorf("label %q is %d cells wide (max %d)", label, w, MaxLabelWidth)
		}
		if _, ok := seen[label]; ok {
			return Set{}, fmt.Errorf("duplicate label %q", label)
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	if len(out) == 0 {
		return Set{}, fmt.Errorf("face set is empty")
	}
	return Set{labels: out}, nil
}

// Load reads one label per line from path. Blank lines and lines starting
// with '#' are skipped.
func Load(path string) (Set, error) {
	file, err := os.Open(path)
	if err != nil {
		return Set{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only face file.
			_ = cerr
		}
	}()

	var labels []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return Set{}, err
	}
	set, err := New(labels)
	if err != nil {
		return Set{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Numeric reports whether the set draws plain numbers.
func (s Set) Numeric() bool {
	return len(s.labels) == 0
}

// Len returns the number of labels; zero for the numeric set.
func (s Set) Len() int {
	return len(s.labels)
}

// Covers reports whether the set has a label for every value of a deck with
// the given number of pairs.
func (s Set) Covers(pairs int) bool {
	return s.Numeric() || len(s.labels) >= pairs
}

// Label returns the label for card value v. Values without a label fall back
// to their number.
func (s Set) Label(v int) string {
	if v >= 1 && v <= len(s.labels) {
		return s.labels[v-1]
	}
	return strconv.Itoa(v)
}

// Width returns the widest label needed for a deck with the given pairs.
func (s Set) Width(pairs int) int {
	width := 1
	for v := 1; v <= pairs; v++ {
		if w := runewidth.StringWidth(s.Label(v)); w > width {
			width = w
		}
	}
	return width
}
