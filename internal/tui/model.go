// Package tui provides the Bubble Tea memory-match interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/memomatch/internal/catalog"
	"github.com/verte-zerg/memomatch/internal/faces"
	"github.com/verte-zerg/memomatch/internal/game"
)

// Controller is the command surface the UI drives. *game.Session implements it.
type Controller interface {
	OpenLevelSelect() bool
	SelectLevel(index int) bool
	StartLevel() bool
	FlipCard(index int) bool
	ReplayLevel() bool
	BackToMenu() bool
	Snapshot() game.Snapshot
}

// SnapshotMsg carries a state change published by the session, typically
// from a timer goroutine via tea.Program.Send.
type SnapshotMsg struct {
	Snapshot game.Snapshot
}

// Notify adapts send (usually tea.Program.Send) to a session subscriber.
// Session commands issued from Update publish on the program's own goroutine,
// where a blocking Send would never be received, so delivery happens on a
// fresh goroutine. Late arrivals are dropped by Version in Update.
func Notify(send func(tea.Msg)) func(game.Snapshot) {
	return func(snap game.Snapshot) {
		go send(SnapshotMsg{Snapshot: snap})
	}
}

// Options configures the model.
type Options struct {
	Faces faces.Set
	// BestStars holds stars recorded in earlier play sessions, by level name.
	BestStars map[string]int
}

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	textStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	selectedRowStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	starStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F2D16B"))
	winStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#79E6A6"))
	loseStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4D4F"))
	warnStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))

	cursorColor       = lipgloss.Color("#C89A3A")
	cardBase          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4A4A4A"))
	hiddenCardStyle   = cardBase.Foreground(lipgloss.Color("#8C8C8C"))
	revealedCardStyle = cardBase.Bold(true).Foreground(lipgloss.Color("#5EC2FF"))
	matchedCardStyle  = cardBase.Foreground(lipgloss.Color("#79E6A6"))
)

// Model implements the Bubble Tea game UI. It holds no game state of its own
// beyond the latest snapshot and cursor positions.
type Model struct {
	ctrl   Controller
	levels []catalog.LevelDefinition
	faces  faces.Set
	best   map[string]int

	snap      game.Snapshot
	cursor    int
	menuIndex int

	width  int
	height int

	keys keyMap
	help help.Model
}

// NewModel constructs a game TUI model over ctrl.
func NewModel(ctrl Controller, levels []catalog.LevelDefinition, opts Options) *Model {
	best := make(map[string]int, len(opts.BestStars))
	for name, stars := range opts.BestStars {
		best[name] = stars
	}
	return &Model{
		ctrl:   ctrl,
		levels: levels,
		faces:  opts.Faces,
		best:   best,
		snap:   ctrl.Snapshot(),
		keys:   newKeyMap(),
		help:   help.New(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case SnapshotMsg:
		m.setSnapshot(msg.Snapshot)
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.handleKey(msg)
		m.setSnapshot(m.ctrl.Snapshot())
		return m, nil
	default:
		return m, nil
	}
}

// setSnapshot keeps the newest snapshot; versions older than the current one
// arrive late from timer goroutines and are dropped.
func (m *Model) setSnapshot(snap game.Snapshot) {
	if snap.Version < m.snap.Version {
		return
	}
	prev := m.snap
	m.snap = snap
	if snap.Phase == game.PhasePlaying && prev.Phase != game.PhasePlaying {
		m.cursor = 0
	}
	if m.cursor >= len(snap.Deck) {
		m.cursor = 0
	}
	if snap.HasLevel() {
		m.menuIndex = snap.LevelIndex
	}
	if snap.Phase == game.PhaseWon && snap.Stars > m.best[snap.Level.Name] {
		m.best[snap.Level.Name] = snap.Stars
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch m.snap.Phase {
	case game.PhaseIdle:
		switch {
		case key.Matches(msg, m.keys.Choose), key.Matches(msg, m.keys.Menu):
			m.ctrl.OpenLevelSelect()
		case key.Matches(msg, m.keys.Level):
			m.selectDigit(msg)
		}
	case game.PhaseSelecting:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.moveMenu(-1)
		case key.Matches(msg, m.keys.Down):
			m.moveMenu(1)
		case key.Matches(msg, m.keys.Choose):
			m.ctrl.SelectLevel(m.menuIndex)
		case key.Matches(msg, m.keys.Level):
			m.selectDigit(msg)
		case key.Matches(msg, m.keys.Title):
			m.ctrl.BackToMenu()
		}
	case game.PhaseReady:
		switch {
		case key.Matches(msg, m.keys.Start), key.Matches(msg, m.keys.Choose):
			m.ctrl.StartLevel()
		case key.Matches(msg, m.keys.Menu):
			m.ctrl.OpenLevelSelect()
		case key.Matches(msg, m.keys.Title):
			m.ctrl.BackToMenu()
		}
	case game.PhasePlaying:
		cols := gridColumns(len(m.snap.Deck))
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cursor = moveCursor(m.cursor, len(m.snap.Deck), cols, 0, -1)
		case key.Matches(msg, m.keys.Down):
			m.cursor = moveCursor(m.cursor, len(m.snap.Deck), cols, 0, 1)
		case key.Matches(msg, m.keys.Left):
			m.cursor = moveCursor(m.cursor, len(m.snap.Deck), cols, -1, 0)
		case key.Matches(msg, m.keys.Right):
			m.cursor = moveCursor(m.cursor, len(m.snap.Deck), cols, 1, 0)
		case key.Matches(msg, m.keys.Choose):
			m.ctrl.FlipCard(m.cursor)
		case key.Matches(msg, m.keys.Title):
			m.ctrl.BackToMenu()
		}
	case game.PhaseWon, game.PhaseTimedOut:
		switch {
		case key.Matches(msg, m.keys.Replay):
			m.ctrl.ReplayLevel()
		case key.Matches(msg, m.keys.Menu), key.Matches(msg, m.keys.Choose):
			m.ctrl.OpenLevelSelect()
		case key.Matches(msg, m.keys.Level):
			m.selectDigit(msg)
		case key.Matches(msg, m.keys.Title):
			m.ctrl.BackToMenu()
		}
	}
}

func (m *Model) selectDigit(msg tea.KeyMsg) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return
	}
	index := int(s[0] - '1')
	if index < len(m.levels) {
		m.menuIndex = index
		m.ctrl.SelectLevel(index)
	}
}

func (m *Model) moveMenu(delta int) {
	if len(m.levels) == 0 {
		return
	}
	m.menuIndex = (m.menuIndex + delta + len(m.levels)) % len(m.levels)
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	var keys phaseKeys
	switch m.snap.Phase {
	case game.PhaseIdle:
		content, keys = m.viewTitle(), keysTitle
	case game.PhaseSelecting:
		content, keys = m.viewMenu(), keysMenu
	case game.PhaseReady:
		content, keys = m.viewReady(), keysReady
	case game.PhasePlaying:
		content, keys = m.viewBoard(), keysBoard
	default:
		content, keys = m.viewFinished(), keysFinished
	}
	footer := footerStyle.Render(m.help.View(phaseHelp(m.keys.forPhase(keys))))
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) viewTitle() string {
	lines := []string{
		titleStyle.Render("Memory Match"),
		"",
		textStyle.Render("How to play"),
		mutedStyle.Render("Flip two cards per turn. Matching cards stay face-up;"),
		mutedStyle.Render("a mismatch flips back after a second and counts as an error."),
		mutedStyle.Render("Find every pair before the timer runs out."),
		mutedStyle.Render("0-2 errors earn ★★★, 3-4 earn ★★, more earn ★."),
		"",
		textStyle.Render("Press enter to choose a level."),
	}
	if total := m.snap.TotalStars; total > 0 {
		lines = append(lines, "", starStyle.Render(fmt.Sprintf("Total stars this session: %d", total)))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) viewMenu() string {
	lines := []string{titleStyle.Render("Choose a level"), ""}
	for i, lvl := range m.levels {
		marker := "  "
		style := textStyle
		if i == m.menuIndex {
			marker = "> "
			style = selectedRowStyle
		}
		name := lvl.Label()
		if lvl.Display.Color != "" {
			name = lipgloss.NewStyle().Foreground(lipgloss.Color(lvl.Display.Color)).Render(name)
		}
		row := fmt.Sprintf("%s%d. %s  %s", marker, i+1, name,
			mutedStyle.Render(fmt.Sprintf("%d cards · %s", lvl.CardCount(), formatClock(lvl.TimeLimit))))
		lines = append(lines, style.Render(row)+"  "+starStyle.Render(starString(m.levelStars(i, lvl))))
	}
	if m.menuIndex >= 0 && m.menuIndex < len(m.levels) {
		if desc := m.levels[m.menuIndex].Display.Description; desc != "" {
			lines = append(lines, "", mutedStyle.Render(desc))
		}
	}
	lines = append(lines, "", starStyle.Render(fmt.Sprintf("Total stars this session: %d", m.snap.TotalStars)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// levelStars returns the best stars known for a level: this session's
// record or one from history.
func (m *Model) levelStars(index int, lvl catalog.LevelDefinition) int {
	stars := m.best[lvl.Name]
	if rec, ok := m.snap.LevelStats[index]; ok && rec.Stars > stars {
		stars = rec.Stars
	}
	return stars
}

func (m *Model) viewReady() string {
	lvl := m.snap.Level
	lines := []string{
		titleStyle.Render(lvl.Label()),
		"",
		textStyle.Render(fmt.Sprintf("%d pairs · %d cards", lvl.PairsCount, lvl.CardCount())),
		textStyle.Render(fmt.Sprintf("Time limit %s", formatClock(lvl.TimeLimit))),
		"",
		textStyle.Render("Press s to start."),
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) viewBoard() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		m.renderHUD(),
		"",
		renderBoard(m.snap, m.faces, m.cursor),
	)
}

func (m *Model) viewFinished() string {
	var banner []string
	if m.snap.Phase == game.PhaseWon {
		banner = []string{
			winStyle.Render("Level complete!"),
			textStyle.Render(fmt.Sprintf("Time %ds · Errors %d", m.snap.TimeTaken(), m.snap.Errors)),
			starStyle.Render(starString(m.snap.Stars)),
		}
	} else {
		banner = []string{
			loseStyle.Render("Time's up!"),
			textStyle.Render(fmt.Sprintf("Found %d of %d pairs · Errors %d", m.snap.MatchedPairs, m.snap.Level.PairsCount, m.snap.Errors)),
		}
	}
	banner = append(banner,
		mutedStyle.Render(fmt.Sprintf("Total stars this session: %d", m.snap.TotalStars)),
		"",
		renderBoard(m.snap, m.faces, -1),
	)
	return lipgloss.JoinVertical(lipgloss.Center, banner...)
}

func (m *Model) renderHUD() string {
	lvl := m.snap.Level
	clock := formatClock(m.snap.TimeRemaining)
	if m.snap.TimeRemaining <= 10 {
		clock = warnStyle.Render(clock)
	}
	errs := fmt.Sprintf("Errors %d", m.snap.Errors)
	if lvl.MaxErrors > 0 {
		errs = fmt.Sprintf("Errors %d/%d", m.snap.Errors, lvl.MaxErrors)
		if m.snap.Errors > lvl.MaxErrors {
			errs = warnStyle.Render(errs)
		}
	}
	segments := []string{
		titleStyle.Render(lvl.Label()),
		"Time " + clock,
		errs,
		fmt.Sprintf("Pairs %d/%d", m.snap.MatchedPairs, lvl.PairsCount),
	}
	return strings.Join(segments, "  ")
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func starString(n int) string {
	n = max(0, min(n, game.MaxStars))
	return strings.Repeat("★", n) + strings.Repeat("☆", game.MaxStars-n)
}
