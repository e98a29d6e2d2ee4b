// Package main provides the CLI entrypoint for memomatch.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/memomatch/internal/catalog"
	"github.com/verte-zerg/memomatch/internal/config"
	"github.com/verte-zerg/memomatch/internal/logging"
	"github.com/verte-zerg/memomatch/internal/model"
	"github.com/verte-zerg/memomatch/internal/stats"
	"github.com/verte-zerg/memomatch/internal/statsui"
	"github.com/verte-zerg/memomatch/internal/store"
)

const defaultCurveWindow = 20

var (
	playLevel    string
	playSeed     int64
	playCatalog  string
	playFaces    string
	playHistory  bool
	playLogLevel string

	levelsCatalog string
	levelsYAML    bool

	statsLevel       string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "memomatch",
		Short:         "Terminal memory card game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playLevel, "level", "", "open a level directly by name (e.g. \"3 Pairs\")")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "shuffle seed; 0 means random")
	rootCmd.Flags().StringVar(&playCatalog, "catalog", "", "level catalog YAML file")
	rootCmd.Flags().StringVar(&playFaces, "faces", "", "face labels file, one label per line")
	rootCmd.Flags().BoolVar(&playHistory, "history", true, "record finished attempts")
	rootCmd.PersistentFlags().StringVar(&playLogLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLevelsCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	path := env.ConfigPathOr(config.DefaultConfigPath())
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template when path does not exist.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newLevelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List levels in the catalog",
		Args:  cobra.NoArgs,
		RunE:  runLevelsCmd,
	}
	cmd.Flags().StringVar(&levelsCatalog, "catalog", "", "level catalog YAML file")
	cmd.Flags().BoolVar(&levelsYAML, "yaml", false, "print the catalog as YAML (a starting point for a custom catalog)")
	return cmd
}

func runLevelsCmd(cmd *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(env.ConfigPathOr(config.DefaultConfigPath()))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "catalog", &levelsCatalog, fileCfg.Play.Catalog)

	cat, _, err := loadCatalog(levelsCatalog)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if levelsYAML {
		data, err := catalog.Marshal(cat)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	for _, line := range levelLines(cat.Levels()) {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// levelLines formats the catalog as aligned columns, one level per line.
func levelLines(levels []catalog.LevelDefinition) []string {
	rows := make([][]string, 0, len(levels)+1)
	rows = append(rows, []string{"#", "Name", "Pairs", "Time", "Max errors"})
	for i, lvl := range levels {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			lvl.Label(),
			strconv.Itoa(lvl.PairsCount),
			fmt.Sprintf("%ds", lvl.TimeLimit),
			strconv.Itoa(lvl.MaxErrors),
		})
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
	return lines
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLevel, "level", "", "level name filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N attempts")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain-text report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildStatsConfig(statsLevel, statsSince, statsLast, statsCurveWindow)
	if err != nil {
		return err
	}

	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	st, err := store.Open(env.DBPathOr(config.DefaultDBPath()))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		return report.Render(cmd.OutOrStdout(), cfg.CurveWindow)
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func buildStatsConfig(level, since string, last, window int) (model.StatsConfig, error) {
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if window <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	var sinceTime *time.Time
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	return model.StatsConfig{
		Level:       strings.TrimSpace(level),
		Since:       sinceTime,
		Last:        last,
		CurveWindow: window,
	}, nil
}

func loadCatalog(path string) (*catalog.Catalog, bool, error) {
	if path != "" {
		cat, err := catalog.LoadFile(path)
		if err != nil {
			return nil, false, err
		}
		return cat, true, nil
	}
	return catalog.LoadOrDefault(config.DefaultCatalogPath())
}

// resolveLogLevel picks the first non-empty of flag, env and file values.
func resolveLogLevel(cmd *cobra.Command, env config.Env, file config.LogConfig) string {
	if cmd.Flags().Changed("log-level") {
		return playLogLevel
	}
	if env.LogLevel != "" {
		return env.LogLevel
	}
	if file.Level != nil {
		return *file.Level
	}
	return logging.DefaultLevel
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
