package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/memomatch/internal/catalog"
	"github.com/verte-zerg/memomatch/internal/config"
	"github.com/verte-zerg/memomatch/internal/deck"
	"github.com/verte-zerg/memomatch/internal/faces"
	"github.com/verte-zerg/memomatch/internal/game"
	"github.com/verte-zerg/memomatch/internal/logging"
	"github.com/verte-zerg/memomatch/internal/model"
	"github.com/verte-zerg/memomatch/internal/stats"
	"github.com/verte-zerg/memomatch/internal/store"
	"github.com/verte-zerg/memomatch/internal/tui"
)

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(env.ConfigPathOr(config.DefaultConfigPath()))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := resolvePlayConfig(cmd, env, fileCfg)

	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			// Best-effort log file close.
			_ = cerr
		}
	}()
	logger, err := logging.New(logFile, cfg.LogLevel)
	if err != nil {
		return err
	}

	cat, loaded, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	logger.Debug("catalog ready", "levels", cat.Len(), "from_file", loaded)

	set, err := loadFaces(cfg.FacesPath, cat.MaxPairs())
	if err != nil {
		return err
	}

	opts := []game.Option{
		game.WithLogger(logger),
		game.WithDealer(newDealer(cfg.Seed)),
	}

	var best map[string]int
	var recorder *store.Recorder
	if cfg.History {
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
		best, err = st.BestStars(context.Background())
		if err != nil {
			logger.Warn("failed to load best stars", "err", err)
		}
		recorder = store.NewRecorder(st, logger)
		defer recorder.Close()
		opts = append(opts, game.WithResultHandler(recorder.Record))
		logger.Info("play session started", "session", recorder.SessionID())
	}

	session := game.New(cat, opts...)
	if cfg.Level != "" {
		idx, ok := cat.IndexOf(cfg.Level)
		if !ok {
			session.Close()
			return unknownLevelError(cfg.Level, cat.Levels())
		}
		session.SelectLevel(idx)
	}

	m := tui.NewModel(session, cat.Levels(), tui.Options{Faces: set, BestStars: best})
	program := tea.NewProgram(m, tea.WithAltScreen())
	unsubscribe := session.Subscribe(tui.Notify(program.Send))
	_, runErr := program.Run()
	unsubscribe()
	session.Close()
	if recorder != nil {
		recorder.Close()
	}
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}

	snap := session.Snapshot()
	logSessionEnd(logger, snap, recorder)
	return stats.RenderSessionSummary(cmd.OutOrStdout(), cat.Levels(), snap)
}

// resolvePlayConfig merges flags, environment and config file. Explicit flags
// win over the file; environment only supplies paths and the log level.
func resolvePlayConfig(cmd *cobra.Command, env config.Env, fileCfg config.FileConfig) model.Config {
	applyStringConfig(cmd, "level", &playLevel, fileCfg.Play.Level)
	applyInt64Config(cmd, "seed", &playSeed, fileCfg.Play.Seed)
	applyStringConfig(cmd, "catalog", &playCatalog, fileCfg.Play.Catalog)
	applyStringConfig(cmd, "faces", &playFaces, fileCfg.Play.Faces)
	applyBoolConfig(cmd, "history", &playHistory, fileCfg.Play.History)

	return model.Config{
		Level:       strings.TrimSpace(playLevel),
		Seed:        playSeed,
		CatalogPath: playCatalog,
		FacesPath:   playFaces,
		History:     playHistory,
		DBPath:      env.DBPathOr(config.DefaultDBPath()),
		LogLevel:    resolveLogLevel(cmd, env, fileCfg.Log),
		LogFile:     env.LogFileOr(config.DefaultLogPath()),
	}
}

// loadFaces returns the labels at path, the default faces file when it
// exists, or numeric labels. The set must cover maxPairs values.
func loadFaces(path string, maxPairs int) (faces.Set, error) {
	set := faces.Numeric()
	switch {
	case path != "":
		loaded, err := faces.Load(path)
		if err != nil {
			return faces.Set{}, err
		}
		set = loaded
	default:
		def := config.DefaultFacesPath()
		if _, err := os.Stat(def); err == nil {
			loaded, err := faces.Load(def)
			if err != nil {
				return faces.Set{}, err
			}
			set = loaded
		}
	}
	if !set.Covers(maxPairs) {
		return faces.Set{}, fmt.Errorf("faces file has %d labels; the catalog needs %d", set.Len(), maxPairs)
	}
	return set, nil
}

func newDealer(seed int64) game.Dealer {
	if seed != 0 {
		return deck.NewWithSeed(seed)
	}
	return deck.New()
}

func unknownLevelError(name string, levels []catalog.LevelDefinition) error {
	names := make([]string, 0, len(levels))
	for _, lvl := range levels {
		names = append(names, fmt.Sprintf("%q", lvl.Name))
	}
	return fmt.Errorf("unknown level %q (available: %s)", name, strings.Join(names, ", "))
}

func logSessionEnd(logger *log.Logger, snap game.Snapshot, recorder *store.Recorder) {
	fields := []any{"total_stars", snap.TotalStars, "levels_won", len(snap.LevelStats)}
	if recorder != nil {
		fields = append(fields, "session", recorder.SessionID(), "saved", recorder.Saved())
	}
	logger.Info("play session ended", fields...)
}
