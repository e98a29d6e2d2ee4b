// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play PlayConfig `toml:"play"`
	Log  LogConfig  `toml:"log"`
}

// PlayConfig maps play-related settings.
type PlayConfig struct {
	Level   *string `toml:"level"`
	Seed    *int64  `toml:"seed"`
	Catalog *string `toml:"catalog"`
	Faces   *string `toml:"faces"`
	History *bool   `toml:"history"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Template is written by `memomatch config` when no file exists yet.
const Template = `# memomatch configuration

[play]
# Level to open directly, by name (e.g. "3 Pairs"). Empty opens the title screen.
# level = "2 Pairs"

# Fixed shuffle seed; 0 means random.
# seed = 0

# Level catalog (YAML). Defaults to levels.yaml next to this file when present.
# catalog = ""

# Face labels, one per line. Defaults to faces.txt next to this file when present.
# faces = ""

# Record finished attempts in the history database.
# history = true

[log]
# debug, info, warn or error
# level = "info"
`
