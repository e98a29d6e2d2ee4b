// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appDir = "memomatch"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	return xdgHome("XDG_CONFIG_HOME", ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	return xdgHome("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// XDGStateHome returns the XDG state home or a default fallback.
func XDGStateHome() string {
	return xdgHome("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgHome(envVar, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, fallback)
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "config.toml")
}

// DefaultCatalogPath returns the path of the optional level catalog override.
func DefaultCatalogPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "levels.yaml")
}

// DefaultFacesPath returns the path of the optional face set.
func DefaultFacesPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "faces.txt")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appDir, "memomatch.db")
}

// DefaultLogPath returns the log file used while the game owns the terminal.
func DefaultLogPath() string {
	return filepath.Join(XDGStateHome(), appDir, "memomatch.log")
}
