package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds overrides read from the process environment.
type Env struct {
	ConfigPath string `env:"MEMOMATCH_CONFIG"`
	DBPath     string `env:"MEMOMATCH_DB"`
	LogLevel   string `env:"MEMOMATCH_LOG_LEVEL"`
	LogFile    string `env:"MEMOMATCH_LOG_FILE"`
}

// ParseEnv populates target from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadEnv reads the memomatch environment overrides.
func LoadEnv() (Env, error) {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return Env{}, err
	}
	return e, nil
}

// ConfigPathOr returns the env override or fallback.
func (e Env) ConfigPathOr(fallback string) string {
	return firstNonEmpty(e.ConfigPath, fallback)
}

// DBPathOr returns the env override or fallback.
func (e Env) DBPathOr(fallback string) string {
	return firstNonEmpty(e.DBPath, fallback)
}

// LogFileOr returns the env override or fallback.
func (e Env) LogFileOr(fallback string) string {
	return firstNonEmpty(e.LogFile, fallback)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
