// Package config reads runtime settings from an optional .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/TalalLiaquat/event-reminder/internal/adapters/storage"
)

// Defaults used when neither the environment nor .env sets a value.
const (
	DefaultDataFile   = "events.json"
	DefaultExportFile = "events_export.txt"
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds every runtime setting.
type Config struct {
	DataFile    string
	ExportFile  string
	LogLevel    slog.Level
	LogFormat   string
	SlowQueryMs int
}

// Load reads dotenvPath (if it exists) into the process environment and builds
// a Config. Variables already set in the environment win over the file.
// PRE: dotenvPath may be empty to skip the file
// POST: returns a Config with defaults applied, or an error for unreadable .env
// content or an unknown log level/format
func Load(dotenvPath string) (Config, error) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read %s: %w", dotenvPath, err)
		}
	}

	cfg := Config{
		DataFile:    envOrDefault("REMINDER_DATA_FILE", DefaultDataFile),
		ExportFile:  envOrDefault("REMINDER_EXPORT_FILE", DefaultExportFile),
		LogFormat:   strings.ToLower(envOrDefault("REMINDER_LOG_FORMAT", DefaultLogFormat)),
		SlowQueryMs: storage.SlowQueryThresholdFromEnv(),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(envOrDefault("REMINDER_LOG_LEVEL", DefaultLogLevel))); err != nil {
		return Config{}, fmt.Errorf("REMINDER_LOG_LEVEL: %w", err)
	}
	if cfg.LogFormat != LogFormatText && cfg.LogFormat != LogFormatJSON {
		return Config{}, fmt.Errorf("REMINDER_LOG_FORMAT: unknown format %q (want text or json)", cfg.LogFormat)
	}
	return cfg, nil
}

// NewLogger builds the slog logger described by cfg, writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
