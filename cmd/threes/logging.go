package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-threes/internal/config"
)

// newLogger creates a logger at the configured level.
// An unknown level falls back to info.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// openLogFile opens threes.log beside the database. The terminal belongs to
// the game while it runs, so play logs go to a file.
func openLogFile() (*os.File, error) {
	dir := filepath.Dir(config.ExpandHome(cfg.Storage.DBPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "threes.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
