// Package logx provides the file-backed debug logger for pamuk.
//
// The terminal is reserved for interactive prompts and mode output, so all
// diagnostic tracing (adb invocations, parse skips, watcher events) goes to
// ~/.pamuk/pamuk.log instead. Set PAMUK_DEBUG=1 to lower the level to debug.
package logx

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New returns the pamuk file logger. If the log file cannot be opened the
// returned logger discards everything; logging is never worth failing a run.
func New() zerolog.Logger {
	path, err := defaultLogFile()
	if err != nil {
		return zerolog.Nop()
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop()
	}

	level := zerolog.InfoLevel
	if os.Getenv("PAMUK_DEBUG") != "" {
		level = zerolog.DebugLevel
	}

	return zerolog.New(file).Level(level).With().Timestamp().Logger()
}

// defaultLogFile returns ~/.pamuk/pamuk.log, creating the directory if needed.
func defaultLogFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".pamuk")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(dir, "pamuk.log"), nil
}
