package main

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/npratt/flick/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DebugLogName is the rotating log file written while the TUI owns the
// terminal.
const DebugLogName = "flick-debug.log"

// TUILoggerResult contains the results of setting up logging for TUI mode.
type TUILoggerResult struct {
	Logger   *slog.Logger
	LogFile  io.WriteCloser
	FilePath string
}

// Close closes the log file if it was opened.
func (r *TUILoggerResult) Close() error {
	if r.LogFile != nil {
		return r.LogFile.Close()
	}
	return nil
}

// SetupTUILogger creates a logger that writes to a rotating file in logDir,
// keeping stderr clear while the TUI is drawn.
func SetupTUILogger(logDir string, level slog.Leveler, rotationCfg config.LogRotationConfig) (*TUILoggerResult, error) {
	path := filepath.Join(logDir, DebugLogName)

	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotationCfg.MaxSizeMB,
		MaxBackups: rotationCfg.MaxBackups,
		MaxAge:     rotationCfg.MaxAgeDays,
		Compress:   rotationCfg.Compress,
	}

	return &TUILoggerResult{
		Logger:   SetupTUILoggerWithWriter(w, level),
		LogFile:  w,
		FilePath: path,
	}, nil
}

// SetupTUILoggerWithWriter creates a logger that writes to the given writer.
func SetupTUILoggerWithWriter(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
