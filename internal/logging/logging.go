// Package logging sets up the process log sink and provides the logger
// defaults used across the system.
//
// Components receive a logrus.FieldLogger at construction and scope it once
// with WithField; a nil logger becomes a discard logger. Only the cmd package
// decides where logs go.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ginjaninja78/csv-sales-watcher/internal/config"
)

// LogDirName is the directory under the watch dir that holds relative log files.
const LogDirName = "logs"

// Discard returns a logger that discards all output.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Default returns the provided logger if non-nil, otherwise a discard logger.
//
//	func NewComponent(logger logrus.FieldLogger) *Component {
//	    logger = logging.Default(logger)
//	    return &Component{logger: logger.WithField("component", "name")}
//	}
func Default(logger logrus.FieldLogger) logrus.FieldLogger {
	if logger != nil {
		return logger
	}
	return Discard()
}

// LogFilePath resolves the log file location. Relative names live in
// <watchDir>/logs; absolute paths are used as given.
func LogFilePath(watchDir, logFile string) string {
	if filepath.IsAbs(logFile) {
		return logFile
	}
	return filepath.Join(watchDir, LogDirName, logFile)
}

// Setup opens the configured log sink and returns a logger writing to it.
// The returned closer releases the log file. With verbose set, output is also
// written to stderr and the level is lowered to debug.
func Setup(cfg *config.Config, verbose bool) (*logrus.Logger, io.Closer, error) {
	path := LogFilePath(cfg.WatchDir, cfg.LogFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := logrus.New()
	if verbose {
		logger.SetOutput(io.MultiWriter(file, os.Stderr))
	} else {
		logger.SetOutput(file)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: true,
		})
	}

	return logger, file, nil
}
