package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/term"
)

var (
	once    sync.Once
	Logger  *slog.Logger
	logFile *os.File
)

type Config struct {
	// Folder receives a logs/ directory. Empty means stdout only.
	Folder string
	Debug  bool
}

// Init initializes the global logger
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		err = initLogger(cfg, os.Stdout)
	})
	return err
}

func initLogger(cfg Config, stdout *os.File) error {
	var out io.Writer = stdout

	path := ""

	if cfg.Folder != "" {
		logDir := filepath.Join(cfg.Folder, "logs")
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		today := time.Now().Format("2006-01-02")
		path = filepath.Join(logDir, fmt.Sprintf("multirouter_%s.log", today))

		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		logFile = file

		// Write to both file and stdout
		out = io.MultiWriter(stdout, file)
	}

	Logger = slog.New(newHandler(out, cfg.Debug, IsTerminal(stdout)))

	slog.SetDefault(Logger)

	if path != "" {
		Logger.Debug("logger initialized", "path", path)
	}

	return nil
}

func newHandler(w io.Writer, debug, tty bool) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if debug {
		opts.Level = slog.LevelDebug
	}

	if tty {
		return slog.NewTextHandler(w, opts)
	}

	return slog.NewJSONHandler(w, opts)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Close closes the log file handle
func Close() {
	if logFile != nil {
		logFile.Close()
	}
}

func Info(msg string, args ...any) {
	if Logger != nil {
		Logger.Info(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if Logger != nil {
		Logger.Error(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if Logger != nil {
		Logger.Warn(msg, args...)
	}
}

func Debug(msg string, args ...any) {
	if Logger != nil {
		Logger.Debug(msg, args...)
	}
}
