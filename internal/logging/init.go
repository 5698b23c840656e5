// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFileName is the log file name under the XDG state directory.
const DefaultFileName = "shortcuts.log"

// InitOptions identifies the process in every record.
type InitOptions struct {
	App     string
	Version string
	Mode    Mode
}

// Init builds a logger from cfg, the SHORTCUTS_LOG_* environment and the
// mode defaults, and installs it with slog.SetDefault. The returned function
// closes the log file, if any.
func Init(cfg Config, opts InitOptions) (*slog.Logger, func() error, error) {
	if opts.App == "" {
		opts.App = "shortcuts"
	}
	if opts.Mode == 0 {
		opts.Mode = ModeCLI
	}

	resolved, err := cfg.resolve(opts.Mode)
	if err != nil {
		return nil, nil, err
	}

	logger, closeFn, err := New(resolved, opts)
	if err != nil {
		return nil, nil, err
	}

	slog.SetDefault(logger)
	return logger, closeFn, nil
}

// New builds a logger from a config without consulting the environment.
// Empty sink and format mean stderr and text.
func New(cfg Config, opts InitOptions) (*slog.Logger, func() error, error) {
	sink := Sink(cfg.Sink)
	if sink == "" {
		sink = SinkStderr
	}

	writer, closeFn, err := resolveWriter(cfg, sink)
	if err != nil {
		return nil, nil, err
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}
	var handler slog.Handler
	switch Format(cfg.Format) {
	case FormatJSON:
		handler = slog.NewJSONHandler(writer, handlerOpts)
	default:
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	logger := slog.New(handler).With(
		slog.String("app", opts.App),
		slog.String("mode", opts.Mode.String()),
	)
	if opts.Version != "" {
		logger = logger.With(slog.String("version", opts.Version))
	}
	return logger, closeFn, nil
}

func parseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultFile returns the log path used when the file sink has no path.
func DefaultFile() string {
	return filepath.Join(xdg.StateHome, "shortcuts", DefaultFileName)
}

func resolveWriter(cfg Config, sink Sink) (io.Writer, func() error, error) {
	nop := func() error { return nil }

	switch sink {
	case SinkNone:
		return io.Discard, nop, nil
	case SinkStderr:
		return os.Stderr, nop, nil
	case SinkFile:
		path := cfg.File
		if path == "" {
			path = DefaultFile()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, fmt.Errorf("logging: creating log dir: %w", err)
		}
		rot := cfg.Rotate.writer(path)
		return rot, rot.Close, nil
	default:
		return nil, nil, fmt.Errorf("logging: unknown sink %q", sink)
	}
}

// writer returns a rotating file writer with defaults of 10MB per file,
// three backups and two weeks of history.
func (r Rotation) writer(path string) *lumberjack.Logger {
	orDefault := func(v, fallback int) int {
		if v == 0 {
			return fallback
		}
		return v
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    orDefault(r.MaxSizeMB, 10),
		MaxBackups: orDefault(r.MaxBackups, 3),
		MaxAge:     orDefault(r.MaxAgeDays, 14),
		Compress:   !r.Plain,
	}
}
