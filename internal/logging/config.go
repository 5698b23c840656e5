package logging

import (
	"fmt"
	"os"
	"strings"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Sink is where log records go.
type Sink string

const (
	SinkStderr Sink = "stderr"
	SinkFile   Sink = "file"
	SinkNone   Sink = "none"
)

// Environment variables that take precedence over the [log] section.
const (
	EnvLevel = "SHORTCUTS_LOG_LEVEL"
	EnvSink  = "SHORTCUTS_LOG_SINK"
	EnvFile  = "SHORTCUTS_LOG_FILE"
)

// Config is the [log] section of the application config. Empty fields take
// the defaults of the mode the process runs in.
//
//	[log]
//	level = "debug"
//	sink = "file"
//
//	[log.rotate]
//	max_size_mb = 5
type Config struct {
	Level     string   `koanf:"level"`
	Format    string   `koanf:"format"`
	Sink      string   `koanf:"sink"`
	File      string   `koanf:"file"`
	AddSource bool     `koanf:"add_source"`
	Rotate    Rotation `koanf:"rotate"`
}

// Rotation bounds the log file written by the file sink. Zero values keep
// the defaults.
type Rotation struct {
	MaxSizeMB  int `koanf:"max_size_mb"`
	MaxBackups int `koanf:"max_backups"`
	MaxAgeDays int `koanf:"max_age_days"`

	// Plain leaves rotated files uncompressed.
	Plain bool `koanf:"plain"`
}

// DefaultConfig returns the settings for a mode. One-shot commands only
// report warnings on stderr; the terminal demo owns the screen, so it logs
// to a file.
func DefaultConfig(mode Mode) Config {
	if mode == ModeInteractive {
		return Config{Level: "info", Format: string(FormatText), Sink: string(SinkFile)}
	}
	return Config{Level: "warn", Format: string(FormatText), Sink: string(SinkStderr)}
}

// resolve applies the environment, fills empty fields from the mode
// defaults and validates the result.
func (c Config) resolve(mode Mode) (Config, error) {
	for env, dst := range map[string]*string{EnvLevel: &c.Level, EnvSink: &c.Sink, EnvFile: &c.File} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}

	def := DefaultConfig(mode)
	fill := func(v, fallback string) string {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			return fallback
		}
		return v
	}
	c.Level = fill(c.Level, def.Level)
	c.Format = fill(c.Format, def.Format)
	c.Sink = fill(c.Sink, def.Sink)
	c.File = strings.TrimSpace(c.File)

	return c, c.Validate()
}

// Validate checks the enum fields. Empty fields are valid.
func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level: invalid %q", c.Level)
	}
	switch Format(strings.ToLower(strings.TrimSpace(c.Format))) {
	case "", FormatText, FormatJSON:
	default:
		return fmt.Errorf("log.format: invalid %q", c.Format)
	}
	switch Sink(strings.ToLower(strings.TrimSpace(c.Sink))) {
	case "", SinkStderr, SinkFile, SinkNone:
	default:
		return fmt.Errorf("log.sink: invalid %q", c.Sink)
	}
	r := c.Rotate
	if r.MaxSizeMB < 0 || r.MaxBackups < 0 || r.MaxAgeDays < 0 {
		return fmt.Errorf("log.rotate: limits must not be negative")
	}
	return nil
}
