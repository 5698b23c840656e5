// Package config loads the application configuration.
//
// Files are read in order, later files overriding earlier ones:
//
//	$XDG_CONFIG_HOME/shortcuts/config.toml
//	./shortcuts.toml
//
// An explicit path replaces both. Command-line overrides are applied last.
//
//	keymap = "~/.config/shortcuts/keys.toml"
//	guard = "literal"
//	watch = true
//	debounce = "150ms"
//	scripting = true
//
//	[log]
//	level = "debug"
//	sink = "file"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/dshills/shortcuts/internal/input/resolver"
	"github.com/dshills/shortcuts/internal/logging"
)

const (
	// AppName names the XDG config directory.
	AppName = "shortcuts"

	// FileName is the config file name in the XDG config directory.
	FileName = "config.toml"

	// LocalFileName is the config file read from the working directory.
	LocalFileName = "shortcuts.toml"
)

// ErrFileNotFound indicates an explicitly requested config file is missing.
var ErrFileNotFound = errors.New("config file not found")

// ErrInvalidGuard indicates an unknown guard name.
var ErrInvalidGuard = errors.New("invalid guard")

// Config is the application configuration.
type Config struct {
	// Keymap is a TOML or JSON keymap file. Empty uses the built-in keymap.
	Keymap string `koanf:"keymap"`

	// Guard selects the native-shortcut guard: "literal" or "grouped".
	Guard string `koanf:"guard"`

	// Watch reloads the keymap file when it changes.
	Watch bool `koanf:"watch"`

	// Debounce coalesces bursts of keymap file writes.
	Debounce time.Duration `koanf:"debounce"`

	// Scripting enables inline Lua bindings.
	Scripting bool `koanf:"scripting"`

	Log logging.Config `koanf:"log"`

	// Sources lists the files that were actually loaded.
	Sources []string `koanf:"-"`
}

// Default returns the configuration used when no file sets a value.
func Default() *Config {
	return &Config{
		Guard:     "literal",
		Watch:     true,
		Debounce:  150 * time.Millisecond,
		Scripting: true,
	}
}

// Options controls Load.
type Options struct {
	// Path is an explicit config file. It must exist.
	Path string

	// SearchPaths replaces Paths() when Path is empty.
	SearchPaths []string

	// Overrides are applied after all files, keyed by dotted path
	// such as "guard" or "log.level".
	Overrides map[string]any
}

// Load reads the config files and applies overrides.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	paths := opts.SearchPaths
	if paths == nil {
		paths = Paths()
	}
	if opts.Path != "" {
		path := expandPath(opts.Path)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		paths = []string{path}
	}

	var sources []string
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
		sources = append(sources, path)
	}

	for key, value := range opts.Overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("applying override %s: %w", key, err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Sources = sources

	if cfg.Keymap != "" {
		cfg.Keymap = expandPath(cfg.Keymap)
	}
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if _, ok := resolver.GuardByName(c.Guard); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidGuard, c.Guard)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce: must not be negative, got %s", c.Debounce)
	}
	return c.Log.Validate()
}

// GuardFunc returns the configured guard.
func (c *Config) GuardFunc() resolver.Guard {
	g, _ := resolver.GuardByName(c.Guard)
	return g
}

// Paths returns the default config file locations, lowest priority first.
func Paths() []string {
	return []string{
		filepath.Join(xdg.ConfigHome, AppName, FileName),
		LocalFileName,
	}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
