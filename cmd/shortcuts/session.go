package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dshills/shortcuts/internal/config"
	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/input/keymap"
	"github.com/dshills/shortcuts/internal/input/scope"
	"github.com/dshills/shortcuts/internal/script"
	"github.com/dshills/shortcuts/internal/shortcut"
)

// ui is what the built-in actions drive. The non-interactive commands use
// nopUI.
type ui interface {
	Quit()
	Help()
	Stats()
	Status(msg string)
}

type nopUI struct{}

func (nopUI) Quit()         {}
func (nopUI) Help()         {}
func (nopUI) Stats()        {}
func (nopUI) Status(string) {}

// session owns one manager with a keymap applied to it.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	manager *shortcut.Manager
	lua     *script.State
	actions keymap.Actions

	file    *keymap.File
	applied *keymap.Applied
}

func newSession(cfg *config.Config, logger *slog.Logger, u ui) (*session, error) {
	s := &session{
		cfg:    cfg,
		logger: logger,
		manager: shortcut.New(
			shortcut.WithLogger(logger),
			shortcut.WithGuard(cfg.GuardFunc()),
		),
	}
	s.actions = builtinActions(s, u)

	if cfg.Scripting {
		ls, err := script.NewState(s.manager, script.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("starting lua: %w", err)
		}
		s.lua = ls
	}

	f, err := s.loadKeymap()
	if err != nil {
		s.Close()
		return nil, err
	}
	if err := s.apply(f); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// builtinActions are the named actions keymap files can refer to.
func builtinActions(s *session, u ui) keymap.Actions {
	return keymap.Actions{
		"app.quit": func(key.Signal) bool {
			u.Quit()
			return true
		},
		"app.help": func(key.Signal) bool {
			u.Help()
			return true
		},
		"app.stats": func(key.Signal) bool {
			u.Stats()
			return true
		},
		"app.save": func(key.Signal) bool {
			u.Status("saved (not really)")
			return true
		},
		"dialog.open": func(key.Signal) bool {
			s.openDialog(u)
			return true
		},
	}
}

// openDialog pushes a modal scope that shadows esc and enter until closed.
func (s *session) openDialog(u ui) {
	s.manager.PushScope("dialog")
	closeDialog := func(msg string) scope.Action {
		return func(key.Signal) bool {
			if err := s.manager.PopScope(); err != nil {
				s.logger.Warn("closing dialog", slog.Any("error", err))
			}
			u.Status(msg)
			return true
		}
	}
	s.manager.Bind("esc", closeDialog("dialog cancelled"))
	s.manager.Bind("enter", closeDialog("dialog confirmed"))
	u.Status("dialog open: enter confirms, esc cancels")
}

func (s *session) loadKeymap() (*keymap.File, error) {
	if s.cfg.Keymap == "" {
		return keymap.Default(), nil
	}
	return keymap.LoadFile(s.cfg.Keymap)
}

func (s *session) compiler() keymap.Compiler {
	if s.lua == nil {
		return nil
	}
	return s.lua
}

// apply binds the file's first scope into the global scope, whatever scope
// happens to be open.
func (s *session) apply(f *keymap.File) error {
	applied, err := keymap.ApplyTo(s.manager, s.manager.Stack().Base(), f, s.actions, s.compiler())
	if err != nil {
		return err
	}
	s.file, s.applied = f, applied
	return nil
}

// reload replaces the applied keymap with the file on disk. If the new file
// is invalid the old bindings stay in place.
func (s *session) reload() error {
	f, err := s.loadKeymap()
	if err != nil {
		return err
	}

	if s.applied != nil {
		if err := s.applied.Remove(s.manager); err != nil {
			return err
		}
	}

	old := s.file
	if err := s.apply(f); err != nil {
		if old != nil {
			if rerr := s.apply(old); rerr != nil {
				return errors.Join(err, rerr)
			}
		}
		return err
	}

	s.logger.Info("keymap reloaded",
		slog.String("path", f.Path),
		slog.Int("bindings", f.Len()),
	)
	return nil
}

// problems reports keymap bindings that can never fire.
func (s *session) problems() []keymap.Problem {
	return keymap.Check(s.file, s.manager.Registry(), s.actions)
}

func (s *session) Close() {
	if s.lua != nil {
		_ = s.lua.Close()
	}
}
