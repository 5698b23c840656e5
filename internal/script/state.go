// Package script provides Lua-scripted shortcut actions.
//
// A chunk bound to a shortcut receives the triggering signal as its first
// argument (also available as the global "event") and its first return value
// decides whether the press counts as handled:
//
//	local ev = ...
//	shortcuts.log("saving from " .. ev.name)
//	return true
//
// The event table has the fields code, name, kind and keys (the held key
// names in table order).
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/input/scope"
)

// DefaultExecutionTimeout bounds a single action run.
const DefaultExecutionTimeout = 2 * time.Second

// ErrStateClosed is returned when operating on a closed state.
var ErrStateClosed = errors.New("lua state is closed")

// KeyInfo answers the questions a script may ask about keys.
// *shortcut.Manager satisfies it.
type KeyInfo interface {
	// KeyName returns the key name for a code, or "".
	KeyName(code int) string
	// Pressed returns the held key names in table order.
	Pressed() []string
}

// State wraps a gopher-lua state restricted to safe libraries.
//
// gopher-lua states are not goroutine-safe; the mutex serializes calls from
// Go code.
type State struct {
	L *lua.LState

	mu      sync.Mutex
	keys    KeyInfo
	logger  *slog.Logger
	timeout time.Duration
	closed  bool
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger used by shortcuts.log.
func WithLogger(l *slog.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithExecutionTimeout sets the per-action timeout.
func WithExecutionTimeout(d time.Duration) Option {
	return func(s *State) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewState creates a sandboxed Lua state. keys may be nil, in which case
// scripts see only the signal code.
func NewState(keys KeyInfo, opts ...Option) (*State, error) {
	s := &State{
		keys:    keys,
		logger:  slog.Default(),
		timeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	if err := openSafeLibraries(L); err != nil {
		L.Close()
		return nil, err
	}
	s.L = L
	s.installModule()

	return s, nil
}

// openSafeLibraries opens base, table, string and math only.
// io, os, debug and package are left closed.
func openSafeLibraries(L *lua.LState) error {
	libs := []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}
	for _, lib := range libs {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			return fmt.Errorf("opening lua library %s: %w", lib.name, err)
		}
	}

	// Base opens these; they reach the file system.
	for _, name := range []string{"dofile", "loadfile"} {
		L.SetGlobal(name, lua.LNil)
	}
	return nil
}

// installModule registers the "shortcuts" global table.
func (s *State) installModule() {
	mod := s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"log":     s.luaLog,
		"pressed": s.luaPressed,
	})
	s.L.SetGlobal("shortcuts", mod)
}

func (s *State) luaLog(L *lua.LState) int {
	msg := L.CheckString(1)
	s.logger.Info(msg, slog.String("source", "lua"))
	return 0
}

func (s *State) luaPressed(L *lua.LState) int {
	L.Push(s.pressedTable())
	return 1
}

func (s *State) pressedTable() *lua.LTable {
	tbl := s.L.NewTable()
	if s.keys == nil {
		return tbl
	}
	for i, name := range s.keys.Pressed() {
		tbl.RawSetInt(i+1, lua.LString(name))
	}
	return tbl
}

// DoString executes a Lua chunk, typically to define helper functions.
func (s *State) DoString(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	return s.withTimeout(func() error {
		return s.L.DoString(code)
	})
}

// Compile compiles a chunk into a shortcut action. The chunk is compiled
// once; each press runs it with a fresh event table.
func (s *State) Compile(name, code string) (scope.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStateClosed
	}

	fn, err := s.L.Load(strings.NewReader(code), name)
	if err != nil {
		return nil, fmt.Errorf("compiling lua action %s: %w", name, err)
	}

	return func(sig key.Signal) bool {
		handled, err := s.run(fn, sig)
		if err != nil {
			s.logger.Error("lua action failed", slog.String("action", name), slog.Any("error", err))
			return false
		}
		return handled
	}, nil
}

func (s *State) run(fn *lua.LFunction, sig key.Signal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrStateClosed
	}

	ev := s.eventTable(sig)
	s.L.SetGlobal("event", ev)

	var handled bool
	err := s.withTimeout(func() error {
		if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, ev); err != nil {
			return err
		}
		ret := s.L.Get(-1)
		s.L.Pop(1)
		handled = lua.LVAsBool(ret)
		return nil
	})
	return handled, err
}

func (s *State) eventTable(sig key.Signal) *lua.LTable {
	ev := s.L.NewTable()
	ev.RawSetString("code", lua.LNumber(sig.Code))
	ev.RawSetString("kind", lua.LString(sig.Kind.String()))
	if s.keys != nil {
		ev.RawSetString("name", lua.LString(s.keys.KeyName(sig.Code)))
	}
	ev.RawSetString("keys", s.pressedTable())
	return ev
}

// withTimeout runs fn with a context deadline installed on the state and
// recovers panics raised by the interpreter.
func (s *State) withTimeout(fn func() error) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Close releases the Lua state.
func (s *State) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.L.Close()
	return nil
}
