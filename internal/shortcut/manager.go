// Package shortcut is the binding API hosts use to register chorded
// shortcuts and to feed key signals in.
//
// A Manager owns the key table, the pressed-key state, the scope stack and
// the resolver for one session:
//
//	m := shortcut.New()
//	m.Bind("ctrl+s", func(sig key.Signal) bool {
//	    save()
//	    return true
//	})
//	if err := m.Start(host); err != nil {
//	    return err
//	}
//
// A Manager is not safe for concurrent use. The host must deliver signals
// one at a time; actions run on the delivering goroutine and may call back
// into the Manager (for example to push a scope).
package shortcut

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/input/keystate"
	"github.com/dshills/shortcuts/internal/input/resolver"
	"github.com/dshills/shortcuts/internal/input/scope"
)

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("shortcut manager already started")

// SignalFunc receives one key transition from the host.
// The bool result is only meaningful for key-down: true means a bound action
// handled the key and the host may suppress its default behavior.
type SignalFunc func(code int, raw any) bool

// Host is the input layer that delivers key signals.
type Host interface {
	// Listen registers the handlers for key-down and key-up transitions.
	Listen(down, up SignalFunc) error
}

// Observer is notified after every resolved press.
type Observer func(resolver.Outcome)

// Manager is the context object that holds all shortcut state for a session.
type Manager struct {
	registry *key.Registry
	state    *keystate.State
	stack    *scope.Stack
	resolver *resolver.Resolver
	logger   *slog.Logger

	guard     resolver.Guard
	observers []Observer
	started   bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used by the manager and its resolver.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithGuard replaces the native-shortcut guard.
func WithGuard(g resolver.Guard) Option {
	return func(m *Manager) {
		m.guard = g
	}
}

// WithRegistry uses a custom key table instead of key.Table.
func WithRegistry(r *key.Registry) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

// New creates a manager with an empty global scope.
func New(opts ...Option) *Manager {
	m := &Manager{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = key.NewRegistry()
	}

	m.state = keystate.New(m.registry)
	m.stack = scope.NewStack()
	m.resolver = resolver.New(m.state, m.stack,
		resolver.WithLogger(m.logger),
		resolver.WithGuard(m.guard),
	)
	return m
}

// Registry returns the key registry.
func (m *Manager) Registry() *key.Registry {
	return m.registry
}

// State returns the pressed-key state.
func (m *Manager) State() *keystate.State {
	return m.state
}

// Stack returns the scope stack.
func (m *Manager) Stack() *scope.Stack {
	return m.stack
}

// KeyName returns the name of the key with the given code, or "".
func (m *Manager) KeyName(code int) string {
	k, err := m.registry.Lookup(code)
	if err != nil {
		return ""
	}
	return k.Name
}

// Pressed returns the held key names in table order.
func (m *Manager) Pressed() []string {
	return m.state.Pressed()
}

// Stats returns the resolver counters.
func (m *Manager) Stats() *resolver.Stats {
	return m.resolver.Stats()
}

// Bind binds a combo spec such as "ctrl+s" or "Ctrl + S" in the top scope.
// An existing binding for the same combo in the top scope is overwritten.
func (m *Manager) Bind(spec string, action scope.Action) {
	m.bind(key.Normalize(spec), action)
}

// BindKeys binds the combo formed by a sequence of key names, in the order
// given, in the top scope.
func (m *Manager) BindKeys(keys []string, action scope.Action) {
	m.bind(key.Normalize(keys...), action)
}

// BindAll binds each spec to the same action in the top scope.
func (m *Manager) BindAll(specs []string, action scope.Action) {
	for _, spec := range specs {
		m.Bind(spec, action)
	}
}

func (m *Manager) bind(combo string, action scope.Action) {
	if combo == "" {
		m.logger.Warn("ignoring empty shortcut binding")
		return
	}
	top := m.stack.Top()
	if replaced := m.stack.Bind(combo, action); replaced {
		m.logger.Debug("shortcut binding replaced", slog.String("combo", combo), slog.String("scope", top.Name))
	}
	if !m.registry.Reachable(combo) {
		m.logger.Warn("shortcut binding can never fire",
			slog.String("combo", combo),
			slog.String("scope", top.Name),
		)
	}
}

// Unbind removes a binding. With recursive false only the top scope is
// searched; with recursive true the binding is removed from the first scope,
// from the top down, that holds it.
// Returns true if a binding was removed.
func (m *Manager) Unbind(spec string, recursive bool) bool {
	if !recursive {
		return m.stack.Unbind(spec)
	}
	return m.stack.UnbindRecursive(spec) != nil
}

// PushScope pushes a new empty scope ahead of all others.
func (m *Manager) PushScope(name string) *scope.Scope {
	s := m.stack.Push(name)
	m.logger.Debug("shortcut scope pushed",
		slog.String("scope", name),
		slog.String("id", s.ID.String()),
		slog.Int("depth", m.stack.Depth()),
	)
	return s
}

// PopScope removes the top scope. It returns scope.ErrEmptyStack and leaves
// the stack unchanged when only the global scope remains.
func (m *Manager) PopScope() error {
	s, err := m.stack.Pop()
	if err != nil {
		return err
	}
	m.logger.Debug("shortcut scope popped",
		slog.String("scope", s.Name),
		slog.Int("depth", m.stack.Depth()),
	)
	return nil
}

// Observe registers a callback run after every resolved press.
func (m *Manager) Observe(o Observer) {
	if o != nil {
		m.observers = append(m.observers, o)
	}
}

// Start registers the manager as the consumer of the host's key signals.
func (m *Manager) Start(host Host) error {
	if m.started {
		return ErrAlreadyStarted
	}
	if host == nil {
		return fmt.Errorf("starting shortcut manager: nil host")
	}
	if err := host.Listen(m.OnKeyDown, m.OnKeyUp); err != nil {
		return fmt.Errorf("starting shortcut manager: %w", err)
	}
	m.started = true
	return nil
}

// OnKeyDown handles a key press: it marks the key held and resolves the
// current combination. Unknown codes are ignored. Returns true if a bound
// action reported the key as handled.
func (m *Manager) OnKeyDown(code int, raw any) bool {
	if _, err := m.state.Press(code); err != nil {
		m.ignoreUnknown(code, err)
		return false
	}

	out := m.resolver.Resolve(key.NewSignal(code, key.Down, raw))
	for _, o := range m.observers {
		m.notify(o, out)
	}
	return out.Kind == resolver.OutcomeFired && out.Handled
}

// OnKeyUp handles a key release. Releases never trigger resolution.
// The result is always false.
func (m *Manager) OnKeyUp(code int, raw any) bool {
	if _, err := m.state.Release(code); err != nil {
		m.ignoreUnknown(code, err)
	}
	return false
}

func (m *Manager) ignoreUnknown(code int, err error) {
	m.resolver.Stats().RecordUnknownKey()
	m.logger.Debug("ignoring key signal", slog.Int("code", code), slog.Any("error", err))
}

// notify runs an observer without letting a panic escape to the host.
func (m *Manager) notify(o Observer, out resolver.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			m.logger.Error("shortcut observer failed", slog.Any("panic", rec))
		}
	}()
	o(out)
}
