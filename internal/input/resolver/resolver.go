// Package resolver decides, on every key press, which bound action fires.
//
// For each press the resolver lists the held keys in key-table order,
// normalizes them into a combo and searches the scope stack from the top.
// The first scope holding the combo wins and its action is invoked. When no
// scope matches and two or more keys are held, the guard decides whether the
// press is left alone (a native shortcut in progress) or every held key is
// released so nothing stays stuck.
package resolver

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/input/keystate"
	"github.com/dshills/shortcuts/internal/input/scope"
)

// OutcomeKind classifies what a press resolved to.
type OutcomeKind uint8

const (
	// OutcomeFired means an action was invoked.
	OutcomeFired OutcomeKind = iota
	// OutcomeUnmatched means a single key had no binding and was left held.
	OutcomeUnmatched
	// OutcomeGuarded means the guard kept an unmatched multi-key press.
	OutcomeGuarded
	// OutcomeReset means an unmatched multi-key press released every key.
	OutcomeReset
	// OutcomeFailed means the action panicked.
	OutcomeFailed
)

// String returns a lowercase name for the outcome.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFired:
		return "fired"
	case OutcomeUnmatched:
		return "unmatched"
	case OutcomeGuarded:
		return "guarded"
	case OutcomeReset:
		return "reset"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", k)
	}
}

// Outcome describes the result of resolving one press.
type Outcome struct {
	Kind OutcomeKind

	// Combo is the canonical combo that was looked up.
	Combo string

	// Scope is the scope whose action fired, or nil.
	Scope *scope.Scope

	// Handled is the action's return value.
	Handled bool

	// Released lists the keys released by a reset.
	Released []string

	// Err is set when the action panicked.
	Err error
}

// Resolver matches key state against a scope stack.
//
// Resolver is not safe for concurrent use.
type Resolver struct {
	state  *keystate.State
	stack  *scope.Stack
	guard  Guard
	logger *slog.Logger
	stats  *Stats
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithGuard replaces the native-shortcut guard.
func WithGuard(g Guard) Option {
	return func(r *Resolver) {
		if g != nil {
			r.guard = g
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a resolver over a key state and scope stack.
func New(state *keystate.State, stack *scope.Stack, opts ...Option) *Resolver {
	r := &Resolver{
		state:  state,
		stack:  stack,
		guard:  LiteralGuard,
		logger: slog.Default(),
		stats:  newStats(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stats returns the resolver counters.
func (r *Resolver) Stats() *Stats {
	return r.stats
}

// Resolve runs one resolution pass for a press signal. The key for the
// signal must already be marked pressed.
func (r *Resolver) Resolve(sig key.Signal) Outcome {
	pressed := r.state.Pressed()
	combo := key.Normalize(pressed...)

	outcome := r.resolve(sig, pressed, combo)
	r.stats.record(outcome)

	r.logger.Debug("shortcut resolved",
		slog.String("combo", combo),
		slog.String("outcome", outcome.Kind.String()),
		slog.Int("code", sig.Code),
	)
	return outcome
}

func (r *Resolver) resolve(sig key.Signal, pressed []string, combo string) Outcome {
	if action, s, ok := r.stack.Lookup(combo); ok {
		return r.invoke(action, s, sig, combo)
	}

	if len(pressed) < 2 {
		return Outcome{Kind: OutcomeUnmatched, Combo: combo}
	}
	if r.guard(pressed) {
		return Outcome{Kind: OutcomeGuarded, Combo: combo}
	}

	released := r.state.ReleaseAll()
	return Outcome{Kind: OutcomeReset, Combo: combo, Released: released}
}

// invoke runs an action, converting a panic into an OutcomeFailed.
func (r *Resolver) invoke(action scope.Action, s *scope.Scope, sig key.Signal, combo string) (out Outcome) {
	out = Outcome{Kind: OutcomeFired, Combo: combo, Scope: s}
	start := time.Now()

	defer func() {
		r.stats.recordActionLatency(time.Since(start))
		if rec := recover(); rec != nil {
			out.Kind = OutcomeFailed
			out.Handled = false
			out.Err = fmt.Errorf("action for %q panicked: %v", combo, rec)
			r.logger.Error("shortcut action failed",
				slog.String("combo", combo),
				slog.String("scope", s.Name),
				slog.Any("panic", rec),
			)
		}
	}()

	out.Handled = action(sig)
	return out
}
