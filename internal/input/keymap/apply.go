package keymap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/shortcuts/internal/input/scope"
)

// Actions is a table of named Go actions that keymap files may refer to.
type Actions map[string]scope.Action

// Register adds or replaces a named action.
func (a Actions) Register(name string, action scope.Action) {
	a[name] = action
}

// Names returns the registered names in sorted order.
func (a Actions) Names() []string {
	names := make([]string, 0, len(a))
	for n := range a {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Compiler turns an inline Lua chunk into an action. *script.State
// satisfies it.
type Compiler interface {
	Compile(name, code string) (scope.Action, error)
}

// Target is what a keymap is applied to. *shortcut.Manager satisfies it.
type Target interface {
	Stack() *scope.Stack
	Bind(spec string, action scope.Action)
	PushScope(name string) *scope.Scope
	PopScope() error
}

// Applied records what Apply changed so it can be undone on reload.
type Applied struct {
	// base is the scope that received the first scope's bindings.
	base *scope.Scope

	// combos are the combos bound into base, without duplicates.
	combos []string

	// displaced holds the actions base had for combos before Apply
	// overwrote them.
	displaced map[string]scope.Action

	// pushed are the scopes pushed, bottom first.
	pushed []*scope.Scope
}

// Base returns the scope that received the first scope's bindings.
func (a *Applied) Base() *scope.Scope {
	return a.base
}

// Pushed returns the scopes pushed by Apply, bottom first.
func (a *Applied) Pushed() []*scope.Scope {
	return a.pushed
}

// Apply binds every scope of the file onto the target, the first scope into
// the current top scope. See ApplyTo.
func Apply(t Target, f *File, actions Actions, lua Compiler) (*Applied, error) {
	return ApplyTo(t, t.Stack().Top(), f, actions, lua)
}

// ApplyTo binds the file's first scope into base and pushes each later
// scope onto the top of the target's stack. Every action is resolved before
// anything is bound, so a failed ApplyTo leaves the target untouched. lua
// may be nil if the file has no Lua bindings.
func ApplyTo(t Target, base *scope.Scope, f *File, actions Actions, lua Compiler) (*Applied, error) {
	if base == nil {
		return nil, fmt.Errorf("applying keymap: nil base scope")
	}
	resolved, err := resolve(f, actions, lua)
	if err != nil {
		return nil, err
	}

	applied := &Applied{base: base, displaced: make(map[string]scope.Action)}
	for i, s := range f.Scopes {
		if i > 0 {
			applied.pushed = append(applied.pushed, t.PushScope(s.Name))
		}
		for j, b := range s.Bindings {
			for _, combo := range b.Combos() {
				if i > 0 {
					t.Bind(combo, resolved[i][j])
					continue
				}
				applied.bindBase(t, combo, resolved[i][j])
			}
		}
	}
	return applied, nil
}

// bindBase binds into the base scope, remembering what it displaces the
// first time a combo is bound.
func (a *Applied) bindBase(t Target, combo string, action scope.Action) {
	if _, seen := a.displaced[combo]; !seen {
		prev, _ := a.base.Lookup(combo)
		a.displaced[combo] = prev
		a.combos = append(a.combos, combo)
	}
	if t.Stack().Top() == a.base {
		t.Bind(combo, action)
		return
	}
	a.base.Bind(combo, action)
}

// resolve looks up or compiles the action of every binding.
func resolve(f *File, actions Actions, lua Compiler) ([][]scope.Action, error) {
	out := make([][]scope.Action, len(f.Scopes))
	for i, s := range f.Scopes {
		out[i] = make([]scope.Action, len(s.Bindings))
		for j, b := range s.Bindings {
			if err := b.Validate(); err != nil {
				return nil, fmt.Errorf("scope %s: %w", s.Name, err)
			}

			if b.Lua != "" {
				if lua == nil {
					return nil, fmt.Errorf("scope %s (%s): %w", s.Name, b.Keys[0], ErrScriptingDisabled)
				}
				name := fmt.Sprintf("%s/%s", s.Name, b.Combos()[0])
				a, err := lua.Compile(name, b.Lua)
				if err != nil {
					return nil, fmt.Errorf("scope %s: %w", s.Name, err)
				}
				out[i][j] = a
				continue
			}

			a, ok := actions[b.Action]
			if !ok {
				return nil, fmt.Errorf("scope %s: %w: %q", s.Name, ErrUnknownAction, b.Action)
			}
			out[i][j] = a
		}
	}
	return out, nil
}

// ErrScopeMoved is returned by Remove when a pushed scope is no longer on
// top of the stack.
var ErrScopeMoved = errors.New("keymap scope is no longer on top of the stack")

// Remove undoes Apply: pushed scopes are popped and the first scope's
// bindings are removed from the scope they were added to, restoring any
// binding they overwrote. Pushed scopes are only popped while they are on
// top of the stack.
func (a *Applied) Remove(t Target) error {
	for i := len(a.pushed) - 1; i >= 0; i-- {
		if t.Stack().Top() != a.pushed[i] {
			return fmt.Errorf("%w: %s", ErrScopeMoved, a.pushed[i].Name)
		}
		if err := t.PopScope(); err != nil {
			return err
		}
		a.pushed = a.pushed[:i]
	}

	for _, combo := range a.combos {
		if prev := a.displaced[combo]; prev != nil {
			a.base.Bind(combo, prev)
			continue
		}
		a.base.Unbind(combo)
	}
	a.combos, a.displaced = nil, nil
	return nil
}
