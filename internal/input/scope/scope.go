// Package scope provides the stack of binding tables searched by the resolver.
//
// Each Scope maps combo strings to actions. Scopes are stacked: the most
// recently pushed scope is searched first, so a binding in an inner scope
// shadows the same combo in outer scopes until the inner scope is popped.
// The base scope created with the stack can never be popped.
package scope

import (
	"sort"

	"github.com/google/uuid"

	"github.com/dshills/shortcuts/internal/input/key"
)

// Action is invoked when its combo is pressed. The return value reports
// whether the action handled the signal; hosts may use it to suppress their
// default handling.
type Action func(sig key.Signal) bool

// Scope is an independent table of bindings.
type Scope struct {
	// ID uniquely identifies the scope for the lifetime of the process.
	ID uuid.UUID

	// Name is a label for logs and listings. It need not be unique.
	Name string

	actions map[string]Action
}

// New creates an empty scope.
func New(name string) *Scope {
	return &Scope{
		ID:      uuid.New(),
		Name:    name,
		actions: make(map[string]Action),
	}
}

// Bind inserts or overwrites the action for a combo spec.
// Returns true if an existing binding was replaced.
func (s *Scope) Bind(spec string, action Action) bool {
	combo := key.Normalize(spec)
	_, replaced := s.actions[combo]
	s.actions[combo] = action
	return replaced
}

// Unbind removes the binding for a combo spec.
// Returns true if a binding was removed.
func (s *Scope) Unbind(spec string) bool {
	combo := key.Normalize(spec)
	if _, ok := s.actions[combo]; !ok {
		return false
	}
	delete(s.actions, combo)
	return true
}

// Lookup returns the action bound to a canonical combo.
func (s *Scope) Lookup(combo string) (Action, bool) {
	a, ok := s.actions[combo]
	return a, ok
}

// Has reports whether a combo spec is bound in this scope.
func (s *Scope) Has(spec string) bool {
	_, ok := s.actions[key.Normalize(spec)]
	return ok
}

// Len returns the number of bindings.
func (s *Scope) Len() int {
	return len(s.actions)
}

// Bindings returns the bound combos in sorted order.
func (s *Scope) Bindings() []string {
	combos := make([]string, 0, len(s.actions))
	for c := range s.actions {
		combos = append(combos, c)
	}
	sort.Strings(combos)
	return combos
}
