// Package keystate tracks which keys are currently held down.
package keystate

import (
	"github.com/dshills/shortcuts/internal/input/key"
)

// State tracks the pressed flag of every key in a registry.
//
// State is not safe for concurrent use. The host serializes key signals.
type State struct {
	registry *key.Registry
}

// New creates a key state over the given registry.
func New(registry *key.Registry) *State {
	return &State{registry: registry}
}

// Registry returns the underlying key registry.
func (s *State) Registry() *key.Registry {
	return s.registry
}

// Press marks the key with the given code as pressed.
// Returns key.ErrUnknownKey if the code is not registered.
func (s *State) Press(code int) (*key.Key, error) {
	k, err := s.registry.Lookup(code)
	if err != nil {
		return nil, err
	}
	k.Pressed = true
	return k, nil
}

// Release marks the key with the given code as released.
// Returns key.ErrUnknownKey if the code is not registered.
func (s *State) Release(code int) (*key.Key, error) {
	k, err := s.registry.Lookup(code)
	if err != nil {
		return nil, err
	}
	k.Pressed = false
	return k, nil
}

// Pressed returns the names of the held keys in table order.
func (s *State) Pressed() []string {
	names := make([]string, 0, 4)
	for _, k := range s.registry.Keys() {
		if k.Pressed {
			names = append(names, k.Name)
		}
	}
	return names
}

// IsPressed reports whether the named key is held.
func (s *State) IsPressed(name string) bool {
	k, err := s.registry.ByName(name)
	if err != nil {
		return false
	}
	return k.Pressed
}

// Count returns the number of held keys.
func (s *State) Count() int {
	n := 0
	for _, k := range s.registry.Keys() {
		if k.Pressed {
			n++
		}
	}
	return n
}

// ReleaseAll marks every key as released and returns the names that were held.
func (s *State) ReleaseAll() []string {
	released := make([]string, 0, 4)
	for _, k := range s.registry.Keys() {
		if k.Pressed {
			k.Pressed = false
			released = append(released, k.Name)
		}
	}
	return released
}
