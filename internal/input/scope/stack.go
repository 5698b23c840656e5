package scope

import (
	"errors"
)

// BaseName is the name of the scope every stack starts with.
const BaseName = "global"

// ErrEmptyStack is returned when popping would remove the base scope.
var ErrEmptyStack = errors.New("cannot pop the base scope")

// Stack is an ordered stack of scopes. It always holds at least the base scope.
//
// Stack is not safe for concurrent use. Actions invoked by the resolver may
// push, pop and bind on the same goroutine.
type Stack struct {
	// scopes holds the stack bottom first; the top is the last element.
	scopes []*Scope
}

// NewStack creates a stack holding only the base scope.
func NewStack() *Stack {
	scopes := make([]*Scope, 0, 4)
	scopes = append(scopes, New(BaseName))
	return &Stack{scopes: scopes}
}

// Push creates an empty scope ahead of all existing scopes and returns it.
func (st *Stack) Push(name string) *Scope {
	s := New(name)
	st.scopes = append(st.scopes, s)
	return s
}

// Pop removes the top scope and returns it.
// Returns ErrEmptyStack, leaving the stack unchanged, if only the base scope
// remains.
func (st *Stack) Pop() (*Scope, error) {
	if len(st.scopes) <= 1 {
		return nil, ErrEmptyStack
	}
	top := st.scopes[len(st.scopes)-1]
	st.scopes[len(st.scopes)-1] = nil
	st.scopes = st.scopes[:len(st.scopes)-1]
	return top, nil
}

// Top returns the highest priority scope.
func (st *Stack) Top() *Scope {
	return st.scopes[len(st.scopes)-1]
}

// Base returns the base scope.
func (st *Stack) Base() *Scope {
	return st.scopes[0]
}

// Depth returns the number of scopes, including the base scope.
func (st *Stack) Depth() int {
	return len(st.scopes)
}

// Scopes returns the scopes in search order, top first.
func (st *Stack) Scopes() []*Scope {
	out := make([]*Scope, 0, len(st.scopes))
	for i := len(st.scopes) - 1; i >= 0; i-- {
		out = append(out, st.scopes[i])
	}
	return out
}

// Bind inserts or overwrites a binding in the top scope.
// Returns true if an existing binding in the top scope was replaced.
func (st *Stack) Bind(spec string, action Action) bool {
	return st.Top().Bind(spec, action)
}

// Unbind removes a binding from the top scope only.
func (st *Stack) Unbind(spec string) bool {
	return st.Top().Unbind(spec)
}

// UnbindRecursive removes the binding from the first scope, searching from
// the top, that holds it. Scopes below that one are left untouched.
// Returns the scope the binding was removed from, or nil.
func (st *Stack) UnbindRecursive(spec string) *Scope {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if st.scopes[i].Unbind(spec) {
			return st.scopes[i]
		}
	}
	return nil
}

// Lookup finds the action for a canonical combo, searching from the top.
// The first scope holding the combo wins.
func (st *Stack) Lookup(combo string) (Action, *Scope, bool) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if a, ok := st.scopes[i].Lookup(combo); ok {
			return a, st.scopes[i], true
		}
	}
	return nil, nil, false
}
