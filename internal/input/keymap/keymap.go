package keymap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/shortcuts/internal/input/key"
)

// Errors returned by keymap operations.
var (
	// ErrUnknownAction indicates a binding naming an unregistered action.
	ErrUnknownAction = errors.New("unknown action")

	// ErrInvalidBinding indicates a binding with no keys or no action.
	ErrInvalidBinding = errors.New("invalid binding")

	// ErrUnsupportedFormat indicates a keymap file extension we cannot parse.
	ErrUnsupportedFormat = errors.New("unsupported keymap format")

	// ErrScriptingDisabled indicates a Lua binding with no Lua state.
	ErrScriptingDisabled = errors.New("lua bindings require a script state")
)

// File is a parsed keymap file.
type File struct {
	// Path is where the file was loaded from, if anywhere.
	Path string

	// Scopes are listed in stack order, outermost first.
	Scopes []Scope
}

// Scope is one scope definition.
type Scope struct {
	Name     string
	Bindings []Binding
}

// Binding maps one or more combo specs to an action.
type Binding struct {
	// Keys are combo specs such as "ctrl+s". Each is bound separately.
	Keys []string

	// Action is the name of a registered Go action.
	Action string

	// Lua is an inline Lua chunk used instead of Action.
	Lua string

	// Description documents the binding for listings.
	Description string
}

// Combos returns the normalized combos of the binding.
func (b Binding) Combos() []string {
	combos := make([]string, 0, len(b.Keys))
	for _, k := range b.Keys {
		if c := key.Normalize(k); c != "" {
			combos = append(combos, c)
		}
	}
	return combos
}

// Target returns the action name or a short label for a Lua chunk.
func (b Binding) Target() string {
	if b.Action != "" {
		return b.Action
	}
	if b.Lua != "" {
		line := strings.TrimSpace(b.Lua)
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i] + " ..."
		}
		return "lua: " + line
	}
	return ""
}

// Validate checks that the binding has keys and exactly one action.
func (b Binding) Validate() error {
	if len(b.Combos()) == 0 {
		return fmt.Errorf("%w: no keys", ErrInvalidBinding)
	}
	switch {
	case b.Action == "" && b.Lua == "":
		return fmt.Errorf("%w (%s): no action or lua", ErrInvalidBinding, strings.Join(b.Keys, ", "))
	case b.Action != "" && b.Lua != "":
		return fmt.Errorf("%w (%s): both action and lua set", ErrInvalidBinding, strings.Join(b.Keys, ", "))
	}
	return nil
}

// Validate checks every binding in the file.
func (f *File) Validate() error {
	for i, s := range f.Scopes {
		for j, b := range s.Bindings {
			if err := b.Validate(); err != nil {
				return fmt.Errorf("scope %d (%s) binding %d: %w", i, s.Name, j, err)
			}
		}
	}
	return nil
}

// Len returns the total number of bindings.
func (f *File) Len() int {
	n := 0
	for _, s := range f.Scopes {
		n += len(s.Bindings)
	}
	return n
}
