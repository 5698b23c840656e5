package key

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by registry lookups.
var (
	// ErrUnknownKey indicates a code or name with no table entry.
	ErrUnknownKey = errors.New("unknown key")

	// ErrDuplicateKey indicates a table with a repeated code or name.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Registry holds the Key records for one session, created once from a table.
// Keys are never added or removed after construction.
type Registry struct {
	keys   []*Key
	byCode map[int]*Key
	byName map[string]*Key
	index  map[string]int
}

// NewRegistry creates a registry from the default Table.
func NewRegistry() *Registry {
	r, err := NewRegistryFrom(Table)
	if err != nil {
		panic("invalid default key table: " + err.Error())
	}
	return r
}

// NewRegistryFrom creates a registry from a custom table.
// Names are lowercased; duplicate codes or names are rejected.
func NewRegistryFrom(defs []Definition) (*Registry, error) {
	r := &Registry{
		keys:   make([]*Key, 0, len(defs)),
		byCode: make(map[int]*Key, len(defs)),
		byName: make(map[string]*Key, len(defs)),
		index:  make(map[string]int, len(defs)),
	}

	for _, d := range defs {
		name := strings.ToLower(strings.TrimSpace(d.Name))
		if name == "" {
			return nil, fmt.Errorf("%w: empty name for code %d", ErrUnknownKey, d.Code)
		}
		if _, ok := r.byCode[d.Code]; ok {
			return nil, fmt.Errorf("%w: code %d", ErrDuplicateKey, d.Code)
		}
		if _, ok := r.byName[name]; ok {
			return nil, fmt.Errorf("%w: name %q", ErrDuplicateKey, name)
		}

		k := &Key{Name: name, Code: d.Code}
		r.index[name] = len(r.keys)
		r.keys = append(r.keys, k)
		r.byCode[d.Code] = k
		r.byName[name] = k
	}

	return r, nil
}

// Lookup returns the Key for a code.
func (r *Registry) Lookup(code int) (*Key, error) {
	k, ok := r.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: code %d", ErrUnknownKey, code)
	}
	return k, nil
}

// ByName returns the Key for a name or alias (case-insensitive).
func (r *Registry) ByName(name string) (*Key, error) {
	name = CanonicalName(strings.ToLower(strings.TrimSpace(name)))
	k, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	return k, nil
}

// Index returns the table position of a key name, or -1.
func (r *Registry) Index(name string) int {
	if i, ok := r.index[name]; ok {
		return i
	}
	return -1
}

// Keys returns all keys in table order.
// The returned Key pointers are the live records.
func (r *Registry) Keys() []*Key {
	return r.keys
}

// Len returns the number of keys in the registry.
func (r *Registry) Len() int {
	return len(r.keys)
}

// Reachable reports whether a combo can ever be produced by the resolver:
// every token must name a registered key, each at most once, in table order.
func (r *Registry) Reachable(combo string) bool {
	tokens := Split(Normalize(combo))
	if len(tokens) == 0 {
		return false
	}

	last := -1
	for _, tok := range tokens {
		i := r.Index(tok)
		if i <= last {
			return false
		}
		last = i
	}
	return true
}

// Suggest rewrites a combo into table order with aliases resolved. It is a
// diagnostic helper for tooling; bindings are never rewritten implicitly.
// Returns ErrUnknownKey if a token is not in the registry.
func (r *Registry) Suggest(combo string) (string, error) {
	tokens := Split(Normalize(combo))
	if len(tokens) == 0 {
		return "", fmt.Errorf("%w: empty combo", ErrUnknownKey)
	}

	seen := make(map[int]bool, len(tokens))
	for _, tok := range tokens {
		k, err := r.ByName(tok)
		if err != nil {
			return "", err
		}
		seen[r.index[k.Name]] = true
	}

	names := make([]string, 0, len(seen))
	for i, k := range r.keys {
		if seen[i] {
			names = append(names, k.Name)
		}
	}
	return Normalize(names...), nil
}
