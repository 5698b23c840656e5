// Package key provides the key table, key lookup and combo normalization
// for the shortcut system.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Key: A physical key with its code, symbolic name and pressed flag
//   - Registry: The fixed, ordered table of known keys
//   - Signal: A raw key-down or key-up notification from the host
//
// # Combo Strings
//
// A combo is the canonical form of a key combination: lowercase names with
// all whitespace removed, joined with "+":
//
//	"ctrl+s"
//	"ctrl+shift+k"
//	"f5"
//
// Tokens keep the order they were given in. The resolver always builds the
// combo for the keys currently held in table order (see Table), so a binding
// only fires when its tokens are written in that same order. "ctrl+s" can
// match; "s+ctrl" never does. Registry.Reachable reports such bindings.
package key
