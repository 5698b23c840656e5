// Package keymap loads shortcut bindings from keymap files and applies them
// to a shortcut manager.
//
// A keymap file lists scopes in stack order. The first scope's bindings go
// into the manager's current top scope (the global scope at startup); every
// later scope is pushed on top of it.
//
// # TOML
//
//	[[scope]]
//	name = "global"
//
//	  [[scope.binding]]
//	  keys = "ctrl+s"
//	  action = "file.save"
//	  description = "Save"
//
//	  [[scope.binding]]
//	  keys = ["ctrl+q", "ctrl+w"]
//	  lua = "shortcuts.log('bye') return true"
//
// # JSON
//
//	{"scopes": [{"name": "global", "bindings": [
//	    {"keys": "ctrl+s", "action": "file.save"}
//	]}]}
//
// A binding names either a Go action registered in an Actions table or an
// inline Lua chunk, never both.
//
// # Key Order
//
// Combos only fire when their tokens follow key-table order ("ctrl+s", not
// "s+ctrl"). Check reports bindings that can never fire and suggests the
// reachable spelling; bindings are not rewritten.
package keymap
