package resolver

import (
	"github.com/dshills/shortcuts/internal/input/key"
)

// Guard decides whether an unmatched multi-key press should be left alone
// because it is probably a native OS or browser shortcut in progress.
// pressed lists the held key names in table order.
type Guard func(pressed []string) bool

// LiteralGuard is the default guard. It keeps the operator grouping the
// shortcut guard has always had:
//
//	(n >= 2 && ctrl && n == 2 && alt) || (n == 2 && shift)
//
// The historic condition reads "ctrl and two keys and alt, or shift" with
// the || falling between the alt and shift operands. alt therefore stays
// bound to ctrl: alt plus a letter is not guarded and resets. Only shift
// escapes the ctrl requirement, so shift plus any one key is guarded. The
// two-key bound stays on the shift clause, which keeps ctrl+shift+k
// resetting. GroupedGuard is the corrected reading.
func LiteralGuard(pressed []string) bool {
	n := len(pressed)
	ctrl := key.ContainsKeyNamed(pressed, key.NameCtrl)
	alt := key.ContainsKeyNamed(pressed, key.NameAlt)
	shift := key.ContainsKeyNamed(pressed, key.NameShift)

	return (n >= 2 && ctrl && n == 2 && alt) || (n == 2 && shift)
}

// GroupedGuard guards exactly ctrl+alt and ctrl+shift:
//
//	n >= 2 && ctrl && n == 2 && (alt || shift)
func GroupedGuard(pressed []string) bool {
	n := len(pressed)
	ctrl := key.ContainsKeyNamed(pressed, key.NameCtrl)
	alt := key.ContainsKeyNamed(pressed, key.NameAlt)
	shift := key.ContainsKeyNamed(pressed, key.NameShift)

	return n >= 2 && ctrl && n == 2 && (alt || shift)
}

// GuardByName returns the guard for a config name: "literal" (or empty) and
// "grouped". ok is false for unknown names.
func GuardByName(name string) (g Guard, ok bool) {
	switch name {
	case "", "literal":
		return LiteralGuard, true
	case "grouped":
		return GroupedGuard, true
	}
	return nil, false
}
