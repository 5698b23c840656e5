package key

import "fmt"

// Key represents a physical keyboard key.
type Key struct {
	// Name is the canonical lowercase symbolic name ("ctrl", "a", "f1").
	Name string

	// Code is the physical key code reported by the host.
	Code int

	// Pressed reports whether the key is currently held down.
	Pressed bool
}

// String returns the key name.
func (k *Key) String() string {
	if k == nil {
		return "<nil>"
	}
	return k.Name
}

// GoString implements fmt.GoStringer for debugging.
func (k *Key) GoString() string {
	if k == nil {
		return "Key(nil)"
	}
	return fmt.Sprintf("Key{Name: %q, Code: %d, Pressed: %t}", k.Name, k.Code, k.Pressed)
}

// IsModifier returns true for ctrl, alt, shift and meta.
func (k *Key) IsModifier() bool {
	return k != nil && IsModifierName(k.Name)
}

// IsFunctionKey returns true if this is a function key (F1-F12).
func (k *Key) IsFunctionKey() bool {
	return k != nil && k.Code >= 112 && k.Code <= 123
}

// IsNavigationKey returns true for arrows, home, end and page keys.
func (k *Key) IsNavigationKey() bool {
	return k != nil && k.Code >= 33 && k.Code <= 40
}

// Definition is one row of the key table.
type Definition struct {
	Name string
	Code int
}

// Key names used by the resolver.
const (
	NameCtrl  = "ctrl"
	NameAlt   = "alt"
	NameShift = "shift"
	NameMeta  = "meta"
)

// Table is the fixed key table. Its order is the order in which the resolver
// lists held keys when it builds a combo, so modifiers come first.
var Table = []Definition{
	// Modifiers
	{NameCtrl, 17},
	{NameAlt, 18},
	{NameShift, 16},
	{NameMeta, 91},

	// Control keys
	{"backspace", 8},
	{"tab", 9},
	{"enter", 13},
	{"pause", 19},
	{"capslock", 20},
	{"esc", 27},
	{"space", 32},

	// Navigation keys
	{"pageup", 33},
	{"pagedown", 34},
	{"end", 35},
	{"home", 36},
	{"left", 37},
	{"up", 38},
	{"right", 39},
	{"down", 40},
	{"insert", 45},
	{"delete", 46},

	// Digits
	{"0", 48},
	{"1", 49},
	{"2", 50},
	{"3", 51},
	{"4", 52},
	{"5", 53},
	{"6", 54},
	{"7", 55},
	{"8", 56},
	{"9", 57},

	// Letters
	{"a", 65},
	{"b", 66},
	{"c", 67},
	{"d", 68},
	{"e", 69},
	{"f", 70},
	{"g", 71},
	{"h", 72},
	{"i", 73},
	{"j", 74},
	{"k", 75},
	{"l", 76},
	{"m", 77},
	{"n", 78},
	{"o", 79},
	{"p", 80},
	{"q", 81},
	{"r", 82},
	{"s", 83},
	{"t", 84},
	{"u", 85},
	{"v", 86},
	{"w", 87},
	{"x", 88},
	{"y", 89},
	{"z", 90},

	// Function keys
	{"f1", 112},
	{"f2", 113},
	{"f3", 114},
	{"f4", 115},
	{"f5", 116},
	{"f6", 117},
	{"f7", 118},
	{"f8", 119},
	{"f9", 120},
	{"f10", 121},
	{"f11", 122},
	{"f12", 123},

	// Punctuation
	{";", 186},
	{"/", 191},
}

// aliasMap maps alternative spellings to table names.
var aliasMap = map[string]string{
	"control": NameCtrl,
	"option":  NameAlt,
	"opt":     NameAlt,
	"cmd":     NameMeta,
	"command": NameMeta,
	"super":   NameMeta,
	"win":     NameMeta,
	"escape":  "esc",
	"return":  "enter",
	"cr":      "enter",
	"bs":      "backspace",
	"del":     "delete",
	"ins":     "insert",
	"pgup":    "pageup",
	"pgdn":    "pagedown",
}

// CanonicalName resolves an alias to its table name. Names without an alias
// are returned unchanged.
func CanonicalName(name string) string {
	if canon, ok := aliasMap[name]; ok {
		return canon
	}
	return name
}

// IsModifierName returns true if name is one of the modifier key names.
func IsModifierName(name string) bool {
	switch name {
	case NameCtrl, NameAlt, NameShift, NameMeta:
		return true
	}
	return false
}
