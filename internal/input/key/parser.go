package key

import (
	"strings"
	"unicode"
)

// Separator joins tokens in a combo string.
const Separator = "+"

// Normalize canonicalizes a combo spec such as "Ctrl + S".
//
// Each token is lowercased and stripped of all whitespace, empty tokens are
// dropped, and the rest are joined with "+" in the order given. A single
// "+"-joined string is accepted as one token:
//
//	Normalize("Ctrl + S")   // "ctrl+s"
//	Normalize("ctrl", "s")  // "ctrl+s"
//	Normalize("s", "ctrl")  // "s+ctrl" (order is preserved)
func Normalize(tokens ...string) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = stripSpace(strings.ToLower(tok))
		tok = strings.Trim(tok, Separator)
		if tok == "" {
			continue
		}
		parts = append(parts, tok)
	}
	return strings.Join(parts, Separator)
}

// Split splits a canonical combo into its tokens.
func Split(combo string) []string {
	if combo == "" {
		return nil
	}
	parts := strings.Split(combo, Separator)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ContainsKeyNamed returns true if names contains name.
func ContainsKeyNamed(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
