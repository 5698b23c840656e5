package keymap

import (
	"fmt"
	"strings"

	"github.com/dshills/shortcuts/internal/input/key"
)

// ProblemKind classifies a keymap problem.
type ProblemKind uint8

const (
	// ProblemUnreachable is a combo whose tokens are out of key-table order
	// or repeat a key. The resolver can never produce it.
	ProblemUnreachable ProblemKind = iota

	// ProblemUnknownKey is a combo naming a key that is not in the table.
	ProblemUnknownKey

	// ProblemUnknownAction is a binding naming an unregistered action.
	ProblemUnknownAction

	// ProblemShadowed is a combo bound twice in the same scope. The later
	// binding wins.
	ProblemShadowed
)

// String returns a short name for the kind.
func (k ProblemKind) String() string {
	switch k {
	case ProblemUnreachable:
		return "unreachable"
	case ProblemUnknownKey:
		return "unknown-key"
	case ProblemUnknownAction:
		return "unknown-action"
	case ProblemShadowed:
		return "shadowed"
	default:
		return "unknown"
	}
}

// Problem describes one issue found by Check.
type Problem struct {
	Kind  ProblemKind
	Scope string
	Combo string

	// Suggestion is the reachable spelling of an unreachable combo, or the
	// closest registered name for an unknown action.
	Suggestion string

	Detail string
}

// String formats the problem for display.
func (p Problem) String() string {
	s := fmt.Sprintf("%s: scope %s: %s", p.Kind, p.Scope, p.Combo)
	if p.Suggestion != "" {
		s += fmt.Sprintf(" (did you mean %q?)", p.Suggestion)
	}
	if p.Detail != "" {
		s += ": " + p.Detail
	}
	return s
}

// Check reports bindings that cannot fire as written. It never modifies
// the file. actions may be nil to skip action name checks.
func Check(f *File, reg *key.Registry, actions Actions) []Problem {
	var problems []Problem

	for _, s := range f.Scopes {
		seen := make(map[string]bool)
		for _, b := range s.Bindings {
			if actions != nil && b.Action != "" {
				if _, ok := actions[b.Action]; !ok {
					problems = append(problems, Problem{
						Kind:       ProblemUnknownAction,
						Scope:      s.Name,
						Combo:      strings.Join(b.Combos(), ", "),
						Suggestion: closestAction(b.Action, actions.Names()),
						Detail:     b.Action,
					})
				}
			}

			for _, combo := range b.Combos() {
				if seen[combo] {
					problems = append(problems, Problem{Kind: ProblemShadowed, Scope: s.Name, Combo: combo})
				}
				seen[combo] = true

				if reg.Reachable(combo) {
					continue
				}
				suggestion, err := reg.Suggest(combo)
				if err != nil {
					problems = append(problems, Problem{
						Kind:   ProblemUnknownKey,
						Scope:  s.Name,
						Combo:  combo,
						Detail: err.Error(),
					})
					continue
				}
				problems = append(problems, Problem{
					Kind:       ProblemUnreachable,
					Scope:      s.Name,
					Combo:      combo,
					Suggestion: suggestion,
				})
			}
		}
	}
	return problems
}

// closestAction returns the registered name that best matches an unknown
// action name, or "" if none is close. Either name may be a subsequence of
// the other, so typos that drop or add a letter are both caught.
func closestAction(name string, names []string) string {
	best, bestScore := "", 0
	for _, candidate := range names {
		score := max(matchScore(name, candidate), matchScore(candidate, name))
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best
}

// matchScore scores query as a subsequence of text. Consecutive runs and a
// shared first letter score higher; gaps cost points. Zero means no match.
func matchScore(query, text string) int {
	q := []rune(strings.ToLower(query))
	t := []rune(strings.ToLower(text))
	if len(q) == 0 || len(q) > len(t) {
		return 0
	}

	score, qi, last := 100, 0, -1
	for ti := 0; ti < len(t) && qi < len(q); ti++ {
		if t[ti] != q[qi] {
			continue
		}
		switch {
		case last >= 0 && ti == last+1:
			score += 20
		case last >= 0:
			score -= 2 * (ti - last - 1)
		case ti == 0:
			score += 25
		}
		last = ti
		qi++
	}
	if qi < len(q) {
		return 0
	}
	// Penalize unmatched letters so near-identical names win.
	score -= 5 * (len(t) - len(q))
	return max(score, 1)
}
