package terminal

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Key codes for the chord parts a terminal can report.
const (
	codeCtrl  = 17
	codeAlt   = 18
	codeShift = 16
	codeMeta  = 91

	codeBackspace = 8
	codeTab       = 9
	codeEnter     = 13
	codeEsc       = 27
	codeSpace     = 32
	codeF1        = 112
)

// namedKeys maps tcell special keys to key codes.
var namedKeys = map[tcell.Key]int{
	tcell.KeyBackspace:  codeBackspace,
	tcell.KeyBackspace2: codeBackspace,
	tcell.KeyTab:        codeTab,
	tcell.KeyEnter:      codeEnter,
	tcell.KeyEscape:     codeEsc,
	tcell.KeyPgUp:       33,
	tcell.KeyPgDn:       34,
	tcell.KeyEnd:        35,
	tcell.KeyHome:       36,
	tcell.KeyLeft:       37,
	tcell.KeyUp:         38,
	tcell.KeyRight:      39,
	tcell.KeyDown:       40,
	tcell.KeyInsert:     45,
	tcell.KeyDelete:     46,
	tcell.KeyPause:      19,
}

// runeKeys maps punctuation runes to key codes.
var runeKeys = map[rune]int{
	' ': codeSpace,
	';': 186,
	'/': 191,
}

// Translate converts a terminal key event into the key codes of the chord
// it represents, modifiers first. A terminal only reports completed chords,
// so the host replays them as presses followed by releases.
// Returns nil for keys with no code.
func Translate(ev *tcell.EventKey) []int {
	mods := ev.Modifiers()
	var main int

	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		r := ev.Rune()
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			main = int(unicode.ToUpper(r))
		case r >= 'A' && r <= 'Z':
			main = int(r)
			mods |= tcell.ModShift
		default:
			code, ok := runeKeys[r]
			if !ok {
				return nil
			}
			main = code
		}

	case k == tcell.KeyBacktab:
		main = codeTab
		mods |= tcell.ModShift

	case k >= tcell.KeyF1 && k <= tcell.KeyF12:
		main = codeF1 + int(k-tcell.KeyF1)

	case k == tcell.KeyCtrlSpace:
		main = codeSpace
		mods |= tcell.ModCtrl

	default:
		if code, ok := namedKeys[k]; ok {
			main = code
			break
		}
		if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			main = 'A' + int(k-tcell.KeyCtrlA)
			mods |= tcell.ModCtrl
			break
		}
		return nil
	}

	codes := make([]int, 0, 5)
	if mods&tcell.ModCtrl != 0 {
		codes = append(codes, codeCtrl)
	}
	if mods&tcell.ModAlt != 0 {
		codes = append(codes, codeAlt)
	}
	if mods&tcell.ModShift != 0 {
		codes = append(codes, codeShift)
	}
	if mods&tcell.ModMeta != 0 {
		codes = append(codes, codeMeta)
	}
	return append(codes, main)
}
