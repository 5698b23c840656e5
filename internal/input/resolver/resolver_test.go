package resolver

import (
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/input/keystate"
	"github.com/dshills/shortcuts/internal/input/scope"
)

const (
	codeCtrl  = 17
	codeAlt   = 18
	codeShift = 16
	codeA     = 65
	codeK     = 75
	codeQ     = 81
	codeS     = 83
)

type fixture struct {
	state *keystate.State
	stack *scope.Stack
	res   *Resolver
}

func newFixture(opts ...Option) *fixture {
	state := keystate.New(key.NewRegistry())
	stack := scope.NewStack()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return &fixture{
		state: state,
		stack: stack,
		res:   New(state, stack, opts...),
	}
}

// press marks each code pressed and resolves after each one, returning the
// outcome of the last press.
func (f *fixture) press(codes ...int) Outcome {
	var out Outcome
	for _, code := range codes {
		if _, err := f.state.Press(code); err != nil {
			panic(err)
		}
		out = f.res.Resolve(key.NewSignal(code, key.Down, nil))
	}
	return out
}

func TestResolveFiresOnce(t *testing.T) {
	f := newFixture()
	calls := 0
	f.stack.Bind("ctrl+s", func(sig key.Signal) bool {
		calls++
		if sig.Code != codeS {
			t.Errorf("action got code %d, want %d", sig.Code, codeS)
		}
		return true
	})

	out := f.press(codeCtrl, codeS)

	if calls != 1 {
		t.Errorf("action called %d times, want 1", calls)
	}
	if out.Kind != OutcomeFired || !out.Handled {
		t.Errorf("outcome = %+v, want fired and handled", out)
	}
	if out.Combo != "ctrl+s" {
		t.Errorf("Combo = %q, want ctrl+s", out.Combo)
	}
	if out.Scope != f.stack.Base() {
		t.Error("Scope should be the base scope")
	}
	if !f.state.IsPressed("ctrl") || !f.state.IsPressed("s") {
		t.Error("a fired action must not release keys")
	}
}

func TestResolveInnermostScopeWins(t *testing.T) {
	f := newFixture()
	var log []string
	f.stack.Bind("ctrl+s", func(key.Signal) bool { log = append(log, "global"); return true })
	f.stack.Push("dialog")
	f.stack.Bind("ctrl+s", func(key.Signal) bool { log = append(log, "dialog"); return true })

	f.press(codeCtrl, codeS)
	f.state.ReleaseAll()

	if _, err := f.stack.Pop(); err != nil {
		t.Fatal(err)
	}
	f.press(codeCtrl, codeS)

	if !reflect.DeepEqual(log, []string{"dialog", "global"}) {
		t.Errorf("invoked = %q, want [dialog global]", log)
	}
}

func TestResolveTableOrderNotPressOrder(t *testing.T) {
	f := newFixture()
	calls := 0
	f.stack.Bind("ctrl+s", func(key.Signal) bool { calls++; return false })

	// s first, then ctrl: the combo is still built in table order.
	out := f.press(codeS, codeCtrl)

	if calls != 1 || out.Combo != "ctrl+s" {
		t.Errorf("calls = %d, combo = %q; want 1, ctrl+s", calls, out.Combo)
	}
}

func TestResolveReversedBindingNeverMatches(t *testing.T) {
	f := newFixture()
	calls := 0
	f.stack.Bind("s+ctrl", func(key.Signal) bool { calls++; return true })

	f.press(codeCtrl, codeS)

	if calls != 0 {
		t.Errorf("reversed binding fired %d times, want 0", calls)
	}
}

func TestResolveGuardAndReset(t *testing.T) {
	tests := []struct {
		name        string
		codes       []int
		want        OutcomeKind
		wantPressed []string
	}{
		{"single key untouched", []int{codeA}, OutcomeUnmatched, []string{"a"}},
		{"ctrl+shift guarded", []int{codeCtrl, codeShift}, OutcomeGuarded, []string{"ctrl", "shift"}},
		{"ctrl+alt guarded", []int{codeCtrl, codeAlt}, OutcomeGuarded, []string{"ctrl", "alt"}},
		{"ctrl+q reset", []int{codeCtrl, codeQ}, OutcomeReset, []string{}},
		{"shift+a guarded without ctrl", []int{codeShift, codeA}, OutcomeGuarded, []string{"shift", "a"}},
		{"alt+a reset", []int{codeAlt, codeA}, OutcomeReset, []string{}},
		{"ctrl+alt+a reset", []int{codeCtrl, codeAlt, codeA}, OutcomeReset, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			out := f.press(tt.codes...)
			if out.Kind != tt.want {
				t.Errorf("Kind = %s, want %s", out.Kind, tt.want)
			}
			if got := f.state.Pressed(); !reflect.DeepEqual(got, tt.wantPressed) {
				t.Errorf("Pressed() = %q, want %q", got, tt.wantPressed)
			}
		})
	}
}

func TestResolveCtrlShiftK(t *testing.T) {
	f := newFixture()

	if out := f.press(codeCtrl, codeShift); out.Kind != OutcomeGuarded {
		t.Fatalf("ctrl+shift Kind = %s, want guarded", out.Kind)
	}

	out := f.press(codeK)
	if out.Kind != OutcomeReset {
		t.Errorf("ctrl+shift+k Kind = %s, want reset", out.Kind)
	}
	if !reflect.DeepEqual(out.Released, []string{"ctrl", "shift", "k"}) {
		t.Errorf("Released = %q, want [ctrl shift k]", out.Released)
	}
	if f.state.Count() != 0 {
		t.Errorf("Count() = %d, want 0", f.state.Count())
	}
}

func TestResolveGroupedGuard(t *testing.T) {
	f := newFixture(WithGuard(GroupedGuard))

	out := f.press(codeShift, codeA)
	if out.Kind != OutcomeReset {
		t.Errorf("grouped guard shift+a Kind = %s, want reset", out.Kind)
	}

	f2 := newFixture(WithGuard(GroupedGuard))
	if out := f2.press(codeCtrl, codeShift); out.Kind != OutcomeGuarded {
		t.Errorf("grouped guard ctrl+shift Kind = %s, want guarded", out.Kind)
	}
}

func TestResolveRecoversPanic(t *testing.T) {
	f := newFixture()
	f.stack.Bind("ctrl+s", func(key.Signal) bool { panic("boom") })

	out := f.press(codeCtrl, codeS)

	if out.Kind != OutcomeFailed {
		t.Errorf("Kind = %s, want failed", out.Kind)
	}
	if out.Err == nil {
		t.Error("Err should be set")
	}
	if f.res.Stats().Snapshot().Failures != 1 {
		t.Errorf("Failures = %d, want 1", f.res.Stats().Snapshot().Failures)
	}
}

func TestResolveActionMayMutateStack(t *testing.T) {
	f := newFixture()
	f.stack.Bind("f1", func(key.Signal) bool {
		f.stack.Push("help")
		f.stack.Bind("esc", func(key.Signal) bool {
			_, err := f.stack.Pop()
			return err == nil
		})
		return true
	})

	f.press(112)
	f.state.ReleaseAll()
	if f.stack.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", f.stack.Depth())
	}

	out := f.press(27)
	if out.Kind != OutcomeFired || !out.Handled {
		t.Errorf("esc outcome = %+v", out)
	}
	if f.stack.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", f.stack.Depth())
	}
}

func TestStatsSnapshot(t *testing.T) {
	f := newFixture()
	f.stack.Bind("ctrl+s", func(key.Signal) bool { return true })

	f.press(codeCtrl, codeS) // unmatched, fired
	f.state.ReleaseAll()
	f.press(codeCtrl, codeQ) // unmatched, reset
	f.press(codeCtrl, codeShift)
	f.res.Stats().RecordUnknownKey()

	s := f.res.Stats().Snapshot()
	if s.Presses != 6 {
		t.Errorf("Presses = %d, want 6", s.Presses)
	}
	if s.Fired != 1 || s.Resets != 1 || s.Guarded != 1 || s.Unmatched != 3 {
		t.Errorf("snapshot = %+v", s)
	}
	if s.UnknownKeys != 1 {
		t.Errorf("UnknownKeys = %d, want 1", s.UnknownKeys)
	}
}

func TestGuards(t *testing.T) {
	tests := []struct {
		pressed     []string
		wantLiteral bool
		wantGrouped bool
	}{
		{[]string{"ctrl", "alt"}, true, true},
		{[]string{"ctrl", "shift"}, true, true},
		{[]string{"shift", "a"}, true, false},
		{[]string{"alt", "a"}, false, false},
		{[]string{"ctrl", "a"}, false, false},
		{[]string{"ctrl", "shift", "k"}, false, false},
		{[]string{"ctrl", "alt", "a"}, false, false},
		{[]string{"shift"}, false, false},
	}
	for _, tt := range tests {
		if got := LiteralGuard(tt.pressed); got != tt.wantLiteral {
			t.Errorf("LiteralGuard(%q) = %v, want %v", tt.pressed, got, tt.wantLiteral)
		}
		if got := GroupedGuard(tt.pressed); got != tt.wantGrouped {
			t.Errorf("GroupedGuard(%q) = %v, want %v", tt.pressed, got, tt.wantGrouped)
		}
	}
}

func TestGuardByName(t *testing.T) {
	for _, name := range []string{"", "literal", "grouped"} {
		if _, ok := GuardByName(name); !ok {
			t.Errorf("GuardByName(%q) ok = false", name)
		}
	}
	if _, ok := GuardByName("strict"); ok {
		t.Error("GuardByName(strict) ok = true")
	}
}
