package shortcut

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dshills/shortcuts/internal/input/key"
	"github.com/dshills/shortcuts/internal/input/resolver"
	"github.com/dshills/shortcuts/internal/input/scope"
)

const (
	codeCtrl  = 17
	codeShift = 16
	codeK     = 75
	codeQ     = 81
	codeS     = 83
)

// fakeHost records the handlers passed to Listen.
type fakeHost struct {
	down, up SignalFunc
	err      error
}

func (h *fakeHost) Listen(down, up SignalFunc) error {
	if h.err != nil {
		return h.err
	}
	h.down, h.up = down, up
	return nil
}

func newTestManager(opts ...Option) *Manager {
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return New(opts...)
}

func chord(m *Manager, codes ...int) bool {
	var handled bool
	for _, c := range codes {
		handled = m.OnKeyDown(c, nil)
	}
	for i := len(codes) - 1; i >= 0; i-- {
		m.OnKeyUp(codes[i], nil)
	}
	return handled
}

func TestBindFiresExactlyOnce(t *testing.T) {
	m := newTestManager()
	calls := 0
	m.Bind("ctrl+s", func(key.Signal) bool {
		calls++
		return true
	})

	if handled := chord(m, codeCtrl, codeS); !handled {
		t.Error("OnKeyDown should report the press as handled")
	}
	if calls != 1 {
		t.Errorf("action called %d times, want 1", calls)
	}
}

func TestActionReceivesRawEvent(t *testing.T) {
	m := newTestManager()
	var got any
	m.Bind("ctrl+s", func(sig key.Signal) bool {
		got = sig.Raw
		return false
	})

	m.OnKeyDown(codeCtrl, "ctrl-event")
	if handled := m.OnKeyDown(codeS, "s-event"); handled {
		t.Error("handled should follow the action's return value")
	}
	if got != "s-event" {
		t.Errorf("Raw = %v, want s-event", got)
	}
}

func TestScopeShadowing(t *testing.T) {
	m := newTestManager()
	var last string
	m.Bind("ctrl+s", func(key.Signal) bool { last = "global"; return true })

	m.PushScope("modal")
	m.Bind("ctrl+s", func(key.Signal) bool { last = "modal"; return true })

	chord(m, codeCtrl, codeS)
	if last != "modal" {
		t.Errorf("with modal pushed, fired %q, want modal", last)
	}

	if err := m.PopScope(); err != nil {
		t.Fatal(err)
	}
	chord(m, codeCtrl, codeS)
	if last != "global" {
		t.Errorf("after pop, fired %q, want global", last)
	}
}

func TestPopGlobalScope(t *testing.T) {
	m := newTestManager()

	err := m.PopScope()
	if !errors.Is(err, scope.ErrEmptyStack) {
		t.Errorf("PopScope() error = %v, want ErrEmptyStack", err)
	}
	if m.Stack().Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", m.Stack().Depth())
	}
}

func TestUnbind(t *testing.T) {
	m := newTestManager()
	noop := func(key.Signal) bool { return true }

	m.Bind("ctrl+s", noop)
	m.PushScope("a")
	m.Bind("ctrl+s", noop)
	m.PushScope("b")

	if m.Unbind("ctrl+s", false) {
		t.Error("non-recursive Unbind should only search the top scope")
	}
	if !m.Unbind("ctrl+s", true) {
		t.Fatal("recursive Unbind should find the binding")
	}

	scopes := m.Stack().Scopes()
	if scopes[1].Has("ctrl+s") {
		t.Error("scope a should have lost ctrl+s")
	}
	if !scopes[2].Has("ctrl+s") {
		t.Error("global scope should still hold ctrl+s")
	}
}

func TestBindKeysAndBindAll(t *testing.T) {
	m := newTestManager()
	calls := 0
	action := func(key.Signal) bool { calls++; return true }

	m.BindKeys([]string{"Ctrl", "K"}, action)
	m.BindAll([]string{"ctrl+q", "ctrl + s"}, action)
	m.Bind("   ", action)

	chord(m, codeCtrl, codeK)
	chord(m, codeCtrl, codeQ)
	chord(m, codeCtrl, codeS)

	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if m.Stack().Top().Len() != 3 {
		t.Errorf("Len() = %d, want 3 (empty spec ignored)", m.Stack().Top().Len())
	}
}

func TestUnknownCodesIgnored(t *testing.T) {
	m := newTestManager()

	for _, code := range []int{0, 3, 255, 9999, -1} {
		if m.OnKeyDown(code, nil) {
			t.Errorf("OnKeyDown(%d) = true, want false", code)
		}
		if m.OnKeyUp(code, nil) {
			t.Errorf("OnKeyUp(%d) = true, want false", code)
		}
	}
	if got := m.Stats().Snapshot().UnknownKeys; got != 10 {
		t.Errorf("UnknownKeys = %d, want 10", got)
	}
	if m.State().Count() != 0 {
		t.Errorf("Count() = %d, want 0", m.State().Count())
	}
}

func TestNativeShortcutGuard(t *testing.T) {
	m := newTestManager()

	m.OnKeyDown(codeCtrl, nil)
	m.OnKeyDown(codeShift, nil)
	if !m.State().IsPressed("ctrl") || !m.State().IsPressed("shift") {
		t.Fatal("ctrl+shift should stay held")
	}

	m.OnKeyDown(codeK, nil)
	if m.State().Count() != 0 {
		t.Errorf("ctrl+shift+k should reset, %d keys still held", m.State().Count())
	}
}

func TestUnmatchedChordResets(t *testing.T) {
	m := newTestManager()

	m.OnKeyDown(codeCtrl, nil)
	m.OnKeyDown(codeQ, nil)

	if m.State().IsPressed("ctrl") || m.State().IsPressed("q") {
		t.Error("ctrl+q should release both keys")
	}
}

func TestReleaseDoesNotResolve(t *testing.T) {
	m := newTestManager()
	calls := 0
	m.Bind("ctrl", func(key.Signal) bool { calls++; return true })

	m.OnKeyDown(codeCtrl, nil)
	m.OnKeyDown(codeS, nil) // unmatched ctrl+s resets
	m.OnKeyUp(codeS, nil)

	if calls != 1 {
		t.Errorf("calls = %d, want 1 (release must not resolve)", calls)
	}
}

func TestObserver(t *testing.T) {
	m := newTestManager()
	var kinds []resolver.OutcomeKind
	m.Observe(func(o resolver.Outcome) { kinds = append(kinds, o.Kind) })
	m.Observe(func(resolver.Outcome) { panic("observer bug") })
	m.Bind("ctrl+s", func(key.Signal) bool { return true })

	chord(m, codeCtrl, codeS)

	want := []resolver.OutcomeKind{resolver.OutcomeUnmatched, resolver.OutcomeFired}
	if len(kinds) != len(want) || kinds[0] != want[0] || kinds[1] != want[1] {
		t.Errorf("observed %v, want %v", kinds, want)
	}
}

func TestStart(t *testing.T) {
	m := newTestManager()
	calls := 0
	m.Bind("ctrl+s", func(key.Signal) bool { calls++; return true })

	host := &fakeHost{}
	if err := m.Start(host); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := m.Start(host); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() error = %v, want ErrAlreadyStarted", err)
	}

	host.down(codeCtrl, nil)
	if !host.down(codeS, nil) {
		t.Error("host down handler should report handled")
	}
	host.up(codeS, nil)
	host.up(codeCtrl, nil)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestStartErrors(t *testing.T) {
	m := newTestManager()
	if err := m.Start(nil); err == nil {
		t.Error("Start(nil) should fail")
	}

	listenErr := errors.New("no window")
	if err := m.Start(&fakeHost{err: listenErr}); !errors.Is(err, listenErr) {
		t.Errorf("Start() error = %v, want wrapped listen error", err)
	}
	if err := m.Start(&fakeHost{}); err != nil {
		t.Errorf("Start() after failed attempt error = %v", err)
	}
}

func TestGroupedGuardOption(t *testing.T) {
	m := newTestManager(WithGuard(resolver.GroupedGuard))

	m.OnKeyDown(codeShift, nil)
	m.OnKeyDown(codeK, nil)

	if m.State().Count() != 0 {
		t.Error("grouped guard should reset shift+k")
	}
}
