// Package terminal adapts a tcell screen into a shortcut host.
//
// Terminals report whole chords ("ctrl+s") rather than individual key
// transitions, so every key event is replayed as key-down signals for each
// part of the chord followed by key-up signals in reverse order.
package terminal

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/shortcuts/internal/shortcut"
)

// ErrAlreadyListening is returned by Listen when handlers are already set.
var ErrAlreadyListening = errors.New("terminal host already has listeners")

// Handler receives events that are not key chords, such as resizes and
// interrupts. Returning false stops Run.
type Handler func(ev tcell.Event) bool

// Terminal is a shortcut.Host backed by a tcell screen.
type Terminal struct {
	screen tcell.Screen
	logger *slog.Logger

	mu   sync.Mutex
	down shortcut.SignalFunc
	up   shortcut.SignalFunc
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Terminal) {
		if l != nil {
			t.logger = l
		}
	}
}

// New wraps an initialized screen.
func New(screen tcell.Screen, opts ...Option) *Terminal {
	t := &Terminal{
		screen: screen,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewScreen creates and initializes a tcell screen for the real terminal.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return screen, nil
}

// Screen returns the underlying screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// Listen implements shortcut.Host.
func (t *Terminal) Listen(down, up shortcut.SignalFunc) error {
	if down == nil || up == nil {
		return errors.New("terminal host: nil signal handler")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.down != nil {
		return ErrAlreadyListening
	}
	t.down, t.up = down, up
	return nil
}

// Dispatch replays a key event as signals. It returns true if any key-down
// was handled by a bound action.
func (t *Terminal) Dispatch(ev *tcell.EventKey) bool {
	t.mu.Lock()
	down, up := t.down, t.up
	t.mu.Unlock()

	if down == nil {
		return false
	}

	codes := Translate(ev)
	if len(codes) == 0 {
		t.logger.Debug("terminal key has no code", slog.String("key", ev.Name()))
		return false
	}

	handled := false
	for _, code := range codes {
		if down(code, ev) {
			handled = true
		}
	}
	for i := len(codes) - 1; i >= 0; i-- {
		up(codes[i], ev)
	}
	return handled
}

// Interrupt wakes Run with a custom payload, delivered to the handler as a
// *tcell.EventInterrupt. It is safe to call from any goroutine.
func (t *Terminal) Interrupt(data any) error {
	return t.screen.PostEvent(tcell.NewEventInterrupt(data))
}

// Run polls the screen until the handler returns false or the screen is
// finalized. Key events are dispatched as signals; unhandled key events and
// all other events go to handler.
func (t *Terminal) Run(handler Handler) {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}

		if kev, ok := ev.(*tcell.EventKey); ok {
			if t.Dispatch(kev) {
				continue
			}
		}
		if handler != nil && !handler(ev) {
			return
		}
	}
}

// Close finalizes the screen.
func (t *Terminal) Close() {
	t.screen.Fini()
}
