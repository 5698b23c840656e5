package key

import (
	"fmt"
	"time"
)

// SignalKind distinguishes key-down from key-up signals.
type SignalKind uint8

const (
	// Down indicates the key was pressed.
	Down SignalKind = iota
	// Up indicates the key was released.
	Up
)

// String returns "down" or "up".
func (k SignalKind) String() string {
	switch k {
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return fmt.Sprintf("SignalKind(%d)", k)
	}
}

// Signal is a raw key transition delivered by the host input layer.
type Signal struct {
	// Code is the physical key code.
	Code int

	// Kind is Down or Up.
	Kind SignalKind

	// Raw is the host's original event, passed through untouched.
	Raw any

	// Timestamp is when the signal was received.
	Timestamp time.Time
}

// NewSignal creates a signal with the current timestamp.
func NewSignal(code int, kind SignalKind, raw any) Signal {
	return Signal{
		Code:      code,
		Kind:      kind,
		Raw:       raw,
		Timestamp: time.Now(),
	}
}

// IsDown returns true for key-down signals.
func (s Signal) IsDown() bool {
	return s.Kind == Down
}

// GoString implements fmt.GoStringer for debugging.
func (s Signal) GoString() string {
	return fmt.Sprintf("Signal{Code: %d, Kind: %s}", s.Code, s.Kind)
}
