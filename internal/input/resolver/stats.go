package resolver

import (
	"sync/atomic"
	"time"
)

// Stats counts resolver outcomes. Counters may be read from any goroutine.
type Stats struct {
	presses   atomic.Uint64
	fired     atomic.Uint64
	unmatched atomic.Uint64
	guarded   atomic.Uint64
	resets    atomic.Uint64
	failures  atomic.Uint64
	unknown   atomic.Uint64

	// Peak action latency in nanoseconds.
	peakAction atomic.Int64

	startTime time.Time
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Presses     uint64
	Fired       uint64
	Unmatched   uint64
	Guarded     uint64
	Resets      uint64
	Failures    uint64
	UnknownKeys uint64
	PeakAction  time.Duration
	Uptime      time.Duration
}

func newStats() *Stats {
	return &Stats{startTime: time.Now()}
}

func (s *Stats) record(o Outcome) {
	s.presses.Add(1)
	switch o.Kind {
	case OutcomeFired:
		s.fired.Add(1)
	case OutcomeUnmatched:
		s.unmatched.Add(1)
	case OutcomeGuarded:
		s.guarded.Add(1)
	case OutcomeReset:
		s.resets.Add(1)
	case OutcomeFailed:
		s.failures.Add(1)
	}
}

// RecordUnknownKey counts a signal whose code is not in the key table.
func (s *Stats) RecordUnknownKey() {
	s.unknown.Add(1)
}

func (s *Stats) recordActionLatency(d time.Duration) {
	ns := d.Nanoseconds()
	for {
		current := s.peakAction.Load()
		if ns <= current {
			return
		}
		if s.peakAction.CompareAndSwap(current, ns) {
			return
		}
	}
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Presses:     s.presses.Load(),
		Fired:       s.fired.Load(),
		Unmatched:   s.unmatched.Load(),
		Guarded:     s.guarded.Load(),
		Resets:      s.resets.Load(),
		Failures:    s.failures.Load(),
		UnknownKeys: s.unknown.Load(),
		PeakAction:  time.Duration(s.peakAction.Load()),
		Uptime:      time.Since(s.startTime),
	}
}
