// Package repeat turns a held key into evenly spaced repeat events.
//
// A Scheduler tracks at most one held key. The caller fires the command for
// a key-down edge itself and then calls Press; every frame it calls Tick
// with the elapsed time and fires whatever Tick returns. Once the hold
// timer reaches the start delay plus one interval a repeat fires and the
// timer is pinned back to the start delay, so later repeats come exactly
// one interval apart.
package repeat

import (
	"time"

	"github.com/dshills/void/internal/input/key"
)

// Default timings.
const (
	DefaultStartDelay = 400 * time.Millisecond
	DefaultInterval   = 30 * time.Millisecond
)

// State is the scheduler's phase.
type State uint8

const (
	// StateIdle means no key is held.
	StateIdle State = iota
	// StateHolding means a key is held but has not reached the start delay.
	StateHolding
	// StateRepeating means the held key is past the start delay.
	StateRepeating
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateHolding:
		return "holding"
	case StateRepeating:
		return "repeating"
	default:
		return "idle"
	}
}

// Scheduler is the held-key state machine. It is not safe for concurrent
// use; it is driven from the frame loop only.
type Scheduler struct {
	startDelay time.Duration
	interval   time.Duration

	held    key.Event
	holding bool
	timer   time.Duration
}

// New creates an idle scheduler. Non-positive durations fall back to the
// defaults.
func New(startDelay, interval time.Duration) *Scheduler {
	s := &Scheduler{}
	s.SetTiming(startDelay, interval)
	return s
}

// SetTiming changes the delays. A held key keeps its accumulated time.
func (s *Scheduler) SetTiming(startDelay, interval time.Duration) {
	if startDelay <= 0 {
		startDelay = DefaultStartDelay
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	s.startDelay = startDelay
	s.interval = interval
}

// Timing returns the current start delay and interval.
func (s *Scheduler) Timing() (startDelay, interval time.Duration) {
	return s.startDelay, s.interval
}

// Press records a key-down edge. Any previously held key is dropped
// without a release.
func (s *Scheduler) Press(ev key.Event) {
	s.held = ev
	s.holding = true
	s.timer = 0
}

// Release records a key-up edge. Releasing a key other than the held one
// is ignored, since it was already preempted.
func (s *Scheduler) Release(k key.Key) {
	if s.holding && s.held.Key == k {
		s.Reset()
	}
}

// Reset returns to idle.
func (s *Scheduler) Reset() {
	s.held = key.Event{}
	s.holding = false
	s.timer = 0
}

// Tick advances the hold timer by dt and reports whether the held key
// should fire again. At most one repeat fires per tick.
func (s *Scheduler) Tick(dt time.Duration) (key.Event, bool) {
	if !s.holding {
		return key.Event{}, false
	}

	s.timer += dt
	if s.timer < s.startDelay+s.interval {
		return key.Event{}, false
	}
	s.timer = s.startDelay
	return s.held, true
}

// State returns the current phase.
func (s *Scheduler) State() State {
	switch {
	case !s.holding:
		return StateIdle
	case s.timer >= s.startDelay:
		return StateRepeating
	default:
		return StateHolding
	}
}

// Held returns the held key event, if any.
func (s *Scheduler) Held() (key.Event, bool) {
	return s.held, s.holding
}
