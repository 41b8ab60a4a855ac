// Package clock holds the arithmetic of a two-sided chess clock with
// per-move increment. It has no goroutines; callers supply the current
// time and serialize access.
package clock

import (
	"errors"
	"fmt"
	"time"

	"termchess-local/types"
)

// ErrInvalidConfiguration is returned for a non-positive base time or a
// negative increment.
var ErrInvalidConfiguration = errors.New("invalid time control")

// State is the clock of one game. Times are whole seconds.
type State struct {
	Remaining     [2]int // indexed by types.Color
	Increment     int
	Active        types.Color
	MoveStartedAt time.Time

	// Spent carries time used in the current turn before a pause.
	Spent  time.Duration
	Paused bool
}

// Validate checks a time control without building a clock.
func Validate(base, increment int) error {
	if base <= 0 {
		return fmt.Errorf("%w: base time must be positive, got %ds", ErrInvalidConfiguration, base)
	}
	if increment < 0 {
		return fmt.Errorf("%w: increment must not be negative, got %ds", ErrInvalidConfiguration, increment)
	}
	return nil
}

// New creates a clock with both sides at base seconds and White to move,
// the turn starting at now.
func New(base, increment int, now time.Time) (*State, error) {
	if err := Validate(base, increment); err != nil {
		return nil, err
	}
	return &State{
		Remaining:     [2]int{base, base},
		Increment:     increment,
		Active:        types.White,
		MoveStartedAt: now,
	}, nil
}

// Elapsed returns the whole seconds the active side has used this turn.
func (s *State) Elapsed(now time.Time) int {
	d := s.Spent
	if !s.Paused {
		d += now.Sub(s.MoveStartedAt)
	}
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

// Displayed returns the time to show for c: the live countdown for the
// active side, the frozen remaining time for the idle side.
func (s *State) Displayed(c types.Color, now time.Time) int {
	if c != s.Active {
		return s.Remaining[c]
	}
	left := s.Remaining[c] - s.Elapsed(now)
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether the active side's displayed time is zero.
func (s *State) Expired(now time.Time) bool {
	return s.Displayed(s.Active, now) == 0
}

// Settle closes the active side's turn at now. If the elapsed time uses up
// everything left (remaining - elapsed <= 0, compared before any clamp or
// increment) the side has flagged: its remaining time becomes 0, no
// increment is added and the turn does not pass. Otherwise the elapsed
// time is deducted, the increment added, and the other side starts its
// turn at now.
func (s *State) Settle(now time.Time) (elapsed int, flagged bool) {
	elapsed = s.Elapsed(now)
	left := s.Remaining[s.Active] - elapsed
	if left <= 0 {
		s.Remaining[s.Active] = 0
		return elapsed, true
	}
	s.Remaining[s.Active] = left + s.Increment
	s.Active = s.Active.Opponent()
	s.MoveStartedAt = now
	s.Spent = 0
	return elapsed, false
}

// Flag zeroes the active side's remaining time.
func (s *State) Flag() {
	s.Remaining[s.Active] = 0
}

// Pause stops the countdown, banking the time used so far this turn.
func (s *State) Pause(now time.Time) {
	if s.Paused {
		return
	}
	s.Spent += now.Sub(s.MoveStartedAt)
	if s.Spent < 0 {
		s.Spent = 0
	}
	s.Paused = true
}

// Resume restarts the countdown from now.
func (s *State) Resume(now time.Time) {
	if !s.Paused {
		return
	}
	s.MoveStartedAt = now
	s.Paused = false
}

// Format renders seconds as m:ss.
func Format(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
