// Package common provides shared timing utilities.
package common

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Timer measures a single named interval.
type Timer struct {
	start    time.Time
	name     string
	duration time.Duration
}

// NewNamedTimer starts a timer with the given name.
func NewNamedTimer(name string) *Timer {
	return &Timer{name: name, start: time.Now()}
}

// Stop stops the timer and returns the elapsed duration.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the recorded duration (only valid after Stop()).
func (t *Timer) Duration() time.Duration { return t.duration }

// String returns "name: duration".
func (t *Timer) String() string {
	if t.name != "" {
		return fmt.Sprintf("%s: %v", t.name, t.duration)
	}
	return t.duration.String()
}

// StageTimer records consecutive laps of a multi-stage computation. Each Lap
// measures the time since the previous lap (or since creation).
type StageTimer struct {
	last  time.Time
	laps  map[string]time.Duration
	order []string
}

// NewStageTimer starts a stage timer.
func NewStageTimer() *StageTimer {
	return &StageTimer{last: time.Now(), laps: make(map[string]time.Duration)}
}

// Lap closes the current stage under name and starts the next one. Repeated
// names accumulate.
func (s *StageTimer) Lap(name string) time.Duration {
	now := time.Now()
	d := now.Sub(s.last)
	s.last = now
	if _, ok := s.laps[name]; !ok {
		s.order = append(s.order, name)
	}
	s.laps[name] += d
	return d
}

// Total returns the sum of all laps.
func (s *StageTimer) Total() time.Duration {
	var total time.Duration
	for _, d := range s.laps {
		total += d
	}
	return total
}

// CopyTo writes every lap into dst.
func (s *StageTimer) CopyTo(dst map[string]time.Duration) {
	for k, v := range s.laps {
		dst[k] = v
	}
}

// String lists the laps in the order they were first recorded.
func (s *StageTimer) String() string {
	parts := make([]string, 0, len(s.order))
	for _, name := range s.order {
		parts = append(parts, fmt.Sprintf("%s=%v", name, s.laps[name]))
	}
	return strings.Join(parts, " ")
}

// SortedStages returns the recorded stage names in alphabetical order.
func (s *StageTimer) SortedStages() []string {
	names := append([]string(nil), s.order...)
	sort.Strings(names)
	return names
}
