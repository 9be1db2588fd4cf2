// Package anim schedules time-boxed attribute transitions for the chart
// engine. Transitions are fire-and-forget: starting one never blocks, and
// starting a new transition under a key that already has one in flight
// supersedes it; the old transition is dropped, never queued.
//
// The scheduler is cooperative: it only moves when the host pumps Step.
// All calls must come from the same goroutine that owns the drawing
// surface; the scheduler performs no locking of its own.
package anim

import (
	"time"

	"github.com/raykavin/timechart/core"
)

// Apply receives the transition progress in [0, 1] and mutates whatever
// the transition animates. It is always called with 0 on start (unless
// the duration is zero) and with exactly 1 on completion.
type Apply func(progress float64)

type transition struct {
	start time.Time
	end   time.Time
	apply Apply
}

// Scheduler tracks in-flight transitions by key.
type Scheduler struct {
	clock  core.Clock
	active map[string]*transition
}

// NewScheduler creates a scheduler reading time from clock.
func NewScheduler(clock core.Clock) *Scheduler {
	return &Scheduler{
		clock:  clock,
		active: make(map[string]*transition),
	}
}

// Start begins a transition under key, superseding any in-flight
// transition with the same key. A non-positive duration applies the
// final state immediately and schedules nothing.
func (s *Scheduler) Start(key string, duration time.Duration, apply Apply) {
	if duration <= 0 {
		delete(s.active, key)
		apply(1)
		return
	}

	now := s.clock.Now()
	s.active[key] = &transition{
		start: now,
		end:   now.Add(duration),
		apply: apply,
	}
	apply(0)
}

// Stop drops the in-flight transition under key, if any, without
// applying its final state.
func (s *Scheduler) Stop(key string) {
	delete(s.active, key)
}

// StopAll drops every in-flight transition.
func (s *Scheduler) StopAll() {
	clear(s.active)
}

// Active reports whether a transition is in flight under key.
func (s *Scheduler) Active(key string) bool {
	_, ok := s.active[key]
	return ok
}

// Step advances every in-flight transition to now and reports whether
// any remain in flight afterwards.
func (s *Scheduler) Step(now time.Time) bool {
	for key, tr := range s.active {
		progress := float64(now.Sub(tr.start)) / float64(tr.end.Sub(tr.start))
		if progress >= 1 {
			delete(s.active, key)
			tr.apply(1)
			continue
		}
		if progress > 0 {
			tr.apply(progress)
		}
	}
	return len(s.active) > 0
}
