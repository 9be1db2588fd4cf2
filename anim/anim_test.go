package anim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func TestScheduler_ZeroDurationAppliesFinalState(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := NewScheduler(clock)

	var got []float64
	s.Start("k", 0, func(p float64) { got = append(got, p) })

	require.Equal(t, []float64{1}, got)
	require.False(t, s.Active("k"))
	require.False(t, s.Step(clock.Now()))
}

func TestScheduler_ProgressesToCompletion(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := NewScheduler(clock)

	var last float64
	s.Start("k", time.Second, func(p float64) { last = p })
	require.Equal(t, 0.0, last)
	require.True(t, s.Active("k"))

	clock.Advance(500 * time.Millisecond)
	require.True(t, s.Step(clock.Now()))
	require.InDelta(t, 0.5, last, 1e-9)

	clock.Advance(600 * time.Millisecond)
	require.False(t, s.Step(clock.Now()))
	require.Equal(t, 1.0, last)
	require.False(t, s.Active("k"))
}

func TestScheduler_NewTransitionSupersedes(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := NewScheduler(clock)

	var first, second float64
	s.Start("k", time.Second, func(p float64) { first = p })

	clock.Advance(500 * time.Millisecond)
	s.Start("k", time.Second, func(p float64) { second = p })

	// The first apply never advances past its last observed progress.
	clock.Advance(2 * time.Second)
	require.False(t, s.Step(clock.Now()))
	require.Equal(t, 0.0, first)
	require.Equal(t, 1.0, second)
}

func TestScheduler_StopDropsWithoutFinalApply(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := NewScheduler(clock)

	var last float64
	s.Start("k", time.Second, func(p float64) { last = p })
	s.Stop("k")

	clock.Advance(2 * time.Second)
	require.False(t, s.Step(clock.Now()))
	require.Equal(t, 0.0, last)
}

func TestScheduler_IndependentKeys(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := NewScheduler(clock)

	var a, b float64
	s.Start("a", time.Second, func(p float64) { a = p })
	s.Start("b", 4*time.Second, func(p float64) { b = p })

	clock.Advance(2 * time.Second)
	require.True(t, s.Step(clock.Now()))
	require.Equal(t, 1.0, a)
	require.InDelta(t, 0.5, b, 1e-9)
}
