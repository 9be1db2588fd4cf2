package core

import "time"

// Clock abstracts the time source used by animated transitions, the
// pointer-move throttle and the tooltip hide debounce. The engine never
// sleeps on the clock; it only reads it, so tests can substitute a
// manually advanced implementation.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// RealClock returns a Clock backed by time.Now.
func RealClock() Clock { return realClock{} }
