package chart

import (
	"math"
	"time"
)

// LinearScale is a monotonic mapping from a numeric domain onto a pixel
// interval. The range may be inverted (r0 > r1), which is how the value
// axis maps growing values onto shrinking pixel Y.
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinearScale builds a linear scale. A degenerate domain (d0 == d1)
// is padded by one unit on each side so the scale stays invertible.
func NewLinearScale(d0, d1, r0, r1 float64) *LinearScale {
	if d0 == d1 {
		d0, d1 = d0-1, d1+1
	}
	return &LinearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the current domain bounds.
func (s *LinearScale) Domain() (float64, float64) { return s.d0, s.d1 }

// Range returns the pixel range bounds.
func (s *LinearScale) Range() (float64, float64) { return s.r0, s.r1 }

// Map converts a domain value to a pixel coordinate.
func (s *LinearScale) Map(v float64) float64 {
	return s.r0 + (v-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// Invert converts a pixel coordinate back to a domain value.
func (s *LinearScale) Invert(px float64) float64 {
	return s.d0 + (px-s.r0)/(s.r1-s.r0)*(s.d1-s.d0)
}

// Nice expands the domain outward to multiples of the tick step that
// Ticks(count) would use, so tick labels land on round numbers.
func (s *LinearScale) Nice(count int) *LinearScale {
	step := tickStep(s.d0, s.d1, count)
	if step > 0 {
		s.d0 = math.Floor(s.d0/step) * step
		s.d1 = math.Ceil(s.d1/step) * step
	}
	return s
}

// Ticks returns round domain values covering the domain. The count is
// advisory: the result lands on 1/2/5 multiples of a power of ten and
// may be slightly more or fewer than requested.
func (s *LinearScale) Ticks(count int) []float64 {
	step := tickStep(s.d0, s.d1, count)
	if step <= 0 {
		return []float64{s.d0}
	}

	start := math.Ceil(s.d0/step) * step
	var ticks []float64
	for v := start; v <= s.d1+step/1e6; v += step {
		// Snap accumulated float error back onto the step grid.
		ticks = append(ticks, math.Round(v/step)*step)
	}
	return ticks
}

// tickStep returns the 1/2/5-rounded step that divides [start, stop]
// into roughly count intervals.
func tickStep(start, stop float64, count int) float64 {
	if count < 1 {
		count = 1
	}
	span := math.Abs(stop - start)
	if span == 0 {
		return 0
	}

	step0 := span / float64(count)
	step1 := math.Pow(10, math.Floor(math.Log10(step0)))
	switch err := step0 / step1; {
	case err >= math.Sqrt(50):
		step1 *= 10
	case err >= math.Sqrt(10):
		step1 *= 5
	case err >= math.Sqrt2:
		step1 *= 2
	}
	return step1
}

// TimeScale is a monotonic mapping from a time domain onto a pixel
// interval.
type TimeScale struct {
	d0, d1 time.Time
	r0, r1 float64
}

// NewTimeScale builds a time scale. A degenerate domain (d0 == d1) is
// padded by one hour on each side.
func NewTimeScale(d0, d1 time.Time, r0, r1 float64) *TimeScale {
	if !d0.Before(d1) {
		d0, d1 = d0.Add(-time.Hour), d1.Add(time.Hour)
	}
	return &TimeScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Domain returns the current domain bounds.
func (s *TimeScale) Domain() (time.Time, time.Time) { return s.d0, s.d1 }

// Range returns the pixel range bounds.
func (s *TimeScale) Range() (float64, float64) { return s.r0, s.r1 }

// Map converts a time to a pixel coordinate.
func (s *TimeScale) Map(t time.Time) float64 {
	span := float64(s.d1.Sub(s.d0))
	return s.r0 + float64(t.Sub(s.d0))/span*(s.r1-s.r0)
}

// Invert converts a pixel coordinate back to a time.
func (s *TimeScale) Invert(px float64) time.Time {
	span := float64(s.d1.Sub(s.d0))
	offset := (px - s.r0) / (s.r1 - s.r0) * span
	return s.d0.Add(time.Duration(offset))
}

// Nice expands the domain outward to boundaries of the tick interval
// Ticks(count) would pick, so tick labels land on round time units.
func (s *TimeScale) Nice(count int) *TimeScale {
	iv := pickTimeInterval(s.d1.Sub(s.d0), count)
	s.d0 = iv.floor(s.d0)
	if ceiled := iv.floor(s.d1); ceiled.Before(s.d1) {
		s.d1 = iv.next(ceiled)
	}
	return s
}

// Ticks returns round times covering the domain. The count is advisory.
func (s *TimeScale) Ticks(count int) []time.Time {
	iv := pickTimeInterval(s.d1.Sub(s.d0), count)

	var ticks []time.Time
	t := iv.floor(s.d0)
	if t.Before(s.d0) {
		t = iv.next(t)
	}
	for !t.After(s.d1) {
		ticks = append(ticks, t)
		t = iv.next(t)
	}
	return ticks
}

// timeInterval is one "nice" tick unit: a nominal width for selection,
// a floor onto the unit grid and a successor function.
type timeInterval struct {
	width time.Duration
	floor func(time.Time) time.Time
	next  func(time.Time) time.Time
}

func durationInterval(d time.Duration) timeInterval {
	return timeInterval{
		width: d,
		floor: func(t time.Time) time.Time { return t.Truncate(d) },
		next:  func(t time.Time) time.Time { return t.Add(d) },
	}
}

func dayInterval(days int) timeInterval {
	return timeInterval{
		width: time.Duration(days) * 24 * time.Hour,
		floor: func(t time.Time) time.Time {
			year, month, day := t.Date()
			return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
		},
		next: func(t time.Time) time.Time { return t.AddDate(0, 0, days) },
	}
}

func weekInterval() timeInterval {
	return timeInterval{
		width: 7 * 24 * time.Hour,
		floor: func(t time.Time) time.Time {
			year, month, day := t.Date()
			t = time.Date(year, month, day, 0, 0, 0, 0, t.Location())
			// Back up to Monday.
			offset := (int(t.Weekday()) + 6) % 7
			return t.AddDate(0, 0, -offset)
		},
		next: func(t time.Time) time.Time { return t.AddDate(0, 0, 7) },
	}
}

func monthInterval(months int) timeInterval {
	return timeInterval{
		width: time.Duration(months) * 30 * 24 * time.Hour,
		floor: func(t time.Time) time.Time {
			year, month, _ := t.Date()
			m := (int(month) - 1) / months * months
			return time.Date(year, time.Month(m+1), 1, 0, 0, 0, 0, t.Location())
		},
		next: func(t time.Time) time.Time { return t.AddDate(0, months, 0) },
	}
}

func yearInterval(years int) timeInterval {
	return timeInterval{
		width: time.Duration(years) * 365 * 24 * time.Hour,
		floor: func(t time.Time) time.Time {
			y := t.Year() / years * years
			return time.Date(y, time.January, 1, 0, 0, 0, 0, t.Location())
		},
		next: func(t time.Time) time.Time { return t.AddDate(years, 0, 0) },
	}
}

var tickIntervals = []timeInterval{
	durationInterval(time.Second),
	durationInterval(5 * time.Second),
	durationInterval(15 * time.Second),
	durationInterval(30 * time.Second),
	durationInterval(time.Minute),
	durationInterval(5 * time.Minute),
	durationInterval(15 * time.Minute),
	durationInterval(30 * time.Minute),
	durationInterval(time.Hour),
	durationInterval(3 * time.Hour),
	durationInterval(6 * time.Hour),
	durationInterval(12 * time.Hour),
	dayInterval(1),
	dayInterval(2),
	weekInterval(),
	monthInterval(1),
	monthInterval(3),
	yearInterval(1),
}

// pickTimeInterval selects the smallest tick unit that yields at most
// roughly count ticks over span. Spans beyond a year per tick fall back
// to 1/2/5-stepped multi-year intervals.
func pickTimeInterval(span time.Duration, count int) timeInterval {
	if count < 1 {
		count = 1
	}
	target := span / time.Duration(count)

	for i, iv := range tickIntervals {
		if iv.width >= target {
			// Between two candidates, prefer the one closer to target.
			if i > 0 && target-tickIntervals[i-1].width < iv.width-target {
				return tickIntervals[i-1]
			}
			return iv
		}
	}

	year := 365 * 24 * time.Hour
	years := int(tickStep(0, float64(target)/float64(year), 1))
	if years < 1 {
		years = 1
	}
	return yearInterval(years)
}
