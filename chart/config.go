// Package chart implements the rendering and interaction engine for
// multi-series time-value line charts: scale building, axis/grid/series/
// legend rendering with keyed reconciliation, animated transitions and
// the pointer-driven cursor/tooltip controller.
package chart

import "time"

// Row is an opaque data record. The engine never reads fields directly;
// all access goes through the configured accessors.
type Row = any

// TimeAccessor extracts the independent (time) variable from a row.
type TimeAccessor func(Row) time.Time

// ValueAccessor extracts one series' dependent value from a row.
type ValueAccessor func(Row) float64

// Series describes one plotted series. Label is the identity key used
// for reconciliation across renders: it must be stable and unique within
// a config. Color, when set, overrides the assigned palette color.
type Series struct {
	Label    string
	Accessor ValueAccessor
	Color    string
}

// Config is the per-render input: the full dataset and how to read it.
// It is supplied wholesale on every render; the engine keeps no
// incremental mutation API.
type Config struct {
	// Data must be sorted by ascending time accessor output. The engine
	// does not sort defensively; unsorted data breaks nearest-point
	// lookup.
	Data []Row

	Time   TimeAccessor
	Series []Series
}

// Margins are the plotting-area margins in surface pixels.
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// DefaultMargins leave room for tick labels and axis titles.
func DefaultMargins() Margins {
	return Margins{Top: 20, Right: 20, Bottom: 40, Left: 55}
}
