package chart

import (
	"sort"
	"time"

	"github.com/raykavin/timechart/core"
	"github.com/raykavin/timechart/svg"
)

// Tooltip is the collaborator that presents row details when the pointer
// hovers a marker. Show is keyed by row by the cursor controller, so a
// re-entry on the same row never causes a hide/show flash.
type Tooltip interface {
	Show(row Row, anchor *svg.Element)
	Hide()
}

const (
	// DefaultThrottle bounds pointer-move work to roughly one update
	// per frame.
	DefaultThrottle = 16 * time.Millisecond

	// DefaultHideDelay keeps the tooltip up while the pointer jumps
	// between adjacent markers.
	DefaultHideDelay = 40 * time.Millisecond
)

type cursorSeries struct {
	label    string
	color    string
	accessor ValueAccessor
}

// Cursor tracks the pointer over the plotting area, resolves the nearest
// row by time and drives the guide line, per-series markers and the
// tooltip show/hide lifecycle.
//
// All methods must be called from the goroutine that owns the drawing
// surface. Pointer handlers never mutate scales; they only read the
// bindings installed by the last render pass.
type Cursor struct {
	log       core.Logger
	clock     core.Clock
	tooltip   Tooltip
	throttle  time.Duration
	hideDelay time.Duration

	// Bindings are replaced wholesale by Rebind on every render pass;
	// anything captured before that is stale by definition.
	layer   *svg.Element
	ts      *TimeScale
	vs      *LinearScale
	f       frame
	rows    []Row
	times   []time.Time
	series  []cursorSeries
	guide   *svg.Element
	markers map[string]*svg.Element

	lastMove  time.Time
	activeIdx int
	shownIdx  int
	hideAt    time.Time
}

// NewCursor creates an idle cursor controller. It stays inert until the
// first Rebind installs scales and data.
func NewCursor(log core.Logger, clock core.Clock, tooltip Tooltip, throttle, hideDelay time.Duration) *Cursor {
	if throttle <= 0 {
		throttle = DefaultThrottle
	}
	if hideDelay <= 0 {
		hideDelay = DefaultHideDelay
	}
	return &Cursor{
		log:       log,
		clock:     clock,
		tooltip:   tooltip,
		throttle:  throttle,
		hideDelay: hideDelay,
		activeIdx: -1,
		shownIdx:  -1,
	}
}

// Rebind replaces the cursor's scales, data and overlay elements with the
// ones from the render pass that just completed. The previous wiring is
// dropped entirely: scales captured by earlier events are stale the
// moment the new pass builds new ones. The tracked index resets so the
// next pointer event is a fresh lookup.
func (c *Cursor) Rebind(layer *svg.Element, ts *TimeScale, vs *LinearScale, f frame, cfg Config, colors ColorAssigner) {
	layer.Clear()

	c.layer = layer
	c.ts = ts
	c.vs = vs
	c.f = f
	c.rows = cfg.Data

	c.times = make([]time.Time, len(cfg.Data))
	for i, row := range cfg.Data {
		c.times[i] = cfg.Time(row)
	}

	c.series = make([]cursorSeries, len(cfg.Series))
	c.markers = make(map[string]*svg.Element, len(cfg.Series))

	c.guide = layer.Append("line").SetClass("cursor-guide")
	c.guide.SetAttr("stroke", "#999").
		SetAttr("stroke-dasharray", "3,3").
		SetAttr("visibility", "hidden")

	for i, s := range cfg.Series {
		color := s.Color
		if color == "" {
			color = colors.Color(s.Label)
		}
		c.series[i] = cursorSeries{label: s.Label, color: color, accessor: s.Accessor}

		marker := layer.Append("circle").SetKey(s.Label).SetClass("cursor-marker")
		marker.SetAttr("r", "4").
			SetAttr("fill", color).
			SetAttr("stroke", "#fff").
			SetAttr("visibility", "hidden")
		c.markers[s.Label] = marker
	}

	c.activeIdx = -1
	c.shownIdx = -1
	c.hideAt = time.Time{}
}

// PointerMove handles a pointer position in surface pixels. Moves are
// throttled; positions outside the plotting area behave like PointerLeave.
func (c *Cursor) PointerMove(x, y float64) {
	if c.layer == nil || len(c.times) == 0 {
		return
	}

	if x < c.f.innerLeft || x > c.f.innerRight || y < c.f.innerTop || y > c.f.innerBottom {
		c.PointerLeave()
		return
	}

	now := c.clock.Now()
	if !c.lastMove.IsZero() && now.Sub(c.lastMove) < c.throttle {
		return
	}
	c.lastMove = now

	idx := nearestIndex(c.times, c.ts.Invert(x))
	if idx == c.activeIdx {
		return
	}
	c.activeIdx = idx

	gx := fmtPx(c.ts.Map(c.times[idx]))
	c.guide.SetAttr("x1", gx).SetAttr("x2", gx).
		SetAttr("y1", fmtPx(c.f.innerTop)).
		SetAttr("y2", fmtPx(c.f.innerBottom)).
		SetAttr("visibility", "visible")

	row := c.rows[idx]
	for _, s := range c.series {
		marker := c.markers[s.label]
		if marker == nil {
			continue
		}
		marker.SetAttr("cx", gx).
			SetAttr("cy", fmtPx(c.vs.Map(s.accessor(row)))).
			SetAttr("visibility", "visible")
	}
}

// MarkerEnter handles the pointer entering a marker's hit area. A show
// for the row already on display is a no-op; a pending hide is canceled.
func (c *Cursor) MarkerEnter(label string) {
	if c.tooltip == nil || c.activeIdx < 0 {
		return
	}

	c.hideAt = time.Time{}
	if c.shownIdx == c.activeIdx {
		return
	}
	c.shownIdx = c.activeIdx
	c.tooltip.Show(c.rows[c.activeIdx], c.markers[label])
}

// MarkerLeave schedules a tooltip hide after the configured delay so
// that hopping between adjacent markers does not flash the tooltip.
func (c *Cursor) MarkerLeave() {
	if c.tooltip == nil || c.shownIdx < 0 {
		return
	}
	c.hideAt = c.clock.Now().Add(c.hideDelay)
}

// PointerLeave handles the pointer leaving the plotting bounds: guide and
// markers hide immediately and the tracked index resets so the next
// entry is treated as a fresh lookup.
func (c *Cursor) PointerLeave() {
	if c.layer == nil {
		return
	}

	if c.guide != nil {
		c.guide.SetAttr("visibility", "hidden")
	}
	for _, marker := range c.markers {
		marker.SetAttr("visibility", "hidden")
	}

	c.activeIdx = -1
	c.lastMove = time.Time{}
	c.hideAt = time.Time{}
	if c.shownIdx >= 0 && c.tooltip != nil {
		c.tooltip.Hide()
	}
	c.shownIdx = -1
}

// Step flushes a due pending hide. The host pumps it alongside the
// animation scheduler.
func (c *Cursor) Step(now time.Time) {
	if c.hideAt.IsZero() || now.Before(c.hideAt) {
		return
	}
	c.hideAt = time.Time{}
	c.shownIdx = -1
	if c.tooltip != nil {
		c.tooltip.Hide()
	}
}

// ActiveIndex returns the currently highlighted row index, or -1.
func (c *Cursor) ActiveIndex() int { return c.activeIdx }

// nearestIndex returns the index of the element of times closest to q.
// times must be non-decreasing; ties resolve toward the lower index. The
// result is always clamped into [0, len(times)-1].
func nearestIndex(times []time.Time, q time.Time) int {
	i := sort.Search(len(times), func(i int) bool { return !times[i].Before(q) })
	if i == 0 {
		return 0
	}
	if i >= len(times) {
		return len(times) - 1
	}
	if q.Sub(times[i-1]) <= times[i].Sub(q) {
		return i - 1
	}
	return i
}
