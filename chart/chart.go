package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/raykavin/timechart/anim"
	"github.com/raykavin/timechart/core"
	"github.com/raykavin/timechart/svg"

	"github.com/samber/lo"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// frame is the plotting area computed from the surface size and margins.
type frame struct {
	innerLeft   float64
	innerTop    float64
	innerRight  float64
	innerBottom float64
	innerW      float64
	innerH      float64
}

// layers are the chart's element groups inside the drawing surface. Each
// render pass finds or creates them once and then reconciles into them.
type layers struct {
	root    *svg.Element
	grid    *svg.Element
	xAxis   *svg.Element
	yAxis   *svg.Element
	series  *svg.Element
	legend  *svg.Element
	overlay *svg.Element
}

// TimeChart renders a multi-series time-value dataset onto a drawing
// surface and drives its pointer interaction. Layout and formatting are
// fixed at construction through options; data and accessors arrive
// wholesale with every Render call.
type TimeChart struct {
	log    core.Logger
	clock  core.Clock
	sched  *anim.Scheduler
	colors ColorAssigner

	margins     Margins
	xTickCount  int
	yTickCount  int
	timeFormat  string
	valueFormat string
	xTitle      string
	yTitle      string
	curved      bool
	static      bool
	transition  time.Duration
	tooltip     Tooltip
	throttle    time.Duration
	hideDelay   time.Duration

	cursor        *Cursor
	pointsByLabel map[string][]point

	// Render state, derived on every pass.
	ts        *TimeScale
	vs        *LinearScale
	lastFrame frame
}

// Option configures a TimeChart instance.
type Option func(*TimeChart)

// WithClock sets the time source for transitions and pointer timing.
func WithClock(clock core.Clock) Option {
	return func(c *TimeChart) { c.clock = clock }
}

// WithColorAssigner replaces the default palette.
func WithColorAssigner(colors ColorAssigner) Option {
	return func(c *TimeChart) { c.colors = colors }
}

// WithMargins sets the plotting-area margins.
func WithMargins(m Margins) Option {
	return func(c *TimeChart) { c.margins = m }
}

// WithTickCounts sets the advisory tick counts for both axes.
func WithTickCounts(x, y int) Option {
	return func(c *TimeChart) { c.xTickCount, c.yTickCount = x, y }
}

// WithTimeFormat sets the time axis label layout (Go reference layout).
func WithTimeFormat(layout string) Option {
	return func(c *TimeChart) { c.timeFormat = layout }
}

// WithValueFormat sets the value axis printf pattern, e.g. "%.2f".
func WithValueFormat(pattern string) Option {
	return func(c *TimeChart) { c.valueFormat = pattern }
}

// WithAxisTitles sets the axis title texts; empty strings render nothing.
func WithAxisTitles(x, y string) Option {
	return func(c *TimeChart) { c.xTitle, c.yTitle = x, y }
}

// WithCurve joins points with a monotone curve instead of straight
// segments. The scales are unaffected.
func WithCurve() Option {
	return func(c *TimeChart) { c.curved = true }
}

// WithStatic disables all pointer interaction.
func WithStatic() Option {
	return func(c *TimeChart) { c.static = true }
}

// WithTransition sets the duration of draw-in and morph transitions.
// Zero disables animation: final states apply immediately.
func WithTransition(d time.Duration) Option {
	return func(c *TimeChart) {
		if d >= 0 {
			c.transition = d
		}
	}
}

// WithTooltip installs the tooltip collaborator.
func WithTooltip(t Tooltip) Option {
	return func(c *TimeChart) { c.tooltip = t }
}

// WithPointerTiming overrides the pointer-move throttle and the tooltip
// hide delay. Non-positive values keep the defaults.
func WithPointerTiming(throttle, hideDelay time.Duration) Option {
	return func(c *TimeChart) { c.throttle, c.hideDelay = throttle, hideDelay }
}

// ParseDuration parses human-friendly duration strings such as "750ms"
// or "1.5s", as accepted by chart options on the CLI.
func ParseDuration(s string) (time.Duration, error) {
	return str2duration.ParseDuration(s)
}

// New creates a chart with the provided options.
func New(log core.Logger, options ...Option) *TimeChart {
	c := &TimeChart{
		log:           log,
		clock:         core.RealClock(),
		colors:        NewPalette(),
		margins:       DefaultMargins(),
		xTickCount:    6,
		yTickCount:    5,
		timeFormat:    "2006-01-02",
		valueFormat:   "%g",
		transition:    750 * time.Millisecond,
		pointsByLabel: make(map[string][]point),
	}

	for _, option := range options {
		option(c)
	}

	c.sched = anim.NewScheduler(c.clock)
	c.cursor = NewCursor(log, c.clock, c.tooltip, c.throttle, c.hideDelay)
	return c
}

// Render performs one full pass: validate, build scales, draw axes,
// reconcile series and legend, then rewire the cursor over the finished
// drawing. Every failure is detected before the surface is touched; the
// pass is abandoned with a warning and the previous visual state stays
// intact. Render never panics under documented misuse.
func (c *TimeChart) Render(doc *svg.Document, cfg Config) error {
	if reason, err := validate(cfg, c.colors); reason != ReasonValid {
		c.log.Warn("render aborted: ", err)
		return err
	}

	if doc == nil || doc.Width() <= 0 || doc.Height() <= 0 {
		err := fmt.Errorf("%w: surface has no size", core.ErrResource)
		c.log.Warn("render aborted: ", err)
		return err
	}

	f := frame{
		innerLeft:   c.margins.Left,
		innerTop:    c.margins.Top,
		innerRight:  doc.Width() - c.margins.Right,
		innerBottom: doc.Height() - c.margins.Bottom,
	}
	f.innerW = f.innerRight - f.innerLeft
	f.innerH = f.innerBottom - f.innerTop
	if f.innerW <= 0 || f.innerH <= 0 {
		err := fmt.Errorf("%w: plotting area is %gx%g after margins", core.ErrDomain, f.innerW, f.innerH)
		c.log.Warn("render aborted: ", err)
		return err
	}

	times := lo.Map(cfg.Data, func(row Row, _ int) time.Time { return cfg.Time(row) })
	for _, t := range times {
		if t.IsZero() {
			err := fmt.Errorf("%w: time accessor returned a zero time", core.ErrDomain)
			c.log.Warn("render aborted: ", err)
			return err
		}
	}
	minTime := lo.MinBy(times, func(a, b time.Time) bool { return a.Before(b) })
	maxTime := lo.MaxBy(times, func(a, b time.Time) bool { return a.After(b) })

	// One shared value domain across every series, never per-series.
	minVal, maxVal, err := valueExtent(cfg)
	if err != nil {
		c.log.Warn("render aborted: ", err)
		return err
	}

	ts := NewTimeScale(minTime, maxTime, f.innerLeft, f.innerRight).Nice(c.xTickCount)
	// Pixel Y grows downward while value grows upward, so the range is
	// inverted.
	vs := NewLinearScale(minVal, maxVal, f.innerBottom, f.innerTop).Nice(c.yTickCount)

	labels := lo.Map(cfg.Series, func(s Series, _ int) string { return s.Label })
	if p, ok := c.colors.(*Palette); ok {
		p.SetDomain(labels)
	}

	l := c.ensureLayers(doc)
	c.renderAxes(l, f, ts, vs)
	c.renderSeries(l, cfg, ts, vs)
	c.renderLegend(l, f, cfg)

	if c.static {
		l.overlay.Clear()
	} else {
		c.cursor.Rebind(l.overlay, ts, vs, f, cfg, c.colors)
	}

	c.ts, c.vs, c.lastFrame = ts, vs, f
	c.log.Debugf("rendered %d series over %d rows", len(cfg.Series), len(cfg.Data))
	return nil
}

// valueExtent maps every row through every series accessor and returns
// the combined min and max. Non-finite outputs are a domain failure, not
// something to skip silently.
func valueExtent(cfg Config) (float64, float64, error) {
	var minVal, maxVal float64
	first := true
	for _, s := range cfg.Series {
		for _, row := range cfg.Data {
			v := s.Accessor(row)
			if !isFinite(v) {
				return 0, 0, fmt.Errorf("%w: series %q produced a non-finite value", core.ErrDomain, s.Label)
			}
			if first {
				minVal, maxVal = v, v
				first = false
				continue
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return minVal, maxVal, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Step advances in-flight transitions and the pending tooltip hide to
// now, reporting whether any transition remains active. The host pumps
// this from its frame source; tests pump it manually.
func (c *TimeChart) Step(now time.Time) bool {
	animating := c.sched.Step(now)
	c.cursor.Step(now)
	return animating
}

// Cursor exposes the pointer controller so the host can feed it events.
func (c *TimeChart) Cursor() *Cursor { return c.cursor }

// Scales returns the scales of the last completed render pass, or nils.
func (c *TimeChart) Scales() (*TimeScale, *LinearScale) { return c.ts, c.vs }

// ensureLayers finds the chart's element groups on the surface, creating
// them in paint order on first use.
func (c *TimeChart) ensureLayers(doc *svg.Document) *layers {
	root := findChildClass(doc.Root(), "timechart")
	if root == nil {
		root = doc.Root().Append("g").SetClass("timechart")
	}

	get := func(class string) *svg.Element {
		if el := findChildClass(root, class); el != nil {
			return el
		}
		return root.Append("g").SetClass(class)
	}

	return &layers{
		root:    root,
		grid:    get("grid"),
		xAxis:   get("x-axis"),
		yAxis:   get("y-axis"),
		series:  get("series"),
		legend:  get("legend"),
		overlay: get("overlay"),
	}
}

func findChildClass(parent *svg.Element, class string) *svg.Element {
	for _, el := range parent.Children() {
		if el.Class() == class {
			return el
		}
	}
	return nil
}
