package chart

import (
	"math"

	"github.com/raykavin/timechart/svg"
)

type point struct{ x, y float64 }

// renderSeries reconciles one path element per series against the
// previous pass, keyed by label. Entering paths play a draw-in stroke
// animation, surviving paths refresh their color and morph their shape,
// exiting paths are removed immediately. Elements are re-appended in
// config order so later series draw on top.
func (c *TimeChart) renderSeries(l *layers, cfg Config, ts *TimeScale, vs *LinearScale) {
	existing := make(map[string]*svg.Element)
	var prevKeys []string
	for _, el := range l.series.Children() {
		if el.Class() == "series-line" {
			existing[el.Key()] = el
			prevKeys = append(prevKeys, el.Key())
		}
	}

	nextKeys := make([]string, len(cfg.Series))
	for i, s := range cfg.Series {
		nextKeys[i] = s.Label
	}
	join := keyedJoin(prevKeys, nextKeys)

	for _, label := range join.exit {
		c.sched.Stop("draw:" + label)
		c.sched.Stop("morph:" + label)
		existing[label].Remove()
		delete(existing, label)
		delete(c.pointsByLabel, label)
	}

	l.series.Clear()
	for _, s := range cfg.Series {
		pts := c.seriesPoints(cfg, s, ts, vs)
		color := s.Color
		if color == "" {
			color = c.colors.Color(s.Label)
		}

		if el, ok := existing[s.Label]; ok {
			l.series.Adopt(el)
			c.updateSeriesPath(el, s.Label, pts, color)
		} else {
			el := l.series.Append("path").SetKey(s.Label).SetClass("series-line")
			c.enterSeriesPath(el, s.Label, pts, color)
		}
		c.pointsByLabel[s.Label] = pts
	}
}

func (c *TimeChart) seriesPoints(cfg Config, s Series, ts *TimeScale, vs *LinearScale) []point {
	pts := make([]point, len(cfg.Data))
	for i, row := range cfg.Data {
		pts[i] = point{x: ts.Map(cfg.Time(row)), y: vs.Map(s.Accessor(row))}
	}
	return pts
}

// enterSeriesPath draws a new path and reveals it along its length: the
// dash offset animates from the full path length down to zero. The
// length is measured from the freshly built geometry before the
// transition starts.
func (c *TimeChart) enterSeriesPath(el *svg.Element, label string, pts []point, color string) {
	path := buildPath(pts, c.curved)
	el.SetAttr("d", path.Data()).
		SetAttr("fill", "none").
		SetAttr("stroke", color).
		SetAttr("stroke-width", "1.5")

	length := path.Length()
	c.sched.Start("draw:"+label, c.transition, func(progress float64) {
		if progress >= 1 {
			el.RemoveAttr("stroke-dasharray")
			el.RemoveAttr("stroke-dashoffset")
			return
		}
		el.SetAttr("stroke-dasharray", fmtPx(length))
		el.SetAttr("stroke-dashoffset", fmtPx(length*(1-progress)))
	})
}

// updateSeriesPath refreshes the stroke color and morphs the shape from
// the previous pass's geometry. Any stale draw-in state is cleared first
// so the dash attributes cannot corrupt the shape transition.
func (c *TimeChart) updateSeriesPath(el *svg.Element, label string, pts []point, color string) {
	c.sched.Stop("draw:" + label)
	el.RemoveAttr("stroke-dasharray")
	el.RemoveAttr("stroke-dashoffset")
	el.SetAttr("stroke", color)

	from := resamplePoints(c.pointsByLabel[label], len(pts))
	curved := c.curved
	c.sched.Start("morph:"+label, c.transition, func(progress float64) {
		if progress >= 1 {
			el.SetAttr("d", buildPath(pts, curved).Data())
			return
		}
		blended := make([]point, len(pts))
		for i := range pts {
			blended[i] = point{
				x: from[i].x + (pts[i].x-from[i].x)*progress,
				y: from[i].y + (pts[i].y-from[i].y)*progress,
			}
		}
		el.SetAttr("d", buildPath(blended, curved).Data())
	})
}

// buildPath converts scaled points into path geometry. With curving
// enabled, points are joined by a monotone cubic interpolant so the
// curve never overshoots the data; scales are untouched either way.
func buildPath(pts []point, curved bool) *svg.Path {
	var path svg.Path
	if len(pts) == 0 {
		return &path
	}

	path.MoveTo(pts[0].x, pts[0].y)
	if !curved || len(pts) < 3 {
		for _, p := range pts[1:] {
			path.LineTo(p.x, p.y)
		}
		return &path
	}

	slopes := monotoneSlopes(pts)
	for i := 1; i < len(pts); i++ {
		p0, p1 := pts[i-1], pts[i]
		dx := (p1.x - p0.x) / 3
		path.CurveTo(
			p0.x+dx, p0.y+slopes[i-1]*dx,
			p1.x-dx, p1.y-slopes[i]*dx,
			p1.x, p1.y,
		)
	}
	return &path
}

// monotoneSlopes computes Fritsch-Carlson tangents: segment slopes are
// averaged at interior points and clamped to zero across sign changes,
// which keeps the interpolant monotone between samples.
func monotoneSlopes(pts []point) []float64 {
	n := len(pts)
	seg := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		dx := pts[i+1].x - pts[i].x
		if dx == 0 {
			seg[i] = 0
			continue
		}
		seg[i] = (pts[i+1].y - pts[i].y) / dx
	}

	m := make([]float64, n)
	m[0], m[n-1] = seg[0], seg[n-2]
	for i := 1; i < n-1; i++ {
		if seg[i-1]*seg[i] <= 0 {
			m[i] = 0
			continue
		}
		m[i] = (seg[i-1] + seg[i]) / 2
		limit := 3 * math.Min(math.Abs(seg[i-1]), math.Abs(seg[i]))
		if math.Abs(m[i]) > limit {
			m[i] = math.Copysign(limit, m[i])
		}
	}
	return m
}

// resamplePoints maps the old geometry onto the new point count by
// linear index interpolation, so shape morphs stay defined when the row
// count changes between passes.
func resamplePoints(old []point, n int) []point {
	if len(old) == 0 || n == 0 {
		return make([]point, n)
	}
	if len(old) == n {
		return old
	}

	out := make([]point, n)
	for i := 0; i < n; i++ {
		pos := float64(i) * float64(len(old)-1) / float64(max(n-1, 1))
		lo := int(pos)
		hi := min(lo+1, len(old)-1)
		frac := pos - float64(lo)
		out[i] = point{
			x: old[lo].x + (old[hi].x-old[lo].x)*frac,
			y: old[lo].y + (old[hi].y-old[lo].y)*frac,
		}
	}
	return out
}
