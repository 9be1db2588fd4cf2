package chart

import (
	"fmt"
	"math"
	"strconv"

	"github.com/raykavin/timechart/core"
	"github.com/raykavin/timechart/svg"
)

const tickSize = 6.0

// renderAxes draws both axes, their gridlines and titles. Tick sets are
// replaced wholesale on every pass: tick count and positions change with
// the data, so ticks carry no identity keys.
func (c *TimeChart) renderAxes(l *layers, f frame, ts *TimeScale, vs *LinearScale) {
	l.grid.Clear()
	l.xAxis.Clear()
	l.yAxis.Clear()

	xTicks := ts.Ticks(c.xTickCount)
	yTicks := vs.Ticks(c.yTickCount)

	for _, t := range xTicks {
		x := ts.Map(t)
		gridLine(l.grid, x, f.innerTop, x, f.innerBottom)
	}
	for _, v := range yTicks {
		y := vs.Map(v)
		gridLine(l.grid, f.innerLeft, y, f.innerRight, y)
	}

	axisLine(l.xAxis, f.innerLeft, f.innerBottom, f.innerRight, f.innerBottom)
	for _, t := range xTicks {
		x := ts.Map(t)
		tickMark(l.xAxis, x, f.innerBottom, x, f.innerBottom+tickSize)
		label := l.xAxis.Append("text").SetClass("axis-label")
		label.SetAttr("x", fmtPx(x)).
			SetAttr("y", fmtPx(f.innerBottom+tickSize+12)).
			SetAttr("text-anchor", "middle").
			SetText(t.Format(c.timeFormat))
	}
	if c.xTitle != "" {
		title := l.xAxis.Append("text").SetClass("axis-title")
		title.SetAttr("x", fmtPx((f.innerLeft+f.innerRight)/2)).
			SetAttr("y", fmtPx(f.innerBottom+tickSize+30)).
			SetAttr("text-anchor", "middle").
			SetText(c.xTitle)
	}

	axisLine(l.yAxis, f.innerLeft, f.innerTop, f.innerLeft, f.innerBottom)
	for _, v := range yTicks {
		y := vs.Map(v)
		tickMark(l.yAxis, f.innerLeft-tickSize, y, f.innerLeft, y)
		label := l.yAxis.Append("text").SetClass("axis-label")
		label.SetAttr("x", fmtPx(f.innerLeft-tickSize-4)).
			SetAttr("y", fmtPx(y+4)).
			SetAttr("text-anchor", "end").
			SetText(c.formatValue(v, yTicks))
	}
	if c.yTitle != "" {
		cy := (f.innerTop + f.innerBottom) / 2
		title := l.yAxis.Append("text").SetClass("axis-title")
		title.SetAttr("x", fmtPx(f.innerLeft-40)).
			SetAttr("y", fmtPx(cy)).
			SetAttr("text-anchor", "middle").
			SetAttr("transform", fmt.Sprintf("rotate(-90 %s %s)", fmtPx(f.innerLeft-40), fmtPx(cy))).
			SetText(c.yTitle)
	}
}

// formatValue prints a value-axis label. The default pattern picks the
// precision from the tick spacing, so fractional steps keep their
// decimals while whole-number steps print clean integers.
func (c *TimeChart) formatValue(v float64, ticks []float64) string {
	if c.valueFormat != "%g" || len(ticks) < 2 {
		return fmt.Sprintf(c.valueFormat, v)
	}
	step := ticks[1] - ticks[0]
	return strconv.FormatFloat(v, 'f', int(core.NumDecPlaces(step)), 64)
}

func axisLine(parent *svg.Element, x1, y1, x2, y2 float64) {
	parent.Append("line").SetClass("axis-line").
		SetAttr("x1", fmtPx(x1)).SetAttr("y1", fmtPx(y1)).
		SetAttr("x2", fmtPx(x2)).SetAttr("y2", fmtPx(y2)).
		SetAttr("stroke", "#333")
}

func tickMark(parent *svg.Element, x1, y1, x2, y2 float64) {
	parent.Append("line").SetClass("axis-tick").
		SetAttr("x1", fmtPx(x1)).SetAttr("y1", fmtPx(y1)).
		SetAttr("x2", fmtPx(x2)).SetAttr("y2", fmtPx(y2)).
		SetAttr("stroke", "#333")
}

func gridLine(parent *svg.Element, x1, y1, x2, y2 float64) {
	parent.Append("line").SetClass("grid-line").
		SetAttr("x1", fmtPx(x1)).SetAttr("y1", fmtPx(y1)).
		SetAttr("x2", fmtPx(x2)).SetAttr("y2", fmtPx(y2)).
		SetAttr("stroke", "#e0e0e0")
}

func fmtPx(v float64) string {
	return fmt.Sprintf("%g", math.Round(v*100)/100)
}
