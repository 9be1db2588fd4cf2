package svg

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Path builds SVG path data from absolute coordinates and keeps enough
// geometry around to measure the drawn length without re-parsing.
type Path struct {
	b      strings.Builder
	length float64
	curX   float64
	curY   float64
	open   bool
}

// MoveTo starts a new subpath at (x, y). Coordinates are rounded to the
// serialized precision so measured lengths match what a consumer would
// measure on the emitted path data.
func (p *Path) MoveTo(x, y float64) *Path {
	if p.open {
		p.b.WriteByte(' ')
	}
	x, y = round2(x), round2(y)
	fmt.Fprintf(&p.b, "M%s,%s", coord(x), coord(y))
	p.curX, p.curY = x, y
	p.open = true
	return p
}

// LineTo draws a straight segment to (x, y).
func (p *Path) LineTo(x, y float64) *Path {
	x, y = round2(x), round2(y)
	fmt.Fprintf(&p.b, " L%s,%s", coord(x), coord(y))
	p.length += math.Hypot(x-p.curX, y-p.curY)
	p.curX, p.curY = x, y
	return p
}

// CurveTo draws a cubic Bezier segment to (x, y) with the given control
// points. Length is accumulated by flattening the curve.
func (p *Path) CurveTo(c1x, c1y, c2x, c2y, x, y float64) *Path {
	c1x, c1y = round2(c1x), round2(c1y)
	c2x, c2y = round2(c2x), round2(c2y)
	x, y = round2(x), round2(y)
	fmt.Fprintf(&p.b, " C%s,%s %s,%s %s,%s",
		coord(c1x), coord(c1y), coord(c2x), coord(c2y), coord(x), coord(y))
	p.length += cubicLength(p.curX, p.curY, c1x, c1y, c2x, c2y, x, y)
	p.curX, p.curY = x, y
	return p
}

// Data returns the accumulated path data string.
func (p *Path) Data() string { return p.b.String() }

// Length returns the total drawn length of the path.
func (p *Path) Length() float64 { return p.length }

// PathLength measures the total length of path data produced by Path
// (absolute M, L and C commands). Malformed input measures as 0 from
// the point of corruption onward rather than failing.
func PathLength(d string) float64 {
	var total, curX, curY float64
	fields := splitPathData(d)
	for i := 0; i < len(fields); {
		switch fields[i] {
		case "M":
			if i+3 > len(fields) {
				return total
			}
			curX, curY = parseF(fields[i+1]), parseF(fields[i+2])
			i += 3
		case "L":
			if i+3 > len(fields) {
				return total
			}
			x, y := parseF(fields[i+1]), parseF(fields[i+2])
			total += math.Hypot(x-curX, y-curY)
			curX, curY = x, y
			i += 3
		case "C":
			if i+7 > len(fields) {
				return total
			}
			c1x, c1y := parseF(fields[i+1]), parseF(fields[i+2])
			c2x, c2y := parseF(fields[i+3]), parseF(fields[i+4])
			x, y := parseF(fields[i+5]), parseF(fields[i+6])
			total += cubicLength(curX, curY, c1x, c1y, c2x, c2y, x, y)
			curX, curY = x, y
			i += 7
		default:
			i++
		}
	}
	return total
}

// cubicLength approximates the arc length of a cubic Bezier by uniform
// flattening. Sixteen segments keep the error well under a pixel for
// chart-scale geometry.
func cubicLength(x0, y0, c1x, c1y, c2x, c2y, x1, y1 float64) float64 {
	const steps = 16
	var length, px, py float64
	px, py = x0, y0
	for i := 1; i <= steps; i++ {
		t := float64(i) / steps
		mt := 1 - t
		x := mt*mt*mt*x0 + 3*mt*mt*t*c1x + 3*mt*t*t*c2x + t*t*t*x1
		y := mt*mt*mt*y0 + 3*mt*mt*t*c1y + 3*mt*t*t*c2y + t*t*t*y1
		length += math.Hypot(x-px, y-py)
		px, py = x, y
	}
	return length
}

func splitPathData(d string) []string {
	d = strings.NewReplacer("M", " M ", "L", " L ", "C", " C ", ",", " ").Replace(d)
	return strings.Fields(d)
}

func parseF(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func coord(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
