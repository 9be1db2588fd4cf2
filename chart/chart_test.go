package chart

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/raykavin/timechart/core"
	logz "github.com/raykavin/timechart/logger/zerolog"
	"github.com/raykavin/timechart/svg"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type sampleRow struct {
	At time.Time
	A  float64
	B  float64
}

func nopLogger() core.Logger {
	l := zerolog.Nop()
	return logz.NewAdapter(&l)
}

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func day(n int) time.Time {
	return time.Date(2023, 1, n, 0, 0, 0, 0, time.UTC)
}

func sampleData() []Row {
	return []Row{
		sampleRow{At: day(1), A: 100, B: 60},
		sampleRow{At: day(2), A: 120, B: 75},
		sampleRow{At: day(3), A: 80, B: 50},
		sampleRow{At: day(4), A: 95, B: 70},
	}
}

func timeAcc(r Row) time.Time  { return r.(sampleRow).At }
func accA(r Row) float64       { return r.(sampleRow).A }
func accB(r Row) float64       { return r.(sampleRow).B }

func sampleConfig(series ...Series) Config {
	return Config{Data: sampleData(), Time: timeAcc, Series: series}
}

func seriesA() Series { return Series{Label: "alpha", Accessor: accA} }
func seriesB() Series { return Series{Label: "beta", Accessor: accB} }

func newTestChart(t *testing.T, opts ...Option) (*TimeChart, *svg.Document, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	opts = append([]Option{WithClock(clock), WithTransition(0)}, opts...)
	return New(nopLogger(), opts...), svg.NewDocument(640, 480), clock
}

func seriesPaths(doc *svg.Document) []*svg.Element {
	return doc.Root().SelectClass("series-line")
}

func legendEntries(doc *svg.Document) []*svg.Element {
	return doc.Root().SelectClass("legend-entry")
}

func TestRender_DrawsSeriesAndLegend(t *testing.T) {
	c, doc, _ := newTestChart(t)

	require.NoError(t, c.Render(doc, sampleConfig(seriesA(), seriesB())))

	paths := seriesPaths(doc)
	require.Len(t, paths, 2)
	require.Equal(t, "alpha", paths[0].Key())
	require.Equal(t, "beta", paths[1].Key())
	require.NotEmpty(t, paths[0].Attr("d"))

	entries := legendEntries(doc)
	require.Len(t, entries, 2)
	require.Equal(t, "alpha", entries[0].Key())
}

func TestRender_Idempotent(t *testing.T) {
	c, doc, _ := newTestChart(t)
	cfg := sampleConfig(seriesA(), seriesB())

	require.NoError(t, c.Render(doc, cfg))
	require.NoError(t, c.Render(doc, cfg))

	require.Len(t, seriesPaths(doc), 2)
	require.Len(t, legendEntries(doc), 2)
	require.Len(t, doc.Root().SelectClass("timechart"), 1)
}

func TestRender_RemoveSeries(t *testing.T) {
	c, doc, _ := newTestChart(t)

	require.NoError(t, c.Render(doc, sampleConfig(seriesA(), seriesB())))
	kept := seriesPaths(doc)[0]

	require.NoError(t, c.Render(doc, sampleConfig(seriesA())))

	paths := seriesPaths(doc)
	require.Len(t, paths, 1)
	require.Same(t, kept, paths[0])
	require.Len(t, legendEntries(doc), 1)
	require.Equal(t, "alpha", legendEntries(doc)[0].Key())
}

func TestRender_RemoveOnlySeriesLeavesNothing(t *testing.T) {
	c, doc, _ := newTestChart(t)

	require.NoError(t, c.Render(doc, sampleConfig(seriesA())))
	require.Len(t, seriesPaths(doc), 1)

	// An empty series list is invalid, so the previous state persists;
	// removal is observed by swapping in a different series set.
	require.NoError(t, c.Render(doc, sampleConfig(seriesB())))
	paths := seriesPaths(doc)
	require.Len(t, paths, 1)
	require.Equal(t, "beta", paths[0].Key())
}

func TestRender_RenameLabelIsRemovePlusAdd(t *testing.T) {
	c, doc, _ := newTestChart(t)

	require.NoError(t, c.Render(doc, sampleConfig(seriesA(), seriesB())))
	old := seriesPaths(doc)[1]
	oldColor := old.Attr("stroke")

	renamed := Series{Label: "gamma", Accessor: accB}
	require.NoError(t, c.Render(doc, sampleConfig(seriesA(), renamed)))

	paths := seriesPaths(doc)
	require.Len(t, paths, 2)
	require.NotSame(t, old, paths[1])
	require.Equal(t, "gamma", paths[1].Key())

	// The released claim is handed to the new label.
	require.Equal(t, oldColor, paths[1].Attr("stroke"))
}

func TestRender_SharedValueDomainAcrossSeries(t *testing.T) {
	cfg := sampleConfig(seriesA(), seriesB())

	minVal, maxVal, err := valueExtent(cfg)
	require.NoError(t, err)
	require.Equal(t, 50.0, minVal)
	require.Equal(t, 120.0, maxVal)
}

func TestRender_SingleSeriesValueDomain(t *testing.T) {
	cfg := sampleConfig(seriesA())

	minVal, maxVal, err := valueExtent(cfg)
	require.NoError(t, err)
	require.Equal(t, 80.0, minVal)
	require.Equal(t, 120.0, maxVal)
}

func TestRender_ConfigurationErrors(t *testing.T) {
	c, doc, _ := newTestChart(t)

	err := c.Render(doc, Config{Time: timeAcc, Series: []Series{seriesA()}})
	require.ErrorIs(t, err, core.ErrConfiguration)

	err = c.Render(doc, Config{Data: sampleData(), Time: timeAcc})
	require.ErrorIs(t, err, core.ErrConfiguration)

	err = c.Render(doc, Config{Data: sampleData(), Series: []Series{seriesA()}})
	require.ErrorIs(t, err, core.ErrConfiguration)

	dup := sampleConfig(seriesA(), Series{Label: "alpha", Accessor: accB})
	err = c.Render(doc, dup)
	require.ErrorIs(t, err, core.ErrConfiguration)
}

func TestRender_DomainErrors(t *testing.T) {
	c, doc, _ := newTestChart(t)

	nan := Series{Label: "bad", Accessor: func(Row) float64 { return math.NaN() }}
	err := c.Render(doc, sampleConfig(nan))
	require.ErrorIs(t, err, core.ErrDomain)

	tiny := svg.NewDocument(40, 30)
	err = c.Render(tiny, sampleConfig(seriesA()))
	require.ErrorIs(t, err, core.ErrDomain)
}

func TestRender_FailureLeavesPreviousStateUntouched(t *testing.T) {
	c, doc, _ := newTestChart(t)

	require.NoError(t, c.Render(doc, sampleConfig(seriesA(), seriesB())))
	before := doc.String()

	err := c.Render(doc, Config{Time: timeAcc, Series: []Series{seriesA()}})
	require.Error(t, err)
	require.True(t, errors.Is(err, core.ErrConfiguration))
	require.Equal(t, before, doc.String())
}

func TestRender_ZeroTransitionRevealsImmediately(t *testing.T) {
	c, doc, _ := newTestChart(t)

	require.NoError(t, c.Render(doc, sampleConfig(seriesA())))

	path := seriesPaths(doc)[0]
	require.Empty(t, path.Attr("stroke-dasharray"))
	require.Empty(t, path.Attr("stroke-dashoffset"))
}

func TestRender_DrawInTransition(t *testing.T) {
	c, doc, clock := newTestChart(t, WithTransition(500*time.Millisecond))

	require.NoError(t, c.Render(doc, sampleConfig(seriesA())))

	path := seriesPaths(doc)[0]
	length := svg.PathLength(path.Attr("d"))
	require.Greater(t, length, 0.0)

	// Progress 0: fully hidden behind the dash offset.
	require.Equal(t, fmtPx(length), path.Attr("stroke-dasharray"))
	require.Equal(t, fmtPx(length), path.Attr("stroke-dashoffset"))

	clock.Advance(250 * time.Millisecond)
	require.True(t, c.Step(clock.Now()))
	offset := path.Attr("stroke-dashoffset")
	require.NotEqual(t, fmtPx(length), offset)
	require.NotEmpty(t, offset)

	clock.Advance(300 * time.Millisecond)
	require.False(t, c.Step(clock.Now()))
	require.Empty(t, path.Attr("stroke-dasharray"))
	require.Empty(t, path.Attr("stroke-dashoffset"))
}

func TestRender_UpdateClearsStaleDrawIn(t *testing.T) {
	c, doc, clock := newTestChart(t, WithTransition(500*time.Millisecond))
	cfg := sampleConfig(seriesA())

	require.NoError(t, c.Render(doc, cfg))
	path := seriesPaths(doc)[0]
	require.NotEmpty(t, path.Attr("stroke-dasharray"))

	// Re-render while the draw-in is still in flight: the update must
	// clear dash state and run a shape morph instead.
	require.NoError(t, c.Render(doc, cfg))
	require.Empty(t, path.Attr("stroke-dasharray"))
	require.Empty(t, path.Attr("stroke-dashoffset"))

	clock.Advance(time.Second)
	require.False(t, c.Step(clock.Now()))
}

func TestRender_MorphSupersedesInFlightTransition(t *testing.T) {
	c, doc, clock := newTestChart(t, WithTransition(500*time.Millisecond))

	require.NoError(t, c.Render(doc, sampleConfig(seriesA())))
	clock.Advance(600 * time.Millisecond)
	c.Step(clock.Now())

	path := seriesPaths(doc)[0]
	settled := path.Attr("d")

	// Two renders back to back: the second morph supersedes the first.
	require.NoError(t, c.Render(doc, sampleConfig(seriesB())))
	require.NoError(t, c.Render(doc, sampleConfig(Series{Label: "beta", Accessor: accA})))

	clock.Advance(time.Second)
	require.False(t, c.Step(clock.Now()))

	final := seriesPaths(doc)[0].Attr("d")
	require.Equal(t, settled, final)
}

func TestRender_StaticChartHasNoOverlay(t *testing.T) {
	c, doc, _ := newTestChart(t, WithStatic())

	require.NoError(t, c.Render(doc, sampleConfig(seriesA())))
	require.Empty(t, doc.Root().SelectClass("cursor-guide"))
	require.Empty(t, doc.Root().SelectClass("cursor-marker"))
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("750ms")
	require.NoError(t, err)
	require.Equal(t, 750*time.Millisecond, d)
}
