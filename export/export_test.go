package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/raykavin/timechart/chart"
	"github.com/raykavin/timechart/core"
	logz "github.com/raykavin/timechart/logger/zerolog"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

func nopLogger() core.Logger {
	l := zerolog.Nop()
	return logz.NewAdapter(&l)
}

type exportRow struct {
	At   time.Time
	A, B float64
}

func exportConfig() chart.Config {
	day := func(n int) time.Time {
		return time.Date(2023, 1, n, 0, 0, 0, 0, time.UTC)
	}
	data := []chart.Row{
		exportRow{At: day(1), A: 100, B: 60},
		exportRow{At: day(2), A: 120, B: 75},
		exportRow{At: day(3), A: 80, B: 50},
		exportRow{At: day(4), A: 95, B: 70},
	}
	return chart.Config{
		Data: data,
		Time: func(r chart.Row) time.Time { return r.(exportRow).At },
		Series: []chart.Series{
			{Label: "alpha", Accessor: func(r chart.Row) float64 { return r.(exportRow).A }},
			{Label: "beta", Accessor: func(r chart.Row) float64 { return r.(exportRow).B }},
		},
	}
}

func TestFilenameConvention(t *testing.T) {
	clock := fixedClock{now: time.Date(2023, 6, 15, 13, 45, 0, 0, time.UTC)}

	require.Equal(t, "time-chart-2023-06-15.svg", Filename(clock, "svg"))
	require.Equal(t, "time-chart-2023-06-15.png", Filename(clock, "png"))
}

func TestSVGExport_SelfContainedDocument(t *testing.T) {
	e := NewSVG(nopLogger(), 640, 480)
	require.Equal(t, "svg", e.Ext())

	var buf bytes.Buffer
	require.NoError(t, e.Export(&buf, exportConfig()))

	out := buf.String()
	require.Contains(t, out, `xmlns="http://www.w3.org/2000/svg"`)
	require.Contains(t, out, "<style>")
	require.Contains(t, out, "series-line")
	require.Contains(t, out, "legend-entry")

	// Static export carries no interaction layer content.
	require.NotContains(t, out, "cursor-guide")
}

func TestSVGExport_TransitionOptionStaysStatic(t *testing.T) {
	// Servers forward their interactive chart options to the exporter.
	// A non-zero transition must not leave series paths hidden behind
	// draw-in dash state, since an export is never stepped.
	e := NewSVG(nopLogger(), 640, 480, chart.WithTransition(750*time.Millisecond))

	var buf bytes.Buffer
	require.NoError(t, e.Export(&buf, exportConfig()))

	out := buf.String()
	require.Contains(t, out, `data-key="alpha"`)
	require.NotContains(t, out, "stroke-dashoffset")
	require.NotContains(t, out, "stroke-dasharray")
}

func TestSVGExport_InvalidConfig(t *testing.T) {
	e := NewSVG(nopLogger(), 640, 480)

	cfg := exportConfig()
	cfg.Series = nil

	var buf bytes.Buffer
	err := e.Export(&buf, cfg)
	require.ErrorIs(t, err, core.ErrConfiguration)
	require.Zero(t, buf.Len())
}

func TestPNGExport_WritesImage(t *testing.T) {
	e := NewPNG(nopLogger(), 320, 240, 2)
	require.Equal(t, "png", e.Ext())

	var buf bytes.Buffer
	require.NoError(t, e.Export(&buf, exportConfig()))

	// PNG magic bytes.
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

func TestPNGExport_InvalidConfig(t *testing.T) {
	e := NewPNG(nopLogger(), 320, 240, 1)

	cfg := exportConfig()
	cfg.Data = nil

	var buf bytes.Buffer
	require.ErrorIs(t, e.Export(&buf, cfg), core.ErrConfiguration)
}

func TestToFile(t *testing.T) {
	clock := fixedClock{now: time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)}
	dir := t.TempDir()

	path, err := ToFile(NewSVG(nopLogger(), 640, 480), clock, dir, exportConfig())
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "time-chart-2023-06-15.svg"))
}
