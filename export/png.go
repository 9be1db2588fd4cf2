package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/raykavin/timechart/chart"
	"github.com/raykavin/timechart/core"
)

// PNGExporter rasterizes a chart config through go-chart. The pixel
// ratio multiplies the raster resolution while keeping the nominal
// size, matching high-density displays.
type PNGExporter struct {
	log        core.Logger
	width      int
	height     int
	pixelRatio float64
}

// NewPNG creates a PNG exporter. Ratios below 1 are clamped to 1.
func NewPNG(log core.Logger, width, height int, pixelRatio float64) *PNGExporter {
	if pixelRatio < 1 {
		pixelRatio = 1
	}
	return &PNGExporter{
		log:        log,
		width:      width,
		height:     height,
		pixelRatio: pixelRatio,
	}
}

// Ext implements Exporter.
func (e *PNGExporter) Ext() string { return "png" }

// Export implements Exporter.
func (e *PNGExporter) Export(w io.Writer, cfg chart.Config) error {
	if len(cfg.Data) == 0 {
		return fmt.Errorf("%w: no rows to export", core.ErrConfiguration)
	}
	if len(cfg.Series) == 0 {
		return fmt.Errorf("%w: no series to export", core.ErrConfiguration)
	}
	if cfg.Time == nil {
		return fmt.Errorf("%w: missing time accessor", core.ErrConfiguration)
	}

	times := make([]time.Time, len(cfg.Data))
	for i, row := range cfg.Data {
		times[i] = cfg.Time(row)
	}

	series := make([]gochart.Series, len(cfg.Series))
	for i, s := range cfg.Series {
		values := make([]float64, len(cfg.Data))
		for j, row := range cfg.Data {
			values[j] = s.Accessor(row)
		}
		series[i] = gochart.TimeSeries{
			Name:    s.Label,
			XValues: times,
			YValues: values,
			Style: gochart.Style{
				StrokeColor: seriesColor(s, i),
				StrokeWidth: 2,
			},
		}
	}

	graph := gochart.Chart{
		Width:  int(float64(e.width) * e.pixelRatio),
		Height: int(float64(e.height) * e.pixelRatio),
		Series: series,
	}
	graph.Elements = []gochart.Renderable{
		gochart.LegendThin(&graph),
	}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("failed to render png: %w", err)
	}
	return nil
}

func seriesColor(s chart.Series, idx int) drawing.Color {
	hex := s.Color
	if hex == "" {
		hex = chart.DefaultColors[idx%len(chart.DefaultColors)]
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
