package export

import (
	"io"

	"github.com/raykavin/timechart/chart"
	"github.com/raykavin/timechart/core"
	"github.com/raykavin/timechart/svg"
)

// SVGExporter renders a static chart into a standalone SVG document
// with styles inlined, suitable for saving or embedding.
type SVGExporter struct {
	log     core.Logger
	width   float64
	height  float64
	options []chart.Option
}

// NewSVG creates an SVG exporter rendering at the given surface size.
// Extra chart options (curve, titles, formats) are honored, except
// that the rendered document is always static with no transition.
func NewSVG(log core.Logger, width, height float64, options ...chart.Option) *SVGExporter {
	return &SVGExporter{
		log:     log,
		width:   width,
		height:  height,
		options: options,
	}
}

// Ext implements Exporter.
func (e *SVGExporter) Ext() string { return "svg" }

// baseStyles give exported documents the appearance a hosting page
// otherwise provides through its stylesheet. Only classes actually
// present in the rendered tree are inlined.
var baseStyles = map[string]string{
	"axis-line":    "stroke:#333;stroke-width:1",
	"axis-tick":    "stroke:#333;stroke-width:1",
	"grid-line":    "stroke:#e0e0e0;stroke-width:1",
	"axis-label":   "font:10px sans-serif;fill:#333",
	"axis-title":   "font:11px sans-serif;fill:#333",
	"series-line":  "fill:none",
	"legend-label": "font:11px sans-serif;fill:#333",
}

// Export implements Exporter.
func (e *SVGExporter) Export(w io.Writer, cfg chart.Config) error {
	doc := svg.NewDocument(e.width, e.height)
	for class, decl := range baseStyles {
		doc.SetStyle(class, decl)
	}

	// Caller options go first so the static no-transition defaults
	// always win. A forwarded transition duration would otherwise
	// leave paths hidden behind draw-in dash state that nothing in
	// an export ever steps.
	opts := append(append([]chart.Option{}, e.options...),
		chart.WithStatic(),
		chart.WithTransition(0),
	)

	c := chart.New(e.log, opts...)
	if err := c.Render(doc, cfg); err != nil {
		return err
	}

	_, err := doc.WriteTo(w)
	return err
}
