package chart

import (
	"fmt"

	"github.com/raykavin/timechart/svg"
)

const (
	legendSwatch  = 12.0
	legendSpacing = 18.0
)

// renderLegend reconciles one entry per visible series, keyed by label
// like the series paths so both renderers agree on identity and color.
// Entries are laid out in a single column with fixed spacing per index.
func (c *TimeChart) renderLegend(l *layers, f frame, cfg Config) {
	existing := make(map[string]*svg.Element)
	var prevKeys []string
	for _, el := range l.legend.Children() {
		if el.Class() == "legend-entry" {
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
		existing[label].Remove()
		delete(existing, label)
	}

	l.legend.Clear()
	for i, s := range cfg.Series {
		color := s.Color
		if color == "" {
			color = c.colors.Color(s.Label)
		}

		entry, ok := existing[s.Label]
		if !ok {
			entry = l.legend.Append("g").SetKey(s.Label).SetClass("legend-entry")
			entry.Append("rect").SetClass("legend-swatch").
				SetAttr("width", fmtPx(legendSwatch)).
				SetAttr("height", fmtPx(legendSwatch))
			entry.Append("text").SetClass("legend-label").
				SetAttr("x", fmtPx(legendSwatch+5)).
				SetAttr("y", fmtPx(legendSwatch-2))
		} else {
			l.legend.Adopt(entry)
		}

		entry.SetAttr("transform", fmt.Sprintf("translate(%s,%s)",
			fmtPx(f.innerLeft+10), fmtPx(f.innerTop+10+float64(i)*legendSpacing)))

		for _, child := range entry.Children() {
			switch child.Class() {
			case "legend-swatch":
				child.SetAttr("fill", color)
			case "legend-label":
				child.SetText(s.Label)
			}
		}
	}
}
