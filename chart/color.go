package chart

import "sort"

// ColorAssigner maps series labels to colors. Implementations must expose
// their current domain (claimed labels) and range (available colors) so
// the series and legend renderers can agree on assignments across
// independent passes.
type ColorAssigner interface {
	Color(label string) string
	Domain() []string
	Range() []string
}

// Palette is an ordinal ColorAssigner with claim/release semantics: a
// label keeps its color slot for as long as it stays in the domain, a
// released slot becomes the first choice for the next new label, and a
// renamed label is just a release plus a fresh claim.
type Palette struct {
	colors []string
	claims map[string]int
}

// DefaultColors is the default categorical palette.
var DefaultColors = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// NewPalette creates an ordinal palette. With no colors given the
// default categorical palette is used.
func NewPalette(colors ...string) *Palette {
	if len(colors) == 0 {
		colors = DefaultColors
	}
	return &Palette{
		colors: colors,
		claims: make(map[string]int),
	}
}

// Color returns the label's color, claiming the lowest free slot on
// first use. Slots wrap when labels outnumber colors.
func (p *Palette) Color(label string) string {
	if slot, ok := p.claims[label]; ok {
		return p.colors[slot%len(p.colors)]
	}

	used := make(map[int]bool, len(p.claims))
	for _, slot := range p.claims {
		used[slot] = true
	}
	slot := 0
	for used[slot] {
		slot++
	}
	p.claims[label] = slot
	return p.colors[slot%len(p.colors)]
}

// SetDomain claims colors for the given labels in order and releases
// every label not present anymore.
func (p *Palette) SetDomain(labels []string) {
	keep := make(map[string]bool, len(labels))
	for _, label := range labels {
		keep[label] = true
	}
	for label := range p.claims {
		if !keep[label] {
			delete(p.claims, label)
		}
	}
	for _, label := range labels {
		p.Color(label)
	}
}

// Domain returns the claimed labels ordered by slot.
func (p *Palette) Domain() []string {
	labels := make([]string, 0, len(p.claims))
	for label := range p.claims {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return p.claims[labels[i]] < p.claims[labels[j]]
	})
	return labels
}

// Range returns the palette colors.
func (p *Palette) Range() []string {
	out := make([]string, len(p.colors))
	copy(out, p.colors)
	return out
}
