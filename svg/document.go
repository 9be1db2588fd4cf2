package svg

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Document is a complete drawing surface: a root <svg> element with a
// fixed pixel size and an optional stylesheet. Serializing the document
// at any time produces a self-contained SVG file; only stylesheet rules
// whose class selector matches a present element are inlined.
type Document struct {
	width  float64
	height float64
	root   *Element
	styles map[string]string // class -> declarations
}

// NewDocument creates an empty drawing surface of the given pixel size.
func NewDocument(width, height float64) *Document {
	root := newElement("svg")
	root.SetAttr("xmlns", "http://www.w3.org/2000/svg")
	root.SetAttr("width", coord(width))
	root.SetAttr("height", coord(height))
	root.SetAttr("viewBox", fmt.Sprintf("0 0 %s %s", coord(width), coord(height)))
	return &Document{
		width:  width,
		height: height,
		root:   root,
		styles: make(map[string]string),
	}
}

// Width returns the surface pixel width.
func (d *Document) Width() float64 { return d.width }

// Height returns the surface pixel height.
func (d *Document) Height() float64 { return d.height }

// Root returns the root <svg> element.
func (d *Document) Root() *Element { return d.root }

// SetStyle registers stylesheet declarations for a class, e.g.
// SetStyle("axis-label", "font: 10px sans-serif; fill: #333").
func (d *Document) SetStyle(class, declarations string) {
	d.styles[class] = declarations
}

// String serializes the document. Stylesheet rules for classes absent
// from the current tree are skipped so the output stays self-contained
// and minimal.
func (d *Document) String() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")

	style := d.matchedStyles()
	if style == "" {
		d.root.writeTo(&b, 0)
		return b.String()
	}

	// Rebuild the root open tag, then inline the style block first.
	tmp := &strings.Builder{}
	d.root.writeTo(tmp, 0)
	out := tmp.String()
	idx := strings.Index(out, ">")
	b.WriteString(out[:idx+1])
	b.WriteString("\n  <style>\n")
	b.WriteString(style)
	b.WriteString("  </style>\n")
	b.WriteString(out[idx+2:])
	return b.String()
}

// WriteTo writes the serialized document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.String())
	return int64(n), err
}

func (d *Document) matchedStyles() string {
	classes := make([]string, 0, len(d.styles))
	for class := range d.styles {
		if d.root.hasClass(class) {
			classes = append(classes, class)
		}
	}
	sort.Strings(classes)

	var b strings.Builder
	for _, class := range classes {
		fmt.Fprintf(&b, "    .%s { %s }\n", class, d.styles[class])
	}
	return b.String()
}
