package svg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestElement_AppendRemove(t *testing.T) {
	doc := NewDocument(100, 50)
	g := doc.Root().Append("g").SetClass("layer")
	a := g.Append("path").SetKey("a").SetClass("line")
	g.Append("path").SetKey("b").SetClass("line")

	require.Len(t, g.Children(), 2)
	require.Same(t, a, g.ChildByKey("line", "a"))
	require.Nil(t, g.ChildByKey("line", "missing"))

	a.Remove()
	require.Len(t, g.Children(), 1)
	require.Nil(t, g.ChildByKey("line", "a"))

	// Removing twice is a no-op.
	a.Remove()
	require.Len(t, g.Children(), 1)
}

func TestElement_SelectClass(t *testing.T) {
	doc := NewDocument(100, 50)
	g := doc.Root().Append("g")
	g.Append("circle").SetClass("marker")
	inner := g.Append("g")
	inner.Append("circle").SetClass("marker")

	require.Len(t, doc.Root().SelectClass("marker"), 2)
	require.Empty(t, doc.Root().SelectClass("absent"))
}

func TestElement_Adopt(t *testing.T) {
	doc := NewDocument(100, 50)
	g := doc.Root().Append("g")
	a := g.Append("path").SetKey("a")
	b := g.Append("path").SetKey("b")

	// Re-appending an existing child moves it to the end.
	g.Adopt(a)
	require.Len(t, g.Children(), 2)
	require.Same(t, b, g.Children()[0])
	require.Same(t, a, g.Children()[1])
}

func TestPath_LineLength(t *testing.T) {
	var p Path
	p.MoveTo(0, 0).LineTo(3, 4).LineTo(3, 0)

	require.Equal(t, "M0,0 L3,4 L3,0", p.Data())
	require.InDelta(t, 9.0, p.Length(), 1e-9)
	require.InDelta(t, p.Length(), PathLength(p.Data()), 1e-9)
}

func TestPath_CurveLength(t *testing.T) {
	var p Path
	p.MoveTo(0, 0).CurveTo(10, 0, 20, 0, 30, 0)

	// A degenerate flat curve measures as the straight distance.
	require.InDelta(t, 30.0, p.Length(), 1e-6)
	require.InDelta(t, p.Length(), PathLength(p.Data()), 1e-9)
}

func TestPathLength_Malformed(t *testing.T) {
	require.Equal(t, 0.0, PathLength(""))
	require.Equal(t, 0.0, PathLength("M0,0 L"))
}

func TestDocument_Serialize(t *testing.T) {
	doc := NewDocument(640, 480)
	doc.Root().Append("g").SetClass("series").
		Append("path").SetAttr("d", "M0,0 L10,10").SetAttr("stroke", "#1f77b4")

	out := doc.String()
	require.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	require.Contains(t, out, `xmlns="http://www.w3.org/2000/svg"`)
	require.Contains(t, out, `viewBox="0 0 640 480"`)
	require.Contains(t, out, `stroke="#1f77b4"`)
}

func TestDocument_InlinesOnlyMatchedStyles(t *testing.T) {
	doc := NewDocument(200, 100)
	doc.SetStyle("axis-label", "font: 10px sans-serif")
	doc.SetStyle("unused", "fill: red")
	doc.Root().Append("text").SetClass("axis-label").SetText("jan")

	out := doc.String()
	require.Contains(t, out, ".axis-label { font: 10px sans-serif }")
	require.NotContains(t, out, ".unused")
	require.Equal(t, 1, strings.Count(out, "<style>"))
}

func TestDocument_EscapesText(t *testing.T) {
	doc := NewDocument(100, 100)
	doc.Root().Append("text").SetText(`a < b & "c"`)

	out := doc.String()
	require.Contains(t, out, "a &lt; b &amp; &quot;c&quot;")
}
