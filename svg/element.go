// Package svg implements the retained drawing surface used by the chart
// engine: an SVG element tree that supports class selection, data-keyed
// children, path length measurement and serialization to a self-contained
// document.
package svg

import (
	"sort"
	"strings"
)

// Element is a single node of the drawing surface.
type Element struct {
	tag      string
	key      string
	text     string
	attrs    map[string]string
	parent   *Element
	children []*Element
}

func newElement(tag string) *Element {
	return &Element{
		tag:   tag,
		attrs: make(map[string]string),
	}
}

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.tag }

// Key returns the data key assigned at creation, or "".
func (e *Element) Key() string { return e.key }

// SetKey assigns the data key used by keyed joins.
func (e *Element) SetKey(key string) *Element {
	e.key = key
	return e
}

// SetAttr sets an attribute, replacing any previous value.
func (e *Element) SetAttr(name, value string) *Element {
	e.attrs[name] = value
	return e
}

// Attr returns the attribute value, or "" when unset.
func (e *Element) Attr(name string) string { return e.attrs[name] }

// RemoveAttr deletes an attribute if present.
func (e *Element) RemoveAttr(name string) *Element {
	delete(e.attrs, name)
	return e
}

// SetClass sets the element's class attribute.
func (e *Element) SetClass(class string) *Element {
	return e.SetAttr("class", class)
}

// Class returns the element's class attribute.
func (e *Element) Class() string { return e.attrs["class"] }

// SetText sets the element's text content.
func (e *Element) SetText(text string) *Element {
	e.text = text
	return e
}

// Text returns the element's text content.
func (e *Element) Text() string { return e.text }

// Append creates a child element with the given tag and returns it.
func (e *Element) Append(tag string) *Element {
	child := newElement(tag)
	child.parent = e
	e.children = append(e.children, child)
	return child
}

// Adopt attaches an existing element as the last child, detaching it
// from its current parent first. Used by keyed joins to re-establish
// draw order over surviving elements.
func (e *Element) Adopt(child *Element) *Element {
	child.Remove()
	child.parent = e
	e.children = append(e.children, child)
	return child
}

// Remove detaches the element from its parent. Removing a detached
// element is a no-op.
func (e *Element) Remove() {
	p := e.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == e {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	e.parent = nil
}

// Clear removes all children.
func (e *Element) Clear() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

// Children returns the element's direct children in document order.
func (e *Element) Children() []*Element { return e.children }

// SelectClass returns all descendants whose class attribute equals class,
// in document order.
func (e *Element) SelectClass(class string) []*Element {
	var out []*Element
	for _, c := range e.children {
		if c.Class() == class {
			out = append(out, c)
		}
		out = append(out, c.SelectClass(class)...)
	}
	return out
}

// ChildByKey returns the direct child with the given class and data key,
// or nil when absent.
func (e *Element) ChildByKey(class, key string) *Element {
	for _, c := range e.children {
		if c.Class() == class && c.key == key {
			return c
		}
	}
	return nil
}

// hasClass reports whether any element in the subtree carries the class.
func (e *Element) hasClass(class string) bool {
	if e.Class() == class {
		return true
	}
	for _, c := range e.children {
		if c.hasClass(class) {
			return true
		}
	}
	return false
}

func (e *Element) writeTo(b *strings.Builder, indent int) {
	pad := strings.Repeat("  ", indent)
	b.WriteString(pad)
	b.WriteByte('<')
	b.WriteString(e.tag)

	// The data key travels with the markup so clients can identify
	// keyed elements in delivered frames.
	if e.key != "" {
		b.WriteString(` data-key="`)
		b.WriteString(escape(e.key))
		b.WriteByte('"')
	}

	names := make([]string, 0, len(e.attrs))
	for name := range e.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteByte(' ')
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(escape(e.attrs[name]))
		b.WriteByte('"')
	}

	if len(e.children) == 0 && e.text == "" {
		b.WriteString("/>\n")
		return
	}

	b.WriteByte('>')
	if e.text != "" {
		b.WriteString(escape(e.text))
	}
	if len(e.children) > 0 {
		b.WriteByte('\n')
		for _, c := range e.children {
			c.writeTo(b, indent+1)
		}
		b.WriteString(pad)
	}
	b.WriteString("</")
	b.WriteString(e.tag)
	b.WriteString(">\n")
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string { return escaper.Replace(s) }
