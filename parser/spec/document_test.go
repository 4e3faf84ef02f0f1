package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocument(t *testing.T) {
	d := NewDocument()
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, DocumentNode, d.Node(d.Root()).Type)
	assert.Equal(t, InvalidNode, d.Node(d.Root()).Parent)
	assert.Equal(t, InvalidNode, d.DocumentElement())
	assert.Equal(t, InvalidNode, d.Doctype())
	assert.Equal(t, NoQuirks, d.QuirksMode)
}

func TestAppendChild(t *testing.T) {
	d := NewDocument()
	html := d.AppendChild(d.Root(), d.CreateElement("HTML", nil))
	body := d.AppendChild(html, d.CreateElement("body", []Attr{{Name: "id", Value: "b"}}))

	assert.Equal(t, html, d.DocumentElement())
	assert.Equal(t, "html", d.Node(html).Name)
	assert.Equal(t, html, d.Node(body).Parent)
	assert.Equal(t, []NodeID{body}, d.Node(html).Children)
	assert.True(t, d.IsConnected(body))

	id, ok := d.Node(body).GetAttribute("id")
	assert.True(t, ok)
	assert.Equal(t, "b", id)
}

func TestAppendChildMergesText(t *testing.T) {
	d := NewDocument()
	html := d.AppendChild(d.Root(), d.CreateElement("html", nil))
	first := d.AppendChild(html, d.CreateText("a"))
	second := d.AppendChild(html, d.CreateText("b"))

	assert.Equal(t, first, second)
	assert.Len(t, d.Node(html).Children, 1)
	assert.Equal(t, "ab", d.Node(first).Data)

	d.AppendChild(html, d.CreateComment("c"))
	third := d.AppendChild(html, d.CreateText("d"))
	assert.NotEqual(t, first, third)
	assert.Len(t, d.Node(html).Children, 3)
}

func TestAppendChildPanics(t *testing.T) {
	d := NewDocument()
	detached := d.CreateElement("div", nil)

	assert.Panics(t, func() { d.AppendChild(detached, d.CreateText("x")) })
	assert.Panics(t, func() { d.AppendChild(d.Root(), d.Root()) })
	assert.Panics(t, func() { d.AppendChild(d.Root(), NodeID(99)) })

	html := d.AppendChild(d.Root(), d.CreateElement("html", nil))
	p := d.AppendChild(html, d.CreateElement("p", nil))
	assert.Panics(t, func() { d.AppendChild(html, p) })
	assert.Panics(t, func() { d.Node(NodeID(99)) })
}

func TestInsertText(t *testing.T) {
	d := NewDocument()
	html := d.AppendChild(d.Root(), d.CreateElement("html", nil))
	before := d.Len()
	a := d.InsertText(html, "a")
	b := d.InsertText(html, "b")
	assert.Equal(t, a, b)
	assert.Equal(t, before+1, d.Len())
	assert.Equal(t, "ab", d.TextContent(html))
}

func TestDepth(t *testing.T) {
	d := NewDocument()
	comment := d.AppendChild(d.Root(), d.CreateComment("x"))
	html := d.AppendChild(d.Root(), d.CreateElement("html", nil))
	body := d.AppendChild(html, d.CreateElement("body", nil))
	p := d.AppendChild(body, d.CreateElement("p", nil))

	assert.Equal(t, 0, d.Depth(d.Root()))
	assert.Equal(t, 0, d.Depth(comment))
	assert.Equal(t, 1, d.Depth(html))
	assert.Equal(t, 2, d.Depth(body))
	assert.Equal(t, 3, d.Depth(p))
	assert.Equal(t, 0, d.Depth(d.CreateElement("detached", nil)))
}

func TestDocumentAccessors(t *testing.T) {
	d := NewDocument()
	doctype := d.AppendChild(d.Root(), d.CreateDocumentType("html", "", ""))
	html := d.AppendChild(d.Root(), d.CreateElement("html", nil))
	head := d.AppendChild(html, d.CreateElement("head", nil))
	title := d.AppendChild(head, d.CreateElement("title", nil))
	d.InsertText(title, "  A \n  title ")
	body := d.AppendChild(html, d.CreateElement("body", nil))
	p1 := d.AppendChild(body, d.CreateElement("p", nil))
	div := d.AppendChild(body, d.CreateElement("div", nil))
	p2 := d.AppendChild(div, d.CreateElement("P", nil))

	assert.Equal(t, doctype, d.Doctype())
	assert.Equal(t, html, d.DocumentElement())
	assert.Equal(t, head, d.Head())
	assert.Equal(t, body, d.Body())
	assert.Equal(t, "A title", d.Title())
	assert.Equal(t, []NodeID{p1, p2}, d.GetElementsByTagName("p"))
	assert.Empty(t, d.GetElementsByTagName("table"))

	var visited []string
	d.Walk(html, func(_ NodeID, n *Node) bool {
		visited = append(visited, n.Name)
		return n.Name != "head"
	})
	assert.Equal(t, []string{"html", "head", "body", "p", "div", "p"}, visited)
}

func TestNodeAttributes(t *testing.T) {
	n := &Node{Type: ElementNode, Name: "a"}
	assert.False(t, n.HasAttribute("href"))
	n.SetAttribute("href", "/x")
	n.SetAttribute("rel", "next")
	n.SetAttribute("href", "/y")
	require.Len(t, n.Attributes, 2)
	v, _ := n.GetAttribute("href")
	assert.Equal(t, "/y", v)
	assert.True(t, n.IsElement("b", "a"))
	assert.False(t, (&Node{Type: TextNode, Name: "a"}).IsElement("a"))
}

func TestNewWindow(t *testing.T) {
	w := NewWindow()
	require.NotNil(t, w.Document)
	assert.Equal(t, 1, w.Document.Len())
}
