package spec

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/atom"
)

type QuirksMode string

const (
	NoQuirks      QuirksMode = "no-quirks"
	Quirks        QuirksMode = "quirks"
	LimitedQuirks QuirksMode = "limited-quirks"
)

// Document owns every node created while building a tree. Node 0 is the
// document node itself; the document element is appended to it.
// https://dom.spec.whatwg.org/#interface-document
type Document struct {
	QuirksMode QuirksMode

	nodes   []Node
	doctype NodeID
}

// NewDocument creates an empty document holding only the document node.
func NewDocument() *Document {
	return &Document{
		QuirksMode: NoQuirks,
		nodes: []Node{{
			Type:   DocumentNode,
			Name:   "#document",
			Parent: InvalidNode,
		}},
		doctype: InvalidNode,
	}
}

// Root returns the document node.
func (d *Document) Root() NodeID {
	return 0
}

// Len returns the number of nodes ever created in the document.
func (d *Document) Len() int {
	return len(d.nodes)
}

// Node returns the node stored under id. It panics on an unknown handle.
func (d *Document) Node(id NodeID) *Node {
	if !d.valid(id) {
		panic(errors.Errorf("spec: unknown node handle %d", id))
	}
	return &d.nodes[id]
}

func (d *Document) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(d.nodes)
}

func (d *Document) add(n Node) NodeID {
	n.Parent = InvalidNode
	d.nodes = append(d.nodes, n)
	return NodeID(len(d.nodes) - 1)
}

// CreateElement creates a detached element. The attribute slice is copied.
func (d *Document) CreateElement(name string, attrs []Attr) NodeID {
	name = strings.ToLower(name)
	var copied []Attr
	if len(attrs) > 0 {
		copied = make([]Attr, len(attrs))
		copy(copied, attrs)
	}
	return d.add(Node{
		Type:       ElementNode,
		Name:       name,
		Atom:       atom.Lookup([]byte(name)),
		Attributes: copied,
	})
}

// CreateText creates a detached text node.
func (d *Document) CreateText(data string) NodeID {
	return d.add(Node{Type: TextNode, Data: data})
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(data string) NodeID {
	return d.add(Node{Type: CommentNode, Data: data})
}

// CreateDocumentType creates a detached doctype node.
func (d *Document) CreateDocumentType(name, publicID, systemID string) NodeID {
	return d.add(Node{
		Type:     DocumentTypeNode,
		Name:     name,
		PublicID: publicID,
		SystemID: systemID,
	})
}

// IsConnected reports whether id is the document node or one of its
// descendants.
func (d *Document) IsConnected(id NodeID) bool {
	for cur := id; d.valid(cur); cur = d.nodes[cur].Parent {
		if cur == d.Root() {
			return true
		}
	}
	return false
}

// AppendChild attaches child as the last child of parent and returns the node
// now holding child's content. A text child following a text sibling is
// merged into that sibling, whose handle is returned instead.
//
// Appending under a parent that is not part of the tree is a programming
// error and panics.
// https://dom.spec.whatwg.org/#concept-node-append
func (d *Document) AppendChild(parent, child NodeID) NodeID {
	if !d.IsConnected(parent) {
		panic(errors.Errorf("spec: append to node %d which is not in the tree", parent))
	}
	if !d.valid(child) || child == d.Root() {
		panic(errors.Errorf("spec: cannot append node %d", child))
	}
	c := &d.nodes[child]
	if c.Parent != InvalidNode {
		panic(errors.Errorf("spec: node %d already has parent %d", child, c.Parent))
	}

	p := &d.nodes[parent]
	if c.Type == TextNode {
		if last := p.LastChild(); last != InvalidNode && d.nodes[last].Type == TextNode {
			d.nodes[last].Data += c.Data
			c.Data = ""
			return last
		}
	}

	c.Parent = parent
	p.Children = append(p.Children, child)
	if c.Type == DocumentTypeNode && parent == d.Root() && d.doctype == InvalidNode {
		d.doctype = child
	}
	return child
}

// InsertText appends data under parent, extending the last child when it is
// already a text node.
func (d *Document) InsertText(parent NodeID, data string) NodeID {
	p := d.Node(parent)
	if last := p.LastChild(); last != InvalidNode && d.nodes[last].Type == TextNode {
		d.nodes[last].Data += data
		return last
	}
	return d.AppendChild(parent, d.CreateText(data))
}

// Doctype returns the doctype node appended to the document, if any.
func (d *Document) Doctype() NodeID {
	return d.doctype
}

// DocumentElement returns the first element child of the document node.
func (d *Document) DocumentElement() NodeID {
	for _, c := range d.nodes[d.Root()].Children {
		if d.nodes[c].Type == ElementNode {
			return c
		}
	}
	return InvalidNode
}

// Depth returns the number of elements from the document element down to id,
// both included. The document element has depth 1; nodes outside the
// document element have depth 0.
func (d *Document) Depth(id NodeID) int {
	root := d.DocumentElement()
	depth := 0
	for cur := id; d.valid(cur); cur = d.nodes[cur].Parent {
		depth++
		if cur == root {
			return depth
		}
	}
	return 0
}

// Walk visits id and its descendants in document order. Returning false from
// fn skips the children of the visited node.
func (d *Document) Walk(id NodeID, fn func(NodeID, *Node) bool) {
	n := d.Node(id)
	if !fn(id, n) {
		return
	}
	for _, c := range n.Children {
		d.Walk(c, fn)
	}
}

// GetElementsByTagName returns the connected elements named name, in document
// order.
func (d *Document) GetElementsByTagName(name string) []NodeID {
	name = strings.ToLower(name)
	var found []NodeID
	d.Walk(d.Root(), func(id NodeID, n *Node) bool {
		if n.Type == ElementNode && n.Name == name {
			found = append(found, id)
		}
		return true
	})
	return found
}

// TextContent concatenates the text descendants of id.
func (d *Document) TextContent(id NodeID) string {
	var sb strings.Builder
	d.Walk(id, func(_ NodeID, n *Node) bool {
		if n.Type == TextNode {
			sb.WriteString(n.Data)
		}
		return true
	})
	return sb.String()
}

func (d *Document) childElement(parent NodeID, name string) NodeID {
	if parent == InvalidNode {
		return InvalidNode
	}
	for _, c := range d.nodes[parent].Children {
		if d.nodes[c].IsElement(name) {
			return c
		}
	}
	return InvalidNode
}

// Head returns the head element child of the document element.
func (d *Document) Head() NodeID {
	return d.childElement(d.DocumentElement(), "head")
}

// Body returns the body element child of the document element.
func (d *Document) Body() NodeID {
	return d.childElement(d.DocumentElement(), "body")
}

// Title returns the whitespace-collapsed text of the first title element.
// https://html.spec.whatwg.org/#document.title
func (d *Document) Title() string {
	titles := d.GetElementsByTagName("title")
	if len(titles) == 0 {
		return ""
	}
	return strings.Join(strings.Fields(d.TextContent(titles[0])), " ")
}

// Window is the handle a parse hands back to its caller. It owns the
// document and everything in it.
type Window struct {
	Document *Document
}

func NewWindow() *Window {
	return &Window{Document: NewDocument()}
}
