package spec

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html/atom"
)

func (d *Document) serializeNodeType(n *Node, ident int) string {
	switch n.Type {
	case ElementNode:
		e := "<" + n.Name + ">"
		if len(n.Attributes) == 0 {
			return e
		}
		// attributes are listed sorted by name, one per line
		attrs := make([]Attr, len(n.Attributes))
		copy(attrs, n.Attributes)
		sort.SliceStable(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
		spaces := "| " + strings.Repeat("  ", ident-1)
		for _, a := range attrs {
			e += "\n" + spaces + a.Name + "=\"" + a.Value + "\""
		}
		return e
	case TextNode:
		return "\"" + n.Data + "\""
	case CommentNode:
		return "<!-- " + n.Data + " -->"
	case DocumentTypeNode:
		dt := "<!DOCTYPE " + n.Name
		if n.PublicID != "" || n.SystemID != "" {
			dt += " \"" + n.PublicID + "\" \"" + n.SystemID + "\""
		}
		return dt + ">"
	case DocumentNode:
		return "#document"
	default:
		return fmt.Sprintf("<!-- unknown node type %d -->", n.Type)
	}
}

func (d *Document) serialize(sb *strings.Builder, id NodeID, ident int) {
	n := d.Node(id)
	if n.Type != DocumentNode {
		sb.WriteString("| ")
		sb.WriteString(strings.Repeat("  ", ident-1))
	}
	sb.WriteString(d.serializeNodeType(n, ident+1))
	sb.WriteByte('\n')
	for _, child := range n.Children {
		d.serialize(sb, child, ident+1)
	}
}

// Dump renders the subtree rooted at id in the html5lib tree-construction
// test format.
func (d *Document) Dump(id NodeID) string {
	var sb strings.Builder
	ident := 0
	if id != d.Root() {
		ident = 1
	}
	d.serialize(&sb, id, ident)
	return strings.TrimRight(sb.String(), "\n")
}

// String renders the whole document in the html5lib tree-construction test
// format:
//
//	#document
//	| <html>
//	|   <head>
func (d *Document) String() string {
	return d.Dump(d.Root())
}

// https://html.spec.whatwg.org/#escapingString
func escapeString(s string, attrVal bool) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "\u00A0", "&nbsp;")
	if attrVal {
		s = strings.ReplaceAll(s, "\"", "&quot;")
	} else {
		s = strings.ReplaceAll(s, "<", "&lt;")
		s = strings.ReplaceAll(s, ">", "&gt;")
	}

	return s
}

func (d *Document) serializeChildren(sb *strings.Builder, id NodeID) {
	parent := d.Node(id)
	switch parent.Atom {
	case atom.Basefont, atom.Bgsound, atom.Frame, atom.Keygen:
		return
	}

	for _, c := range parent.Children {
		d.serializeHTML(sb, c, parent)
	}
}

func (d *Document) serializeHTML(sb *strings.Builder, id NodeID, parent *Node) {
	n := d.Node(id)
	switch n.Type {
	case ElementNode:
		sb.WriteString("<" + n.Name)
		for _, a := range n.Attributes {
			sb.WriteString(" " + a.Name + "=\"" + escapeString(a.Value, true) + "\"")
		}
		sb.WriteString(">")
		if IsVoidElement(n) {
			return
		}
		d.serializeChildren(sb, id)
		sb.WriteString("</" + n.Name + ">")
	case TextNode:
		if parent != nil && IsRawTextElement(parent) {
			sb.WriteString(n.Data)
		} else {
			sb.WriteString(escapeString(n.Data, false))
		}
	case CommentNode:
		sb.WriteString("<!--" + n.Data + "-->")
	case DocumentTypeNode:
		sb.WriteString("<!DOCTYPE " + n.Name + ">")
	case DocumentNode:
		d.serializeChildren(sb, id)
	}
}

// OuterHTML serializes the subtree rooted at id back to markup.
// https://html.spec.whatwg.org/#serialising-html-fragments
func (d *Document) OuterHTML(id NodeID) string {
	var sb strings.Builder
	var parent *Node
	if p := d.Node(id).Parent; p != InvalidNode {
		parent = d.Node(p)
	}
	d.serializeHTML(&sb, id, parent)
	return sb.String()
}

// InnerHTML serializes the children of id.
func (d *Document) InnerHTML(id NodeID) string {
	var sb strings.Builder
	d.serializeChildren(&sb, id)
	return sb.String()
}
