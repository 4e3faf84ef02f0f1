package spec

import (
	"golang.org/x/net/html/atom"
)

type NodeType uint16

const (
	ElementNode NodeType = iota + 1
	TextNode
	CommentNode
	DocumentNode
	DocumentTypeNode
)

func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case DocumentNode:
		return "document"
	case DocumentTypeNode:
		return "doctype"
	default:
		return "invalid"
	}
}

// NodeID is a stable handle to a node stored in a Document. Handles stay valid
// for the lifetime of the document since nodes are never removed.
type NodeID int

// InvalidNode is the parent of the document node and of detached nodes.
const InvalidNode NodeID = -1

// Attr is a single name/value pair on an element. Attribute order follows
// the source.
type Attr struct {
	Name, Value string
}

// https://dom.spec.whatwg.org/#node
type Node struct {
	Type NodeType
	// Name is the tag name for elements and the doctype name for doctypes.
	Name string
	// Atom is the interned form of Name, or zero for unknown tag names.
	Atom       atom.Atom
	Attributes []Attr
	// Data holds the content of text and comment nodes.
	Data     string
	Parent   NodeID
	Children []NodeID

	// doctype only
	PublicID, SystemID string
}

// GetAttribute returns the value of the named attribute.
func (n *Node) GetAttribute(name string) (string, bool) {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the node carries the named attribute.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// SetAttribute overwrites an existing attribute or appends a new one.
func (n *Node) SetAttribute(name, value string) {
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			n.Attributes[i].Value = value
			return
		}
	}
	n.Attributes = append(n.Attributes, Attr{Name: name, Value: value})
}

func (n *Node) HasChildNodes() bool {
	return len(n.Children) > 0
}

// LastChild returns the last child or InvalidNode.
func (n *Node) LastChild() NodeID {
	if len(n.Children) == 0 {
		return InvalidNode
	}
	return n.Children[len(n.Children)-1]
}

// FirstChild returns the first child or InvalidNode.
func (n *Node) FirstChild() NodeID {
	if len(n.Children) == 0 {
		return InvalidNode
	}
	return n.Children[0]
}

// IsElement reports whether n is an element with one of the given names.
func (n *Node) IsElement(names ...string) bool {
	if n.Type != ElementNode {
		return false
	}
	for _, name := range names {
		if n.Name == name {
			return true
		}
	}
	return false
}
