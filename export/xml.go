// Package export renders finished documents in formats other than HTML.
package export

import (
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"github.com/pkg/errors"

	"github.com/heathj/saba/parser/spec"
)

// XHTMLNamespace is declared on the root element of exported documents.
const XHTMLNamespace = "http://www.w3.org/1999/xhtml"

// ToXMLDocument converts d into an etree document. The doctype is emitted as
// a directive and the document element gets the XHTML namespace unless it
// already declares one. HTML that has no XML form is adjusted so the result
// stays well formed: attributes whose names are not XML names are dropped,
// elements with such names are replaced by their children and comment data
// never contains "--".
func ToXMLDocument(d *spec.Document) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	for _, c := range d.Node(d.Root()).Children {
		n := d.Node(c)
		switch n.Type {
		case spec.DocumentTypeNode:
			if isXMLName(n.Name) {
				doc.CreateDirective("DOCTYPE " + n.Name)
			}
		case spec.CommentNode:
			doc.CreateComment(commentData(n.Data))
		case spec.ElementNode:
			root := doc.CreateElement(n.Name)
			copyElement(d, root, c)
			if root.SelectAttr("xmlns") == nil {
				root.CreateAttr("xmlns", XHTMLNamespace)
			}
		}
	}
	return doc
}

func copyElement(d *spec.Document, dst *etree.Element, id spec.NodeID) {
	n := d.Node(id)
	for _, a := range n.Attributes {
		if isXMLName(a.Name) {
			dst.CreateAttr(a.Name, a.Value)
		}
	}
	copyChildren(d, dst, id)
}

func copyChildren(d *spec.Document, dst *etree.Element, id spec.NodeID) {
	n := d.Node(id)
	for _, c := range n.Children {
		child := d.Node(c)
		switch child.Type {
		case spec.ElementNode:
			if isXMLName(child.Name) {
				copyElement(d, dst.CreateElement(child.Name), c)
			} else {
				copyChildren(d, dst, c)
			}
		case spec.TextNode:
			if spec.IsRawTextElement(n) && !strings.Contains(child.Data, "]]>") {
				dst.CreateCData(strings.Map(xmlChar, child.Data))
			} else {
				dst.CreateText(child.Data)
			}
		case spec.CommentNode:
			dst.CreateComment(commentData(child.Data))
		}
	}
}

// commentData rewrites s so it can sit between <!-- and -->.
func commentData(s string) string {
	s = strings.Map(xmlChar, s)
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	if strings.HasSuffix(s, "-") {
		s += " "
	}
	return s
}

// xmlChar maps runes outside the XML 1.0 Char production to U+FFFD.
func xmlChar(r rune) rune {
	switch {
	case r == '\t' || r == '\n' || r == '\r',
		r >= 0x20 && r <= 0xD7FF,
		r >= 0xE000 && r <= 0xFFFD,
		r >= 0x10000 && r <= 0x10FFFF:
		return r
	}
	return unicode.ReplacementChar
}

// isXMLName reports whether s is a Name in the XML sense. A colon is only
// accepted as a single prefix separator.
func isXMLName(s string) bool {
	prefix, local, found := strings.Cut(s, ":")
	if !found {
		return isNCName(s)
	}
	return isNCName(prefix) && isNCName(local)
}

func isNCName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || r == '\u00b7' || unicode.IsDigit(r) ||
			unicode.In(r, unicode.Mn, unicode.Mc)):
		default:
			return false
		}
	}
	return true
}

// ToXML serializes d as an XML string, indented by indent spaces. A negative
// indent keeps the output on one line.
func ToXML(d *spec.Document, indent int) (string, error) {
	doc := ToXMLDocument(d)
	if indent >= 0 {
		doc.Indent(indent)
	}
	s, err := doc.WriteToString()
	if err != nil {
		return "", errors.Wrap(err, "write xml")
	}
	return s, nil
}
