package parser

import (
	"io"
	"strings"

	"github.com/heathj/saba/parser/spec"
)

type Parser struct {
	Tokenizer       Tokenizer
	TreeConstructor *HTMLTreeConstructor
}

// NewParser wires a tokenizer reading htmlIn to a fresh tree constructor.
func NewParser(htmlIn io.Reader, opts ...Option) *Parser {
	tokenizer := NewHTMLTokenizer(htmlIn, opts...)
	return &Parser{
		Tokenizer:       tokenizer,
		TreeConstructor: NewHTMLTreeConstructor(tokenizer, opts...),
	}
}

// Start runs tree construction over the whole input.
func (p *Parser) Start() *spec.Window {
	return p.TreeConstructor.ConstructTree()
}

// ConstructTree builds a document from an already tokenized input.
func ConstructTree(t Tokenizer, opts ...Option) *spec.Window {
	return NewHTMLTreeConstructor(t, opts...).ConstructTree()
}

// Parse reads markup from r and returns the window owning the resulting
// document.
func Parse(r io.Reader, opts ...Option) *spec.Window {
	return NewParser(r, opts...).Start()
}

func ParseString(s string, opts ...Option) *spec.Window {
	return Parse(strings.NewReader(s), opts...)
}
