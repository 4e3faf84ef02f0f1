package parser

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/heathj/saba/parser/spec"
)

// Tokenizer is a forward-only source of tokens. Next returns false once the
// input is exhausted; the tree constructor treats that like an EOF token.
type Tokenizer interface {
	Next() (Token, bool)
}

// HTMLTokenizer turns markup into tokens. Scanning is delegated to the
// golang.org/x/net/html tokenizer; text runs are split into one character
// token per code point.
type HTMLTokenizer struct {
	z       *html.Tokenizer
	pending []Token
	done    bool
	log     *logrus.Entry
}

// NewHTMLTokenizer creates a tokenizer reading markup from r. Only the
// logger of opts is used.
func NewHTMLTokenizer(r io.Reader, opts ...Option) *HTMLTokenizer {
	config := newConfig(opts)
	return &HTMLTokenizer{
		z:   html.NewTokenizer(r),
		log: config.Logger.WithField("component", "tokenizer"),
	}
}

// Next returns the next token. The last token produced is always an EOF
// token.
func (p *HTMLTokenizer) Next() (Token, bool) {
	for len(p.pending) == 0 {
		if p.done {
			return Token{}, false
		}
		p.fill()
	}
	t := p.pending[0]
	p.pending = p.pending[1:]
	return t, true
}

func (p *HTMLTokenizer) fill() {
	switch tt := p.z.Next(); tt {
	case html.ErrorToken:
		if err := p.z.Err(); err != io.EOF {
			p.log.WithError(err).Warn("input ended early")
		}
		p.pending = append(p.pending, EOF())
		p.done = true
	case html.TextToken:
		p.pending = append(p.pending, Chars(string(p.z.Text()))...)
	case html.StartTagToken, html.SelfClosingTagToken:
		ht := p.z.Token()
		t := Token{
			Type:        StartTagToken,
			TagName:     ht.Data,
			DataAtom:    ht.DataAtom,
			SelfClosing: tt == html.SelfClosingTagToken,
		}
		for _, a := range ht.Attr {
			if t.hasAttribute(a.Key) {
				// the first occurrence of a duplicated attribute wins
				continue
			}
			t.Attributes = append(t.Attributes, spec.Attr{Name: a.Key, Value: a.Val})
		}
		p.pending = append(p.pending, t)
	case html.EndTagToken:
		ht := p.z.Token()
		p.pending = append(p.pending, Token{
			Type:     EndTagToken,
			TagName:  ht.Data,
			DataAtom: ht.DataAtom,
		})
	case html.CommentToken:
		p.pending = append(p.pending, Comment(string(p.z.Text())))
	case html.DoctypeToken:
		p.pending = append(p.pending, parseDocType(string(p.z.Text())))
	}
}

const whitespace = " \t\r\n\f"

// parseDocType splits the body of a <!DOCTYPE ...> declaration into its
// name and identifiers.
// https://html.spec.whatwg.org/multipage/parsing.html#doctype-state
func parseDocType(s string) Token {
	t := Token{Type: DocTypeToken}
	s = strings.TrimLeft(s, whitespace)
	if s == "" {
		t.ForceQuirks = true
		return t
	}

	end := strings.IndexAny(s, whitespace)
	if end == -1 {
		end = len(s)
	}
	t.TagName = strings.ToLower(s[:end])
	s = strings.TrimLeft(s[end:], whitespace)

	if len(s) < 6 {
		t.ForceQuirks = s != ""
		return t
	}

	key := strings.ToLower(s[:6])
	s = s[6:]
	if key != "public" && key != "system" {
		t.ForceQuirks = true
		return t
	}
	for ids := 0; key == "public" || key == "system"; ids++ {
		s = strings.TrimLeft(s, whitespace)
		if s == "" || (s[0] != '"' && s[0] != '\'') {
			// the keyword needs at least one quoted identifier
			t.ForceQuirks = ids == 0 || s != ""
			return t
		}
		quote := s[0]
		s = s[1:]
		var id string
		if q := strings.IndexByte(s, quote); q == -1 {
			id, s = s, ""
			t.ForceQuirks = true
		} else {
			id, s = s[:q], s[q+1:]
		}

		if key == "public" {
			t.PublicIdentifier = id
			key = "system"
		} else {
			t.SystemIdentifier = id
			key = ""
		}
	}

	if strings.TrimLeft(s, whitespace) != "" {
		t.ForceQuirks = true
	}
	return t
}

// TokenStream replays a fixed sequence of tokens.
type TokenStream struct {
	tokens []Token
	i      int
}

func NewTokenStream(tokens ...Token) *TokenStream {
	return &TokenStream{tokens: tokens}
}

func (s *TokenStream) Next() (Token, bool) {
	if s.i >= len(s.tokens) {
		return Token{}, false
	}
	t := s.tokens[s.i]
	s.i++
	return t, true
}

// Tokenize drains t and returns every token it produced.
func Tokenize(t Tokenizer) []Token {
	var tokens []Token
	for {
		tok, ok := t.Next()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}
