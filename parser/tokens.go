package parser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/heathj/saba/parser/spec"
)

type TokenType uint

const (
	CharacterToken TokenType = iota
	StartTagToken
	EndTagToken
	EndOfFileToken
	CommentToken
	DocTypeToken
)

func (t TokenType) String() string {
	switch t {
	case CharacterToken:
		return "Character"
	case StartTagToken:
		return "StartTag"
	case EndTagToken:
		return "EndTag"
	case EndOfFileToken:
		return "EOF"
	case CommentToken:
		return "Comment"
	case DocTypeToken:
		return "DOCTYPE"
	default:
		return fmt.Sprintf("TokenType(%d)", uint(t))
	}
}

// Token is a single lexical unit handed to the tree constructor.
type Token struct {
	Type TokenType
	// TagName is the lower-cased tag name of start and end tags, and the
	// doctype name of DOCTYPE tokens.
	TagName string
	// DataAtom is the interned TagName, or zero when the name is unknown.
	DataAtom    atom.Atom
	Attributes  []spec.Attr
	SelfClosing bool
	// Data is the single code point of a character token or the text of a
	// comment.
	Data string

	PublicIdentifier string
	SystemIdentifier string
	ForceQuirks      bool
}

func tagToken(tt TokenType, name string, attrs []spec.Attr) Token {
	name = strings.ToLower(name)
	return Token{
		Type:       tt,
		TagName:    name,
		DataAtom:   atom.Lookup([]byte(name)),
		Attributes: attrs,
	}
}

// StartTag creates a start tag token.
func StartTag(name string, attrs ...spec.Attr) Token {
	return tagToken(StartTagToken, name, attrs)
}

// SelfClosingTag creates a start tag token with the self-closing flag set.
func SelfClosingTag(name string, attrs ...spec.Attr) Token {
	t := tagToken(StartTagToken, name, attrs)
	t.SelfClosing = true
	return t
}

// EndTag creates an end tag token.
func EndTag(name string) Token {
	return tagToken(EndTagToken, name, nil)
}

// Char creates a character token.
func Char(r rune) Token {
	return Token{Type: CharacterToken, Data: string(r)}
}

// Chars creates one character token per code point of s.
func Chars(s string) []Token {
	tokens := make([]Token, 0, len(s))
	for _, r := range s {
		tokens = append(tokens, Char(r))
	}
	return tokens
}

// Comment creates a comment token.
func Comment(data string) Token {
	return Token{Type: CommentToken, Data: data}
}

// DocType creates a DOCTYPE token. Empty identifiers are treated as missing.
func DocType(name, publicID, systemID string) Token {
	return Token{
		Type:             DocTypeToken,
		TagName:          name,
		PublicIdentifier: publicID,
		SystemIdentifier: systemID,
	}
}

// EOF creates an end of file token.
func EOF() Token {
	return Token{Type: EndOfFileToken}
}

func (t *Token) hasAttribute(name string) bool {
	for _, a := range t.Attributes {
		if a.Name == name {
			return true
		}
	}
	return false
}

// isWhitespace reports whether a character token carries one of the
// characters the tree builder treats as inter-element whitespace.
func (t *Token) isWhitespace() bool {
	if t.Type != CharacterToken {
		return false
	}
	switch t.Data {
	case "\u0009", "\u000A", "\u000C", "\u000D", " ":
		return true
	}
	return false
}

func (t Token) String() string {
	switch t.Type {
	case CharacterToken:
		return fmt.Sprintf("Character(%q)", t.Data)
	case StartTagToken:
		if t.SelfClosing {
			return "StartTag(<" + t.TagName + "/>)"
		}
		return "StartTag(<" + t.TagName + ">)"
	case EndTagToken:
		return "EndTag(</" + t.TagName + ">)"
	case CommentToken:
		return fmt.Sprintf("Comment(%q)", t.Data)
	case DocTypeToken:
		return "DOCTYPE(" + t.TagName + ")"
	default:
		return t.Type.String()
	}
}
