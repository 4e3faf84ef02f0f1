package parser

import "github.com/sirupsen/logrus"

// parseError names a recoverable problem in the input. Parse errors never
// stop tree construction; they are only reported through the logger.
// https://html.spec.whatwg.org/multipage/parsing.html#parse-errors
type parseError string

const (
	noError                 parseError = ""
	generalParseError       parseError = "general-parse-error"
	missingDoctype          parseError = "missing-doctype"
	unexpectedDoctype       parseError = "unexpected-doctype"
	unexpectedNullCharacter parseError = "unexpected-null-character"
	unexpectedStartTag      parseError = "unexpected-start-tag"
	unexpectedEndTag        parseError = "unexpected-end-tag"
	unexpectedEOF           parseError = "eof-in-element"
	unclosedElement         parseError = "unclosed-element"
)

func (c *HTMLTreeConstructor) logError(err parseError, mode insertionMode, t *Token) {
	if err == noError {
		return
	}
	c.parseErrors++
	c.log.WithFields(logrus.Fields{
		"mode":  mode,
		"token": t.String(),
	}).Debug(string(err))
}
