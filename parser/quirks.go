package parser

import (
	"strings"

	"github.com/heathj/saba/parser/spec"
)

const (
	w3oDTDW3HTMLStrict3En     = "-//w3o//dtd w3 html strict 3.0//en//"
	w3cDTDHTML4TransitionalEN = "-/w3c/dtd html 4.0 transitional/en"
	htmlString                = "html"
	ibmxhtml                  = "http://www.ibm.com/data/dtd/v11/ibmxhtml1-transitional.dtd"

	w3cDTDHTML401Frameset     = "-//w3c//dtd html 4.01 frameset//"
	w3cDTDHTML401Transitional = "-//w3c//dtd html 4.01 transitional//"
	w3cDTDXHTML1Frameset      = "-//w3c//dtd xhtml 1.0 frameset//"
	w3cDTDXHTML1Transitional  = "-//w3c//dtd xhtml 1.0 transitional//"
)

// Public identifier prefixes that put a document in quirks mode. Compared
// case-insensitively.
var quirkyPublicIdentifierPrefixes = []string{
	"+//silmaril//dtd html pro v0r11 19970101//",
	"-//as//dtd html 3.0 aswedit + extensions//",
	"-//advasoft ltd//dtd html 3.0 aswedit + extensions//",
	"-//ietf//dtd html 2.0 level 1//",
	"-//ietf//dtd html 2.0 level 2//",
	"-//ietf//dtd html 2.0 strict level 1//",
	"-//ietf//dtd html 2.0 strict level 2//",
	"-//ietf//dtd html 2.0 strict//",
	"-//ietf//dtd html 2.0//",
	"-//ietf//dtd html 2.1e//",
	"-//ietf//dtd html 3.0//",
	"-//ietf//dtd html 3.2 final//",
	"-//ietf//dtd html 3.2//",
	"-//ietf//dtd html 3//",
	"-//ietf//dtd html level 0//",
	"-//ietf//dtd html level 1//",
	"-//ietf//dtd html level 2//",
	"-//ietf//dtd html level 3//",
	"-//ietf//dtd html strict level 0//",
	"-//ietf//dtd html strict level 1//",
	"-//ietf//dtd html strict level 2//",
	"-//ietf//dtd html strict level 3//",
	"-//ietf//dtd html strict//",
	"-//ietf//dtd html//",
	"-//metrius//dtd metrius presentational//",
	"-//microsoft//dtd internet explorer 2.0 html strict//",
	"-//microsoft//dtd internet explorer 2.0 html//",
	"-//microsoft//dtd internet explorer 2.0 tables//",
	"-//microsoft//dtd internet explorer 3.0 html strict//",
	"-//microsoft//dtd internet explorer 3.0 html//",
	"-//microsoft//dtd internet explorer 3.0 tables//",
	"-//netscape comm. corp.//dtd html//",
	"-//netscape comm. corp.//dtd strict html//",
	"-//o'reilly and associates//dtd html 2.0//",
	"-//o'reilly and associates//dtd html extended 1.0//",
	"-//o'reilly and associates//dtd html extended relaxed 1.0//",
	"-//sq//dtd html 2.0 hotmetal + extensions//",
	"-//softquad software//dtd hotmetal pro 6.0::19990601::extensions to html 4.0//",
	"-//softquad//dtd hotmetal pro 4.0::19971010::extensions to html 4.0//",
	"-//spyglass//dtd html 2.0 extended//",
	"-//sun microsystems corp.//dtd hotjava html//",
	"-//sun microsystems corp.//dtd hotjava strict html//",
	"-//w3c//dtd html 3 1995-03-24//",
	"-//w3c//dtd html 3.2 draft//",
	"-//w3c//dtd html 3.2 final//",
	"-//w3c//dtd html 3.2//",
	"-//w3c//dtd html 3.2s draft//",
	"-//w3c//dtd html 4.0 frameset//",
	"-//w3c//dtd html 4.0 transitional//",
	"-//w3c//dtd html experimental 19960712//",
	"-//w3c//dtd html experimental 970421//",
	"-//w3c//dtd w3 html//",
	"-//w3o//dtd w3 html 3.0//",
	"-//webtechs//dtd mozilla html 2.0//",
	"-//webtechs//dtd mozilla html//",
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// https://html.spec.whatwg.org/multipage/parsing.html#the-initial-insertion-mode
func isForceQuirks(t *Token) bool {
	if t.ForceQuirks || t.TagName != "html" {
		return true
	}

	public := strings.ToLower(t.PublicIdentifier)
	system := strings.ToLower(t.SystemIdentifier)
	switch public {
	case w3oDTDW3HTMLStrict3En, w3cDTDHTML4TransitionalEN, htmlString:
		return true
	}
	if system == ibmxhtml {
		return true
	}
	if hasAnyPrefix(public, quirkyPublicIdentifierPrefixes...) {
		return true
	}

	return system == "" && hasAnyPrefix(public, w3cDTDHTML401Frameset, w3cDTDHTML401Transitional)
}

func isLimitedQuirks(t *Token) bool {
	public := strings.ToLower(t.PublicIdentifier)
	if hasAnyPrefix(public, w3cDTDXHTML1Frameset, w3cDTDXHTML1Transitional) {
		return true
	}

	return t.SystemIdentifier != "" && hasAnyPrefix(public, w3cDTDHTML401Frameset, w3cDTDHTML401Transitional)
}

func quirksModeFor(t *Token) spec.QuirksMode {
	switch {
	case isForceQuirks(t):
		return spec.Quirks
	case isLimitedQuirks(t):
		return spec.LimitedQuirks
	default:
		return spec.NoQuirks
	}
}
