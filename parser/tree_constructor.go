package parser

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	a "golang.org/x/net/html/atom"

	"github.com/heathj/saba/parser/spec"
)

type insertionMode uint

const (
	initial insertionMode = iota
	beforeHTML
	beforeHead
	inHead
	afterHead
	inBody
	text
	afterBody
	afterAfterBody

	numInsertionModes
)

var insertionModeNames = [numInsertionModes]string{
	initial:        "initial",
	beforeHTML:     "before html",
	beforeHead:     "before head",
	inHead:         "in head",
	afterHead:      "after head",
	inBody:         "in body",
	text:           "text",
	afterBody:      "after body",
	afterAfterBody: "after after body",
}

func (m insertionMode) String() string {
	if m < numInsertionModes {
		return insertionModeNames[m]
	}
	return fmt.Sprintf("insertionMode(%d)", uint(m))
}

// treeConstructionModeHandler applies the rules of one insertion mode to a
// token. It reports whether the token must be handled again under the
// returned mode instead of being consumed.
type treeConstructionModeHandler func(t *Token) (bool, insertionMode, parseError)

// HTMLTreeConstructor holds the state of the tree construction phase.
// https://html.spec.whatwg.org/multipage/parsing.html#tree-construction
type HTMLTreeConstructor struct {
	config    Config
	log       *logrus.Entry
	tokenizer Tokenizer

	window *spec.Window
	doc    *spec.Document

	mode                  insertionMode
	originalInsertionMode insertionMode
	stackOfOpenElements   *spec.StackOfOpenElements
	headElementPointer    spec.NodeID
	formElementPointer    spec.NodeID
	// headReopened is set while a head element that was pushed back from
	// "after head" waits for its raw text child to close.
	headReopened bool
	parseErrors  int

	mappings [numInsertionModes]treeConstructionModeHandler
}

// NewHTMLTreeConstructor creates a tree constructor pulling tokens from t.
func NewHTMLTreeConstructor(t Tokenizer, opts ...Option) *HTMLTreeConstructor {
	config := newConfig(opts)
	window := spec.NewWindow()
	c := &HTMLTreeConstructor{
		config:              config,
		log:                 config.Logger.WithField("component", "tree"),
		tokenizer:           t,
		window:              window,
		doc:                 window.Document,
		mode:                initial,
		stackOfOpenElements: spec.NewStackOfOpenElements(window.Document),
		headElementPointer:  spec.InvalidNode,
		formElementPointer:  spec.InvalidNode,
	}

	c.createMappings()
	return c
}

func (c *HTMLTreeConstructor) createMappings() {
	c.mappings = [numInsertionModes]treeConstructionModeHandler{
		initial:        c.initialModeHandler,
		beforeHTML:     c.beforeHTMLModeHandler,
		beforeHead:     c.beforeHeadModeHandler,
		inHead:         c.inHeadModeHandler,
		afterHead:      c.afterHeadModeHandler,
		inBody:         c.inBodyModeHandler,
		text:           c.textModeHandler,
		afterBody:      c.afterBodyModeHandler,
		afterAfterBody: c.afterAfterBodyModeHandler,
	}
}

// ParseErrors returns how many recoverable input errors were seen so far.
func (c *HTMLTreeConstructor) ParseErrors() int {
	return c.parseErrors
}

// ConstructTree pulls tokens until the end of the input and returns the
// window holding the finished document. It never fails: malformed input
// still produces a tree.
func (c *HTMLTreeConstructor) ConstructTree() *spec.Window {
	for {
		token, ok := c.tokenizer.Next()
		if !ok {
			token = EOF()
		}

		c.ProcessToken(&token)
		if token.Type == EndOfFileToken {
			c.log.WithFields(logrus.Fields{
				"nodes":        c.doc.Len(),
				"parse_errors": c.parseErrors,
			}).Debug("tree constructed")
			return c.window
		}
	}
}

// ProcessToken dispatches t to the handler of the current insertion mode and
// keeps redispatching it while a handler asks for it to be reprocessed. Tag
// tokens built without DataAtom get it looked up from TagName.
func (c *HTMLTreeConstructor) ProcessToken(t *Token) {
	if (t.Type == StartTagToken || t.Type == EndTagToken) && t.DataAtom == 0 {
		t.DataAtom = a.Lookup([]byte(t.TagName))
	}

	var (
		reprocess bool
		nextMode  insertionMode
		parseErr  parseError
	)
	for redirects := 0; ; redirects++ {
		if redirects > int(numInsertionModes) {
			c.invariantViolation(errors.Errorf("%s redirected %d times without being consumed", t, redirects))
			return
		}

		mode := c.mode
		reprocess, nextMode, parseErr = c.mappings[mode](t)
		c.logError(parseErr, mode, t)
		if nextMode != mode {
			c.log.WithFields(logrus.Fields{
				"from":      mode,
				"to":        nextMode,
				"reprocess": reprocess,
			}).Trace("switching insertion mode")
		}
		c.mode = nextMode

		if !reprocess {
			break
		}
	}

	c.checkStackOfOpenElements()
}

// useRulesFor processes t with the rules of expectedState while staying in
// returnState, unless those rules switch to yet another mode.
func (c *HTMLTreeConstructor) useRulesFor(t *Token, returnState, expectedState insertionMode) (bool, insertionMode, parseError) {
	reprocess, nextState, err := c.mappings[expectedState](t)

	// if the next state is the same as the expected state, this means that mode handler didn't
	// change the state. We should use the current return state.
	if nextState == expectedState {
		return reprocess, returnState, err
	}
	return reprocess, nextState, err
}

// invariantViolation reports a state the mode table should have made
// impossible. The caller is expected to repair the state when this returns.
func (c *HTMLTreeConstructor) invariantViolation(err error) {
	if c.config.Debug {
		panic(err)
	}
	c.log.WithError(err).Error("tree construction invariant violated")
}

// checkStackOfOpenElements verifies that every open element is the parent of
// the one above it, with the document element at the bottom.
func (c *HTMLTreeConstructor) checkStackOfOpenElements() {
	s := c.stackOfOpenElements
	parent := c.doc.Root()
	for i := 0; i < s.Len(); i++ {
		if got := c.doc.Node(s.At(i)).Parent; got != parent {
			c.invariantViolation(errors.Errorf(
				"open element %d at depth %d has parent %d, expected %d", s.At(i), i, got, parent))
			c.rebuildStackOfOpenElements()
			return
		}
		parent = s.At(i)
	}
}

// rebuildStackOfOpenElements replaces the stack with the ancestor chain of
// the current node.
func (c *HTMLTreeConstructor) rebuildStackOfOpenElements() {
	top, err := c.stackOfOpenElements.Current()
	if err != nil {
		return
	}
	var chain spec.NodeList
	for n := top; n != spec.InvalidNode && n != c.doc.Root(); n = c.doc.Node(n).Parent {
		chain = append(spec.NodeList{n}, chain...)
	}
	c.stackOfOpenElements.NodeList = chain
}

func (c *HTMLTreeConstructor) currentNode() spec.NodeID {
	n, err := c.stackOfOpenElements.Current()
	if err != nil {
		c.invariantViolation(errors.Wrapf(err, "current node requested in %q", c.mode))
		return c.restoreDocumentElement()
	}
	return n
}

// restoreDocumentElement puts the document element back at the bottom of an
// empty stack, creating it if the tree has none yet.
func (c *HTMLTreeConstructor) restoreDocumentElement() spec.NodeID {
	root := c.doc.DocumentElement()
	if root == spec.InvalidNode {
		return c.insertImpliedHTMLElement()
	}
	c.stackOfOpenElements.Push(root)
	return root
}

// popCurrentNode pops the current node. The document element is never
// popped.
func (c *HTMLTreeConstructor) popCurrentNode() {
	if c.stackOfOpenElements.Len() <= 1 {
		c.invariantViolation(errors.Errorf("attempt to pop the document element in %q", c.mode))
		return
	}
	c.stackOfOpenElements.Pop()
}

// popUntil pops elements until one with a listed name has been popped. The
// caller must know such an element is open above the document element.
func (c *HTMLTreeConstructor) popUntil(names ...string) {
	for c.stackOfOpenElements.Len() > 1 {
		n, _ := c.stackOfOpenElements.Pop()
		if c.doc.Node(n).IsElement(names...) {
			return
		}
	}
	c.invariantViolation(errors.Errorf("popped down to the document element looking for %v", names))
}

func (c *HTMLTreeConstructor) currentNodeIs(names ...string) bool {
	n, err := c.stackOfOpenElements.Current()
	if err != nil {
		return false
	}
	return c.doc.Node(n).IsElement(names...)
}

// https://html.spec.whatwg.org/multipage/parsing.html#insert-a-comment
func (c *HTMLTreeConstructor) insertCommentAt(t *Token, parent spec.NodeID) {
	c.doc.AppendChild(parent, c.doc.CreateComment(t.Data))
}

func (c *HTMLTreeConstructor) insertComment(t *Token) {
	c.insertCommentAt(t, c.currentNode())
}

// https://html.spec.whatwg.org/multipage/parsing.html#insert-a-character
func (c *HTMLTreeConstructor) insertCharacter(t *Token) {
	c.doc.InsertText(c.currentNode(), t.Data)
}

// https://html.spec.whatwg.org/multipage/parsing.html#insert-an-html-element
func (c *HTMLTreeConstructor) insertHTMLElementForToken(t *Token) spec.NodeID {
	parent := c.currentNode()
	elem := c.doc.CreateElement(t.TagName, t.Attributes)
	c.doc.AppendChild(parent, elem)
	c.stackOfOpenElements.Push(elem)
	return elem
}

// insertImpliedElement inserts an element the input did not spell out.
func (c *HTMLTreeConstructor) insertImpliedElement(name string) spec.NodeID {
	t := StartTag(name)
	return c.insertHTMLElementForToken(&t)
}

func (c *HTMLTreeConstructor) insertHTMLRootForToken(t *Token) spec.NodeID {
	elem := c.doc.CreateElement(t.TagName, t.Attributes)
	c.doc.AppendChild(c.doc.Root(), elem)
	c.stackOfOpenElements.Push(elem)
	return elem
}

func (c *HTMLTreeConstructor) insertImpliedHTMLElement() spec.NodeID {
	t := StartTag("html")
	return c.insertHTMLRootForToken(&t)
}

// mergeAttributes copies the attributes of t that elem does not already
// carry.
func (c *HTMLTreeConstructor) mergeAttributes(elem spec.NodeID, t *Token) {
	n := c.doc.Node(elem)
	for _, attr := range t.Attributes {
		if !n.HasAttribute(attr.Name) {
			n.SetAttribute(attr.Name, attr.Value)
		}
	}
}

// https://html.spec.whatwg.org/multipage/parsing.html#generic-raw-text-element-parsing-algorithm
func (c *HTMLTreeConstructor) parseGenericRawTextElement(t *Token) (bool, insertionMode, parseError) {
	c.insertHTMLElementForToken(t)
	c.originalInsertionMode = c.mode
	return false, text, noError
}

var impliedEndTags = []string{"dd", "dt", "li", "optgroup", "option", "p", "rb", "rp", "rt", "rtc"}

// https://html.spec.whatwg.org/multipage/parsing.html#generate-implied-end-tags
func (c *HTMLTreeConstructor) generateImpliedEndTags(exceptions ...string) {
	for {
		n, err := c.stackOfOpenElements.Current()
		if err != nil {
			return
		}
		node := c.doc.Node(n)
		if !node.IsElement(impliedEndTags...) || node.IsElement(exceptions...) {
			return
		}
		c.popCurrentNode()
	}
}

// https://html.spec.whatwg.org/multipage/parsing.html#close-a-p-element
func (c *HTMLTreeConstructor) closePElement() parseError {
	err := noError
	c.generateImpliedEndTags("p")
	if !c.currentNodeIs("p") {
		err = unclosedElement
	}
	c.popUntil("p")
	return err
}

func (c *HTMLTreeConstructor) closePElementInButtonScope() parseError {
	if c.stackOfOpenElements.ContainsElementInButtonScope("p") {
		return c.closePElement()
	}
	return noError
}

// closeListItem closes an open li, dd or dt before another one starts.
func (c *HTMLTreeConstructor) closeListItem(names ...string) {
	s := c.stackOfOpenElements
	for i := s.Len() - 1; i > 0; i-- {
		node := c.doc.Node(s.At(i))
		if node.IsElement(names...) {
			c.generateImpliedEndTags(node.Name)
			c.popUntil(node.Name)
			return
		}
		if spec.IsSpecial(node) && !node.IsElement("address", "div", "p") {
			return
		}
	}
}

// https://html.spec.whatwg.org/multipage/parsing.html#the-initial-insertion-mode
func (c *HTMLTreeConstructor) initialModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.Type {
	case CharacterToken:
		if t.isWhitespace() {
			return false, initial, noError
		}
	case CommentToken:
		c.insertCommentAt(t, c.doc.Root())
		return false, initial, noError
	case DocTypeToken:
		err := noError
		if t.TagName != "html" ||
			t.PublicIdentifier != "" ||
			(t.SystemIdentifier != "" &&
				t.SystemIdentifier != "about:legacy-compat") {
			err = generalParseError
		}

		doctype := c.doc.CreateDocumentType(t.TagName, t.PublicIdentifier, t.SystemIdentifier)
		c.doc.AppendChild(c.doc.Root(), doctype)
		c.doc.QuirksMode = quirksModeFor(t)
		return false, beforeHTML, err
	}

	c.doc.QuirksMode = spec.Quirks
	return true, beforeHTML, missingDoctype
}

// https://html.spec.whatwg.org/multipage/parsing.html#the-before-html-insertion-mode
func (c *HTMLTreeConstructor) beforeHTMLModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.Type {
	case DocTypeToken:
		return false, beforeHTML, unexpectedDoctype
	case CommentToken:
		c.insertCommentAt(t, c.doc.Root())
		return false, beforeHTML, noError
	case CharacterToken:
		if t.isWhitespace() {
			return false, beforeHTML, noError
		}
	case StartTagToken:
		if t.DataAtom == a.Html {
			c.insertHTMLRootForToken(t)
			return false, beforeHead, noError
		}
	case EndTagToken:
		switch t.DataAtom {
		case a.Head, a.Body, a.Html, a.Br:
		default:
			return false, beforeHTML, unexpectedEndTag
		}
	case EndOfFileToken:
		// a document always gets its root, even from empty input
		c.insertImpliedHTMLElement()
		return false, beforeHead, noError
	}

	c.insertImpliedHTMLElement()
	return true, beforeHead, noError
}

// https://html.spec.whatwg.org/multipage/parsing.html#the-before-head-insertion-mode
func (c *HTMLTreeConstructor) beforeHeadModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.Type {
	case CharacterToken:
		if t.isWhitespace() {
			return false, beforeHead, noError
		}
	case CommentToken:
		c.insertComment(t)
		return false, beforeHead, noError
	case DocTypeToken:
		return false, beforeHead, unexpectedDoctype
	case StartTagToken:
		switch t.DataAtom {
		case a.Html:
			return c.useRulesFor(t, beforeHead, inBody)
		case a.Head:
			c.headElementPointer = c.insertHTMLElementForToken(t)
			return false, inHead, noError
		}
	case EndTagToken:
		switch t.DataAtom {
		case a.Head, a.Body, a.Html, a.Br:
		default:
			return false, beforeHead, unexpectedEndTag
		}
	case EndOfFileToken:
		return false, beforeHead, noError
	}

	c.headElementPointer = c.insertImpliedElement("head")
	return true, inHead, noError
}

// https://html.spec.whatwg.org/multipage/parsing.html#parsing-main-inhead
func (c *HTMLTreeConstructor) inHeadModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.Type {
	case CharacterToken:
		if t.isWhitespace() {
			c.insertCharacter(t)
			return false, inHead, noError
		}
	case CommentToken:
		c.insertComment(t)
		return false, inHead, noError
	case DocTypeToken:
		return false, inHead, unexpectedDoctype
	case StartTagToken:
		switch t.DataAtom {
		case a.Html:
			return c.useRulesFor(t, inHead, inBody)
		case a.Base, a.Basefont, a.Bgsound, a.Link, a.Meta:
			c.insertHTMLElementForToken(t)
			c.popCurrentNode()
			return false, inHead, noError
		case a.Title, a.Noscript, a.Noframes, a.Style, a.Script:
			return c.parseGenericRawTextElement(t)
		case a.Head:
			return false, inHead, unexpectedStartTag
		}
	case EndTagToken:
		switch t.DataAtom {
		case a.Head:
			c.popCurrentNode()
			return false, afterHead, noError
		case a.Body, a.Html, a.Br:
		default:
			return false, inHead, unexpectedEndTag
		}
	case EndOfFileToken:
		return false, inHead, noError
	}

	c.popCurrentNode()
	return true, afterHead, noError
}

// processInHeadFromAfterHead reopens the head element so a late head-only
// element lands inside it.
func (c *HTMLTreeConstructor) processInHeadFromAfterHead(t *Token) (bool, insertionMode, parseError) {
	head := c.headElementPointer
	if head == spec.InvalidNode {
		c.invariantViolation(errors.New("head element pointer unset after head"))
		head = c.insertImpliedElement("head")
		c.headElementPointer = head
	} else {
		c.stackOfOpenElements.Push(head)
	}

	reprocess, nextMode, _ := c.inHeadModeHandler(t)
	if nextMode == text {
		// head is taken off the stack again once the raw text element closes
		c.headReopened = true
	} else {
		c.stackOfOpenElements.Remove(head)
	}
	if nextMode == inHead {
		nextMode = afterHead
	}
	return reprocess, nextMode, unexpectedStartTag
}

// https://html.spec.whatwg.org/multipage/parsing.html#the-after-head-insertion-mode
func (c *HTMLTreeConstructor) afterHeadModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.Type {
	case CharacterToken:
		if t.isWhitespace() {
			c.insertCharacter(t)
			return false, afterHead, noError
		}
	case CommentToken:
		c.insertComment(t)
		return false, afterHead, noError
	case DocTypeToken:
		return false, afterHead, unexpectedDoctype
	case StartTagToken:
		switch t.DataAtom {
		case a.Html:
			return c.useRulesFor(t, afterHead, inBody)
		case a.Body:
			c.insertHTMLElementForToken(t)
			return false, inBody, noError
		case a.Base, a.Basefont, a.Bgsound, a.Link, a.Meta, a.Noframes, a.Script, a.Style, a.Title:
			return c.processInHeadFromAfterHead(t)
		case a.Head:
			return false, afterHead, unexpectedStartTag
		}
	case EndTagToken:
		switch t.DataAtom {
		case a.Body, a.Html, a.Br:
		default:
			return false, afterHead, unexpectedEndTag
		}
	case EndOfFileToken:
		return false, afterHead, noError
	}

	c.insertImpliedElement("body")
	return true, inBody, noError
}

// https://html.spec.whatwg.org/multipage/parsing.html#parsing-main-inbody
func (c *HTMLTreeConstructor) inBodyModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.Type {
	case CharacterToken:
		if t.Data == "\u0000" {
			return false, inBody, unexpectedNullCharacter
		}
		c.insertCharacter(t)
		return false, inBody, noError
	case CommentToken:
		c.insertComment(t)
		return false, inBody, noError
	case DocTypeToken:
		return false, inBody, unexpectedDoctype
	case StartTagToken:
		return c.inBodyStartTag(t)
	case EndTagToken:
		return c.inBodyEndTag(t)
	}

	return false, inBody, noError
}

func (c *HTMLTreeConstructor) inBodyStartTag(t *Token) (bool, insertionMode, parseError) {
	err := noError
	switch t.DataAtom {
	case a.Html:
		c.mergeAttributes(c.stackOfOpenElements.At(0), t)
		return false, inBody, unexpectedStartTag
	case a.Base, a.Basefont, a.Bgsound, a.Link, a.Meta, a.Noframes, a.Script, a.Style, a.Title:
		return c.useRulesFor(t, inBody, inHead)
	case a.Body:
		s := c.stackOfOpenElements
		if s.Len() > 1 && c.doc.Node(s.At(1)).IsElement("body") {
			c.mergeAttributes(s.At(1), t)
		}
		return false, inBody, unexpectedStartTag
	case a.Address, a.Article, a.Aside, a.Blockquote, a.Center, a.Details, a.Dialog, a.Dir,
		a.Div, a.Dl, a.Fieldset, a.Figcaption, a.Figure, a.Footer, a.Header, a.Hgroup, a.Main,
		a.Menu, a.Nav, a.Ol, a.P, a.Section, a.Summary, a.Ul, a.Pre, a.Listing:
		err = c.closePElementInButtonScope()
		c.insertHTMLElementForToken(t)
	case a.Form:
		if c.formElementPointer != spec.InvalidNode {
			return false, inBody, unexpectedStartTag
		}
		err = c.closePElementInButtonScope()
		c.formElementPointer = c.insertHTMLElementForToken(t)
	case a.H1, a.H2, a.H3, a.H4, a.H5, a.H6:
		err = c.closePElementInButtonScope()
		if c.currentNodeIs("h1", "h2", "h3", "h4", "h5", "h6") {
			// both the unclosed p and the nested heading are reported
			c.logError(err, inBody, t)
			err = unexpectedStartTag
			c.popCurrentNode()
		}
		c.insertHTMLElementForToken(t)
	case a.Li:
		c.closeListItem("li")
		err = c.closePElementInButtonScope()
		c.insertHTMLElementForToken(t)
	case a.Dd, a.Dt:
		c.closeListItem("dd", "dt")
		err = c.closePElementInButtonScope()
		c.insertHTMLElementForToken(t)
	case a.Hr:
		err = c.closePElementInButtonScope()
		c.insertHTMLElementForToken(t)
		c.popCurrentNode()
	case a.Area, a.Br, a.Embed, a.Img, a.Keygen, a.Wbr, a.Input, a.Param, a.Source, a.Track:
		c.insertHTMLElementForToken(t)
		c.popCurrentNode()
	case a.Xmp, a.Plaintext:
		err = c.closePElementInButtonScope()
		c.parseGenericRawTextElement(t)
		return false, text, err
	case a.Textarea, a.Iframe, a.Noembed, a.Noscript:
		return c.parseGenericRawTextElement(t)
	case a.Caption, a.Col, a.Colgroup, a.Frame, a.Head, a.Tbody, a.Td, a.Tfoot, a.Th, a.Thead, a.Tr:
		return false, inBody, unexpectedStartTag
	default:
		c.insertHTMLElementForToken(t)
	}
	return false, inBody, err
}

func (c *HTMLTreeConstructor) inBodyEndTag(t *Token) (bool, insertionMode, parseError) {
	s := c.stackOfOpenElements
	switch t.DataAtom {
	case a.Body:
		if !s.ContainsElementInScope("body") {
			return false, inBody, unexpectedEndTag
		}
		return false, afterBody, noError
	case a.Html:
		if !s.ContainsElementInScope("body") {
			return false, inBody, unexpectedEndTag
		}
		return true, afterBody, noError
	case a.Address, a.Article, a.Aside, a.Blockquote, a.Button, a.Center, a.Details, a.Dialog,
		a.Dir, a.Div, a.Dl, a.Fieldset, a.Figcaption, a.Figure, a.Footer, a.Header, a.Hgroup,
		a.Listing, a.Main, a.Menu, a.Nav, a.Ol, a.Pre, a.Section, a.Summary, a.Ul:
		if !s.ContainsElementInScope(t.TagName) {
			return false, inBody, unexpectedEndTag
		}
		c.generateImpliedEndTags()
		err := noError
		if !c.currentNodeIs(t.TagName) {
			err = unclosedElement
		}
		c.popUntil(t.TagName)
		return false, inBody, err
	case a.Form:
		// pop through the form; every open element must stay the parent of
		// the one above it
		form := c.formElementPointer
		c.formElementPointer = spec.InvalidNode
		if form == spec.InvalidNode || !s.ContainsElementInScope("form") {
			return false, inBody, unexpectedEndTag
		}
		c.generateImpliedEndTags()
		err := noError
		if !c.currentNodeIs("form") {
			err = unclosedElement
		}
		c.popUntil("form")
		return false, inBody, err
	case a.P:
		err := noError
		if !s.ContainsElementInButtonScope("p") {
			err = unexpectedEndTag
			c.insertImpliedElement("p")
		}
		if e := c.closePElement(); e != noError {
			err = e
		}
		return false, inBody, err
	case a.Li:
		if !s.ContainsElementInListItemScope("li") {
			return false, inBody, unexpectedEndTag
		}
		c.generateImpliedEndTags("li")
		c.popUntil("li")
		return false, inBody, noError
	case a.Dd, a.Dt:
		if !s.ContainsElementInScope(t.TagName) {
			return false, inBody, unexpectedEndTag
		}
		c.generateImpliedEndTags(t.TagName)
		c.popUntil(t.TagName)
		return false, inBody, noError
	case a.H1, a.H2, a.H3, a.H4, a.H5, a.H6:
		if !s.ContainsElementsInScope("h1", "h2", "h3", "h4", "h5", "h6") {
			return false, inBody, unexpectedEndTag
		}
		c.generateImpliedEndTags()
		c.popUntil("h1", "h2", "h3", "h4", "h5", "h6")
		return false, inBody, noError
	case a.Br:
		// </br> is treated as <br>
		br := StartTag("br")
		c.insertHTMLElementForToken(&br)
		c.popCurrentNode()
		return false, inBody, unexpectedEndTag
	}

	return false, inBody, c.inBodyEndTagOther(t)
}

// https://html.spec.whatwg.org/multipage/parsing.html#parsing-main-inbody:any-other-end-tag
func (c *HTMLTreeConstructor) inBodyEndTagOther(t *Token) parseError {
	s := c.stackOfOpenElements
	for i := s.Len() - 1; i > 0; i-- {
		node := c.doc.Node(s.At(i))
		if node.IsElement(t.TagName) {
			c.generateImpliedEndTags(t.TagName)
			err := noError
			if !c.currentNodeIs(t.TagName) {
				err = unclosedElement
			}
			for s.Len() > i {
				c.popCurrentNode()
			}
			return err
		}
		if spec.IsSpecial(node) {
			return unexpectedEndTag
		}
	}
	return unexpectedEndTag
}

// https://html.spec.whatwg.org/multipage/parsing.html#parsing-main-incdata
func (c *HTMLTreeConstructor) textModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.Type {
	case CharacterToken:
		c.insertCharacter(t)
		return false, text, noError
	case EndOfFileToken:
		c.closeRawTextElement()
		return true, c.originalInsertionMode, unexpectedEOF
	case EndTagToken:
		c.closeRawTextElement()
		return false, c.originalInsertionMode, noError
	}
	return false, text, unexpectedStartTag
}

func (c *HTMLTreeConstructor) closeRawTextElement() {
	c.popCurrentNode()
	if c.headReopened {
		c.stackOfOpenElements.Remove(c.headElementPointer)
		c.headReopened = false
	}
}

// https://html.spec.whatwg.org/multipage/parsing.html#parsing-main-afterbody
func (c *HTMLTreeConstructor) afterBodyModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.Type {
	case CharacterToken:
		if t.isWhitespace() {
			return c.useRulesFor(t, afterBody, inBody)
		}
	case CommentToken:
		c.insertCommentAt(t, c.stackOfOpenElements.At(0))
		return false, afterBody, noError
	case DocTypeToken:
		return false, afterBody, unexpectedDoctype
	case StartTagToken:
		if t.DataAtom == a.Html {
			return c.useRulesFor(t, afterBody, inBody)
		}
	case EndTagToken:
		if t.DataAtom == a.Html {
			return false, afterAfterBody, noError
		}
	case EndOfFileToken:
		return false, afterBody, noError
	}
	return true, inBody, generalParseError
}

// https://html.spec.whatwg.org/multipage/parsing.html#the-after-after-body-insertion-mode
func (c *HTMLTreeConstructor) afterAfterBodyModeHandler(t *Token) (bool, insertionMode, parseError) {
	switch t.Type {
	case CommentToken:
		c.insertCommentAt(t, c.doc.Root())
		return false, afterAfterBody, noError
	case DocTypeToken:
		return c.useRulesFor(t, afterAfterBody, inBody)
	case CharacterToken:
		if t.isWhitespace() {
			return c.useRulesFor(t, afterAfterBody, inBody)
		}
	case StartTagToken:
		if t.DataAtom == a.Html {
			return c.useRulesFor(t, afterAfterBody, inBody)
		}
	case EndOfFileToken:
		return false, afterAfterBody, noError
	}
	return true, inBody, generalParseError
}
