package spec

import "github.com/pkg/errors"

// ErrEmptyStack is returned when the stack of open elements is consulted
// while nothing is open.
var ErrEmptyStack = errors.New("stack of open elements is empty")

var elementInScopeList = []string{
	"applet",
	"caption",
	"html",
	"table",
	"td",
	"th",
	"marquee",
	"object",
	"template",
}
var listItemScopeList = append(append([]string{}, elementInScopeList...), "ol", "ul")
var buttonScopeList = append(append([]string{}, elementInScopeList...), "button")

// NodeList is an ordered list of node handles.
type NodeList []NodeID

func (h NodeList) Contains(n NodeID) int {
	for i := range h {
		if n == h[i] {
			return i
		}
	}
	return -1
}

// StackOfOpenElements holds the elements a tree builder may still insert
// into. The last entry is the current node.
// https://html.spec.whatwg.org/multipage/parsing.html#stack-of-open-elements
type StackOfOpenElements struct {
	NodeList
	doc *Document
}

func NewStackOfOpenElements(doc *Document) *StackOfOpenElements {
	return &StackOfOpenElements{doc: doc}
}

func (s *StackOfOpenElements) Len() int {
	return len(s.NodeList)
}

// At returns the i-th entry counted from the bottom.
func (s *StackOfOpenElements) At(i int) NodeID {
	return s.NodeList[i]
}

func (s *StackOfOpenElements) Push(n NodeID) {
	s.NodeList = append(s.NodeList, n)
}

func (s *StackOfOpenElements) Pop() (NodeID, error) {
	if len(s.NodeList) == 0 {
		return InvalidNode, ErrEmptyStack
	}
	popped := s.NodeList[len(s.NodeList)-1]
	s.NodeList = s.NodeList[:len(s.NodeList)-1]
	return popped, nil
}

// Current returns the current node.
// https://html.spec.whatwg.org/multipage/parsing.html#current-node
func (s *StackOfOpenElements) Current() (NodeID, error) {
	if len(s.NodeList) == 0 {
		return InvalidNode, ErrEmptyStack
	}
	return s.NodeList[len(s.NodeList)-1], nil
}

// Remove takes n out of the stack wherever it is. It is a no-op if n is not
// present.
func (s *StackOfOpenElements) Remove(n NodeID) {
	i := s.NodeList.Contains(n)
	if i == -1 {
		return
	}
	s.NodeList = append(s.NodeList[:i], s.NodeList[i+1:]...)
}

func (s *StackOfOpenElements) name(n NodeID) string {
	return s.doc.Node(n).Name
}

// Contains reports whether an element with the given tag name is open.
func (s *StackOfOpenElements) Contains(tagName string) bool {
	for _, n := range s.NodeList {
		if s.name(n) == tagName {
			return true
		}
	}
	return false
}

// PopUntil pops entries until one named like first or rest has been popped.
// It returns the last popped entry, or InvalidNode if the stack ran dry.
func (s *StackOfOpenElements) PopUntil(first string, rest ...string) NodeID {
	for {
		popped, err := s.Pop()
		if err != nil {
			return InvalidNode
		}

		if s.name(popped) == first {
			return popped
		}
		for _, tagName := range rest {
			if s.name(popped) == tagName {
				return popped
			}
		}
	}
}

func (s *StackOfOpenElements) ContainsElementInSpecificScope(target string, list ...string) bool {
	for i := len(s.NodeList) - 1; i >= 0; i-- {
		entry := s.name(s.NodeList[i])
		if target == entry {
			return true
		}

		for _, name := range list {
			if entry == name {
				return false
			}
		}
	}

	return false
}

func (s *StackOfOpenElements) ContainsElementInScope(target string) bool {
	return s.ContainsElementInSpecificScope(target, elementInScopeList...)
}

func (s *StackOfOpenElements) ContainsElementsInScope(elems ...string) bool {
	for _, elem := range elems {
		if s.ContainsElementInScope(elem) {
			return true
		}
	}

	return false
}

func (s *StackOfOpenElements) ContainsElementInListItemScope(target string) bool {
	return s.ContainsElementInSpecificScope(target, listItemScopeList...)
}

func (s *StackOfOpenElements) ContainsElementInButtonScope(target string) bool {
	return s.ContainsElementInSpecificScope(target, buttonScopeList...)
}
