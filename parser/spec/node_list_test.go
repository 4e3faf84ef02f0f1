package spec

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openChain builds a chain of nested elements and pushes each of them.
func openChain(names ...string) (*Document, *StackOfOpenElements) {
	d := NewDocument()
	s := NewStackOfOpenElements(d)
	parent := d.Root()
	for _, name := range names {
		parent = d.AppendChild(parent, d.CreateElement(name, nil))
		s.Push(parent)
	}
	return d, s
}

func TestStackOfOpenElementsEmpty(t *testing.T) {
	s := NewStackOfOpenElements(NewDocument())
	_, err := s.Pop()
	assert.True(t, errors.Is(err, ErrEmptyStack))
	_, err = s.Current()
	assert.True(t, errors.Is(err, ErrEmptyStack))
	assert.Equal(t, InvalidNode, s.PopUntil("p"))
}

func TestStackOfOpenElementsPushPop(t *testing.T) {
	d, s := openChain("html", "body", "p")
	require.Equal(t, 3, s.Len())

	cur, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "p", d.Node(cur).Name)

	popped, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, cur, popped)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("body"))
	assert.False(t, s.Contains("p"))

	// popping never detaches the element from the tree
	assert.True(t, d.IsConnected(popped))
}

func TestStackOfOpenElementsPopUntil(t *testing.T) {
	d, s := openChain("html", "body", "ul", "li", "b")
	popped := s.PopUntil("li", "dd")
	assert.Equal(t, "li", d.Node(popped).Name)
	assert.Equal(t, 3, s.Len())
}

func TestStackOfOpenElementsRemove(t *testing.T) {
	_, s := openChain("html", "head", "title")
	head := s.At(1)
	s.Remove(head)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, -1, s.NodeList.Contains(head))
	s.Remove(head)
	assert.Equal(t, 2, s.Len())
}

func TestStackOfOpenElementsScopes(t *testing.T) {
	tests := []struct {
		name   string
		open   []string
		target string
		scope  func(s *StackOfOpenElements, target string) bool
		want   bool
	}{
		{"in scope", []string{"html", "body", "div", "p"}, "div", (*StackOfOpenElements).ContainsElementInScope, true},
		{"blocked by table", []string{"html", "body", "p", "table", "td"}, "p", (*StackOfOpenElements).ContainsElementInScope, false},
		{"not open", []string{"html", "body"}, "p", (*StackOfOpenElements).ContainsElementInScope, false},
		{"button scope", []string{"html", "body", "p", "button"}, "p", (*StackOfOpenElements).ContainsElementInButtonScope, false},
		{"button scope open", []string{"html", "body", "p", "span"}, "p", (*StackOfOpenElements).ContainsElementInButtonScope, true},
		{"list item scope", []string{"html", "body", "li", "ul"}, "li", (*StackOfOpenElements).ContainsElementInListItemScope, false},
		{"list item open", []string{"html", "body", "ul", "li", "b"}, "li", (*StackOfOpenElements).ContainsElementInListItemScope, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, s := openChain(tt.open...)
			assert.Equal(t, tt.want, tt.scope(s, tt.target))
		})
	}
}

func TestContainsElementsInScope(t *testing.T) {
	_, s := openChain("html", "body", "h2", "span")
	assert.True(t, s.ContainsElementsInScope("h1", "h2", "h3"))
	assert.False(t, s.ContainsElementsInScope("h1", "h3"))
}
