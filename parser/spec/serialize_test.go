package spec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleDocument() (*Document, NodeID) {
	d := NewDocument()
	d.AppendChild(d.Root(), d.CreateDocumentType("html", "", ""))
	d.AppendChild(d.Root(), d.CreateComment("top"))
	html := d.AppendChild(d.Root(), d.CreateElement("html", []Attr{{Name: "lang", Value: "en"}, {Name: "dir", Value: "ltr"}}))
	head := d.AppendChild(html, d.CreateElement("head", nil))
	script := d.AppendChild(head, d.CreateElement("script", nil))
	d.InsertText(script, "a < b && c")
	body := d.AppendChild(html, d.CreateElement("body", nil))
	p := d.AppendChild(body, d.CreateElement("p", []Attr{{Name: "title", Value: `say "hi"`}}))
	d.InsertText(p, "1 < 2 & 3\u00a0")
	d.AppendChild(p, d.CreateElement("br", nil))
	return d, body
}

func TestDocumentString(t *testing.T) {
	d, _ := sampleDocument()
	expected := strings.Join([]string{
		"#document",
		"| <!DOCTYPE html>",
		"| <!-- top -->",
		"| <html>",
		`|   dir="ltr"`,
		`|   lang="en"`,
		"|   <head>",
		"|     <script>",
		`|       "a < b && c"`,
		"|   <body>",
		"|     <p>",
		`|       title="say "hi""`,
		"|       \"1 < 2 & 3\u00a0\"",
		"|       <br>",
	}, "\n")
	assert.Equal(t, expected, d.String())
}

func TestDocumentTypeDump(t *testing.T) {
	d := NewDocument()
	d.AppendChild(d.Root(), d.CreateDocumentType("html", "-//W3C//DTD HTML 4.01//EN", ""))
	assert.Equal(t, "#document\n| <!DOCTYPE html \"-//W3C//DTD HTML 4.01//EN\" \"\">", d.String())
}

func TestDumpSubtree(t *testing.T) {
	d, body := sampleDocument()
	assert.Equal(t, strings.Join([]string{
		"| <body>",
		"|   <p>",
		`|     title="say "hi""`,
		"|     \"1 < 2 & 3\u00a0\"",
		"|     <br>",
	}, "\n"), d.Dump(body))
}

func TestOuterHTML(t *testing.T) {
	d, body := sampleDocument()
	assert.Equal(t,
		`<body><p title="say &quot;hi&quot;">1 &lt; 2 &amp; 3&nbsp;<br></p></body>`,
		d.OuterHTML(body))
	assert.Equal(t,
		`<!DOCTYPE html><!--top--><html lang="en" dir="ltr"><head><script>a < b && c</script></head>`+
			`<body><p title="say &quot;hi&quot;">1 &lt; 2 &amp; 3&nbsp;<br></p></body></html>`,
		d.OuterHTML(d.Root()))
}

func TestInnerHTML(t *testing.T) {
	d, body := sampleDocument()
	assert.Equal(t, `<p title="say &quot;hi&quot;">1 &lt; 2 &amp; 3&nbsp;<br></p>`, d.InnerHTML(body))
}

func TestElementCategories(t *testing.T) {
	d := NewDocument()
	el := func(name string) *Node { return d.Node(d.CreateElement(name, nil)) }

	assert.True(t, IsSpecial(el("p")))
	assert.True(t, IsSpecial(el("body")))
	assert.False(t, IsSpecial(el("b")))
	assert.False(t, IsSpecial(el("custom-element")))
	assert.True(t, IsVoidElement(el("img")))
	assert.False(t, IsVoidElement(el("div")))
	assert.True(t, IsRawTextElement(el("script")))
	assert.False(t, IsRawTextElement(el("textarea")))
	assert.False(t, IsSpecial(d.Node(d.CreateText("p"))))
}
