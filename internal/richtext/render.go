package richtext

import (
	"html"
	"html/template"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Renderer turns documents into sanitized HTML.
type Renderer struct {
	policy *bluemonday.Policy
}

// NewRenderer returns a renderer that sanitizes its output with the UGC
// policy, extended so headings keep their anchor ids.
func NewRenderer() *Renderer {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3")
	return &Renderer{policy: p}
}

// HTML renders doc. Headings of level 1-3 get an id taken from their first
// text so they can be linked to.
func (r *Renderer) HTML(doc *Document) template.HTML {
	var b strings.Builder
	for _, n := range doc.Children {
		renderNode(&b, n)
	}
	return template.HTML(r.policy.Sanitize(b.String()))
}

func renderNode(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Text:
		renderLeaf(b, v)
	case *Element:
		renderElement(b, v)
	}
}

func renderElement(b *strings.Builder, el *Element) {
	var open, end string
	switch el.Type {
	case CodeBlock:
		open, end = "<pre><code>", "</code></pre>"
	case BulletedList:
		open, end = "<ul>", "</ul>"
	case NumberedList:
		open, end = "<ol>", "</ol>"
	case ListItem:
		open, end = "<li>", "</li>"
	case Heading1, Heading2, Heading3:
		tag := "h" + strconv.Itoa(el.Type.HeadingLevel())
		open = "<" + tag
		if id := firstText(el); id != "" {
			open += ` id="` + html.EscapeString(id) + `"`
		}
		open += ">"
		end = "</" + tag + ">"
	case Heading4, Heading5, Heading6:
		tag := "h" + strconv.Itoa(el.Type.HeadingLevel())
		open, end = "<"+tag+">", "</"+tag+">"
	case Link:
		open, end = `<a href="`+html.EscapeString(el.URL)+`">`, "</a>"
	default:
		open, end = "<p>", "</p>"
	}
	b.WriteString(open)
	for _, ch := range el.Children {
		renderNode(b, ch)
	}
	b.WriteString(end)
}

func renderLeaf(b *strings.Builder, t *Text) {
	s := html.EscapeString(t.Text)
	if t.Bold {
		s = "<strong>" + s + "</strong>"
	}
	if t.Code {
		s = "<code>" + s + "</code>"
	}
	if t.Italic {
		s = "<em>" + s + "</em>"
	}
	if t.Underline {
		s = "<u>" + s + "</u>"
	}
	b.WriteString(s)
}

func firstText(el *Element) string {
	if len(el.Children) == 0 {
		return ""
	}
	if t, ok := el.Children[0].(*Text); ok {
		return t.Text
	}
	return ""
}

// PlainText flattens doc to text, one line per block holding inline content.
func PlainText(doc *Document) string {
	var lines []string
	var visit func(nodes []Node)
	visit = func(nodes []Node) {
		for _, n := range nodes {
			el, ok := n.(*Element)
			if !ok {
				continue
			}
			if len(el.Children) > 0 && isInline(el.Children[0]) {
				lines = append(lines, inlineText(el.Children))
				continue
			}
			visit(el.Children)
		}
	}
	visit(doc.Children)
	return strings.Join(lines, "\n")
}

func inlineText(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		switch v := n.(type) {
		case *Text:
			b.WriteString(v.Text)
		case *Element:
			b.WriteString(inlineText(v.Children))
		}
	}
	return b.String()
}

var defaultRenderer = NewRenderer()

// RenderHTML renders doc with the default renderer.
func RenderHTML(doc *Document) template.HTML {
	return defaultRenderer.HTML(doc)
}
