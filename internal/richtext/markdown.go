package richtext

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FromMarkdown builds a document from CommonMark source. Block quotes are
// flattened into their blocks, nested lists into their outer list, and
// images become their alt text.
func FromMarkdown(src []byte) (*Document, error) {
	root := goldmark.New().Parser().Parse(text.NewReader(src))
	c := &mdConverter{src: src}
	doc := &Document{Children: c.blocks(root)}
	if err := Normalize(doc); err != nil {
		return nil, err
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

type mdConverter struct {
	src []byte
}

func (c *mdConverter) blocks(parent ast.Node) []Node {
	var out []Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch v := n.(type) {
		case *ast.Heading:
			t := Paragraph
			if v.Level >= 1 && v.Level <= 6 {
				t = ElementType("heading-" + strconv.Itoa(v.Level))
			}
			out = append(out, &Element{Type: t, Children: c.inlines(v, Marks{})})
		case *ast.Paragraph, *ast.TextBlock:
			out = append(out, &Element{Type: Paragraph, Children: c.inlines(v, Marks{})})
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			out = append(out, &Element{Type: CodeBlock, Children: []Node{NewText(c.lines(v))}})
		case *ast.List:
			t := BulletedList
			if v.IsOrdered() {
				t = NumberedList
			}
			out = append(out, &Element{Type: t, Children: c.items(v)})
		case *ast.Blockquote:
			out = append(out, c.blocks(v)...)
		}
	}
	return out
}

// items converts the items of list, hoisting nested list items so the list
// stays flat.
func (c *mdConverter) items(list ast.Node) []Node {
	var out []Node
	for it := list.FirstChild(); it != nil; it = it.NextSibling() {
		var content []Node
		var nested []Node
		for n := it.FirstChild(); n != nil; n = n.NextSibling() {
			switch v := n.(type) {
			case *ast.List:
				nested = append(nested, c.items(v)...)
			case *ast.FencedCodeBlock, *ast.CodeBlock:
				content = appendLine(content, []Node{NewText(c.lines(v))})
			default:
				content = appendLine(content, c.inlines(v, Marks{}))
			}
		}
		out = append(out, &Element{Type: ListItem, Children: content})
		out = append(out, nested...)
	}
	return out
}

func appendLine(content, line []Node) []Node {
	if len(content) > 0 {
		content = append(content, NewText(" "))
	}
	return append(content, line...)
}

func (c *mdConverter) lines(n ast.Node) string {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.src))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (c *mdConverter) inlines(parent ast.Node, marks Marks) []Node {
	var out []Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch v := n.(type) {
		case *ast.Text:
			s := string(v.Segment.Value(c.src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				s += " "
			}
			out = append(out, &Text{Text: s, Marks: marks})
		case *ast.String:
			out = append(out, &Text{Text: string(v.Value), Marks: marks})
		case *ast.Emphasis:
			m := marks
			if v.Level >= 2 {
				m.Bold = true
			} else {
				m.Italic = true
			}
			out = append(out, c.inlines(v, m)...)
		case *ast.CodeSpan:
			m := marks
			m.Code = true
			out = append(out, c.inlines(v, m)...)
		case *ast.Link:
			children := c.inlines(v, marks)
			if len(children) == 0 {
				children = []Node{&Text{Text: string(v.Destination), Marks: marks}}
			}
			out = append(out, &Element{Type: Link, URL: string(v.Destination), Children: children})
		case *ast.AutoLink:
			out = append(out, &Element{
				Type:     Link,
				URL:      string(v.URL(c.src)),
				Children: []Node{&Text{Text: string(v.Label(c.src)), Marks: marks}},
			})
		case *ast.Image:
			out = append(out, c.inlines(v, marks)...)
		}
	}
	return out
}
