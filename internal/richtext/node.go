// Package richtext implements the document model edited on the about and contact
// pages: a forest of typed block elements whose leaves are text runs carrying
// boolean marks. It also provides the editing commands the dashboard toolbar
// drives (marks, blocks, links), an HTML renderer and a markdown importer.
package richtext

import "fmt"

// ElementType discriminates the element variants a document may contain.
type ElementType string

const (
	Paragraph    ElementType = "paragraph"
	Heading1     ElementType = "heading-1"
	Heading2     ElementType = "heading-2"
	Heading3     ElementType = "heading-3"
	Heading4     ElementType = "heading-4"
	Heading5     ElementType = "heading-5"
	Heading6     ElementType = "heading-6"
	BulletedList ElementType = "bulleted-list"
	NumberedList ElementType = "numbered-list"
	ListItem     ElementType = "list-item"
	CodeBlock    ElementType = "code"
	Link         ElementType = "link"
)

var elementTypes = []ElementType{
	Paragraph, Heading1, Heading2, Heading3, Heading4, Heading5, Heading6,
	BulletedList, NumberedList, ListItem, CodeBlock, Link,
}

// ParseElementType validates a raw type tag.
func ParseElementType(s string) (ElementType, error) {
	for _, t := range elementTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown element type %q", s)
}

// IsList reports whether t is a list wrapper type.
func (t ElementType) IsList() bool {
	return t == BulletedList || t == NumberedList
}

// IsInline reports whether elements of type t flow inside a block.
func (t ElementType) IsInline() bool {
	return t == Link
}

// HeadingLevel returns 1-6 for heading types and 0 otherwise.
func (t ElementType) HeadingLevel() int {
	switch t {
	case Heading1:
		return 1
	case Heading2:
		return 2
	case Heading3:
		return 3
	case Heading4:
		return 4
	case Heading5:
		return 5
	case Heading6:
		return 6
	}
	return 0
}

// Node is either an *Element or a *Text.
type Node interface {
	isNode()
	clone() Node
}

// Element is a non-leaf node.
type Element struct {
	Type     ElementType
	URL      string // links only
	Children []Node
}

// Text is a leaf run of characters.
type Text struct {
	Text string
	Marks
}

func (*Element) isNode() {}
func (*Text) isNode()    {}

func (e *Element) clone() Node {
	c := &Element{Type: e.Type, URL: e.URL, Children: make([]Node, len(e.Children))}
	for i, ch := range e.Children {
		c.Children[i] = ch.clone()
	}
	return c
}

func (t *Text) clone() Node {
	c := *t
	return &c
}

// Mark names one of the boolean text styles.
type Mark string

const (
	Bold      Mark = "bold"
	Italic    Mark = "italic"
	Underline Mark = "underline"
	Code      Mark = "code"
)

// ParseMark validates a raw mark name.
func ParseMark(s string) (Mark, error) {
	switch Mark(s) {
	case Bold, Italic, Underline, Code:
		return Mark(s), nil
	}
	return "", fmt.Errorf("unknown mark %q", s)
}

// Marks is the set of styles applied to a text run.
type Marks struct {
	Bold      bool `json:"bold,omitempty"`
	Italic    bool `json:"italic,omitempty"`
	Underline bool `json:"underline,omitempty"`
	Code      bool `json:"code,omitempty"`
}

// Has reports whether m is set.
func (ms Marks) Has(m Mark) bool {
	switch m {
	case Bold:
		return ms.Bold
	case Italic:
		return ms.Italic
	case Underline:
		return ms.Underline
	case Code:
		return ms.Code
	}
	return false
}

// With returns a copy of ms with m set to v.
func (ms Marks) With(m Mark, v bool) Marks {
	switch m {
	case Bold:
		ms.Bold = v
	case Italic:
		ms.Italic = v
	case Underline:
		ms.Underline = v
	case Code:
		ms.Code = v
	}
	return ms
}

// Document is the ordered list of top-level blocks.
type Document struct {
	Children []Node
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	c := &Document{Children: make([]Node, len(d.Children))}
	for i, ch := range d.Children {
		c.Children[i] = ch.clone()
	}
	return c
}

// NewParagraph is a convenience constructor used by tests and the importer.
func NewParagraph(children ...Node) *Element {
	return &Element{Type: Paragraph, Children: children}
}

// NewText returns an unstyled text leaf.
func NewText(s string) *Text {
	return &Text{Text: s}
}

// Empty returns a document holding one empty paragraph, the state of a
// freshly opened editor.
func Empty() *Document {
	return &Document{Children: []Node{NewParagraph(NewText(""))}}
}
