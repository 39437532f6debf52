package richtext

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidDocument is returned when a payload cannot be decoded into a
// well-formed document.
var ErrInvalidDocument = errors.New("invalid rich-text document")

type elementJSON struct {
	Type     ElementType `json:"type"`
	URL      string      `json:"url,omitempty"`
	Children []Node      `json:"children"`
}

type textJSON struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
	Code      bool   `json:"code,omitempty"`
}

// rawNode accepts both shapes. Older payloads stored links as text leaves
// flagged with link/href instead of link elements.
type rawNode struct {
	Type      string            `json:"type"`
	URL       string            `json:"url"`
	Children  []json.RawMessage `json:"children"`
	Text      *string           `json:"text"`
	Bold      bool              `json:"bold"`
	Italic    bool              `json:"italic"`
	Underline bool              `json:"underline"`
	Code      bool              `json:"code"`
	Link      bool              `json:"link"`
	Href      string            `json:"href"`
}

// MarshalJSON encodes e in the stored payload shape.
func (e *Element) MarshalJSON() ([]byte, error) {
	children := e.Children
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(elementJSON{Type: e.Type, URL: e.URL, Children: children})
}

// MarshalJSON encodes t with false marks omitted.
func (t *Text) MarshalJSON() ([]byte, error) {
	return json.Marshal(textJSON{
		Text:      t.Text,
		Bold:      t.Bold,
		Italic:    t.Italic,
		Underline: t.Underline,
		Code:      t.Code,
	})
}

// MarshalJSON encodes the document as a bare array of blocks.
func (d *Document) MarshalJSON() ([]byte, error) {
	children := d.Children
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(children)
}

// UnmarshalJSON decodes a bare array of blocks.
func (d *Document) UnmarshalJSON(b []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	children, err := decodeNodes(raws)
	if err != nil {
		return err
	}
	d.Children = children
	return nil
}

func decodeNodes(raws []json.RawMessage) ([]Node, error) {
	nodes := make([]Node, 0, len(raws))
	for _, raw := range raws {
		n, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func decodeNode(b []byte) (Node, error) {
	var raw rawNode
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if raw.Text != nil && raw.Type == "" {
		text := &Text{
			Text:  *raw.Text,
			Marks: Marks{Bold: raw.Bold, Italic: raw.Italic, Underline: raw.Underline, Code: raw.Code},
		}
		if raw.Link && raw.Href != "" {
			return &Element{Type: Link, URL: raw.Href, Children: []Node{text}}, nil
		}
		return text, nil
	}
	t, err := ParseElementType(raw.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	children, err := decodeNodes(raw.Children)
	if err != nil {
		return nil, err
	}
	el := &Element{Type: t, Children: children}
	if t == Link {
		el.URL = raw.URL
	}
	return el, nil
}

// Parse decodes a stored payload, normalizes it and checks the structural
// invariants. An empty payload yields an empty editor document.
func Parse(payload string) (*Document, error) {
	if payload == "" {
		return Empty(), nil
	}
	var doc Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		if errors.Is(err, ErrInvalidDocument) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if len(doc.Children) == 0 {
		return Empty(), nil
	}
	if err := Normalize(&doc); err != nil {
		return nil, err
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// String encodes the document into its stored payload form.
func (d *Document) String() string {
	b, err := json.Marshal(d)
	if err != nil {
		// Marshal only fails on unsupported values, which the model cannot hold.
		return "[]"
	}
	return string(b)
}
