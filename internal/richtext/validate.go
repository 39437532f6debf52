package richtext

import "fmt"

// Validate checks the structural invariants of doc:
//   - top-level nodes are block elements;
//   - every element has at least one child;
//   - lists hold only list items;
//   - an element holds either only blocks or only inline content;
//   - links hold only inline content and carry a target.
func Validate(doc *Document) error {
	if len(doc.Children) == 0 {
		return fmt.Errorf("%w: document has no blocks", ErrInvalidDocument)
	}
	for i, n := range doc.Children {
		if !isBlock(n) {
			return fmt.Errorf("%w: top-level node %d is not a block", ErrInvalidDocument, i)
		}
		if err := validateElement(n.(*Element), Path{i}); err != nil {
			return err
		}
	}
	return nil
}

func validateElement(el *Element, path Path) error {
	if len(el.Children) == 0 {
		return fmt.Errorf("%w: %s at %v has no children", ErrInvalidDocument, el.Type, path)
	}
	if el.Type == Link && el.URL == "" {
		return fmt.Errorf("%w: link at %v has no url", ErrInvalidDocument, path)
	}
	inline := isInline(el.Children[0])
	if el.Type.IsInline() && !inline {
		return fmt.Errorf("%w: link at %v contains a block", ErrInvalidDocument, path)
	}
	for i, child := range el.Children {
		cp := append(path.clone(), i)
		if isInline(child) != inline {
			return fmt.Errorf("%w: %s at %v mixes blocks and inline content", ErrInvalidDocument, el.Type, path)
		}
		if el.Type.IsList() && !isType(ListItem)(child) {
			return fmt.Errorf("%w: %s at %v holds a non list-item child", ErrInvalidDocument, el.Type, path)
		}
		if ch, ok := child.(*Element); ok {
			if err := validateElement(ch, cp); err != nil {
				return err
			}
		}
	}
	return nil
}
