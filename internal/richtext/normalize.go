package richtext

import "fmt"

// Normalize restores the structural invariants of doc after decoding:
// elements are never empty, adjacent texts with equal marks are merged, empty
// texts beside other texts are dropped and inline elements are surrounded by
// texts. It fails with ErrInvalidDocument if the tree does not settle.
func Normalize(doc *Document) error {
	if !(&Editor{Doc: doc}).normalize() {
		return fmt.Errorf("%w: normalization did not settle", ErrInvalidDocument)
	}
	return nil
}

// normalize repeatedly fixes the first violation it finds until the tree is
// clean. Each fix is an op so the selection follows along. It reports false
// if the fix budget ran out first.
func (e *Editor) normalize() bool {
	if len(e.Doc.Children) == 0 {
		e.apply(&opInsert{path: Path{0}, node: NewParagraph(NewText(""))})
	}
	// Each fix removes a node or adds an empty text that no later fix
	// removes, so a few fixes per node always suffice.
	for budget := fixBudget(e.Doc); budget > 0; budget-- {
		o := e.nextFix()
		if o == nil {
			return true
		}
		e.apply(o)
	}
	return e.nextFix() == nil
}

func fixBudget(doc *Document) int {
	n := 0
	doc.walk(func(Node, Path) { n++ })
	return 4*n + 16
}

func (e *Editor) nextFix() op {
	var fix op
	var visit func(path Path, children []Node) bool
	visit = func(path Path, children []Node) bool {
		if len(path) > 0 && len(children) == 0 {
			fix = &opInsert{path: append(path.clone(), 0), node: NewText("")}
			return true
		}
		inlineContainer := len(path) > 0 && len(children) > 0 && isInline(children[0])
		for i, child := range children {
			cp := append(path.clone(), i)
			if inlineContainer {
				if o := textFix(children, i, cp); o != nil {
					fix = o
					return true
				}
			}
			if el, ok := child.(*Element); ok {
				if visit(cp, el.Children) {
					return true
				}
			}
		}
		return false
	}
	visit(nil, e.Doc.Children)
	return fix
}

func textFix(children []Node, i int, cp Path) op {
	child := children[i]
	var prev Node
	if i > 0 {
		prev = children[i-1]
	}
	if t, ok := child.(*Text); ok {
		if p, ok := prev.(*Text); ok {
			switch {
			case p.Marks == t.Marks:
				return &opMerge{path: cp, position: textLen(p.Text)}
			case p.Text == "":
				return &opRemove{path: cp.Previous()}
			case t.Text == "":
				return &opRemove{path: cp}
			}
		}
		return nil
	}
	if el, ok := child.(*Element); ok && el.Type.IsInline() {
		if _, ok := prev.(*Text); !ok {
			return &opInsert{path: cp, node: NewText("")}
		}
		if i == len(children)-1 {
			return &opInsert{path: cp.Next(), node: NewText("")}
		}
	}
	return nil
}
