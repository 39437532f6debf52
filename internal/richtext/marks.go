package richtext

// Marks returns the marks in effect at the selection: the pending marks when
// set, otherwise those of the text under a collapsed cursor (or of the
// previous text in the same block when the cursor sits at its start), or of
// the first selected text of an expanded selection.
func (e *Editor) Marks() (Marks, bool) {
	if e.Selection == nil {
		return Marks{}, false
	}
	if e.pending != nil {
		return *e.pending, true
	}
	sel := *e.Selection
	if !sel.IsCollapsed() {
		start, end := sel.Edges()
		var texts []*Text
		for _, en := range e.Doc.nodesIn(start, end) {
			if t, ok := en.node.(*Text); ok {
				texts = append(texts, t)
			}
		}
		switch {
		case len(texts) == 0:
			return Marks{}, true
		case len(texts) > 1 && start.Offset == textLen(texts[0].Text):
			// A start sitting at the very end of a text selects nothing in it.
			return texts[1].Marks, true
		}
		return texts[0].Marks, true
	}

	anchor := sel.Anchor
	leaf := e.Doc.leaf(anchor.Path)
	if leaf == nil {
		return Marks{}, false
	}
	marks := leaf.Marks
	if anchor.Offset == 0 {
		if block, ok := e.Doc.above(anchor.Path, isBlock); ok {
			var prev *entry
			for _, t := range e.Doc.texts() {
				if t.path.Compare(anchor.Path) >= 0 {
					break
				}
				t := t
				prev = &t
			}
			if prev != nil && block.path.IsAncestor(prev.path) {
				marks = prev.node.(*Text).Marks
			}
		}
	}
	return marks, true
}

// IsMarkActive reports whether m is set in the marks at the selection.
func (e *Editor) IsMarkActive(m Mark) bool {
	marks, ok := e.Marks()
	return ok && marks.Has(m)
}

// ToggleMark clears m when it is active and sets it otherwise.
func (e *Editor) ToggleMark(m Mark) {
	if e.IsMarkActive(m) {
		e.RemoveMark(m)
	} else {
		e.AddMark(m)
	}
}

// AddMark sets m on the selected text, or queues it for the next insertion
// when the selection is collapsed.
func (e *Editor) AddMark(m Mark) {
	e.setMark(m, true)
}

// RemoveMark clears m on the selected text, or drops it from the queued
// marks when the selection is collapsed.
func (e *Editor) RemoveMark(m Mark) {
	e.setMark(m, false)
}

func (e *Editor) setMark(m Mark, v bool) {
	if e.Selection == nil {
		return
	}
	if e.Selection.IsCollapsed() {
		marks, _ := e.Marks()
		marks = marks.With(m, v)
		e.pending = &marks
		return
	}

	start, end := e.Selection.Edges()
	ref := e.rangeRef(Range{Anchor: start, Focus: end}, true)
	if t := e.Doc.leaf(end.Path); t != nil && end.Offset < textLen(t.Text) {
		e.apply(&opSplit{path: end.Path.clone(), position: end.Offset})
	}
	if start := ref.r.Anchor; start.Offset > 0 {
		e.apply(&opSplit{path: start.Path.clone(), position: start.Offset})
	}
	r := e.unref(ref)
	if r == nil {
		return
	}
	for _, en := range e.Doc.nodesIn(r.Anchor, r.Focus) {
		if t, ok := en.node.(*Text); ok && t.Has(m) != v {
			e.apply(&opSetMarks{path: en.path, marks: t.Marks.With(m, v)})
		}
	}
	e.normalize()
}
