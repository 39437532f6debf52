package richtext

// Editor applies editing commands to a document at a selection. A nil
// Selection means the editor has no cursor; commands then do nothing.
type Editor struct {
	Doc       *Document
	Selection *Range

	// pending holds the marks chosen while the selection was collapsed;
	// they apply to the next inserted text.
	pending *Marks
	refs    []*rangeRef
}

// rangeRef tracks a range across mutations. Inward refs keep their start
// point forward and their end point backward so that content inserted at the
// edges stays outside.
type rangeRef struct {
	r      *Range
	inward bool
}

// NewEditor returns an editor over doc. The selection is dropped when it does
// not address valid positions in doc.
func NewEditor(doc *Document, sel *Range) *Editor {
	e := &Editor{Doc: doc, Selection: sel.clone()}
	if sel != nil && (!doc.validPoint(sel.Anchor) || !doc.validPoint(sel.Focus)) {
		e.Selection = nil
	}
	return e
}

// PendingMarks returns the marks queued for the next insertion, if any.
func (e *Editor) PendingMarks() (Marks, bool) {
	if e.pending == nil {
		return Marks{}, false
	}
	return *e.pending, true
}

// SetPendingMarks queues marks for the next insertion at a collapsed cursor.
func (e *Editor) SetPendingMarks(m Marks) {
	e.pending = &m
}

func (e *Editor) apply(o op) {
	var relocate map[*Point]Point
	if rm, ok := o.(*opRemove); ok && e.Selection != nil {
		relocate = e.relocations(rm)
	}

	o.apply(e.Doc)

	if e.Selection != nil {
		for _, pt := range []*Point{&e.Selection.Anchor, &e.Selection.Focus} {
			moved, ok := o.transformPoint(*pt, forward)
			if !ok {
				moved, ok = relocate[pt]
			}
			if !ok {
				e.Selection = nil
				break
			}
			*pt = moved
		}
	}

	kept := e.refs[:0]
	for _, ref := range e.refs {
		if ref.r == nil {
			continue
		}
		startAff, endAff := forward, forward
		if ref.inward && !ref.r.IsCollapsed() {
			startAff, endAff = forward, backward
		}
		backwardRange := ref.r.IsBackward()
		anchorAff, focusAff := startAff, endAff
		if backwardRange {
			anchorAff, focusAff = endAff, startAff
		}
		a, okA := o.transformPoint(ref.r.Anchor, anchorAff)
		f, okF := o.transformPoint(ref.r.Focus, focusAff)
		if !okA || !okF {
			ref.r = nil
			continue
		}
		ref.r.Anchor, ref.r.Focus = a, f
		kept = append(kept, ref)
	}
	e.refs = kept
}

// relocations computes, before a removal, where selection points inside the
// removed subtree should land: the end of the previous text, or the start of
// the next one when it is structurally closer.
func (e *Editor) relocations(rm *opRemove) map[*Point]Point {
	var prev, next *entry
	for _, t := range e.Doc.texts() {
		t := t
		switch t.path.Compare(rm.path) {
		case -1:
			prev = &t
		case 1:
			if next == nil {
				next = &t
			}
		}
	}

	var target Point
	switch {
	case prev != nil && (next == nil || len(prev.path.Common(rm.path)) >= len(next.path.Common(rm.path))):
		target = Point{Path: prev.path, Offset: textLen(prev.node.(*Text).Text)}
	case next != nil:
		p, _ := rm.transformPath(next.path)
		target = Point{Path: p, Offset: 0}
	default:
		return nil
	}

	out := make(map[*Point]Point)
	for _, pt := range []*Point{&e.Selection.Anchor, &e.Selection.Focus} {
		if rm.path.Equal(pt.Path) || rm.path.IsAncestor(pt.Path) {
			out[pt] = target.clone()
		}
	}
	return out
}

func (e *Editor) rangeRef(r Range, inward bool) *rangeRef {
	ref := &rangeRef{r: r.clone(), inward: inward}
	e.refs = append(e.refs, ref)
	return ref
}

func (e *Editor) unref(ref *rangeRef) *Range {
	for i, o := range e.refs {
		if o == ref {
			e.refs = append(e.refs[:i:i], e.refs[i+1:]...)
			break
		}
	}
	return ref.r
}

// Select replaces the selection.
func (e *Editor) Select(r *Range) {
	e.Selection = r.clone()
	e.pending = nil
}

// Collapse moves both ends of the selection to its start or end.
func (e *Editor) Collapse(toEnd bool) {
	if e.Selection == nil {
		return
	}
	start, end := e.Selection.Edges()
	p := start
	if toEnd {
		p = end
	}
	e.Selection = Collapsed(p)
}

// splitTextAt splits the text under pt so that pt sits on a text boundary,
// skipping the split when pt is already at an edge unless always is set.
func (e *Editor) splitTextAt(pt Point, always bool) {
	t := e.Doc.leaf(pt.Path)
	if t == nil {
		return
	}
	if !always && (pt.Offset == 0 || pt.Offset == textLen(t.Text)) {
		return
	}
	e.apply(&opSplit{path: pt.Path.clone(), position: pt.Offset})
}

// splitAt splits the tree at pt through every ancestor deeper than depth,
// creating empty halves at the edges. It returns the path of the right-hand
// node at depth+1.
func (e *Editor) splitAt(pt Point, depth int) Path {
	path := pt.Path.clone()
	position := pt.Offset
	for len(path) > depth {
		e.apply(&opSplit{path: path.clone(), position: position})
		position = path[len(path)-1] + 1
		path = path.Parent()
	}
	return append(path, position)
}
