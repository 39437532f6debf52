package richtext

// unhang pulls the end of r back into the previous block when the range ends
// exactly at the start of a block, so that a triple-click style selection
// does not count the following block as selected.
func (e *Editor) unhang(r Range) Range {
	start, end := r.Edges()
	if start.Offset != 0 || end.Offset != 0 || r.IsCollapsed() || end.Path.HasPrevious() {
		return r
	}
	var blockPath Path
	if block, ok := e.Doc.above(end.Path, isBlock); ok {
		blockPath = block.path
	}
	var texts []entry
	for _, en := range e.Doc.nodesIn(start, end) {
		if _, ok := en.node.(*Text); ok {
			texts = append(texts, en)
		}
	}
	// The last text holds the end point itself.
	for i := len(texts) - 2; i >= 0; i-- {
		t := texts[i]
		if t.node.(*Text).Text != "" || t.path.IsBefore(blockPath) {
			end = Point{Path: t.path, Offset: textLen(t.node.(*Text).Text)}
			break
		}
	}
	return Range{Anchor: start, Focus: end}
}

// IsBlockActive reports whether an element of type t encloses any part of
// the selection.
func (e *Editor) IsBlockActive(t ElementType) bool {
	if e.Selection == nil {
		return false
	}
	r := e.unhang(*e.Selection)
	start, end := r.Edges()
	return len(filter(e.Doc.nodesIn(start, end), isType(t))) > 0
}

// ToggleBlock switches the selected blocks to t, or back to paragraphs when
// t is already active. Selected list items are first lifted out of their
// lists; toggling on a list type wraps the blocks in a new list.
func (e *Editor) ToggleBlock(t ElementType) {
	if e.Selection == nil || t.IsInline() || t == ListItem {
		return
	}
	active := e.IsBlockActive(t)

	e.unwrapSelected(isListNode)
	if e.Selection == nil {
		return
	}

	target := t
	switch {
	case active:
		target = Paragraph
	case t.IsList():
		target = ListItem
	}
	// A selection ending at the start of the next block does not select it.
	r := e.unhang(*e.Selection)
	start, end := r.Edges()
	for _, en := range lowest(filter(e.Doc.nodesIn(start, end), isBlock)) {
		if en.node.(*Element).Type != target {
			e.apply(&opSetElement{path: en.path, typ: target})
		}
	}

	if !active && t.IsList() {
		e.wrapBlocks(t, r)
	}
	e.normalize()
}

// wrapBlocks wraps the lowest blocks in r in a new element of type t,
// placed under their closest common ancestor.
func (e *Editor) wrapBlocks(t ElementType, r Range) {
	start, end := r.Edges()
	blocks := lowest(filter(e.Doc.nodesIn(start, end), isBlock))
	if len(blocks) == 0 {
		return
	}
	first, last := blocks[0].path, blocks[len(blocks)-1].path
	common := first.Common(last)
	if first.Equal(last) {
		common = first.Parent()
	}
	d := len(common)
	e.apply(&opWrap{
		parent:  common,
		start:   first[d],
		end:     last[d],
		element: &Element{Type: t},
	})
}
