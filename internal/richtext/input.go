package richtext

import "strings"

// Clipboard is the payload of a paste or drop, keyed by MIME type.
type Clipboard map[string]string

// InsertText types text at the selection. Text that is a URL is inserted as
// a link instead. An expanded selection is deleted first, and queued marks
// start a new text run.
func (e *Editor) InsertText(text string) {
	if IsURL(text) {
		e.WrapLink(text)
		return
	}
	e.insertText(text)
}

// InsertData pastes the plain-text part of data. A URL becomes a link; other
// text is inserted line by line with a block break between lines.
func (e *Editor) InsertData(data Clipboard) {
	text := data["text/plain"]
	if IsURL(text) {
		e.WrapLink(text)
		return
	}
	if e.Selection == nil || text == "" {
		return
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			e.InsertBreak()
		}
		e.insertText(line)
	}
}

// InsertBreak splits the block under the cursor in two, deleting an
// expanded selection first. The new block keeps the type of the old one.
func (e *Editor) InsertBreak() {
	if e.Selection == nil {
		return
	}
	if !e.Selection.IsCollapsed() {
		e.deleteSelection()
		if e.Selection == nil {
			return
		}
	}
	pt := e.Selection.Anchor.clone()
	block, ok := e.Doc.above(pt.Path, isBlock)
	if !ok {
		return
	}
	e.splitAt(pt, len(block.path)-1)
	e.normalize()
}

// insertText with empty text only deletes an expanded selection.
func (e *Editor) insertText(text string) {
	if e.Selection == nil {
		return
	}
	if !e.Selection.IsCollapsed() {
		e.deleteSelection()
		if e.Selection == nil {
			return
		}
	}
	if text == "" {
		e.normalize()
		return
	}
	pt := e.Selection.Anchor.clone()
	leaf := e.Doc.leaf(pt.Path)
	if leaf == nil {
		return
	}

	if e.pending != nil && *e.pending != leaf.Marks {
		run := &Text{Text: text, Marks: *e.pending}
		e.apply(&opSplit{path: pt.Path.clone(), position: pt.Offset})
		at := pt.Path.Next()
		e.apply(&opInsert{path: at, node: run})
		e.Selection = Collapsed(Point{Path: at, Offset: textLen(text)})
	} else {
		e.apply(&opInsertText{path: pt.Path.clone(), offset: pt.Offset, text: text})
	}
	e.pending = nil
	e.normalize()
}

// deleteSelection removes the selected content, merges the block holding
// the end of the selection into the one holding its start and collapses
// the selection to its start.
func (e *Editor) deleteSelection() {
	start, end := e.Selection.Edges()
	start, end = start.clone(), end.clone()

	if start.Path.Equal(end.Path) {
		e.apply(&opRemoveText{path: start.Path, offset: start.Offset, length: end.Offset - start.Offset})
		e.Selection = Collapsed(start)
		e.normalize()
		return
	}

	startBlock, ok1 := e.Doc.above(start.Path, isBlock)
	endBlock, ok2 := e.Doc.above(end.Path, isBlock)
	if !ok1 || !ok2 {
		return
	}

	if end.Offset > 0 {
		e.apply(&opRemoveText{path: end.Path, offset: 0, length: end.Offset})
	}
	if t := e.Doc.leaf(start.Path); t != nil && start.Offset < textLen(t.Text) {
		e.apply(&opRemoveText{path: start.Path, offset: start.Offset, length: textLen(t.Text) - start.Offset})
	}

	// Nodes strictly between the edges are removed back to front.
	between := highest(filterPaths(e.Doc.nodesIn(start, end), func(p Path) bool {
		edge := func(q Path) bool { return p.Equal(q) || p.IsAncestor(q) }
		return !edge(start.Path) && !edge(end.Path)
	}))
	endBlockPath := endBlock.path
	for i := len(between) - 1; i >= 0; i-- {
		rm := &opRemove{path: between[i].path}
		endBlockPath, _ = rm.transformPath(endBlockPath)
		e.apply(rm)
	}

	if !startBlock.path.Equal(endBlockPath) {
		e.mergeBlocks(startBlock.path, endBlockPath)
	}
	e.Selection = Collapsed(start)
	e.normalize()
}

// mergeBlocks moves the children of the block at src to the end of the
// block at dst and removes src along with any ancestors it leaves empty.
func (e *Editor) mergeBlocks(dst, src Path) {
	target := e.Doc.element(dst)
	from := e.Doc.element(src)
	if target == nil || from == nil {
		return
	}
	if dst.Next().Equal(src) {
		e.apply(&opMerge{path: src, position: len(target.Children)})
		return
	}

	moved := append([]Node(nil), from.Children...)
	e.apply(&opRemove{path: src})
	for parent := src.Parent(); len(parent) > 0; parent = parent.Parent() {
		el := e.Doc.element(parent)
		if el == nil || len(el.Children) > 0 {
			break
		}
		e.apply(&opRemove{path: parent})
	}
	n := len(target.Children)
	for i, child := range moved {
		e.apply(&opInsert{path: append(dst.clone(), n+i), node: child})
	}
}

func filterPaths(es []entry, match func(Path) bool) []entry {
	var out []entry
	for _, e := range es {
		if match(e.path) {
			out = append(out, e)
		}
	}
	return out
}
