package richtext

import (
	"net/url"
	"strings"
)

// IsURL reports whether s is an absolute URL: a scheme followed by a host,
// an opaque part or a path. Bare host names do not qualify.
func IsURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != "" || u.Path != ""
}

// IsLinkActive reports whether the selection touches a link.
func (e *Editor) IsLinkActive() bool {
	if e.Selection == nil {
		return false
	}
	start, end := e.Selection.Edges()
	return len(filter(e.Doc.nodesIn(start, end), isType(Link))) > 0
}

// UnwrapLink removes the link under a collapsed cursor, splitting the link
// so only the child holding the cursor leaves it. Expanded selections are
// left alone.
func (e *Editor) UnwrapLink() {
	if e.Selection == nil || !e.Selection.IsCollapsed() {
		return
	}
	e.unwrapSelected(isType(Link))
	e.normalize()
}

// WrapLink turns the selection into a link to target. A collapsed cursor
// gets a new link whose text is target and ends up after it; an expanded
// selection is wrapped and collapsed to its end. Links already touched by
// the selection are removed first.
func (e *Editor) WrapLink(target string) {
	if e.Selection == nil {
		return
	}
	// Links do not nest: touched links are replaced by the new one.
	if e.IsLinkActive() {
		e.unwrapSelected(isType(Link))
		e.normalize()
		if e.Selection == nil {
			return
		}
	}

	link := &Element{Type: Link, URL: target}
	if e.Selection.IsCollapsed() {
		link.Children = []Node{NewText(target)}
		pt := e.Selection.Anchor.clone()
		e.apply(&opSplit{path: pt.Path, position: pt.Offset})
		e.apply(&opInsert{path: pt.Path.Next(), node: link})
		e.pending = nil
		e.normalize()
		return
	}

	e.wrapInline(link)
	e.normalize()
	e.Collapse(true)
}

// unwrapSelected lifts the selected children out of every lowest element
// matching match that spans the selection. Elements are split at the
// selection so unselected children stay wrapped.
func (e *Editor) unwrapSelected(match func(Node) bool) {
	start, end := e.Selection.Edges()
	targets := lowest(filter(e.Doc.nodesIn(start, end), match))
	for i := len(targets) - 1; i >= 0; i-- {
		if e.Selection == nil {
			return
		}
		start, end := e.Selection.Edges()
		path := targets[i].path
		el := e.Doc.element(path)
		if el == nil {
			continue
		}
		depth := len(path)
		first, last := 0, len(el.Children)-1
		if path.IsAncestor(start.Path) {
			first = start.Path[depth]
		}
		if path.IsAncestor(end.Path) {
			last = end.Path[depth]
		}
		if last < len(el.Children)-1 {
			e.apply(&opSplit{path: path.clone(), position: last + 1})
		}
		if first > 0 {
			e.apply(&opSplit{path: path.clone(), position: first})
			path = path.Next()
		}
		e.apply(&opLift{path: path, count: last - first + 1})
	}
}

// wrapInline splits the texts at the selection edges and wraps the selected
// inline run of every block in a copy of wrapper.
func (e *Editor) wrapInline(wrapper *Element) {
	start, end := e.Selection.Edges()
	ref := e.rangeRef(Range{Anchor: start, Focus: end}, true)
	if t := e.Doc.leaf(end.Path); t != nil && end.Offset > 0 && end.Offset < textLen(t.Text) {
		e.apply(&opSplit{path: end.Path.clone(), position: end.Offset})
	}
	if s := ref.r.Anchor; s.Offset > 0 {
		if t := e.Doc.leaf(s.Path); t != nil && s.Offset < textLen(t.Text) {
			e.apply(&opSplit{path: s.Path.clone(), position: s.Offset})
		}
	}
	r := e.unref(ref)
	if r == nil {
		return
	}
	start, end = r.Anchor, r.Focus

	runs := lowest(filter(e.Doc.nodesIn(start, end), isInline))
	if len(runs) > 1 && runs[0].path.Equal(start.Path) && start.Offset == textLen(runs[0].node.(*Text).Text) {
		runs = runs[1:]
	}
	if n := len(runs); n > 1 && runs[n-1].path.Equal(end.Path) && end.Offset == 0 {
		runs = runs[:n-1]
	}

	type group struct {
		block       Path
		first, last Path
	}
	var groups []group
	for _, run := range runs {
		block, ok := e.Doc.above(run.path, isBlock)
		if !ok {
			continue
		}
		if n := len(groups); n > 0 && groups[n-1].block.Equal(block.path) {
			groups[n-1].last = run.path
			continue
		}
		groups = append(groups, group{block: block.path, first: run.path, last: run.path})
	}

	for i := len(groups) - 1; i >= 0; i-- {
		g := groups[i]
		d := len(g.block)
		e.apply(&opWrap{
			parent:  g.block,
			start:   g.first[d],
			end:     g.last[d],
			element: &Element{Type: wrapper.Type, URL: wrapper.URL},
		})
	}
}
