package richtext

// entry pairs a node with its path.
type entry struct {
	node Node
	path Path
}

// Node returns the node at path, or nil when path does not exist.
func (d *Document) Node(path Path) Node {
	if len(path) == 0 {
		return nil
	}
	children := d.Children
	var n Node
	for _, i := range path {
		if i < 0 || i >= len(children) {
			return nil
		}
		n = children[i]
		el, ok := n.(*Element)
		if !ok {
			children = nil
			continue
		}
		children = el.Children
	}
	return n
}

// children returns a pointer to the child slice of the node at path; the
// empty path addresses the document itself.
func (d *Document) children(path Path) *[]Node {
	if len(path) == 0 {
		return &d.Children
	}
	el, ok := d.Node(path).(*Element)
	if !ok {
		return nil
	}
	return &el.Children
}

func (d *Document) element(path Path) *Element {
	el, _ := d.Node(path).(*Element)
	return el
}

func (d *Document) leaf(path Path) *Text {
	t, _ := d.Node(path).(*Text)
	return t
}

// walk visits every node in document order.
func (d *Document) walk(fn func(n Node, p Path)) {
	var visit func(children []Node, parent Path)
	visit = func(children []Node, parent Path) {
		for i, n := range children {
			p := append(parent.clone(), i)
			fn(n, p)
			if el, ok := n.(*Element); ok {
				visit(el.Children, p)
			}
		}
	}
	visit(d.Children, nil)
}

// texts lists every text leaf in document order.
func (d *Document) texts() []entry {
	var out []entry
	d.walk(func(n Node, p Path) {
		if _, ok := n.(*Text); ok {
			out = append(out, entry{n, p})
		}
	})
	return out
}

// startOf returns the first position inside the node at path.
func (d *Document) startOf(path Path) (Point, bool) {
	for _, e := range d.texts() {
		if path.Equal(e.path) || path.IsAncestor(e.path) {
			return Point{Path: e.path, Offset: 0}, true
		}
	}
	return Point{}, false
}

// endOf returns the last position inside the node at path.
func (d *Document) endOf(path Path) (Point, bool) {
	var (
		last  Point
		found bool
	)
	for _, e := range d.texts() {
		if path.Equal(e.path) || path.IsAncestor(e.path) {
			last = Point{Path: e.path, Offset: textLen(e.node.(*Text).Text)}
			found = true
		}
	}
	return last, found
}

// validPoint reports whether p addresses a character boundary in a text leaf.
func (d *Document) validPoint(p Point) bool {
	t := d.leaf(p.Path)
	return t != nil && isBoundary(t.Text, p.Offset)
}

// nodesIn lists, in document order, every node that spans some part of the
// range between start and end: ancestors of both edges and everything in
// between.
func (d *Document) nodesIn(start, end Point) []entry {
	var out []entry
	d.walk(func(n Node, p Path) {
		switch {
		case p.Equal(start.Path) || p.IsAncestor(start.Path):
		case p.Equal(end.Path) || p.IsAncestor(end.Path):
		case p.Compare(start.Path) > 0 && p.Compare(end.Path) < 0:
		default:
			return
		}
		out = append(out, entry{n, p})
	})
	return out
}

// lowest keeps the entries that have no other entry below them.
func lowest(es []entry) []entry {
	var out []entry
	for i, e := range es {
		keep := true
		for j, o := range es {
			if i != j && e.path.IsAncestor(o.path) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, e)
		}
	}
	return out
}

// highest keeps the entries that have no other entry above them.
func highest(es []entry) []entry {
	var out []entry
	for i, e := range es {
		keep := true
		for j, o := range es {
			if i != j && o.path.IsAncestor(e.path) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, e)
		}
	}
	return out
}

func filter(es []entry, match func(Node) bool) []entry {
	var out []entry
	for _, e := range es {
		if match(e.node) {
			out = append(out, e)
		}
	}
	return out
}

func isBlock(n Node) bool {
	el, ok := n.(*Element)
	return ok && !el.Type.IsInline()
}

func isInline(n Node) bool {
	switch v := n.(type) {
	case *Text:
		return true
	case *Element:
		return v.Type.IsInline()
	}
	return false
}

func isType(t ElementType) func(Node) bool {
	return func(n Node) bool {
		el, ok := n.(*Element)
		return ok && el.Type == t
	}
}

func isListNode(n Node) bool {
	el, ok := n.(*Element)
	return ok && el.Type.IsList()
}

// above returns the closest ancestor of path matching fn.
func (d *Document) above(path Path, match func(Node) bool) (entry, bool) {
	for i := len(path) - 1; i >= 1; i-- {
		p := path[:i].clone()
		if n := d.Node(p); n != nil && match(n) {
			return entry{n, p}, true
		}
	}
	return entry{}, false
}
