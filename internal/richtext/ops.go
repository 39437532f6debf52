package richtext

// affinity decides which side of an insertion or split a point sticks to
// when it sits exactly on the boundary.
type affinity int

const (
	forward affinity = iota
	backward
)

// op is a primitive tree mutation. Every mutation of an editor's document
// goes through an op so that the selection and outstanding range refs can
// be carried over to the new tree.
type op interface {
	apply(d *Document)
	transformPath(p Path) (Path, bool)
	transformPoint(pt Point, aff affinity) (Point, bool)
}

func transformPointPath(o op, pt Point) (Point, bool) {
	p, ok := o.transformPath(pt.Path)
	if !ok {
		return Point{}, false
	}
	return Point{Path: p, Offset: pt.Offset}, true
}

// opSplit splits the node at path at position: a text at a character offset,
// an element at a child index. The second half becomes the next sibling.
type opSplit struct {
	path     Path
	position int
}

func (o *opSplit) apply(d *Document) {
	siblings := d.children(o.path.Parent())
	idx := o.path[len(o.path)-1]
	var second Node
	switch n := (*siblings)[idx].(type) {
	case *Text:
		head, tail := splitText(n.Text, o.position)
		second = &Text{Text: tail, Marks: n.Marks}
		n.Text = head
	case *Element:
		rest := append([]Node(nil), n.Children[o.position:]...)
		n.Children = append([]Node(nil), n.Children[:o.position]...)
		second = &Element{Type: n.Type, URL: n.URL, Children: rest}
	}
	*siblings = insertAt(*siblings, idx+1, second)
}

func (o *opSplit) transformPath(p Path) (Path, bool) {
	n := len(o.path)
	switch {
	case o.path.Equal(p):
		return p.clone(), true
	case o.path.endsBefore(p):
		q := p.clone()
		q[n-1]++
		return q, true
	case o.path.IsAncestor(p) && o.position <= p[n]:
		q := p.clone()
		q[n-1]++
		q[n] -= o.position
		return q, true
	}
	return p.clone(), true
}

func (o *opSplit) transformPoint(pt Point, aff affinity) (Point, bool) {
	if o.path.Equal(pt.Path) {
		if o.position < pt.Offset || (o.position == pt.Offset && aff == forward) {
			return Point{Path: pt.Path.Next(), Offset: pt.Offset - o.position}, true
		}
		return pt.clone(), true
	}
	return transformPointPath(o, pt)
}

// opInsert inserts node at path, shifting later siblings.
type opInsert struct {
	path Path
	node Node
}

func (o *opInsert) apply(d *Document) {
	siblings := d.children(o.path.Parent())
	*siblings = insertAt(*siblings, o.path[len(o.path)-1], o.node)
}

func (o *opInsert) transformPath(p Path) (Path, bool) {
	if o.path.Equal(p) || o.path.endsBefore(p) || o.path.IsAncestor(p) {
		q := p.clone()
		q[len(o.path)-1]++
		return q, true
	}
	return p.clone(), true
}

func (o *opInsert) transformPoint(pt Point, _ affinity) (Point, bool) {
	return transformPointPath(o, pt)
}

// opRemove deletes the node at path.
type opRemove struct {
	path Path
}

func (o *opRemove) apply(d *Document) {
	siblings := d.children(o.path.Parent())
	idx := o.path[len(o.path)-1]
	*siblings = append((*siblings)[:idx:idx], (*siblings)[idx+1:]...)
}

func (o *opRemove) transformPath(p Path) (Path, bool) {
	switch {
	case o.path.Equal(p) || o.path.IsAncestor(p):
		return nil, false
	case o.path.endsBefore(p):
		q := p.clone()
		q[len(o.path)-1]--
		return q, true
	}
	return p.clone(), true
}

func (o *opRemove) transformPoint(pt Point, _ affinity) (Point, bool) {
	return transformPointPath(o, pt)
}

// opMerge merges the node at path into its previous sibling. position is
// the previous sibling's length (characters for texts, children otherwise)
// before the merge.
type opMerge struct {
	path     Path
	position int
}

func (o *opMerge) apply(d *Document) {
	siblings := d.children(o.path.Parent())
	idx := o.path[len(o.path)-1]
	switch n := (*siblings)[idx].(type) {
	case *Text:
		(*siblings)[idx-1].(*Text).Text += n.Text
	case *Element:
		prev := (*siblings)[idx-1].(*Element)
		prev.Children = append(prev.Children, n.Children...)
	}
	*siblings = append((*siblings)[:idx:idx], (*siblings)[idx+1:]...)
}

func (o *opMerge) transformPath(p Path) (Path, bool) {
	n := len(o.path)
	switch {
	case o.path.Equal(p) || o.path.endsBefore(p):
		q := p.clone()
		q[n-1]--
		return q, true
	case o.path.IsAncestor(p):
		q := p.clone()
		q[n-1]--
		q[n] += o.position
		return q, true
	}
	return p.clone(), true
}

func (o *opMerge) transformPoint(pt Point, _ affinity) (Point, bool) {
	moved, _ := transformPointPath(o, pt)
	if o.path.Equal(pt.Path) {
		moved.Offset += o.position
	}
	return moved, true
}

// opSetElement changes an element's type and link target in place.
type opSetElement struct {
	path Path
	typ  ElementType
	url  string
}

func (o *opSetElement) apply(d *Document) {
	el := d.element(o.path)
	el.Type = o.typ
	el.URL = o.url
}

func (o *opSetElement) transformPath(p Path) (Path, bool) { return p.clone(), true }

func (o *opSetElement) transformPoint(pt Point, _ affinity) (Point, bool) {
	return pt.clone(), true
}

// opSetMarks replaces the marks of the text at path.
type opSetMarks struct {
	path  Path
	marks Marks
}

func (o *opSetMarks) apply(d *Document) {
	d.leaf(o.path).Marks = o.marks
}

func (o *opSetMarks) transformPath(p Path) (Path, bool) { return p.clone(), true }

func (o *opSetMarks) transformPoint(pt Point, _ affinity) (Point, bool) {
	return pt.clone(), true
}

// opInsertText inserts characters into the text at path.
type opInsertText struct {
	path   Path
	offset int
	text   string
}

func (o *opInsertText) apply(d *Document) {
	t := d.leaf(o.path)
	head, tail := splitText(t.Text, o.offset)
	t.Text = head + o.text + tail
}

func (o *opInsertText) transformPath(p Path) (Path, bool) { return p.clone(), true }

func (o *opInsertText) transformPoint(pt Point, aff affinity) (Point, bool) {
	q := pt.clone()
	if o.path.Equal(pt.Path) && (o.offset < pt.Offset || (o.offset == pt.Offset && aff == forward)) {
		q.Offset += textLen(o.text)
	}
	return q, true
}

// opRemoveText deletes characters from the text at path.
type opRemoveText struct {
	path   Path
	offset int
	length int
}

func (o *opRemoveText) apply(d *Document) {
	t := d.leaf(o.path)
	head, rest := splitText(t.Text, o.offset)
	_, tail := splitText(rest, o.length)
	t.Text = head + tail
}

func (o *opRemoveText) transformPath(p Path) (Path, bool) { return p.clone(), true }

func (o *opRemoveText) transformPoint(pt Point, _ affinity) (Point, bool) {
	q := pt.clone()
	if o.path.Equal(pt.Path) && o.offset <= pt.Offset {
		q.Offset -= min(pt.Offset-o.offset, o.length)
	}
	return q, true
}

// opLift replaces the element at path with its children.
type opLift struct {
	path  Path
	count int
}

func (o *opLift) apply(d *Document) {
	siblings := d.children(o.path.Parent())
	idx := o.path[len(o.path)-1]
	el := (*siblings)[idx].(*Element)
	out := make([]Node, 0, len(*siblings)-1+len(el.Children))
	out = append(out, (*siblings)[:idx]...)
	out = append(out, el.Children...)
	out = append(out, (*siblings)[idx+1:]...)
	*siblings = out
}

func (o *opLift) transformPath(p Path) (Path, bool) {
	n := len(o.path)
	switch {
	case o.path.IsAncestor(p):
		q := o.path.Parent()
		q = append(q, o.path[n-1]+p[n])
		return append(q, p[n+1:]...), true
	case o.path.Equal(p):
		return nil, false
	case o.path.endsBefore(p):
		q := p.clone()
		q[n-1] += o.count - 1
		return q, true
	}
	return p.clone(), true
}

func (o *opLift) transformPoint(pt Point, _ affinity) (Point, bool) {
	return transformPointPath(o, pt)
}

// opWrap moves the children start..end (inclusive) of the node at parent
// into a new element placed where they were.
type opWrap struct {
	parent     Path
	start, end int
	element    *Element
}

func (o *opWrap) apply(d *Document) {
	siblings := d.children(o.parent)
	o.element.Children = append([]Node(nil), (*siblings)[o.start:o.end+1]...)
	out := make([]Node, 0, len(*siblings)-(o.end-o.start))
	out = append(out, (*siblings)[:o.start]...)
	out = append(out, o.element)
	out = append(out, (*siblings)[o.end+1:]...)
	*siblings = out
}

func (o *opWrap) transformPath(p Path) (Path, bool) {
	d := len(o.parent)
	if len(p) <= d || !Path(p[:d]).Equal(o.parent) {
		return p.clone(), true
	}
	k := p[d]
	switch {
	case k >= o.start && k <= o.end:
		q := o.parent.clone()
		q = append(q, o.start, k-o.start)
		return append(q, p[d+1:]...), true
	case k > o.end:
		q := p.clone()
		q[d] -= o.end - o.start
		return q, true
	}
	return p.clone(), true
}

func (o *opWrap) transformPoint(pt Point, _ affinity) (Point, bool) {
	return transformPointPath(o, pt)
}

func insertAt(nodes []Node, i int, n Node) []Node {
	out := make([]Node, 0, len(nodes)+1)
	out = append(out, nodes[:i]...)
	out = append(out, n)
	return append(out, nodes[i:]...)
}
