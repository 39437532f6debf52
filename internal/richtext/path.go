package richtext

// Path addresses a node by child indexes from the document root.
type Path []int

// Point is a position inside a text leaf. Offset counts UTF-16 code units.
type Point struct {
	Path   Path `json:"path"`
	Offset int  `json:"offset"`
}

// Range is a selection between two points. Anchor is where the selection
// started and may come after Focus.
type Range struct {
	Anchor Point `json:"anchor"`
	Focus  Point `json:"focus"`
}

func (p Path) clone() Path {
	return append(Path(nil), p...)
}

// Compare orders two paths in document order. Ancestors compare equal to
// their descendants.
func (p Path) Compare(o Path) int {
	n := min(len(p), len(o))
	for i := 0; i < n; i++ {
		if p[i] < o[i] {
			return -1
		}
		if p[i] > o[i] {
			return 1
		}
	}
	return 0
}

// Equal reports whether both paths address the same node.
func (p Path) Equal(o Path) bool {
	return len(p) == len(o) && p.Compare(o) == 0
}

// IsAncestor reports whether p is a strict ancestor of o.
func (p Path) IsAncestor(o Path) bool {
	return len(p) < len(o) && p.Compare(o) == 0
}

// IsBefore reports whether p precedes o and is not one of its ancestors.
func (p Path) IsBefore(o Path) bool {
	return p.Compare(o) == -1
}

// endsBefore reports whether p is an earlier sibling of o or of one of o's
// ancestors.
func (p Path) endsBefore(o Path) bool {
	if len(p) == 0 || len(o) < len(p) {
		return false
	}
	i := len(p) - 1
	return Path(p[:i]).Equal(o[:i]) && p[i] < o[i]
}

// Parent returns the path of p's parent.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1].clone()
}

// Next returns the path of the following sibling.
func (p Path) Next() Path {
	n := p.clone()
	n[len(n)-1]++
	return n
}

// Previous returns the path of the preceding sibling.
func (p Path) Previous() Path {
	n := p.clone()
	n[len(n)-1]--
	return n
}

// HasPrevious reports whether p has an earlier sibling.
func (p Path) HasPrevious() bool {
	return len(p) > 0 && p[len(p)-1] > 0
}

// Common returns the deepest path that is an ancestor-or-self of both.
func (p Path) Common(o Path) Path {
	var c Path
	for i := 0; i < len(p) && i < len(o); i++ {
		if p[i] != o[i] {
			break
		}
		c = append(c, p[i])
	}
	return c
}

// Compare orders two points in document order.
func (p Point) Compare(o Point) int {
	if c := p.Path.Compare(o.Path); c != 0 {
		return c
	}
	switch {
	case p.Offset < o.Offset:
		return -1
	case p.Offset > o.Offset:
		return 1
	}
	return 0
}

// Equal reports whether both points are the same position.
func (p Point) Equal(o Point) bool {
	return p.Path.Equal(o.Path) && p.Offset == o.Offset
}

func (p Point) clone() Point {
	return Point{Path: p.Path.clone(), Offset: p.Offset}
}

// Collapsed returns a zero-length range at p.
func Collapsed(p Point) *Range {
	return &Range{Anchor: p.clone(), Focus: p.clone()}
}

// IsCollapsed reports whether the range has zero length.
func (r Range) IsCollapsed() bool {
	return r.Anchor.Equal(r.Focus)
}

// IsBackward reports whether the focus precedes the anchor.
func (r Range) IsBackward() bool {
	return r.Anchor.Compare(r.Focus) > 0
}

// Edges returns the start and end points in document order.
func (r Range) Edges() (Point, Point) {
	if r.IsBackward() {
		return r.Focus, r.Anchor
	}
	return r.Anchor, r.Focus
}

func (r *Range) clone() *Range {
	if r == nil {
		return nil
	}
	return &Range{Anchor: r.Anchor.clone(), Focus: r.Focus.clone()}
}
