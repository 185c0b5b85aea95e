package kdtree

import "github.com/go-sod/kdset/pkg/geom"

// Orientation is the splitting axis of a node.
type Orientation uint8

const (
	// Vertical nodes partition by x-coordinate.
	Vertical Orientation = iota
	// Horizontal nodes partition by y-coordinate.
	Horizontal
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

func (o Orientation) next() Orientation {
	if o == Vertical {
		return Horizontal
	}
	return Vertical
}

func (o Orientation) coord(p geom.Point) float64 {
	if o == Vertical {
		return p.X
	}
	return p.Y
}

// node owns its children. Rect is the region of the plane assigned to the
// node by the splits of its ancestors.
type node struct {
	Key         geom.Point
	Orientation Orientation
	Rect        geom.Rect
	Lower       *node
	Upper       *node
}

// isLower reports whether p belongs to the lower subtree: its coordinate on
// the node axis is strictly less than the key's.
func (n *node) isLower(p geom.Point) bool {
	return n.Orientation.coord(p) < n.Orientation.coord(n.Key)
}

func (n *node) lowerRect() geom.Rect {
	r := n.Rect
	if n.Orientation == Vertical {
		r.XMax = n.Key.X
	} else {
		r.YMax = n.Key.Y
	}
	return r
}

func (n *node) upperRect() geom.Rect {
	r := n.Rect
	if n.Orientation == Vertical {
		r.XMin = n.Key.X
	} else {
		r.YMin = n.Key.Y
	}
	return r
}

func (n *node) newChild(p geom.Point, lower bool) *node {
	rect := n.upperRect()
	if lower {
		rect = n.lowerRect()
	}
	return &node{Key: p, Orientation: n.Orientation.next(), Rect: rect}
}

func (n *node) Points(points []geom.Point) []geom.Point {
	if n == nil {
		return points
	}
	points = n.Lower.Points(points)
	points = append(points, n.Key)
	return n.Upper.Points(points)
}

func (n *node) Height() int {
	if n == nil {
		return 0
	}
	lower, upper := n.Lower.Height(), n.Upper.Height()
	if lower > upper {
		return lower + 1
	}
	return upper + 1
}

// RangeSearch appends the keys inside r, skipping every subtree whose region
// does not intersect r.
func (n *node) RangeSearch(r geom.Rect, points []geom.Point) []geom.Point {
	if n == nil || !n.Rect.Intersects(r) {
		return points
	}
	if r.Contains(n.Key) {
		points = append(points, n.Key)
	}
	points = n.Lower.RangeSearch(r, points)
	return n.Upper.RangeSearch(r, points)
}

// nearest returns the closest of champion and the keys under n. best is the
// squared distance from q to champion.
func (n *node) nearest(q, champion geom.Point, best float64) (geom.Point, float64) {
	if d := q.DistanceSquaredTo(n.Key); d < best {
		champion, best = n.Key, d
	}
	if n.Rect.DistanceSquaredTo(q) >= best {
		return champion, best
	}

	first, second := n.Upper, n.Lower
	if n.isLower(q) {
		first, second = n.Lower, n.Upper
	}
	if first != nil && first.Rect.DistanceSquaredTo(q) < best {
		champion, best = first.nearest(q, champion, best)
	}
	if second != nil && second.Rect.DistanceSquaredTo(q) < best {
		champion, best = second.nearest(q, champion, best)
	}
	return champion, best
}

func (n *node) walk(fn WalkFn) bool {
	if n == nil {
		return true
	}
	if !fn(n.Key, n.Rect, n.Orientation) {
		return false
	}
	return n.Lower.walk(fn) && n.Upper.walk(fn)
}
