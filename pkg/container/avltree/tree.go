// Package avltree is an ordered set kept balanced by AVL rotations.
package avltree

// Item is an element of the set. Compare returns a negative number, zero or a
// positive number when the receiver orders before, equal to or after current.
type Item interface {
	Compare(current Item) int
}

type FilterFn func(current Item) bool

func New() *Tree {
	return &Tree{}
}

type Tree struct {
	root *node
	len  int
}

func (t *Tree) Build(items ...Item) {
	for i := range items {
		t.Add(items[i])
	}
}

func (t *Tree) Len() int {
	return t.len
}

func (t *Tree) Height() int {
	return height(t.root)
}

// Add inserts item and reports whether it was absent.
func (t *Tree) Add(item Item) bool {
	root, added := t.root.add(item)
	t.root = root
	if added {
		t.len++
	}
	return added
}

func (t *Tree) Contains(item Item) bool {
	n := t.root
	for n != nil {
		c := item.Compare(n.item)
		switch {
		case c == 0:
			return true
		case c < 0:
			n = n.left
		default:
			n = n.right
		}
	}
	return false
}

// Points returns every item in ascending order.
func (t *Tree) Points() []Item {
	return t.root.points(make([]Item, 0, t.len))
}

// Filter returns the items accepted by fn in ascending order.
func (t *Tree) Filter(fn FilterFn) []Item {
	return t.root.filter(fn, []Item{})
}
