package avltree

const needBalanceHeight = 2

type node struct {
	item   Item
	left   *node
	right  *node
	height int
}

func height(n *node) int {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *node) computeHeight() {
	l, r := height(n.left), height(n.right)
	if l > r {
		n.height = l + 1
	} else {
		n.height = r + 1
	}
}

func (n *node) heightDiff() int {
	return height(n.left) - height(n.right)
}

// add inserts item below n and returns the new subtree root. added is false
// when an equal item was already present.
func (n *node) add(item Item) (root *node, added bool) {
	if n == nil {
		return &node{item: item, height: 1}, true
	}
	switch c := item.Compare(n.item); {
	case c == 0:
		return n, false
	case c < 0:
		n.left, added = n.left.add(item)
	default:
		n.right, added = n.right.add(item)
	}
	if !added {
		return n, false
	}
	return n.balance(), true
}

func (n *node) balance() *node {
	n.computeHeight()
	switch n.heightDiff() {
	case needBalanceHeight:
		if n.left.heightDiff() < 0 {
			n.left = n.left.rotateLeft()
		}
		return n.rotateRight()
	case -needBalanceHeight:
		if n.right.heightDiff() > 0 {
			n.right = n.right.rotateRight()
		}
		return n.rotateLeft()
	}
	return n
}

func (n *node) rotateRight() *node {
	root := n.left
	n.left = root.right
	root.right = n
	n.computeHeight()
	root.computeHeight()
	return root
}

func (n *node) rotateLeft() *node {
	root := n.right
	n.right = root.left
	root.left = n
	n.computeHeight()
	root.computeHeight()
	return root
}

func (n *node) points(items []Item) []Item {
	if n == nil {
		return items
	}
	items = n.left.points(items)
	items = append(items, n.item)
	return n.right.points(items)
}

func (n *node) filter(fn FilterFn, items []Item) []Item {
	if n == nil {
		return items
	}
	items = n.left.filter(fn, items)
	if fn(n.item) {
		items = append(items, n.item)
	}
	return n.right.filter(fn, items)
}
