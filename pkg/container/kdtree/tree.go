/*
 * Copyright 2020 Dennis Kuhnert
 * Copyright 2020 Ivanov Nikita
 *
 *    Licensed under the Apache License, Version 2.0 (the "License");
 *    you may not use this file except in compliance with the License.
 *    You may obtain a copy of the License at
 *
 *        http://www.apache.org/licenses/LICENSE-2.0
 *
 *    Unless required by applicable law or agreed to in writing, software
 *    distributed under the License is distributed on an "AS IS" BASIS,
 *    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *    See the License for the specific language governing permissions and
 *    limitations under the License.
 */

// Package kdtree implements a two-dimensional kd-tree holding a set of
// points. Every node keeps the rectangle of the plane it is responsible for,
// which range and nearest-neighbor queries use to skip whole subtrees.
//
// A Tree is not safe for concurrent use. Queries never mutate the tree, so
// callers may run them concurrently once insertions are serialized against
// them.
package kdtree

import (
	"fmt"
	"sort"

	"github.com/go-sod/kdset/pkg/geom"
)

var (
	ErrEmptyTree    = fmt.Errorf("kdtree is empty")
	ErrInvalidPoint = fmt.Errorf("point has NaN coordinate")
)

// WalkFn receives each node's key, region and splitting orientation.
// Returning false stops the walk.
type WalkFn func(p geom.Point, region geom.Rect, o Orientation) bool

// New returns an empty tree over the unit square.
func New() *Tree {
	return &Tree{domain: geom.UnitSquare}
}

// NewWithDomain returns an empty tree whose root region is domain.
func NewWithDomain(domain geom.Rect) (*Tree, error) {
	if err := domain.Validate(); err != nil {
		return nil, fmt.Errorf("kdtree domain: %w", err)
	}
	return &Tree{domain: domain}, nil
}

type Tree struct {
	root   *node
	len    int
	domain geom.Rect
}

func (t *Tree) Domain() geom.Rect {
	return t.domain
}

// Len returns the number of distinct points.
func (t *Tree) Len() int {
	return t.len
}

func (t *Tree) IsEmpty() bool {
	return t.len == 0
}

// Height is the number of nodes on the longest root-to-leaf path.
func (t *Tree) Height() int {
	return t.root.Height()
}

// Insert adds p. Inserting a point already in the tree does nothing.
func (t *Tree) Insert(p geom.Point) error {
	if !p.IsValid() {
		return fmt.Errorf("insert %v: %w", p, ErrInvalidPoint)
	}
	if t.root == nil {
		t.root = &node{Key: p, Orientation: Vertical, Rect: t.domain}
		t.len++
		return nil
	}

	n := t.root
	for {
		if n.Key.Equal(p) {
			return nil
		}
		lower := n.isLower(p)
		link := &n.Upper
		if lower {
			link = &n.Lower
		}
		if *link == nil {
			*link = n.newChild(p, lower)
			t.len++
			return nil
		}
		n = *link
	}
}

func (t *Tree) Contains(p geom.Point) bool {
	if !p.IsValid() {
		return false
	}
	n := t.root
	for n != nil {
		if n.Key.Equal(p) {
			return true
		}
		if n.isLower(p) {
			n = n.Lower
		} else {
			n = n.Upper
		}
	}
	return false
}

// Range returns the points inside r in no particular order.
func (t *Tree) Range(r geom.Rect) ([]geom.Point, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("range: %w", err)
	}
	return t.root.RangeSearch(r, []geom.Point{}), nil
}

// Nearest returns a point closest to p. Among equally close points the one
// found first wins.
func (t *Tree) Nearest(p geom.Point) (geom.Point, error) {
	if !p.IsValid() {
		return geom.Point{}, fmt.Errorf("nearest to %v: %w", p, ErrInvalidPoint)
	}
	if t.root == nil {
		return geom.Point{}, ErrEmptyTree
	}
	champion, _ := t.root.nearest(p, t.root.Key, p.DistanceSquaredTo(t.root.Key))
	return champion, nil
}

// Points lists the stored points in tree order.
func (t *Tree) Points() []geom.Point {
	return t.root.Points(make([]geom.Point, 0, t.len))
}

// Walk visits the nodes in pre-order, parents before children and lower
// children before upper ones.
func (t *Tree) Walk(fn WalkFn) {
	t.root.walk(fn)
}

// Build replaces the contents of the tree with points, splitting each level
// at the median so the tree starts out balanced. Duplicates are collapsed.
// On error the tree is left unchanged.
func (t *Tree) Build(points ...geom.Point) error {
	for _, p := range points {
		if !p.IsValid() {
			return fmt.Errorf("build with %v: %w", p, ErrInvalidPoint)
		}
	}
	distinct := make([]geom.Point, len(points))
	copy(distinct, points)
	sort.Slice(distinct, func(i, j int) bool {
		return distinct[i].Compare(distinct[j]) < 0
	})
	distinct = compact(distinct)

	t.root = buildTreeRecursive(distinct, Vertical, t.domain)
	t.len = len(distinct)
	return nil
}

type sortPoints struct {
	orientation Orientation
	points      []geom.Point
}

func (b *sortPoints) Len() int {
	return len(b.points)
}

func (b *sortPoints) Less(i, j int) bool {
	return b.orientation.coord(b.points[i]) < b.orientation.coord(b.points[j])
}

func (b *sortPoints) Swap(i, j int) {
	b.points[i], b.points[j] = b.points[j], b.points[i]
}

// buildTreeRecursive expects distinct points. The pivot is the first point
// sharing the median coordinate, so everything before it is strictly lower.
func buildTreeRecursive(points []geom.Point, o Orientation, rect geom.Rect) *node {
	if len(points) == 0 {
		return nil
	}

	sort.Sort(&sortPoints{orientation: o, points: points})
	mid := len(points) / 2
	pivot := o.coord(points[mid])
	for mid > 0 && o.coord(points[mid-1]) == pivot {
		mid--
	}

	n := &node{Key: points[mid], Orientation: o, Rect: rect}
	n.Lower = buildTreeRecursive(points[:mid], o.next(), n.lowerRect())
	n.Upper = buildTreeRecursive(points[mid+1:], o.next(), n.upperRect())
	return n
}

// compact drops adjacent equal points from a sorted slice.
func compact(points []geom.Point) []geom.Point {
	if len(points) == 0 {
		return points
	}
	out := points[:1]
	for _, p := range points[1:] {
		if !p.Equal(out[len(out)-1]) {
			out = append(out, p)
		}
	}
	return out
}
