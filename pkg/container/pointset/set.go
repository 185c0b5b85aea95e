// Package pointset is a brute-force point index. Membership is answered by an
// ordered set; range and nearest scan every point. It serves as the
// reference the kd-tree is checked against.
package pointset

import (
	"fmt"

	"github.com/go-sod/kdset/pkg/container/avltree"
	"github.com/go-sod/kdset/pkg/geom"
)

var (
	ErrEmptySet     = fmt.Errorf("point set is empty")
	ErrInvalidPoint = fmt.Errorf("point has NaN coordinate")
)

type pointItem geom.Point

func (i pointItem) Compare(current avltree.Item) int {
	return geom.Point(i).Compare(geom.Point(current.(pointItem)))
}

func New() *Set {
	return &Set{data: avltree.New()}
}

type Set struct {
	data *avltree.Tree
}

func (s *Set) Len() int {
	return s.data.Len()
}

func (s *Set) IsEmpty() bool {
	return s.data.Len() == 0
}

func (s *Set) Insert(p geom.Point) error {
	if !p.IsValid() {
		return fmt.Errorf("insert %v: %w", p, ErrInvalidPoint)
	}
	s.data.Add(pointItem(p))
	return nil
}

// Build replaces the contents of the set with points. On error the set is
// left unchanged.
func (s *Set) Build(points ...geom.Point) error {
	items := make([]avltree.Item, len(points))
	for i, p := range points {
		if !p.IsValid() {
			return fmt.Errorf("build with %v: %w", p, ErrInvalidPoint)
		}
		items[i] = pointItem(p)
	}
	data := avltree.New()
	data.Build(items...)
	s.data = data
	return nil
}

func (s *Set) Contains(p geom.Point) bool {
	return p.IsValid() && s.data.Contains(pointItem(p))
}

// Points returns every point ordered by y, then x.
func (s *Set) Points() []geom.Point {
	items := s.data.Points()
	points := make([]geom.Point, len(items))
	for i, item := range items {
		points[i] = geom.Point(item.(pointItem))
	}
	return points
}

func (s *Set) Range(r geom.Rect) ([]geom.Point, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("range: %w", err)
	}
	items := s.data.Filter(func(current avltree.Item) bool {
		return r.Contains(geom.Point(current.(pointItem)))
	})
	points := make([]geom.Point, len(items))
	for i, item := range items {
		points[i] = geom.Point(item.(pointItem))
	}
	return points, nil
}

func (s *Set) Nearest(p geom.Point) (geom.Point, error) {
	if !p.IsValid() {
		return geom.Point{}, fmt.Errorf("nearest to %v: %w", p, ErrInvalidPoint)
	}
	if s.IsEmpty() {
		return geom.Point{}, ErrEmptySet
	}
	var (
		nearest geom.Point
		best    = -1.0
	)
	for _, item := range s.data.Points() {
		current := geom.Point(item.(pointItem))
		if d := p.DistanceSquaredTo(current); best < 0 || d < best {
			nearest, best = current, d
		}
	}
	return nearest, nil
}
