package pointset

import (
	"errors"
	"math"
	"testing"

	"github.com/go-sod/kdset/pkg/geom"
)

func TestSet_Insert(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		points      []geom.Point
		expectedLen int
	}{
		{name: "empty", expectedLen: 0},
		{name: "distinct", points: []geom.Point{{X: 0.1, Y: 0.2}, {X: 0.3, Y: 0.4}, {X: 0.5, Y: 0.6}}, expectedLen: 3},
		{name: "duplicates", points: []geom.Point{{X: 0.1, Y: 0.2}, {X: 0.1, Y: 0.2}, {X: 0.2, Y: 0.1}}, expectedLen: 2},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			s := New()
			for _, p := range test.points {
				if err := s.Insert(p); err != nil {
					t.Fatalf("insert %v: %v", p, err)
				}
			}
			if s.Len() != test.expectedLen {
				t.Errorf("the length of the set, got: %d, expected: %d", s.Len(), test.expectedLen)
			}
			if s.IsEmpty() != (test.expectedLen == 0) {
				t.Errorf("emptiness, got: %v, expected: %v", s.IsEmpty(), test.expectedLen == 0)
			}
			for _, p := range test.points {
				if !s.Contains(p) {
					t.Errorf("the set must contain %v", p)
				}
			}
		})
	}
}

func TestSet_InsertInvalid(t *testing.T) {
	t.Parallel()
	s := New()
	if err := s.Insert(geom.Point{X: math.NaN()}); !errors.Is(err, ErrInvalidPoint) {
		t.Errorf("insert NaN, got: %v, expected: %v", err, ErrInvalidPoint)
	}
	if s.Len() != 0 {
		t.Errorf("the length of the set, got: %d, expected: 0", s.Len())
	}
}

func TestSet_Queries(t *testing.T) {
	t.Parallel()
	s := New()
	for _, p := range []geom.Point{{X: 0.7, Y: 0.2}, {X: 0.5, Y: 0.4}, {X: 0.2, Y: 0.3}, {X: 0.4, Y: 0.7}, {X: 0.9, Y: 0.6}} {
		if err := s.Insert(p); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Range(geom.Rect{XMin: 0, YMin: 0, XMax: 0.5, YMax: 0.5})
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 2 || !got[0].Equal(geom.Point{X: 0.2, Y: 0.3}) || !got[1].Equal(geom.Point{X: 0.5, Y: 0.4}) {
		t.Errorf("range, got: %v, expected: [(0.2, 0.3) (0.5, 0.4)]", got)
	}

	if _, err := s.Range(geom.Rect{XMin: 1, XMax: 0}); !errors.Is(err, geom.ErrInvalidRect) {
		t.Errorf("range with invalid rect, got: %v, expected: %v", err, geom.ErrInvalidRect)
	}

	nearest, err := s.Nearest(geom.Point{X: 0.55, Y: 0.4})
	if err != nil {
		t.Fatalf("nearest: %v", err)
	}
	if !nearest.Equal(geom.Point{X: 0.5, Y: 0.4}) {
		t.Errorf("nearest, got: %v, expected: (0.5, 0.4)", nearest)
	}
}

func TestSet_NearestEmpty(t *testing.T) {
	t.Parallel()
	if _, err := New().Nearest(geom.Point{X: 0.5, Y: 0.5}); !errors.Is(err, ErrEmptySet) {
		t.Errorf("nearest on empty set, got: %v, expected: %v", err, ErrEmptySet)
	}
}

func TestSet_Build(t *testing.T) {
	t.Parallel()
	s := New()
	if err := s.Insert(geom.Point{X: 0.9, Y: 0.9}); err != nil {
		t.Fatal(err)
	}
	points := []geom.Point{{X: 0.1, Y: 0.2}, {X: 0.3, Y: 0.4}, {X: 0.1, Y: 0.2}}
	if err := s.Build(points...); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 {
		t.Errorf("the length of the set, got: %d, expected: 2", s.Len())
	}
	if s.Contains(geom.Point{X: 0.9, Y: 0.9}) {
		t.Errorf("build must replace previous contents")
	}
	for _, p := range points {
		if !s.Contains(p) {
			t.Errorf("the set must contain %v", p)
		}
	}

	if err := s.Build(geom.Point{X: 0.5, Y: 0.5}, geom.Point{X: math.NaN()}); !errors.Is(err, ErrInvalidPoint) {
		t.Fatalf("build with NaN, got: %v, expected: %v", err, ErrInvalidPoint)
	}
	if s.Len() != 2 || s.Contains(geom.Point{X: 0.5, Y: 0.5}) {
		t.Errorf("failed build must leave the set unchanged")
	}
}
