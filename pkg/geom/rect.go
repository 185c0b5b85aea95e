package geom

import (
	"fmt"
	"math"
)

var ErrInvalidRect = fmt.Errorf("rectangle bounds are invalid")

// UnitSquare is the default domain of an index.
var UnitSquare = Rect{XMin: 0, YMin: 0, XMax: 1, YMax: 1}

// Rect is an immutable axis-aligned rectangle. All edges belong to the rectangle.
type Rect struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

func NewRect(xmin, ymin, xmax, ymax float64) (Rect, error) {
	r := Rect{XMin: xmin, YMin: ymin, XMax: xmax, YMax: ymax}
	if err := r.Validate(); err != nil {
		return Rect{}, err
	}
	return r, nil
}

// Validate reports ErrInvalidRect for NaN bounds or a min bound above its max.
func (r Rect) Validate() error {
	if math.IsNaN(r.XMin) || math.IsNaN(r.YMin) || math.IsNaN(r.XMax) || math.IsNaN(r.YMax) {
		return fmt.Errorf("%w: NaN bound in %v", ErrInvalidRect, r)
	}
	if r.XMin > r.XMax {
		return fmt.Errorf("%w: xmin %v > xmax %v", ErrInvalidRect, r.XMin, r.XMax)
	}
	if r.YMin > r.YMax {
		return fmt.Errorf("%w: ymin %v > ymax %v", ErrInvalidRect, r.YMin, r.YMax)
	}
	return nil
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.XMin && p.X <= r.XMax &&
		p.Y >= r.YMin && p.Y <= r.YMax
}

// Intersects counts shared edges and corners as an intersection.
func (r Rect) Intersects(r1 Rect) bool {
	return r.XMax >= r1.XMin && r.YMax >= r1.YMin &&
		r1.XMax >= r.XMin && r1.YMax >= r.YMin
}

// DistanceSquaredTo returns the squared distance from p to the closest point
// of r, zero when p lies inside. It lower-bounds the distance from p to any
// point r contains.
func (r Rect) DistanceSquaredTo(p Point) float64 {
	dx := axisGap(p.X, r.XMin, r.XMax)
	dy := axisGap(p.Y, r.YMin, r.YMax)
	return dx*dx + dy*dy
}

func (r Rect) DistanceTo(p Point) float64 {
	return math.Sqrt(r.DistanceSquaredTo(p))
}

// Extend returns the smallest rectangle covering r and every valid point.
func (r Rect) Extend(points ...Point) Rect {
	for _, p := range points {
		if !p.IsValid() {
			continue
		}
		r.XMin = math.Min(r.XMin, p.X)
		r.YMin = math.Min(r.YMin, p.Y)
		r.XMax = math.Max(r.XMax, p.X)
		r.YMax = math.Max(r.YMax, p.Y)
	}
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("[%v, %v] x [%v, %v]", r.XMin, r.XMax, r.YMin, r.YMax)
}

func axisGap(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo - v
	case v > hi:
		return v - hi
	}
	return 0
}
