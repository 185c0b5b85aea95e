package geom

import (
	"math"
	"strconv"
)

// Point is an immutable location in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// IsValid reports whether both coordinates are comparable numbers.
func (p Point) IsValid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y)
}

func (p Point) Equal(p1 Point) bool {
	return p.X == p1.X && p.Y == p1.Y
}

// DistanceSquaredTo is the default metric; it skips the square root.
func (p Point) DistanceSquaredTo(p1 Point) float64 {
	dx := p.X - p1.X
	dy := p.Y - p1.Y
	return dx*dx + dy*dy
}

func (p Point) DistanceTo(p1 Point) float64 {
	return math.Sqrt(p.DistanceSquaredTo(p1))
}

// Compare orders points by y-coordinate, breaking ties by x-coordinate.
func (p Point) Compare(p1 Point) int {
	switch {
	case p.Y < p1.Y:
		return -1
	case p.Y > p1.Y:
		return 1
	case p.X < p1.X:
		return -1
	case p.X > p1.X:
		return 1
	}
	return 0
}

func (p Point) String() string {
	return "(" + strconv.FormatFloat(p.X, 'f', -1, 64) + ", " + strconv.FormatFloat(p.Y, 'f', -1, 64) + ")"
}
