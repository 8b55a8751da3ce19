package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a position in integer board units.
type Point struct {
	X int
	Y int
}

// Pt returns the point (x, y).
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Vec converts p to a floating point vector.
func (p Point) Vec() r2.Vec {
	return r2.Vec{X: float64(p.X), Y: float64(p.Y)}
}

// FromVec rounds v to the nearest board point.
func FromVec(v r2.Vec) Point {
	return Point{X: Round(v.X), Y: Round(v.Y)}
}

// Segment is a start/end pair.
type Segment struct {
	Start Point
	End   Point
}

// Seg returns the segment from a to b.
func Seg(a, b Point) Segment {
	return Segment{Start: a, End: b}
}

// IsNull reports whether the segment has zero length.
func (s Segment) IsNull() bool {
	return s.Start == s.End
}

// Delta returns End - Start.
func (s Segment) Delta() Point {
	return s.End.Sub(s.Start)
}

// IsAxisAligned reports whether the segment is horizontal or vertical.
func (s Segment) IsAxisAligned() bool {
	return s.Start.X == s.End.X || s.Start.Y == s.End.Y
}

// Length returns the euclidean length of the segment.
func (s Segment) Length() float64 {
	return r2.Norm(r2.Sub(s.End.Vec(), s.Start.Vec()))
}

// Round rounds half away from zero, the way board coordinates are rounded
// everywhere else in the editor.
func Round(f float64) int {
	if f < 0 {
		return -int(math.Floor(-f + 0.5))
	}
	return int(math.Floor(f + 0.5))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
