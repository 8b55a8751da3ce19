package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Project returns the point of segment ab nearest to p together with its
// parameter t in [0, 1] along ab. A null segment projects everything onto a.
func Project(p, a, b Point) (r2.Vec, float64) {
	av := a.Vec()
	d := r2.Sub(b.Vec(), av)
	dd := r2.Dot(d, d)
	if dd == 0 {
		return av, 0
	}

	t := r2.Dot(d, r2.Sub(p.Vec(), av)) / dd
	switch {
	case t <= 0:
		return av, 0
	case t >= 1:
		return b.Vec(), 1
	}
	return r2.Add(av, r2.Scale(t, d)), t
}

// DistancePointSegment returns the distance from p to segment ab.
func DistancePointSegment(p, a, b Point) float64 {
	q, _ := Project(p, a, b)
	return r2.Norm(r2.Sub(p.Vec(), q))
}

// SegmentHit reports whether p lies strictly closer than dist to segment ab.
func SegmentHit(p, a, b Point, dist int) bool {
	return DistancePointSegment(p, a, b) < float64(dist)
}

// IsBodyHit reports whether the perpendicular foot of p falls within
// segment ab, as opposed to beyond one of its ends.
func IsBodyHit(p, a, b Point) bool {
	pos := r2.Sub(p.Vec(), a.Vec())
	vec := r2.Sub(b.Vec(), a.Vec())
	dot := r2.Dot(pos, vec)
	return dot >= 0 && dot <= r2.Dot(vec, vec)
}

// orientation returns the sign of the cross product (b-a) x (c-a).
func orientation(a, b, c Point) int {
	v := int64(b.X-a.X)*int64(c.Y-a.Y) - int64(b.Y-a.Y)*int64(c.X-a.X)
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func onSegment(p, a, b Point) bool {
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}

// SegmentsIntersect reports whether the closed segments s and o share at
// least one point. The test is exact on integer coordinates.
func SegmentsIntersect(s, o Segment) bool {
	d1 := orientation(o.Start, o.End, s.Start)
	d2 := orientation(o.Start, o.End, s.End)
	d3 := orientation(s.Start, s.End, o.Start)
	d4 := orientation(s.Start, s.End, o.End)

	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}

	return (d1 == 0 && onSegment(s.Start, o.Start, o.End)) ||
		(d2 == 0 && onSegment(s.End, o.Start, o.End)) ||
		(d3 == 0 && onSegment(o.Start, s.Start, s.End)) ||
		(d4 == 0 && onSegment(o.End, s.Start, s.End))
}

// SegmentDistance returns the smallest distance between two segments,
// zero when they cross or touch.
func SegmentDistance(s, o Segment) float64 {
	if SegmentsIntersect(s, o) {
		return 0
	}

	return math.Min(
		math.Min(DistancePointSegment(s.Start, o.Start, o.End), DistancePointSegment(s.End, o.Start, o.End)),
		math.Min(DistancePointSegment(o.Start, s.Start, s.End), DistancePointSegment(o.End, s.Start, s.End)),
	)
}

// Normal returns the vector of the given length perpendicular to segment
// ab and pointing towards p. ok is false when p lies on the line through
// a and b, where no side can be chosen.
func Normal(a, b, p Point, length float64) (r2.Vec, bool) {
	cv := r2.Sub(p.Vec(), a.Vec())
	vec := r2.Sub(b.Vec(), a.Vec())

	det := r2.Cross(cv, vec)
	if det == 0 {
		return r2.Vec{}, false
	}

	var n r2.Vec
	if det > 0 {
		n = r2.Vec{X: vec.Y, Y: -vec.X}
	} else {
		n = r2.Vec{X: -vec.Y, Y: vec.X}
	}
	return r2.Scale(length/r2.Norm(n), n), true
}
