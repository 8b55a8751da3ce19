package geom

import "math"

// Rect is an axis-aligned rectangle, Min inclusive and Max inclusive.
type Rect struct {
	Min Point
	Max Point
}

// RectAround returns the rectangle of the given size centred on c.
func RectAround(c Point, width, height int) Rect {
	return Rect{
		Min: Point{X: c.X - width/2, Y: c.Y - height/2},
		Max: Point{X: c.X + (width - width/2), Y: c.Y + (height - height/2)},
	}
}

// Contains reports whether p lies inside r or on its border.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

func (r Rect) edges() [4]Segment {
	tl := r.Min
	tr := Point{X: r.Max.X, Y: r.Min.Y}
	br := r.Max
	bl := Point{X: r.Min.X, Y: r.Max.Y}
	return [4]Segment{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}}
}

// DistanceToSegment returns the distance between r and s, zero when s
// touches or enters the rectangle.
func (r Rect) DistanceToSegment(s Segment) float64 {
	if r.Contains(s.Start) || r.Contains(s.End) {
		return 0
	}

	d := math.Inf(1)
	for _, e := range r.edges() {
		d = math.Min(d, SegmentDistance(s, e))
	}
	return d
}

// PolygonContains reports whether p lies inside the closed polygon poly
// using the even-odd rule.
func PolygonContains(poly []Point, p Point) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := float64(b.X-a.X)*float64(p.Y-a.Y)/float64(b.Y-a.Y) + float64(a.X)
			if float64(p.X) < x {
				inside = !inside
			}
		}
	}
	return inside
}
