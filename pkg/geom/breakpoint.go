package geom

// BreakPoint computes the joint between the previous segment of a
// two-segment route, which starts at prevStart, and the free end point end.
//
// prevPrev is the segment placed before the previous one, or nil when there
// is none. When it exists and is axis aligned the joint is chosen so the
// previous segment runs at 45 degrees; the alternate posture flips that
// preference (and selects 45 degrees when there is no earlier segment).
// Otherwise the previous segment runs horizontally or vertically along the
// dominant axis and the following segment takes the 45 degree leg.
//
// If the computed previous segment would be null the joint collapses onto
// end, leaving the following segment null instead.
func BreakPoint(prevStart, end Point, prevPrev *Segment, alternate bool) Point {
	dx := abs(end.X - prevStart.X)
	dy := abs(end.Y - prevStart.Y)

	var diag bool
	if prevPrev != nil {
		diag = prevPrev.IsAxisAligned() && !alternate
	} else {
		diag = alternate
	}

	var dir Direction
	switch {
	case diag:
		dir = Diagonal
	case dx >= dy:
		dir = Horizontal
	default:
		dir = Vertical
	}

	var joint Point
	switch dir {
	case Horizontal:
		if end.X-prevStart.X < 0 {
			joint = Point{X: end.X + dy, Y: prevStart.Y}
		} else {
			joint = Point{X: end.X - dy, Y: prevStart.Y}
		}
	case Vertical:
		if end.Y-prevStart.Y < 0 {
			joint = Point{X: prevStart.X, Y: end.Y + dx}
		} else {
			joint = Point{X: prevStart.X, Y: end.Y - dx}
		}
	default:
		joint = prevStart.Add(diagonal(prevStart, end))
	}

	if joint == prevStart {
		return end
	}
	return joint
}
