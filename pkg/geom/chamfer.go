package geom

// CornerStep returns the leg length cut from each side of a right angle
// corner: half the grid, but never less than twice the track width.
func CornerStep(grid, width int) int {
	step := Round(float64(grid) / 2)
	if step < width*2 {
		step = width * 2
	}
	return step
}

// Chamfer computes the diagonal segment that replaces the right angle
// corner between prev and cur, where prev.End is cur.Start.
//
// Both segments must be axis aligned, perpendicular to each other and at
// least 2*step long. The returned segment starts on prev, step units before
// the joint, and ends on cur, step units after it. ok is false when the
// corner cannot be chamfered.
func Chamfer(prev, cur Segment, step int) (bridge Segment, ok bool) {
	d0 := prev.Delta()
	d1 := cur.Delta()

	if max(abs(d0.X), abs(d0.Y)) < step*2 {
		return Segment{}, false
	}
	if max(abs(d1.X), abs(d1.Y)) < step*2 {
		return Segment{}, false
	}

	a := prev.End
	b := cur.Start

	switch {
	case d0.X == 0: // previous is vertical
		if d1.Y != 0 {
			return Segment{}, false
		}
		if d0.Y > 0 {
			a.Y -= step
		} else {
			a.Y += step
		}
		if d1.X > 0 {
			b.X += step
		} else {
			b.X -= step
		}

	case d0.Y == 0: // previous is horizontal
		if d1.X != 0 {
			return Segment{}, false
		}
		if d0.X > 0 {
			a.X -= step
		} else {
			a.X += step
		}
		if d1.Y > 0 {
			b.Y += step
		} else {
			b.Y -= step
		}

	default:
		return Segment{}, false
	}

	return Segment{Start: a, End: b}, true
}
