package geom

// Direction is one of the three orientations a constrained segment may take.
type Direction int

const (
	Horizontal Direction = iota // 0 degrees
	Diagonal                    // 45 degrees
	Vertical                    // 90 degrees
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "0"
	case Diagonal:
		return "45"
	case Vertical:
		return "90"
	default:
		return "unknown"
	}
}

// slopeThreshold is tan(22.5 degrees) in 1/64 units. A slope of
// (minor<<6)/major below this value snaps to the major axis.
const slopeThreshold = 26

// Classify picks the orientation of a segment from origin towards cursor
// using fixed-point slope arithmetic. A slope exactly equal to the threshold
// classifies as Diagonal.
func Classify(origin, cursor Point) Direction {
	dx := abs(cursor.X - origin.X)
	dy := abs(cursor.Y - origin.Y)

	if dx >= dy {
		if dx == 0 || (dy<<6)/dx < slopeThreshold {
			return Horizontal
		}
		return Diagonal
	}

	if (dx<<6)/dy < slopeThreshold {
		return Vertical
	}
	return Diagonal
}

// SnapEndpoint returns the end point of a segment starting at origin and
// heading to cursor, constrained to 0, 45 or 90 degrees.
func SnapEndpoint(cursor, origin Point) Point {
	switch Classify(origin, cursor) {
	case Horizontal:
		return Point{X: cursor.X, Y: origin.Y}
	case Vertical:
		return Point{X: origin.X, Y: cursor.Y}
	}

	return origin.Add(diagonal(origin, cursor))
}

// diagonal returns the 45 degree offset from origin towards cursor whose
// legs both equal the smaller of the two axis deltas.
func diagonal(origin, cursor Point) Point {
	dx := abs(cursor.X - origin.X)
	dy := abs(cursor.Y - origin.Y)

	d := min(dx, dy)
	off := Point{X: d, Y: d}
	if cursor.X-origin.X < 0 {
		off.X = -d
	}
	if cursor.Y-origin.Y < 0 {
		off.Y = -d
	}
	return off
}
