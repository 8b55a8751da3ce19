package router

import (
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/board"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
)

// ClearanceFunc returns the clearance required between two tracks.
type ClearanceFunc func(a, b *board.Track) int

// Intrusion is a foreign track whose clearance area contains the cursor.
type Intrusion struct {
	Track    *board.Track
	Body     bool    // the cursor projects inside the track, not past an end
	Distance float64 // cursor to track centre line
}

// LocateIntrusion finds the track on layer, of another net than tail, that
// ref lies too close to: nearer than half both widths plus the clearance.
// A hit on the side of a track ends the scan; otherwise the nearest hit
// over all tracks is returned. Busy and deleted tracks are ignored.
func LocateIntrusion(tracks []*board.Track, tail *board.Track, layer board.LayerID, ref geom.Point, clearance ClearanceFunc) (Intrusion, bool) {
	var (
		found Intrusion
		ok    bool
	)

	for _, t := range tracks {
		if t.Flags&(board.FlagBusy|board.FlagDeleted) != 0 {
			continue
		}
		if t.Layer != layer || t.Net == tail.Net {
			continue
		}

		dist := (tail.Width+t.Width)/2 + clearance(tail, t)
		if !geom.SegmentHit(ref, t.Start, t.End, dist) {
			continue
		}

		d := geom.DistancePointSegment(ref, t.Start, t.End)
		if geom.IsBodyHit(ref, t.Start, t.End) {
			return Intrusion{Track: t, Body: true, Distance: d}, true
		}
		if !ok || d < found.Distance {
			found = Intrusion{Track: t, Distance: d}
			ok = true
		}
	}

	return found, ok
}

// PushDistance is how far from other's centre line a tail end is placed:
// both half widths rounded up, the clearance and the slack settings.
func PushDistance(tail, other *board.Track, clearance int, s Settings) int {
	return (tail.Width+1)/2 + (other.Width+1)/2 + clearance + s.StrictClearanceSlack + s.DiagonalRoundoffSlack
}

// PushVector computes where the tail end goes when the cursor points into
// other: the projection of cursor on other, moved along the normal towards
// the cursor by PushDistance. ok is false when the cursor lies on other's
// centre line, or other is of the tail's net.
func PushVector(tail, other *board.Track, cursor geom.Point, clearance int, s Settings) (geom.Point, bool) {
	if other.Net == tail.Net {
		return cursor, false
	}

	dist := PushDistance(tail, other, clearance, s)
	n, ok := geom.Normal(other.Start, other.End, cursor, float64(dist))
	if !ok {
		return cursor, false
	}

	proj, _ := geom.Project(cursor, other.Start, other.End)
	offset := geom.Pt(geom.Round(n.X), geom.Round(n.Y))
	return geom.FromVec(proj).Add(offset), true
}

// push moves the tail end out of the nearest intrusion on the active
// layer. It returns cursor unchanged when nothing intrudes.
func (r *Router) push(tail *board.Track, cursor geom.Point) geom.Point {
	in, ok := LocateIntrusion(r.board.Tracks(), tail, r.layer, cursor, r.board.Clearance)
	if !ok {
		return cursor
	}

	end, ok := PushVector(tail, in.Track, cursor, r.board.Clearance(tail, in.Track), r.settings)
	if !ok {
		return cursor
	}
	r.log.Debugf("pushed %v to %v away from %v", cursor, end, in.Track)
	return end
}
