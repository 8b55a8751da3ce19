package board

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
)

// LockPoint is what a point resolves to: a pad, a track or nothing. It is
// a transient query result.
type LockPoint struct {
	Pad   *Pad
	Track *Track
}

// IsZero reports whether nothing was hit.
func (lp LockPoint) IsZero() bool {
	return lp.Pad == nil && lp.Track == nil
}

// Net returns the net of whatever was hit, zero for nothing.
func (lp LockPoint) Net() NetCode {
	switch {
	case lp.Pad != nil:
		return lp.Pad.Net
	case lp.Track != nil:
		return lp.Track.Net
	}
	return 0
}

func (lp LockPoint) String() string {
	switch {
	case lp.Pad != nil:
		return fmt.Sprintf("pad %s", lp.Pad.Name())
	case lp.Track != nil:
		return lp.Track.String()
	}
	return "nothing"
}

// PadAt returns the first pad on a layer of mask that contains p.
func (b *Board) PadAt(p geom.Point, mask LayerMask) *Pad {
	for _, pad := range b.Pads {
		if pad.Layers.Intersects(mask) && pad.Contains(p) {
			return pad
		}
	}
	return nil
}

// PadOnTrackEnd returns the pad, on the track's layer, that contains one
// end of t.
func (b *Board) PadOnTrackEnd(t *Track, e EndPoint) *Pad {
	return b.PadAt(t.Point(e), MaskOf(t.Layer))
}

// TrackAt returns a live track on a layer of mask whose copper covers p.
// Tracks whose end covers p are preferred over tracks hit on their body.
func (b *Board) TrackAt(p geom.Point, mask LayerMask) *Track {
	var body *Track
	for _, t := range b.tracks {
		if t.Has(FlagDeleted) || !mask.Has(t.Layer) {
			continue
		}
		half := float64(t.Width) / 2
		if geom.DistancePointSegment(p, t.Start, t.End) > half {
			continue
		}
		if endDistance(p, t) <= half {
			return t
		}
		if body == nil {
			body = t
		}
	}
	return body
}

func endDistance(p geom.Point, t *Track) float64 {
	ds, de := p.Sub(t.Start), p.Sub(t.End)
	return min(
		math.Hypot(float64(ds.X), float64(ds.Y)),
		math.Hypot(float64(de.X), float64(de.Y)),
	)
}

// LockPointAt resolves p on the layers of mask: pads first, then tracks.
func (b *Board) LockPointAt(p geom.Point, mask LayerMask) LockPoint {
	if pad := b.PadAt(p, mask); pad != nil {
		return LockPoint{Pad: pad}
	}
	if t := b.TrackAt(p, mask); t != nil {
		return LockPoint{Track: t}
	}
	return LockPoint{}
}

// FilledRegionAt returns the zone whose fill on layer contains p.
func (b *Board) FilledRegionAt(p geom.Point, layer LayerID) (*Zone, bool) {
	for _, z := range b.Zones {
		if z.Layer == layer && z.Contains(p) {
			return z, true
		}
	}
	return nil, false
}

// CreateConnectionPoint makes sure a track end exists at p on track onto
// and returns its coordinates. When p is already an end of onto nothing
// changes. Otherwise onto is split at the projection of p: onto keeps the
// first half and a new track, inserted right after it, takes the second.
// The changes are recorded on sink.
func (b *Board) CreateConnectionPoint(p geom.Point, onto *Track, sink UndoSink) geom.Point {
	if p == onto.Start || p == onto.End {
		return p
	}

	proj, _ := geom.Project(p, onto.Start, onto.End)
	q := geom.FromVec(proj)
	if q == onto.Start || q == onto.End {
		return q
	}

	idx := b.IndexOf(onto.ID)
	if idx < 0 {
		return q
	}

	// Tracks attached to the far end of onto must follow the second half.
	var followers []*Track
	for _, t := range b.tracks {
		if t == onto {
			continue
		}
		if (t.StartAnchor == TrackAnchor(onto.ID) && t.Start == onto.End) ||
			(t.EndAnchor == TrackAnchor(onto.ID) && t.End == onto.End) {
			followers = append(followers, t)
		}
	}

	sink.Record(UndoChanged, onto)
	for _, t := range followers {
		sink.Record(UndoChanged, t)
	}

	half := onto.Clone()
	half.ID = b.AllocID()
	half.Start = q
	half.StartAnchor = TrackAnchor(onto.ID)
	half.Clear(FlagBeginOnPad | FlagNew | FlagBusy)

	onto.End = q
	onto.EndAnchor = TrackAnchor(half.ID)
	onto.Clear(FlagEndOnPad)

	for _, t := range followers {
		if t.StartAnchor == TrackAnchor(onto.ID) && t.Start == half.End {
			t.StartAnchor = TrackAnchor(half.ID)
		}
		if t.EndAnchor == TrackAnchor(onto.ID) && t.End == half.End {
			t.EndAnchor = TrackAnchor(half.ID)
		}
	}

	// idx+1 is always within range.
	_ = b.InsertTrack(idx+1, half)
	sink.Record(UndoNew, half)

	return q
}
