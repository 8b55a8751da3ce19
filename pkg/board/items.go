package board

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
)

// Pad is a footprint pad reduced to its copper footprint: an axis-aligned
// rectangle centred on Position.
type Pad struct {
	ID        ItemID
	Footprint string // reference designator of the owning footprint
	Number    string
	Position  geom.Point
	Width     int
	Height    int
	Layers    LayerMask
	Net       NetCode
}

// Name returns "REF-NUMBER", e.g. "R1-2".
func (p *Pad) Name() string {
	if p.Footprint == "" {
		return p.Number
	}
	return p.Footprint + "-" + p.Number
}

// Bounds returns the copper rectangle of the pad.
func (p *Pad) Bounds() geom.Rect {
	return geom.RectAround(p.Position, p.Width, p.Height)
}

// Contains reports whether pt lies on the pad.
func (p *Pad) Contains(pt geom.Point) bool {
	return p.Bounds().Contains(pt)
}

// Track is a straight copper segment on one layer.
type Track struct {
	ID          ItemID
	Start       geom.Point
	End         geom.Point
	Layer       LayerID
	Width       int
	Net         NetCode
	StartAnchor Anchor
	EndAnchor   Anchor
	Flags       Flags
}

// Seg returns the geometry of the track.
func (t *Track) Seg() geom.Segment {
	return geom.Segment{Start: t.Start, End: t.End}
}

// IsNull reports whether the track has zero length.
func (t *Track) IsNull() bool {
	return t.Start == t.End
}

// Clone returns a copy of t. The copy keeps t's ID; callers that add it
// to a board assign a fresh one.
func (t *Track) Clone() *Track {
	c := *t
	return &c
}

// Point returns the coordinates of one end.
func (t *Track) Point(e EndPoint) geom.Point {
	if e == AtStart {
		return t.Start
	}
	return t.End
}

// Anchor returns the anchor of one end.
func (t *Track) Anchor(e EndPoint) Anchor {
	if e == AtStart {
		return t.StartAnchor
	}
	return t.EndAnchor
}

// SetAnchor sets the anchor of one end.
func (t *Track) SetAnchor(e EndPoint, a Anchor) {
	if e == AtStart {
		t.StartAnchor = a
	} else {
		t.EndAnchor = a
	}
}

// Has reports whether all bits of f are set.
func (t *Track) Has(f Flags) bool {
	return t.Flags&f == f
}

// Set sets the bits of f.
func (t *Track) Set(f Flags) {
	t.Flags |= f
}

// Clear clears the bits of f.
func (t *Track) Clear(f Flags) {
	t.Flags &^= f
}

// OnPadFlag returns the pad flag matching one end.
func OnPadFlag(e EndPoint) Flags {
	if e == AtStart {
		return FlagBeginOnPad
	}
	return FlagEndOnPad
}

func (t *Track) String() string {
	return fmt.Sprintf("track#%d %v-%v L%d w%d net%d", t.ID, t.Start, t.End, t.Layer, t.Width, t.Net)
}

// Zone is a copper zone; only its filled polygons matter for routing.
type Zone struct {
	ID    ItemID
	Net   NetCode
	Layer LayerID
	Fills [][]geom.Point
}

// Contains reports whether p lies inside one of the zone's fills.
func (z *Zone) Contains(p geom.Point) bool {
	for _, poly := range z.Fills {
		if geom.PolygonContains(poly, p) {
			return true
		}
	}
	return false
}
