// Package drc is the design-rule gate consulted by the router before a
// segment is placed.
package drc

import (
	"fmt"
	"math"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/board"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
)

// ViolationKind tells which rule a candidate broke.
type ViolationKind int

const (
	TrackClearance ViolationKind = iota
	PadClearance
)

func (k ViolationKind) String() string {
	switch k {
	case TrackClearance:
		return "track clearance"
	case PadClearance:
		return "pad clearance"
	default:
		return fmt.Sprintf("ViolationKind(%d)", int(k))
	}
}

// Violation describes one broken rule. Actual is the copper-to-copper gap
// found, Required the clearance that applies.
type Violation struct {
	Kind     ViolationKind
	Obstacle board.ItemID
	Actual   int
	Required int
}

func (v Violation) String() string {
	return fmt.Sprintf("%s with item %d: gap %d < %d", v.Kind, v.Obstacle, v.Actual, v.Required)
}

// Verdict is the result of a check.
type Verdict struct {
	Violations []Violation
}

// OK reports whether the candidate passed.
func (v Verdict) OK() bool {
	return len(v.Violations) == 0
}

// Gate checks a candidate segment against obstacles.
type Gate interface {
	Check(candidate *board.Track, obstacles []*board.Track) Verdict
}

// Disabled is a gate that accepts everything.
type Disabled struct{}

// Check implements Gate.
func (Disabled) Check(*board.Track, []*board.Track) Verdict {
	return Verdict{}
}

// ClearanceChecker enforces net-class clearances between the candidate and
// tracks and pads of other nets on the same layer.
type ClearanceChecker struct {
	Board *board.Board
}

// NewClearanceChecker returns a checker for b.
func NewClearanceChecker(b *board.Board) *ClearanceChecker {
	return &ClearanceChecker{Board: b}
}

// Check implements Gate. Obstacles marked deleted or busy, the candidate
// itself and items of the candidate's net are ignored.
func (c *ClearanceChecker) Check(candidate *board.Track, obstacles []*board.Track) Verdict {
	var v Verdict
	seg := candidate.Seg()

	for _, o := range obstacles {
		if o.ID == candidate.ID || o.Layer != candidate.Layer || o.Net == candidate.Net {
			continue
		}
		if o.Flags&(board.FlagDeleted|board.FlagBusy) != 0 {
			continue
		}
		required := c.Board.Clearance(candidate, o)
		gap := geom.SegmentDistance(seg, o.Seg()) - float64(candidate.Width)/2 - float64(o.Width)/2
		if gap < float64(required) {
			v.Violations = append(v.Violations, Violation{
				Kind:     TrackClearance,
				Obstacle: o.ID,
				Actual:   floorGap(gap),
				Required: required,
			})
		}
	}

	for _, p := range c.Board.Pads {
		if p.Net == candidate.Net || !p.Layers.Has(candidate.Layer) {
			continue
		}
		required := c.Board.NetClearance(candidate.Net, p.Net)
		gap := p.Bounds().DistanceToSegment(seg) - float64(candidate.Width)/2
		if gap < float64(required) {
			v.Violations = append(v.Violations, Violation{
				Kind:     PadClearance,
				Obstacle: p.ID,
				Actual:   floorGap(gap),
				Required: required,
			})
		}
	}

	return v
}

func floorGap(gap float64) int {
	if gap < 0 {
		return 0
	}
	return int(math.Floor(gap))
}
