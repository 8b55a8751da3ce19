package router

import (
	"fmt"
	"slices"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/board"
)

// SegmentList is the ordered sequence of segments of a route in progress.
// Segments are addressed by index; removal compacts the backing slice.
type SegmentList struct {
	segs []*board.Track
}

// Len returns the number of segments.
func (l *SegmentList) Len() int {
	return len(l.segs)
}

// At returns segment i.
func (l *SegmentList) At(i int) *board.Track {
	return l.segs[i]
}

// First returns the first segment, or nil.
func (l *SegmentList) First() *board.Track {
	if len(l.segs) == 0 {
		return nil
	}
	return l.segs[0]
}

// Last returns the tail segment, or nil.
func (l *SegmentList) Last() *board.Track {
	if len(l.segs) == 0 {
		return nil
	}
	return l.segs[len(l.segs)-1]
}

// Prev returns the segment before the tail, or nil.
func (l *SegmentList) Prev() *board.Track {
	if len(l.segs) < 2 {
		return nil
	}
	return l.segs[len(l.segs)-2]
}

// PushBack appends t.
func (l *SegmentList) PushBack(t *board.Track) {
	l.segs = append(l.segs, t)
}

// Insert places t at index i.
func (l *SegmentList) Insert(i int, t *board.Track) {
	l.segs = slices.Insert(l.segs, i, t)
}

// Remove deletes and returns segment i.
func (l *SegmentList) Remove(i int) *board.Track {
	t := l.segs[i]
	l.segs = slices.Delete(l.segs, i, i+1)
	return t
}

// PopFront removes and returns the first segment, or nil.
func (l *SegmentList) PopFront() *board.Track {
	if len(l.segs) == 0 {
		return nil
	}
	return l.Remove(0)
}

// Compact keeps the segments for which keep returns true, in order, and
// returns how many were dropped.
func (l *SegmentList) Compact(keep func(*board.Track) bool) int {
	n := len(l.segs)
	l.segs = slices.DeleteFunc(l.segs, func(t *board.Track) bool { return !keep(t) })
	return n - len(l.segs)
}

// Relink rewrites the anchors between neighbours so each joint references
// the adjacent segments, clears pad flags and gives the first segment the
// start anchor first.
func (l *SegmentList) Relink(first board.Anchor) {
	for i, t := range l.segs {
		t.Clear(board.FlagBeginOnPad | board.FlagEndOnPad)
		t.StartAnchor = board.NoAnchor
		t.EndAnchor = board.NoAnchor
		if i > 0 {
			t.StartAnchor = board.TrackAnchor(l.segs[i-1].ID)
		}
		if i+1 < len(l.segs) {
			t.EndAnchor = board.TrackAnchor(l.segs[i+1].ID)
		}
	}
	if len(l.segs) > 0 {
		l.segs[0].StartAnchor = first
	}
}

// Verify checks that consecutive segments share their joint and reference
// each other, or both reference the same pad.
func (l *SegmentList) Verify() error {
	for i := 1; i < len(l.segs); i++ {
		prev, cur := l.segs[i-1], l.segs[i]
		if prev.End != cur.Start {
			return fmt.Errorf("segment %d ends at %v but segment %d starts at %v", i-1, prev.End, i, cur.Start)
		}
		linked := prev.EndAnchor == board.TrackAnchor(cur.ID) && cur.StartAnchor == board.TrackAnchor(prev.ID)
		onPad := prev.EndAnchor.Kind == board.AnchorPad && prev.EndAnchor == cur.StartAnchor
		if !linked && !onPad {
			return fmt.Errorf("segments %d and %d are not linked: %v / %v", i-1, i, prev.EndAnchor, cur.StartAnchor)
		}
	}
	return nil
}

// Segments returns value copies of the segments.
func (l *SegmentList) Segments() []board.Track {
	out := make([]board.Track, len(l.segs))
	for i, t := range l.segs {
		out[i] = *t
	}
	return out
}

// Clear drops every segment.
func (l *SegmentList) Clear() {
	l.segs = nil
}

// indexOf returns the position of t, or -1.
func (l *SegmentList) indexOf(t *board.Track) int {
	return slices.Index(l.segs, t)
}
