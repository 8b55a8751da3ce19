package router

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/board"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/drc"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
)

// Begin starts a route at p on the active layer. A pad under p moves the
// start to the pad centre and gives the route the pad's net; a track under
// p gets a connection point at p and gives its net; otherwise a filled
// zone under p gives its net.
func (r *Router) Begin(p geom.Point) error {
	if r.session != nil {
		return fmt.Errorf("failed to begin route at %v: %w", p, ErrSessionActive)
	}

	b := r.board
	s := &Session{pending: board.NewPickedList(b)}

	b.PushHighlight()
	b.SetHighlightNet(0)

	first := &board.Track{Layer: r.layer, Flags: board.FlagNew}

	lp := b.LockPointAt(p, board.MaskOf(r.layer))
	switch {
	case lp.Pad != nil:
		p = lp.Pad.Position
		s.net = lp.Pad.Net
		first.StartAnchor = board.PadAnchor(lp.Pad.ID)
		first.Set(board.FlagBeginOnPad)
	case lp.Track != nil:
		s.net = lp.Track.Net
		s.startTrack = lp.Track
		p = b.CreateConnectionPoint(p, lp.Track, s.pending)
		first.StartAnchor = board.TrackAnchor(lp.Track.ID)
	default:
		if z, ok := b.FilledRegionAt(p, r.layer); ok {
			s.net = z.Net
		}
	}
	b.SetHighlightNet(s.net)

	first.ID = b.AllocID()
	first.Net = s.net
	first.Start, first.End = p, p
	first.Width = r.currentWidth(s.net)
	if r.settings.UseConnectedTrackWidth && s.startTrack != nil {
		first.Width = s.startTrack.Width
	}
	s.list.PushBack(first)

	if r.settings.UseTwoSegmentTracks {
		second := first.Clone()
		second.ID = b.AllocID()
		second.Clear(board.FlagBeginOnPad | board.FlagEndOnPad)
		second.StartAnchor = board.TrackAnchor(first.ID)
		first.EndAnchor = board.TrackAnchor(second.ID)
		s.list.PushBack(second)
	}

	r.session = s
	r.log.Debugf("route started at %v on %v, net %d", p, lp, s.net)

	if v := r.check(first); !v.OK() {
		r.log.Warnf("route starts in a DRC violation: %v", v.Violations)
	}
	return nil
}

// Move updates the route for a new cursor position and returns the tail.
// It never refuses: DRC only decides when segments are fixed.
func (r *Router) Move(cursor geom.Point) (board.Track, error) {
	if r.session == nil {
		return board.Track{}, fmt.Errorf("failed to move to %v: %w", cursor, ErrNoSession)
	}
	r.update(cursor)
	return *r.session.list.Last(), nil
}

// Extend fixes the tail at cursor and starts a new tail from its end. It
// returns false, leaving the route untouched, when the DRC gate refuses
// the tail (or, in two segment mode, the segment before it).
func (r *Router) Extend(cursor geom.Point) (bool, error) {
	if r.session == nil {
		return false, fmt.Errorf("failed to extend to %v: %w", cursor, ErrNoSession)
	}

	saved := r.save()
	r.update(cursor)
	if v := r.gateTail(); !v.OK() {
		saved.restore()
		r.log.Debugf("extend to %v refused: %v", cursor, v.Violations)
		return false, nil
	}

	r.grow()
	return true, nil
}

// InsertCorner replaces the right angle between the last two segments
// with a 45 degree segment. It returns false when the corner is not a
// right angle, a leg is too short or the DRC gate refuses the new segment.
func (r *Router) InsertCorner() (bool, error) {
	if r.session == nil {
		return false, fmt.Errorf("failed to insert corner: %w", ErrNoSession)
	}
	return r.insertCorner(), nil
}

// End moves the tail to p, resolves what p lands on and commits the route.
// When the DRC gate refuses the tail the route stays open and the result
// is marked Refused.
func (r *Router) End(p geom.Point) (*Result, error) {
	if r.session == nil {
		return nil, fmt.Errorf("failed to end route at %v: %w", p, ErrNoSession)
	}
	s := r.session
	b := r.board

	saved := r.save()
	r.update(p)
	if v := r.gateTail(); !v.OK() {
		saved.restore()
		r.log.Debugf("end at %v refused: %v", p, v.Violations)
		return &Result{Net: s.net, Refused: true, Violations: v.Violations}, nil
	}

	pos := s.list.Last().End
	r.grow()

	lp := b.LockPointAt(pos, board.MaskOf(r.layer))
	switch {
	case lp.Pad != nil:
		r.ensureEndOnPad(lp.Pad)
	case lp.Track != nil && lp.Track.Net == s.net:
		tail := s.list.Last()
		tail.End = b.CreateConnectionPoint(tail.End, lp.Track, s.pending)
	}

	return r.finish()
}

// Abort discards the route in progress and reverts the connection points
// it created, leaving the board as it was before Begin.
func (r *Router) Abort() error {
	if r.session == nil {
		return fmt.Errorf("failed to abort route: %w", ErrNoSession)
	}
	err := r.discard()
	r.log.Debugf("route aborted")
	if err != nil {
		return &InvariantError{Op: "abort", Err: err}
	}
	return nil
}

// discard reverts pending changes and closes the session.
func (r *Router) discard() error {
	s := r.session
	err := s.pending.Revert()
	s.list.Clear()
	r.board.PopHighlight()
	r.session = nil
	return err
}

// update recomputes the tail, and the segment before it in two segment
// mode, for the cursor position.
func (r *Router) update(cursor geom.Point) {
	s := r.session
	tail := s.list.Last()
	prev := s.list.Prev()

	tail.Layer = r.layer
	if !r.settings.UseConnectedTrackWidth {
		tail.Width = r.currentWidth(s.net)
	}
	if r.settings.UseTwoSegmentTracks && prev != nil {
		prev.Layer = r.layer
		if !r.settings.UseConnectedTrackWidth {
			prev.Width = r.currentWidth(s.net)
		}
	}

	switch {
	case r.settings.Use45DegreeTracks && r.settings.UseTwoSegmentTracks:
		end := cursor
		if r.settings.DRC {
			end = r.push(tail, cursor)
		}
		r.breakPoint(end)
	case r.settings.Use45DegreeTracks:
		tail.End = geom.SnapEndpoint(cursor, tail.Start)
	default:
		tail.End = cursor
		if r.settings.DRC {
			tail.End = r.push(tail, cursor)
		}
	}
}

// breakPoint places the joint between the segment before the tail and the
// tail so that the tail ends at end.
func (r *Router) breakPoint(end geom.Point) {
	l := &r.session.list
	tail := l.Last()
	prev := l.Prev()
	if prev == nil {
		tail.End = end
		return
	}

	var prevPrev *geom.Segment
	if n := l.Len(); n >= 3 {
		seg := l.At(n - 3).Seg()
		prevPrev = &seg
	}

	joint := geom.BreakPoint(prev.Start, end, prevPrev, r.alternate)
	prev.End = joint
	tail.Start = joint
	tail.End = end
}

// gateTail checks the tail and, in two segment mode, the segment before it.
func (r *Router) gateTail() drc.Verdict {
	l := &r.session.list
	if r.settings.UseTwoSegmentTracks {
		return r.check(l.Last(), l.Prev())
	}
	return r.check(l.Last())
}

// grow appends a new tail unless the current one (or, in two segment
// mode, both of the last two) is null.
func (r *Router) grow() {
	s := r.session
	tail := s.list.Last()
	prev := s.list.Prev()

	if tail.IsNull() {
		if !r.settings.UseTwoSegmentTracks || (prev != nil && prev.IsNull()) {
			return
		}
	}

	if r.settings.AutoCorner45 {
		r.insertCorner()
		tail = s.list.Last()
	}

	next := tail.Clone()
	next.ID = r.board.AllocID()
	next.Flags = board.FlagNew
	next.Start = tail.End
	next.StartAnchor = board.TrackAnchor(tail.ID)
	next.EndAnchor = board.NoAnchor
	next.Layer = r.layer
	if !r.settings.UseConnectedTrackWidth {
		next.Width = r.currentWidth(s.net)
	}
	tail.EndAnchor = board.TrackAnchor(next.ID)
	s.list.PushBack(next)
}

// insertCorner chamfers the corner between the last two segments.
func (r *Router) insertCorner() bool {
	l := &r.session.list
	cur := l.Last()
	prev := l.Prev()
	if prev == nil {
		return false
	}

	step := geom.CornerStep(r.settings.GridSize, cur.Width)
	bridge, ok := geom.Chamfer(prev.Seg(), cur.Seg(), step)
	if !ok {
		return false
	}

	corner := cur.Clone()
	corner.ID = r.board.AllocID()
	corner.Flags = board.FlagNew
	corner.Start, corner.End = bridge.Start, bridge.End
	if v := r.check(corner); !v.OK() {
		r.log.Debugf("corner %v refused: %v", bridge, v.Violations)
		return false
	}

	prev.End = bridge.Start
	cur.Start = bridge.End
	corner.StartAnchor = board.TrackAnchor(prev.ID)
	corner.EndAnchor = board.TrackAnchor(cur.ID)
	prev.EndAnchor = board.TrackAnchor(corner.ID)
	cur.StartAnchor = board.TrackAnchor(corner.ID)
	l.Insert(l.indexOf(cur), corner)
	return true
}

// tailState holds copies of the segments update may change.
type tailState struct {
	tail, prev           *board.Track
	tailSaved, prevSaved board.Track
}

func (r *Router) save() tailState {
	l := &r.session.list
	st := tailState{tail: l.Last(), prev: l.Prev()}
	st.tailSaved = *st.tail
	if st.prev != nil {
		st.prevSaved = *st.prev
	}
	return st
}

func (st tailState) restore() {
	*st.tail = st.tailSaved
	if st.prev != nil {
		*st.prev = st.prevSaved
	}
}
