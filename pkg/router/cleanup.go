package router

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/board"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
)

// ensureEndOnPad makes the route end on the centre of pad, appending a
// segment from the tail end when the tail is not null.
func (r *Router) ensureEndOnPad(pad *board.Pad) {
	l := &r.session.list
	tail := l.Last()

	if tail.End != pad.Position && !tail.IsNull() {
		bridge := tail.Clone()
		bridge.ID = r.board.AllocID()
		bridge.Flags = board.FlagNew
		bridge.Start = tail.End
		bridge.StartAnchor = board.TrackAnchor(tail.ID)
		tail.EndAnchor = board.TrackAnchor(bridge.ID)
		l.PushBack(bridge)
		tail = bridge
	}

	tail.End = pad.Position
	tail.EndAnchor = board.PadAnchor(pad.ID)
	tail.Set(board.FlagEndOnPad)
}

// DeleteNullSegments removes zero length segments from l and relinks the
// survivors. The start anchor of the original first segment is kept, and
// every joint or end lying on a pad of b is anchored to that pad. Running
// it twice changes nothing.
func DeleteNullSegments(b *board.Board, l *SegmentList) int {
	if l.Len() == 0 {
		return 0
	}

	start := l.First().StartAnchor
	removed := l.Compact(func(t *board.Track) bool { return !t.IsNull() })
	if l.Len() == 0 {
		return removed
	}

	l.Relink(start)
	if start.Kind == board.AnchorPad {
		l.First().Set(board.FlagBeginOnPad)
	}

	for i := 0; i < l.Len(); i++ {
		t := l.At(i)
		pad := b.PadOnTrackEnd(t, board.AtEnd)
		if pad == nil {
			continue
		}
		t.EndAnchor = board.PadAnchor(pad.ID)
		t.Set(board.FlagEndOnPad)
		if i+1 < l.Len() {
			next := l.At(i + 1)
			next.StartAnchor = board.PadAnchor(pad.ID)
			next.Set(board.FlagBeginOnPad)
		}
	}
	return removed
}

// finish cleans the route up and commits it.
func (r *Router) finish() (*Result, error) {
	s := r.session
	b := r.board

	DeleteNullSegments(b, &s.list)
	if err := s.list.Verify(); err != nil {
		return nil, r.fail("commit", err)
	}

	res := &Result{Net: s.net}
	if s.list.Len() == 0 {
		// Nothing to commit: drop the connection points made for it too.
		if err := r.discard(); err != nil {
			return nil, &InvariantError{Op: "commit", Err: err}
		}
		r.log.Debugf("route ended without segments")
		return res, nil
	}

	net := s.list.First().Net
	res.Net = net
	idx := b.BestInsertIndex(net)
	for t := s.list.PopFront(); t != nil; t = s.list.PopFront() {
		if err := b.InsertTrack(idx, t); err != nil {
			return nil, r.fail("commit", fmt.Errorf("failed to insert %v: %w", t, err))
		}
		idx++
		s.pending.Record(board.UndoNew, t)
		t.Clear(board.FlagNew | board.FlagBusy)
		res.Committed = append(res.Committed, t)
	}

	if r.settings.AutoDeleteOldTrack && s.startTrack != nil {
		res.Erased = r.eraseRedundant(res.Committed)
	}

	r.history.Push("route", s.pending.Entries())
	s.pending.Clear()
	r.conn.Recompute(net)

	b.PopHighlight()
	r.session = nil
	r.log.Infof("committed %d segments on net %d, erased %d", len(res.Committed), net, len(res.Erased))
	return res, nil
}

// fail aborts the session after an invariant violation.
func (r *Router) fail(op string, err error) error {
	if rerr := r.discard(); rerr != nil {
		err = fmt.Errorf("%w (revert failed: %v)", err, rerr)
	}
	return r.log.ReturnErrorf("%w", &InvariantError{Op: op, Err: err})
}

// eraseRedundant deletes the old tracks that connected the two ends of
// the new route: the chain of same-net tracks between them, walked from
// joint to joint without passing pads or branches.
func (r *Router) eraseRedundant(route []*board.Track) []*board.Track {
	b := r.board
	from := route[0].Start
	to := route[len(route)-1].End
	layer := route[0].Layer
	if from == to {
		return nil
	}

	fresh := make(map[board.ItemID]bool, len(route))
	for _, t := range route {
		fresh[t.ID] = true
	}
	adj := make(map[geom.Point][]*board.Track)
	for _, t := range b.NetTracks(route[0].Net) {
		if fresh[t.ID] || t.Layer != layer || t.IsNull() {
			continue
		}
		adj[t.Start] = append(adj[t.Start], t)
		adj[t.End] = append(adj[t.End], t)
	}
	if len(adj[from]) == 0 || len(adj[to]) == 0 {
		return nil
	}

	mask := board.MaskOf(layer)
	passable := func(p geom.Point) bool {
		return len(adj[p]) == 2 && b.PadAt(p, mask) == nil
	}

	// Breadth-first search over joints, remembering the track used to reach
	// each one.
	via := map[geom.Point]*board.Track{from: nil}
	queue := []geom.Point{from}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p == to {
			break
		}
		if p != from && !passable(p) {
			continue
		}
		for _, t := range adj[p] {
			q := t.End
			if q == p {
				q = t.Start
			}
			if _, seen := via[q]; seen {
				continue
			}
			via[q] = t
			queue = append(queue, q)
		}
	}
	if _, ok := via[to]; !ok {
		return nil
	}

	var erased []*board.Track
	for p := to; p != from; {
		t := via[p]
		erased = append(erased, t)
		if t.End == p {
			p = t.Start
		} else {
			p = t.End
		}
	}

	for _, t := range erased {
		r.session.pending.Record(board.UndoDeleted, t)
		t.Set(board.FlagDeleted)
		if _, err := b.RemoveTrack(t.ID); err != nil {
			r.log.Warnf("failed to erase redundant %v: %v", t, err)
		}
	}
	r.log.Debugf("erased %d redundant tracks between %v and %v", len(erased), from, to)
	return erased
}
