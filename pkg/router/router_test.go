package router

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/board"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/drc"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
)

func TestStraightRouteOnEmptyBoard(t *testing.T) {
	b := testBoard()
	rec := &recorder{}
	r := newRouter(t, b, testSettings(), WithConnectivity(rec))

	require.NoError(t, r.Begin(pt(0, 0)))
	assert.Equal(t, Routing, r.State())

	ok, err := r.Extend(pt(100, 0))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, geom.Seg(pt(0, 0), pt(100, 0)), r.Segments()[0].Seg())

	res, err := r.End(pt(100, 0))
	require.NoError(t, err)
	require.Len(t, res.Committed, 1)
	assert.Equal(t, board.NetCode(0), res.Net)
	assert.Equal(t, geom.Seg(pt(0, 0), pt(100, 0)), res.Committed[0].Seg())
	assert.False(t, res.Committed[0].Has(board.FlagNew))

	assert.Equal(t, Idle, r.State())
	assert.Equal(t, 1, b.TrackCount())
	assert.Equal(t, 1, r.History().Len())
	assert.Equal(t, []board.NetCode{0}, rec.nets)
}

func TestDegenerateEndCommitsNothing(t *testing.T) {
	b := testBoard()
	rec := &recorder{}
	r := newRouter(t, b, testSettings(), WithConnectivity(rec))

	require.NoError(t, r.Begin(pt(5, 5)))
	res, err := r.End(pt(5, 5))
	require.NoError(t, err)

	assert.Empty(t, res.Committed)
	assert.False(t, res.Refused)
	assert.Empty(t, rec.nets, "connectivity must not be touched")
	assert.Zero(t, b.TrackCount())
	assert.Zero(t, r.History().Len())
	assert.Equal(t, Idle, r.State())
}

func TestDegenerateEndOnTrackRevertsSplit(t *testing.T) {
	b := testBoard()
	b.AddTrack(seg(1, 0, 0, 200, 0, 5))
	before := b.Snapshot()
	r := newRouter(t, b, testSettings())

	require.NoError(t, r.Begin(pt(100, 0)))
	assert.Equal(t, 2, b.TrackCount(), "begin splits the track")

	res, err := r.End(pt(100, 0))
	require.NoError(t, err)
	assert.Empty(t, res.Committed)
	assert.Empty(t, cmp.Diff(before, b.Snapshot()))
}

func TestInsertCornerScenario(t *testing.T) {
	b := testBoard()
	r := newRouter(t, b, testSettings())

	require.NoError(t, r.Begin(pt(0, 0)))
	ok, err := r.Extend(pt(0, 100))
	require.NoError(t, err)
	require.True(t, ok)

	tail, err := r.Move(pt(100, 100))
	require.NoError(t, err)
	require.Equal(t, geom.Seg(pt(0, 100), pt(100, 100)), tail.Seg())

	ok, err = r.InsertCorner()
	require.NoError(t, err)
	require.True(t, ok)

	want := []geom.Segment{
		geom.Seg(pt(0, 0), pt(0, 90)),
		geom.Seg(pt(0, 90), pt(10, 100)),
		geom.Seg(pt(10, 100), pt(100, 100)),
	}
	assert.Equal(t, want, geometry(r.Segments()))
	assert.Equal(t, 3, r.SegmentCount())

	res, err := r.End(pt(100, 100))
	require.NoError(t, err)
	require.Len(t, res.Committed, 3)
	for _, c := range res.Committed {
		assert.Equal(t, 5, c.Width)
	}
}

func TestInsertCornerDeclined(t *testing.T) {
	b := testBoard()
	r := newRouter(t, b, testSettings())

	require.NoError(t, r.Begin(pt(0, 0)))
	ok, err := r.InsertCorner()
	require.NoError(t, err)
	assert.False(t, ok, "a single segment has no corner")

	_, err = r.Extend(pt(0, 15))
	require.NoError(t, err)
	_, err = r.Move(pt(100, 15))
	require.NoError(t, err)
	ok, err = r.InsertCorner()
	require.NoError(t, err)
	assert.False(t, ok, "legs shorter than twice the step")
	assert.Equal(t, 2, r.SegmentCount())
}

func TestAutoCornerOnExtend(t *testing.T) {
	s := testSettings()
	s.AutoCorner45 = true
	r := newRouter(t, testBoard(), s)

	require.NoError(t, r.Begin(pt(0, 0)))
	_, err := r.Extend(pt(0, 100))
	require.NoError(t, err)
	_, err = r.Extend(pt(100, 100))
	require.NoError(t, err)

	want := []geom.Segment{
		geom.Seg(pt(0, 0), pt(0, 90)),
		geom.Seg(pt(0, 90), pt(10, 100)),
		geom.Seg(pt(10, 100), pt(100, 100)),
		geom.Seg(pt(100, 100), pt(100, 100)),
	}
	assert.Equal(t, want, geometry(r.Segments()))
}

func TestAbortRestoresBoardAndHistory(t *testing.T) {
	b := testBoard()
	b.AddNet(1, "A", "")
	b.AddTrack(seg(1, 0, 0, 200, 0, 5))
	b.AddTrack(seg(1, 200, 0, 200, 200, 5))
	b.SetHighlightNet(7)
	before := b.Snapshot()

	rec := &recorder{}
	r := newRouter(t, b, testSettings(), WithConnectivity(rec))

	require.NoError(t, r.Begin(pt(100, 0)))
	assert.Equal(t, board.NetCode(1), r.Net())
	assert.Equal(t, board.NetCode(1), b.HighlightNet())

	_, err := r.Extend(pt(100, 100))
	require.NoError(t, err)
	_, err = r.Move(pt(180, 100))
	require.NoError(t, err)
	_, err = r.InsertCorner()
	require.NoError(t, err)
	_, err = r.Extend(pt(180, 100))
	require.NoError(t, err)

	require.NoError(t, r.Abort())

	assert.Empty(t, cmp.Diff(before, b.Snapshot()))
	assert.Zero(t, r.History().Len())
	assert.Empty(t, rec.nets)
	assert.Equal(t, board.NetCode(7), b.HighlightNet())
	assert.Equal(t, Idle, r.State())
	assert.Zero(t, r.SegmentCount())
	assert.Nil(t, r.Segments())

	require.NoError(t, r.Begin(pt(0, 50)), "router must be reusable after abort")
}

func TestSessionErrors(t *testing.T) {
	r := newRouter(t, testBoard(), testSettings())

	_, err := r.Extend(pt(1, 1))
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = r.Move(pt(1, 1))
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = r.End(pt(1, 1))
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = r.InsertCorner()
	assert.ErrorIs(t, err, ErrNoSession)
	assert.ErrorIs(t, r.Abort(), ErrNoSession)

	require.NoError(t, r.Begin(pt(0, 0)))
	assert.ErrorIs(t, r.Begin(pt(0, 0)), ErrSessionActive)
}

func TestEndOnPad(t *testing.T) {
	b := testBoard()
	b.AddNet(2, "SIG", "")
	p1 := b.AddPad(&board.Pad{Footprint: "U1", Number: "1", Position: pt(0, 0), Width: 20, Height: 20, Layers: board.MaskOf(0), Net: 2})
	p2 := b.AddPad(&board.Pad{Footprint: "U1", Number: "2", Position: pt(100, 0), Width: 20, Height: 20, Layers: board.MaskOf(0), Net: 2})
	conn := board.NewConnectivity(b)
	r := newRouter(t, b, testSettings(), WithConnectivity(conn))

	require.NoError(t, r.Begin(pt(3, 2)))
	assert.Equal(t, board.NetCode(2), r.Net())
	first := r.Segments()[0]
	assert.Equal(t, pt(0, 0), first.Start, "start snaps to the pad centre")

	_, err := r.Extend(pt(60, 0))
	require.NoError(t, err)
	res, err := r.End(pt(100, 0))
	require.NoError(t, err)
	require.Len(t, res.Committed, 2)
	assert.Equal(t, board.NetCode(2), res.Net)

	head, last := res.Committed[0], res.Committed[1]
	assert.Equal(t, board.PadAnchor(p1.ID), head.StartAnchor)
	assert.True(t, head.Has(board.FlagBeginOnPad))
	assert.Equal(t, pt(100, 0), last.End)
	assert.Equal(t, board.PadAnchor(p2.ID), last.EndAnchor)
	assert.True(t, last.Has(board.FlagEndOnPad))

	status, ok := conn.Status(2)
	require.True(t, ok)
	assert.True(t, status.Routed())
}

func TestEnsureEndOnPadBridges(t *testing.T) {
	b := testBoard()
	pad := b.AddPad(&board.Pad{Number: "1", Position: pt(100, 0), Width: 40, Height: 40, Layers: board.MaskOf(0)})
	r := newRouter(t, b, testSettings())

	require.NoError(t, r.Begin(pt(0, 0)))
	_, err := r.Move(pt(90, 0))
	require.NoError(t, err)
	r.ensureEndOnPad(pad)

	want := []geom.Segment{
		geom.Seg(pt(0, 0), pt(90, 0)),
		geom.Seg(pt(90, 0), pt(100, 0)),
	}
	assert.Equal(t, want, geometry(r.Segments()))
	assert.NoError(t, r.session.list.Verify())
}

func TestDRCRefusesExtendAndEnd(t *testing.T) {
	b := testBoard()
	b.AddNet(2, "B", "")
	b.AddTrack(seg(2, -100, 50, 200, 50, 5))
	s := testSettings()
	s.DRC = true
	r := newRouter(t, b, s)

	require.NoError(t, r.Begin(pt(0, 0)))

	ok, err := r.Extend(pt(0, 100))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, r.SegmentCount())
	tail, _ := r.Tail()
	assert.True(t, tail.IsNull(), "refused extend must leave the tail as it was")

	res, err := r.End(pt(0, 100))
	require.NoError(t, err)
	assert.True(t, res.Refused)
	require.NotEmpty(t, res.Violations)
	assert.Equal(t, drc.TrackClearance, res.Violations[0].Kind)
	assert.Equal(t, Routing, r.State())

	ok, err = r.Extend(pt(100, 0))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDRCGateOptional(t *testing.T) {
	b := testBoard()
	b.AddTrack(seg(2, -100, 50, 200, 50, 5))
	s := testSettings()
	s.DRC = true
	r := newRouter(t, b, s, WithGate(drc.Disabled{}))

	require.NoError(t, r.Begin(pt(0, 0)))
	ok, err := r.Extend(pt(0, 100))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTwoSegmentMode(t *testing.T) {
	s := testSettings()
	s.UseTwoSegmentTracks = true
	r := newRouter(t, testBoard(), s)

	require.NoError(t, r.Begin(pt(0, 0)))
	require.Equal(t, 2, r.SegmentCount())

	_, err := r.Move(pt(100, 30))
	require.NoError(t, err)
	assert.Equal(t, []geom.Segment{
		geom.Seg(pt(0, 0), pt(70, 0)),
		geom.Seg(pt(70, 0), pt(100, 30)),
	}, geometry(r.Segments()))

	r.ToggleAlternatePosture()
	_, err = r.Move(pt(100, 30))
	require.NoError(t, err)
	assert.Equal(t, []geom.Segment{
		geom.Seg(pt(0, 0), pt(30, 30)),
		geom.Seg(pt(30, 30), pt(100, 30)),
	}, geometry(r.Segments()))
	r.ToggleAlternatePosture()

	ok, err := r.Extend(pt(100, 30))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, r.SegmentCount())

	res, err := r.End(pt(100, 30))
	require.NoError(t, err)
	assert.Equal(t, []geom.Segment{
		geom.Seg(pt(0, 0), pt(70, 0)),
		geom.Seg(pt(70, 0), pt(100, 30)),
	}, committedGeometry(res))
}

func TestLayerAndWidthChanges(t *testing.T) {
	b := testBoard()
	r := newRouter(t, b, testSettings())

	require.NoError(t, r.Begin(pt(0, 0)))
	require.NoError(t, r.SetWidth(8))
	r.SetLayer(31)
	tail, err := r.Move(pt(50, 0))
	require.NoError(t, err)
	assert.Equal(t, 8, tail.Width)
	assert.Equal(t, board.LayerID(31), tail.Layer)
	assert.Equal(t, board.LayerID(31), r.Layer())

	assert.Error(t, r.SetWidth(-1))
}

func TestConnectedTrackWidth(t *testing.T) {
	b := testBoard()
	b.AddTrack(seg(1, 0, 0, 200, 0, 30))
	s := testSettings()
	s.UseConnectedTrackWidth = true
	r := newRouter(t, b, s)

	require.NoError(t, r.Begin(pt(200, 0)))
	_, err := r.Extend(pt(200, 100))
	require.NoError(t, err)
	for _, tr := range r.Segments() {
		assert.Equal(t, 30, tr.Width)
	}
}

func TestBeginInZone(t *testing.T) {
	b := testBoard()
	b.AddZone(&board.Zone{Net: 4, Layer: 0, Fills: [][]geom.Point{{pt(-50, -50), pt(50, -50), pt(50, 50), pt(-50, 50)}}})
	r := newRouter(t, b, testSettings())

	require.NoError(t, r.Begin(pt(0, 0)))
	assert.Equal(t, board.NetCode(4), r.Net())
	tail, ok := r.Tail()
	require.True(t, ok)
	assert.Equal(t, board.NetCode(4), tail.Net)
}

func TestRedundantTrackErased(t *testing.T) {
	b := testBoard()
	b.AddNet(1, "A", "")
	p1 := b.AddPad(&board.Pad{Number: "1", Position: pt(0, 0), Width: 20, Height: 20, Layers: board.MaskOf(0), Net: 1})
	p2 := b.AddPad(&board.Pad{Number: "2", Position: pt(200, 100), Width: 20, Height: 20, Layers: board.MaskOf(0), Net: 1})
	b.AddTrack(seg(1, 0, 0, 100, 0, 10))
	b.AddTrack(seg(1, 100, 0, 100, 100, 10))
	b.AddTrack(seg(1, 100, 100, 200, 100, 10))
	before := b.Snapshot()

	s := testSettings()
	s.AutoDeleteOldTrack = true
	conn := board.NewConnectivity(b)
	r := newRouter(t, b, s, WithConnectivity(conn))

	require.NoError(t, r.Begin(pt(50, 0)))
	_, err := r.Extend(pt(50, 100))
	require.NoError(t, err)
	res, err := r.End(pt(150, 100))
	require.NoError(t, err)

	require.Len(t, res.Committed, 2)
	require.Len(t, res.Erased, 3)
	assert.Equal(t, []geom.Segment{
		geom.Seg(pt(0, 0), pt(50, 0)),
		geom.Seg(pt(150, 100), pt(200, 100)),
		geom.Seg(pt(50, 0), pt(50, 100)),
		geom.Seg(pt(50, 100), pt(150, 100)),
	}, geometry(b.Snapshot()))

	status, ok := conn.Status(1)
	require.True(t, ok)
	assert.True(t, status.Routed(), "pads %s and %s must stay connected", p1.Name(), p2.Name())

	_, err = r.History().Undo(b)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(before, b.Snapshot()))
}

func TestCommitFailureIsInvariantError(t *testing.T) {
	b := testBoard()
	existing := b.AddTrack(seg(3, 500, 500, 600, 500, 5))
	before := b.Snapshot()
	r := newRouter(t, b, testSettings())

	require.NoError(t, r.Begin(pt(0, 0)))
	_, err := r.Extend(pt(100, 0))
	require.NoError(t, err)
	r.session.list.First().ID = existing.ID

	_, err = r.End(pt(100, 0))
	var inv *InvariantError
	require.True(t, errors.As(err, &inv), "got %v", err)
	assert.Equal(t, "commit", inv.Op)
	assert.Equal(t, Idle, r.State())
	assert.Empty(t, cmp.Diff(before, b.Snapshot()))
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	s := testSettings()
	s.GridSize = 0
	_, err := New(testBoard(), s)
	assert.Error(t, err)
}

func committedGeometry(res *Result) []geom.Segment {
	out := make([]geom.Segment, len(res.Committed))
	for i, t := range res.Committed {
		out[i] = t.Seg()
	}
	return out
}
