package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
)

func lockBoard() (*Board, *Pad, *Track) {
	b := New("lock")
	b.AddLayer(0, "F.Cu", "signal")
	b.AddLayer(31, "B.Cu", "signal")
	pad := b.AddPad(&Pad{Number: "1", Footprint: "R1", Position: geom.Pt(0, 0), Width: 20, Height: 20, Layers: MaskOf(0, 31), Net: 1})
	tr := b.AddTrack(track(1, 0, 0, 0, 100, 0, 10))
	return b, pad, tr
}

func TestLockPointAt(t *testing.T) {
	b, pad, tr := lockBoard()
	f := MaskOf(0)

	tests := []struct {
		name      string
		p         geom.Point
		mask      LayerMask
		wantPad   *Pad
		wantTrack *Track
	}{
		{"pad wins over track", geom.Pt(5, 5), f, pad, nil},
		{"pad on back layer", geom.Pt(-5, 0), MaskOf(31), pad, nil},
		{"track body", geom.Pt(50, 4), f, nil, tr},
		{"just outside track", geom.Pt(50, 6), f, nil, nil},
		{"wrong layer", geom.Pt(50, 0), MaskOf(31), nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lp := b.LockPointAt(tt.p, tt.mask)
			if lp.Pad != tt.wantPad || lp.Track != tt.wantTrack {
				t.Errorf("LockPointAt(%v) = %v", tt.p, lp)
			}
		})
	}
}

func TestTrackAtPrefersEndpoint(t *testing.T) {
	b := New("ends")
	body := b.AddTrack(track(1, 0, 0, 50, 200, 50, 10))
	end := b.AddTrack(track(1, 0, 100, 50, 100, 150, 10))

	if got := b.TrackAt(geom.Pt(100, 50), MaskOf(0)); got != end {
		t.Errorf("TrackAt() = %v, want endpoint hit %v", got, end)
	}
	if got := b.TrackAt(geom.Pt(30, 50), MaskOf(0)); got != body {
		t.Errorf("TrackAt() = %v, want body hit %v", got, body)
	}

	end.Set(FlagDeleted)
	if got := b.TrackAt(geom.Pt(100, 150), MaskOf(0)); got != nil {
		t.Errorf("TrackAt() returned deleted track %v", got)
	}
}

func TestPadOnTrackEnd(t *testing.T) {
	b, pad, tr := lockBoard()
	if got := b.PadOnTrackEnd(tr, AtStart); got != pad {
		t.Errorf("PadOnTrackEnd(start) = %v, want %v", got, pad)
	}
	if got := b.PadOnTrackEnd(tr, AtEnd); got != nil {
		t.Errorf("PadOnTrackEnd(end) = %v, want nil", got)
	}
}

func TestFilledRegionAt(t *testing.T) {
	b := New("zones")
	z := b.AddZone(&Zone{Net: 3, Layer: 0, Fills: [][]geom.Point{{
		geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(100, 100), geom.Pt(0, 100),
	}}})

	if got, ok := b.FilledRegionAt(geom.Pt(50, 50), 0); !ok || got != z {
		t.Errorf("FilledRegionAt(inside) = %v, %v", got, ok)
	}
	if _, ok := b.FilledRegionAt(geom.Pt(50, 50), 31); ok {
		t.Error("FilledRegionAt() matched another layer")
	}
	if _, ok := b.FilledRegionAt(geom.Pt(150, 50), 0); ok {
		t.Error("FilledRegionAt() matched outside point")
	}
}

func TestCreateConnectionPointSplitsAndReverts(t *testing.T) {
	b := New("split")
	a := b.AddTrack(track(1, 0, 0, 0, 100, 0, 10))
	next := b.AddTrack(track(1, 0, 100, 0, 100, 100, 10))
	next.StartAnchor = TrackAnchor(a.ID)
	a.EndAnchor = TrackAnchor(next.ID)

	before := b.Snapshot()
	pl := NewPickedList(b)

	q := b.CreateConnectionPoint(geom.Pt(40, 3), a, pl)
	if q != geom.Pt(40, 0) {
		t.Fatalf("CreateConnectionPoint() = %v, want (40, 0)", q)
	}
	if b.TrackCount() != 3 {
		t.Fatalf("TrackCount() = %d, want 3", b.TrackCount())
	}

	half := b.Tracks()[1]
	if half.Start != q || half.End != geom.Pt(100, 0) {
		t.Errorf("second half = %v", half)
	}
	if half.StartAnchor != TrackAnchor(a.ID) || a.EndAnchor != TrackAnchor(half.ID) {
		t.Errorf("halves not linked: %v / %v", a.EndAnchor, half.StartAnchor)
	}
	if a.End != q {
		t.Errorf("first half end = %v, want %v", a.End, q)
	}
	if next.StartAnchor != TrackAnchor(half.ID) {
		t.Errorf("follower anchor = %v, want %v", next.StartAnchor, TrackAnchor(half.ID))
	}

	kinds := []UndoKind{}
	for _, e := range pl.Entries() {
		kinds = append(kinds, e.Kind)
	}
	if diff := cmp.Diff([]UndoKind{UndoChanged, UndoChanged, UndoNew}, kinds); diff != "" {
		t.Errorf("recorded kinds mismatch (-want +got):\n%s", diff)
	}

	if err := pl.Revert(); err != nil {
		t.Fatalf("Revert() error = %v", err)
	}
	if diff := cmp.Diff(before, b.Snapshot()); diff != "" {
		t.Errorf("board not restored (-want +got):\n%s", diff)
	}
	if pl.Len() != 0 {
		t.Errorf("Len() after Revert = %d", pl.Len())
	}
}

func TestCreateConnectionPointOnEnd(t *testing.T) {
	b := New("end")
	a := b.AddTrack(track(1, 0, 0, 0, 100, 0, 10))
	pl := NewPickedList(b)

	if q := b.CreateConnectionPoint(geom.Pt(100, 0), a, pl); q != geom.Pt(100, 0) {
		t.Errorf("CreateConnectionPoint() = %v", q)
	}
	if pl.Len() != 0 || b.TrackCount() != 1 {
		t.Errorf("endpoint hit changed the board: %d entries, %d tracks", pl.Len(), b.TrackCount())
	}
}
