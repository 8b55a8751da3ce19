package router

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/board"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
)

// recorder is a Connectivity that remembers which nets were recomputed.
type recorder struct {
	nets []board.NetCode
}

func (r *recorder) Recompute(net board.NetCode) board.NetStatus {
	r.nets = append(r.nets, net)
	return board.NetStatus{Net: net}
}

func pt(x, y int) geom.Point {
	return geom.Pt(x, y)
}

// testSettings is single segment, 45 degree routing without DRC on a grid
// of 10.
func testSettings() Settings {
	s := DefaultSettings()
	s.DRC = false
	s.UseTwoSegmentTracks = false
	s.AutoCorner45 = false
	s.AutoDeleteOldTrack = false
	s.GridSize = 10
	return s
}

func testBoard() *board.Board {
	b := board.New("router")
	b.Rules = board.DesignRules{Clearance: 10, TrackWidth: 5}
	b.AddLayer(0, "F.Cu", "signal")
	b.AddLayer(31, "B.Cu", "signal")
	return b
}

func newRouter(t *testing.T, b *board.Board, s Settings, opts ...Option) *Router {
	t.Helper()
	r, err := New(b, s, opts...)
	require.NoError(t, err)
	return r
}

func seg(net board.NetCode, x0, y0, x1, y1, width int) *board.Track {
	return &board.Track{Start: pt(x0, y0), End: pt(x1, y1), Layer: 0, Width: width, Net: net}
}

func geometry(tracks []board.Track) []geom.Segment {
	out := make([]geom.Segment, len(tracks))
	for i, t := range tracks {
		out[i] = t.Seg()
	}
	return out
}
