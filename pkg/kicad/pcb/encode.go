package pcb

import (
	"io"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/board"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/kicad/sexp"
)

// SegmentNode returns t as a KiCad (segment ...) item.
func SegmentNode(b *board.Board, t *board.Track) *sexp.Node {
	xy := func(key string, x, y int) *sexp.Node {
		return sexp.List(key, sexp.Number(ToMM(x)), sexp.Number(ToMM(y)))
	}
	return sexp.List("segment",
		xy("start", t.Start.X, t.Start.Y),
		xy("end", t.End.X, t.End.Y),
		sexp.List("width", sexp.Number(ToMM(t.Width))),
		sexp.List("layer", sexp.String(b.LayerName(t.Layer))),
		sexp.List("net", sexp.Number(float64(t.Net))),
	)
}

// EncodeTracks writes tracks as KiCad segments, one per line, indented the
// way they appear inside a board file.
func EncodeTracks(w io.Writer, b *board.Board, tracks []*board.Track) error {
	nodes := make([]*sexp.Node, len(tracks))
	for i, t := range tracks {
		nodes[i] = SegmentNode(b, t)
	}
	return sexp.Encode(w, "  ", nodes...)
}
