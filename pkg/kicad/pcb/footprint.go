package pcb

import (
	"fmt"
	"math"
	"strings"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/board"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/logging"
)

// footprints reads the copper pads of every (footprint ...) item, placed
// at absolute board positions.
func (l *loader) footprints(root *sexp.Node) error {
	for _, fp := range root.Children("footprint") {
		if err := l.footprint(fp); err != nil {
			return fmt.Errorf("failed to parse footprint at line %d: %w", fp.Line, err)
		}
	}
	return nil
}

func (l *loader) footprint(fp *sexp.Node) error {
	at := fp.Child("at")
	if at == nil {
		return fmt.Errorf("missing required 'at' position")
	}
	origin, err := point(at)
	if err != nil {
		return fmt.Errorf("failed to parse position: %w", err)
	}
	angle, _ := at.Float(3)
	ref := reference(fp)

	for _, node := range fp.Children("pad") {
		pad, err := l.pad(node, origin, angle)
		if err != nil {
			return fmt.Errorf("failed to parse pad of %s: %w", ref, err)
		}
		if pad == nil {
			continue
		}
		pad.Footprint = ref
		l.b.AddPad(pad)
	}
	return nil
}

// reference returns the reference designator, from (property "Reference")
// in KiCad 7 and later or (fp_text reference) before.
func reference(fp *sexp.Node) string {
	for _, p := range fp.Children("property") {
		if key, _ := p.Str(1); key == "Reference" {
			v, _ := p.Str(2)
			return v
		}
	}
	for _, t := range fp.Children("fp_text") {
		if kind, _ := t.Str(1); kind == "reference" {
			v, _ := t.Str(2)
			return v
		}
	}
	return ""
}

// pad converts (pad "1" smd rect (at x y [angle]) (size w h) (layers ...)
// (net n "name")). The position is relative to the footprint; the angle
// in the file already includes the footprint rotation. Pads without copper
// yield nil.
func (l *loader) pad(node *sexp.Node, origin geom.Point, fpAngle float64) (*board.Pad, error) {
	number, err := node.Str(1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad number: %w", err)
	}

	layers := l.padLayers(node.Child("layers"))
	if layers == 0 {
		logging.Debugf("pad %s at line %d has no copper", number, node.Line)
		return nil, nil
	}

	at := node.Child("at")
	x, err := at.Float(1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad X position: %w", err)
	}
	y, err := at.Float(2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad Y position: %w", err)
	}
	padAngle, _ := at.Float(3)

	size := node.Child("size")
	w, err := size.Float(1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad width: %w", err)
	}
	h, err := size.Float(2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad height: %w", err)
	}

	dx, dy := rotate(x, y, fpAngle)
	bw, bh := boundingSize(w, h, padAngle)
	net, _ := node.Child("net").Int(1)

	return &board.Pad{
		Number:   number,
		Position: origin.Add(geom.Pt(ToNM(dx), ToNM(dy))),
		Width:    ToNM(bw),
		Height:   ToNM(bh),
		Layers:   layers,
		Net:      board.NetCode(net),
	}, nil
}

// padLayers resolves a pad layer list, expanding "*.Cu" and "F&B.Cu".
func (l *loader) padLayers(node *sexp.Node) board.LayerMask {
	var m board.LayerMask
	for _, name := range node.Strings() {
		switch {
		case name == "*.Cu":
			for _, id := range l.copper {
				m |= board.MaskOf(id)
			}
		case name == "F&B.Cu":
			for _, side := range []string{"F.Cu", "B.Cu"} {
				if id, ok := l.copper[side]; ok {
					m |= board.MaskOf(id)
				}
			}
		case strings.HasSuffix(name, ".Cu"):
			if id, ok := l.copper[name]; ok {
				m |= board.MaskOf(id)
			}
		}
	}
	return m
}

// boundingSize returns the axis-aligned extent of a w x h rectangle turned
// by deg degrees.
func boundingSize(w, h, deg float64) (float64, float64) {
	s, c := math.Sincos(deg * math.Pi / 180)
	s, c = math.Abs(s), math.Abs(c)
	return w*c + h*s, w*s + h*c
}
