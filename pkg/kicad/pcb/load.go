// Package pcb loads KiCad boards into the router's board model and
// writes routed tracks back out as KiCad segments.
package pcb

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/board"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/kicad/sexp"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/logging"
)

// MinSupportedVersion is the oldest board format read (KiCad 6.0).
const MinSupportedVersion = 20211014

// KiCad files use millimetres; the board model uses integer nanometres.
const nmPerMM = 1e6

// ToNM converts millimetres to board units.
func ToNM(mm float64) int {
	return geom.Round(mm * nmPerMM)
}

// ToMM converts board units to millimetres.
func ToMM(nm int) float64 {
	return float64(nm) / nmPerMM
}

// LoadFile reads the .kicad_pcb file at path.
func LoadFile(path string) (*board.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads a .kicad_pcb document from r.
func Load(r io.Reader) (*board.Board, error) {
	root, err := sexp.ParseOne(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}
	return FromNode(root)
}

// FromNode converts a parsed (kicad_pcb ...) tree.
func FromNode(root *sexp.Node) (*board.Board, error) {
	if name := root.Name(); name != "kicad_pcb" {
		return nil, fmt.Errorf("not a KiCad PCB file: expected 'kicad_pcb', got '%s'", name)
	}
	ver, err := root.Child("version").Int(1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse version: %w", err)
	}
	if ver < MinSupportedVersion {
		return nil, fmt.Errorf("unsupported KiCad version: %d (minimum required: %d / KiCad 6.0)", ver, MinSupportedVersion)
	}

	l := &loader{
		b:      board.New(""),
		copper: make(map[string]board.LayerID),
	}
	if title, err := root.Child("title_block").Child("title").Str(1); err == nil {
		l.b.Name = title
	}

	steps := []struct {
		what string
		fn   func(*sexp.Node) error
	}{
		{"layers", l.layers},
		{"setup", l.setup},
		{"nets", l.nets},
		{"net classes", l.netClasses},
		{"footprints", l.footprints},
		{"tracks", l.tracks},
		{"zones", l.zones},
	}
	for _, s := range steps {
		if err := s.fn(root); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", s.what, err)
		}
	}

	logging.Debugf("loaded board %q: %d copper layers, %d nets, %d pads, %d tracks, %d zones",
		l.b.Name, len(l.b.Layers), len(l.b.Nets), len(l.b.Pads), l.b.TrackCount(), len(l.b.Zones))
	return l.b, nil
}

type loader struct {
	b      *board.Board
	copper map[string]board.LayerID
}

// layers reads (layers (0 "F.Cu" signal) ...), keeping copper layers.
func (l *loader) layers(root *sexp.Node) error {
	node := root.Child("layers")
	if node == nil {
		return fmt.Errorf("missing (layers) section")
	}
	for _, item := range node.Items[1:] {
		if !item.IsList() {
			continue
		}
		num, err := layerNumber(item)
		if err != nil {
			return err
		}
		name, err := item.Str(1)
		if err != nil {
			return fmt.Errorf("failed to parse layer name: %w", err)
		}
		typ, err := item.Str(2)
		if err != nil {
			typ = "user"
		}
		layer := board.Layer{ID: board.LayerID(num), Name: name, Type: typ}
		if !layer.IsCopper() {
			continue
		}
		l.b.AddLayer(layer.ID, name, typ)
		l.copper[name] = layer.ID
	}
	if len(l.copper) == 0 {
		return fmt.Errorf("no copper layers defined")
	}
	return nil
}

// The layer list uses the number as keyword: (0 "F.Cu" signal).
func layerNumber(item *sexp.Node) (int, error) {
	num, err := item.Int(0)
	if err != nil {
		return 0, fmt.Errorf("failed to parse layer number: %w", err)
	}
	if num < 0 || num >= 64 {
		return 0, fmt.Errorf("layer number %d out of range", num)
	}
	return num, nil
}

// setup reads the grid origin from (setup (grid_origin x y)).
func (l *loader) setup(root *sexp.Node) error {
	origin := root.Child("setup").Child("grid_origin")
	if origin == nil {
		return nil
	}
	p, err := point(origin)
	if err != nil {
		return fmt.Errorf("failed to parse grid origin: %w", err)
	}
	l.b.GridOrigin = p
	return nil
}

// nets reads the top-level (net <code> "<name>") list.
func (l *loader) nets(root *sexp.Node) error {
	for _, n := range root.Children("net") {
		code, err := n.Int(1)
		if err != nil {
			return fmt.Errorf("failed to parse net number: %w", err)
		}
		name, _ := n.Str(2)
		l.b.AddNet(board.NetCode(code), name, "")
	}
	return nil
}

// netClasses reads the (net_class ...) blocks boards up to KiCad 6 carry.
// The class named Default sets the board-wide rules.
func (l *loader) netClasses(root *sexp.Node) error {
	for _, nc := range root.Children("net_class") {
		name, err := nc.Str(1)
		if err != nil {
			return fmt.Errorf("failed to parse net class name: %w", err)
		}
		class := board.NetClass{Name: name}
		if v, err := nc.Child("clearance").Float(1); err == nil {
			class.Clearance = ToNM(v)
		}
		if v, err := nc.Child("trace_width").Float(1); err == nil {
			class.TrackWidth = ToNM(v)
		}

		if name == "Default" {
			if class.Clearance > 0 {
				l.b.Rules.Clearance = class.Clearance
			}
			if class.TrackWidth > 0 {
				l.b.Rules.TrackWidth = class.TrackWidth
			}
			continue
		}

		l.b.Rules.Classes[name] = class
		for _, add := range nc.Children("add_net") {
			netName, err := add.Str(1)
			if err != nil {
				return fmt.Errorf("failed to parse net class %s member: %w", name, err)
			}
			if n, ok := l.b.NetByName(netName); ok {
				n.Class = name
			}
		}
	}
	return nil
}

// tracks reads (segment ...) items. Arcs and vias are not part of the
// routing model and are skipped.
func (l *loader) tracks(root *sexp.Node) error {
	for _, node := range root.Children("segment") {
		t, err := l.segment(node)
		if err != nil {
			return fmt.Errorf("failed to parse segment at line %d: %w", node.Line, err)
		}
		if t != nil {
			l.b.AddTrack(t)
		}
	}
	if n := len(root.Children("arc")) + len(root.Children("via")); n > 0 {
		logging.Debugf("skipped %d arcs and vias", n)
	}
	return nil
}

// segment converts (segment (start x y) (end x y) (width w) (layer "L") (net n)).
// Segments on layers that are not copper yield nil.
func (l *loader) segment(node *sexp.Node) (*board.Track, error) {
	start, err := point(node.Child("start"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse start position: %w", err)
	}
	end, err := point(node.Child("end"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse end position: %w", err)
	}
	width, err := node.Child("width").Float(1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse width: %w", err)
	}
	layerName, err := node.Child("layer").Str(1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layer: %w", err)
	}
	layer, ok := l.copper[layerName]
	if !ok {
		logging.Warnf("segment at line %d is on non-copper layer %q", node.Line, layerName)
		return nil, nil
	}
	net, _ := node.Child("net").Int(1)

	return &board.Track{
		Start: start,
		End:   end,
		Layer: layer,
		Width: ToNM(width),
		Net:   board.NetCode(net),
	}, nil
}

// zones reads the filled polygons of (zone ...) items, one board zone per
// filled layer. Unfilled zones cannot start a route and are skipped.
func (l *loader) zones(root *sexp.Node) error {
	for _, node := range root.Children("zone") {
		net, _ := node.Child("net").Int(1)
		defLayer, _ := node.Child("layer").Str(1)

		byLayer := make(map[board.LayerID]*board.Zone)
		var order []board.LayerID
		for _, fill := range node.Children("filled_polygon") {
			name := defLayer
			if s, err := fill.Child("layer").Str(1); err == nil {
				name = s
			}
			layer, ok := l.copper[name]
			if !ok {
				continue
			}
			pts, err := points(fill.Child("pts"))
			if err != nil {
				return fmt.Errorf("failed to parse zone fill at line %d: %w", fill.Line, err)
			}
			z, ok := byLayer[layer]
			if !ok {
				z = &board.Zone{Net: board.NetCode(net), Layer: layer}
				byLayer[layer] = z
				order = append(order, layer)
			}
			z.Fills = append(z.Fills, pts)
		}
		for _, layer := range order {
			l.b.AddZone(byLayer[layer])
		}
	}
	return nil
}

// point converts (key x y ...) to board units.
func point(node *sexp.Node) (geom.Point, error) {
	x, err := node.Float(1)
	if err != nil {
		return geom.Point{}, err
	}
	y, err := node.Float(2)
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Pt(ToNM(x), ToNM(y)), nil
}

// points converts (pts (xy x y) ...).
func points(node *sexp.Node) ([]geom.Point, error) {
	if node == nil {
		return nil, fmt.Errorf("missing (pts)")
	}
	var out []geom.Point
	for _, xy := range node.Children("xy") {
		p, err := point(xy)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// rotate turns (x, y) by deg degrees the way KiCad does: counter-clockwise
// on screen, with Y pointing down.
func rotate(x, y, deg float64) (float64, float64) {
	if deg == 0 {
		return x, y
	}
	s, c := math.Sincos(deg * math.Pi / 180)
	return x*c + y*s, y*c - x*s
}
