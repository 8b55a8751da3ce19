package board

import (
	"errors"
	"fmt"
	"slices"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
)

// ErrUnknownTrack is returned when a track ID is not on the board.
var ErrUnknownTrack = errors.New("track not on board")

// Board is the in-memory board. Tracks are kept in an ordered collection;
// the order groups tracks of the same net together.
type Board struct {
	Name       string
	Layers     []Layer
	Nets       []Net
	Rules      DesignRules
	Pads       []*Pad
	Zones      []*Zone
	GridOrigin geom.Point // user grid origin; script coordinates are relative to it

	tracks []*Track
	nextID ItemID

	highlight      NetCode
	highlightStack []NetCode
}

// New returns an empty board with default design rules.
func New(name string) *Board {
	return &Board{
		Name:  name,
		Rules: DefaultDesignRules(),
	}
}

// AllocID returns a fresh item ID.
func (b *Board) AllocID() ItemID {
	b.nextID++
	return b.nextID
}

// reserve makes sure future IDs do not collide with id.
func (b *Board) reserve(id ItemID) {
	if id > b.nextID {
		b.nextID = id
	}
}

// AddLayer appends a layer to the stackup.
func (b *Board) AddLayer(id LayerID, name, typ string) {
	b.Layers = append(b.Layers, Layer{ID: id, Name: name, Type: typ})
}

// LayerByName returns the ID of the named layer.
func (b *Board) LayerByName(name string) (LayerID, bool) {
	for _, l := range b.Layers {
		if l.Name == name {
			return l.ID, true
		}
	}
	return 0, false
}

// LayerName returns the name of layer id, or "L<id>" when unknown.
func (b *Board) LayerName(id LayerID) string {
	for _, l := range b.Layers {
		if l.ID == id {
			return l.Name
		}
	}
	return fmt.Sprintf("L%d", id)
}

// CopperMask returns the mask of all copper layers.
func (b *Board) CopperMask() LayerMask {
	var m LayerMask
	for _, l := range b.Layers {
		if l.IsCopper() {
			m |= MaskOf(l.ID)
		}
	}
	return m
}

// AddNet registers a net.
func (b *Board) AddNet(code NetCode, name, class string) {
	b.Nets = append(b.Nets, Net{Code: code, Name: name, Class: class})
}

// NetByCode looks a net up by code.
func (b *Board) NetByCode(code NetCode) (*Net, bool) {
	for i := range b.Nets {
		if b.Nets[i].Code == code {
			return &b.Nets[i], true
		}
	}
	return nil, false
}

// NetByName looks a net up by name.
func (b *Board) NetByName(name string) (*Net, bool) {
	for i := range b.Nets {
		if b.Nets[i].Name == name {
			return &b.Nets[i], true
		}
	}
	return nil, false
}

// NetName returns the name of net code, or "" when unknown.
func (b *Board) NetName(code NetCode) string {
	if n, ok := b.NetByCode(code); ok {
		return n.Name
	}
	return ""
}

// AddPad adds a pad, assigning an ID when it has none.
func (b *Board) AddPad(p *Pad) *Pad {
	if p.ID == 0 {
		p.ID = b.AllocID()
	} else {
		b.reserve(p.ID)
	}
	b.Pads = append(b.Pads, p)
	return p
}

// Pad returns the pad with the given ID.
func (b *Board) Pad(id ItemID) *Pad {
	for _, p := range b.Pads {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// AddZone adds a zone, assigning an ID when it has none.
func (b *Board) AddZone(z *Zone) *Zone {
	if z.ID == 0 {
		z.ID = b.AllocID()
	} else {
		b.reserve(z.ID)
	}
	b.Zones = append(b.Zones, z)
	return z
}

// AddTrack appends a track to the collection, assigning an ID when it has
// none. It panics if the ID is already in use.
func (b *Board) AddTrack(t *Track) *Track {
	if err := b.InsertTrack(len(b.tracks), t); err != nil {
		panic(err)
	}
	return t
}

// Tracks returns the board tracks in collection order. The slice is a copy;
// the tracks are shared.
func (b *Board) Tracks() []*Track {
	return slices.Clone(b.tracks)
}

// TrackCount returns the number of tracks on the board.
func (b *Board) TrackCount() int {
	return len(b.tracks)
}

// Track returns the track with the given ID, or nil.
func (b *Board) Track(id ItemID) *Track {
	if i := b.IndexOf(id); i >= 0 {
		return b.tracks[i]
	}
	return nil
}

// IndexOf returns the position of track id in the collection, or -1.
func (b *Board) IndexOf(id ItemID) int {
	for i, t := range b.tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// InsertTrack inserts t at position idx of the collection.
func (b *Board) InsertTrack(idx int, t *Track) error {
	if t == nil {
		return fmt.Errorf("failed to insert track: nil track")
	}
	if idx < 0 || idx > len(b.tracks) {
		return fmt.Errorf("failed to insert track at %d: index out of range [0, %d]", idx, len(b.tracks))
	}
	if t.ID == 0 {
		t.ID = b.AllocID()
	} else if b.IndexOf(t.ID) >= 0 {
		return fmt.Errorf("failed to insert track: id %d already on board", t.ID)
	} else {
		b.reserve(t.ID)
	}
	b.tracks = slices.Insert(b.tracks, idx, t)
	return nil
}

// RemoveTrack removes track id from the collection and returns the index it
// occupied.
func (b *Board) RemoveTrack(id ItemID) (int, error) {
	i := b.IndexOf(id)
	if i < 0 {
		return -1, fmt.Errorf("failed to remove track %d: %w", id, ErrUnknownTrack)
	}
	b.tracks = slices.Delete(b.tracks, i, i+1)
	return i, nil
}

// BestInsertIndex returns where new tracks of net should go: right after
// the last track of the same net, or at the end of the collection.
func (b *Board) BestInsertIndex(net NetCode) int {
	for i := len(b.tracks) - 1; i >= 0; i-- {
		if b.tracks[i].Net == net {
			return i + 1
		}
	}
	return len(b.tracks)
}

// NetTracks returns the live tracks of a net.
func (b *Board) NetTracks(net NetCode) []*Track {
	var out []*Track
	for _, t := range b.tracks {
		if t.Net == net && !t.Has(FlagDeleted) {
			out = append(out, t)
		}
	}
	return out
}

// NetPads returns the pads of a net.
func (b *Board) NetPads(net NetCode) []*Pad {
	var out []*Pad
	for _, p := range b.Pads {
		if p.Net == net {
			out = append(out, p)
		}
	}
	return out
}

// Snapshot returns a value copy of every track, for comparisons.
func (b *Board) Snapshot() []Track {
	out := make([]Track, len(b.tracks))
	for i, t := range b.tracks {
		out[i] = *t
	}
	return out
}

// HighlightNet returns the highlighted net, zero for none.
func (b *Board) HighlightNet() NetCode {
	return b.highlight
}

// SetHighlightNet highlights net.
func (b *Board) SetHighlightNet(net NetCode) {
	b.highlight = net
}

// PushHighlight saves the current highlight so a session can change it.
func (b *Board) PushHighlight() {
	b.highlightStack = append(b.highlightStack, b.highlight)
}

// PopHighlight restores the highlight saved by the last PushHighlight.
func (b *Board) PopHighlight() {
	n := len(b.highlightStack)
	if n == 0 {
		b.highlight = 0
		return
	}
	b.highlight = b.highlightStack[n-1]
	b.highlightStack = b.highlightStack[:n-1]
}
