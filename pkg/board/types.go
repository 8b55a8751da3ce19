package board

import "fmt"

// ItemID identifies a pad, track or zone on a board. Zero means unassigned.
type ItemID int

// LayerID is a copper layer ordinal.
type LayerID int

// NetCode identifies a net. Zero is the unconnected net.
type NetCode int

// LayerMask is a set of layers, one bit per LayerID below 64.
type LayerMask uint64

// MaskOf returns the mask containing the given layers.
func MaskOf(layers ...LayerID) LayerMask {
	var m LayerMask
	for _, l := range layers {
		if l >= 0 && l < 64 {
			m |= 1 << uint(l)
		}
	}
	return m
}

// Has reports whether l is in the mask.
func (m LayerMask) Has(l LayerID) bool {
	return l >= 0 && l < 64 && m&(1<<uint(l)) != 0
}

// Intersects reports whether the masks share a layer.
func (m LayerMask) Intersects(o LayerMask) bool {
	return m&o != 0
}

// Flags is the status bit-set of a track.
type Flags uint8

const (
	FlagNew        Flags = 1 << iota // created by the active session
	FlagBeginOnPad                   // start is attached to a pad
	FlagEndOnPad                     // end is attached to a pad
	FlagDeleted                      // removed, kept only for undo
	FlagBusy                         // in use by the active session, skipped by scans
)

// AnchorKind tells what an anchor refers to.
type AnchorKind uint8

const (
	AnchorNone AnchorKind = iota
	AnchorPad
	AnchorTrack
)

// Anchor is a weak reference from a track end to whatever it is attached
// to. It is resolved through the board by ID and never keeps the target
// alive.
type Anchor struct {
	Kind AnchorKind
	ID   ItemID
}

// NoAnchor is the zero anchor.
var NoAnchor = Anchor{}

// PadAnchor returns an anchor on pad id.
func PadAnchor(id ItemID) Anchor {
	return Anchor{Kind: AnchorPad, ID: id}
}

// TrackAnchor returns an anchor on track id.
func TrackAnchor(id ItemID) Anchor {
	return Anchor{Kind: AnchorTrack, ID: id}
}

// IsNone reports whether the anchor is unset.
func (a Anchor) IsNone() bool {
	return a.Kind == AnchorNone
}

func (a Anchor) String() string {
	switch a.Kind {
	case AnchorPad:
		return fmt.Sprintf("pad#%d", a.ID)
	case AnchorTrack:
		return fmt.Sprintf("track#%d", a.ID)
	default:
		return "none"
	}
}

// EndPoint selects one end of a track.
type EndPoint int

const (
	AtStart EndPoint = iota
	AtEnd
)

// Layer describes one layer of the board stackup.
type Layer struct {
	ID   LayerID
	Name string // e.g. "F.Cu"
	Type string // e.g. "signal", "power", "user"
}

// IsCopper reports whether tracks may be routed on the layer.
func (l Layer) IsCopper() bool {
	switch l.Type {
	case "signal", "power", "mixed", "jumper":
		return true
	}
	return false
}

// Net is an electrical net.
type Net struct {
	Code  NetCode
	Name  string
	Class string // net class name, empty for the default class
}

// NetClass carries the routing rules shared by a group of nets.
type NetClass struct {
	Name       string
	Clearance  int
	TrackWidth int
}

// DesignRules are the board-wide routing rules.
type DesignRules struct {
	Clearance  int // default clearance
	TrackWidth int // default track width
	Classes    map[string]NetClass
}

// DefaultDesignRules returns KiCad's default rules in nanometres.
func DefaultDesignRules() DesignRules {
	return DesignRules{
		Clearance:  200_000,
		TrackWidth: 250_000,
		Classes:    map[string]NetClass{},
	}
}
