package board

import (
	"sort"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
)

// itemKind distinguishes the node types of the connectivity graph.
type itemKind uint8

const (
	padItem itemKind = iota
	trackItem
	zoneItem
)

type itemKey struct {
	kind itemKind
	id   ItemID
}

// unionFind groups the items of one net into connected clusters.
type unionFind struct {
	parent map[itemKey]itemKey
	rank   map[itemKey]int
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: make(map[itemKey]itemKey),
		rank:   make(map[itemKey]int),
	}
}

func (u *unionFind) add(k itemKey) {
	if _, ok := u.parent[k]; !ok {
		u.parent[k] = k
	}
}

// find returns the representative of k with path compression.
func (u *unionFind) find(k itemKey) itemKey {
	root := k
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for k != root {
		next := u.parent[k]
		u.parent[k] = root
		k = next
	}
	return root
}

// union merges the clusters of a and b, by rank.
func (u *unionFind) union(a, b itemKey) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	switch {
	case u.rank[ra] < u.rank[rb]:
		u.parent[ra] = rb
	case u.rank[ra] > u.rank[rb]:
		u.parent[rb] = ra
	default:
		u.parent[rb] = ra
		u.rank[ra]++
	}
}

// NetStatus summarizes the connectivity of one net.
type NetStatus struct {
	Net      NetCode
	Pads     int
	Tracks   int
	Clusters int // connected groups of pads, tracks and zones
	Unrouted int // connections still missing between pads
}

// Routed reports whether every pad of the net is connected.
func (s NetStatus) Routed() bool {
	return s.Unrouted == 0
}

// Connectivity keeps the per-net connection status of a board. It is the
// ratsnest side of the editor, recomputed one net at a time.
type Connectivity struct {
	board      *Board
	status     map[NetCode]NetStatus
	recomputes int
}

// NewConnectivity returns an empty connectivity tracker for b.
func NewConnectivity(b *Board) *Connectivity {
	return &Connectivity{
		board:  b,
		status: make(map[NetCode]NetStatus),
	}
}

// Recompute rebuilds the status of net from the board.
func (c *Connectivity) Recompute(net NetCode) NetStatus {
	c.recomputes++
	s := c.build(net)
	c.status[net] = s
	return s
}

// RecomputeAll rebuilds the status of every net with pads or tracks.
func (c *Connectivity) RecomputeAll() {
	seen := make(map[NetCode]bool)
	for _, p := range c.board.Pads {
		seen[p.Net] = true
	}
	for _, t := range c.board.tracks {
		seen[t.Net] = true
	}
	for net := range seen {
		if net != 0 {
			c.Recompute(net)
		}
	}
}

// Status returns the last computed status of net.
func (c *Connectivity) Status(net NetCode) (NetStatus, bool) {
	s, ok := c.status[net]
	return s, ok
}

// Statuses returns all computed statuses ordered by net code.
func (c *Connectivity) Statuses() []NetStatus {
	out := make([]NetStatus, 0, len(c.status))
	for _, s := range c.status {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Net < out[j].Net })
	return out
}

// Unrouted returns the total number of missing connections.
func (c *Connectivity) Unrouted() int {
	n := 0
	for _, s := range c.status {
		n += s.Unrouted
	}
	return n
}

// Recomputes returns how many times Recompute ran.
func (c *Connectivity) Recomputes() int {
	return c.recomputes
}

func (c *Connectivity) build(net NetCode) NetStatus {
	b := c.board
	pads := b.NetPads(net)
	tracks := b.NetTracks(net)
	var zones []*Zone
	for _, z := range b.Zones {
		if z.Net == net {
			zones = append(zones, z)
		}
	}

	u := newUnionFind()
	for _, p := range pads {
		u.add(itemKey{padItem, p.ID})
	}
	for _, t := range tracks {
		u.add(itemKey{trackItem, t.ID})
	}
	for _, z := range zones {
		u.add(itemKey{zoneItem, z.ID})
	}

	for i, t := range tracks {
		tk := itemKey{trackItem, t.ID}
		for _, end := range []geom.Point{t.Start, t.End} {
			for _, p := range pads {
				if p.Layers.Has(t.Layer) && p.Contains(end) {
					u.union(tk, itemKey{padItem, p.ID})
				}
			}
			for _, z := range zones {
				if z.Layer == t.Layer && z.Contains(end) {
					u.union(tk, itemKey{zoneItem, z.ID})
				}
			}
		}
		for _, o := range tracks[i+1:] {
			if o.Layer == t.Layer && tracksTouch(t, o) {
				u.union(tk, itemKey{trackItem, o.ID})
			}
		}
	}
	for _, p := range pads {
		for _, z := range zones {
			if p.Layers.Has(z.Layer) && z.Contains(p.Position) {
				u.union(itemKey{padItem, p.ID}, itemKey{zoneItem, z.ID})
			}
		}
	}

	roots := make(map[itemKey]bool)
	for k := range u.parent {
		roots[u.find(k)] = true
	}
	padRoots := make(map[itemKey]bool)
	for _, p := range pads {
		padRoots[u.find(itemKey{padItem, p.ID})] = true
	}

	s := NetStatus{
		Net:      net,
		Pads:     len(pads),
		Tracks:   len(tracks),
		Clusters: len(roots),
	}
	if len(padRoots) > 1 {
		s.Unrouted = len(padRoots) - 1
	}
	return s
}

// tracksTouch reports whether an end of one track lies on the copper of
// the other.
func tracksTouch(t, o *Track) bool {
	return endOn(t.Start, o) || endOn(t.End, o) || endOn(o.Start, t) || endOn(o.End, t)
}

func endOn(p geom.Point, t *Track) bool {
	return geom.DistancePointSegment(p, t.Start, t.End) <= float64(t.Width)/2
}
