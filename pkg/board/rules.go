package board

// NetClass returns the rules that apply to net, falling back to the
// board defaults for unknown nets and classes.
func (b *Board) NetClass(net NetCode) NetClass {
	def := NetClass{Name: "Default", Clearance: b.Rules.Clearance, TrackWidth: b.Rules.TrackWidth}
	n, ok := b.NetByCode(net)
	if !ok || n.Class == "" {
		return def
	}
	c, ok := b.Rules.Classes[n.Class]
	if !ok {
		return def
	}
	if c.Clearance == 0 {
		c.Clearance = def.Clearance
	}
	if c.TrackWidth == 0 {
		c.TrackWidth = def.TrackWidth
	}
	return c
}

// NetClearance returns the clearance required between copper of nets a
// and b: the larger of their classes' clearances.
func (b *Board) NetClearance(a, c NetCode) int {
	return max(b.NetClass(a).Clearance, b.NetClass(c).Clearance)
}

// Clearance returns the clearance required between two tracks.
func (b *Board) Clearance(t, o *Track) int {
	return b.NetClearance(t.Net, o.Net)
}

// TrackWidth returns the default width for new tracks of net.
func (b *Board) TrackWidth(net NetCode) int {
	return b.NetClass(net).TrackWidth
}
