package geom

import "testing"

func TestBreakPoint(t *testing.T) {
	axis := &Segment{Start: Pt(-100, 0), End: Pt(0, 0)}
	slanted := &Segment{Start: Pt(-50, -50), End: Pt(0, 0)}

	tests := []struct {
		name      string
		end       Point
		prevPrev  *Segment
		alternate bool
		want      Point
	}{
		{"horizontal first", Pt(100, 30), nil, false, Pt(70, 0)},
		{"alternate posture without history", Pt(100, 30), nil, true, Pt(30, 30)},
		{"axis aligned history prefers diagonal", Pt(100, 30), axis, false, Pt(30, 30)},
		{"alternate flips history", Pt(100, 30), axis, true, Pt(70, 0)},
		{"slanted history keeps dominant axis", Pt(100, 30), slanted, false, Pt(70, 0)},
		{"vertical first", Pt(30, 100), nil, false, Pt(0, 70)},
		{"negative horizontal", Pt(-100, -30), nil, false, Pt(-70, 0)},
		{"negative vertical", Pt(-30, -100), nil, false, Pt(0, -70)},
		{"pure diagonal collapses onto end", Pt(100, 100), nil, false, Pt(100, 100)},
		{"straight line", Pt(100, 0), nil, false, Pt(100, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BreakPoint(Pt(0, 0), tt.end, tt.prevPrev, tt.alternate)
			if got != tt.want {
				t.Errorf("BreakPoint(end=%v) = %v, want %v", tt.end, got, tt.want)
			}
		})
	}
}

func TestBreakPointLegsAreConstrained(t *testing.T) {
	start := Pt(0, 0)
	for _, end := range []Point{Pt(120, 35), Pt(-80, 300), Pt(13, -7), Pt(-55, -55)} {
		for _, alt := range []bool{false, true} {
			joint := BreakPoint(start, end, nil, alt)
			for _, s := range []Segment{Seg(start, joint), Seg(joint, end)} {
				d := s.Delta()
				if d.X != 0 && d.Y != 0 && abs(d.X) != abs(d.Y) {
					t.Errorf("end=%v alt=%v: leg %v is not 0/45/90", end, alt, s)
				}
			}
		}
	}
}
