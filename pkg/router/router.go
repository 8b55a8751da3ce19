package router

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/board"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/drc"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/logging"
)

// State is the state of a Router.
type State int

const (
	Idle State = iota
	Routing
)

func (s State) String() string {
	if s == Routing {
		return "routing"
	}
	return "idle"
}

// Connectivity is told which net to recompute after a commit.
type Connectivity interface {
	Recompute(net board.NetCode) board.NetStatus
}

// Result describes the outcome of End.
type Result struct {
	Committed  []*board.Track // segments added to the board, in route order
	Erased     []*board.Track // old tracks removed as redundant
	Net        board.NetCode
	Refused    bool // the DRC gate refused the final segment; the route is still open
	Violations []drc.Violation
}

// Session is the state of one route in progress.
type Session struct {
	list       SegmentList
	pending    *board.PickedList
	net        board.NetCode
	startTrack *board.Track // track the route started on, if any
}

// Router drives interactive routing on a board.
type Router struct {
	board     *board.Board
	settings  Settings
	gate      drc.Gate
	conn      Connectivity
	history   *board.History
	log       *logging.Logger
	layer     board.LayerID
	width     int
	alternate bool
	session   *Session
}

// Option configures a Router.
type Option func(*Router)

// WithGate replaces the default clearance checker.
func WithGate(g drc.Gate) Option {
	return func(r *Router) { r.gate = g }
}

// WithConnectivity sets the collaborator told about committed nets.
func WithConnectivity(c Connectivity) Option {
	return func(r *Router) { r.conn = c }
}

// WithHistory sets the undo stack commits are pushed to.
func WithHistory(h *board.History) Option {
	return func(r *Router) { r.history = h }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Router) { r.log = l }
}

// WithLayer sets the initial active layer.
func WithLayer(l board.LayerID) Option {
	return func(r *Router) { r.layer = l }
}

// New returns a router for b. Without options it checks clearances with a
// drc.ClearanceChecker, tracks connectivity with a board.Connectivity and
// keeps its own history.
func New(b *board.Board, s Settings, opts ...Option) (*Router, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	r := &Router{
		board:     b,
		settings:  s,
		gate:      drc.NewClearanceChecker(b),
		conn:      board.NewConnectivity(b),
		history:   &board.History{},
		log:       logging.Default(),
		width:     s.TrackWidth,
		alternate: s.AlternatePosture,
	}
	for _, l := range b.Layers {
		if l.IsCopper() {
			r.layer = l.ID
			break
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Board returns the board being routed.
func (r *Router) Board() *board.Board {
	return r.board
}

// Settings returns the router settings.
func (r *Router) Settings() Settings {
	return r.settings
}

// History returns the undo stack.
func (r *Router) History() *board.History {
	return r.history
}

// State reports whether a route is in progress.
func (r *Router) State() State {
	if r.session != nil {
		return Routing
	}
	return Idle
}

// Layer returns the active layer.
func (r *Router) Layer() board.LayerID {
	return r.layer
}

// SetLayer changes the active layer. A route in progress picks it up at
// the next Move or Extend.
func (r *Router) SetLayer(l board.LayerID) {
	r.layer = l
}

// Width returns the width new segments get, zero meaning the net class
// width.
func (r *Router) Width() int {
	return r.width
}

// SetWidth changes the width of new segments. Zero selects the net class
// width.
func (r *Router) SetWidth(w int) error {
	if w < 0 {
		return fmt.Errorf("invalid track width %d: must not be negative", w)
	}
	r.width = w
	return nil
}

// ToggleAlternatePosture flips the break point posture used in two
// segment mode.
func (r *Router) ToggleAlternatePosture() {
	r.alternate = !r.alternate
}

// AlternatePosture reports the current break point posture.
func (r *Router) AlternatePosture() bool {
	return r.alternate
}

// Net returns the net of the route in progress, zero when idle.
func (r *Router) Net() board.NetCode {
	if r.session == nil {
		return 0
	}
	return r.session.net
}

// SegmentCount returns the number of segments of the route in progress.
func (r *Router) SegmentCount() int {
	if r.session == nil {
		return 0
	}
	return r.session.list.Len()
}

// Tail returns a copy of the segment following the cursor.
func (r *Router) Tail() (board.Track, bool) {
	if r.session == nil || r.session.list.Len() == 0 {
		return board.Track{}, false
	}
	return *r.session.list.Last(), true
}

// Segments returns copies of the segments of the route in progress.
func (r *Router) Segments() []board.Track {
	if r.session == nil {
		return nil
	}
	return r.session.list.Segments()
}

// currentWidth is the width of a new segment on net.
func (r *Router) currentWidth(net board.NetCode) int {
	if r.width > 0 {
		return r.width
	}
	return r.board.TrackWidth(net)
}

// check runs the gate on tracks when DRC is enabled.
func (r *Router) check(tracks ...*board.Track) drc.Verdict {
	var v drc.Verdict
	if !r.settings.DRC {
		return v
	}
	obstacles := r.board.Tracks()
	for _, t := range tracks {
		if t == nil {
			continue
		}
		v.Violations = append(v.Violations, r.gate.Check(t, obstacles).Violations...)
	}
	return v
}
