package script

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/board"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/router"
)

// Nanometres per millimetre, the board unit used by the KiCad loader.
const nmPerMM = 1_000_000

// Event reports one executed command.
type Event struct {
	Line    int
	Op      string
	At      geom.Point     // cursor in board units; for move, where the tail ended
	Applied bool           // false when the router refused or declined the command
	Result  *router.Result // set by end
}

// ToBoard converts millimetres to board units.
func ToBoard(mm float64) int {
	return geom.Round(mm * nmPerMM)
}

// Point converts c to board units.
func (c *Coord) Point() geom.Point {
	return geom.Pt(ToBoard(c.X), ToBoard(c.Y))
}

// Run replays s on r, calling onEvent after every command. Coordinates are
// taken relative to the board's grid origin. Run stops at the first error;
// refusals are reported through the event, not as errors.
func Run(r *router.Router, s *Script, onEvent func(Event)) error {
	for _, c := range s.Commands {
		ev, err := apply(r, c)
		if err != nil {
			return fmt.Errorf("line %d: failed to %s: %w", c.Pos.Line, c.Op(), err)
		}
		if onEvent != nil {
			onEvent(ev)
		}
	}
	return nil
}

func apply(r *router.Router, c *Command) (Event, error) {
	ev := Event{Line: c.Pos.Line, Op: c.Op(), Applied: true}
	if p, ok := c.Coord(); ok {
		ev.At = r.Board().GridOrigin.Add(p.Point())
	}

	var err error
	switch {
	case c.Layer != nil:
		id, ok := r.Board().LayerByName(*c.Layer)
		if !ok {
			return ev, fmt.Errorf("unknown layer %q", *c.Layer)
		}
		r.SetLayer(id)
	case c.Width != nil:
		err = r.SetWidth(ToBoard(*c.Width))
	case c.Begin != nil:
		err = r.Begin(ev.At)
	case c.Move != nil:
		var tail board.Track
		tail, err = r.Move(ev.At)
		ev.At = tail.End
	case c.Extend != nil:
		ev.Applied, err = r.Extend(ev.At)
	case c.Corner:
		ev.Applied, err = r.InsertCorner()
	case c.Posture:
		r.ToggleAlternatePosture()
	case c.End != nil:
		ev.Result, err = r.End(ev.At)
		if ev.Result != nil && ev.Result.Refused {
			ev.Applied = false
		}
	case c.Abort:
		err = r.Abort()
	default:
		err = fmt.Errorf("empty command")
	}
	return ev, err
}
