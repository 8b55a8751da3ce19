package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/board"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/logging"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/router"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/script"
)

type routeOptions struct {
	settings string
	emit     bool
	noDRC    bool
}

func newRouteCmd() *cobra.Command {
	opts := &routeOptions{}
	cmd := &cobra.Command{
		Use:   "route <board_file> <script_file>",
		Short: "Replay a routing script on a board",
		Long: `Loads a KiCad board, replays a routing script against it and reports the
segments each route committed, the old tracks it erased and the ratsnest
left afterwards. Script coordinates are millimetres from the board's grid
origin.

Script commands:
  layer "F.Cu"     - select the active copper layer
  width 0.25       - set the track width in mm
  begin x y        - start a route
  move x y         - move the cursor
  extend x y       - move the cursor and fix the current segment
  corner           - insert a 45 degree corner before the tail
  posture          - flip the break point of the two segment mode
  end x y          - finish and commit the route
  abort            - drop the route in progress`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.settings, "settings", "s", "", "router settings file (TOML)")
	cmd.Flags().BoolVar(&opts.emit, "emit", false, "print the committed segments as KiCad s-expressions")
	cmd.Flags().BoolVar(&opts.noDRC, "no-drc", false, "route without clearance checks")
	return cmd
}

func runRoute(w io.Writer, boardFile, scriptFile string, opts *routeOptions) error {
	b, err := pcb.LoadFile(boardFile)
	if err != nil {
		return fmt.Errorf("error loading board: %w", err)
	}

	settings := router.DefaultSettings()
	if opts.settings != "" {
		if settings, err = router.LoadSettings(opts.settings); err != nil {
			return fmt.Errorf("error loading settings: %w", err)
		}
	}
	if opts.noDRC {
		settings.DRC = false
	}
	logging.Infof("settings: drc=%v 45deg=%v two-segment=%v auto-corner=%v grid=%d",
		settings.DRC, settings.Use45DegreeTracks, settings.UseTwoSegmentTracks,
		settings.AutoCorner45, settings.GridSize)

	s, err := script.ParseFile(scriptFile)
	if err != nil {
		return fmt.Errorf("error reading script: %w", err)
	}

	conn := board.NewConnectivity(b)
	conn.RecomputeAll()
	before := conn.Unrouted()

	r, err := router.New(b, settings, router.WithConnectivity(conn))
	if err != nil {
		return err
	}

	rep := &routeReport{p: &printer{w: w}, board: b}
	rep.header(boardFile, s, before)

	err = script.Run(r, s, func(ev script.Event) {
		logging.Debugf("line %d: %s %v applied=%v", ev.Line, ev.Op, ev.At, ev.Applied)
		rep.event(ev)
	})
	if err != nil {
		return fmt.Errorf("error running script: %w", err)
	}
	if r.State() == router.Routing {
		logging.Warnf("script ended with a route in progress, aborting it")
		if err := r.Abort(); err != nil {
			return err
		}
	}

	conn.RecomputeAll()
	rep.summary(conn, before)
	if rep.p.err != nil {
		return rep.p.err
	}

	if opts.emit {
		if err := pcb.EncodeTracks(w, b, rep.onBoard()); err != nil {
			return fmt.Errorf("error writing segments: %w", err)
		}
	}
	return nil
}

// routeReport prints one block per finished route.
type routeReport struct {
	p         *printer
	board     *board.Board
	routes    int
	committed []*board.Track
}

func (rr *routeReport) header(boardFile string, s *script.Script, unrouted int) {
	b := rr.board
	rr.p.line("%s", titleStyle.Render("Routing "+b.Name))
	rr.p.block(
		field("Board", boardFile),
		field("Nets", len(b.Nets)),
		field("Tracks", b.TrackCount()),
		field("Commands", len(s.Commands)),
		field("Unrouted", unrouted),
	)
}

func (rr *routeReport) event(ev script.Event) {
	switch {
	case ev.Op == "end" && ev.Result != nil && ev.Result.Refused:
		lines := []string{warnStyle.Render(fmt.Sprintf("line %d: end at %s refused", ev.Line, rr.mm(ev.At)))}
		for _, v := range ev.Result.Violations {
			lines = append(lines, dimStyle.Render("  "+v.String()))
		}
		rr.p.block(lines...)
	case ev.Op == "end" && ev.Result != nil:
		rr.finished(ev)
	case !ev.Applied:
		rr.p.block(dimStyle.Render(fmt.Sprintf("line %d: %s declined", ev.Line, ev.Op)))
	}
}

func (rr *routeReport) finished(ev script.Event) {
	res := ev.Result
	if len(res.Committed) == 0 {
		rr.p.block(dimStyle.Render(fmt.Sprintf("line %d: route ended without segments", ev.Line)))
		return
	}

	rr.routes++
	rr.committed = append(rr.committed, res.Committed...)
	b := rr.board
	rr.p.line("%s", titleStyle.Render(fmt.Sprintf("Route %d", rr.routes))+
		dimStyle.Render(fmt.Sprintf(" (line %d)", ev.Line)))

	lines := []string{
		field("Net", b.NetName(res.Net)),
		field("Committed", len(res.Committed)),
	}
	for _, t := range res.Committed {
		lines = append(lines, fmt.Sprintf("  %s -> %s  %s  %gmm",
			rr.mm(t.Start), rr.mm(t.End), b.LayerName(t.Layer), pcb.ToMM(t.Width)))
	}
	if len(res.Erased) > 0 {
		lines = append(lines, field("Erased", len(res.Erased)))
	}
	rr.p.block(lines...)
}

func (rr *routeReport) summary(conn *board.Connectivity, before int) {
	after := conn.Unrouted()
	rr.p.line("%s", titleStyle.Render("Summary"))
	rr.p.block(
		field("Routes", rr.routes),
		field("Tracks", rr.board.TrackCount()),
		field("Unrouted", fmt.Sprintf("%d (was %d)", after, before)),
		field("Status", status(after == 0, "fully routed", "incomplete")),
	)
}

// onBoard returns the committed segments a later route did not erase.
func (rr *routeReport) onBoard() []*board.Track {
	var out []*board.Track
	for _, t := range rr.committed {
		if rr.board.Track(t.ID) != nil {
			out = append(out, t)
		}
	}
	return out
}

// mm formats p in millimetres relative to the grid origin.
func (rr *routeReport) mm(p geom.Point) string {
	d := p.Sub(rr.board.GridOrigin)
	return fmt.Sprintf("(%g, %g)", pcb.ToMM(d.X), pcb.ToMM(d.Y))
}
