package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/geom"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/kicad/pcb"
)

func newSnapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snap <origin_x> <origin_y> <cursor_x> <cursor_y>",
		Short: "Snap a segment end to 0, 45 or 90 degrees",
		Long: `Prints where a track starting at the origin and heading for the cursor ends
when constrained to horizontal, vertical or 45 degree diagonal. Coordinates
are millimetres; put -- before the arguments when any of them is negative.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v [4]float64
			for i, a := range args {
				f, err := strconv.ParseFloat(a, 64)
				if err != nil {
					return fmt.Errorf("invalid coordinate %q: %w", a, err)
				}
				v[i] = f
			}
			origin := geom.Pt(pcb.ToNM(v[0]), pcb.ToNM(v[1]))
			cursor := geom.Pt(pcb.ToNM(v[2]), pcb.ToNM(v[3]))
			return runSnap(cmd.OutOrStdout(), origin, cursor)
		},
	}
}

func runSnap(w io.Writer, origin, cursor geom.Point) error {
	end := geom.SnapEndpoint(cursor, origin)
	p := &printer{w: w}
	p.block(
		field("Angle", geom.Classify(origin, cursor).String()+" deg"),
		field("End", fmt.Sprintf("(%g, %g)", pcb.ToMM(end.X), pcb.ToMM(end.Y))),
	)
	return p.err
}
