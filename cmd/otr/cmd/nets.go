package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/board"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/kicad/pcb"
	"github.com/OpenTraceLab/OpenTraceRoute/pkg/logging"
)

func newNetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nets <board_file> [net_name]",
		Short: "Show net connectivity",
		Long: `Display the connectivity of the nets in a PCB file.

Without net_name: Lists all nets with pad/track counts and missing connections
With net_name: Shows detailed information for that specific net`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			net := ""
			if len(args) > 1 {
				net = args[1]
			}
			return runNets(cmd.OutOrStdout(), args[0], net)
		},
	}
}

func runNets(w io.Writer, boardFile, netName string) error {
	b, err := pcb.LoadFile(boardFile)
	if err != nil {
		return fmt.Errorf("error loading board: %w", err)
	}
	conn := board.NewConnectivity(b)
	p := &printer{w: w}

	if netName != "" {
		net, ok := b.NetByName(netName)
		if !ok {
			return logging.ReturnErrorf("net %q not found", netName)
		}
		showNet(p, b, conn.Recompute(net.Code))
		return p.err
	}

	conn.RecomputeAll()
	p.line("%s", titleStyle.Render(fmt.Sprintf("%-20s %6s %6s %9s", "NET", "PADS", "TRACKS", "UNROUTED")))
	for _, s := range conn.Statuses() {
		row := fmt.Sprintf("%-20s %6d %6d %9d", b.NetName(s.Net), s.Pads, s.Tracks, s.Unrouted)
		if s.Routed() {
			p.line("%s", row)
		} else {
			p.line("%s", warnStyle.Render(row))
		}
	}
	p.line("%s", dimStyle.Render(fmt.Sprintf("%d unrouted connections", conn.Unrouted())))
	return p.err
}

func showNet(p *printer, b *board.Board, s board.NetStatus) {
	net, _ := b.NetByCode(s.Net)
	p.line("%s", titleStyle.Render("Net "+net.Name))

	lines := []string{
		field("Code", net.Code),
		field("Class", net.Class),
		field("Width", fmt.Sprintf("%gmm", pcb.ToMM(b.TrackWidth(net.Code)))),
		field("Pads", s.Pads),
		field("Tracks", s.Tracks),
		field("Clusters", s.Clusters),
		field("Unrouted", s.Unrouted),
		field("Status", status(s.Routed(), "routed", "incomplete")),
	}
	for _, pad := range b.NetPads(s.Net) {
		lines = append(lines, fmt.Sprintf("  pad %s at (%g, %g)",
			pad.Name(), pcb.ToMM(pad.Position.X), pcb.ToMM(pad.Position.Y)))
	}
	p.block(lines...)
}
