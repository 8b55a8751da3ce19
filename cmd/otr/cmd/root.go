package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceRoute/pkg/logging"
)

var (
	// Global flags
	verbose bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "otr",
		Short: "OpenTraceRoute - interactive track routing on KiCad boards",
		Long: `OpenTraceRoute (otr) drives the interactive track router from the command line:
  - replay routing scripts against a KiCad board and report what was committed
  - inspect per-net connectivity and the remaining ratsnest
  - try out 0/45/90 degree endpoint snapping

Examples:
  otr route board.kicad_pcb led.route           # Route and print a summary
  otr route board.kicad_pcb led.route --emit    # Also print the new segments
  otr nets board.kicad_pcb GND                  # Connectivity of one net
  otr snap 0 0 10 3                             # Snapped endpoint`,
		Version:      "0.1.0",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logging.Init(logging.HighVerbosity)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(newRouteCmd())
	root.AddCommand(newNetsCmd())
	root.AddCommand(newSnapCmd())
	return root
}

// Execute runs the root command
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
