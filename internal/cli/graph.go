package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/varbridge/pkg/exporter"
	"github.com/matzehuels/varbridge/pkg/render/aliasgraph"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

func (c *CLI) graphCommand() *cobra.Command {
	var (
		format string
		output string
		opts   aliasgraph.Options
	)
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the alias graph of the workspace",
		Long: `Graph draws one node per variable, grouped by collection, with an edge
from each aliasing variable to its target. Output is Graphviz DOT or SVG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if format != formatDOT && format != formatSVG {
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatDOT, formatSVG)
			}
			ws, err := c.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			doc, err := exporter.Export(ctx, ws.Store(), exporter.Options{Logger: c.Logger})
			if err != nil {
				return err
			}
			dot := aliasgraph.ToDOT(doc, opts)
			if format == formatDOT {
				return c.writeOutput(output, []byte(dot))
			}

			prog := newProgress(c.Logger)
			svg, err := aliasgraph.RenderSVG(ctx, dot)
			if err != nil {
				return err
			}
			prog.done("Rendered alias graph")
			return c.writeOutput(output, svg)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatDOT, "output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "add the variable type to node labels")
	cmd.Flags().BoolVar(&opts.Flat, "flat", false, "do not group nodes by collection")
	return cmd
}
