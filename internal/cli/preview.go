package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/varbridge/pkg/codec"
	"github.com/matzehuels/varbridge/pkg/preview"
)

func (c *CLI) previewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview COLLECTION MODE",
		Short: "Show the resolved colors of a collection mode",
		Long: `Preview prints one swatch per color variable of COLLECTION in MODE, with
aliases resolved to their final color. Both arguments accept an id or a name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			col, err := s.resolveCollection(ctx, args[0])
			if err != nil {
				return err
			}
			mode, err := s.resolveMode(ctx, col.ID, args[1])
			if err != nil {
				return err
			}
			_, _, rows, err := preview.Rows(ctx, s.ws.Store(), col.ID, mode.ModeID)
			if err != nil {
				return err
			}

			frame := preview.Layout(col.Name, mode.Name, rows)
			fmt.Fprintln(c.Out, StyleTitle.Render(frame.Name))
			if len(rows) == 0 {
				printInfo("No color values in this mode")
				return nil
			}
			for _, r := range rows {
				fmt.Fprintln(c.Out, swatchLine(r))
			}
			printDetail("%d colors, frame %gx%g", len(rows), frame.Width, frame.Height)
			return nil
		},
	}
}

func swatchLine(r preview.Row) string {
	hex := codec.FormatHex(r.Color)
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ")
	return fmt.Sprintf("%s %s %s", swatch, StyleDim.Render(hex), r.Name)
}
