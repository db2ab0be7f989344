package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/varbridge/pkg/workspace"
)

func (c *CLI) workspaceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Inspect or reset the workspace",
	}
	cmd.AddCommand(c.workspaceInfoCommand())
	cmd.AddCommand(c.workspaceResetCommand())
	return cmd
}

func (c *CLI) workspaceInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "info",
		Aliases: []string{"path"},
		Short:   "Show where the workspace is stored",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := c.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			cols, err := ws.Store().ListCollections(ctx)
			if err != nil {
				return err
			}
			printKeyValue(c.Out, "Key", ws.Key())
			printKeyValue(c.Out, "Backend", ws.Backend().Name())
			switch b := ws.Backend().(type) {
			case *workspace.FileBackend:
				printKeyValue(c.Out, "Path", b.Path(ws.Key()))
			case *workspace.SQLiteBackend:
				printKeyValue(c.Out, "Database", b.Path())
			}
			printKeyValue(c.Out, "Collections", fmt.Sprint(len(cols)))
			return nil
		},
	}
}

func (c *CLI) workspaceResetCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored workspace snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset discards workspace %q; pass --yes to confirm", c.cfg.Workspace.Key)
			}
			ctx := cmd.Context()
			ws, err := c.openWorkspace(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			if err := ws.Reset(ctx); err != nil {
				return err
			}
			printSuccess("Reset workspace %s", StyleHighlight.Render(ws.Key()))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm reset")
	return cmd
}
