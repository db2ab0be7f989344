package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/varbridge/pkg/errors"
	"github.com/matzehuels/varbridge/pkg/plugin"
)

// =============================================================================
// import
// =============================================================================

func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a variables document into the workspace",
		Long: `Import creates the collections, modes and variables of a document in the
workspace. Existing collections, modes and variables are reused by name, so
importing the same document twice creates nothing new. Use "-" to read from
stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			data, err := c.readInput(args[0])
			if err != nil {
				return err
			}
			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			prog := newProgress(c.Logger)
			sp := startSpinner(ctx, "Importing variables...")
			resp, err := s.do(ctx, plugin.Request{Type: plugin.TypeImport, Data: string(data)})
			if err != nil {
				sp.fail("Import failed")
				return err
			}
			n := resp.(plugin.ImportResponse).VariableCount
			sp.succeed("Imported %s variables into workspace %s", StyleNumber.Render(fmt.Sprint(n)), StyleHighlight.Render(s.ws.Key()))
			prog.done(fmt.Sprintf("Imported %d variables", n))
			printNextStep("List collections", "varbridge collections")
			return nil
		},
	}
}

// =============================================================================
// export
// =============================================================================

func (c *CLI) exportCommand() *cobra.Command {
	var (
		output      string
		refs        []string
		rawColors   bool
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export workspace collections as a variables document",
		Long: `Export writes the workspace collections as a portable JSON document.
Collections that alias other collections are written last so the document
can be imported again in order. Select collections by id or name with
--collection, or pick them with --interactive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			req := plugin.Request{Type: plugin.TypeExport}
			for _, ref := range refs {
				col, err := s.resolveCollection(ctx, ref)
				if err != nil {
					return err
				}
				req.SelectedCollections = append(req.SelectedCollections, plugin.CollectionRef{ID: col.ID})
			}
			if interactive {
				ids, err := c.pickCollections(ctx, s)
				if err != nil {
					return err
				}
				if ids == nil {
					printWarning("Export cancelled")
					return nil
				}
				for _, id := range ids {
					req.SelectedCollections = append(req.SelectedCollections, plugin.CollectionRef{ID: id})
				}
			}
			hex := !(rawColors || c.cfg.Export.RawColors)
			req.UseHexRef = &hex

			sp := startSpinner(ctx, "Exporting collections...")
			resp, err := s.do(ctx, req)
			sp.stop()
			if err != nil {
				return err
			}
			data := resp.(plugin.DataResponse).Data
			if !strings.HasSuffix(data, "\n") {
				data += "\n"
			}
			return c.writeOutput(output, []byte(data))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringArrayVarP(&refs, "collection", "c", nil, "collection id or name to export (repeatable)")
	cmd.Flags().BoolVar(&rawColors, "raw-colors", false, "write colors as {r,g,b,a} objects instead of hex")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "choose collections interactively")
	return cmd
}

// pickCollections runs the picker. It returns nil ids when the user quit.
func (c *CLI) pickCollections(ctx context.Context, s *session) ([]string, error) {
	resp, err := s.do(ctx, plugin.Request{Type: plugin.TypeListCollections})
	if err != nil {
		return nil, err
	}
	cols := resp.(plugin.CollectionsResponse).Collections
	if len(cols) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "workspace has no collections")
	}
	final, err := tea.NewProgram(NewCollectionPickerModel(cols), tea.WithContext(ctx), tea.WithInput(c.In), tea.WithOutput(statusOut)).Run()
	if err != nil {
		return nil, fmt.Errorf("collection picker: %w", err)
	}
	m := final.(CollectionPickerModel)
	if !m.Confirmed {
		return nil, nil
	}
	ids := m.Selected()
	if len(ids) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no collections selected")
	}
	return ids, nil
}

// =============================================================================
// collections / modes
// =============================================================================

func (c *CLI) collectionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "collections",
		Aliases: []string{"ls"},
		Short:   "List workspace collections",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			resp, err := s.do(ctx, plugin.Request{Type: plugin.TypeListCollections})
			if err != nil {
				return err
			}
			cols := resp.(plugin.CollectionsResponse).Collections
			if len(cols) == 0 {
				printInfo("Workspace %s is empty", StyleHighlight.Render(s.ws.Key()))
				printNextStep("Start from the template", "varbridge template -o tokens.json && varbridge import tokens.json")
				return nil
			}
			fmt.Fprintln(c.Out, collectionsTable(cols))
			return nil
		},
	}
}

func (c *CLI) modesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "modes COLLECTION",
		Short: "List the modes of a collection (by id or name)",
		Args:  cobra.ExactArgs(1),
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
			resp, err := s.do(ctx, plugin.Request{Type: plugin.TypeListModes, CollectionID: col.ID})
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, StyleTitle.Render(col.Name))
			fmt.Fprintln(c.Out, modesTable(resp.(plugin.ModesResponse).Modes))
			return nil
		},
	}
}

// =============================================================================
// delete-all
// =============================================================================

func (c *CLI) deleteAllCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Remove every collection from the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New(errors.ErrCodeInvalidInput, "delete-all removes every collection; pass --yes to confirm")
			}
			ctx := cmd.Context()
			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			if _, err := s.do(ctx, plugin.Request{Type: plugin.TypeDeleteAll}); err != nil {
				return err
			}
			printSuccess("Deleted all collections in workspace %s", StyleHighlight.Render(s.ws.Key()))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}

// =============================================================================
// template
// =============================================================================

func (c *CLI) templateCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the default template document",
		Args:  cobra.NoArgs,
		// The template is static and needs no workspace.
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.writeOutput(output, plugin.Template())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

// resolveCollection finds a collection by id, then by name.
func (s *session) resolveCollection(ctx context.Context, ref string) (plugin.CollectionSummary, error) {
	resp, err := s.do(ctx, plugin.Request{Type: plugin.TypeListCollections})
	if err != nil {
		return plugin.CollectionSummary{}, err
	}
	cols := resp.(plugin.CollectionsResponse).Collections
	for _, col := range cols {
		if col.ID == ref {
			return col, nil
		}
	}
	for _, col := range cols {
		if col.Name == ref {
			return col, nil
		}
	}
	return plugin.CollectionSummary{}, errors.New(errors.ErrCodeUnknownCollection, "no collection %q", ref)
}

// resolveMode finds a mode of collectionID by id, then by name.
func (s *session) resolveMode(ctx context.Context, collectionID, ref string) (plugin.ModeSummary, error) {
	resp, err := s.do(ctx, plugin.Request{Type: plugin.TypeListModes, CollectionID: collectionID})
	if err != nil {
		return plugin.ModeSummary{}, err
	}
	modes := resp.(plugin.ModesResponse).Modes
	for _, m := range modes {
		if m.ModeID == ref {
			return m, nil
		}
	}
	for _, m := range modes {
		if m.Name == ref {
			return m, nil
		}
	}
	return plugin.ModeSummary{}, errors.New(errors.ErrCodeUnknownMode, "no mode %q", ref)
}
