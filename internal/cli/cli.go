// Package cli implements the varbridge command-line interface.
//
// Every command runs against a workspace: the in-memory host store restored
// from the configured backend before the command and saved after it when
// the command changed anything. Commands that mirror a UI command go through
// the same plugin.Handler the server uses, so the CLI behaves exactly like
// any other UI peer.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Conversion,
// workspace and command hooks are wired to the logger.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/varbridge/internal/config"
	"github.com/matzehuels/varbridge/pkg/buildinfo"
	"github.com/matzehuels/varbridge/pkg/errors"
	"github.com/matzehuels/varbridge/pkg/host/memory"
	"github.com/matzehuels/varbridge/pkg/importer"
	"github.com/matzehuels/varbridge/pkg/plugin"
	"github.com/matzehuels/varbridge/pkg/workspace"
)

const appName = "varbridge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command data (documents, DOT, SVG). Status lines go to
	// stderr.
	Out io.Writer
	In  io.Reader

	cfg        *config.Config
	configPath string
	verbose    bool
	overrides  struct {
		backend string
		path    string
		key     string
	}
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		In:     os.Stdin,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "varbridge converts variable collections to and from portable JSON",
		Long:          `varbridge imports and exports design-token variable collections (collections, modes, typed variables and aliases) as a portable JSON document.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			if err := c.loadConfig(); err != nil {
				return err
			}
			installHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/varbridge/config.toml)")
	pf.StringVar(&c.overrides.backend, "backend", "", "workspace backend: file, sqlite, redis, mongo, null")
	pf.StringVar(&c.overrides.path, "workspace-path", "", "workspace directory (file) or database file (sqlite)")
	pf.StringVarP(&c.overrides.key, "workspace", "w", "", "workspace key")

	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.collectionsCommand())
	root.AddCommand(c.modesCommand())
	root.AddCommand(c.deleteAllCommand())
	root.AddCommand(c.templateCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.workspaceCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.Out, buildinfo.String())
			return nil
		},
	}
}

// =============================================================================
// Config & Workspace
// =============================================================================

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.overrides.backend != "" {
		cfg.Workspace.Backend = c.overrides.backend
	}
	if c.overrides.path != "" {
		cfg.Workspace.Path = c.overrides.path
	}
	if c.overrides.key != "" {
		cfg.Workspace.Key = c.overrides.key
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !c.verbose {
		c.SetLogLevel(cfg.LogLevel())
	}
	c.cfg = cfg
	return nil
}

func (c *CLI) openWorkspace(ctx context.Context) (*workspace.Workspace, error) {
	backend, err := workspace.OpenBackend(ctx, c.cfg.BackendConfig())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWorkspace, err, "open %s backend", c.cfg.Workspace.Backend)
	}
	ws, err := workspace.Open(ctx, backend, c.cfg.Workspace.Key)
	if err != nil {
		backend.Close()
		return nil, err
	}
	c.Logger.Debug("workspace opened", "backend", backend.Name(), "key", ws.Key())
	return ws, nil
}

// importOptions maps the [import] config section.
func (c *CLI) importOptions() importer.Options {
	return importer.Options{
		Logger:         c.Logger,
		Pacing:         c.cfg.Import.Pacing.Duration(),
		AliasTypeColor: c.cfg.Import.AliasType == "color",
	}
}

// session is an open workspace with a handler that commits to it.
type session struct {
	ws      *workspace.Workspace
	handler *plugin.Handler
	canvas  *memory.Canvas
}

func (c *CLI) openSession(ctx context.Context) (*session, error) {
	ws, err := c.openWorkspace(ctx)
	if err != nil {
		return nil, err
	}
	s := &session{ws: ws, canvas: memory.NewCanvas()}
	s.handler = plugin.NewHandler(ws.Store(), s.canvas, plugin.Options{
		Logger: c.Logger,
		Import: c.importOptions(),
		Commit: func(ctx context.Context) error {
			wrote, err := ws.Commit(ctx)
			if wrote {
				c.Logger.Debug("workspace saved", "key", ws.Key())
			}
			return err
		},
	})
	return s, nil
}

func (s *session) close() error { return s.ws.Close() }

// do runs one command and turns an error response into an error.
func (s *session) do(ctx context.Context, req plugin.Request) (plugin.Response, error) {
	resp := s.handler.Handle(ctx, req)
	if e, ok := resp.(plugin.ErrorResponse); ok {
		return nil, errors.New(errors.Code(e.Code), "%s", e.Error)
	}
	return resp, nil
}

// writeOutput writes data to path, or to c.Out when path is empty or "-".
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}

// readInput reads path, or c.In when path is "-".
func (c *CLI) readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(c.In)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func since(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
