package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/matzehuels/varbridge/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workspace over HTTP and WebSocket",
		Long: `Serve exposes the workspace to a UI peer. /ws speaks the message protocol
(one JSON request per text message, one response each) and /api maps every
command to a REST route. Changes are saved to the workspace backend as they
happen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if cmd.Flags().Changed("host") {
				c.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				if port < 1 || port > 65535 {
					return errors.New("port must be between 1 and 65535")
				}
				c.cfg.Server.Port = port
			}

			s, err := c.openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			cfg := server.DefaultConfig()
			cfg.Addr = c.cfg.Addr()
			srv := server.New(cfg, s.handler, s.ws.Store(), c.Logger)

			printInfo("Serving workspace %s on %s", StyleHighlight.Render(s.ws.Key()), StyleValue.Render("http://"+cfg.Addr))
			printDetail("websocket ws://%s/ws", cfg.Addr)
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	return cmd
}
