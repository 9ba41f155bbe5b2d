package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/dashgrid/internal/server"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dashboard layouts over HTTP",
		Long: `Serve dashboard layouts over HTTP.

Every dashboard id in the request path gets its own layout, loaded from
the configured storage backend on first use. The server stops gracefully
on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			base, err := cfg.StoreOptions()
			if err != nil {
				return err
			}
			base.Logger = logger

			backend, err := openBackend(ctx, cfg.Storage)
			if err != nil {
				return err
			}
			manager := server.NewManager(backend, cfg.Storage.KeyPrefix, base)
			defer manager.Close()

			srv := server.New(manager, server.Config{
				Addr:         cfg.Server.Addr,
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				Logger:       logger,
				Kinds:        cfg.Catalog().Kinds(),
			})

			printInfo("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
			printDetail("Storage: %s", backend.Name())
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config, :8080)")

	return cmd
}
