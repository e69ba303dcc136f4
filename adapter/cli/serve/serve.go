package serve

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/chrisracha/blazor-todo/adapter/api"
	"github.com/chrisracha/blazor-todo/internal/app"
	"github.com/chrisracha/blazor-todo/pkg/config"
)

var addr string

// Cmd starts the HTTP API.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serve the task API over HTTP until interrupted.

The user of each request is read from a trusted header
(HTTP_USER_HEADER, default X-User-ID) set by the identity proxy
in front of this server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if addr != "" {
			cfg.HTTPAddr = addr
		}

		logger := app.NewLogger(cfg, cmd.OutOrStdout())

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer container.Close()

		srvCfg := api.DefaultServerConfig()
		srvCfg.Addr = cfg.HTTPAddr
		srvCfg.UserHeader = cfg.HTTPUserHeader

		srv := api.NewServer(srvCfg, container, container.Health, logger)
		if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
}
