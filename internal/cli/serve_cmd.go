package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GTD-web/ems-backend-sub025/internal/app/server"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := server.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Run(ctx)
		},
	}
}
