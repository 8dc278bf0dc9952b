package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, log, db, err := ctx.openDatabase(runCtx)
			if err != nil {
				return err
			}

			app, err := newApplication(runCtx, cfg, log, db)
			if err != nil {
				_ = db.Close()
				return err
			}
			return app.Run(runCtx)
		},
	}
}
