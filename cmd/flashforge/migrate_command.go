package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/flashforge/flashforge-api/internal/platform/postgres"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down|status|version>",
		Short:     "Apply or inspect database migrations",
		Args:      validMigrationArgs,
		ValidArgs: postgres.MigrationCommands,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, db, err := ctx.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			log.Info("executing migrations", "command", args[0])
			return postgres.Migrate(cmd.Context(), db, args[0], log)
		},
	}
}

// validMigrationArgs accepts exactly one known migration command.
func validMigrationArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected one migration command, one of %v", postgres.MigrationCommands)
	}
	if !slices.Contains(postgres.MigrationCommands, args[0]) {
		return fmt.Errorf("unknown migration command %q, expected one of %v", args[0], postgres.MigrationCommands)
	}
	return nil
}
