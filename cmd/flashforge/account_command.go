package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/flashforge/flashforge-api/internal/domain"
	"github.com/flashforge/flashforge-api/internal/platform/postgres"
	"github.com/flashforge/flashforge-api/internal/service"
	"github.com/flashforge/flashforge-api/internal/service/auth"
)

// subscriptionSetter toggles the subscription flag of an account.
// *service.AccountServiceImpl implements it.
type subscriptionSetter interface {
	SetSubscription(ctx context.Context, username string, subscribed bool) (*domain.Account, error)
}

func newAccountCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage account subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newSubscriptionCommand(ctx, "subscribe", "Mark an account as subscribed", true))
	cmd.AddCommand(newSubscriptionCommand(ctx, "unsubscribe", "Clear the subscription of an account", false))
	return cmd
}

func newSubscriptionCommand(ctx *commandContext, use, short string, subscribed bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := ctx.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			tokens, err := auth.NewJWTService(cfg.Auth)
			if err != nil {
				return fmt.Errorf("failed to initialize JWT service: %w", err)
			}
			accounts := service.NewAccountService(
				postgres.NewPostgresAccountStore(db),
				auth.NewBcryptHasher(cfg.Auth.BcryptCost),
				tokens,
				cfg.Auth.TrialDuration(),
				log,
			)
			return setSubscription(cmd.Context(), cmd.OutOrStdout(), accounts, args[0], subscribed)
		},
	}
}

func setSubscription(
	ctx context.Context,
	out io.Writer,
	accounts subscriptionSetter,
	username string,
	subscribed bool,
) error {
	account, err := accounts.SetSubscription(ctx, username, subscribed)
	if err != nil {
		return err
	}

	now := time.Now()
	fmt.Fprintf(out, "account %s (%s): subscribed=%t trial_ends_at=%s generation_allowed=%t\n",
		account.Username,
		account.ID,
		account.IsSubscribed,
		account.TrialEndDate.UTC().Format(time.RFC3339),
		account.CanGenerate(now))
	return nil
}
