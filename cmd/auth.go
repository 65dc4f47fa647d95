package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Calendar and Drive",
		Long: `Run the Google authorization flow once and store the credential.

The stored credential is reused and refreshed by "scholar serve", including
with --headless. If a usable credential already exists nothing is asked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuth(cmd)
		},
	}
}

func runAuth(cmd *cobra.Command) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := globals.newLogger(os.Stderr)

	cfg, loader, err := globals.loadConfig()
	if err != nil {
		return err
	}

	manager := newCredentialManager(cfg, loader, credentialOptions{
		prompt: cmd.ErrOrStderr(),
		logger: logger,
	})

	cred, err := manager.ObtainCredential(ctx)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Google access authorized (%d scopes granted).\n", len(cred.Scopes))
	return nil
}
