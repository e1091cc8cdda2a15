package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the MongoDB indexes",
		Long:  "Create every collection index the API relies on. Safe to run repeatedly.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runMigrate(ctx, cmd)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall deadline")

	return cmd
}

func runMigrate(ctx context.Context, cmd *cobra.Command) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := openApp(ctx, cfg, log, false)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	if err := a.repos.EnsureIndexes(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "indexes are up to date")
	return nil
}
