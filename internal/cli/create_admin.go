package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/campusnest/sublet-market/internal/core/ports"
	"github.com/campusnest/sublet-market/internal/core/service"
)

func newCreateAdminCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long:  "Create a pre-verified account with the ADMIN role. Admins moderate reports, listings and users.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || email == "" || password == "" {
				return errors.New("--name, --email and --password are required")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			return runCreateAdmin(ctx, cmd, ports.RegisterInput{Name: name, Email: email, Password: password})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "initial password (8 to 72 bytes)")

	return cmd
}

func runCreateAdmin(ctx context.Context, cmd *cobra.Command, input ports.RegisterInput) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := openApp(ctx, cfg, log, false)
	if err != nil {
		return err
	}
	defer a.close(context.Background())

	// Admin accounts are created verified, so no token store or mailer is
	// involved.
	auth := service.NewAuthService(a.repos.Users, nil, nil, cfg.JWTSecret, cfg.JWTTTL, cfg.BaseURL, log)
	user, err := auth.CreateAdmin(ctx, input)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Email, user.ID)
	return nil
}
