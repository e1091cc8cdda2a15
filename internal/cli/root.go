// Package cli defines the cobra command tree for the sublet marketplace.
package cli

import (
	"github.com/spf13/cobra"
)

var flagLogLevel string

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sublet",
		Short:         "Student housing sublet marketplace",
		Long:          "Runs the sublet marketplace API and its maintenance tasks. Configuration comes from the environment or a .env file.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override LOG_LEVEL (trace|debug|info|warn|error)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newCreateAdminCmd(),
		newVersionCmd(),
	)

	return root
}
