package commands

import (
	"github.com/spf13/cobra"

	"github.com/ocs-chaos/ocs-chaos/cmd/ocs-chaos/handlers"
)

// Cleanup returns the cleanup command.
func Cleanup() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete every cluster created by previous runs",
		Long: `Cleanup deletes every cluster recorded in the run directory's cluster store.

Clusters that no longer exist are skipped. Cleanup stops at the first
deletion that fails; the remaining clusters stay recorded so that cleanup
can be run again.

WARNING: This operation is irreversible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Cleanup(cmd.Context())
		},
	}
}
