// Package commands defines the CLI command structure.
//
// Commands take no flags: every setting is read from the environment by the
// handlers package, which also executes the commands.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the ocs-chaos CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ocs-chaos",
		Short: "Provision OCS provider and consumer clusters for chaos testing",
		// main prints the error.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(Chaos())
	cmd.AddCommand(ConsumerAddon())
	cmd.AddCommand(Cleanup())
	cmd.AddCommand(Version())

	return cmd
}
