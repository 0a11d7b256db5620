package commands

import (
	"github.com/spf13/cobra"

	"github.com/ocs-chaos/ocs-chaos/cmd/ocs-chaos/handlers"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
)

// ConsumerAddon returns the consumer-addon command.
func ConsumerAddon() *cobra.Command {
	return &cobra.Command{
		Use:   "consumer-addon",
		Short: "Provision a provider and a consumer cluster sharing its zones",
		Long: `ConsumerAddon provisions the same cluster pair as "chaos", but places the
consumer in the provider's availability zones as well as its subnets and
installs the consumer addon without size parameters.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), provisioning.ConsumerAddonTopology)
		},
	}
}
