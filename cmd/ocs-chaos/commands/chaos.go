package commands

import (
	"github.com/spf13/cobra"

	"github.com/ocs-chaos/ocs-chaos/cmd/ocs-chaos/handlers"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
)

// Chaos returns the chaos command.
func Chaos() *cobra.Command {
	return &cobra.Command{
		Use:   "chaos",
		Short: "Provision a provider and a sized consumer cluster",
		Long: `Chaos provisions a storage provider cluster and a storage consumer
cluster and connects them through the OCS addons.

The run proceeds in order:
  - Create the provider cluster and wait until all nodes are Ready
  - Open the provider worker security group to the storage ports
  - Create the consumer cluster in the provider's subnets
  - Install the provider addon and read its storage endpoint
  - Generate an onboarding ticket and install the sized consumer addon
  - Export both kubeconfigs into the run directory

Every created cluster is recorded so that "ocs-chaos cleanup" can remove it.
A summary of the run is written to run.yaml in the run directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Provision(cmd.Context(), provisioning.ChaosTopology)
		},
	}
}
