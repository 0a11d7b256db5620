package provisioning

import (
	"github.com/ocs-chaos/ocs-chaos/internal/platform/ocm"
)

// Role distinguishes the two clusters and the two addons of a run.
type Role string

// Cluster and addon roles.
const (
	RoleProvider Role = "provider"
	RoleConsumer Role = "consumer"
)

// ClusterState is the lifecycle of a cluster as seen by a run.
type ClusterState string

// Cluster states.
const (
	ClusterRequested    ClusterState = "requested"
	ClusterProvisioning ClusterState = "provisioning"
	ClusterReady        ClusterState = "ready"
	ClusterError        ClusterState = "error"
	ClusterDeleted      ClusterState = "deleted"
)

// ClusterStateFromOCM folds the cluster manager's states into ClusterState.
// Everything that is neither ready, error nor being removed is still provisioning.
func ClusterStateFromOCM(state string) ClusterState {
	switch state {
	case ocm.ClusterStateReady:
		return ClusterReady
	case ocm.ClusterStateError:
		return ClusterError
	case ocm.ClusterStateUninstalling:
		return ClusterDeleted
	default:
		return ClusterProvisioning
	}
}

// Placement is the network placement a cluster is created with.
type Placement struct {
	SubnetIDs         []string `json:"subnetIDs,omitempty"`
	AvailabilityZones []string `json:"availabilityZones,omitempty"`
}

// Cluster is one managed cluster of the run.
type Cluster struct {
	Role      Role
	ID        string
	Name      string
	Placement Placement
	State     ClusterState
}

// AddonState is the lifecycle of an addon installation.
type AddonState string

// Addon states.
const (
	AddonNotInstalled AddonState = "not-installed"
	AddonInstalling   AddonState = "installing"
	AddonReady        AddonState = "ready"
	AddonError        AddonState = "error"
)

// Addon is one addon installation of the run.
type Addon struct {
	Role       Role
	ID         string
	ClusterID  string
	Parameters []ocm.AddonParameter
	State      AddonState
}

// ExchangeValues are read from the provider and handed to the consumer addon.
type ExchangeValues struct {
	StorageProviderEndpoint string
	OnboardingTicket        string
}

// Topology selects how the consumer side of a run is set up.
type Topology struct {
	Name string
	// ConsumerSizing sends size and unit parameters to the consumer addon.
	ConsumerSizing bool
}

// Supported topologies.
var (
	ChaosTopology = Topology{
		Name:           "chaos",
		ConsumerSizing: true,
	}
	ConsumerAddonTopology = Topology{
		Name: "consumer-addon",
	}
)
