package provisioning

import (
	"context"
	"time"

	"github.com/ocs-chaos/ocs-chaos/internal/k8s"
	"github.com/ocs-chaos/ocs-chaos/internal/platform/aws"
	"github.com/ocs-chaos/ocs-chaos/internal/platform/ocm"
	"github.com/ocs-chaos/ocs-chaos/internal/store"
)

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// ClusterManager creates, inspects and deletes managed clusters.
// Implemented by internal/platform/ocm.Client.
type ClusterManager interface {
	CreateCluster(ctx context.Context, req ocm.ClusterRequest) (*ocm.Cluster, error)
	GetCluster(ctx context.Context, id string) (*ocm.Cluster, error)
	GetCredentials(ctx context.Context, id string) (*ocm.Credentials, error)
	CreateAddonInstallation(ctx context.Context, clusterID string, req ocm.AddonInstallation) (*ocm.AddonInstallation, error)
	DeleteCluster(ctx context.Context, id string) error
}

// NetworkManager looks up and opens the cloud network of a cluster.
// Implemented by internal/platform/aws.Client.
type NetworkManager interface {
	FindSecurityGroups(ctx context.Context, glob string) ([]string, error)
	AuthorizeIngress(ctx context.Context, groupID string, rules []aws.IngressRule) (bool, error)
	FindSubnets(ctx context.Context, glob string) ([]aws.Subnet, error)
}

// ResourceReader reads resources from one cluster.
// Implemented by internal/k8s.Client.
type ResourceReader interface {
	GetCustomResource(ctx context.Context, req k8s.ResourceRequest) (map[string]any, error)
	ListCustomResources(ctx context.Context, req k8s.ResourceRequest) ([]map[string]any, error)
	NodeReadyConditions(ctx context.Context) ([]k8s.NodeCondition, error)
}

// ResourceReaderFactory builds a ResourceReader from a kubeconfig file.
type ResourceReaderFactory func(kubeconfigPath string, timeout time.Duration) (ResourceReader, error)

// TicketGenerator produces consumer onboarding tickets.
// Implemented by internal/ticket.
type TicketGenerator interface {
	Generate(ctx context.Context) (string, error)
}

// ClusterStore remembers the clusters a run created.
// Implemented by internal/store.Store.
type ClusterStore interface {
	Save(ctx context.Context, c store.Cluster) error
	List(ctx context.Context) ([]store.Cluster, error)
	Delete(ctx context.Context, id string) error
}

// NewK8sReader is the default ResourceReaderFactory.
func NewK8sReader(kubeconfigPath string, timeout time.Duration) (ResourceReader, error) {
	return k8s.NewClient(kubeconfigPath, timeout)
}
