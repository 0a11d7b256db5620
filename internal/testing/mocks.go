package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ocs-chaos/ocs-chaos/internal/k8s"
	"github.com/ocs-chaos/ocs-chaos/internal/platform/aws"
	"github.com/ocs-chaos/ocs-chaos/internal/platform/ocm"
)

// MockClusterManager is a mock implementation of provisioning.ClusterManager.
type MockClusterManager struct {
	mock.Mock
}

// CreateCluster submits a mock cluster creation request.
func (m *MockClusterManager) CreateCluster(ctx context.Context, req ocm.ClusterRequest) (*ocm.Cluster, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ocm.Cluster), args.Error(1)
}

// GetCluster returns a mock cluster.
func (m *MockClusterManager) GetCluster(ctx context.Context, id string) (*ocm.Cluster, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ocm.Cluster), args.Error(1)
}

// GetCredentials returns mock cluster credentials.
func (m *MockClusterManager) GetCredentials(ctx context.Context, id string) (*ocm.Credentials, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ocm.Credentials), args.Error(1)
}

// CreateAddonInstallation submits a mock addon install request.
func (m *MockClusterManager) CreateAddonInstallation(ctx context.Context, clusterID string, req ocm.AddonInstallation) (*ocm.AddonInstallation, error) {
	args := m.Called(ctx, clusterID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ocm.AddonInstallation), args.Error(1)
}

// DeleteCluster deletes a mock cluster.
func (m *MockClusterManager) DeleteCluster(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNetworkManager is a mock implementation of provisioning.NetworkManager.
type MockNetworkManager struct {
	mock.Mock
}

// FindSecurityGroups returns mock security group ids.
func (m *MockNetworkManager) FindSecurityGroups(ctx context.Context, glob string) ([]string, error) {
	args := m.Called(ctx, glob)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// AuthorizeIngress applies mock ingress rules.
func (m *MockNetworkManager) AuthorizeIngress(ctx context.Context, groupID string, rules []aws.IngressRule) (bool, error) {
	args := m.Called(ctx, groupID, rules)
	return args.Bool(0), args.Error(1)
}

// FindSubnets returns mock subnets.
func (m *MockNetworkManager) FindSubnets(ctx context.Context, glob string) ([]aws.Subnet, error) {
	args := m.Called(ctx, glob)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]aws.Subnet), args.Error(1)
}

// MockResourceReader is a mock implementation of provisioning.ResourceReader.
type MockResourceReader struct {
	mock.Mock
}

// GetCustomResource returns a mock resource.
func (m *MockResourceReader) GetCustomResource(ctx context.Context, req k8s.ResourceRequest) (map[string]any, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

// ListCustomResources returns mock resources.
func (m *MockResourceReader) ListCustomResources(ctx context.Context, req k8s.ResourceRequest) ([]map[string]any, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

// NodeReadyConditions returns mock node conditions.
func (m *MockResourceReader) NodeReadyConditions(ctx context.Context) ([]k8s.NodeCondition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]k8s.NodeCondition), args.Error(1)
}

// MockTicketGenerator is a mock implementation of provisioning.TicketGenerator.
type MockTicketGenerator struct {
	mock.Mock
}

// Generate returns a mock onboarding ticket.
func (m *MockTicketGenerator) Generate(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
