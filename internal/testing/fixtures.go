package testing

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/ocs-chaos/ocs-chaos/internal/k8s"
	"github.com/ocs-chaos/ocs-chaos/internal/platform/ocm"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
	"github.com/ocs-chaos/ocs-chaos/internal/store"
	"github.com/ocs-chaos/ocs-chaos/internal/util/naming"
)

// Kubeconfig is a minimal kubeconfig returned by cluster credential fixtures.
const Kubeconfig = `apiVersion: v1
kind: Config
clusters:
- name: test
  cluster:
    server: https://127.0.0.1:6443
contexts:
- name: test
  context:
    cluster: test
    user: admin
current-context: test
users:
- name: admin
  user:
    token: test-token
`

// ClusterInState returns a cluster manager response in the given state.
func ClusterInState(id, name, state string) *ocm.Cluster {
	return &ocm.Cluster{ID: id, Name: name, Status: ocm.ClusterStatus{State: state}}
}

// ReadyNodes returns n Ready node conditions.
func ReadyNodes(n int) []k8s.NodeCondition {
	nodes := make([]k8s.NodeCondition, n)
	for i := range nodes {
		nodes[i] = k8s.NodeCondition{Name: fmt.Sprintf("worker-%d", i), Ready: true}
	}
	return nodes
}

// CSV returns a ClusterServiceVersion object in the given phase.
func CSV(phase string) map[string]any {
	return map[string]any{
		"apiVersion": "operators.coreos.com/v1alpha1",
		"kind":       "ClusterServiceVersion",
		"metadata":   map[string]any{"name": "ocs-osd-deployer.v2.0.0", "namespace": "openshift-storage"},
		"status":     map[string]any{"phase": phase},
	}
}

// StorageCluster returns a StorageCluster object exposing endpoint.
func StorageCluster(endpoint string) map[string]any {
	status := map[string]any{"phase": "Ready"}
	if endpoint != "" {
		status["storageProviderEndpoint"] = endpoint
	}
	return map[string]any{
		"apiVersion": "ocs.openshift.io/v1",
		"kind":       "StorageCluster",
		"metadata":   map[string]any{"name": "ocs-storagecluster", "namespace": "openshift-storage"},
		"status":     status,
	}
}

// ReaderFactory returns a ResourceReaderFactory handing out the reader of
// the cluster whose kubeconfig is requested.
func ReaderFactory(readers map[string]provisioning.ResourceReader) provisioning.ResourceReaderFactory {
	return func(path string, _ time.Duration) (provisioning.ResourceReader, error) {
		for id, r := range readers {
			if filepath.Base(path) == naming.KubeconfigFile(id) {
				return r, nil
			}
		}
		return nil, fmt.Errorf("no reader for %s", path)
	}
}

// MemoryStore is an in-memory provisioning.ClusterStore.
type MemoryStore struct {
	mu       sync.Mutex
	clusters []store.Cluster
	// DeleteErr is returned by Delete when set.
	DeleteErr error
}

// NewMemoryStore creates a store holding clusters.
func NewMemoryStore(clusters ...store.Cluster) *MemoryStore {
	return &MemoryStore{clusters: slices.Clone(clusters)}
}

// Save implements provisioning.ClusterStore.
func (s *MemoryStore) Save(_ context.Context, c store.Cluster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.clusters {
		if s.clusters[i].ID == c.ID {
			s.clusters[i] = c
			return nil
		}
	}
	s.clusters = append(s.clusters, c)
	return nil
}

// List implements provisioning.ClusterStore.
func (s *MemoryStore) List(context.Context) ([]store.Cluster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.clusters), nil
}

// Delete implements provisioning.ClusterStore.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.clusters = slices.DeleteFunc(s.clusters, func(c store.Cluster) bool { return c.ID == id })
	return nil
}

// IDs returns the ids of the stored clusters in insertion order.
func (s *MemoryStore) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.clusters))
	for _, c := range s.clusters {
		ids = append(ids, c.ID)
	}
	return ids
}

// FakeClock is a retry.Clock that advances only when slept on.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

// NewFakeClock creates a clock at a fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now implements retry.Clock.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep implements retry.Clock without blocking.
func (c *FakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

// Sleeps returns the recorded sleep durations.
func (c *FakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.sleeps)
}
