package testing

import (
	"context"
	"testing"
	"time"

	"github.com/go-logr/logr"

	"github.com/ocs-chaos/ocs-chaos/internal/config"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
	"github.com/ocs-chaos/ocs-chaos/internal/util/retry"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// Collaborators bundles the mocks behind a test provisioning.Context.
type Collaborators struct {
	Clusters *MockClusterManager
	Network  *MockNetworkManager
	Tickets  *MockTicketGenerator
	Store    *MemoryStore
	Clock    *FakeClock
	// Readers maps cluster ids to their resource readers.
	Readers map[string]provisioning.ResourceReader
}

// NewCollaborators creates fresh mocks.
func NewCollaborators() *Collaborators {
	return &Collaborators{
		Clusters: &MockClusterManager{},
		Network:  &MockNetworkManager{},
		Tickets:  &MockTicketGenerator{},
		Store:    NewMemoryStore(),
		Clock:    NewFakeClock(),
		Readers:  map[string]provisioning.ResourceReader{},
	}
}

// NewContext builds a provisioning.Context backed by c. The run directory is
// cfg.DataDir and pollers use c.Clock.
func NewContext(t *testing.T, cfg *config.Config, topology provisioning.Topology, c *Collaborators) *provisioning.Context {
	t.Helper()
	return &provisioning.Context{
		Context:     TestContext(t),
		Config:      cfg,
		Topology:    topology,
		State:       provisioning.NewState(),
		Clusters:    c.Clusters,
		Network:     c.Network,
		Tickets:     c.Tickets,
		Store:       c.Store,
		Clients:     provisioning.NewClientCache(c.Clusters, ReaderFactory(c.Readers), cfg.DataDir, cfg.Timeouts.CallTimeout),
		Log:         logr.Discard(),
		PollOptions: []retry.PollOption{retry.WithClock(c.Clock)},
	}
}
