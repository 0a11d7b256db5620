package orchestration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	"github.com/ocs-chaos/ocs-chaos/internal/config"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning/addon"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning/cluster"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning/destroy"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning/infrastructure"
	"github.com/ocs-chaos/ocs-chaos/internal/util/retry"
)

// Dependencies are the collaborators of an Orchestrator.
type Dependencies struct {
	Clusters provisioning.ClusterManager
	Network  provisioning.NetworkManager
	Tickets  provisioning.TicketGenerator
	Store    provisioning.ClusterStore
	// Readers builds cluster resource readers. Defaults to provisioning.NewK8sReader.
	Readers provisioning.ResourceReaderFactory
}

// Orchestrator runs provisioning and cleanup.
type Orchestrator struct {
	config  *config.Config
	deps    Dependencies
	clients *provisioning.ClientCache

	metrics     *provisioning.Metrics
	log         logr.Logger
	pollOptions []retry.PollOption
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics records run metrics.
func WithMetrics(m *provisioning.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithPollOptions passes options to every readiness poller.
func WithPollOptions(opts ...retry.PollOption) Option {
	return func(o *Orchestrator) { o.pollOptions = append(o.pollOptions, opts...) }
}

// New creates an Orchestrator. Resource readers are cached per cluster for
// the lifetime of the Orchestrator.
func New(cfg *config.Config, deps Dependencies, opts ...Option) *Orchestrator {
	if deps.Readers == nil {
		deps.Readers = provisioning.NewK8sReader
	}
	o := &Orchestrator{
		config: cfg,
		deps:   deps,
		log:    logr.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.clients = provisioning.NewClientCache(deps.Clusters, deps.Readers, cfg.DataDir, cfg.Timeouts.CallTimeout)
	return o
}

// Phases returns the ordered phases of a provisioning run.
func Phases() []provisioning.Phase {
	return []provisioning.Phase{
		cluster.NewRequester(provisioning.RoleProvider),
		cluster.NewWaiter(provisioning.RoleProvider),
		infrastructure.NewFirewall(),
		infrastructure.NewNetwork(),
		cluster.NewRequester(provisioning.RoleConsumer),
		cluster.NewWaiter(provisioning.RoleConsumer),
		addon.NewInstaller(provisioning.RoleProvider),
		addon.NewWaiter(provisioning.RoleProvider),
		addon.NewExchange(),
		addon.NewInstaller(provisioning.RoleConsumer),
		addon.NewWaiter(provisioning.RoleConsumer),
		cluster.NewExporter(),
	}
}

// Run provisions a provider and a consumer cluster with their addons. The
// returned state reflects how far the run got, also on failure.
func (o *Orchestrator) Run(ctx context.Context, topology provisioning.Topology) (*provisioning.State, error) {
	if err := os.MkdirAll(o.config.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create run directory %s: %w", o.config.DataDir, err)
	}

	state := provisioning.NewState()
	pCtx := o.newContext(ctx, topology, state)
	runErr := provisioning.RunPhases(pCtx, Phases())

	reportPath := filepath.Join(o.config.DataDir, ReportFile)
	if err := WriteReport(reportPath, NewReport(topology, state, runErr)); err != nil {
		o.log.Error(err, "failed to write run report", "path", reportPath)
		runErr = errors.Join(runErr, err)
	}
	return state, runErr
}

// Cleanup deletes every cluster in the cluster store.
func (o *Orchestrator) Cleanup(ctx context.Context) error {
	pCtx := o.newContext(ctx, provisioning.Topology{Name: "cleanup"}, provisioning.NewState())
	return provisioning.RunPhases(pCtx, []provisioning.Phase{destroy.NewProvisioner()})
}

func (o *Orchestrator) newContext(ctx context.Context, topology provisioning.Topology, state *provisioning.State) *provisioning.Context {
	return &provisioning.Context{
		Context:     ctx,
		Config:      o.config,
		Topology:    topology,
		State:       state,
		Clusters:    o.deps.Clusters,
		Network:     o.deps.Network,
		Tickets:     o.deps.Tickets,
		Store:       o.deps.Store,
		Clients:     o.clients,
		Metrics:     o.metrics,
		Log:         o.log.WithValues("topology", topology.Name),
		PollOptions: o.pollOptions,
	}
}
