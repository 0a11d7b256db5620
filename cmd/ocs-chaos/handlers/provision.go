package handlers

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ocs-chaos/ocs-chaos/internal/config"
	"github.com/ocs-chaos/ocs-chaos/internal/orchestration"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
)

// publishTimeout bounds pushing metrics and archiving artifacts after a run.
const publishTimeout = 2 * time.Minute

// Provision handles the chaos and consumer-addon commands.
//
// It provisions the provider and consumer clusters for topology and writes
// the run report. Metrics are pushed and non-secret artifacts archived when
// configured, whether or not the run succeeded.
func Provision(ctx context.Context, topology provisioning.Topology) error {
	cfg, log, logFile, err := prepare((*config.Config).ValidateProvisioning)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	deps, closeDeps, err := provisioningDependencies(ctx, cfg, log)
	if err != nil {
		log.Error(err, "failed to set up clients")
		return err
	}
	defer closeDeps()

	registry := prometheus.NewRegistry()
	orch := orchestration.New(cfg, deps,
		orchestration.WithLogger(log),
		orchestration.WithMetrics(provisioning.NewMetrics(registry)),
	)

	log.Info("starting run", "topology", topology.Name, "dataDir", cfg.DataDir)
	state, runErr := orch.Run(ctx, topology)
	if runErr != nil {
		log.Error(runErr, "run failed", "failedPhase", failedPhase(state))
	} else {
		log.Info("run finished",
			"provider", state.Provider.ID,
			"consumer", state.Consumer.ID,
			"report", filepath.Join(cfg.DataDir, orchestration.ReportFile))
	}

	publish(ctx, cfg, log, registry, topology.Name, runArtifacts(cfg))
	return runErr
}

// provisioningDependencies creates the run's collaborators. The returned
// function closes them.
func provisioningDependencies(ctx context.Context, cfg *config.Config, log logr.Logger) (orchestration.Dependencies, func(), error) {
	clusters, err := newClusterManager(ctx, cfg, log)
	if err != nil {
		return orchestration.Dependencies{}, nil, err
	}
	network, err := newNetworkManager(ctx, cfg, log)
	if err != nil {
		return orchestration.Dependencies{}, nil, err
	}
	tickets, err := newTicketGenerator(cfg, log)
	if err != nil {
		return orchestration.Dependencies{}, nil, err
	}
	st, err := openStore(cfg, log)
	if err != nil {
		return orchestration.Dependencies{}, nil, err
	}

	deps := orchestration.Dependencies{
		Clusters: clusters,
		Network:  network,
		Tickets:  tickets,
		Store:    st,
		Readers:  newResourceReaders,
	}
	return deps, func() { _ = st.Close() }, nil
}

func failedPhase(state *provisioning.State) string {
	if state == nil {
		return ""
	}
	return state.Failed
}

// runArtifacts lists the run directory files that carry no secrets.
func runArtifacts(cfg *config.Config) []string {
	return []string{
		filepath.Join(cfg.DataDir, orchestration.ReportFile),
		filepath.Join(cfg.DataDir, storeFile),
		LogFilePath(cfg),
	}
}

// publish pushes run metrics and archives files when configured. Failures
// are logged and never change the outcome of the command.
func publish(ctx context.Context, cfg *config.Config, log logr.Logger, g prometheus.Gatherer, topology string, files []string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if cfg.PushgatewayURL != "" {
		err := pushMetrics(ctx, cfg.PushgatewayURL, g, map[string]string{"topology": topology})
		if err != nil {
			log.Error(err, "failed to push metrics", "url", cfg.PushgatewayURL)
		}
	}

	if cfg.ArchiveBucket == "" || len(files) == 0 {
		return
	}
	if err := archive(ctx, cfg, log, files); err != nil {
		log.Error(err, "failed to archive run artifacts", "bucket", cfg.ArchiveBucket)
	}
}

func archive(ctx context.Context, cfg *config.Config, log logr.Logger, files []string) error {
	a, err := newArchiver(ctx, cfg, log)
	if err != nil {
		return err
	}
	runID := newRunID()
	keys, err := a.Archive(ctx, cfg.ArchiveBucket, runID, files)
	if err != nil {
		return fmt.Errorf("archived %d of %d artifacts: %w", len(keys), len(files), err)
	}
	log.Info("archived run artifacts", "bucket", cfg.ArchiveBucket, "runID", runID, "objects", len(keys))
	return nil
}
