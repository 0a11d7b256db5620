package handlers

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ocs-chaos/ocs-chaos/internal/config"
	"github.com/ocs-chaos/ocs-chaos/internal/orchestration"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
)

// Cleanup handles the cleanup command.
//
// It deletes every cluster recorded in the run directory's cluster store.
// Only the cluster manager settings are required.
func Cleanup(ctx context.Context) error {
	cfg, log, logFile, err := prepare((*config.Config).ValidateCleanup)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	clusters, err := newClusterManager(ctx, cfg, log)
	if err != nil {
		log.Error(err, "failed to set up cluster manager client")
		return err
	}
	st, err := openStore(cfg, log)
	if err != nil {
		log.Error(err, "failed to open cluster store")
		return err
	}
	defer func() { _ = st.Close() }()

	registry := prometheus.NewRegistry()
	orch := orchestration.New(cfg, orchestration.Dependencies{Clusters: clusters, Store: st},
		orchestration.WithLogger(log),
		orchestration.WithMetrics(provisioning.NewMetrics(registry)),
	)

	err = orch.Cleanup(ctx)
	if err != nil {
		log.Error(err, "cleanup failed")
	} else {
		log.Info("cleanup finished")
	}

	publish(ctx, cfg, log, registry, "cleanup", nil)
	return err
}
