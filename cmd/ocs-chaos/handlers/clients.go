// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/ocs-chaos/ocs-chaos/internal/config"
	"github.com/ocs-chaos/ocs-chaos/internal/platform/aws"
	"github.com/ocs-chaos/ocs-chaos/internal/platform/ocm"
	"github.com/ocs-chaos/ocs-chaos/internal/platform/s3"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
	"github.com/ocs-chaos/ocs-chaos/internal/store"
	"github.com/ocs-chaos/ocs-chaos/internal/ticket"
)

// EnvFile is loaded into the environment before the configuration is read.
const EnvFile = ".env"

// Files kept in the run directory besides the ones the phases write.
const (
	sessionFile = "ocm.json"
	storeFile   = "clusters.db"
)

// pushJob is the Pushgateway job name of run metrics.
const pushJob = "ocs_chaos"

// clusterStore is the cluster store as the handlers own it.
type clusterStore interface {
	provisioning.ClusterStore
	Close() error
}

// archiver uploads run artifacts.
type archiver interface {
	Archive(ctx context.Context, bucket, runID string, files []string) ([]string, error)
}

// Factory function variables - can be replaced in tests.
var (
	loadConfig = func() (*config.Config, error) {
		return config.Load(EnvFile)
	}

	newClusterManager = func(ctx context.Context, cfg *config.Config, log logr.Logger) (provisioning.ClusterManager, error) {
		session, err := ocm.LoadOrCreateSession(filepath.Join(cfg.DataDir, sessionFile), ocm.SessionConfig{
			ClientID:     cfg.OCM.ClientID,
			RefreshToken: cfg.OCM.RefreshToken,
			TokenURL:     cfg.OCM.TokenURL,
			URL:          cfg.OCM.URL,
		})
		if err != nil {
			return nil, err
		}
		client, err := ocm.NewClient(ctx, session, ocm.WithTimeout(cfg.Timeouts.CallTimeout), ocm.WithLogger(log))
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	newNetworkManager = func(ctx context.Context, cfg *config.Config, log logr.Logger) (provisioning.NetworkManager, error) {
		client, err := aws.NewClient(ctx, cfg.AWS.Region, cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	newTicketGenerator = func(cfg *config.Config, log logr.Logger) (provisioning.TicketGenerator, error) {
		return ticket.New(cfg.Onboarding, cfg.DataDir, cfg.Timeouts.CallTimeout, log)
	}

	openStore = func(cfg *config.Config, log logr.Logger) (clusterStore, error) {
		s, err := store.Open(filepath.Join(cfg.DataDir, storeFile), log)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	newResourceReaders provisioning.ResourceReaderFactory = provisioning.NewK8sReader

	newArchiver = func(ctx context.Context, cfg *config.Config, log logr.Logger) (archiver, error) {
		client, err := s3.NewClient(ctx, cfg.AWS.Region, cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, log)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	pushMetrics = func(ctx context.Context, url string, g prometheus.Gatherer, grouping map[string]string) error {
		pusher := push.New(url, pushJob).Gatherer(g)
		for name, value := range grouping {
			pusher = pusher.Grouping(name, value)
		}
		return pusher.PushContext(ctx)
	}

	newRunID = uuid.NewString

	stderr io.Writer = os.Stderr
)

// prepare loads the configuration, checks it with validate, creates the run
// directory and opens the logger.
func prepare(validate func(*config.Config) error) (*config.Config, logr.Logger, io.Closer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, logr.Discard(), nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, logr.Discard(), nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, logr.Discard(), nil, fmt.Errorf("failed to create run directory %s: %w", cfg.DataDir, err)
	}

	log, logFile, err := newLogger(cfg, stderr)
	if err != nil {
		return nil, logr.Discard(), nil, err
	}
	return cfg, log, logFile, nil
}
