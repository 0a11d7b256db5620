package provisioning

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ocs-chaos/ocs-chaos/internal/util/naming"
)

// ClientCache builds one ResourceReader per cluster and keeps it for the
// lifetime of an Orchestrator. Kubeconfigs are fetched from the cluster
// manager on first use and kept in the run directory.
type ClientCache struct {
	clusters ClusterManager
	factory  ResourceReaderFactory
	dir      string
	timeout  time.Duration
	readers  map[string]ResourceReader
}

// NewClientCache creates an empty cache writing kubeconfigs to dir.
func NewClientCache(clusters ClusterManager, factory ResourceReaderFactory, dir string, timeout time.Duration) *ClientCache {
	return &ClientCache{
		clusters: clusters,
		factory:  factory,
		dir:      dir,
		timeout:  timeout,
		readers:  make(map[string]ResourceReader),
	}
}

// Reader returns the ResourceReader of a cluster.
func (c *ClientCache) Reader(ctx context.Context, clusterID string) (ResourceReader, error) {
	if r, ok := c.readers[clusterID]; ok {
		return r, nil
	}

	path, err := c.Kubeconfig(ctx, clusterID)
	if err != nil {
		return nil, err
	}
	r, err := c.factory(path, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for cluster %s: %w", clusterID, err)
	}
	c.readers[clusterID] = r
	return r, nil
}

// Kubeconfig returns the path of a cluster's kubeconfig, fetching it when
// it is not on disk yet.
func (c *ClientCache) Kubeconfig(ctx context.Context, clusterID string) (string, error) {
	path := filepath.Join(c.dir, naming.KubeconfigFile(clusterID))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	creds, err := c.clusters.GetCredentials(ctx, clusterID)
	if err != nil {
		return "", err
	}
	if creds == nil || creds.Kubeconfig == "" {
		return "", fmt.Errorf("%w: credentials of cluster %s carry no kubeconfig", ErrNotFound, clusterID)
	}
	if err := WriteFile(path, []byte(creds.Kubeconfig), 0o600); err != nil {
		return "", err
	}
	return path, nil
}
