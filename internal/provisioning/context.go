package provisioning

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"

	"github.com/ocs-chaos/ocs-chaos/internal/config"
	"github.com/ocs-chaos/ocs-chaos/internal/util/retry"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	Topology Topology
	State    *State

	Clusters ClusterManager
	Network  NetworkManager
	Tickets  TicketGenerator
	Store    ClusterStore
	Clients  *ClientCache

	Metrics *Metrics
	Log     logr.Logger

	// PollOptions are passed to every poller built by WaitUntil.
	PollOptions []retry.PollOption
}

// Call derives the context for one collaborator call, bounded by the
// configured call timeout.
func (c *Context) Call(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Config.Timeouts.CallTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Config.Timeouts.CallTimeout)
}

// WaitUntil polls check with the configured policy. Each attempt is counted
// under name.
func (c *Context) WaitUntil(name string, check retry.Check) error {
	poller, err := retry.NewPoller(c.Config.Timeouts.PollTimeout, c.Config.Timeouts.PollInterval, c.PollOptions...)
	if err != nil {
		return err
	}

	attempt := 0
	err = poller.WaitUntil(c, func(ctx context.Context) (bool, error) {
		attempt++
		c.Metrics.pollAttempt(name)
		c.Log.V(1).Info("polling", "check", name, "attempt", attempt, "of", poller.Attempts())
		return check(ctx)
	})
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", name, err)
	}
	return nil
}

// WriteSecretJSON writes v as indented JSON readable by the owner only.
func (c *Context) WriteSecretJSON(name string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}
	path := filepath.Join(c.Config.DataDir, name)
	if err := WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFile writes data and forces perm, which os.WriteFile leaves alone
// for files that already exist.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	return nil
}
