package destroy

import (
	"context"
	"errors"
	"fmt"

	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
	"github.com/ocs-chaos/ocs-chaos/internal/store"
)

// Cleanup results recorded in metrics.
const (
	resultDeleted  = "deleted"
	resultNotFound = "not-found"
	resultFailed   = "failed"
)

// Provisioner handles cluster destruction.
type Provisioner struct{}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "cleanup"
}

// Provision deletes all stored clusters.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	clusters, err := ctx.Store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stored clusters: %w", err)
	}
	if len(clusters) == 0 {
		ctx.Log.Info("no clusters to clean up")
		return nil
	}

	for _, c := range clusters {
		deleteErr := p.deleteCluster(ctx, c)
		if err := ctx.Store.Delete(context.WithoutCancel(ctx), c.ID); err != nil {
			return errors.Join(deleteErr, fmt.Errorf("failed to forget cluster %s: %w", c.ID, err))
		}
		if deleteErr != nil {
			return deleteErr
		}
	}
	return nil
}

func (p *Provisioner) deleteCluster(ctx *provisioning.Context, c store.Cluster) error {
	ctx.Event(provisioning.EventResourceDeleting, "cluster", c.Name, "id", c.ID, "role", c.Role)

	callCtx, cancel := ctx.Call(ctx)
	defer cancel()
	err := ctx.Clusters.DeleteCluster(callCtx, c.ID)
	switch {
	case err == nil:
		ctx.Metrics.CleanupResult(resultDeleted)
		ctx.Event(provisioning.EventResourceDeleted, "cluster", c.Name, "id", c.ID)
		return nil
	case provisioning.IsNotFound(err):
		ctx.Metrics.CleanupResult(resultNotFound)
		ctx.Event(provisioning.EventResourceMissing, "cluster", c.Name, "id", c.ID)
		return nil
	default:
		ctx.Metrics.CleanupResult(resultFailed)
		return fmt.Errorf("failed to delete cluster %s (%s): %w", c.Name, c.ID, err)
	}
}
