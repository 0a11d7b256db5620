package cluster

import (
	"context"
	"fmt"

	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
	"github.com/ocs-chaos/ocs-chaos/internal/util/retry"
)

// Waiter polls until the cluster of one role is ready.
type Waiter struct {
	role provisioning.Role
}

// NewWaiter creates a waiter for the cluster of role.
func NewWaiter(role provisioning.Role) *Waiter {
	return &Waiter{role: role}
}

// Name implements the provisioning.Phase interface.
func (p *Waiter) Name() string {
	return fmt.Sprintf("wait for %s cluster", p.role)
}

// Provision implements the provisioning.Phase interface.
func (p *Waiter) Provision(ctx *provisioning.Context) error {
	cluster := ctx.State.Cluster(p.role)
	if cluster.ID == "" {
		return fmt.Errorf("%w: %s cluster was never requested", provisioning.ErrValidation, p.role)
	}

	if err := ctx.WaitUntil(fmt.Sprintf("%s cluster %s", p.role, cluster.Name), ReadyCheck(ctx, cluster)); err != nil {
		return err
	}

	ctx.Event(provisioning.EventResourceReady, "cluster", cluster.Name, "id", cluster.ID)
	if p.role == provisioning.RoleProvider {
		ctx.State.Advance(provisioning.StateProviderReady)
	} else {
		ctx.State.Advance(provisioning.StateConsumerReady)
	}
	return nil
}

// ReadyCheck reports done once the cluster manager says ready and every node
// is Ready. An error or uninstalling state is terminal.
func ReadyCheck(ctx *provisioning.Context, cluster *provisioning.Cluster) retry.Check {
	return func(parent context.Context) (bool, error) {
		callCtx, cancel := ctx.Call(parent)
		defer cancel()

		current, err := ctx.Clusters.GetCluster(callCtx, cluster.ID)
		if err != nil {
			return false, keepPolling(err)
		}

		state := current.CurrentState()
		switch provisioning.ClusterStateFromOCM(state) {
		case provisioning.ClusterReady:
		case provisioning.ClusterError, provisioning.ClusterDeleted:
			cluster.State = provisioning.ClusterStateFromOCM(state)
			return false, fmt.Errorf("%w: cluster %s (%s) is in state %s: %s",
				provisioning.ErrTerminal, cluster.Name, cluster.ID, state, current.Status.Description)
		default:
			cluster.State = provisioning.ClusterProvisioning
			ctx.Log.V(1).Info("cluster not ready", "cluster", cluster.Name, "state", state)
			return false, nil
		}

		reader, err := ctx.Clients.Reader(callCtx, cluster.ID)
		if err != nil {
			return false, keepPolling(err)
		}
		nodes, err := reader.NodeReadyConditions(callCtx)
		if err != nil {
			return false, keepPolling(err)
		}
		if len(nodes) == 0 {
			ctx.Log.V(1).Info("cluster has no nodes yet", "cluster", cluster.Name)
			return false, nil
		}
		for _, n := range nodes {
			if !n.Ready {
				ctx.Log.V(1).Info("node not ready", "cluster", cluster.Name, "node", n.Name)
				return false, nil
			}
		}

		cluster.State = provisioning.ClusterReady
		return true, nil
	}
}

func keepPolling(err error) error {
	if provisioning.IsNotFound(err) {
		return nil
	}
	return err
}
