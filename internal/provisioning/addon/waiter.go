package addon

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
	"github.com/ocs-chaos/ocs-chaos/internal/util/retry"
)

// Waiter polls until the addon of one role reports Succeeded.
type Waiter struct {
	role provisioning.Role
}

// NewWaiter creates a waiter for the addon of role.
func NewWaiter(role provisioning.Role) *Waiter {
	return &Waiter{role: role}
}

// Name implements the provisioning.Phase interface.
func (p *Waiter) Name() string {
	return fmt.Sprintf("wait for %s addon", p.role)
}

// Provision implements the provisioning.Phase interface.
func (p *Waiter) Provision(ctx *provisioning.Context) error {
	addon := ctx.State.Addon(p.role)
	if addon.State == provisioning.AddonNotInstalled || addon.ClusterID == "" {
		return fmt.Errorf("%w: %s addon was never requested", provisioning.ErrValidation, p.role)
	}

	if err := ctx.WaitUntil(fmt.Sprintf("%s addon %s", p.role, addon.ID), ReadyCheck(ctx, addon)); err != nil {
		return err
	}

	ctx.Event(provisioning.EventResourceReady, "addon", addon.ID, "cluster", addon.ClusterID)
	if p.role == provisioning.RoleProvider {
		ctx.State.Advance(provisioning.StateProviderAddonReady)
	} else {
		ctx.State.Advance(provisioning.StateConsumerAddonReady)
	}
	return nil
}

// ReadyCheck observes the deployer ClusterServiceVersion on the addon's
// cluster. A missing CSV keeps polling; a Failed one is terminal.
func ReadyCheck(ctx *provisioning.Context, addon *provisioning.Addon) retry.Check {
	return func(parent context.Context) (bool, error) {
		callCtx, cancel := ctx.Call(parent)
		defer cancel()

		reader, err := ctx.Clients.Reader(callCtx, addon.ClusterID)
		if err != nil {
			return false, keepPolling(err)
		}
		items, err := reader.ListCustomResources(callCtx, deployerCSVs)
		if err != nil {
			return false, keepPolling(err)
		}
		if len(items) == 0 {
			ctx.Log.V(1).Info("deployer not found", "addon", addon.ID, "cluster", addon.ClusterID)
			return false, nil
		}

		phase, _, _ := unstructured.NestedString(items[0], "status", "phase")
		switch phase {
		case csvPhaseSucceeded:
			addon.State = provisioning.AddonReady
			return true, nil
		case csvPhaseFailed:
			addon.State = provisioning.AddonError
			return false, fmt.Errorf("%w: addon %s on cluster %s reported phase %s", provisioning.ErrTerminal, addon.ID, addon.ClusterID, phase)
		default:
			ctx.Log.V(1).Info("deployer not ready", "addon", addon.ID, "phase", phase)
			return false, nil
		}
	}
}

// keepPolling swallows not-found errors so the poller retries them.
func keepPolling(err error) error {
	if provisioning.IsNotFound(err) {
		return nil
	}
	return err
}
