package addon

import (
	"errors"
	"fmt"

	"github.com/ocs-chaos/ocs-chaos/internal/platform/ocm"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
	"github.com/ocs-chaos/ocs-chaos/internal/util/naming"
)

// Installer requests the addon installation of one role.
type Installer struct {
	role provisioning.Role
}

// NewInstaller creates an installer for the addon of role.
func NewInstaller(role provisioning.Role) *Installer {
	return &Installer{role: role}
}

// Name implements the provisioning.Phase interface.
func (p *Installer) Name() string {
	return fmt.Sprintf("install %s addon", p.role)
}

// Provision implements the provisioning.Phase interface.
func (p *Installer) Provision(ctx *provisioning.Context) error {
	cluster := ctx.State.Cluster(p.role)
	if cluster.ID == "" || cluster.State != provisioning.ClusterReady {
		return fmt.Errorf("%w: %s cluster is not ready for addon installation", provisioning.ErrValidation, p.role)
	}

	id := addonID(p.role, ctx.Config.Addons)
	addon := ctx.State.Addon(p.role)
	if ctx.State.InstallRequested(cluster.ID, id) {
		ctx.Event(provisioning.EventResourceExists, "addon", id, "cluster", cluster.ID)
		return nil
	}

	params, err := Parameters(p.role, ctx.Config, ctx.Topology, ctx.State.Exchange)
	if err != nil {
		return err
	}
	req := ocm.AddonInstallation{
		Addon:      ocm.Reference{ID: id},
		Parameters: ocm.AddonParameters{Items: params},
	}
	// Parameters carry the onboarding ticket.
	if _, err := ctx.WriteSecretJSON(naming.AddonRequestFile(id), req); err != nil {
		return err
	}

	ctx.Event(provisioning.EventResourceCreating, "addon", id, "cluster", cluster.ID)
	callCtx, cancel := ctx.Call(ctx)
	defer cancel()
	ack, err := ctx.Clusters.CreateAddonInstallation(callCtx, cluster.ID, req)
	ctx.State.MarkInstallRequested(cluster.ID, id)
	if errors.Is(err, ocm.ErrEmptyResponse) {
		return fmt.Errorf("%w: %w", provisioning.ErrValidation, err)
	}
	if err != nil {
		return err
	}
	if ack == nil || ack.ID == "" {
		return fmt.Errorf("%w: install of addon %s on cluster %s was not acknowledged", provisioning.ErrValidation, id, cluster.ID)
	}

	addon.ID = id
	addon.ClusterID = cluster.ID
	addon.Parameters = params
	addon.State = provisioning.AddonInstalling
	ctx.Event(provisioning.EventResourceCreated, "addon", id, "cluster", cluster.ID, "state", ack.State)

	if p.role == provisioning.RoleProvider {
		ctx.State.Advance(provisioning.StateProviderAddonInstalling)
	} else {
		ctx.State.Advance(provisioning.StateConsumerAddonInstalling)
	}
	return nil
}
