package cluster

import (
	"errors"
	"fmt"
	"slices"

	"github.com/ocs-chaos/ocs-chaos/internal/config"
	"github.com/ocs-chaos/ocs-chaos/internal/platform/ocm"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
	"github.com/ocs-chaos/ocs-chaos/internal/store"
	"github.com/ocs-chaos/ocs-chaos/internal/util/naming"
)

// Requester submits the creation request of one cluster.
type Requester struct {
	role provisioning.Role
}

// NewRequester creates a requester for the cluster of role.
func NewRequester(role provisioning.Role) *Requester {
	return &Requester{role: role}
}

// Name implements the provisioning.Phase interface.
func (p *Requester) Name() string {
	return fmt.Sprintf("request %s cluster", p.role)
}

// Provision implements the provisioning.Phase interface.
func (p *Requester) Provision(ctx *provisioning.Context) error {
	cluster := ctx.State.Cluster(p.role)
	if cluster.ID != "" {
		ctx.Event(provisioning.EventResourceExists, "cluster", cluster.Name, "id", cluster.ID)
		return nil
	}

	name, err := clusterName(p.role, ctx.Config.Clusters)
	if err != nil {
		return err
	}
	placement := Placement(p.role, ctx.Config.AWS, ctx.State.SiblingPlacement)
	req := Request(name, ctx.Config, placement)

	// The request carries the cloud account secret.
	if _, err := ctx.WriteSecretJSON(naming.ClusterRequestFile(name), req); err != nil {
		return err
	}

	ctx.Event(provisioning.EventResourceCreating, "cluster", name,
		"subnets", placement.SubnetIDs, "zones", placement.AvailabilityZones)
	callCtx, cancel := ctx.Call(ctx)
	defer cancel()
	created, err := ctx.Clusters.CreateCluster(callCtx, req)
	if errors.Is(err, ocm.ErrEmptyResponse) {
		return fmt.Errorf("%w: creation of cluster %s: %w", provisioning.ErrValidation, name, err)
	}
	if err != nil {
		return err
	}
	if created == nil || created.ID == "" {
		return fmt.Errorf("%w: creation of cluster %s returned no id", provisioning.ErrValidation, name)
	}

	cluster.ID = created.ID
	cluster.Name = name
	cluster.Placement = placement
	cluster.State = provisioning.ClusterRequested
	ctx.Metrics.ClusterRequested(p.role)

	if err := ctx.Store.Save(callCtx, store.Cluster{ID: created.ID, Name: name, Role: string(p.role)}); err != nil {
		return fmt.Errorf("failed to record cluster %s: %w", created.ID, err)
	}
	ctx.Event(provisioning.EventResourceCreated, "cluster", name, "id", created.ID)

	if p.role == provisioning.RoleProvider {
		ctx.State.Advance(provisioning.StateProviderRequested)
	} else {
		ctx.State.Advance(provisioning.StateConsumerRequested)
	}
	return nil
}

func clusterName(role provisioning.Role, cfg config.ClusterConfig) (string, error) {
	if role == provisioning.RoleProvider {
		return naming.ClusterName(cfg.ProviderName, config.ProviderNamePrefix)
	}
	return naming.ClusterName(cfg.ConsumerName, config.ConsumerNamePrefix)
}

// Placement returns the subnets and zones of a new cluster. The provider uses
// the configured defaults. The consumer inherits the provider's subnets and
// zones, each falling back to the defaults when the sibling has none.
func Placement(role provisioning.Role, cfg config.AWSConfig, sibling provisioning.Placement) provisioning.Placement {
	if role == provisioning.RoleProvider {
		return provisioning.Placement{
			SubnetIDs:         slices.Clone(cfg.SubnetIDs),
			AvailabilityZones: slices.Clone(cfg.AvailabilityZones),
		}
	}

	return provisioning.Placement{
		SubnetIDs:         firstNonEmpty(sibling.SubnetIDs, cfg.SubnetIDs),
		AvailabilityZones: firstNonEmpty(sibling.AvailabilityZones, cfg.AvailabilityZones),
	}
}

// Request builds the creation request of a cluster.
func Request(name string, cfg *config.Config, placement provisioning.Placement) ocm.ClusterRequest {
	subnets := placement.SubnetIDs
	if subnets == nil {
		subnets = []string{}
	}
	return ocm.ClusterRequest{
		Name: name,
		AWS: ocm.AWSSettings{
			AccessKeyID:     cfg.AWS.AccessKeyID,
			AccountID:       cfg.AWS.AccountID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			SubnetIDs:       subnets,
		},
		CCS:           ocm.Enabled{Enabled: true},
		CloudProvider: ocm.Reference{ID: "aws"},
		Nodes: ocm.NodesSettings{
			Compute:            cfg.Clusters.ComputeNodes,
			ComputeMachineType: ocm.Reference{ID: cfg.Clusters.ComputeMachineType},
			AvailabilityZones:  placement.AvailabilityZones,
		},
		Region: ocm.Reference{ID: cfg.AWS.Region},
	}
}

// firstNonEmpty returns a copy of the first list that has entries.
func firstNonEmpty(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return slices.Clone(l)
		}
	}
	return nil
}
