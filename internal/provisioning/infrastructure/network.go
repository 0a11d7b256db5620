package infrastructure

import (
	"fmt"
	"slices"

	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
	"github.com/ocs-chaos/ocs-chaos/internal/util/naming"
)

// Network reads the provider's subnets and zones so the consumer can be
// placed next to it.
type Network struct{}

// NewNetwork creates the placement phase.
func NewNetwork() *Network {
	return &Network{}
}

// Name implements the provisioning.Phase interface.
func (p *Network) Name() string {
	return "resolve placement"
}

// Provision implements the provisioning.Phase interface.
func (p *Network) Provision(ctx *provisioning.Context) error {
	provider := ctx.State.Cluster(provisioning.RoleProvider)
	if provider.Name == "" {
		return fmt.Errorf("%w: provider cluster was never requested", provisioning.ErrValidation)
	}

	callCtx, cancel := ctx.Call(ctx)
	defer cancel()

	glob := naming.SubnetGlob(provider.Name)
	subnets, err := ctx.Network.FindSubnets(callCtx, glob)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(subnets))
	zones := make([]string, 0, len(subnets))
	for _, s := range subnets {
		ids = append(ids, s.ID)
		zones = append(zones, s.AvailabilityZone)
	}
	placement := provisioning.Placement{
		SubnetIDs:         sortedUnique(ids),
		AvailabilityZones: sortedUnique(zones),
	}
	if len(placement.SubnetIDs) == 0 {
		ctx.Log.Info("no subnets match, consumer falls back to configured placement", "glob", glob)
	}

	ctx.State.SiblingPlacement = placement
	ctx.Log.Info("placement resolved", "subnets", placement.SubnetIDs, "zones", placement.AvailabilityZones)
	ctx.State.Advance(provisioning.StatePlacementResolved)
	return nil
}

// sortedUnique returns the distinct non-empty values in ascending order.
func sortedUnique(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
