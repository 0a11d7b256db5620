package infrastructure

import (
	"fmt"

	"github.com/ocs-chaos/ocs-chaos/internal/platform/aws"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
	"github.com/ocs-chaos/ocs-chaos/internal/util/naming"
)

// Firewall authorizes the storage ingress rules on the provider's worker
// security group.
type Firewall struct{}

// NewFirewall creates the network authorization phase.
func NewFirewall() *Firewall {
	return &Firewall{}
}

// Name implements the provisioning.Phase interface.
func (p *Firewall) Name() string {
	return "authorize network"
}

// Provision implements the provisioning.Phase interface.
func (p *Firewall) Provision(ctx *provisioning.Context) error {
	provider := ctx.State.Cluster(provisioning.RoleProvider)
	if provider.State != provisioning.ClusterReady {
		return fmt.Errorf("%w: provider cluster is not ready", provisioning.ErrValidation)
	}

	callCtx, cancel := ctx.Call(ctx)
	defer cancel()

	glob := naming.WorkerSecurityGroupGlob(provider.Name)
	groups, err := ctx.Network.FindSecurityGroups(callCtx, glob)
	if err != nil {
		return err
	}
	switch len(groups) {
	case 0:
		return fmt.Errorf("%w: no security group matches %s", provisioning.ErrValidation, glob)
	case 1:
	default:
		return fmt.Errorf("%w: %d security groups match %s: %v", provisioning.ErrValidation, len(groups), glob, groups)
	}
	groupID := groups[0]

	rules := aws.ProviderIngressRules()
	applied, err := ctx.Network.AuthorizeIngress(callCtx, groupID, rules)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("%w: ingress rules were not applied to %s", provisioning.ErrTerminal, groupID)
	}

	ctx.State.SecurityGroupID = groupID
	ctx.Log.Info("ingress authorized", "securityGroup", groupID, "rules", len(rules), "cidr", aws.ProviderCIDR)
	ctx.State.Advance(provisioning.StateNetworkAuthorized)
	return nil
}
