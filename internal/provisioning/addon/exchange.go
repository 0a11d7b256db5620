package addon

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
)

// Exchange reads the values the consumer addon needs from the provider.
type Exchange struct{}

// NewExchange creates the exchange phase.
func NewExchange() *Exchange {
	return &Exchange{}
}

// Name implements the provisioning.Phase interface.
func (p *Exchange) Name() string {
	return "resolve exchange values"
}

// Provision implements the provisioning.Phase interface.
func (p *Exchange) Provision(ctx *provisioning.Context) error {
	addon := ctx.State.Addon(provisioning.RoleProvider)
	if addon.State != provisioning.AddonReady {
		return fmt.Errorf("%w: provider addon is not ready", provisioning.ErrValidation)
	}

	endpoint, err := p.storageProviderEndpoint(ctx, addon.ClusterID)
	if err != nil {
		return err
	}

	ticket, err := ctx.Tickets.Generate(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate onboarding ticket: %w", err)
	}
	if ticket == "" {
		return fmt.Errorf("%w: onboarding ticket is empty", provisioning.ErrValidation)
	}

	ctx.State.Exchange = provisioning.ExchangeValues{
		StorageProviderEndpoint: endpoint,
		OnboardingTicket:        ticket,
	}
	ctx.Log.Info("exchange values resolved", "storageProviderEndpoint", endpoint)
	ctx.State.Advance(provisioning.StateExchangeResolved)
	return nil
}

func (p *Exchange) storageProviderEndpoint(ctx *provisioning.Context, clusterID string) (string, error) {
	callCtx, cancel := ctx.Call(ctx)
	defer cancel()

	reader, err := ctx.Clients.Reader(callCtx, clusterID)
	if err != nil {
		return "", err
	}
	obj, err := reader.GetCustomResource(callCtx, storageCluster)
	if err != nil {
		return "", fmt.Errorf("failed to read storage provider endpoint: %w", err)
	}

	endpoint, found, err := unstructured.NestedString(obj, "status", "storageProviderEndpoint")
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", provisioning.ErrValidation, storageCluster, err)
	}
	if !found || endpoint == "" {
		return "", fmt.Errorf("%w: %s has no status.storageProviderEndpoint", provisioning.ErrValidation, storageCluster)
	}
	return endpoint, nil
}
