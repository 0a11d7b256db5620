package addon

import (
	"fmt"

	"github.com/ocs-chaos/ocs-chaos/internal/config"
	"github.com/ocs-chaos/ocs-chaos/internal/k8s"
	"github.com/ocs-chaos/ocs-chaos/internal/platform/ocm"
	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
)

// Addon install parameter ids.
const (
	ParamSize                    = "size"
	ParamUnit                    = "unit"
	ParamOnboardingValidationKey = "onboarding-validation-key"
	ParamStorageProviderEndpoint = "storage-provider-endpoint"
	ParamOnboardingTicket        = "onboarding-ticket"
)

// StorageNamespace is where the storage addons install their operators.
const StorageNamespace = "openshift-storage"

// Phases reported by the deployer's ClusterServiceVersion.
const (
	csvPhaseSucceeded = "Succeeded"
	csvPhaseFailed    = "Failed"
)

var (
	deployerCSVs = k8s.ResourceRequest{
		Group:         "operators.coreos.com",
		Version:       "v1alpha1",
		Resource:      "clusterserviceversions",
		Namespace:     StorageNamespace,
		LabelSelector: "operators.coreos.com/ocs-osd-deployer.openshift-storage",
	}
	storageCluster = k8s.ResourceRequest{
		Group:     "ocs.openshift.io",
		Version:   "v1",
		Resource:  "storageclusters",
		Namespace: StorageNamespace,
		Name:      "ocs-storagecluster",
	}
)

// addonID maps a role to the configured addon id.
func addonID(role provisioning.Role, cfg config.AddonConfig) string {
	if role == provisioning.RoleProvider {
		return cfg.ProviderID
	}
	return cfg.ConsumerID
}

// Parameters builds the ordered install parameters for role.
func Parameters(role provisioning.Role, cfg *config.Config, topology provisioning.Topology, exchange provisioning.ExchangeValues) ([]ocm.AddonParameter, error) {
	switch role {
	case provisioning.RoleProvider:
		return providerParameters(cfg), nil
	case provisioning.RoleConsumer:
		return consumerParameters(cfg, topology, exchange)
	default:
		return nil, fmt.Errorf("unknown addon role %q", role)
	}
}

func providerParameters(cfg *config.Config) []ocm.AddonParameter {
	return []ocm.AddonParameter{
		{ID: ParamSize, Value: cfg.Addons.ProviderSize},
		{ID: ParamOnboardingValidationKey, Value: cfg.Onboarding.PublicKey},
	}
}

func consumerParameters(cfg *config.Config, topology provisioning.Topology, exchange provisioning.ExchangeValues) ([]ocm.AddonParameter, error) {
	if exchange.StorageProviderEndpoint == "" || exchange.OnboardingTicket == "" {
		return nil, fmt.Errorf("%w: consumer addon needs the storage provider endpoint and an onboarding ticket", provisioning.ErrValidation)
	}

	var params []ocm.AddonParameter
	if topology.ConsumerSizing {
		params = append(params,
			ocm.AddonParameter{ID: ParamSize, Value: cfg.Addons.ConsumerSize},
			ocm.AddonParameter{ID: ParamUnit, Value: cfg.Addons.ConsumerUnit},
		)
	}
	return append(params,
		ocm.AddonParameter{ID: ParamStorageProviderEndpoint, Value: exchange.StorageProviderEndpoint},
		ocm.AddonParameter{ID: ParamOnboardingTicket, Value: exchange.OnboardingTicket},
	), nil
}
