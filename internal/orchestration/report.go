package orchestration

import (
	"fmt"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
)

// ReportFile is the run report's file name inside the run directory.
const ReportFile = "run.yaml"

// RunReport summarizes a run for the fault injection tooling. It never carries
// credentials or onboarding tickets.
type RunReport struct {
	Topology                string            `json:"topology"`
	State                   string            `json:"state"`
	FailedPhase             string            `json:"failedPhase,omitempty"`
	Error                   string            `json:"error,omitempty"`
	Provider                ClusterReport     `json:"provider"`
	Consumer                ClusterReport     `json:"consumer"`
	SecurityGroupID         string            `json:"securityGroupID,omitempty"`
	StorageProviderEndpoint string            `json:"storageProviderEndpoint,omitempty"`
	Kubeconfigs             map[string]string `json:"kubeconfigs,omitempty"`
	FinishedAt              time.Time         `json:"finishedAt"`
}

// ClusterReport describes one cluster and its addon.
type ClusterReport struct {
	ID         string                 `json:"id,omitempty"`
	Name       string                 `json:"name,omitempty"`
	State      string                 `json:"state,omitempty"`
	Placement  provisioning.Placement `json:"placement"`
	Addon      string                 `json:"addon,omitempty"`
	AddonState string                 `json:"addonState,omitempty"`
}

// NewReport builds the report of a run that ended with err.
func NewReport(topology provisioning.Topology, state *provisioning.State, err error) *RunReport {
	r := &RunReport{
		Topology:                topology.Name,
		State:                   state.Phase.String(),
		FailedPhase:             state.Failed,
		Provider:                clusterReport(state, provisioning.RoleProvider),
		Consumer:                clusterReport(state, provisioning.RoleConsumer),
		SecurityGroupID:         state.SecurityGroupID,
		StorageProviderEndpoint: state.Exchange.StorageProviderEndpoint,
		FinishedAt:              time.Now().UTC(),
	}
	if err != nil {
		r.Error = err.Error()
	}
	if len(state.SharedKubeconfigs) > 0 {
		r.Kubeconfigs = make(map[string]string, len(state.SharedKubeconfigs))
		for role, path := range state.SharedKubeconfigs {
			r.Kubeconfigs[string(role)] = path
		}
	}
	return r
}

func clusterReport(state *provisioning.State, role provisioning.Role) ClusterReport {
	c := state.Cluster(role)
	a := state.Addon(role)
	return ClusterReport{
		ID:         c.ID,
		Name:       c.Name,
		State:      string(c.State),
		Placement:  c.Placement,
		Addon:      a.ID,
		AddonState: string(a.State),
	}
}

// WriteReport writes r as YAML to path.
func WriteReport(path string, r *RunReport) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode run report: %w", err)
	}
	return provisioning.WriteFile(path, data, 0o600)
}
