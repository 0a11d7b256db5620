package cluster

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ocs-chaos/ocs-chaos/internal/provisioning"
	"github.com/ocs-chaos/ocs-chaos/internal/util/naming"
)

// Exporter copies each cluster's kubeconfig to a role-named file in the run
// directory, where the fault injection tooling picks it up.
type Exporter struct{}

// NewExporter creates the export phase.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Name implements the provisioning.Phase interface.
func (p *Exporter) Name() string {
	return "export access"
}

// Provision implements the provisioning.Phase interface.
func (p *Exporter) Provision(ctx *provisioning.Context) error {
	for _, role := range []provisioning.Role{provisioning.RoleProvider, provisioning.RoleConsumer} {
		cluster := ctx.State.Cluster(role)
		if cluster.State != provisioning.ClusterReady {
			return fmt.Errorf("%w: %s cluster is not ready", provisioning.ErrValidation, role)
		}

		callCtx, cancel := ctx.Call(ctx)
		src, err := ctx.Clients.Kubeconfig(callCtx, cluster.ID)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to get kubeconfig of %s cluster: %w", role, err)
		}
		data, err := os.ReadFile(src) // #nosec G304 -- path is inside the run directory
		if err != nil {
			return fmt.Errorf("failed to read kubeconfig %s: %w", src, err)
		}

		dst := filepath.Join(ctx.Config.DataDir, naming.SharedKubeconfigFile(string(role)))
		if err := provisioning.WriteFile(dst, data, 0o600); err != nil {
			return err
		}
		ctx.State.SharedKubeconfigs[role] = dst
		ctx.Event(provisioning.EventResourceCreated, "kubeconfig", dst, "cluster", cluster.ID)
	}

	ctx.State.Advance(provisioning.StateDone)
	return nil
}
