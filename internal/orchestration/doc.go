// Package orchestration provides high-level workflow coordination for a
// provisioning run.
//
// It wires the collaborators into a provisioning.Context and delegates the
// actual work to the phases in the internal/provisioning subpackages.
//
// # Workflow
//
// Run executes the following phases in order:
//  1. Request and wait for the provider cluster
//  2. Authorize the storage ports on the provider's worker security group
//  3. Resolve the provider's subnets and zones
//  4. Request and wait for the consumer cluster, placed next to the provider
//  5. Install and wait for the provider addon
//  6. Read the storage provider endpoint and generate an onboarding ticket
//  7. Install and wait for the consumer addon
//  8. Export both kubeconfigs
//
// A run report is written to the run directory whether or not the run
// succeeded. Cleanup deletes every cluster recorded in the cluster store.
//
// # Usage
//
//	o := orchestration.New(cfg, orchestration.Dependencies{...})
//	state, err := o.Run(ctx, provisioning.ChaosTopology)
package orchestration
