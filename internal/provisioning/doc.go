// Package provisioning defines the phase framework of a provider/consumer
// storage cluster run.
//
// Phases share a Context carrying the run configuration, the collaborators
// (cluster manager, cloud network, cluster resources, ticket generator and
// cluster store) and the State filled in as the run progresses. RunPhases
// executes them strictly in order and stops at the first failure.
//
// The phases themselves live in subpackages:
//   - cluster: request, wait for and export the managed clusters
//   - infrastructure: security group ingress and consumer placement
//   - addon: addon installation, readiness and the provider/consumer exchange
//   - destroy: deletion of stored clusters
//
// Every readiness observation goes through Context.WaitUntil; requests that
// create something are sent at most once.
package provisioning
