// Package addon installs the storage addons and wires the consumer to the
// provider.
//
// The provider addon is installed first. Once its deployer reports
// Succeeded, the storage provider endpoint is read from the provider's
// StorageCluster and an onboarding ticket is generated; both are passed to
// the consumer addon as install parameters. Install requests are sent at
// most once per cluster and addon; only readiness is polled.
package addon
