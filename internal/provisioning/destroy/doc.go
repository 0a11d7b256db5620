// Package destroy handles cluster teardown.
//
// It deletes every cluster recorded in the cluster store. Clusters the
// cluster manager no longer knows are skipped. A store entry is removed
// once its deletion has been attempted, whatever the outcome, and the first
// deletion error stops the teardown.
package destroy
