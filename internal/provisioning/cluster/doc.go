// Package cluster requests the managed clusters of a run, waits for them to
// become ready and exports their access for follow-on tooling.
//
// A cluster is ready once the cluster manager reports it ready and every
// node's Ready condition is true. Nodes are only inspected after the
// cluster manager reports ready, since credentials may not exist earlier.
package cluster
