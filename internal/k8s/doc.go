// Package k8s reads resources from the managed clusters.
//
// The provisioning flow only observes clusters: it lists node conditions,
// reads the storage operator's ClusterServiceVersions and the StorageCluster
// status. Custom resources are read through the dynamic client so no
// operator API types need to be vendored.
package k8s
