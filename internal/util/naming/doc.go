// Package naming generates cluster names and derives the names of files and
// cloud resources that belong to a cluster.
//
// Cluster names are limited to [MaxClusterNameLength] characters, so
// generated names are always exactly that long: a caller supplied prefix, a
// dash and a random lowercase alphanumeric suffix.
package naming
