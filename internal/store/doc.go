// Package store records the clusters created with the configured
// credentials so that a later cleanup run can delete them.
//
// Entries are kept in a SQLite database inside the run directory.
package store
