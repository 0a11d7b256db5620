// Package ocm is a small client for the OpenShift Cluster Manager
// clusters_mgmt API.
//
// It covers the calls the provisioner needs: create, get and delete a
// cluster, fetch its admin kubeconfig and request an addon installation.
// Authentication uses the OAuth2 refresh-token flow; the session (including
// rotated refresh tokens) is persisted to a JSON file in the run directory.
//
// The client never retries. Non-2xx responses are returned as *APIError,
// and 404s match ErrNotFound.
package ocm
