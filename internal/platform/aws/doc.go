// Package aws wraps the EC2 calls used to connect a provider cluster's
// network with its consumers: security group lookup and ingress
// authorization, and subnet discovery by Name tag.
//
// SDK retries are disabled; callers decide what to retry.
package aws
