// Package infrastructure opens the provider's cloud network to the consumer
// and derives the consumer's placement from the provider's subnets.
package infrastructure
