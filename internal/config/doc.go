// Package config loads the run configuration from the environment.
//
// Values come from process environment variables, optionally seeded from a
// .env file in the working directory. [Load] returns an immutable [Config]
// snapshot; each command validates only the parts it needs
// ([Config.ValidateProvisioning], [Config.ValidateCleanup]).
package config
