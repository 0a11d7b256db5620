package config

import "time"

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultDataDir = ".cluster"
	DefaultLogFile = "test-output.log"

	DefaultOCMURL      = "https://api.stage.openshift.com"
	DefaultOCMTokenURL = "https://sso.redhat.com/auth/realms/redhat-external/protocol/openid-connect/token"
	DefaultOCMClientID = "cloud-services"

	DefaultComputeNodes       = 3
	DefaultComputeMachineType = "m5.2xlarge"

	DefaultProviderAddonID   = "ocs-provider-dev"
	DefaultConsumerAddonID   = "ocs-consumer-dev"
	DefaultProviderAddonSize = "20"
	DefaultConsumerAddonSize = "1"
	DefaultConsumerAddonUnit = "Ti"

	DefaultTicketgenURL = "https://raw.githubusercontent.com/red-hat-storage/ocs-operator/main/hack/ticketgen/ticketgen.sh"

	DefaultPollTimeout  = 5400 * time.Second
	DefaultPollInterval = 300 * time.Second
	DefaultCallTimeout  = 10 * time.Second
)

// Onboarding ticket generation modes.
const (
	TicketModeScript = "script"
	TicketModeNative = "native"
)

// Cluster name prefixes used when no explicit name is configured.
const (
	ProviderNamePrefix = "chaos-p"
	ConsumerNamePrefix = "chaos-c"
)
