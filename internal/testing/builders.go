package testing

import (
	"slices"
	"time"

	"github.com/ocs-chaos/ocs-chaos/internal/config"
)

// Names used by the default test configuration.
const (
	ProviderName = "chaos-p-abc1234"
	ConsumerName = "chaos-c-abc1234"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with sensible defaults.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: config.Config{
			DataDir: config.DefaultDataDir,
			LogFile: config.DefaultLogFile,
			AWS: config.AWSConfig{
				AccessKeyID:     "AKIATEST",
				SecretAccessKey: "secret",
				AccountID:       "123456789012",
				Region:          "us-east-1",
			},
			OCM: config.OCMConfig{
				URL:          config.DefaultOCMURL,
				TokenURL:     config.DefaultOCMTokenURL,
				ClientID:     config.DefaultOCMClientID,
				RefreshToken: "refresh",
			},
			Clusters: config.ClusterConfig{
				ProviderName:       ProviderName,
				ConsumerName:       ConsumerName,
				ComputeNodes:       config.DefaultComputeNodes,
				ComputeMachineType: config.DefaultComputeMachineType,
			},
			Addons: config.AddonConfig{
				ProviderID:   config.DefaultProviderAddonID,
				ConsumerID:   config.DefaultConsumerAddonID,
				ProviderSize: config.DefaultProviderAddonSize,
				ConsumerSize: config.DefaultConsumerAddonSize,
				ConsumerUnit: config.DefaultConsumerAddonUnit,
			},
			Onboarding: config.OnboardingConfig{
				PublicKey:      "public-key",
				PrivateKeyFile: "/dev/null",
				TicketMode:     config.TicketModeNative,
				TicketgenURL:   config.DefaultTicketgenURL,
			},
			Timeouts: config.Timeouts{
				PollTimeout:  30 * time.Minute,
				PollInterval: 5 * time.Minute,
				CallTimeout:  config.DefaultCallTimeout,
			},
		},
	}
}

// WithDataDir sets the run directory.
func (b *ConfigBuilder) WithDataDir(dir string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.DataDir = dir
	return newBuilder
}

// WithClusterNames sets explicit cluster names. Empty names are generated.
func (b *ConfigBuilder) WithClusterNames(provider, consumer string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Clusters.ProviderName = provider
	newBuilder.cfg.Clusters.ConsumerName = consumer
	return newBuilder
}

// WithPlacement sets the default subnets and availability zones.
func (b *ConfigBuilder) WithPlacement(subnets, zones []string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.AWS.SubnetIDs = slices.Clone(subnets)
	newBuilder.cfg.AWS.AvailabilityZones = slices.Clone(zones)
	return newBuilder
}

// WithPollPolicy sets the readiness polling budget.
func (b *ConfigBuilder) WithPollPolicy(timeout, interval time.Duration) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Timeouts.PollTimeout = timeout
	newBuilder.cfg.Timeouts.PollInterval = interval
	return newBuilder
}

// Build returns the constructed config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	cfg := b.cfg
	cfg.AWS.SubnetIDs = slices.Clone(b.cfg.AWS.SubnetIDs)
	cfg.AWS.AvailabilityZones = slices.Clone(b.cfg.AWS.AvailabilityZones)
	return &ConfigBuilder{cfg: cfg}
}
