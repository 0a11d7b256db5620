package config

import "time"

// Config is the full run configuration.
type Config struct {
	DataDir string `mapstructure:"ocs_chaos_data_dir"`
	LogFile string `mapstructure:"log_file"`
	Debug   bool   `mapstructure:"debug"`

	AWS        AWSConfig        `mapstructure:",squash"`
	OCM        OCMConfig        `mapstructure:",squash"`
	Clusters   ClusterConfig    `mapstructure:",squash"`
	Addons     AddonConfig      `mapstructure:",squash"`
	Onboarding OnboardingConfig `mapstructure:",squash"`
	Timeouts   Timeouts         `mapstructure:",squash"`

	// PushgatewayURL enables pushing run metrics when set.
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	// ArchiveBucket enables uploading non-secret run artifacts to S3 when set.
	ArchiveBucket string `mapstructure:"run_archive_bucket"`
}

// AWSConfig holds the cloud account the clusters are created in.
type AWSConfig struct {
	AccessKeyID       string   `mapstructure:"aws_access_key_id"`
	SecretAccessKey   string   `mapstructure:"aws_secret_access_key"`
	AccountID         string   `mapstructure:"aws_account_id"`
	Region            string   `mapstructure:"aws_region"`
	SubnetIDs         []string `mapstructure:"aws_subnet_ids"`
	AvailabilityZones []string `mapstructure:"aws_availability_zones"`
}

// OCMConfig holds the cluster manager endpoint and session credentials.
type OCMConfig struct {
	URL          string `mapstructure:"ocm_url"`
	TokenURL     string `mapstructure:"ocm_token_url"`
	ClientID     string `mapstructure:"ocm_client_id"`
	RefreshToken string `mapstructure:"ocm_refresh_token"`
}

// ClusterConfig holds the cluster names and compute profile.
type ClusterConfig struct {
	ProviderName       string `mapstructure:"provider_cluster_name"`
	ConsumerName       string `mapstructure:"consumer_cluster_name"`
	ComputeNodes       int    `mapstructure:"compute_nodes"`
	ComputeMachineType string `mapstructure:"compute_machine_type"`
}

// AddonConfig maps addon roles to addon ids and sizes.
type AddonConfig struct {
	ProviderID   string `mapstructure:"provider_addon_id"`
	ConsumerID   string `mapstructure:"consumer_addon_id"`
	ProviderSize string `mapstructure:"provider_addon_size"`
	ConsumerSize string `mapstructure:"consumer_addon_size"`
	ConsumerUnit string `mapstructure:"consumer_addon_unit"`
}

// OnboardingConfig holds the key pair used to validate and sign onboarding tickets.
type OnboardingConfig struct {
	PublicKey      string `mapstructure:"onboarding_public_key"`
	PrivateKeyFile string `mapstructure:"onboarding_private_key_file"`
	TicketMode     string `mapstructure:"onboarding_ticket_mode"`
	TicketgenURL   string `mapstructure:"ticketgen_url"`
}

// Timeouts holds the polling policy and the per-call timeout.
type Timeouts struct {
	PollTimeout  time.Duration `mapstructure:"ocs_chaos_poll_timeout"`
	PollInterval time.Duration `mapstructure:"ocs_chaos_poll_interval"`
	CallTimeout  time.Duration `mapstructure:"ocs_chaos_call_timeout"`
}
