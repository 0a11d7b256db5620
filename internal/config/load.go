package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads the configuration from the environment. Variables found in
// envFile are added to the process environment first, without overriding
// variables that are already set. A missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.AWS.SubnetIDs = cleanList(cfg.AWS.SubnetIDs)
	cfg.AWS.AvailabilityZones = cleanList(cfg.AWS.AvailabilityZones)

	return &cfg, nil
}

// setDefaults registers every key so that AutomaticEnv picks it up on Unmarshal.
func setDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"ocs_chaos_data_dir": DefaultDataDir,
		"log_file":           DefaultLogFile,
		"debug":              false,

		"aws_access_key_id":      "",
		"aws_secret_access_key":  "",
		"aws_account_id":         "",
		"aws_region":             "",
		"aws_subnet_ids":         []string{},
		"aws_availability_zones": []string{},

		"ocm_url":           DefaultOCMURL,
		"ocm_token_url":     DefaultOCMTokenURL,
		"ocm_client_id":     DefaultOCMClientID,
		"ocm_refresh_token": "",

		"provider_cluster_name": "",
		"consumer_cluster_name": "",
		"compute_nodes":         DefaultComputeNodes,
		"compute_machine_type":  DefaultComputeMachineType,

		"provider_addon_id":   DefaultProviderAddonID,
		"consumer_addon_id":   DefaultConsumerAddonID,
		"provider_addon_size": DefaultProviderAddonSize,
		"consumer_addon_size": DefaultConsumerAddonSize,
		"consumer_addon_unit": DefaultConsumerAddonUnit,

		"onboarding_public_key":       "",
		"onboarding_private_key_file": "",
		"onboarding_ticket_mode":      TicketModeScript,
		"ticketgen_url":               DefaultTicketgenURL,

		"ocs_chaos_poll_timeout":  DefaultPollTimeout,
		"ocs_chaos_poll_interval": DefaultPollInterval,
		"ocs_chaos_call_timeout":  DefaultCallTimeout,

		"pushgateway_url":    "",
		"run_archive_bucket": "",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// cleanList trims entries and drops empty ones.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
