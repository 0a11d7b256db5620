package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ValidateProvisioning checks everything a provisioning run needs.
func (c *Config) ValidateProvisioning() error {
	var missing []string
	required := map[string]string{
		"AWS_ACCESS_KEY_ID":           c.AWS.AccessKeyID,
		"AWS_SECRET_ACCESS_KEY":       c.AWS.SecretAccessKey,
		"AWS_ACCOUNT_ID":              c.AWS.AccountID,
		"AWS_REGION":                  c.AWS.Region,
		"OCM_REFRESH_TOKEN":           c.OCM.RefreshToken,
		"ONBOARDING_PUBLIC_KEY":       c.Onboarding.PublicKey,
		"ONBOARDING_PRIVATE_KEY_FILE": c.Onboarding.PrivateKeyFile,
	}
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.Clusters.ComputeNodes <= 0 {
		return fmt.Errorf("COMPUTE_NODES must be positive, got %d", c.Clusters.ComputeNodes)
	}
	if c.Clusters.ComputeMachineType == "" {
		return errors.New("COMPUTE_MACHINE_TYPE is required")
	}
	if c.Addons.ProviderID == "" || c.Addons.ConsumerID == "" {
		return errors.New("PROVIDER_ADDON_ID and CONSUMER_ADDON_ID are required")
	}

	switch c.Onboarding.TicketMode {
	case TicketModeScript:
		if c.Onboarding.TicketgenURL == "" {
			return errors.New("TICKETGEN_URL is required in script ticket mode")
		}
	case TicketModeNative:
	default:
		return fmt.Errorf("ONBOARDING_TICKET_MODE must be %q or %q, got %q",
			TicketModeScript, TicketModeNative, c.Onboarding.TicketMode)
	}

	if err := c.validateOCM(); err != nil {
		return err
	}
	return c.validateTimeouts()
}

// ValidateCleanup checks what a cleanup run needs.
func (c *Config) ValidateCleanup() error {
	if c.OCM.RefreshToken == "" {
		return errors.New("missing required environment variables: OCM_REFRESH_TOKEN")
	}
	if err := c.validateOCM(); err != nil {
		return err
	}
	if c.Timeouts.CallTimeout <= 0 {
		return fmt.Errorf("OCS_CHAOS_CALL_TIMEOUT must be positive, got %v", c.Timeouts.CallTimeout)
	}
	return nil
}

func (c *Config) validateOCM() error {
	for name, value := range map[string]string{
		"OCM_URL":       c.OCM.URL,
		"OCM_TOKEN_URL": c.OCM.TokenURL,
	} {
		if !strings.HasPrefix(value, "https://") && !strings.HasPrefix(value, "http://") {
			return fmt.Errorf("%s must be an http(s) URL, got %q", name, value)
		}
	}
	if c.OCM.ClientID == "" {
		return errors.New("OCM_CLIENT_ID is required")
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	t := c.Timeouts
	if t.PollTimeout <= 0 || t.PollInterval <= 0 || t.CallTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive: poll timeout %v, poll interval %v, call timeout %v",
			t.PollTimeout, t.PollInterval, t.CallTimeout)
	}
	return nil
}
