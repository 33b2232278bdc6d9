package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks high-impact runtime configuration constraints.
func (c Config) Validate() error {
	if c.Season < 2000 || c.Season > 2100 {
		return fmt.Errorf("season must be a plausible year, got %d", c.Season)
	}
	if c.SalaryCap <= 0 {
		return fmt.Errorf("salary_cap must be > 0, got %f", c.SalaryCap)
	}
	if strings.TrimSpace(c.StateDir) == "" {
		return fmt.Errorf("state_dir must not be empty")
	}
	if strings.TrimSpace(c.Cycler.FallbackCategory) == "" {
		return fmt.Errorf("cycler.fallback_category must not be empty")
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("timezone %q: %w", c.Timezone, err)
		}
	}
	if c.Slack.Enabled && strings.TrimSpace(c.Slack.WebhookURL) == "" {
		return fmt.Errorf("slack.webhook_url required when slack is enabled")
	}
	if c.Mailchimp.Enabled {
		if strings.TrimSpace(c.Mailchimp.APIKey) == "" {
			return fmt.Errorf("mailchimp.api_key required when mailchimp is enabled")
		}
		if strings.TrimSpace(c.Mailchimp.ListID) == "" {
			return fmt.Errorf("mailchimp.list_id required when mailchimp is enabled")
		}
	}
	return nil
}
