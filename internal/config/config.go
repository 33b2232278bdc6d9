package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Season      int     `yaml:"season"`
	LeagueID    string  `yaml:"league_id"`
	LeagueName  string  `yaml:"league_name"`
	LeagueAPI   string  `yaml:"league_api"`
	Timezone    string  `yaml:"timezone"`
	SalaryCap   float64 `yaml:"salary_cap"`
	StateDir    string  `yaml:"state_dir"`
	PhrasesPath string  `yaml:"phrases_path"`
	SalaryPath  string  `yaml:"salary_path"`
	DryRun      bool    `yaml:"dry_run"`

	Cycler    CyclerConfig    `yaml:"cycler"`
	Odds      OddsConfig      `yaml:"odds"`
	Slack     SlackConfig     `yaml:"slack"`
	Mailchimp MailchimpConfig `yaml:"mailchimp"`
	Archive   ArchiveConfig   `yaml:"archive"`
}

type CyclerConfig struct {
	FallbackCategory string `yaml:"fallback_category"`
	Lenient          bool   `yaml:"lenient"`
}

type OddsConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

type MailchimpConfig struct {
	Enabled    bool   `yaml:"enabled"`
	APIKey     string `yaml:"api_key"`
	ListID     string `yaml:"list_id"`
	FromName   string `yaml:"from_name"`
	ReplyTo    string `yaml:"reply_to"`
	SubjectFmt string `yaml:"subject_fmt"`
}

type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

func Default() Config {
	return Config{
		Season:      2025,
		Timezone:    "America/New_York",
		SalaryCap:   50000,
		StateDir:    "state",
		PhrasesPath: "phrases.yaml",
		DryRun:      true,
		Cycler: CyclerConfig{
			FallbackCategory: "generic",
		},
		Odds: OddsConfig{
			BaseURL: "https://api.the-odds-api.com/v4",
		},
		Mailchimp: MailchimpConfig{
			SubjectFmt: "Week %d Gazette",
		},
		Archive: ArchiveConfig{
			Enabled: true,
			Path:    "state/gazette.db",
		},
	}
}

func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) ApplyEnv() {
	if v := os.Getenv("GAZETTE_LEAGUE_ID"); v != "" {
		c.LeagueID = v
	}
	if v := os.Getenv("GAZETTE_LEAGUE_API"); v != "" {
		c.LeagueAPI = v
	}
	if v := os.Getenv("GAZETTE_ODDS_API_KEY"); v != "" {
		c.Odds.APIKey = v
	}
	if v := os.Getenv("GAZETTE_SLACK_WEBHOOK"); v != "" {
		c.Slack.WebhookURL = v
	}
	if v := os.Getenv("GAZETTE_MAILCHIMP_API_KEY"); v != "" {
		c.Mailchimp.APIKey = v
	}
	if v := os.Getenv("GAZETTE_DRY_RUN"); v != "" {
		c.DryRun = strings.EqualFold(v, "true") || v == "1"
	}
}
