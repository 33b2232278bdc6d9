package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leagueroast/gazette/internal/app"
	"github.com/leagueroast/gazette/internal/archive"
	"github.com/leagueroast/gazette/internal/config"
	"github.com/leagueroast/gazette/internal/league"
	"github.com/leagueroast/gazette/internal/notify"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
}

var rootCmd = &cobra.Command{
	Use:   "gazette",
	Short: "Weekly fantasy league newsletter generator",
	Long:  "Gazette builds, renders and delivers the weekly league newsletter:\nscore callouts, the dumpster fire, fraud watch and season standings.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlags.configPath, "config", "c", "gazette.yaml", "Path to config file")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(rankingsCmd)
	rootCmd.AddCommand(phrasesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.LoadFile(rootFlags.configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildApp wires the live clients. The returned cleanup closes the
// archive database and is safe to call always.
func buildApp(cfg config.Config) (*app.App, func(), error) {
	fetcher := league.NewClient(cfg.LeagueAPI, cfg.LeagueID, fmt.Sprintf("%d", cfg.Season))

	var odds app.ProjectionSource
	if cfg.Odds.Enabled {
		odds = league.NewOddsClient(cfg.Odds.BaseURL, cfg.Odds.APIKey)
	}

	var mailer app.Mailer
	if cfg.Mailchimp.Enabled {
		mailer = notify.NewMailchimpClient(cfg.Mailchimp.APIKey, cfg.Mailchimp.ListID, cfg.Mailchimp.FromName, cfg.Mailchimp.ReplyTo)
	}

	var slack app.Summarizer
	if cfg.Slack.Enabled {
		slack = notify.NewSlackNotifier(cfg.Slack.WebhookURL)
	}

	cleanup := func() {}
	var archiver app.Archiver
	if cfg.Archive.Enabled {
		db, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			return nil, cleanup, fmt.Errorf("open archive: %w", err)
		}
		archiver = db
		cleanup = func() { db.Close() }
	}

	return app.New(cfg, fetcher, odds, mailer, slack, archiver), cleanup, nil
}
