package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var generateFlags struct {
	week   int
	dryRun bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build and deliver the newsletter for one week",
	RunE:  runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.IntVarP(&generateFlags.week, "week", "w", 0, "League week to build (required)")
	f.BoolVar(&generateFlags.dryRun, "dry-run", false, "Build without delivering")

	_ = generateCmd.MarkFlagRequired("week")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if generateFlags.dryRun {
		cfg.DryRun = true
	}

	a, cleanup, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := a.Run(cmd.Context(), generateFlags.week)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cfg.DryRun {
		fmt.Fprintf(out, "dry run: issue %q built (%d bytes)\n", result.Subject, len(result.HTML))
		fmt.Fprintln(out, result.HTML)
		return nil
	}
	fmt.Fprintf(out, "issue %q delivered", result.Subject)
	if result.CampaignID != "" {
		fmt.Fprintf(out, " (campaign %s)", result.CampaignID)
	}
	fmt.Fprintln(out)
	return nil
}
