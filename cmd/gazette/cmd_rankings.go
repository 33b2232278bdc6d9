package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leagueroast/gazette/internal/render"
)

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Print season standings from recorded history",
	RunE:  runRankings,
}

func runRankings(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, cleanup, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	rankings := a.Rankings()
	if len(rankings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no recorded weeks yet; run 'gazette generate' first")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), render.RankingsText(rankings))
	return nil
}
