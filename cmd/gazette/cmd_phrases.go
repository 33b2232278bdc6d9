package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var phrasesFlags struct {
	teamID string
}

var phrasesCmd = &cobra.Command{
	Use:   "phrases",
	Short: "Show remaining unseen phrases per category",
	RunE:  runPhrases,
}

func init() {
	phrasesCmd.Flags().StringVar(&phrasesFlags.teamID, "team", "", "Team ID scope (empty for the shared scope)")
}

func runPhrases(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, cleanup, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	status, err := a.PhraseStatus(phrasesFlags.teamID)
	if err != nil {
		return err
	}

	categories := make([]string, 0, len(status))
	for category := range status {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	out := cmd.OutOrStdout()
	for _, category := range categories {
		fmt.Fprintf(out, "%-20s %d remaining\n", category, status[category])
	}
	return nil
}
