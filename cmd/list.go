package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pugline/demostat/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'demostat store <demo.dem>' to add one.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-14s  %-12s  %-14s  %6s  %s\n",
		"HASH", "MAP", "SCORE", "ROUNDS", "ANALYZED")
	fmt.Fprintf(os.Stdout, "%-14s  %-12s  %-14s  %6s  %s\n",
		"──────────────", "────────────", "──────────────", "──────", "────────")
	for _, m := range matches {
		fmt.Fprintf(os.Stdout, "%-14s  %-12s  %-14s  %6d  %s\n",
			m.DemoHash[:12], m.MapName, m.ScoreStr, m.TotalRounds, m.AnalyzedAt)
	}
	return nil
}
