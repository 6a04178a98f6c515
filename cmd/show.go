package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pugline/demostat/internal/model"
	"github.com/pugline/demostat/internal/report"
	"github.com/pugline/demostat/internal/storage"
)

var showFocusID uint64

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show a stored match by hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Uint64Var(&showFocusID, "player", 0, "highlight player SteamID64")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	return showByHash(db, args[0])
}

func showByHash(db *storage.DB, prefix string) error {
	match, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if match == nil {
		fmt.Fprintf(os.Stderr, "No match found with hash prefix %q\n", prefix)
		return nil
	}

	stats, err := db.GetPlayerStats(match.DemoHash)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}

	report.PrintMatchSummary(os.Stdout, *match)
	report.PrintScoreboard(os.Stdout, stats, showFocusID)
	report.PrintImpactTable(os.Stdout, stats, showFocusID)
	return nil
}

func summaryOf(hash string, res *model.MatchResult) model.MatchSummary {
	return model.MatchSummary{
		DemoHash:    hash,
		MapName:     res.MapName,
		ScoreT:      res.ScoreT,
		ScoreCT:     res.ScoreCT,
		ScoreStr:    res.ScoreStr,
		TotalRounds: res.TotalRounds,
		AnalyzedAt:  time.Now().Format("2006-01-02 15:04:05"),
	}
}
