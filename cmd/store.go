package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pugline/demostat/internal/engine"
	"github.com/pugline/demostat/internal/parser"
	"github.com/pugline/demostat/internal/report"
	"github.com/pugline/demostat/internal/storage"
)

var storeFocusID uint64

var storeCmd = &cobra.Command{
	Use:   "store <demo.dem>",
	Short: "Analyze a demo and persist the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runStore,
}

func init() {
	storeCmd.Flags().Uint64Var(&storeFocusID, "player", 0, "highlight player SteamID64")
}

func runStore(cmd *cobra.Command, args []string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Analyzing %s...\n", args[0])
	replay, err := parser.Open(args[0])
	if err != nil {
		return err
	}

	exists, err := db.MatchExists(replay.Hash())
	if err != nil {
		return fmt.Errorf("check match: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Match %s already stored — showing cached results.\n", replay.Hash()[:12])
		return showByHash(db, replay.Hash())
	}

	res := engine.Run(replay)
	if res.Error != "" {
		return fmt.Errorf("aggregate: %s", res.Error)
	}

	if err := db.InsertMatch(replay.Hash(), res); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	report.PrintMatchSummary(os.Stdout, summaryOf(replay.Hash(), res))
	report.PrintScoreboard(os.Stdout, res.Stats, storeFocusID)
	report.PrintImpactTable(os.Stdout, res.Stats, storeFocusID)
	return nil
}
