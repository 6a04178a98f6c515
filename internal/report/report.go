package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pugline/demostat/internal/model"
)

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	fmt.Fprintf(w, "\nMap: %s  |  Score: %s  |  Rounds: %d  |  Analyzed: %s  |  Hash: %s\n\n",
		s.MapName, s.ScoreStr, s.TotalRounds, s.AnalyzedAt, shortHash(s.DemoHash))
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintScoreboard writes the main per-player table. If focusSteamID is
// non-zero, that player's row is marked with ">".
func PrintScoreboard(w io.Writer, stats []model.PlayerStats, focusSteamID uint64) {
	table := newTable(w)
	table.Header(" ", "NAME", "TEAM", "K", "D", "A", "K/D", "ADR", "HS%", "SCORE")

	for _, s := range stats {
		marker := " "
		if focusSteamID != 0 && s.SteamID == focusSteamID {
			marker = ">"
		}
		table.Append(
			marker,
			s.Player,
			model.Team(s.TeamNum).String(),
			strconv.Itoa(s.Kills),
			strconv.Itoa(s.Deaths),
			strconv.Itoa(s.Assists),
			fmt.Sprintf("%.2f", s.KD),
			fmt.Sprintf("%.1f", s.ADR),
			fmt.Sprintf("%.1f%%", s.HSPercent),
			strconv.Itoa(s.Score),
		)
	}
	table.Render()
}

// PrintImpactTable writes the entries/clutches/multi-kills/utility table.
func PrintImpactTable(w io.Writer, stats []model.PlayerStats, focusSteamID uint64) {
	table := newTable(w)
	table.Header(
		" ", "NAME", "ENTRY_K", "ENTRY_D", "CLUTCH", "2K", "3K", "4K", "5K",
		"FA", "FLASHED", "TEAM_FL", "UTIL_DMG", "PLANTS", "DEFUSES",
	)

	for _, s := range stats {
		marker := " "
		if focusSteamID != 0 && s.SteamID == focusSteamID {
			marker = ">"
		}
		table.Append(
			marker,
			s.Player,
			strconv.Itoa(s.EntryKills),
			strconv.Itoa(s.EntryDeaths),
			strconv.Itoa(s.ClutchWins),
			strconv.Itoa(s.MultiKills[2]),
			strconv.Itoa(s.MultiKills[3]),
			strconv.Itoa(s.MultiKills[4]),
			strconv.Itoa(s.MultiKills[5]),
			strconv.Itoa(s.FlashAssists),
			strconv.Itoa(s.Flashed),
			strconv.Itoa(s.TeamFlashed),
			strconv.Itoa(s.UtilityDamage),
			strconv.Itoa(s.BombPlants),
			strconv.Itoa(s.BombDefuses),
		)
	}
	table.Render()
}
