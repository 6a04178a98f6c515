package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pugline/demostat/internal/model"
)

// finalize computes derived metrics, reconciles the end-of-match snapshot
// and assembles the result document. It runs exactly once; records are not
// mutated afterwards.
func (e *engine) finalize(fin model.FinalState) *model.MatchResult {
	stats := make([]model.PlayerStats, 0, len(e.order))
	for _, steamID := range e.order {
		s := e.players[steamID]

		// deaths == 0 is special-cased so the ratio equals kills exactly.
		if s.Deaths == 0 {
			s.KD = float64(s.Kills)
		} else {
			s.KD = float64(s.Kills) / float64(s.Deaths)
		}
		if s.Kills > 0 {
			s.HSPercent = float64(s.Headshots) / float64(s.Kills) * 100
		}
		if e.totalRounds > 0 {
			s.ADR = float64(s.Damage) / float64(e.totalRounds)
		}

		// Truncation toward zero, not round-half-up, for output stability.
		s.KD = truncate(s.KD, 100)
		s.HSPercent = truncate(s.HSPercent, 10)
		s.ADR = truncate(s.ADR, 10)

		s.Score = fin.Scores[steamID]
		stats = append(stats, *s)
	}

	// Descending by snapshot score; ties keep encounter order.
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Score > stats[j].Score
	})

	return &model.MatchResult{
		ScoreStr:    fmt.Sprintf("T %d - %d CT", fin.ScoreT, fin.ScoreCT),
		Stats:       stats,
		MapName:     prettyMapName(fin.MapName),
		ScoreT:      fin.ScoreT,
		ScoreCT:     fin.ScoreCT,
		TotalRounds: e.totalRounds,
	}
}

// truncate drops decimal places beyond 1/scale, truncating toward zero.
func truncate(v float64, scale float64) float64 {
	return float64(int(v*scale)) / scale
}

// prettyMapName turns "de_dust2" into "Dust2"; other names pass through.
func prettyMapName(name string) string {
	rest, ok := strings.CutPrefix(name, "de_")
	if !ok || rest == "" {
		return name
	}
	return strings.ToUpper(rest[:1]) + rest[1:]
}
