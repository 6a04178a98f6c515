package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/pugline/demostat/internal/model"
)

// MatchExists returns true if a match with the given hash is already stored.
func (db *DB) MatchExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch stores one result document under the given demo hash. The
// whole document is written in one transaction; sort_order preserves the
// document's player ordering for read-back.
func (db *DB) InsertMatch(hash string, res *model.MatchResult) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO matches(hash, map_name, score_t, score_ct, score_str, total_rounds, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		hash, res.MapName, res.ScoreT, res.ScoreCT, res.ScoreStr, res.TotalRounds,
		time.Now().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_stats(
			match_hash, steam_id, name, team,
			kills, deaths, assists, headshots, damage, utility_damage,
			enemies_flashed, teammates_flashed, flash_assists,
			bomb_plants, bomb_defuses, entry_kills, entry_deaths, clutch_wins,
			kd, adr, hs_percent, score, sort_order
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	mkStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO multi_kills(match_hash, steam_id, kills_in_round, rounds)
		VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer mkStmt.Close()

	wkStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO weapon_kills(match_hash, steam_id, weapon, kills)
		VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	defer wkStmt.Close()

	for i, s := range res.Stats {
		steamID := strconv.FormatUint(s.SteamID, 10)
		_, err = stmt.Exec(
			hash, steamID, s.Player, s.TeamNum,
			s.Kills, s.Deaths, s.Assists, s.Headshots, s.Damage, s.UtilityDamage,
			s.Flashed, s.TeamFlashed, s.FlashAssists,
			s.BombPlants, s.BombDefuses, s.EntryKills, s.EntryDeaths, s.ClutchWins,
			s.KD, s.ADR, s.HSPercent, s.Score, i,
		)
		if err != nil {
			return fmt.Errorf("insert player_stats for %d: %w", s.SteamID, err)
		}
		for killsInRound, rounds := range s.MultiKills {
			if _, err := mkStmt.Exec(hash, steamID, killsInRound, rounds); err != nil {
				return fmt.Errorf("insert multi_kills: %w", err)
			}
		}
		for weapon, kills := range s.WeaponKills {
			if _, err := wkStmt.Exec(hash, steamID, weapon, kills); err != nil {
				return fmt.Errorf("insert weapon_kills: %w", err)
			}
		}
	}
	return tx.Commit()
}

// ListMatches returns all stored match summaries, newest first.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT hash, map_name, score_t, score_ct, score_str, total_rounds, analyzed_at
		FROM matches ORDER BY analyzed_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		if err := rows.Scan(&s.DemoHash, &s.MapName, &s.ScoreT, &s.ScoreCT,
			&s.ScoreStr, &s.TotalRounds, &s.AnalyzedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the first match whose hash starts with the given
// prefix. Returns nil without error when nothing matches.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	var s model.MatchSummary
	err := db.conn.QueryRow(`
		SELECT hash, map_name, score_t, score_ct, score_str, total_rounds, analyzed_at
		FROM matches WHERE hash LIKE ? || '%' LIMIT 1`, prefix).
		Scan(&s.DemoHash, &s.MapName, &s.ScoreT, &s.ScoreCT,
			&s.ScoreStr, &s.TotalRounds, &s.AnalyzedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetPlayerStats reads back the full player records for one match in the
// stored document order, multi-kill and weapon maps included.
func (db *DB) GetPlayerStats(hash string) ([]model.PlayerStats, error) {
	rows, err := db.conn.Query(`
		SELECT steam_id, name, team,
			kills, deaths, assists, headshots, damage, utility_damage,
			enemies_flashed, teammates_flashed, flash_assists,
			bomb_plants, bomb_defuses, entry_kills, entry_deaths, clutch_wins,
			kd, adr, hs_percent, score
		FROM player_stats WHERE match_hash = ? ORDER BY sort_order`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerStats
	for rows.Next() {
		var s model.PlayerStats
		var steamID string
		if err := rows.Scan(&steamID, &s.Player, &s.TeamNum,
			&s.Kills, &s.Deaths, &s.Assists, &s.Headshots, &s.Damage, &s.UtilityDamage,
			&s.Flashed, &s.TeamFlashed, &s.FlashAssists,
			&s.BombPlants, &s.BombDefuses, &s.EntryKills, &s.EntryDeaths, &s.ClutchWins,
			&s.KD, &s.ADR, &s.HSPercent, &s.Score); err != nil {
			return nil, err
		}
		s.SteamID, err = strconv.ParseUint(steamID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad steam_id %q: %w", steamID, err)
		}
		s.MultiKills = make(map[int]int)
		s.WeaponKills = make(map[string]int)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	index := make(map[uint64]*model.PlayerStats, len(out))
	for i := range out {
		index[out[i].SteamID] = &out[i]
	}

	mkRows, err := db.conn.Query(`
		SELECT steam_id, kills_in_round, rounds FROM multi_kills WHERE match_hash = ?`, hash)
	if err != nil {
		return nil, err
	}
	defer mkRows.Close()
	for mkRows.Next() {
		var steamID string
		var killsInRound, rounds int
		if err := mkRows.Scan(&steamID, &killsInRound, &rounds); err != nil {
			return nil, err
		}
		id, err := strconv.ParseUint(steamID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad steam_id %q: %w", steamID, err)
		}
		if s, ok := index[id]; ok {
			s.MultiKills[killsInRound] = rounds
		}
	}
	if err := mkRows.Err(); err != nil {
		return nil, err
	}

	wkRows, err := db.conn.Query(`
		SELECT steam_id, weapon, kills FROM weapon_kills WHERE match_hash = ?`, hash)
	if err != nil {
		return nil, err
	}
	defer wkRows.Close()
	for wkRows.Next() {
		var steamID, weapon string
		var kills int
		if err := wkRows.Scan(&steamID, &weapon, &kills); err != nil {
			return nil, err
		}
		id, err := strconv.ParseUint(steamID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad steam_id %q: %w", steamID, err)
		}
		if s, ok := index[id]; ok {
			s.WeaponKills[weapon] = kills
		}
	}
	return out, wkRows.Err()
}
