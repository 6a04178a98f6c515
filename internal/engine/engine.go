// Package engine aggregates a decoded replay event stream into one
// per-player statistical summary for a completed match.
package engine

import (
	"errors"
	"fmt"
	"io"

	"github.com/pugline/demostat/internal/model"
)

// Source supplies decoded events in arrival order plus queryable match
// state. Next returns io.EOF once the stream is exhausted; any other error
// is a decode failure and aborts the run. Final is only valid after Next
// has returned io.EOF.
type Source interface {
	Next() (model.Event, error)
	MatchStarted() bool
	Final() (model.FinalState, error)
}

// Run consumes the source in a single pass and always returns a result
// document: on any failure the document carries only the error field.
func Run(src Source) *model.MatchResult {
	e := &engine{
		players: make(map[uint64]*model.PlayerStats),
		round:   newRoundContext(),
	}
	for {
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.ErrorResult(fmt.Sprintf("decode replay: %v", err))
		}
		e.dispatch(ev, src.MatchStarted())
	}
	fin, err := src.Final()
	if err != nil {
		return model.ErrorResult(fmt.Sprintf("finalize replay: %v", err))
	}
	return e.finalize(fin)
}

type engine struct {
	players map[uint64]*model.PlayerStats
	order   []uint64 // encounter order, for stable tie-breaking
	round   *roundContext

	totalRounds int
}

// get returns the accumulator record for ref, creating it on first
// reference. The last-seen non-empty name and last non-zero team win.
func (e *engine) get(ref model.PlayerRef) *model.PlayerStats {
	s, ok := e.players[ref.SteamID]
	if !ok {
		s = &model.PlayerStats{
			SteamID:     ref.SteamID,
			MultiKills:  make(map[int]int),
			WeaponKills: make(map[string]int),
		}
		e.players[ref.SteamID] = s
		e.order = append(e.order, ref.SteamID)
	}
	if ref.Name != "" {
		s.Player = ref.Name
	}
	if ref.Team > 0 {
		s.TeamNum = int(ref.Team)
	}
	return s
}

// dispatch routes one event to its handler. Round-boundary events always
// run their bookkeeping; everything else is dropped while the match has not
// officially started, which excludes warmup and knife-round activity.
func (e *engine) dispatch(ev model.Event, started bool) {
	switch ev := ev.(type) {
	case model.RoundStart:
		e.round.start(ev)
	case model.RoundEnd:
		e.endRound(ev, started)
	case model.Kill:
		if started {
			e.handleKill(ev)
		}
	case model.PlayerHurt:
		if started {
			e.handleHurt(ev)
		}
	case model.PlayerFlashed:
		if started {
			e.handleFlash(ev)
		}
	case model.BombPlanted:
		if started {
			e.get(ev.Player).BombPlants++
		}
	case model.BombDefused:
		if started {
			e.get(ev.Player).BombDefuses++
		}
	}
}

func (e *engine) handleKill(ev model.Kill) {
	k := e.get(ev.Killer)
	v := e.get(ev.Victim)

	k.Kills++
	e.round.kills[ev.Killer.SteamID]++
	if ev.IsHeadshot {
		k.Headshots++
	}
	if ev.Weapon != "" {
		k.WeaponKills[ev.Weapon]++
	}

	// First kill of the round in arrival order claims the entry pair.
	if !e.round.entryClaimed {
		k.EntryKills++
		v.EntryDeaths++
		e.round.entryClaimed = true
	}

	v.Deaths++
	e.round.noteDeath(ev.Victim)

	if ev.Assister != nil {
		a := e.get(*ev.Assister)
		a.Assists++
		if ev.AssistedFlash {
			a.FlashAssists++
		}
	}
}

// handleHurt adds enemy damage to the attacker's totals. Self-damage and
// team damage stay out of the offensive counters; utility damage is a
// subset counted once in Damage and once in UtilityDamage.
func (e *engine) handleHurt(ev model.PlayerHurt) {
	if ev.Attacker == nil {
		return
	}
	if ev.Attacker.SteamID == ev.Victim.SteamID {
		return
	}
	if ev.Attacker.Team != model.TeamUnknown && ev.Attacker.Team == ev.Victim.Team {
		return
	}
	s := e.get(*ev.Attacker)
	s.Damage += ev.HealthDamage
	if ev.IsUtility {
		s.UtilityDamage += ev.HealthDamage
	}
}

// handleFlash classifies an exposure by the thrower/blinded team relation.
// The two counters are mutually exclusive per event.
func (e *engine) handleFlash(ev model.PlayerFlashed) {
	s := e.get(ev.Thrower)
	if ev.Thrower.Team != ev.Blinded.Team {
		s.Flashed++
	} else {
		s.TeamFlashed++
	}
}

const multiKillCap = 5 // 5+ kills in one round share a bucket

func (e *engine) endRound(ev model.RoundEnd, started bool) {
	for steamID, kills := range e.round.kills {
		if kills < 1 {
			continue
		}
		if kills > multiKillCap {
			kills = multiKillCap
		}
		if s, ok := e.players[steamID]; ok {
			s.MultiKills[kills]++
		}
	}

	if c, ok := e.round.clutchWinner(ev.Winner); ok {
		e.get(c).ClutchWins++
	}

	// Warmup rounds never count toward the ADR denominator.
	if started {
		e.totalRounds++
	}
}
