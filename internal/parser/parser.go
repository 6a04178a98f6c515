// Package parser decodes a CS2 demo file into the ordered event stream and
// end-of-match snapshot consumed by the aggregation engine.
package parser

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	demoinfocs "github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs"
	common "github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs/common"
	"github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs/events"

	"github.com/pugline/demostat/internal/model"
)

// Replay is a fully decoded replay. It hands events to the engine in
// arrival order and exposes the match state the engine queries, satisfying
// engine.Source.
type Replay struct {
	hash    string
	records []record
	pos     int
	started bool

	decodeErr error
	final     model.FinalState
}

// record stamps each event with the match-started state at decode time so
// the replayed stream answers MatchStarted per position.
type record struct {
	ev   model.Event
	live bool
}

// Next returns the next event in arrival order, io.EOF once exhausted, or
// the decode error at the point the decoder gave up.
func (r *Replay) Next() (model.Event, error) {
	if r.pos >= len(r.records) {
		if r.decodeErr != nil {
			return nil, r.decodeErr
		}
		return nil, io.EOF
	}
	rec := r.records[r.pos]
	r.pos++
	r.started = rec.live
	return rec.ev, nil
}

// MatchStarted reports whether the match was officially live as of the most
// recently returned event.
func (r *Replay) MatchStarted() bool {
	return r.started
}

// Final returns the end-of-match snapshot. It is only valid once Next has
// reported io.EOF.
func (r *Replay) Final() (model.FinalState, error) {
	if r.decodeErr != nil {
		return model.FinalState{}, r.decodeErr
	}
	if r.pos < len(r.records) {
		return model.FinalState{}, fmt.Errorf("replay stream not exhausted")
	}
	return r.final, nil
}

// Hash returns the sha256 of the demo file, used as an idempotency key by
// the storage commands.
func (r *Replay) Hash() string {
	return r.hash
}

// Open decodes the demo at path. Mid-parse decoder failures are not
// returned here: they surface through Next so the engine can apply its
// error-document contract.
func Open(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open demo: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash demo: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek demo: %w", err)
	}

	p := demoinfocs.NewParser(f)
	defer p.Close()

	r := &Replay{hash: fmt.Sprintf("%x", h.Sum(nil))}

	push := func(ev model.Event) {
		r.records = append(r.records, record{ev: ev, live: p.GameState().IsMatchStarted()})
	}

	p.RegisterEventHandler(func(e events.RoundStart) {
		gs := p.GameState()
		push(model.RoundStart{
			TRoster:  roster(gs.Team(common.TeamTerrorists)),
			CTRoster: roster(gs.Team(common.TeamCounterTerrorists)),
		})
	})

	p.RegisterEventHandler(func(e events.RoundEnd) {
		push(model.RoundEnd{Winner: teamFromCommon(e.Winner)})
	})

	p.RegisterEventHandler(func(e events.Kill) {
		if e.Killer == nil || e.Victim == nil {
			return
		}
		var assister *model.PlayerRef
		if e.Assister != nil {
			a := refFromPlayer(e.Assister)
			assister = &a
		}
		var weapon string
		if e.Weapon != nil {
			weapon = e.Weapon.Type.String()
		}
		push(model.Kill{
			Killer:        refFromPlayer(e.Killer),
			Victim:        refFromPlayer(e.Victim),
			Assister:      assister,
			Weapon:        weapon,
			IsHeadshot:    e.IsHeadshot,
			AssistedFlash: e.AssistedFlash,
		})
	})

	p.RegisterEventHandler(func(e events.PlayerHurt) {
		if e.Player == nil {
			return
		}
		var attacker *model.PlayerRef
		if e.Attacker != nil {
			a := refFromPlayer(e.Attacker)
			attacker = &a
		}
		var weapon string
		isUtil := false
		if e.Weapon != nil {
			weapon = e.Weapon.Type.String()
			isUtil = isUtilityWeapon(e.Weapon.Type)
		}
		push(model.PlayerHurt{
			Attacker:     attacker,
			Victim:       refFromPlayer(e.Player),
			HealthDamage: e.HealthDamage,
			Weapon:       weapon,
			IsUtility:    isUtil,
		})
	})

	p.RegisterEventHandler(func(e events.PlayerFlashed) {
		if e.Attacker == nil || e.Player == nil {
			return
		}
		if e.FlashDuration() <= 0 {
			return
		}
		push(model.PlayerFlashed{
			Thrower: refFromPlayer(e.Attacker),
			Blinded: refFromPlayer(e.Player),
		})
	})

	p.RegisterEventHandler(func(e events.BombPlanted) {
		if e.Player == nil {
			return
		}
		push(model.BombPlanted{Player: refFromPlayer(e.Player)})
	})

	p.RegisterEventHandler(func(e events.BombDefused) {
		if e.Player == nil {
			return
		}
		push(model.BombDefused{Player: refFromPlayer(e.Player)})
	})

	if err := p.ParseToEnd(); err != nil {
		r.decodeErr = fmt.Errorf("parse demo: %w", err)
		return r, nil
	}

	gs := p.GameState()
	fin := model.FinalState{
		MapName: p.Header().MapName,
		Scores:  make(map[uint64]int),
	}
	if t := gs.Team(common.TeamTerrorists); t != nil {
		fin.ScoreT = t.Score()
	}
	if ct := gs.Team(common.TeamCounterTerrorists); ct != nil {
		fin.ScoreCT = ct.Score()
	}
	for _, pl := range gs.Participants().All() {
		if pl == nil || pl.SteamID64 == 0 {
			continue
		}
		fin.Scores[pl.SteamID64] = pl.Score()
	}
	r.final = fin

	return r, nil
}

func roster(ts *common.TeamState) []model.PlayerRef {
	if ts == nil {
		return nil
	}
	var refs []model.PlayerRef
	for _, pl := range ts.Members() {
		if pl == nil || pl.SteamID64 == 0 {
			continue
		}
		refs = append(refs, refFromPlayer(pl))
	}
	return refs
}

func refFromPlayer(pl *common.Player) model.PlayerRef {
	return model.PlayerRef{
		SteamID: pl.SteamID64,
		Name:    pl.Name,
		Team:    teamFromCommon(pl.Team),
	}
}

func teamFromCommon(t common.Team) model.Team {
	switch t {
	case common.TeamTerrorists:
		return model.TeamT
	case common.TeamCounterTerrorists:
		return model.TeamCT
	case common.TeamSpectators:
		return model.TeamSpectators
	default:
		return model.TeamUnknown
	}
}

func isUtilityWeapon(t common.EquipmentType) bool {
	return t == common.EqHE || t == common.EqMolotov || t == common.EqIncendiary
}
