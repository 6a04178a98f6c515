package engine

import "github.com/pugline/demostat/internal/model"

// roundContext holds round-scoped state. It exists between a RoundStart and
// the matching RoundEnd and is rebuilt from scratch every round.
type roundContext struct {
	kills        map[uint64]int
	entryClaimed bool

	// Alive sets per playing side, seeded from the RoundStart rosters and
	// drained as deaths arrive. A player can be removed at most once.
	alive map[model.Team]map[uint64]model.PlayerRef

	// Clutch candidate per side: latched the first time a death leaves a
	// side with exactly one living member while the opponent still has at
	// least one. Zero SteamID means no candidate.
	clutcher map[model.Team]model.PlayerRef
}

func newRoundContext() *roundContext {
	return &roundContext{
		kills:    make(map[uint64]int),
		alive:    make(map[model.Team]map[uint64]model.PlayerRef),
		clutcher: make(map[model.Team]model.PlayerRef),
	}
}

// start resets all round-scoped state and seeds the alive sets from the
// rosters known at round start.
func (rc *roundContext) start(ev model.RoundStart) {
	rc.kills = make(map[uint64]int)
	rc.entryClaimed = false
	rc.alive = map[model.Team]map[uint64]model.PlayerRef{
		model.TeamT:  rosterSet(ev.TRoster),
		model.TeamCT: rosterSet(ev.CTRoster),
	}
	rc.clutcher = make(map[model.Team]model.PlayerRef)
}

func rosterSet(roster []model.PlayerRef) map[uint64]model.PlayerRef {
	set := make(map[uint64]model.PlayerRef, len(roster))
	for _, p := range roster {
		if p.SteamID != 0 {
			set[p.SteamID] = p
		}
	}
	return set
}

// noteDeath removes victim from their side's alive set and latches a clutch
// candidate when the victim's side drops to exactly one living member while
// the opposing side still has someone alive. Removing an already-removed
// player is a no-op, so alive counts never go negative.
func (rc *roundContext) noteDeath(victim model.PlayerRef) {
	side := victim.Team
	set, ok := rc.alive[side]
	if !ok {
		return
	}
	if _, ok := set[victim.SteamID]; !ok {
		return
	}
	delete(set, victim.SteamID)

	opp := rc.alive[side.Opponent()]
	if len(set) == 1 && len(opp) >= 1 && rc.clutcher[side].SteamID == 0 {
		for _, last := range set {
			rc.clutcher[side] = last
		}
	}
}

// clutchWinner returns the latched candidate on the winning side, if any.
// The candidate keeps the credit even if they died after the situation
// arose (a bomb-explosion win still counts).
func (rc *roundContext) clutchWinner(winner model.Team) (model.PlayerRef, bool) {
	c := rc.clutcher[winner]
	return c, c.SteamID != 0
}
