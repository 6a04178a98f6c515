package engine

import (
	"testing"

	"github.com/pugline/demostat/internal/model"
)

// Clutch scenarios share a 2v2 or 2v3 setup:
// T side: A, B; CT side: X, Y (and sometimes Z).

func clutchRosters() (tSide, ctSide []model.PlayerRef) {
	tSide = []model.PlayerRef{
		ref(playerA, "a", model.TeamT),
		ref(playerB, "b", model.TeamT),
	}
	ctSide = []model.PlayerRef{
		ref(playerC, "x", model.TeamCT),
		ref(playerD, "y", model.TeamCT),
	}
	return tSide, ctSide
}

// TestClutch1v2Win: X kills B leaving A alone against two, A wins the
// round for T → A is credited one clutch.
func TestClutch1v2Win(t *testing.T) {
	tSide, ctSide := clutchRosters()
	a, b := tSide[0], tSide[1]
	x, y := ctSide[0], ctSide[1]

	src := newSource([]step{
		live(startRound(tSide, ctSide)),
		live(model.Kill{Killer: x, Victim: b, Weapon: "ak47"}),
		live(model.Kill{Killer: a, Victim: x, Weapon: "ak47"}),
		live(model.Kill{Killer: a, Victim: y, Weapon: "ak47"}),
		live(model.RoundEnd{Winner: model.TeamT}),
	}, model.FinalState{})

	res := Run(src)
	if got := findPlayer(t, res, playerA).ClutchWins; got != 1 {
		t.Errorf("A ClutchWins = %d, want 1 (1v2 won)", got)
	}
	for _, id := range []uint64{playerB, playerC, playerD} {
		if got := findPlayer(t, res, id).ClutchWins; got != 0 {
			t.Errorf("player %d ClutchWins = %d, want 0", id, got)
		}
	}
}

// TestClutch1v1CreditsOnlyWinner: both sides are reduced to one survivor;
// only the winning side's survivor is credited.
func TestClutch1v1CreditsOnlyWinner(t *testing.T) {
	tSide, ctSide := clutchRosters()
	a, b := tSide[0], tSide[1]
	x, y := ctSide[0], ctSide[1]

	src := newSource([]step{
		live(startRound(tSide, ctSide)),
		live(model.Kill{Killer: a, Victim: x, Weapon: "ak47"}), // CT down to Y: 1v2 for Y
		live(model.Kill{Killer: y, Victim: b, Weapon: "awp"}),  // T down to A: 1v1
		live(model.Kill{Killer: a, Victim: y, Weapon: "ak47"}),
		live(model.RoundEnd{Winner: model.TeamT}),
	}, model.FinalState{})

	res := Run(src)
	if got := findPlayer(t, res, playerA).ClutchWins; got != 1 {
		t.Errorf("A ClutchWins = %d, want 1", got)
	}
	if got := findPlayer(t, res, playerD).ClutchWins; got != 0 {
		t.Errorf("Y ClutchWins = %d, want 0 (lost the 1v1)", got)
	}
}

// TestNoClutchWithTwoSurvivors: a side that never drops below two living
// members cannot clutch, whoever wins.
func TestNoClutchWithTwoSurvivors(t *testing.T) {
	tSide, ctSide := clutchRosters()
	a := tSide[0]
	x, y := ctSide[0], ctSide[1]

	src := newSource([]step{
		live(startRound(tSide, ctSide)),
		live(model.Kill{Killer: a, Victim: x, Weapon: "ak47"}),
		live(model.Kill{Killer: a, Victim: y, Weapon: "ak47"}),
		live(model.RoundEnd{Winner: model.TeamT}),
	}, model.FinalState{})

	res := Run(src)
	for _, s := range res.Stats {
		if s.ClutchWins != 0 {
			t.Errorf("player %d ClutchWins = %d, want 0 (two T players alive throughout)", s.SteamID, s.ClutchWins)
		}
	}
}

// TestNoClutchOnTimeExpiry: no deaths, round decided by the clock → no
// clutch for either side.
func TestNoClutchOnTimeExpiry(t *testing.T) {
	tSide, ctSide := clutchRosters()

	src := newSource([]step{
		live(startRound(tSide, ctSide)),
		live(model.RoundEnd{Winner: model.TeamCT}),
	}, model.FinalState{})

	res := Run(src)
	for _, s := range res.Stats {
		if s.ClutchWins != 0 {
			t.Errorf("player %d ClutchWins = %d, want 0", s.SteamID, s.ClutchWins)
		}
	}
}

// TestClutchCreditedAfterClutcherDies: the latched survivor keeps the
// credit when the side wins without them (bomb explodes after they die).
func TestClutchCreditedAfterClutcherDies(t *testing.T) {
	tSide, ctSide := clutchRosters()
	a, b := tSide[0], tSide[1]
	x := ctSide[0]

	src := newSource([]step{
		live(startRound(tSide, ctSide)),
		live(model.BombPlanted{Player: a}),
		live(model.Kill{Killer: x, Victim: b, Weapon: "m4a1"}), // A latched at 1v2
		live(model.Kill{Killer: x, Victim: a, Weapon: "m4a1"}),
		live(model.RoundEnd{Winner: model.TeamT}), // bomb explodes
	}, model.FinalState{})

	res := Run(src)
	if got := findPlayer(t, res, playerA).ClutchWins; got != 1 {
		t.Errorf("A ClutchWins = %d, want 1 (team won the latched round)", got)
	}
}

// TestNoClutchAgainstEliminatedSide: dropping to one survivor after the
// opposing side is already wiped out is not a clutch situation.
func TestNoClutchAgainstEliminatedSide(t *testing.T) {
	tSide, ctSide := clutchRosters()
	a, b := tSide[0], tSide[1]
	x, y := ctSide[0], ctSide[1]

	src := newSource([]step{
		live(startRound(tSide, ctSide)),
		live(model.Kill{Killer: a, Victim: x, Weapon: "ak47"}),
		live(model.Kill{Killer: b, Victim: y, Weapon: "ak47"}), // CT eliminated
		live(model.PlayerHurt{Attacker: &a, Victim: b, HealthDamage: 1}),
		live(model.Kill{Killer: a, Victim: b, Weapon: "hegrenade"}), // T drops to one, no enemies left
		live(model.RoundEnd{Winner: model.TeamT}),
	}, model.FinalState{})

	res := Run(src)
	if got := findPlayer(t, res, playerA).ClutchWins; got != 0 {
		t.Errorf("A ClutchWins = %d, want 0 (opponent already eliminated)", got)
	}
}

// TestAliveSetSingleRemoval: a duplicated death event must not drain the
// alive set twice or produce a spurious clutch latch.
func TestAliveSetSingleRemoval(t *testing.T) {
	tSide, ctSide := clutchRosters()
	tSide = append(tSide, ref(2001, "c", model.TeamT))
	x := ctSide[0]
	c := tSide[2]

	src := newSource([]step{
		live(startRound(tSide, ctSide)),
		live(model.Kill{Killer: x, Victim: c, Weapon: "awp"}),
		live(model.Kill{Killer: x, Victim: c, Weapon: "awp"}), // decoder duplicate
		live(model.RoundEnd{Winner: model.TeamT}),
	}, model.FinalState{})

	res := Run(src)
	// Two T players still alive: the duplicate removal must not have
	// reduced the side to one and latched a candidate.
	for _, s := range res.Stats {
		if s.ClutchWins != 0 {
			t.Errorf("player %d ClutchWins = %d, want 0", s.SteamID, s.ClutchWins)
		}
	}
}

// TestRoundContextResets: the entry flag and kill tally reset each round.
func TestRoundContextResets(t *testing.T) {
	tSide, ctSide := clutchRosters()
	a := tSide[0]
	x := ctSide[0]

	src := newSource([]step{
		live(startRound(tSide, ctSide)),
		live(model.Kill{Killer: a, Victim: x, Weapon: "ak47"}),
		live(model.RoundEnd{Winner: model.TeamT}),
		live(startRound(tSide, ctSide)),
		live(model.Kill{Killer: a, Victim: x, Weapon: "ak47"}),
		live(model.RoundEnd{Winner: model.TeamT}),
	}, model.FinalState{})

	res := Run(src)
	as := findPlayer(t, res, playerA)
	if as.EntryKills != 2 {
		t.Errorf("EntryKills = %d, want 2 (flag cleared each round)", as.EntryKills)
	}
	if as.MultiKills[1] != 2 {
		t.Errorf("MultiKills[1] = %d, want 2 (tally reset each round)", as.MultiKills[1])
	}
	if as.MultiKills[2] != 0 {
		t.Errorf("MultiKills[2] = %d, want 0", as.MultiKills[2])
	}
}
