package model

// Team represents which side a player is on. Values match the in-game team
// numbers so they can be marshalled directly.
type Team int

const (
	TeamUnknown    Team = 0
	TeamSpectators Team = 1
	TeamT          Team = 2
	TeamCT         Team = 3
)

func (t Team) String() string {
	switch t {
	case TeamT:
		return "T"
	case TeamCT:
		return "CT"
	default:
		return "?"
	}
}

// Opponent returns the opposing playing side, or TeamUnknown for
// non-playing teams.
func (t Team) Opponent() Team {
	switch t {
	case TeamT:
		return TeamCT
	case TeamCT:
		return TeamT
	default:
		return TeamUnknown
	}
}

// PlayerRef identifies a player as seen on a single event.
type PlayerRef struct {
	SteamID uint64
	Name    string
	Team    Team
}

// ---- Decoded events ----

// Event is the closed set of decoded replay events the engine consumes.
// Exactly one concrete type exists per event kind; the dispatcher routes on
// the concrete type.
type Event interface {
	isEvent()
}

// RoundStart opens a round. Rosters carry the players known to be on each
// side at that moment, used to seed the round's alive sets.
type RoundStart struct {
	TRoster  []PlayerRef
	CTRoster []PlayerRef
}

// RoundEnd closes a round. Winner is TeamUnknown for rounds without a
// decided winner.
type RoundEnd struct {
	Winner Team
}

type Kill struct {
	Killer        PlayerRef
	Victim        PlayerRef
	Assister      *PlayerRef // nil if none
	Weapon        string
	IsHeadshot    bool
	AssistedFlash bool
}

type PlayerHurt struct {
	Attacker     *PlayerRef // nil for world damage
	Victim       PlayerRef
	HealthDamage int
	Weapon       string
	IsUtility    bool // HE/molotov/incendiary
}

type PlayerFlashed struct {
	Thrower PlayerRef
	Blinded PlayerRef
}

type BombPlanted struct {
	Player PlayerRef
}

type BombDefused struct {
	Player PlayerRef
}

func (RoundStart) isEvent()    {}
func (RoundEnd) isEvent()      {}
func (Kill) isEvent()          {}
func (PlayerHurt) isEvent()    {}
func (PlayerFlashed) isEvent() {}
func (BombPlanted) isEvent()   {}
func (BombDefused) isEvent()   {}

// FinalState is the authoritative end-of-match snapshot exposed by the
// decoder once the event stream is exhausted.
type FinalState struct {
	MapName string
	ScoreT  int
	ScoreCT int
	Scores  map[uint64]int // SteamID64 → end-of-match scoreboard score
}

// ---- Result document ----

// PlayerStats holds the aggregated stats for one player. Raw counters are
// mutated during accumulation only; the derived fields (KD, ADR, HSPercent,
// Score) are written exactly once during finalization.
type PlayerStats struct {
	Player        string         `json:"Player"`
	SteamID       uint64         `json:"SteamID"`
	TeamNum       int            `json:"TeamNum"`
	Kills         int            `json:"Kills"`
	Deaths        int            `json:"Deaths"`
	Assists       int            `json:"Assists"`
	KD            float64        `json:"K/D"`
	ADR           float64        `json:"ADR"`
	HSPercent     float64        `json:"HS%"`
	Score         int            `json:"Score"`
	Damage        int            `json:"Damage"`
	UtilityDamage int            `json:"UtilityDamage"`
	Flashed       int            `json:"Flashed"`     // enemies flashed
	TeamFlashed   int            `json:"TeamFlashed"` // teammates flashed
	FlashAssists  int            `json:"FlashAssists"`
	EntryKills    int            `json:"EntryKills"`
	EntryDeaths   int            `json:"EntryDeaths"`
	ClutchWins    int            `json:"ClutchWins"`
	MultiKills    map[int]int    `json:"MultiKills"`  // kills-in-round (1..5, 5 = 5+) → rounds
	WeaponKills   map[string]int `json:"WeaponKills"` // weapon → kills
	BombPlants    int            `json:"BombPlants"`
	BombDefuses   int            `json:"BombDefuses"`
	Headshots     int            `json:"Headshots"`
}

// MatchResult is the one structured document emitted per invocation. On
// failure only Error is populated; callers never have to distinguish
// "no output" from "output".
type MatchResult struct {
	ScoreStr    string        `json:"score_str"`
	Stats       []PlayerStats `json:"stats"`
	MapName     string        `json:"map_name"`
	ScoreT      int           `json:"score_t"`
	ScoreCT     int           `json:"score_ct"`
	TotalRounds int           `json:"total_rounds"`
	Error       string        `json:"error,omitempty"`
}

// ErrorResult builds the error-only document for a failed invocation.
func ErrorResult(msg string) *MatchResult {
	return &MatchResult{Error: msg}
}

// MatchSummary is a lightweight record for the list/show commands.
type MatchSummary struct {
	DemoHash    string
	MapName     string
	ScoreT      int
	ScoreCT     int
	ScoreStr    string
	TotalRounds int
	AnalyzedAt  string
}
