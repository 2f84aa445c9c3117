package models

import "time"

// GameAggregate is the per-game rollup of classified moves. Recomputed in
// full whenever the underlying move set changes.
type GameAggregate struct {
	GameID      int64     `json:"game_id"`
	Color       Color     `json:"color"`
	Result      Result    `json:"result"`
	ECOCode     string    `json:"eco_code"`
	OpeningName string    `json:"opening_name"`
	PlayedAt    time.Time `json:"played_at"`

	PlayerACPL   float64 `json:"player_acpl"`
	OpponentACPL float64 `json:"opponent_acpl"`
	// Per-phase ACPL over the player's own moves. Nil when the player made
	// no analyzed moves in that phase; never zero-filled.
	OpeningACPL    *float64 `json:"opening_acpl"`
	MiddlegameACPL *float64 `json:"middlegame_acpl"`
	EndgameACPL    *float64 `json:"endgame_acpl"`

	// Counts holds the player's moves per classification label. The sum of
	// all counts equals MovesAnalyzed restricted to the player's own moves.
	Counts map[Classification]int `json:"counts"`

	DeviationPly *int `json:"deviation_ply"`
	NoBookData   bool `json:"no_book_data"`

	MovesAnalyzed int `json:"moves_analyzed"`
	TotalMoves    int `json:"total_moves"`
}

// Complete reports whether every move of the game has evaluation data.
// Incomplete games are excluded from cross-game aggregates.
func (a GameAggregate) Complete() bool {
	return a.TotalMoves > 0 && a.MovesAnalyzed == a.TotalMoves
}

// OpeningStat accumulates results for one opening across a player's games.
type OpeningStat struct {
	ECOCode     string  `json:"eco_code"`
	Name        string  `json:"name"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Draws       int     `json:"draws"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"win_rate"`
	// AvgDeviationMove is the mean full-move number of non-nil deviations.
	// Nil when every game in this opening stayed in book.
	AvgDeviationMove *float64  `json:"avg_deviation_move"`
	FirstPlayedAt    time.Time `json:"first_played_at"`
}

// OpeningReport is the player's full repertoire rollup.
type OpeningReport struct {
	Openings          []OpeningStat `json:"openings"`
	MostPlayed        string        `json:"most_played"`
	BestPerforming    string        `json:"best_performing"`
	WorstPerforming   string        `json:"worst_performing"`
	RepertoireBreadth int           `json:"repertoire_breadth"`
	BookAdherenceRate float64       `json:"book_adherence_rate"`
}

// RushingAnalysis relates remaining clock time to blunder frequency.
type RushingAnalysis struct {
	BlunderRateUnderThreshold float64 `json:"blunder_rate_under_threshold"`
	BlunderRateOverThreshold  float64 `json:"blunder_rate_over_threshold"`
	// Multiplier is rate-under divided by rate-over. Nil when either clock
	// bucket is empty; never infinity.
	Multiplier *float64 `json:"multiplier"`
	Verdict    string   `json:"verdict"`
}

// Rushing verdicts, derived from multiplier bands.
const (
	VerdictSevereTimePressure   = "significantly more error-prone under time pressure"
	VerdictModerateTimePressure = "somewhat more error-prone under time pressure"
	VerdictConsistent           = "consistent regardless of time pressure"
	VerdictUnknownTimePressure  = "not enough clock data"
)

// PatternKind identifies a structured weakness signature.
type PatternKind string

const (
	PatternPhaseBlunderExcess PatternKind = "phase_blunder_excess"
	PatternTimeTrouble        PatternKind = "time_trouble"
	PatternMoveNumberCluster  PatternKind = "move_number_cluster"
)

// Pattern is a structured weakness fact. Presentation layers turn these
// into sentences; this core never emits prose.
type Pattern struct {
	Kind       PatternKind `json:"kind"`
	Phase      Phase       `json:"phase,omitempty"`
	MoveNumber int         `json:"move_number,omitempty"`
	Value      float64     `json:"value"`
}

// BlunderHighlight points at one costly move for report drill-down.
type BlunderHighlight struct {
	GameID        int64  `json:"game_id"`
	Ply           int    `json:"ply"`
	SAN           string `json:"san"`
	CentipawnLoss int    `json:"centipawn_loss"`
	Phase         Phase  `json:"phase"`
}

// WeaknessReport is the cross-game weakness analysis.
type WeaknessReport struct {
	// InsufficientData is set when fewer than the minimum number of analyzed
	// games were available; every other field is then zero-valued and
	// Reason carries the code.
	InsufficientData   bool              `json:"insufficient_data"`
	Reason             string            `json:"reason,omitempty"`
	GamesAnalyzed      int               `json:"games_analyzed"`
	OverallBlunderRate float64           `json:"overall_blunder_rate"`
	PhaseBreakdown     map[Phase]float64 `json:"phase_breakdown"`
	MoveNumberHeatmap  map[int]int       `json:"move_number_heatmap"`
	Rushing            RushingAnalysis   `json:"rushing"`
	TopBlunders        []BlunderHighlight `json:"top_blunders"`
	Patterns           []Pattern          `json:"patterns"`
}

// RadarAxis is one presentation axis of the playstyle profile.
type RadarAxis struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PlaystyleProfile scores the player against the six archetypes. Scores
// are 0-100, computed independently, and do not sum to any fixed total.
type PlaystyleProfile struct {
	PrimaryArchetype   Archetype             `json:"primary_archetype"`
	SecondaryArchetype Archetype             `json:"secondary_archetype"`
	Scores             map[Archetype]float64 `json:"scores"`
	Radar              []RadarAxis           `json:"radar"`
}

// PlayerReport bundles every cross-game derivation for one player.
type PlayerReport struct {
	ProfileID  int64            `json:"profile_id"`
	Games      []GameAggregate  `json:"games"`
	Weaknesses WeaknessReport   `json:"weaknesses"`
	Openings   OpeningReport    `json:"openings"`
	Playstyle  PlaystyleProfile `json:"playstyle"`
	// Partial is set when at least one game was excluded because its
	// evaluation data was incomplete.
	Partial bool `json:"partial"`
}

// AnalysisProgress reports how far engine evaluation has advanced for one
// game, for the progress poller.
type AnalysisProgress struct {
	Status        string `json:"status"`
	MovesAnalyzed int    `json:"moves_analyzed"`
	TotalMoves    int    `json:"total_moves"`
}
