package models

import "time"

type Profile struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	CreatedAt  time.Time  `json:"created_at"`
	LastSyncAt *time.Time `json:"last_sync_at"`
}

type Game struct {
	ID             int64     `json:"id"`
	ProfileID      int64     `json:"profile_id"`
	ChessComID     string    `json:"chess_com_id"`
	PGN            string    `json:"pgn"`
	TimeClass      string    `json:"time_class"`
	Result         Result    `json:"result"`
	PlayedAs       Color     `json:"played_as"`
	Opponent       string    `json:"opponent"`
	PlayerRating   int       `json:"player_rating"`
	OpponentRating int       `json:"opponent_rating"`
	PlayedAt       time.Time `json:"played_at"`
	ECOCode        string    `json:"eco_code"`
	OpeningName    string    `json:"opening_name"`
	TotalMoves     int       `json:"total_moves"`
	AnalysisStatus string    `json:"analysis_status"`
	// DeviationPly is the 0-based ply where play first left book. Nil means
	// the game stayed in book through to the end.
	DeviationPly *int `json:"deviation_ply"`
	// NoBookData marks games whose first out-of-book position had no book
	// entry at all, so the deviation reflects missing reference data rather
	// than a player choice.
	NoBookData bool      `json:"no_book_data"`
	CreatedAt  time.Time `json:"created_at"`
}

// Values for Game.AnalysisStatus.
const (
	AnalysisPending    = "pending"
	AnalysisProcessing = "processing"
	AnalysisCompleted  = "completed"
	AnalysisFailed     = "failed"
)

type GameFilter struct {
	ProfileID      int64
	TimeClass      string
	Result         string
	OpeningName    string
	AnalysisStatus string
	Limit          int
	Offset         int
	OrderBy        string
	OrderDir       string
}
