package models

import "time"

// MoveRecord is one played half-move as produced by the upstream move
// extraction step. Immutable once created.
type MoveRecord struct {
	ID        int64  `json:"id"`
	GameID    int64  `json:"game_id"`
	Ply       int    `json:"ply"` // 0-based, ply order
	IsWhite   bool   `json:"is_white"`
	SAN       string `json:"san"`
	UCI       string `json:"uci"`
	FENBefore string `json:"fen_before"`
	FENAfter  string `json:"fen_after"`
	// ClockSeconds is the mover's remaining clock after the move. Nil when
	// the game has no clock annotations.
	ClockSeconds *float64 `json:"clock_seconds"`
}

// MoveNumber is the 1-based full-move number this ply belongs to.
func (m MoveRecord) MoveNumber() int {
	return m.Ply/2 + 1
}

// Score is a single engine evaluation, in signed centipawns from white's
// perspective, or a mate-in-N sentinel when Mate is set.
type Score struct {
	CP   int  `json:"cp"`
	Mate *int `json:"mate,omitempty"`
}

// Evaluation pairs the engine scores around one move. Absent (nil pointer)
// until the engine-evaluation collaborator has analyzed the move.
type Evaluation struct {
	ScoreBefore Score  `json:"score_before"`
	ScoreAfter  Score  `json:"score_after"`
	BestMoveUCI string `json:"best_move_uci"`
	BestMoveSAN string `json:"best_move_san"`
	Depth       int    `json:"depth"`
}

// ClassifiedMove is a MoveRecord plus its evaluation and derived fields.
// Computed once; re-analysis replaces the whole value, never patches it.
type ClassifiedMove struct {
	MoveRecord
	Eval           *Evaluation    `json:"eval"`
	CentipawnLoss  int            `json:"centipawn_loss"`
	Classification Classification `json:"classification"`
	Phase          Phase          `json:"phase"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Analyzed reports whether the move has evaluation data attached. Moves
// without it carry no classification and are skipped by every aggregate.
func (m ClassifiedMove) Analyzed() bool {
	return m.Eval != nil
}
