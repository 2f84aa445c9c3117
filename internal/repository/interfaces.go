package repository

import (
	"context"
	"time"

	"chesslens/internal/models"
)

// ProfileRepository handles profile data access
type ProfileRepository interface {
	Get(ctx context.Context, id int64) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Upsert(ctx context.Context, username string) (*models.Profile, error)
	UpdateSync(ctx context.Context, id int64, t time.Time) error
	Delete(ctx context.Context, id int64) error
}

// GameRepository handles game data access
type GameRepository interface {
	Get(ctx context.Context, id int64) (*models.Game, error)
	List(ctx context.Context, filter models.GameFilter) ([]models.Game, error)
	Count(ctx context.Context, filter models.GameFilter) (int, error)
	Insert(ctx context.Context, game models.Game) (int64, error)
	InsertBatch(ctx context.Context, games []models.Game) ([]int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	UpdateOpening(ctx context.Context, id int64, ecoCode, openingName string) error
	UpdateDeviation(ctx context.Context, id int64, ply *int, noBookData bool) error
	UpdateTotalMoves(ctx context.Context, id int64, totalMoves int) error
	ResetProcessingToPending(ctx context.Context, profileID int64) error
	GamesNeedingAnalysis(ctx context.Context, profileID int64) ([]models.Game, error)
	GamesByStatus(ctx context.Context, profileID int64, status string) ([]models.Game, error)
	GetExistingChessComIDs(ctx context.Context, profileID int64) (map[string]bool, error)
	CountByStatus(ctx context.Context, profileID int64, status string) (int, error)
}

// MoveRepository handles per-move data access. Moves are written as a
// whole game at a time; classification is recomputed in full whenever the
// underlying evaluations change.
type MoveRepository interface {
	ReplaceForGame(ctx context.Context, gameID int64, moves []models.ClassifiedMove) error
	MovesForGame(ctx context.Context, gameID int64) ([]models.ClassifiedMove, error)
	CountAnalyzed(ctx context.Context, gameID int64) (int, error)
	DeleteForGame(ctx context.Context, gameID int64) error
}
