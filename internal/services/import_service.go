package services

import (
	"context"

	"chesslens/internal/chesscom"
	"chesslens/internal/errors"
	"chesslens/internal/logger"
	"chesslens/internal/models"
	"chesslens/internal/repository"
	"chesslens/internal/worker"
)

// ImportService queues background synchronization of a profile's games.
type ImportService interface {
	SyncGames(ctx context.Context, profile models.Profile) error
	ResumePending(ctx context.Context, profileID int64) (int, error)
}

type importService struct {
	gameRepo     repository.GameRepository
	profileRepo  repository.ProfileRepository
	chessClient  chesscom.ClientInterface
	importPool   *worker.Pool
	analysisPool *worker.Pool
	analyzer     worker.GameAnalyzer
	archiveLimit int
}

// NewImportService creates a new ImportService
func NewImportService(
	gameRepo repository.GameRepository,
	profileRepo repository.ProfileRepository,
	chessClient chesscom.ClientInterface,
	importPool *worker.Pool,
	analysisPool *worker.Pool,
	analyzer worker.GameAnalyzer,
	archiveLimit int,
) ImportService {
	return &importService{
		gameRepo:     gameRepo,
		profileRepo:  profileRepo,
		chessClient:  chessClient,
		importPool:   importPool,
		analysisPool: analysisPool,
		analyzer:     analyzer,
		archiveLimit: archiveLimit,
	}
}

// SyncGames submits a sync job; the fetch and insert work happens on the
// import pool. Returns an error only when the queue is full.
func (s *importService) SyncGames(ctx context.Context, profile models.Profile) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"username":   profile.Username,
		"profile_id": profile.ID,
	})
	log.Info("queueing game sync job")

	job := &worker.SyncGamesJob{
		GameRepo:     s.gameRepo,
		ProfileRepo:  s.profileRepo,
		ChessClient:  s.chessClient,
		Profile:      profile,
		AnalysisPool: s.analysisPool,
		Analyzer:     s.analyzer,
		ArchiveLimit: s.archiveLimit,
	}
	if !s.importPool.TrySubmit(job) {
		return errors.NewBadRequestError("a sync is already queued, try again later")
	}
	return nil
}

// ResumePending re-queues analysis for every game that never finished,
// resetting stuck processing rows first. Called on startup and after a
// sync completes with failures.
func (s *importService) ResumePending(ctx context.Context, profileID int64) (int, error) {
	log := logger.FromContext(ctx).WithField("profile_id", profileID)

	if err := s.gameRepo.ResetProcessingToPending(ctx, profileID); err != nil {
		log.Error("failed to reset stuck games: %v", err)
		return 0, errors.NewInternalError(err)
	}

	games, err := s.gameRepo.GamesNeedingAnalysis(ctx, profileID)
	if err != nil {
		log.Error("failed to list games needing analysis: %v", err)
		return 0, errors.NewInternalError(err)
	}

	for _, game := range games {
		s.analysisPool.Submit(&worker.AnalyzeGameJob{Analyzer: s.analyzer, GameID: game.ID})
	}
	log.Info("queued %d games for analysis", len(games))
	return len(games), nil
}
