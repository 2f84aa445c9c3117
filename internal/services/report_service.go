package services

import (
	"context"

	"chesslens/internal/analysis"
	"chesslens/internal/config"
	"chesslens/internal/errors"
	"chesslens/internal/logger"
	"chesslens/internal/models"
	"chesslens/internal/repository"
)

// ReportService derives cross-game reports from stored classified moves.
// Reports are computed on demand; nothing here mutates the database.
type ReportService interface {
	PlayerReport(ctx context.Context, profileID int64) (models.PlayerReport, error)
	Weaknesses(ctx context.Context, profileID int64) (models.WeaknessReport, error)
	Openings(ctx context.Context, profileID int64) (models.OpeningReport, error)
	Playstyle(ctx context.Context, profileID int64) (models.PlaystyleProfile, error)
}

type reportService struct {
	profileRepo repository.ProfileRepository
	gameRepo    repository.GameRepository
	moveRepo    repository.MoveRepository
	cfg         config.AnalysisConfig
}

// NewReportService creates a new ReportService
func NewReportService(
	profileRepo repository.ProfileRepository,
	gameRepo repository.GameRepository,
	moveRepo repository.MoveRepository,
	cfg config.AnalysisConfig,
) ReportService {
	return &reportService{
		profileRepo: profileRepo,
		gameRepo:    gameRepo,
		moveRepo:    moveRepo,
		cfg:         cfg,
	}
}

func (s *reportService) PlayerReport(ctx context.Context, profileID int64) (models.PlayerReport, error) {
	log := logger.FromContext(ctx).WithField("profile_id", profileID)
	log.Debug("building player report")

	profile, err := s.profileRepo.Get(ctx, profileID)
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return models.PlayerReport{}, errors.NewInternalError(err)
	}
	if profile == nil {
		return models.PlayerReport{}, errors.NewNotFoundError("profile", profileID)
	}

	games, err := s.gameRepo.GamesByStatus(ctx, profileID, models.AnalysisCompleted)
	if err != nil {
		log.Error("failed to list analyzed games: %v", err)
		return models.PlayerReport{}, errors.NewInternalError(err)
	}

	inputs := make([]analysis.GameInput, 0, len(games))
	for _, game := range games {
		moves, err := s.moveRepo.MovesForGame(ctx, game.ID)
		if err != nil {
			log.Error("failed to load moves for game %d: %v", game.ID, err)
			return models.PlayerReport{}, errors.NewInternalError(err)
		}
		inputs = append(inputs, analysis.GameInput{Game: game, Moves: moves})
	}

	gathered, partial, err := analysis.BuildAggregates(ctx, inputs, s.cfg)
	if err != nil {
		log.Error("aggregation failed: %v", err)
		return models.PlayerReport{}, err
	}

	report := analysis.BuildReport(gathered, s.cfg)
	report.ProfileID = profileID
	report.Partial = partial

	log.Info("built report over %d games (partial=%t)", len(gathered), partial)
	return report, nil
}

func (s *reportService) Weaknesses(ctx context.Context, profileID int64) (models.WeaknessReport, error) {
	report, err := s.PlayerReport(ctx, profileID)
	if err != nil {
		return models.WeaknessReport{}, err
	}
	return report.Weaknesses, nil
}

func (s *reportService) Openings(ctx context.Context, profileID int64) (models.OpeningReport, error) {
	report, err := s.PlayerReport(ctx, profileID)
	if err != nil {
		return models.OpeningReport{}, err
	}
	return report.Openings, nil
}

func (s *reportService) Playstyle(ctx context.Context, profileID int64) (models.PlaystyleProfile, error) {
	report, err := s.PlayerReport(ctx, profileID)
	if err != nil {
		return models.PlaystyleProfile{}, err
	}
	return report.Playstyle, nil
}
