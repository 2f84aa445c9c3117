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

// GameDetail bundles a game with its classified moves and per-game rollup.
type GameDetail struct {
	Game      models.Game             `json:"game"`
	Aggregate *models.GameAggregate   `json:"aggregate"`
	Moves     []models.ClassifiedMove `json:"moves"`
}

// GameService handles game listing and per-game drill-down.
type GameService interface {
	ListGames(ctx context.Context, filter models.GameFilter) ([]models.Game, int, error)
	GetGame(ctx context.Context, id int64) (*models.Game, error)
	GameDetail(ctx context.Context, id int64) (*GameDetail, error)
}

type gameService struct {
	gameRepo repository.GameRepository
	moveRepo repository.MoveRepository
	cfg      config.AnalysisConfig
}

// NewGameService creates a new GameService
func NewGameService(gameRepo repository.GameRepository, moveRepo repository.MoveRepository, cfg config.AnalysisConfig) GameService {
	return &gameService{gameRepo: gameRepo, moveRepo: moveRepo, cfg: cfg}
}

func (s *gameService) ListGames(ctx context.Context, filter models.GameFilter) ([]models.Game, int, error) {
	log := logger.FromContext(ctx).WithField("profile_id", filter.ProfileID)
	log.Debug("listing games")

	if filter.ProfileID == 0 {
		return nil, 0, errors.NewValidationError("profile_id", "is required")
	}

	games, err := s.gameRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list games: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	total, err := s.gameRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count games: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	return games, total, nil
}

func (s *gameService) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	game, err := s.gameRepo.Get(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if game == nil {
		return nil, errors.NewNotFoundError("game", id)
	}
	return game, nil
}

func (s *gameService) GameDetail(ctx context.Context, id int64) (*GameDetail, error) {
	log := logger.FromContext(ctx).WithField("game_id", id)
	log.Debug("loading game detail")

	game, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	moves, err := s.moveRepo.MovesForGame(ctx, id)
	if err != nil {
		log.Error("failed to load moves: %v", err)
		return nil, errors.NewInternalError(err)
	}

	detail := &GameDetail{Game: *game, Moves: moves}
	if len(moves) > 0 {
		agg, err := analysis.AggregateGame(*game, moves)
		if err != nil {
			log.Error("aggregation failed: %v", err)
			return nil, err
		}
		detail.Aggregate = &agg
	}
	return detail, nil
}
