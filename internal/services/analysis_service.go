package services

import (
	"context"

	"chesslens/internal/analysis"
	"chesslens/internal/config"
	"chesslens/internal/engine"
	"chesslens/internal/errors"
	"chesslens/internal/logger"
	"chesslens/internal/models"
	"chesslens/internal/pgn"
	"chesslens/internal/repository"
)

// AnalysisService runs the full derivation pipeline for a single game:
// move extraction, engine evaluation, deviation detection, and
// classification. Results are persisted as one atomic move-set replace.
type AnalysisService interface {
	AnalyzeGame(ctx context.Context, gameID int64) error
	Progress(ctx context.Context, gameID int64) (models.AnalysisProgress, error)
}

type analysisService struct {
	gameRepo  repository.GameRepository
	moveRepo  repository.MoveRepository
	evaluator engine.Evaluator
	book      analysis.BookSource
	depth     int
	cfg       config.AnalysisConfig
}

// NewAnalysisService creates a new AnalysisService. A nil book disables
// deviation detection; games are then classified without book labels.
func NewAnalysisService(
	gameRepo repository.GameRepository,
	moveRepo repository.MoveRepository,
	evaluator engine.Evaluator,
	book analysis.BookSource,
	depth int,
	cfg config.AnalysisConfig,
) AnalysisService {
	if depth <= 0 {
		depth = 16
	}
	return &analysisService{
		gameRepo:  gameRepo,
		moveRepo:  moveRepo,
		evaluator: evaluator,
		book:      book,
		depth:     depth,
		cfg:       cfg,
	}
}

func (s *analysisService) AnalyzeGame(ctx context.Context, gameID int64) error {
	log := logger.FromContext(ctx).WithField("game_id", gameID)
	log.Info("starting game analysis")

	game, err := s.gameRepo.Get(ctx, gameID)
	if err != nil {
		log.Error("failed to get game: %v", err)
		return err
	}
	if game == nil {
		return errors.NewNotFoundError("game", gameID)
	}
	if game.AnalysisStatus == models.AnalysisCompleted {
		log.Debug("game already analyzed, skipping")
		return nil
	}

	log = log.WithFields(map[string]any{
		"opponent":   game.Opponent,
		"time_class": game.TimeClass,
	})

	if err := s.gameRepo.UpdateStatus(ctx, gameID, models.AnalysisProcessing); err != nil {
		log.Error("failed to update game status: %v", err)
		return err
	}

	records, err := pgn.ParseMoves(game.PGN)
	if err != nil {
		log.Error("failed to parse PGN: %v", err)
		_ = s.gameRepo.UpdateStatus(ctx, gameID, models.AnalysisFailed)
		return err
	}
	if err := s.gameRepo.UpdateTotalMoves(ctx, gameID, len(records)); err != nil {
		log.Warn("failed to update total moves: %v", err)
	}

	if game.OpeningName == "" {
		if found, err := pgn.DetectOpening(game.PGN); err == nil && found != nil {
			if err := s.gameRepo.UpdateOpening(ctx, gameID, found.ECOCode, found.Name); err != nil {
				log.Warn("failed to update game opening: %v", err)
			} else {
				game.ECOCode = found.ECOCode
				game.OpeningName = found.Name
				log.Debug("detected opening %s (%s)", found.Name, found.ECOCode)
			}
		}
	}

	deviationPly, bookChecked := s.detectDeviation(ctx, gameID, records, log)
	if bookChecked {
		game.DeviationPly = deviationPly
	}

	evals, err := s.evaluateMoves(ctx, records, log)
	if err != nil {
		_ = s.gameRepo.UpdateStatus(ctx, gameID, models.AnalysisFailed)
		return err
	}

	moves, moveErrs, err := analysis.ClassifyGame(records, evals, deviationPly, bookChecked, s.cfg)
	if err != nil {
		log.Error("classification failed: %v", err)
		_ = s.gameRepo.UpdateStatus(ctx, gameID, models.AnalysisFailed)
		return err
	}
	for _, merr := range moveErrs {
		log.Warn("move excluded: %v", merr)
	}

	if err := s.moveRepo.ReplaceForGame(ctx, gameID, moves); err != nil {
		log.Error("failed to store moves: %v", err)
		_ = s.gameRepo.UpdateStatus(ctx, gameID, models.AnalysisFailed)
		return err
	}

	status := models.AnalysisCompleted
	if len(evals) < len(records) {
		// Some positions could not be evaluated; leave the game retryable.
		status = models.AnalysisPending
		log.Warn("evaluated %d of %d moves, leaving game pending", len(evals), len(records))
	}
	if err := s.gameRepo.UpdateStatus(ctx, gameID, status); err != nil {
		log.Error("failed to update game status to %s: %v", status, err)
	}

	log.Info("analysis finished: %d moves, %d evaluated, status=%s", len(records), len(evals), status)
	return nil
}

// detectDeviation walks the game against the opening book and records the
// outcome. Book failures degrade to "not checked" rather than failing the
// whole analysis.
func (s *analysisService) detectDeviation(ctx context.Context, gameID int64, records []models.MoveRecord, log *logger.Logger) (*int, bool) {
	if s.book == nil {
		return nil, false
	}

	dev, err := analysis.FindDeviation(ctx, records, s.book, s.cfg)
	if err != nil {
		log.Warn("deviation detection failed: %v", err)
		return nil, false
	}

	if err := s.gameRepo.UpdateDeviation(ctx, gameID, dev.Ply, dev.NoBookData); err != nil {
		log.Warn("failed to store deviation: %v", err)
	}
	if dev.Ply != nil {
		log.Debug("first deviation at ply %d (no_book_data=%t)", *dev.Ply, dev.NoBookData)
	}
	return dev.Ply, true
}

// evaluateMoves scores every position once and pairs adjacent scores into
// per-move evaluations. A failed evaluation leaves a gap; the move stays
// unclassified and the game is retried later.
func (s *analysisService) evaluateMoves(ctx context.Context, records []models.MoveRecord, log *logger.Logger) (map[int]*models.Evaluation, error) {
	evals := make(map[int]*models.Evaluation, len(records))
	if len(records) == 0 {
		return evals, nil
	}

	// positionEvals[i] scores the position before ply i; the last entry
	// scores the final position.
	positionEvals := make([]*engine.PositionEval, len(records)+1)
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ev, err := s.evaluator.Evaluate(ctx, rec.FENBefore, s.depth)
		if err != nil {
			log.Warn("eval failed at ply %d: %v", rec.Ply, err)
			continue
		}
		positionEvals[i] = &ev
	}
	last := records[len(records)-1]
	if ev, err := s.evaluator.Evaluate(ctx, last.FENAfter, s.depth); err != nil {
		log.Warn("eval failed for final position: %v", err)
	} else {
		positionEvals[len(records)] = &ev
	}

	for i, rec := range records {
		before, after := positionEvals[i], positionEvals[i+1]
		if before == nil || after == nil {
			continue
		}
		evals[rec.Ply] = &models.Evaluation{
			ScoreBefore: before.Score,
			ScoreAfter:  after.Score,
			BestMoveUCI: before.BestMoveUCI,
			BestMoveSAN: before.BestMoveSAN,
			Depth:       before.Depth,
		}
	}
	return evals, nil
}

func (s *analysisService) Progress(ctx context.Context, gameID int64) (models.AnalysisProgress, error) {
	game, err := s.gameRepo.Get(ctx, gameID)
	if err != nil {
		return models.AnalysisProgress{}, err
	}
	if game == nil {
		return models.AnalysisProgress{}, errors.NewNotFoundError("game", gameID)
	}

	analyzed, err := s.moveRepo.CountAnalyzed(ctx, gameID)
	if err != nil {
		return models.AnalysisProgress{}, errors.NewInternalError(err)
	}

	return models.AnalysisProgress{
		Status:        game.AnalysisStatus,
		MovesAnalyzed: analyzed,
		TotalMoves:    game.TotalMoves,
	}, nil
}
