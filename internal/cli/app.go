package cli

import (
	"chesslens/internal/book"
	"chesslens/internal/chesscom"
	"chesslens/internal/config"
	"chesslens/internal/db"
	"chesslens/internal/engine"
	"chesslens/internal/logger"
	"chesslens/internal/repository"
	"chesslens/internal/repository/sqlite"
	"chesslens/internal/services"
)

// app bundles the wiring shared by every command: database, repositories,
// and the collaborator clients.
type app struct {
	cfg config.Config
	db  *db.DB

	profiles repository.ProfileRepository
	games    repository.GameRepository
	moves    repository.MoveRepository

	chessClient *chesscom.Client
	analysis    services.AnalysisService
	reports     services.ReportService
}

func newApp() (*app, error) {
	cfg := config.Load()
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	logger.SetDefault(logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel))))

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:         cfg,
		db:          database,
		profiles:    sqlite.NewProfileRepository(database.DB),
		games:       sqlite.NewGameRepository(database.DB),
		moves:       sqlite.NewMoveRepository(database.DB),
		chessClient: chesscom.New(),
	}

	bookSource := book.NewCache(book.NewWithBaseURL(cfg.BookAPIURL))
	evaluator := engine.New(cfg.EngineAPIURL)
	a.analysis = services.NewAnalysisService(a.games, a.moves, evaluator, bookSource, cfg.EngineDepth, cfg.Analysis)
	a.reports = services.NewReportService(a.profiles, a.games, a.moves, cfg.Analysis)
	return a, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
