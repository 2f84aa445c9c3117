package worker

import (
	"context"
	"strconv"
	"strings"
	"time"

	"chesslens/internal/chesscom"
	"chesslens/internal/logger"
	"chesslens/internal/models"
	"chesslens/internal/pgn"
	"chesslens/internal/repository"
)

// GameAnalyzer runs the full derivation pipeline for one game. Declared
// here so jobs do not import the services package.
type GameAnalyzer interface {
	AnalyzeGame(ctx context.Context, gameID int64) error
}

// AnalyzeGameJob evaluates and classifies a single game.
type AnalyzeGameJob struct {
	Analyzer GameAnalyzer
	GameID   int64
}

func (j *AnalyzeGameJob) Name() string { return "analyze_game" }

func (j *AnalyzeGameJob) Run(ctx context.Context) error {
	return j.Analyzer.AnalyzeGame(ctx, j.GameID)
}

// SyncGamesJob fetches a profile's archives from chess.com, inserts the
// games it has not seen, and enqueues analysis for each new game.
type SyncGamesJob struct {
	GameRepo      repository.GameRepository
	ProfileRepo   repository.ProfileRepository
	ChessClient   chesscom.ClientInterface
	Profile       models.Profile
	AnalysisPool  *Pool
	Analyzer      GameAnalyzer
	ArchiveLimit  int
	MaxConcurrent int
}

func (j *SyncGamesJob) Name() string { return "sync_games" }

func (j *SyncGamesJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"username":   j.Profile.Username,
		"profile_id": j.Profile.ID,
	})
	log.Info("starting background sync")

	archives, err := j.ChessClient.FetchArchives(ctx, j.Profile.Username)
	if err != nil {
		log.Error("failed to fetch archives: %v", err)
		return err
	}

	if j.Profile.LastSyncAt != nil {
		archives = filterArchivesByDate(archives, *j.Profile.LastSyncAt)
		log.Info("filtered archives to %d based on last_sync_at", len(archives))
	}

	// ArchiveLimit of 0 means fetch all archives.
	if j.ArchiveLimit > 0 && len(archives) > j.ArchiveLimit {
		archives = archives[len(archives)-j.ArchiveLimit:]
		log.Debug("limiting to last %d archives", j.ArchiveLimit)
	}
	log.Info("fetching %d archives", len(archives))

	monthlyGames, err := j.fetchArchives(ctx, archives)
	if err != nil {
		return err
	}
	if len(monthlyGames) == 0 {
		log.Info("no monthly games fetched")
		return nil
	}

	existingIDs, err := j.GameRepo.GetExistingChessComIDs(ctx, j.Profile.ID)
	if err != nil {
		log.Warn("failed to load existing game ids: %v", err)
		existingIDs = map[string]bool{}
	}

	var newGames []models.Game
	for _, mg := range monthlyGames {
		gameID := pgn.ExtractGameID(mg.URL)
		if existingIDs[gameID] {
			continue
		}
		existingIDs[gameID] = true // avoid duplicates within the batch

		newGames = append(newGames, buildGame(j.Profile, gameID, mg))
	}

	inserted, err := j.GameRepo.InsertBatch(ctx, newGames)
	if err != nil {
		log.Error("failed to batch insert games: %v", err)
		return err
	}
	log.Info("imported %d new games", len(inserted))

	if err := j.ProfileRepo.UpdateSync(ctx, j.Profile.ID, time.Now()); err != nil {
		log.Warn("failed to update profile sync time: %v", err)
	}

	if j.AnalysisPool != nil && j.Analyzer != nil {
		for _, id := range inserted {
			j.AnalysisPool.Submit(&AnalyzeGameJob{Analyzer: j.Analyzer, GameID: id})
		}
		log.Info("queued %d games for analysis", len(inserted))
	}
	return nil
}

func (j *SyncGamesJob) fetchArchives(ctx context.Context, archives []string) ([]chesscom.MonthlyGame, error) {
	log := logger.FromContext(ctx)

	maxConc := j.MaxConcurrent
	if maxConc <= 0 {
		maxConc = 10
	}

	type archiveResult struct {
		games []chesscom.MonthlyGame
		err   error
	}

	results := make(chan archiveResult, len(archives))
	sem := make(chan struct{}, maxConc)

	var pending int
	for _, url := range archives {
		pending++
		go func(archiveURL string) {
			sem <- struct{}{}
			defer func() { <-sem }()

			monthly, err := j.ChessClient.FetchMonthly(ctx, archiveURL)
			results <- archiveResult{games: monthly, err: err}
		}(url)
	}

	var monthlyGames []chesscom.MonthlyGame
	for i := 0; i < pending; i++ {
		res := <-results
		if ctx.Err() != nil {
			log.Warn("sync cancelled: %v", ctx.Err())
			return nil, ctx.Err()
		}
		if res.err != nil {
			log.Error("failed to fetch monthly games: %v", res.err)
			continue
		}
		monthlyGames = append(monthlyGames, res.games...)
	}
	return monthlyGames, nil
}

// buildGame maps one archive entry onto a pending game row. Ratings come
// from the PGN headers when present, falling back to the archive payload.
func buildGame(profile models.Profile, gameID string, mg chesscom.MonthlyGame) models.Game {
	headers := pgn.ParseHeaders(mg.PGN)
	playedAs, opponent, result := chesscom.DeriveResult(profile.Username, mg)

	var playerRating, opponentRating int
	if playedAs == models.ColorWhite {
		playerRating, _ = strconv.Atoi(headers["WhiteElo"])
		opponentRating, _ = strconv.Atoi(headers["BlackElo"])
		if playerRating == 0 {
			playerRating = mg.White.Rating
		}
		if opponentRating == 0 {
			opponentRating = mg.Black.Rating
		}
	} else {
		playerRating, _ = strconv.Atoi(headers["BlackElo"])
		opponentRating, _ = strconv.Atoi(headers["WhiteElo"])
		if playerRating == 0 {
			playerRating = mg.Black.Rating
		}
		if opponentRating == 0 {
			opponentRating = mg.White.Rating
		}
	}

	return models.Game{
		ProfileID:      profile.ID,
		ChessComID:     gameID,
		PGN:            mg.PGN,
		TimeClass:      mg.TimeClass,
		Result:         result,
		PlayedAs:       playedAs,
		Opponent:       opponent,
		PlayerRating:   playerRating,
		OpponentRating: opponentRating,
		PlayedAt:       time.Unix(mg.EndTime, 0),
		ECOCode:        headers["ECO"],
		OpeningName:    headers["Opening"],
		AnalysisStatus: models.AnalysisPending,
	}
}

// filterArchivesByDate keeps archives from the given month onwards.
// Archive URLs end in /YYYY/MM.
func filterArchivesByDate(archives []string, since time.Time) []string {
	if since.IsZero() {
		return archives
	}
	sinceMonth := time.Date(since.Year(), since.Month(), 1, 0, 0, 0, 0, time.UTC)

	var filtered []string
	for _, url := range archives {
		parts := strings.Split(strings.TrimSuffix(url, "/"), "/")
		if len(parts) < 2 {
			continue
		}
		year, err1 := strconv.Atoi(parts[len(parts)-2])
		monthInt, err2 := strconv.Atoi(parts[len(parts)-1])
		if err1 != nil || err2 != nil {
			continue
		}
		archiveMonth := time.Date(year, time.Month(monthInt), 1, 0, 0, 0, 0, time.UTC)
		if archiveMonth.Before(sinceMonth) {
			continue
		}
		filtered = append(filtered, url)
	}
	return filtered
}
