package analysis_test

import (
	"time"

	"chesslens/internal/config"
	"chesslens/internal/models"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func testCfg() config.AnalysisConfig {
	return config.AnalysisConfig{
		GoodThreshold:       10,
		InaccuracyThreshold: 50,
		MistakeThreshold:    150,
		WinningMargin:       300,

		OpeningMoveCutoff:  12,
		OpeningMaterialMin: 60,
		EndgameMaterialMax: 26,

		BookPlyLimit:   40,
		BookNoiseFloor: 10,

		TimePressureSeconds: 60,

		MinGamesForPatterns: 5,
		MinMovesPerGame:     5,
		MinGamesForBest:     3,
	}
}

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

// evalWithLoss builds an evaluation whose centipawn loss for the given
// color is exactly loss.
func evalWithLoss(loss int, isWhite bool) *models.Evaluation {
	before, after := loss, 0
	if !isWhite {
		before, after = -loss, 0
	}
	return &models.Evaluation{
		ScoreBefore: models.Score{CP: before},
		ScoreAfter:  models.Score{CP: after},
		BestMoveUCI: "e2e4",
	}
}

// classifiedMove builds an analyzed move at the given ply with a known
// centipawn loss, classified against the default bands.
func classifiedMove(ply, loss int, isWhite bool) models.ClassifiedMove {
	label := models.ClassificationGood
	switch {
	case loss >= 150:
		label = models.ClassificationBlunder
	case loss >= 50:
		label = models.ClassificationMistake
	case loss >= 10:
		label = models.ClassificationInaccuracy
	}
	return models.ClassifiedMove{
		MoveRecord: models.MoveRecord{
			Ply:     ply,
			IsWhite: isWhite,
			SAN:     "e4",
			UCI:     "e2e4",
		},
		Eval:           evalWithLoss(loss, isWhite),
		CentipawnLoss:  loss,
		Classification: label,
		Phase:          models.PhaseMiddlegame,
	}
}

// alternatingGame builds a full game where the player's moves carry the
// given losses and the opponent plays perfectly.
func alternatingGame(gameID int64, playerIsWhite bool, playerLosses []int) (models.Game, []models.ClassifiedMove) {
	game := models.Game{
		ID:       gameID,
		PlayedAs: models.ColorBlack,
		Result:   models.ResultDraw,
		PlayedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	if playerIsWhite {
		game.PlayedAs = models.ColorWhite
	}

	moves := make([]models.ClassifiedMove, 0, len(playerLosses)*2)
	for ply := 0; ply < len(playerLosses)*2; ply++ {
		white := ply%2 == 0
		loss := 0
		if white == playerIsWhite {
			loss = playerLosses[ply/2]
		}
		moves = append(moves, classifiedMove(ply, loss, white))
	}
	return game, moves
}
