package services_test

import (
	"time"

	"chesslens/internal/config"
	"chesslens/internal/models"
)

const shortPGN = `[Event "Live Chess"]
[Site "Chess.com"]
[White "alice"]
[Black "bob"]
[Result "1-0"]

1. e4 e5 2. Nf3 Nc6 1-0`

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

func pendingGame(id int64) *models.Game {
	return &models.Game{
		ID:             id,
		ProfileID:      1,
		ChessComID:     "g1",
		PGN:            shortPGN,
		TimeClass:      "blitz",
		Result:         models.ResultWin,
		PlayedAs:       models.ColorWhite,
		Opponent:       "bob",
		PlayedAt:       time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		AnalysisStatus: models.AnalysisPending,
	}
}

// classifiedMoves builds a fully analyzed alternating move set of n plies.
func classifiedMoves(n int) []models.ClassifiedMove {
	moves := make([]models.ClassifiedMove, n)
	for i := 0; i < n; i++ {
		moves[i] = models.ClassifiedMove{
			MoveRecord: models.MoveRecord{
				Ply:       i,
				IsWhite:   i%2 == 0,
				SAN:       "e4",
				UCI:       "e2e4",
				FENBefore: "f1",
				FENAfter:  "f2",
			},
			Eval:           &models.Evaluation{BestMoveUCI: "e2e4"},
			Classification: models.ClassificationGood,
			Phase:          models.PhaseMiddlegame,
		}
	}
	return moves
}
