package analysis

import (
	"fmt"

	apperrors "chesslens/internal/errors"
	"chesslens/internal/models"
)

// AggregateGame folds one game's classified moves into a GameAggregate.
// The fold is pure: same moves in, same aggregate out, every time.
//
// ACPL is restricted to the player's own analyzed moves; opponent moves
// feed a separate opponent ACPL. Per-phase ACPL is nil for phases the
// player never reached with an analyzed move, never a misleading zero.
func AggregateGame(game models.Game, moves []models.ClassifiedMove) (models.GameAggregate, error) {
	if err := validatePlies(moves); err != nil {
		return models.GameAggregate{}, err
	}

	agg := models.GameAggregate{
		GameID:       game.ID,
		Color:        game.PlayedAs,
		Result:       game.Result,
		ECOCode:      game.ECOCode,
		OpeningName:  game.OpeningName,
		PlayedAt:     game.PlayedAt,
		DeviationPly: game.DeviationPly,
		NoBookData:   game.NoBookData,
		Counts:       make(map[models.Classification]int),
		TotalMoves:   len(moves),
	}

	playerIsWhite := game.PlayedAs == models.ColorWhite

	var playerLoss, opponentLoss int
	var playerMoves, opponentMoves int
	phaseLoss := make(map[models.Phase]int)
	phaseMoves := make(map[models.Phase]int)

	for _, m := range moves {
		if !m.Analyzed() {
			// Pending evaluation: the move carries no classification and is
			// invisible to every average.
			continue
		}
		agg.MovesAnalyzed++

		if m.IsWhite != playerIsWhite {
			opponentLoss += m.CentipawnLoss
			opponentMoves++
			continue
		}

		playerLoss += m.CentipawnLoss
		playerMoves++
		agg.Counts[m.Classification]++

		if m.Phase.Valid() {
			phaseLoss[m.Phase] += m.CentipawnLoss
			phaseMoves[m.Phase]++
		}
	}

	if playerMoves > 0 {
		agg.PlayerACPL = float64(playerLoss) / float64(playerMoves)
	}
	if opponentMoves > 0 {
		agg.OpponentACPL = float64(opponentLoss) / float64(opponentMoves)
	}

	agg.OpeningACPL = phaseACPL(phaseLoss, phaseMoves, models.PhaseOpening)
	agg.MiddlegameACPL = phaseACPL(phaseLoss, phaseMoves, models.PhaseMiddlegame)
	agg.EndgameACPL = phaseACPL(phaseLoss, phaseMoves, models.PhaseEndgame)

	return agg, nil
}

func phaseACPL(loss, count map[models.Phase]int, phase models.Phase) *float64 {
	n := count[phase]
	if n == 0 {
		return nil
	}
	acpl := float64(loss[phase]) / float64(n)
	return &acpl
}

// validatePlies rejects structurally broken move sets. This is the only
// fatal condition in the pipeline; everything else degrades by exclusion.
func validatePlies(moves []models.ClassifiedMove) error {
	for i, m := range moves {
		if m.Ply != i {
			return apperrors.NewMalformedInputError(
				fmt.Sprintf("move records are not contiguous: ply %d at index %d", m.Ply, i))
		}
	}
	return nil
}
