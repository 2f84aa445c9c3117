package analysis_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesslens/internal/analysis"
	apperrors "chesslens/internal/errors"
	"chesslens/internal/models"
)

func TestAggregateGame_ACPL(t *testing.T) {
	game, moves := alternatingGame(1, true, []int{5, 8, 200, 3})

	agg, err := analysis.AggregateGame(game, moves)
	require.NoError(t, err)

	assert.InDelta(t, 54.0, agg.PlayerACPL, 1e-9)
	assert.Zero(t, agg.OpponentACPL)
	assert.Equal(t, map[models.Classification]int{
		models.ClassificationGood:    3,
		models.ClassificationBlunder: 1,
	}, agg.Counts)
}

func TestAggregateGame_CountsSumToPlayerMoves(t *testing.T) {
	game, moves := alternatingGame(1, false, []int{0, 12, 60, 151, 7, 40})

	agg, err := analysis.AggregateGame(game, moves)
	require.NoError(t, err)

	total := 0
	for _, n := range agg.Counts {
		total += n
	}
	assert.Equal(t, 6, total)
	assert.Equal(t, 12, agg.MovesAnalyzed)
	assert.Equal(t, 12, agg.TotalMoves)
	assert.True(t, agg.Complete())
}

func TestAggregateGame_OpponentMovesStayOutOfPlayerACPL(t *testing.T) {
	game := models.Game{ID: 2, PlayedAs: models.ColorWhite}
	moves := []models.ClassifiedMove{
		classifiedMove(0, 10, true),   // player
		classifiedMove(1, 300, false), // opponent blunder
	}

	agg, err := analysis.AggregateGame(game, moves)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, agg.PlayerACPL, 1e-9)
	assert.InDelta(t, 300.0, agg.OpponentACPL, 1e-9)
	assert.Equal(t, 1, agg.Counts[models.ClassificationInaccuracy])
	assert.Zero(t, agg.Counts[models.ClassificationBlunder], "opponent blunder is not the player's")
}

func TestAggregateGame_PendingMovesAreInvisible(t *testing.T) {
	game := models.Game{ID: 3, PlayedAs: models.ColorWhite}
	pending := models.ClassifiedMove{
		MoveRecord: models.MoveRecord{Ply: 2, IsWhite: true},
	}
	moves := []models.ClassifiedMove{
		classifiedMove(0, 40, true),
		classifiedMove(1, 0, false),
		pending,
	}

	agg, err := analysis.AggregateGame(game, moves)
	require.NoError(t, err)

	assert.InDelta(t, 40.0, agg.PlayerACPL, 1e-9, "pending move does not drag the average")
	assert.Equal(t, 2, agg.MovesAnalyzed)
	assert.Equal(t, 3, agg.TotalMoves)
	assert.False(t, agg.Complete())
}

func TestAggregateGame_PhaseACPLNilForUnreachedPhases(t *testing.T) {
	game := models.Game{ID: 4, PlayedAs: models.ColorWhite}

	opening := classifiedMove(0, 20, true)
	opening.Phase = models.PhaseOpening
	reply := classifiedMove(1, 0, false)
	reply.Phase = models.PhaseOpening

	agg, err := analysis.AggregateGame(game, []models.ClassifiedMove{opening, reply})
	require.NoError(t, err)

	require.NotNil(t, agg.OpeningACPL)
	assert.InDelta(t, 20.0, *agg.OpeningACPL, 1e-9)
	assert.Nil(t, agg.MiddlegameACPL)
	assert.Nil(t, agg.EndgameACPL)
}

func TestAggregateGame_NonContiguousPliesAreFatal(t *testing.T) {
	game := models.Game{ID: 5, PlayedAs: models.ColorWhite}
	moves := []models.ClassifiedMove{
		classifiedMove(0, 5, true),
		classifiedMove(7, 5, false),
	}

	_, err := analysis.AggregateGame(game, moves)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrCodeMalformedInput, appErr.Code)
}

func TestAggregateGame_Deterministic(t *testing.T) {
	game, moves := alternatingGame(6, true, []int{5, 8, 200, 3})

	first, err := analysis.AggregateGame(game, moves)
	require.NoError(t, err)
	second, err := analysis.AggregateGame(game, moves)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
