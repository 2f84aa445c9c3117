package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chesslens/internal/models"
	"chesslens/internal/repository"
	"chesslens/internal/repository/sqlite"
	"chesslens/internal/testutil"
)

func newMoveFixtures(t *testing.T) (repository.MoveRepository, int64) {
	t.Helper()
	db := testutil.NewTestDB(t)

	profile, err := sqlite.NewProfileRepository(db).Upsert(context.Background(), "alice")
	require.NoError(t, err)
	gameID, err := sqlite.NewGameRepository(db).Insert(context.Background(), testGame(profile.ID, "g1"))
	require.NoError(t, err)

	return sqlite.NewMoveRepository(db), gameID
}

func analyzedMove(ply int, loss int) models.ClassifiedMove {
	clock := 120.0
	mate := -2
	return models.ClassifiedMove{
		MoveRecord: models.MoveRecord{
			Ply:          ply,
			IsWhite:      ply%2 == 0,
			SAN:          "e4",
			UCI:          "e2e4",
			FENBefore:    "fen-before",
			FENAfter:     "fen-after",
			ClockSeconds: &clock,
		},
		Eval: &models.Evaluation{
			ScoreBefore: models.Score{CP: loss},
			ScoreAfter:  models.Score{CP: 0, Mate: &mate},
			BestMoveUCI: "d2d4",
			BestMoveSAN: "d4",
			Depth:       16,
		},
		CentipawnLoss:  loss,
		Classification: models.ClassificationGood,
		Phase:          models.PhaseOpening,
	}
}

func TestMoveRepository_RoundTrip(t *testing.T) {
	moves, gameID := newMoveFixtures(t)
	ctx := context.Background()

	pending := models.ClassifiedMove{
		MoveRecord: models.MoveRecord{Ply: 1, IsWhite: false, SAN: "e5", UCI: "e7e5", FENBefore: "f1", FENAfter: "f2"},
	}
	require.NoError(t, moves.ReplaceForGame(ctx, gameID, []models.ClassifiedMove{
		analyzedMove(0, 12),
		pending,
	}))

	got, err := moves.MovesForGame(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, 0, first.Ply)
	assert.True(t, first.IsWhite)
	require.NotNil(t, first.Eval)
	assert.Equal(t, 12, first.Eval.ScoreBefore.CP)
	require.NotNil(t, first.Eval.ScoreAfter.Mate)
	assert.Equal(t, -2, *first.Eval.ScoreAfter.Mate)
	assert.Equal(t, "d2d4", first.Eval.BestMoveUCI)
	assert.Equal(t, 16, first.Eval.Depth)
	assert.Equal(t, models.ClassificationGood, first.Classification)
	assert.Equal(t, models.PhaseOpening, first.Phase)
	require.NotNil(t, first.ClockSeconds)
	assert.InDelta(t, 120.0, *first.ClockSeconds, 1e-9)

	second := got[1]
	assert.Nil(t, second.Eval, "pending move has no evaluation")
	assert.False(t, second.Analyzed())
	assert.Nil(t, second.ClockSeconds)
}

func TestMoveRepository_ReplaceIsAtomic(t *testing.T) {
	moves, gameID := newMoveFixtures(t)
	ctx := context.Background()

	require.NoError(t, moves.ReplaceForGame(ctx, gameID, []models.ClassifiedMove{
		analyzedMove(0, 5),
		analyzedMove(1, 8),
		analyzedMove(2, 200),
	}))
	require.NoError(t, moves.ReplaceForGame(ctx, gameID, []models.ClassifiedMove{
		analyzedMove(0, 7),
	}))

	got, err := moves.MovesForGame(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, got, 1, "replacement clears the previous rows")
	assert.Equal(t, 7, got[0].CentipawnLoss)
}

func TestMoveRepository_CountAnalyzed(t *testing.T) {
	moves, gameID := newMoveFixtures(t)
	ctx := context.Background()

	pending := models.ClassifiedMove{
		MoveRecord: models.MoveRecord{Ply: 2, IsWhite: true, SAN: "Nf3", UCI: "g1f3", FENBefore: "f1", FENAfter: "f2"},
	}
	require.NoError(t, moves.ReplaceForGame(ctx, gameID, []models.ClassifiedMove{
		analyzedMove(0, 5),
		analyzedMove(1, 8),
		pending,
	}))

	count, err := moves.CountAnalyzed(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMoveRepository_DeleteForGame(t *testing.T) {
	moves, gameID := newMoveFixtures(t)
	ctx := context.Background()

	require.NoError(t, moves.ReplaceForGame(ctx, gameID, []models.ClassifiedMove{analyzedMove(0, 5)}))
	require.NoError(t, moves.DeleteForGame(ctx, gameID))

	got, err := moves.MovesForGame(ctx, gameID)
	require.NoError(t, err)
	assert.Empty(t, got)
}
