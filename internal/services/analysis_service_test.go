package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chesslens/internal/analysis"
	"chesslens/internal/engine"
	apperrors "chesslens/internal/errors"
	"chesslens/internal/models"
	"chesslens/internal/services"
	"chesslens/internal/testutil/mocks"
)

// allBook answers every lookup with the played move well above the noise
// floor, so any game walks through it as pure book.
type allBook struct{}

func (allBook) Lookup(ctx context.Context, fen string) ([]analysis.BookMove, error) {
	return []analysis.BookMove{
		{UCI: "e2e4", Games: 5000},
		{UCI: "e7e5", Games: 5000},
		{UCI: "g1f3", Games: 5000},
		{UCI: "b8c6", Games: 5000},
	}, nil
}

func TestAnalyzeGame_FullPipeline(t *testing.T) {
	games := new(mocks.MockGameRepository)
	moves := new(mocks.MockMoveRepository)
	evaluator := new(mocks.MockEvaluator)

	games.On("Get", mock.Anything, int64(1)).Return(pendingGame(1), nil)
	games.On("UpdateStatus", mock.Anything, int64(1), models.AnalysisProcessing).Return(nil)
	games.On("UpdateTotalMoves", mock.Anything, int64(1), 4).Return(nil)
	games.On("UpdateOpening", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(nil)
	games.On("UpdateStatus", mock.Anything, int64(1), models.AnalysisCompleted).Return(nil)

	// 4 plies touch 5 distinct positions.
	evaluator.On("Evaluate", mock.Anything, mock.Anything, 16).
		Return(engine.PositionEval{Score: models.Score{CP: 20}, Depth: 16}, nil).Times(5)

	var stored []models.ClassifiedMove
	moves.On("ReplaceForGame", mock.Anything, int64(1), mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(2).([]models.ClassifiedMove)
		}).Return(nil)

	svc := services.NewAnalysisService(games, moves, evaluator, nil, 16, testCfg())
	require.NoError(t, svc.AnalyzeGame(context.Background(), 1))

	require.Len(t, stored, 4)
	for i, m := range stored {
		assert.Equal(t, i, m.Ply)
		require.NotNil(t, m.Eval, "every move is evaluated")
		assert.Equal(t, models.ClassificationGood, m.Classification)
		assert.Equal(t, models.PhaseOpening, m.Phase)
	}

	games.AssertExpectations(t)
	moves.AssertExpectations(t)
	evaluator.AssertExpectations(t)
}

func TestAnalyzeGame_BookMovesLabeled(t *testing.T) {
	games := new(mocks.MockGameRepository)
	moves := new(mocks.MockMoveRepository)
	evaluator := new(mocks.MockEvaluator)

	games.On("Get", mock.Anything, int64(1)).Return(pendingGame(1), nil)
	games.On("UpdateStatus", mock.Anything, int64(1), mock.Anything).Return(nil)
	games.On("UpdateTotalMoves", mock.Anything, int64(1), 4).Return(nil)
	games.On("UpdateOpening", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(nil)
	games.On("UpdateDeviation", mock.Anything, int64(1), (*int)(nil), false).Return(nil)

	evaluator.On("Evaluate", mock.Anything, mock.Anything, 16).
		Return(engine.PositionEval{Score: models.Score{CP: 20}, Depth: 16}, nil)

	var stored []models.ClassifiedMove
	moves.On("ReplaceForGame", mock.Anything, int64(1), mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(2).([]models.ClassifiedMove)
		}).Return(nil)

	svc := services.NewAnalysisService(games, moves, evaluator, allBook{}, 16, testCfg())
	require.NoError(t, svc.AnalyzeGame(context.Background(), 1))

	require.Len(t, stored, 4)
	for _, m := range stored {
		assert.Equal(t, models.ClassificationBook, m.Classification,
			"a game that never left book is all book moves")
	}
	games.AssertCalled(t, "UpdateDeviation", mock.Anything, int64(1), (*int)(nil), false)
}

func TestAnalyzeGame_AlreadyCompleted(t *testing.T) {
	games := new(mocks.MockGameRepository)

	done := pendingGame(1)
	done.AnalysisStatus = models.AnalysisCompleted
	games.On("Get", mock.Anything, int64(1)).Return(done, nil)

	svc := services.NewAnalysisService(games, new(mocks.MockMoveRepository), new(mocks.MockEvaluator), nil, 16, testCfg())
	require.NoError(t, svc.AnalyzeGame(context.Background(), 1))

	games.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnalyzeGame_NotFound(t *testing.T) {
	games := new(mocks.MockGameRepository)
	games.On("Get", mock.Anything, int64(99)).Return(nil, nil)

	svc := services.NewAnalysisService(games, new(mocks.MockMoveRepository), new(mocks.MockEvaluator), nil, 16, testCfg())
	err := svc.AnalyzeGame(context.Background(), 99)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestAnalyzeGame_PartialEvaluationStaysPending(t *testing.T) {
	games := new(mocks.MockGameRepository)
	moves := new(mocks.MockMoveRepository)
	evaluator := new(mocks.MockEvaluator)

	games.On("Get", mock.Anything, int64(1)).Return(pendingGame(1), nil)
	games.On("UpdateStatus", mock.Anything, int64(1), models.AnalysisProcessing).Return(nil)
	games.On("UpdateTotalMoves", mock.Anything, int64(1), 4).Return(nil)
	games.On("UpdateOpening", mock.Anything, int64(1), mock.Anything, mock.Anything).Return(nil)
	games.On("UpdateStatus", mock.Anything, int64(1), models.AnalysisPending).Return(nil)

	// Third position fails; the two moves around it stay unclassified.
	evaluator.On("Evaluate", mock.Anything, mock.Anything, 16).
		Return(engine.PositionEval{Score: models.Score{CP: 20}, Depth: 16}, nil).Twice()
	evaluator.On("Evaluate", mock.Anything, mock.Anything, 16).
		Return(engine.PositionEval{}, errors.New("engine unavailable")).Once()
	evaluator.On("Evaluate", mock.Anything, mock.Anything, 16).
		Return(engine.PositionEval{Score: models.Score{CP: 20}, Depth: 16}, nil).Twice()

	var stored []models.ClassifiedMove
	moves.On("ReplaceForGame", mock.Anything, int64(1), mock.Anything).
		Run(func(args mock.Arguments) {
			stored = args.Get(2).([]models.ClassifiedMove)
		}).Return(nil)

	svc := services.NewAnalysisService(games, moves, evaluator, nil, 16, testCfg())
	require.NoError(t, svc.AnalyzeGame(context.Background(), 1))

	require.Len(t, stored, 4)
	assert.NotNil(t, stored[0].Eval)
	assert.Nil(t, stored[1].Eval, "move before the failed position has no after-score")
	assert.Nil(t, stored[2].Eval, "move after the failed position has no before-score")
	assert.NotNil(t, stored[3].Eval)

	games.AssertCalled(t, "UpdateStatus", mock.Anything, int64(1), models.AnalysisPending)
}

func TestProgress(t *testing.T) {
	games := new(mocks.MockGameRepository)
	moves := new(mocks.MockMoveRepository)

	game := pendingGame(1)
	game.AnalysisStatus = models.AnalysisProcessing
	game.TotalMoves = 4
	games.On("Get", mock.Anything, int64(1)).Return(game, nil)
	moves.On("CountAnalyzed", mock.Anything, int64(1)).Return(2, nil)

	svc := services.NewAnalysisService(games, moves, new(mocks.MockEvaluator), nil, 16, testCfg())
	progress, err := svc.Progress(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, models.AnalysisProcessing, progress.Status)
	assert.Equal(t, 2, progress.MovesAnalyzed)
	assert.Equal(t, 4, progress.TotalMoves)
}
