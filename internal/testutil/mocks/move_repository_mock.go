package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chesslens/internal/models"
)

// MockMoveRepository is a mock implementation of repository.MoveRepository
type MockMoveRepository struct {
	mock.Mock
}

func (m *MockMoveRepository) ReplaceForGame(ctx context.Context, gameID int64, moves []models.ClassifiedMove) error {
	args := m.Called(ctx, gameID, moves)
	return args.Error(0)
}

func (m *MockMoveRepository) MovesForGame(ctx context.Context, gameID int64) ([]models.ClassifiedMove, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ClassifiedMove), args.Error(1)
}

func (m *MockMoveRepository) CountAnalyzed(ctx context.Context, gameID int64) (int, error) {
	args := m.Called(ctx, gameID)
	return args.Int(0), args.Error(1)
}

func (m *MockMoveRepository) DeleteForGame(ctx context.Context, gameID int64) error {
	args := m.Called(ctx, gameID)
	return args.Error(0)
}
