package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chesslens/internal/engine"
)

// MockEvaluator is a mock implementation of engine.Evaluator
type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) Evaluate(ctx context.Context, fen string, depth int) (engine.PositionEval, error) {
	args := m.Called(ctx, fen, depth)
	return args.Get(0).(engine.PositionEval), args.Error(1)
}
