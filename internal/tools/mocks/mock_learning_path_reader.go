package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pls-team/pls-backend/internal/models"
)

// MockLearningPathReader is a mock implementation of LearningPathReader
type MockLearningPathReader struct {
	mock.Mock
}

func (m *MockLearningPathReader) GetByUsername(ctx context.Context, username string) (*models.LearningPath, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LearningPath), args.Error(1)
}
