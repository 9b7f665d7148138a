package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pls-team/pls-backend/internal/models"
)

// MockProfileReader is a mock implementation of ProfileReader
type MockProfileReader struct {
	mock.Mock
}

func (m *MockProfileReader) GetProfile(ctx context.Context, username string) (*models.UserProfile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserProfile), args.Error(1)
}
