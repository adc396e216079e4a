package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sentencease/client/internal/models"
)

// MockProgressRepository is a mock implementation of repository.ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) Get(ctx context.Context) (models.ProgressSnapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.ProgressSnapshot), args.Error(1)
}

func (m *MockProgressRepository) Set(ctx context.Context, snapshot models.ProgressSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockProgressRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
