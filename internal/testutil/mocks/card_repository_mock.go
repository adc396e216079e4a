package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sentencease/client/internal/models"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Put(ctx context.Context, card models.WordCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) PutBatch(ctx context.Context, cards []models.WordCard) error {
	args := m.Called(ctx, cards)
	return args.Error(0)
}

func (m *MockCardRepository) Get(ctx context.Context, meaningID int64) (*models.WordCard, error) {
	args := m.Called(ctx, meaningID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WordCard), args.Error(1)
}

func (m *MockCardRepository) All(ctx context.Context) ([]models.WordCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WordCard), args.Error(1)
}

func (m *MockCardRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
